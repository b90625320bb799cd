package controller

import (
	"net/http"

	"training_portal_backend/internal/repository"
	"training_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	KV      repository.KVStore
	Backend string
}

func NewHealthController(kv repository.KVStore, backend string) *HealthController {
	return &HealthController{KV: kv, Backend: backend}
}

// @Summary 健康检查
// @Description 检查服务与持久化后端状态
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	storage := "up"
	if pinger, ok := c.KV.(repository.Pinger); ok {
		if err := pinger.Ping(ctx.Request.Context()); err != nil {
			util.Error(ctx, http.StatusServiceUnavailable, "Persistence backend unavailable")
			return
		}
	}

	util.Success(ctx, gin.H{
		"status": "ok",
		"components": gin.H{
			"storage": storage,
			"backend": c.Backend,
		},
	})
}
