package controller

import (
	"training_portal_backend/internal/config"
	"training_portal_backend/internal/model"
	"training_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// GateController 单一共享口令闸门：口令正确即换取会话令牌，不涉及用户身份
type GateController struct {
	Config func() *config.Config
}

func NewGateController(cfgProvider func() *config.Config) *GateController {
	return &GateController{Config: cfgProvider}
}

type unlockRequest struct {
	AccessCode string `json:"accessCode" binding:"required"`
}

// @Summary 解锁访问
// @Description 校验共享口令并签发会话令牌；闸门未启用时直接返回成功
// @Tags 系统
// @Accept json
// @Produce json
// @Param body body unlockRequest true "口令"
// @Success 200 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /api/gate/unlock [post]
func (c *GateController) Unlock(ctx *gin.Context) {
	cfg := c.Config()

	if !cfg.Gate.Enabled {
		util.Success(ctx, gin.H{"gated": false})
		return
	}

	var req unlockRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cfg.Gate.AccessCodeHash), []byte(req.AccessCode)); err != nil {
		util.Error(ctx, 401, util.ErrInvalidAccessCode.Error())
		return
	}

	token, err := util.GenerateGateToken(model.GenerateSessionID(), cfg.JWT.Secret, cfg.JWT.ExpireTime)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"token": token})
}
