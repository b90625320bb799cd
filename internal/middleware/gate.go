package middleware

import (
	"strings"

	"training_portal_backend/internal/config"
	"training_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// GateMiddleware 共享口令闸门。闸门未启用时直接放行；
// 启用时要求携带解锁接口签发的会话令牌。
func GateMiddleware(cfgProvider func() *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg := cfgProvider()
		if !cfg.Gate.Enabled {
			c.Next()
			return
		}

		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseGateToken(tokenString, cfg.JWT.Secret)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("session", claims)
		c.Next()
	}
}
