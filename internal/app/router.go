package app

import (
	"net/http"
	"path/filepath"
	"strings"

	"training_portal_backend/docs"
	"training_portal_backend/internal/config"
	"training_portal_backend/internal/middleware"
	"training_portal_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由（无需解锁）
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/gate/unlock", c.gate.Unlock)
	}

	// 2. 闸门之后的业务路由
	gated := router.Group("/api")
	gated.Use(middleware.GateMiddleware(a.CurrentConfig))
	{
		a.registerTrainingRoutes(gated, c)
		a.registerProfileRoutes(gated, c)
		a.registerCertificateRoutes(gated, c)
	}

	// 3. 前端静态资源
	a.registerStaticRoutes(router, cfg)
}

func (a *App) registerTrainingRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/training/modules", c.training.ListModules)
	rg.GET("/training/modules/:id", c.training.GetModule)
	rg.GET("/training/modules/:id/sections/:index/pages", c.training.GetSectionPages)
	rg.PUT("/training/modules/:id/progress", c.training.UpdateProgress)
	rg.POST("/training/modules/:id/complete", c.training.CompleteModule)
	rg.POST("/training/modules/:id/access", c.training.UpdateModuleAccess)
	rg.POST("/training/modules/:id/time-spent", c.training.UpdateTimeSpent)
	rg.PUT("/training/modules/:id/quiz-score", c.training.UpdateQuizScore)
	rg.POST("/training/modules/:id/reset", c.training.ResetModule)
	rg.POST("/training/progress/reset", c.training.ResetProgress)
	rg.DELETE("/training/data", c.training.ClearAllData)
	rg.GET("/training/stats", c.training.GetStats)
}

func (a *App) registerProfileRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.POST("/profile/onboarding", c.user.CompleteOnboarding)
	rg.PUT("/profile/name", c.user.UpdateName)
	rg.GET("/profile", c.user.GetUserData)
	rg.DELETE("/profile", c.user.ResetOnboarding)
}

func (a *App) registerCertificateRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/certificates/summary", c.certificate.GetSummary)
	rg.GET("/certificates/completion", c.certificate.ExtractCompletionData)
	rg.POST("/certificates", c.certificate.GenerateCertificate)
	rg.GET("/certificates", c.certificate.GetHistory)
	rg.PUT("/certificates/user-data", c.certificate.SaveUserData)
	rg.PATCH("/certificates/flags", c.certificate.UpdateFlags)
	rg.POST("/certificates/:id/artifact", c.certificate.UploadArtifact)
}

// registerStaticRoutes 托管前端构建产物；非 /api 路径回退到 index.html
func (a *App) registerStaticRoutes(router *gin.Engine, cfg *config.Config) {
	if cfg.Storage.Type == "local" && cfg.Storage.LocalPath != "" {
		router.Static("/certificates/files", cfg.Storage.LocalPath)
	}

	staticDir := cfg.Server.StaticDir
	if staticDir == "" {
		return
	}

	router.Static("/assets", filepath.Join(staticDir, "assets"))
	router.StaticFile("/favicon.ico", filepath.Join(staticDir, "favicon.ico"))

	router.NoRoute(func(c *gin.Context) {
		if c.Request.Method == http.MethodGet && !strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.File(filepath.Join(staticDir, "index.html"))
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"code": http.StatusNotFound, "message": "Resource not found"})
	})
}
