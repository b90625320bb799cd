package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"training_portal_backend/internal/catalog"
	"training_portal_backend/internal/config"
	"training_portal_backend/internal/controller"
	"training_portal_backend/internal/model"
	"training_portal_backend/internal/repository"
	"training_portal_backend/internal/service"
	"training_portal_backend/pkg/database"
	"training_portal_backend/pkg/logger"
	"training_portal_backend/pkg/monitoring"
	"training_portal_backend/pkg/security"
	"training_portal_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

type App struct {
	Router  *gin.Engine
	KV      repository.KVStore
	Backend string

	cfg             atomic.Pointer[config.Config]
	services        *services
	tracerProvider  *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type services struct {
	progress    *service.TrainingProgressService
	profile     *service.UserProfileService
	certificate *service.CertificateService
	storage     *service.StorageService
}

type controllers struct {
	training    *controller.TrainingController
	user        *controller.UserController
	certificate *controller.CertificateController
	gate        *controller.GateController
	health      *controller.HealthController
}

// CurrentConfig 供中间件等长生命周期闭包读取最新配置
func (a *App) CurrentConfig() *config.Config {
	return a.cfg.Load()
}

// RegisterConfigCallback 注册配置热更新回调
func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 原子替换当前配置并通知已注册回调
func (a *App) ApplyConfig(cfg *config.Config) {
	a.cfg.Store(cfg)
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
}

// initKV 按配置选择持久化后端。后端初始化失败时降级到内存后端而不是终止，
// 服务以"进度不落盘"的降级状态继续运行。
func (a *App) initKV(cfg *config.Config) (repository.KVStore, string) {
	switch cfg.Persistence.Backend {
	case "redis":
		rdb, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Error("redis init failed, falling back to in-memory persistence", zap.Error(err))
			return repository.NewMemoryKV(), "memory"
		}
		return repository.NewRedisKV(rdb), "redis"
	case "mysql":
		db, err := database.InitDB(&cfg.Database)
		if err != nil {
			logger.Log.Error("mysql init failed, falling back to in-memory persistence", zap.Error(err))
			return repository.NewMemoryKV(), "memory"
		}
		return repository.NewGormKV(db), "mysql"
	default:
		return repository.NewMemoryKV(), "memory"
	}
}

func (a *App) initServices(cfg *config.Config) *services {
	s := &services{}
	s.progress = service.NewTrainingProgressService(a.KV, catalog.Static)
	s.profile = service.NewUserProfileService(a.KV)
	s.certificate = service.NewCertificateService(a.KV, s.progress, service.UUIDGenerator{})
	s.storage = service.NewStorageService(cfg)
	return s
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		training:    controller.NewTrainingController(s.progress, s.profile),
		user:        controller.NewUserController(s.profile, s.certificate),
		certificate: controller.NewCertificateController(s.certificate, s.profile, s.storage),
		gate:        controller.NewGateController(a.CurrentConfig),
		health:      controller.NewHealthController(a.KV, a.Backend),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	app := &App{}
	app.cfg.Store(cfg)

	app.KV, app.Backend = app.initKV(cfg)

	services := app.initServices(cfg)
	app.services = services
	controllers := app.initControllers(services)

	// 恢复持久化状态并加载静态目录
	ctx := context.Background()
	services.profile.Load(ctx)
	services.certificate.Load(ctx)
	if err := services.progress.InitializeModules(ctx); err != nil {
		logger.Log.Error("module initialization failed", zap.Error(err))
	}

	monitoring.Init()
	services.progress.OnChange(func(stats model.TrainingStats) {
		monitoring.OverallProgress.Set(float64(stats.OverallProgress))
	})
	monitoring.OverallProgress.Set(float64(services.progress.Stats().OverallProgress))

	gin.SetMode(resolveGinMode(cfg.Server.Mode))
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("training-portal", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracerProvider = tp
	}

	app.registerRoutes(router, controllers, cfg)

	return app
}

func resolveGinMode(mode string) string {
	switch mode {
	case "release":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

func (a *App) Run() {
	cfg := a.CurrentConfig()
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(context.Background()); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	log.Println("Server exiting")
}
