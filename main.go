// @title 培训门户后端 API
// @version 1.0
// @description 培训学习平台的后端服务：模块进度跟踪、分页、证书签发。

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"

	"training_portal_backend/internal/app"
	"training_portal_backend/internal/config"
	"training_portal_backend/pkg/configwatcher"
	"training_portal_backend/pkg/logger"
)

func main() {
	configPath := flag.String("config", "configs", "配置文件目录")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	// 配置热更新：闸门口令、限流等动态字段随配置文件变化生效
	go configwatcher.WatchConfig(*configPath+"/config.yaml", func(newCfg *config.Config) {
		application.ApplyConfig(newCfg)
		logger.Log.Info("Configuration reloaded")
	})

	application.Run()
}
