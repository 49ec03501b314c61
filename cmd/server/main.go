package main

import (
	"log"

	"github.com/AnkithSVaidya/CineFlare/internal/config"
	"github.com/AnkithSVaidya/CineFlare/internal/database"
	"github.com/AnkithSVaidya/CineFlare/internal/ethereum"
	"github.com/AnkithSVaidya/CineFlare/internal/logger"
	"github.com/AnkithSVaidya/CineFlare/internal/monitor"
	"github.com/AnkithSVaidya/CineFlare/internal/router"
	"github.com/AnkithSVaidya/CineFlare/internal/task"
	"github.com/gin-gonic/gin"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 配置日志
	level := logger.ParseLogLevel(cfg.Log.Level)
	if cfg.Log.Output == "file" {
		l, err := logger.NewWithRotation(level, logger.RotationConfig{Filename: cfg.Log.File})
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		logger.SetDefaultLogger(l)
	} else {
		l, err := logger.New(level)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		logger.SetDefaultLogger(l)
	}
	defer logger.Sync()

	// 初始化数据库
	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化路由
	r := router.Setup(db, cfg)

	// 启动定时任务
	manager := task.Start(db, cfg)
	defer manager.Stop()

	// 启动链上支付监听
	if cfg.Chain.Enabled {
		ethClient, err := ethereum.Init(cfg.Chain)
		if err != nil {
			logger.Fatal("Failed to initialize ethereum client: %v", err)
		}
		paymentMonitor, err := monitor.NewPaymentMonitor(ethClient, db, cfg)
		if err != nil {
			logger.Fatal("Failed to create payment monitor: %v", err)
		}
		if err := paymentMonitor.Start(); err != nil {
			logger.Fatal("Failed to start payment monitor: %v", err)
		}
		defer paymentMonitor.Stop()
	}

	// 启动服务器
	logger.Info("Server starting on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}
