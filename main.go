// @title 自适应自测系统 API
// @version 1.0
// @description 基于知识大纲的自适应出题、判分与遗忘曲线复习服务。

// @contact.name API支持

// @host localhost:8080
// @BasePath /api

package main

import (
	"adaptive_quiz_backend/internal/app"
	"adaptive_quiz_backend/internal/config"
	"adaptive_quiz_backend/pkg/configwatcher"
	"adaptive_quiz_backend/pkg/logger"
	"flag"
	"log"
)

func main() {
	// 命令行参数
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	migrate := flag.Bool("migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 设置迁移标志
	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	// 迁移完成后直接退出
	if *migrateOnly {
		log.Println("数据库迁移完成，退出程序")
		return
	}

	// 出题阈值等参数支持热更新
	go configwatcher.WatchConfig("configs/config.yaml", application.ApplyConfig)

	application.Run()
}
