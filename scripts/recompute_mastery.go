// 手动触发掌握度重算脚本
//
// 掌握度随每次复习增量更新，正常运行不需要本脚本。
// 仅在掌握度公式参数调整或历史数据批量导入后用于全量回填。
//
// 用法: go run scripts/recompute_mastery.go

package main

import (
	"adaptive_quiz_backend/internal/config"
	"adaptive_quiz_backend/internal/model"
	"adaptive_quiz_backend/pkg/database"
	"adaptive_quiz_backend/pkg/forgetting"
	"adaptive_quiz_backend/pkg/logger"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	var items []model.LearningItem
	if err := db.Find(&items).Error; err != nil {
		log.Fatalf("读取错题条目失败: %v", err)
	}

	log.Printf("开始重算 %d 个条目的掌握度...", len(items))
	updated := 0
	for i := range items {
		item := &items[i]
		mastery := forgetting.ComputeMastery(item.CorrectCount, item.IncorrectCount, item.ConsecutiveCorrect)
		if mastery == item.MasteryLevel {
			continue
		}
		if err := db.Model(item).Update("mastery_level", mastery).Error; err != nil {
			log.Printf("条目 %s 更新失败: %v", item.ID, err)
			continue
		}
		updated++
	}
	log.Printf("完成！共更新 %d 个条目", updated)
}
