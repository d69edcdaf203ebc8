package model

import "time"

// LearningItem 错题复习条目，首次答错时创建
// 只允许复习服务修改调度字段；归档代替物理删除
type LearningItem struct {
	UUIDBase
	UserID             uint           `gorm:"index:idx_items_due,priority:1;not null" json:"userId"`
	QuestionID         string         `gorm:"index;type:varchar(36);not null" json:"questionId"`
	KnowledgeNodeID    string         `gorm:"index;type:varchar(36)" json:"knowledgeNodeId"`
	Question           string         `gorm:"type:text;not null" json:"question"`
	CorrectAnswer      string         `gorm:"type:text;not null" json:"correctAnswer"`
	UserAnswer         string         `gorm:"type:text" json:"userAnswer"`
	MasteryLevel       int            `gorm:"not null;default:0" json:"masteryLevel"` // [0,100]
	ReviewCount        int            `gorm:"not null;default:0" json:"reviewCount"`
	CorrectCount       int            `gorm:"not null;default:0" json:"correctCount"`
	IncorrectCount     int            `gorm:"not null;default:0" json:"incorrectCount"`
	ConsecutiveCorrect int            `gorm:"not null;default:0" json:"consecutiveCorrect"`
	LastReviewAt       *time.Time     `json:"lastReviewAt,omitempty"`
	NextReviewAt       time.Time      `gorm:"index:idx_items_due,priority:2;not null" json:"nextReviewAt"`
	IsArchived         bool           `gorm:"index:idx_items_due,priority:3;not null;default:false" json:"isArchived"`
}

func (LearningItem) TableName() string {
	return "learning_items"
}
