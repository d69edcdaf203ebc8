package model

// QuizAnswer 一道题的判分结果
// Score 仅开放题型填充，客观题只有对错
type QuizAnswer struct {
	UUIDBase
	QuizID      string   `gorm:"index;type:varchar(36);not null" json:"quizId"`
	QuestionID  string   `gorm:"index;type:varchar(36);not null" json:"questionId"`
	UserID      uint     `gorm:"index;not null" json:"userId"`
	UserAnswer  string   `gorm:"type:text" json:"userAnswer"`
	IsCorrect   bool     `gorm:"not null" json:"isCorrect"`
	Score       *float64 `json:"score,omitempty"` // [0,1]
	Feedback    string   `gorm:"type:text" json:"feedback,omitempty"`
	Remediation string   `gorm:"type:json" json:"remediation,omitempty"` // Snippet array JSON
	GradeError  string   `gorm:"size:255" json:"gradeError,omitempty"`
}

func (QuizAnswer) TableName() string {
	return "quiz_answers"
}
