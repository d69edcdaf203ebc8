package model


type QuestionType string

const (
	QChoice      QuestionType = "choice"
	QFillBlank   QuestionType = "fill_blank"
	QShortAnswer QuestionType = "short_answer"
)

// KnownQuestionType 判断题型是否受支持
func KnownQuestionType(t QuestionType) bool {
	switch t {
	case QChoice, QFillBlank, QShortAnswer:
		return true
	}
	return false
}

type Difficulty string

const (
	DiffEasy   Difficulty = "easy"
	DiffMedium Difficulty = "medium"
	DiffHard   Difficulty = "hard"
)

func KnownDifficulty(d Difficulty) bool {
	switch d {
	case DiffEasy, DiffMedium, DiffHard:
		return true
	}
	return false
}

// Quiz 一次生成运行产出的测验，题目数可能少于请求数（部分节点重试耗尽）
type Quiz struct {
	UUIDBase
	UserID         uint           `gorm:"index;not null" json:"userId"`
	OutlineID      string         `gorm:"index;type:varchar(36);not null" json:"outlineId"`
	Title          string         `gorm:"size:255" json:"title"`
	Difficulty     Difficulty     `gorm:"size:20;not null" json:"difficulty"`
	RequestedCount int            `gorm:"not null" json:"requestedCount"`
	QuestionCount  int            `gorm:"not null" json:"questionCount"`
	Status         string         `gorm:"size:20;default:'ready'" json:"status"` // ready, submitted
	Questions      []QuizQuestion `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// QuizQuestion 通过质量校验后被接受的题目
// 同一测验内 Order 为 1..N 的稠密排列，每个知识点至多一题
type QuizQuestion struct {
	UUIDBase
	QuizID          string       `gorm:"index;type:varchar(36);not null" json:"quizId"`
	KnowledgeNodeID string       `gorm:"index;type:varchar(36);not null" json:"knowledgeNodeId"`
	QuestionType    QuestionType `gorm:"size:20;not null" json:"questionType"`
	Content         string       `gorm:"type:text;not null" json:"content"`
	Options         string       `gorm:"type:json" json:"options,omitempty"` // string array JSON: ["A", "B"]
	Answer          string       `gorm:"type:text;not null" json:"-"`
	Explanation     string       `gorm:"type:text" json:"explanation,omitempty"`
	Difficulty      Difficulty   `gorm:"size:20;not null" json:"difficulty"`
	Order           int          `gorm:"not null" json:"order"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}
