package util

import "errors"

// 输入类错误：请求进入编排器之前就能确定失败，不会触发任何 Oracle 调用
var (
	ErrInvalidCount        = errors.New("question count must be a positive integer")
	ErrCountTooLarge       = errors.New("question count exceeds the configured maximum")
	ErrNoQuestionTypes     = errors.New("at least one question type is required")
	ErrUnknownQuestionType = errors.New("unknown question type")
	ErrUnknownDifficulty   = errors.New("unknown difficulty")
	ErrEmptyKnowledgePool  = errors.New("knowledge outline has no nodes")
)

var (
	ErrGenerationFailed = errors.New("no questions survived generation")
	ErrQuizSubmitted    = errors.New("quiz already submitted")
	ErrItemArchived     = errors.New("learning item is archived")
	ErrNotOwner         = errors.New("resource belongs to another user")
)
