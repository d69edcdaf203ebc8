package service

import (
	"adaptive_quiz_backend/internal/model"
	"adaptive_quiz_backend/pkg/logger"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const DefaultQualityThreshold = 0.7

// CandidateQuestion 从 Oracle 输出解析出的候选题，通过校验前不落库
type CandidateQuestion struct {
	Content     string             `json:"question"`
	Type        model.QuestionType `json:"type"`
	Options     []string           `json:"options,omitempty"`
	Answer      string             `json:"answer"`
	Explanation string             `json:"explanation,omitempty"`
}

type ValidationResult struct {
	IsValid bool    `json:"isValid"`
	Score   float64 `json:"score"`
	Reason  string  `json:"reason,omitempty"`
}

// QuestionValidator 候选题质量门禁
// 先跑确定性预检，全部通过后才调用外部评分器；预检失败不产生任何外部调用
type QuestionValidator struct {
	oracle    TextCompleter
	threshold float64
}

func NewQuestionValidator(oracle TextCompleter, threshold float64) *QuestionValidator {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultQualityThreshold
	}
	return &QuestionValidator{oracle: oracle, threshold: threshold}
}

// 疑问引导词，题干没有问号时至少要以其中之一开头
var interrogativeLeads = []string{
	"what", "which", "why", "how", "when", "where", "who", "whose",
	"name", "list", "explain", "describe", "define", "state", "identify",
	"什么", "为什么", "如何", "怎样", "哪", "请", "简述", "判断", "说明", "列举",
}

func looksInterrogative(content string) bool {
	if strings.ContainsAny(content, "?？") {
		return true
	}
	lowered := strings.ToLower(strings.TrimSpace(content))
	for _, lead := range interrogativeLeads {
		if strings.HasPrefix(lowered, lead) {
			return true
		}
	}
	return false
}

func (v *QuestionValidator) precheck(c CandidateQuestion) string {
	if strings.TrimSpace(c.Content) == "" {
		return "question text is empty"
	}
	if strings.TrimSpace(c.Answer) == "" {
		return "answer is empty"
	}
	if !model.KnownQuestionType(c.Type) {
		return fmt.Sprintf("unsupported question type %q", c.Type)
	}

	length := len([]rune(c.Content))
	if length < 10 || length > 1000 {
		return fmt.Sprintf("question length %d out of range [10, 1000]", length)
	}
	if !looksInterrogative(c.Content) {
		return "question text is not interrogative"
	}

	if c.Type == model.QChoice {
		if len(c.Options) < 3 {
			return fmt.Sprintf("choice question needs at least 3 options, got %d", len(c.Options))
		}
		seen := make(map[string]bool, len(c.Options))
		for _, opt := range c.Options {
			norm := strings.ToLower(strings.TrimSpace(opt))
			if norm == "" {
				return "choice option is empty"
			}
			if seen[norm] {
				return fmt.Sprintf("duplicate choice option %q", opt)
			}
			seen[norm] = true
		}
	}

	return ""
}

type qualityScores struct {
	Relevance       float64 `json:"relevance"`
	Clarity         float64 `json:"clarity"`
	DifficultyMatch float64 `json:"difficulty_match"`
	AnswerQuality   float64 `json:"answer_quality"`
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Validate 校验一道候选题
// 预检失败 → {false, 0, 原因}；评分器出错时给保守分 0.5，不让流水线整体失败
func (v *QuestionValidator) Validate(ctx context.Context, c CandidateQuestion, nodeText string, difficulty model.Difficulty) ValidationResult {
	if reason := v.precheck(c); reason != "" {
		return ValidationResult{IsValid: false, Score: 0, Reason: reason}
	}

	score, reason := v.scoreWithOracle(ctx, c, nodeText, difficulty)
	return ValidationResult{
		IsValid: score >= v.threshold,
		Score:   score,
		Reason:  reason,
	}
}

func (v *QuestionValidator) scoreWithOracle(ctx context.Context, c CandidateQuestion, nodeText string, difficulty model.Difficulty) (float64, string) {
	var sb strings.Builder
	sb.WriteString("请针对以下知识点评估这道题目的质量。\n\n")
	sb.WriteString("知识点：" + SanitizePromptInput(nodeText) + "\n")
	sb.WriteString("期望难度：" + string(difficulty) + "\n\n")
	sb.WriteString("题目：" + SanitizePromptInput(c.Content) + "\n")
	if len(c.Options) > 0 {
		sb.WriteString("选项：" + strings.Join(c.Options, " / ") + "\n")
	}
	sb.WriteString("参考答案：" + SanitizePromptInput(c.Answer) + "\n\n")
	sb.WriteString(`从四个维度各打 0 到 1 的分数，只输出 JSON：` +
		`{"relevance": 0.0, "clarity": 0.0, "difficulty_match": 0.0, "answer_quality": 0.0}`)

	raw, err := v.oracle.Completion(ctx, "你是一个严格的出题质量审核员，只输出 JSON。", sb.String())
	if err != nil {
		logger.Log.Warn("quality scorer unavailable, using conservative score", zap.Error(err))
		return 0.5, "quality scorer unavailable"
	}

	obj, err := ExtractJSONObject(raw)
	if err != nil {
		logger.Log.Warn("quality scorer returned no JSON, using conservative score", zap.Error(err))
		return 0.5, "quality scorer returned malformed output"
	}

	var scores qualityScores
	if err := json.Unmarshal([]byte(obj), &scores); err != nil {
		return 0.5, "quality scorer returned malformed output"
	}

	avg := (clamp01(scores.Relevance) + clamp01(scores.Clarity) +
		clamp01(scores.DifficultyMatch) + clamp01(scores.AnswerQuality)) / 4

	return avg, ""
}
