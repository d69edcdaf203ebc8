package service

import (
	"adaptive_quiz_backend/internal/config"
	"adaptive_quiz_backend/internal/model"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradeChoice(t *testing.T) {
	cases := []struct {
		name     string
		user     string
		expected string
		correct  bool
	}{
		{"exact", "B", "B", true},
		{"whitespace trimmed", "  B ", "B", true},
		{"case insensitive", "b", "B", true},
		{"full option text", "二叉搜索树", "二叉搜索树", true},
		{"wrong option", "A", "B", false},
		{"empty answer", "", "B", false},
		{"whitespace only", "   ", "B", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.correct, gradeChoice(tc.user, tc.expected))
		})
	}
}

func TestGradeFillBlank(t *testing.T) {
	cases := []struct {
		name     string
		user     string
		expected string
		correct  bool
	}{
		{"exact", "quicksort", "quicksort", true},
		{"case insensitive exact", "QuickSort", "quicksort", true},
		{"trimmed", " quicksort ", "quicksort", true},
		{"empty", "", "quicksort", false},
		{"wrong", "mergesort", "quicksort", false},
		// 关键词覆盖：3 个关键词命中 3 个
		{"all keywords covered", "depth first search algorithm", "depth first search", true},
		// 3 个关键词只命中 2 个，覆盖率 0.667 < 0.7
		{"partial coverage below threshold", "depth first", "depth first search", false},
		// 包含匹配：答案文本包含关键词即算覆盖
		{"containment counts", "平衡二叉搜索树", "二叉 搜索", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.correct, gradeFillBlank(tc.user, tc.expected))
		})
	}
}

func newTestGradingService(oracle TextCompleter) *GradingService {
	return &GradingService{
		oracle: oracle,
		cfg: config.QuizConfig{
			ShortAnswerThreshold: 0.6,
		},
	}
}

func TestGradeShortAnswerCorrect(t *testing.T) {
	oracle := &stubCompleter{reply: `{"score": 0.85, "feedback": "要点齐全"}`}
	s := newTestGradingService(oracle)

	q := model.QuizQuestion{
		QuestionType: model.QShortAnswer,
		Content:      "简述快速排序的平均时间复杂度及原因",
		Answer:       "平均 O(n log n)，每轮划分近似均分",
	}
	ans := s.gradeQuestion(context.Background(), "outline-1", q, "平均是 O(n log n)，因为每次划分大致对半")

	assert.True(t, ans.IsCorrect)
	require.NotNil(t, ans.Score)
	assert.InDelta(t, 0.85, *ans.Score, 1e-9)
	assert.Equal(t, "要点齐全", ans.Feedback)
	assert.Empty(t, ans.GradeError)
}

func TestGradeShortAnswerBelowThreshold(t *testing.T) {
	oracle := &stubCompleter{reply: `{"score": 0.3, "feedback": "没有说明原因"}`}
	s := newTestGradingService(oracle)

	q := model.QuizQuestion{QuestionType: model.QShortAnswer, Content: "题", Answer: "答"}
	ans := s.gradeQuestion(context.Background(), "outline-1", q, "O(n log n)")

	assert.False(t, ans.IsCorrect)
	require.NotNil(t, ans.Score)
	assert.InDelta(t, 0.3, *ans.Score, 1e-9)
}

func TestGradeShortAnswerEmptySkipsOracle(t *testing.T) {
	oracle := &stubCompleter{reply: `{"score": 1, "feedback": "x"}`}
	s := newTestGradingService(oracle)

	q := model.QuizQuestion{QuestionType: model.QShortAnswer, Content: "题", Answer: "答"}
	ans := s.gradeQuestion(context.Background(), "outline-1", q, "   ")

	assert.False(t, ans.IsCorrect)
	require.NotNil(t, ans.Score)
	assert.Zero(t, *ans.Score)
	assert.Zero(t, oracle.calls, "空答案不需要请求评分")
}

func TestGradeShortAnswerScoreClamped(t *testing.T) {
	oracle := &stubCompleter{reply: `{"score": 1.7, "feedback": "x"}`}
	s := newTestGradingService(oracle)

	q := model.QuizQuestion{QuestionType: model.QShortAnswer, Content: "题", Answer: "答"}
	ans := s.gradeQuestion(context.Background(), "outline-1", q, "任意回答")

	require.NotNil(t, ans.Score)
	assert.InDelta(t, 1.0, *ans.Score, 1e-9)
}

func TestGradeShortAnswerOracleErrorMarksAnswer(t *testing.T) {
	oracle := &stubCompleter{err: errors.New("timeout")}
	s := newTestGradingService(oracle)

	q := model.QuizQuestion{QuestionType: model.QShortAnswer, Content: "题", Answer: "答"}
	ans := s.gradeQuestion(context.Background(), "outline-1", q, "回答")

	assert.False(t, ans.IsCorrect)
	assert.Nil(t, ans.Score)
	assert.NotEmpty(t, ans.GradeError, "评分器故障应标记单题错误而不是中断整批")
}

func TestGradeQuestionUnknownType(t *testing.T) {
	s := newTestGradingService(&stubCompleter{})

	q := model.QuizQuestion{QuestionType: "essay", Content: "题", Answer: "答"}
	ans := s.gradeQuestion(context.Background(), "outline-1", q, "回答")

	assert.False(t, ans.IsCorrect)
	assert.Contains(t, ans.GradeError, "unknown question type")
}

func TestGradeQuestionChoiceDispatch(t *testing.T) {
	oracle := &stubCompleter{}
	s := newTestGradingService(oracle)

	q := model.QuizQuestion{QuestionType: model.QChoice, Content: "题", Answer: "B"}

	ans := s.gradeQuestion(context.Background(), "outline-1", q, "b")
	assert.True(t, ans.IsCorrect)

	ans = s.gradeQuestion(context.Background(), "outline-1", q, "A")
	assert.False(t, ans.IsCorrect)
	assert.Zero(t, oracle.calls, "客观题判分不依赖外部评分")
}

// fakeSnippets 固定返回补救片段
type fakeSnippets struct {
	snippets []Snippet
	err      error
}

func (f *fakeSnippets) FindSimilarSnippets(context.Context, string, string, int) ([]Snippet, error) {
	return f.snippets, f.err
}

func TestGradeQuestionWrongAnswerGetsRemediation(t *testing.T) {
	s := newTestGradingService(&stubCompleter{})
	s.snippets = &fakeSnippets{snippets: []Snippet{{NodeID: "n1", Text: "二叉搜索树的定义"}}}

	q := model.QuizQuestion{QuestionType: model.QChoice, Content: "题", Answer: "B"}
	ans := s.gradeQuestion(context.Background(), "outline-1", q, "A")

	assert.False(t, ans.IsCorrect)
	assert.Contains(t, ans.Remediation, "二叉搜索树的定义")
}

func TestGradeQuestionRemediationFailureDegrades(t *testing.T) {
	s := newTestGradingService(&stubCompleter{})
	s.snippets = &fakeSnippets{err: errors.New("db down")}

	q := model.QuizQuestion{QuestionType: model.QChoice, Content: "题", Answer: "B"}
	ans := s.gradeQuestion(context.Background(), "outline-1", q, "A")

	assert.False(t, ans.IsCorrect)
	assert.Empty(t, ans.Remediation, "检索失败应降级为空补救列表")
}

func TestGradeQuestionCorrectAnswerNoRemediation(t *testing.T) {
	s := newTestGradingService(&stubCompleter{})
	s.snippets = &fakeSnippets{snippets: []Snippet{{NodeID: "n1", Text: "x"}}}

	q := model.QuizQuestion{QuestionType: model.QChoice, Content: "题", Answer: "B"}
	ans := s.gradeQuestion(context.Background(), "outline-1", q, "B")

	assert.True(t, ans.IsCorrect)
	assert.Empty(t, ans.Remediation)
}

func TestRecordWrongAnswerRecomputesMastery(t *testing.T) {
	item := &model.LearningItem{
		CorrectCount:       3,
		IncorrectCount:     0,
		ConsecutiveCorrect: 3,
		MasteryLevel:       80,
	}

	recordWrongAnswer(item, "错误作答")

	assert.Equal(t, 1, item.IncorrectCount)
	assert.Equal(t, 0, item.ConsecutiveCorrect)
	assert.Equal(t, "错误作答", item.UserAnswer)
	assert.Equal(t, 37, item.MasteryLevel, "答错后掌握度立即按新计数重算，不等下次复习")
}
