package service

import (
	"adaptive_quiz_backend/internal/config"
	"adaptive_quiz_backend/internal/model"
	"adaptive_quiz_backend/internal/util"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testQuizConfig() config.QuizConfig {
	return config.QuizConfig{
		MaxQuestionCount:     50,
		MaxRetriesPerNode:    3,
		DuplicateThreshold:   0.85,
		QualityThreshold:     0.7,
		ShortAnswerThreshold: 0.6,
		Concurrency:          1,
	}
}

const goodScores = `{"relevance":1,"clarity":1,"difficulty_match":1,"answer_quality":1}`

// scriptedOracle 按调用方区分生成和评分请求：评分请求的 system 提示带“审核员”
type scriptedOracle struct {
	mu       sync.Mutex
	genCalls int
	generate func(n int, user string) (string, error)
	score    func(user string) (string, error)
}

func (o *scriptedOracle) Completion(_ context.Context, system, user string) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if strings.Contains(system, "审核员") || strings.Contains(system, "阅卷") {
		if o.score != nil {
			return o.score(user)
		}
		return goodScores, nil
	}
	o.genCalls++
	return o.generate(o.genCalls, user)
}

func uniqueQuestionJSON(n int) string {
	return fmt.Sprintf(`{"question": "请简述知识要点编号%d的核心概念与典型应用场景？", "answer": "要点%d的标准答案", "explanation": "解析%d"}`, n, n, n)
}

func newTestGenerationService(oracle TextCompleter) *QuizGenerationService {
	return NewQuizGenerationService(nil, nil, oracle, testQuizConfig())
}

func testNodes(count int) []model.KnowledgeNode {
	nodes := make([]model.KnowledgeNode, 0, count)
	for i := 0; i < count; i++ {
		nodes = append(nodes, model.KnowledgeNode{
			UUIDBase: model.UUIDBase{ID: fmt.Sprintf("node-%02d", i)},
			Text:     fmt.Sprintf("知识点 %02d", i),
			Level:    i % 3,
		})
	}
	return nodes
}

func TestGenerateQuizInputValidation(t *testing.T) {
	s := newTestGenerationService(&stubCompleter{})
	ctx := context.Background()

	_, err := s.GenerateQuiz(ctx, 1, GenerateQuizRequest{OutlineID: "o", Count: 0, QuestionTypes: []model.QuestionType{model.QChoice}})
	assert.ErrorIs(t, err, util.ErrInvalidCount)

	_, err = s.GenerateQuiz(ctx, 1, GenerateQuizRequest{OutlineID: "o", Count: 51, QuestionTypes: []model.QuestionType{model.QChoice}})
	assert.ErrorIs(t, err, util.ErrCountTooLarge)

	_, err = s.GenerateQuiz(ctx, 1, GenerateQuizRequest{OutlineID: "o", Count: 5})
	assert.ErrorIs(t, err, util.ErrNoQuestionTypes)

	_, err = s.GenerateQuiz(ctx, 1, GenerateQuizRequest{OutlineID: "o", Count: 5, QuestionTypes: []model.QuestionType{"essay"}})
	assert.ErrorIs(t, err, util.ErrUnknownQuestionType)

	_, err = s.GenerateQuiz(ctx, 1, GenerateQuizRequest{
		OutlineID: "o", Count: 5,
		QuestionTypes: []model.QuestionType{model.QChoice},
		Difficulty:    "impossible",
	})
	assert.ErrorIs(t, err, util.ErrUnknownDifficulty)
}

func TestGenerateQuestionsHappyPath(t *testing.T) {
	oracle := &scriptedOracle{
		generate: func(n int, _ string) (string, error) {
			return uniqueQuestionJSON(n), nil
		},
	}
	s := newTestGenerationService(oracle)

	selected, err := SelectNodes(testNodes(10), 6)
	require.NoError(t, err)
	require.Len(t, selected, 6)

	questions := s.generateQuestions(context.Background(),
		selected, []model.QuestionType{model.QShortAnswer}, model.DiffMedium, testQuizConfig())

	require.Len(t, questions, 6)
	for i, q := range questions {
		assert.Equal(t, i+1, q.Order, "序号必须是 1..N 的稠密排列")
		assert.Equal(t, model.QShortAnswer, q.QuestionType)
		assert.Equal(t, model.DiffMedium, q.Difficulty)
		assert.NotEmpty(t, q.ID)
		assert.NotEmpty(t, q.Answer)
	}

	// 每个知识点至多一题
	perNode := map[string]int{}
	for _, q := range questions {
		perNode[q.KnowledgeNodeID]++
	}
	for nodeID, n := range perNode {
		assert.Equal(t, 1, n, "节点 %s 出了多道题", nodeID)
	}
}

func TestGenerateQuestionsTypeRoundRobin(t *testing.T) {
	oracle := &scriptedOracle{
		generate: func(n int, _ string) (string, error) {
			return fmt.Sprintf(`{"question": "请简述知识要点编号%d的核心概念与典型应用场景？", "options": ["甲%d", "乙%d", "丙%d", "丁%d"], "answer": "甲%d"}`, n, n, n, n, n, n), nil
		},
	}
	s := newTestGenerationService(oracle)

	selected := testNodes(4)
	questions := s.generateQuestions(context.Background(),
		selected, []model.QuestionType{model.QChoice, model.QFillBlank}, model.DiffEasy, testQuizConfig())

	require.Len(t, questions, 4)
	assert.Equal(t, model.QChoice, questions[0].QuestionType)
	assert.Equal(t, model.QFillBlank, questions[1].QuestionType)
	assert.Equal(t, model.QChoice, questions[2].QuestionType)
	assert.Equal(t, model.QFillBlank, questions[3].QuestionType)

	assert.NotEmpty(t, questions[0].Options, "选择题必须带选项")
}

func TestGenerateQuestionsRetryOnParseFailure(t *testing.T) {
	oracle := &scriptedOracle{
		generate: func(n int, _ string) (string, error) {
			if n == 1 {
				return "抱歉，我无法出题", nil
			}
			return uniqueQuestionJSON(n), nil
		},
	}
	s := newTestGenerationService(oracle)

	questions := s.generateQuestions(context.Background(),
		testNodes(1), []model.QuestionType{model.QShortAnswer}, model.DiffMedium, testQuizConfig())

	require.Len(t, questions, 1, "解析失败只消耗一次尝试，重试后应成功")
	assert.Equal(t, 2, oracle.genCalls)
}

func TestGenerateQuestionsNodeExhaustedIsSkipped(t *testing.T) {
	oracle := &scriptedOracle{
		generate: func(n int, _ string) (string, error) {
			return "", fmt.Errorf("oracle down")
		},
	}
	s := newTestGenerationService(oracle)
	cfg := testQuizConfig()

	questions := s.generateQuestions(context.Background(),
		testNodes(2), []model.QuestionType{model.QShortAnswer}, model.DiffMedium, cfg)

	assert.Empty(t, questions)
	assert.Equal(t, 2*cfg.MaxRetriesPerNode, oracle.genCalls, "每个节点耗尽全部尝试后跳过")
}

func TestGenerateQuestionsDuplicateRejected(t *testing.T) {
	// 所有节点都返回同一道题：第一个节点接受，其余节点全部因重复耗尽
	// 查重发生在质量评分之前，重复候选不应再消耗评分调用
	scoreCalls := 0
	oracle := &scriptedOracle{
		generate: func(_ int, _ string) (string, error) {
			return `{"question": "请简述同一道重复出现的题目的核心概念？", "answer": "固定答案"}`, nil
		},
		score: func(_ string) (string, error) {
			scoreCalls++
			return goodScores, nil
		},
	}
	s := newTestGenerationService(oracle)

	questions := s.generateQuestions(context.Background(),
		testNodes(3), []model.QuestionType{model.QShortAnswer}, model.DiffMedium, testQuizConfig())

	require.Len(t, questions, 1)
	assert.Equal(t, 1, questions[0].Order)
	assert.Equal(t, 1, scoreCalls, "只有首次接受的候选经过评分，后续重复在评分前被拦下")
}

func TestGenerateQuestionsConfigReloadDuringRun(t *testing.T) {
	// 运行启动时固定校验器和去重器快照，热更新只影响之后的运行
	oracle := &scriptedOracle{
		generate: func(n int, _ string) (string, error) {
			return uniqueQuestionJSON(n), nil
		},
	}
	s := newTestGenerationService(oracle)
	cfg := testQuizConfig()
	cfg.Concurrency = 4

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			reloaded := testQuizConfig()
			reloaded.QualityThreshold = 0.9
			reloaded.DuplicateThreshold = 0.5
			s.UpdateConfig(reloaded)
		}
	}()

	questions := s.generateQuestions(context.Background(),
		testNodes(12), []model.QuestionType{model.QShortAnswer}, model.DiffMedium, cfg)
	<-done

	require.Len(t, questions, 12)
}

func TestGenerateQuestionsValidatorRejectionRetries(t *testing.T) {
	lowScores := `{"relevance":0.1,"clarity":0.1,"difficulty_match":0.1,"answer_quality":0.1}`
	scoreCalls := 0
	oracle := &scriptedOracle{
		generate: func(n int, _ string) (string, error) {
			return uniqueQuestionJSON(n), nil
		},
		score: func(_ string) (string, error) {
			scoreCalls++
			if scoreCalls == 1 {
				return lowScores, nil
			}
			return goodScores, nil
		},
	}
	s := newTestGenerationService(oracle)

	questions := s.generateQuestions(context.Background(),
		testNodes(1), []model.QuestionType{model.QShortAnswer}, model.DiffMedium, testQuizConfig())

	require.Len(t, questions, 1)
	assert.Equal(t, 2, oracle.genCalls, "低质量候选被拒后应重新生成")
}

func TestGenerateQuestionsConcurrentRun(t *testing.T) {
	oracle := &scriptedOracle{
		generate: func(n int, _ string) (string, error) {
			return uniqueQuestionJSON(n), nil
		},
	}
	s := newTestGenerationService(oracle)
	cfg := testQuizConfig()
	cfg.Concurrency = 4

	questions := s.generateQuestions(context.Background(),
		testNodes(12), []model.QuestionType{model.QShortAnswer}, model.DiffMedium, cfg)

	require.Len(t, questions, 12)
	seenOrder := map[int]bool{}
	seenNode := map[string]bool{}
	for _, q := range questions {
		assert.False(t, seenOrder[q.Order], "序号 %d 重复", q.Order)
		seenOrder[q.Order] = true
		assert.False(t, seenNode[q.KnowledgeNodeID], "节点 %s 重复出题", q.KnowledgeNodeID)
		seenNode[q.KnowledgeNodeID] = true
	}
	for i := 1; i <= 12; i++ {
		assert.True(t, seenOrder[i], "缺少序号 %d", i)
	}
}

func TestRequestCandidateChoiceNeedsOptions(t *testing.T) {
	oracle := &scriptedOracle{
		generate: func(n int, _ string) (string, error) {
			return `{"question": "请从以下选项中选出正确描述的一项？", "answer": "甲"}`, nil
		},
	}
	s := newTestGenerationService(oracle)

	_, err := s.requestCandidate(context.Background(),
		model.KnowledgeNode{UUIDBase: model.UUIDBase{ID: "n"}, Text: "知识点"}, model.QChoice, model.DiffMedium)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "options")
}
