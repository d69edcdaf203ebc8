package service

import (
	"adaptive_quiz_backend/internal/config"
	"adaptive_quiz_backend/internal/model"
	"adaptive_quiz_backend/internal/repository"
	"adaptive_quiz_backend/internal/util"
	"adaptive_quiz_backend/pkg/forgetting"
	"adaptive_quiz_backend/pkg/logger"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// fill_blank 非精确命中时的关键词覆盖率阈值
const fillBlankCoverageThreshold = 0.7

// Snippet 补救学习材料片段
type Snippet struct {
	NodeID     string  `json:"nodeId"`
	Text       string  `json:"text"`
	Similarity float64 `json:"similarity"`
}

// SnippetProvider 根据题目内容检索相关知识片段
// 检索失败不应阻断判分，调用方把错误降级为空补救列表
type SnippetProvider interface {
	FindSimilarSnippets(ctx context.Context, query, outlineID string, topK int) ([]Snippet, error)
}

type GradingService struct {
	DB       *gorm.DB
	QuizRepo *repository.QuizRepository
	ItemRepo *repository.LearningItemRepository

	oracle   TextCompleter
	snippets SnippetProvider
	cfg      config.QuizConfig
}

func NewGradingService(
	db *gorm.DB,
	quizRepo *repository.QuizRepository,
	itemRepo *repository.LearningItemRepository,
	oracle TextCompleter,
	snippets SnippetProvider,
	cfg config.QuizConfig,
) *GradingService {
	return &GradingService{
		DB:       db,
		QuizRepo: quizRepo,
		ItemRepo: itemRepo,
		oracle:   oracle,
		snippets: snippets,
		cfg:      cfg,
	}
}

type SubmitQuizRequest struct {
	Answers map[string]string `json:"answers" binding:"required"` // questionId -> 用户答案
}

type SubmitQuizResponse struct {
	QuizID       string             `json:"quizId"`
	Total        int                `json:"total"`
	CorrectCount int                `json:"correctCount"`
	Answers      []model.QuizAnswer `json:"answers"`
}

// SubmitQuiz 批量判分并落库
// 单题判分失败只标记该题（GradeError），不会中断整批；测验只允许提交一次。
func (s *GradingService) SubmitQuiz(ctx context.Context, userID uint, quizID string, req SubmitQuizRequest) (*SubmitQuizResponse, error) {
	quiz, err := s.QuizRepo.FindQuizByID(quizID)
	if err != nil {
		return nil, err
	}
	if quiz.UserID != userID {
		return nil, util.ErrNotOwner
	}
	if quiz.Status == "submitted" {
		return nil, util.ErrQuizSubmitted
	}

	answers := make([]model.QuizAnswer, 0, len(quiz.Questions))
	correct := 0
	for _, q := range quiz.Questions {
		userAnswer := req.Answers[q.ID]
		ans := s.gradeQuestion(ctx, quiz.OutlineID, q, userAnswer)
		ans.QuizID = quiz.ID
		ans.UserID = userID
		if ans.IsCorrect {
			correct++
		}
		answers = append(answers, ans)
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.QuizRepo.CreateAnswers(tx, answers); err != nil {
			return err
		}
		return s.QuizRepo.MarkSubmitted(tx, quiz.ID)
	})
	if err != nil {
		return nil, err
	}

	// 答错的题进入错题本，失败只记日志，不影响本次提交结果
	for i, q := range quiz.Questions {
		a := answers[i]
		if a.IsCorrect || a.GradeError != "" {
			continue
		}
		if err := s.upsertLearningItem(userID, q, a.UserAnswer); err != nil {
			logger.Log.Error("record wrong answer failed",
				zap.String("questionId", q.ID),
				zap.Error(err))
		}
	}

	logger.Log.Info("quiz submitted",
		zap.String("quizId", quiz.ID),
		zap.Uint("userId", userID),
		zap.Int("total", len(answers)),
		zap.Int("correct", correct))

	return &SubmitQuizResponse{
		QuizID:       quiz.ID,
		Total:        len(answers),
		CorrectCount: correct,
		Answers:      answers,
	}, nil
}

// gradeQuestion 按题型分派判分策略
func (s *GradingService) gradeQuestion(ctx context.Context, outlineID string, q model.QuizQuestion, userAnswer string) model.QuizAnswer {
	ans := model.QuizAnswer{
		UUIDBase:   model.UUIDBase{ID: model.GenerateUUID()},
		QuestionID: q.ID,
		UserAnswer: userAnswer,
	}

	switch q.QuestionType {
	case model.QChoice:
		ans.IsCorrect = gradeChoice(userAnswer, q.Answer)
	case model.QFillBlank:
		ans.IsCorrect = gradeFillBlank(userAnswer, q.Answer)
	case model.QShortAnswer:
		score, feedback, err := s.gradeShortAnswer(ctx, q, userAnswer)
		if err != nil {
			ans.GradeError = fmt.Sprintf("short answer grading unavailable: %v", err)
			logger.Log.Warn("short answer grading failed",
				zap.String("questionId", q.ID),
				zap.Error(err))
			return ans
		}
		ans.Score = &score
		ans.Feedback = feedback
		ans.IsCorrect = score >= s.cfg.ShortAnswerThreshold
	default:
		// 已入库题目出现未知题型说明数据损坏，标记后继续判下一题
		ans.GradeError = fmt.Sprintf("unknown question type: %q", q.QuestionType)
		return ans
	}

	if !ans.IsCorrect {
		ans.Remediation = s.remediationFor(ctx, outlineID, q)
	}
	return ans
}

// gradeChoice 选择题：去空格后不区分大小写精确匹配
func gradeChoice(userAnswer, expected string) bool {
	u := strings.ToUpper(strings.TrimSpace(userAnswer))
	e := strings.ToUpper(strings.TrimSpace(expected))
	return u != "" && u == e
}

// gradeFillBlank 填空题：先小写精确匹配，未命中再看标准答案关键词的覆盖率
// 覆盖判定用包含匹配，"二叉搜索树" 可以覆盖关键词 "二叉"
func gradeFillBlank(userAnswer, expected string) bool {
	u := strings.ToLower(strings.TrimSpace(userAnswer))
	e := strings.ToLower(strings.TrimSpace(expected))
	if u == "" {
		return false
	}
	if u == e {
		return true
	}

	keywords := strings.Fields(e)
	if len(keywords) == 0 {
		return false
	}
	covered := 0
	for _, kw := range keywords {
		if strings.Contains(u, kw) {
			covered++
		}
	}
	return float64(covered)/float64(len(keywords)) >= fillBlankCoverageThreshold
}

type shortAnswerVerdict struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

// gradeShortAnswer 简答题交给 Oracle 评分，返回 [0,1] 分数和评语
func (s *GradingService) gradeShortAnswer(ctx context.Context, q model.QuizQuestion, userAnswer string) (float64, string, error) {
	if strings.TrimSpace(userAnswer) == "" {
		return 0, "未作答", nil
	}

	prompt := fmt.Sprintf(`题目：%s
标准答案：%s
学生答案：%s

对照标准答案给学生答案打分，只输出 JSON：{"score": 0到1之间的小数, "feedback": "一两句中文评语"}`,
		SanitizePromptInput(q.Content),
		SanitizePromptInput(q.Answer),
		SanitizePromptInput(userAnswer))

	raw, err := s.oracle.Completion(ctx, "你是一个严格但公正的阅卷老师。", prompt)
	if err != nil {
		return 0, "", err
	}
	obj, err := ExtractJSONObject(raw)
	if err != nil {
		return 0, "", err
	}
	var verdict shortAnswerVerdict
	if err := json.Unmarshal([]byte(obj), &verdict); err != nil {
		return 0, "", fmt.Errorf("parse verdict: %w", err)
	}

	score := verdict.Score
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score, verdict.Feedback, nil
}

// remediationFor 答错后检索补救片段，检索失败降级为空
func (s *GradingService) remediationFor(ctx context.Context, outlineID string, q model.QuizQuestion) string {
	if s.snippets == nil {
		return ""
	}
	snippets, err := s.snippets.FindSimilarSnippets(ctx, q.Content+" "+q.Answer, outlineID, 3)
	if err != nil {
		logger.Log.Warn("remediation lookup failed",
			zap.String("questionId", q.ID),
			zap.Error(err))
		return ""
	}
	if len(snippets) == 0 {
		return ""
	}
	b, err := json.Marshal(snippets)
	if err != nil {
		return ""
	}
	return string(b)
}

// upsertLearningItem 首次答错创建错题条目并立即到期，已存在则只累计答错信息
func (s *GradingService) upsertLearningItem(userID uint, q model.QuizQuestion, userAnswer string) error {
	existing, err := s.ItemRepo.FindByUserAndQuestion(userID, q.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		item := &model.LearningItem{
			UUIDBase:        model.UUIDBase{ID: model.GenerateUUID()},
			UserID:          userID,
			QuestionID:      q.ID,
			KnowledgeNodeID: q.KnowledgeNodeID,
			Question:        q.Content,
			CorrectAnswer:   q.Answer,
			UserAnswer:      userAnswer,
			IncorrectCount:  1,
			NextReviewAt:    time.Now(),
		}
		return s.ItemRepo.Create(item)
	}

	recordWrongAnswer(existing, userAnswer)
	return s.ItemRepo.Save(s.DB, existing)
}

// recordWrongAnswer 累计答错并同步重算掌握度，不等到下次复习才追上
func recordWrongAnswer(item *model.LearningItem, userAnswer string) {
	item.UserAnswer = userAnswer
	item.IncorrectCount++
	item.ConsecutiveCorrect = 0
	item.MasteryLevel = forgetting.ComputeMastery(item.CorrectCount, item.IncorrectCount, 0)
}
