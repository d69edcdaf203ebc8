package service

import (
	"adaptive_quiz_backend/internal/config"
	"adaptive_quiz_backend/internal/model"
	"adaptive_quiz_backend/internal/repository"
	"adaptive_quiz_backend/internal/util"
	"adaptive_quiz_backend/pkg/logger"
	"adaptive_quiz_backend/pkg/monitoring"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

type QuizGenerationService struct {
	NodeRepo *repository.KnowledgeNodeRepository
	QuizRepo *repository.QuizRepository

	oracle    TextCompleter
	validator *QuestionValidator
	dedup     *QuestionDedup

	mu  sync.RWMutex
	cfg config.QuizConfig
}

func NewQuizGenerationService(
	nodeRepo *repository.KnowledgeNodeRepository,
	quizRepo *repository.QuizRepository,
	oracle TextCompleter,
	cfg config.QuizConfig,
) *QuizGenerationService {
	return &QuizGenerationService{
		NodeRepo:  nodeRepo,
		QuizRepo:  quizRepo,
		oracle:    oracle,
		validator: NewQuestionValidator(oracle, cfg.QualityThreshold),
		dedup:     NewQuestionDedup(cfg.DuplicateThreshold),
		cfg:       cfg,
	}
}

// UpdateConfig 配置热更新回调，只影响后续的生成运行
func (s *QuizGenerationService) UpdateConfig(cfg config.QuizConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	s.validator = NewQuestionValidator(s.oracle, cfg.QualityThreshold)
	s.dedup = NewQuestionDedup(cfg.DuplicateThreshold)
}

func (s *QuizGenerationService) config() config.QuizConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// pipeline 取当前校验器和去重器的快照
// 运行中途的配置热更新只影响之后启动的运行，不会替换进行中运行持有的组件
func (s *QuizGenerationService) pipeline() (*QuestionValidator, *QuestionDedup) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.validator, s.dedup
}

type GenerateQuizRequest struct {
	OutlineID     string               `json:"outlineId" binding:"required"`
	Title         string               `json:"title"`
	Count         int                  `json:"count" binding:"required"`
	QuestionTypes []model.QuestionType `json:"questionTypes" binding:"required"`
	Difficulty    model.Difficulty     `json:"difficulty"`
}

type GenerateQuizResponse struct {
	Quiz           *model.Quiz          `json:"quiz"`
	Questions      []model.QuizQuestion `json:"questions"`
	RequestedCount int                  `json:"requestedCount"`
	ActualCount    int                  `json:"actualCount"`
	Partial        bool                 `json:"partial"` // 有节点重试耗尽时为 true
}

// generationRun 一次生成运行的共享状态
// 并发出题时两个节点不能同时接受近重复题，所以接受集合和序号都收在一把锁里
// validator 和 dedup 在运行启动时固定，整个运行使用同一套阈值
type generationRun struct {
	validator *QuestionValidator
	dedup     *QuestionDedup

	mu            sync.Mutex
	accepted      []model.QuizQuestion
	acceptedTexts []string
	nextOrder     int
}

// isDuplicate 对当前接受集合做一次只读查重，用于在质量评分之前拦掉明显重复
func (r *generationRun) isDuplicate(content string) (bool, float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dedup.IsDuplicate(content, r.acceptedTexts)
}

// tryAccept 重复检测和接受在同一临界区内完成
// 预查重之后仍需复查：并发运行下另一节点可能在评分期间接受了近重复题
func (r *generationRun) tryAccept(node model.KnowledgeNode, c CandidateQuestion, difficulty model.Difficulty) (bool, float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if dup, sim := r.dedup.IsDuplicate(c.Content, r.acceptedTexts); dup {
		return false, sim
	}

	optionsJSON := ""
	if len(c.Options) > 0 {
		b, _ := json.Marshal(c.Options)
		optionsJSON = string(b)
	}

	r.nextOrder++
	r.accepted = append(r.accepted, model.QuizQuestion{
		UUIDBase:        model.UUIDBase{ID: model.GenerateUUID()},
		KnowledgeNodeID: node.ID,
		QuestionType:    c.Type,
		Content:         c.Content,
		Options:         optionsJSON,
		Answer:          c.Answer,
		Explanation:     c.Explanation,
		Difficulty:      difficulty,
		Order:           r.nextOrder,
	})
	r.acceptedTexts = append(r.acceptedTexts, c.Content)
	return true, 0
}

// GenerateQuiz 生成一份测验
// 输入校验全部在第一次 Oracle 调用之前完成；可恢复的尝试级失败不会向外传播，
// 节点重试耗尽只是跳过该节点，结果可能少于请求数（调用方比对 requested/actual）。
func (s *QuizGenerationService) GenerateQuiz(ctx context.Context, userID uint, req GenerateQuizRequest) (*GenerateQuizResponse, error) {
	cfg := s.config()

	// 1. 快速失败校验，不触发任何 Oracle 调用
	if req.Count <= 0 {
		return nil, util.ErrInvalidCount
	}
	if req.Count > cfg.MaxQuestionCount {
		return nil, util.ErrCountTooLarge
	}
	if len(req.QuestionTypes) == 0 {
		return nil, util.ErrNoQuestionTypes
	}
	for _, t := range req.QuestionTypes {
		if !model.KnownQuestionType(t) {
			return nil, fmt.Errorf("%w: %q", util.ErrUnknownQuestionType, t)
		}
	}
	if req.Difficulty == "" {
		req.Difficulty = model.DiffMedium
	}
	if !model.KnownDifficulty(req.Difficulty) {
		return nil, fmt.Errorf("%w: %q", util.ErrUnknownDifficulty, req.Difficulty)
	}

	nodes, err := s.NodeRepo.ListByOutline(req.OutlineID)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, util.ErrEmptyKnowledgePool
	}

	// 2. 分层抽样选节点
	selected, err := SelectNodes(nodes, req.Count)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("quiz generation started",
		zap.String("outlineId", req.OutlineID),
		zap.Int("requested", req.Count),
		zap.Int("selectedNodes", len(selected)),
		zap.Int("concurrency", cfg.Concurrency))

	// 3. 逐节点生成，题型按选择顺序轮转
	questions := s.generateQuestions(ctx, selected, req.QuestionTypes, req.Difficulty, cfg)
	if len(questions) == 0 {
		return nil, util.ErrGenerationFailed
	}

	// 4. 整体落库
	quiz := &model.Quiz{
		UUIDBase:       model.UUIDBase{ID: model.GenerateUUID()},
		UserID:         userID,
		OutlineID:      req.OutlineID,
		Title:          req.Title,
		Difficulty:     req.Difficulty,
		RequestedCount: req.Count,
		QuestionCount:  len(questions),
		Status:         "ready",
	}
	if err := s.QuizRepo.CreateQuizWithQuestions(quiz, questions); err != nil {
		return nil, err
	}

	if len(questions) < req.Count {
		logger.Log.Warn("quiz generation degraded",
			zap.String("quizId", quiz.ID),
			zap.Int("requested", req.Count),
			zap.Int("actual", len(questions)))
	}

	return &GenerateQuizResponse{
		Quiz:           quiz,
		Questions:      questions,
		RequestedCount: req.Count,
		ActualCount:    len(questions),
		Partial:        len(questions) < req.Count,
	}, nil
}

// generateQuestions 驱动各节点的有界重试循环，返回按 Order 排好的接受题目
func (s *QuizGenerationService) generateQuestions(
	ctx context.Context,
	selected []model.KnowledgeNode,
	types []model.QuestionType,
	difficulty model.Difficulty,
	cfg config.QuizConfig,
) []model.QuizQuestion {
	validator, dedup := s.pipeline()
	run := &generationRun{validator: validator, dedup: dedup}

	if cfg.Concurrency <= 1 {
		for i, node := range selected {
			s.generateForNode(ctx, node, types[i%len(types)], difficulty, cfg, run)
		}
	} else {
		// 节点间并行，节点内重试状态各自独立；接受集合由 run 内部的锁保护
		sem := make(chan struct{}, cfg.Concurrency)
		var wg sync.WaitGroup
		for i, node := range selected {
			wg.Add(1)
			sem <- struct{}{}
			go func(i int, node model.KnowledgeNode) {
				defer wg.Done()
				defer func() { <-sem }()
				s.generateForNode(ctx, node, types[i%len(types)], difficulty, cfg, run)
			}(i, node)
		}
		wg.Wait()
	}

	return run.accepted
}

// generateForNode 单节点的有界尝试循环：解析失败、重复、低质量都只消耗一次尝试
// 耗尽后跳过该节点，运行继续
func (s *QuizGenerationService) generateForNode(
	ctx context.Context,
	node model.KnowledgeNode,
	qtype model.QuestionType,
	difficulty model.Difficulty,
	cfg config.QuizConfig,
	run *generationRun,
) {
	for attempt := 1; attempt <= cfg.MaxRetriesPerNode; attempt++ {
		cand, err := s.requestCandidate(ctx, node, qtype, difficulty)
		if err != nil {
			monitoring.GenerationAttempts.WithLabelValues("parse_failed").Inc()
			logger.Log.Debug("candidate attempt failed",
				zap.String("nodeId", node.ID),
				zap.Int("attempt", attempt),
				zap.Error(err))
			continue
		}

		// 查重在前，质量评分在后：重复候选不值得花一次评分调用
		if dup, sim := run.isDuplicate(cand.Content); dup {
			monitoring.GenerationAttempts.WithLabelValues("duplicate").Inc()
			logger.Log.Debug("candidate is a duplicate",
				zap.String("nodeId", node.ID),
				zap.Int("attempt", attempt),
				zap.Float64("similarity", sim))
			continue
		}

		result := run.validator.Validate(ctx, *cand, node.Text, difficulty)
		if !result.IsValid {
			monitoring.GenerationAttempts.WithLabelValues("rejected").Inc()
			logger.Log.Debug("candidate rejected by validator",
				zap.String("nodeId", node.ID),
				zap.Int("attempt", attempt),
				zap.Float64("score", result.Score),
				zap.String("reason", result.Reason))
			continue
		}

		accepted, sim := run.tryAccept(node, *cand, difficulty)
		if !accepted {
			monitoring.GenerationAttempts.WithLabelValues("duplicate").Inc()
			logger.Log.Debug("candidate is a duplicate",
				zap.String("nodeId", node.ID),
				zap.Int("attempt", attempt),
				zap.Float64("similarity", sim))
			continue
		}

		monitoring.GenerationAttempts.WithLabelValues("accepted").Inc()
		return
	}

	monitoring.NodesExhausted.Inc()
	logger.Log.Warn("node skipped after exhausting retries",
		zap.String("nodeId", node.ID),
		zap.Int("maxRetries", cfg.MaxRetriesPerNode))
}

// candidatePayload Oracle 返回的原始 JSON 结构
type candidatePayload struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}

// requestCandidate 调一次 Oracle 并解析候选题，任何失败都算一次失败尝试
func (s *QuizGenerationService) requestCandidate(
	ctx context.Context,
	node model.KnowledgeNode,
	qtype model.QuestionType,
	difficulty model.Difficulty,
) (*CandidateQuestion, error) {
	raw, err := s.oracle.Completion(ctx, generationSystemPrompt, buildGenerationPrompt(node, qtype, difficulty))
	if err != nil {
		return nil, err
	}

	obj, err := ExtractJSONObject(raw)
	if err != nil {
		return nil, err
	}

	var payload candidatePayload
	if err := json.Unmarshal([]byte(obj), &payload); err != nil {
		return nil, fmt.Errorf("parse candidate: %w", err)
	}

	if strings.TrimSpace(payload.Question) == "" {
		return nil, fmt.Errorf("candidate missing question text")
	}
	if strings.TrimSpace(payload.Answer) == "" {
		return nil, fmt.Errorf("candidate missing answer")
	}
	if qtype == model.QChoice && len(payload.Options) == 0 {
		return nil, fmt.Errorf("choice candidate missing options")
	}

	return &CandidateQuestion{
		Content:     strings.TrimSpace(payload.Question),
		Type:        qtype,
		Options:     payload.Options,
		Answer:      strings.TrimSpace(payload.Answer),
		Explanation: strings.TrimSpace(payload.Explanation),
	}, nil
}

const generationSystemPrompt = "你是一个专业的出题助手。根据给定的知识点出一道题，只输出 JSON，不要输出其它内容。"

func buildGenerationPrompt(node model.KnowledgeNode, qtype model.QuestionType, difficulty model.Difficulty) string {
	var sb strings.Builder
	sb.WriteString("知识点：" + SanitizePromptInput(node.Text) + "\n")
	sb.WriteString("难度：" + string(difficulty) + "\n\n")

	switch qtype {
	case model.QChoice:
		sb.WriteString("出一道单项选择题，提供 4 个选项，干扰项要有迷惑性但明确错误。\n")
		sb.WriteString(`输出格式：{"question": "...", "options": ["...", "...", "...", "..."], "answer": "正确选项原文", "explanation": "..."}`)
	case model.QFillBlank:
		sb.WriteString("出一道填空题，答案为一个或几个关键词。\n")
		sb.WriteString(`输出格式：{"question": "...", "answer": "...", "explanation": "..."}`)
	case model.QShortAnswer:
		sb.WriteString("出一道简答题，答案为两三句话的标准表述。\n")
		sb.WriteString(`输出格式：{"question": "...", "answer": "...", "explanation": "..."}`)
	}

	return sb.String()
}
