package controller

import (
	"adaptive_quiz_backend/internal/service"
	"adaptive_quiz_backend/internal/util"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type QuizController struct {
	Generation *service.QuizGenerationService
	Grading    *service.GradingService
}

func NewQuizController(generation *service.QuizGenerationService, grading *service.GradingService) *QuizController {
	return &QuizController{Generation: generation, Grading: grading}
}

// @Summary 生成测验
// @Description 基于知识大纲生成一份测验；部分知识点生成失败时返回降级结果，题目数可能少于请求数
// @Tags 测验
// @Accept json
// @Produce json
// @Param X-User-ID header string true "用户ID"
// @Param body body service.GenerateQuizRequest true "生成参数"
// @Success 201 {object} util.Response
// @Router /api/quizzes [post]
func (c *QuizController) Generate(ctx *gin.Context) {
	var req service.GenerateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resp, err := c.Generation.GenerateQuiz(ctx.Request.Context(), util.UserID(ctx), req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidCount),
			errors.Is(err, util.ErrCountTooLarge),
			errors.Is(err, util.ErrNoQuestionTypes),
			errors.Is(err, util.ErrUnknownQuestionType),
			errors.Is(err, util.ErrUnknownDifficulty),
			errors.Is(err, util.ErrEmptyKnowledgePool):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrGenerationFailed):
			util.Error(ctx, http.StatusBadGateway, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, resp)
}

// @Summary 获取测验详情
// @Tags 测验
// @Produce json
// @Param X-User-ID header string true "用户ID"
// @Param id path string true "测验ID"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{id} [get]
func (c *QuizController) Get(ctx *gin.Context) {
	quiz, err := c.Grading.QuizRepo.FindQuizByID(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	if quiz.UserID != util.UserID(ctx) {
		util.NotFound(ctx)
		return
	}

	util.Success(ctx, quiz)
}

// @Summary 获取测验列表
// @Tags 测验
// @Produce json
// @Param X-User-ID header string true "用户ID"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response
// @Router /api/quizzes [get]
func (c *QuizController) List(ctx *gin.Context) {
	page, limit := util.ParsePageParams(ctx)

	quizzes, total, err := c.Grading.QuizRepo.ListQuizzes(util.UserID(ctx), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: quizzes, Total: total, Page: page, Limit: limit})
}

// @Summary 提交测验答案
// @Description 批量判分；单题判分失败只标记该题，不影响其它题目。每份测验只允许提交一次
// @Tags 测验
// @Accept json
// @Produce json
// @Param X-User-ID header string true "用户ID"
// @Param id path string true "测验ID"
// @Param body body service.SubmitQuizRequest true "题目ID到用户答案的映射"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{id}/submit [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	var req service.SubmitQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resp, err := c.Grading.SubmitQuiz(ctx.Request.Context(), util.UserID(ctx), ctx.Param("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, util.ErrNotOwner):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrQuizSubmitted):
			util.Error(ctx, http.StatusConflict, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, resp)
}

// @Summary 获取测验判分结果
// @Tags 测验
// @Produce json
// @Param X-User-ID header string true "用户ID"
// @Param id path string true "测验ID"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{id}/answers [get]
func (c *QuizController) Answers(ctx *gin.Context) {
	answers, err := c.Grading.QuizRepo.ListAnswers(ctx.Param("id"), util.UserID(ctx))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, answers)
}
