package controller

import (
	"adaptive_quiz_backend/internal/service"
	"adaptive_quiz_backend/internal/util"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ReviewController struct {
	Service *service.ReviewService
}

func NewReviewController(svc *service.ReviewService) *ReviewController {
	return &ReviewController{Service: svc}
}

type submitReviewRequest struct {
	IsCorrect *bool `json:"isCorrect" binding:"required"`
}

// @Summary 提交复习结果
// @Description 根据对错更新遗忘曲线调度：答对间隔上升，答错回到最短间隔
// @Tags 复习
// @Accept json
// @Produce json
// @Param X-User-ID header string true "用户ID"
// @Param id path string true "条目ID"
// @Param body body submitReviewRequest true "本次复习是否答对"
// @Success 200 {object} util.Response
// @Router /api/review/items/{id}/submit [post]
func (c *ReviewController) Submit(ctx *gin.Context) {
	var req submitReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resp, err := c.Service.SubmitReview(ctx.Request.Context(), util.UserID(ctx), ctx.Param("id"), *req.IsCorrect)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, util.ErrNotOwner):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrItemArchived):
			util.Error(ctx, http.StatusConflict, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, resp)
}

// @Summary 获取到期待复习条目
// @Tags 复习
// @Produce json
// @Param X-User-ID header string true "用户ID"
// @Param limit query int false "最多返回条数"
// @Success 200 {object} util.Response
// @Router /api/review/due [get]
func (c *ReviewController) Due(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	items, err := c.Service.DueReviews(util.UserID(ctx), limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, items)
}

// @Summary 获取错题本列表
// @Tags 复习
// @Produce json
// @Param X-User-ID header string true "用户ID"
// @Param includeArchived query bool false "是否包含已归档条目"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response
// @Router /api/review/items [get]
func (c *ReviewController) List(ctx *gin.Context) {
	page, limit := util.ParsePageParams(ctx)
	includeArchived := ctx.Query("includeArchived") == "true"

	items, total, err := c.Service.ListItems(util.UserID(ctx), includeArchived, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: items, Total: total, Page: page, Limit: limit})
}

// @Summary 归档错题条目
// @Description 归档后不再进入复习队列，历史记录保留
// @Tags 复习
// @Produce json
// @Param X-User-ID header string true "用户ID"
// @Param id path string true "条目ID"
// @Success 200 {object} util.Response
// @Router /api/review/items/{id}/archive [post]
func (c *ReviewController) Archive(ctx *gin.Context) {
	err := c.Service.Archive(ctx.Request.Context(), util.UserID(ctx), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// @Summary 获取掌握度统计
// @Tags 复习
// @Produce json
// @Param X-User-ID header string true "用户ID"
// @Success 200 {object} util.Response
// @Router /api/review/stats [get]
func (c *ReviewController) Stats(ctx *gin.Context) {
	stats, err := c.Service.Stats(ctx.Request.Context(), util.UserID(ctx))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, stats)
}
