package controller

import (
	"adaptive_quiz_backend/internal/service"
	"adaptive_quiz_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type OutlineController struct {
	Service *service.KnowledgeOutlineService
}

func NewOutlineController(svc *service.KnowledgeOutlineService) *OutlineController {
	return &OutlineController{Service: svc}
}

// @Summary 导入知识大纲
// @Description 整体导入一份层级化知识大纲，任何节点引用错误都会整体拒绝
// @Tags 知识大纲
// @Accept json
// @Produce json
// @Param body body service.ImportOutlineRequest true "大纲节点列表，父节点必须出现在子节点之前"
// @Success 201 {object} util.Response
// @Router /api/outlines [post]
func (c *OutlineController) Import(ctx *gin.Context) {
	var req service.ImportOutlineRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resp, err := c.Service.ImportOutline(req)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Created(ctx, resp)
}

// @Summary 获取大纲节点列表
// @Tags 知识大纲
// @Produce json
// @Param id path string true "大纲ID"
// @Success 200 {object} util.Response
// @Router /api/outlines/{id}/nodes [get]
func (c *OutlineController) ListNodes(ctx *gin.Context) {
	nodes, err := c.Service.ListNodes(ctx.Param("id"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if len(nodes) == 0 {
		util.NotFound(ctx)
		return
	}

	util.Success(ctx, nodes)
}

// @Summary 删除知识大纲
// @Tags 知识大纲
// @Produce json
// @Param id path string true "大纲ID"
// @Success 200 {object} util.Response
// @Router /api/outlines/{id} [delete]
func (c *OutlineController) Delete(ctx *gin.Context) {
	if err := c.Service.DeleteOutline(ctx.Param("id")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
			return
		}
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Success(ctx, nil)
}
