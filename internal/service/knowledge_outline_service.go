package service

import (
	"adaptive_quiz_backend/internal/model"
	"adaptive_quiz_backend/internal/repository"
	"adaptive_quiz_backend/pkg/logger"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type KnowledgeOutlineService struct {
	NodeRepo *repository.KnowledgeNodeRepository
}

func NewKnowledgeOutlineService(nodeRepo *repository.KnowledgeNodeRepository) *KnowledgeOutlineService {
	return &KnowledgeOutlineService{NodeRepo: nodeRepo}
}

// OutlineNodeInput 导入请求中的单个知识点
// Ref 是请求体内的临时引用号，入库时统一换成 UUID
type OutlineNodeInput struct {
	Ref       string `json:"ref" binding:"required"`
	Text      string `json:"text" binding:"required"`
	ParentRef string `json:"parentRef,omitempty"`
}

type ImportOutlineRequest struct {
	Nodes []OutlineNodeInput `json:"nodes" binding:"required"`
}

type ImportOutlineResponse struct {
	OutlineID string `json:"outlineId"`
	NodeCount int    `json:"nodeCount"`
	MaxLevel  int    `json:"maxLevel"`
}

// ImportOutline 整体导入一份知识大纲
// 父引用必须出现在子节点之前，层级由父链推导；任何引用错误整体拒绝，不落半份数据
func (s *KnowledgeOutlineService) ImportOutline(req ImportOutlineRequest) (*ImportOutlineResponse, error) {
	if len(req.Nodes) == 0 {
		return nil, fmt.Errorf("outline has no nodes")
	}

	outlineID := model.GenerateUUID()
	idByRef := make(map[string]string, len(req.Nodes))
	levelByRef := make(map[string]int, len(req.Nodes))
	nodes := make([]model.KnowledgeNode, 0, len(req.Nodes))
	maxLevel := 0

	for i, in := range req.Nodes {
		ref := strings.TrimSpace(in.Ref)
		text := strings.TrimSpace(in.Text)
		if ref == "" {
			return nil, fmt.Errorf("node %d: empty ref", i)
		}
		if text == "" {
			return nil, fmt.Errorf("node %q: empty text", ref)
		}
		if _, exists := idByRef[ref]; exists {
			return nil, fmt.Errorf("node %q: duplicate ref", ref)
		}

		level := 0
		var parentID *string
		if pr := strings.TrimSpace(in.ParentRef); pr != "" {
			pid, ok := idByRef[pr]
			if !ok {
				return nil, fmt.Errorf("node %q: unknown parent %q (parents must come first)", ref, pr)
			}
			parentID = &pid
			level = levelByRef[pr] + 1
		}

		id := model.GenerateUUID()
		idByRef[ref] = id
		levelByRef[ref] = level
		if level > maxLevel {
			maxLevel = level
		}

		nodes = append(nodes, model.KnowledgeNode{
			UUIDBase:  model.UUIDBase{ID: id},
			OutlineID: outlineID,
			Text:      text,
			Level:     level,
			ParentID:  parentID,
		})
	}

	if err := s.NodeRepo.CreateBatch(nodes); err != nil {
		return nil, err
	}

	logger.Log.Info("outline imported",
		zap.String("outlineId", outlineID),
		zap.Int("nodes", len(nodes)),
		zap.Int("maxLevel", maxLevel))

	return &ImportOutlineResponse{
		OutlineID: outlineID,
		NodeCount: len(nodes),
		MaxLevel:  maxLevel,
	}, nil
}

func (s *KnowledgeOutlineService) ListNodes(outlineID string) ([]model.KnowledgeNode, error) {
	return s.NodeRepo.ListByOutline(outlineID)
}

func (s *KnowledgeOutlineService) DeleteOutline(outlineID string) error {
	count, err := s.NodeRepo.CountByOutline(outlineID)
	if err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	if err := s.NodeRepo.DeleteOutline(outlineID); err != nil {
		return err
	}
	logger.Log.Info("outline deleted", zap.String("outlineId", outlineID), zap.Int64("nodes", count))
	return nil
}
