package repository

import (
	"adaptive_quiz_backend/internal/model"

	"gorm.io/gorm"
)

type KnowledgeNodeRepository struct {
	DB *gorm.DB
}

func NewKnowledgeNodeRepository(db *gorm.DB) *KnowledgeNodeRepository {
	return &KnowledgeNodeRepository{DB: db}
}

func (r *KnowledgeNodeRepository) CreateBatch(nodes []model.KnowledgeNode) error {
	if len(nodes) == 0 {
		return nil
	}
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(nodes, 100).Error
	})
}

func (r *KnowledgeNodeRepository) ListByOutline(outlineID string) ([]model.KnowledgeNode, error) {
	var nodes []model.KnowledgeNode
	err := r.DB.Where("outline_id = ?", outlineID).
		Order("level DESC, text ASC").
		Find(&nodes).Error
	return nodes, err
}

func (r *KnowledgeNodeRepository) FindByID(id string) (*model.KnowledgeNode, error) {
	var node model.KnowledgeNode
	err := r.DB.First(&node, "id = ?", id).Error
	return &node, err
}

func (r *KnowledgeNodeRepository) CountByOutline(outlineID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.KnowledgeNode{}).Where("outline_id = ?", outlineID).Count(&count).Error
	return count, err
}

// Search 在指定大纲内做关键词 LIKE 检索，任一 token 命中即返回
// 先用 LIKE 做基础架子，后续可以升级为向量检索
func (r *KnowledgeNodeRepository) Search(outlineID string, tokens []string, limit int) ([]model.KnowledgeNode, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	db := r.DB.Where("outline_id = ?", outlineID)
	cond := r.DB.Where("text LIKE ?", "%"+tokens[0]+"%")
	for _, tok := range tokens[1:] {
		cond = cond.Or("text LIKE ?", "%"+tok+"%")
	}

	var nodes []model.KnowledgeNode
	err := db.Where(cond).Limit(limit).Find(&nodes).Error
	return nodes, err
}

func (r *KnowledgeNodeRepository) DeleteOutline(outlineID string) error {
	return r.DB.Where("outline_id = ?", outlineID).Delete(&model.KnowledgeNode{}).Error
}
