package repository

import (
	"adaptive_quiz_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LearningItemRepository struct {
	DB *gorm.DB
}

func NewLearningItemRepository(db *gorm.DB) *LearningItemRepository {
	return &LearningItemRepository{DB: db}
}

func (r *LearningItemRepository) Create(item *model.LearningItem) error {
	return r.DB.Create(item).Error
}

func (r *LearningItemRepository) FindByUserAndQuestion(userID uint, questionID string) (*model.LearningItem, error) {
	var item model.LearningItem
	err := r.DB.Where("user_id = ? AND question_id = ?", userID, questionID).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindForUpdate 行锁读取，调用方必须在事务内使用
// 同一条目的并发复习靠这里串行化，避免两次复习读到同一个更新前的连对次数
func (r *LearningItemRepository) FindForUpdate(tx *gorm.DB, id string) (*model.LearningItem, error) {
	var item model.LearningItem
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&item, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *LearningItemRepository) Save(tx *gorm.DB, item *model.LearningItem) error {
	return tx.Save(item).Error
}

// ListDue 到期条目查询，走 (user_id, next_review_at, is_archived) 组合索引
func (r *LearningItemRepository) ListDue(userID uint, now time.Time, limit int) ([]model.LearningItem, error) {
	var items []model.LearningItem
	err := r.DB.Where("user_id = ? AND next_review_at <= ? AND is_archived = ?", userID, now, false).
		Order("next_review_at ASC").
		Limit(limit).
		Find(&items).Error
	return items, err
}

func (r *LearningItemRepository) List(userID uint, includeArchived bool, page, limit int) ([]model.LearningItem, int64, error) {
	query := r.DB.Model(&model.LearningItem{}).Where("user_id = ?", userID)
	if !includeArchived {
		query = query.Where("is_archived = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []model.LearningItem
	offset := (page - 1) * limit
	err := query.Order("next_review_at ASC").Offset(offset).Limit(limit).Find(&items).Error
	return items, total, err
}

func (r *LearningItemRepository) Archive(userID uint, id string) error {
	res := r.DB.Model(&model.LearningItem{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_archived", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *LearningItemRepository) CountDue(now time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&model.LearningItem{}).
		Where("next_review_at <= ? AND is_archived = ?", now, false).
		Count(&count).Error
	return count, err
}

// MasteryStats 聚合统计，读多写少，上层用短 TTL 缓存包一层
type MasteryStats struct {
	TotalItems     int64   `json:"totalItems"`
	ArchivedItems  int64   `json:"archivedItems"`
	DueItems       int64   `json:"dueItems"`
	AverageMastery float64 `json:"averageMastery"`
	MasteredItems  int64   `json:"masteredItems"` // mastery >= 80
}

func (r *LearningItemRepository) Stats(userID uint, now time.Time) (*MasteryStats, error) {
	stats := &MasteryStats{}

	base := r.DB.Model(&model.LearningItem{}).Where("user_id = ?", userID)

	if err := base.Session(&gorm.Session{}).Count(&stats.TotalItems).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("is_archived = ?", true).Count(&stats.ArchivedItems).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).
		Where("next_review_at <= ? AND is_archived = ?", now, false).
		Count(&stats.DueItems).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("mastery_level >= ?", 80).Count(&stats.MasteredItems).Error; err != nil {
		return nil, err
	}

	var avg *float64
	if err := base.Session(&gorm.Session{}).
		Select("AVG(mastery_level)").Where("is_archived = ?", false).
		Scan(&avg).Error; err != nil {
		return nil, err
	}
	if avg != nil {
		stats.AverageMastery = *avg
	}

	return stats, nil
}
