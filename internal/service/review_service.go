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
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ReviewService struct {
	DB       *gorm.DB
	ItemRepo *repository.LearningItemRepository
	Redis    *redis.Client
	cfg      config.ReviewConfig
}

func NewReviewService(db *gorm.DB, itemRepo *repository.LearningItemRepository, rdb *redis.Client, cfg config.ReviewConfig) *ReviewService {
	return &ReviewService{DB: db, ItemRepo: itemRepo, Redis: rdb, cfg: cfg}
}

func (s *ReviewService) dueWindow() time.Duration {
	return time.Duration(s.cfg.DueSoonMinutes) * time.Minute
}

// ReviewItemView 列表视图，调度字段之外附带紧迫程度
type ReviewItemView struct {
	model.LearningItem
	Status forgetting.ReviewStatus `json:"status"`
}

type SubmitReviewResponse struct {
	Item         *model.LearningItem     `json:"item"`
	Status       forgetting.ReviewStatus `json:"status"`
	NextReviewAt time.Time               `json:"nextReviewAt"`
}

// SubmitReview 提交一次复习结果
// 整个读-算-写在一个事务内并对条目加行锁，同一条目的并发复习被串行化
func (s *ReviewService) SubmitReview(ctx context.Context, userID uint, itemID string, isCorrect bool) (*SubmitReviewResponse, error) {
	var updated *model.LearningItem

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		item, err := s.ItemRepo.FindForUpdate(tx, itemID)
		if err != nil {
			return err
		}
		if err := checkReviewable(item, userID); err != nil {
			return err
		}

		applyReview(item, isCorrect, time.Now())

		if err := s.ItemRepo.Save(tx, item); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateStats(ctx, userID)

	logger.Log.Info("review submitted",
		zap.String("itemId", itemID),
		zap.Bool("correct", isCorrect),
		zap.Int("mastery", updated.MasteryLevel),
		zap.Time("nextReviewAt", updated.NextReviewAt))

	return &SubmitReviewResponse{
		Item:         updated,
		Status:       forgetting.StatusAt(time.Now(), updated.NextReviewAt, s.dueWindow()),
		NextReviewAt: updated.NextReviewAt,
	}, nil
}

// checkReviewable 归属和归档校验，归档条目保留历史但不再接受复习
func checkReviewable(item *model.LearningItem, userID uint) error {
	if item.UserID != userID {
		return util.ErrNotOwner
	}
	if item.IsArchived {
		return util.ErrItemArchived
	}
	return nil
}

// applyReview 行锁内执行的读-算-写核心：先累计计数，再按新计数重算调度与掌握度
func applyReview(item *model.LearningItem, isCorrect bool, now time.Time) {
	next, streak := forgetting.ScheduleNextReview(item.ConsecutiveCorrect, isCorrect, now)

	item.ReviewCount++
	if isCorrect {
		item.CorrectCount++
	} else {
		item.IncorrectCount++
	}
	item.ConsecutiveCorrect = streak
	item.MasteryLevel = forgetting.ComputeMastery(item.CorrectCount, item.IncorrectCount, streak)
	item.LastReviewAt = &now
	item.NextReviewAt = next
}

// DueReviews 到期待复习条目，按到期时间升序
func (s *ReviewService) DueReviews(userID uint, limit int) ([]ReviewItemView, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	now := time.Now()
	items, err := s.ItemRepo.ListDue(userID, now, limit)
	if err != nil {
		return nil, err
	}
	return s.withStatus(items, now), nil
}

func (s *ReviewService) ListItems(userID uint, includeArchived bool, page, limit int) ([]ReviewItemView, int64, error) {
	items, total, err := s.ItemRepo.List(userID, includeArchived, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return s.withStatus(items, time.Now()), total, nil
}

func (s *ReviewService) withStatus(items []model.LearningItem, now time.Time) []ReviewItemView {
	views := make([]ReviewItemView, 0, len(items))
	for _, item := range items {
		views = append(views, ReviewItemView{
			LearningItem: item,
			Status:       forgetting.StatusAt(now, item.NextReviewAt, s.dueWindow()),
		})
	}
	return views
}

// Archive 归档条目，归档后不再出现在到期列表，历史记录保留
func (s *ReviewService) Archive(ctx context.Context, userID uint, itemID string) error {
	if err := s.ItemRepo.Archive(userID, itemID); err != nil {
		return err
	}
	s.invalidateStats(ctx, userID)
	return nil
}

func statsCacheKey(userID uint) string {
	return fmt.Sprintf("review:stats:%d", userID)
}

// Stats 聚合统计，Redis 短 TTL 缓存兜底，缓存不可用时直查数据库
func (s *ReviewService) Stats(ctx context.Context, userID uint) (*repository.MasteryStats, error) {
	key := statsCacheKey(userID)

	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, key).Result(); err == nil {
			var stats repository.MasteryStats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return &stats, nil
			}
		}
	}

	stats, err := s.ItemRepo.Stats(userID, time.Now())
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if b, err := json.Marshal(stats); err == nil {
			ttl := time.Duration(s.cfg.StatsCacheTTLMinutes) * time.Minute
			if err := s.Redis.Set(ctx, key, b, ttl).Err(); err != nil {
				logger.Log.Warn("stats cache write failed", zap.Error(err))
			}
		}
	}
	return stats, nil
}

func (s *ReviewService) invalidateStats(ctx context.Context, userID uint) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, statsCacheKey(userID)).Err(); err != nil {
		logger.Log.Warn("stats cache invalidation failed", zap.Error(err))
	}
}
