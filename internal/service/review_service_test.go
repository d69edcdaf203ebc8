package service

import (
	"adaptive_quiz_backend/internal/model"
	"adaptive_quiz_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyReviewCorrectAnswer(t *testing.T) {
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	item := &model.LearningItem{
		ReviewCount:        3,
		CorrectCount:       2,
		IncorrectCount:     1,
		ConsecutiveCorrect: 1,
	}

	applyReview(item, true, now)

	assert.Equal(t, 4, item.ReviewCount)
	assert.Equal(t, 3, item.CorrectCount)
	assert.Equal(t, 1, item.IncorrectCount)
	assert.Equal(t, 2, item.ConsecutiveCorrect)
	// 掌握度按更新后的计数重算：50*3/4 + 2*10
	assert.Equal(t, 57, item.MasteryLevel)
	require.NotNil(t, item.LastReviewAt)
	assert.Equal(t, now, *item.LastReviewAt)
	assert.Equal(t, now.Add(60*time.Minute), item.NextReviewAt, "连对 2 次后间隔升到第二档")
}

func TestApplyReviewWrongAnswerResetsStreak(t *testing.T) {
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	item := &model.LearningItem{
		ReviewCount:        3,
		CorrectCount:       3,
		ConsecutiveCorrect: 3,
		MasteryLevel:       80,
	}

	applyReview(item, false, now)

	assert.Equal(t, 4, item.ReviewCount)
	assert.Equal(t, 1, item.IncorrectCount)
	assert.Equal(t, 0, item.ConsecutiveCorrect)
	assert.Equal(t, 37, item.MasteryLevel)
	assert.Equal(t, now.Add(20*time.Minute), item.NextReviewAt, "答错回到最短间隔")
}

func TestCheckReviewable(t *testing.T) {
	owned := &model.LearningItem{UserID: 7}

	assert.NoError(t, checkReviewable(owned, 7))
	assert.ErrorIs(t, checkReviewable(owned, 8), util.ErrNotOwner)

	archived := &model.LearningItem{UserID: 7, IsArchived: true}
	assert.ErrorIs(t, checkReviewable(archived, 7), util.ErrItemArchived)
}
