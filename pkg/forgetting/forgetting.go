// Package forgetting implements the spaced-repetition schedule and mastery
// scoring used for missed-question review. All functions are pure; callers
// own persistence and per-item serialization.
package forgetting

import "time"

// Ladder is the fixed review interval ladder. One correct review climbs one
// rung, any incorrect review drops back to the first rung.
var Ladder = [...]time.Duration{
	20 * time.Minute,
	60 * time.Minute,
	540 * time.Minute,   // 9h
	1440 * time.Minute,  // 1d
	2880 * time.Minute,  // 2d
	8640 * time.Minute,  // 6d
	44640 * time.Minute, // 31d
}

// DefaultDueWindow 到期前提示窗口
const DefaultDueWindow = time.Hour

// ScheduleNextReview 根据本次复习结果计算下次复习时间和新的连对次数
// 答错时连对清零并回到最短间隔；答对时连对 +1，间隔沿阶梯上升并在最后一档饱和
// 返回的时间严格晚于 lastReviewAt
func ScheduleNextReview(consecutiveCorrect int, isCorrect bool, lastReviewAt time.Time) (time.Time, int) {
	if consecutiveCorrect < 0 {
		consecutiveCorrect = 0
	}

	var streak int
	var interval time.Duration
	if isCorrect {
		streak = consecutiveCorrect + 1
		idx := streak
		if idx > len(Ladder) {
			idx = len(Ladder)
		}
		interval = Ladder[idx-1]
	} else {
		streak = 0
		interval = Ladder[0]
	}

	return lastReviewAt.Add(interval), streak
}

// ComputeMastery 掌握度 = 正确率基础分(至多50) + 连对奖励(每次10分封顶5次)，上限100
func ComputeMastery(correctCount, incorrectCount, consecutiveCorrect int) int {
	total := correctCount + incorrectCount
	if total <= 0 {
		return 0
	}

	base := 50 * correctCount / total
	bonus := consecutiveCorrect
	if bonus > 5 {
		bonus = 5
	}

	mastery := base + bonus*10
	if mastery > 100 {
		mastery = 100
	}
	if mastery < 0 {
		mastery = 0
	}
	return mastery
}

// ReviewStatus describes how urgent a scheduled review is.
type ReviewStatus string

const (
	StatusOverdue   ReviewStatus = "overdue"
	StatusDue       ReviewStatus = "due"
	StatusScheduled ReviewStatus = "scheduled"
)

// StatusAt 判断 now 相对计划复习时间的状态
// 已过期为 overdue，dueWindow 内到期为 due，其余为 scheduled
func StatusAt(now, nextReviewAt time.Time, dueWindow time.Duration) ReviewStatus {
	if dueWindow <= 0 {
		dueWindow = DefaultDueWindow
	}
	if !now.Before(nextReviewAt) {
		return StatusOverdue
	}
	if nextReviewAt.Sub(now) <= dueWindow {
		return StatusDue
	}
	return StatusScheduled
}
