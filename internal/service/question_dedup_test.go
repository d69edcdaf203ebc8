package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarityIdenticalText(t *testing.T) {
	d := NewQuestionDedup(DefaultDuplicateThreshold)
	assert.InDelta(t, 1.0, d.Similarity("what is a binary tree", "what is a binary tree"), 1e-9)
}

func TestSimilarityCaseInsensitive(t *testing.T) {
	d := NewQuestionDedup(DefaultDuplicateThreshold)
	assert.InDelta(t, 1.0, d.Similarity("What Is A Binary Tree", "what is a binary tree"), 1e-9)
}

func TestSimilarityDisjoint(t *testing.T) {
	d := NewQuestionDedup(DefaultDuplicateThreshold)
	assert.Zero(t, d.Similarity("alpha beta", "gamma delta"))
}

func TestSimilarityEmptySide(t *testing.T) {
	d := NewQuestionDedup(DefaultDuplicateThreshold)
	assert.Zero(t, d.Similarity("", "what is a binary tree"))
	assert.Zero(t, d.Similarity("   ", "what is a binary tree"))
}

func TestSimilarityPartialOverlap(t *testing.T) {
	d := NewQuestionDedup(DefaultDuplicateThreshold)
	// {a b c} vs {a b d}: 交 2，并 4
	assert.InDelta(t, 0.5, d.Similarity("a b c", "a b d"), 1e-9)
}

func TestSimilaritySymmetric(t *testing.T) {
	d := NewQuestionDedup(DefaultDuplicateThreshold)
	a := "what is the time complexity of quicksort"
	b := "what is the space complexity of mergesort"
	assert.Equal(t, d.Similarity(a, b), d.Similarity(b, a))
}

func TestIsDuplicateAgainstAccepted(t *testing.T) {
	d := NewQuestionDedup(0.85)
	accepted := []string{
		"what is the height of a balanced binary tree",
		"explain the difference between stack and queue",
	}

	dup, sim := d.IsDuplicate("what is the height of a balanced binary tree", accepted)
	assert.True(t, dup)
	assert.InDelta(t, 1.0, sim, 1e-9)

	dup, sim = d.IsDuplicate("how does hash collision resolution work", accepted)
	assert.False(t, dup)
	assert.Less(t, sim, 0.85)
}

func TestIsDuplicateEmptyAccepted(t *testing.T) {
	d := NewQuestionDedup(0.85)
	dup, sim := d.IsDuplicate("anything", nil)
	assert.False(t, dup)
	assert.Zero(t, sim)
}

func TestNewQuestionDedupInvalidThreshold(t *testing.T) {
	d := NewQuestionDedup(0)
	dup, _ := d.IsDuplicate("a b c d", []string{"a b c d"})
	assert.True(t, dup, "非法阈值应回落到默认值而不是放行所有重复")
}
