package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenOverlap(t *testing.T) {
	query := tokenSet("binary search tree")

	assert.InDelta(t, 1.0, tokenOverlap(query, tokenSet("binary search tree basics")), 1e-9)
	assert.InDelta(t, 1.0/3, tokenOverlap(query, tokenSet("tree traversal")), 1e-9)
	assert.Zero(t, tokenOverlap(query, tokenSet("hash table")))
	assert.Zero(t, tokenOverlap(query, tokenSet("")))
	assert.Zero(t, tokenOverlap(tokenSet(""), tokenSet("anything")))
}
