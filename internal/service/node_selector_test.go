package service

import (
	"adaptive_quiz_backend/internal/model"
	"adaptive_quiz_backend/internal/util"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeNode(id string, level int, text string) model.KnowledgeNode {
	return model.KnowledgeNode{UUIDBase: model.UUIDBase{ID: id}, Level: level, Text: text}
}

func TestSelectNodesInvalidCount(t *testing.T) {
	nodes := []model.KnowledgeNode{makeNode("a", 0, "a")}

	_, err := SelectNodes(nodes, 0)
	assert.ErrorIs(t, err, util.ErrInvalidCount)

	_, err = SelectNodes(nodes, -3)
	assert.ErrorIs(t, err, util.ErrInvalidCount)
}

func TestSelectNodesEmptyPool(t *testing.T) {
	selected, err := SelectNodes(nil, 5)
	require.NoError(t, err)
	assert.Empty(t, selected)
}

func TestSelectNodesPoolSmallerThanCount(t *testing.T) {
	nodes := []model.KnowledgeNode{
		makeNode("a", 0, "根"),
		makeNode("b", 1, "子一"),
		makeNode("c", 2, "孙一"),
	}

	selected, err := SelectNodes(nodes, 10)
	require.NoError(t, err)
	assert.Len(t, selected, 3)
	// 深层优先
	assert.Equal(t, "c", selected[0].ID)
}

func TestSelectNodesDeepestGetsRemainder(t *testing.T) {
	// 3 层各 4 个节点，取 7：base=2，余 1 给最深层 -> 3/2/2
	var nodes []model.KnowledgeNode
	for lvl := 0; lvl < 3; lvl++ {
		for i := 0; i < 4; i++ {
			id := fmt.Sprintf("l%d-%d", lvl, i)
			nodes = append(nodes, makeNode(id, lvl, id))
		}
	}

	selected, err := SelectNodes(nodes, 7)
	require.NoError(t, err)
	require.Len(t, selected, 7)

	perLevel := map[int]int{}
	for _, n := range selected {
		perLevel[n.Level]++
	}
	assert.Equal(t, 3, perLevel[2])
	assert.Equal(t, 2, perLevel[1])
	assert.Equal(t, 2, perLevel[0])
}

func TestSelectNodesBackfillWhenLevelTooSmall(t *testing.T) {
	// 最深层只有 1 个节点，配额用不完时由浅层回填
	nodes := []model.KnowledgeNode{
		makeNode("deep", 2, "deep"),
		makeNode("m1", 1, "m1"),
		makeNode("m2", 1, "m2"),
		makeNode("m3", 1, "m3"),
		makeNode("r1", 0, "r1"),
		makeNode("r2", 0, "r2"),
	}

	selected, err := SelectNodes(nodes, 4)
	require.NoError(t, err)
	require.Len(t, selected, 4)

	ids := map[string]bool{}
	for _, n := range selected {
		ids[n.ID] = true
	}
	assert.True(t, ids["deep"], "唯一的最深层节点必须入选")
}

func TestSelectNodesDeterministic(t *testing.T) {
	var nodes []model.KnowledgeNode
	for lvl := 0; lvl < 4; lvl++ {
		for i := 0; i < 5; i++ {
			id := fmt.Sprintf("n%d-%d", lvl, i)
			nodes = append(nodes, makeNode(id, lvl, id))
		}
	}

	first, err := SelectNodes(nodes, 9)
	require.NoError(t, err)

	// 打乱输入顺序，结果必须不变
	shuffled := make([]model.KnowledgeNode, 0, len(nodes))
	for i := len(nodes) - 1; i >= 0; i-- {
		shuffled = append(shuffled, nodes[i])
	}
	second, err := SelectNodes(shuffled, 9)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
