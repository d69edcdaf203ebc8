package service

import (
	"adaptive_quiz_backend/internal/model"
	"adaptive_quiz_backend/internal/util"
	"sort"
)

// SelectNodes 对知识点做分层抽样，深层优先
// 按层级分组后从最深层往浅层分配名额：base = count/层数，余数给最深的几层，
// 每层受自身节点数封顶；名额没用完时再按 深层优先+文本序 从剩余节点回填。
// 结果大小 = min(count, 节点总数)，对固定输入完全确定。
func SelectNodes(nodes []model.KnowledgeNode, count int) ([]model.KnowledgeNode, error) {
	if count <= 0 {
		return nil, util.ErrInvalidCount
	}
	if len(nodes) == 0 {
		return nil, nil
	}

	sorted := make([]model.KnowledgeNode, len(nodes))
	copy(sorted, nodes)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Level != sorted[j].Level {
			return sorted[i].Level > sorted[j].Level
		}
		if sorted[i].Text != sorted[j].Text {
			return sorted[i].Text < sorted[j].Text
		}
		return sorted[i].ID < sorted[j].ID
	})

	if len(sorted) <= count {
		return sorted, nil
	}

	// 分组，levels 保持深->浅顺序
	groups := make(map[int][]model.KnowledgeNode)
	var levels []int
	for _, n := range sorted {
		if _, ok := groups[n.Level]; !ok {
			levels = append(levels, n.Level)
		}
		groups[n.Level] = append(groups[n.Level], n)
	}

	base := count / len(levels)
	remainder := count % len(levels)

	selected := make([]model.KnowledgeNode, 0, count)
	picked := make(map[string]bool, count)
	for i, lvl := range levels {
		want := base
		if i < remainder {
			want++
		}
		group := groups[lvl]
		if want > len(group) {
			want = len(group)
		}
		for _, n := range group[:want] {
			selected = append(selected, n)
			picked[n.ID] = true
		}
	}

	// 取整后不足时按全局深层优先顺序回填
	for _, n := range sorted {
		if len(selected) >= count {
			break
		}
		if !picked[n.ID] {
			selected = append(selected, n)
			picked[n.ID] = true
		}
	}

	return selected, nil
}
