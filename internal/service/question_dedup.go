package service

import "strings"

const DefaultDuplicateThreshold = 0.85

// QuestionDedup 同一次生成运行内的重复题检测
// 用大小写无关的空白分词集合做 Jaccard 相似度，确定且对称；
// 换成 embedding 余弦等其它对称度量时接口不变
type QuestionDedup struct {
	threshold float64
}

func NewQuestionDedup(threshold float64) *QuestionDedup {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultDuplicateThreshold
	}
	return &QuestionDedup{threshold: threshold}
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		set[tok] = true
	}
	return set
}

// Similarity 两段文本的 token 集 Jaccard 相似度，任一侧为空集时为 0
func (d *QuestionDedup) Similarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for tok := range setA {
		if setB[tok] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection

	return float64(intersection) / float64(union)
}

// IsDuplicate 候选题文本与本次已接受题目逐一比对
func (d *QuestionDedup) IsDuplicate(candidate string, accepted []string) (bool, float64) {
	maxSim := 0.0
	for _, text := range accepted {
		if sim := d.Similarity(candidate, text); sim > maxSim {
			maxSim = sim
		}
	}
	return maxSim >= d.threshold, maxSim
}
