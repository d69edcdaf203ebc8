package service

import (
	"adaptive_quiz_backend/internal/repository"
	"context"
	"sort"
)

// RetrievalService 基于关键词检索补救学习片段，实现 SnippetProvider
type RetrievalService struct {
	NodeRepo *repository.KnowledgeNodeRepository
}

func NewRetrievalService(nodeRepo *repository.KnowledgeNodeRepository) *RetrievalService {
	return &RetrievalService{NodeRepo: nodeRepo}
}

// FindSimilarSnippets 检索与题目最相关的知识片段
// 数据库先按 LIKE 粗筛，再按 token 重合度精排取 topK
func (s *RetrievalService) FindSimilarSnippets(ctx context.Context, query, outlineID string, topK int) ([]Snippet, error) {
	if topK <= 0 {
		topK = 3
	}

	queryTokens := tokenSet(query)
	if len(queryTokens) == 0 {
		return nil, nil
	}

	tokens := make([]string, 0, len(queryTokens))
	for tok := range queryTokens {
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)
	if len(tokens) > 8 {
		tokens = tokens[:8]
	}

	nodes, err := s.NodeRepo.Search(outlineID, tokens, topK*5)
	if err != nil {
		return nil, err
	}

	type scored struct {
		snippet Snippet
		score   float64
	}
	ranked := make([]scored, 0, len(nodes))
	for _, node := range nodes {
		sim := tokenOverlap(queryTokens, tokenSet(node.Text))
		if sim <= 0 {
			continue
		}
		ranked = append(ranked, scored{
			snippet: Snippet{NodeID: node.ID, Text: node.Text, Similarity: sim},
			score:   sim,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].snippet.Text < ranked[j].snippet.Text
	})

	if len(ranked) > topK {
		ranked = ranked[:topK]
	}
	snippets := make([]Snippet, 0, len(ranked))
	for _, r := range ranked {
		snippets = append(snippets, r.snippet)
	}
	return snippets, nil
}

// tokenOverlap 查询 token 在片段中的命中比例，精排用
func tokenOverlap(query, text map[string]bool) float64 {
	if len(query) == 0 || len(text) == 0 {
		return 0
	}
	hit := 0
	for tok := range query {
		if text[tok] {
			hit++
		}
	}
	return float64(hit) / float64(len(query))
}
