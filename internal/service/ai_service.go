package service

import (
	"adaptive_quiz_backend/internal/config"
	"adaptive_quiz_backend/pkg/monitoring"
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// TextCompleter 内容生成 Oracle 的最小接口
// 输出不可信：调用方必须自行解析和校验，调用失败按一次失败尝试处理
type TextCompleter interface {
	Completion(ctx context.Context, system, user string) (string, error)
}

type AIService struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

func NewAIService(cfg config.AIConfig) *AIService {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &AIService{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		timeout: timeout,
	}
}

// Completion 单轮补全，每次调用带独立超时，超时视同调用失败
func (s *AIService) Completion(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		monitoring.OracleErrors.WithLabelValues("completion").Inc()
		return "", fmt.Errorf("oracle completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		monitoring.OracleErrors.WithLabelValues("completion").Inc()
		return "", fmt.Errorf("oracle returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

// SanitizePromptInput 清洗拼进提示词的外部文本
// 去掉代码围栏和常见角色标记，防止大纲文本劫持指令
func SanitizePromptInput(text string) string {
	text = strings.ReplaceAll(text, "```", "")
	for _, marker := range []string{"system:", "assistant:", "user:", "System:", "Assistant:", "User:"} {
		text = strings.ReplaceAll(text, marker, "")
	}
	return strings.TrimSpace(text)
}

// ExtractJSONObject 从非结构化补全文本中截取第一个配平的 JSON 对象
func ExtractJSONObject(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", fmt.Errorf("no JSON object in completion")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}

	return "", fmt.Errorf("unbalanced JSON object in completion")
}
