package concierge

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// ChatModelGenerator adapts any eino chat model to Generator.
type ChatModelGenerator struct {
	model model.BaseChatModel
}

// NewChatModelGenerator wraps m.
func NewChatModelGenerator(m model.BaseChatModel) *ChatModelGenerator {
	return &ChatModelGenerator{model: m}
}

// Generate sends the system instruction and the prompt as a two-message
// conversation and returns the reply's content.
func (g *ChatModelGenerator) Generate(ctx context.Context, systemInstruction, prompt string) (string, error) {
	messages := make([]*schema.Message, 0, 2)
	if systemInstruction != "" {
		messages = append(messages, schema.SystemMessage(systemInstruction))
	}
	messages = append(messages, schema.UserMessage(prompt))

	reply, err := g.model.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("chat model: %w", err)
	}
	if reply == nil {
		return "", nil
	}
	return reply.Content, nil
}

// ArkConfig selects a Volcengine Ark model.
type ArkConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Region  string
}

// NewArkGenerator builds a Generator backed by the Ark provider.
func NewArkGenerator(ctx context.Context, cfg ArkConfig) (*ChatModelGenerator, error) {
	if cfg.APIKey == "" || cfg.Model == "" {
		return nil, errors.New("concierge: ark needs an API key and a model")
	}

	m, err := ark.NewChatModel(ctx, &ark.ChatModelConfig{
		BaseURL: cfg.BaseURL,
		Region:  cfg.Region,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("concierge: creating ark chat model: %w", err)
	}
	return NewChatModelGenerator(m), nil
}
