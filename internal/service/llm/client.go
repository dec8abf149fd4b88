package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	domsvc "TradeLLM/internal/domain/service"
	"TradeLLM/pkg/config"

	"github.com/sashabaranov/go-openai"
)

const (
	// TraderSystemPrompt frames trade reasoning requests.
	TraderSystemPrompt = "You are a professional trader providing detailed trade analysis."
	// AdvisorSystemPrompt frames user profile requests.
	AdvisorSystemPrompt = "You are a professional trading advisor creating personalized trading profiles."
)

var ErrEmptyCompletion = errors.New("llm returned no choices")

// Client talks to an OpenAI compatible chat completion API (Groq by default).
type Client struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

// NewClient builds the client from the llm config section.
func NewClient(cfg *config.Config) *Client {
	oc := openai.DefaultConfig(cfg.LLM.APIKey)
	if cfg.LLM.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.LLM.BaseURL, "/")
	}
	oc.HTTPClient = &http.Client{Timeout: cfg.LLM.Timeout}

	return &Client{
		client:      openai.NewClientWithConfig(oc),
		model:       cfg.LLM.Model,
		temperature: cfg.LLM.Temperature,
		maxTokens:   cfg.LLM.MaxTokens,
	}
}

// Complete sends one system and one user message and returns the first choice.
func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}

// Generator adapts a ChatCompleter to TextGenerator with a fixed system prompt.
type Generator struct {
	completer domsvc.ChatCompleter
	system    string
}

func NewGenerator(c domsvc.ChatCompleter, system string) *Generator {
	return &Generator{completer: c, system: system}
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.completer.Complete(ctx, g.system, prompt)
}

var (
	_ domsvc.ChatCompleter = (*Client)(nil)
	_ domsvc.TextGenerator = (*Generator)(nil)
)
