package service

import (
	"context"

	"TradeLLM/internal/domain/models"
)

// SentimentClassifier labels a piece of financial text.
type SentimentClassifier interface {
	Classify(ctx context.Context, text string) (models.SentimentScore, error)
}

// Summarizer condenses analysis text.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// TextGenerator completes a free-form prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ChatCompleter runs a single system+user chat completion.
type ChatCompleter interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// AccountStateProvider reads margin account state for a wallet.
type AccountStateProvider interface {
	AccountState(ctx context.Context, wallet string) (models.AccountState, error)
}
