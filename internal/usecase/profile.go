package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"TradeLLM/internal/domain/models"
	domrepo "TradeLLM/internal/domain/repository"
	domsvc "TradeLLM/internal/domain/service"
	"TradeLLM/internal/service/llm"
)

const maxRecommendedAssets = 5

var defaultAssets = []string{"BTC", "ETH", "USDT"}

var riskScores = map[string]float64{
	"low":      0.3,
	"moderate": 0.6,
	"high":     0.9,
}

var tokenNames = map[string]string{
	"bitcoin":   "BTC",
	"ethereum":  "ETH",
	"ether":     "ETH",
	"solana":    "SOL",
	"ripple":    "XRP",
	"cardano":   "ADA",
	"dogecoin":  "DOGE",
	"polkadot":  "DOT",
	"avalanche": "AVAX",
	"chainlink": "LINK",
	"polygon":   "MATIC",
	"litecoin":  "LTC",
	"binance":   "BNB",
	"tron":      "TRX",
	"tether":    "USDT",
	"usdc":      "USDC",
	"arbitrum":  "ARB",
	"optimism":  "OP",
}

// ProfileService drafts a trading profile for a user.
type ProfileService struct {
	llm     domsvc.ChatCompleter
	metrics domrepo.Metrics
}

func NewProfileService(c domsvc.ChatCompleter, m domrepo.Metrics) *ProfileService {
	return &ProfileService{llm: c, metrics: orNopMetrics(m)}
}

func (s *ProfileService) Create(ctx context.Context, p models.UserProfile) (models.ProfileResult, error) {
	prompt := fmt.Sprintf(`Create a trading profile based on:
Risk level: %s
Token preferences: %s
Mission statement: %s
`, p.RiskLevel, p.TokenPreferences, p.MissionStatement)

	start := time.Now()
	text, err := s.llm.Complete(ctx, llm.AdvisorSystemPrompt, prompt)
	observe(s.metrics, providerLLM, start, err)
	if err != nil {
		return models.ProfileResult{}, fmt.Errorf("profile generation failed: %w", err)
	}

	return models.ProfileResult{
		Profile:           text,
		RiskScore:         RiskScore(p.RiskLevel),
		RecommendedAssets: RecommendAssets(p.TokenPreferences),
	}, nil
}

// RiskScore maps low, moderate and high; anything else is 0.5.
func RiskScore(level string) float64 {
	if v, ok := riskScores[strings.ToLower(strings.TrimSpace(level))]; ok {
		return v
	}
	return 0.5
}

// RecommendAssets pulls tickers out of free text: known coin names and
// upper-case words of 2 to 6 characters, in order of appearance.
func RecommendAssets(preferences string) []string {
	words := strings.FieldsFunc(preferences, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]bool)
	out := make([]string, 0, maxRecommendedAssets)
	for _, w := range words {
		ticker, ok := tokenNames[strings.ToLower(w)]
		if !ok && isTicker(w) {
			ticker, ok = w, true
		}
		if !ok || seen[ticker] {
			continue
		}
		seen[ticker] = true
		out = append(out, ticker)
		if len(out) == maxRecommendedAssets {
			break
		}
	}
	if len(out) == 0 {
		return append([]string(nil), defaultAssets...)
	}
	return out
}

func isTicker(w string) bool {
	if len(w) < 2 || len(w) > 6 {
		return false
	}
	hasLetter := false
	for _, r := range w {
		switch {
		case r >= 'A' && r <= 'Z':
			hasLetter = true
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return hasLetter
}
