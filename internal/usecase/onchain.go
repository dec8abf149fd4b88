package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"TradeLLM/internal/domain/models"
	domrepo "TradeLLM/internal/domain/repository"
	domsvc "TradeLLM/internal/domain/service"
	"TradeLLM/pkg/logger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

const (
	highLeverage     = 10
	moderateLeverage = 5
)

var ErrInvalidWallet = errors.New("invalid wallet address")

// OnchainAnalyzer summarises open perp positions of a wallet.
type OnchainAnalyzer struct {
	provider domsvc.AccountStateProvider
	metrics  domrepo.Metrics
	log      *logger.Logger
}

func NewOnchainAnalyzer(provider domsvc.AccountStateProvider, m domrepo.Metrics, l *logger.Logger) *OnchainAnalyzer {
	return &OnchainAnalyzer{provider: provider, metrics: orNopMetrics(m), log: orNopLogger(l)}
}

func (a *OnchainAnalyzer) Analyze(ctx context.Context, wallet string) (models.OnchainAnalysis, error) {
	wallet = strings.TrimSpace(wallet)
	if !common.IsHexAddress(wallet) {
		return models.OnchainAnalysis{}, fmt.Errorf("%w: %q", ErrInvalidWallet, wallet)
	}
	wallet = strings.ToLower(common.HexToAddress(wallet).Hex())

	start := time.Now()
	st, err := a.provider.AccountState(ctx, wallet)
	observe(a.metrics, providerOnchain, start, err)
	if err != nil {
		return models.OnchainAnalysis{}, fmt.Errorf("onchain analysis failed: %w", err)
	}

	positions := st.Positions
	if positions == nil {
		positions = []models.Position{}
	}
	return models.OnchainAnalysis{
		Wallet:           wallet,
		AvailableBalance: st.Withdrawable,
		Positions:        positions,
		RiskAnalysis:     PortfolioRisk(positions),
	}, nil
}

// PortfolioRisk sums absolute position value and grades the highest leverage.
func PortfolioRisk(positions []models.Position) models.RiskAnalysis {
	exposure := decimal.Zero
	var maxLev float64
	for _, p := range positions {
		exposure = exposure.Add(decimal.NewFromFloat(p.Value).Abs())
		if p.Leverage != nil && *p.Leverage > maxLev {
			maxLev = *p.Leverage
		}
	}

	level := models.RiskLow
	switch {
	case maxLev > highLeverage:
		level = models.RiskHigh
	case maxLev > moderateLeverage:
		level = models.RiskModerate
	}
	return models.RiskAnalysis{
		TotalExposure: exposure.InexactFloat64(),
		MaxLeverage:   maxLev,
		RiskLevel:     level,
	}
}
