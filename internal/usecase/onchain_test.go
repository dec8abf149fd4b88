package usecase

import (
	"context"
	"errors"
	"testing"

	"TradeLLM/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lev(v float64) *float64 { return &v }

func TestOnchainAnalyze(t *testing.T) {
	acct := &fakeAccount{state: models.AccountState{
		Withdrawable: 1200.5,
		Positions: []models.Position{
			{Asset: "ETH", Size: 1, Value: 3000, PnL: 20, Leverage: lev(7)},
			{Asset: "BTC", Size: -0.1, Value: -6400.25, PnL: -5},
		},
	}}
	a := NewOnchainAnalyzer(acct, nil, nil)

	res, err := a.Analyze(context.Background(), " 0x5E9EE1089755C3435139848E47E6635505D5A13A ")
	require.NoError(t, err)
	assert.Equal(t, "0x5e9ee1089755c3435139848e47e6635505d5a13a", acct.wallet)
	assert.Equal(t, acct.wallet, res.Wallet)
	assert.Equal(t, 1200.5, res.AvailableBalance)
	assert.Len(t, res.Positions, 2)
	assert.Equal(t, models.RiskAnalysis{TotalExposure: 9400.25, MaxLeverage: 7, RiskLevel: models.RiskModerate}, res.RiskAnalysis)
}

func TestOnchainAnalyzeErrors(t *testing.T) {
	a := NewOnchainAnalyzer(&fakeAccount{}, nil, nil)
	_, err := a.Analyze(context.Background(), "not-a-wallet")
	assert.ErrorIs(t, err, ErrInvalidWallet)

	a = NewOnchainAnalyzer(&fakeAccount{err: errors.New("502")}, nil, nil)
	_, err = a.Analyze(context.Background(), "0x5e9ee1089755c3435139848e47e6635505d5a13a")
	assert.ErrorContains(t, err, "onchain analysis failed")
}

func TestOnchainEmptyAccount(t *testing.T) {
	a := NewOnchainAnalyzer(&fakeAccount{}, nil, nil)
	res, err := a.Analyze(context.Background(), "0x5e9ee1089755c3435139848e47e6635505d5a13a")
	require.NoError(t, err)
	assert.NotNil(t, res.Positions)
	assert.Equal(t, models.RiskAnalysis{RiskLevel: models.RiskLow}, res.RiskAnalysis)
}

func TestPortfolioRisk(t *testing.T) {
	tests := []struct {
		name string
		lev  []*float64
		want models.RiskLevel
	}{
		{"none", []*float64{nil}, models.RiskLow},
		{"five is low", []*float64{lev(5)}, models.RiskLow},
		{"ten is moderate", []*float64{lev(3), lev(10)}, models.RiskModerate},
		{"above ten is high", []*float64{lev(2), lev(20), nil}, models.RiskHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			positions := make([]models.Position, len(tt.lev))
			for i, l := range tt.lev {
				positions[i] = models.Position{Value: 100, Leverage: l}
			}
			got := PortfolioRisk(positions)
			assert.Equal(t, tt.want, got.RiskLevel)
			assert.Equal(t, float64(100*len(tt.lev)), got.TotalExposure)
		})
	}
}
