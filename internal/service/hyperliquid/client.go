package hyperliquid

import (
	"context"
	"fmt"
	"time"

	"TradeLLM/internal/domain/models"
	domsvc "TradeLLM/internal/domain/service"
	"TradeLLM/pkg/config"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

// Client reads clearinghouse state from the Hyperliquid info API.
type Client struct {
	client *resty.Client
}

func NewClient(cfg *config.Config) *Client {
	rc := resty.New().
		SetBaseURL(cfg.HyperliquidURL()).
		SetTimeout(cfg.Hyperliquid.Timeout).
		SetRetryCount(cfg.Hyperliquid.Retries).
		SetRetryWaitTime(250*time.Millisecond).
		SetRetryMaxWaitTime(2*time.Second).
		SetHeader("Content-Type", "application/json").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() == 429 || r.StatusCode() >= 500
		})
	return &Client{client: rc}
}

type infoRequest struct {
	Type string `json:"type"`
	User string `json:"user"`
}

type clearinghouseState struct {
	Withdrawable   decimal.Decimal `json:"withdrawable"`
	AssetPositions []struct {
		Position struct {
			Coin          string          `json:"coin"`
			Szi           decimal.Decimal `json:"szi"`
			PositionValue decimal.Decimal `json:"positionValue"`
			UnrealizedPnl decimal.Decimal `json:"unrealizedPnl"`
			Leverage      *struct {
				Type  string              `json:"type"`
				Value decimal.NullDecimal `json:"value"`
			} `json:"leverage"`
		} `json:"position"`
	} `json:"assetPositions"`
}

// AccountState implements domain AccountStateProvider.
func (c *Client) AccountState(ctx context.Context, wallet string) (models.AccountState, error) {
	var state clearinghouseState
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(infoRequest{Type: "clearinghouseState", User: wallet}).
		SetResult(&state).
		Post("/info")
	if err != nil {
		return models.AccountState{}, fmt.Errorf("hyperliquid info: %w", err)
	}
	if resp.IsError() {
		return models.AccountState{}, fmt.Errorf("hyperliquid info: unexpected status %d: %s", resp.StatusCode(), resp.String())
	}

	out := models.AccountState{
		Wallet:       wallet,
		Withdrawable: state.Withdrawable.InexactFloat64(),
		Positions:    make([]models.Position, 0, len(state.AssetPositions)),
	}
	for _, ap := range state.AssetPositions {
		p := ap.Position
		pos := models.Position{
			Asset: p.Coin,
			Size:  p.Szi.InexactFloat64(),
			Value: p.PositionValue.InexactFloat64(),
			PnL:   p.UnrealizedPnl.InexactFloat64(),
		}
		if p.Leverage != nil && p.Leverage.Value.Valid {
			lev := p.Leverage.Value.Decimal.InexactFloat64()
			pos.Leverage = &lev
		}
		out.Positions = append(out.Positions, pos)
	}
	return out, nil
}

var _ domsvc.AccountStateProvider = (*Client)(nil)
