package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"TradeLLM/internal/domain/models"
	domrepo "TradeLLM/internal/domain/repository"
	domsvc "TradeLLM/internal/domain/service"
	"TradeLLM/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	volumeConfirmRatio = 1.2
	maxScore           = 5
	priceDecimals      = 8
)

var ErrNonPositiveATR = errors.New("volatility is zero, cannot size position")

// SignalParams are the sizing and exit constants.
type SignalParams struct {
	Timeframe     domrepo.Timeframe
	RiskPerTrade  float64
	TakeProfitATR float64
	StopLossATR   float64
	ATRFactor     float64
	MaxReasons    int
}

func DefaultSignalParams() SignalParams {
	return SignalParams{
		Timeframe:     domrepo.TF1d,
		RiskPerTrade:  0.02,
		TakeProfitATR: 3,
		StopLossATR:   1.5,
		ATRFactor:     0.1,
		MaxReasons:    3,
	}
}

// TradeSignalGenerator turns market and sentiment analysis into a sized signal.
type TradeSignalGenerator struct {
	market    *MarketAnalyzer
	sentiment *SentimentAnalyzer
	reasoner  domsvc.TextGenerator
	publisher domrepo.SignalPublisher
	metrics   domrepo.Metrics
	log       *logger.Logger
	params    SignalParams
	now       func() time.Time
	newID     func() string
}

func NewTradeSignalGenerator(
	market *MarketAnalyzer,
	sentiment *SentimentAnalyzer,
	reasoner domsvc.TextGenerator,
	publisher domrepo.SignalPublisher,
	m domrepo.Metrics,
	l *logger.Logger,
	params SignalParams,
) *TradeSignalGenerator {
	return &TradeSignalGenerator{
		market:    market,
		sentiment: sentiment,
		reasoner:  reasoner,
		publisher: publisher,
		metrics:   orNopMetrics(m),
		log:       orNopLogger(l),
		params:    params,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
}

// Generate builds, publishes and returns a trade signal for instrument.
func (g *TradeSignalGenerator) Generate(ctx context.Context, instrument string) (models.TradeSignal, error) {
	sig, err := g.generate(ctx, instrument)
	if err != nil {
		return sig, fmt.Errorf("trade signal generation failed: %w", err)
	}

	if g.publisher != nil {
		if err := g.publisher.Publish(ctx, &sig); err != nil {
			g.metrics.RecordError("signal_publish")
			g.log.Warn("publish signal failed", logger.String("id", sig.ID), logger.Error(err))
		}
	}
	g.metrics.RecordSignal(instrument, sig.Direction)
	return sig, nil
}

func (g *TradeSignalGenerator) generate(ctx context.Context, instrument string) (models.TradeSignal, error) {
	var sig models.TradeSignal
	market, sentiment, err := analyzeConcurrently(ctx, g.market, g.sentiment, instrument, g.params.Timeframe)
	if err != nil {
		return sig, err
	}

	price := market.Price
	score := Score(market.Indicators, sentiment.Label)
	direction := DirectionFor(score)

	atr := ATR(price, market.Indicators, g.params.ATRFactor)
	if atr <= 0 || math.IsNaN(atr) || math.IsInf(atr, 0) {
		return sig, ErrNonPositiveATR
	}
	tp, sl := ExitPoints(direction, price, atr, g.params.TakeProfitATR, g.params.StopLossATR)

	start := time.Now()
	text, err := g.reasoner.Generate(ctx, ReasoningPrompt(instrument, direction, market, sentiment))
	observe(g.metrics, providerReasoning, start, err)
	if err != nil {
		return sig, fmt.Errorf("reasoning: %w", err)
	}

	return models.TradeSignal{
		ID:              g.newID(),
		Instrument:      instrument,
		Direction:       direction,
		EntryPrice:      price,
		TakeProfit:      tp,
		StopLoss:        sl,
		LotSize:         LotSize(price, atr, g.params.RiskPerTrade),
		Reasoning:       ParseReasons(text, g.params.MaxReasons),
		ConfidenceScore: Confidence(score),
		Score:           score,
		Timestamp:       g.now(),
	}, nil
}

// analyzeConcurrently runs market and sentiment analysis side by side.
func analyzeConcurrently(ctx context.Context, market *MarketAnalyzer, sentiment *SentimentAnalyzer, instrument string, tf domrepo.Timeframe) (models.TechnicalAnalysis, models.SentimentResult, error) {
	var (
		ta models.TechnicalAnalysis
		sr models.SentimentResult
	)
	eg, ectx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		ta, err = market.Analyze(ectx, instrument, tf)
		return err
	})
	eg.Go(func() (err error) {
		sr, err = sentiment.Analyze(ectx, instrument)
		return err
	})
	err := eg.Wait()
	return ta, sr, err
}

// Score adds one point per bullish signal and removes one per bearish signal.
func Score(ind models.Indicators, sentiment models.SentimentLabel) int {
	score := 0
	if ind.SMA20 > ind.SMA50 {
		score++
	} else {
		score--
	}
	switch {
	case ind.RSI < 30:
		score++
	case ind.RSI > 70:
		score--
	}
	if ind.MACD > 0 {
		score++
	} else {
		score--
	}
	if ind.VolumeRatio > volumeConfirmRatio {
		score++
	}
	switch sentiment {
	case models.SentimentPositive:
		score++
	case models.SentimentNegative:
		score--
	}
	return score
}

func DirectionFor(score int) models.Direction {
	if score > 0 {
		return models.DirectionBuy
	}
	return models.DirectionSell
}

// ATR is the band-width volatility proxy price * (|upper-lower|/price) * factor.
func ATR(price float64, ind models.Indicators, factor float64) float64 {
	if price == 0 {
		return 0
	}
	volatility := math.Abs(ind.BollingerUpper-ind.BollingerLower) / price
	return price * volatility * factor
}

// LotSize is risk*price/atr rounded to 8 decimals.
func LotSize(price, atr, risk float64) float64 {
	return round8(decimal.NewFromFloat(risk).
		Mul(decimal.NewFromFloat(price)).
		Div(decimal.NewFromFloat(atr)))
}

// ExitPoints places take profit and stop loss tpMult and slMult ATRs away from price.
func ExitPoints(dir models.Direction, price, atr, tpMult, slMult float64) (takeProfit, stopLoss float64) {
	p := decimal.NewFromFloat(price)
	a := decimal.NewFromFloat(atr)
	tp := a.Mul(decimal.NewFromFloat(tpMult))
	sl := a.Mul(decimal.NewFromFloat(slMult))
	if dir == models.DirectionBuy {
		return round8(p.Add(tp)), round8(p.Sub(sl))
	}
	return round8(p.Sub(tp)), round8(p.Add(sl))
}

// Confidence maps |score| onto [0, 1].
func Confidence(score int) float64 {
	c := math.Abs(float64(score)) / maxScore
	return math.Min(c, 1)
}

func round8(d decimal.Decimal) float64 {
	return d.Round(priceDecimals).InexactFloat64()
}

func ReasoningPrompt(instrument string, dir models.Direction, market models.TechnicalAnalysis, sentiment models.SentimentResult) string {
	return fmt.Sprintf(`Analyze the following trading data and provide 3 key reasons for a %s trade on %s:

Technical Indicators:
- Price: %g
- RSI: %g
- MACD: %g
- Volume Ratio: %g

Market Sentiment: %s
Market Summary: %s
`, dir, instrument,
		market.Price, market.Indicators.RSI, market.Indicators.MACD, market.Indicators.VolumeRatio,
		sentiment.Label, market.Summary)
}

// ParseReasons keeps the first limit non-empty lines that are not "-" bullets.
func ParseReasons(text string, limit int) []string {
	if limit <= 0 {
		limit = DefaultSignalParams().MaxReasons
	}
	out := make([]string, 0, limit)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "-") {
			continue
		}
		out = append(out, line)
		if len(out) == limit {
			break
		}
	}
	return out
}
