package models

import "time"

// Candle represents an OHLCV bar.
type Candle struct {
	Bucket time.Time `json:"bucket"`
	Symbol string    `json:"symbol"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

type Direction string

const (
	DirectionBuy  Direction = "buy"
	DirectionSell Direction = "sell"
)

// TradeSignal is the output of the signal pipeline.
type TradeSignal struct {
	ID              string    `json:"id"`
	Instrument      string    `json:"instrument"`
	Direction       Direction `json:"direction"`
	EntryPrice      float64   `json:"entry_price"`
	TakeProfit      float64   `json:"take_profit"`
	StopLoss        float64   `json:"stop_loss"`
	LotSize         float64   `json:"lot_size"`
	Reasoning       []string  `json:"reasoning"`
	ConfidenceScore float64   `json:"confidence_score"`
	Score           int       `json:"score"`
	Timestamp       time.Time `json:"timestamp"`
}
