package models

// Requests for the HTTP endpoints. Kept in domain so handlers and tests share them.

type MarketAnalysisRequest struct {
	Instrument string `param:"instrument" json:"instrument" validate:"required,max=32,printascii"`
	Timeframe  string `query:"timeframe" json:"timeframe" default:"1d" validate:"oneof=1m 5m 15m 30m 1h 4h 1d 1wk 1mo"`
}

type TradeSignalRequest struct {
	Instrument string `query:"instrument" json:"instrument" validate:"required,max=32,printascii"`
}

type OnchainRequest struct {
	WalletAddress string `query:"wallet_address" json:"wallet_address" validate:"required,eth_addr"`
}

type ChatRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}
