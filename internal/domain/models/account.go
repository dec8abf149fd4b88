package models

// AccountState is the on-chain margin account snapshot for a wallet.
type AccountState struct {
	Wallet       string
	Withdrawable float64
	Positions    []Position
}

// Position is a single open perp position.
type Position struct {
	Asset    string   `json:"asset"`
	Size     float64  `json:"size"`
	Value    float64  `json:"value"`
	PnL      float64  `json:"pnl"`
	Leverage *float64 `json:"leverage,omitempty"`
}

type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
)

// RiskAnalysis summarises exposure over open positions.
type RiskAnalysis struct {
	TotalExposure float64   `json:"total_exposure"`
	MaxLeverage   float64   `json:"max_leverage"`
	RiskLevel     RiskLevel `json:"risk_level"`
}

// OnchainAnalysis is the response of the on-chain endpoint.
type OnchainAnalysis struct {
	Wallet           string       `json:"wallet_address"`
	AvailableBalance float64      `json:"available_balance"`
	Positions        []Position   `json:"positions"`
	RiskAnalysis     RiskAnalysis `json:"risk_analysis"`
}

// UserProfile is the caller-supplied identity used to build a trading profile.
type UserProfile struct {
	RiskLevel        string `json:"risk_level" validate:"required,max=32"`
	TokenPreferences string `json:"token_preferences" validate:"required,max=512"`
	MissionStatement string `json:"mission_statement" validate:"required,max=2000"`
	WalletAddress    string `json:"wallet_address,omitempty" validate:"omitempty,eth_addr"`
}

// ProfileResult is the response of the profile endpoint.
type ProfileResult struct {
	Profile           string   `json:"profile"`
	RiskScore         float64  `json:"risk_score"`
	RecommendedAssets []string `json:"recommended_assets"`
}
