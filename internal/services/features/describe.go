package features

import (
	"fmt"
	"strings"

	"TradeLLM/internal/domain/models"
)

// Thresholds used by Describe.
const (
	RSIOverbought   = 70.0
	RSIOversold     = 30.0
	VolumeHighRatio = 1.5
	VolumeLowRatio  = 0.5
)

// Describe renders indicators as the plain-English text fed to the summarizer.
func Describe(instrument string, ind models.Indicators) string {
	trends := make([]string, 0, 4)

	switch {
	case ind.RSI > RSIOverbought:
		trends = append(trends, fmt.Sprintf("%s is currently overbought with RSI at %.2f", instrument, ind.RSI))
	case ind.RSI < RSIOversold:
		trends = append(trends, fmt.Sprintf("%s is currently oversold with RSI at %.2f", instrument, ind.RSI))
	}

	if ind.SMA20 > ind.SMA50 {
		trends = append(trends, "Short-term trend is bullish with 20-day SMA above 50-day SMA")
	} else {
		trends = append(trends, "Short-term trend is bearish with 20-day SMA below 50-day SMA")
	}

	switch {
	case ind.VolumeRatio > VolumeHighRatio:
		trends = append(trends, "Trading volume is significantly above average")
	case ind.VolumeRatio < VolumeLowRatio:
		trends = append(trends, "Trading volume is significantly below average")
	}

	if ind.MACD > 0 {
		trends = append(trends, "MACD indicates positive momentum")
	} else {
		trends = append(trends, "MACD indicates negative momentum")
	}

	return strings.Join(trends, " ")
}
