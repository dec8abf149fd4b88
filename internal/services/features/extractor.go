package features

import (
	"errors"
	"fmt"
	"math"

	"TradeLLM/internal/domain/models"
)

const (
	SMAShortWindow  = 20
	SMALongWindow   = 50
	RSIPeriod       = 14
	MACDFastSpan    = 12
	MACDSlowSpan    = 26
	BollingerWindow = 20
	BollingerWidth  = 2.0

	// MinCandles is the shortest series every indicator is defined on.
	MinCandles = SMALongWindow
)

var ErrInsufficientData = errors.New("insufficient data")

// Extract computes the full indicator set over candles ordered oldest first.
func Extract(candles []models.Candle) (models.Indicators, error) {
	var out models.Indicators
	if len(candles) < MinCandles {
		return out, fmt.Errorf("%w: need %d candles, have %d", ErrInsufficientData, MinCandles, len(candles))
	}

	closes := Closes(candles)

	var err error
	if out.SMA20, err = SMA(closes, SMAShortWindow); err != nil {
		return out, err
	}
	if out.SMA50, err = SMA(closes, SMALongWindow); err != nil {
		return out, err
	}
	if out.RSI, err = RSI(closes, RSIPeriod); err != nil {
		return out, err
	}
	out.MACD = MACD(closes, MACDFastSpan, MACDSlowSpan)
	if out.BollingerUpper, _, out.BollingerLower, err = Bollinger(closes, BollingerWindow, BollingerWidth); err != nil {
		return out, err
	}
	out.VolumeRatio = VolumeRatio(Volumes(candles))
	return out, nil
}

// Closes returns the close column.
func Closes(candles []models.Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}

// Volumes returns the volume column.
func Volumes(candles []models.Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Volume
	}
	return out
}

// SMA is the mean of the last window values.
func SMA(values []float64, window int) (float64, error) {
	if window <= 0 || len(values) < window {
		return 0, fmt.Errorf("%w: sma(%d) over %d values", ErrInsufficientData, window, len(values))
	}
	return mean(values[len(values)-window:]), nil
}

// RSI uses simple rolling means of gains and losses over the last period deltas.
// A window with no losses reads 100, a window with no movement at all reads 50.
func RSI(values []float64, period int) (float64, error) {
	if period <= 0 || len(values) < period+1 {
		return 0, fmt.Errorf("%w: rsi(%d) over %d values", ErrInsufficientData, period, len(values))
	}
	var gain, loss float64
	for i := len(values) - period; i < len(values); i++ {
		d := values[i] - values[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	gain /= float64(period)
	loss /= float64(period)

	switch {
	case gain == 0 && loss == 0:
		return 50, nil
	case loss == 0:
		return 100, nil
	}
	rs := gain / loss
	return 100 - 100/(1+rs), nil
}

// EMA is the recursive exponential mean with alpha = 2/(span+1), seeded
// with the first value.
func EMA(values []float64, span int) []float64 {
	if len(values) == 0 || span <= 0 {
		return nil
	}
	alpha := 2.0 / (float64(span) + 1)
	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// MACD is the latest fast EMA minus the latest slow EMA.
func MACD(values []float64, fast, slow int) float64 {
	if len(values) == 0 {
		return 0
	}
	f := EMA(values, fast)
	s := EMA(values, slow)
	return f[len(f)-1] - s[len(s)-1]
}

// Bollinger returns upper, middle and lower bands from the sample standard
// deviation of the last window values.
func Bollinger(values []float64, window int, width float64) (upper, middle, lower float64, err error) {
	if window < 2 || len(values) < window {
		return 0, 0, 0, fmt.Errorf("%w: bollinger(%d) over %d values", ErrInsufficientData, window, len(values))
	}
	w := values[len(values)-window:]
	middle = mean(w)
	var ss float64
	for _, v := range w {
		ss += (v - middle) * (v - middle)
	}
	std := math.Sqrt(ss / float64(window-1))
	return middle + width*std, middle, middle - width*std, nil
}

// VolumeRatio is the last volume over the mean volume, 0 when the mean is 0.
func VolumeRatio(volumes []float64) float64 {
	if len(volumes) == 0 {
		return 0
	}
	m := mean(volumes)
	if m == 0 {
		return 0
	}
	return volumes[len(volumes)-1] / m
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
