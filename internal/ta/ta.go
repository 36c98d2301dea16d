package ta

import (
	"math"
	"sort"

	"github.com/savageleo254/sentinel-gold-trader/internal/types"
)

// MinBars is the smallest window the engine computes a snapshot from.
// Below this RSI is meaningless; above it every indicator degrades to a
// defined neutral default rather than failing.
const MinBars = 14

// Snapshot holds every scalar indicator for the most recent bar of a window.
type Snapshot struct {
	SMA20         float64
	SMA50         float64
	RSI           float64
	MACD          float64
	MACDHistogram float64
	Volatility    float64
	Support       float64
	Resistance    float64
	VolumeRatio   float64
	Trend         types.Trend
}

// Compute derives a full indicator snapshot from an ordered bar window
// (ascending timestamps). Short windows inside [MinBars, required lookback)
// produce neutral defaults per indicator; fewer than MinBars bars is an error
// because the feature vector would carry no signal at all.
func Compute(bars []types.Bar) (Snapshot, error) {
	if len(bars) < MinBars {
		return Snapshot{}, &types.InsufficientDataError{Op: "ta.Compute", Have: len(bars), Want: MinBars}
	}

	closes := make([]float64, len(bars))
	highs := make([]float64, len(bars))
	lows := make([]float64, len(bars))
	volumes := make([]int64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
		highs[i] = b.High
		lows[i] = b.Low
		volumes[i] = b.Volume
	}

	macd, hist := MACD(closes)

	return Snapshot{
		SMA20:         SMA(closes, 20),
		SMA50:         SMA(closes, 50),
		RSI:           RSI(closes),
		MACD:          macd,
		MACDHistogram: hist,
		Volatility:    Volatility(closes),
		Support:       Support(lows),
		Resistance:    Resistance(highs),
		VolumeRatio:   VolumeRatio(volumes),
		Trend:         AnalyzeTrend(closes),
	}, nil
}

// SMA is the arithmetic mean of the last n closes. With fewer than n values
// it degrades to the mean of everything available, so a feature vector is
// always producible.
func SMA(closes []float64, n int) float64 {
	if len(closes) == 0 {
		return 0
	}
	if n <= 0 || len(closes) < n {
		n = len(closes)
	}
	sum := 0.0
	for i := len(closes) - n; i < len(closes); i++ {
		sum += closes[i]
	}
	return sum / float64(n)
}

// EMA smooths the series oldest-to-newest, seeded with the oldest sample and
// multiplier 2/(n+1). The iteration direction is part of the contract: the
// persisted model weights were fit against forward iteration.
func EMA(values []float64, n int) float64 {
	if len(values) == 0 {
		return 0
	}
	k := 2.0 / (float64(n) + 1.0)
	ema := values[0]
	for i := 1; i < len(values); i++ {
		ema = values[i]*k + ema*(1-k)
	}
	return ema
}

// RSI is the 14-period Relative Strength Index over the trailing 13 deltas.
// avgLoss of zero with any gain saturates at 100; a window with no movement
// (or fewer than 14 closes) is the neutral 50.
func RSI(closes []float64) float64 {
	const period = 14
	if len(closes) < period {
		return 50
	}
	window := closes[len(closes)-period:]
	gains, losses := 0.0, 0.0
	for i := 1; i < len(window); i++ {
		d := window[i] - window[i-1]
		if d > 0 {
			gains += d
		} else {
			losses -= d
		}
	}
	avgGain := gains / float64(period-1)
	avgLoss := losses / float64(period-1)
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

// MACD returns EMA(12)-EMA(26) for the latest close and the histogram (macd
// minus its own 9-period EMA). Fewer than 26 closes returns {0, 0} rather
// than failing.
func MACD(closes []float64) (macd, histogram float64) {
	if len(closes) < 26 {
		return 0, 0
	}
	k12 := 2.0 / 13.0
	k26 := 2.0 / 27.0
	ema12 := closes[0]
	ema26 := closes[0]
	series := make([]float64, len(closes))
	series[0] = 0
	for i := 1; i < len(closes); i++ {
		ema12 = closes[i]*k12 + ema12*(1-k12)
		ema26 = closes[i]*k26 + ema26*(1-k26)
		series[i] = ema12 - ema26
	}
	macd = series[len(series)-1]
	signal := EMA(series, 9)
	return macd, macd - signal
}

// Volatility is the population standard deviation of simple close-over-close
// returns across the window.
func Volatility(closes []float64) float64 {
	if len(closes) < 2 {
		return 0
	}
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		returns = append(returns, (closes[i]-closes[i-1])/closes[i-1])
	}
	if len(returns) == 0 {
		return 0
	}
	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))
	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns))
	return math.Sqrt(variance)
}

// Support is the 20th percentile of the window's lows, a robust proxy for the
// recent floor rather than the literal minimum.
func Support(lows []float64) float64 {
	if len(lows) == 0 {
		return 0
	}
	sorted := append([]float64(nil), lows...)
	sort.Float64s(sorted)
	return sorted[int(math.Floor(float64(len(sorted))*0.2))]
}

// Resistance is the 20th percentile of the window's highs sorted descending.
func Resistance(highs []float64) float64 {
	if len(highs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), highs...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	return sorted[int(math.Floor(float64(len(sorted))*0.2))]
}

// VolumeRatio divides the latest bar's volume by the window's mean volume,
// defaulting to 1.0 when the mean is zero.
func VolumeRatio(volumes []int64) float64 {
	if len(volumes) == 0 {
		return 1.0
	}
	sum := int64(0)
	for _, v := range volumes {
		sum += v
	}
	mean := float64(sum) / float64(len(volumes))
	if mean == 0 {
		return 1.0
	}
	return float64(volumes[len(volumes)-1]) / mean
}

// AnalyzeTrend compares the mean of the newest 10 closes against the mean of
// the 10 before them. Moves under 0.1% either way are SIDEWAYS.
func AnalyzeTrend(closes []float64) types.Trend {
	if len(closes) < 20 {
		return types.Trend{Direction: types.TrendSideways, Strength: 0}
	}
	recent := closes[len(closes)-10:]
	older := closes[len(closes)-20 : len(closes)-10]

	recentAvg := 0.0
	for _, c := range recent {
		recentAvg += c
	}
	recentAvg /= float64(len(recent))

	olderAvg := 0.0
	for _, c := range older {
		olderAvg += c
	}
	olderAvg /= float64(len(older))

	if olderAvg == 0 {
		return types.Trend{Direction: types.TrendSideways, Strength: 0}
	}
	change := (recentAvg - olderAvg) / olderAvg

	dir := types.TrendSideways
	if change > 0.001 {
		dir = types.TrendBullish
	} else if change < -0.001 {
		dir = types.TrendBearish
	}
	return types.Trend{Direction: dir, Strength: math.Abs(change) * 100}
}
