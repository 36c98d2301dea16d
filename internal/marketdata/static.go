package marketdata

import (
	"context"
	"math"
	"time"

	"github.com/savageleo254/sentinel-gold-trader/internal/interfaces"
	"github.com/savageleo254/sentinel-gold-trader/internal/types"
)

// StaticSource generates a deterministic synthetic price series for dry runs
// and local development. The same (symbol, timeframe, n) request always
// yields the same bars, so downstream signals are reproducible.
type StaticSource struct {
	BasePrice float64
	Amplitude float64
	Drift     float64
	Anchor    time.Time
}

var _ interfaces.BarSource = (*StaticSource)(nil)

// NewStaticSource returns a generator shaped like a slow XAUUSD grind: a
// gentle upward drift with a sine swing around it.
func NewStaticSource() *StaticSource {
	return &StaticSource{
		BasePrice: 2400.0,
		Amplitude: 6.0,
		Drift:     0.05,
		Anchor:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *StaticSource) RecentBars(ctx context.Context, symbol, timeframe string, n int) ([]types.Bar, error) {
	step := timeframeDuration(timeframe)
	bars := make([]types.Bar, 0, n)
	for i := 0; i < n; i++ {
		mid := s.BasePrice + s.Drift*float64(i) + s.Amplitude*math.Sin(float64(i)/7.0)
		next := s.BasePrice + s.Drift*float64(i+1) + s.Amplitude*math.Sin(float64(i+1)/7.0)
		open := mid
		cls := next
		high := math.Max(open, cls) + 0.4
		low := math.Min(open, cls) - 0.4
		bars = append(bars, types.Bar{
			Timestamp: s.Anchor.Add(time.Duration(i) * step),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     cls,
			Volume:    1000 + int64(200*math.Abs(math.Sin(float64(i)/3.0))),
		})
	}
	return bars, nil
}

func timeframeDuration(timeframe string) time.Duration {
	switch timeframe {
	case "M1":
		return time.Minute
	case "M5":
		return 5 * time.Minute
	case "M15":
		return 15 * time.Minute
	case "M30":
		return 30 * time.Minute
	case "H1":
		return time.Hour
	case "H4":
		return 4 * time.Hour
	case "D1":
		return 24 * time.Hour
	default:
		return 5 * time.Minute
	}
}
