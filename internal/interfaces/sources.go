package interfaces

import (
	"context"
	"time"

	"github.com/savageleo254/sentinel-gold-trader/internal/types"
)

// BarSource supplies an ordered OHLCV sequence for a (symbol, timeframe).
// Implementations must return bars in ascending timestamp order.
type BarSource interface {
	RecentBars(ctx context.Context, symbol, timeframe string, n int) ([]types.Bar, error)
}

// NewsSource supplies news items published after the given cutoff.
type NewsSource interface {
	RecentNews(ctx context.Context, symbol string, since time.Time) ([]types.NewsItem, error)
}
