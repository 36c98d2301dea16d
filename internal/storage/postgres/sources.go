package postgres

import (
	"context"
	"time"

	"github.com/savageleo254/sentinel-gold-trader/internal/interfaces"
	"github.com/savageleo254/sentinel-gold-trader/internal/types"
)

// BarSource reads OHLCV history written by the upstream collector. The
// newest n rows are selected and re-sorted so callers always see ascending
// timestamps.
type BarSource struct {
	store *Store
}

var _ interfaces.BarSource = (*BarSource)(nil)

func NewBarSource(s *Store) *BarSource {
	return &BarSource{store: s}
}

func (bs *BarSource) RecentBars(ctx context.Context, symbol, timeframe string, n int) ([]types.Bar, error) {
	var bars []types.Bar
	err := bs.store.db.SelectContext(ctx, &bars,
		`SELECT timestamp, open_price, high_price, low_price, close_price, volume
		 FROM (
			SELECT timestamp, open_price, high_price, low_price, close_price, volume
			FROM price_data
			WHERE symbol = $1 AND timeframe = $2
			ORDER BY timestamp DESC
			LIMIT $3
		 ) recent
		 ORDER BY timestamp ASC`, symbol, timeframe, n)
	if err != nil {
		return nil, &types.ExternalFetchError{Source: "postgres.bars", Err: err}
	}
	return bars, nil
}

// NewsSource reads collected news events newer than the cutoff. The symbol
// is ignored; the collector stores only events relevant to the traded
// instrument.
type NewsSource struct {
	store *Store
}

var _ interfaces.NewsSource = (*NewsSource)(nil)

func NewNewsSource(s *Store) *NewsSource {
	return &NewsSource{store: s}
}

func (ns *NewsSource) RecentNews(ctx context.Context, symbol string, since time.Time) ([]types.NewsItem, error) {
	var items []types.NewsItem
	err := ns.store.db.SelectContext(ctx, &items,
		`SELECT title, content, source, impact, published_at
		 FROM news_events
		 WHERE published_at >= $1
		 ORDER BY published_at DESC`, since)
	if err != nil {
		return nil, &types.ExternalFetchError{Source: "postgres.news", Err: err}
	}
	return items, nil
}
