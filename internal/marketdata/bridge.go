// Package marketdata provides the non-database bar sources: the MT5 bridge
// HTTP endpoint and a deterministic static generator for dry runs.
package marketdata

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/savageleo254/sentinel-gold-trader/internal/api"
	"github.com/savageleo254/sentinel-gold-trader/internal/interfaces"
	"github.com/savageleo254/sentinel-gold-trader/internal/types"
)

// BridgeSource fetches bars from the MT5 bridge sidecar over HTTP. The
// bridge exposes GET /bars and returns candles in the same JSON shape the
// rest of the system uses.
type BridgeSource struct {
	client *api.Client
}

var _ interfaces.BarSource = (*BridgeSource)(nil)

// NewBridgeSource points the source at the bridge base URL.
func NewBridgeSource(baseURL string, timeout time.Duration) *BridgeSource {
	return &BridgeSource{
		client: api.NewClient(
			api.WithBaseURL(baseURL),
			api.WithTimeout(timeout),
			api.WithLogging(true),
		),
	}
}

type bridgeBarsResponse struct {
	Symbol string      `json:"symbol"`
	Bars   []types.Bar `json:"bars"`
}

func (b *BridgeSource) RecentBars(ctx context.Context, symbol, timeframe string, n int) ([]types.Bar, error) {
	path := fmt.Sprintf("/bars?symbol=%s&timeframe=%s&count=%d",
		url.QueryEscape(symbol), url.QueryEscape(timeframe), n)

	req := api.NewRequest("GET", path).WithContext(ctx)
	resp, err := b.client.DoWithRetry(req, nil)
	if err != nil {
		return nil, &types.ExternalFetchError{Source: "mt5-bridge", Err: err}
	}

	var parsed bridgeBarsResponse
	if err := resp.ParseJSON(&parsed); err != nil {
		return nil, &types.ExternalFetchError{Source: "mt5-bridge", Err: err}
	}

	bars := parsed.Bars
	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Timestamp.Before(bars[j].Timestamp)
	})
	if len(bars) > n {
		bars = bars[len(bars)-n:]
	}
	return bars, nil
}
