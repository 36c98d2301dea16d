package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/savageleo254/sentinel-gold-trader/internal/interfaces"
	"github.com/savageleo254/sentinel-gold-trader/internal/types"
)

// SignalSink persists produced signals. The row is insert-only from the
// core's perspective; the execution side owns the status transition.
type SignalSink struct {
	store *Store
}

var _ interfaces.SignalSink = (*SignalSink)(nil)

func NewSignalSink(s *Store) *SignalSink {
	return &SignalSink{store: s}
}

func (ss *SignalSink) StoreSignal(ctx context.Context, sig types.Signal) error {
	features, err := json.Marshal(sig.Features)
	if err != nil {
		return err
	}
	prediction, err := json.Marshal(sig.Prediction)
	if err != nil {
		return err
	}

	_, err = ss.store.db.ExecContext(ctx,
		`INSERT INTO trading_signals (
			id, symbol, timeframe, signal_type, confidence,
			entry_price, stop_loss, take_profit, position_size,
			features, prediction, signal_time, expiry_time, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		sig.ID, sig.Symbol, sig.Timeframe, string(sig.Type), sig.Confidence,
		sig.EntryPrice, sig.StopLoss, sig.TakeProfit, sig.PositionSize,
		features, prediction, sig.SignalTime, sig.ExpiryTime, string(sig.Status))
	if err != nil {
		return fmt.Errorf("store signal %s: %w", sig.ID, err)
	}
	return nil
}

// TradeHistory reads realized outcomes for backtest-style metrics.
type TradeHistory struct {
	store *Store
}

var _ interfaces.TradeHistory = (*TradeHistory)(nil)

func NewTradeHistory(s *Store) *TradeHistory {
	return &TradeHistory{store: s}
}

func (th *TradeHistory) ClosedTrades(ctx context.Context, symbol string) ([]types.TradeOutcome, error) {
	var trades []types.TradeOutcome
	err := th.store.db.SelectContext(ctx, &trades,
		`SELECT symbol, profit, open_time FROM trade_history
		 WHERE symbol = $1 ORDER BY open_time ASC`, symbol)
	if err != nil {
		return nil, fmt.Errorf("load closed trades for %s: %w", symbol, err)
	}
	return trades, nil
}
