// Package journal writes produced signals to daily JSONL files. It is an
// audit trail alongside whatever sink persists the signal for execution.
package journal

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/savageleo254/sentinel-gold-trader/internal/interfaces"
	"github.com/savageleo254/sentinel-gold-trader/internal/types"
)

var mu sync.Mutex

func logDir() string {
	if v := os.Getenv("SIGNAL_JOURNAL_DIR"); v != "" {
		return v
	}
	return "journal"
}

func dailyFilepath(t time.Time) string {
	d := t.UTC().Format("2006-01-02")
	return filepath.Join(logDir(), d+".jsonl")
}

// Append writes one signal as a JSON line to today's file.
func Append(sig types.Signal) error {
	mu.Lock()
	defer mu.Unlock()
	p := dailyFilepath(time.Now())
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	b, err := json.Marshal(sig)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// CompressOlder gzips journal files older than retentionDays. Zero or
// negative retention disables compression.
func CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	root := logDir()
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	return filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(p) != ".jsonl" {
			return nil
		}
		info, er := os.Stat(p)
		if er != nil || !info.ModTime().Before(cutoff) {
			return nil
		}

		gz := p + ".gz"
		if _, e2 := os.Stat(gz); e2 == nil {
			_ = os.Remove(p)
			return nil
		}

		in, e3 := os.Open(p)
		if e3 != nil {
			return nil
		}
		defer in.Close()

		out, e4 := os.OpenFile(gz, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if e4 != nil {
			return nil
		}
		gw := gzip.NewWriter(out)
		if _, e5 := io.Copy(gw, in); e5 == nil {
			_ = gw.Close()
			_ = out.Close()
			_ = os.Remove(p)
		} else {
			_ = gw.Close()
			_ = out.Close()
		}
		return nil
	})
}

// Sink tees stored signals into the journal before forwarding to the real
// sink. A journal write failure does not block persistence.
type Sink struct {
	next interfaces.SignalSink
}

var _ interfaces.SignalSink = (*Sink)(nil)

// Tee wraps next with journal writes.
func Tee(next interfaces.SignalSink) *Sink {
	return &Sink{next: next}
}

func (s *Sink) StoreSignal(ctx context.Context, sig types.Signal) error {
	_ = Append(sig)
	return s.next.StoreSignal(ctx, sig)
}
