package news

import (
	"context"
	"sync"
	"time"

	"github.com/savageleo254/sentinel-gold-trader/internal/interfaces"
	"github.com/savageleo254/sentinel-gold-trader/internal/logger"
	"github.com/savageleo254/sentinel-gold-trader/internal/types"
)

// Service is the scraping NewsSource. Scraped items are cached per symbol so
// repeated scoring passes within the TTL do not re-hit the sources.
type Service struct {
	scraper *Scraper
	cache   *itemCache
	cfg     *ServiceConfig
}

var _ interfaces.NewsSource = (*Service)(nil)

// ServiceConfig configures the scraping news source.
type ServiceConfig struct {
	MaxItems       int           // maximum items to scrape per symbol
	CacheDuration  time.Duration // how long scraped items stay fresh
	ScraperTimeout time.Duration // timeout for scraping operations
}

// DefaultServiceConfig returns default configuration.
func DefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		MaxItems:       10,
		CacheDuration:  1 * time.Hour,
		ScraperTimeout: 30 * time.Second,
	}
}

type itemCache struct {
	mu   sync.RWMutex
	data map[string]*cacheEntry
	ttl  time.Duration
}

type cacheEntry struct {
	items     []types.NewsItem
	timestamp time.Time
}

func newItemCache(ttl time.Duration) *itemCache {
	cache := &itemCache{
		data: make(map[string]*cacheEntry),
		ttl:  ttl,
	}
	go cache.cleanupLoop()
	return cache
}

func (c *itemCache) get(symbol string) ([]types.NewsItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.data[symbol]
	if !exists {
		return nil, false
	}
	if time.Since(entry.timestamp) > c.ttl {
		return nil, false
	}
	return entry.items, true
}

func (c *itemCache) set(symbol string, items []types.NewsItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[symbol] = &cacheEntry{
		items:     items,
		timestamp: time.Now(),
	}
}

func (c *itemCache) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.cleanup()
	}
}

func (c *itemCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for symbol, entry := range c.data {
		if now.Sub(entry.timestamp) > c.ttl {
			delete(c.data, symbol)
		}
	}
}

// NewService creates the scraping news source.
func NewService(cfg *ServiceConfig) *Service {
	if cfg == nil {
		cfg = DefaultServiceConfig()
	}
	return &Service{
		scraper: NewScraper(cfg.ScraperTimeout),
		cache:   newItemCache(cfg.CacheDuration),
		cfg:     cfg,
	}
}

// RecentNews returns items published after the cutoff, scraping on a cache
// miss. Scrape failures surface to the caller; the scorer decides nothing
// from synthetic items.
func (s *Service) RecentNews(ctx context.Context, symbol string, since time.Time) ([]types.NewsItem, error) {
	items, ok := s.cache.get(symbol)
	if !ok {
		fresh, err := s.scraper.Scrape(ctx, symbol, s.cfg.MaxItems)
		if err != nil {
			return nil, &types.ExternalFetchError{Source: "news-scraper", Err: err}
		}
		s.cache.set(symbol, fresh)
		items = fresh
	} else {
		logger.Debug(ctx, "Using cached news items", "symbol", symbol, "count", len(items))
	}

	filtered := make([]types.NewsItem, 0, len(items))
	for _, item := range items {
		if !item.PublishedAt.Before(since) {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

// Refresh forces a fresh scrape, bypassing the cache.
func (s *Service) Refresh(ctx context.Context, symbol string) ([]types.NewsItem, error) {
	items, err := s.scraper.Scrape(ctx, symbol, s.cfg.MaxItems)
	if err != nil {
		return nil, &types.ExternalFetchError{Source: "news-scraper", Err: err}
	}
	s.cache.set(symbol, items)
	return items, nil
}

// NoopSource is the NewsSource used when news input is disabled. It always
// returns no items, which scores as neutral sentiment.
type NoopSource struct{}

var _ interfaces.NewsSource = (*NoopSource)(nil)

func (NoopSource) RecentNews(ctx context.Context, symbol string, since time.Time) ([]types.NewsItem, error) {
	return nil, nil
}
