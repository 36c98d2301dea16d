package news

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"github.com/savageleo254/sentinel-gold-trader/internal/api"
	"github.com/savageleo254/sentinel-gold-trader/internal/logger"
	"github.com/savageleo254/sentinel-gold-trader/internal/types"
)

// Scraper pulls headlines from public metals and forex news pages. Articles
// feed the keyword sentiment scorer, so headline and summary text are all
// that is needed.
type Scraper struct {
	sources []SourceConfig
	client  *api.Client
	timeout time.Duration
}

// SourceConfig describes one scrapeable news source.
type SourceConfig struct {
	Name      string
	BaseURL   string
	ListPath  string
	Selectors ArticleSelectors
	RateLimit time.Duration
}

// ArticleSelectors holds the CSS selectors for extracting article data.
type ArticleSelectors struct {
	ArticleContainer string
	Title            string
	URL              string
	Content          string
}

// NewScraper creates a scraper with the default gold news sources.
func NewScraper(timeout time.Duration) *Scraper {
	return &Scraper{
		sources: getDefaultSources(),
		client:  api.NewClient(api.WithTimeout(timeout)),
		timeout: timeout,
	}
}

func getDefaultSources() []SourceConfig {
	return []SourceConfig{
		{
			Name:     "Kitco",
			BaseURL:  "https://www.kitco.com",
			ListPath: "/news/gold/",
			Selectors: ArticleSelectors{
				ArticleContainer: "div.article-item, article",
				Title:            "h3 a, h2 a",
				URL:              "h3 a, h2 a",
				Content:          "p",
			},
			RateLimit: 2 * time.Second,
		},
		{
			Name:     "FXStreet",
			BaseURL:  "https://www.fxstreet.com",
			ListPath: "/news?q=gold",
			Selectors: ArticleSelectors{
				ArticleContainer: "article, div.fxs_article",
				Title:            "h4 a, h3 a",
				URL:              "h4 a, h3 a",
				Content:          "p",
			},
			RateLimit: 2 * time.Second,
		},
		{
			Name:     "InvestingCom",
			BaseURL:  "https://www.investing.com",
			ListPath: "/commodities/gold-news",
			Selectors: ArticleSelectors{
				ArticleContainer: "article, div.largeTitle article",
				Title:            "a.title, h3 a",
				URL:              "a.title, h3 a",
				Content:          "p",
			},
			RateLimit: 2 * time.Second,
		},
	}
}

// Scrape fetches recent items for the symbol from all configured sources.
// A failing source is skipped; the remaining sources still contribute.
func (s *Scraper) Scrape(ctx context.Context, symbol string, maxItems int) ([]types.NewsItem, error) {
	logger.Info(ctx, "Starting news scraping", "symbol", symbol, "sources", len(s.sources))

	allItems := []types.NewsItem{}
	itemsPerSource := maxItems / len(s.sources)
	if itemsPerSource < 1 {
		itemsPerSource = 1
	}

	for _, source := range s.sources {
		items, err := s.scrapeSource(ctx, source, itemsPerSource)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to scrape source", err, "source", source.Name)
			continue
		}
		allItems = append(allItems, items...)
		time.Sleep(source.RateLimit)
	}

	logger.Info(ctx, "News scraping completed", "symbol", symbol, "items", len(allItems))
	return allItems, nil
}

func (s *Scraper) scrapeSource(ctx context.Context, source SourceConfig, maxItems int) ([]types.NewsItem, error) {
	items := []types.NewsItem{}
	now := time.Now()

	c := colly.NewCollector(
		colly.AllowedDomains(getDomain(source.BaseURL)),
		colly.MaxDepth(1),
		colly.Async(false),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		for key, value := range api.BrowserHeaders() {
			r.Headers.Set(key, value)
		}
	})

	c.OnHTML(source.Selectors.ArticleContainer, func(e *colly.HTMLElement) {
		if len(items) >= maxItems {
			return
		}

		title := strings.TrimSpace(e.ChildText(source.Selectors.Title))
		if title == "" {
			return
		}

		articleURL := e.ChildAttr(source.Selectors.URL, "href")
		if articleURL != "" && !strings.HasPrefix(articleURL, "http") {
			articleURL = source.BaseURL + articleURL
		}

		content := strings.TrimSpace(e.ChildText(source.Selectors.Content))
		if len(content) < 100 && articleURL != "" {
			if full := s.fetchArticleContent(ctx, articleURL); full != "" {
				content = full
			}
		}

		items = append(items, types.NewsItem{
			Title:       title,
			Content:     content,
			Source:      source.Name,
			PublishedAt: now,
		})
	})

	c.OnError(func(r *colly.Response, err error) {
		logger.ErrorWithErr(ctx, "Scraping error", err, "source", source.Name, "url", r.Request.URL.String())
	})

	listURL := source.BaseURL + source.ListPath
	if err := c.Visit(listURL); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", listURL, err)
	}
	c.Wait()

	return items, nil
}

// fetchArticleContent loads the article page and extracts paragraph text.
func (s *Scraper) fetchArticleContent(ctx context.Context, articleURL string) string {
	resp, err := s.client.GET(ctx, articleURL, api.BrowserHeaders())
	if err != nil {
		logger.Debug(ctx, "Failed to fetch article content", "url", articleURL, "error", err.Error())
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
	if err != nil {
		return ""
	}

	paragraphs := []string{}
	doc.Find("article p, div.article-body p, div.content-body p").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if len(text) > 20 {
			paragraphs = append(paragraphs, text)
		}
	})
	return strings.Join(paragraphs, "\n\n")
}

func getDomain(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
