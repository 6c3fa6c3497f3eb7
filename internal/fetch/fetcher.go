// Package fetch resolves article text for a URL. A markdown reader service
// is tried first, then direct HTML extraction, with caching, per-host rate
// limiting and a robots.txt check on the direct path.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"sourcelens/internal/cache"
	"sourcelens/internal/model"
	"sourcelens/internal/util"
	"sourcelens/internal/worker"
)

// minContentChars is the threshold below which a fetch counts as failed;
// shorter bodies are usually consent walls or paywall stubs.
const minContentChars = 200

// Fetcher retrieves article content.
type Fetcher struct {
	httpClient    *http.Client
	cache         cache.Cache
	robots        *util.RobotsChecker
	limiter       *worker.Limiter
	readerBase    string
	userAgent     string
	maxBytes      int64
	respectRobots bool
}

// New creates a Fetcher. The cache and limiter may be nil to disable
// caching and rate limiting.
func New(cfg model.FetchConfig, c cache.Cache, limiter *worker.Limiter) *Fetcher {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	readerBase := cfg.ReaderBase
	if readerBase == "" {
		readerBase = "https://r.jina.ai/"
	}
	maxBytes := cfg.MaxBodyBytes
	if maxBytes == 0 {
		maxBytes = 2 << 20
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		cache:         c,
		robots:        util.NewRobotsChecker(util.NormalizeUserAgent(cfg.UserAgent), timeout),
		limiter:       limiter,
		readerBase:    readerBase,
		userAgent:     cfg.UserAgent,
		maxBytes:      maxBytes,
		respectRobots: cfg.RespectRobots,
	}
}

// Fetch resolves content for rawURL: cache first, then the reader service,
// then direct HTML extraction.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*model.Content, error) {
	key := cache.Key("content", rawURL)
	if f.cache != nil {
		if data, ok := f.cache.Get(key); ok {
			var content model.Content
			if err := json.Unmarshal(data, &content); err == nil {
				content.Method = "cache"
				return &content, nil
			}
		}
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, rawURL); err != nil {
			return nil, err
		}
	}

	content, readerErr := f.fetchReader(ctx, rawURL)
	if readerErr != nil {
		var directErr error
		content, directErr = f.fetchDirect(ctx, rawURL)
		if directErr != nil {
			return nil, fmt.Errorf("reader: %v; direct: %w", readerErr, directErr)
		}
	}

	f.put(key, content)
	return content, nil
}

// Manual wraps caller-supplied article text, for when fetching is blocked
// and the caller already has the content.
func Manual(rawURL, title, text string) *model.Content {
	return &model.Content{
		URL:       rawURL,
		Title:     title,
		Text:      text,
		Method:    "manual",
		WordCount: len(strings.Fields(text)),
	}
}

// fetchReader asks the reader service for a markdown rendition of the page.
func (f *Fetcher) fetchReader(ctx context.Context, rawURL string) (*model.Content, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.readerBase+rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/plain")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reader returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	text := strings.TrimSpace(string(body))
	if len(text) < minContentChars {
		return nil, fmt.Errorf("content too short - may be paywalled or blocked")
	}

	// The reader returns markdown; the first heading is usually the title.
	title := ""
	if line, _, _ := strings.Cut(text, "\n"); strings.HasPrefix(line, "#") {
		title = strings.TrimSpace(strings.TrimLeft(line, "#"))
	}

	return &model.Content{
		URL:       rawURL,
		Title:     title,
		Text:      text,
		Method:    "reader",
		WordCount: len(strings.Fields(text)),
	}, nil
}

// fetchDirect downloads the page and extracts readable text from its HTML.
func (f *Fetcher) fetchDirect(ctx context.Context, rawURL string) (*model.Content, error) {
	if f.respectRobots && !f.robots.IsAllowed(ctx, rawURL) {
		return nil, fmt.Errorf("disallowed by robots.txt")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	title, text := extractArticle(doc)
	if len(text) < minContentChars {
		return nil, fmt.Errorf("content too short - may be paywalled or blocked")
	}

	return &model.Content{
		URL:       rawURL,
		Title:     title,
		Text:      text,
		Method:    "direct",
		WordCount: len(strings.Fields(text)),
	}, nil
}

func (f *Fetcher) put(key string, content *model.Content) {
	if f.cache == nil {
		return
	}
	if data, err := json.Marshal(content); err == nil {
		_ = f.cache.Set(key, data, 0)
	}
}

// extractArticle pulls readable text out of an HTML document, preferring
// semantic containers over the whole body.
func extractArticle(doc *goquery.Document) (title, text string) {
	title = strings.TrimSpace(doc.Find("title").First().Text())

	doc.Find("script, style, nav, header, footer, aside, form").Remove()

	for _, selector := range []string{"article", "main", "body"} {
		text = collapseWhitespace(doc.Find(selector).First().Text())
		if text != "" {
			return title, text
		}
	}
	return title, ""
}

// collapseWhitespace squeezes runs of whitespace to single spaces; layout
// markup leaves large gaps once tags are stripped.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
