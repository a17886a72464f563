package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "https://www.imdb.com"
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/111.0.0.0 Safari/537.36"
	DefaultTimeout   = 10 * time.Second
	DefaultRate      = 2
)

// DefaultMaxPageSize bounds the size of a fetched page
const DefaultMaxPageSize = 16 << 20

var ErrPageTooLarge = errors.New("page too large")

type PageCacher interface {
	GetPage(pageURL string) ([]byte, bool)
	CachePage(pageURL string, page []byte) error
}

// IMDbClient fetches and parses IMDb pages
type IMDbClient struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
	rps       float64
	cache     PageCacher

	maxPageSize int64

	client  *http.Client
	limiter *rate.Limiter
	group   singleflight.Group
}

// Option configures an IMDbClient
type Option func(*IMDbClient)

// WithBaseURL sets the site to fetch pages from
func WithBaseURL(baseURL string) Option {
	return func(ic *IMDbClient) {
		ic.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithUserAgent sets the user-agent header sent with every request
func WithUserAgent(userAgent string) Option {
	return func(ic *IMDbClient) {
		ic.userAgent = userAgent
	}
}

// WithTimeout sets the timeout of each request
func WithTimeout(d time.Duration) Option {
	return func(ic *IMDbClient) {
		ic.timeout = d
	}
}

// WithRate sets the number of requests per second. Non-positive means unlimited.
func WithRate(rps float64) Option {
	return func(ic *IMDbClient) {
		ic.rps = rps
	}
}

// WithMaxPageSize sets the largest page accepted, in bytes. Non-positive keeps the default.
func WithMaxPageSize(size int64) Option {
	return func(ic *IMDbClient) {
		if size > 0 {
			ic.maxPageSize = size
		}
	}
}

// WithCache keeps fetched pages in a cache
func WithCache(pc PageCacher) Option {
	return func(ic *IMDbClient) {
		ic.cache = pc
	}
}

// NewIMDbClient initializes an IMDbClient
func NewIMDbClient(opts ...Option) *IMDbClient {
	ic := &IMDbClient{
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
		timeout:   DefaultTimeout,
		rps:       DefaultRate,

		maxPageSize: DefaultMaxPageSize,
	}
	for _, opt := range opts {
		opt(ic)
	}

	ic.client = &http.Client{Timeout: ic.timeout}
	if ic.rps > 0 {
		ic.limiter = rate.NewLimiter(rate.Limit(ic.rps), 1)
	} else {
		ic.limiter = rate.NewLimiter(rate.Inf, 0)
	}
	return ic
}

// TitleURL returns the URL of the page of a title
func (ic *IMDbClient) TitleURL(id string) string {
	return fmt.Sprintf("%s/title/%s/", ic.baseURL, url.PathEscape(id))
}

// ReviewsURL returns the URL of the user reviews of a title
func (ic *IMDbClient) ReviewsURL(id string) string {
	return fmt.Sprintf("%s/title/%s/reviews/", ic.baseURL, url.PathEscape(id))
}

// SearchURL returns the URL of the title search page of a query
func (ic *IMDbClient) SearchURL(query string) string {
	return fmt.Sprintf("%s/find/?q=%s&s=tt", ic.baseURL, url.QueryEscape(query))
}

// FetchTitle returns the parsed page of a title
func (ic *IMDbClient) FetchTitle(ctx context.Context, id string) (*goquery.Document, error) {
	return ic.FetchDocument(ctx, ic.TitleURL(id))
}

// FetchReviews returns the parsed user reviews page of a title
func (ic *IMDbClient) FetchReviews(ctx context.Context, id string) (*goquery.Document, error) {
	return ic.FetchDocument(ctx, ic.ReviewsURL(id))
}

// FetchSearch returns the parsed search page of a query
func (ic *IMDbClient) FetchSearch(ctx context.Context, query string) (*goquery.Document, error) {
	return ic.FetchDocument(ctx, ic.SearchURL(query))
}

// FetchDocument fetches a page and parses it
func (ic *IMDbClient) FetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	page, err := ic.FetchPage(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("could not parse %s: %w", pageURL, err)
	}
	return doc, nil
}

// FetchPage returns the raw page of a URL, from the cache when possible.
// Concurrent fetches of the same URL share a single request, which is not
// canceled when one of the callers gives up.
func (ic *IMDbClient) FetchPage(ctx context.Context, pageURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ic.cache != nil {
		if page, ok := ic.cache.GetPage(pageURL); ok {
			log.Debug().Str("url", pageURL).Msg("Using cached page")
			return page, nil
		}
	}

	ch := ic.group.DoChan(pageURL, func() (any, error) {
		page, err := ic.download(context.WithoutCancel(ctx), pageURL)
		if err != nil {
			return nil, err
		}
		if ic.cache != nil {
			if err := ic.cache.CachePage(pageURL, page); err != nil {
				log.Error().Err(err).Str("url", pageURL).Msg("Could not cache page")
			}
		}
		return page, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

func (ic *IMDbClient) download(ctx context.Context, pageURL string) ([]byte, error) {
	if err := ic.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("user-agent", ic.userAgent)
	req.Header.Set("accept-language", "en-US,en;q=0.9")

	start := time.Now()
	resp, err := ic.client.Do(req)
	if err != nil {
		log.Error().Err(err).Str("url", pageURL).Msg("Cannot fetch page")
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		log.Error().Str("url", pageURL).Int("status", resp.StatusCode).Msg("Cannot fetch page")
		return nil, &HTTPStatusError{URL: pageURL, StatusCode: resp.StatusCode}
	}
	page, err := io.ReadAll(io.LimitReader(resp.Body, ic.maxPageSize+1))
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", pageURL, err)
	}
	if int64(len(page)) > ic.maxPageSize {
		log.Error().Str("url", pageURL).Int64("limit", ic.maxPageSize).Msg("Page is too large")
		return nil, fmt.Errorf("%w: %s is larger than %d bytes", ErrPageTooLarge, pageURL, ic.maxPageSize)
	}
	log.Debug().Str("url", pageURL).Int("size", len(page)).Dur("duration", time.Since(start)).Msg("Fetched page")
	return page, nil
}
