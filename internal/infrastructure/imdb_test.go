package infrastructure_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Agurato/imdb-data/internal/infrastructure"
)

func newUpstream(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/title/tt0111161/", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Write([]byte(`<h1 data-testid="hero-title-block__title">The Shawshank Redemption</h1>`))
	})
	mux.HandleFunc("/title/tt0111161/reviews/", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`<div class="review-container"></div>`))
	})
	mux.HandleFunc("/find/", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "the shawshank", r.URL.Query().Get("q"))
		assert.Equal(t, "tt", r.URL.Query().Get("s"))
		w.Write([]byte(`<li class="find-title-result"></li>`))
	})
	mux.HandleFunc("/slow/", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		time.Sleep(50 * time.Millisecond)
		w.Write([]byte(`<p>slow</p>`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestIMDbClientURLs(t *testing.T) {
	ic := infrastructure.NewIMDbClient()
	assert.Equal(t, "https://www.imdb.com/title/tt0111161/", ic.TitleURL("tt0111161"))
	assert.Equal(t, "https://www.imdb.com/title/tt0111161/reviews/", ic.ReviewsURL("tt0111161"))
	assert.Equal(t, "https://www.imdb.com/find/?q=the+shawshank&s=tt", ic.SearchURL("the shawshank"))

	ic = infrastructure.NewIMDbClient(infrastructure.WithBaseURL("http://localhost:1234/"))
	assert.Equal(t, "http://localhost:1234/title/tt1/", ic.TitleURL("tt1"))
}

func TestIMDbClientFetch(t *testing.T) {
	var hits atomic.Int32
	srv := newUpstream(t, &hits)
	ic := infrastructure.NewIMDbClient(
		infrastructure.WithBaseURL(srv.URL),
		infrastructure.WithUserAgent("test-agent"),
		infrastructure.WithRate(0),
	)
	ctx := context.Background()

	doc, err := ic.FetchTitle(ctx, "tt0111161")
	require.NoError(t, err)
	assert.Equal(t, "The Shawshank Redemption", doc.Find("h1").Text())

	doc, err = ic.FetchReviews(ctx, "tt0111161")
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find("div.review-container").Length())

	doc, err = ic.FetchSearch(ctx, "the shawshank")
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find("li.find-title-result").Length())

	assert.EqualValues(t, 3, hits.Load())
}

func TestIMDbClientStatusError(t *testing.T) {
	var hits atomic.Int32
	srv := newUpstream(t, &hits)
	ic := infrastructure.NewIMDbClient(infrastructure.WithBaseURL(srv.URL), infrastructure.WithRate(0))

	_, err := ic.FetchTitle(context.Background(), "tt9999999")
	var statusErr *infrastructure.HTTPStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, srv.URL+"/title/tt9999999/", statusErr.URL)
}

func TestIMDbClientCache(t *testing.T) {
	var hits atomic.Int32
	srv := newUpstream(t, &hits)
	ic := infrastructure.NewIMDbClient(
		infrastructure.WithBaseURL(srv.URL),
		infrastructure.WithUserAgent("test-agent"),
		infrastructure.WithCache(infrastructure.NewCache(t.TempDir(), time.Hour)),
	)

	for i := 0; i < 3; i++ {
		doc, err := ic.FetchTitle(context.Background(), "tt0111161")
		require.NoError(t, err)
		assert.Equal(t, "The Shawshank Redemption", doc.Find("h1").Text())
	}
	assert.EqualValues(t, 1, hits.Load())
}

func TestIMDbClientConcurrentFetches(t *testing.T) {
	var hits atomic.Int32
	srv := newUpstream(t, &hits)
	ic := infrastructure.NewIMDbClient(infrastructure.WithBaseURL(srv.URL), infrastructure.WithRate(0))

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			page, err := ic.FetchPage(context.Background(), srv.URL+"/slow/")
			assert.NoError(t, err)
			assert.Equal(t, "<p>slow</p>", string(page))
		}()
	}
	wg.Wait()
	assert.GreaterOrEqual(t, hits.Load(), int32(1))
}

func TestIMDbClientCanceled(t *testing.T) {
	var hits atomic.Int32
	srv := newUpstream(t, &hits)
	ic := infrastructure.NewIMDbClient(infrastructure.WithBaseURL(srv.URL))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ic.FetchTitle(ctx, "tt0111161")
	assert.ErrorIs(t, err, context.Canceled)
}

// heldUpstream serves a page once release is closed and reports each request on started.
func heldUpstream(t *testing.T, hits *atomic.Int32) (srv *httptest.Server, started chan struct{}, release chan struct{}) {
	t.Helper()
	started = make(chan struct{}, 16)
	release = make(chan struct{})
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		started <- struct{}{}
		<-release
		w.Write([]byte(`<p>held</p>`))
	}))
	t.Cleanup(srv.Close)
	return srv, started, release
}

func TestIMDbClientSharedFetchOutlivesCaller(t *testing.T) {
	var hits atomic.Int32
	srv, started, release := heldUpstream(t, &hits)
	ic := infrastructure.NewIMDbClient(infrastructure.WithBaseURL(srv.URL), infrastructure.WithRate(0))

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := ic.FetchTitle(ctxA, "tt1")
		errA <- err
	}()
	<-started

	type result struct {
		page []byte
		err  error
	}
	resB := make(chan result, 1)
	go func() {
		page, err := ic.FetchPage(context.Background(), ic.TitleURL("tt1"))
		resB <- result{page, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancelA()
	assert.ErrorIs(t, <-errA, context.Canceled)

	close(release)
	b := <-resB
	require.NoError(t, b.err)
	assert.Equal(t, "<p>held</p>", string(b.page))
	assert.EqualValues(t, 1, hits.Load())
}

type countingCacher struct {
	*infrastructure.Cache
	writes atomic.Int32
}

func (cc *countingCacher) CachePage(pageURL string, page []byte) error {
	cc.writes.Add(1)
	return cc.Cache.CachePage(pageURL, page)
}

func TestIMDbClientSharedFetchCachedOnce(t *testing.T) {
	var hits atomic.Int32
	srv, started, release := heldUpstream(t, &hits)
	cache := &countingCacher{Cache: infrastructure.NewCache(t.TempDir(), time.Hour)}
	ic := infrastructure.NewIMDbClient(
		infrastructure.WithBaseURL(srv.URL),
		infrastructure.WithRate(0),
		infrastructure.WithCache(cache),
	)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			page, err := ic.FetchPage(context.Background(), ic.TitleURL("tt1"))
			assert.NoError(t, err)
			assert.Equal(t, "<p>held</p>", string(page))
		}()
	}
	<-started
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, hits.Load(), cache.writes.Load())
	page, ok := cache.GetPage(ic.TitleURL("tt1"))
	assert.True(t, ok)
	assert.Equal(t, "<p>held</p>", string(page))
}

func TestIMDbClientPageTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(r.URL.Query().Get("q")))
	}))
	t.Cleanup(srv.Close)
	cache := infrastructure.NewCache(t.TempDir(), time.Hour)
	ic := infrastructure.NewIMDbClient(
		infrastructure.WithBaseURL(srv.URL),
		infrastructure.WithRate(0),
		infrastructure.WithMaxPageSize(8),
		infrastructure.WithCache(cache),
	)

	page, err := ic.FetchPage(context.Background(), srv.URL+"/find/?q=12345678")
	require.NoError(t, err)
	assert.Equal(t, "12345678", string(page))

	tooLarge := srv.URL + "/find/?q=123456789"
	_, err = ic.FetchPage(context.Background(), tooLarge)
	assert.ErrorIs(t, err, infrastructure.ErrPageTooLarge)
	_, ok := cache.GetPage(tooLarge)
	assert.False(t, ok)
}
