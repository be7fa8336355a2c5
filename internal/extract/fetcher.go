package extract

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/rotisserie/eris"
)

// DefaultFetchTimeout bounds a single website GET.
const DefaultFetchTimeout = 10 * time.Second

// Page is one fetched web page.
type Page struct {
	URL        string
	StatusCode int
	Body       []byte
}

// Fetcher retrieves a single page. Implementations follow transport-level
// redirects but never follow links.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Page, error)
}

// FetcherConfig controls collector behavior.
type FetcherConfig struct {
	UserAgent string
	Timeout   time.Duration
}

// CollyFetcher implements Fetcher using a Colly collector.
type CollyFetcher struct {
	baseCollector *colly.Collector
}

// NewCollyFetcher builds a CollyFetcher sharing one pooled transport.
func NewCollyFetcher(cfg FetcherConfig) *CollyFetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultFetchTimeout
	}

	c := colly.NewCollector(colly.Async(false))
	c.WithTransport(newHTTPTransport())
	// Clones share the backend client, so the timeout is set once here.
	c.SetRequestTimeout(cfg.Timeout)
	if cfg.UserAgent != "" {
		c.UserAgent = cfg.UserAgent
	}

	return &CollyFetcher{baseCollector: c}
}

// Fetch executes a single HTTP GET. Error status bodies are returned like
// any other page.
func (f *CollyFetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	var (
		page     *Page
		fetchErr error
	)

	collector := f.baseCollector.Clone()
	collector.AllowURLRevisit = true
	collector.ParseHTTPErrorResponse = true
	collector.Context = ctx

	collector.OnResponse(func(r *colly.Response) {
		page = &Page{
			URL:        r.Request.URL.String(),
			StatusCode: r.StatusCode,
			Body:       append([]byte(nil), r.Body...),
		}
	})
	collector.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return nil, eris.Wrap(ctx.Err(), "extract: fetch canceled")
	case err := <-done:
		if err != nil {
			return nil, eris.Wrapf(err, "extract: visit %s", url)
		}
		if fetchErr != nil {
			return nil, eris.Wrapf(fetchErr, "extract: fetch %s", url)
		}
		if page == nil {
			return nil, eris.Errorf("extract: no response from %s", url)
		}
		return page, nil
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
