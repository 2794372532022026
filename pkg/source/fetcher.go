package source

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/layerpaste/pkg/cache"
	"github.com/matzehuels/layerpaste/pkg/errors"
	"github.com/matzehuels/layerpaste/pkg/httputil"
	"github.com/matzehuels/layerpaste/pkg/observability"
)

// MaxDownloadSize caps the body of a remote image.
const MaxDownloadSize = 64 << 20

// cacheKeyType labels image entries in cache hooks.
const cacheKeyType = "image"

// FetcherOptions configures a [Fetcher]. Zero values select defaults.
type FetcherOptions struct {
	Client   *http.Client  // defaults to httputil.NewClient(Timeout)
	Timeout  time.Duration // per-request timeout when Client is nil
	Cache    cache.Cache   // defaults to a NullCache
	Keyer    cache.Keyer   // defaults to cache.NewDefaultKeyer()
	TTL      time.Duration // cache entry lifetime, 0 keeps entries forever
	Attempts int           // defaults to httputil.DefaultAttempts
	Delay    time.Duration // initial backoff, defaults to httputil.DefaultDelay
}

// Fetcher downloads remote images, consulting a cache first.
type Fetcher struct {
	client   *http.Client
	cache    cache.Cache
	keyer    cache.Keyer
	ttl      time.Duration
	attempts int
	delay    time.Duration
}

// NewFetcher creates a Fetcher from opts.
func NewFetcher(opts FetcherOptions) *Fetcher {
	f := &Fetcher{
		client:   opts.Client,
		cache:    opts.Cache,
		keyer:    opts.Keyer,
		ttl:      opts.TTL,
		attempts: opts.Attempts,
		delay:    opts.Delay,
	}
	if f.client == nil {
		f.client = httputil.NewClient(opts.Timeout)
	}
	if f.cache == nil {
		f.cache = cache.NewNullCache()
	}
	if f.keyer == nil {
		f.keyer = cache.NewDefaultKeyer()
	}
	if f.attempts <= 0 {
		f.attempts = httputil.DefaultAttempts
	}
	if f.delay <= 0 {
		f.delay = httputil.DefaultDelay
	}
	return f
}

// Fetch returns the body at rawURL. A cached body is returned without a
// request; a fresh body is cached before returning. Cache failures are
// ignored.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := errors.ValidateURL(rawURL); err != nil {
		return nil, err
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse URL")
	}

	hooks := observability.Cache()
	key := f.keyer.ImageKey(rawURL)
	if data, hit, _ := f.cache.Get(ctx, key); hit {
		hooks.OnCacheHit(ctx, cacheKeyType)
		return data, nil
	}
	hooks.OnCacheMiss(ctx, cacheKeyType)

	var body []byte
	err = httputil.Retry(ctx, f.attempts, f.delay, func() error {
		var err error
		body, err = f.get(ctx, u)
		return err
	})
	if err != nil {
		return nil, classify(err, rawURL)
	}

	if err := f.cache.Set(ctx, key, body, f.ttl); err == nil {
		hooks.OnCacheSet(ctx, cacheKeyType, len(body))
	}
	return body, nil
}

func (f *Fetcher) get(ctx context.Context, u *url.URL) ([]byte, error) {
	hooks := observability.HTTP()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "image/*")

	hooks.OnRequest(ctx, req.Method, u.Host, u.Path)
	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, u.Host, u.Path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &httputil.RetryableError{Err: err}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, u.Host, u.Path, resp.StatusCode, time.Since(start))

	if err := httputil.CheckStatus(resp.StatusCode); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxDownloadSize+1))
	if err != nil {
		return nil, &httputil.RetryableError{Err: err}
	}
	if len(data) > MaxDownloadSize {
		return nil, errors.New(errors.ErrCodeInvalidImage, "image larger than %d bytes", MaxDownloadSize)
	}
	return data, nil
}

// classify turns a fetch failure into a coded error that names the URL.
func classify(err error, rawURL string) error {
	if stderrors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
		return errors.Wrap(errors.ErrCodeTimeout, err, "fetch %s timed out", rawURL)
	}
	if code := errors.GetCode(err); code != "" {
		return errors.Wrap(code, err, "fetch %s", rawURL)
	}
	return errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", rawURL)
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return stderrors.As(err, &t) && t.Timeout()
}

