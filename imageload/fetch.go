package imageload

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
)

// FetcherOptions configures a Fetcher. Zero values select defaults.
type FetcherOptions struct {
	Client    *http.Client
	CacheSize int   // decoded images kept; default 256
	MaxBytes  int64 // largest accepted payload; default 8 MiB
	MaxTries  uint  // attempts per http fetch; default 4

	// NewBackOff returns the retry policy for one fetch. Default: exponential.
	NewBackOff func() backoff.BackOff

	Logger *slog.Logger
}

// Fetcher loads images over http(s) or from the local filesystem and keeps
// recently decoded images in memory.
type Fetcher struct {
	opt   FetcherOptions
	cache *lru.Cache[string, *Image]
	log   *slog.Logger
}

var _ Loader = (*Fetcher)(nil)

func NewFetcher(opt FetcherOptions) (*Fetcher, error) {
	if opt.Client == nil {
		opt.Client = &http.Client{Timeout: 30 * time.Second}
	}
	if opt.CacheSize <= 0 {
		opt.CacheSize = 256
	}
	if opt.MaxBytes <= 0 {
		opt.MaxBytes = 8 << 20
	}
	if opt.MaxTries == 0 {
		opt.MaxTries = 4
	}
	if opt.NewBackOff == nil {
		opt.NewBackOff = func() backoff.BackOff { return backoff.NewExponentialBackOff() }
	}
	log := opt.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	cache, err := lru.New[string, *Image](opt.CacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "imageload: new cache")
	}
	return &Fetcher{opt: opt, cache: cache, log: log}, nil
}

// Load returns the decoded image behind ref: an http(s) URL, a file:// URL
// or a filesystem path.
func (f *Fetcher) Load(ctx context.Context, ref string) (*Image, error) {
	if img, ok := f.cache.Get(ref); ok {
		return img, nil
	}

	data, err := f.read(ctx, ref)
	if err != nil {
		return nil, err
	}
	img, err := Decode(data)
	if err != nil {
		return nil, errors.Wrapf(err, "ref %q", ref)
	}

	f.cache.Add(ref, img)
	f.log.Debug("image loaded", "ref", ref, "frames", len(img.Frames), "bytes", len(data))
	return img, nil
}

func (f *Fetcher) read(ctx context.Context, ref string) ([]byte, error) {
	if ref == "" {
		return nil, errors.Wrap(ErrNotFound, "empty ref")
	}
	u, err := url.Parse(ref)
	if err == nil {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return f.fetch(ctx, ref)
		case "file":
			return f.readFile(u.Path)
		}
	}
	return f.readFile(ref)
}

func (f *Fetcher) readFile(path string) ([]byte, error) {
	fh, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNotFound, "file %q", path)
		}
		return nil, errors.Wrapf(err, "imageload: open %q", path)
	}
	defer fh.Close()
	return f.readAll(fh)
}

func (f *Fetcher) fetch(ctx context.Context, ref string) ([]byte, error) {
	attempt := 0
	op := func() ([]byte, error) {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
		if err != nil {
			return nil, backoff.Permanent(errors.Wrap(err, "imageload: new request"))
		}
		resp, err := f.opt.Client.Do(req)
		if err != nil {
			f.log.Debug("image fetch failed", "ref", ref, "attempt", attempt, "err", err)
			return nil, errors.Wrap(err, "imageload: get")
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			return f.readAll(resp.Body)
		case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
			return nil, backoff.Permanent(errors.Wrapf(ErrNotFound, "url %q", ref))
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			f.log.Debug("image fetch retry", "ref", ref, "attempt", attempt, "status", resp.StatusCode)
			return nil, errors.Errorf("imageload: get %q: status %d", ref, resp.StatusCode)
		default:
			return nil, backoff.Permanent(errors.Errorf("imageload: get %q: status %d", ref, resp.StatusCode))
		}
	}

	data, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(f.opt.NewBackOff()),
		backoff.WithMaxTries(f.opt.MaxTries),
	)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (f *Fetcher) readAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, f.opt.MaxBytes+1))
	if err != nil {
		return nil, errors.Wrap(err, "imageload: read")
	}
	if int64(len(data)) > f.opt.MaxBytes {
		return nil, errors.Errorf("imageload: payload exceeds %d bytes", f.opt.MaxBytes)
	}
	return data, nil
}
