// Package dataaccess fetches the precomputed JSON resources of a dataset and
// memoizes them by path.
//
// A base starting with http:// or https:// is read over HTTP, anything else
// is treated as a directory on disk. Gzip bodies (".json.gz" files or
// Content-Encoding: gzip) are decompressed transparently. Successful bodies
// are cached for the lifetime of the Client; failures are not cached, so a
// later call retries.
package dataaccess

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"tilescope/internal/log"
)

var logger = log.ForService("dataaccess")

// maxBodyBytes caps a single resource. The search index of the largest
// dataset is a few MB.
const maxBodyBytes = 256 << 20

// Options configures a Client
type Options struct {
	Base              string
	Timeout           time.Duration
	RequestsPerSecond float64 // 0 = unlimited
	HTTPClient        *http.Client
}

// Stats counts cache and transport activity
type Stats struct {
	Hits      int64
	Misses    int64
	Transport int64 // reads that actually hit the network or the disk
	Failures  int64
}

// Client fetches and caches JSON resources
type Client struct {
	base    string
	remote  bool
	http    *http.Client
	timeout time.Duration
	limiter *rate.Limiter
	store   *MemoryStore
	group   singleflight.Group

	hits      atomic.Int64
	misses    atomic.Int64
	transport atomic.Int64
	failures  atomic.Int64
}

// New creates a Client for opts.Base
func New(opts Options) *Client {
	c := &Client{
		base:    strings.TrimRight(opts.Base, "/"),
		remote:  isRemote(opts.Base),
		http:    opts.HTTPClient,
		timeout: opts.Timeout,
		store:   NewMemoryStore(),
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if opts.RequestsPerSecond > 0 {
		burst := int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}
	return c
}

func isRemote(base string) bool {
	return strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://")
}

// Base returns the configured data location
func (c *Client) Base() string {
	return c.base
}

// Stats returns a snapshot of the cache counters
func (c *Client) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Transport: c.transport.Load(),
		Failures:  c.failures.Load(),
	}
}

// CachedPaths returns the paths held in the session cache, sorted
func (c *Client) CachedPaths() []string {
	return c.store.Paths()
}

// Fetch returns the JSON body stored at path. Concurrent calls for the same
// uncached path share a single transport read.
func (c *Client) Fetch(ctx context.Context, path string) (json.RawMessage, error) {
	if body, ok := c.store.Get(path); ok {
		c.hits.Add(1)
		logger.Debugf("cache hit for %s", path)
		return body, nil
	}
	c.misses.Add(1)

	// The shared load outlives any single caller; the timeout in load bounds it
	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(path, func() (interface{}, error) {
		// A caller that lost the race may arrive after the winner stored it
		if body, ok := c.store.Get(path); ok {
			return body, nil
		}
		body, err := c.load(loadCtx, path)
		if err != nil {
			return nil, err
		}
		return c.store.Put(path, body), nil
	})

	select {
	case <-ctx.Done():
		return nil, &NetworkError{Path: path, Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(json.RawMessage), nil
	}
}

// FetchInto fetches path and decodes it into v
func (c *Client) FetchInto(ctx context.Context, path string, v any) error {
	body, err := c.Fetch(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &ParseError{Path: path, Err: err}
	}
	return nil
}

// load performs one transport read and validates the body
func (c *Client) load(ctx context.Context, path string) (json.RawMessage, error) {
	c.transport.Add(1)
	start := time.Now()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			c.failures.Add(1)
			return nil, &NetworkError{Path: path, Err: err}
		}
	}

	var (
		raw []byte
		err error
	)
	if c.remote {
		raw, err = c.readHTTP(ctx, path)
	} else {
		raw, err = c.readFile(path)
	}
	if err != nil {
		c.failures.Add(1)
		logger.Warnf("load %s failed: %v", path, err)
		return nil, err
	}

	for i := 0; i < 2 && isGzip(raw); i++ {
		if raw, err = gunzip(raw); err != nil {
			c.failures.Add(1)
			return nil, &ParseError{Path: path, Err: fmt.Errorf("gzip: %w", err)}
		}
	}

	if !json.Valid(raw) {
		c.failures.Add(1)
		return nil, &ParseError{Path: path, Err: errors.New("body is not valid JSON")}
	}

	logger.Infof("loaded %s (%d bytes in %s)", path, len(raw), time.Since(start).Round(time.Millisecond))
	return json.RawMessage(raw), nil
}

func (c *Client) readHTTP(ctx context.Context, path string) ([]byte, error) {
	target, err := url.JoinPath(c.base, path)
	if err != nil {
		return nil, &NetworkError{Path: path, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &NetworkError{Path: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	// Setting this ourselves turns off the transport's transparent
	// decompression; gzip bodies are handled in load.
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Path: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &HTTPError{Path: path, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &NetworkError{Path: path, Err: err}
	}
	return body, nil
}

func (c *Client) readFile(path string) ([]byte, error) {
	rel := filepath.FromSlash(strings.TrimPrefix(path, "/"))
	if !filepath.IsLocal(rel) {
		return nil, &NetworkError{Path: path, Err: fmt.Errorf("path escapes data directory")}
	}

	body, err := os.ReadFile(filepath.Join(c.base, rel))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &HTTPError{Path: path, Status: http.StatusNotFound}
		}
		return nil, &NetworkError{Path: path, Err: err}
	}
	return body, nil
}

func isGzip(b []byte) bool {
	return len(b) >= 2 && b[0] == 0x1f && b[1] == 0x8b
}

func gunzip(b []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(io.LimitReader(zr, maxBodyBytes))
}
