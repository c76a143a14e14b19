/*
Package rpcclient implements a client of the Sirius REST gateway.

It announces signed transactions and cosignatures and fetches transactions
and their statuses, resolving the JSON into typed transactions. Requests are
not retried.
*/
package rpcclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/nspcc-dev/sirius-go/pkg/config/netmode"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	defaultDialTimeout    = 4 * time.Second
	defaultRequestTimeout = 4 * time.Second
	defaultCacheSize      = 1024
)

var errNetworkNotInitialized = errors.New("REST client network is not initialized")

// Client represents the middleman for executing REST calls to a Sirius node.
// Client is thread-safe and can be used from multiple goroutines.
type Client struct {
	cli      *http.Client
	endpoint *url.URL
	ctx      context.Context
	opts     Options
	log      *zap.Logger
	metrics  *metrics

	cacheLock sync.RWMutex
	// cache stores node related information the client is bound to, it's
	// filled in during Init().
	cache cache

	// txCache keeps the JSON of confirmed transactions by their hash.
	txCache *lru.Cache
}

// Options defines options for the REST client.
// All values are optional. If any duration is not specified,
// a default of 4 seconds will be used.
type Options struct {
	DialTimeout    time.Duration
	RequestTimeout time.Duration
	// Limit total number of connections per host. No limit by default.
	MaxConnsPerHost int
	// Logger is used for request tracing, nothing is logged by default.
	Logger *zap.Logger
	// Registerer receives request duration metrics if set.
	Registerer prometheus.Registerer
	// CacheSize is the number of confirmed transactions kept in memory.
	CacheSize int
}

type cache struct {
	initDone       bool
	network        netmode.Type
	generationHash string
}

// Error is an error response of the REST gateway.
type Error struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("HTTP %d/%s: %s", e.StatusCode, e.Code, e.Message)
}

// IsNotFound reports whether err is a REST error for a missing resource.
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.StatusCode == http.StatusNotFound
}

// New returns a new Client ready to use. Init should be called before
// signing-related getters like GenerationHash are used.
func New(ctx context.Context, endpoint string, opts Options) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported endpoint scheme %q", u.Scheme)
	}

	if opts.DialTimeout <= 0 {
		opts.DialTimeout = defaultDialTimeout
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = defaultCacheSize
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	cl := &Client{
		cli: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: opts.DialTimeout,
				}).DialContext,
				MaxConnsPerHost: opts.MaxConnsPerHost,
			},
			Timeout: opts.RequestTimeout,
		},
		endpoint: u,
		ctx:      ctx,
		opts:     opts,
		log:      opts.Logger,
	}
	cl.txCache, _ = lru.New(opts.CacheSize) // Never errors for positive size.
	if opts.Registerer != nil {
		if cl.metrics, err = newMetrics(opts.Registerer); err != nil {
			return nil, err
		}
	}
	return cl, nil
}

// Init fetches the nemesis block and remembers the network type and the
// generation hash used for signing.
func (c *Client) Init() error {
	nemesis, err := c.getNemesis()
	if err != nil {
		return fmt.Errorf("failed to get nemesis block: %w", err)
	}
	network, err := netmode.FromByte(byte(uint32(nemesis.Block.Version) >> 24))
	if err != nil {
		return fmt.Errorf("nemesis block: %w", err)
	}

	c.cacheLock.Lock()
	defer c.cacheLock.Unlock()

	c.cache.network = network
	c.cache.generationHash = nemesis.Meta.GenerationHash
	c.cache.initDone = true
	c.log.Info("REST client initialized",
		zap.String("endpoint", c.endpoint.String()),
		zap.Stringer("network", network),
		zap.String("generation hash", nemesis.Meta.GenerationHash))
	return nil
}

// Network returns the network type of the node.
func (c *Client) Network() (netmode.Type, error) {
	c.cacheLock.RLock()
	defer c.cacheLock.RUnlock()

	if !c.cache.initDone {
		return netmode.NotSupported, errNetworkNotInitialized
	}
	return c.cache.network, nil
}

// GenerationHash returns the hex generation hash of the node network.
func (c *Client) GenerationHash() (string, error) {
	c.cacheLock.RLock()
	defer c.cacheLock.RUnlock()

	if !c.cache.initDone {
		return "", errNetworkNotInitialized
	}
	return c.cache.generationHash, nil
}

// Endpoint returns the client endpoint.
func (c *Client) Endpoint() string {
	return c.endpoint.String()
}

// Close closes unused underlying networks connections.
func (c *Client) Close() {
	c.cli.CloseIdleConnections()
}

// performRequest sends a request to path, route is the path template used
// for metrics. A non-nil v receives the decoded JSON response.
func (c *Client) performRequest(method, route, path string, body any, v any) error {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(c.ctx, method, c.endpoint.JoinPath(path).String(), r)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.cli.Do(req)
	took := time.Since(start)
	c.metrics.observe(method, route, took)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	c.log.Debug("REST request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", took))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		restErr := &Error{StatusCode: resp.StatusCode}
		if json.Unmarshal(data, restErr) != nil || restErr.Message == "" {
			restErr.Code = http.StatusText(resp.StatusCode)
			restErr.Message = string(data)
		}
		return restErr
	}
	if v == nil {
		return nil
	}
	if raw, ok := v.(*json.RawMessage); ok {
		*raw = data
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("JSON decoding: %w", err)
	}
	return nil
}
