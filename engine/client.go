package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
	circuit "github.com/rubyist/circuitbreaker"

	"datagate/config"
	"datagate/core"
	"datagate/middleware/requestid"
)

// engineKeyHeader carries the shared secret on every outbound call.
const engineKeyHeader = "x-engine-key"

// IdempotencyKeyHeader lets the engine deduplicate retried inserts. The API
// accepts it inbound and the client forwards it verbatim.
const IdempotencyKeyHeader = "X-Idempotency-Key"

// Client forwards operations to the data engine over HTTP. A single instance
// is safe for concurrent use.
type Client struct {
	baseURL  string
	apiKey   string
	client   *http.Client
	breakers cmap.ConcurrentMap[string, *circuit.Breaker]
	logger   *CallLogger
}

// New creates a new engine client from the provided configuration
func New(cfg *config.EngineConfig) *Client {
	return NewWithDebug(cfg, false)
}

// NewWithDebug creates a new engine client with optional call logging
func NewWithDebug(cfg *config.EngineConfig, debug bool) *Client {
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: cfg.Timeout},
		breakers: cmap.New[*circuit.Breaker](),
		logger:   NewCallLogger(debug),
	}
}

// Logger exposes the call logger so debug output can be toggled at runtime.
func (c *Client) Logger() *CallLogger {
	return c.logger
}

// Do forwards a normalized operation to the engine and returns the decoded
// result envelope. The endpoint's circuit breaker rejects the call outright
// when too many consecutive attempts failed to get through; application
// errors reported by a reachable engine never trip it.
func (c *Client) Do(ctx context.Context, op *core.Operation) (*core.Result, error) {
	path := op.Kind.Path()

	var (
		res    *core.Result
		appErr error
	)
	err := c.breakerFor(path).Call(func() error {
		r, err := c.roundTrip(ctx, op, path)
		if err != nil {
			var engErr *Error
			if errors.As(err, &engErr) && !engErr.breakerCountable() {
				appErr = err
				return nil
			}
			return err
		}
		res = r
		return nil
	}, 0)

	if errors.Is(err, circuit.ErrBreakerOpen) {
		return nil, &Error{Kind: KindBreakerOpen, Message: ConnectivityMessage, Err: err}
	}
	if err != nil {
		return nil, err
	}
	if appErr != nil {
		return nil, appErr
	}

	if op.Kind.ExpectsList() {
		res.EnsureListShape()
	}
	return res, nil
}

// Ping checks engine reachability via its health endpoint. It bypasses the
// breakers so a recovering engine is observed immediately.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	if c.apiKey != "" {
		req.Header.Set(engineKeyHeader, c.apiKey)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.LogError(http.MethodGet, "/health", time.Since(start), err)
		return classifyTransport(err)
	}
	defer resp.Body.Close()
	c.logger.LogCall(http.MethodGet, "/health", resp.StatusCode, time.Since(start), -1)

	if resp.StatusCode != http.StatusOK {
		return remoteError(fmt.Sprintf("engine health returned status %d", resp.StatusCode), resp.StatusCode)
	}
	return nil
}

// roundTrip performs one HTTP exchange with the engine and maps the outcome
// onto the result envelope or a classified *Error.
func (c *Client) roundTrip(ctx context.Context, op *core.Operation, path string) (*core.Result, error) {
	body, err := json.Marshal(op.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", op.Kind, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set(engineKeyHeader, c.apiKey)
	}
	if rid := requestid.FromContext(ctx); rid != "" {
		req.Header.Set(requestid.Header, rid)
	}
	if op.IdempotencyKey != "" {
		req.Header.Set(IdempotencyKeyHeader, op.IdempotencyKey)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.LogError(http.MethodPost, path, time.Since(start), err)
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close()

	var res core.Result
	decodeErr := json.NewDecoder(resp.Body).Decode(&res)
	c.logger.LogCall(http.MethodPost, path, resp.StatusCode, time.Since(start), resultCount(&res, decodeErr))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, remoteError(remoteDetail(&res, decodeErr, resp.StatusCode), resp.StatusCode)
	}
	if decodeErr != nil {
		return nil, remoteError(remoteDetail(&res, decodeErr, resp.StatusCode), resp.StatusCode)
	}
	if !res.Success {
		return nil, remoteError(remoteDetail(&res, nil, resp.StatusCode), resp.StatusCode)
	}
	return &res, nil
}

// remoteDetail extracts the engine-supplied failure detail, falling back to a
// status description when the body was not a usable envelope.
func remoteDetail(res *core.Result, decodeErr error, status int) string {
	if decodeErr == nil {
		if res.Error != "" {
			return res.Error
		}
		if res.Message != "" {
			return res.Message
		}
	}
	return fmt.Sprintf("unexpected engine response (status %d)", status)
}

func resultCount(res *core.Result, decodeErr error) int64 {
	if decodeErr != nil || res.Count == nil {
		return -1
	}
	return *res.Count
}
