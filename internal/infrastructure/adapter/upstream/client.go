package upstream

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	errs "github.com/amirhossein-jamali/game-portal/internal/domain/error"
	coreport "github.com/amirhossein-jamali/game-portal/internal/domain/port/core"
	"github.com/amirhossein-jamali/game-portal/internal/domain/port/upstream"
)

// GenericErrorMessage replaces an empty error on a failed response
const GenericErrorMessage = "upstream_error"

const (
	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"
	maxBodyBytes    = 16 << 20
)

// Call outcomes reported to the observer
const (
	OutcomeSuccess  = "success"
	OutcomeCacheHit = "cache_hit"
	OutcomeFail     = "fail"
	OutcomeError    = "error"
)

// Config holds games API settings
type Config struct {
	BaseURL string
	Hall    string
	Key     string
	Timeout time.Duration
	// Retries is the number of attempts made before a transient failure is returned
	Retries    int
	RetryDelay time.Duration
	CacheTTL   time.Duration
}

// Observer receives one event per logical call
type Observer interface {
	ObserveUpstreamCall(cmd, outcome string, elapsed time.Duration)
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithObserver registers a call observer
func WithObserver(observer Observer) Option {
	return func(c *Client) {
		c.observer = observer
	}
}

// Client implements upstream.GamesAPI over HTTP
type Client struct {
	config       Config
	httpClient   *http.Client
	cache        ResponseCache
	observer     Observer
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

var _ upstream.GamesAPI = (*Client)(nil)

// NewClient creates a games API client
func NewClient(config Config, cache ResponseCache, timeProvider coreport.TimeProvider, logger coreport.Logger, opts ...Option) *Client {
	if config.Timeout <= 0 {
		config.Timeout = 20 * time.Second
	}
	if config.Retries < 1 {
		config.Retries = 1
	}
	if cache == nil {
		cache = NoopCache{}
	}

	c := &Client{
		config:       config,
		httpClient:   &http.Client{Timeout: config.Timeout},
		cache:        cache,
		timeProvider: timeProvider,
		logger:       logger.With(map[string]any{"component": "upstream"}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchGameList calls getGamesList
func (c *Client) FetchGameList(ctx context.Context, req upstream.GameListRequest) (json.RawMessage, error) {
	params := map[string]string{"img": string(req.ImageStyle)}
	if req.ImageStyle == "" {
		params["img"] = string(upstream.ImageStyle1)
	}
	if req.CDNURL != "" {
		params["cdnUrl"] = req.CDNURL
	}
	return c.call(ctx, upstream.CmdGetGamesList, params, true)
}

// OpenGame calls openGame; responses create provider sessions and are never cached
func (c *Client) OpenGame(ctx context.Context, params map[string]string) (json.RawMessage, error) {
	return c.call(ctx, upstream.CmdOpenGame, params, false)
}

// FetchJackpots calls jackpots
func (c *Client) FetchJackpots(ctx context.Context) (json.RawMessage, error) {
	return c.call(ctx, upstream.CmdJackpots, nil, true)
}

func (c *Client) call(ctx context.Context, cmd string, params map[string]string, cacheable bool) (json.RawMessage, error) {
	started := c.timeProvider.Now()
	if c.config.BaseURL == "" {
		return nil, errs.NewUpstreamError(cmd, 0, "base url is not configured", nil)
	}

	fields := c.buildFields(cmd, params)
	key := CacheKey(fields)

	if cacheable && c.config.CacheTTL > 0 {
		if body, ok, err := c.cache.Get(ctx, key); err != nil {
			c.logger.Warn("Upstream cache read failed", map[string]any{"cmd": cmd, "error": err.Error()})
		} else if ok {
			c.observe(cmd, OutcomeCacheHit, started)
			return json.RawMessage(body), nil
		}
	}

	body, err := c.doWithRetry(ctx, cmd, fields)
	if err != nil {
		c.observe(cmd, OutcomeError, started)
		return nil, err
	}

	if err := CheckEnvelope(cmd, body); err != nil {
		c.observe(cmd, OutcomeFail, started)
		c.logger.Warn("Upstream returned a failure", errs.LogFields(err))
		return nil, err
	}

	if cacheable && c.config.CacheTTL > 0 {
		if err := c.cache.Set(ctx, key, body, c.config.CacheTTL); err != nil {
			c.logger.Warn("Upstream cache write failed", map[string]any{"cmd": cmd, "error": err.Error()})
		}
	}

	c.observe(cmd, OutcomeSuccess, started)
	c.logger.Debug("Upstream call completed", map[string]any{
		"cmd":         cmd,
		"bytes":       len(body),
		"duration_ms": c.timeProvider.Since(started).Milliseconds(),
	})
	return json.RawMessage(body), nil
}

// buildFields merges caller params with the credentials; cmd, hall and key always win
func (c *Client) buildFields(cmd string, params map[string]string) map[string]string {
	fields := make(map[string]string, len(params)+3)
	for k, v := range params {
		fields[k] = v
	}
	fields["cmd"] = cmd
	fields["hall"] = c.config.Hall
	fields["key"] = c.config.Key
	return fields
}

func (c *Client) doWithRetry(ctx context.Context, cmd string, fields map[string]string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= c.config.Retries; attempt++ {
		if attempt > 1 {
			c.logger.Warn("Retrying upstream call", map[string]any{
				"cmd":     cmd,
				"attempt": attempt,
				"error":   lastErr.Error(),
			})
			if err := c.timeProvider.Sleep(ctx, c.config.RetryDelay); err != nil {
				return nil, errs.NewUpstreamError(cmd, 0, "request cancelled", err)
			}
		}

		body, err := c.send(ctx, cmd, fields)
		if err == nil {
			return body, nil
		}
		lastErr = err

		var te *transientError
		if !errors.As(err, &te) {
			return nil, err
		}
	}

	var te *transientError
	if errors.As(lastErr, &te) {
		return nil, te.err
	}
	return nil, lastErr
}

// send posts JSON first and falls back to a form post when the reply is not JSON
func (c *Client) send(ctx context.Context, cmd string, fields map[string]string) ([]byte, error) {
	payload, err := json.Marshal(fields)
	if err != nil {
		return nil, errs.NewUpstreamError(cmd, 0, "cannot encode request", err)
	}

	body, err := c.post(ctx, cmd, payload, contentTypeJSON)
	if err != nil {
		return nil, err
	}
	if gjson.ValidBytes(body) {
		return body, nil
	}

	c.logger.Debug("Upstream rejected JSON body, retrying as form", map[string]any{"cmd": cmd})
	body, err = c.post(ctx, cmd, []byte(formValues(fields).Encode()), contentTypeForm)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, errs.NewUpstreamError(cmd, 0, "malformed JSON body", nil)
	}
	return body, nil
}

func (c *Client) post(ctx context.Context, cmd string, payload []byte, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, errs.NewUpstreamError(cmd, 0, "cannot build request", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", contentTypeJSON)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		uerr := errs.NewUpstreamError(cmd, 0, "request failed", err)
		if ctx.Err() != nil {
			return nil, uerr
		}
		return nil, &transientError{err: uerr}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &transientError{err: errs.NewUpstreamError(cmd, resp.StatusCode, "cannot read body", err)}
	}

	switch {
	case resp.StatusCode >= 500, resp.StatusCode == http.StatusTooManyRequests:
		return nil, &transientError{err: errs.NewUpstreamError(cmd, resp.StatusCode, http.StatusText(resp.StatusCode), nil)}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, errs.NewUpstreamError(cmd, resp.StatusCode, http.StatusText(resp.StatusCode), nil)
	}
	return body, nil
}

func (c *Client) observe(cmd, outcome string, started time.Time) {
	if c.observer != nil {
		c.observer.ObserveUpstreamCall(cmd, outcome, c.timeProvider.Since(started))
	}
}

// CheckEnvelope validates the status/error envelope of a response body.
// A missing status counts as success when the body carries a payload.
func CheckEnvelope(cmd string, body []byte) error {
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return errs.NewUpstreamError(cmd, 0, "response is not a JSON object", nil)
	}

	message := strings.TrimSpace(root.Get("error").String())
	status := root.Get("status")

	if !status.Exists() {
		if message == "" && hasPayload(root) {
			return nil
		}
		if message == "" {
			message = GenericErrorMessage
		}
		return errs.NewUpstreamError(cmd, 0, message, nil)
	}

	if strings.EqualFold(status.String(), "success") {
		return nil
	}
	if message == "" {
		message = GenericErrorMessage
	}
	return errs.NewUpstreamError(cmd, 0, message, nil)
}

func hasPayload(root gjson.Result) bool {
	if root.Get("content").Exists() {
		return true
	}
	found := false
	root.ForEach(func(key, _ gjson.Result) bool {
		if k := key.String(); k != "error" && k != "status" {
			found = true
			return false
		}
		return true
	})
	return found
}

// CacheKey derives a cache key from the command and its sorted parameters; the API key is excluded
func CacheKey(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k == "key" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, fields[k])
	}
	sum := sha256.Sum256([]byte(b.String()))
	return fields["cmd"] + ":" + hex.EncodeToString(sum[:])
}

func formValues(fields map[string]string) url.Values {
	values := make(url.Values, len(fields))
	for k, v := range fields {
		values.Set(k, v)
	}
	return values
}

type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }

func (e *transientError) Unwrap() error { return e.err }
