// Package managed is a low level client for the Deep Origin managed data API.
//
// Every operation is a POST of a JSON document to <base url>/<Operation>, answered
// with a JSON envelope {"data": ...}. Methods map one-to-one to API operations.
package managed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/deeporigin/deeporigin/pkg/auth"
	"github.com/deeporigin/deeporigin/pkg/config"
	"github.com/deeporigin/deeporigin/pkg/errors"
	"github.com/deeporigin/deeporigin/pkg/managed/status"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout = 2 * time.Minute
	maxErrorBody   = 4096
	orgHeader      = "x-org-id"
	requestHeader  = "x-request-id"

	// DefaultRetries is the number of retries of transient failures for clients built with FromConfig
	DefaultRetries = 3
)

// Invoker calls an API operation. The body is marshaled to JSON and the
// "data" member of the response is decoded into out, when out is not nil.
type Invoker interface {
	Invoke(ctx context.Context, endpoint string, body, out interface{}) error
}

// InvokerFunc adapts a function to the Invoker interface
type InvokerFunc func(ctx context.Context, endpoint string, body, out interface{}) error

// Invoke calls f
func (f InvokerFunc) Invoke(ctx context.Context, endpoint string, body, out interface{}) error {
	return f(ctx, endpoint, body, out)
}

// Client of the managed data API
type Client struct {
	baseURL    string
	orgID      string
	userAgent  string
	tokens     auth.TokenSource
	http       *http.Client
	transfer   *http.Client
	limiter    *rate.Limiter
	retries    uint64
	newBackOff func() backoff.BackOff
	invoker    Invoker
	l          *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// BaseURL of the managed data API, e.g. https://os.deeporigin.io/nucleus-api/api/
func BaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// OrganizationID sent with every request
func OrganizationID(id string) Option {
	return func(c *Client) { c.orgID = id }
}

// Tokens sets the source of access tokens
func Tokens(source auth.TokenSource) Option {
	return func(c *Client) { c.tokens = source }
}

// HTTPClient used for API calls and file transfers
func HTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
			c.transfer = client
		}
	}
}

// RateLimit throttles API calls to rps requests per second. Zero disables throttling.
func RateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// Retries sets how many times a call failing with status.ErrUnavailable is attempted again,
// with an exponential backoff. It defaults to 0.
func Retries(n int) Option {
	return func(c *Client) {
		if n < 0 {
			n = 0
		}
		c.retries = uint64(n)
	}
}

// RetryInterval sets the initial wait between two retries
func RetryInterval(d time.Duration) Option {
	return func(c *Client) {
		c.newBackOff = func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = d
			return b
		}
	}
}

// UserAgent sent with API calls
func UserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// Logger for the client
func Logger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.l = logger
		}
	}
}

// WithInvoker replaces the HTTP transport of API operations, e.g. to serve canned responses
func WithInvoker(invoker Invoker) Option {
	return func(c *Client) { c.invoker = invoker }
}

// New managed data client
func New(opts ...Option) *Client {
	c := &Client{
		userAgent:  "deep-origin-go",
		http:       &http.Client{Timeout: defaultTimeout},
		transfer:   &http.Client{},
		newBackOff: defaultBackOff,
		l:          zap.NewNop(),
	}
	for _, apply := range opts {
		apply(c)
	}
	if c.invoker == nil {
		c.invoker = InvokerFunc(c.invokeHTTP)
	}
	return c
}

func defaultBackOff() backoff.BackOff {
	return backoff.NewExponentialBackOff()
}

// FromConfig builds a client from the CLI configuration
func FromConfig(cfg *config.Config, tokens auth.TokenSource, opts ...Option) (*Client, error) {
	base, err := cfg.NucleusURL()
	if err != nil {
		return nil, err
	}
	defaults := []Option{
		BaseURL(base),
		OrganizationID(cfg.OrganizationID),
		Tokens(tokens),
		RateLimit(cfg.MaxRequestsPerSecond),
		Retries(DefaultRetries),
	}
	return New(append(defaults, opts...)...), nil
}

// Invoke an API operation
func (c *Client) Invoke(ctx context.Context, endpoint string, body, out interface{}) error {
	c.l.Debug("invoke", zap.String("endpoint", endpoint))
	if err := c.invoker.Invoke(ctx, endpoint, body, out); err != nil {
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	return nil
}

type envelope struct {
	Data json.RawMessage `json:"data"`
}

func (c *Client) invokeHTTP(ctx context.Context, endpoint string, body, out interface{}) error {
	if body == nil {
		body = struct{}{}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return status.ErrInvalidArgument.Wrap(err)
	}

	return c.withRetries(ctx, endpoint, func() error {
		err := c.post(ctx, endpoint, payload, out)
		if errors.Is(err, status.ErrUnauthorized) && c.tokens != nil {
			// the token may have been revoked or expired early: refresh once
			c.l.Debug("access token rejected, retrying with a fresh token", zap.String("endpoint", endpoint))
			c.tokens.Invalidate()
			err = c.post(ctx, endpoint, payload, out)
		}
		return err
	})
}

func (c *Client) withRetries(ctx context.Context, endpoint string, op func() error) error {
	if c.retries == 0 {
		return op()
	}
	b := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), c.retries), ctx)
	return backoff.RetryNotify(func() error {
		err := op()
		if err == nil {
			return nil
		}
		if !errors.Is(err, status.ErrUnavailable) {
			return backoff.Permanent(err)
		}
		return err
	}, b, func(err error, wait time.Duration) {
		c.l.Debug("retrying", zap.String("endpoint", endpoint), zap.Duration("wait", wait), zap.Error(err))
	})
}

func (c *Client) post(ctx context.Context, endpoint string, payload []byte, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+endpoint, bytes.NewReader(payload))
	if err != nil {
		return status.ErrInvalidArgument.Wrap(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	requestID := ksuid.New().String()
	req.Header.Set(requestHeader, requestID)
	if c.orgID != "" {
		req.Header.Set(orgHeader, c.orgID)
	}
	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	t0 := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return status.ErrUnavailable.Wrap(err)
	}
	defer resp.Body.Close()
	c.l.Debug("response",
		zap.String("endpoint", endpoint),
		zap.String("request", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(t0)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	var env envelope
	if err = json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return status.ErrAPI.Wrap(fmt.Errorf("decoding response: %w", err))
	}
	if len(env.Data) == 0 {
		return status.ErrAPI.Wrap(fmt.Errorf("response has no data"))
	}
	if err = json.Unmarshal(env.Data, out); err != nil {
		return status.ErrAPI.Wrap(fmt.Errorf("decoding response data: %w", err))
	}
	return nil
}

func statusError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	detail := fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(b)))
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return status.ErrUnauthorized.Wrap(detail)
	case http.StatusForbidden:
		return status.ErrForbidden.Wrap(detail)
	case http.StatusNotFound:
		return status.ErrNotFound.Wrap(detail)
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return status.ErrUnavailable.Wrap(detail)
	default:
		return status.ErrAPI.Wrap(detail)
	}
}
