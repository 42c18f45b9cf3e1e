package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/mentoro/internal/observability"
	"github.com/yungbote/mentoro/internal/platform/apierr"
	"github.com/yungbote/mentoro/internal/platform/ctxutil"
	"github.com/yungbote/mentoro/internal/platform/logger"
)

// ErrSessionExpired is the only error a façade call returns.
var ErrSessionExpired = apierr.New(http.StatusUnauthorized, "session_expired", errors.New("session expired"))

// TokenSource supplies the bearer token and is told when the backend rejects it.
type TokenSource interface {
	Token() string
	Invalidate(reason string)
}

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	HTTPClient *http.Client

	Session TokenSource
	// OnSessionExpired runs after a 401 has invalidated the session.
	OnSessionExpired func()

	Logger *logger.Logger
	Now    func() time.Time
}

// Client wraps the learning backend's REST API. Every method resolves: a
// failed call returns the endpoint's fallback, except a 401 which returns
// ErrSessionExpired.
type Client struct {
	baseURL    string
	timeout    time.Duration
	maxRetries int
	httpClient *http.Client

	session   TokenSource
	onExpired func()

	log    *logger.Logger
	now    func() time.Time
	tracer trace.Tracer
}

func New(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("baseURL required")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	maxRetries := opts.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Client{
		baseURL:    baseURL,
		timeout:    timeout,
		maxRetries: maxRetries,
		httpClient: hc,
		session:    opts.Session,
		onExpired:  opts.OnSessionExpired,
		log:        log.With("service", "BackendClient"),
		now:        now,
		tracer:     otel.Tracer("github.com/yungbote/mentoro/internal/backend"),
	}, nil
}

func (c *Client) BaseURL() string { return c.baseURL }

// Resolved carries a façade result and whether it came from the offline
// fallback table rather than the backend.
type Resolved[T any] struct {
	Value    T
	Fallback bool
}

// call performs e and decodes the response into T. Any failure other than a
// 401 resolves to fallbackFor(e).
func call[T any](ctx context.Context, c *Client, e Endpoint, req request) (T, error) {
	r, err := resolve[T](ctx, c, e, req)
	return r.Value, err
}

func resolve[T any](ctx context.Context, c *Client, e Endpoint, req request) (Resolved[T], error) {
	var out T
	start := time.Now()
	err := c.do(ctx, e, req, &out)
	if err == nil {
		observability.Current().ObserveBackend(e.String(), "ok", time.Since(start))
		return Resolved[T]{Value: out}, nil
	}
	if errors.Is(err, ErrSessionExpired) {
		observability.Current().ObserveBackend(e.String(), "expired", time.Since(start))
		return Resolved[T]{}, err
	}
	observability.Current().ObserveBackend(e.String(), "fallback", time.Since(start))

	c.log.Warn("backend unavailable, using fallback", "endpoint", e.String(), "error", err)
	fb, ok := fallbackFor(e, req, c.now()).(T)
	if !ok {
		c.log.Error("fallback type mismatch", "endpoint", e.String(), "want", fmt.Sprintf("%T", out))
		return Resolved[T]{Fallback: true}, nil
	}
	return Resolved[T]{Value: fb, Fallback: true}, nil
}

func (c *Client) do(ctx context.Context, e Endpoint, req request, out any) error {
	method, path := e.Route()
	if method == "" {
		return fmt.Errorf("unknown endpoint %d", int(e))
	}
	target := c.baseURL + strings.ReplaceAll(path, "{id}", url.PathEscape(req.id))
	if len(req.query) > 0 {
		q := url.Values{}
		for k, v := range req.query {
			if v != "" {
				q.Set(k, v)
			}
		}
		if enc := q.Encode(); enc != "" {
			target += "?" + enc
		}
	}

	var buf []byte
	if req.body != nil {
		b, err := json.Marshal(req.body)
		if err != nil {
			return err
		}
		buf = b
	}

	ctx, span := c.tracer.Start(ctx, "backend "+e.String(), trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.request.method", method),
		attribute.String("url.template", path),
		attribute.String("mentoro.endpoint", e.String()),
	)

	ctx2, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var lastErr error
	backoff := 250 * time.Millisecond
attempts:
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx2.Err() != nil {
			lastErr = ctx2.Err()
			break
		}

		var body io.Reader
		if buf != nil {
			body = bytes.NewReader(buf)
		}
		httpReq, err := http.NewRequestWithContext(ctx2, method, target, body)
		if err != nil {
			return err
		}
		c.setHeaders(ctx2, httpReq, buf != nil)

		resp, err := c.httpClient.Do(httpReq)
		retry := true
		if err != nil {
			lastErr = err
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
			_ = resp.Body.Close()
			span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
			switch {
			case resp.StatusCode == http.StatusUnauthorized:
				c.expire()
				span.SetStatus(codes.Error, "session expired")
				return ErrSessionExpired
			case readErr != nil:
				lastErr = readErr
			case resp.StatusCode < 200 || resp.StatusCode >= 300:
				lastErr = &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
				retry = resp.StatusCode >= 500
			default:
				if err := json.Unmarshal(raw, out); err != nil {
					lastErr = fmt.Errorf("decode %s: %w", e.String(), err)
					retry = false
				} else {
					return nil
				}
			}
		}

		if !retry || attempt >= c.maxRetries {
			break
		}
		select {
		case <-ctx2.Done():
			lastErr = ctx2.Err()
			break attempts
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	if lastErr == nil {
		lastErr = errors.New("request failed")
	}
	span.RecordError(lastErr)
	span.SetStatus(codes.Error, lastErr.Error())
	return lastErr
}

func (c *Client) setHeaders(ctx context.Context, req *http.Request, hasBody bool) {
	req.Header.Set("Accept", "application/json")
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session != nil {
		if tok := c.session.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	if rid := ctxutil.RequestID(ctx); rid != "" {
		req.Header.Set("X-Request-Id", rid)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
}

func (c *Client) expire() {
	c.log.Warn("backend rejected credentials, signing out")
	if c.session != nil {
		c.session.Invalidate("backend_401")
	}
	if c.onExpired != nil {
		c.onExpired()
	}
}

// HTTPError is a non-2xx, non-401 response. It never reaches callers; it is
// logged before the fallback is returned.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	msg := http.StatusText(e.StatusCode)
	if e.Body != "" {
		body := e.Body
		if len(body) > 200 {
			body = body[:200]
		}
		msg = body
	}
	return fmt.Sprintf("http error: status=%d message=%s", e.StatusCode, msg)
}
