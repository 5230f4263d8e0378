// Package httpx is the outbound JSON client shared by the external adapters:
// client-side rate limiting, retries on 429/5xx honouring Retry-After, and
// per-call metrics.
package httpx

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"review_insight/internal/adapters/observability"
	"review_insight/internal/domain"
)

var (
	ErrNotFound     = fmt.Errorf("remote: %w", domain.ErrNotFound)
	ErrUnauthorized = errors.New("remote: 401 unauthorized")
	ErrForbidden    = errors.New("remote: 403 forbidden")
)

const maxAttempts = 4

type Client struct {
	service string
	hc      *http.Client
	rl      *rate.Limiter
	headers http.Header
}

// New returns a client limited to rps requests per second. service labels metrics.
func New(service string, rps int, timeout time.Duration, headers map[string]string) *Client {
	if rps <= 0 {
		rps = 5
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	h := http.Header{}
	h.Set("Accept", "application/json")
	h.Set("User-Agent", "review-insight/1.0")
	for k, v := range headers {
		if v != "" {
			h.Set(k, v)
		}
	}
	return &Client{
		service: service,
		hc:      &http.Client{Timeout: timeout},
		rl:      rate.NewLimiter(rate.Limit(rps), rps),
		headers: h,
	}
}

func (c *Client) GetJSON(ctx context.Context, url, endpoint string, out any) error {
	return c.do(ctx, http.MethodGet, url, endpoint, nil, out)
}

func (c *Client) PostJSON(ctx context.Context, url, endpoint string, in, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, url, endpoint, b, out)
}

// do performs one logical call, retrying transient failures.
func (c *Client) do(ctx context.Context, method, url, endpoint string, body []byte, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		// build a fresh request each attempt
		var rd io.Reader
		if body != nil {
			rd = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, rd)
		if err != nil {
			return err
		}
		for k, vs := range c.headers {
			req.Header[k] = vs
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal(c.service, endpoint, 0, time.Since(start))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < maxAttempts-1 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal(c.service, endpoint, resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated, http.StatusAccepted:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			return err

		case http.StatusNoContent:
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil

		case http.StatusNotFound:
			resp.Body.Close()
			return ErrNotFound

		case http.StatusUnauthorized:
			resp.Body.Close()
			return ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < maxAttempts-1 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}
	return lastErr
}

// sleepCtx waits for d or returns false early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date); 0 if absent or invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles from 200ms per attempt with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
