package engine

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"
)

// RetryConfig is the backoff policy of a backend adapter. Filtering and
// autocomplete never retry on their own.
type RetryConfig struct {
	MaxRetries  int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetryConfig gives a backend two extra tries within about half a second.
var DefaultRetryConfig = RetryConfig{
	MaxRetries:  2,
	InitialWait: 250 * time.Millisecond,
	MaxWait:     2 * time.Second,
	Multiplier:  2.0,
}

// NoRetry runs the call exactly once.
var NoRetry = RetryConfig{}

// backoff is the pause before retry number n (zero-based), capped at MaxWait.
func (rc RetryConfig) backoff(n int) time.Duration {
	d := float64(rc.InitialWait)
	for range n {
		d *= rc.Multiplier
		if rc.MaxWait > 0 && d >= float64(rc.MaxWait) {
			return rc.MaxWait
		}
	}
	if rc.MaxWait > 0 && time.Duration(d) > rc.MaxWait {
		return rc.MaxWait
	}
	return time.Duration(d)
}

// pause picks the wait before the next try. A server hint from Retry-After
// wins over the computed backoff but never exceeds MaxWait.
func (rc RetryConfig) pause(n int, err error) time.Duration {
	d := rc.backoff(n)
	var se *HTTPStatusError
	if errors.As(err, &se) && se.RetryAfter > d {
		d = se.RetryAfter
		if rc.MaxWait > 0 && d > rc.MaxWait {
			d = rc.MaxWait
		}
	}
	return d
}

// RetryDo calls fn until it succeeds, fails permanently, the context ends,
// or MaxRetries extra tries are spent. The last error is returned.
func RetryDo[T any](ctx context.Context, rc RetryConfig, fn func() (T, error)) (T, error) {
	var zero T
	for n := 0; ; n++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		v, err := fn()
		switch {
		case err == nil:
			return v, nil
		case !isRetryable(err), n >= rc.MaxRetries:
			return zero, err
		}

		d := rc.pause(n, err)
		slog.Debug("retry: backend call failed",
			slog.Int("try", n+1), slog.Duration("pause", d), slog.Any("error", err))
		if err := sleepCtx(ctx, d); err != nil {
			return zero, err
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RetryHTTP wraps RetryDo for a single HTTP exchange. Transient statuses are
// closed and retried; every other response goes back to the caller.
func RetryHTTP(ctx context.Context, rc RetryConfig, fn func() (*http.Response, error)) (*http.Response, error) {
	return RetryDo(ctx, rc, func() (*http.Response, error) {
		resp, err := fn()
		if err != nil || !isRetryableStatus(resp.StatusCode) {
			return resp, err
		}
		resp.Body.Close()
		return nil, &HTTPStatusError{
			StatusCode: resp.StatusCode,
			RetryAfter: retryAfter(resp.Header.Get("Retry-After")),
		}
	})
}

// retryAfter reads the delta-seconds form of Retry-After. Dates are ignored.
func retryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// HTTPStatusError reports an unexpected backend status.
type HTTPStatusError struct {
	StatusCode int
	RetryAfter time.Duration
}

func (e *HTTPStatusError) Error() string {
	return "http status " + http.StatusText(e.StatusCode)
}

// isRetryable separates transient transport failures from permanent ones.
func isRetryable(err error) bool {
	var (
		se  *HTTPStatusError
		op  *net.OpError
		dns *net.DNSError
		ne  net.Error
	)
	switch {
	case errors.As(err, &se):
		return isRetryableStatus(se.StatusCode)
	case errors.As(err, &op), errors.As(err, &dns):
		return true
	case errors.As(err, &ne):
		return ne.Timeout()
	}
	return false
}

// isRetryableStatus lists throttling and gateway statuses. 401 is handled by
// the session layer, not here.
func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
