// Package httpfetch provides an HTTP client that folds every way a fetch can
// go wrong into the error taxonomy.  Transport failures retry with backoff, a
// circuit breaker sheds load from an unhealthy service, and response statuses
// map into error kinds (the inverse of the httpboundary table): 404 is
// NOT_FOUND, 400 is VALIDATION, 401/403 are UNAUTHORIZED/FORBIDDEN, 409 is
// CONFLICT, and 5xx, connection failures, and an open circuit are
// EXTERNAL_SERVICE_ERROR.  Fetches resolve as AsyncResults; concurrent
// fan-out folds back to a Result per URL.
package httpfetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abevier/outcome/apperrors"
	"github.com/abevier/outcome/asyncresults"
	"github.com/abevier/outcome/results"
)

// Opts is used to configure a Client via the New function.
type Opts struct {
	// Timeout bounds each request attempt.  Zero means no timeout.
	Timeout time.Duration
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int
	// RetryWaitMin and RetryWaitMax bound the backoff between attempts.
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	// BreakerName names the circuit for log lines.
	BreakerName string
	// TripCount is the number of consecutive failed attempts that opens
	// the circuit.
	TripCount uint32
	// BreakerTimeout is the open-state period before the circuit lets a
	// probe request through.
	BreakerTimeout time.Duration
	// Logger receives retry attempts and circuit transitions.  Nop when nil.
	Logger *zap.Logger
}

func (o Opts) validate() {
	if o.MaxRetries < 0 {
		panic("http fetch max retries must be 0 or greater")
	}
}

func (o Opts) withDefaults() Opts {
	if o.RetryWaitMin == 0 {
		o.RetryWaitMin = 100 * time.Millisecond
	}
	if o.RetryWaitMax == 0 {
		o.RetryWaitMax = 5 * time.Second
	}
	if o.TripCount == 0 {
		o.TripCount = 5
	}
	if o.BreakerTimeout == 0 {
		o.BreakerTimeout = 60 * time.Second
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Client is a retrying, circuit-breaking HTTP client.  A Client is safe for
// concurrent use and should be shared: the circuit's health accounting lives
// in the Client.
type Client struct {
	http *http.Client
}

// New creates a Client.  It panics if opts is invalid.
func New(opts Opts) *Client {
	opts.validate()
	opts = opts.withDefaults()

	log := opts.Logger.Named(opts.BreakerName)

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        opts.BreakerName,
		MaxRequests: 1,
		Timeout:     opts.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.TripCount
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			switch to {
			case gobreaker.StateOpen:
				log.Error("circuit has been opened")
			case gobreaker.StateHalfOpen:
				log.Warn("circuit is now half open and letting some requests through")
			case gobreaker.StateClosed:
				log.Info("circuit has been closed")
			}
		},
	})

	rc := retryablehttp.Client{
		HTTPClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: &breakerRoundTripper{RoundTripper: http.DefaultTransport, cb: cb},
		},
		Logger:       nil,
		RetryWaitMin: opts.RetryWaitMin,
		RetryWaitMax: opts.RetryWaitMax,
		RetryMax:     opts.MaxRetries,
		RequestLogHook: func(_ retryablehttp.Logger, req *http.Request, attempt int) {
			log.Info("sending http request", zap.String("url", req.URL.String()), zap.Int("request_attempt_count", attempt))
		},
		CheckRetry:   retryablehttp.DefaultRetryPolicy,
		Backoff:      retryablehttp.DefaultBackoff,
		ErrorHandler: retryablehttp.PassthroughErrorHandler,
	}

	return &Client{http: rc.StandardClient()}
}

// GetJSON fetches url and decodes its JSON body into a T, resolving
// asynchronously.  Every failure mode arrives as a Failure with the kind
// classified per the package table.
func GetJSON[T any](ctx context.Context, c *Client, url string) *asyncresults.AsyncResult[T, *apperrors.AppError] {
	return asyncresults.Run(apperrors.FromError, func() results.Result[T, *apperrors.AppError] {
		return fetchJSON[T](ctx, c, url)
	})
}

// GetJSONAll fetches every url concurrently, running at most maxConcurrent
// fetches at a time (no limit when maxConcurrent is not positive).  The
// returned slice holds one Result per url, in url order; one fetch failing
// does not disturb the others.  Pair with results.Collect for
// first-failure-wins folding.
func GetJSONAll[T any](ctx context.Context, c *Client, urls []string, maxConcurrent int) []results.Result[T, *apperrors.AppError] {
	g := new(errgroup.Group)
	if maxConcurrent > 0 {
		g.SetLimit(maxConcurrent)
	}

	rs := make([]results.Result[T, *apperrors.AppError], len(urls))
	for i, url := range urls {
		i, url := i, url
		g.Go(func() error {
			rs[i] = fetchJSON[T](ctx, c, url)
			return nil
		})
	}

	_ = g.Wait()
	return rs
}

func fetchJSON[T any](ctx context.Context, c *Client, url string) results.Result[T, *apperrors.AppError] {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		e := apperrors.Wrap(apperrors.Validation, "invalid request url", err).With("url", url)
		return results.Failure[T](e)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return results.Failure[T](classifyTransportError(url, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		e := apperrors.New(KindOfStatus(resp.StatusCode), "unexpected response status").
			With("url", url).
			With("status", resp.StatusCode)
		return results.Failure[T](e)
	}

	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		e := apperrors.Wrap(apperrors.ExternalService, "response body is not valid json", err).With("url", url)
		return results.Failure[T](e)
	}

	return results.Success[T, *apperrors.AppError](v)
}

// KindOfStatus maps an HTTP response status to an error kind.  Statuses
// without a specific mapping classify as EXTERNAL_SERVICE_ERROR.
func KindOfStatus(status int) apperrors.Kind {
	switch status {
	case http.StatusNotFound:
		return apperrors.NotFound
	case http.StatusBadRequest:
		return apperrors.Validation
	case http.StatusUnauthorized:
		return apperrors.Unauthorized
	case http.StatusForbidden:
		return apperrors.Forbidden
	case http.StatusConflict:
		return apperrors.Conflict
	default:
		return apperrors.ExternalService
	}
}

func classifyTransportError(url string, err error) *apperrors.AppError {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Wrap(apperrors.Internal, "request canceled", err).With("url", url)
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return apperrors.Wrap(apperrors.ExternalService, "service circuit is open", err).With("url", url)
	}

	var se statusError
	if errors.As(err, &se) {
		return apperrors.Wrap(apperrors.ExternalService, "service returned a server error", err).
			With("url", url).
			With("status", se.code)
	}

	return apperrors.Wrap(apperrors.ExternalService, "request failed", err).With("url", url)
}

// statusError is how a 5xx response travels through the circuit breaker and
// retry layers, which must see it as a failed attempt rather than a response.
type statusError struct {
	code int
}

func (e statusError) Error() string {
	return fmt.Sprintf("status code error: %d", e.code)
}

type breakerRoundTripper struct {
	http.RoundTripper
	cb *gobreaker.CircuitBreaker
}

func (rt *breakerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	v, err := rt.cb.Execute(func() (interface{}, error) {
		resp, err := rt.RoundTripper.RoundTrip(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			resp.Body.Close()
			return nil, statusError{code: resp.StatusCode}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*http.Response), nil
}
