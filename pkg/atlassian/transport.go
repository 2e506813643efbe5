// Package atlassian provides the shared REST transport used by the Jira and
// Confluence clients: basic-auth resty client construction, client-side rate
// limiting, and Retry-After aware handling of vendor rate limits.
package atlassian

import (
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"atlassian-utils/internal/common"
)

const (
	defaultTimeout      = 30 * time.Second
	defaultMaxRetries   = 2
	defaultMaxRetryWait = 60 * time.Second
	userAgentPrefix     = "atlassian-utils/"
)

// ClientOptions holds the settings shared by both vendor clients.
type ClientOptions struct {
	BaseURL  string
	Username string
	APIToken string
	Timeout  time.Duration

	// RequestsPerSecond enables a client-side limiter when > 0.
	RequestsPerSecond float64

	// MaxRetries bounds retries on HTTP 429 responses.
	MaxRetries int
	// MaxRetryWait caps how long a single Retry-After wait may be; longer
	// waits fail the request instead of blocking the caller.
	MaxRetryWait time.Duration

	UserAgent string
	Logger    arbor.ILogger
}

// NewClient builds a resty client with basic auth, JSON headers, optional
// rate limiting and 429 retry handling.
func NewClient(opts ClientOptions) *resty.Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxRetries := opts.MaxRetries
	if maxRetries == 0 {
		maxRetries = defaultMaxRetries
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	maxRetryWait := opts.MaxRetryWait
	if maxRetryWait <= 0 {
		maxRetryWait = defaultMaxRetryWait
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = userAgentPrefix + common.GetVersion()
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")).
		SetBasicAuth(opts.Username, opts.APIToken).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent)

	if opts.RequestsPerSecond > 0 {
		burst := int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		limiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
		client.OnBeforeRequest(func(c *resty.Client, req *resty.Request) error {
			return limiter.Wait(req.Context())
		})
	}

	client.
		SetRetryCount(maxRetries).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(maxRetryWait).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			return resp != nil && resp.StatusCode() == 429
		}).
		SetRetryAfter(func(c *resty.Client, resp *resty.Response) (time.Duration, error) {
			wait, err := ParseRetryAfter(resp.Header().Get("Retry-After"), time.Now())
			if err != nil {
				return 1 * time.Second, nil
			}
			if wait > maxRetryWait {
				return 0, common.NewError(common.ErrorTypeRateLimit, "retry_wait_exceeded",
					"rate-limit wait exceeds the configured maximum").
					WithContext("wait_seconds", wait.Seconds()).
					WithContext("max_wait_seconds", maxRetryWait.Seconds())
			}
			return wait, nil
		})

	if opts.Logger != nil {
		logger := opts.Logger
		client.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
			logger.Debug().
				Str("method", resp.Request.Method).
				Str("url", resp.Request.URL).
				Int("status", resp.StatusCode()).
				Dur("duration", resp.Time()).
				Msg("atlassian api request")
			return nil
		})
	}

	return client
}

// CheckResponse converts a non-2xx response into a classified SDK error.
func CheckResponse(service string, resp *resty.Response) error {
	if resp.IsError() {
		return common.NewHTTPError(service, resp.StatusCode(), resp.String())
	}
	return nil
}
