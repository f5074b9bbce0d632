package goalserve

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/omarshaarawi/leaguefeed/internal/config"
)

const (
	userAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	acceptHeader = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"

	timeoutDelay = 3 * time.Second
	errorDelay   = 2 * time.Second
)

type Client struct {
	transport http.RoundTripper
	timer     backoff.Timer
	Config    config.Feed
}

func NewClient(cfg config.Feed) *Client {
	return &Client{
		transport: http.DefaultTransport,
		Config:    cfg,
	}
}

// Fetch issues GET requests against url until one returns 200 or maxRetries
// attempts have been made. Each attempt is bounded by timeout.
func (c *Client) Fetch(url string, maxRetries int, timeout time.Duration) ([]byte, error) {
	if maxRetries < 1 {
		maxRetries = 1
	}

	httpClient := &http.Client{Transport: c.transport, Timeout: timeout}
	policy := &fixedDelay{maxAttempts: maxRetries}

	var body []byte
	operation := func() error {
		policy.attempts++

		req, err := http.NewRequest(http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("error creating request: %w", err))
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", acceptHeader)
		req.Header.Set("Connection", "keep-alive")

		b, reqErr := c.do(httpClient, req)
		if reqErr != nil {
			policy.last = reqErr
			return reqErr
		}
		body = b
		return nil
	}

	notify := func(err error, wait time.Duration) {
		slog.Warn("Feed request failed, retrying",
			"attempt", policy.attempts,
			"max_attempts", maxRetries,
			"wait", wait,
			"error", err)
	}

	if err := backoff.RetryNotifyWithTimer(operation, policy, notify, c.timer); err != nil {
		var reqErr *RequestError
		if !errors.As(err, &reqErr) {
			return nil, err
		}
		slog.Error("Feed request failed", "attempts", policy.attempts, "error", err)
		return nil, &FetchError{Attempts: policy.attempts, Last: reqErr}
	}

	return body, nil
}

func (c *Client) do(httpClient *http.Client, req *http.Request) ([]byte, *RequestError) {
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &RequestError{Kind: KindHTTP, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classify(err)
	}
	return body, nil
}

func classify(err error) *RequestError {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &RequestError{Kind: KindTimeout, Err: err}
	}
	return &RequestError{Kind: KindTransport, Err: err}
}

// fixedDelay waits timeoutDelay after a timed out attempt and errorDelay after
// any other failure, stopping once maxAttempts attempts have been made.
type fixedDelay struct {
	maxAttempts int
	attempts    int
	last        *RequestError
}

func (f *fixedDelay) NextBackOff() time.Duration {
	if f.attempts >= f.maxAttempts {
		return backoff.Stop
	}
	if f.last != nil && f.last.Kind == KindTimeout {
		return timeoutDelay
	}
	return errorDelay
}

func (f *fixedDelay) Reset() {
	f.attempts = 0
	f.last = nil
}
