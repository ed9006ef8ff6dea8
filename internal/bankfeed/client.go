package bankfeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout = 30 * time.Second
	defaultBackoff = time.Second
	maxRetries     = 3
)

type Config struct {
	BaseURL string
	Token   string
	Account string
	// Timeout bounds one FetchTransactions call including retries.
	Timeout time.Duration
	// MinInterval is the minimum spacing between statement requests.
	MinInterval time.Duration
}

type Client struct {
	baseURL    string
	token      string
	account    string
	timeout    time.Duration
	backoff    time.Duration
	limiter    *rate.Limiter
	httpClient *http.Client
	logger     *logrus.Entry
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	limit := rate.Inf
	if cfg.MinInterval > 0 {
		limit = rate.Every(cfg.MinInterval)
	}
	account := cfg.Account
	if account == "" {
		account = "0"
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		account:    account,
		timeout:    timeout,
		backoff:    defaultBackoff,
		limiter:    rate.NewLimiter(limit, 1),
		httpClient: &http.Client{},
		logger:     logrus.WithField("component", "bankfeed"),
	}
}

// FetchTransactions returns the statement records between from and to. A
// response that is not a JSON array fails the call; an item that does not
// decode is logged and counted instead.
func (c *Client) FetchTransactions(ctx context.Context, from, to time.Time) (*Statement, error) {
	fetchStart := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s/personal/statement/%s/%d/%d", c.baseURL, c.account, from.Unix(), to.Unix())
	body, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("bankfeed: failed to decode statement: %w", err)
	}

	statement := &Statement{Records: make([]ExternalRecord, 0, len(items))}
	for i, item := range items {
		var record ExternalRecord
		if err := json.Unmarshal(item, &record); err != nil {
			c.logger.WithError(err).WithField("index", i).Warn("BankFeed.FetchTransactions.malformedRecord")
			statement.Malformed++
			continue
		}
		statement.Records = append(statement.Records, record)
	}

	c.logger.WithFields(logrus.Fields{
		"count":      len(statement.Records),
		"malformed":  statement.Malformed,
		"durationMs": time.Since(fetchStart).Milliseconds(),
	}).Info("BankFeed.FetchTransactions.Complete")
	return statement, nil
}

// doRequest performs the authenticated GET, retrying 429 responses with
// exponential backoff.
func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, error) {
	backoff := c.backoff
	for attempt := 0; attempt <= maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("bankfeed: failed to create request: %w", err)
		}
		req.Header.Set("X-Token", c.token)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, c.contextError(ctx, err)
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, c.contextError(ctx, readErr)
		}

		switch resp.StatusCode {
		case http.StatusOK:
			return body, nil
		case http.StatusUnauthorized, http.StatusForbidden:
			return nil, ErrUnauthorized
		case http.StatusTooManyRequests:
			if attempt == maxRetries {
				return nil, &RateLimitError{
					RetryAfter: backoff,
					Message:    "bankfeed: rate limit exceeded after retries",
				}
			}
			c.logger.WithFields(logrus.Fields{
				"attempt":   attempt,
				"backoffMs": backoff.Milliseconds(),
			}).Warn("BankFeed.doRequest.rateLimited")
			select {
			case <-ctx.Done():
				return nil, c.contextError(ctx, ctx.Err())
			case <-time.After(backoff):
				backoff *= 2
				continue
			}
		default:
			return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
		}
	}

	return nil, errors.New("bankfeed: exhausted retries")
}

// wait enforces the minimum interval between statement requests. A wait
// that would outlast the deadline fails fast with a RateLimitError.
func (c *Client) wait(ctx context.Context) error {
	reservation := c.limiter.Reserve()
	delay := reservation.Delay()
	if delay == 0 {
		return nil
	}
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < delay {
		reservation.Cancel()
		return &RateLimitError{
			RetryAfter: delay,
			Message:    "bankfeed: minimum request interval not elapsed",
		}
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		reservation.Cancel()
		return c.contextError(ctx, ctx.Err())
	case <-timer.C:
		return nil
	}
}

// contextError reports deadline expiry as ErrTimeout.
func (c *Client) contextError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s", ErrTimeout, c.timeout)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}
