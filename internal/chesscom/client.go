// Package chesscom is a client for the public player API.
package chesscom

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/goserg/opponentanalyzer/internal/domain"
	"github.com/goserg/opponentanalyzer/internal/metrics"
	"github.com/goserg/opponentanalyzer/internal/normalize"
	"github.com/goserg/opponentanalyzer/internal/retry"
)

const DefaultBaseURL = "https://api.chess.com/pub/player/"

// Endpoint names used in logs and metrics.
const (
	EndpointProfile = "profile"
	EndpointStats   = "stats"
	EndpointGames   = "games"
)

// StatusError is a non-2xx response.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP status %d", e.URL, e.Code)
}

// Retryable reports whether a failure is transient: rate limiting, server errors
// and transport errors. Other statuses and cancellation are final.
func Retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests || se.Code >= http.StatusInternalServerError
	}
	return true
}

type Config struct {
	BaseURL     string
	MaxAttempts int
	Backoff     time.Duration
}

type Client struct {
	baseURL   string
	transport Transport
	policy    retry.Policy
	log       *logrus.Entry
	metrics   *metrics.Metrics
}

func New(cfg Config, transport Transport, l *logrus.Logger, m *metrics.Metrics) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 3
	}
	return &Client{
		baseURL:   base,
		transport: transport,
		policy: retry.Policy{
			MaxAttempts: attempts,
			Backoff:     retry.Linear(cfg.Backoff),
			Retryable:   Retryable,
		},
		log:     l.WithField("from", "chesscom"),
		metrics: m,
	}
}

// Profile fetches GET /{username}.
func (c *Client) Profile(ctx context.Context, username string) (domain.Profile, error) {
	var p domain.Profile
	err := c.getJSON(ctx, EndpointProfile, c.playerURL(username), &p)
	return p, err
}

// Ratings fetches GET /{username}/stats.
func (c *Client) Ratings(ctx context.Context, username string) (domain.Ratings, error) {
	var r domain.Ratings
	err := c.getJSON(ctx, EndpointStats, c.playerURL(username, "stats"), &r)
	return r, err
}

type gamesResponse struct {
	Games []domain.Game `json:"games"`
}

// MonthlyGames fetches GET /{username}/games/{YYYY}/{MM}. An unexpected body
// shape yields an empty list.
func (c *Client) MonthlyGames(ctx context.Context, username string, month domain.Month) ([]domain.Game, error) {
	var resp gamesResponse
	err := c.getJSON(ctx, EndpointGames, c.playerURL(username, "games", month.Path()), &resp)
	if err != nil {
		return nil, err
	}
	if resp.Games == nil {
		return []domain.Game{}, nil
	}
	return resp.Games, nil
}

func (c *Client) playerURL(username string, parts ...string) string {
	u := c.baseURL + url.PathEscape(normalize.Name(username))
	for _, p := range parts {
		u += "/" + p
	}
	return u
}

// getJSON fetches u with retries and decodes the body into dst. A body of the wrong
// shape is logged and whatever decoded is kept; absent fields stay at their defaults.
func (c *Client) getJSON(ctx context.Context, endpoint, u string, dst any) error {
	log := c.log.WithFields(logrus.Fields{"endpoint": endpoint, "url": u})
	p := c.policy
	p.OnRetry = func(attempt int, err error, wait time.Duration) {
		c.metrics.Retry(endpoint)
		log.WithError(err).WithFields(logrus.Fields{
			"attempt": attempt,
			"wait":    wait,
		}).Warn("request failed, retrying")
	}
	body, err := retry.Do(ctx, p, func(ctx context.Context, _ int) ([]byte, error) {
		code, body, err := c.transport.Get(ctx, u)
		c.metrics.Request(endpoint, code)
		if err != nil {
			return nil, err
		}
		if code < 200 || code >= 300 {
			return nil, &StatusError{Code: code, URL: u}
		}
		return body, nil
	})
	if err != nil {
		log.WithError(err).Error("request failed")
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		log.WithError(err).Warn("unexpected response shape, using defaults")
	}
	return nil
}
