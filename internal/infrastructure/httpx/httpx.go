package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// Logger is the subset of logging DoJSON needs; args are key/value pairs.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

// ZapLogger adapts a *zap.Logger to Logger.
type ZapLogger struct{ L *zap.Logger }

func (z ZapLogger) Info(msg string, args ...any) { z.L.Sugar().Infow(msg, args...) }
func (z ZapLogger) Warn(msg string, args ...any) { z.L.Sugar().Warnw(msg, args...) }

type nopLogger struct{}

func (nopLogger) Info(string, ...any) {}
func (nopLogger) Warn(string, ...any) {}

// StatusError is returned for a non-2xx response that is not retried.
type StatusError struct{ Code int }

func (e *StatusError) Error() string { return fmt.Sprintf("status %d", e.Code) }

type Client struct {
	HTTP  *http.Client
	Token string
}

// DoJSON sends req and decodes a 200 response into out. Transport errors and
// 5xx responses are retried with exponential backoff; other statuses and
// decode errors are not.
func (c *Client) DoJSON(ctx context.Context, req *http.Request, out any, log Logger) error {
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	req.Header.Set("Accept", "application/json")
	if c.HTTP == nil {
		c.HTTP = http.DefaultClient
	}
	if log == nil {
		log = nopLogger{}
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 200 * time.Millisecond
	exp.MaxInterval = 1 * time.Second
	exp.MaxElapsedTime = 3 * time.Second

	attempt := 0
	op := func() error {
		attempt++
		resp, err := c.HTTP.Do(req.WithContext(ctx))
		if err != nil {
			log.Warn("httpx.attempt_failed", "url", req.URL.String(), "attempt", attempt, "error", err.Error())
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 500 {
			log.Warn("httpx.attempt_failed", "url", req.URL.String(), "attempt", attempt, "status", resp.StatusCode)
			return &StatusError{Code: resp.StatusCode}
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(&StatusError{Code: resp.StatusCode})
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode response: %w", err))
		}
		log.Info("httpx.ok", "url", req.URL.String(), "attempt", attempt)
		return nil
	}
	return backoff.Retry(op, backoff.WithContext(exp, ctx))
}
