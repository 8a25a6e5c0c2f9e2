package chesscom

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Transport performs a single GET and returns the status code and body.
type Transport interface {
	Get(ctx context.Context, url string) (int, []byte, error)
}

// FiberTransport issues requests with the fiber client agent.
type FiberTransport struct {
	UserAgent string
	Timeout   time.Duration
}

var _ Transport = FiberTransport{}

func (t FiberTransport) Get(ctx context.Context, url string) (int, []byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}
	timeout := t.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); timeout <= 0 || left < timeout {
			timeout = left
		}
	}

	a := fiber.Get(url)
	a.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if t.UserAgent != "" {
		a.UserAgent(t.UserAgent)
	}
	if timeout > 0 {
		a.Timeout(timeout)
	}
	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return code, nil, errors.Join(errs...)
	}
	return code, body, nil
}
