// Package channel is an in-process request/response bus. Each request carries a
// correlation ID; a response is delivered at most once and a request that gets
// no answer in time fails with ErrTimeout.
package channel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/goserg/opponentanalyzer/internal/domain"
)

// TypeCalculateStats asks for the telemetry aggregate of a game list.
const TypeCalculateStats = "calculateStats"

var (
	ErrNoReceiver = errors.New("channel: no receiver")
	ErrTimeout    = errors.New("channel: response timeout")
)

type Request struct {
	ID       uuid.UUID     `json:"id"`
	Type     string        `json:"type"`
	Games    []domain.Game `json:"games"`
	Username string        `json:"username"`
}

type Response struct {
	ID             uuid.UUID   `json:"id"`
	Precision      domain.Stat `json:"precision"`
	AvgMoveTime    domain.Stat `json:"avgMoveTime"`
	PrecisionGames int         `json:"precisionGames"`
	MoveTimeGames  int         `json:"moveTimeGames"`
}

// Handler answers one request type.
type Handler func(ctx context.Context, req Request) (Response, error)

type envelope struct {
	ctx context.Context
	req Request
}

type Bus struct {
	timeout time.Duration
	log     *logrus.Entry

	inbox   chan envelope
	serving atomic.Bool

	mu       sync.Mutex
	handlers map[string]Handler
	pending  map[uuid.UUID]chan Response
}

func New(timeout time.Duration, l *logrus.Logger) *Bus {
	return &Bus{
		timeout:  timeout,
		log:      l.WithField("from", "channel"),
		inbox:    make(chan envelope, 16),
		handlers: make(map[string]Handler),
		pending:  make(map[uuid.UUID]chan Response),
	}
}

// Handle registers h for a request type, replacing any previous handler.
func (b *Bus) Handle(typ string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[typ] = h
}

// Serve dispatches requests until ctx is done. Each request runs on its own goroutine.
func (b *Bus) Serve(ctx context.Context) error {
	if !b.serving.CompareAndSwap(false, true) {
		return errors.New("channel: already serving")
	}
	defer b.serving.Store(false)
	for {
		select {
		case <-ctx.Done():
			return nil
		case env := <-b.inbox:
			go b.dispatch(env)
		}
	}
}

func (b *Bus) dispatch(env envelope) {
	b.mu.Lock()
	h, ok := b.handlers[env.req.Type]
	b.mu.Unlock()
	if !ok {
		b.log.WithField("type", env.req.Type).Warn("no handler for request type")
		return
	}
	resp, err := b.invoke(env.ctx, h, env.req)
	if err != nil {
		b.log.WithError(err).WithField("id", env.req.ID).Error("handler failed")
		resp = Response{}
	}
	resp.ID = env.req.ID
	b.deliver(resp)
}

func (b *Bus) invoke(ctx context.Context, h Handler, req Request) (resp Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h(ctx, req)
}

// deliver hands resp to the waiting sender. Responses without a waiter are dropped.
func (b *Bus) deliver(resp Response) {
	b.mu.Lock()
	ch, ok := b.pending[resp.ID]
	delete(b.pending, resp.ID)
	b.mu.Unlock()
	if !ok {
		b.log.WithField("id", resp.ID).Debug("dropping late response")
		return
	}
	ch <- resp
}

// Send issues req and waits for its response, the bus timeout, or ctx.
func (b *Bus) Send(ctx context.Context, req Request) (Response, error) {
	if !b.serving.Load() {
		return Response{}, ErrNoReceiver
	}
	b.mu.Lock()
	_, ok := b.handlers[req.Type]
	b.mu.Unlock()
	if !ok {
		return Response{}, fmt.Errorf("%w for %q", ErrNoReceiver, req.Type)
	}
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}

	reply := make(chan Response, 1)
	b.mu.Lock()
	b.pending[req.ID] = reply
	b.mu.Unlock()
	defer func() {
		b.mu.Lock()
		delete(b.pending, req.ID)
		b.mu.Unlock()
	}()

	var timeout <-chan time.Time
	if b.timeout > 0 {
		t := time.NewTimer(b.timeout)
		defer t.Stop()
		timeout = t.C
	}

	select {
	case b.inbox <- envelope{ctx: ctx, req: req}:
	case <-ctx.Done():
		return Response{}, ctx.Err()
	case <-timeout:
		return Response{}, ErrTimeout
	}

	select {
	case resp := <-reply:
		return resp, nil
	case <-ctx.Done():
		return Response{}, ctx.Err()
	case <-timeout:
		return Response{}, ErrTimeout
	}
}
