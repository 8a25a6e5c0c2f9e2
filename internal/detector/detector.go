// Package detector decides when a new opponent has appeared on the observed page.
package detector

import (
	"context"
	"strings"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sirupsen/logrus"

	"github.com/goserg/opponentanalyzer/internal/domain"
	"github.com/goserg/opponentanalyzer/internal/normalize"
)

// DefaultWindow is the quiescence window before candidates are resolved.
const DefaultWindow = 500 * time.Millisecond

// DefaultPlaceholder is shown by the page before the opponent is known.
const DefaultPlaceholder = "Opponent"

// Observation is one sighting of the two player names on the page.
// Known is the locally known player, if any.
type Observation struct {
	Candidates [2]string `json:"candidates"`
	Known      string    `json:"known,omitempty"`
}

type State int

const (
	Idle State = iota
	Tracking
)

func (s State) String() string {
	if s == Tracking {
		return "tracking"
	}
	return "idle"
}

// Timer schedules f after d; the returned func cancels it.
type Timer func(d time.Duration, f func()) (stop func() bool)

func realTimer(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

type Detector struct {
	window       time.Duration
	placeholders mapset.Set[string]
	known        string
	emit         func(domain.Subject)
	after        Timer
	log          *logrus.Entry

	mu      sync.Mutex
	state   State
	current domain.Subject
	latest  Observation
	seq     uint64
	stop    func() bool
	closed  bool
}

type Option func(*Detector)

func WithWindow(d time.Duration) Option {
	return func(det *Detector) {
		det.window = d
	}
}

// WithPlaceholders replaces the names that mean "not known yet".
func WithPlaceholders(names ...string) Option {
	return func(det *Detector) {
		det.placeholders = mapset.NewSet[string]()
		for _, n := range names {
			det.placeholders.Add(normalize.Name(n))
		}
	}
}

// WithKnown sets the fallback locally known player, used when an observation has none.
func WithKnown(name string) Option {
	return func(det *Detector) {
		det.known = name
	}
}

func WithTimer(t Timer) Option {
	return func(det *Detector) {
		det.after = t
	}
}

// New builds an idle detector. emit is called, outside the detector's lock,
// each time a new subject starts being tracked.
func New(emit func(domain.Subject), l *logrus.Logger, opts ...Option) *Detector {
	d := &Detector{
		window:       DefaultWindow,
		placeholders: mapset.NewSet[string](normalize.Name(DefaultPlaceholder)),
		emit:         emit,
		after:        realTimer,
		log:          l.WithField("from", "detector"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Observe records an observation and restarts the quiescence window.
// Only the latest observation of a burst is resolved.
func (d *Detector) Observe(o Observation) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.latest = o
	d.seq++
	if d.stop != nil {
		d.stop()
	}
	seq := d.seq
	d.stop = d.after(d.window, func() {
		d.fire(seq)
	})
}

// Run feeds observations from a subscription until ctx is done or the source closes.
func (d *Detector) Run(ctx context.Context, observations <-chan Observation) {
	for {
		select {
		case <-ctx.Done():
			return
		case o, ok := <-observations:
			if !ok {
				return
			}
			d.Observe(o)
		}
	}
}

func (d *Detector) fire(seq uint64) {
	d.mu.Lock()
	if d.closed || seq != d.seq {
		d.mu.Unlock()
		return
	}
	d.stop = nil
	subject, ok := d.resolve(d.latest)
	if !ok {
		d.mu.Unlock()
		return
	}
	if d.state == Tracking && d.current.Equal(subject) {
		d.mu.Unlock()
		return
	}
	d.state = Tracking
	d.current = subject
	d.mu.Unlock()

	d.log.WithField("subject", subject).Info("new subject")
	d.emit(subject)
}

// resolve picks the candidate that is not the known player.
func (d *Detector) resolve(o Observation) (domain.Subject, bool) {
	a := strings.TrimSpace(o.Candidates[0])
	b := strings.TrimSpace(o.Candidates[1])
	if a == "" || b == "" || d.placeholders.Contains(normalize.Name(a)) || d.placeholders.Contains(normalize.Name(b)) {
		d.log.WithField("candidates", o.Candidates).Trace("discarding incomplete candidates")
		return "", false
	}
	known := strings.TrimSpace(o.Known)
	if known == "" {
		known = d.known
	}
	switch {
	case known != "" && normalize.Equal(a, known) && normalize.Equal(b, known):
		return "", false
	case known != "" && normalize.Equal(a, known):
		return domain.Subject(b), true
	default:
		return domain.Subject(a), true
	}
}

// Current returns the tracked subject.
func (d *Detector) Current() (domain.Subject, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current, d.state == Tracking
}

func (d *Detector) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Reset returns to Idle and drops any pending observation.
func (d *Detector) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelPending()
	d.state = Idle
	d.current = ""
}

// Stop cancels the pending window; later observations are ignored.
func (d *Detector) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelPending()
	d.closed = true
}

func (d *Detector) cancelPending() {
	d.seq++
	if d.stop != nil {
		d.stop()
		d.stop = nil
	}
}
