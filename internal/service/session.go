package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/goserg/opponentanalyzer/internal/detector"
	"github.com/goserg/opponentanalyzer/internal/domain"
	"github.com/goserg/opponentanalyzer/internal/metrics"
)

var ErrSessionClosed = errors.New("service: session closed")

// Session owns the state of one observed page: the detector holding the
// current subject, and the preferences deciding whether detected subjects
// are analyzed.
type Session struct {
	analyzer *Analyzer
	detector *detector.Detector
	scope    string
	log      *logrus.Entry

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	prefs  domain.Preferences
	closed bool
}

// Session starts a session whose detected subjects trigger cycles until
// Close or until ctx is done. A newer detected subject supersedes cycles still
// running for an older one; explicit lookups do not. Preferences are loaded from the configured storage.
func (a *Analyzer) Session(ctx context.Context, opts ...detector.Option) (*Session, error) {
	var prefs domain.Preferences
	if a.prefs != nil {
		var err error
		prefs, err = a.prefs.GetPreferences(ctx)
		if err != nil {
			return nil, err
		}
	}
	ctx, cancel := context.WithCancel(ctx)
	scope := a.newScope()
	s := &Session{
		analyzer: a,
		scope:    scope,
		log:      a.log.WithField("scope", scope),
		ctx:      ctx,
		cancel:   cancel,
		prefs:    prefs,
	}
	s.detector = detector.New(s.onSubject, a.log.Logger, opts...)
	return s, nil
}

func (s *Session) onSubject(subject domain.Subject) {
	if s.Suppressed() {
		s.analyzer.metrics.Cycle(metrics.CycleSuppressed)
		s.log.WithField("subject", subject).Info("analysis snoozed")
		return
	}
	s.analyzer.trigger(s.ctx, subject, s.scope)
}

// Observe feeds one page observation to the detector.
func (s *Session) Observe(o detector.Observation) {
	s.detector.Observe(o)
}

// Run feeds observations from a subscription until the session ends or the source closes.
func (s *Session) Run(observations <-chan detector.Observation) {
	s.detector.Run(s.ctx, observations)
}

// Current returns the tracked subject.
func (s *Session) Current() (domain.Subject, bool) {
	return s.detector.Current()
}

func (s *Session) Preferences() domain.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

// Suppressed reports whether detected subjects are currently ignored.
func (s *Session) Suppressed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs.Suppressed(s.analyzer.now())
}

// Snooze suppresses automatic analysis for d and returns the end of the window.
func (s *Session) Snooze(ctx context.Context, d time.Duration) (time.Time, error) {
	until := s.analyzer.now().Add(d)
	err := s.update(ctx, func(p *domain.Preferences) {
		p.SnoozeUntil = until
	})
	return until, err
}

func (s *Session) Unsnooze(ctx context.Context) error {
	return s.update(ctx, func(p *domain.Preferences) {
		p.SnoozeUntil = time.Time{}
	})
}

// SetPreferences replaces all preferences.
func (s *Session) SetPreferences(ctx context.Context, prefs domain.Preferences) error {
	return s.update(ctx, func(p *domain.Preferences) {
		*p = prefs
	})
}

func (s *Session) update(ctx context.Context, f func(*domain.Preferences)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	next := s.prefs
	f(&next)
	if s.analyzer.prefs != nil {
		if err := s.analyzer.prefs.SavePreferences(ctx, next); err != nil {
			return err
		}
	}
	s.prefs = next
	return nil
}

// Close stops the detector and abandons in-flight cycles of this session.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.detector.Stop()
	s.cancel()
}
