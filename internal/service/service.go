// Package service runs analysis cycles: fetch a subject, reduce its games to
// telemetry over the internal channel and publish the newest report.
package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/goserg/opponentanalyzer/internal/cache/mem"
	"github.com/goserg/opponentanalyzer/internal/channel"
	"github.com/goserg/opponentanalyzer/internal/domain"
	"github.com/goserg/opponentanalyzer/internal/metrics"
	"github.com/goserg/opponentanalyzer/internal/storage"
	"github.com/goserg/opponentanalyzer/internal/telemetry"
)

var ErrEmptySubject = errors.New("service: empty subject")

type Fetcher interface {
	Fetch(ctx context.Context, subject domain.Subject) (domain.FetchBundle, error)
}

type Requester interface {
	Send(ctx context.Context, req channel.Request) (channel.Response, error)
}

// Sink receives every published report. Publish is called in generation order
// and must not block for long.
type Sink interface {
	Publish(report domain.Report)
}

type SinkFunc func(domain.Report)

func (f SinkFunc) Publish(report domain.Report) {
	f(report)
}

type Analyzer struct {
	fetcher Fetcher
	channel Requester
	cache   *mem.Cache
	reports storage.ReportStorage
	prefs   storage.PreferenceStorage
	metrics *metrics.Metrics
	now     func() time.Time
	log     *logrus.Entry

	wg sync.WaitGroup

	mu         sync.Mutex
	generation uint64
	sessions   int
	latest     map[string]uint64
	sinks      []Sink
}

type Option func(*Analyzer)

func WithReports(s storage.ReportStorage) Option {
	return func(a *Analyzer) {
		a.reports = s
	}
}

func WithPreferences(s storage.PreferenceStorage) Option {
	return func(a *Analyzer) {
		a.prefs = s
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Analyzer) {
		a.metrics = m
	}
}

func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		a.now = now
	}
}

func WithSink(s Sink) Option {
	return func(a *Analyzer) {
		a.sinks = append(a.sinks, s)
	}
}

func New(fetcher Fetcher, requester Requester, cache *mem.Cache, l *logrus.Logger, opts ...Option) *Analyzer {
	a := &Analyzer{
		fetcher: fetcher,
		channel: requester,
		cache:   cache,
		now:     time.Now,
		log:     l.WithField("from", "service"),
		latest:  make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AddSink registers s for reports published from now on.
func (a *Analyzer) AddSink(s Sink) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sinks = append(a.sinks, s)
}

// Analyze runs one cycle for subject and returns its report. The report is
// published only if no newer lookup of the same subject has started in the
// meantime. A failed cycle still yields a report with sentinel statistics.
func (a *Analyzer) Analyze(ctx context.Context, subject domain.Subject) (domain.Report, error) {
	return a.analyze(ctx, subject, subjectScope(subject))
}

// Trigger starts Analyze in the background.
func (a *Analyzer) Trigger(ctx context.Context, subject domain.Subject) {
	a.trigger(ctx, subject, subjectScope(subject))
}

// subjectScope orders explicit lookups per subject, so a lookup of one
// player never supersedes a cycle for another.
func subjectScope(subject domain.Subject) string {
	return "subject/" + subject.Key()
}

func (a *Analyzer) trigger(ctx context.Context, subject domain.Subject, scope string) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		_, _ = a.analyze(ctx, subject, scope)
	}()
}

func (a *Analyzer) analyze(ctx context.Context, subject domain.Subject, scope string) (domain.Report, error) {
	if subject.Key() == "" {
		return domain.Report{}, ErrEmptySubject
	}
	gen := a.begin(scope)
	log := a.log.WithFields(logrus.Fields{
		"subject":    subject,
		"generation": gen,
		"scope":      scope,
	})
	log.Debug("cycle started")

	report, err := a.run(ctx, subject)
	report.Generation = gen
	if err != nil {
		report.Error = err.Error()
	}

	switch {
	case a.publish(report, scope):
		if err != nil {
			a.metrics.Cycle(metrics.CycleFailed)
			log.WithError(err).Warn("cycle failed")
		} else {
			a.metrics.Cycle(metrics.CyclePublished)
			log.WithFields(logrus.Fields{
				"precision":     report.Stats.Precision,
				"avg_move_time": report.Stats.AvgMoveTime,
			}).Info("report published")
		}
	default:
		a.metrics.Cycle(metrics.CycleStale)
		log.Debug("stale cycle discarded")
	}
	return report, err
}

// begin hands out the next generation and marks it the newest of scope.
func (a *Analyzer) begin(scope string) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.generation++
	a.latest[scope] = a.generation
	return a.generation
}

func (a *Analyzer) newScope() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sessions++
	return fmt.Sprintf("session/%d", a.sessions)
}

// Wait blocks until every triggered cycle has returned.
func (a *Analyzer) Wait() {
	a.wg.Wait()
}

// Cached returns the last published report for subject.
func (a *Analyzer) Cached(subject domain.Subject) (domain.Report, bool) {
	return a.cache.Get(subject)
}

func (a *Analyzer) Reports() []domain.Report {
	return a.cache.List()
}

// History lists stored summaries for subject, newest first.
func (a *Analyzer) History(ctx context.Context, subject domain.Subject, limit int) ([]domain.HistoryEntry, error) {
	if a.reports == nil {
		return []domain.HistoryEntry{}, nil
	}
	return a.reports.ListReports(ctx, subject, limit)
}

func (a *Analyzer) run(ctx context.Context, subject domain.Subject) (domain.Report, error) {
	bundle, err := a.fetcher.Fetch(ctx, subject)
	report := domain.Report{
		Subject:   subject,
		Profile:   bundle.Profile,
		Ratings:   bundle.Ratings,
		Stats:     domain.NoAggregate(),
		FetchedAt: a.now(),
	}
	if err != nil {
		return report, fmt.Errorf("fetch %s: %w", subject, err)
	}

	games := telemetry.Window(bundle.Games())
	resp, err := a.channel.Send(ctx, channel.Request{
		Type:     channel.TypeCalculateStats,
		Games:    games,
		Username: subject.String(),
	})
	if err != nil {
		a.metrics.Channel("error")
		return report, fmt.Errorf("calculate stats: %w", err)
	}
	a.metrics.Channel("ok")
	report.Stats = domain.Aggregate{
		AvgMoveTime:    resp.AvgMoveTime,
		Precision:      resp.Precision,
		MoveTimeGames:  resp.MoveTimeGames,
		PrecisionGames: resp.PrecisionGames,
	}
	return report, nil
}

// publish makes report visible if it belongs to the newest cycle started in
// scope and no newer report of the same subject is cached.
func (a *Analyzer) publish(report domain.Report, scope string) bool {
	a.mu.Lock()
	if report.Generation != a.latest[scope] {
		a.mu.Unlock()
		return false
	}
	if cached, ok := a.cache.Get(report.Subject); ok && cached.Generation > report.Generation {
		a.mu.Unlock()
		return false
	}
	a.cache.Put(report)
	sinks := slices.Clone(a.sinks)
	a.mu.Unlock()

	if a.reports != nil {
		// the cycle's own context may already be done
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.reports.AddReport(ctx, report); err != nil {
			a.log.WithError(err).Error("can't store report")
		}
		cancel()
	}
	for _, s := range sinks {
		s.Publish(report)
	}
	return true
}
