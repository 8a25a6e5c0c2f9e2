// Package fetch gathers everything one analysis cycle needs about a subject.
package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/goserg/opponentanalyzer/internal/domain"
)

// Source is the player API.
type Source interface {
	Profile(ctx context.Context, username string) (domain.Profile, error)
	Ratings(ctx context.Context, username string) (domain.Ratings, error)
	MonthlyGames(ctx context.Context, username string, month domain.Month) ([]domain.Game, error)
}

type Orchestrator struct {
	source Source
	now    func() time.Time
	log    *logrus.Entry
}

type Option func(*Orchestrator)

// WithClock overrides the wall clock used to pick the archive months.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

func New(source Source, l *logrus.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		source: source,
		now:    time.Now,
		log:    l.WithField("from", "fetch"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Fetch requests profile, ratings, current and previous month games concurrently.
// It returns once all four requests have settled; a failing request does not cancel
// the others. The returned error is the first failure, the bundle holds whatever
// succeeded.
func (o *Orchestrator) Fetch(ctx context.Context, subject domain.Subject) (domain.FetchBundle, error) {
	current := domain.MonthOf(o.now())
	previous := current.Previous()
	username := subject.String()
	log := o.log.WithFields(logrus.Fields{
		"subject":  username,
		"current":  current.Path(),
		"previous": previous.Path(),
	})

	bundle := domain.FetchBundle{Subject: subject}
	var g errgroup.Group
	g.Go(func() error {
		p, err := o.source.Profile(ctx, username)
		if err != nil {
			return fmt.Errorf("profile: %w", err)
		}
		bundle.Profile = p
		return nil
	})
	g.Go(func() error {
		r, err := o.source.Ratings(ctx, username)
		if err != nil {
			return fmt.Errorf("ratings: %w", err)
		}
		bundle.Ratings = r
		return nil
	})
	g.Go(func() error {
		games, err := o.source.MonthlyGames(ctx, username, current)
		if err != nil {
			return fmt.Errorf("games %s: %w", current, err)
		}
		bundle.CurrentMonthGames = games
		return nil
	})
	g.Go(func() error {
		games, err := o.source.MonthlyGames(ctx, username, previous)
		if err != nil {
			return fmt.Errorf("games %s: %w", previous, err)
		}
		bundle.PreviousMonthGames = games
		return nil
	})
	err := g.Wait()
	if bundle.CurrentMonthGames == nil {
		bundle.CurrentMonthGames = []domain.Game{}
	}
	if bundle.PreviousMonthGames == nil {
		bundle.PreviousMonthGames = []domain.Game{}
	}
	if err != nil {
		log.WithError(err).Error("fetch failed")
		return bundle, err
	}
	log.WithFields(logrus.Fields{
		"current_games":  len(bundle.CurrentMonthGames),
		"previous_games": len(bundle.PreviousMonthGames),
	}).Debug("fetched")
	return bundle, nil
}
