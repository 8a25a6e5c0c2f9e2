package fetch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goserg/opponentanalyzer/internal/chesscom"
	"github.com/goserg/opponentanalyzer/internal/domain"
)

type fakeSource struct {
	mu       sync.Mutex
	months   []domain.Month
	profile  error
	games    map[domain.Month][]domain.Game
	inflight atomic.Int32
	peak     atomic.Int32
	delay    time.Duration
}

func (f *fakeSource) enter() func() {
	n := f.inflight.Add(1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(f.delay)
	return func() { f.inflight.Add(-1) }
}

func (f *fakeSource) Profile(_ context.Context, username string) (domain.Profile, error) {
	defer f.enter()()
	if f.profile != nil {
		return domain.Profile{}, f.profile
	}
	return domain.Profile{Username: username}, nil
}

func (f *fakeSource) Ratings(_ context.Context, _ string) (domain.Ratings, error) {
	defer f.enter()()
	return domain.Ratings{Blitz: &domain.ModeStats{Last: &domain.RatingPoint{Rating: 1500}}}, nil
}

func (f *fakeSource) MonthlyGames(_ context.Context, _ string, month domain.Month) ([]domain.Game, error) {
	defer f.enter()()
	f.mu.Lock()
	f.months = append(f.months, month)
	f.mu.Unlock()
	return f.games[month], nil
}

func TestOrchestrator_Fetch(t *testing.T) {
	jan := domain.Month{Year: 2024, Month: time.January}
	dec := domain.Month{Year: 2023, Month: time.December}
	src := &fakeSource{
		delay: 20 * time.Millisecond,
		games: map[domain.Month][]domain.Game{
			jan: {{URL: "jan-1"}, {URL: "jan-2"}},
			dec: {{URL: "dec-1"}},
		},
	}
	l, _ := test.NewNullLogger()
	o := New(src, l, WithClock(func() time.Time {
		return time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)
	}))

	bundle, err := o.Fetch(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", bundle.Profile.Username)
	assert.Equal(t, 1500, bundle.Ratings.Blitz.Rating())
	assert.ElementsMatch(t, []domain.Month{jan, dec}, src.months)

	games := bundle.Games()
	require.Len(t, games, 3)
	assert.Equal(t, []string{"jan-1", "jan-2", "dec-1"}, []string{games[0].URL, games[1].URL, games[2].URL})
	assert.Equal(t, int32(4), src.peak.Load(), "all four requests should be in flight together")
}

func TestOrchestrator_FailureDoesNotStopSiblings(t *testing.T) {
	src := &fakeSource{profile: errors.New("boom")}
	l, _ := test.NewNullLogger()
	o := New(src, l)

	bundle, err := o.Fetch(context.Background(), "bob")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profile")
	assert.Equal(t, 1500, bundle.Ratings.Blitz.Rating())
	assert.Len(t, src.months, 2)
	assert.NotNil(t, bundle.CurrentMonthGames)
	assert.NotNil(t, bundle.PreviousMonthGames)
}

type scripted struct {
	codes []int
	mu    sync.Mutex
	calls map[string]int
}

func (s *scripted) Get(_ context.Context, url string) (int, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = make(map[string]int)
	}
	n := s.calls[url]
	s.calls[url]++
	if n < len(s.codes) {
		return s.codes[n], nil, nil
	}
	return 200, []byte(`{"games":[]}`), nil
}

func TestOrchestrator_WithClientRetries(t *testing.T) {
	tr := &scripted{codes: []int{429, 429}}
	l, _ := test.NewNullLogger()
	client := chesscom.New(chesscom.Config{MaxAttempts: 3, Backoff: time.Millisecond}, tr, l, nil)

	_, err := New(client, l).Fetch(context.Background(), "bob")
	require.NoError(t, err)
	for url, n := range tr.calls {
		assert.LessOrEqual(t, n, 3, url)
		assert.Equal(t, 3, n, url)
	}
	assert.Len(t, tr.calls, 4)
}

func TestOrchestrator_WithClientExhausted(t *testing.T) {
	tr := &scripted{codes: []int{429, 429, 429}}
	l, _ := test.NewNullLogger()
	client := chesscom.New(chesscom.Config{MaxAttempts: 3, Backoff: time.Millisecond}, tr, l, nil)

	_, err := New(client, l).Fetch(context.Background(), "bob")
	var se *chesscom.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 429, se.Code)
	assert.Len(t, tr.calls, 4)
}
