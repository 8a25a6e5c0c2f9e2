package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goserg/opponentanalyzer/internal/domain"
)

func newStorage(t *testing.T) *Storage {
	t.Helper()
	l, _ := test.NewNullLogger()
	s, err := New(l, filepath.Join(t.TempDir(), "analyzer.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStorage_Preferences(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()

	prefs, err := s.GetPreferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Preferences{}, prefs)

	until := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.SavePreferences(ctx, domain.Preferences{DarkMode: true, SnoozeUntil: until}))
	prefs, err = s.GetPreferences(ctx)
	require.NoError(t, err)
	assert.True(t, prefs.DarkMode)
	assert.True(t, until.Equal(prefs.SnoozeUntil))

	require.NoError(t, s.SavePreferences(ctx, domain.Preferences{}))
	prefs, err = s.GetPreferences(ctx)
	require.NoError(t, err)
	assert.False(t, prefs.DarkMode)
	assert.True(t, prefs.SnoozeUntil.IsZero())
}

func TestStorage_Reports(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	reports := []domain.Report{
		{Subject: "Bob", FetchedAt: base, Stats: domain.Aggregate{
			AvgMoveTime: domain.StatOf(12.5), Precision: domain.StatOf(75), MoveTimeGames: 2, PrecisionGames: 2,
		}},
		{Subject: "alice", FetchedAt: base.Add(time.Minute), Stats: domain.NoAggregate()},
		{Subject: "bob", FetchedAt: base.Add(2 * time.Minute), Stats: domain.NoAggregate()},
	}
	for _, r := range reports {
		require.NoError(t, s.AddReport(ctx, r))
	}

	entries, err := s.ListReports(ctx, "BOB", 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.Subject("bob"), entries[0].Subject)
	assert.False(t, entries[0].AvgMoveTime.Valid)
	assert.False(t, entries[0].Precision.Valid)
	assert.Equal(t, domain.Subject("Bob"), entries[1].Subject)
	assert.Equal(t, domain.StatOf(12.5), entries[1].AvgMoveTime)
	assert.Equal(t, domain.StatOf(75), entries[1].Precision)
	assert.Equal(t, 2, entries[1].MoveTimeGames)
	assert.True(t, base.Equal(entries[1].FetchedAt))

	entries, err = s.ListReports(ctx, "bob", 1)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	entries, err = s.ListReports(ctx, "nobody", 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStorage_ReopenKeepsData(t *testing.T) {
	l, _ := test.NewNullLogger()
	file := filepath.Join(t.TempDir(), "analyzer.sqlite")
	s, err := New(l, file)
	require.NoError(t, err)
	require.NoError(t, s.SavePreferences(context.Background(), domain.Preferences{DarkMode: true}))
	require.NoError(t, s.Close())

	s, err = New(l, file)
	require.NoError(t, err)
	defer s.Close()
	prefs, err := s.GetPreferences(context.Background())
	require.NoError(t, err)
	assert.True(t, prefs.DarkMode)
}
