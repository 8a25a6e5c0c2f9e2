package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/goserg/opponentanalyzer/internal/domain"
)

var now = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func TestJoinDate(t *testing.T) {
	tests := []struct {
		name   string
		joined int64
		want   string
	}{
		{name: "unknown", joined: 0, want: "-"},
		{name: "ten days", joined: now.Add(-10*24*time.Hour - time.Hour).Unix(), want: "Joined 10 days ago - 2024-03-05"},
		{name: "today", joined: now.Add(-time.Hour).Unix(), want: "Joined 0 days ago - 2024-03-15"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, JoinDate(tt.joined, now))
		})
	}
}

func TestLastOnline(t *testing.T) {
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{ago: 30 * time.Second, want: "Just now"},
		{ago: 5 * time.Minute, want: "5m ago"},
		{ago: 3 * time.Hour, want: "3h ago"},
		{ago: 4 * 24 * time.Hour, want: "4d ago"},
		{ago: 65 * 24 * time.Hour, want: "2mo ago"},
		{ago: 800 * 24 * time.Hour, want: "2y ago"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, LastOnline(now.Add(-tt.ago).Unix(), now))
		})
	}
	assert.Equal(t, "-", LastOnline(0, now))
}

func TestStats(t *testing.T) {
	assert.Equal(t, "75%", Precision(domain.StatOf(75)))
	assert.Equal(t, "-", Precision(domain.Stat{}))
	assert.Equal(t, "12s", MoveTime(domain.StatOf(11.6)))
	assert.Equal(t, "-", MoveTime(domain.Stat{}))
	assert.Equal(t, "1,234", Count(1234))
	assert.Equal(t, "-", Count(0))
}

func TestRatings(t *testing.T) {
	blitz := &domain.ModeStats{
		Last:   &domain.RatingPoint{Rating: 1500},
		Record: &domain.Record{Win: 10, Draw: 2, Loss: 3},
	}
	assert.Equal(t, "1,500", Rating(blitz))
	assert.Equal(t, "10/2/3", Record(blitz))
	assert.Equal(t, "-", Rating(nil))
	assert.Equal(t, "0/0/0", Record(nil))
}

func TestText(t *testing.T) {
	r := domain.Report{
		Subject: "bob",
		Profile: domain.Profile{
			Username: "bob",
			Country:  "https://api.chess.com/pub/country/US",
			Joined:   1600000000,
		},
		Ratings: domain.Ratings{Blitz: &domain.ModeStats{Last: &domain.RatingPoint{Rating: 1500}}},
		Stats:   domain.Aggregate{Precision: domain.StatOf(75), AvgMoveTime: domain.StatOf(18)},
	}
	text := Text(r, now)
	assert.Contains(t, text, "Player: bob\n")
	assert.Contains(t, text, "Country: us\n")
	assert.Contains(t, text, "Blitz: 1,500 (0/0/0)\n")
	assert.Contains(t, text, "Rapid: - (0/0/0)\n")
	assert.Contains(t, text, "Precision: 75%\n")
	assert.Contains(t, text, "Avg move time: 18s\n")
	assert.NotContains(t, text, "Error")

	r.Error = "fetch bob: boom"
	assert.Contains(t, Text(r, now), "Error: fetch bob: boom\n")
	assert.Contains(t, Table(r, now), "75%")
}

func TestHistory(t *testing.T) {
	out := History([]domain.HistoryEntry{
		{Subject: "bob", Precision: domain.StatOf(75), AvgMoveTime: domain.StatOf(18), PrecisionGames: 2, MoveTimeGames: 2, FetchedAt: now},
		{Subject: "bob", FetchedAt: now.Add(-time.Hour)},
	})
	assert.Contains(t, out, "75%")
	assert.Contains(t, out, "18s")
	assert.Contains(t, out, "2/2")
}
