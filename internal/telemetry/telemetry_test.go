package telemetry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goserg/opponentanalyzer/internal/domain"
)

func game(pgn, white, black string, acc *domain.Accuracies) domain.Game {
	return domain.Game{
		PGN:         pgn,
		White:       &domain.Side{Username: white},
		Black:       &domain.Side{Username: black},
		Accuracies:  acc,
		TimeControl: "300",
	}
}

const threePlies = "1. e4 {[%clk 5:00]} 1... e5 2. Nf3 {[%clk 4:30]} 1-0"

func TestEstimateTime(t *testing.T) {
	tests := []struct {
		name   string
		pgn    string
		want   Contribution
		wantOK bool
	}{
		{
			name:   "no pgn",
			pgn:    "",
			wantOK: false,
		},
		{
			name:   "single clock sample",
			pgn:    "1. e4 {[%clk 5:00]} e5 2. Nf3",
			wantOK: false,
		},
		{
			name:   "two samples",
			pgn:    threePlies,
			want:   Contribution{ElapsedSeconds: 30, MoveCount: 2},
			wantOK: true,
		},
		{
			name:   "hour dialect",
			pgn:    "1. d4 {[%clk 0:10:00]} 1... d5 {[%clk 0:09:58]} 2. c4 {[%clk 0:09:40]} 2... e6 {[%clk 0:09:30]}",
			want:   Contribution{ElapsedSeconds: 30, MoveCount: 2},
			wantOK: true,
		},
		{
			name:   "clock went up",
			pgn:    "1. e4 {[%clk 4:30]} 1... e5 {[%clk 5:00]}",
			wantOK: false,
		},
		{
			name:   "equal clocks",
			pgn:    "1. e4 {[%clk 5:00]} 1... e5 {[%clk 5:00]}",
			wantOK: false,
		},
		{
			name:   "clocks without moves",
			pgn:    "{[%clk 5:00]} {[%clk 4:00]}",
			wantOK: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := EstimateTime(domain.Game{PGN: tt.pgn})
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.InDelta(t, tt.want.ElapsedSeconds, got.ElapsedSeconds, 1e-9)
				assert.Equal(t, tt.want.MoveCount, got.MoveCount)
			}
		})
	}
}

func TestPrecision(t *testing.T) {
	acc := &domain.Accuracies{White: 90.0, Black: 80.0}
	tests := []struct {
		name    string
		game    domain.Game
		subject domain.Subject
		want    float64
		wantOK  bool
	}{
		{name: "white", game: game("", "Bob", "alice", acc), subject: "bob", want: 90, wantOK: true},
		{name: "black", game: game("", "alice", "bob", acc), subject: "BOB", want: 80, wantOK: true},
		{name: "no accuracies", game: game("", "alice", "bob", nil), subject: "bob"},
		{name: "no white", game: domain.Game{Black: &domain.Side{Username: "bob"}, Accuracies: acc}, subject: "bob"},
		{name: "no black", game: domain.Game{White: &domain.Side{Username: "bob"}, Accuracies: acc}, subject: "bob"},
		{name: "nan", game: game("", "bob", "alice", &domain.Accuracies{White: math.NaN()}), subject: "bob"},
		{name: "string", game: game("", "bob", "alice", &domain.Accuracies{White: "90"}), subject: "bob"},
		{name: "missing side value", game: game("", "bob", "alice", &domain.Accuracies{Black: 70.0}), subject: "bob"},
		{name: "integer", game: game("", "bob", "alice", &domain.Accuracies{White: 77}), subject: "bob", want: 77, wantOK: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Precision(tt.game, tt.subject)
			require.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestAggregate_Empty(t *testing.T) {
	agg := Aggregate(nil, "bob")
	assert.False(t, agg.AvgMoveTime.Valid)
	assert.False(t, agg.Precision.Valid)
	assert.Equal(t, "-", agg.AvgMoveTime.String())
	assert.Equal(t, "-", agg.Precision.String())
}

func TestAggregate_SingleGameRoundTrip(t *testing.T) {
	agg := Aggregate([]domain.Game{game(threePlies, "bob", "alice", nil)}, "bob")
	require.True(t, agg.AvgMoveTime.Valid)
	assert.InDelta(t, 30.0/2, agg.AvgMoveTime.Value, 1e-9)
	assert.Equal(t, 1, agg.MoveTimeGames)
	assert.False(t, agg.Precision.Valid)
}

func TestAggregate_IndependentStatistics(t *testing.T) {
	games := []domain.Game{
		game("", "bob", "alice", &domain.Accuracies{White: 60.0, Black: 50.0}),
		game(threePlies, "bob", "alice", nil),
	}
	agg := Aggregate(games, "bob")
	assert.Equal(t, 1, agg.MoveTimeGames)
	assert.Equal(t, 1, agg.PrecisionGames)
	assert.Equal(t, domain.StatOf(60), agg.Precision)
}

func TestAggregate_Scenario(t *testing.T) {
	first := "1. e4 {[%clk 0:05:00]} 1... e5 {[%clk 0:04:55]} 2. Nf3 {[%clk 0:04:50]} 2... Nc6 {[%clk 0:04:30]} 0-1"
	second := "1. d4 {[%clk 0:03:00]} 1... d5 {[%clk 0:02:58]} 2. c4 {[%clk 0:02:50]} 2... e6 {[%clk 0:02:45]} 3. Nc3 {[%clk 0:02:40]} 0-1"
	games := []domain.Game{
		game(first, "alice", "bob", &domain.Accuracies{White: 90.0, Black: 80.0}),
		game(second, "carol", "bob", &domain.Accuracies{White: 85.0, Black: 70.0}),
	}
	agg := Aggregate(games, "bob")

	assert.Equal(t, domain.StatOf(75), agg.Precision)
	// 30s over 2 own moves plus 20s over 3 own moves.
	require.True(t, agg.AvgMoveTime.Valid)
	assert.InDelta(t, 50.0/5, agg.AvgMoveTime.Value, 1e-9)
	assert.Equal(t, 2, agg.MoveTimeGames)
}

func TestAggregate_Cap(t *testing.T) {
	var games []domain.Game
	for i := 0; i < MaxGames; i++ {
		games = append(games, game(threePlies, "bob", "alice", &domain.Accuracies{White: 50.0, Black: 10.0}))
	}
	base := Aggregate(games, "bob")

	absurd := "1. e4 {[%clk 999:00]} 1... e5 {[%clk 0:01]}"
	for i := 0; i < 5; i++ {
		games = append(games, game(absurd, "bob", "alice", &domain.Accuracies{White: 1e9, Black: -1e9}))
	}
	capped := Aggregate(games, "bob")

	assert.Equal(t, base, capped)
	assert.Equal(t, MaxGames, capped.PrecisionGames)
	assert.Equal(t, domain.StatOf(50), capped.Precision)
	assert.Len(t, Window(games), MaxGames)
}

func TestAggregate_OrderIndependentPrecision(t *testing.T) {
	values := []float64{91.3, 77.7, 64.2, 88.8, 55.5}
	var games []domain.Game
	for _, v := range values {
		games = append(games, game("", "bob", "x", &domain.Accuracies{White: v, Black: 0.0}))
	}
	want := Aggregate(games, "bob").Precision

	reversed := make([]domain.Game, len(games))
	for i := range games {
		reversed[len(games)-1-i] = games[i]
	}
	rotated := append(append([]domain.Game{}, games[2:]...), games[:2]...)

	assert.Equal(t, want, Aggregate(reversed, "bob").Precision)
	assert.Equal(t, want, Aggregate(rotated, "bob").Precision)
}

func TestAggregate_Idempotent(t *testing.T) {
	games := []domain.Game{
		game(threePlies, "bob", "alice", &domain.Accuracies{White: 66.6, Black: 10.0}),
		game("1. e4 {[%clk 3:00]} 1... e5 {[%clk 2:51.3]}", "alice", "bob", &domain.Accuracies{White: 1.0, Black: 99.9}),
	}
	first := Aggregate(games, "bob")
	second := Aggregate(games, "bob")
	assert.Equal(t, math.Float64bits(first.AvgMoveTime.Value), math.Float64bits(second.AvgMoveTime.Value))
	assert.Equal(t, first, second)
}
