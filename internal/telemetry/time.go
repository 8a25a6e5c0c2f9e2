// Package telemetry reduces archived games to move time and precision statistics.
package telemetry

import (
	"github.com/goserg/opponentanalyzer/internal/domain"
	"github.com/goserg/opponentanalyzer/internal/pgn"
)

// Contribution is what one game adds to the move time statistic.
type Contribution struct {
	ElapsedSeconds float64
	MoveCount      int
}

// EstimateTime derives the elapsed clock time and the subject's move count for one game.
// The move count is the subject's own plies, ceil(plies/2), for every game.
// Games without two clock samples, without moves, or with a clock that went up
// contribute nothing.
func EstimateTime(game domain.Game) (Contribution, bool) {
	if game.PGN == "" {
		return Contribution{}, false
	}
	clocks := pgn.ParseClocks(game.PGN)
	if len(clocks) < 2 {
		return Contribution{}, false
	}
	elapsed := clocks[0].Total() - clocks[len(clocks)-1].Total()
	if elapsed <= 0 {
		return Contribution{}, false
	}
	plies := len(pgn.Moves(game.PGN))
	moves := (plies + 1) / 2
	if moves <= 0 {
		return Contribution{}, false
	}
	return Contribution{ElapsedSeconds: elapsed, MoveCount: moves}, true
}
