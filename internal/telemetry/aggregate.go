package telemetry

import (
	"math"

	"github.com/goserg/opponentanalyzer/internal/domain"
)

// MaxGames is the number of most recent games considered.
const MaxGames = 20

// Window caps the games to the first MaxGames records.
func Window(games []domain.Game) []domain.Game {
	if len(games) > MaxGames {
		return games[:MaxGames]
	}
	return games
}

// Aggregate folds the capped window into the two summary statistics.
// The statistics are independent: a game may count toward one and not the other.
func Aggregate(games []domain.Game, subject domain.Subject) domain.Aggregate {
	var (
		agg          domain.Aggregate
		precisionSum float64
	)
	for _, game := range Window(games) {
		if c, ok := EstimateTime(game); ok {
			agg.TotalMoveTime += c.ElapsedSeconds
			agg.TotalMoveCount += c.MoveCount
			agg.MoveTimeGames++
		}
		if p, ok := Precision(game, subject); ok {
			precisionSum += p
			agg.PrecisionGames++
		}
	}
	if agg.TotalMoveCount > 0 {
		agg.AvgMoveTime = domain.StatOf(agg.TotalMoveTime / float64(agg.TotalMoveCount))
	}
	if agg.PrecisionGames > 0 {
		agg.Precision = domain.StatOf(math.Round(precisionSum / float64(agg.PrecisionGames)))
	}
	return agg
}
