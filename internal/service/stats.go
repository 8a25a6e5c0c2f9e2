package service

import (
	"context"

	"github.com/goserg/opponentanalyzer/internal/channel"
	"github.com/goserg/opponentanalyzer/internal/domain"
	"github.com/goserg/opponentanalyzer/internal/telemetry"
)

// CalculateStats answers channel.TypeCalculateStats requests.
// Average move time is rounded to whole seconds.
func CalculateStats(_ context.Context, req channel.Request) (channel.Response, error) {
	agg := telemetry.Aggregate(telemetry.Window(req.Games), domain.Subject(req.Username))
	return channel.Response{
		ID:             req.ID,
		Precision:      agg.Precision,
		AvgMoveTime:    agg.AvgMoveTime.Round(0),
		PrecisionGames: agg.PrecisionGames,
		MoveTimeGames:  agg.MoveTimeGames,
	}, nil
}

// Register installs the analyzer's handlers on bus.
func Register(bus *channel.Bus) {
	bus.Handle(channel.TypeCalculateStats, CalculateStats)
}
