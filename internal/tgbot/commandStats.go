package tgbot

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goserg/opponentanalyzer/internal/domain"
	"github.com/goserg/opponentanalyzer/internal/report"
)

type StatsCommand struct {
	analyzer Analyzer
	now      func() time.Time
}

func (c *StatsCommand) Run(ctx context.Context, _ int64, args string) (string, error) {
	fields := strings.Fields(args)
	if len(fields) < 1 {
		return "", errors.New("usage: /stats username")
	}
	// a failed cycle still carries sentinel statistics worth showing
	r, _ := c.analyzer.Analyze(ctx, domain.Subject(fields[0]))
	return report.Text(r, c.now()), nil
}

func (c *StatsCommand) Help() string {
	return "Precision and average move time of a player: /stats username"
}
