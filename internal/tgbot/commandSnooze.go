package tgbot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goserg/opponentanalyzer/internal/domain"
)

const defaultSnooze = time.Hour

type SnoozeCommand struct {
	snoozer Snoozer
}

func (c *SnoozeCommand) Run(ctx context.Context, _ int64, args string) (string, error) {
	d := defaultSnooze
	if args = strings.TrimSpace(args); args != "" {
		hours, err := strconv.ParseFloat(args, 64)
		if err != nil || hours <= 0 || hours > domain.MaxSnoozeHours {
			return "", fmt.Errorf("usage: /snooze hours, at most %d", domain.MaxSnoozeHours)
		}
		d = time.Duration(hours * float64(time.Hour))
	}
	until, err := c.snoozer.Snooze(ctx, d)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Automatic analysis snoozed until %s", until.Format(time.DateTime)), nil
}

func (c *SnoozeCommand) Help() string {
	return "Pause automatic analysis: /snooze hours (default 1)"
}

type UnsnoozeCommand struct {
	snoozer Snoozer
}

func (c *UnsnoozeCommand) Run(ctx context.Context, _ int64, _ string) (string, error) {
	if err := c.snoozer.Unsnooze(ctx); err != nil {
		return "", err
	}
	return "Automatic analysis resumed", nil
}

func (c *UnsnoozeCommand) Help() string {
	return "Resume automatic analysis"
}
