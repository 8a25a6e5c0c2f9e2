// Package report renders analysis reports as plain text.
package report

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/goserg/opponentanalyzer/internal/domain"
)

const (
	minute = 60
	hour   = 60 * minute
	day    = 24 * hour
	month  = 30 * day
	year   = 365 * day
)

// JoinDate renders a unix join timestamp as "Joined N days ago - YYYY-MM-DD".
func JoinDate(joined int64, now time.Time) string {
	if joined == 0 {
		return domain.NoData
	}
	t := time.Unix(joined, 0).UTC()
	days := int64(math.Floor(now.Sub(t).Hours() / 24))
	return fmt.Sprintf("Joined %d days ago - %s", days, t.Format(time.DateOnly))
}

// LastOnline renders a unix timestamp relative to now.
func LastOnline(ts int64, now time.Time) string {
	if ts == 0 {
		return domain.NoData
	}
	diff := now.Unix() - ts
	switch {
	case diff < minute:
		return "Just now"
	case diff < hour:
		return fmt.Sprintf("%dm ago", diff/minute)
	case diff < day:
		return fmt.Sprintf("%dh ago", diff/hour)
	case diff < month:
		return fmt.Sprintf("%dd ago", diff/day)
	case diff < year:
		return fmt.Sprintf("%dmo ago", diff/month)
	default:
		return fmt.Sprintf("%dy ago", diff/year)
	}
}

func Precision(s domain.Stat) string {
	if !s.Valid {
		return domain.NoData
	}
	return fmt.Sprintf("%.0f%%", s.Value)
}

// MoveTime renders seconds per move rounded to whole seconds.
func MoveTime(s domain.Stat) string {
	if !s.Valid {
		return domain.NoData
	}
	return fmt.Sprintf("%.0fs", math.Round(s.Value))
}

func Count(n int) string {
	if n == 0 {
		return domain.NoData
	}
	return humanize.Comma(int64(n))
}

func Rating(m *domain.ModeStats) string {
	r := m.Rating()
	if r == 0 {
		return domain.NoData
	}
	return humanize.Comma(int64(r))
}

// Record renders win/draw/loss as "W/D/L".
func Record(m *domain.ModeStats) string {
	r := m.Results()
	return fmt.Sprintf("%d/%d/%d", r.Win, r.Draw, r.Loss)
}

func Country(p domain.Profile) string {
	code := p.CountryCode()
	if code == "" {
		return domain.NoData
	}
	return code
}

func orNoData(s string) string {
	if s == "" {
		return domain.NoData
	}
	return s
}
