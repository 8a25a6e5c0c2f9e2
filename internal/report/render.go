package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/goserg/opponentanalyzer/internal/domain"
)

type line struct {
	label string
	value string
}

func lines(r domain.Report, now time.Time) []line {
	p := r.Profile
	return []line{
		{"Player", orNoData(p.Username)},
		{"Country", Country(p)},
		{"Joined", JoinDate(p.Joined, now)},
		{"Last online", LastOnline(p.LastOnline, now)},
		{"Followers", Count(p.Followers)},
		{"League", orNoData(p.League)},
		{"Views", Count(p.ViewCount())},
		{"Blitz", Rating(r.Ratings.Blitz) + " (" + Record(r.Ratings.Blitz) + ")"},
		{"Rapid", Rating(r.Ratings.Rapid) + " (" + Record(r.Ratings.Rapid) + ")"},
		{"Bullet", Rating(r.Ratings.Bullet) + " (" + Record(r.Ratings.Bullet) + ")"},
		{"Precision", Precision(r.Stats.Precision)},
		{"Avg move time", MoveTime(r.Stats.AvgMoveTime)},
	}
}

// Text renders r as "label: value" lines, for chat messages.
func Text(r domain.Report, now time.Time) string {
	var b strings.Builder
	for _, l := range lines(r, now) {
		fmt.Fprintf(&b, "%s: %s\n", l.label, l.value)
	}
	if r.Failed() {
		fmt.Fprintf(&b, "Error: %s\n", r.Error)
	}
	return b.String()
}

// Table renders r as a two column table for the terminal.
func Table(r domain.Report, now time.Time) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Field", "Value"})
	for _, l := range lines(r, now) {
		tbl.AppendRow(table.Row{l.label, l.value})
	}
	if r.Failed() {
		tbl.AppendFooter(table.Row{"Error", r.Error})
	}
	return tbl.Render()
}

// History renders stored entries newest first.
func History(entries []domain.HistoryEntry) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Fetched", "Subject", "Precision", "Avg move time", "Games"})
	for _, e := range entries {
		tbl.AppendRow(table.Row{
			humanize.Time(e.FetchedAt),
			e.Subject,
			Precision(e.Precision),
			MoveTime(e.AvgMoveTime),
			fmt.Sprintf("%d/%d", e.PrecisionGames, e.MoveTimeGames),
		})
	}
	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d", len(entries))})
	return tbl.Render()
}
