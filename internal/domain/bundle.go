package domain

import (
	"fmt"
	"time"
)

// Month identifies one monthly games archive.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the archive month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// Previous returns the month before m, rolling over to December of the prior year.
func (m Month) Previous() Month {
	if m.Month == time.January {
		return Month{Year: m.Year - 1, Month: time.December}
	}
	return Month{Year: m.Year, Month: m.Month - 1}
}

// Path is the YYYY/MM archive path segment.
func (m Month) Path() string {
	return fmt.Sprintf("%04d/%02d", m.Year, int(m.Month))
}

func (m Month) String() string {
	return m.Path()
}

// FetchBundle is the raw input assembled for one analysis cycle.
type FetchBundle struct {
	Subject            Subject
	Profile            Profile
	Ratings            Ratings
	CurrentMonthGames  []Game
	PreviousMonthGames []Game
}

// Games concatenates the current month games with the previous month games.
func (b FetchBundle) Games() []Game {
	games := make([]Game, 0, len(b.CurrentMonthGames)+len(b.PreviousMonthGames))
	games = append(games, b.CurrentMonthGames...)
	games = append(games, b.PreviousMonthGames...)
	return games
}
