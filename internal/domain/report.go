package domain

import "time"

// Report is what one analysis cycle publishes about a subject.
type Report struct {
	Subject    Subject   `json:"subject"`
	Generation uint64    `json:"generation"`
	Profile    Profile   `json:"profile"`
	Ratings    Ratings   `json:"ratings"`
	Stats      Aggregate `json:"stats"`
	FetchedAt  time.Time `json:"fetched_at"`
	Error      string    `json:"error,omitempty"`
}

// Failed reports whether the cycle ended with sentinel statistics because of an error.
func (r Report) Failed() bool {
	return r.Error != ""
}

// HistoryEntry is a stored summary of a published report.
type HistoryEntry struct {
	Subject        Subject   `json:"subject"`
	AvgMoveTime    Stat      `json:"avg_move_time"`
	Precision      Stat      `json:"precision"`
	MoveTimeGames  int       `json:"move_time_games"`
	PrecisionGames int       `json:"precision_games"`
	FetchedAt      time.Time `json:"fetched_at"`
}

func (r Report) HistoryEntry() HistoryEntry {
	return HistoryEntry{
		Subject:        r.Subject,
		AvgMoveTime:    r.Stats.AvgMoveTime,
		Precision:      r.Stats.Precision,
		MoveTimeGames:  r.Stats.MoveTimeGames,
		PrecisionGames: r.Stats.PrecisionGames,
		FetchedAt:      r.FetchedAt,
	}
}

// MaxSnoozeHours bounds a relative snooze request.
const MaxSnoozeHours = 24 * 365

// Preferences are the user settings of a session.
type Preferences struct {
	DarkMode    bool      `json:"dark_mode"`
	SnoozeUntil time.Time `json:"snooze_until"`
}

// Suppressed reports whether automatic analysis is snoozed at now.
func (p Preferences) Suppressed(now time.Time) bool {
	return now.Before(p.SnoozeUntil)
}
