package domain

import "github.com/goserg/opponentanalyzer/internal/normalize"

// Subject is the player whose telemetry is computed.
type Subject string

// Equal compares subjects case-insensitively.
func (s Subject) Equal(other Subject) bool {
	return normalize.Equal(string(s), string(other))
}

// Key is the folded form used for map keys and storage.
func (s Subject) Key() string {
	return normalize.Name(string(s))
}

func (s Subject) String() string {
	return string(s)
}

type Side struct {
	Username string `json:"username"`
	Rating   int    `json:"rating,omitempty"`
	Result   string `json:"result,omitempty"`
}

// Accuracies holds the per-side accuracy as decoded from JSON.
// Values are kept untyped because the upstream feed is not strict about them.
type Accuracies struct {
	White any `json:"white"`
	Black any `json:"black"`
}

// Game is one archived game as returned by the games endpoint.
type Game struct {
	URL         string      `json:"url,omitempty"`
	PGN         string      `json:"pgn,omitempty"`
	TimeControl string      `json:"time_control,omitempty"`
	TimeClass   string      `json:"time_class,omitempty"`
	EndTime     int64       `json:"end_time,omitempty"`
	Rated       bool        `json:"rated,omitempty"`
	White       *Side       `json:"white,omitempty"`
	Black       *Side       `json:"black,omitempty"`
	Accuracies  *Accuracies `json:"accuracies,omitempty"`
}
