package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// NoData is rendered in place of a statistic without samples.
const NoData = "-"

// Stat is a statistic that may have no samples.
type Stat struct {
	Value float64
	Valid bool
}

func StatOf(v float64) Stat {
	return Stat{Value: v, Valid: true}
}

// Round rounds the value to the given number of decimals. Sentinel stays sentinel.
func (s Stat) Round(decimals int) Stat {
	if !s.Valid {
		return s
	}
	p := math.Pow(10, float64(decimals))
	return Stat{Value: math.Round(s.Value*p) / p, Valid: true}
}

func (s Stat) String() string {
	if !s.Valid {
		return NoData
	}
	return strconv.FormatFloat(s.Value, 'f', -1, 64)
}

func (s Stat) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return json.Marshal(NoData)
	}
	return json.Marshal(s.Value)
}

func (s *Stat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) || len(data) > 0 && data[0] == '"' {
		*s = Stat{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = StatOf(v)
	return nil
}

// Aggregate is the telemetry summary for a subject.
// AvgMoveTime is left unrounded; Precision is rounded to the nearest integer.
type Aggregate struct {
	AvgMoveTime    Stat    `json:"avg_move_time"`
	Precision      Stat    `json:"precision"`
	MoveTimeGames  int     `json:"move_time_games"`
	PrecisionGames int     `json:"precision_games"`
	TotalMoveTime  float64 `json:"total_move_time"`
	TotalMoveCount int     `json:"total_move_count"`
}

// NoAggregate is the sentinel pair returned when a cycle fails.
func NoAggregate() Aggregate {
	return Aggregate{}
}
