package web

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goserg/opponentanalyzer/internal/channel"
	"github.com/goserg/opponentanalyzer/internal/detector"
	"github.com/goserg/opponentanalyzer/internal/domain"
)

var ErrBadRequest = errors.New("bad request")

type statsRequest struct {
	Username string        `json:"username"`
	Games    []domain.Game `json:"games"`
}

func (r statsRequest) Validate() error {
	return validateUserName(strings.TrimSpace(r.Username))
}

func (r statsRequest) convertToChannelRequest() channel.Request {
	return channel.Request{
		Type:     channel.TypeCalculateStats,
		Games:    r.Games,
		Username: strings.TrimSpace(r.Username),
	}
}

type observationRequest struct {
	Candidates []string `json:"candidates"`
	Known      string   `json:"known"`
}

func (r observationRequest) Validate() error {
	if len(r.Candidates) != 2 {
		return fmt.Errorf("expected 2 candidates, got %d", len(r.Candidates))
	}
	return nil
}

func (r observationRequest) convertToObservation() detector.Observation {
	return detector.Observation{
		Candidates: [2]string{r.Candidates[0], r.Candidates[1]},
		Known:      r.Known,
	}
}

type preferencesRequest struct {
	DarkMode    *bool      `json:"dark_mode"`
	SnoozeUntil *time.Time `json:"snooze_until"`
	SnoozeHours *float64   `json:"snooze_hours"`
}

func (r preferencesRequest) Validate() error {
	var err error
	if r.SnoozeUntil != nil && r.SnoozeHours != nil {
		err = errors.Join(err, errors.New("snooze_until and snooze_hours are exclusive"))
	}
	if r.SnoozeHours != nil && *r.SnoozeHours < 0 {
		err = errors.Join(err, errors.New("snooze_hours must not be negative"))
	}
	if r.SnoozeHours != nil && *r.SnoozeHours > domain.MaxSnoozeHours {
		err = errors.Join(err, fmt.Errorf("snooze_hours must not exceed %d", domain.MaxSnoozeHours))
	}
	return err
}

// apply merges the request into prefs; snooze_hours is relative to now.
func (r preferencesRequest) apply(prefs domain.Preferences, now time.Time) domain.Preferences {
	if r.DarkMode != nil {
		prefs.DarkMode = *r.DarkMode
	}
	if r.SnoozeUntil != nil {
		prefs.SnoozeUntil = *r.SnoozeUntil
	}
	if r.SnoozeHours != nil {
		prefs.SnoozeUntil = time.Time{}
		if *r.SnoozeHours > 0 {
			prefs.SnoozeUntil = now.Add(time.Duration(*r.SnoozeHours * float64(time.Hour)))
		}
	}
	return prefs
}

type currentResponse struct {
	Subject    domain.Subject `json:"subject,omitempty"`
	Tracking   bool           `json:"tracking"`
	Suppressed bool           `json:"suppressed"`
	Report     *domain.Report `json:"report,omitempty"`
}
