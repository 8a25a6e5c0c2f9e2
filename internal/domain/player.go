package domain

import (
	"encoding/json"
	"strings"
)

type Profile struct {
	Username     string `json:"username"`
	PlayerID     int64  `json:"player_id,omitempty"`
	URL          string `json:"url,omitempty"`
	Avatar       string `json:"avatar,omitempty"`
	Country      string `json:"country,omitempty"`
	Joined       int64  `json:"joined,omitempty"`
	LastOnline   int64  `json:"last_online,omitempty"`
	Followers    int    `json:"followers,omitempty"`
	League       string `json:"league,omitempty"`
	Status       string `json:"status,omitempty"`
	Views        int    `json:"views,omitempty"`
	ProfileViews int    `json:"profile_views,omitempty"`
}

// ViewCount returns views, falling back to profile_views.
func (p Profile) ViewCount() int {
	if p.Views != 0 {
		return p.Views
	}
	return p.ProfileViews
}

// CountryCode extracts the two letter code from the country URL
// (https://api.chess.com/pub/country/US → "us").
func (p Profile) CountryCode() string {
	c := strings.TrimRight(p.Country, "/")
	if len(c) < 2 {
		return ""
	}
	return strings.ToLower(c[len(c)-2:])
}

type Record struct {
	Win  int `json:"win"`
	Draw int `json:"draw"`
	Loss int `json:"loss"`
}

type RatingPoint struct {
	Rating int   `json:"rating"`
	Date   int64 `json:"date,omitempty"`
	RD     int   `json:"rd,omitempty"`
}

type ModeStats struct {
	Last   *RatingPoint `json:"last,omitempty"`
	Best   *RatingPoint `json:"best,omitempty"`
	Record *Record      `json:"record,omitempty"`
}

// Rating returns the last rating or 0 when unknown.
func (m *ModeStats) Rating() int {
	if m == nil || m.Last == nil {
		return 0
	}
	return m.Last.Rating
}

// Results returns the win/draw/loss record, zero when unknown.
func (m *ModeStats) Results() Record {
	if m == nil || m.Record == nil {
		return Record{}
	}
	return *m.Record
}

type Ratings struct {
	Blitz  *ModeStats `json:"chess_blitz,omitempty"`
	Rapid  *ModeStats `json:"chess_rapid,omitempty"`
	Bullet *ModeStats `json:"chess_bullet,omitempty"`
}

// UnmarshalJSON also accepts the short "blitz", "rapid" and "bullet" keys
// when the chess_ prefixed ones are absent.
func (r *Ratings) UnmarshalJSON(data []byte) error {
	type ratings Ratings
	var v struct {
		ratings
		ShortBlitz  *ModeStats `json:"blitz"`
		ShortRapid  *ModeStats `json:"rapid"`
		ShortBullet *ModeStats `json:"bullet"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = Ratings(v.ratings)
	if r.Blitz == nil {
		r.Blitz = v.ShortBlitz
	}
	if r.Rapid == nil {
		r.Rapid = v.ShortRapid
	}
	if r.Bullet == nil {
		r.Bullet = v.ShortBullet
	}
	return nil
}
