package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonth_Previous(t *testing.T) {
	tests := []struct {
		name  string
		month Month
		want  Month
	}{
		{name: "mid year", month: Month{Year: 2024, Month: time.June}, want: Month{Year: 2024, Month: time.May}},
		{name: "january rolls over", month: Month{Year: 2024, Month: time.January}, want: Month{Year: 2023, Month: time.December}},
		{name: "december", month: Month{Year: 2024, Month: time.December}, want: Month{Year: 2024, Month: time.November}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.month.Previous())
		})
	}
}

func TestMonth_Path(t *testing.T) {
	assert.Equal(t, "2024/01", Month{Year: 2024, Month: time.January}.Path())
	assert.Equal(t, "2023/12", MonthOf(time.Date(2023, time.December, 31, 23, 0, 0, 0, time.UTC)).Path())
}

func TestFetchBundle_Games(t *testing.T) {
	b := FetchBundle{
		CurrentMonthGames:  []Game{{URL: "c1"}, {URL: "c2"}},
		PreviousMonthGames: []Game{{URL: "p1"}},
	}
	games := b.Games()
	require.Len(t, games, 3)
	assert.Equal(t, "c1", games[0].URL)
	assert.Equal(t, "c2", games[1].URL)
	assert.Equal(t, "p1", games[2].URL)
	assert.Empty(t, FetchBundle{}.Games())
}

func TestStat_JSON(t *testing.T) {
	data, err := json.Marshal(struct {
		A Stat `json:"a"`
		B Stat `json:"b"`
	}{A: StatOf(12.5), B: Stat{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":12.5,"b":"-"}`, string(data))

	var got struct {
		A Stat `json:"a"`
		B Stat `json:"b"`
	}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, StatOf(12.5), got.A)
	assert.False(t, got.B.Valid)
}

func TestStat_Round(t *testing.T) {
	assert.Equal(t, StatOf(12.3), StatOf(12.34).Round(1))
	assert.Equal(t, StatOf(12), StatOf(12.34).Round(0))
	assert.Equal(t, "-", Stat{}.Round(1).String())
}

func TestProfile(t *testing.T) {
	p := Profile{Country: "https://api.chess.com/pub/country/US", ProfileViews: 42}
	assert.Equal(t, "us", p.CountryCode())
	assert.Equal(t, 42, p.ViewCount())
	assert.Equal(t, "", Profile{}.CountryCode())
}

func TestSubject_Equal(t *testing.T) {
	assert.True(t, Subject("Bob").Equal("bob"))
	assert.False(t, Subject("bob").Equal("alice"))
	assert.Equal(t, "bob", Subject(" BOB").Key())
}

func TestModeStats_Nil(t *testing.T) {
	var m *ModeStats
	assert.Equal(t, 0, m.Rating())
	assert.Equal(t, Record{}, m.Results())
}

func TestRatings_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name       string
		data       string
		wantBlitz  int
		wantRapid  int
		wantBullet int
	}{
		{
			name:       "prefixed keys",
			data:       `{"chess_blitz":{"last":{"rating":1500}},"chess_rapid":{"last":{"rating":1600}},"chess_bullet":{"last":{"rating":1400}}}`,
			wantBlitz:  1500,
			wantRapid:  1600,
			wantBullet: 1400,
		},
		{
			name:       "short keys",
			data:       `{"blitz":{"last":{"rating":1510}},"rapid":{"last":{"rating":1610}},"bullet":{"last":{"rating":1410}}}`,
			wantBlitz:  1510,
			wantRapid:  1610,
			wantBullet: 1410,
		},
		{
			name:      "prefixed key wins",
			data:      `{"chess_blitz":{"last":{"rating":1500}},"blitz":{"last":{"rating":900}}}`,
			wantBlitz: 1500,
		},
		{name: "empty", data: `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Ratings
			require.NoError(t, json.Unmarshal([]byte(tt.data), &r))
			assert.Equal(t, tt.wantBlitz, r.Blitz.Rating())
			assert.Equal(t, tt.wantRapid, r.Rapid.Rating())
			assert.Equal(t, tt.wantBullet, r.Bullet.Rating())
		})
	}
}
