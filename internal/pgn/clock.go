// Package pgn extracts clock annotations and played moves from PGN text.
package pgn

import (
	"regexp"
	"strconv"
)

var (
	clockAnnotation = regexp.MustCompile(`\[%clk\s+([^\]\s]+)\s*\]`)
	hourClock       = regexp.MustCompile(`^(\d+):(\d{1,2}):(\d+(?:\.\d+)?)$`)
	minuteClock     = regexp.MustCompile(`^(\d+):(\d+(?:\.\d+)?)$`)
)

// ClockSample is the remaining time recorded after one move.
type ClockSample struct {
	Hours   int
	Minutes int
	Seconds float64
}

// Total returns the sample in seconds.
func (c ClockSample) Total() float64 {
	return float64(c.Hours*3600+c.Minutes*60) + c.Seconds
}

// ParseClocks returns clock samples in the order they appear in the text.
// Each annotation is matched against the h:mm:ss dialect first and the m:ss dialect
// second, so one game may mix both. Annotations matching neither are skipped.
func ParseClocks(pgn string) []ClockSample {
	matches := clockAnnotation.FindAllStringSubmatch(pgn, -1)
	samples := make([]ClockSample, 0, len(matches))
	for _, m := range matches {
		sample, ok := parseClock(m[1])
		if !ok {
			continue
		}
		samples = append(samples, sample)
	}
	return samples
}

func parseClock(value string) (ClockSample, bool) {
	if m := hourClock.FindStringSubmatch(value); m != nil {
		h, err := strconv.Atoi(m[1])
		if err != nil {
			return ClockSample{}, false
		}
		mins, err := strconv.Atoi(m[2])
		if err != nil {
			return ClockSample{}, false
		}
		sec, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			return ClockSample{}, false
		}
		return ClockSample{Hours: h, Minutes: mins, Seconds: sec}, true
	}
	if m := minuteClock.FindStringSubmatch(value); m != nil {
		mins, err := strconv.Atoi(m[1])
		if err != nil {
			return ClockSample{}, false
		}
		sec, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return ClockSample{}, false
		}
		return ClockSample{Minutes: mins, Seconds: sec}, true
	}
	return ClockSample{}, false
}
