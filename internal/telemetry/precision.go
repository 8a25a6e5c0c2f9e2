package telemetry

import (
	"encoding/json"
	"math"

	"github.com/goserg/opponentanalyzer/internal/domain"
)

// Precision returns the subject's recorded accuracy for one game.
// The subject plays white when its name matches the white username, black otherwise.
func Precision(game domain.Game, subject domain.Subject) (float64, bool) {
	if game.Accuracies == nil || game.White == nil || game.Black == nil {
		return 0, false
	}
	value := game.Accuracies.Black
	if subject.Equal(domain.Subject(game.White.Username)) {
		value = game.Accuracies.White
	}
	accuracy, ok := number(value)
	if !ok || math.IsNaN(accuracy) || math.IsInf(accuracy, 0) {
		return 0, false
	}
	return accuracy, true
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
