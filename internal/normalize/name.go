package normalize

import (
	"strings"

	"golang.org/x/text/cases"
)

// Name folds a player name so that names differing only in case compare equal.
// A Caser is stateful, so a fresh one is built per call.
func Name(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// Equal reports whether two player names refer to the same player.
func Equal(a, b string) bool {
	return Name(a) == Name(b)
}
