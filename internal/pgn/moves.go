package pgn

import (
	"regexp"
	"strings"
)

var (
	braceComment = regexp.MustCompile(`\{[^}]*\}`)
	bracketTag   = regexp.MustCompile(`\[[^\]]*\]`)
	moveNumber   = regexp.MustCompile(`\d+\.+`)
	result       = regexp.MustCompile(`1-0|0-1|1/2-1/2|\*`)
	nag          = regexp.MustCompile(`\$\d+`)
	san          = regexp.MustCompile(`^(?:[KQRBNP]?[a-h]?[1-8]?x?[a-h][1-8](?:=?[QRBN])?|O-O(?:-O)?)[+#]?$`)
)

// Moves returns the played half-moves of both sides in order.
// It is purely lexical: legality and turn order are not checked.
func Moves(pgn string) []string {
	text := braceComment.ReplaceAllString(pgn, " ")
	text = bracketTag.ReplaceAllString(text, " ")
	text = moveNumber.ReplaceAllString(text, " ")
	text = result.ReplaceAllString(text, " ")
	text = nag.ReplaceAllString(text, " ")

	fields := strings.Fields(text)
	moves := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimRight(f, "!?")
		if san.MatchString(f) {
			moves = append(moves, f)
		}
	}
	return moves
}
