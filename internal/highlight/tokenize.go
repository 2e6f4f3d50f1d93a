package highlight

import (
	"unicode"

	"github.com/clipperhouse/uax29/v2/graphemes"
	"github.com/clipperhouse/uax29/v2/words"
)

// Tokenize splits s into the tokens Diff compares. Concatenating the tokens reproduces s.
//   - StyleWord: Unicode (UAX #29) word boundaries. "ctx.Done() != nil" -> ["ctx.Done", "(", ")", " ", "!", "=", " ", "nil"].
//   - StyleChar: grapheme clusters, so combining marks stay attached to their base character.
func Tokenize(s string, style Style) []string {
	if s == "" {
		return nil
	}
	var tokens []string
	switch style {
	case StyleChar:
		iter := graphemes.FromString(s)
		for iter.Next() {
			tokens = append(tokens, iter.Value())
		}
	default:
		iter := words.FromString(s)
		for iter.Next() {
			tokens = append(tokens, iter.Value())
		}
	}
	return tokens
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r)
}
