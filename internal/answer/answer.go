// Package answer judges typed answers against the expected text.
package answer

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Verdict is the outcome of checking an answer.
type Verdict int

const (
	Wrong Verdict = iota
	Close
	Correct
)

// String returns the lowercase verdict name.
func (v Verdict) String() string {
	switch v {
	case Correct:
		return "correct"
	case Close:
		return "close"
	default:
		return "wrong"
	}
}

// Accepted reports whether the answer counts as right for progression and scoring.
func (v Verdict) Accepted() bool {
	return v == Correct || v == Close
}

// closeMinRunes is the shortest expected answer that may be judged close.
const closeMinRunes = 4

// Check compares given against expected. Comparison ignores case and
// surrounding or repeated whitespace. Numbers must match exactly; other
// answers one edit away are Close.
func Check(given, expected string) Verdict {
	g := Normalize(given)
	e := Normalize(expected)
	if g == "" {
		return Wrong
	}
	if g == e {
		return Correct
	}
	if isNumber(e) {
		if gn, err := strconv.Atoi(g); err == nil {
			if en, _ := strconv.Atoi(e); gn == en {
				return Correct
			}
		}
		return Wrong
	}
	if utf8.RuneCountInString(e) >= closeMinRunes && levenshtein.ComputeDistance(g, e) == 1 {
		return Close
	}
	return Wrong
}

// Normalize folds case and collapses whitespace.
func Normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func isNumber(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}
