package filter

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Kind identifies the variant of a Selection.
type Kind int

const (
	KindExplicit Kind = iota
	KindAll
	KindSquares
)

// Selection is the card selection criterion of a game. Exactly one variant
// is active, named by Kind; IDs is only meaningful for KindExplicit.
type Selection struct {
	Kind Kind
	IDs  []int
}

// Explicit selects cards that involve at least one of the given operands.
func Explicit(ids ...int) Selection {
	ids = slices.Clone(ids)
	slices.Sort(ids)
	return Selection{Kind: KindExplicit, IDs: slices.Compact(ids)}
}

// All selects every card in range.
func All() Selection { return Selection{Kind: KindAll} }

// Squares selects cards whose operands are equal.
func Squares() Selection { return Selection{Kind: KindSquares} }

// String renders the selection in the form accepted by ParseSelection.
func (s Selection) String() string {
	switch s.Kind {
	case KindAll:
		return "all"
	case KindSquares:
		return "squares"
	case KindExplicit:
		parts := make([]string, len(s.IDs))
		for i, id := range s.IDs {
			parts[i] = strconv.Itoa(id)
		}
		return strings.Join(parts, ",")
	default:
		return ""
	}
}

// ParseSelection parses "all", "squares" or a comma-separated operand list
// such as "3,6,7".
func ParseSelection(s string) (Selection, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "all", "":
		return All(), nil
	case "squares":
		return Squares(), nil
	}
	var ids []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return Selection{}, fmt.Errorf("invalid selection %q: %w", s, err)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return Selection{}, fmt.Errorf("invalid selection %q", s)
	}
	return Explicit(ids...), nil
}
