package filter

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// MaxSpan bounds the width of a "lo-hi" term accepted by ParseRange.
const MaxSpan = 100

// Range is the set of operand identities a game may use.
type Range map[int]struct{}

// NewRange returns the set {lo..hi}. Bounds are swapped if reversed.
func NewRange(lo, hi int) Range {
	if lo > hi {
		lo, hi = hi, lo
	}
	r := make(Range, hi-lo+1)
	for i := lo; i <= hi; i++ {
		r[i] = struct{}{}
	}
	return r
}

// RangeOf builds a range from individual values.
func RangeOf(values ...int) Range {
	r := make(Range, len(values))
	for _, v := range values {
		r[v] = struct{}{}
	}
	return r
}

// Contains reports whether v is in the range.
func (r Range) Contains(v int) bool {
	_, ok := r[v]
	return ok
}

// Sorted returns the range members in ascending order.
func (r Range) Sorted() []int {
	return slices.Sorted(maps.Keys(r))
}

// String renders contiguous ranges as "lo-hi" and others as a list.
func (r Range) String() string {
	vals := r.Sorted()
	if len(vals) == 0 {
		return ""
	}
	lo, hi := vals[0], vals[len(vals)-1]
	if hi-lo+1 == len(vals) && len(vals) > 1 {
		return fmt.Sprintf("%d-%d", lo, hi)
	}
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// ParseRange accepts "3-9", "3,4,5" or a mix like "2-4,7".
func ParseRange(s string) (Range, error) {
	r := make(Range)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if lo, hi, ok := strings.Cut(part, "-"); ok {
			a, err := strconv.Atoi(strings.TrimSpace(lo))
			if err != nil {
				return nil, fmt.Errorf("invalid range %q: %w", s, err)
			}
			b, err := strconv.Atoi(strings.TrimSpace(hi))
			if err != nil {
				return nil, fmt.Errorf("invalid range %q: %w", s, err)
			}
			if span := max(a, b) - min(a, b) + 1; span > MaxSpan || span <= 0 {
				return nil, fmt.Errorf("invalid range %q: spans more than %d values", s, MaxSpan)
			}
			maps.Copy(r, NewRange(a, b))
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid range %q: %w", s, err)
		}
		r[v] = struct{}{}
	}
	if len(r) == 0 {
		return nil, fmt.Errorf("invalid range %q: empty", s)
	}
	return r, nil
}
