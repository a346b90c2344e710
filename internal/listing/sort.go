package listing

import (
	"slices"
	"strings"
)

// Direction of a sort.
type Direction string

const (
	Ascending  Direction = "ascending"
	Descending Direction = "descending"
)

// ParseDirection maps user input to a Direction, defaulting to ascending.
func ParseDirection(s string) Direction {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "descending", "desc":
		return Descending
	default:
		return Ascending
	}
}

// SortConfig is the current sort of a screen.
type SortConfig struct {
	Key       string    `json:"key"`
	Direction Direction `json:"direction"`
}

// Request returns the config after a user selects key: the same key flips
// ascending to descending and back, a new key starts ascending.
func (c SortConfig) Request(key string) SortConfig {
	if c.Key == key && c.Direction == Ascending {
		return SortConfig{Key: key, Direction: Descending}
	}
	return SortConfig{Key: key, Direction: Ascending}
}

// Sort returns a stably sorted copy of records. Records without the key sort
// after those that have it, whatever the direction.
func Sort[T Record](records []T, cfg SortConfig) []T {
	out := slices.Clone(records)
	if cfg.Key == "" {
		return out
	}
	desc := cfg.Direction == Descending
	slices.SortStableFunc(out, func(a, b T) int {
		av, bv := a.Field(cfg.Key), b.Field(cfg.Key)
		switch {
		case !av.Present() && !bv.Present():
			return 0
		case !av.Present():
			return 1
		case !bv.Present():
			return -1
		}
		c := av.Compare(bv)
		if desc {
			return -c
		}
		return c
	})
	return out
}

// View is Filter followed by Sort.
func View[T Record](records []T, q Query, cfg SortConfig) []T {
	return Sort(Filter(records, q), cfg)
}
