package listing

import (
	"strings"
	"time"
)

// All is the selector sentinel meaning "no constraint".
const All = "all"

// MatchMode decides how a selector value is compared with the record field.
type MatchMode int

const (
	// MatchExact requires byte equality (categories).
	MatchExact MatchMode = iota
	// MatchFold requires case-insensitive equality (status-like fields).
	MatchFold
	// MatchContainsFold requires a case-insensitive substring match.
	MatchContainsFold
)

// Selector constrains one categorical field.
type Selector struct {
	Field string
	Value string
	Mode  MatchMode
}

// DateWindow constrains the start/end span of a record relative to today.
type DateWindow string

const (
	DateAny      DateWindow = ""
	DateUpcoming DateWindow = "upcoming"
	DateOngoing  DateWindow = "ongoing"
	DatePast     DateWindow = "past"
)

// Query is the combined filter of one screen: free text AND every selector
// AND the date window.
type Query struct {
	Search       string
	SearchFields []string
	Selectors    []Selector
	Dates        DateWindow
	StartField   string
	EndField     string
	Now          time.Time
}

// Match reports whether the record satisfies every condition of q.
func Match[T Record](r T, q Query) bool {
	return matchSearch(r, q) && matchSelectors(r, q.Selectors) && matchDates(r, q)
}

// Filter returns the records matching q, in their original order. The result
// never aliases the input slice.
func Filter[T Record](records []T, q Query) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if Match(r, q) {
			out = append(out, r)
		}
	}
	return out
}

func matchSearch[T Record](r T, q Query) bool {
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	if needle == "" {
		return true
	}
	for _, name := range q.SearchFields {
		v := r.Field(name)
		if !v.Present() {
			continue
		}
		if strings.Contains(strings.ToLower(v.String()), needle) {
			return true
		}
	}
	return false
}

func matchSelectors[T Record](r T, selectors []Selector) bool {
	for _, s := range selectors {
		if s.Value == "" || strings.EqualFold(s.Value, All) {
			continue
		}
		v := r.Field(s.Field)
		if !v.Present() {
			return false
		}
		switch s.Mode {
		case MatchFold:
			if !strings.EqualFold(v.String(), s.Value) {
				return false
			}
		case MatchContainsFold:
			if !strings.Contains(strings.ToLower(v.String()), strings.ToLower(s.Value)) {
				return false
			}
		default:
			if v.String() != s.Value {
				return false
			}
		}
	}
	return true
}

func matchDates[T Record](r T, q Query) bool {
	switch q.Dates {
	case DateUpcoming, DateOngoing, DatePast:
	default:
		return true
	}

	today := truncateDay(q.Now)
	start := r.Field(q.StartField)
	end := r.Field(q.EndField)

	switch q.Dates {
	case DateUpcoming:
		return start.Kind() == KindDate && start.Present() && truncateDay(start.date).After(today)
	case DateOngoing:
		if !start.Present() || !end.Present() || start.Kind() != KindDate || end.Kind() != KindDate {
			return false
		}
		return !truncateDay(start.date).After(today) && !truncateDay(end.date).Before(today)
	default:
		return end.Kind() == KindDate && end.Present() && truncateDay(end.date).Before(today)
	}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
