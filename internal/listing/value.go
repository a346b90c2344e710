package listing

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind is the natural ordering family of a field value.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindDate
)

const isoDate = "2006-01-02"

// Value is a single field of a record as seen by the filter and the sorter.
// A zero Value is "missing".
type Value struct {
	kind    Kind
	text    string
	number  decimal.Decimal
	date    time.Time
	present bool
}

// Text wraps a string field. Empty strings are treated as missing.
func Text(s string) Value {
	if s == "" {
		return Value{}
	}
	return Value{kind: KindText, text: s, present: true}
}

// Number wraps a numeric field.
func Number(d decimal.Decimal) Value {
	return Value{kind: KindNumber, number: d, text: d.String(), present: true}
}

// Int wraps an integer field.
func Int(n int) Value {
	return Number(decimal.NewFromInt(int64(n)))
}

// Date wraps an ISO date (yyyy-mm-dd) or RFC 3339 timestamp. Unparseable
// input is treated as missing.
func Date(s string) Value {
	t, ok := ParseDate(s)
	if !ok {
		return Value{}
	}
	return Value{kind: KindDate, text: s, date: t, present: true}
}

// ParseDate accepts yyyy-mm-dd and RFC 3339 strings.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(isoDate, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// Present reports whether the field carries a value.
func (v Value) Present() bool { return v.present }

// Kind returns the ordering family of the value.
func (v Value) Kind() Kind { return v.kind }

// String returns the textual form used for search and selector matching.
func (v Value) String() string { return v.text }

// Compare orders two present values. Values of different kinds fall back to
// comparing their textual form.
func (v Value) Compare(o Value) int {
	if v.kind != o.kind {
		return strings.Compare(v.text, o.text)
	}
	switch v.kind {
	case KindNumber:
		return v.number.Cmp(o.number)
	case KindDate:
		return v.date.Compare(o.date)
	default:
		return strings.Compare(v.text, o.text)
	}
}

// Record is anything a screen can list: it has a stable key and exposes its
// fields by name.
type Record interface {
	RecordID() string
	Field(name string) Value
}
