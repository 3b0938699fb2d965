package query

import (
	"slices"
	"strconv"
	"strings"
)

// Kind tags which variant a Value holds.
type Kind int

const (
	KindUnset Kind = iota
	KindString
	KindList
	KindNumber
)

// Value is a single filter value: a string, a list of strings or a number.
// The zero Value is unset and means "no filter" when merged into a State.
type Value struct {
	kind Kind
	str  string
	list []string
	num  float64
}

// String wraps a string filter value. An empty string is a cleared filter,
// which is still sent to the server.
func String(s string) Value { return Value{kind: KindString, str: s} }

// List wraps a multi-select filter value.
func List(items ...string) Value {
	return Value{kind: KindList, list: slices.Clone(items)}
}

// Number wraps a numeric filter value.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// Int is Number for integral values.
func Int(n int) Value { return Number(float64(n)) }

// Unset removes a key when passed to State.With.
func Unset() Value { return Value{} }

func (v Value) Kind() Kind    { return v.kind }
func (v Value) IsUnset() bool { return v.kind == KindUnset }

// Strings returns the list items, or the scalar as a single item.
func (v Value) Strings() []string {
	switch v.kind {
	case KindList:
		return slices.Clone(v.list)
	case KindUnset:
		return nil
	default:
		return []string{v.Text()}
	}
}

// Text renders the value the way it is sent on the wire. Lists are joined
// with commas.
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindList:
		return strings.Join(v.list, ",")
	default:
		return ""
	}
}

// Float parses the value as a number. ok is false when it is not numeric.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Equal compares wire representations, so String("3") equals Number(3).
func (v Value) Equal(o Value) bool {
	if v.kind == KindUnset || o.kind == KindUnset {
		return v.kind == o.kind
	}
	if (v.kind == KindList) != (o.kind == KindList) {
		return false
	}
	if v.kind == KindList {
		return slices.Equal(v.list, o.list)
	}
	return v.Text() == o.Text()
}
