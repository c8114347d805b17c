package listing

import (
	"cmp"
	"strconv"
	"strings"
	"time"
)

// Kind is the semantic type of a listable field; it selects the comparator
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindTime
)

// Field exposes one attribute of T for sorting and, optionally, searching.
// Exactly one accessor is set, matching Kind.
type Field[T any] struct {
	Kind       Kind
	Searchable bool

	text   func(T) string
	number func(T) float64
	when   func(T) time.Time
}

// StringField returns a searchable field compared lexicographically
func StringField[T any](fn func(T) string) Field[T] {
	return Field[T]{Kind: KindString, Searchable: true, text: fn}
}

// NumberField returns a field compared numerically
func NumberField[T any](fn func(T) float64) Field[T] {
	return Field[T]{Kind: KindNumber, number: fn}
}

// TimeField returns a field compared chronologically
func TimeField[T any](fn func(T) time.Time) Field[T] {
	return Field[T]{Kind: KindTime, when: fn}
}

// Compare orders a and b by this field: negative, zero or positive
func (f Field[T]) Compare(a, b T) int {
	switch f.Kind {
	case KindNumber:
		return cmp.Compare(f.number(a), f.number(b))
	case KindTime:
		return f.when(a).Compare(f.when(b))
	default:
		return strings.Compare(f.text(a), f.text(b))
	}
}

// Text renders the field value for substring matching
func (f Field[T]) Text(v T) string {
	switch f.Kind {
	case KindNumber:
		return strconv.FormatFloat(f.number(v), 'f', -1, 64)
	case KindTime:
		return f.when(v).Format(time.RFC3339)
	default:
		return f.text(v)
	}
}

// Schema is the fixed set of fields a resource can be listed by
type Schema[T any] map[string]Field[T]

// Lookup returns the named field
func (s Schema[T]) Lookup(name string) (Field[T], bool) {
	f, ok := s[name]
	return f, ok
}
