package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/scigo-knn/pkg/errors"
)

// LabelKind はラベルの種類
type LabelKind uint8

const (
	// KindInvalid はゼロ値のラベル
	KindInvalid LabelKind = iota
	// KindInt は整数ラベル
	KindInt
	// KindString は文字列ラベル
	KindString
)

// String returns "invalid", "int" or "string".
func (k LabelKind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindString:
		return "string"
	default:
		return "invalid"
	}
}

// Label is a class label, either an integer or a string.
//
// Label is comparable and can be used as a map key. The zero Label is
// invalid. Integer labels order numerically and before all string labels;
// string labels order lexicographically.
type Label struct {
	kind LabelKind
	i    int64
	s    string
}

// IntLabel returns an integer label.
func IntLabel(v int64) Label { return Label{kind: KindInt, i: v} }

// StringLabel returns a string label.
func StringLabel(v string) Label { return Label{kind: KindString, s: v} }

// IntLabels converts a slice of integers into labels.
func IntLabels(vs ...int64) []Label {
	out := make([]Label, len(vs))
	for i, v := range vs {
		out[i] = IntLabel(v)
	}
	return out
}

// StringLabels converts a slice of strings into labels.
func StringLabels(vs ...string) []Label {
	out := make([]Label, len(vs))
	for i, v := range vs {
		out[i] = StringLabel(v)
	}
	return out
}

// ParseLabel returns an integer label when s is a base-10 integer and a
// string label otherwise.
func ParseLabel(s string) Label {
	if v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
		return IntLabel(v)
	}
	return StringLabel(s)
}

// Kind returns the label kind.
func (l Label) Kind() LabelKind { return l.kind }

// IsValid reports whether l is not the zero Label.
func (l Label) IsValid() bool { return l.kind != KindInvalid }

// Int returns the integer value and whether l is an integer label.
func (l Label) Int() (int64, bool) { return l.i, l.kind == KindInt }

// Str returns the string value and whether l is a string label.
func (l Label) Str() (string, bool) { return l.s, l.kind == KindString }

// String implements fmt.Stringer.
func (l Label) String() string {
	switch l.kind {
	case KindInt:
		return strconv.FormatInt(l.i, 10)
	case KindString:
		return l.s
	default:
		return "<invalid>"
	}
}

// Compare returns -1, 0 or +1 depending on whether l sorts before, equal to
// or after o.
func (l Label) Compare(o Label) int {
	if l.kind != o.kind {
		if l.kind < o.kind {
			return -1
		}
		return 1
	}
	switch l.kind {
	case KindInt:
		switch {
		case l.i < o.i:
			return -1
		case l.i > o.i:
			return 1
		}
	case KindString:
		return strings.Compare(l.s, o.s)
	}
	return 0
}

// Less reports whether l sorts before o.
func (l Label) Less(o Label) bool { return l.Compare(o) < 0 }

// UniqueLabels returns the distinct labels of y in sorted order.
func UniqueLabels(y []Label) []Label {
	seen := make(map[Label]struct{}, len(y))
	out := make([]Label, 0)
	for _, l := range y {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// ValidateLabels checks that y is non-empty, contains no zero Label and uses
// a single label kind.
func ValidateLabels(y []Label) error {
	if len(y) == 0 {
		return errors.NewValidationError("y", "labels must not be empty", 0)
	}
	kind := y[0].Kind()
	for i, l := range y {
		if !l.IsValid() {
			return errors.NewValidationError("y", fmt.Sprintf("label at index %d is invalid", i), i)
		}
		if l.Kind() != kind {
			return errors.NewValidationError("y",
				fmt.Sprintf("mixed label kinds: %s at index 0 and %s at index %d", kind, l.Kind(), i),
				l.String())
		}
	}
	return nil
}
