package phrasekit

import "strings"

// Value is a resolved message: either a single string or a list of strings,
// depending on how the entry is authored in the source data.
type Value struct {
	single string
	list   []string
	isList bool
}

func scalarValue(s string) Value {
	return Value{single: s}
}

func listValue(items []string) Value {
	return Value{list: items, isList: true}
}

// IsList reports whether the value holds a list of strings.
func (v Value) IsList() bool {
	return v.isList
}

// String returns the message text. List values are joined with newlines.
func (v Value) String() string {
	if v.isList {
		return strings.Join(v.list, "\n")
	}
	return v.single
}

// Strings returns the message as a list. Scalar values yield a single
// element.
func (v Value) Strings() []string {
	if v.isList {
		return v.list
	}
	return []string{v.single}
}
