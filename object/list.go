package object

import "strings"

// List is an ordered, owned sequence of values.
type List struct {
	base
	Elements []Value
}

// NewList takes ownership of elements: each is acquired on construction,
// matching §3.5 ("added to a container" is a new owning hold).
func NewList(elements []Value) *List {
	l := &List{base: newBase()}
	l.Elements = make([]Value, len(elements))
	for i, e := range elements {
		l.Elements[i] = Acquire(e)
	}
	return l
}

func (l *List) Kind() Kind { return ListKind }

func (l *List) Display() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = e.Display()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Append takes ownership of v.
func (l *List) Append(v Value) {
	l.Elements = append(l.Elements, Acquire(v))
}

func (l *List) Len() int { return len(l.Elements) }

// destroy releases every element this list owns.
func (l *List) destroy() {
	for _, e := range l.Elements {
		Release(e)
	}
}
