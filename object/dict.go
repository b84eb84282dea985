package object

import "strings"

// Dict is an insertion-ordered, string-keyed value map (spec.md §3.1).
// It reuses the Attrs structure that also backs every value's attribute
// map, since the two are defined identically in spec.md.
type Dict struct {
	base
	Entries *Attrs
}

func NewDict() *Dict {
	return &Dict{base: newBase(), Entries: NewAttrs()}
}

func (d *Dict) Kind() Kind { return DictKind }

func (d *Dict) Display() string {
	var parts []string
	d.Entries.Each(func(name string, v Value) {
		parts = append(parts, "\""+name+"\": "+v.Display())
	})
	return "{" + strings.Join(parts, ", ") + "}"
}

func (d *Dict) Len() int { return d.Entries.Len() }

func (d *Dict) destroy() {
	d.Entries.releaseAll()
}
