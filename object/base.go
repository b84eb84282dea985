package object

// Attrs is an insertion-ordered string-keyed map, used both as the
// attribute map every value carries (spec.md §3.1) and as the payload of
// a Dict value (spec.md: "Dict | string-keyed attribute map |
// Insertion-ordered" — the same structure, reused).
type Attrs struct {
	keys   []string
	values map[string]Value
}

// NewAttrs creates an empty ordered attribute map.
func NewAttrs() *Attrs {
	return &Attrs{values: map[string]Value{}}
}

// Get returns the value bound to name, if any.
func (a *Attrs) Get(name string) (Value, bool) {
	v, ok := a.values[name]
	return v, ok
}

// Set binds name to v, acquiring v and releasing whatever was previously
// bound, per spec.md's SET_ATTR semantics ("Bind attribute under name i;
// release previous value").
func (a *Attrs) Set(name string, v Value) {
	if old, ok := a.values[name]; ok {
		Release(old)
		a.values[name] = Acquire(v)
		return
	}
	a.keys = append(a.keys, name)
	a.values[name] = Acquire(v)
}

// Delete removes name, releasing its value. Reports whether it was present.
func (a *Attrs) Delete(name string) bool {
	old, ok := a.values[name]
	if !ok {
		return false
	}
	Release(old)
	delete(a.values, name)
	for i, k := range a.keys {
		if k == name {
			a.keys = append(a.keys[:i], a.keys[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of entries.
func (a *Attrs) Len() int { return len(a.keys) }

// Keys returns the entry names in insertion order.
func (a *Attrs) Keys() []string {
	out := make([]string, len(a.keys))
	copy(out, a.keys)
	return out
}

// Each calls fn for every entry in insertion order.
func (a *Attrs) Each(fn func(name string, v Value)) {
	for _, k := range a.keys {
		fn(k, a.values[k])
	}
}

// releaseAll releases every value the map owns, used by container
// destroy() implementations.
func (a *Attrs) releaseAll() {
	for _, k := range a.keys {
		Release(a.values[k])
	}
}

// base is embedded by every concrete Value type. It supplies the shared
// reference-count bookkeeping and a default (empty) attribute map and
// no-op destroy. Container types that own children (List, Dict, Code,
// Function, Module) define their own destroy method, which shadows this
// one, to release what they own.
type base struct {
	refs  int
	attrs *Attrs
}

func newBase() base {
	return base{attrs: NewAttrs()}
}

func (b *base) acquire() { b.refs++ }

func (b *base) release() int {
	b.refs--
	return b.refs
}

func (b *base) destroy() {}

func (b *base) RefCount() int { return b.refs }

func (b *base) GetAttr(name string) (Value, bool) { return b.attrs.Get(name) }

func (b *base) SetAttr(name string, v Value) { b.attrs.Set(name, v) }
