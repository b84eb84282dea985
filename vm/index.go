package vm

import (
	"github.com/kiz-lang/kiz/errz"
	"github.com/kiz-lang/kiz/object"
)

// indexGet implements GET_INDEX, a minimal compiler/VM extension beyond
// spec.md §4.3's literal opcode table (see DESIGN.md): spec.md §6 lists
// `a[b]` as a language-surface construct and §4.2 lowers `Index` nodes,
// but no INDEX opcode appears in the authoritative table, so GET_INDEX/
// SET_INDEX are added following the same shape as GET_ATTR/SET_ATTR.
func indexGet(recv, idx object.Value) (object.Value, error) {
	switch r := recv.(type) {
	case *object.List:
		i, ok := idx.(*object.Int)
		if !ok {
			return nil, errz.NewRuntimeError("list index must be an int, got %s", idx.Kind())
		}
		n := i.Value.Int64()
		if n < 0 || n >= int64(len(r.Elements)) {
			return nil, errz.NewRuntimeError("list index %d out of range (length %d)", n, len(r.Elements))
		}
		return r.Elements[n], nil
	case *object.Dict:
		key, ok := idx.(*object.String)
		if !ok {
			return nil, errz.NewRuntimeError("dict index must be a string, got %s", idx.Kind())
		}
		v, ok := r.Entries.Get(key.Value)
		if !ok {
			return nil, errz.NewRuntimeError("dict has no key %q", key.Value)
		}
		return v, nil
	case *object.String:
		i, ok := idx.(*object.Int)
		if !ok {
			return nil, errz.NewRuntimeError("string index must be an int, got %s", idx.Kind())
		}
		n := i.Value.Int64()
		if n < 0 || n >= int64(len(r.Value)) {
			return nil, errz.NewRuntimeError("string index %d out of range (length %d)", n, len(r.Value))
		}
		return object.NewString(string(r.Value[n])), nil
	default:
		return nil, errz.NewRuntimeError("type %s does not support indexing", recv.Kind())
	}
}

// indexSet implements SET_INDEX.
func indexSet(recv, idx, val object.Value) error {
	switch r := recv.(type) {
	case *object.List:
		i, ok := idx.(*object.Int)
		if !ok {
			return errz.NewRuntimeError("list index must be an int, got %s", idx.Kind())
		}
		n := i.Value.Int64()
		if n < 0 || n >= int64(len(r.Elements)) {
			return errz.NewRuntimeError("list index %d out of range (length %d)", n, len(r.Elements))
		}
		object.Release(r.Elements[n])
		r.Elements[n] = object.Acquire(val)
		return nil
	case *object.Dict:
		key, ok := idx.(*object.String)
		if !ok {
			return errz.NewRuntimeError("dict index must be a string, got %s", idx.Kind())
		}
		r.Entries.Set(key.Value, val)
		return nil
	default:
		return errz.NewRuntimeError("type %s does not support index assignment", recv.Kind())
	}
}
