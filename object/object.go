// Package object implements the kiz value model of spec.md §3.1: a
// tagged heap value, one concrete Go type per kind, each carrying a
// reference count and an ordered attribute map, plus the per-kind magic
// method slot table of spec.md §4.1. Interface shape (Kind/Display/
// attribute accessors) follows the teacher's object.Object interface;
// reference counting and magic-method slots are kiz-specific additions
// spec.md requires that the teacher (a Go-GC-backed design) does not have.
package object

import "fmt"

// Kind identifies the variant of a Value, per spec.md §3.1's table.
type Kind string

const (
	NilKind            Kind = "nil"
	BoolKind           Kind = "bool"
	IntKind            Kind = "int"
	RationalKind       Kind = "rational"
	StringKind         Kind = "string"
	ListKind           Kind = "list"
	DictKind           Kind = "dict"
	CodeKind           Kind = "code"
	FunctionKind       Kind = "function"
	NativeFunctionKind Kind = "native_function"
	ModuleKind         Kind = "module"
)

// Value is the interface every kiz heap object implements. acquire/
// release/destroy are unexported: only this package's constructors and
// the Acquire/Release helpers below may manipulate the reference count,
// per spec.md §4.1's "Contract" (acquire/release are part of the object
// model's contract, not something the VM reimplements per kind).
type Value interface {
	// Kind returns the value's type tag.
	Kind() Kind

	// Display returns the value's to_display_string representation.
	Display() string

	// GetAttr and SetAttr access the value's ordered attribute map.
	GetAttr(name string) (Value, bool)
	SetAttr(name string, v Value)

	// RefCount returns the current reference count, for diagnostics and
	// the heap-accounting property of spec.md §8.
	RefCount() int

	acquire()
	release() int
	destroy()
}

// Acquire records a new owning hold on v and returns v, per spec.md §3.5
// ("incremented on each new owning hold"). Safe to call with a nil v only
// if v is a non-nil Go interface wrapping a Value; Acquire never receives
// a true nil because Nil is itself represented as a Value (NilType).
func Acquire(v Value) Value {
	if v != nil {
		v.acquire()
	}
	return v
}

// Release records the symmetric release of one owning hold on v,
// destroying v (and transitively releasing everything it owns) once its
// count reaches zero, per spec.md §3.5.
func Release(v Value) {
	if v == nil {
		return
	}
	if v.release() <= 0 {
		v.destroy()
	}
}

// TypeError is returned by operations on unsupported kinds.
type TypeError struct{ Msg string }

func (e *TypeError) Error() string { return e.Msg }

func TypeErrorf(format string, args ...interface{}) *TypeError {
	return &TypeError{Msg: fmt.Sprintf(format, args...)}
}
