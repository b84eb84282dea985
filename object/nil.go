package object

// NilType is the kiz nil value. A single shared instance (Nil, below) is
// used everywhere; equality is structural per spec.md §3.1 ("Nil is equal
// to Nil").
type NilType struct{ base }

// Nil is the shared Nil instance, per spec.md §3.1 ("Singleton-equivalent").
var Nil = &NilType{base: newBase()}

func (n *NilType) Kind() Kind      { return NilKind }
func (n *NilType) Display() string { return "nil" }
