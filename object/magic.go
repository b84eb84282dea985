package object

// MagicOp identifies an operator slot, per spec.md §3.1 ("add sub mul div
// mod pow neg eq lt gt in bool").
type MagicOp string

const (
	MagicAdd  MagicOp = "add"
	MagicSub  MagicOp = "sub"
	MagicMul  MagicOp = "mul"
	MagicDiv  MagicOp = "div"
	MagicMod  MagicOp = "mod"
	MagicPow  MagicOp = "pow"
	MagicNeg  MagicOp = "neg"
	MagicEq   MagicOp = "eq"
	MagicLt   MagicOp = "lt"
	MagicGt   MagicOp = "gt"
	MagicIn   MagicOp = "in"
	MagicBool MagicOp = "bool"
)

// magicTable holds the class-level (shared across all instances of a
// kind, per spec.md §4.1) magic method slots. Populated once at VM
// construction by builtins.Install, per SPEC_FULL.md's builtins mapping.
var magicTable = map[Kind]map[MagicOp]Value{}

// RegisterMagic installs fn as the implementation of op for kind. Called
// by builtins.Install at VM startup, never by ordinary user code.
func RegisterMagic(kind Kind, op MagicOp, fn Value) {
	slots, ok := magicTable[kind]
	if !ok {
		slots = map[MagicOp]Value{}
		magicTable[kind] = slots
	}
	slots[op] = fn
}

// LookupMagic returns the slot's implementation for (kind, op), or
// (nil, false) if the slot is unfilled ("operator not supported for this
// type", spec.md §4.1).
func LookupMagic(kind Kind, op MagicOp) (Value, bool) {
	slots, ok := magicTable[kind]
	if !ok {
		return nil, false
	}
	fn, ok := slots[op]
	return fn, ok
}
