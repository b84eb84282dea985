package object

import "github.com/kiz-lang/kiz/op"

// Instruction is one bytecode instruction: an opcode, its operands, and
// the source line range it was compiled from, per spec.md §3.2.
type Instruction struct {
	Op         op.Code
	Operands   []uint16
	LineStart  int
	LineEnd    int
}

// Code is the immutable bundle produced by the compiler, per spec.md
// §3.3: a dense instruction sequence, a constant pool, a name table, and
// a line map. It is itself a Value (spec.md §3.1 table lists CodeObject
// as a kind) so it can be deduplicated and stored in an enclosing code
// object's constant pool when compiling nested functions.
type Code struct {
	base

	Name         string
	Instructions []Instruction
	Constants    []Value
	Names        []string

	// Params lists parameter names in declaration order, used by the VM
	// to bind locals on call (spec.md §4.3 "Calling convention").
	Params []string

	// IsModule marks the root code object of a module (frame 0), whose
	// locals double as the module's globals per spec.md §3.4/§4.3.
	IsModule bool

	// SourceDir is the directory `import` resolves sibling module paths
	// against. Set by the loader, not the compiler itself.
	SourceDir string
}

// NewCode creates an empty, mutable-during-compilation Code object.
// Compilation appends to Instructions/Constants/Names; once compilation
// finishes the object is treated as immutable, per spec.md §3.3.
func NewCode(name string) *Code {
	return &Code{base: newBase(), Name: name}
}

func (c *Code) Kind() Kind      { return CodeKind }
func (c *Code) Display() string { return "<code " + c.Name + ">" }

// AddConstant appends v to the constant pool (acquiring it, since the
// pool is a new owning hold per spec.md §3.5) and returns its index,
// deduplicating against constants of the same kind and display value per
// spec.md §4.2 ("equal constants ... are deduplicated").
func (c *Code) AddConstant(v Value) uint16 {
	for i, existing := range c.Constants {
		if existing.Kind() == v.Kind() && existing.Kind() != CodeKind && existing.Kind() != FunctionKind &&
			existing.Display() == v.Display() {
			return uint16(i)
		}
	}
	c.Constants = append(c.Constants, Acquire(v))
	return uint16(len(c.Constants) - 1)
}

// AddName appends name to the name table if not already present and
// returns its index.
func (c *Code) AddName(name string) uint16 {
	for i, n := range c.Names {
		if n == name {
			return uint16(i)
		}
	}
	c.Names = append(c.Names, name)
	return uint16(len(c.Names) - 1)
}

// destroy releases every constant this code object owns.
func (c *Code) destroy() {
	for _, v := range c.Constants {
		Release(v)
	}
}
