package object

// Function is a user-defined function: a display name, its arity, and a
// reference to the CodeObject the compiler produced for its body
// (spec.md §3.1).
type Function struct {
	base
	Name string
	Code *Code
}

// NewFunction wraps code as a Function value, acquiring code since the
// Function now owns a reference to it.
func NewFunction(name string, code *Code) *Function {
	return &Function{base: newBase(), Name: name, Code: Acquire(code).(*Code)}
}

func (f *Function) Kind() Kind      { return FunctionKind }
func (f *Function) Display() string { return "<function " + f.Name + ">" }

// Arity is the function's declared number of positional parameters.
func (f *Function) Arity() int { return len(f.Code.Params) }

func (f *Function) destroy() {
	Release(f.Code)
}
