package object

// Module is a named collection of attributes plus, for source-loaded
// modules, the CodeObject that produced it (spec.md §3.1). After an
// `import`ed module's top-level code has run, the VM copies its module
// frame's locals into the Module's attribute map, so the module exposes
// its top-level bindings as attributes (SPEC_FULL.md §6).
type Module struct {
	base
	Name string
	Code *Code // nil for a purely host-provided module
}

func NewModule(name string, code *Code) *Module {
	m := &Module{base: newBase(), Name: name}
	if code != nil {
		m.Code = Acquire(code).(*Code)
	}
	return m
}

func (m *Module) Kind() Kind      { return ModuleKind }
func (m *Module) Display() string { return "<module " + m.Name + ">" }

func (m *Module) destroy() {
	if m.Code != nil {
		Release(m.Code)
	}
}
