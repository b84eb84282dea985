// Package vm implements the stack-based virtual machine of spec.md §4.3:
// a fetch-decode-dispatch loop over a call-frame stack and a shared
// operand stack, variable resolution, magic-method dispatch, and the
// `import` loading protocol. Structure (single VM struct, run loop,
// frame stack) follows the teacher's vm package; reference-count
// bookkeeping on every push/pop/store is kiz-specific, per object.Value's
// acquire/release contract.
package vm

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/kiz-lang/kiz/errz"
	"github.com/kiz-lang/kiz/object"
	"github.com/kiz-lang/kiz/op"
)

// Loader resolves and compiles an absolute module path into a Code
// object, per spec.md §9 Open Question 3 ("modules ... loaded into the
// loaded_modules map by name on first reference"). cmd/kiz wires the
// concrete lexer/parser/compiler pipeline; the vm package only consumes
// the interface, to keep import resolution swappable for tests.
type Loader interface {
	Load(absPath string) (*object.Code, error)
}

// State is the `(stack_top, locals)` snapshot the host API of spec.md §6
// returns from `load`, `extend`, and `get_state`.
type State struct {
	Top    object.Value
	Locals map[string]object.Value
}

// VM executes Code objects, per spec.md §3.5 / §4.3.
type VM struct {
	frames []*Frame
	stack  []object.Value

	builtins map[string]object.Value
	modules  map[string]*object.Module
	loading  map[string]bool

	Importer Loader

	moduleFrame *Frame
}

// New creates a VM with builtins seeded at construction, per spec.md
// §3.5 ("builtins map: name -> value, seeded at VM construction").
func New(builtins map[string]object.Value) *VM {
	return &VM{
		builtins: builtins,
		modules:  map[string]*object.Module{},
		loading:  map[string]bool{},
	}
}

// child creates a VM for executing an imported module: a fresh frame and
// operand stack, but the same builtins, module cache, and loader, so
// import caching and cycle detection span the whole import graph.
func (vm *VM) child() *VM {
	return &VM{
		builtins: vm.builtins,
		modules:  vm.modules,
		loading:  vm.loading,
		Importer: vm.Importer,
	}
}

// Load executes code's top-level instructions as the module frame (frame
// 0), per spec.md §6 `load(module)`.
func (vm *VM) Load(code *object.Code, sourceDir string) (*State, error) {
	code.SourceDir = sourceDir
	vm.moduleFrame = newModuleFrame(code)
	vm.frames = []*Frame{vm.moduleFrame}
	if err := vm.runUntil(0); err != nil {
		return nil, err
	}
	return vm.snapshot(), nil
}

// Extend appends and runs new instructions within the same module frame,
// per spec.md §6 `extend(code_object)` (the REPL path). code is the
// already-extended module code object (see compiler.ExtendModule);
// startIP is the instruction index to resume from.
func (vm *VM) Extend(code *object.Code, startIP int) (*State, error) {
	// A prior turn's trailing expression statement is left on the
	// operand stack (see compiler.compileTopLevel) so the host can read
	// it as state.Top; drain it now that the host has had its chance,
	// so REPL turns don't accumulate stack depth indefinitely.
	if len(vm.stack) > 0 {
		object.Release(vm.pop())
	}
	vm.moduleFrame.Code = code
	vm.moduleFrame.IP = startIP
	vm.frames = []*Frame{vm.moduleFrame}
	if err := vm.runUntil(0); err != nil {
		return nil, err
	}
	return vm.snapshot(), nil
}

// GetState returns the current snapshot without executing, per spec.md
// §6 `get_state()`.
func (vm *VM) GetState() *State { return vm.snapshot() }

func (vm *VM) snapshot() *State {
	var top object.Value
	if len(vm.stack) > 0 {
		top = vm.stack[len(vm.stack)-1]
	}
	return &State{Top: top, Locals: vm.moduleFrame.Locals}
}

// runUntil steps the VM until the frame stack's length drops to
// targetDepth. Top-level Load/Extend pass 0, running until the module
// frame itself has finished.
func (vm *VM) runUntil(targetDepth int) error {
	for len(vm.frames) > targetDepth {
		if err := vm.step(); err != nil {
			return err
		}
	}
	return nil
}

func (vm *VM) push(v object.Value) { vm.stack = append(vm.stack, v) }

func (vm *VM) pop() object.Value {
	n := len(vm.stack)
	v := vm.stack[n-1]
	vm.stack = vm.stack[:n-1]
	return v
}

func (vm *VM) top() *Frame { return vm.frames[len(vm.frames)-1] }

// step fetches, decodes, and executes exactly one instruction from the
// active frame, per spec.md §4.3 "Fetch-decode-dispatch".
func (vm *VM) step() error {
	frame := vm.top()
	if frame.IP >= len(frame.Code.Instructions) {
		if len(vm.frames) == 1 {
			// Module top level fell off the end without an explicit
			// return; halt cleanly.
			vm.frames = vm.frames[:0]
			return nil
		}
		return vm.fail(frame, "frame %q fell off the end of its code without RET", frame.Name)
	}
	instr := frame.Code.Instructions[frame.IP]
	log.Trace().Str("frame", frame.Name).Int("ip", frame.IP).Str("op", instr.Op.String()).
		Int("stack_depth", len(vm.stack)).Msg("step")
	frame.IP++
	return vm.exec(frame, instr)
}

func (vm *VM) exec(frame *Frame, instr object.Instruction) error {
	switch instr.Op {
	case op.LoadConst:
		idx := int(instr.Operands[0])
		if idx < 0 || idx >= len(frame.Code.Constants) {
			return vm.fail(frame, "broken constant index %d", idx)
		}
		vm.push(object.Acquire(frame.Code.Constants[idx]))

	case op.LoadVar:
		name, err := vm.nameAt(frame, instr)
		if err != nil {
			return err
		}
		v, ok := vm.resolveVar(frame, name)
		if !ok {
			return vm.fail(frame, "undefined variable %q", name)
		}
		vm.push(object.Acquire(v))

	case op.SetLocal:
		name, err := vm.nameAt(frame, instr)
		if err != nil {
			return err
		}
		v := vm.pop()
		if old, ok := frame.Locals[name]; ok {
			object.Release(old)
		}
		frame.Locals[name] = v

	case op.SetNonlocal:
		name, err := vm.nameAt(frame, instr)
		if err != nil {
			return err
		}
		v := vm.pop()
		target := vm.findEnclosing(name)
		if target == nil {
			object.Release(v)
			return vm.fail(frame, "cannot assign undefined variable %q", name)
		}
		if old, ok := target.Locals[name]; ok {
			object.Release(old)
		}
		target.Locals[name] = v

	case op.SetGlobal:
		name, err := vm.nameAt(frame, instr)
		if err != nil {
			return err
		}
		v := vm.pop()
		if old, ok := vm.moduleFrame.Locals[name]; ok {
			object.Release(old)
		}
		vm.moduleFrame.Locals[name] = v

	case op.GetAttr:
		name, err := vm.nameAt(frame, instr)
		if err != nil {
			return err
		}
		o := vm.pop()
		v, ok := o.GetAttr(name)
		if !ok {
			object.Release(o)
			return vm.fail(frame, "object of kind %s has no attribute %q", o.Kind(), name)
		}
		vm.push(object.Acquire(v))
		object.Release(o)

	case op.SetAttr:
		name, err := vm.nameAt(frame, instr)
		if err != nil {
			return err
		}
		v := vm.pop()
		o := vm.pop()
		o.SetAttr(name, v)
		object.Release(v)
		object.Release(o)

	case op.GetIndex:
		return vm.execGetIndex(frame)

	case op.SetIndex:
		return vm.execSetIndex(frame)

	case op.MakeList:
		n := int(instr.Operands[0])
		elems := vm.popN(n)
		list := object.NewList(elems)
		for _, e := range elems {
			object.Release(e)
		}
		vm.push(object.Acquire(list))

	case op.MakeDict:
		return vm.execMakeDict(frame, int(instr.Operands[0]))

	case op.Call:
		return vm.execCall(frame)

	case op.Ret:
		return vm.execRet()

	case op.Jump:
		frame.IP = int(instr.Operands[0])

	case op.JumpIfFalse:
		cond := vm.pop()
		t, err := vm.truthy(cond)
		if err != nil {
			object.Release(cond)
			return vm.wrapf(frame, err)
		}
		object.Release(cond)
		if !t {
			frame.IP = int(instr.Operands[0])
		}

	case op.PopTop:
		object.Release(vm.pop())

	case op.Swap:
		a := vm.pop()
		b := vm.pop()
		vm.push(a)
		vm.push(b)

	case op.CopyTop:
		v := vm.stack[len(vm.stack)-1]
		vm.push(object.Acquire(v))

	case op.Import:
		name, err := vm.nameAt(frame, instr)
		if err != nil {
			return err
		}
		mod, err := vm.doImport(name, frame.Code.SourceDir)
		if err != nil {
			return vm.wrapf(frame, err)
		}
		vm.push(object.Acquire(mod))

	case op.OpAdd:
		return vm.execBinary(frame, object.MagicAdd)
	case op.OpSub:
		return vm.execBinary(frame, object.MagicSub)
	case op.OpMul:
		return vm.execBinary(frame, object.MagicMul)
	case op.OpDiv:
		return vm.execBinary(frame, object.MagicDiv)
	case op.OpMod:
		return vm.execBinary(frame, object.MagicMod)
	case op.OpPow:
		return vm.execBinary(frame, object.MagicPow)
	case op.OpEq:
		return vm.execBinary(frame, object.MagicEq)
	case op.OpLt:
		return vm.execBinary(frame, object.MagicLt)
	case op.OpGt:
		return vm.execBinary(frame, object.MagicGt)
	case op.OpIn:
		return vm.execBinary(frame, object.MagicIn)

	case op.OpNeg:
		return vm.execUnary(frame, object.MagicNeg)

	case op.OpNot:
		a := vm.pop()
		t, err := vm.truthy(a)
		object.Release(a)
		if err != nil {
			return vm.wrapf(frame, err)
		}
		vm.push(object.Acquire(object.NewBool(!t)))

	case op.OpIs:
		b := vm.pop()
		a := vm.pop()
		result := a == b
		object.Release(a)
		object.Release(b)
		vm.push(object.Acquire(object.NewBool(result)))

	case op.Throw:
		return vm.fail(frame, "THROW is reserved and not implemented")

	default:
		return vm.fail(frame, "unknown opcode %s", instr.Op)
	}
	return nil
}

func (vm *VM) nameAt(frame *Frame, instr object.Instruction) (string, error) {
	idx := int(instr.Operands[0])
	if idx < 0 || idx >= len(frame.Code.Names) {
		return "", vm.fail(frame, "broken name index %d", idx)
	}
	return frame.Code.Names[idx], nil
}

func (vm *VM) popN(n int) []object.Value {
	if n == 0 {
		return nil
	}
	raw := vm.stack[len(vm.stack)-n:]
	vm.stack = vm.stack[:len(vm.stack)-n]
	out := make([]object.Value, n)
	copy(out, raw)
	return out
}

// resolveVar implements LOAD_VAR's scope search: the active frame's
// locals first, then outward through enclosing call frames down to the
// module frame (necessary for a nested function to read a global such
// as its own name in a recursive call — see DESIGN.md), then builtins.
func (vm *VM) resolveVar(frame *Frame, name string) (object.Value, bool) {
	if v, ok := frame.Locals[name]; ok {
		return v, true
	}
	for i := len(vm.frames) - 2; i >= 0; i-- {
		if v, ok := vm.frames[i].Locals[name]; ok {
			return v, true
		}
	}
	if v, ok := vm.builtins[name]; ok {
		return v, true
	}
	return nil, false
}

// findEnclosing implements SET_NONLOCAL's search: walk outward from the
// active frame's caller, return the first frame whose locals already
// bind name.
func (vm *VM) findEnclosing(name string) *Frame {
	for i := len(vm.frames) - 2; i >= 0; i-- {
		if _, ok := vm.frames[i].Locals[name]; ok {
			return vm.frames[i]
		}
	}
	return nil
}

func (vm *VM) execGetIndex(frame *Frame) error {
	idx := vm.pop()
	recv := vm.pop()
	result, err := indexGet(recv, idx)
	if err != nil {
		object.Release(recv)
		object.Release(idx)
		return vm.wrapf(frame, err)
	}
	result = object.Acquire(result)
	object.Release(recv)
	object.Release(idx)
	vm.push(result)
	return nil
}

func (vm *VM) execSetIndex(frame *Frame) error {
	val := vm.pop()
	idx := vm.pop()
	recv := vm.pop()
	err := indexSet(recv, idx, val)
	object.Release(recv)
	object.Release(idx)
	object.Release(val)
	if err != nil {
		return vm.wrapf(frame, err)
	}
	return nil
}

func (vm *VM) execMakeDict(frame *Frame, n int) error {
	// Entries were compiled value-then-key (spec.md §4.2), so popping n
	// (key, value) pairs yields them in reverse entry order.
	type pair struct {
		key string
		val object.Value
	}
	pairs := make([]pair, n)
	for i := n - 1; i >= 0; i-- {
		key := vm.pop()
		val := vm.pop()
		ks, ok := key.(*object.String)
		if !ok {
			object.Release(key)
			object.Release(val)
			return vm.fail(frame, "dict keys must be strings, got %s", key.Kind())
		}
		pairs[i] = pair{key: ks.Value, val: val}
		object.Release(key)
	}
	d := object.NewDict()
	for _, p := range pairs {
		d.Entries.Set(p.key, p.val)
		object.Release(p.val)
	}
	vm.push(object.Acquire(d))
	return nil
}

// execCall implements the calling convention of spec.md §4.3: the
// compiler emits callee then argument values then MAKE_LIST, so at CALL
// the argument list is on top of the stack with the callee beneath it.
func (vm *VM) execCall(frame *Frame) error {
	argList := vm.pop()
	callee := vm.pop()

	list, ok := argList.(*object.List)
	if !ok {
		object.Release(argList)
		object.Release(callee)
		return vm.fail(frame, "call argument bundle is not a list")
	}

	switch fn := callee.(type) {
	case *object.NativeFunction:
		result, err := fn.Fn(context.Background(), object.Nil, list.Elements)
		object.Release(argList)
		object.Release(callee)
		if err != nil {
			return vm.wrapf(frame, err)
		}
		if result == nil {
			result = object.Nil
		}
		vm.push(object.Acquire(result))
		return nil

	case *object.Function:
		if list.Len() != fn.Arity() {
			object.Release(argList)
			object.Release(callee)
			return vm.fail(frame, "function %s takes %d arguments, got %d", fn.Name, fn.Arity(), list.Len())
		}
		newFrame := newCallFrame(fn.Name, fn.Code)
		for i, p := range fn.Code.Params {
			newFrame.Locals[p] = object.Acquire(list.Elements[i])
		}
		object.Release(argList)
		object.Release(callee)
		vm.frames = append(vm.frames, newFrame)
		return nil

	default:
		object.Release(argList)
		object.Release(callee)
		return vm.fail(frame, "value of kind %s is not callable", callee.Kind())
	}
}

// execRet implements RET per spec.md §4.3: pop current frame, push the
// return value (Nil if the operand stack holds none) for the caller.
func (vm *VM) execRet() error {
	var r object.Value
	if len(vm.stack) > 0 {
		r = vm.pop()
	} else {
		r = object.Acquire(object.Nil)
	}
	done := vm.top()
	vm.frames = vm.frames[:len(vm.frames)-1]
	done.releaseLocals()
	vm.push(r)
	return nil
}

// execBinary dispatches a binary magic method: the slot is looked up on
// the left operand's kind regardless of operator (including `in`), per
// spec.md §4.4's literal dispatch algorithm.
func (vm *VM) execBinary(frame *Frame, mop object.MagicOp) error {
	b := vm.pop()
	a := vm.pop()
	fn, ok := object.LookupMagic(a.Kind(), mop)
	if !ok {
		object.Release(a)
		object.Release(b)
		return vm.fail(frame, "operator %q not supported for type %s", mop, a.Kind())
	}
	err := vm.invokeMagic(fn, a, []object.Value{a, b})
	object.Release(a)
	object.Release(b)
	if err != nil {
		return vm.wrapf(frame, err)
	}
	return nil
}

func (vm *VM) execUnary(frame *Frame, mop object.MagicOp) error {
	a := vm.pop()
	fn, ok := object.LookupMagic(a.Kind(), mop)
	if !ok {
		object.Release(a)
		return vm.fail(frame, "operator %q not supported for type %s", mop, a.Kind())
	}
	err := vm.invokeMagic(fn, a, []object.Value{a})
	object.Release(a)
	if err != nil {
		return vm.wrapf(frame, err)
	}
	return nil
}

// invokeMagic calls a magic slot as f(self=a, args=[a, b]) (spec.md
// §4.4's deliberate self/positional duplication). When the slot is a
// NativeFunction, the result is pushed immediately. When it is a
// user Function, a frame is pushed and the main loop's ordinary RET
// handling delivers the result onto the operand stack once the
// function returns — the caller's subsequent instruction only executes
// after that RET, which is exactly the blocking semantics spec.md §4.4
// point 5 describes.
func (vm *VM) invokeMagic(fn object.Value, self object.Value, args []object.Value) error {
	switch f := fn.(type) {
	case *object.NativeFunction:
		result, err := f.Fn(context.Background(), self, args)
		if err != nil {
			return err
		}
		if result == nil {
			result = object.Nil
		}
		vm.push(object.Acquire(result))
		return nil
	case *object.Function:
		if len(args) != f.Arity() {
			return errz.NewRuntimeError("magic method %s expects %d arguments, got %d", f.Name, f.Arity(), len(args))
		}
		newFrame := newCallFrame(f.Name, f.Code)
		for i, p := range f.Code.Params {
			newFrame.Locals[p] = object.Acquire(args[i])
		}
		vm.frames = append(vm.frames, newFrame)
		return nil
	default:
		return errz.NewRuntimeError("magic slot is not callable")
	}
}

// truthy implements boolean coercion per spec.md §4.4: Bool used
// directly, Nil is false, otherwise the `bool` magic slot — which, if it
// resolves to a user Function, must run to completion synchronously
// since the caller (JUMP_IF_FALSE) needs the answer before deciding
// where to continue.
func (vm *VM) truthy(v object.Value) (bool, error) {
	switch t := v.(type) {
	case *object.Bool:
		return t.Value, nil
	case *object.NilType:
		return false, nil
	}
	fn, ok := object.LookupMagic(v.Kind(), object.MagicBool)
	if !ok {
		return false, errz.NewRuntimeError("type %s has no boolean coercion", v.Kind())
	}
	switch f := fn.(type) {
	case *object.NativeFunction:
		result, err := f.Fn(context.Background(), v, []object.Value{v})
		if err != nil {
			return false, err
		}
		b, ok := result.(*object.Bool)
		if !ok {
			return false, errz.NewRuntimeError("bool magic method must return a boolean")
		}
		return b.Value, nil
	case *object.Function:
		if f.Arity() != 1 {
			return false, errz.NewRuntimeError("bool magic method %s must take exactly one argument", f.Name)
		}
		base := len(vm.frames)
		newFrame := newCallFrame(f.Name, f.Code)
		newFrame.Locals[f.Code.Params[0]] = object.Acquire(v)
		vm.frames = append(vm.frames, newFrame)
		if err := vm.runUntil(base); err != nil {
			return false, err
		}
		result := vm.pop()
		b, ok := result.(*object.Bool)
		object.Release(result)
		if !ok {
			return false, errz.NewRuntimeError("bool magic method must return a boolean")
		}
		return b.Value, nil
	default:
		return false, errz.NewRuntimeError("bool magic slot is not callable")
	}
}

// doImport resolves name relative to fromDir, compiling and caching the
// result by absolute path, per spec.md §9 Open Question 3.
func (vm *VM) doImport(name, fromDir string) (*object.Module, error) {
	rel := name
	if !strings.HasSuffix(rel, ".kiz") {
		rel += ".kiz"
	}
	absPath := filepath.Clean(filepath.Join(fromDir, rel))

	if mod, ok := vm.modules[absPath]; ok {
		return mod, nil
	}
	if vm.loading[absPath] {
		return nil, errz.NewRuntimeError("import cycle detected loading %q", name)
	}
	if vm.Importer == nil {
		return nil, errz.NewRuntimeError("no module loader configured")
	}

	vm.loading[absPath] = true
	defer delete(vm.loading, absPath)
	code, err := vm.Importer.Load(absPath)
	if err != nil {
		return nil, errz.NewRuntimeError("importing %q: %v", name, err)
	}

	sub := vm.child()
	state, err := sub.Load(code, code.SourceDir)
	if err != nil {
		return nil, err
	}
	mod := object.NewModule(name, code)
	for k, v := range state.Locals {
		mod.SetAttr(k, v)
	}
	vm.modules[absPath] = mod
	return mod, nil
}

func (vm *VM) fail(frame *Frame, format string, args ...interface{}) error {
	line := 0
	if frame.IP-1 >= 0 && frame.IP-1 < len(frame.Code.Instructions) {
		line = frame.Code.Instructions[frame.IP-1].LineStart
	}
	return errz.NewRuntimeError(format, args...).WithLocation(errz.SourceLocation{Line: line})
}

// wrapf attaches frame's current source location to an error raised
// deeper in the call (e.g. a bigrat division-by-zero surfaced by a
// builtin), unless it already carries one.
func (vm *VM) wrapf(frame *Frame, err error) error {
	if rerr, ok := err.(*errz.RuntimeError); ok {
		if rerr.Loc != nil {
			return rerr
		}
		line := 0
		if frame.IP-1 >= 0 && frame.IP-1 < len(frame.Code.Instructions) {
			line = frame.Code.Instructions[frame.IP-1].LineStart
		}
		return rerr.WithLocation(errz.SourceLocation{Line: line})
	}
	return errz.NewRuntimeError("%v", err)
}
