package compiler

import (
	"github.com/kiz-lang/kiz/ast"
	"github.com/kiz-lang/kiz/object"
	"github.com/kiz-lang/kiz/op"
)

func (c *Compiler) compileStmt(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		return c.compileVarDecl(s)
	case *ast.Assign:
		return c.compileAssign(s)
	case *ast.AttrAssign:
		return c.compileAttrAssign(s)
	case *ast.IndexAssign:
		return c.compileIndexAssign(s)
	case *ast.ExprStmt:
		if err := c.compileExpr(s.Value); err != nil {
			return err
		}
		c.emit(s, op.PopTop)
		return nil
	case *ast.If:
		return c.compileIf(s)
	case *ast.While:
		return c.compileWhile(s)
	case *ast.Break:
		return c.compileBreak(s)
	case *ast.Continue:
		return c.compileContinue(s)
	case *ast.Return:
		return c.compileReturn(s)
	case *ast.Import:
		return c.compileImport(s)
	case *ast.FuncDecl:
		return c.compileFuncDecl(s)
	default:
		return c.errAt(stmt, "unsupported statement node %T", stmt)
	}
}

func (c *Compiler) compileBlock(b *ast.Block) error {
	for _, s := range b.Statements {
		if err := c.compileStmt(s); err != nil {
			return err
		}
	}
	return nil
}

// compileVarDecl always introduces a new local binding, per spec.md §9
// Open Question 1's resolved reading.
func (c *Compiler) compileVarDecl(s *ast.VarDecl) error {
	if err := c.compileExpr(s.Value); err != nil {
		return err
	}
	c.current.locals[s.Name.Name] = true
	idx := c.current.code.AddName(s.Name.Name)
	c.emit(s, op.SetLocal, idx)
	return nil
}

// compileAssign rebinds the nearest scope that already owns the name:
// a known local in the current function, otherwise the module global
// (if we are already compiling the module) or a dynamic outward walk of
// the call stack (if we are compiling a nested function), per spec.md
// §9 Open Question 1 and §4.3's SET_NONLOCAL/SET_GLOBAL semantics.
func (c *Compiler) compileAssign(s *ast.Assign) error {
	if err := c.compileExpr(s.Value); err != nil {
		return err
	}
	idx := c.current.code.AddName(s.Name.Name)
	if c.current.locals[s.Name.Name] {
		c.emit(s, op.SetLocal, idx)
		return nil
	}
	if c.current.parent == nil {
		c.emit(s, op.SetGlobal, idx)
		return nil
	}
	c.emit(s, op.SetNonlocal, idx)
	return nil
}

func (c *Compiler) compileAttrAssign(s *ast.AttrAssign) error {
	if err := c.compileExpr(s.Value); err != nil {
		return err
	}
	if err := c.compileExpr(s.Receiver); err != nil {
		return err
	}
	// Stack is now …, value, receiver; SET_ATTR expects …, receiver, value.
	c.emit(s, op.Swap)
	idx := c.current.code.AddName(s.Name)
	c.emit(s, op.SetAttr, idx)
	return nil
}

func (c *Compiler) compileIndexAssign(s *ast.IndexAssign) error {
	if err := c.compileExpr(s.Receiver); err != nil {
		return err
	}
	if err := c.compileExpr(s.Index); err != nil {
		return err
	}
	if err := c.compileExpr(s.Value); err != nil {
		return err
	}
	// Stack: …, receiver, index, value — matches SET_INDEX's contract.
	c.emit(s, op.SetIndex)
	return nil
}

func (c *Compiler) compileIf(s *ast.If) error {
	if err := c.compileExpr(s.Condition); err != nil {
		return err
	}
	jumpElse := c.emit(s, op.JumpIfFalse, placeholder)
	if err := c.compileBlock(s.Then); err != nil {
		return err
	}
	jumpEnd := c.emit(s, op.Jump, placeholder)
	c.patchOperand(jumpElse, 0, c.here())
	if s.Else != nil {
		if err := c.compileBlock(s.Else); err != nil {
			return err
		}
	}
	c.patchOperand(jumpEnd, 0, c.here())
	return nil
}

func (c *Compiler) compileWhile(s *ast.While) error {
	entry := c.here()
	c.current.loops = append(c.current.loops, &loop{entry: entry})
	if err := c.compileExpr(s.Condition); err != nil {
		return err
	}
	exitJump := c.emit(s, op.JumpIfFalse, placeholder)
	if err := c.compileBlock(s.Body); err != nil {
		return err
	}
	c.emit(s, op.Jump, entry)
	exitAddr := c.here()
	c.patchOperand(exitJump, 0, exitAddr)

	l := c.current.loops[len(c.current.loops)-1]
	c.current.loops = c.current.loops[:len(c.current.loops)-1]
	for _, idx := range l.breakFix {
		c.patchOperand(idx, 0, exitAddr)
	}
	return nil
}

func (c *Compiler) compileBreak(s *ast.Break) error {
	if len(c.current.loops) == 0 {
		return c.errAt(s, "'break' outside of a while loop")
	}
	l := c.current.loops[len(c.current.loops)-1]
	idx := c.emit(s, op.Jump, placeholder)
	l.breakFix = append(l.breakFix, idx)
	return nil
}

func (c *Compiler) compileContinue(s *ast.Continue) error {
	if len(c.current.loops) == 0 {
		return c.errAt(s, "'continue' outside of a while loop")
	}
	l := c.current.loops[len(c.current.loops)-1]
	c.emit(s, op.Jump, l.entry)
	return nil
}

func (c *Compiler) compileReturn(s *ast.Return) error {
	if s.Value != nil {
		if err := c.compileExpr(s.Value); err != nil {
			return err
		}
	} else {
		c.emitLoadNil(s)
	}
	c.emit(s, op.Ret)
	return nil
}

// compileImport pushes the imported Module value (resolved and cached by
// the VM's IMPORT handler, per SPEC_FULL.md §6) and binds it to a name
// matching the import, the same way a function definition binds its
// value once compiled.
func (c *Compiler) compileImport(s *ast.Import) error {
	idx := c.current.code.AddName(s.Name)
	c.emit(s, op.Import, idx)
	if c.current.parent == nil {
		c.emit(s, op.SetGlobal, idx)
	} else {
		c.current.locals[s.Name] = true
		c.emit(s, op.SetLocal, idx)
	}
	return nil
}

func (c *Compiler) compileFuncDecl(s *ast.FuncDecl) error {
	fnCode, err := c.compileFunctionBody(s.Name.Name, s.Params, s.Body, s)
	if err != nil {
		return err
	}
	fn := object.NewFunction(s.Name.Name, fnCode)
	cidx := c.current.code.AddConstant(fn)
	c.emit(s, op.LoadConst, cidx)
	c.current.locals[s.Name.Name] = true
	nidx := c.current.code.AddName(s.Name.Name)
	if c.current.parent == nil {
		c.emit(s, op.SetGlobal, nidx)
	} else {
		c.emit(s, op.SetLocal, nidx)
	}
	return nil
}

// compileFunctionBody enters a new compilation context, seeds it with
// the parameters, compiles body, and ensures the code object ends with
// an explicit return, per spec.md §4.2 "Function definition".
func (c *Compiler) compileFunctionBody(name string, params []*ast.Ident, body *ast.Block, node ast.Node) (*object.Code, error) {
	fnCode := object.NewCode(name)
	for _, p := range params {
		fnCode.Params = append(fnCode.Params, p.Name)
	}
	parent := c.current
	c.current = &context{code: fnCode, parent: parent, locals: map[string]bool{}}
	for _, p := range params {
		c.current.locals[p.Name] = true
		fnCode.AddName(p.Name)
	}
	if err := c.compileBlock(body); err != nil {
		c.current = parent
		return nil, err
	}
	if !endsInReturn(fnCode) {
		c.emitLoadNil(node)
		c.emit(node, op.Ret)
	}
	c.current = parent
	return fnCode, nil
}

func endsInReturn(code *object.Code) bool {
	if len(code.Instructions) == 0 {
		return false
	}
	return code.Instructions[len(code.Instructions)-1].Op == op.Ret
}

func (c *Compiler) emitLoadNil(node ast.Node) {
	idx := c.current.code.AddConstant(object.Nil)
	c.emit(node, op.LoadConst, idx)
}
