// Package compiler lowers an AST (package ast) into an object.Code
// bytecode object, per spec.md §4.2. Structure — a stack of per-function
// compilation contexts, forward-jump patching via placeholder operands —
// follows the teacher's compiler package, adapted from Risor's
// cell-capture closures to kiz's simpler "closures-by-name" dynamic
// scope resolution (spec.md §1, §4.3 SET_NONLOCAL/LOAD_VAR semantics).
package compiler

import (
	"github.com/kiz-lang/kiz/ast"
	"github.com/kiz-lang/kiz/errz"
	"github.com/kiz-lang/kiz/object"
	"github.com/kiz-lang/kiz/op"
)

// placeholder marks a jump operand awaiting patching, mirroring the
// teacher's Placeholder sentinel.
const placeholder = uint16(0xFFFF)

// loop records a while loop's patch points for break/continue lowering.
type loop struct {
	entry    uint16
	breakFix []int // instruction indices whose operand[0] needs the loop-exit address
}

// context is one compilation unit: the module or one user function/lambda.
// Entering a nested function pushes a new context; leaving it pops back.
type context struct {
	code   *object.Code
	parent *context
	locals map[string]bool // names declared via `var` or as a parameter
	loops  []*loop
}

// Compiler lowers AST nodes into object.Code, per spec.md §4.2.
type Compiler struct {
	current *context
}

// New creates an empty Compiler. Fresh modules are compiled with
// CompileModule and REPL fragments with ExtendModule (spec.md §4.2/§4.3).
func New() *Compiler {
	return &Compiler{}
}

// CompileModule compiles prog into a fresh module-level Code object.
func CompileModule(prog *ast.Program) (*object.Code, error) {
	c := &Compiler{}
	code := object.NewCode("<module>")
	code.IsModule = true
	c.current = &context{code: code, locals: map[string]bool{}}
	return code, c.compileTopLevel(prog.Statements)
}

// compileTopLevel compiles a sequence of top-level (module-scope)
// statements. Every statement discards its expression value except the
// last, which is left on the operand stack if it is itself an
// expression statement: the module frame's top-of-stack is the `state.
// Top` spec.md §6's `load`/`extend`/`get_state` host API reports, so the
// most recently evaluated top-level expression must still be there for
// the host to read and display.
func (c *Compiler) compileTopLevel(stmts []ast.Stmt) error {
	for i, stmt := range stmts {
		if i == len(stmts)-1 {
			if expr, ok := stmt.(*ast.ExprStmt); ok {
				return c.compileExpr(expr.Value)
			}
		}
		if err := c.compileStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

// ExtendModule compiles prog's statements as an incremental REPL
// fragment appended to the existing module code, per spec.md §4.2's
// "Name and constant interning" / §4.3's "REPL extension". It returns
// the instruction index the VM should resume execution from.
func ExtendModule(code *object.Code, prog *ast.Program) (startIP int, err error) {
	c := &Compiler{current: &context{code: code, locals: map[string]bool{}}}
	// Re-derive the locals set already known at module scope so that
	// `var` redeclaration across REPL turns still shadows correctly and
	// plain assignment to a prior turn's variable resolves to SET_LOCAL on
	// the module frame.
	for _, n := range code.Names {
		c.current.locals[n] = true
	}
	startIP = len(code.Instructions)
	if err := c.compileTopLevel(prog.Statements); err != nil {
		return 0, err
	}
	return startIP, nil
}

func (c *Compiler) emit(node ast.Node, instr op.Code, operands ...uint16) int {
	line := 0
	if node != nil {
		line = node.Pos().Line
	}
	c.current.code.Instructions = append(c.current.code.Instructions, object.Instruction{
		Op:        instr,
		Operands:  operands,
		LineStart: line,
		LineEnd:   line,
	})
	return len(c.current.code.Instructions) - 1
}

func (c *Compiler) patchOperand(idx, operandPos int, target uint16) {
	c.current.code.Instructions[idx].Operands[operandPos] = target
}

func (c *Compiler) here() uint16 {
	return uint16(len(c.current.code.Instructions))
}

func (c *Compiler) errAt(node ast.Node, format string, args ...interface{}) error {
	return errz.NewCompileError(errz.SourceLocation{
		Line:   node.Pos().Line,
		Column: node.Pos().Column,
	}, format, args...)
}
