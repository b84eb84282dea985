package compiler

import (
	"github.com/kiz-lang/kiz/ast"
	"github.com/kiz-lang/kiz/bigrat"
	"github.com/kiz-lang/kiz/object"
	"github.com/kiz-lang/kiz/op"
)

func (c *Compiler) compileExpr(expr ast.Expr) error {
	switch e := expr.(type) {
	case *ast.Ident:
		idx := c.current.code.AddName(e.Name)
		c.emit(e, op.LoadVar, idx)
		return nil
	case *ast.IntLiteral:
		v, err := bigrat.ParseInt(e.Value)
		if err != nil {
			return c.errAt(e, "invalid integer literal %q: %v", e.Value, err)
		}
		idx := c.current.code.AddConstant(object.NewInt(v))
		c.emit(e, op.LoadConst, idx)
		return nil
	case *ast.RationalLiteral:
		num, err := bigrat.ParseInt(e.Num)
		if err != nil {
			return c.errAt(e, "invalid rational numerator %q: %v", e.Num, err)
		}
		den, err := bigrat.ParseInt(e.Den)
		if err != nil {
			return c.errAt(e, "invalid rational denominator %q: %v", e.Den, err)
		}
		r, err := bigrat.NewRational(num, den)
		if err != nil {
			return c.errAt(e, "invalid rational literal %s/%s: %v", e.Num, e.Den, err)
		}
		idx := c.current.code.AddConstant(object.NewRational(r))
		c.emit(e, op.LoadConst, idx)
		return nil
	case *ast.StringLiteral:
		idx := c.current.code.AddConstant(object.NewString(e.Value))
		c.emit(e, op.LoadConst, idx)
		return nil
	case *ast.BoolLiteral:
		idx := c.current.code.AddConstant(object.NewBool(e.Value))
		c.emit(e, op.LoadConst, idx)
		return nil
	case *ast.NilLiteral:
		idx := c.current.code.AddConstant(object.Nil)
		c.emit(e, op.LoadConst, idx)
		return nil
	case *ast.BinaryOp:
		return c.compileBinaryOp(e)
	case *ast.UnaryOp:
		return c.compileUnaryOp(e)
	case *ast.Call:
		return c.compileCall(e)
	case *ast.AttrGet:
		if err := c.compileExpr(e.Receiver); err != nil {
			return err
		}
		idx := c.current.code.AddName(e.Name)
		c.emit(e, op.GetAttr, idx)
		return nil
	case *ast.Index:
		if err := c.compileExpr(e.Receiver); err != nil {
			return err
		}
		if err := c.compileExpr(e.IndexVal); err != nil {
			return err
		}
		c.emit(e, op.GetIndex)
		return nil
	case *ast.ListLiteral:
		for _, el := range e.Elements {
			if err := c.compileExpr(el); err != nil {
				return err
			}
		}
		c.emit(e, op.MakeList, uint16(len(e.Elements)))
		return nil
	case *ast.DictLiteral:
		// spec.md §4.2: "value-then-key interleaving" — each entry
		// compiles its value before its key.
		for _, entry := range e.Entries {
			if err := c.compileExpr(entry.Value); err != nil {
				return err
			}
			if err := c.compileExpr(entry.Key); err != nil {
				return err
			}
		}
		c.emit(e, op.MakeDict, uint16(len(e.Entries)))
		return nil
	case *ast.Lambda:
		fnCode, err := c.compileFunctionBody("<lambda>", e.Params, e.Body, e)
		if err != nil {
			return err
		}
		fn := object.NewFunction("<lambda>", fnCode)
		cidx := c.current.code.AddConstant(fn)
		c.emit(e, op.LoadConst, cidx)
		return nil
	default:
		return c.errAt(expr, "unsupported expression node %T", expr)
	}
}

// compileCall lowers `callee(args...)` per spec.md §4.3's calling
// convention: the callee, then the argument list as one packed List via
// MAKE_LIST, are pushed before CALL.
func (c *Compiler) compileCall(e *ast.Call) error {
	if err := c.compileExpr(e.Callee); err != nil {
		return err
	}
	for _, a := range e.Args {
		if err := c.compileExpr(a); err != nil {
			return err
		}
	}
	c.emit(e, op.MakeList, uint16(len(e.Args)))
	c.emit(e, op.Call)
	return nil
}

func (c *Compiler) compileUnaryOp(e *ast.UnaryOp) error {
	if err := c.compileExpr(e.Operand); err != nil {
		return err
	}
	switch e.Op {
	case "-":
		c.emit(e, op.OpNeg)
	case "not":
		c.emit(e, op.OpNot)
	default:
		return c.errAt(e, "unsupported unary operator %q", e.Op)
	}
	return nil
}

// compileBinaryOp lowers every binary surface operator to its bytecode
// form per spec.md §4.2's operator table. `and`/`or` are lowered as
// short-circuiting jumps rather than opcodes: the authoritative opcode
// table (spec.md §4.3) defines no AND/OR opcode, and groups boolean
// coercion together with JUMP_IF_FALSE (§4.4), so short-circuit control
// flow is the compiler's job, not the VM's.
func (c *Compiler) compileBinaryOp(e *ast.BinaryOp) error {
	switch e.Op {
	case "and":
		return c.compileAnd(e)
	case "or":
		return c.compileOr(e)
	case "<=":
		// a <= b  ==  not (b < a): push operands in reversed order so
		// OP_LT computes `b < a`, then negate.
		return c.compileSimple2(e.Right, e.Left, e, op.OpLt, true)
	case ">=":
		// a >= b  ==  not (b > a)
		return c.compileSimple2(e.Right, e.Left, e, op.OpGt, true)
	}

	bo, ok := binaryOpcodes[e.Op]
	if !ok {
		return c.errAt(e, "unsupported binary operator %q", e.Op)
	}
	return c.compileSimple2(e.Left, e.Right, e, bo.Code, bo.Negate)
}

type binaryOpcode struct {
	Code   op.Code
	Negate bool
}

var binaryOpcodes = map[string]binaryOpcode{
	"+":      {op.OpAdd, false},
	"-":      {op.OpSub, false},
	"*":      {op.OpMul, false},
	"/":      {op.OpDiv, false},
	"%":      {op.OpMod, false},
	"^":      {op.OpPow, false},
	"==":     {op.OpEq, false},
	"!=":     {op.OpEq, true},
	"<":      {op.OpLt, false},
	">":      {op.OpGt, false},
	"in":     {op.OpIn, false},
	"not in": {op.OpIn, true},
	"is":     {op.OpIs, false},
}

// compileSimple2 compiles left then right, emits opcode, and optionally
// negates the result with OP_NOT.
func (c *Compiler) compileSimple2(left, right ast.Expr, node ast.Node, opcode op.Code, negate bool) error {
	if err := c.compileExpr(left); err != nil {
		return err
	}
	if err := c.compileExpr(right); err != nil {
		return err
	}
	c.emit(node, opcode)
	if negate {
		c.emit(node, op.OpNot)
	}
	return nil
}

func (c *Compiler) compileAnd(e *ast.BinaryOp) error {
	if err := c.compileExpr(e.Left); err != nil {
		return err
	}
	c.emit(e, op.CopyTop)
	skip := c.emit(e, op.JumpIfFalse, placeholder)
	c.emit(e, op.PopTop)
	if err := c.compileExpr(e.Right); err != nil {
		return err
	}
	c.patchOperand(skip, 0, c.here())
	return nil
}

func (c *Compiler) compileOr(e *ast.BinaryOp) error {
	if err := c.compileExpr(e.Left); err != nil {
		return err
	}
	c.emit(e, op.CopyTop)
	notFalse := c.emit(e, op.JumpIfFalse, placeholder)
	skipRight := c.emit(e, op.Jump, placeholder)
	c.patchOperand(notFalse, 0, c.here())
	c.emit(e, op.PopTop)
	if err := c.compileExpr(e.Right); err != nil {
		return err
	}
	c.patchOperand(skipRight, 0, c.here())
	return nil
}
