package ast

import "github.com/kiz-lang/kiz/token"

// Ident is an identifier reference.
type Ident struct {
	Token token.Token
	Name  string
}

func (i *Ident) exprNode()          {}
func (i *Ident) Pos() token.Position { return i.Token.Pos }
func (i *Ident) String() string      { return i.Name }

// IntLiteral is an arbitrary-precision integer literal.
type IntLiteral struct {
	Token token.Token
	Value string // decimal digits, parsed lazily by the compiler via bigrat
}

func (n *IntLiteral) exprNode()          {}
func (n *IntLiteral) Pos() token.Position { return n.Token.Pos }
func (n *IntLiteral) String() string      { return n.Value }

// RationalLiteral is a `numerator/denominator` literal.
type RationalLiteral struct {
	Token token.Token
	Num   string
	Den   string
}

func (n *RationalLiteral) exprNode()          {}
func (n *RationalLiteral) Pos() token.Position { return n.Token.Pos }
func (n *RationalLiteral) String() string      { return n.Num + "/" + n.Den }

// StringLiteral is a double-quoted string literal (byte sequence).
type StringLiteral struct {
	Token token.Token
	Value string
}

func (n *StringLiteral) exprNode()          {}
func (n *StringLiteral) Pos() token.Position { return n.Token.Pos }
func (n *StringLiteral) String() string      { return "\"" + n.Value + "\"" }

// BoolLiteral is `true` or `false`.
type BoolLiteral struct {
	Token token.Token
	Value bool
}

func (n *BoolLiteral) exprNode()          {}
func (n *BoolLiteral) Pos() token.Position { return n.Token.Pos }
func (n *BoolLiteral) String() string {
	if n.Value {
		return "true"
	}
	return "false"
}

// NilLiteral is `nil`.
type NilLiteral struct {
	Token token.Token
}

func (n *NilLiteral) exprNode()          {}
func (n *NilLiteral) Pos() token.Position { return n.Token.Pos }
func (n *NilLiteral) String() string      { return "nil" }

// BinaryOp covers arithmetic, comparison, membership, logical, and
// identity binary operators. The Op field carries the surface-syntax
// operator text; the compiler maps it to an opcode per spec.md §4.2.
type BinaryOp struct {
	Token token.Token
	Op    string
	Left  Expr
	Right Expr
}

func (b *BinaryOp) exprNode()          {}
func (b *BinaryOp) Pos() token.Position { return b.Token.Pos }
func (b *BinaryOp) String() string {
	return "(" + b.Left.String() + " " + b.Op + " " + b.Right.String() + ")"
}

// UnaryOp covers `-x` and `not x`.
type UnaryOp struct {
	Token   token.Token
	Op      string
	Operand Expr
}

func (u *UnaryOp) exprNode()          {}
func (u *UnaryOp) Pos() token.Position { return u.Token.Pos }
func (u *UnaryOp) String() string      { return "(" + u.Op + u.Operand.String() + ")" }

// Call is `callee(args...)`.
type Call struct {
	Token  token.Token
	Callee Expr
	Args   []Expr
}

func (c *Call) exprNode()          {}
func (c *Call) Pos() token.Position { return c.Token.Pos }
func (c *Call) String() string      { return c.Callee.String() + "(...)" }

// AttrGet is `recv.name`.
type AttrGet struct {
	Token    token.Token
	Receiver Expr
	Name     string
}

func (a *AttrGet) exprNode()          {}
func (a *AttrGet) Pos() token.Position { return a.Token.Pos }
func (a *AttrGet) String() string      { return a.Receiver.String() + "." + a.Name }

// Index is `recv[index]`.
type Index struct {
	Token    token.Token
	Receiver Expr
	IndexVal Expr
}

func (i *Index) exprNode()          {}
func (i *Index) Pos() token.Position { return i.Token.Pos }
func (i *Index) String() string      { return i.Receiver.String() + "[" + i.IndexVal.String() + "]" }

// ListLiteral is `[e1, e2, ...]`.
type ListLiteral struct {
	Token    token.Token
	Elements []Expr
}

func (l *ListLiteral) exprNode()          {}
func (l *ListLiteral) Pos() token.Position { return l.Token.Pos }
func (l *ListLiteral) String() string      { return "[...]" }

// DictEntry is one `key: value` pair of a dict literal.
type DictEntry struct {
	Key   Expr
	Value Expr
}

// DictLiteral is `{k1: v1, k2: v2, ...}`.
type DictLiteral struct {
	Token   token.Token
	Entries []DictEntry
}

func (d *DictLiteral) exprNode()          {}
func (d *DictLiteral) Pos() token.Position { return d.Token.Pos }
func (d *DictLiteral) String() string      { return "{...}" }

// Lambda is an anonymous function expression: `func(params) body end`
// used in expression position.
type Lambda struct {
	Token  token.Token
	Params []*Ident
	Body   *Block
}

func (l *Lambda) exprNode()          {}
func (l *Lambda) Pos() token.Position { return l.Token.Pos }
func (l *Lambda) String() string      { return "func(...)" }
