package ast

import "github.com/kiz-lang/kiz/token"

// VarDecl is `var name = expr`: always introduces a new local binding,
// per spec.md §9 Open Question 1's resolved reading (declaration is local).
type VarDecl struct {
	Token token.Token // the VAR token
	Name  *Ident
	Value Expr
}

func (d *VarDecl) stmtNode()            {}
func (d *VarDecl) Pos() token.Position  { return d.Token.Pos }
func (d *VarDecl) String() string       { return "var " + d.Name.String() + " = " + d.Value.String() }

// Assign is `name = expr`: rebinds the nearest enclosing scope that
// already defines name, per spec.md §9 Open Question 1.
type Assign struct {
	Token token.Token
	Name  *Ident
	Value Expr
}

func (a *Assign) stmtNode()           {}
func (a *Assign) Pos() token.Position { return a.Token.Pos }
func (a *Assign) String() string      { return a.Name.String() + " = " + a.Value.String() }

// AttrAssign is `recv.name = expr`.
type AttrAssign struct {
	Token    token.Token
	Receiver Expr
	Name     string
	Value    Expr
}

func (a *AttrAssign) stmtNode()           {}
func (a *AttrAssign) Pos() token.Position { return a.Token.Pos }
func (a *AttrAssign) String() string {
	return a.Receiver.String() + "." + a.Name + " = " + a.Value.String()
}

// IndexAssign is `recv[index] = expr`, lowered by the compiler to the
// dedicated SET_INDEX opcode (kept as a distinct AST node so the parser's
// grammar in spec.md §6 `a[b]` is representable on the left of `=`).
type IndexAssign struct {
	Token    token.Token
	Receiver Expr
	Index    Expr
	Value    Expr
}

func (a *IndexAssign) stmtNode()           {}
func (a *IndexAssign) Pos() token.Position { return a.Token.Pos }
func (a *IndexAssign) String() string {
	return a.Receiver.String() + "[" + a.Index.String() + "] = " + a.Value.String()
}

// ExprStmt wraps an expression used as a statement.
type ExprStmt struct {
	Token token.Token
	Value Expr
}

func (e *ExprStmt) stmtNode()           {}
func (e *ExprStmt) Pos() token.Position { return e.Token.Pos }
func (e *ExprStmt) String() string      { return e.Value.String() }

// If is `if cond thenBlock else elseBlock end`.
type If struct {
	Token     token.Token
	Condition Expr
	Then      *Block
	Else      *Block // nil if absent
}

func (i *If) stmtNode()           {}
func (i *If) Pos() token.Position { return i.Token.Pos }
func (i *If) String() string      { return "if " + i.Condition.String() + " " + i.Then.String() }

// While is `while cond body end`.
type While struct {
	Token     token.Token
	Condition Expr
	Body      *Block
}

func (w *While) stmtNode()           {}
func (w *While) Pos() token.Position { return w.Token.Pos }
func (w *While) String() string      { return "while " + w.Condition.String() + " " + w.Body.String() }

// Break is legal only inside a while body (spec.md §4.2).
type Break struct {
	Token token.Token
}

func (b *Break) stmtNode()           {}
func (b *Break) Pos() token.Position { return b.Token.Pos }
func (b *Break) String() string      { return "break" }

// Continue is legal only inside a while body (spec.md §4.2).
type Continue struct {
	Token token.Token
}

func (c *Continue) stmtNode()           {}
func (c *Continue) Pos() token.Position { return c.Token.Pos }
func (c *Continue) String() string      { return "continue" }

// Return is `return expr` or bare `return` (implicitly returns Nil).
type Return struct {
	Token token.Token
	Value Expr // nil if bare return
}

func (r *Return) stmtNode()           {}
func (r *Return) Pos() token.Position { return r.Token.Pos }
func (r *Return) String() string {
	if r.Value == nil {
		return "return"
	}
	return "return " + r.Value.String()
}

// Import is `import name`. Resolution semantics are in SPEC_FULL.md §6.
type Import struct {
	Token token.Token
	Name  string
}

func (i *Import) stmtNode()           {}
func (i *Import) Pos() token.Position { return i.Token.Pos }
func (i *Import) String() string      { return "import " + i.Name }

// FuncDecl is a named function definition statement: `func name(params) body end`.
type FuncDecl struct {
	Token  token.Token
	Name   *Ident
	Params []*Ident
	Body   *Block
}

func (f *FuncDecl) stmtNode()           {}
func (f *FuncDecl) Pos() token.Position { return f.Token.Pos }
func (f *FuncDecl) String() string      { return "func " + f.Name.String() + "(...)" }
