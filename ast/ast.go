// Package ast defines the abstract syntax tree node set consumed by the
// compiler, per spec.md §4.2 ("Inputs. An AST whose nodes partition cleanly
// into statements and expressions."). Node shape follows the teacher's ast
// package (Node/Stmt/Expr interfaces, Pos/End/String per node).
package ast

import "github.com/kiz-lang/kiz/token"

// Node is a piece of the syntax tree with source position information.
type Node interface {
	Pos() token.Position
	String() string
}

// Stmt is a statement node: causes effects, does not itself evaluate.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression node: evaluates to a value.
type Expr interface {
	Node
	exprNode()
}

// Program is the root node: a module's top-level statement sequence.
type Program struct {
	Statements []Stmt
}

func (p *Program) Pos() token.Position {
	if len(p.Statements) == 0 {
		return token.Position{}
	}
	return p.Statements[0].Pos()
}

func (p *Program) String() string {
	out := ""
	for _, s := range p.Statements {
		out += s.String() + "\n"
	}
	return out
}

// Block is a sequence of statements delimited by the surrounding
// construct (if/while/function body); it is not itself a scope boundary.
type Block struct {
	Token      token.Token
	Statements []Stmt
}

func (b *Block) Pos() token.Position { return b.Token.Pos }
func (b *Block) String() string {
	out := ""
	for _, s := range b.Statements {
		out += s.String() + "; "
	}
	return out
}
