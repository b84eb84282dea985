// Package parser implements a recursive-descent parser over the token
// stream produced by lexer, building the ast package's node set per the
// grammar and operator-precedence table of spec.md §6. Package
// organization (one parser struct, curr/peek token lookahead, per-
// construct parse methods) follows the teacher's parser package.
package parser

import (
	"fmt"

	"github.com/kiz-lang/kiz/ast"
	"github.com/kiz-lang/kiz/lexer"
	"github.com/kiz-lang/kiz/token"
)

// Parser turns a token stream into an *ast.Program.
type Parser struct {
	l    *lexer.Lexer
	curr token.Token
	peek token.Token

	errors []error
}

// New creates a Parser reading tokens from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.next()
	p.next()
	return p
}

// ParseString is a convenience entry point: lex and parse src in one step.
func ParseString(src string) (*ast.Program, error) {
	return New(lexer.New(src)).ParseProgram()
}

func (p *Parser) next() {
	p.curr = p.peek
	p.peek = p.l.Next()
}

// Errors returns every error recorded while parsing.
func (p *Parser) Errors() []error { return p.errors }

func (p *Parser) errorf(pos token.Position, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	p.errors = append(p.errors, fmt.Errorf("%d:%d: %s", pos.Line, pos.Column, msg))
}

func (p *Parser) expect(t token.Type) token.Token {
	if p.curr.Type != t {
		p.errorf(p.curr.Pos, "expected %s, got %s (%q)", t, p.curr.Type, p.curr.Literal)
		tok := p.curr
		return tok
	}
	tok := p.curr
	p.next()
	return tok
}

// skipSemicolons consumes zero or more `;` tokens. `;` is an optional
// statement separator, not a terminator: `var x = 1;;; var y = 2` and
// `var x = 1\nvar y = 2` parse identically.
func (p *Parser) skipSemicolons() {
	for p.curr.Type == token.SEMICOLON {
		p.next()
	}
}

// ParseProgram parses an entire module into a Program node. On any
// syntax error, parsing stops and the first located error is reported
// via Errors(), per spec.md §7 ("a single well-located message suffices").
func (p *Parser) ParseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	p.skipSemicolons()
	for p.curr.Type != token.EOF {
		stmt := p.parseStatement()
		if len(p.errors) > 0 {
			return nil, p.errors[0]
		}
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		p.skipSemicolons()
	}
	return prog, nil
}

func (p *Parser) parseStatement() ast.Stmt {
	switch p.curr.Type {
	case token.VAR:
		return p.parseVarDecl()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.BREAK:
		tok := p.curr
		p.next()
		return &ast.Break{Token: tok}
	case token.CONTINUE:
		tok := p.curr
		p.next()
		return &ast.Continue{Token: tok}
	case token.RETURN:
		return p.parseReturn()
	case token.IMPORT:
		return p.parseImport()
	case token.FUNC:
		if p.peek.Type == token.IDENT {
			return p.parseFuncDecl()
		}
	}
	return p.parseSimpleOrExprStatement()
}

func (p *Parser) parseVarDecl() ast.Stmt {
	tok := p.curr
	p.next()
	name := &ast.Ident{Token: p.curr, Name: p.curr.Literal}
	p.expect(token.IDENT)
	p.expect(token.ASSIGN)
	value := p.parseExpression(LOWEST)
	return &ast.VarDecl{Token: tok, Name: name, Value: value}
}

// parseSimpleOrExprStatement disambiguates `name = expr`, `recv.name = expr`,
// `recv[idx] = expr`, and a bare expression statement: all begin by parsing
// a full expression, then checking whether `=` follows.
func (p *Parser) parseSimpleOrExprStatement() ast.Stmt {
	tok := p.curr
	expr := p.parseExpression(LOWEST)
	if p.curr.Type == token.ASSIGN {
		p.next()
		value := p.parseExpression(LOWEST)
		switch target := expr.(type) {
		case *ast.Ident:
			return &ast.Assign{Token: tok, Name: target, Value: value}
		case *ast.AttrGet:
			return &ast.AttrAssign{Token: tok, Receiver: target.Receiver, Name: target.Name, Value: value}
		case *ast.Index:
			return &ast.IndexAssign{Token: tok, Receiver: target.Receiver, Index: target.IndexVal, Value: value}
		default:
			p.errorf(tok.Pos, "invalid assignment target")
			return &ast.ExprStmt{Token: tok, Value: expr}
		}
	}
	return &ast.ExprStmt{Token: tok, Value: expr}
}

// parseBlock parses statements until one of the given terminator keywords
// is seen. The terminator itself is not consumed.
func (p *Parser) parseBlock(terminators ...token.Type) *ast.Block {
	block := &ast.Block{Token: p.curr}
	isTerm := func(t token.Type) bool {
		for _, term := range terminators {
			if t == term {
				return true
			}
		}
		return false
	}
	p.skipSemicolons()
	for p.curr.Type != token.EOF && !isTerm(p.curr.Type) {
		stmt := p.parseStatement()
		if len(p.errors) > 0 {
			return block
		}
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.skipSemicolons()
	}
	return block
}

func (p *Parser) parseIf() ast.Stmt {
	tok := p.curr
	p.next()
	cond := p.parseExpression(LOWEST)
	then := p.parseBlock(token.ELSE, token.END)
	var elseBlock *ast.Block
	if p.curr.Type == token.ELSE {
		p.next()
		elseBlock = p.parseBlock(token.END)
	}
	p.expect(token.END)
	return &ast.If{Token: tok, Condition: cond, Then: then, Else: elseBlock}
}

func (p *Parser) parseWhile() ast.Stmt {
	tok := p.curr
	p.next()
	cond := p.parseExpression(LOWEST)
	body := p.parseBlock(token.END)
	p.expect(token.END)
	return &ast.While{Token: tok, Condition: cond, Body: body}
}

func (p *Parser) parseReturn() ast.Stmt {
	tok := p.curr
	p.next()
	if p.isStatementBoundary() {
		return &ast.Return{Token: tok}
	}
	value := p.parseExpression(LOWEST)
	return &ast.Return{Token: tok, Value: value}
}

// isStatementBoundary reports whether the current token cannot begin an
// expression, used to detect a bare `return` with no value.
func (p *Parser) isStatementBoundary() bool {
	switch p.curr.Type {
	case token.END, token.ELSE, token.EOF, token.SEMICOLON:
		return true
	}
	return false
}

func (p *Parser) parseImport() ast.Stmt {
	tok := p.curr
	p.next()
	name := p.curr.Literal
	p.expect(token.IDENT)
	return &ast.Import{Token: tok, Name: name}
}

func (p *Parser) parseParams() []*ast.Ident {
	p.expect(token.LPAREN)
	var params []*ast.Ident
	for p.curr.Type != token.RPAREN && p.curr.Type != token.EOF {
		params = append(params, &ast.Ident{Token: p.curr, Name: p.curr.Literal})
		p.expect(token.IDENT)
		if p.curr.Type == token.COMMA {
			p.next()
		}
	}
	p.expect(token.RPAREN)
	return params
}

func (p *Parser) parseFuncDecl() ast.Stmt {
	tok := p.curr
	p.next()
	name := &ast.Ident{Token: p.curr, Name: p.curr.Literal}
	p.expect(token.IDENT)
	params := p.parseParams()
	body := p.parseBlock(token.END)
	p.expect(token.END)
	return &ast.FuncDecl{Token: tok, Name: name, Params: params, Body: body}
}
