package parser

import (
	"github.com/kiz-lang/kiz/ast"
	"github.com/kiz-lang/kiz/token"
)

// Precedence levels, low to high, per spec.md §6:
//   or; and; not; comparison (non-associative); + - (left); * / % (left);
//   ^ (right); unary -; postfix . [] ().
const (
	LOWEST = iota
	OR
	AND
	NOT
	COMPARE
	ADDSUB
	MULDIV
	POW
	UNARY
	POSTFIX
)

func (p *Parser) parseExpression(minPrec int) ast.Expr {
	return p.parseOr()
}

func (p *Parser) parseOr() ast.Expr {
	left := p.parseAnd()
	for p.curr.Type == token.OR {
		tok := p.curr
		p.next()
		right := p.parseAnd()
		left = &ast.BinaryOp{Token: tok, Op: "or", Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseAnd() ast.Expr {
	left := p.parseNot()
	for p.curr.Type == token.AND {
		tok := p.curr
		p.next()
		right := p.parseNot()
		left = &ast.BinaryOp{Token: tok, Op: "and", Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseNot() ast.Expr {
	if p.curr.Type == token.NOT {
		tok := p.curr
		p.next()
		operand := p.parseNot()
		return &ast.UnaryOp{Token: tok, Op: "not", Operand: operand}
	}
	return p.parseComparison()
}

var comparisonOps = map[token.Type]string{
	token.EQ:     "==",
	token.NOT_EQ: "!=",
	token.LT:     "<",
	token.LT_EQ:  "<=",
	token.GT:     ">",
	token.GT_EQ:  ">=",
}

// parseComparison implements the non-associative comparison tier: at most
// one comparison, membership, or identity operator is consumed.
func (p *Parser) parseComparison() ast.Expr {
	left := p.parseAddSub()
	if op, ok := comparisonOps[p.curr.Type]; ok {
		tok := p.curr
		p.next()
		right := p.parseAddSub()
		return &ast.BinaryOp{Token: tok, Op: op, Left: left, Right: right}
	}
	if p.curr.Type == token.IN {
		tok := p.curr
		p.next()
		right := p.parseAddSub()
		return &ast.BinaryOp{Token: tok, Op: "in", Left: left, Right: right}
	}
	if p.curr.Type == token.NOT && p.peek.Type == token.IN {
		tok := p.curr
		p.next()
		p.next()
		right := p.parseAddSub()
		return &ast.BinaryOp{Token: tok, Op: "not in", Left: left, Right: right}
	}
	if p.curr.Type == token.IS {
		tok := p.curr
		p.next()
		right := p.parseAddSub()
		return &ast.BinaryOp{Token: tok, Op: "is", Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseAddSub() ast.Expr {
	left := p.parseMulDiv()
	for p.curr.Type == token.PLUS || p.curr.Type == token.MINUS {
		tok := p.curr
		op := string(tok.Type)
		p.next()
		right := p.parseMulDiv()
		left = &ast.BinaryOp{Token: tok, Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseMulDiv() ast.Expr {
	left := p.parsePow()
	for p.curr.Type == token.STAR || p.curr.Type == token.SLASH || p.curr.Type == token.PERCENT {
		tok := p.curr
		op := string(tok.Type)
		p.next()
		right := p.parsePow()
		left = &ast.BinaryOp{Token: tok, Op: op, Left: left, Right: right}
	}
	return left
}

// parsePow is right-associative: `2 ^ 3 ^ 2` parses as `2 ^ (3 ^ 2)`.
func (p *Parser) parsePow() ast.Expr {
	left := p.parseUnary()
	if p.curr.Type == token.CARET {
		tok := p.curr
		p.next()
		right := p.parsePow()
		return &ast.BinaryOp{Token: tok, Op: "^", Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	if p.curr.Type == token.MINUS {
		tok := p.curr
		p.next()
		operand := p.parseUnary()
		return &ast.UnaryOp{Token: tok, Op: "-", Operand: operand}
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ast.Expr {
	left := p.parsePrimary()
	for {
		switch p.curr.Type {
		case token.DOT:
			tok := p.curr
			p.next()
			name := p.curr.Literal
			p.expect(token.IDENT)
			left = &ast.AttrGet{Token: tok, Receiver: left, Name: name}
		case token.LPAREN:
			tok := p.curr
			p.next()
			var args []ast.Expr
			for p.curr.Type != token.RPAREN && p.curr.Type != token.EOF {
				args = append(args, p.parseExpression(LOWEST))
				if p.curr.Type == token.COMMA {
					p.next()
				}
			}
			p.expect(token.RPAREN)
			left = &ast.Call{Token: tok, Callee: left, Args: args}
		case token.LBRACKET:
			tok := p.curr
			p.next()
			idx := p.parseExpression(LOWEST)
			p.expect(token.RBRACKET)
			left = &ast.Index{Token: tok, Receiver: left, IndexVal: idx}
		default:
			return left
		}
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	switch p.curr.Type {
	case token.INT:
		tok := p.curr
		p.next()
		return &ast.IntLiteral{Token: tok, Value: tok.Literal}
	case token.RAT:
		tok := p.curr
		p.next()
		num, den := splitRat(tok.Literal)
		return &ast.RationalLiteral{Token: tok, Num: num, Den: den}
	case token.STRING:
		tok := p.curr
		p.next()
		return &ast.StringLiteral{Token: tok, Value: tok.Literal}
	case token.TRUE:
		tok := p.curr
		p.next()
		return &ast.BoolLiteral{Token: tok, Value: true}
	case token.FALSE:
		tok := p.curr
		p.next()
		return &ast.BoolLiteral{Token: tok, Value: false}
	case token.NIL:
		tok := p.curr
		p.next()
		return &ast.NilLiteral{Token: tok}
	case token.IDENT:
		tok := p.curr
		p.next()
		return &ast.Ident{Token: tok, Name: tok.Literal}
	case token.LPAREN:
		p.next()
		expr := p.parseExpression(LOWEST)
		p.expect(token.RPAREN)
		return expr
	case token.LBRACKET:
		return p.parseListLiteral()
	case token.LBRACE:
		return p.parseDictLiteral()
	case token.FUNC:
		return p.parseLambda()
	default:
		tok := p.curr
		p.errorf(tok.Pos, "unexpected token %s (%q) in expression", tok.Type, tok.Literal)
		p.next()
		return &ast.NilLiteral{Token: tok}
	}
}

func (p *Parser) parseListLiteral() ast.Expr {
	tok := p.curr
	p.next()
	var elems []ast.Expr
	for p.curr.Type != token.RBRACKET && p.curr.Type != token.EOF {
		elems = append(elems, p.parseExpression(LOWEST))
		if p.curr.Type == token.COMMA {
			p.next()
		}
	}
	p.expect(token.RBRACKET)
	return &ast.ListLiteral{Token: tok, Elements: elems}
}

func (p *Parser) parseDictLiteral() ast.Expr {
	tok := p.curr
	p.next()
	var entries []ast.DictEntry
	for p.curr.Type != token.RBRACE && p.curr.Type != token.EOF {
		key := p.parseExpression(LOWEST)
		p.expect(token.COLON)
		value := p.parseExpression(LOWEST)
		entries = append(entries, ast.DictEntry{Key: key, Value: value})
		if p.curr.Type == token.COMMA {
			p.next()
		}
	}
	p.expect(token.RBRACE)
	return &ast.DictLiteral{Token: tok, Entries: entries}
}

func (p *Parser) parseLambda() ast.Expr {
	tok := p.curr
	p.next()
	params := p.parseParams()
	body := p.parseBlock(token.END)
	p.expect(token.END)
	return &ast.Lambda{Token: tok, Params: params, Body: body}
}

func splitRat(lit string) (string, string) {
	for i := 0; i < len(lit); i++ {
		if lit[i] == '/' {
			return lit[:i], lit[i+1:]
		}
	}
	return lit, "1"
}
