// Package parser turns Puffin source text into an ast.Block via a
// hand-written, two-token-lookahead recursive-descent/Pratt parser,
// grounded on the teacher's lexer-driven token stream but with its own
// expression grammar (see ast package doc).
package parser

import (
	"fmt"
	"strconv"

	"puffin/ast"
	"puffin/value"
)

func parseFloat(lit string) (float64, error) {
	return strconv.ParseFloat(lit, 64)
}

// Parser consumes a token stream and builds an ast.Block.
type Parser struct {
	lex *Lexer

	cur  Token
	peek Token
}

// New creates a Parser over src.
func New(src string) *Parser {
	p := &Parser{lex: NewLexer(src)}
	p.next()
	p.next()
	return p
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.lex.NextToken()
}

func (p *Parser) curIs(t TokenType) bool  { return p.cur.Type == t }
func (p *Parser) peekIs(t TokenType) bool { return p.peek.Type == t }

func (p *Parser) pos() ast.Position {
	return ast.Position{Line: p.cur.Position.Line, Column: p.cur.Position.Column}
}

func (p *Parser) errorf(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return value.NewError(value.ParseError, "line %d:%d: %s", p.cur.Position.Line, p.cur.Position.Column, msg)
}

func (p *Parser) expect(t TokenType) (Token, error) {
	if !p.curIs(t) {
		return Token{}, p.errorf("expected %s, got %s (%q)", t, p.cur.Type, p.cur.Literal)
	}
	tok := p.cur
	p.next()
	return tok, nil
}

// ParseProgram parses a whole source file as a top-level block of
// statements (spec §3.3: a program is a sequence of statements).
func (p *Parser) ParseProgram() (*ast.Block, error) {
	block := &ast.Block{}
	for !p.curIs(TOKEN_EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, stmt)
	}
	return block, nil
}

// ---- statements ----

func (p *Parser) parseStatement() (ast.Stmt, error) {
	switch p.cur.Type {
	case TOKEN_LBRACE:
		return p.parseBlock()
	case TOKEN_IF:
		return p.parseIf()
	case TOKEN_WHILE:
		return p.parseWhile()
	case TOKEN_FOR:
		return p.parseFor()
	case TOKEN_RETURN:
		return p.parseReturn()
	default:
		return p.parseSimpleStatement()
	}
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	pos := p.pos()
	if _, err := p.expect(TOKEN_LBRACE); err != nil {
		return nil, err
	}
	block := &ast.Block{Position: pos}
	for !p.curIs(TOKEN_RBRACE) && !p.curIs(TOKEN_EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, stmt)
	}
	if _, err := p.expect(TOKEN_RBRACE); err != nil {
		return nil, err
	}
	return block, nil
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	pos := p.pos()
	p.next() // consume 'if'
	if _, err := p.expect(TOKEN_LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TOKEN_RPAREN); err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStmt{Position: pos, Cond: cond, Then: then}
	if p.curIs(TOKEN_ELSE) {
		p.next()
		if p.curIs(TOKEN_IF) {
			elseIf, err := p.parseIf()
			if err != nil {
				return nil, err
			}
			stmt.Else = &ast.Block{Stmts: []ast.Stmt{elseIf}}
		} else {
			elseBlock, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			stmt.Else = elseBlock
		}
	}
	return stmt, nil
}

func (p *Parser) parseWhile() (ast.Stmt, error) {
	pos := p.pos()
	p.next() // consume 'while'
	if _, err := p.expect(TOKEN_LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TOKEN_RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Position: pos, Cond: cond, Body: body}, nil
}

// parseFor handles both C-style `for (init; cond; step) {}` and
// `for (name in expr) {}` (spec §3.3).
func (p *Parser) parseFor() (ast.Stmt, error) {
	pos := p.pos()
	p.next() // consume 'for'
	if _, err := p.expect(TOKEN_LPAREN); err != nil {
		return nil, err
	}

	if p.curIs(TOKEN_IDENT) && p.peekIs(TOKEN_IN) {
		name := p.cur.Literal
		p.next() // ident
		p.next() // 'in'
		iter, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TOKEN_RPAREN); err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &ast.ForInStmt{Position: pos, Name: name, Iter: iter, Body: body}, nil
	}

	var init ast.Stmt
	var err error
	if !p.curIs(TOKEN_SEMI) {
		init, err = p.parseSimpleStatementNoSemi()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(TOKEN_SEMI); err != nil {
		return nil, err
	}

	var cond ast.Expr
	if !p.curIs(TOKEN_SEMI) {
		cond, err = p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(TOKEN_SEMI); err != nil {
		return nil, err
	}

	var step ast.Stmt
	if !p.curIs(TOKEN_RPAREN) {
		step, err = p.parseSimpleStatementNoSemi()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(TOKEN_RPAREN); err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.ForStmt{Position: pos, Init: init, Cond: cond, Step: step, Body: body}, nil
}

func (p *Parser) parseReturn() (ast.Stmt, error) {
	pos := p.pos()
	p.next() // consume 'return'
	stmt := &ast.ReturnStmt{Position: pos}
	if !p.curIs(TOKEN_SEMI) {
		val, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		stmt.Value = val
	}
	if _, err := p.expect(TOKEN_SEMI); err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseSimpleStatement parses an assignment or bare expression statement
// terminated by ';'.
func (p *Parser) parseSimpleStatement() (ast.Stmt, error) {
	stmt, err := p.parseSimpleStatementNoSemi()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TOKEN_SEMI); err != nil {
		return nil, err
	}
	return stmt, nil
}

var augOps = map[TokenType]ast.Operator{
	TOKEN_PLUS_EQ:    ast.OpAdd,
	TOKEN_MINUS_EQ:   ast.OpSub,
	TOKEN_STAR_EQ:    ast.OpMul,
	TOKEN_SLASH_EQ:   ast.OpDiv,
	TOKEN_PERCENT_EQ: ast.OpMod,
}

func (p *Parser) parseSimpleStatementNoSemi() (ast.Stmt, error) {
	pos := p.pos()
	expr, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}
	if p.curIs(TOKEN_ASSIGN) {
		p.next()
		val, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		return &ast.AssignStmt{Position: pos, Target: expr, Value: val}, nil
	}
	if op, ok := augOps[p.cur.Type]; ok {
		p.next()
		val, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		return &ast.AssignStmt{Position: pos, Target: expr, AugOp: op, Value: val}, nil
	}
	return &ast.ExprStmt{Position: pos, Expr: expr}, nil
}

// ---- expressions (precedence climbing) ----

type precedence int

const (
	precLowest precedence = iota
	precOr
	precAnd
	precCompare
	precAdditive
	precMultiplicative
	precUnary
	precPostfix
)

var binPrec = map[TokenType]precedence{
	TOKEN_OR:      precOr,
	TOKEN_AND:     precAnd,
	TOKEN_LT:      precCompare,
	TOKEN_LE:      precCompare,
	TOKEN_GT:      precCompare,
	TOKEN_GE:      precCompare,
	TOKEN_EQ:      precCompare,
	TOKEN_NE:      precCompare,
	TOKEN_PLUS:    precAdditive,
	TOKEN_MINUS:   precAdditive,
	TOKEN_STAR:    precMultiplicative,
	TOKEN_SLASH:   precMultiplicative,
	TOKEN_PERCENT: precMultiplicative,
}

var binOps = map[TokenType]ast.Operator{
	TOKEN_OR:      ast.OpOr,
	TOKEN_AND:     ast.OpAnd,
	TOKEN_LT:      ast.OpLt,
	TOKEN_LE:      ast.OpLe,
	TOKEN_GT:      ast.OpGt,
	TOKEN_GE:      ast.OpGe,
	TOKEN_EQ:      ast.OpEq,
	TOKEN_NE:      ast.OpNe,
	TOKEN_PLUS:    ast.OpAdd,
	TOKEN_MINUS:   ast.OpSub,
	TOKEN_STAR:    ast.OpMul,
	TOKEN_SLASH:   ast.OpDiv,
	TOKEN_PERCENT: ast.OpMod,
}

// parseExpression implements precedence climbing: every binary operator is
// left-associative (spec §3.3 Design Note), so the right operand is parsed
// at the operator's own precedence and that call's loop stops at any
// operator that does not bind strictly tighter (opPrec <= prec), leaving
// equal-precedence operators to this loop.
func (p *Parser) parseExpression(prec precedence) (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		opPrec, ok := binPrec[p.cur.Type]
		if !ok || opPrec <= prec {
			break
		}
		op := binOps[p.cur.Type]
		pos := p.pos()
		p.next()
		right, err := p.parseExpression(opPrec)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Position: pos, Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	switch p.cur.Type {
	case TOKEN_MINUS:
		pos := p.pos()
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Position: pos, Op: ast.OpNeg, Operand: operand}, nil
	case TOKEN_NOT:
		pos := p.pos()
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Position: pos, Op: ast.OpNot, Operand: operand}, nil
	default:
		return p.parsePostfix()
	}
}

// parsePostfix handles chained call/subscript/dot suffixes, e.g.
// `f(1)[0].x(2)`.
func (p *Parser) parsePostfix() (ast.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur.Type {
		case TOKEN_LPAREN:
			pos := p.pos()
			p.next()
			args, err := p.parseExprList(TOKEN_RPAREN)
			if err != nil {
				return nil, err
			}
			expr = &ast.Call{Position: pos, Recv: expr, Args: args}
		case TOKEN_LBRACKET:
			pos := p.pos()
			p.next()
			idx, err := p.parseExpression(precLowest)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TOKEN_RBRACKET); err != nil {
				return nil, err
			}
			expr = &ast.Subscript{Position: pos, Recv: expr, Index: idx}
		case TOKEN_DOT:
			pos := p.pos()
			p.next()
			field, err := p.expect(TOKEN_IDENT)
			if err != nil {
				return nil, err
			}
			expr = &ast.Dot{Position: pos, Recv: expr, Field: field.Literal}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parseExprList(end TokenType) ([]ast.Expr, error) {
	var list []ast.Expr
	if p.curIs(end) {
		p.next()
		return list, nil
	}
	for {
		e, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
		if p.curIs(TOKEN_COMMA) {
			p.next()
			continue
		}
		break
	}
	if _, err := p.expect(end); err != nil {
		return nil, err
	}
	return list, nil
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	pos := p.pos()
	switch p.cur.Type {
	case TOKEN_NUM:
		lit := p.cur.Literal
		p.next()
		n, err := parseFloat(lit)
		if err != nil {
			return nil, p.errorf("invalid number literal %q", lit)
		}
		return &ast.NumLit{Position: pos, Value: n}, nil

	case TOKEN_STRING:
		lit := p.cur.Literal
		p.next()
		return &ast.StringLit{Position: pos, Value: lit}, nil

	case TOKEN_NULL:
		p.next()
		return &ast.NullLit{Position: pos}, nil

	case TOKEN_IDENT:
		name := p.cur.Literal
		p.next()
		return &ast.Name{Position: pos, Ident: name}, nil

	case TOKEN_FN:
		return p.parseFunctionLit(pos)

	case TOKEN_LBRACKET:
		return p.parseArrayExpr(pos)

	case TOKEN_LBRACE:
		return p.parseStructureLit(pos)

	case TOKEN_LPAREN:
		// Parentheses are erased at parse time (no ast.ParenExpr node):
		// the inner expression is returned directly.
		p.next()
		inner, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TOKEN_RPAREN); err != nil {
			return nil, err
		}
		return inner, nil

	default:
		return nil, p.errorf("unexpected token %s (%q)", p.cur.Type, p.cur.Literal)
	}
}

// parseFunctionLit parses `fn(params) { ... }` and the sugar
// `fn(params) => expr`, desugaring the latter into an implicit return
// (spec §3.3 Design Note).
func (p *Parser) parseFunctionLit(pos ast.Position) (ast.Expr, error) {
	p.next() // consume 'fn'
	if _, err := p.expect(TOKEN_LPAREN); err != nil {
		return nil, err
	}
	var params []string
	if !p.curIs(TOKEN_RPAREN) {
		for {
			id, err := p.expect(TOKEN_IDENT)
			if err != nil {
				return nil, err
			}
			params = append(params, id.Literal)
			if p.curIs(TOKEN_COMMA) {
				p.next()
				continue
			}
			break
		}
	}
	if _, err := p.expect(TOKEN_RPAREN); err != nil {
		return nil, err
	}

	if p.curIs(TOKEN_FATARROW) {
		p.next()
		expr, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		body := &ast.Block{
			Position: pos,
			Stmts:    []ast.Stmt{&ast.ReturnStmt{Position: pos, Value: expr}},
		}
		return &ast.FunctionLit{Position: pos, Params: params, Body: body}, nil
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionLit{Position: pos, Params: params, Body: body}, nil
}

// parseArrayExpr parses the three array forms (spec §3.3):
//
//	[e1, e2, ...]   literal
//	[n]             size-initialized, all-null
//	[lo:hi]         range
func (p *Parser) parseArrayExpr(pos ast.Position) (ast.Expr, error) {
	p.next() // consume '['
	if p.curIs(TOKEN_RBRACKET) {
		p.next()
		return &ast.ArraySized{Position: pos, Size: &ast.NumLit{Position: pos, Value: 0}}, nil
	}

	first, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}

	if p.curIs(TOKEN_COLON) {
		p.next()
		hi, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TOKEN_RBRACKET); err != nil {
			return nil, err
		}
		return &ast.ArrayRange{Position: pos, Lo: first, Hi: hi}, nil
	}

	if p.curIs(TOKEN_RBRACKET) {
		p.next()
		return &ast.ArraySized{Position: pos, Size: first}, nil
	}

	elems := []ast.Expr{first}
	for p.curIs(TOKEN_COMMA) {
		p.next()
		if p.curIs(TOKEN_RBRACKET) {
			break
		}
		e, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	if _, err := p.expect(TOKEN_RBRACKET); err != nil {
		return nil, err
	}
	return &ast.ArrayLit{Position: pos, Elems: elems}, nil
}

func (p *Parser) parseStructureLit(pos ast.Position) (ast.Expr, error) {
	p.next() // consume '{'
	lit := &ast.StructureLit{Position: pos}
	for !p.curIs(TOKEN_RBRACE) {
		name, err := p.expect(TOKEN_IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TOKEN_COLON); err != nil {
			return nil, err
		}
		val, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		lit.Fields = append(lit.Fields, ast.StructureField{Name: name.Literal, Value: val})
		if p.curIs(TOKEN_COMMA) {
			p.next()
			continue
		}
		break
	}
	if _, err := p.expect(TOKEN_RBRACE); err != nil {
		return nil, err
	}
	return lit, nil
}
