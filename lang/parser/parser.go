// Package parser implements the mini-script recursive-descent parser
// described by the grammar in the language specification: arrow functions
// at the lowest precedence, then logical-or, logical-and, comparisons,
// additive, multiplicative, unary, call/member chains, and primaries.
package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/wbrown/cycles/lang/ast"
	"github.com/wbrown/cycles/lang/lexer"
	"github.com/wbrown/cycles/lang/token"
)

// ErrParse is the sentinel error kind for every lexing/parsing failure.
var ErrParse = errors.New("cycles: parse error")

// Error carries a parse failure's message and 1-based source position.
type Error struct {
	Message   string
	Line, Col int
}

func (e *Error) Error() string {
	return fmt.Sprintf("cycles: parse error: %s at %d:%d", e.Message, e.Line, e.Col)
}

func (e *Error) Unwrap() error { return ErrParse }

// Parser consumes tokens from a Lexer and builds an AST.
type Parser struct {
	lex *lexer.Lexer
	tok token.Token
}

// Parse lexes and parses source into a Program.
func Parse(source string) (prog *ast.Program, err error) {
	lx := lexer.New(source)
	if lexErr := lx.Lex(); lexErr != nil {
		msg := strings.TrimPrefix(lexErr.Error(), "cycles: parse error: ")
		return nil, fmt.Errorf("%w: %s", ErrParse, msg)
	}
	p := &Parser{lex: lx}
	p.advance()

	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(*Error); ok {
				err = pe
				return
			}
			panic(r)
		}
	}()

	stmts := []ast.Stmt{}
	for p.tok.Type != token.EOF {
		stmts = append(stmts, p.parseStmt())
	}
	return &ast.Program{Stmts: stmts}, nil
}

func (p *Parser) advance() {
	p.tok = p.lex.NextToken()
}

func (p *Parser) fail(format string, args ...interface{}) {
	panic(&Error{Message: fmt.Sprintf(format, args...), Line: p.tok.Line, Col: p.tok.Col})
}

func (p *Parser) expect(t token.Type, what string) token.Token {
	if p.tok.Type != t {
		p.fail("expected %s, got %q", what, p.tok.Value)
	}
	tok := p.tok
	p.advance()
	return tok
}

func (p *Parser) at(t token.Type) bool { return p.tok.Type == t }

// --- Statements ------------------------------------------------------------

func (p *Parser) parseStmt() ast.Stmt {
	line, col := p.tok.Line, p.tok.Col
	switch p.tok.Type {
	case token.Let:
		return p.parseLetDecl(line, col)
	case token.Const:
		return p.parseConstDecl(line, col)
	case token.Return:
		return p.parseReturnStmt(line, col)
	case token.Import:
		return p.parseImportStmt(line, col)
	case token.Export:
		return p.parseExportStmt(line, col)
	case token.LBrace:
		return p.parseBlockStmt()
	default:
		x := p.parseExpr()
		p.consumeSemicolon()
		return &ast.ExprStmt{X: x}
	}
}

func (p *Parser) consumeSemicolon() {
	if p.at(token.Semicolon) {
		p.advance()
	}
}

func (p *Parser) parseLetDecl(line, col int) ast.Stmt {
	p.advance() // let
	name := p.expect(token.Ident, "identifier").Value
	var init ast.Expr
	if p.at(token.Assign) {
		p.advance()
		init = p.parseExpr()
	}
	p.consumeSemicolon()
	return &ast.LetDecl{Name: name, Init: init}
}

func (p *Parser) parseConstDecl(line, col int) ast.Stmt {
	p.advance() // const
	name := p.expect(token.Ident, "identifier").Value
	p.expect(token.Assign, "'='")
	init := p.parseExpr()
	p.consumeSemicolon()
	return &ast.ConstDecl{Name: name, Init: init}
}

func (p *Parser) parseReturnStmt(line, col int) ast.Stmt {
	p.advance() // return
	var value ast.Expr
	if !p.at(token.Semicolon) && !p.at(token.RBrace) && !p.at(token.EOF) {
		value = p.parseExpr()
	}
	p.consumeSemicolon()
	return &ast.ReturnStmt{Value: value}
}

func (p *Parser) parseBinding() ast.ImportBinding {
	name := p.expect(token.Ident, "identifier").Value
	alias := name
	if p.at(token.As) {
		p.advance()
		alias = p.expect(token.Ident, "identifier").Value
	}
	return ast.ImportBinding{Name: name, Alias: alias}
}

func (p *Parser) parseImportStmt(line, col int) ast.Stmt {
	p.advance() // import
	stmt := &ast.ImportStmt{}
	if p.at(token.Star) {
		p.advance()
		stmt.Wildcard = true
		if p.at(token.As) {
			p.advance()
			stmt.WildcardName = p.expect(token.Ident, "identifier").Value
		}
	} else {
		p.expect(token.LBrace, "'{'")
		for !p.at(token.RBrace) {
			stmt.Bindings = append(stmt.Bindings, p.parseBinding())
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
		p.expect(token.RBrace, "'}'")
	}
	p.expect(token.From, "'from'")
	stmt.Library = p.expect(token.String, "string").Value
	p.consumeSemicolon()
	return stmt
}

func (p *Parser) parseExportStmt(line, col int) ast.Stmt {
	p.advance() // export
	p.expect(token.LBrace, "'{'")
	stmt := &ast.ExportStmt{}
	for !p.at(token.RBrace) {
		stmt.Bindings = append(stmt.Bindings, p.parseBinding())
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RBrace, "'}'")
	p.consumeSemicolon()
	return stmt
}

func (p *Parser) parseBlockStmt() *ast.BlockStmt {
	p.expect(token.LBrace, "'{'")
	block := &ast.BlockStmt{}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		block.Stmts = append(block.Stmts, p.parseStmt())
	}
	p.expect(token.RBrace, "'}'")
	return block
}

// --- Expressions (precedence climbing) --------------------------------

func (p *Parser) parseExpr() ast.Expr {
	if arrow, ok := p.tryParseArrow(); ok {
		return arrow
	}
	return p.parseLogicalOr()
}

// tryParseArrow looks ahead for `ident =>` or `(params) =>`. The lexer has
// already materialized the full token stream, so backtracking when neither
// form follows is just restoring a saved copy of the lexer's cursor.
func (p *Parser) tryParseArrow() (ast.Expr, bool) {
	line, col := p.tok.Line, p.tok.Col
	if p.at(token.Ident) {
		save := *p.lex
		savedTok := p.tok
		name := p.tok.Value
		p.advance()
		if p.at(token.Arrow) {
			p.advance()
			return p.finishArrow([]string{name}, line, col), true
		}
		*p.lex = save
		p.tok = savedTok
		return nil, false
	}
	if p.at(token.LParen) {
		save := *p.lex
		savedTok := p.tok
		if params, ok := p.tryParseParamList(); ok && p.at(token.Arrow) {
			p.advance()
			return p.finishArrow(params, line, col), true
		}
		*p.lex = save
		p.tok = savedTok
		return nil, false
	}
	return nil, false
}

func (p *Parser) tryParseParamList() ([]string, bool) {
	p.advance() // (
	var params []string
	for !p.at(token.RParen) {
		if !p.at(token.Ident) {
			return nil, false
		}
		params = append(params, p.tok.Value)
		p.advance()
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	if !p.at(token.RParen) {
		return nil, false
	}
	p.advance() // )
	return params, true
}

func (p *Parser) finishArrow(params []string, line, col int) ast.Expr {
	if p.at(token.LBrace) {
		if p.looksLikeObjectLiteral() {
			return &ast.ArrowFunc{Params: params, Body: p.parsePrimary()}
		}
		block := p.parseBlockStmt()
		return &ast.ArrowFunc{Params: params, BlockBody: block.Stmts}
	}
	return &ast.ArrowFunc{Params: params, Body: p.parseExpr()}
}

// looksLikeObjectLiteral disambiguates `{ key: value }` from a block body
// by checking whether `{` is followed by `identifier|string COLON`.
func (p *Parser) looksLikeObjectLiteral() bool {
	save := *p.lex
	savedTok := p.tok
	defer func() { *p.lex = save; p.tok = savedTok }()

	p.advance() // {
	if p.at(token.RBrace) {
		return true // `{}` — empty object literal
	}
	if !p.at(token.Ident) && !p.at(token.String) {
		return false
	}
	p.advance()
	return p.at(token.Colon)
}

func (p *Parser) parseLogicalOr() ast.Expr {
	left := p.parseLogicalAnd()
	for p.at(token.Or) {
		p.advance()
		right := p.parseLogicalAnd()
		left = &ast.BinaryExpr{Op: "||", Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseLogicalAnd() ast.Expr {
	left := p.parseComparison()
	for p.at(token.And) {
		p.advance()
		right := p.parseComparison()
		left = &ast.BinaryExpr{Op: "&&", Left: left, Right: right}
	}
	return left
}

var comparisonOps = map[token.Type]string{
	token.Eq: "==", token.Neq: "!=", token.Lt: "<", token.Lte: "<=",
	token.Gt: ">", token.Gte: ">=",
}

func (p *Parser) parseComparison() ast.Expr {
	left := p.parseAdditive()
	for {
		op, ok := comparisonOps[p.tok.Type]
		if !ok {
			return left
		}
		p.advance()
		right := p.parseAdditive()
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for p.at(token.Plus) || p.at(token.Minus) {
		op := "+"
		if p.at(token.Minus) {
			op = "-"
		}
		p.advance()
		right := p.parseMultiplicative()
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expr {
	left := p.parseUnary()
	for p.at(token.Star) || p.at(token.Slash) || p.at(token.Percent) {
		op := map[token.Type]string{token.Star: "*", token.Slash: "/", token.Percent: "%"}[p.tok.Type]
		p.advance()
		right := p.parseUnary()
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	if p.at(token.Minus) || p.at(token.Plus) || p.at(token.Not) {
		op := p.tok.Value
		p.advance()
		operand := p.parseUnary()
		return &ast.UnaryExpr{Op: op, Operand: operand}
	}
	return p.parseCallOrMember()
}

func (p *Parser) parseCallOrMember() ast.Expr {
	expr := p.parsePrimary()
	for {
		switch {
		case p.at(token.Dot):
			p.advance()
			prop := p.expect(token.Ident, "identifier").Value
			expr = &ast.MemberExpr{Object: expr, Property: prop}
		case p.at(token.LParen):
			p.advance()
			var args []ast.Expr
			for !p.at(token.RParen) {
				args = append(args, p.parseExpr())
				if p.at(token.Comma) {
					p.advance()
					continue
				}
				break
			}
			p.expect(token.RParen, "')'")
			expr = &ast.CallExpr{Callee: expr, Args: args}
		default:
			return expr
		}
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	switch p.tok.Type {
	case token.Number:
		v := parseFloat(p.tok.Value)
		p.advance()
		return &ast.NumberLit{Value: v}
	case token.String:
		v := p.tok.Value
		p.advance()
		return &ast.StringLit{Value: v}
	case token.True, token.False:
		v := p.tok.Type == token.True
		p.advance()
		return &ast.BoolLit{Value: v}
	case token.Null:
		p.advance()
		return &ast.NullLit{}
	case token.Ident:
		v := p.tok.Value
		p.advance()
		return &ast.Ident{Name: v}
	case token.LBracket:
		return p.parseArrayLit()
	case token.LBrace:
		return p.parseObjectLit()
	case token.LParen:
		p.advance()
		e := p.parseExpr()
		p.expect(token.RParen, "')'")
		return e
	default:
		p.fail("unexpected token %q", p.tok.Value)
		return nil
	}
}

func (p *Parser) parseArrayLit() ast.Expr {
	p.advance() // [
	lit := &ast.ArrayLit{}
	for !p.at(token.RBracket) {
		lit.Elements = append(lit.Elements, p.parseExpr())
		if p.at(token.Comma) {
			p.advance()
			if p.at(token.RBracket) {
				break // trailing comma
			}
			continue
		}
		break
	}
	p.expect(token.RBracket, "']'")
	return lit
}

func (p *Parser) parseObjectLit() ast.Expr {
	p.advance() // {
	lit := &ast.ObjectLit{}
	for !p.at(token.RBrace) {
		var key string
		if p.at(token.String) {
			key = p.tok.Value
			p.advance()
		} else {
			key = p.expect(token.Ident, "identifier or string").Value
		}
		p.expect(token.Colon, "':'")
		value := p.parseExpr()
		lit.Properties = append(lit.Properties, ast.ObjectProperty{Key: key, Value: value})
		if p.at(token.Comma) {
			p.advance()
			if p.at(token.RBrace) {
				break // trailing comma
			}
			continue
		}
		break
	}
	p.expect(token.RBrace, "'}'")
	return lit
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
