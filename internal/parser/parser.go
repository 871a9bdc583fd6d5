// Package parser implements a Pratt (precedence-climbing) expression parser
// over the token stream produced by internal/scanner, building the
// internal/ast tree internal/compiler consumes.
package parser

import (
	"fmt"
	"strconv"

	"github.com/binoyjayan/p2sh-go/internal/ast"
	"github.com/binoyjayan/p2sh-go/internal/scanner"
	"github.com/binoyjayan/p2sh-go/internal/token"
)

// precedence levels, lowest to highest.
const (
	_ int = iota
	LOWEST
	ASSIGNMENT
	LOGICAL_OR
	LOGICAL_AND
	EQUALS
	LESSGREATER
	BITOR
	BITXOR
	BITAND
	SHIFT
	SUM
	PRODUCT
	PREFIX
	CALL
	INDEX
	DOT
)

var precedences = map[token.Type]int{
	token.ASSIGN:   ASSIGNMENT,
	token.OR:       LOGICAL_OR,
	token.AND:      LOGICAL_AND,
	token.EQ:       EQUALS,
	token.NOTEQ:    EQUALS,
	token.LT:       LESSGREATER,
	token.GT:       LESSGREATER,
	token.LTEQ:     LESSGREATER,
	token.GTEQ:     LESSGREATER,
	token.PIPE:     BITOR,
	token.CARET:    BITXOR,
	token.AMP:      BITAND,
	token.LSHIFT:   SHIFT,
	token.RSHIFT:   SHIFT,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.SLASH:    PRODUCT,
	token.STAR:     PRODUCT,
	token.PERCENT:  PRODUCT,
	token.LPAREN:   CALL,
	token.LBRACKET: INDEX,
	token.DOT:      DOT,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Parser builds an ast.Program from a token stream.
type Parser struct {
	s *scanner.Scanner

	cur  token.Token
	peek token.Token

	errors []string

	prefixFns map[token.Type]prefixParseFn
	infixFns  map[token.Type]infixParseFn
}

// New creates a Parser reading from s.
func New(s *scanner.Scanner) *Parser {
	p := &Parser{s: s}

	p.prefixFns = map[token.Type]prefixParseFn{}
	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.INT, p.parseIntegerLiteral)
	p.registerPrefix(token.FLOAT, p.parseFloatLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.CHAR, p.parseCharLiteral)
	p.registerPrefix(token.TRUE, p.parseBoolLiteral)
	p.registerPrefix(token.FALSE, p.parseBoolLiteral)
	p.registerPrefix(token.NULL, p.parseNullLiteral)
	p.registerPrefix(token.BANG, p.parsePrefixExpression)
	p.registerPrefix(token.MINUS, p.parsePrefixExpression)
	p.registerPrefix(token.TILDE, p.parsePrefixExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.LBRACKET, p.parseArrayLiteral)
	p.registerPrefix(token.LBRACE, p.parseMapLiteral)
	p.registerPrefix(token.FUNCTION, p.parseFunctionLiteral)
	p.registerPrefix(token.IF, p.parseIfExpression)
	p.registerPrefix(token.LOOP, p.parseLoopExpression)
	p.registerPrefix(token.WHILE, p.parseWhileExpression)

	p.infixFns = map[token.Type]infixParseFn{}
	for _, tt := range []token.Type{token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT,
		token.EQ, token.NOTEQ, token.LT, token.GT, token.LTEQ, token.GTEQ,
		token.AMP, token.PIPE, token.CARET, token.LSHIFT, token.RSHIFT,
		token.AND, token.OR} {
		p.registerInfix(tt, p.parseInfixExpression)
	}
	p.registerInfix(token.LPAREN, p.parseCallExpression)
	p.registerInfix(token.LBRACKET, p.parseIndexExpression)
	p.registerInfix(token.DOT, p.parseDotExpression)
	p.registerInfix(token.ASSIGN, p.parseAssignExpression)

	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) registerPrefix(tt token.Type, fn prefixParseFn) { p.prefixFns[tt] = fn }
func (p *Parser) registerInfix(tt token.Type, fn infixParseFn)   { p.infixFns[tt] = fn }

// Errors returns the accumulated parse errors.
func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) nextToken() {
	p.cur = p.peek
	p.peek = p.s.NextToken()
}

// ParseProgram parses the whole input into a Program.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	for p.cur.Type != token.EOF {
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		p.nextToken()
	}
	return prog
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Type {
	case token.LET:
		return p.parseLetStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.BREAK:
		return p.parseBreakStatement()
	case token.CONTINUE:
		return p.parseContinueStatement()
	case token.SEMICOLON:
		return nil
	case token.IDENT:
		if p.peek.Type == token.COLON {
			return p.parseLabeledStatement()
		}
		return p.parseExpressionStatement()
	default:
		return p.parseExpressionStatement()
	}
}

// parseLabeledStatement handles "label: loop { ... }" and "label: while
// (...) { ... }", the only two expressions a label can attach to; break and
// continue refer back to the label by name, not by any binding.
func (p *Parser) parseLabeledStatement() ast.Statement {
	line := p.cur.Line
	label := p.cur.Literal
	p.nextToken() // cur = COLON
	p.nextToken() // cur = LOOP or WHILE

	var expr ast.Expression
	switch p.cur.Type {
	case token.LOOP:
		expr = p.parseLabeledLoopExpression(label)
	case token.WHILE:
		expr = p.parseLabeledWhileExpression(label)
	default:
		p.errorf("expected loop or while after label %q, got %s", label, p.cur.Type)
		return nil
	}
	if p.peek.Type == token.SEMICOLON {
		p.nextToken()
	}
	return ast.NewExpressionStatement(line, expr)
}

func (p *Parser) parseLetStatement() ast.Statement {
	line := p.cur.Line
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := ast.NewIdentifier(p.cur.Line, p.cur.Literal)
	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	value := p.parseExpression(LOWEST)
	if p.peek.Type == token.SEMICOLON {
		p.nextToken()
	}
	return ast.NewLetStatement(line, name, value)
}

func (p *Parser) parseReturnStatement() ast.Statement {
	line := p.cur.Line
	if p.peek.Type == token.SEMICOLON {
		p.nextToken()
		return ast.NewReturnStatement(line, nil)
	}
	p.nextToken()
	value := p.parseExpression(LOWEST)
	if p.peek.Type == token.SEMICOLON {
		p.nextToken()
	}
	return ast.NewReturnStatement(line, value)
}

func (p *Parser) parseBreakStatement() ast.Statement {
	line := p.cur.Line
	label := ""
	if p.peek.Type == token.IDENT {
		p.nextToken()
		label = p.cur.Literal
	}
	if p.peek.Type == token.SEMICOLON {
		p.nextToken()
	}
	return ast.NewBreakStatement(line, label)
}

func (p *Parser) parseContinueStatement() ast.Statement {
	line := p.cur.Line
	label := ""
	if p.peek.Type == token.IDENT {
		p.nextToken()
		label = p.cur.Literal
	}
	if p.peek.Type == token.SEMICOLON {
		p.nextToken()
	}
	return ast.NewContinueStatement(line, label)
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	line := p.cur.Line
	expr := p.parseExpression(LOWEST)
	if p.peek.Type == token.SEMICOLON {
		p.nextToken()
	}
	return ast.NewExpressionStatement(line, expr)
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix, ok := p.prefixFns[p.cur.Type]
	if !ok {
		p.errorf("no prefix parse function for %s found", p.cur.Type)
		return nil
	}
	left := prefix()

	for p.peek.Type != token.SEMICOLON && precedence < p.peekPrecedence() {
		infix, ok := p.infixFns[p.peek.Type]
		if !ok {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdentifier() ast.Expression {
	return ast.NewIdentifier(p.cur.Line, p.cur.Literal)
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	v, err := strconv.ParseInt(p.cur.Literal, 10, 64)
	if err != nil {
		p.errorf("could not parse %q as integer", p.cur.Literal)
		return nil
	}
	return ast.NewIntegerLiteral(p.cur.Line, v)
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	v, err := strconv.ParseFloat(p.cur.Literal, 64)
	if err != nil {
		p.errorf("could not parse %q as float", p.cur.Literal)
		return nil
	}
	return ast.NewFloatLiteral(p.cur.Line, v)
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return ast.NewStringLiteral(p.cur.Line, p.cur.Literal)
}

func (p *Parser) parseCharLiteral() ast.Expression {
	r := rune(0)
	for _, c := range p.cur.Literal {
		r = c
		break
	}
	return ast.NewCharLiteral(p.cur.Line, r)
}

func (p *Parser) parseBoolLiteral() ast.Expression {
	return ast.NewBoolLiteral(p.cur.Line, p.cur.Type == token.TRUE)
}

func (p *Parser) parseNullLiteral() ast.Expression {
	return ast.NewNullLiteral(p.cur.Line)
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	line := p.cur.Line
	op := string(p.cur.Type)
	p.nextToken()
	right := p.parseExpression(PREFIX)
	return ast.NewPrefixExpression(line, op, right)
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	line := p.cur.Line
	op := string(p.cur.Type)
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	return ast.NewInfixExpression(line, left, op, right)
}

func (p *Parser) parseAssignExpression(left ast.Expression) ast.Expression {
	line := p.cur.Line
	p.nextToken()
	value := p.parseExpression(ASSIGNMENT - 1)
	return ast.NewAssignExpression(line, left, value)
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return expr
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	line := p.cur.Line
	elems := p.parseExpressionList(token.RBRACKET)
	return ast.NewArrayLiteral(line, elems)
}

func (p *Parser) parseExpressionList(end token.Type) []ast.Expression {
	var list []ast.Expression
	if p.peek.Type == end {
		p.nextToken()
		return list
	}
	p.nextToken()
	list = append(list, p.parseExpression(LOWEST))
	for p.peek.Type == token.COMMA {
		p.nextToken()
		p.nextToken()
		list = append(list, p.parseExpression(LOWEST))
	}
	if !p.expectPeek(end) {
		return nil
	}
	return list
}

func (p *Parser) parseMapLiteral() ast.Expression {
	line := p.cur.Line
	var keys, values []ast.Expression
	for p.peek.Type != token.RBRACE {
		p.nextToken()
		key := p.parseExpression(LOWEST)
		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken()
		val := p.parseExpression(LOWEST)
		keys = append(keys, key)
		values = append(values, val)
		if p.peek.Type != token.RBRACE && !p.expectPeek(token.COMMA) {
			return nil
		}
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return ast.NewMapLiteral(line, keys, values)
}

func (p *Parser) parseFunctionLiteral() ast.Expression {
	line := p.cur.Line
	name := ""
	if p.peek.Type == token.IDENT {
		p.nextToken()
		name = p.cur.Literal
	}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	params := p.parseFunctionParameters()
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	body := p.parseBlockStatement()
	return ast.NewFunctionLiteral(line, name, params, body)
}

func (p *Parser) parseFunctionParameters() []*ast.Identifier {
	var params []*ast.Identifier
	if p.peek.Type == token.RPAREN {
		p.nextToken()
		return params
	}
	p.nextToken()
	params = append(params, ast.NewIdentifier(p.cur.Line, p.cur.Literal))
	for p.peek.Type == token.COMMA {
		p.nextToken()
		p.nextToken()
		params = append(params, ast.NewIdentifier(p.cur.Line, p.cur.Literal))
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return params
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	line := p.cur.Line
	var stmts []ast.Statement
	p.nextToken()
	for p.cur.Type != token.RBRACE && p.cur.Type != token.EOF {
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		p.nextToken()
	}
	return ast.NewBlockStatement(line, stmts)
}

func (p *Parser) parseIfExpression() ast.Expression {
	line := p.cur.Line
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	cons := p.parseBlockStatement()

	var alt *ast.BlockStatement
	if p.peek.Type == token.ELSE {
		p.nextToken()
		if p.peek.Type == token.IF {
			p.nextToken()
			nested := p.parseIfExpression()
			alt = ast.NewBlockStatement(p.cur.Line, []ast.Statement{
				ast.NewExpressionStatement(p.cur.Line, nested),
			})
		} else if p.expectPeek(token.LBRACE) {
			alt = p.parseBlockStatement()
		}
	}
	return ast.NewIfExpression(line, cond, cons, alt)
}

func (p *Parser) parseLoopExpression() ast.Expression {
	return p.parseLabeledLoopExpression("")
}

func (p *Parser) parseLabeledLoopExpression(label string) ast.Expression {
	line := p.cur.Line
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	body := p.parseBlockStatement()
	return ast.NewLoopExpression(line, label, body)
}

func (p *Parser) parseWhileExpression() ast.Expression {
	return p.parseLabeledWhileExpression("")
}

func (p *Parser) parseLabeledWhileExpression(label string) ast.Expression {
	line := p.cur.Line
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	body := p.parseBlockStatement()
	return ast.NewWhileExpression(line, label, cond, body)
}

func (p *Parser) parseCallExpression(fn ast.Expression) ast.Expression {
	line := p.cur.Line
	args := p.parseExpressionList(token.RPAREN)
	return ast.NewCallExpression(line, fn, args)
}

func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	line := p.cur.Line
	p.nextToken()
	index := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return ast.NewIndexExpression(line, left, index)
}

func (p *Parser) parseDotExpression(left ast.Expression) ast.Expression {
	line := p.cur.Line
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	return ast.NewDotExpression(line, left, p.cur.Literal)
}

func (p *Parser) expectPeek(tt token.Type) bool {
	if p.peek.Type == tt {
		p.nextToken()
		return true
	}
	p.errorf("expected next token to be %s, got %s instead", tt, p.peek.Type)
	return false
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peek.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.cur.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}
