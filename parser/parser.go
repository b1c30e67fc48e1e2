// Package parser turns a token stream into ast.Node trees. The grammar is the
// classical S-expression one: atoms, proper lists terminated by an explicit
// nil element, dotted pairs which omit it, and the quote family of reader
// prefixes which expand to (quote x) style forms.
package parser

import (
	"skim/ast"
	"skim/token"
)

// readerPrefixes maps quote-family tokens to the symbol their sugar expands
// to: 'x reads as (quote x), `x as (quasiquote x), and so on.
var readerPrefixes = map[token.TokenType]string{
	token.QUOTE:            "quote",
	token.QUASIQUOTE:       "quasiquote",
	token.UNQUOTE:          "unquote",
	token.UNQUOTE_SPLICING: "unquote-splicing",
}

// Parser consumes a token slice produced by the lexer and builds one ast.Node
// per top-level form.
type Parser struct {
	tokens   []token.Token
	position int
}

// Make creates a Parser over the given tokens. The slice is expected to end
// with an EOF token, as produced by lexer.Scan.
func Make(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

func (p *Parser) peek() token.Token {
	if p.position >= len(p.tokens) {
		return token.CreateToken(token.EOF, 0, 0)
	}
	return p.tokens[p.position]
}

func (p *Parser) next() token.Token {
	tok := p.peek()
	p.position++
	return tok
}

// Parse reads every top-level form from the token stream.
func (p *Parser) Parse() ([]ast.Node, error) {
	var nodes []ast.Node
	for p.peek().TokenType != token.EOF {
		node, err := p.parseExpr()
		if err != nil {
			return nodes, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func (p *Parser) parseExpr() (ast.Node, error) {
	tok := p.next()
	switch tok.TokenType {
	case token.TRUE:
		return ast.NewBool(true), nil
	case token.FALSE:
		return ast.NewBool(false), nil
	case token.INT:
		return ast.NewInt(tok.Literal.(int64)), nil
	case token.STRING:
		return ast.NewString(tok.Literal.(string)), nil
	case token.IDENTIFIER:
		return ast.NewSymbol(tok.Lexeme), nil
	case token.QUOTE, token.QUASIQUOTE, token.UNQUOTE, token.UNQUOTE_SPLICING:
		if p.peek().TokenType == token.EOF {
			return ast.Node{}, CreateSyntaxError(tok.Line, tok.Column, "missing expression after '"+tok.Lexeme+"'")
		}
		inner, err := p.parseExpr()
		if err != nil {
			return ast.Node{}, err
		}
		return ast.NewList(ast.NewSymbol(readerPrefixes[tok.TokenType]), inner, ast.Nil()), nil
	case token.LPAREN, token.LBRACKET:
		return p.parseList(tok)
	default:
		return ast.Node{}, CreateSyntaxError(tok.Line, tok.Column, "unexpected token '"+tok.Lexeme+"'")
	}
}

// parseList reads elements until the closing delimiter. A proper list gets
// the nil sentinel appended; a dotted tail replaces it.
func (p *Parser) parseList(open token.Token) (ast.Node, error) {
	var items []ast.Node
	for {
		tok := p.peek()
		switch tok.TokenType {
		case token.RPAREN, token.RBRACKET:
			p.next()
			if len(items) > 0 {
				items = append(items, ast.Nil())
			}
			return ast.NewList(items...), nil
		case token.DOT:
			p.next()
			if len(items) == 0 {
				return ast.Node{}, CreateSyntaxError(tok.Line, tok.Column, "'.' without a preceding element")
			}
			tail, err := p.parseExpr()
			if err != nil {
				return ast.Node{}, err
			}
			closing := p.next()
			if closing.TokenType != token.RPAREN && closing.TokenType != token.RBRACKET {
				return ast.Node{}, CreateSyntaxError(closing.Line, closing.Column, "expected ')' after dotted tail")
			}
			items = append(items, tail)
			return ast.NewList(items...), nil
		case token.EOF:
			return ast.Node{}, CreateSyntaxError(open.Line, open.Column, "list is not closed")
		default:
			item, err := p.parseExpr()
			if err != nil {
				return ast.Node{}, err
			}
			items = append(items, item)
		}
	}
}
