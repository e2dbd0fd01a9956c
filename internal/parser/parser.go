package parser

import (
	"fmt"

	"github.com/focus-lang/focus/internal/ast"
	"github.com/focus-lang/focus/internal/diagnostics"
	"github.com/focus-lang/focus/internal/pipeline"
	"github.com/focus-lang/focus/internal/token"
)

// Operator precedence, lowest first.
const (
	_ int = iota
	LOWEST
	ASSIGN  // =
	OR      // ||
	AND     // &&
	COMPARE // == != < > <= >=
	RANGE   // ..
	SUM     // + -
	PRODUCT // * / %
	PREFIX  // -x !x
)

var precedences = map[token.TokenType]int{
	token.ASSIGN:   ASSIGN,
	token.OR:       OR,
	token.AND:      AND,
	token.EQ:       COMPARE,
	token.NOT_EQ:   COMPARE,
	token.LT:       COMPARE,
	token.GT:       COMPARE,
	token.LTE:      COMPARE,
	token.GTE:      COMPARE,
	token.DOT_DOT:  RANGE,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
	token.PERCENT:  PRODUCT,
}

// Parser is a recursive-descent parser over a token slice.
//
// Line breaks end statements except when the next line is indented deeper
// than the statements of the innermost block, in which case the line
// continues the current statement. Inside brackets line breaks are ignored.
type Parser struct {
	tokens   []token.Token
	pos      int
	curToken token.Token // last consumed token
	indent   int         // statement indentation of the innermost block
	ctx      *pipeline.PipelineContext
	failed   bool
}

func New(tokens []token.Token, ctx *pipeline.PipelineContext) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != token.EOF {
		tokens = append(tokens, token.Token{Type: token.EOF})
	}
	return &Parser{tokens: tokens, ctx: ctx}
}

// ParseProgram parses top-level statements until the end of input or the
// first syntax error. Statements parsed before the error are returned.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	for {
		p.skipNewlines()
		first := p.at(p.pos)
		if first.Type == token.EOF {
			return program
		}
		p.indent = first.Indent

		stmt := p.parseStatement(true)
		if p.failed {
			return program
		}
		if next := p.peek(); next.Type != token.NEWLINE && next.Type != token.EOF {
			p.unexpected(next, "end of line")
			return program
		}
		program.Statements = append(program.Statements, stmt)
	}
}

func (p *Parser) at(i int) token.Token {
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

// next returns the index of the next significant token, looking through
// line breaks onto continuation lines.
func (p *Parser) next() int {
	i := p.pos
	if p.at(i).Type != token.NEWLINE {
		return i
	}
	j := i
	for p.at(j).Type == token.NEWLINE {
		j++
	}
	if t := p.at(j); t.Type != token.EOF && t.Indent > p.indent {
		return j
	}
	return i
}

func (p *Parser) peek() token.Token {
	return p.at(p.next())
}

func (p *Parser) peekIs(t token.TokenType) bool {
	return p.peek().Type == t
}

func (p *Parser) advance() token.Token {
	i := p.next()
	p.curToken = p.at(i)
	if p.curToken.Type != token.EOF {
		i++
	}
	p.pos = i
	return p.curToken
}

func (p *Parser) expect(t token.TokenType, what string) bool {
	if !p.peekIs(t) {
		p.unexpected(p.peek(), what)
		return false
	}
	p.advance()
	return true
}

func (p *Parser) skipNewlines() {
	for p.at(p.pos).Type == token.NEWLINE {
		p.pos++
	}
}

// nextLine returns the index of the first token after the run of line
// breaks at the cursor.
func (p *Parser) nextLine() int {
	j := p.pos
	for p.at(j).Type == token.NEWLINE {
		j++
	}
	return j
}

// bracketed runs fn with line breaks treated as plain whitespace.
func (p *Parser) bracketed(fn func()) {
	saved := p.indent
	p.indent = -1
	fn()
	p.indent = saved
}

func (p *Parser) fail(code diagnostics.ErrorCode, tok token.Token, msg string) {
	if p.failed {
		return
	}
	p.failed = true
	p.ctx.Errors = append(p.ctx.Errors, diagnostics.NewError(code, tok, msg))
}

func (p *Parser) unexpected(tok token.Token, expected string) {
	switch tok.Type {
	case token.ILLEGAL:
		msg, _ := tok.Literal.(string)
		if msg == "" || msg == tok.Lexeme {
			msg = fmt.Sprintf("illegal character %q", tok.Lexeme)
		}
		p.fail(diagnostics.ErrP002, tok, msg)
	case token.EOF:
		p.fail(diagnostics.ErrP004, tok, fmt.Sprintf("unexpected end of input, expected %s", expected))
	default:
		p.fail(diagnostics.ErrP001, tok, fmt.Sprintf("unexpected %s, expected %s", tok, expected))
	}
}

func identifier(tok token.Token) *ast.Identifier {
	return &ast.Identifier{Token: tok, Value: tok.Lexeme}
}
