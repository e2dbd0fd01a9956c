package lexer

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/focus-lang/focus/internal/token"
)

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number
	lineStart    bool // current char is the first one of its line
	indent       int  // indentation width of the current line
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0, lineStart: true}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
		l.lineStart = true
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		l.readPosition++
		l.column++
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
	l.column++
}

// Tokenize consumes the whole input. The returned slice always ends with EOF.
func (l *Lexer) Tokenize() []token.Token {
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens
		}
	}
}

func (l *Lexer) NextToken() token.Token {
	spaced := l.skipWhitespace()
	line, col := l.line, l.column

	var tok token.Token
	switch l.ch {
	case 0:
		tok = token.Token{Type: token.EOF, Line: line, Column: col}
	case '\n':
		tok = newToken(token.NEWLINE, l.ch, line, col)
	case '(':
		if l.peekChar() == ')' {
			l.readChar()
			tok = token.Token{Type: token.UNIT, Lexeme: "()", Literal: "()", Line: line, Column: col}
		} else {
			tok = newToken(token.LPAREN, l.ch, line, col)
		}
	case ')':
		tok = newToken(token.RPAREN, l.ch, line, col)
	case '{':
		tok = newToken(token.LBRACE, l.ch, line, col)
	case '}':
		tok = newToken(token.RBRACE, l.ch, line, col)
	case '[':
		tok = newToken(token.LBRACKET, l.ch, line, col)
	case ']':
		tok = newToken(token.RBRACKET, l.ch, line, col)
	case ',':
		tok = newToken(token.COMMA, l.ch, line, col)
	case ':':
		tok = newToken(token.COLON, l.ch, line, col)
	case '@':
		tok = newToken(token.AT, l.ch, line, col)
	case '+':
		tok = newToken(token.PLUS, l.ch, line, col)
	case '*':
		tok = newToken(token.ASTERISK, l.ch, line, col)
	case '/':
		tok = newToken(token.SLASH, l.ch, line, col)
	case '%':
		tok = newToken(token.PERCENT, l.ch, line, col)
	case '-':
		tok = l.twoCharToken('>', token.ARROW, token.MINUS, line, col)
	case '=':
		tok = l.twoCharToken('=', token.EQ, token.ASSIGN, line, col)
	case '!':
		tok = l.twoCharToken('=', token.NOT_EQ, token.BANG, line, col)
	case '<':
		tok = l.twoCharToken('=', token.LTE, token.LT, line, col)
	case '>':
		tok = l.twoCharToken('=', token.GTE, token.GT, line, col)
	case '&':
		tok = l.twoCharToken('&', token.AND, token.ILLEGAL, line, col)
	case '|':
		tok = l.twoCharToken('|', token.OR, token.PIPE, line, col)
	case '.':
		tok = l.twoCharToken('.', token.DOT_DOT, token.DOT, line, col)
	case '\'':
		tok = l.readCharLiteral()
	case '"':
		tok = l.readString()
	default:
		if isLetter(l.ch) {
			ident := l.readIdentifier()
			tok = token.Token{Type: token.LookupIdent(ident), Lexeme: ident, Literal: ident, Line: line, Column: col}
			tok.Indent, tok.SpaceBefore = l.indent, spaced
			return tok
		}
		if isDigit(l.ch) {
			tok = l.readNumber()
			tok.Indent, tok.SpaceBefore = l.indent, spaced
			return tok
		}
		tok = newToken(token.ILLEGAL, l.ch, line, col)
	}

	tok.Indent, tok.SpaceBefore = l.indent, spaced
	if tok.Type != token.EOF {
		l.readChar()
	}
	return tok
}

// twoCharToken yields double when the next char is second, single otherwise.
// An ILLEGAL single keeps the offending char as its lexeme.
func (l *Lexer) twoCharToken(second rune, double, single token.TokenType, line, col int) token.Token {
	if l.peekChar() == second {
		first := l.ch
		l.readChar()
		literal := string(first) + string(l.ch)
		return token.Token{Type: double, Lexeme: literal, Literal: literal, Line: line, Column: col}
	}
	return newToken(single, l.ch, line, col)
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

func (l *Lexer) readNumber() token.Token {
	startLine, startCol := l.line, l.column
	position := l.position
	isFloat := false

	for isDigit(l.ch) {
		l.readChar()
	}
	// "1..5" is a range, not a float
	if l.ch == '.' && isDigit(l.peekChar()) {
		isFloat = true
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	lexeme := l.input[position:l.position]
	if isFloat {
		val, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			return token.Token{Type: token.ILLEGAL, Lexeme: lexeme, Literal: err.Error(), Line: startLine, Column: startCol}
		}
		return token.Token{Type: token.FLOAT, Lexeme: lexeme, Literal: val, Line: startLine, Column: startCol}
	}
	val, err := strconv.ParseInt(lexeme, 10, 64)
	if err != nil {
		return token.Token{Type: token.ILLEGAL, Lexeme: lexeme, Literal: "integer literal out of range", Line: startLine, Column: startCol}
	}
	return token.Token{Type: token.INT, Lexeme: lexeme, Literal: val, Line: startLine, Column: startCol}
}

// readCharLiteral is entered on the opening quote and leaves the lexer on the closing one.
func (l *Lexer) readCharLiteral() token.Token {
	startLine, startCol := l.line, l.column
	start := l.position
	l.readChar()

	ch := l.ch
	if ch == '\\' {
		l.readChar()
		escaped, ok := unescape(l.ch)
		if !ok {
			return token.Token{Type: token.ILLEGAL, Lexeme: l.lexemeFrom(start), Literal: "unknown escape sequence", Line: startLine, Column: startCol}
		}
		ch = escaped
	} else if ch == '\'' || ch == '\n' || ch == 0 {
		return token.Token{Type: token.ILLEGAL, Lexeme: "'", Literal: "empty character literal", Line: startLine, Column: startCol}
	}

	if l.peekChar() != '\'' {
		return token.Token{Type: token.ILLEGAL, Lexeme: l.lexemeFrom(start), Literal: "character literal must hold exactly one character", Line: startLine, Column: startCol}
	}
	l.readChar()
	return token.Token{Type: token.CHAR, Lexeme: l.lexemeFrom(start), Literal: ch, Line: startLine, Column: startCol}
}

// readString is entered on the opening quote and leaves the lexer on the closing one.
func (l *Lexer) readString() token.Token {
	startLine, startCol := l.line, l.column
	start := l.position
	var sb strings.Builder
	for {
		l.readChar()
		switch l.ch {
		case 0, '\n':
			return token.Token{Type: token.ILLEGAL, Lexeme: l.input[start:l.position], Literal: "unterminated string literal", Line: startLine, Column: startCol}
		case '"':
			return token.Token{Type: token.STRING, Lexeme: l.lexemeFrom(start), Literal: sb.String(), Line: startLine, Column: startCol}
		case '\\':
			l.readChar()
			escaped, ok := unescape(l.ch)
			if !ok {
				return token.Token{Type: token.ILLEGAL, Lexeme: l.lexemeFrom(start), Literal: "unknown escape sequence", Line: startLine, Column: startCol}
			}
			sb.WriteRune(escaped)
		default:
			sb.WriteRune(l.ch)
		}
	}
}

func (l *Lexer) lexemeFrom(start int) string {
	end := l.readPosition
	if end > len(l.input) {
		end = len(l.input)
	}
	return l.input[start:end]
}

func unescape(ch rune) (rune, bool) {
	switch ch {
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case 'r':
		return '\r', true
	case '0':
		return 0, true
	case '\\', '\'', '"':
		return ch, true
	}
	return 0, false
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || (ch >= 0x80 && unicode.IsLetter(ch))
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func newToken(tokenType token.TokenType, ch rune, line, col int) token.Token {
	literal := string(ch)
	return token.Token{Type: tokenType, Lexeme: literal, Literal: literal, Line: line, Column: col}
}

// skipWhitespace skips blanks and comments and reports whether anything was skipped.
// Leading blanks of a line set its indentation.
func (l *Lexer) skipWhitespace() bool {
	skipped := false
	for {
		width := 0
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
			width++
			l.readChar()
			skipped = true
		}
		if l.lineStart {
			l.indent = width
			l.lineStart = false
		}
		if l.ch == '/' && l.peekChar() == '/' {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			skipped = true
			continue
		}
		return skipped
	}
}
