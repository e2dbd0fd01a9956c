package lexer_test

import (
	"testing"

	"github.com/focus-lang/focus/internal/lexer"
	"github.com/focus-lang/focus/internal/pipeline"
	"github.com/focus-lang/focus/internal/token"
)

type expectedToken struct {
	typ    token.TokenType
	lexeme string
}

func TestNextToken(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []expectedToken
	}{
		{
			name:  "function definition",
			input: "let add a b: (int -> int -> int) = a + b",
			expected: []expectedToken{
				{token.LET, "let"}, {token.IDENT, "add"}, {token.IDENT, "a"}, {token.IDENT, "b"},
				{token.COLON, ":"}, {token.LPAREN, "("}, {token.IDENT, "int"}, {token.ARROW, "->"},
				{token.IDENT, "int"}, {token.ARROW, "->"}, {token.IDENT, "int"}, {token.RPAREN, ")"},
				{token.ASSIGN, "="}, {token.IDENT, "a"}, {token.PLUS, "+"}, {token.IDENT, "b"},
				{token.EOF, ""},
			},
		},
		{
			name:  "operators",
			input: "x != 'q' && y >= 2.5 || !z\n",
			expected: []expectedToken{
				{token.IDENT, "x"}, {token.NOT_EQ, "!="}, {token.CHAR, "'q'"}, {token.AND, "&&"},
				{token.IDENT, "y"}, {token.GTE, ">="}, {token.FLOAT, "2.5"}, {token.OR, "||"},
				{token.BANG, "!"}, {token.IDENT, "z"}, {token.NEWLINE, "\n"}, {token.EOF, ""},
			},
		},
		{
			name:  "unit, chaining and ranges",
			input: "f () @ g [1..3] // trailing comment",
			expected: []expectedToken{
				{token.IDENT, "f"}, {token.UNIT, "()"}, {token.AT, "@"}, {token.IDENT, "g"},
				{token.LBRACKET, "["}, {token.INT, "1"}, {token.DOT_DOT, ".."}, {token.INT, "3"},
				{token.RBRACKET, "]"}, {token.EOF, ""},
			},
		},
		{
			name:  "keywords",
			input: "type pub module use if then else fn match for in do true false",
			expected: []expectedToken{
				{token.TYPE, "type"}, {token.PUB, "pub"}, {token.MODULE, "module"}, {token.USE, "use"},
				{token.IF, "if"}, {token.THEN, "then"}, {token.ELSE, "else"}, {token.FN, "fn"},
				{token.MATCH, "match"}, {token.FOR, "for"}, {token.IN, "in"}, {token.DO, "do"},
				{token.TRUE, "true"}, {token.FALSE, "false"}, {token.EOF, ""},
			},
		},
		{
			name:  "struct literal",
			input: "Point {x: 1, y: p.y}",
			expected: []expectedToken{
				{token.IDENT, "Point"}, {token.LBRACE, "{"}, {token.IDENT, "x"}, {token.COLON, ":"},
				{token.INT, "1"}, {token.COMMA, ","}, {token.IDENT, "y"}, {token.COLON, ":"},
				{token.IDENT, "p"}, {token.DOT, "."}, {token.IDENT, "y"}, {token.RBRACE, "}"},
				{token.EOF, ""},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := lexer.New(tt.input).Tokenize()
			if len(tokens) != len(tt.expected) {
				t.Fatalf("expected %d tokens, got %d: %v", len(tt.expected), len(tokens), tokens)
			}
			for i, exp := range tt.expected {
				if tokens[i].Type != exp.typ || tokens[i].Lexeme != exp.lexeme {
					t.Errorf("token %d: got %s %q, want %s %q", i, tokens[i].Type, tokens[i].Lexeme, exp.typ, exp.lexeme)
				}
			}
		})
	}
}

func TestLiterals(t *testing.T) {
	tests := []struct {
		input   string
		typ     token.TokenType
		literal interface{}
	}{
		{"42", token.INT, int64(42)},
		{"3.25", token.FLOAT, 3.25},
		{"'a'", token.CHAR, 'a'},
		{`'\n'`, token.CHAR, '\n'},
		{`'\''`, token.CHAR, '\''},
		{"'é'", token.CHAR, 'é'},
		{`"hi\t"`, token.STRING, "hi\t"},
		{"'ab'", token.ILLEGAL, "character literal must hold exactly one character"},
		{"''", token.ILLEGAL, "empty character literal"},
		{`'\q'`, token.ILLEGAL, "unknown escape sequence"},
		{`"open`, token.ILLEGAL, "unterminated string literal"},
		{"99999999999999999999", token.ILLEGAL, "integer literal out of range"},
		{"&", token.ILLEGAL, "&"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tok := lexer.New(tt.input).NextToken()
			if tok.Type != tt.typ {
				t.Fatalf("type = %s, want %s", tok.Type, tt.typ)
			}
			if tok.Literal != tt.literal {
				t.Errorf("literal = %#v, want %#v", tok.Literal, tt.literal)
			}
		})
	}
}

func TestPositionsAndIndentation(t *testing.T) {
	tokens := lexer.New("let a =\n    b\nc").Tokenize()
	tests := []struct {
		index        int
		typ          token.TokenType
		line, column int
		indent       int
	}{
		{0, token.LET, 1, 1, 0},
		{3, token.NEWLINE, 1, 8, 0},
		{4, token.IDENT, 2, 5, 4},
		{6, token.IDENT, 3, 1, 0},
	}
	for _, tt := range tests {
		tok := tokens[tt.index]
		if tok.Type != tt.typ || tok.Line != tt.line || tok.Column != tt.column || tok.Indent != tt.indent {
			t.Errorf("token %d = %s at %d:%d indent %d, want %s at %d:%d indent %d",
				tt.index, tok.Type, tok.Line, tok.Column, tok.Indent, tt.typ, tt.line, tt.column, tt.indent)
		}
	}
	if !tokens[4].SpaceBefore || !tokens[1].SpaceBefore || tokens[0].SpaceBefore {
		t.Errorf("unexpected SpaceBefore flags")
	}
}

func TestLexerProcessor(t *testing.T) {
	ctx := pipeline.NewContext("1 + 2", "")
	ctx = (&lexer.LexerProcessor{}).Process(ctx)
	if len(ctx.Tokens) != 4 || ctx.Tokens[3].Type != token.EOF {
		t.Errorf("unexpected tokens %v", ctx.Tokens)
	}
}
