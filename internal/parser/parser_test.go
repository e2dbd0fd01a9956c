package parser_test

import (
	"testing"

	"github.com/focus-lang/focus/internal/ast"
	"github.com/focus-lang/focus/internal/diagnostics"
	"github.com/focus-lang/focus/internal/lexer"
	"github.com/focus-lang/focus/internal/parser"
	"github.com/focus-lang/focus/internal/pipeline"
	"github.com/focus-lang/focus/internal/prettyprinter"
)

func parse(t *testing.T, input string) (*ast.Program, []*diagnostics.DiagnosticError) {
	t.Helper()
	ctx := pipeline.NewContext(input, "")
	ctx = (&lexer.LexerProcessor{}).Process(ctx)
	ctx = (&parser.ParserProcessor{}).Process(ctx)
	return ctx.AstRoot, ctx.Errors
}

func mustParse(t *testing.T, input string) *ast.Program {
	t.Helper()
	program, errs := parse(t, input)
	if len(errs) > 0 {
		t.Fatalf("parsing %q failed: %v", input, errs[0])
	}
	return program
}

func TestRoundTrip(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string // empty when the input is already canonical
	}{
		{"value let", "let x = 1", ""},
		{"function let", "let add a b: (int -> int -> int) = a + b", ""},
		{"unit parameter", "let g (): (() -> int) = 1", ""},
		{"declared only", "let x: int", ""},
		{"array type", "let xs: [int] = [1, 2, 3]", ""},
		{"struct type", "pub type Point = {x: int, pub y: int}", ""},
		{"alias", "type Meters = int", ""},
		{"unit-like type", "type Marker", ""},
		{"module and use", "module geo\nuse geo.shapes", ""},
		{"precedence", "1 + 2 * 3", ""},
		{"grouping", "(1 + 2) * 3", ""},
		{"left associative", "1 - (2 - 3)", ""},
		{"redundant parens", "((1 - 2)) - 3", "1 - 2 - 3"},
		{"prefix", "-(1 + 2) * !x", ""},
		{"logic", "!done && x < 3 || y", ""},
		{"call arguments", "f 1 (g 2) [3] 'c' ()", ""},
		{"call binds tighter", "f 1 + 2", ""},
		{"at chaining", "f 1 @ g 2", "g 2 (f 1)"},
		{"assignment", "p.x = p.y + 1", ""},
		{"indexing", "a[0][i + 1]", ""},
		{"struct literal", "Point {x: 1, y: p.y}", ""},
		{"floats and chars", "1.5 + 2.0 == 3.5 && '\\n' != 'a'", ""},
		{"if", "if x then 1 else 2", ""},
		{"else if", "if a then 1 else if b then 2 else 3", ""},
		{"closure", "fn x y -> x + y", ""},
		{"thunk", "fn -> 1", ""},
		{"multiline let", "let f n: (int -> int) =\n    let m = n * 2\n    m + 1", ""},
		{"block if", "if c then\n    1\nelse\n    2", "if c then 1 else 2"},
		{"range and for", "for i in 0..10 do total = total + i", ""},
		{"match", "match x\n| 1 -> 'a'\n| n if n > 1 -> 'b'", ""},
		{"continuation line", "let x =\n    1 +\n    2", "let x = 1 + 2"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			program := mustParse(t, tc.input)
			expected := tc.expected
			if expected == "" {
				expected = tc.input
			}

			printed := prettyprinter.Print(program)
			if printed != expected {
				t.Fatalf("printed source mismatch:\n--- expected\n%s\n--- actual\n%s", expected, printed)
			}

			// printing is a fixed point
			again := prettyprinter.Print(mustParse(t, printed))
			if again != printed {
				t.Errorf("second print differs:\n%s\n---\n%s", printed, again)
			}
		})
	}
}

func TestLetStatementShape(t *testing.T) {
	program := mustParse(t, "pub let sum a b: (int -> int -> int) =\n    a + b")
	if len(program.Statements) != 1 {
		t.Fatalf("expected one statement, got %d", len(program.Statements))
	}
	let, ok := program.Statements[0].(*ast.LetStatement)
	if !ok {
		t.Fatalf("expected *ast.LetStatement, got %T", program.Statements[0])
	}
	if let.Name.Value != "sum" || len(let.Params) != 2 || let.Visibility != ast.Public {
		t.Errorf("unexpected let %+v", let)
	}
	fnType, ok := let.Type.(*ast.FunctionType)
	if !ok || len(fnType.Params) != 2 || fnType.Return.String() != "int" {
		t.Errorf("unexpected type %v", let.Type)
	}
	if let.Value == nil || len(let.Value.Statements) != 1 {
		t.Fatalf("expected a one-statement body")
	}
	body := let.Value.Statements[0].(*ast.ExpressionStatement)
	if infix, ok := body.Expression.(*ast.InfixExpression); !ok || infix.Operator != "+" {
		t.Errorf("unexpected body %v", body.Expression)
	}
}

func TestCallChainShape(t *testing.T) {
	program := mustParse(t, "xs @ map f @ sum")
	es := program.Statements[0].(*ast.ExpressionStatement)
	outer, ok := es.Expression.(*ast.CallExpression)
	if !ok || outer.Function.String() != "sum" || len(outer.Arguments) != 1 {
		t.Fatalf("unexpected outer call %#v", es.Expression)
	}
	inner, ok := outer.Arguments[0].(*ast.CallExpression)
	if !ok || inner.Function.String() != "map" || len(inner.Arguments) != 2 {
		t.Fatalf("unexpected inner call %#v", outer.Arguments[0])
	}
	if path, ok := inner.Arguments[1].(*ast.PathExpression); !ok || path.String() != "xs" {
		t.Errorf("the chained value must be the last argument, got %#v", inner.Arguments[1])
	}
}

func TestPositions(t *testing.T) {
	program := mustParse(t, "let x = 1\n\n  // comment\nx + 2")
	if len(program.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(program.Statements))
	}
	tok := program.Statements[1].GetToken()
	if tok.Line != 4 || tok.Column != 1 {
		t.Errorf("second statement at %d:%d, want 4:1", tok.Line, tok.Column)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  diagnostics.ErrorCode
	}{
		{"missing name", "let = 2", diagnostics.ErrP001},
		{"illegal token", "let x = 'ab'", diagnostics.ErrP002},
		{"unindented block", "let f =\nx", diagnostics.ErrP003},
		{"bad unindent", "let f =\n    let x = 1\n  x", diagnostics.ErrP003},
		{"eof after operator", "1 +", diagnostics.ErrP004},
		{"eof in block", "let f =\n", diagnostics.ErrP004},
		{"unclosed paren", "let x = (1", diagnostics.ErrP004},
		{"nested type", "let f =\n    type T = int", diagnostics.ErrP006},
		{"pub in block", "let f =\n    pub let y = 1", diagnostics.ErrP006},
		{"pub expression", "pub 1", diagnostics.ErrP001},
		{"at needs function", "f 1 @ 2", diagnostics.ErrP001},
		{"trailing comma", "[1, 2,]", diagnostics.ErrP001},
		{"trailing tokens", "let x: int int", diagnostics.ErrP001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := parse(t, tt.input)
			if len(errs) != 1 {
				t.Fatalf("expected exactly one error, got %v", errs)
			}
			if errs[0].Code != tt.code {
				t.Errorf("code = %s, want %s (%v)", errs[0].Code, tt.code, errs[0])
			}
		})
	}
}

func TestStatementsBeforeErrorAreKept(t *testing.T) {
	program, errs := parse(t, "let a = 1\nlet b = 2\nlet = 3\nlet c = 4")
	if len(errs) != 1 {
		t.Fatalf("expected one error, got %v", errs)
	}
	if len(program.Statements) != 2 {
		t.Errorf("expected the two statements before the error, got %d", len(program.Statements))
	}
	if errs[0].Token.Line != 3 {
		t.Errorf("error on line %d, want 3", errs[0].Token.Line)
	}
}

func TestErrorsCarryFilePath(t *testing.T) {
	ctx := pipeline.NewContext("let", "src/main.focus")
	ctx = (&lexer.LexerProcessor{}).Process(ctx)
	ctx = (&parser.ParserProcessor{}).Process(ctx)
	if len(ctx.Errors) != 1 || ctx.Errors[0].File != "src/main.focus" {
		t.Fatalf("unexpected errors %v", ctx.Errors)
	}
	if ctx.AstRoot.File != "src/main.focus" {
		t.Errorf("program file = %q", ctx.AstRoot.File)
	}
}
