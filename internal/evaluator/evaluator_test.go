package evaluator

import (
	"errors"
	"strings"
	"testing"

	"github.com/focus-lang/focus/internal/ast"
	"github.com/focus-lang/focus/internal/lexer"
	"github.com/focus-lang/focus/internal/parser"
	"github.com/focus-lang/focus/internal/pipeline"
	"github.com/focus-lang/focus/internal/typesystem"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	ctx := pipeline.NewContext(src, "test.focus")
	program := parser.New(lexer.New(src).Tokenize(), ctx).ParseProgram()
	if len(ctx.Errors) > 0 {
		t.Fatalf("parse error: %v", ctx.Errors[0])
	}
	return program
}

// run evaluates src and fails the test on any runtime error.
func run(t *testing.T, src string) (*Evaluator, Value) {
	t.Helper()
	e := New()
	v, errs := e.Run(parse(t, src))
	if len(errs) > 0 {
		t.Fatalf("runtime error: %v", errs[0])
	}
	return e, v
}

// runErr evaluates src and returns the first runtime error.
func runErr(t *testing.T, src string) (*Evaluator, error) {
	t.Helper()
	e := New()
	_, errs := e.Run(parse(t, src))
	if len(errs) == 0 {
		t.Fatalf("expected a runtime error for:\n%s", src)
	}
	return e, errs[0]
}

func expectInteger(t *testing.T, v Value, want int64) {
	t.Helper()
	i, ok := v.(Integer)
	if !ok {
		t.Fatalf("expected Integer, got %T (%v)", v, v)
	}
	if i.Value != want {
		t.Errorf("expected %d, got %d", want, i.Value)
	}
}

func TestScalarExpressions(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3", "7"},
		{"(1 + 2) * 3", "9"},
		{"7 / 2", "3"},
		{"-7 / 2", "-3"},
		{"7 % 3", "1"},
		{"7.0 / 2.0", "3.5"},
		{"1.0 / 0.0", "+Inf"},
		{"5.5 % 2.0", "1.5"},
		{"-(2 + 3)", "-5"},
		{"!true", "false"},
		{"1 < 2 && 2 < 3", "true"},
		{"1 > 2 || 'a' < 'b'", "true"},
		{"2 <= 2", "true"},
		{"1 == 1 != false", "true"},
		{"'x'", "'x'"},
		{"()", "()"},
		{"if 1 < 2 then 10 else 20", "10"},
		{"if false then 10 else if true then 20 else 30", "20"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			e, v := run(t, tt.input)
			if got := e.Format(v); got != tt.expected {
				t.Errorf("%s = %s, want %s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestShortCircuit(t *testing.T) {
	// the right operand would divide by zero if evaluated
	_, v := run(t, "false && 1 / 0 == 1")
	if v != (Boolean{Value: false}) {
		t.Errorf("expected false, got %v", v)
	}
	_, v = run(t, "true || 1 / 0 == 1")
	if v != (Boolean{Value: true}) {
		t.Errorf("expected true, got %v", v)
	}
}

func TestLetBindings(t *testing.T) {
	_, v := run(t, "let x = 5\nlet y: int = x * 2\ny")
	expectInteger(t, v, 10)

	_, v = run(t, "let x =\n    let tmp = 4\n    tmp + 1\nx")
	expectInteger(t, v, 5)

	_, v = run(t, "let x: int\nx = 3\nx")
	expectInteger(t, v, 3)

	_, v = run(t, "let x: int\nif true then x = 1 else x = 2\nx")
	expectInteger(t, v, 1)
}

func TestFunctionCall(t *testing.T) {
	_, v := run(t, "let a b: (int -> int) = 2 + b\na 3")
	expectInteger(t, v, 5)
}

func TestRecursion(t *testing.T) {
	src := `let fact n: (int -> int) = if n < 2 then 1 else n * fact (n - 1)
fact 10`
	_, v := run(t, src)
	expectInteger(t, v, 3628800)
}

func TestNestedRecursiveFunction(t *testing.T) {
	src := `let sum n: (int -> int) =
    let go i acc: (int -> int -> int) =
        if i > n then acc else go (i + 1) (acc + i)
    go 1 0
sum 4`
	_, v := run(t, src)
	expectInteger(t, v, 10)
}

func TestNestedStructPath(t *testing.T) {
	src := `type Point = {x: int, y: int}
type Line = {a: Point, b: Point}
let a = Point {x: 1, y: 2}
let b = Point {x: 3, y: 4}
let line = Line {a: a, b: b}
line.a.x`
	_, v := run(t, src)
	expectInteger(t, v, 1)
}

func TestStructReferenceSemantics(t *testing.T) {
	src := `type Point = {x: int, y: int}
let p = Point {y: 2, x: 1}
let q = p
q.x = 10
p.x`
	_, v := run(t, src)
	expectInteger(t, v, 10)
}

func TestStructEquality(t *testing.T) {
	src := `type Point = {x: int, y: int}
Point {x: 1, y: 2} == Point {y: 2, x: 1}`
	_, v := run(t, src)
	if v != (Boolean{Value: true}) {
		t.Errorf("expected structural equality, got %v", v)
	}
}

func TestArrayIndex(t *testing.T) {
	_, v := run(t, "let a = [1, 2]\na[1]")
	expectInteger(t, v, 2)

	_, v = run(t, "let a: [int] = []\na == []")
	if v != (Boolean{Value: true}) {
		t.Errorf("expected empty arrays to be equal, got %v", v)
	}
}

func TestClosureCapturesByReference(t *testing.T) {
	src := `let a: (() -> (() -> int)) =
    let index = 0
    fn ->
        index = index + 1
        index
let b = a ()
let first = b ()
let second = b ()
first * 10 + second`
	_, v := run(t, src)
	expectInteger(t, v, 12)
}

func TestClosuresShareCapturedVariable(t *testing.T) {
	src := `type Counter = {inc: (() -> int), get: (() -> int)}
let make: (() -> Counter) =
    let n = 0
    let inc: (() -> int) =
        n = n + 1
        n
    let get: (() -> int) = n
    Counter {inc: inc, get: get}
let c = make ()
c.inc ()
c.inc ()
c.get ()`
	_, v := run(t, src)
	expectInteger(t, v, 2)
}

func TestCountersAreIndependent(t *testing.T) {
	src := `let counter: (() -> (() -> int)) =
    let n = 0
    fn ->
        n = n + 1
        n
let c1 = counter ()
let c2 = counter ()
c1 ()
c1 ()
c2 ()`
	_, v := run(t, src)
	expectInteger(t, v, 1)
}

func TestClosureOverParameter(t *testing.T) {
	src := `let adder n: (int -> (int -> int)) = fn x -> x + n
let add5 = adder 5
add5 10`
	_, v := run(t, src)
	expectInteger(t, v, 15)
}

func TestClosureAsArgument(t *testing.T) {
	src := `let apply f x: ((int -> int) -> int -> int) = f x
apply (fn n -> n * n) 7`
	_, v := run(t, src)
	expectInteger(t, v, 49)
}

func TestClosureOverNameBoundLater(t *testing.T) {
	src := `let mk: (() -> (() -> int)) =
    let g: (() -> int) = fn -> y
    let y = 3
    g
let h = mk ()
h ()`
	_, v := run(t, src)
	expectInteger(t, v, 3)
}

func TestClosureEscapingThroughNestedCall(t *testing.T) {
	src := `let outer: (() -> (() -> int)) =
    let inner: (() -> (() -> int)) =
        let g: (() -> int) = fn -> base + extra
        let extra = 2
        g
    let base = 40
    inner ()
let h = outer ()
h ()`
	_, v := run(t, src)
	expectInteger(t, v, 42)
}

func TestStaleReference(t *testing.T) {
	src := `type Box = {f: (() -> int)}
let mk: (() -> Box) =
    let g: (() -> int) = fn -> y
    let y = 3
    Box {f: g}
let b = mk ()
b.f ()`
	_, err := runErr(t, src)
	if !errors.Is(err, StaleReference) {
		t.Errorf("expected %q, got %v", StaleReference, err)
	}
}

func TestValueBoundFunction(t *testing.T) {
	src := `let three: (() -> int) = 3
let alias: (() -> int) = three
alias ()`
	_, v := run(t, src)
	expectInteger(t, v, 3)
}

func TestTypeAlias(t *testing.T) {
	src := `type Meters = int
let d: Meters = 5
d + 1`
	_, v := run(t, src)
	expectInteger(t, v, 6)
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  ErrorKind
	}{
		{"unknown identifier", "nope + 1", UnknownIdentifier},
		{"uninitialized", "let x: int\nx + 1", UnknownIdentifier},
		{"arity", "let f a: (int -> int) = a\nf 1 2", ArityMismatch},
		{"declared arity", "let f a b: (int -> int) = a", ArityMismatch},
		{"argument type", "let f a: (int -> int) = a\nf true", TypeMismatch},
		{"operand types", "1 + 1.0", TypeMismatch},
		{"bool arithmetic", "true + false", TypeMismatch},
		{"condition", "if 1 then 2 else 3", TypeMismatch},
		{"branches", "if true then 1 else 'a'", TypeMismatch},
		{"if without else", "if true then 1", TypeMismatch},
		{"let type", "let x: bool = 1", TypeMismatch},
		{"return type", "let f a: (int -> bool) = a\nf 1", TypeMismatch},
		{"closure without type", "let f = fn x -> x", TypeMismatch},
		{"mixed array", "[1, 'a']", TypeMismatch},
		{"empty array", "let a = []", TypeMismatch},
		{"missing field", "type P = {x: int, y: int}\nP {x: 1}", UnknownOrMissingStructField},
		{"unknown field", "type P = {x: int}\nP {x: 1, z: 2}", UnknownOrMissingStructField},
		{"dotted unknown field", "type P = {x: int}\nlet p = P {x: 1}\np.q.r", UnknownOrMissingStructField},
		{"field of scalar", "let n = 1\nn.x", UnknownOrMissingStructField},
		{"unresolved type", "let x: Nope = 1", UnresolvedType},
		{"unresolved field type", "type P = {x: Nope}", UnresolvedType},
		{"not callable", "let x = 1\nx 2", NotCallable},
		{"not indexable", "let x = 1\nx[0]", NotIndexable},
		{"index type", "let a = [1]\na[true]", TypeMismatch},
		{"out of range", "let a = [1, 2]\na[2]", IndexOutOfRange},
		{"negative index", "let a = [1, 2]\na[-1]", IndexOutOfRange},
		{"assign to literal", "1 = 2", InvalidAssignmentTarget},
		{"assign mismatch", "let x = 1\nx = true", TypeMismatch},
		{"let without type", "let x", InvalidLetDeclaration},
		{"function without type", "let f a = a", InvalidLetDeclaration},
		{"duplicate type", "type P = {x: int}\ntype P = {y: int}", DuplicateType},
		{"duplicate field", "type P = {x: int, x: int}", DuplicateType},
		{"division", "1 / 0", DivisionByZero},
		{"modulo", "1 % 0", DivisionByZero},
		{"strings", `"hi"`, Unsupported},
		{"for", "for x in [1] do x", Unsupported},
		{"module", "module geo", Unsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runErr(t, tt.input)
			if !errors.Is(err, tt.kind) {
				t.Errorf("expected %q, got %v", tt.kind, err)
			}
		})
	}
}

func TestStructFieldErrorMessages(t *testing.T) {
	_, err := runErr(t, "type P = {x: int, y: int}\nP {x: 1}")
	if !strings.Contains(err.Error(), "missing field y") {
		t.Errorf("unexpected message: %v", err)
	}
	_, err = runErr(t, "type P = {x: int}\nP {x: 1, z: 2, w: 3}")
	if !strings.Contains(err.Error(), "unknown field(s) z, w") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestFailingStatementDoesNotStopRun(t *testing.T) {
	e := New()
	v, errs := e.Run(parse(t, "let x = 1\nx + true\nx + 41"))
	if len(errs) != 1 {
		t.Fatalf("expected one error, got %v", errs)
	}
	expectInteger(t, v, 42)
}

func TestOnStatementSeesEveryStatement(t *testing.T) {
	e := New()
	var outcomes []string
	e.OnStatement = func(_ ast.Statement, v Value, err error) {
		if err != nil {
			outcomes = append(outcomes, "error")
			return
		}
		outcomes = append(outcomes, v.Inspect())
	}
	e.Run(parse(t, "let x = 1\nx + true\nx + 41"))
	want := []string{"()", "error", "42"}
	if strings.Join(outcomes, ",") != strings.Join(want, ",") {
		t.Errorf("outcomes = %v, want %v", outcomes, want)
	}
}

func TestFrameBalance(t *testing.T) {
	e, _ := run(t, `let f n: (int -> int) =
    let arr = [1, 2]
    let doubled = n * 2
    arr[n] + doubled
let g n: (int -> int) = f n + f (n - 1)`)

	tests := []struct {
		input   string
		wantErr bool
	}{
		{"f 1", false},
		{"g 1", false},
		{"f 5", true},
		{"g 2", true},
		{"f true", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			before := e.Stack().Len()
			for _, stmt := range parse(t, tt.input).Statements {
				_, err := e.EvalStatement(stmt)
				if (err != nil) != tt.wantErr {
					t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
				}
			}
			if after := e.Stack().Len(); after != before {
				t.Errorf("stack length changed from %d to %d", before, after)
			}
			if d := e.Stack().Depth(); d != 0 {
				t.Errorf("expected no open frames, got %d", d)
			}
		})
	}
}

func TestStackTrace(t *testing.T) {
	_, err := runErr(t, `let inner n: (int -> int) = 10 / n
let outer n: (int -> int) = inner (n - 1)
outer 1`)
	var rerr *RuntimeError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected *RuntimeError, got %T", err)
	}
	if len(rerr.StackTrace) != 2 {
		t.Fatalf("expected 2 frames, got %v", rerr.StackTrace)
	}
	if rerr.StackTrace[0].Name != "inner" || rerr.StackTrace[1].Name != "outer" {
		t.Errorf("unexpected trace %v", rerr.StackTrace)
	}
}

func TestModuleQualifiedNames(t *testing.T) {
	src := `type Point = {x: int, y: int}
let p: main.Point = Point {x: 1, y: 2}
main.p.y`
	e, v := run(t, src)
	expectInteger(t, v, 2)
	if _, ok := e.Module.Value("p"); !ok {
		t.Errorf("expected p to be published on the module")
	}
}

func TestDefineAndLookup(t *testing.T) {
	e := New()
	e.Define("base", typesystem.IntID, Integer{Value: 40})
	v, errs := e.Run(parse(t, "base + 2"))
	if len(errs) > 0 {
		t.Fatal(errs[0])
	}
	expectInteger(t, v, 42)

	got, _, ok := e.Lookup("base")
	if !ok {
		t.Fatal("base not found")
	}
	expectInteger(t, got, 40)
}

func TestFormat(t *testing.T) {
	src := `type Point = {x: int, y: int}
let f n: (int -> int) = n
[Point {x: 1, y: 2}]`
	e, v := run(t, src)
	if got := e.Format(v); got != "[Point {x: 1, y: 2}]" {
		t.Errorf("unexpected format %q", got)
	}
	fn, _, _ := e.Lookup("f")
	if got := e.Format(fn); got != "<function f : ( int -> int )>" {
		t.Errorf("unexpected format %q", got)
	}
}
