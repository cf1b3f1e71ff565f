package parser_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"dsaviz/interpreter-go/pkg/ast"
	"dsaviz/interpreter-go/pkg/parser"
)

func mustParse(t *testing.T, source string) *ast.Program {
	t.Helper()
	pp, err := parser.NewProgramParser()
	if err != nil {
		t.Fatalf("NewProgramParser: %v", err)
	}
	t.Cleanup(pp.Close)

	prog, err := pp.ParseProgram([]byte(source))
	if err != nil {
		t.Fatalf("ParseProgram returned error: %v", err)
	}
	if prog == nil {
		t.Fatalf("ParseProgram returned nil program")
	}
	return prog
}

func TestParseDeclarationsIgnoresComments(t *testing.T) {
	prog := mustParse(t, `
// leading comment
let x = 5, y;
const s = "hi\n"; /* trailing */
var arr = [1, , 3];
`)
	if len(prog.Body) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(prog.Body))
	}
	first, ok := prog.Body[0].(*ast.VariableDeclaration)
	if !ok || first.Kind != ast.DeclarationLet || len(first.Declarations) != 2 {
		t.Fatalf("unexpected first statement %#v", prog.Body[0])
	}
	if num, ok := first.Declarations[0].Init.(*ast.NumberLiteral); !ok || num.Value != 5 {
		t.Fatalf("expected number initializer, got %#v", first.Declarations[0].Init)
	}
	if first.Declarations[1].Init != nil {
		t.Fatalf("expected missing initializer for y")
	}
	second := prog.Body[1].(*ast.VariableDeclaration)
	if second.Kind != ast.DeclarationConst {
		t.Fatalf("expected const, got %s", second.Kind)
	}
	if str, ok := second.Declarations[0].Init.(*ast.StringLiteral); !ok || str.Value != "hi\n" {
		t.Fatalf("expected decoded string, got %#v", second.Declarations[0].Init)
	}
	third := prog.Body[2].(*ast.VariableDeclaration)
	arr, ok := third.Declarations[0].Init.(*ast.ArrayLiteral)
	if !ok || len(arr.Elements) != 3 || arr.Elements[1] != nil {
		t.Fatalf("expected array with hole, got %#v", third.Declarations[0].Init)
	}
}

func TestParsePrintRoundTrip(t *testing.T) {
	source := `let arr = new Array(3);
function swap(a, i, j = 0) {
  const tmp = a[i];
  a[i] = a[j];
  a[j] = tmp;
  return a;
}
for (let i = 0; i < arr.length; i++) {
  arr[i] = i * 2 + 1;
}
for (const v of arr) {
  console.log(` + "`v=${v}`" + `);
}
let s = "";
while (s.length < 3) s += "x";
do {
  s = s.concat("!");
} while (false);
let f = (x) => x ** 2;
try {
  throw "boom";
} catch (e) {
  s = e;
} finally {
  s = s + 1;
}
(arr[0] = 1, arr.push(2));
`
	first := ast.Print(mustParse(t, source))
	second := ast.Print(mustParse(t, first))
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("print is not stable across reparse (-first +second):\n%s", diff)
	}
}

func TestParseExpressions(t *testing.T) {
	cases := []struct {
		source string
		want   string
	}{
		{"a = b = c;", "a = b = c;\n"},
		{"x += 1;", "x += 1;\n"},
		{"i++; --j;", "i++;\n--j;\n"},
		{"a && b || c;", "a && b || c;\n"},
		{"(a, b, c);", "(a, b, c);\n"},
		{"x = cond ? 1 : 2;", "x = cond ? 1 : 2;\n"},
		{"arr[i + 1] = arr[i];", "arr[i + 1] = arr[i];\n"},
		{"let n = 0x1F;", "let n = 0x1F;\n"},
		{"let u = undefined;", "let u = undefined;\n"},
		{"typeof x === \"number\";", "typeof x === \"number\";\n"},
		{"if (a) b(); else if (c) d(); else e();", "if (a)\n  b();\nelse if (c)\n  d();\nelse\n  e();\n"},
	}
	for _, tc := range cases {
		got := ast.Print(mustParse(t, tc.source))
		if got != tc.want {
			t.Fatalf("source %q: got %q want %q", tc.source, got, tc.want)
		}
	}
}

func TestParseNumberValues(t *testing.T) {
	prog := mustParse(t, "0x10; 0b101; 1e3; .5; 0o17;")
	want := []float64{16, 5, 1000, 0.5, 15}
	for i, stmt := range prog.Body {
		num, ok := stmt.(*ast.ExpressionStatement).Expression.(*ast.NumberLiteral)
		if !ok {
			t.Fatalf("statement %d: expected number literal, got %T", i, stmt.(*ast.ExpressionStatement).Expression)
		}
		if num.Value != want[i] {
			t.Fatalf("statement %d: got %v want %v", i, num.Value, want[i])
		}
	}
}

func TestParseTemplateAndEscapes(t *testing.T) {
	prog := mustParse(t, "`a${x}b${y + 1}\\n`; \"\\u0041\\x42\\u{1F600}\";")
	tpl, ok := prog.Body[0].(*ast.ExpressionStatement).Expression.(*ast.TemplateLiteral)
	if !ok {
		t.Fatalf("expected template literal, got %T", prog.Body[0].(*ast.ExpressionStatement).Expression)
	}
	if diff := cmp.Diff([]string{"a", "b", "\n"}, tpl.Quasis); diff != "" {
		t.Fatalf("quasis mismatch (-want +got):\n%s", diff)
	}
	if len(tpl.Expressions) != 2 {
		t.Fatalf("expected 2 substitutions, got %d", len(tpl.Expressions))
	}
	str := prog.Body[1].(*ast.ExpressionStatement).Expression.(*ast.StringLiteral)
	if str.Value != "AB\U0001F600" {
		t.Fatalf("unexpected decoded string %q", str.Value)
	}
}

func TestParseSpans(t *testing.T) {
	prog := mustParse(t, "let x = 1;\nx = 2;\n")
	span := prog.Body[1].Span()
	if span.Start.Line != 2 || span.Start.Column != 1 {
		t.Fatalf("unexpected span %+v", span)
	}
}

func TestParseSyntaxError(t *testing.T) {
	pp, err := parser.NewProgramParser()
	if err != nil {
		t.Fatalf("NewProgramParser: %v", err)
	}
	defer pp.Close()

	_, err = pp.ParseProgram([]byte("let x = ;\n"))
	if err == nil {
		t.Fatalf("expected syntax error")
	}
	var parseErr *parser.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if parseErr.Location.Line != 1 {
		t.Fatalf("expected error on line 1, got %+v", parseErr.Location)
	}
}

func TestParseUnsupportedConstructs(t *testing.T) {
	sources := []string{
		"let o = {a: 1};",
		"class A {}",
		"switch (x) { case 1: break; }",
		"let [a, b] = arr;",
		"f(...args);",
	}
	for _, source := range sources {
		_, err := parser.Parse([]byte(source))
		if err == nil {
			t.Fatalf("expected error for %q", source)
		}
		var parseErr *parser.ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("%q: expected *ParseError, got %T (%v)", source, err, err)
		}
	}
}
