package instrument_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"dsaviz/interpreter-go/pkg/ast"
	"dsaviz/interpreter-go/pkg/instrument"
	"dsaviz/interpreter-go/pkg/parser"
	"dsaviz/interpreter-go/pkg/tracer"
)

func mustParse(t *testing.T, source string) *ast.Program {
	t.Helper()
	prog, err := parser.Parse([]byte(source))
	if err != nil {
		t.Fatalf("Parse(%q): %v", source, err)
	}
	return prog
}

func transformSource(t *testing.T, source string) string {
	t.Helper()
	return ast.Print(instrument.Transform(mustParse(t, source)))
}

func TestTransformDeclarations(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   string
	}{
		{"read input", `let s = readInput();`, `let s = __viz.createString(readInput(), "s");`},
		{"empty new array", `let a = new Array();`, `let a = __viz.createArray(0, "a");`},
		{"sized new array", `let a = new Array(5);`, `let a = __viz.createArray(5, "a");`},
		{"listed new array", `let a = new Array(1, 2);`, `let a = __viz.createArray([1, 2], "a");`},
		{"array literal", `let a = [1, 2, 3];`, `let a = __viz.createArray([1, 2, 3], "a");`},
		{"array literal holes", `let a = [1, , 3];`, `let a = __viz.createArray([1, null, 3], "a");`},
		{"string literal", `const s = "hi";`, `const s = __viz.createString("hi", "s");`},
		{"number literal", `var n = 4;`, `var n = __viz.createVar(4, "n");`},
		{"boolean literal", `let ok = true;`, `let ok = __viz.createVar(true, "ok");`},
		{"other init", `let y = x * 2;`, `let y = x * 2;`},
		{"no init", `let z;`, `let z;`},
		{"other constructor", `let d = new Error("x");`, `let d = new Error("x");`},
		{"several declarators", `let i = 0, j = "a";`, `let i = __viz.createVar(0, "i"), j = __viz.createString("a", "j");`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want+"\n", transformSource(t, tc.source)); diff != "" {
				t.Fatalf("transform mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTransformAssignments(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   string
	}{
		{"index", `arr[i] = 5;`, `(arr[i] = 5, __viz.setArrayElement("arr", i, arr[i]));`},
		{"compound index", `arr[i] += 1;`, `(arr[i] += 1, __viz.setArrayElement("arr", i, arr[i]));`},
		{"index with call", `arr[f()] = 1;`, `__viz.refreshArray("arr", arr[f()] = 1);`},
		{"index with update", `arr[i++] = 1;`, `__viz.refreshArray("arr", arr[i++] = 1);`},
		{"string plus", `s = s + "!";`, `(s = s + "!", __viz.updateString("s", s));`},
		{"string append", `s += "x";`, `(s += "x", __viz.updateString("s", s));`},
		{"string concat", `s = s.concat("!");`, `(s = s.concat("!"), __viz.updateString("s", s));`},
		{"plain", `x = 3;`, `(x = 3, __viz.updateVar("x", x));`},
		{"plus of other name", `x = y + 1;`, `(x = y + 1, __viz.updateVar("x", x));`},
		{"read input", `x = readInput();`, `x = readInput();`},
		{"dotted", `obj.prop = 1;`, `obj.prop = 1;`},
		{"update", `i++;`, `i++;`},
		{"nested index", `grid[i][j] = 1;`, `grid[i][j] = 1;`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want+"\n", transformSource(t, tc.source)); diff != "" {
				t.Fatalf("transform mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTransformMutatingCalls(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   string
	}{
		{"push", `arr.push(4);`, `__viz.refreshArray("arr", arr.push(4));`},
		{"pop in declaration", `let last = arr.pop();`, `let last = __viz.refreshArray("arr", arr.pop());`},
		{"sort with comparator", `arr.sort((a, b) => a - b);`, `__viz.refreshArray("arr", arr.sort((a, b) => a - b));`},
		{"assigned result", `x = arr.shift();`, `(x = __viz.refreshArray("arr", arr.shift()), __viz.updateVar("x", x));`},
		{"non mutating", `arr.slice(1);`, `arr.slice(1);`},
		{"dotted receiver", `a.b.push(1);`, `a.b.push(1);`},
		{"computed method", `arr["push"](1);`, `arr["push"](1);`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want+"\n", transformSource(t, tc.source)); diff != "" {
				t.Fatalf("transform mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTransformNestedScopes(t *testing.T) {
	source := `function fill(n) {
  let out = [];
  for (let i = 0; i < n; i++) {
    out[i] = i * i;
  }
  return out;
}
`
	want := `function fill(n) {
  let out = __viz.createArray([], "out");
  for (let i = __viz.createVar(0, "i"); i < n; i++) {
    (out[i] = i * i, __viz.setArrayElement("out", i, out[i]));
  }
  return out;
}
`
	if diff := cmp.Diff(want, transformSource(t, source)); diff != "" {
		t.Fatalf("transform mismatch (-want +got):\n%s", diff)
	}
}

const sampleProgram = `let arr = [5, 3, 1];
let s = "";
let n = readInput();
let grid = new Array(3);
for (let i = 0; i < arr.length; i++) {
  for (let j = 0; j + 1 < arr.length - i; j++) {
    if (arr[j] > arr[j + 1]) {
      const tmp = arr[j];
      arr[j] = arr[j + 1];
      arr[j + 1] = tmp;
    }
  }
  s += arr[i];
}
arr.push(n);
arr[arr.push(0)] = 1;
n = n * 2;
`

func TestTransformIsIdempotent(t *testing.T) {
	prog := instrument.Transform(mustParse(t, sampleProgram))
	first := ast.Print(prog)

	again, report := instrument.TransformWithReport(prog)
	if diff := cmp.Diff(first, ast.Print(again)); diff != "" {
		t.Fatalf("second transform changed the tree (-first +second):\n%s", diff)
	}
	if report.Total() != 0 {
		t.Fatalf("second transform inserted %d calls: %v", report.Total(), report)
	}

	reparsed := instrument.Transform(mustParse(t, first))
	if diff := cmp.Diff(first, ast.Print(reparsed)); diff != "" {
		t.Fatalf("transform after reparse changed the source (-first +second):\n%s", diff)
	}
}

func TestTransformReport(t *testing.T) {
	_, report := instrument.TransformWithReport(mustParse(t, sampleProgram))
	want := instrument.Report{
		tracer.MethodCreateArray:     2,
		tracer.MethodCreateString:    2,
		tracer.MethodCreateVar:       2,
		tracer.MethodSetArrayElement: 2,
		tracer.MethodUpdateString:    1,
		tracer.MethodRefreshArray:    3,
		tracer.MethodUpdateVar:       1,
	}
	if diff := cmp.Diff(want, report); diff != "" {
		t.Fatalf("report mismatch (-want +got):\n%s", diff)
	}
	if report.Total() != 13 {
		t.Fatalf("expected 13 inserted calls, got %d", report.Total())
	}
}

func TestBindingMethod(t *testing.T) {
	call := instrument.BindingCall(tracer.MethodUpdateVar, ast.Str("x"), ast.ID("x"))
	if got := ast.PrintExpression(call); got != `__viz.updateVar("x", x)` {
		t.Fatalf("unexpected binding call %q", got)
	}
	method, ok := instrument.BindingMethod(call)
	if !ok || method != tracer.MethodUpdateVar {
		t.Fatalf("BindingMethod = %q, %v", method, ok)
	}
	if _, ok := instrument.BindingMethod(ast.CallMember(ast.ID("arr"), "push")); ok {
		t.Fatalf("expected ordinary call not to be a binding call")
	}
	if !instrument.IsMutatingMethod("copyWithin") || instrument.IsMutatingMethod("map") {
		t.Fatalf("unexpected mutating method classification")
	}
}
