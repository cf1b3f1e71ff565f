package ast

import "testing"

func TestPrintDeclarationsAndSequences(t *testing.T) {
	prog := Prog(
		Let("arr", Call(Member(ID("__viz"), "createArray"), Arr(Int(1), nil, Int(3)), Str("arr"))),
		Expr(Seq(
			Assign(Index(ID("arr"), Int(1)), Int(20)),
			CallMember(ID("__viz"), "setArrayElement", Str("arr"), Int(1), Index(ID("arr"), Int(1))),
		)),
	)
	got := Print(prog)
	want := "let arr = __viz.createArray([1, , 3], \"arr\");\n" +
		"(arr[1] = 20, __viz.setArrayElement(\"arr\", 1, arr[1]));\n"
	if got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrintPrecedence(t *testing.T) {
	cases := []struct {
		name string
		expr Expression
		want string
	}{
		{"left assoc", Bin("-", Bin("-", ID("a"), ID("b")), ID("c")), "a - b - c"},
		{"right nested", Bin("-", ID("a"), Bin("-", ID("b"), ID("c"))), "a - (b - c)"},
		{"mul over add", Bin("*", Bin("+", ID("a"), ID("b")), ID("c")), "(a + b) * c"},
		{"exponent", Bin("**", NewUnaryExpression("-", ID("a")), Int(2)), "(-a) ** 2"},
		{"double negation", NewUnaryExpression("-", NewUnaryExpression("-", ID("a"))), "- -a"},
		{"typeof", NewUnaryExpression("typeof", ID("a")), "typeof a"},
		{"number member", CallMember(Int(5), "toString"), "(5).toString()"},
		{"conditional", NewConditionalExpression(ID("a"), Assign(ID("b"), Int(1)), ID("c")), "a ? b = 1 : c"},
		{"coalesce mix", NewLogicalExpression("??", NewLogicalExpression("||", ID("a"), ID("b")), ID("c")), "(a || b) ?? c"},
		{"new", New(ID("Array"), Int(3)), "new Array(3)"},
		{"hole tail", Arr(Int(1), nil), "[1, ,]"},
	}
	for _, tc := range cases {
		if got := PrintExpression(tc.expr); got != tc.want {
			t.Fatalf("%s: got %q want %q", tc.name, got, tc.want)
		}
	}
}

func TestPrintStatements(t *testing.T) {
	prog := Prog(
		NewForStatement(
			Let("i", Int(0)),
			Bin("<", ID("i"), Member(ID("arr"), "length")),
			NewUpdateExpression("++", false, ID("i")),
			Block(NewIfStatement(
				Bin(">", Index(ID("arr"), ID("i")), Int(2)),
				Block(NewBreakStatement()),
				NewIfStatement(ID("x"), Expr(ID("y")), nil),
			)),
		),
	)
	want := "for (let i = 0; i < arr.length; i++) {\n" +
		"  if (arr[i] > 2) {\n" +
		"    break;\n" +
		"  } else if (x)\n" +
		"    y;\n" +
		"}\n"
	if got := Print(prog); got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestQuoteString(t *testing.T) {
	got := PrintExpression(Str("a\"b\\c\n\u2028"))
	want := `"a\"b\\c\n\u2028"`
	if got != want {
		t.Fatalf("got %s want %s", got, want)
	}
}
