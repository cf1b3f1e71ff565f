package ast

import "testing"

type renamer struct {
	from, to string
	skip     string
}

func (r renamer) Enter(node Node) bool {
	if call, ok := node.(*CallExpression); ok {
		if id, ok := call.Callee.(*Identifier); ok && id.Name == r.skip {
			return false
		}
	}
	return true
}

func (r renamer) Leave(node Node) Node {
	if id, ok := node.(*Identifier); ok && id.Name == r.from {
		return ID(r.to)
	}
	return node
}

func TestRewriteReplacesExpressions(t *testing.T) {
	prog := Prog(
		Let("x", Bin("+", ID("a"), Int(1))),
		Expr(Call(ID("keep"), ID("a"))),
		NewWhileStatement(ID("a"), Block(Expr(Assign(ID("a"), Int(0))))),
	)
	Rewrite(prog, renamer{from: "a", to: "b", skip: "keep"})
	got := Print(prog)
	want := "let x = b + 1;\nkeep(a);\nwhile (b) {\n  b = 0;\n}\n"
	if got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestRewriteIgnoresWrongCategory(t *testing.T) {
	decl := Let("x", ID("a"))
	Rewrite(decl, leaveFunc(func(n Node) Node {
		if _, ok := n.(*Identifier); ok {
			return NewEmptyStatement()
		}
		return n
	}))
	if _, ok := decl.Declarations[0].Init.(*Identifier); !ok {
		t.Fatalf("expected initializer to survive, got %T", decl.Declarations[0].Init)
	}
}

type leaveFunc func(Node) Node

func (f leaveFunc) Enter(Node) bool   { return true }
func (f leaveFunc) Leave(n Node) Node { return f(n) }

func TestInspectVisitsInOrder(t *testing.T) {
	prog := Prog(Expr(Call(ID("f"), ID("a"), Arr(ID("b"), nil))))
	var names []string
	Inspect(prog, func(n Node) bool {
		if id, ok := n.(*Identifier); ok {
			names = append(names, id.Name)
		}
		return true
	})
	if len(names) != 3 || names[0] != "f" || names[1] != "a" || names[2] != "b" {
		t.Fatalf("unexpected visit order %v", names)
	}
}
