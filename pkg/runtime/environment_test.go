package runtime

import (
	"strings"
	"testing"
)

func TestEnvironmentScopes(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("x", Number(1))
	fn := NewFunctionEnvironment(global)
	block := fn.Extend()
	block.Define("y", Number(2))

	if block.FunctionScope() != fn {
		t.Fatalf("expected function scope lookup to stop at function env")
	}
	if global.FunctionScope() != global {
		t.Fatalf("expected global to be its own function scope")
	}
	if err := block.Assign("x", Number(5)); err != nil {
		t.Fatalf("assign: %v", err)
	}
	v, err := global.Get("x")
	if err != nil || ToNumber(v) != 5 {
		t.Fatalf("expected x=5 in global, got %v (%v)", v, err)
	}
	if fn.Has("y") {
		t.Fatalf("block binding leaked into function scope")
	}
	if _, err := fn.Get("missing"); err == nil || !strings.Contains(err.Error(), "not defined") {
		t.Fatalf("expected reference error, got %v", err)
	}
}

func TestEnvironmentConst(t *testing.T) {
	env := NewEnvironment(nil)
	env.DefineConst("c", Number(1))
	if err := env.Assign("c", Number(2)); err == nil {
		t.Fatalf("expected const assignment to fail")
	}
	env.Define("c", Number(3))
	if err := env.Assign("c", Number(4)); err != nil {
		t.Fatalf("redefined binding should be mutable: %v", err)
	}
	if keys := env.Keys(); len(keys) != 1 || keys[0] != "c" {
		t.Fatalf("unexpected keys %v", keys)
	}
}
