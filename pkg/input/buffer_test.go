package input

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"dsaviz/interpreter-go/pkg/runtime"
)

func TestNewBufferCoercesNumbers(t *testing.T) {
	buf := NewBuffer("  5 hello\n-3.5\t0x10 1e3 Infinity 12abc ")
	want := []runtime.Value{
		runtime.Number(5),
		runtime.String("hello"),
		runtime.Number(-3.5),
		runtime.Number(16),
		runtime.Number(1000),
		runtime.Number(math.Inf(1)),
		runtime.String("12abc"),
	}
	if diff := cmp.Diff(want, buf.Remaining()); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestNextConsumesFrontToBack(t *testing.T) {
	buf := NewBuffer("hello world")
	if got := buf.Next(); got != runtime.String("hello") {
		t.Fatalf("expected hello, got %#v", got)
	}
	if buf.Len() != 1 {
		t.Fatalf("expected 1 remaining token, got %d", buf.Len())
	}
	if got := buf.Next(); got != runtime.String("world") {
		t.Fatalf("expected world, got %#v", got)
	}
}

func TestExhaustedBufferYieldsUndefined(t *testing.T) {
	buf := NewBuffer("")
	for range 3 {
		if _, ok := buf.Next().(runtime.UndefinedValue); !ok {
			t.Fatalf("expected undefined from empty buffer")
		}
	}
	if buf.Len() != 0 {
		t.Fatalf("expected empty buffer")
	}
}

func TestRemainingIsACopy(t *testing.T) {
	buf := NewBuffer("1 2")
	rest := buf.Remaining()
	rest[0] = runtime.String("changed")
	if got := buf.Next(); got != runtime.Number(1) {
		t.Fatalf("buffer was mutated through Remaining: %#v", got)
	}
}

func TestBindingReadsFromBuffer(t *testing.T) {
	buf := NewBuffer("7")
	fn := buf.Binding()
	val, err := fn.Impl(&runtime.NativeCallContext{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != runtime.Number(7) {
		t.Fatalf("expected 7, got %#v", val)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected token to be consumed")
	}
}
