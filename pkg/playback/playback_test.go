package playback

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"dsaviz/interpreter-go/pkg/tracer"
)

func sampleSequence() *tracer.Sequence {
	return tracer.NewSequence([]tracer.Snapshot{
		{Vars: []tracer.VarEntry{{Name: "x", Value: tracer.Num(1)}}},
		{Vars: []tracer.VarEntry{{Name: "x", Value: tracer.Num(2)}}},
		{Vars: []tracer.VarEntry{{Name: "x", Value: tracer.Num(3)}}},
	})
}

func TestCursorMovement(t *testing.T) {
	c := NewCursor(sampleSequence())
	if c.Len() != 3 || c.Pos() != 0 {
		t.Fatalf("unexpected start %d/%d", c.Pos(), c.Len())
	}
	if c.Prev() {
		t.Fatalf("Prev at start should fail")
	}
	if !c.Next() || !c.Next() || c.Next() {
		t.Fatalf("Next should stop at the last snapshot")
	}
	if c.Pos() != 2 {
		t.Fatalf("expected position 2, got %d", c.Pos())
	}
	if !c.First() || c.Pos() != 0 {
		t.Fatalf("First failed")
	}
	if !c.Seek(1) || c.Seek(7) || c.Pos() != 1 {
		t.Fatalf("Seek misbehaved, at %d", c.Pos())
	}
	snap, ok := c.Current()
	if !ok {
		t.Fatalf("Current failed")
	}
	if v, _ := snap.Var("x"); v.Number != 2 {
		t.Fatalf("unexpected current snapshot %+v", snap)
	}
	if !c.Last() || c.Pos() != 2 {
		t.Fatalf("Last failed")
	}
}

func TestCursorEmptySequence(t *testing.T) {
	c := NewCursor(tracer.NewSequence(nil))
	if c.Next() || c.Last() || c.First() {
		t.Fatalf("moves on an empty sequence should fail")
	}
	if _, ok := c.Current(); ok {
		t.Fatalf("Current on an empty sequence should fail")
	}
}

func TestPlayerRendersInOrder(t *testing.T) {
	var seen []float64
	player := &Player{Render: func(f Frame) error {
		v, _ := f.Snapshot.Var("x")
		seen = append(seen, v.Number)
		if f.Total != 3 {
			t.Fatalf("unexpected total %d", f.Total)
		}
		return nil
	}}
	n, err := player.Play(context.Background(), sampleSequence())
	if err != nil || n != 3 {
		t.Fatalf("Play = %d, %v", n, err)
	}
	if diff := cmp.Diff([]float64{1, 2, 3}, seen); diff != "" {
		t.Fatalf("frame order mismatch (-want +got):\n%s", diff)
	}
}

func TestPlayerStopsOnCancel(t *testing.T) {
	seq := sampleSequence()
	ctx, cancel := context.WithCancel(context.Background())
	player := &Player{Delay: time.Hour, Render: func(f Frame) error {
		cancel()
		return nil
	}}
	n, err := player.Play(ctx, seq)
	if !errors.Is(err, context.Canceled) || n != 1 {
		t.Fatalf("Play = %d, %v; want 1 frame and context.Canceled", n, err)
	}
	if seq.Len() != 3 {
		t.Fatalf("sequence changed during playback")
	}
}

func TestPlayerStopsOnRenderError(t *testing.T) {
	boom := errors.New("boom")
	player := &Player{Render: func(f Frame) error {
		if f.Index == 1 {
			return boom
		}
		return nil
	}}
	n, err := player.Play(context.Background(), sampleSequence())
	if !errors.Is(err, boom) || n != 1 {
		t.Fatalf("Play = %d, %v", n, err)
	}
}

func TestFormatSnapshot(t *testing.T) {
	snap := tracer.Snapshot{
		Arrays: []tracer.ArrayEntry{
			{Name: "arr", Values: []tracer.Value{tracer.Num(5), tracer.Num(120), tracer.Absent}},
			{Name: "word", Values: []tracer.Value{tracer.Str("h"), tracer.Str("é")}},
			{Name: "none", Values: []tracer.Value{}},
		},
		Vars: []tracer.VarEntry{
			{Name: "i", Value: tracer.Num(2)},
			{Name: "word", Value: tracer.Str("hé")},
			{Name: "done", Value: tracer.Bool(false)},
		},
	}
	want := "arr\n" +
		"  0 1   2\n" +
		"  5 120 ∅\n" +
		"word\n" +
		"  0 1\n" +
		"  h é\n" +
		"none\n" +
		"  (empty)\n" +
		"vars\n" +
		"  i    = 2\n" +
		"  word = \"hé\"\n" +
		"  done = false\n"
	if diff := cmp.Diff(want, FormatSnapshot(snap)); diff != "" {
		t.Fatalf("format mismatch (-want +got):\n%s", diff)
	}
}

func TestRendererClearsOnlyWhenAsked(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)
	if r.ClearScreen {
		t.Fatalf("a buffer is not a terminal")
	}
	frame := Frame{Index: 0, Total: 1, Snapshot: tracer.Snapshot{Vars: []tracer.VarEntry{{Name: "x", Value: tracer.Num(1)}}}}
	if err := r.Render(frame); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := buf.String(); got != "step 1/1\nvars\n  x = 1\n" {
		t.Fatalf("unexpected output %q", got)
	}

	buf.Reset()
	r.ClearScreen = true
	if err := r.Render(frame); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := buf.String(); got[:len(clearScreen)] != clearScreen {
		t.Fatalf("expected clear sequence, got %q", got)
	}
}
