package tracer

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gopkg.in/yaml.v3"

	"dsaviz/interpreter-go/pkg/runtime"
)

func nums(values ...float64) []runtime.Value {
	out := make([]runtime.Value, len(values))
	for idx, v := range values {
		out[idx] = runtime.Number(v)
	}
	return out
}

func TestCreateVarRecordsOneSnapshot(t *testing.T) {
	rt := NewRuntime(Options{})
	got := rt.CreateVar(runtime.Number(5), "x")
	if got != runtime.Number(5) {
		t.Fatalf("expected value to pass through, got %#v", got)
	}
	seq := rt.Sequence()
	if seq.Len() != 1 {
		t.Fatalf("expected 1 snapshot, got %d", seq.Len())
	}
	snap, _ := seq.At(0)
	want := Snapshot{Vars: []VarEntry{{Name: "x", Value: Num(5)}}}
	if diff := cmp.Diff(want, snap, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateArrayAliasesReturnedCopy(t *testing.T) {
	rt := NewRuntime(Options{})
	original := runtime.NewArray(nums(1, 2, 3))
	live := rt.CreateArray(original, "arr").(*runtime.ArrayValue)
	if live == original {
		t.Fatalf("expected a copy of the input array")
	}
	live.Elements = append(live.Elements, runtime.Number(4))
	rt.RefreshArray("arr", runtime.Number(4))
	live.Elements[1] = runtime.Number(20)
	rt.SetArrayElement("arr", runtime.Number(1), runtime.Number(20))

	var got [][]Value
	for _, snap := range rt.Sequence().Snapshots() {
		values, ok := snap.Array("arr")
		if !ok {
			t.Fatalf("arr missing from snapshot")
		}
		got = append(got, values)
	}
	want := [][]Value{
		{Num(1), Num(2), Num(3)},
		{Num(1), Num(2), Num(3), Num(4)},
		{Num(1), Num(20), Num(3), Num(4)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("array history mismatch (-want +got):\n%s", diff)
	}
	if len(original.Elements) != 3 {
		t.Fatalf("input array was mutated")
	}
}

func TestCreateArrayFromCount(t *testing.T) {
	cases := []struct {
		name string
		data runtime.Value
		want []Value
	}{
		{"count", runtime.Number(3), []Value{Absent, Absent, Absent}},
		{"zero", runtime.Number(0), []Value{}},
		{"negative", runtime.Number(-1), []Value{}},
		{"fractional", runtime.Number(2.5), []Value{}},
		{"nan", runtime.Number(math.NaN()), []Value{}},
		{"clamped", runtime.Number(10), []Value{Absent, Absent, Absent, Absent}},
		{"string", runtime.String("x"), []Value{Str("x")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rt := NewRuntime(Options{MaxArrayLength: 4})
			rt.CreateArray(tc.data, "a")
			snap, _ := rt.Sequence().Last()
			got, _ := snap.Array("a")
			if diff := cmp.Diff(tc.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSetArrayElementOnlyRecords(t *testing.T) {
	rt := NewRuntime(Options{})
	live := rt.CreateArray(runtime.NewArray(nums(1)), "a").(*runtime.ArrayValue)

	// The program grows its own array; the primitive only snapshots it.
	live.Elements = append(live.Elements, nil, nil, runtime.Number(9))
	if got := rt.SetArrayElement("a", runtime.Number(3), runtime.Number(9)); got != runtime.Number(9) {
		t.Fatalf("expected value to pass through, got %#v", got)
	}
	snap, _ := rt.Sequence().Last()
	got, _ := snap.Array("a")
	if diff := cmp.Diff([]Value{Num(1), Absent, Absent, Num(9)}, got); diff != "" {
		t.Fatalf("live array mismatch (-want +got):\n%s", diff)
	}

	rt.SetArrayElement("a", runtime.Number(0), runtime.Number(42))
	rt.SetArrayElement("a", runtime.Number(-1), runtime.Number(0))
	rt.SetArrayElement("missing", runtime.Number(0), runtime.Number(0))
	if rt.Len() != 5 {
		t.Fatalf("expected a snapshot per call, got %d", rt.Len())
	}
	if diff := cmp.Diff(nums(1), live.Elements[:1]); diff != "" {
		t.Fatalf("the tracer wrote into the program's array (-want +got):\n%s", diff)
	}
	snap, _ = rt.Sequence().Last()
	if _, ok := snap.Array("missing"); ok {
		t.Fatalf("untracked name should not appear")
	}
}

func TestStringTracking(t *testing.T) {
	rt := NewRuntime(Options{})
	rt.CreateString(runtime.String("hi"), "str")
	rt.UpdateString("str", runtime.String("hi!"))

	snap, _ := rt.Sequence().Last()
	want := Snapshot{
		Arrays: []ArrayEntry{{Name: "str", Values: []Value{Str("h"), Str("i"), Str("!")}}},
		Vars:   []VarEntry{{Name: "str", Value: Str("hi!")}},
	}
	if diff := cmp.Diff(want, snap); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}

	rt.UpdateVar("str", runtime.String("héllo"))
	snap, _ = rt.Sequence().Last()
	chars, _ := snap.Array("str")
	if len(chars) != 5 || !cmp.Equal(chars[1], Str("é")) {
		t.Fatalf("updateVar should refresh the character view, got %v", chars)
	}
}

func TestUpdateWithArrayReRegisters(t *testing.T) {
	rt := NewRuntime(Options{})
	rt.CreateString(runtime.String("ab"), "s")
	rt.UpdateString("s", runtime.NewArray(nums(1, 2)))

	snap, _ := rt.Sequence().Last()
	if _, ok := snap.Var("s"); ok {
		t.Fatalf("array value should drop the scalar view")
	}
	got, _ := snap.Array("s")
	if diff := cmp.Diff([]Value{Num(1), Num(2)}, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}

	rt.UpdateVar("s", runtime.Number(3))
	snap, _ = rt.Sequence().Last()
	if _, ok := snap.Array("s"); ok {
		t.Fatalf("scalar update should drop the array view")
	}
	if v, _ := snap.Var("s"); !cmp.Equal(v, Num(3)) {
		t.Fatalf("expected 3, got %v", v)
	}
}

func TestCreateStringTracksNumberAsText(t *testing.T) {
	rt := NewRuntime(Options{})
	got := rt.CreateString(runtime.Number(42), "n")
	if got != runtime.Number(42) {
		t.Fatalf("expected number to pass through to the program, got %#v", got)
	}
	rt.UpdateString("n", runtime.Bool(true))

	var vars []Value
	var views [][]Value
	for _, snap := range rt.Sequence().Snapshots() {
		v, _ := snap.Var("n")
		chars, ok := snap.Array("n")
		if !ok {
			t.Fatalf("expected a character view in %+v", snap)
		}
		vars = append(vars, v)
		views = append(views, chars)
	}
	if diff := cmp.Diff([]Value{Str("42"), Bool(true)}, vars); diff != "" {
		t.Fatalf("scalar view mismatch (-want +got):\n%s", diff)
	}
	wantViews := [][]Value{
		{Str("4"), Str("2")},
		{Str("t"), Str("r"), Str("u"), Str("e")},
	}
	if diff := cmp.Diff(wantViews, views); diff != "" {
		t.Fatalf("character view mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateReplacesTrackingAndKeepsOrder(t *testing.T) {
	rt := NewRuntime(Options{})
	rt.CreateVar(runtime.Number(1), "a")
	rt.CreateVar(runtime.Number(2), "b")
	rt.CreateVar(runtime.Number(3), "a")

	snap, _ := rt.Sequence().Last()
	want := []VarEntry{{Name: "a", Value: Num(3)}, {Name: "b", Value: Num(2)}}
	if diff := cmp.Diff(want, snap.Vars); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestRefreshReturnsResult(t *testing.T) {
	rt := NewRuntime(Options{})
	if got := rt.RefreshArray("a", runtime.Number(4)); got != runtime.Number(4) {
		t.Fatalf("expected passthrough, got %#v", got)
	}
	if _, ok := rt.RefreshArray("a", nil).(runtime.UndefinedValue); !ok {
		t.Fatalf("expected undefined for omitted result")
	}
	rt.RefreshString("s")
	if rt.Len() != 3 {
		t.Fatalf("expected 3 snapshots, got %d", rt.Len())
	}
}

func TestSnapshotsAreIndependentCopies(t *testing.T) {
	rt := NewRuntime(Options{})
	live := rt.CreateArray(runtime.NewArray(nums(1, 2)), "a").(*runtime.ArrayValue)
	seq := rt.Sequence()
	live.Elements[0] = runtime.Number(99)
	rt.RefreshArray("a", nil)

	first, _ := seq.At(0)
	values, _ := first.Array("a")
	if !cmp.Equal(values[0], Num(1)) {
		t.Fatalf("snapshot aliased live storage: %v", values)
	}
	if seq.Len() != 1 {
		t.Fatalf("frozen sequence grew to %d", seq.Len())
	}
	values[1] = Num(42)
	again, _ := seq.At(0)
	if got, _ := again.Array("a"); !cmp.Equal(got[1], Num(2)) {
		t.Fatalf("sequence exposed internal storage")
	}
}

func TestNestedArraysAreCaptured(t *testing.T) {
	rt := NewRuntime(Options{})
	inner := runtime.NewArray(nums(1))
	rt.CreateArray(runtime.NewArray([]runtime.Value{inner}), "grid")
	inner.Elements[0] = runtime.Number(5)
	rt.RefreshArray("grid", nil)

	seq := rt.Sequence()
	first, _ := seq.At(0)
	second, _ := seq.At(1)
	a, _ := first.Array("grid")
	b, _ := second.Array("grid")
	if !cmp.Equal(a[0].Items[0], Num(1)) || !cmp.Equal(b[0].Items[0], Num(5)) {
		t.Fatalf("unexpected nested capture: %v then %v", a, b)
	}
}

func TestBindingDrivesRuntime(t *testing.T) {
	rt := NewRuntime(Options{})
	viz := rt.Binding()
	fn, ok := viz.Get(MethodCreateVar)
	if !ok {
		t.Fatalf("createVar missing from binding")
	}
	native := fn.(runtime.NativeFunctionValue)
	if _, err := native.Impl(&runtime.NativeCallContext{}, []runtime.Value{runtime.Bool(true), runtime.String("flag")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap, _ := rt.Sequence().Last()
	if v, _ := snap.Var("flag"); !cmp.Equal(v, Bool(true)) {
		t.Fatalf("expected flag=true, got %v", v)
	}
	for _, name := range viz.Keys() {
		if !IsPrimitive(name) {
			t.Fatalf("unexpected binding member %s", name)
		}
	}
}

func TestSnapshotSerialisation(t *testing.T) {
	snap := Snapshot{
		Arrays: []ArrayEntry{{Name: "a", Values: []Value{Num(1), Absent, Num(math.NaN())}}},
		Vars: []VarEntry{
			{Name: "s", Value: Str("hi")},
			{Name: "u", Value: Undefined},
			{Name: "f", Value: Value{Kind: KindFunction, Text: "f"}},
		},
	}
	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"arrays":[{"name":"a","values":[1,null,null]}],"vars":[{"name":"s","value":"hi"},{"name":"u","value":null},{"name":"f","value":null}]}`
	if string(data) != want {
		t.Fatalf("unexpected json:\n%s", data)
	}

	out, err := yaml.Marshal(snap)
	if err != nil {
		t.Fatalf("yaml marshal: %v", err)
	}
	var decoded struct {
		Arrays []struct {
			Name   string `yaml:"name"`
			Values []any  `yaml:"values"`
		} `yaml:"arrays"`
	}
	if err := yaml.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("yaml unmarshal: %v", err)
	}
	if len(decoded.Arrays) != 1 || decoded.Arrays[0].Values[1] != nil {
		t.Fatalf("unexpected yaml:\n%s", out)
	}
}

func TestValueString(t *testing.T) {
	cases := map[string]Value{
		"3.5":              Num(3.5),
		"hi":               Str("hi"),
		"true":             Bool(true),
		"null":             Null,
		"undefined":        Undefined,
		`[1, "a", [2]]`:    List(Num(1), Str("a"), List(Num(2))),
		"[Function: sort]": {Kind: KindFunction, Text: "sort"},
		"":                 Absent,
	}
	for want, v := range cases {
		if got := v.String(); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}
}

func TestCaptureMarksCircularArrays(t *testing.T) {
	arr := runtime.NewArray(nums(1))
	arr.Elements = append(arr.Elements, arr)

	got := Capture(arr)
	if got.Circular || len(got.Items) != 2 {
		t.Fatalf("outer array should be captured normally, got %+v", got)
	}
	inner := got.Items[1]
	if !inner.Circular || inner.Kind != KindArray || inner.Text != "" {
		t.Fatalf("expected a circular marker, got %+v", inner)
	}
	if s := got.String(); s != "[1, [Circular]]" {
		t.Fatalf("String() = %q", s)
	}
	if diff := cmp.Diff([]any{1.0, nil}, got.Interface()); diff != "" {
		t.Fatalf("serialised form mismatch (-want +got):\n%s", diff)
	}
}
