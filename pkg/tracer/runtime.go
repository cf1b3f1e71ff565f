// Package tracer records the state of tracked variables, arrays and strings
// as an instrumented program runs. Every primitive updates the tracked state
// and then appends exactly one snapshot.
package tracer

import (
	"math"

	"dsaviz/interpreter-go/pkg/runtime"
)

// DefaultMaxArrayLength bounds arrays created from a count.
const DefaultMaxArrayLength = 1_000_000

// Options configures a Runtime.
type Options struct {
	MaxArrayLength int
}

// Runtime owns the tracked state of one run. It is not safe for concurrent
// use; each run gets its own instance.
type Runtime struct {
	maxArrayLength int

	vars       map[string]runtime.Value
	varOrder   []string
	arrays     map[string]*runtime.ArrayValue
	arrayOrder []string
	// strings marks names whose array view is the character split of a
	// tracked string.
	strings map[string]bool

	snapshots []Snapshot
}

// NewRuntime returns an empty runtime.
func NewRuntime(opts Options) *Runtime {
	if opts.MaxArrayLength <= 0 {
		opts.MaxArrayLength = DefaultMaxArrayLength
	}
	return &Runtime{
		maxArrayLength: opts.MaxArrayLength,
		vars:           make(map[string]runtime.Value),
		arrays:         make(map[string]*runtime.ArrayValue),
		strings:        make(map[string]bool),
	}
}

// Len reports how many snapshots have been recorded.
func (r *Runtime) Len() int {
	return len(r.snapshots)
}

// Sequence freezes the snapshots recorded so far.
func (r *Runtime) Sequence() *Sequence {
	return NewSequence(r.snapshots)
}

// CreateArray starts tracking name as an array. An array argument is copied
// and the copy returned, so the program's later in-place mutations stay
// visible. A count produces that many absent slots: invalid counts give an
// empty array and oversized ones are clamped. Any other value v gives [v].
func (r *Runtime) CreateArray(data runtime.Value, name string) runtime.Value {
	var arr *runtime.ArrayValue
	switch d := data.(type) {
	case *runtime.ArrayValue:
		arr = runtime.NewArray(append([]runtime.Value(nil), d.Elements...))
	case runtime.NumberValue:
		arr = runtime.NewArray(make([]runtime.Value, r.count(d.Val)))
	default:
		arr = runtime.NewArray([]runtime.Value{orUndefined(data)})
	}
	r.deleteVar(name)
	r.setArray(name, arr)
	r.record()
	return arr
}

func (r *Runtime) count(f float64) int {
	if math.IsNaN(f) || f < 0 || f != math.Trunc(f) {
		return 0
	}
	if f > float64(r.maxArrayLength) {
		return r.maxArrayLength
	}
	return int(f)
}

// SetArrayElement records the element write the program just made. The
// tracked array is the program's own array, so the write is already visible
// and value is passed through untouched.
func (r *Runtime) SetArrayElement(name string, index, value runtime.Value) runtime.Value {
	r.record()
	return orUndefined(value)
}

// RefreshArray records a snapshot without changing state and passes result
// through, so a wrapped call keeps its value.
func (r *Runtime) RefreshArray(name string, result runtime.Value) runtime.Value {
	r.record()
	return orUndefined(result)
}

// RefreshString records a snapshot without changing state.
func (r *Runtime) RefreshString(name string) runtime.Value {
	r.record()
	return runtime.Undefined
}

// CreateString starts tracking name as a string with a character view. Any
// scalar is tracked by its string form and arrays are tracked as arrays. The
// value itself is returned unchanged, so the program keeps computing with it.
func (r *Runtime) CreateString(value runtime.Value, name string) runtime.Value {
	r.assignString(name, value, true)
	r.record()
	return orUndefined(value)
}

// UpdateString overwrites both views of name: the scalar view holds value as
// is and the character view splits its string form. An array value
// re-registers the name as an array.
func (r *Runtime) UpdateString(name string, value runtime.Value) runtime.Value {
	r.assignString(name, value, false)
	r.record()
	return orUndefined(value)
}

// CreateVar starts tracking name as a scalar.
func (r *Runtime) CreateVar(value runtime.Value, name string) runtime.Value {
	r.assignScalar(name, value, false)
	r.record()
	return orUndefined(value)
}

// UpdateVar updates the scalar name. A string-tracked name keeps both views
// in step; an array value re-registers the name as an array.
func (r *Runtime) UpdateVar(name string, value runtime.Value) runtime.Value {
	r.assignScalar(name, value, r.strings[name])
	r.record()
	return orUndefined(value)
}

// assignString tracks value with a character view of its string form. With
// asText set the scalar view holds that string form too.
func (r *Runtime) assignString(name string, value runtime.Value, asText bool) {
	value = orUndefined(value)
	if arr, ok := value.(*runtime.ArrayValue); ok {
		r.deleteVar(name)
		r.setArray(name, arr)
		return
	}
	text := runtime.ToString(value)
	if asText {
		value = runtime.String(text)
	}
	r.setVar(name, value)
	r.setArray(name, characters(text))
	r.strings[name] = true
}

// assignScalar stores value under name. A string value keeps a character
// view when asString is set.
func (r *Runtime) assignScalar(name string, value runtime.Value, asString bool) {
	value = orUndefined(value)
	if arr, ok := value.(*runtime.ArrayValue); ok {
		r.deleteVar(name)
		r.setArray(name, arr)
		return
	}
	s, isString := value.(runtime.StringValue)
	r.setVar(name, value)
	if asString && isString {
		r.setArray(name, characters(s.Val))
		r.strings[name] = true
		return
	}
	r.deleteArray(name)
}

func characters(s string) *runtime.ArrayValue {
	runes := []rune(s)
	chars := make([]runtime.Value, len(runes))
	for idx, ch := range runes {
		chars[idx] = runtime.String(string(ch))
	}
	return runtime.NewArray(chars)
}

func (r *Runtime) setVar(name string, value runtime.Value) {
	if _, ok := r.vars[name]; !ok {
		r.varOrder = append(r.varOrder, name)
	}
	r.vars[name] = value
}

func (r *Runtime) setArray(name string, arr *runtime.ArrayValue) {
	if _, ok := r.arrays[name]; !ok {
		r.arrayOrder = append(r.arrayOrder, name)
	}
	r.arrays[name] = arr
	delete(r.strings, name)
}

func (r *Runtime) deleteVar(name string) {
	if _, ok := r.vars[name]; !ok {
		return
	}
	delete(r.vars, name)
	r.varOrder = remove(r.varOrder, name)
}

func (r *Runtime) deleteArray(name string) {
	delete(r.strings, name)
	if _, ok := r.arrays[name]; !ok {
		return
	}
	delete(r.arrays, name)
	r.arrayOrder = remove(r.arrayOrder, name)
}

func remove(names []string, name string) []string {
	for idx, n := range names {
		if n == name {
			return append(names[:idx:idx], names[idx+1:]...)
		}
	}
	return names
}

func (r *Runtime) record() {
	snap := Snapshot{
		Arrays: make([]ArrayEntry, 0, len(r.arrayOrder)),
		Vars:   make([]VarEntry, 0, len(r.varOrder)),
	}
	for _, name := range r.arrayOrder {
		snap.Arrays = append(snap.Arrays, ArrayEntry{Name: name, Values: Capture(r.arrays[name]).Items})
	}
	for _, name := range r.varOrder {
		snap.Vars = append(snap.Vars, VarEntry{Name: name, Value: Capture(r.vars[name])})
	}
	r.snapshots = append(r.snapshots, snap)
}

func orUndefined(v runtime.Value) runtime.Value {
	if v == nil {
		return runtime.Undefined
	}
	return v
}
