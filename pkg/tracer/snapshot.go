package tracer

// ArrayEntry is one tracked array inside a snapshot.
type ArrayEntry struct {
	Name   string  `json:"name" yaml:"name"`
	Values []Value `json:"values" yaml:"values"`
}

// VarEntry is one tracked scalar inside a snapshot.
type VarEntry struct {
	Name  string `json:"name" yaml:"name"`
	Value Value  `json:"value" yaml:"value"`
}

// Snapshot is the tracked state at one instant. Entries keep the order in
// which names were first registered.
type Snapshot struct {
	Arrays []ArrayEntry `json:"arrays" yaml:"arrays"`
	Vars   []VarEntry   `json:"vars" yaml:"vars"`
}

// Array returns the values recorded for name.
func (s Snapshot) Array(name string) ([]Value, bool) {
	for _, entry := range s.Arrays {
		if entry.Name == name {
			return entry.Values, true
		}
	}
	return nil, false
}

// Var returns the scalar recorded for name.
func (s Snapshot) Var(name string) (Value, bool) {
	for _, entry := range s.Vars {
		if entry.Name == name {
			return entry.Value, true
		}
	}
	return Value{}, false
}

// Clone returns a copy that shares no slices with s.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Arrays: make([]ArrayEntry, len(s.Arrays)),
		Vars:   make([]VarEntry, len(s.Vars)),
	}
	for idx, entry := range s.Arrays {
		out.Arrays[idx] = ArrayEntry{Name: entry.Name, Values: cloneValues(entry.Values)}
	}
	for idx, entry := range s.Vars {
		out.Vars[idx] = VarEntry{Name: entry.Name, Value: cloneValue(entry.Value)}
	}
	return out
}

func cloneValues(values []Value) []Value {
	out := make([]Value, len(values))
	for idx, v := range values {
		out[idx] = cloneValue(v)
	}
	return out
}

func cloneValue(v Value) Value {
	if v.Items != nil {
		v.Items = cloneValues(v.Items)
	}
	return v
}

// Sequence is the frozen, read-only list of snapshots produced by one run.
type Sequence struct {
	snapshots []Snapshot
}

// NewSequence freezes a copy of snapshots.
func NewSequence(snapshots []Snapshot) *Sequence {
	frozen := make([]Snapshot, len(snapshots))
	for idx, snap := range snapshots {
		frozen[idx] = snap.Clone()
	}
	return &Sequence{snapshots: frozen}
}

// Len reports the number of snapshots.
func (s *Sequence) Len() int {
	if s == nil {
		return 0
	}
	return len(s.snapshots)
}

// At returns a copy of the snapshot at idx.
func (s *Sequence) At(idx int) (Snapshot, bool) {
	if idx < 0 || idx >= s.Len() {
		return Snapshot{}, false
	}
	return s.snapshots[idx].Clone(), true
}

// Last returns a copy of the final snapshot.
func (s *Sequence) Last() (Snapshot, bool) {
	return s.At(s.Len() - 1)
}

// Snapshots returns copies of every snapshot in execution order.
func (s *Sequence) Snapshots() []Snapshot {
	out := make([]Snapshot, s.Len())
	for idx := range out {
		out[idx] = s.snapshots[idx].Clone()
	}
	return out
}
