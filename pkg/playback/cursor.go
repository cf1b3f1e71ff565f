// Package playback steps through and animates a recorded snapshot sequence.
// Nothing here mutates the sequence; every view is a copy.
package playback

import "dsaviz/interpreter-go/pkg/tracer"

// Cursor is a position within a sequence. An empty sequence has no valid
// position and every move fails.
type Cursor struct {
	seq *tracer.Sequence
	pos int
}

// NewCursor starts at the first snapshot.
func NewCursor(seq *tracer.Sequence) *Cursor {
	return &Cursor{seq: seq}
}

// Len reports the number of snapshots.
func (c *Cursor) Len() int {
	return c.seq.Len()
}

// Pos reports the current index.
func (c *Cursor) Pos() int {
	return c.pos
}

// Current returns the snapshot under the cursor.
func (c *Cursor) Current() (tracer.Snapshot, bool) {
	return c.seq.At(c.pos)
}

// Next advances one step; it reports false at the end.
func (c *Cursor) Next() bool {
	return c.Seek(c.pos + 1)
}

// Prev moves back one step; it reports false at the start.
func (c *Cursor) Prev() bool {
	return c.Seek(c.pos - 1)
}

// Seek jumps to idx when it is in range.
func (c *Cursor) Seek(idx int) bool {
	if idx < 0 || idx >= c.Len() {
		return false
	}
	c.pos = idx
	return true
}

// First jumps to the first snapshot.
func (c *Cursor) First() bool {
	return c.Seek(0)
}

// Last jumps to the final snapshot.
func (c *Cursor) Last() bool {
	return c.Seek(c.Len() - 1)
}
