package playback

import (
	"context"
	"time"

	"dsaviz/interpreter-go/pkg/tracer"
)

// DefaultDelay is the pause between frames when none is configured.
const DefaultDelay = 500 * time.Millisecond

// Frame is one rendered step. Index is zero based.
type Frame struct {
	Index    int
	Total    int
	Snapshot tracer.Snapshot
}

// RenderFunc draws a frame.
type RenderFunc func(Frame) error

// Player replays a sequence at a fixed pace.
type Player struct {
	// Delay is the pause between frames. Zero plays without pausing.
	Delay  time.Duration
	Render RenderFunc
}

// Play renders every snapshot in order, waiting Delay between frames. It
// stops early when ctx is cancelled or Render fails and reports how many
// frames were drawn.
func (p *Player) Play(ctx context.Context, seq *tracer.Sequence) (int, error) {
	total := seq.Len()
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for idx := 0; idx < total; idx++ {
		if idx > 0 && p.Delay > 0 {
			if timer == nil {
				timer = time.NewTimer(p.Delay)
			} else {
				timer.Reset(p.Delay)
			}
			select {
			case <-ctx.Done():
				return idx, ctx.Err()
			case <-timer.C:
			}
		}
		if err := ctx.Err(); err != nil {
			return idx, err
		}
		snap, _ := seq.At(idx)
		if p.Render != nil {
			if err := p.Render(Frame{Index: idx, Total: total, Snapshot: snap}); err != nil {
				return idx, err
			}
		}
	}
	return total, nil
}
