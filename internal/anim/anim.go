// Package anim schedules the slide animations that preview a reorder before
// it is committed, the merge highlight and the final settle of a dropped
// icon. Time only advances through Tick.
package anim

import (
	"image"
	"time"

	"github.com/justyntemme/launchpad/internal/debug"
)

// Animation moves one item's rectangle from From to To.
type Animation struct {
	Key      string
	Slot     int
	From     image.Rectangle
	To       image.Rectangle
	Start    time.Time
	Duration time.Duration
	// Terminal marks the animation whose completion finishes its set.
	Terminal bool
}

// Progress is the linear completion fraction at now, in [0, 1].
func (a Animation) Progress(now time.Time) float32 {
	if a.Duration <= 0 {
		return 1
	}
	p := float32(now.Sub(a.Start)) / float32(a.Duration)
	return max(0, min(1, p))
}

// Done reports whether the animation has reached its end.
func (a Animation) Done(now time.Time) bool {
	return !now.Before(a.Start.Add(a.Duration))
}

// At interpolates the rectangle at now.
func (a Animation) At(now time.Time) image.Rectangle {
	p := a.Progress(now)
	lerp := func(x, y int) int { return x + int(float32(y-x)*p+0.5) }
	return image.Rect(
		lerp(a.From.Min.X, a.To.Min.X), lerp(a.From.Min.Y, a.To.Min.Y),
		lerp(a.From.Max.X, a.To.Max.X), lerp(a.From.Max.Y, a.To.Max.Y),
	)
}

// MergeHint marks the pair of slots about to merge.
type MergeHint struct {
	Src, Dst int
	Since    time.Time
}

// RectFunc returns the resting rectangle of a slot on the current page.
type RectFunc func(slot int) image.Rectangle

// KeyFunc returns the key of the item resting in a slot, or "".
type KeyFunc func(slot int) string

// Coordinator owns every running animation. It is not safe for concurrent
// use; the frame loop drives it.
type Coordinator struct {
	preview time.Duration
	settle  time.Duration

	set      []Animation
	onCommit func()
	merge    *MergeHint

	settling *Animation
	onSettle func()

	now        time.Time
	generation uint64
}

// New creates a coordinator with the given preview and settle durations.
func New(preview, settle time.Duration) *Coordinator {
	return &Coordinator{preview: preview, settle: settle}
}

// SetDurations changes the durations of animations started afterwards.
// Zero durations complete on the next Tick.
func (c *Coordinator) SetDurations(preview, settle time.Duration) {
	c.preview, c.settle = max(preview, 0), max(settle, 0)
}

// Generation increases every time a preview set starts or is dropped.
func (c *Coordinator) Generation() uint64 { return c.generation }

// PreviewReorder slides the items between src and dst one slot towards src,
// opening a gap at dst. Moving forward (src < dst) slots src+1..dst slide
// back; moving backward slots dst..src-1 slide forward. The animation of
// slot dst is terminal: when it completes onCommit runs once. A running set
// is cancelled first. It reports false when there is nothing to move.
func (c *Coordinator) PreviewReorder(now time.Time, src, dst int, rectFor RectFunc, keyAt KeyFunc, onCommit func()) bool {
	if src < 0 || dst < 0 || src == dst {
		return false
	}
	c.cancelSet()
	c.merge = nil

	var set []Animation
	add := func(slot, toward int) {
		set = append(set, Animation{
			Key:      keyAt(slot),
			Slot:     slot,
			From:     rectFor(slot),
			To:       rectFor(toward),
			Start:    now,
			Duration: c.preview,
			Terminal: slot == dst,
		})
	}
	if src < dst {
		for i := src + 1; i <= dst; i++ {
			add(i, i-1)
		}
	} else {
		for i := src - 1; i >= dst; i-- {
			add(i, i+1)
		}
	}

	c.set = set
	c.onCommit = onCommit
	c.generation++
	c.now = now
	debug.Log(debug.ANIM, "preview reorder %d -> %d: %d animations (gen %d)", src, dst, len(set), c.generation)
	return true
}

// PreviewMerge shows the merge highlight for src onto dst, replacing any
// reorder preview.
func (c *Coordinator) PreviewMerge(now time.Time, src, dst int) {
	if c.merge != nil && c.merge.Src == src && c.merge.Dst == dst {
		return
	}
	c.cancelSet()
	c.merge = &MergeHint{Src: src, Dst: dst, Since: now}
	debug.Log(debug.ANIM, "preview merge %d onto %d", src, dst)
}

// ClearMerge removes the merge highlight.
func (c *Coordinator) ClearMerge() {
	c.merge = nil
}

// Merge returns the current merge highlight.
func (c *Coordinator) Merge() (MergeHint, bool) {
	if c.merge == nil {
		return MergeHint{}, false
	}
	return *c.merge, true
}

// Previewing reports whether a reorder preview set is running.
func (c *Coordinator) Previewing() bool { return len(c.set) > 0 }

// Animations returns a copy of the running preview set.
func (c *Coordinator) Animations() []Animation {
	return append([]Animation(nil), c.set...)
}

func (c *Coordinator) cancelSet() {
	if len(c.set) == 0 {
		return
	}
	debug.Log(debug.ANIM, "cancel preview set (%d animations)", len(c.set))
	c.set = nil
	c.onCommit = nil
	c.generation++
}

// CancelAll drops every animation without running any completion. It is
// safe to call repeatedly.
func (c *Coordinator) CancelAll() {
	c.cancelSet()
	c.merge = nil
	c.settling = nil
	c.onSettle = nil
}

// Settle animates the dropped item from where it was released to its
// resting rectangle and runs onDone when it lands.
func (c *Coordinator) Settle(now time.Time, key string, from, to image.Rectangle, onDone func()) {
	c.settling = &Animation{Key: key, Slot: -1, From: from, To: to, Start: now, Duration: c.settle, Terminal: true}
	c.onSettle = onDone
	c.now = now
	debug.Log(debug.ANIM, "settle %s %v -> %v", key, from, to)
}

// Settling reports whether a settle animation is running.
func (c *Coordinator) Settling() bool { return c.settling != nil }

// FinishSettle completes a running settle immediately.
func (c *Coordinator) FinishSettle() {
	if c.settling == nil {
		return
	}
	done := c.onSettle
	c.settling, c.onSettle = nil, nil
	if done != nil {
		done()
	}
}

// Tick advances time. Completed preview sets run their commit and completed
// settles run their callback. It reports whether anything is still
// animating.
func (c *Coordinator) Tick(now time.Time) bool {
	c.now = now
	if len(c.set) > 0 {
		for _, a := range c.set {
			if a.Terminal && a.Done(now) {
				commit := c.onCommit
				c.set, c.onCommit = nil, nil
				c.generation++
				debug.Log(debug.ANIM, "preview set complete (gen %d)", c.generation)
				if commit != nil {
					commit()
				}
				break
			}
		}
	}
	if c.settling != nil && c.settling.Done(now) {
		c.FinishSettle()
	}
	return c.Active()
}

// Active reports whether a preview or settle animation is running.
func (c *Coordinator) Active() bool {
	return len(c.set) > 0 || c.settling != nil
}

// Rect returns the current rectangle of an animated item.
func (c *Coordinator) Rect(key string) (image.Rectangle, bool) {
	if c.settling != nil && c.settling.Key == key {
		return c.settling.At(c.now), true
	}
	for _, a := range c.set {
		if a.Key == key {
			return a.At(c.now), true
		}
	}
	return image.Rectangle{}, false
}

// Validate cancels the preview set when one of its items is no longer
// present. The commit does not run. It reports whether it cancelled.
func (c *Coordinator) Validate(present func(key string) bool) bool {
	for _, a := range c.set {
		if a.Key != "" && !present(a.Key) {
			debug.Log(debug.ANIM, "item %s vanished, cancelling preview", a.Key)
			c.cancelSet()
			return true
		}
	}
	if c.settling != nil && !present(c.settling.Key) {
		c.settling, c.onSettle = nil, nil
		return true
	}
	return false
}
