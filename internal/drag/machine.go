package drag

import (
	"image"
	"time"

	"gioui.org/f32"

	"github.com/justyntemme/launchpad/internal/anim"
	"github.com/justyntemme/launchpad/internal/debug"
	"github.com/justyntemme/launchpad/internal/geom"
)

// moveIntent names the dragged item and the item whose place it takes.
// Positions are looked up when the move commits.
type moveIntent struct {
	ctx      Context
	key, dst string
}

// Machine is the drag state machine. It owns at most one Session and is
// driven entirely by the frame loop: pointer callbacks plus Tick.
type Machine struct {
	timing Timing
	anim   *anim.Coordinator
	sink   Sink

	surfaces [2]*Surface
	state    State
	session  *Session

	swapAt    time.Time
	scrollDir int
	scrollAt  time.Time

	released bool
	inflight moveIntent
	deferred *moveIntent
}

// New creates an idle machine.
func New(timing Timing, coord *anim.Coordinator, sink Sink) *Machine {
	return &Machine{timing: timing, anim: coord, sink: sink}
}

// SetTiming replaces the gesture timing.
func (m *Machine) SetTiming(t Timing) { m.timing = t }

// SetSurface installs or, with nil, removes the surface of a context.
func (m *Machine) SetSurface(ctx Context, s *Surface) {
	m.surfaces[ctx] = s
}

func (m *Machine) State() State { return m.state }

// Session returns a copy of the gesture in progress.
func (m *Machine) Session() (Session, bool) {
	if m.session == nil {
		return Session{}, false
	}
	return *m.session, true
}

// Dragging reports whether an item is being dragged.
func (m *Machine) Dragging() bool {
	return m.state == Dragging || m.state == Previewing
}

func (m *Machine) contextAt(p f32.Point) Context {
	if f := m.surfaces[ContextFolder]; f != nil && p.Round().In(f.Bounds) {
		return ContextFolder
	}
	return ContextMain
}

// sourceSlot is the dragged item's slot on the current page, or -1 when a
// page change scrolled it away.
func (m *Machine) sourceSlot() int {
	s := m.session
	surf := m.surfaces[s.Context]
	if surf == nil || surf.Items == nil {
		return -1
	}
	page, slot := surf.Items.PositionToSlot(s.SourcePos)
	if page != surf.Items.Page() || slot >= surf.rowCount() {
		return -1
	}
	return slot
}

// OnPointerDown arms a new gesture on the item under p. Animations left over
// from the previous gesture are cancelled first; a drop whose commit was
// still waiting on them is committed now. It reports whether a session
// started.
func (m *Machine) OnPointerDown(now time.Time, p f32.Point, hint int) bool {
	if m.state != Idle {
		m.finish()
	}
	m.anim.CancelAll()
	m.flushDeferred()

	ctx := m.contextAt(p)
	surf := m.surfaces[ctx]
	if surf == nil {
		return false
	}
	slot := hint
	if slot < 0 {
		slot = surf.Grid.SlotAt(p)
	}
	it, ok := surf.item(slot)
	if !ok {
		return false
	}

	m.session = &Session{
		Context:      ctx,
		SourceKey:    it.Key,
		SourcePos:    surf.Items.SlotToPosition(slot),
		SourceDir:    it.IsDir,
		HoverContext: ctx,
		HoverSlot:    slot,
		HoverKey:     it.Key,
		Start:        now,
		Press:        p,
		Last:         p,
	}
	m.state = Armed
	m.released = false
	debug.Log(debug.DRAG, "armed %s slot %d (%s)", it.Key, slot, ctx)
	return true
}

// OnPointerMove follows the pointer. It promotes an armed press to a drag
// once it leaves the threshold, then resolves the hover slot and mode.
func (m *Machine) OnPointerMove(now time.Time, p f32.Point, hint int) {
	s := m.session
	if s == nil {
		return
	}
	switch m.state {
	case Armed:
		d := p.Sub(s.Press)
		th := float32(m.timing.Threshold)
		if abs(d.X) <= th && abs(d.Y) <= th {
			return
		}
		m.state = Dragging
		s.Start = now
		debug.Log(debug.DRAG, "drag start %s", s.SourceKey)
	case Dragging, Previewing:
	default:
		return
	}

	dir := geom.Travel(s.Last, p)
	s.Last = p
	if !s.Enabled {
		s.Enabled = now.Sub(s.Start) >= m.timing.QuickDrag
	}

	if m.edgeScroll(now, p) {
		return
	}
	// The running preview owns the grid until its last slide lands.
	if m.anim.Previewing() {
		return
	}
	if m.dirOut(p) {
		return
	}
	m.resolve(now, p, hint, dir)
}

func (m *Machine) edgeScroll(now time.Time, p f32.Point) bool {
	s := m.session
	main := m.surfaces[ContextMain]
	if main == nil || s.Context != ContextMain || m.surfaces[ContextFolder] != nil {
		m.scrollDir = 0
		return false
	}
	zone := geom.EdgeZone(p, main.Bounds, m.timing.ScrollBand)
	if zone == 0 {
		m.scrollDir = 0
		return false
	}
	if !s.Enabled {
		return true
	}
	if zone != m.scrollDir {
		m.scrollDir = zone
		m.scrollAt = now.Add(m.timing.ScrollRepeat)
		m.scroll(zone)
	}
	return true
}

func (m *Machine) scroll(delta int) {
	m.anim.CancelAll()
	m.swapAt = time.Time{}
	m.state = Dragging
	s := m.session
	s.HoverSlot, s.HoverKey, s.Mode = -1, "", ModeNone
	debug.Log(debug.DRAG, "edge scroll %+d", delta)
	m.sink.RequestScroll(delta)
}

func (m *Machine) dirOut(p f32.Point) bool {
	s := m.session
	folder := m.surfaces[ContextFolder]
	if s.Context != ContextFolder || folder == nil || p.Round().In(folder.Bounds) {
		return false
	}
	m.swapAt = time.Time{}
	m.anim.ClearMerge()
	s.HoverContext = ContextMain
	s.HoverSlot, s.HoverKey = -1, ""
	if main := m.surfaces[ContextMain]; main != nil {
		s.HoverSlot = main.slotAt(p, -1)
		if it, ok := main.item(s.HoverSlot); ok {
			s.HoverKey = it.Key
		}
	}
	if s.Mode != ModeDirOut {
		debug.Log(debug.DRAG, "%s leaving folder", s.SourceKey)
	}
	s.Mode = ModeDirOut
	return true
}

func (m *Machine) resolve(now time.Time, p f32.Point, hint int, dir geom.Direction) {
	s := m.session
	surf := m.surfaces[s.Context]
	if surf == nil {
		return
	}
	s.HoverContext = s.Context

	slot := surf.slotAt(p, hint)
	target, ok := surf.item(slot)
	if !ok || target.Key == s.SourceKey {
		s.HoverSlot, s.HoverKey, s.Mode = slot, target.Key, ModeNone
		if !ok {
			s.HoverSlot = -1
		}
		m.swapAt = time.Time{}
		m.anim.ClearMerge()
		return
	}

	mode := ModeReorder
	region := geom.Classify(p, surf.Grid.CellRect(slot), dir)
	if region == geom.RegionMerge && surf.Merge && s.Context == ContextMain && !s.SourceDir {
		if target.IsDir {
			mode = ModeDirIn
		} else {
			mode = ModeFolderMerge
		}
	}

	changed := slot != s.HoverSlot || mode != s.Mode
	s.HoverSlot, s.HoverKey, s.Mode = slot, target.Key, mode

	switch mode {
	case ModeFolderMerge, ModeDirIn:
		m.swapAt = time.Time{}
		m.showMerge(now)
	default:
		m.anim.ClearMerge()
		m.swapAt = now.Add(m.timing.SwapDelay)
	}
	if changed {
		debug.Log(debug.DRAG, "hover slot %d (%s) mode %s", slot, target.Key, mode)
	}
}

// showMerge highlights the merge target once the flick guard has lifted.
func (m *Machine) showMerge(now time.Time) {
	s := m.session
	if !s.Enabled || s.HoverContext != s.Context {
		return
	}
	if s.Mode != ModeFolderMerge && s.Mode != ModeDirIn {
		return
	}
	if src := m.sourceSlot(); src >= 0 {
		m.anim.PreviewMerge(now, src, s.HoverSlot)
	}
}

// enable lifts the flick guard once the drag has lasted QuickDrag and shows
// the affordances held back until then.
func (m *Machine) enable(now time.Time) {
	s := m.session
	if s.Enabled || now.Sub(s.Start) < m.timing.QuickDrag {
		return
	}
	s.Enabled = true
	if m.edgeScroll(now, s.Last) {
		return
	}
	m.showMerge(now)
}

// Tick advances timers and animations to now. It reports whether another
// frame is needed.
func (m *Machine) Tick(now time.Time) bool {
	m.anim.Tick(now)

	if s := m.session; s != nil && m.Dragging() {
		m.enable(now)
		if !m.swapAt.IsZero() && !now.Before(m.swapAt) {
			m.swapAt = time.Time{}
			m.startReorder(now)
		}
		if m.scrollDir != 0 && !now.Before(m.scrollAt) {
			m.scrollAt = m.scrollAt.Add(m.timing.ScrollRepeat)
			m.scroll(m.scrollDir)
		}
		if m.state == Previewing && !m.anim.Previewing() {
			m.state = Dragging
		}
	}

	if m.state == Settling && !m.anim.Settling() && !m.anim.Previewing() {
		m.finish()
	}
	return m.state != Idle || m.anim.Active()
}

func (m *Machine) startReorder(now time.Time) {
	s := m.session
	if s.Mode != ModeReorder || s.HoverSlot < 0 {
		return
	}
	if s.HoverKey == "" || s.HoverKey == s.SourceKey {
		return
	}
	surf := m.surfaces[s.Context]
	intent := moveIntent{ctx: s.Context, key: s.SourceKey, dst: s.HoverKey}

	src := m.sourceSlot()
	if src < 0 {
		// The source sits on another page; nothing on screen to slide.
		m.commitMove(intent)
		return
	}

	keyAt := func(slot int) string {
		it, _ := surf.item(slot)
		return it.Key
	}
	if m.anim.PreviewReorder(now, src, s.HoverSlot, surf.Grid.CellRect, keyAt, func() { m.commitMove(intent) }) {
		m.inflight = intent
		m.state = Previewing
	}
}

// commitMove emits a move between the current positions of the intent's
// two items. Nothing is emitted when either has left the collection. While
// the pointer is still down the dragged item now lives at the target, so
// later hovers measure from there.
func (m *Machine) commitMove(in moveIntent) {
	m.deferred = nil
	surf := m.surfaces[in.ctx]
	if surf == nil || surf.Items == nil {
		return
	}
	from, to := surf.Items.IndexOf(in.key), surf.Items.IndexOf(in.dst)
	if from < 0 || to < 0 || from == to {
		debug.Log(debug.DRAG, "move %s -> %s dropped: not placed", in.key, in.dst)
		return
	}
	debug.Log(debug.DRAG, "commit move %s %d -> %d (%s)", in.key, from, to, in.ctx)
	m.sink.RequestMove(in.ctx, from, to)
	if s := m.session; s != nil && !m.released {
		s.SourcePos = to
		s.Mode = ModeNone
		if m.state == Previewing {
			m.state = Dragging
		}
	}
}

func (m *Machine) flushDeferred() {
	if m.deferred == nil {
		return
	}
	in := *m.deferred
	m.commitMove(in)
}

// OnPointerUp ends the gesture. A plain press reports the clicked item's
// key. A drag shorter than the quick-drag window is abandoned without any
// change. Otherwise the resolved intent is emitted, or deferred until the
// running preview lands, and the dropped icon settles.
func (m *Machine) OnPointerUp(now time.Time, p f32.Point, hint int) (clicked string, ok bool) {
	s := m.session
	if s == nil {
		return "", false
	}
	switch m.state {
	case Armed:
		key := s.SourceKey
		m.finish()
		debug.Log(debug.DRAG, "click %s", key)
		return key, true
	case Dragging, Previewing:
	default:
		return "", false
	}

	m.swapAt = time.Time{}
	m.scrollDir = 0
	s.Last = p

	if now.Sub(s.Start) < m.timing.QuickDrag {
		debug.Log(debug.DRAG, "quick drag of %s ignored", s.SourceKey)
		m.Cancel()
		return "", false
	}
	s.Enabled = true
	m.released = true

	surf := m.surfaces[s.HoverContext]
	rest := m.restingRect(surf, s.HoverSlot)

	switch s.Mode {
	case ModeFolderMerge:
		m.anim.ClearMerge()
		m.sink.RequestMerge(s.SourceKey, s.HoverKey)
	case ModeDirIn:
		m.anim.ClearMerge()
		m.sink.RequestDirIn(s.SourceKey, s.HoverKey)
	case ModeDirOut:
		pos := -1
		if surf != nil && s.HoverSlot >= 0 {
			pos = surf.Items.SlotToPosition(s.HoverSlot)
		}
		folder := m.surfaces[ContextFolder]
		if folder != nil {
			m.sink.RequestDirOut(folder.Items.Folder(), s.SourceKey, pos)
		}
	case ModeReorder:
		if m.anim.Previewing() {
			intent := m.inflight
			m.deferred = &intent
			break
		}
		if s.HoverKey != s.SourceKey {
			m.commitMove(moveIntent{ctx: s.Context, key: s.SourceKey, dst: s.HoverKey})
		}
	default:
		rest = m.restingRect(m.surfaces[s.Context], m.sourceSlot())
	}

	m.state = Settling
	from := rest
	if !rest.Empty() {
		half := rest.Size().Div(2)
		c := p.Round()
		from = image.Rectangle{Min: c.Sub(half), Max: c.Sub(half).Add(rest.Size())}
	}
	m.anim.Settle(now, s.SourceKey, from, rest, nil)
	debug.Log(debug.DRAG, "drop %s mode %s", s.SourceKey, s.Mode)
	return "", false
}

func (m *Machine) restingRect(surf *Surface, slot int) image.Rectangle {
	if surf == nil || slot < 0 {
		return image.Rectangle{}
	}
	return surf.Grid.CellRect(slot)
}

// Cancel abandons the gesture without committing anything it has not
// already committed.
func (m *Machine) Cancel() {
	if m.session != nil {
		debug.Log(debug.DRAG, "cancel %s", m.session.SourceKey)
	}
	m.anim.CancelAll()
	m.deferred = nil
	m.finish()
}

func (m *Machine) finish() {
	m.session = nil
	m.state = Idle
	m.swapAt = time.Time{}
	m.scrollDir = 0
	m.released = false
}

// Validate reconciles the gesture with a collection that changed under it,
// for instance through a concurrent uninstall. The gesture ends when the
// dragged item is gone. When only its position shifted, the running preview
// and any drop waiting on it are abandoned and the drag carries on from the
// item's new position.
func (m *Machine) Validate(present func(key string) bool) {
	if m.anim.Validate(present) {
		m.deferred = nil
	}
	s := m.session
	if s == nil {
		return
	}
	pos := -1
	if surf := m.surfaces[s.Context]; surf != nil && surf.Items != nil && present(s.SourceKey) {
		pos = surf.Items.IndexOf(s.SourceKey)
	}
	if pos < 0 {
		m.Cancel()
		return
	}
	if pos == s.SourcePos {
		return
	}
	debug.Log(debug.DRAG, "%s shifted %d -> %d, dropping preview", s.SourceKey, s.SourcePos, pos)
	m.anim.CancelAll()
	m.deferred = nil
	m.swapAt = time.Time{}
	s.SourcePos = pos
	if m.released {
		return
	}
	s.HoverSlot, s.HoverKey, s.Mode = -1, "", ModeNone
	if m.state == Previewing {
		m.state = Dragging
	}
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
