package nav

import (
	"fmt"

	"github.com/mrsinham/mprview/internal/volume"
)

// gesture tracks the press state of one view's pointer interaction. A hover
// while idle previews a guideline without committing the cursor; motion
// while dragging commits through the state setters.
type gesture int

const (
	gestureIdle gesture = iota
	gestureDragging
)

// Hover is the transient guideline position reported back to the view the
// pointer is over. It never reaches State.
type Hover struct {
	Axis volume.Axis
	Row  int
	Col  int
}

// Coordinator is the only component aware that three views exist. It turns
// interaction events from any one view into State mutations and republishes
// the derived ViewState of all three views after every committed change.
type Coordinator struct {
	state     *State
	consumers [3]func(ViewState)
	gestures  [3]gesture
}

// NewCoordinator wires a coordinator to navigation state.
func NewCoordinator(state *State) (*Coordinator, error) {
	if state == nil {
		return nil, ErrNoVolume
	}
	return &Coordinator{state: state}, nil
}

// State exposes the underlying navigation state for read-only queries.
func (c *Coordinator) State() *State {
	return c.state
}

// RegisterView attaches the consumer for one axis. Call Refresh afterwards
// to deliver the initial projection.
func (c *Coordinator) RegisterView(a volume.Axis, fn func(ViewState)) {
	c.consumers[a] = fn
}

// Refresh recomputes and republishes all three views from the current state.
func (c *Coordinator) Refresh() error {
	return c.publishAll()
}

// publishAll derives all three ViewStates from one stable read of State
// before delivering any of them, so a consumer can never observe a torn
// update where one view reflects the old cursor and another the new one.
func (c *Coordinator) publishAll() error {
	var views [3]ViewState
	for _, a := range volume.Axes() {
		vs, err := c.state.ViewState(a)
		if err != nil {
			return err
		}
		views[a] = vs
	}
	for _, a := range volume.Axes() {
		if fn := c.consumers[a]; fn != nil {
			fn(views[a])
		}
	}
	return nil
}

// Scroll steps the slice index of one axis by delta, clamping at the volume
// edges. Scrolling past the last slice silently sticks there.
func (c *Coordinator) Scroll(a volume.Axis, delta int) error {
	current := c.state.SliceIndex(a)
	if !c.state.SetAxisSlice(a, current+delta) {
		return nil
	}
	return c.publishAll()
}

// SetSliceNumeric jumps one axis to a directly entered slice index,
// validated identically to Scroll (clamped, never rejected).
func (c *Coordinator) SetSliceNumeric(a volume.Axis, index int) error {
	if !c.state.SetAxisSlice(a, index) {
		return nil
	}
	return c.publishAll()
}

// Press begins a crosshair drag on the view for axis a at in-plane position
// (row, col) and commits that position.
func (c *Coordinator) Press(a volume.Axis, row, col int) error {
	c.gestures[a] = gestureDragging
	return c.commitCrosshair(a, row, col)
}

// Move handles pointer motion over the view for axis a. While that view's
// gesture is dragging the motion commits the cursor and the returned hover
// is invalid; while idle it only yields the clamped guideline position for
// the originating view and leaves State untouched.
func (c *Coordinator) Move(a volume.Axis, row, col int) (Hover, bool, error) {
	if c.gestures[a] == gestureDragging {
		return Hover{}, false, c.commitCrosshair(a, row, col)
	}
	rowDim, colDim := a.InPlaneAxes()
	vol := c.state.Volume()
	return Hover{
		Axis: a,
		Row:  clampIndex(row, vol.ExtentDim(rowDim)),
		Col:  clampIndex(col, vol.ExtentDim(colDim)),
	}, true, nil
}

// Release ends the drag gesture for axis a.
func (c *Coordinator) Release(a volume.Axis) {
	c.gestures[a] = gestureIdle
}

// CrosshairMove is the discrete event form of the crosshair protocol: a
// committed move places the cursor, an uncommitted one behaves like a hover.
func (c *Coordinator) CrosshairMove(a volume.Axis, row, col int, committed bool) (Hover, bool, error) {
	if committed {
		return Hover{}, false, c.commitCrosshair(a, row, col)
	}
	return c.Move(a, row, col)
}

// commitCrosshair maps an in-plane position back to the two non-fixed voxel
// coordinates (the inverse of the slice plane ordering) and commits them
// together with the unchanged slice index for a.
func (c *Coordinator) commitCrosshair(a volume.Axis, row, col int) error {
	rowDim, colDim := a.InPlaneAxes()
	next := c.state.Cursor().
		WithComponent(rowDim, row).
		WithComponent(colDim, col)
	if !c.state.SetCursor(next.I, next.J, next.K) {
		return nil
	}
	return c.publishAll()
}

// AdjustWindow applies relative level/width deltas from any view. The window
// is global: a successful change affects all three views identically. An
// invalid resulting width returns ErrInvalidWindow and leaves the prior
// window and every view unchanged.
func (c *Coordinator) AdjustWindow(levelDelta, widthDelta float64) error {
	w := c.state.Window()
	return c.SetWindow(w.Level+levelDelta, w.Width+widthDelta)
}

// SetWindow replaces the global window with absolute values.
func (c *Coordinator) SetWindow(level, width float64) error {
	prev := c.state.Window()
	if err := c.state.SetWindow(level, width); err != nil {
		return fmt.Errorf("set window (level=%g, width=%g): %w", level, width, err)
	}
	if c.state.Window() == prev {
		return nil
	}
	return c.publishAll()
}

func clampIndex(x, extent int) int {
	if x < 0 {
		return 0
	}
	if x >= extent {
		return extent - 1
	}
	return x
}
