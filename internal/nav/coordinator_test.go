package nav

import (
	"errors"
	"testing"

	"github.com/mrsinham/mprview/internal/volume"
)

// recorder captures every ViewState published to one axis.
type recorder struct {
	published []ViewState
}

func (r *recorder) consume(vs ViewState) {
	r.published = append(r.published, vs)
}

func (r *recorder) last(t *testing.T) ViewState {
	t.Helper()
	if len(r.published) == 0 {
		t.Fatal("no view state published")
	}
	return r.published[len(r.published)-1]
}

// testCoordinator wires a coordinator with recorders on all three axes.
func testCoordinator(t *testing.T, nx, ny, nz int) (*Coordinator, [3]*recorder) {
	t.Helper()

	state := testState(t, nx, ny, nz)
	coord, err := NewCoordinator(state)
	if err != nil {
		t.Fatalf("NewCoordinator failed: %v", err)
	}

	var recs [3]*recorder
	for _, a := range volume.Axes() {
		recs[a] = &recorder{}
		coord.RegisterView(a, recs[a].consume)
	}
	if err := coord.Refresh(); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	return coord, recs
}

// TestRefresh_PublishesAllViews tests the initial broadcast
func TestRefresh_PublishesAllViews(t *testing.T) {
	_, recs := testCoordinator(t, 10, 10, 10)

	for _, a := range volume.Axes() {
		if len(recs[a].published) != 1 {
			t.Errorf("%s received %d publications, want 1", a, len(recs[a].published))
			continue
		}
		vs := recs[a].published[0]
		if vs.Axis != a {
			t.Errorf("%s received a %s view", a, vs.Axis)
		}
		if vs.SliceIndex != 5 {
			t.Errorf("%s initial slice = %d, want center 5", a, vs.SliceIndex)
		}
	}
}

// TestScroll tests slice stepping with edge clamping and no-op suppression
func TestScroll(t *testing.T) {
	coord, recs := testCoordinator(t, 10, 10, 10)

	if err := coord.Scroll(volume.Axial, 1); err != nil {
		t.Fatalf("Scroll failed: %v", err)
	}
	if got := recs[volume.Axial].last(t).SliceIndex; got != 6 {
		t.Errorf("axial slice after scroll = %d, want 6", got)
	}

	// Scrolling one axis must republish the other views too (their
	// crosshair guideline moved).
	if len(recs[volume.Sagittal].published) != 2 {
		t.Errorf("sagittal received %d publications, want 2", len(recs[volume.Sagittal].published))
	}

	// Scroll far past the end: clamps to the last slice.
	if err := coord.Scroll(volume.Axial, 100); err != nil {
		t.Fatalf("Scroll failed: %v", err)
	}
	if got := recs[volume.Axial].last(t).SliceIndex; got != 9 {
		t.Errorf("axial slice after over-scroll = %d, want 9", got)
	}

	// Already at the edge: nothing changes, nothing is published.
	before := len(recs[volume.Axial].published)
	if err := coord.Scroll(volume.Axial, 5); err != nil {
		t.Fatalf("Scroll failed: %v", err)
	}
	if len(recs[volume.Axial].published) != before {
		t.Error("scroll at the edge should publish nothing")
	}
}

// TestSetSliceNumeric tests direct slice jumps
func TestSetSliceNumeric(t *testing.T) {
	coord, recs := testCoordinator(t, 10, 10, 10)

	if err := coord.SetSliceNumeric(volume.Sagittal, 8); err != nil {
		t.Fatalf("SetSliceNumeric failed: %v", err)
	}
	if got := recs[volume.Sagittal].last(t).SliceIndex; got != 8 {
		t.Errorf("sagittal slice = %d, want 8", got)
	}

	// Out-of-range entry clamps like a scroll.
	if err := coord.SetSliceNumeric(volume.Sagittal, -4); err != nil {
		t.Fatalf("SetSliceNumeric failed: %v", err)
	}
	if got := recs[volume.Sagittal].last(t).SliceIndex; got != 0 {
		t.Errorf("sagittal slice after clamped jump = %d, want 0", got)
	}
}

// TestCrosshair_SynchronizedViews tests the scenario where placing the
// crosshair on one view repositions the other two
func TestCrosshair_SynchronizedViews(t *testing.T) {
	coord, recs := testCoordinator(t, 10, 10, 10)

	// Click on the axial view at in-plane (3, 7): i=3, j=7, k unchanged.
	if err := coord.Press(volume.Axial, 3, 7); err != nil {
		t.Fatalf("Press failed: %v", err)
	}
	coord.Release(volume.Axial)

	if got := coord.State().Cursor(); got != (volume.Cursor{I: 3, J: 7, K: 5}) {
		t.Fatalf("cursor = %+v, want (3, 7, 5)", got)
	}

	// Sagittal view jumps to slice i=3 with crosshair (j=7, k=5).
	sag := recs[volume.Sagittal].last(t)
	if sag.SliceIndex != 3 {
		t.Errorf("sagittal slice = %d, want 3", sag.SliceIndex)
	}
	if sag.CrosshairRow != 7 || sag.CrosshairCol != 5 {
		t.Errorf("sagittal crosshair = (%d, %d), want (7, 5)", sag.CrosshairRow, sag.CrosshairCol)
	}

	// Coronal view jumps to slice j=7 with crosshair (i=3, k=5).
	cor := recs[volume.Coronal].last(t)
	if cor.SliceIndex != 7 {
		t.Errorf("coronal slice = %d, want 7", cor.SliceIndex)
	}
	if cor.CrosshairRow != 3 || cor.CrosshairCol != 5 {
		t.Errorf("coronal crosshair = (%d, %d), want (3, 5)", cor.CrosshairRow, cor.CrosshairCol)
	}
}

// TestMove_HoverDoesNotCommit tests that idle motion previews without
// touching state
func TestMove_HoverDoesNotCommit(t *testing.T) {
	coord, recs := testCoordinator(t, 10, 10, 10)
	before := coord.State().Cursor()
	published := len(recs[volume.Axial].published)

	hover, ok, err := coord.Move(volume.Axial, 2, 8)
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if !ok {
		t.Fatal("idle Move should yield a hover")
	}
	if hover.Row != 2 || hover.Col != 8 {
		t.Errorf("hover = (%d, %d), want (2, 8)", hover.Row, hover.Col)
	}

	if coord.State().Cursor() != before {
		t.Error("hover moved the cursor")
	}
	if len(recs[volume.Axial].published) != published {
		t.Error("hover triggered a publication")
	}

	// Hover positions clamp to the plane.
	hover, ok, err = coord.Move(volume.Axial, -5, 100)
	if err != nil || !ok {
		t.Fatalf("Move failed: ok=%v err=%v", ok, err)
	}
	if hover.Row != 0 || hover.Col != 9 {
		t.Errorf("clamped hover = (%d, %d), want (0, 9)", hover.Row, hover.Col)
	}
}

// TestMove_DragCommits tests the press/drag/release gesture
func TestMove_DragCommits(t *testing.T) {
	coord, _ := testCoordinator(t, 10, 10, 10)

	if err := coord.Press(volume.Coronal, 1, 2); err != nil {
		t.Fatalf("Press failed: %v", err)
	}
	// Coronal in-plane: rows=i, cols=k.
	if got := coord.State().Cursor(); got != (volume.Cursor{I: 1, J: 5, K: 2}) {
		t.Fatalf("cursor after press = %+v, want (1, 5, 2)", got)
	}

	_, ok, err := coord.Move(volume.Coronal, 4, 6)
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if ok {
		t.Error("dragging Move should not yield a hover")
	}
	if got := coord.State().Cursor(); got != (volume.Cursor{I: 4, J: 5, K: 6}) {
		t.Fatalf("cursor after drag = %+v, want (4, 5, 6)", got)
	}

	coord.Release(volume.Coronal)

	// Motion after release is a hover again.
	before := coord.State().Cursor()
	if _, ok, err := coord.Move(volume.Coronal, 0, 0); err != nil || !ok {
		t.Fatalf("Move after release: ok=%v err=%v", ok, err)
	}
	if coord.State().Cursor() != before {
		t.Error("hover after release moved the cursor")
	}

	// Gestures are per view: a drag on one view leaves the others idle.
	if err := coord.Press(volume.Axial, 2, 2); err != nil {
		t.Fatalf("Press failed: %v", err)
	}
	if _, ok, _ := coord.Move(volume.Sagittal, 3, 3); !ok {
		t.Error("motion over an idle view should hover even while another view drags")
	}
}

// TestPublish_NoTornUpdates tests that every publication batch reflects one
// consistent cursor across all three views
func TestPublish_NoTornUpdates(t *testing.T) {
	state := testState(t, 10, 10, 10)
	coord, err := NewCoordinator(state)
	if err != nil {
		t.Fatalf("NewCoordinator failed: %v", err)
	}

	// The axial consumer checks, at delivery time, that the other two views
	// would derive from the same cursor it sees.
	var checked int
	coord.RegisterView(volume.Axial, func(vs ViewState) {
		// Axial in-plane: rows=i, cols=j.
		cur := state.Cursor()
		if vs.CrosshairRow != cur.I || vs.CrosshairCol != cur.J || vs.SliceIndex != cur.K {
			t.Errorf("axial view (slice %d, crosshair %d/%d) inconsistent with cursor %+v",
				vs.SliceIndex, vs.CrosshairRow, vs.CrosshairCol, cur)
		}
		checked++
	})
	coord.RegisterView(volume.Sagittal, func(vs ViewState) {
		cur := state.Cursor()
		if vs.SliceIndex != cur.I {
			t.Errorf("sagittal slice %d inconsistent with cursor %+v", vs.SliceIndex, cur)
		}
	})
	if err := coord.Refresh(); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	moves := []struct{ row, col int }{{1, 2}, {9, 9}, {0, 0}, {4, 7}}
	for _, m := range moves {
		if _, _, err := coord.CrosshairMove(volume.Axial, m.row, m.col, true); err != nil {
			t.Fatalf("CrosshairMove failed: %v", err)
		}
	}
	if checked < len(moves) {
		t.Errorf("axial consumer ran %d times, want at least %d", checked, len(moves))
	}
}

// TestAdjustWindow tests relative adjustment and rejection handling
func TestAdjustWindow(t *testing.T) {
	coord, recs := testCoordinator(t, 4, 4, 4)

	if err := coord.SetWindow(100, 50); err != nil {
		t.Fatalf("SetWindow failed: %v", err)
	}

	if err := coord.AdjustWindow(10, -20); err != nil {
		t.Fatalf("AdjustWindow failed: %v", err)
	}
	w := coord.State().Window()
	if w.Level != 110 || w.Width != 30 {
		t.Errorf("window = L%g/W%g, want L110/W30", w.Level, w.Width)
	}

	got := recs[volume.Axial].last(t)
	if got.Window != w {
		t.Errorf("published window %+v lags state %+v", got.Window, w)
	}

	// Narrowing below the floor is rejected; the prior window stays and
	// nothing is published.
	published := len(recs[volume.Axial].published)
	err := coord.AdjustWindow(0, -30)
	if !errors.Is(err, volume.ErrInvalidWindow) {
		t.Fatalf("AdjustWindow error = %v, want ErrInvalidWindow", err)
	}
	if coord.State().Window() != w {
		t.Errorf("window changed after rejected adjustment: %+v", coord.State().Window())
	}
	if len(recs[volume.Axial].published) != published {
		t.Error("rejected adjustment should publish nothing")
	}
}

// TestNewCoordinator_NilState tests the guard
func TestNewCoordinator_NilState(t *testing.T) {
	if _, err := NewCoordinator(nil); !errors.Is(err, ErrNoVolume) {
		t.Errorf("NewCoordinator(nil) error = %v, want ErrNoVolume", err)
	}
}
