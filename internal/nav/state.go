// Package nav owns the mutable navigation state of a viewing session — the
// shared 3D cursor and the display window — and the coordinator that keeps
// the three reconstruction views synchronized. Per-axis slice indices are
// never stored: each view derives its index from the one shared cursor, so
// the views cannot drift apart.
package nav

import (
	"errors"
	"fmt"

	"github.com/mrsinham/mprview/internal/volume"
)

// ErrNoVolume reports navigation use before a volume is loaded.
var ErrNoVolume = errors.New("no volume loaded")

// CursorEvent carries a committed cursor change.
type CursorEvent struct {
	Prev volume.Cursor
	New  volume.Cursor
}

// WindowEvent carries a committed window change.
type WindowEvent struct {
	Prev volume.Window
	New  volume.Window
}

// State is the single source of truth for the current cursor position and
// window settings. All mutation goes through its setters; every view reads
// its projection through ViewState. Not safe for concurrent use: the viewer
// is single-threaded and event dispatch serializes all mutations.
type State struct {
	vol    *volume.Volume
	slicer *volume.Slicer

	cursor volume.Cursor
	window volume.Window

	cursorListeners []func(CursorEvent)
	windowListeners []func(WindowEvent)
}

// NewState creates navigation state over a loaded volume, positioned at the
// volume center with the full-range default window.
func NewState(vol *volume.Volume) (*State, error) {
	if vol == nil {
		return nil, ErrNoVolume
	}
	return &State{
		vol:    vol,
		slicer: volume.NewSlicer(vol),
		cursor: vol.Center(),
		window: volume.DefaultWindow(vol),
	}, nil
}

// Volume returns the loaded volume (read-only, shared freely).
func (s *State) Volume() *volume.Volume {
	return s.vol
}

// Cursor returns the current shared cursor.
func (s *State) Cursor() volume.Cursor {
	return s.cursor
}

// Window returns the current window settings.
func (s *State) Window() volume.Window {
	return s.window
}

// SliceIndex derives the slice index for an axis from the cursor. This is
// the only derivation path; no view stores its own index.
func (s *State) SliceIndex(a volume.Axis) int {
	return s.cursor.Component(a.FixedDim())
}

// OnCursorChange registers a listener for committed cursor changes.
func (s *State) OnCursorChange(fn func(CursorEvent)) {
	s.cursorListeners = append(s.cursorListeners, fn)
}

// OnWindowChange registers a listener for committed window changes.
func (s *State) OnWindowChange(fn func(WindowEvent)) {
	s.windowListeners = append(s.windowListeners, fn)
}

// SetCursor moves the shared cursor, clamping each coordinate into its valid
// range. Out-of-range input (a drag past the image edge) sticks to the
// nearest valid voxel; this never fails. Returns whether the cursor actually
// moved; a no-op write emits no event.
func (s *State) SetCursor(i, j, k int) bool {
	next := s.vol.ClampCursor(volume.Cursor{I: i, J: j, K: k})
	if next == s.cursor {
		return false
	}
	prev := s.cursor
	s.cursor = next
	for _, fn := range s.cursorListeners {
		fn(CursorEvent{Prev: prev, New: next})
	}
	return true
}

// SetAxisSlice moves the cursor along one axis only, leaving the in-plane
// coordinates unchanged. Clamps like SetCursor.
func (s *State) SetAxisSlice(a volume.Axis, index int) bool {
	next := s.cursor.WithComponent(a.FixedDim(), index)
	return s.SetCursor(next.I, next.J, next.K)
}

// SetWindow replaces the window settings. Fails with ErrInvalidWindow when
// the width is at or below the floor, leaving the prior window untouched;
// the change is atomic either way.
func (s *State) SetWindow(level, width float64) error {
	next, err := volume.NewWindow(level, width)
	if err != nil {
		return err
	}
	if next == s.window {
		return nil
	}
	prev := s.window
	s.window = next
	for _, fn := range s.windowListeners {
		fn(WindowEvent{Prev: prev, New: next})
	}
	return nil
}

// ViewState derives the externally visible projection for one axis: the
// windowed slice plane, the in-plane crosshair position, the slice index and
// the window in effect. Recomputed on every read, never stored.
func (s *State) ViewState(a volume.Axis) (ViewState, error) {
	index := s.SliceIndex(a)
	plane, err := s.slicer.Slice(a, index)
	if err != nil {
		return ViewState{}, fmt.Errorf("derive %s view: %w", a, err)
	}

	pixels := make([]float64, len(plane.Data))
	for i, raw := range plane.Data {
		pixels[i] = s.window.Apply(float64(raw))
	}

	rowDim, colDim := a.InPlaneAxes()
	return ViewState{
		Axis:         a,
		SliceIndex:   index,
		Rows:         plane.Rows,
		Cols:         plane.Cols,
		Pixels:       pixels,
		CrosshairRow: s.cursor.Component(rowDim),
		CrosshairCol: s.cursor.Component(colDim),
		Window:       s.window,
	}, nil
}
