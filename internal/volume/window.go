package volume

import (
	"errors"
	"fmt"
)

// ErrInvalidWindow reports a window width at or below the minimum floor.
// This is the only failure a live interaction can trigger; callers keep the
// prior window in effect when they see it.
var ErrInvalidWindow = errors.New("invalid window width")

// MinWindowWidth is the smallest accepted window width, in raw intensity
// units. DICOM window widths are >= 1 in practice; the floor keeps the ramp
// slope finite.
const MinWindowWidth = 1e-3

// Window is the (level, width) contrast pair: the standard window/level law
// maps raw intensities to display values along a linear ramp centered at
// Level with half-width Width/2. Wider windows compress contrast, narrower
// windows expand it. Level may lie anywhere, inside or outside the volume's
// intensity range; the transform clamps its output instead of rejecting it.
type Window struct {
	Level float64
	Width float64
}

// NewWindow validates the pair. Width <= MinWindowWidth fails with
// ErrInvalidWindow.
func NewWindow(level, width float64) (Window, error) {
	w := Window{Level: level, Width: width}
	if err := w.Validate(); err != nil {
		return Window{}, err
	}
	return w, nil
}

// Validate reports whether the window is usable.
func (w Window) Validate() error {
	if w.Width <= MinWindowWidth {
		return fmt.Errorf("window width %g <= %g: %w", w.Width, MinWindowWidth, ErrInvalidWindow)
	}
	return nil
}

// Apply maps a raw intensity to a normalized display value in [0, 1].
// Values at or below Level-Width/2 map to 0, values at or above
// Level+Width/2 map to 1, values in between map linearly.
func (w Window) Apply(raw float64) float64 {
	lo := w.Level - w.Width/2
	if raw <= lo {
		return 0
	}
	if raw >= w.Level+w.Width/2 {
		return 1
	}
	return (raw - lo) / w.Width
}

// DefaultWindow spans the volume's full intensity range, matching what a
// viewer shows before any adjustment. Degenerate (constant-intensity)
// volumes get a unit-width window around the single value.
func DefaultWindow(v *Volume) Window {
	min, max := v.IntensityRange()
	width := float64(max - min)
	if width <= MinWindowWidth {
		width = 1
	}
	return Window{
		Level: float64(min) + float64(max-min)/2,
		Width: width,
	}
}
