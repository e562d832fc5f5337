package nav

import "github.com/mrsinham/mprview/internal/volume"

// ViewState is the full projection one view needs to render: the normalized
// slice buffer, the crosshair in in-plane coordinates, the derived slice
// index and the window in effect. Consumers render it and nothing else; they
// never mutate navigation state through it.
type ViewState struct {
	Axis       volume.Axis
	SliceIndex int

	// Rows and Cols are the plane dimensions; Pixels is flat row-major with
	// every value windowed into [0, 1].
	Rows   int
	Cols   int
	Pixels []float64

	// Crosshair position in in-plane coordinates (see Axis.InPlaneAxes).
	CrosshairRow int
	CrosshairCol int

	Window volume.Window
}

// PixelAt returns the normalized intensity at in-plane position (r, c).
func (v ViewState) PixelAt(r, c int) float64 {
	return v.Pixels[r*v.Cols+c]
}
