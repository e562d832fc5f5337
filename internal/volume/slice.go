package volume

import "fmt"

// Plane is a 2D slice of raw intensities extracted from a volume. Rows and
// Cols follow the in-plane ordering documented on Axis.InPlaneAxes; Data is
// flat row-major (index = r*Cols + c).
type Plane struct {
	Axis  Axis
	Index int
	Rows  int
	Cols  int
	Data  []int32
}

// At returns the raw intensity at in-plane position (r, c).
func (p *Plane) At(r, c int) int32 {
	return p.Data[r*p.Cols+c]
}

// ExtractSlice produces the 2D intensity plane at the given slice index
// along an axis. It is a pure function of its inputs and fails with
// ErrOutOfBounds when the index is outside [0, Extent(axis)-1].
func ExtractSlice(v *Volume, a Axis, index int) (*Plane, error) {
	if index < 0 || index >= v.Extent(a) {
		return nil, fmt.Errorf("%s slice %d of %d: %w", a, index, v.Extent(a), ErrOutOfBounds)
	}

	rowDim, colDim := a.InPlaneAxes()
	rows, cols := v.ExtentDim(rowDim), v.ExtentDim(colDim)
	p := &Plane{
		Axis:  a,
		Index: index,
		Rows:  rows,
		Cols:  cols,
		Data:  make([]int32, rows*cols),
	}

	nx, ny := v.extents[0], v.extents[1]
	switch a {
	case Axial:
		// Fixed k: rows follow i, columns follow j.
		base := index * nx * ny
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				p.Data[r*cols+c] = v.data[base+c*nx+r]
			}
		}
	case Sagittal:
		// Fixed i: rows follow j, columns follow k.
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				p.Data[r*cols+c] = v.data[c*nx*ny+r*nx+index]
			}
		}
	case Coronal:
		// Fixed j: rows follow i, columns follow k.
		rowBase := index * nx
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				p.Data[r*cols+c] = v.data[c*nx*ny+rowBase+r]
			}
		}
	default:
		return nil, fmt.Errorf("volume: invalid axis %d", int(a))
	}

	return p, nil
}

// Slicer extracts planes from a single volume and memoizes the most recent
// plane per axis, so repeated hover events over an unchanged slice index do
// not recompute the extraction. The volume never changes mid-session, so the
// cache needs no invalidation. Purely a performance shortcut; results are
// identical to ExtractSlice.
type Slicer struct {
	vol  *Volume
	last [3]*Plane
}

// NewSlicer wraps a volume for cached slice extraction.
func NewSlicer(v *Volume) *Slicer {
	return &Slicer{vol: v}
}

// Slice returns the plane for (axis, index), reusing the previous result
// when the index matches.
func (s *Slicer) Slice(a Axis, index int) (*Plane, error) {
	if cached := s.last[a]; cached != nil && cached.Index == index {
		return cached, nil
	}
	p, err := ExtractSlice(s.vol, a, index)
	if err != nil {
		return nil, err
	}
	s.last[a] = p
	return p, nil
}
