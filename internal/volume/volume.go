// Package volume holds the in-memory model of a loaded scan: the immutable
// 3D intensity array, the axis geometry of the three reconstruction planes,
// slice extraction and the window/level display transform.
package volume

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds reports an index outside the volume extents. Public
// navigation setters clamp instead of returning this; it only surfaces on
// direct misuse of Sample or ExtractSlice.
var ErrOutOfBounds = errors.New("index out of volume bounds")

// Cursor is a voxel coordinate shared by all three views. Each component is
// constrained to [0, extent-1] along its dimension.
type Cursor struct {
	I, J, K int
}

// Component returns the coordinate along volume dimension d (0..2).
func (c Cursor) Component(d int) int {
	switch d {
	case 0:
		return c.I
	case 1:
		return c.J
	case 2:
		return c.K
	}
	panic(fmt.Sprintf("volume: invalid dimension %d", d))
}

// WithComponent returns a copy of the cursor with dimension d set to v.
func (c Cursor) WithComponent(d, v int) Cursor {
	switch d {
	case 0:
		c.I = v
	case 1:
		c.J = v
	case 2:
		c.K = v
	default:
		panic(fmt.Sprintf("volume: invalid dimension %d", d))
	}
	return c
}

// Volume is an immutable 3D array of intensity samples plus voxel spacing.
// Data is stored flat in row-major order: index = k*nx*ny + j*nx + i.
type Volume struct {
	data    []int32
	extents [3]int
	spacing [3]float64

	// Intensity range computed once at construction; used as the default
	// display window.
	minIntensity int32
	maxIntensity int32
}

// New builds a Volume over the given flat sample buffer. The buffer length
// must equal nx*ny*nz, all extents must be >= 1 and all spacing values > 0.
// The buffer is retained, not copied; callers must not mutate it afterwards.
func New(data []int32, nx, ny, nz int, spacing [3]float64) (*Volume, error) {
	if nx < 1 || ny < 1 || nz < 1 {
		return nil, fmt.Errorf("volume extents must be >= 1, got (%d, %d, %d)", nx, ny, nz)
	}
	for d, s := range spacing {
		if s <= 0 {
			return nil, fmt.Errorf("voxel spacing must be > 0, got %g along dimension %d", s, d)
		}
	}
	if len(data) != nx*ny*nz {
		return nil, fmt.Errorf("sample buffer has %d values, want %d for extents (%d, %d, %d)",
			len(data), nx*ny*nz, nx, ny, nz)
	}

	v := &Volume{
		data:    data,
		extents: [3]int{nx, ny, nz},
		spacing: spacing,
	}
	v.minIntensity, v.maxIntensity = data[0], data[0]
	for _, s := range data {
		if s < v.minIntensity {
			v.minIntensity = s
		}
		if s > v.maxIntensity {
			v.maxIntensity = s
		}
	}
	return v, nil
}

// Extent returns the number of slices along the given axis.
func (v *Volume) Extent(a Axis) int {
	return v.extents[a.FixedDim()]
}

// ExtentDim returns the extent of volume dimension d (0..2).
func (v *Volume) ExtentDim(d int) int {
	return v.extents[d]
}

// Spacing returns the physical voxel spacing in mm along the given axis.
func (v *Volume) Spacing(a Axis) float64 {
	return v.spacing[a.FixedDim()]
}

// Sample returns the raw intensity at voxel (i, j, k).
func (v *Volume) Sample(i, j, k int) (int32, error) {
	if i < 0 || i >= v.extents[0] || j < 0 || j >= v.extents[1] || k < 0 || k >= v.extents[2] {
		return 0, fmt.Errorf("sample (%d, %d, %d) in volume (%d, %d, %d): %w",
			i, j, k, v.extents[0], v.extents[1], v.extents[2], ErrOutOfBounds)
	}
	return v.data[k*v.extents[0]*v.extents[1]+j*v.extents[0]+i], nil
}

// IntensityRange returns the minimum and maximum sample values, computed
// once at load time.
func (v *Volume) IntensityRange() (min, max int32) {
	return v.minIntensity, v.maxIntensity
}

// Center returns the cursor at the geometric center of the volume, the
// initial position after loading.
func (v *Volume) Center() Cursor {
	return Cursor{
		I: v.extents[0] / 2,
		J: v.extents[1] / 2,
		K: v.extents[2] / 2,
	}
}

// ClampCursor forces each cursor component into its valid range. Out-of-range
// input sticks to the nearest valid voxel, never errors.
func (v *Volume) ClampCursor(c Cursor) Cursor {
	return Cursor{
		I: clamp(c.I, v.extents[0]),
		J: clamp(c.J, v.extents[1]),
		K: clamp(c.K, v.extents[2]),
	}
}

func clamp(x, extent int) int {
	if x < 0 {
		return 0
	}
	if x >= extent {
		return extent - 1
	}
	return x
}
