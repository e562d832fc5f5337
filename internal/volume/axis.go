package volume

import "fmt"

// Axis identifies one of the three orthogonal reconstruction planes. Each
// axis fixes exactly one volume dimension (the slice dimension); the two
// remaining dimensions form the in-plane coordinates.
type Axis int

const (
	// Axial fixes dimension 2 (k): the transverse plane.
	Axial Axis = iota
	// Sagittal fixes dimension 0 (i): the left-right plane.
	Sagittal
	// Coronal fixes dimension 1 (j): the front-back plane.
	Coronal
)

// Axes lists all three axes in display order.
func Axes() []Axis {
	return []Axis{Axial, Sagittal, Coronal}
}

// String returns the lowercase plane name.
func (a Axis) String() string {
	switch a {
	case Axial:
		return "axial"
	case Sagittal:
		return "sagittal"
	case Coronal:
		return "coronal"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// FixedDim returns the volume dimension (0, 1 or 2) held constant when
// slicing along this axis.
func (a Axis) FixedDim() int {
	switch a {
	case Axial:
		return 2
	case Sagittal:
		return 0
	case Coronal:
		return 1
	}
	panic(fmt.Sprintf("volume: invalid axis %d", int(a)))
}

// InPlaneAxes returns the two volume dimensions that span the slice plane.
// The row coordinate follows the first non-fixed dimension in ascending
// order, the column coordinate the second (axial: rows=i cols=j, sagittal:
// rows=j cols=k, coronal: rows=i cols=k). This is plain index order, not a
// radiological left/right flip; every crosshair inversion in the package
// relies on this single convention.
func (a Axis) InPlaneAxes() (row, col int) {
	switch a {
	case Axial:
		return 0, 1
	case Sagittal:
		return 1, 2
	case Coronal:
		return 0, 2
	}
	panic(fmt.Sprintf("volume: invalid axis %d", int(a)))
}

// ParseAxis converts a plane name ("axial", "sagittal", "coronal",
// case-insensitive first letter accepted too) into an Axis.
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "axial", "Axial", "AXIAL", "a":
		return Axial, nil
	case "sagittal", "Sagittal", "SAGITTAL", "s":
		return Sagittal, nil
	case "coronal", "Coronal", "CORONAL", "c":
		return Coronal, nil
	}
	return Axial, fmt.Errorf("invalid axis %q (valid: axial, sagittal, coronal)", s)
}
