package volume

import (
	"errors"
	"testing"
)

// TestExtractSlice_RoundTrip tests that every plane cell matches the voxel
// Sample reports for the mapped coordinate, on all three axes
func TestExtractSlice_RoundTrip(t *testing.T) {
	nx, ny, nz := 3, 4, 5
	v := testVolume(t, nx, ny, nz)

	for _, a := range Axes() {
		t.Run(a.String(), func(t *testing.T) {
			rowDim, colDim := a.InPlaneAxes()

			for index := 0; index < v.Extent(a); index++ {
				p, err := ExtractSlice(v, a, index)
				if err != nil {
					t.Fatalf("ExtractSlice(%s, %d) failed: %v", a, index, err)
				}

				if p.Rows != v.ExtentDim(rowDim) || p.Cols != v.ExtentDim(colDim) {
					t.Fatalf("plane %s/%d is %dx%d, want %dx%d",
						a, index, p.Rows, p.Cols, v.ExtentDim(rowDim), v.ExtentDim(colDim))
				}

				for r := 0; r < p.Rows; r++ {
					for c := 0; c < p.Cols; c++ {
						cur := Cursor{}.
							WithComponent(a.FixedDim(), index).
							WithComponent(rowDim, r).
							WithComponent(colDim, c)
						want, err := v.Sample(cur.I, cur.J, cur.K)
						if err != nil {
							t.Fatalf("Sample(%+v) failed: %v", cur, err)
						}
						if got := p.At(r, c); got != want {
							t.Fatalf("%s slice %d at (%d, %d) = %d, want voxel %+v = %d",
								a, index, r, c, got, cur, want)
						}
					}
				}
			}
		})
	}
}

// TestExtractSlice_OutOfBounds tests index validation per axis
func TestExtractSlice_OutOfBounds(t *testing.T) {
	v := testVolume(t, 3, 4, 5)

	for _, a := range Axes() {
		for _, index := range []int{-1, v.Extent(a), v.Extent(a) + 10} {
			if _, err := ExtractSlice(v, a, index); !errors.Is(err, ErrOutOfBounds) {
				t.Errorf("ExtractSlice(%s, %d) error = %v, want ErrOutOfBounds", a, index, err)
			}
		}
	}
}

// TestExtractSlice_Pure tests that extraction does not depend on prior calls
func TestExtractSlice_Pure(t *testing.T) {
	v := testVolume(t, 4, 4, 4)

	first, err := ExtractSlice(v, Axial, 2)
	if err != nil {
		t.Fatalf("ExtractSlice failed: %v", err)
	}
	// Interleave other extractions, then repeat.
	if _, err := ExtractSlice(v, Sagittal, 1); err != nil {
		t.Fatalf("ExtractSlice failed: %v", err)
	}
	if _, err := ExtractSlice(v, Coronal, 3); err != nil {
		t.Fatalf("ExtractSlice failed: %v", err)
	}
	second, err := ExtractSlice(v, Axial, 2)
	if err != nil {
		t.Fatalf("ExtractSlice failed: %v", err)
	}

	for i := range first.Data {
		if first.Data[i] != second.Data[i] {
			t.Fatalf("repeated extraction differs at %d: %d vs %d", i, first.Data[i], second.Data[i])
		}
	}
}

// TestSlicer_Cache tests that the memoized plane is reused for a repeated
// index and replaced after the index changes
func TestSlicer_Cache(t *testing.T) {
	v := testVolume(t, 4, 4, 4)
	s := NewSlicer(v)

	first, err := s.Slice(Axial, 1)
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}
	again, err := s.Slice(Axial, 1)
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}
	if first != again {
		t.Error("repeated Slice on the same index should return the cached plane")
	}

	other, err := s.Slice(Axial, 2)
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}
	if other == first {
		t.Error("Slice on a new index should not return the cached plane")
	}
	if other.Index != 2 {
		t.Errorf("plane index = %d, want 2", other.Index)
	}

	// Caching is per axis: slicing another axis must not evict this one.
	if _, err := s.Slice(Coronal, 0); err != nil {
		t.Fatalf("Slice failed: %v", err)
	}
	cached, err := s.Slice(Axial, 2)
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}
	if cached != other {
		t.Error("slicing a different axis should not evict the axial cache")
	}
}

// TestSlicer_Error tests that failed extraction leaves the cache untouched
func TestSlicer_Error(t *testing.T) {
	v := testVolume(t, 4, 4, 4)
	s := NewSlicer(v)

	good, err := s.Slice(Sagittal, 3)
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}
	if _, err := s.Slice(Sagittal, 99); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("Slice(99) error = %v, want ErrOutOfBounds", err)
	}

	again, err := s.Slice(Sagittal, 3)
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}
	if again != good {
		t.Error("failed extraction should not evict the cached plane")
	}
}
