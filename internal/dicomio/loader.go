// Package dicomio loads a directory of single-frame DICOM instances into the
// viewer's volume model. It is the ingestion boundary: everything past it
// only sees a decoded volume, never the container format.
package dicomio

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/mrsinham/mprview/internal/volume"
)

// ErrNoInstances reports a series directory without any readable DICOM file.
var ErrNoInstances = errors.New("no DICOM instances found")

// Series is a decoded DICOM series: the stacked volume plus the display
// hints the modality wrote into the instances.
type Series struct {
	Volume *volume.Volume

	// Window is the WindowCenter/WindowWidth pair from the first instance,
	// when present and valid. HasWindow reports whether it was found.
	Window    volume.Window
	HasWindow bool

	Modality    string
	Description string
}

// sliceInstance holds one parsed instance before stacking.
type sliceInstance struct {
	path           string
	instanceNumber int
	sliceLocation  float64
	rows, cols     int
	img            image.Image
}

// LoadSeries parses every .dcm file under dir, orders the instances by
// InstanceNumber (SliceLocation as tiebreak) and stacks them into a volume.
// All instances must share the same Rows/Columns. In-plane spacing comes
// from PixelSpacing, the stack spacing from SpacingBetweenSlices with
// SliceThickness as fallback (1.0mm when neither is present).
func LoadSeries(dir string) (*Series, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read series directory: %w", err)
	}

	var instances []sliceInstance
	var first dicom.Dataset
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".dcm") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		ds, err := dicom.ParseFile(path, nil)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", entry.Name(), err)
		}

		inst, err := readInstance(path, ds)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		if len(instances) == 0 {
			first = ds
		}
		instances = append(instances, inst)
	}

	if len(instances) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoInstances)
	}

	sort.Slice(instances, func(i, j int) bool {
		if instances[i].instanceNumber != instances[j].instanceNumber {
			return instances[i].instanceNumber < instances[j].instanceNumber
		}
		return instances[i].sliceLocation < instances[j].sliceLocation
	})

	cols, rows := instances[0].cols, instances[0].rows
	for _, inst := range instances {
		if inst.cols != cols || inst.rows != rows {
			return nil, fmt.Errorf("instance %s is %dx%d, series is %dx%d: mixed dimensions",
				filepath.Base(inst.path), inst.cols, inst.rows, cols, rows)
		}
	}

	// Stack: volume dimension 0 follows image columns, dimension 1 image
	// rows, dimension 2 the instance order.
	nx, ny, nz := cols, rows, len(instances)
	data := make([]int32, nx*ny*nz)
	for k, inst := range instances {
		base := k * nx * ny
		for y := 0; y < ny; y++ {
			for x := 0; x < nx; x++ {
				data[base+y*nx+x] = grayValue(inst.img, x, y)
			}
		}
	}

	spacing, err := seriesSpacing(first)
	if err != nil {
		return nil, err
	}

	vol, err := volume.New(data, nx, ny, nz, spacing)
	if err != nil {
		return nil, fmt.Errorf("stack series volume: %w", err)
	}

	series := &Series{
		Volume:      vol,
		Modality:    firstString(first, tag.Modality),
		Description: firstString(first, tag.SeriesDescription),
	}

	if center, okC := firstFloat(first, tag.WindowCenter); okC {
		if width, okW := firstFloat(first, tag.WindowWidth); okW {
			if w, err := volume.NewWindow(center, width); err == nil {
				series.Window = w
				series.HasWindow = true
			}
		}
	}

	return series, nil
}

// readInstance extracts the ordering keys, the dimensions and the decoded
// pixel frame of one instance.
func readInstance(path string, ds dicom.Dataset) (sliceInstance, error) {
	inst := sliceInstance{path: path}

	rows, ok := firstInt(ds, tag.Rows)
	if !ok {
		return inst, fmt.Errorf("missing Rows")
	}
	cols, ok := firstInt(ds, tag.Columns)
	if !ok {
		return inst, fmt.Errorf("missing Columns")
	}
	inst.rows, inst.cols = rows, cols

	if n, ok := firstInt(ds, tag.InstanceNumber); ok {
		inst.instanceNumber = n
	}
	if loc, ok := firstFloat(ds, tag.SliceLocation); ok {
		inst.sliceLocation = loc
	}

	pixelElement, err := ds.FindElementByTag(tag.PixelData)
	if err != nil {
		return inst, fmt.Errorf("missing PixelData: %w", err)
	}
	info := dicom.MustGetPixelDataInfo(pixelElement.Value)
	if len(info.Frames) != 1 {
		return inst, fmt.Errorf("expected a single frame, got %d", len(info.Frames))
	}
	img, err := info.Frames[0].GetImage()
	if err != nil {
		return inst, fmt.Errorf("decode frame: %w", err)
	}
	inst.img = img

	return inst, nil
}

// seriesSpacing builds the voxel spacing from the first instance.
// PixelSpacing is (row spacing, column spacing): rows advance along volume
// dimension 1, columns along dimension 0.
func seriesSpacing(ds dicom.Dataset) ([3]float64, error) {
	spacing := [3]float64{1, 1, 1}

	if el, err := ds.FindElementByTag(tag.PixelSpacing); err == nil {
		values, ok := el.Value.GetValue().([]string)
		if !ok || len(values) != 2 {
			return spacing, fmt.Errorf("malformed PixelSpacing %v", el.Value)
		}
		rowSpacing, err := strconv.ParseFloat(strings.TrimSpace(values[0]), 64)
		if err != nil {
			return spacing, fmt.Errorf("malformed PixelSpacing row value %q: %w", values[0], err)
		}
		colSpacing, err := strconv.ParseFloat(strings.TrimSpace(values[1]), 64)
		if err != nil {
			return spacing, fmt.Errorf("malformed PixelSpacing column value %q: %w", values[1], err)
		}
		spacing[0], spacing[1] = colSpacing, rowSpacing
	}

	if between, ok := firstFloat(ds, tag.SpacingBetweenSlices); ok {
		spacing[2] = between
	} else if thickness, ok := firstFloat(ds, tag.SliceThickness); ok {
		spacing[2] = thickness
	}

	return spacing, nil
}

// grayValue reads the raw stored value at (x, y). Native frames decode to
// Gray16 (16-bit modalities) or Gray (8-bit); anything else goes through
// the generic color path.
func grayValue(img image.Image, x, y int) int32 {
	switch im := img.(type) {
	case *image.Gray16:
		return int32(im.Gray16At(x, y).Y)
	case *image.Gray:
		return int32(im.GrayAt(x, y).Y)
	default:
		r, _, _, _ := img.At(x, y).RGBA()
		return int32(r)
	}
}

// firstString returns the first value of a string element, or "" when the
// tag is absent.
func firstString(ds dicom.Dataset, t tag.Tag) string {
	el, err := ds.FindElementByTag(t)
	if err != nil {
		return ""
	}
	values, ok := el.Value.GetValue().([]string)
	if !ok || len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

// firstInt returns the first value of an element as an int. Integer-string
// VRs (IS) are parsed.
func firstInt(ds dicom.Dataset, t tag.Tag) (int, bool) {
	el, err := ds.FindElementByTag(t)
	if err != nil {
		return 0, false
	}
	switch values := el.Value.GetValue().(type) {
	case []int:
		if len(values) > 0 {
			return values[0], true
		}
	case []string:
		if len(values) > 0 {
			n, err := strconv.Atoi(strings.TrimSpace(values[0]))
			if err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

// firstFloat returns the first value of a decimal-string (DS) element.
func firstFloat(ds dicom.Dataset, t tag.Tag) (float64, bool) {
	el, err := ds.FindElementByTag(t)
	if err != nil {
		return 0, false
	}
	switch values := el.Value.GetValue().(type) {
	case []string:
		if len(values) > 0 {
			f, err := strconv.ParseFloat(strings.TrimSpace(values[0]), 64)
			if err == nil {
				return f, true
			}
		}
	case []float64:
		if len(values) > 0 {
			return values[0], true
		}
	}
	return 0, false
}
