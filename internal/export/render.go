// Package export renders view projections to grayscale images for
// inspection outside the TUI: single slices with crosshair and label
// overlays, or whole slice sequences along an axis.
package export

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/mrsinham/mprview/internal/nav"
	"github.com/mrsinham/mprview/internal/volume"
)

// Options controls slice rendering.
type Options struct {
	// Scale is the integer upscale factor; values < 1 mean no scaling.
	Scale int
	// Crosshair draws the shared-cursor projection on the slice.
	Crosshair bool
	// Label draws "<axis> <index>/<extent>" in the top-left corner.
	Label bool
}

// Render turns a derived ViewState into an 8-bit grayscale image. In-plane
// rows map to image y, columns to image x.
func Render(vs nav.ViewState, opts Options) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, vs.Cols, vs.Rows))
	for r := 0; r < vs.Rows; r++ {
		for c := 0; c < vs.Cols; c++ {
			img.SetGray(c, r, color.Gray{Y: uint8(vs.PixelAt(r, c)*255 + 0.5)})
		}
	}

	img = scaled(img, opts.Scale)

	if opts.Crosshair {
		drawCrosshair(img, vs.CrosshairCol, vs.CrosshairRow, max(opts.Scale, 1))
	}
	if opts.Label {
		drawLabel(img, fmt.Sprintf("%s %d", vs.Axis, vs.SliceIndex))
	}
	return img
}

// RenderPlane windows a raw slice plane into an 8-bit grayscale image,
// without cursor overlays. Used for sequence export where no single cursor
// applies.
func RenderPlane(p *volume.Plane, w volume.Window, opts Options) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, p.Cols, p.Rows))
	for r := 0; r < p.Rows; r++ {
		for c := 0; c < p.Cols; c++ {
			v := w.Apply(float64(p.At(r, c)))
			img.SetGray(c, r, color.Gray{Y: uint8(v*255 + 0.5)})
		}
	}

	img = scaled(img, opts.Scale)

	if opts.Label {
		drawLabel(img, fmt.Sprintf("%s %d", p.Axis, p.Index))
	}
	return img
}

// scaled upscales with nearest-neighbor so voxels stay sharp-edged.
func scaled(img *image.Gray, scale int) *image.Gray {
	if scale < 2 {
		return img
	}
	bounds := img.Bounds()
	dst := image.NewGray(image.Rect(0, 0, bounds.Dx()*scale, bounds.Dy()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}

// drawCrosshair draws the vertical and horizontal guideline through the
// cursor projection, in image coordinates already multiplied by scale.
func drawCrosshair(img *image.Gray, col, row, scale int) {
	bounds := img.Bounds()
	x := col*scale + scale/2
	y := row*scale + scale/2

	for iy := bounds.Min.Y; iy < bounds.Max.Y; iy++ {
		img.SetGray(x, iy, color.Gray{Y: 255})
	}
	for ix := bounds.Min.X; ix < bounds.Max.X; ix++ {
		img.SetGray(ix, y, color.Gray{Y: 255})
	}
}

// drawLabel writes text in the top-left corner with the bitmap face.
func drawLabel(img *image.Gray, text string) {
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Gray{Y: 255}),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(4), Y: fixed.I(14)},
	}
	drawer.DrawString(text)
}

// SavePNG writes the image to path, creating parent directories as needed.
func SavePNG(img image.Image, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	return png.Encode(f, img)
}

// SaveView renders a single ViewState to a PNG file.
func SaveView(vs nav.ViewState, path string, opts Options) error {
	return SavePNG(Render(vs, opts), path)
}

// SaveViewSequence renders every slice along an axis into outputDir as
// slice_<axis>_NNN.png, all windowed identically.
func SaveViewSequence(vol *volume.Volume, w volume.Window, a volume.Axis, outputDir string, opts Options) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	for index := 0; index < vol.Extent(a); index++ {
		plane, err := volume.ExtractSlice(vol, a, index)
		if err != nil {
			return fmt.Errorf("extract %s slice %d: %w", a, index, err)
		}
		path := filepath.Join(outputDir, fmt.Sprintf("slice_%s_%03d.png", a, index))
		if err := SavePNG(RenderPlane(plane, w, opts), path); err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
	}
	return nil
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
