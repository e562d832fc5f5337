package viewer

import (
	"strings"

	"github.com/mrsinham/mprview/internal/nav"
)

// shadeRamp maps normalized intensity to terminal cells, dark to bright.
var shadeRamp = []rune(" .:-=+*#%@")

// renderPane draws one view's slice buffer as a character grid of at most
// maxRows x maxCols cells, sampling the nearest voxel per cell, with the
// crosshair drawn on top. In-plane rows map to terminal lines, columns to
// characters.
func renderPane(vs nav.ViewState, maxRows, maxCols int) string {
	if maxRows < 1 || maxCols < 1 || vs.Rows == 0 || vs.Cols == 0 {
		return ""
	}

	rows, cols := vs.Rows, vs.Cols
	if rows > maxRows {
		rows = maxRows
	}
	if cols > maxCols {
		cols = maxCols
	}

	// Nearest-voxel cell centers keep the mapping invertible enough for a
	// terminal preview; exact picking happens through the crosshair keys.
	crossRow := vs.CrosshairRow * rows / vs.Rows
	crossCol := vs.CrosshairCol * cols / vs.Cols

	var sb strings.Builder
	for r := 0; r < rows; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		srcR := r * vs.Rows / rows
		for c := 0; c < cols; c++ {
			switch {
			case r == crossRow && c == crossCol:
				sb.WriteRune('+')
			case r == crossRow:
				sb.WriteRune('-')
			case c == crossCol:
				sb.WriteRune('|')
			default:
				srcC := c * vs.Cols / cols
				v := vs.PixelAt(srcR, srcC)
				idx := int(v * float64(len(shadeRamp)-1))
				sb.WriteRune(shadeRamp[idx])
			}
		}
	}
	return sb.String()
}
