// Package pattern renders an encoded module matrix as a field of dots with
// synthesized finder markers.
//
// Instead of the square modules a stock QR renderer emits, each "on" data
// module becomes a circle (or diamond) centered on the module midpoint, and
// the three finder regions are replaced by concentric ring markers that keep
// the position and size a decoder expects while reading as a distinct
// "radar" motif.
//
// Render also computes the full Geometry record the texture generator needs
// for zone masking.
package pattern

import (
	"bytes"
	"fmt"
	"math"

	"github.com/jonguttman/psillyops-seal/pkg/errors"
)

// Shape variants for data-module dots.
const (
	ShapeCircle  = "circle"
	ShapeDiamond = "diamond"
)

// finderSpan is the side length of a QR finder region in modules.
const finderSpan = 7

// Finder marker proportions, in cells. These mirror the stock finder's
// concentric structure (3-cell core, 1-cell gap, 1-cell ring).
const (
	finderCoreRadiusCells = 1.5
	finderRingMidCells    = 3.0
	finderRingOuterCells  = 3.5
)

// Options controls dot rendering.
type Options struct {
	DotColor string  // fill color for dots and markers
	Shape    string  // ShapeCircle or ShapeDiamond
	DotSize  float64 // dot diameter as a fraction of the cell, (0, 1]
	Rotation float64 // degrees, applied around the canvas center
	Contrast float64 // area multiplier for dots, > 0

	// RasterScale is the fixed ratio between the texture generator's raster
	// canvas and the vector canvas. It only affects the Geometry record.
	RasterScale float64
}

// Result is the renderer's output.
type Result struct {
	Markup     []byte
	Geometry   Geometry
	ShapeCount int
}

// Render walks the matrix and emits one shape per "on" data module plus
// three synthesized finder markers, centered on center with the given target
// radius.
//
// A matrix that yields zero shapes is a hard error (EMPTY_PATTERN): a seal
// with no encoded content must never be returned silently.
func Render(matrix [][]bool, n int, center Point, targetRadius float64, opts Options) (*Result, error) {
	if n <= 0 || len(matrix) != n {
		return nil, errors.New(errors.ErrCodeInternal, "matrix size %d does not match n=%d", len(matrix), n)
	}
	if opts.DotSize <= 0 || opts.DotSize > 1 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "dot size %.2f outside (0, 1]", opts.DotSize)
	}
	if opts.Contrast <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "contrast boost %.2f must be positive", opts.Contrast)
	}
	if opts.Shape != ShapeCircle && opts.Shape != ShapeDiamond {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown dot shape %q", opts.Shape)
	}

	cell := (targetRadius * 2) / float64(n)
	left := center.X - targetRadius
	top := center.Y - targetRadius

	// Square-root scaling keeps dot *area*, not radius, proportional to the
	// contrast control, which is how the eye weighs it.
	dotRadius := cell * opts.DotSize / 2 * math.Sqrt(opts.Contrast)

	var buf bytes.Buffer
	if opts.Rotation != 0 {
		fmt.Fprintf(&buf, `  <g id="seal-qr" fill="%s" transform="rotate(%.2f %.2f %.2f)">`+"\n",
			opts.DotColor, opts.Rotation, center.X, center.Y)
	} else {
		fmt.Fprintf(&buf, `  <g id="seal-qr" fill="%s">`+"\n", opts.DotColor)
	}

	shapes := 0
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			if !matrix[row][col] || inFinderRegion(row, col, n) {
				continue
			}
			cx := left + (float64(col)+0.5)*cell
			cy := top + (float64(row)+0.5)*cell
			writeDot(&buf, cx, cy, dotRadius, opts.Shape)
			shapes++
		}
	}

	// Finder centers in unrotated layout space. The markup group transform
	// rotates them visually; Geometry stores the mathematically rotated
	// positions so masking sees the true final layout.
	layoutFinders := finderCenters(n, left, top, cell)
	for _, c := range layoutFinders {
		writeFinderMarker(&buf, c, cell, opts.DotColor)
		shapes++
	}

	buf.WriteString("  </g>\n")

	if shapes == len(layoutFinders) {
		// Only markers, no data dots: the matrix carried no content.
		return nil, errors.New(errors.ErrCodeEmptyPattern, "pattern renderer produced zero data shapes")
	}

	geo := Geometry{
		Radius:      targetRadius,
		Center:      center,
		CellSize:    cell,
		RotationDeg: opts.Rotation,
		Matrix:      matrix,
		Size:        n,
		RasterScale: opts.RasterScale,
		MatrixOrigin: Point{
			X: left * opts.RasterScale,
			Y: top * opts.RasterScale,
		},
		CellSizePx: cell * opts.RasterScale,
	}
	for i, c := range layoutFinders {
		geo.Finders[i] = Finder{
			Center:      rotatePoint(c, center, opts.Rotation),
			OuterRadius: finderRingOuterCells * cell,
		}
	}

	return &Result{
		Markup:     buf.Bytes(),
		Geometry:   geo,
		ShapeCount: shapes,
	}, nil
}

// inFinderRegion reports whether a module belongs to one of the three 7x7
// finder regions (top-left, top-right, bottom-left).
func inFinderRegion(row, col, n int) bool {
	if row < finderSpan && col < finderSpan {
		return true
	}
	if row < finderSpan && col >= n-finderSpan {
		return true
	}
	if row >= n-finderSpan && col < finderSpan {
		return true
	}
	return false
}

// finderCenters returns the unrotated centers of the three finder regions.
// Each region is 7 modules wide, so its center sits 3.5 cells in.
func finderCenters(n int, left, top, cell float64) [3]Point {
	span := float64(finderSpan) / 2 * cell
	right := left + float64(n)*cell
	bottom := top + float64(n)*cell
	return [3]Point{
		{X: left + span, Y: top + span},     // top-left
		{X: right - span, Y: top + span},    // top-right
		{X: left + span, Y: bottom - span},  // bottom-left
	}
}

// writeDot emits a single data-module shape. The diamond is an explicit
// 4-point path (a square rotated 45 degrees) so tangency with neighboring
// dots stays exact instead of accumulating transform rounding.
func writeDot(buf *bytes.Buffer, cx, cy, r float64, shape string) {
	if shape == ShapeDiamond {
		fmt.Fprintf(buf, `    <path d="M %.2f %.2f L %.2f %.2f L %.2f %.2f L %.2f %.2f Z"/>`+"\n",
			cx, cy-r, cx+r, cy, cx, cy+r, cx-r, cy)
		return
	}
	fmt.Fprintf(buf, `    <circle cx="%.2f" cy="%.2f" r="%.2f"/>`+"\n", cx, cy, r)
}

// writeFinderMarker emits one synthesized concentric marker: an outer ring
// stroke plus a filled center dot.
func writeFinderMarker(buf *bytes.Buffer, c Point, cell float64, color string) {
	fmt.Fprintf(buf, `    <circle class="finder" cx="%.2f" cy="%.2f" r="%.2f" fill="none" stroke="%s" stroke-width="%.2f"/>`+"\n",
		c.X, c.Y, finderRingMidCells*cell, color, cell)
	fmt.Fprintf(buf, `    <circle cx="%.2f" cy="%.2f" r="%.2f"/>`+"\n",
		c.X, c.Y, finderCoreRadiusCells*cell)
}
