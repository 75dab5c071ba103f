package pattern

import "math"

// Point is a position in vector canvas units.
type Point struct {
	X float64
	Y float64
}

// Finder describes one of the three scanner anchor markers, in final
// (post-rotation) canvas coordinates.
type Finder struct {
	Center      Point
	OuterRadius float64 // outer edge of the ring stroke, canvas units
}

// Geometry is the read-only description of where the encoded pattern lives
// in canvas space. It is created by Render and consumed by the texture
// generator, which masks decorative samples against it.
//
// All finder positions reflect the final post-rotation layout, because
// masking happens in absolute canvas coordinates.
type Geometry struct {
	Radius      float64 // half-extent of the pattern square
	Center      Point
	CellSize    float64 // per-module size in canvas units
	RotationDeg float64
	Finders     [3]Finder

	// Module matrix and its pixel-space placement on the raster canvas the
	// texture generator draws on. RasterScale is the fixed ratio between
	// raster pixels and vector canvas units.
	Matrix       [][]bool
	Size         int
	RasterScale  float64
	MatrixOrigin Point   // top-left corner of the matrix, raster pixels
	CellSizePx   float64 // per-module size, raster pixels
}

// rotatePoint rotates p around c by deg degrees (clockwise in SVG's
// y-down coordinate system, matching the rotate() transform).
func rotatePoint(p, c Point, deg float64) Point {
	if deg == 0 {
		return p
	}
	rad := deg * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	dx, dy := p.X-c.X, p.Y-c.Y
	return Point{
		X: c.X + dx*cos - dy*sin,
		Y: c.Y + dx*sin + dy*cos,
	}
}

// InFinderExclusion reports whether a raster-space point falls inside any
// finder marker's exclusion footprint. The footprint extends one cell beyond
// the marker's outer ring so texture never touches the ring edge.
func (g *Geometry) InFinderExclusion(px, py float64) bool {
	margin := g.CellSize
	for _, f := range g.Finders {
		cx := f.Center.X * g.RasterScale
		cy := f.Center.Y * g.RasterScale
		r := (f.OuterRadius + margin) * g.RasterScale
		dx, dy := px-cx, py-cy
		if dx*dx+dy*dy <= r*r {
			return true
		}
	}
	return false
}

// InDataModule reports whether a raster-space point lands on an "on" data
// module. The point is inverse-rotated about the canvas center first, so the
// lookup hits the module that is actually drawn there after rotation.
func (g *Geometry) InDataModule(px, py float64) bool {
	cx := g.Center.X * g.RasterScale
	cy := g.Center.Y * g.RasterScale

	p := rotatePoint(Point{X: px, Y: py}, Point{X: cx, Y: cy}, -g.RotationDeg)

	col := int((p.X - g.MatrixOrigin.X) / g.CellSizePx)
	row := int((p.Y - g.MatrixOrigin.Y) / g.CellSizePx)
	if row < 0 || row >= g.Size || col < 0 || col >= g.Size {
		return false
	}
	return g.Matrix[row][col]
}

// InPatternFootprint reports whether a raster-space point falls inside the
// pattern's overall bounding circle. Points outside it are in the far field
// where texture draws at full density.
func (g *Geometry) InPatternFootprint(px, py float64) bool {
	cx := g.Center.X * g.RasterScale
	cy := g.Center.Y * g.RasterScale
	// Bounding circle covers the square's corners.
	r := g.Radius * math.Sqrt2 * g.RasterScale
	dx, dy := px-cx, py-cy
	return dx*dx+dy*dy <= r*r
}
