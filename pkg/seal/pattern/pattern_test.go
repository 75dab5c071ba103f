package pattern

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/jonguttman/psillyops-seal/pkg/errors"
)

// testMatrix builds an n x n matrix with every non-finder module set on,
// which exercises the full walk without depending on the QR encoder.
func testMatrix(n int) [][]bool {
	m := make([][]bool, n)
	for row := range m {
		m[row] = make([]bool, n)
		for col := range m[row] {
			m[row][col] = !inFinderRegion(row, col, n)
		}
	}
	return m
}

func defaultOpts() Options {
	return Options{
		DotColor:    "#1a1a2e",
		Shape:       ShapeCircle,
		DotSize:     0.82,
		Contrast:    1.0,
		RasterScale: 2.0,
	}
}

func TestRenderBasic(t *testing.T) {
	n := 21
	res, err := Render(testMatrix(n), n, Point{X: 500, Y: 500}, 270, defaultOpts())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	wantDots := n*n - 3*finderSpan*finderSpan
	// ShapeCount counts data dots plus the three markers.
	if res.ShapeCount != wantDots+3 {
		t.Errorf("ShapeCount = %d, want %d", res.ShapeCount, wantDots+3)
	}

	markup := string(res.Markup)
	if !strings.Contains(markup, `id="seal-qr"`) {
		t.Error("markup missing seal-qr group")
	}
	if strings.Count(markup, `fill="none"`) != 3 {
		t.Errorf("markup should contain exactly 3 finder rings, got %d",
			strings.Count(markup, `fill="none"`))
	}
}

func TestRenderDeterministic(t *testing.T) {
	n := 25
	m := testMatrix(n)
	opts := defaultOpts()
	opts.Rotation = 17

	a, err := Render(m, n, Point{X: 500, Y: 500}, 270, opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	b, err := Render(m, n, Point{X: 500, Y: 500}, 270, opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.Equal(a.Markup, b.Markup) {
		t.Error("Render must be deterministic")
	}
}

func TestRenderEmptyPattern(t *testing.T) {
	n := 21
	m := make([][]bool, n)
	for i := range m {
		m[i] = make([]bool, n)
	}

	_, err := Render(m, n, Point{X: 500, Y: 500}, 270, defaultOpts())
	if !errors.Is(err, errors.ErrCodeEmptyPattern) {
		t.Errorf("empty matrix error = %v, want EMPTY_PATTERN", err)
	}
}

func TestRenderDiamondShape(t *testing.T) {
	opts := defaultOpts()
	opts.Shape = ShapeDiamond

	res, err := Render(testMatrix(21), 21, Point{X: 500, Y: 500}, 270, opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	markup := string(res.Markup)
	if !strings.Contains(markup, "<path d=\"M ") {
		t.Error("diamond shape should emit explicit 4-point paths")
	}
	if strings.Contains(markup, "<circle cx") && strings.Count(markup, "<circle") != 6 {
		// Only the three finder markers (2 circles each) may be circles.
		t.Errorf("diamond markup should contain only finder circles, got %d",
			strings.Count(markup, "<circle"))
	}
}

func TestRenderValidatesOptions(t *testing.T) {
	m := testMatrix(21)
	center := Point{X: 500, Y: 500}

	bad := []Options{
		func() Options { o := defaultOpts(); o.DotSize = 0; return o }(),
		func() Options { o := defaultOpts(); o.DotSize = 1.5; return o }(),
		func() Options { o := defaultOpts(); o.Contrast = 0; return o }(),
		func() Options { o := defaultOpts(); o.Shape = "star"; return o }(),
	}
	for i, opts := range bad {
		if _, err := Render(m, 21, center, 270, opts); !errors.Is(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("case %d: error = %v, want INVALID_CONFIG", i, err)
		}
	}
}

func TestContrastScalesDotArea(t *testing.T) {
	base, err := Render(testMatrix(21), 21, Point{X: 500, Y: 500}, 270, defaultOpts())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	boosted := defaultOpts()
	boosted.Contrast = 4.0
	big, err := Render(testMatrix(21), 21, Point{X: 500, Y: 500}, 270, boosted)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	// sqrt(4) = 2: boosted radii should be exactly double. Spot-check via
	// cell size, which is identical, and differing markup.
	if base.Geometry.CellSize != big.Geometry.CellSize {
		t.Error("contrast must not change cell size")
	}
	if bytes.Equal(base.Markup, big.Markup) {
		t.Error("contrast should change dot radii in markup")
	}
}

func TestRotationConsistency(t *testing.T) {
	n := 21
	center := Point{X: 500, Y: 500}
	theta := 33.0

	plain, err := Render(testMatrix(n), n, center, 270, defaultOpts())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	rotatedOpts := defaultOpts()
	rotatedOpts.Rotation = theta
	rotated, err := Render(testMatrix(n), n, center, 270, rotatedOpts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	// Independently rotating the unrotated finder centers must land within
	// floating-point tolerance of what the renderer reports.
	const tol = 1e-9
	for i, f := range plain.Geometry.Finders {
		want := rotatePoint(f.Center, center, theta)
		got := rotated.Geometry.Finders[i].Center
		if math.Abs(got.X-want.X) > tol || math.Abs(got.Y-want.Y) > tol {
			t.Errorf("finder %d: got (%.9f, %.9f), want (%.9f, %.9f)",
				i, got.X, got.Y, want.X, want.Y)
		}
	}
}

func TestGeometryMasks(t *testing.T) {
	n := 21
	center := Point{X: 500, Y: 500}
	res, err := Render(testMatrix(n), n, center, 270, defaultOpts())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	g := res.Geometry

	// A point at a finder center (raster space) is excluded.
	f := g.Finders[0]
	if !g.InFinderExclusion(f.Center.X*g.RasterScale, f.Center.Y*g.RasterScale) {
		t.Error("finder center should be inside the exclusion footprint")
	}

	// The canvas center lands on a data module (testMatrix sets all
	// non-finder cells on).
	if !g.InDataModule(center.X*g.RasterScale, center.Y*g.RasterScale) {
		t.Error("canvas center should be inside an on data module")
	}

	// A far-field point is outside the pattern footprint and all masks.
	if g.InPatternFootprint(10, 10) {
		t.Error("corner point should be outside the pattern footprint")
	}
	if g.InDataModule(10, 10) || g.InFinderExclusion(10, 10) {
		t.Error("corner point should not hit any mask")
	}
}

func TestGeometryMaskTracksRotation(t *testing.T) {
	n := 21
	center := Point{X: 500, Y: 500}
	opts := defaultOpts()
	opts.Rotation = 45

	res, err := Render(testMatrix(n), n, center, 270, opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	g := res.Geometry

	// After a 45 degree rotation, the unrotated top-left matrix corner sits
	// outside the drawn pattern; the mask must agree.
	cornerX := g.MatrixOrigin.X + g.CellSizePx*0.5
	cornerY := g.MatrixOrigin.Y + g.CellSizePx*0.5
	if g.InDataModule(cornerX, cornerY) {
		t.Error("unrotated corner should no longer hit a data module after rotation")
	}

	// The rotated finder positions must hit the exclusion mask.
	for i, f := range g.Finders {
		if !g.InFinderExclusion(f.Center.X*g.RasterScale, f.Center.Y*g.RasterScale) {
			t.Errorf("rotated finder %d not inside exclusion mask", i)
		}
	}
}
