// Package spores generates the procedural texture layer: a drifting,
// organic field of dots painted across the canvas, shaped by a center-heavy
// density curve and a 2-D noise field.
//
// The field is zone-aware. Samples are tested against the pattern geometry
// before acceptance: finder marker footprints are hard-excluded, "on" data
// modules fade or reject samples per policy, and the far field draws at full
// density. The result is three visual zones — clean core, light transition
// band, full-density far field — so texture never degrades scan reliability.
//
// Everything here is deterministic: one PCG stream for sampling, one noise
// seed, fixed iteration order, no wall-clock or map-order dependence.
package spores

import (
	"bytes"
	"image/png"
	"math"
	"math/rand/v2"

	"github.com/fogleman/gg"

	"github.com/jonguttman/psillyops-seal/pkg/seal/pattern"
	"github.com/jonguttman/psillyops-seal/pkg/seal/seed"
)

// Identifier strings recorded in artifact metadata. Bump these when the
// corresponding algorithm changes; they are part of the audit trail.
const (
	NoiseKind    = "value2d/2oct"
	DensityCurve = "center-boost-v3"
)

// Zone policies for samples landing on an "on" data module.
const (
	ZoneFade = "fade" // draw at sharply reduced opacity
	ZoneSkip = "skip" // reject outright
)

// fadeOpacityScale is the transition-zone opacity ceiling relative to the
// open-field opacity at the same radius.
const fadeOpacityScale = 0.25

// edgeTaperBand is the outer fraction of the field radius over which density
// is smoothstepped to zero, avoiding a visible hard ring edge.
const edgeTaperBand = 0.06

// Config controls field generation. Zero values are invalid; the seal
// package populates every field from defaults and presets.
type Config struct {
	Attempts     int     // total sample attempts (bounds work deterministically)
	DensityScale float64 // global density multiplier, (0, 1]
	LayerOpacity float64 // overall layer opacity multiplier, (0, 1]
	ZonePolicy   string  // ZoneFade or ZoneSkip
	Color        string  // particle color, #rrggbb
	NoiseFreq    float64 // noise field frequency per raster pixel
}

// Layer is the generated raster texture.
type Layer struct {
	PNG      []byte
	WidthPx  int
	HeightPx int
	// Scale is raster pixels per vector canvas unit, copied from geometry.
	Scale float64
}

// Stats records sampling outcomes for the metadata block and hooks.
type Stats struct {
	Attempts     int
	Accepted     int
	FinderMasked int
	DataMasked   int
	OutOfField   int
	EdgeTaper    bool
	NoiseKind    string
	DensityCurve string
}

// particle is one accepted sample.
type particle struct {
	x, y    float64
	radius  float64
	opacity float64
}

// Generate paints the spore field for the given geometry and returns it as
// a raster layer.
//
// A nil layer means rasterization was unavailable; per the no-fallback
// invariant there is no vector substitute, and callers must compose the
// artifact without a texture layer. Stats are valid either way.
func Generate(s seed.Seed, geo *pattern.Geometry, cfg Config) (*Layer, Stats) {
	particles, stats := sampleField(s, geo, cfg)

	w := int(geo.Center.X * 2 * geo.RasterScale)
	h := int(geo.Center.Y * 2 * geo.RasterScale)
	if w <= 0 || h <= 0 {
		return nil, stats
	}

	r, g, b, ok := parseHexColor(cfg.Color)
	if !ok {
		return nil, stats
	}

	dc := gg.NewContext(w, h)
	for _, p := range particles {
		dc.SetRGBA(r, g, b, p.opacity)
		dc.DrawCircle(p.x, p.y, p.radius)
		dc.Fill()
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, stats
	}

	return &Layer{
		PNG:      buf.Bytes(),
		WidthPx:  w,
		HeightPx: h,
		Scale:    geo.RasterScale,
	}, stats
}

// Particle size bounds in vector canvas units; scaled to raster pixels.
const (
	maxParticleRadius = 1.9
	minParticleRadius = 0.55
)

// sampleField runs the accept/reject loop and returns the particle list.
//
// The PCG stream draws exactly three values per attempt (x, y, accept roll)
// plus one jitter value per accepted sample, in a fixed order, so the
// sequence is bit-identical across runs and platforms.
func sampleField(s seed.Seed, geo *pattern.Geometry, cfg Config) ([]particle, Stats) {
	stats := Stats{
		Attempts:     cfg.Attempts,
		EdgeTaper:    true,
		NoiseKind:    NoiseKind,
		DensityCurve: DensityCurve,
	}

	hi, lo := s.Stream("spores").Uint64Pair()
	rng := rand.New(rand.NewPCG(hi, lo))

	noiseHi, _ := s.Stream("noise").Uint64Pair()
	noise := newNoise2D(noiseHi)

	scale := geo.RasterScale
	cx := geo.Center.X * scale
	cy := geo.Center.Y * scale
	fieldRadius := geo.Center.X * scale // field edge at the canvas boundary
	w := geo.Center.X * 2 * scale
	h := geo.Center.Y * 2 * scale

	var particles []particle
	for i := 0; i < cfg.Attempts; i++ {
		x := rng.Float64() * w
		y := rng.Float64() * h
		roll := rng.Float64()

		dx, dy := x-cx, y-cy
		r := math.Sqrt(dx*dx+dy*dy) / fieldRadius
		if r > 1 {
			stats.OutOfField++
			continue
		}

		density := cfg.DensityScale * centerBoost(r)
		if r > 1-edgeTaperBand {
			density *= smoothstep((1 - r) / edgeTaperBand)
		}
		density *= 0.55 + 0.45*noise.At(x*cfg.NoiseFreq, y*cfg.NoiseFreq)

		opacityScale := 1.0
		if geo.InFinderExclusion(x, y) {
			stats.FinderMasked++
			continue
		}
		if geo.InDataModule(x, y) {
			stats.DataMasked++
			if cfg.ZonePolicy == ZoneSkip {
				continue
			}
			opacityScale = fadeOpacityScale
		}

		if roll >= density {
			continue
		}

		jitter := 0.75 + 0.5*rng.Float64()
		radius := (maxParticleRadius - (maxParticleRadius-minParticleRadius)*r) * scale * jitter
		opacity := (0.8 - 0.5*r) * cfg.LayerOpacity * opacityScale
		// The visibility floor scales with the zone factor so a faded
		// particle can never be raised back above the transition-zone
		// ceiling at low layer opacities.
		if floor := 0.04 * opacityScale; opacity < floor {
			opacity = floor
		}

		particles = append(particles, particle{x: x, y: y, radius: radius, opacity: opacity})
		stats.Accepted++
	}

	return particles, stats
}

// centerBoost is the base radial density curve: strong near the center,
// smooth exponential falloff outward, settling at a quiet far-field floor.
func centerBoost(r float64) float64 {
	return 0.22 + 0.9*math.Exp(-2.6*r)
}

// parseHexColor parses #rrggbb into float components in [0, 1].
func parseHexColor(s string) (r, g, b float64, ok bool) {
	if len(s) != 7 || s[0] != '#' {
		return 0, 0, 0, false
	}
	hex := func(c byte) (int, bool) {
		switch {
		case c >= '0' && c <= '9':
			return int(c - '0'), true
		case c >= 'a' && c <= 'f':
			return int(c-'a') + 10, true
		case c >= 'A' && c <= 'F':
			return int(c-'A') + 10, true
		}
		return 0, false
	}
	var v [3]float64
	for i := 0; i < 3; i++ {
		h1, ok1 := hex(s[1+i*2])
		h2, ok2 := hex(s[2+i*2])
		if !ok1 || !ok2 {
			return 0, 0, 0, false
		}
		v[i] = float64(h1*16+h2) / 255
	}
	return v[0], v[1], v[2], true
}
