// Package seal generates deterministic, tamper-evident seal artifacts.
//
// A seal is a composite SVG: a validated base template, a procedurally
// generated spore-field texture, and a QR-derived dot pattern, all seeded
// from a cryptographic digest of (token, version). The same inputs produce
// byte-identical output on every run and platform.
//
// # Usage
//
//	gen, err := seal.New(logger)
//	if err != nil {
//	    // base template failed integrity validation; alert operators
//	}
//	artifact, err := gen.Generate(ctx, "abc123", seal.CurrentVersion, nil)
//	if err != nil {
//	    // generation impossible; see pkg/errors for the failure taxonomy
//	}
//	os.WriteFile("seal.svg", artifact.Bytes, 0644)
//
// Generation performs no network or database I/O and keeps no mutable state;
// concurrent calls on one Generator are safe.
package seal

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jonguttman/psillyops-seal/pkg/errors"
	"github.com/jonguttman/psillyops-seal/pkg/observability"
	"github.com/jonguttman/psillyops-seal/pkg/seal/compose"
	"github.com/jonguttman/psillyops-seal/pkg/seal/pattern"
	"github.com/jonguttman/psillyops-seal/pkg/seal/qrmatrix"
	"github.com/jonguttman/psillyops-seal/pkg/seal/seed"
	"github.com/jonguttman/psillyops-seal/pkg/seal/spores"
	"github.com/jonguttman/psillyops-seal/pkg/seal/template"
)

// CurrentVersion is the seal version used when the caller does not pin one.
// Bump only alongside deliberate generation-behavior changes; the version is
// part of the seed, so existing (token, version) pairs stay stable forever.
const CurrentVersion = "v1"

// Fixed canvas geometry. These are part of the generation contract: changing
// any of them changes every seal.
const (
	canvasCenter     = float64(compose.Canvas) / 2
	baseTargetRadius = 270.0 // pattern half-extent at QRScale 1.0
	rasterScale      = 2.0   // raster pixels per vector canvas unit
	finderStyle      = "radar-concentric"

	// noiseFrequency is the spore noise field frequency per raster pixel.
	noiseFrequency = 0.008
)

// Artifact is the final composed output.
type Artifact struct {
	// Bytes is the SVG artifact, including the trailing metadata comment.
	Bytes []byte

	// Meta is the parsed form of the metadata block.
	Meta compose.Metadata

	// ShapeCount is the number of shapes the pattern renderer emitted.
	ShapeCount int
}

// Generator produces seal artifacts against a validated base template.
//
// The zero Generator is not usable; construct with New, which loads and
// checksum-validates the base template exactly once per process.
type Generator struct {
	logger *log.Logger
	base   *template.Template
}

// New creates a Generator.
//
// If the embedded base template fails checksum validation the error carries
// TEMPLATE_INTEGRITY and no Generator is returned: every artifact this
// process could produce would be unreliable.
func New(logger *log.Logger) (*Generator, error) {
	if logger == nil {
		logger = log.Default()
	}

	base, err := template.Load()
	if err != nil {
		if errors.Is(err, errors.ErrCodeTemplateIntegrity) {
			observability.Seal().OnTemplateIntegrityFailure(context.Background(),
				template.ExpectedChecksum, template.RawChecksum())
		}
		return nil, err
	}

	return &Generator{logger: logger, base: base}, nil
}

// Generate produces the seal artifact for (token, version, cfg).
//
// version may be empty, selecting CurrentVersion. cfg may be nil, selecting
// the defaults. The call is pure: identical inputs yield identical bytes.
func (g *Generator) Generate(ctx context.Context, token, version string, cfg *Config) (*Artifact, error) {
	if version == "" {
		version = CurrentVersion
	}

	s, err := seed.Derive(token, version)
	if err != nil {
		return nil, err
	}

	var userCfg Config
	if cfg != nil {
		userCfg = *cfg
	}
	eff, err := userCfg.Resolve()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Seal().OnGenerateStart(ctx, version)

	artifact, err := g.generate(ctx, s, token, version, eff)

	size := 0
	if artifact != nil {
		size = len(artifact.Bytes)
	}
	observability.Seal().OnGenerateComplete(ctx, version, size, time.Since(start), err)
	return artifact, err
}

// generate runs the encode -> render -> texture -> compose pipeline.
func (g *Generator) generate(ctx context.Context, s seed.Seed, token, version string, cfg Config) (*Artifact, error) {
	logger := g.logger.With("version", version, "seed", s.Prefix(4))

	// Stage 1: encode
	enc, err := qrmatrix.Encode(token, cfg.ErrorCorrection)
	if err != nil {
		observability.Seal().OnEncodeComplete(ctx, "", 0, err)
		return nil, err
	}
	observability.Seal().OnEncodeComplete(ctx, enc.Level, enc.Size, nil)
	logger.Debug("encoded matrix", "modules", enc.Size, "level", enc.Level)

	// Stage 2: dot pattern
	center := pattern.Point{X: canvasCenter, Y: canvasCenter}
	pat, err := pattern.Render(enc.Matrix, enc.Size, center, baseTargetRadius*cfg.QRScale, pattern.Options{
		DotColor:    cfg.DotColor,
		Shape:       cfg.DotShape,
		DotSize:     cfg.DotSize,
		Rotation:    cfg.Rotation,
		Contrast:    cfg.Contrast,
		RasterScale: rasterScale,
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("rendered pattern", "shapes", pat.ShapeCount, "cell", pat.Geometry.CellSize)

	// Stage 3: texture
	textureStart := time.Now()
	layer, stats := spores.Generate(s, &pat.Geometry, spores.Config{
		Attempts:     cfg.ParticleCount,
		DensityScale: 0.55,
		LayerOpacity: cfg.SporeOpacity,
		ZonePolicy:   cfg.SporeZonePolicy,
		Color:        cfg.SporeColor,
		NoiseFreq:    noiseFrequency,
	})
	omitted := layer == nil
	observability.Seal().OnTextureComplete(ctx, stats.Accepted,
		stats.FinderMasked+stats.DataMasked, omitted, time.Since(textureStart))
	if omitted {
		// No fallback texture exists; the artifact ships without one and
		// the metadata block records that.
		logger.Warn("texture layer unavailable, composing without it")
	} else {
		logger.Debug("generated texture",
			"accepted", stats.Accepted,
			"finder_masked", stats.FinderMasked,
			"data_masked", stats.DataMasked)
	}

	// Stage 4: compose
	meta := compose.Metadata{
		SealVersion: version,
		SeedPrefix:  s.Prefix(8),
		Encoding: compose.EncodingMeta{
			Level:   enc.Level,
			Modules: enc.Size,
			Percent: cfg.ErrorCorrection,
		},
		FinderStyle: finderStyle,
		Texture: compose.TextureMeta{
			Kind:         stats.NoiseKind,
			DensityCurve: stats.DensityCurve,
			EdgeTaper:    stats.EdgeTaper,
			Accepted:     stats.Accepted,
			Masked:       stats.FinderMasked + stats.DataMasked,
			Omitted:      omitted,
		},
		Config: cfg,
	}

	out, err := compose.Compose(g.base, layer, pat.Markup, styleFromConfig(cfg), meta)
	if err != nil {
		return nil, err
	}

	return &Artifact{
		Bytes:      out,
		Meta:       meta,
		ShapeCount: pat.ShapeCount,
	}, nil
}

// styleFromConfig maps the effective config onto the compositor's override
// record. Overrides only ever touch the base markup, never the pattern or
// texture layers.
func styleFromConfig(cfg Config) compose.StyleOverrides {
	return compose.StyleOverrides{
		RingColor:         cfg.RingColor,
		RingOpacity:       cfg.RingOpacity,
		TextColor:         cfg.TextColor,
		TextOpacity:       cfg.TextOpacity,
		TextStroke:        cfg.TextStroke,
		LineColor:         cfg.LineColor,
		LineOpacity:       cfg.LineOpacity,
		LineWidth:         cfg.LineWidth,
		Background:        cfg.Background,
		LinesBelowPattern: cfg.LinesBelowPattern,
	}
}
