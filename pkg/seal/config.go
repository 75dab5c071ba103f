package seal

import (
	_ "embed"
	"sort"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/jonguttman/psillyops-seal/pkg/errors"
	"github.com/jonguttman/psillyops-seal/pkg/seal/pattern"
	"github.com/jonguttman/psillyops-seal/pkg/seal/qrmatrix"
	"github.com/jonguttman/psillyops-seal/pkg/seal/spores"
)

// Config is the style configuration for one generation call. Every field is
// optional: zero values fall back to preset values, then to the built-in
// defaults. Once passed to Generate it is treated as immutable.
type Config struct {
	// Preset names a base preset; its values underlay everything below.
	Preset string `toml:"preset" json:"preset,omitempty"`

	// ParticleCount is the spore sampling budget (attempts, not accepted
	// particles — acceptance is probabilistic and density-driven).
	ParticleCount int `toml:"particle_count" json:"particleCount"`

	// QRScale scales the pattern radius relative to the default.
	QRScale float64 `toml:"qr_scale" json:"qrScale"`

	// Background, when set, paints a flat fill behind all layers.
	Background string `toml:"background" json:"background,omitempty"`

	// Base-template style overrides, per channel.
	RingColor   string  `toml:"ring_color" json:"ringColor"`
	RingOpacity float64 `toml:"ring_opacity" json:"ringOpacity"`
	TextColor   string  `toml:"text_color" json:"textColor"`
	TextOpacity float64 `toml:"text_opacity" json:"textOpacity"`
	TextStroke  string  `toml:"text_stroke" json:"textStroke"`
	LineColor   string  `toml:"line_color" json:"lineColor"`
	LineOpacity float64 `toml:"line_opacity" json:"lineOpacity"`
	LineWidth   float64 `toml:"line_width" json:"lineWidth"`

	// LinesBelowPattern drops the radar lines beneath the pattern.
	LinesBelowPattern bool `toml:"lines_below_pattern" json:"linesBelowPattern"`

	// Spore layer controls.
	SporeOpacity    float64 `toml:"spore_opacity" json:"sporeOpacity"`
	SporeColor      string  `toml:"spore_color" json:"sporeColor"`
	SporeZonePolicy string  `toml:"spore_zone_policy" json:"sporeZonePolicy"`

	// QR rendering options.
	DotColor        string  `toml:"dot_color" json:"dotColor"`
	DotShape        string  `toml:"dot_shape" json:"dotShape"`
	DotSize         float64 `toml:"dot_size" json:"dotSize"`
	Rotation        float64 `toml:"rotation" json:"rotation"`
	Contrast        float64 `toml:"contrast" json:"contrast"`
	ErrorCorrection float64 `toml:"error_correction" json:"errorCorrection"`
}

// DefaultConfig returns the fixed defaults every absent field falls back to.
func DefaultConfig() Config {
	return Config{
		ParticleCount:   14000,
		QRScale:         1.0,
		RingColor:       "#3e2f1c",
		RingOpacity:     0.9,
		TextColor:       "#2b2b2b",
		TextOpacity:     1.0,
		TextStroke:      "none",
		LineColor:       "#4a3b2a",
		LineOpacity:     0.75,
		LineWidth:       2.0,
		SporeOpacity:    0.85,
		SporeColor:      "#6b5b3e",
		SporeZonePolicy: spores.ZoneFade,
		DotColor:        "#1a1a2e",
		DotShape:        pattern.ShapeCircle,
		DotSize:         0.82,
		Rotation:        0,
		Contrast:        1.0,
		ErrorCorrection: 25,
	}
}

//go:embed presets.toml
var presetsTOML []byte

var (
	presetsOnce sync.Once
	presets     map[string]Config
	presetsErr  error
)

// loadPresets parses the embedded preset table once.
func loadPresets() (map[string]Config, error) {
	presetsOnce.Do(func() {
		presets = make(map[string]Config)
		presetsErr = toml.Unmarshal(presetsTOML, &presets)
	})
	return presets, presetsErr
}

// PresetNames returns the embedded preset names, sorted.
func PresetNames() ([]string, error) {
	p, err := loadPresets()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Resolve produces the effective configuration: defaults, overlaid by the
// named preset (if any), overlaid by the explicitly set fields of c, then
// range-validated. The receiver is not modified.
func (c Config) Resolve() (Config, error) {
	base := DefaultConfig()

	if c.Preset != "" {
		all, err := loadPresets()
		if err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInternal, err, "parse embedded presets")
		}
		p, ok := all[c.Preset]
		if !ok {
			return Config{}, errors.New(errors.ErrCodeInvalidPreset, "unknown preset %q", c.Preset)
		}
		base = overlay(base, p)
	}

	eff := overlay(base, c)
	eff.Preset = c.Preset

	if err := eff.validate(); err != nil {
		return Config{}, err
	}
	return eff, nil
}

// overlay returns base with every non-zero field of over applied on top.
// Rotation and LinesBelowPattern treat their zero value as "unset", which
// coincides with the default, so the distinction is harmless.
func overlay(base, over Config) Config {
	out := base

	if over.ParticleCount != 0 {
		out.ParticleCount = over.ParticleCount
	}
	if over.QRScale != 0 {
		out.QRScale = over.QRScale
	}
	if over.Background != "" {
		out.Background = over.Background
	}
	if over.RingColor != "" {
		out.RingColor = over.RingColor
	}
	if over.RingOpacity != 0 {
		out.RingOpacity = over.RingOpacity
	}
	if over.TextColor != "" {
		out.TextColor = over.TextColor
	}
	if over.TextOpacity != 0 {
		out.TextOpacity = over.TextOpacity
	}
	if over.TextStroke != "" {
		out.TextStroke = over.TextStroke
	}
	if over.LineColor != "" {
		out.LineColor = over.LineColor
	}
	if over.LineOpacity != 0 {
		out.LineOpacity = over.LineOpacity
	}
	if over.LineWidth != 0 {
		out.LineWidth = over.LineWidth
	}
	if over.LinesBelowPattern {
		out.LinesBelowPattern = true
	}
	if over.SporeOpacity != 0 {
		out.SporeOpacity = over.SporeOpacity
	}
	if over.SporeColor != "" {
		out.SporeColor = over.SporeColor
	}
	if over.SporeZonePolicy != "" {
		out.SporeZonePolicy = over.SporeZonePolicy
	}
	if over.DotColor != "" {
		out.DotColor = over.DotColor
	}
	if over.DotShape != "" {
		out.DotShape = over.DotShape
	}
	if over.DotSize != 0 {
		out.DotSize = over.DotSize
	}
	if over.Rotation != 0 {
		out.Rotation = over.Rotation
	}
	if over.Contrast != 0 {
		out.Contrast = over.Contrast
	}
	if over.ErrorCorrection != 0 {
		out.ErrorCorrection = over.ErrorCorrection
	}

	return out
}

// validate range-checks an effective configuration.
func (c Config) validate() error {
	switch {
	case c.ParticleCount < 0 || c.ParticleCount > 200000:
		return errors.New(errors.ErrCodeInvalidConfig, "particle count %d outside [0, 200000]", c.ParticleCount)
	case c.QRScale < 0.5 || c.QRScale > 1.15:
		return errors.New(errors.ErrCodeInvalidConfig, "qr scale %.2f outside [0.5, 1.15]", c.QRScale)
	case c.DotSize <= 0 || c.DotSize > 1:
		return errors.New(errors.ErrCodeInvalidConfig, "dot size %.2f outside (0, 1]", c.DotSize)
	case c.Contrast <= 0 || c.Contrast > 4:
		return errors.New(errors.ErrCodeInvalidConfig, "contrast %.2f outside (0, 4]", c.Contrast)
	case c.Rotation < -180 || c.Rotation > 180:
		return errors.New(errors.ErrCodeInvalidConfig, "rotation %.1f outside [-180, 180]", c.Rotation)
	case c.ErrorCorrection < qrmatrix.MinErrorCorrectionPercent || c.ErrorCorrection > qrmatrix.MaxErrorCorrectionPercent:
		return errors.New(errors.ErrCodeInvalidConfig, "error correction %.1f outside [%d, %d]",
			c.ErrorCorrection, qrmatrix.MinErrorCorrectionPercent, qrmatrix.MaxErrorCorrectionPercent)
	case c.SporeOpacity < 0 || c.SporeOpacity > 1:
		return errors.New(errors.ErrCodeInvalidConfig, "spore opacity %.2f outside [0, 1]", c.SporeOpacity)
	case c.SporeZonePolicy != spores.ZoneFade && c.SporeZonePolicy != spores.ZoneSkip:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown spore zone policy %q", c.SporeZonePolicy)
	case c.DotShape != pattern.ShapeCircle && c.DotShape != pattern.ShapeDiamond:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown dot shape %q", c.DotShape)
	}

	for _, o := range []float64{c.RingOpacity, c.TextOpacity, c.LineOpacity} {
		if o < 0 || o > 1 {
			return errors.New(errors.ErrCodeInvalidConfig, "opacity %.2f outside [0, 1]", o)
		}
	}
	return nil
}
