// Package compose merges the validated base template, the texture layer and
// the pattern markup into the final seal artifact.
//
// Layer order is fixed (bottom to top): optional flat background fill,
// texture layer, ring ornamentation, pattern, sweep/line ornamentation
// (optionally dropped below the pattern), outer typography. Style overrides
// are applied as a token-substitution pre-pass over the base markup, never
// by mutating the pattern or texture layers.
//
// The compositor appends a strictly informational metadata comment for audit
// and regression tooling. The comment never affects the visual artifact and
// is excluded from identity comparisons via StripMetadata.
package compose

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonguttman/psillyops-seal/pkg/errors"
	"github.com/jonguttman/psillyops-seal/pkg/seal/spores"
	"github.com/jonguttman/psillyops-seal/pkg/seal/template"
)

// Canvas is the vector canvas side length in user units.
const Canvas = 1000

// metaOpen marks the start of the trailing metadata comment.
const metaOpen = "<!-- seal:metadata "

// StyleOverrides are the per-channel substitutions applied to the base
// template sections. All fields must be populated; the seal package fills
// them from defaults and config.
type StyleOverrides struct {
	RingColor   string
	RingOpacity float64

	TextColor   string
	TextOpacity float64
	TextStroke  string

	LineColor   string
	LineOpacity float64
	LineWidth   float64

	// Background, when non-empty, paints a flat fill behind everything.
	Background string

	// LinesBelowPattern drops the sweep/line ornamentation beneath the
	// pattern instead of above it.
	LinesBelowPattern bool
}

// EncodingMeta describes the QR encoding used.
type EncodingMeta struct {
	Level   string  `json:"level"`
	Modules int     `json:"modules"`
	Percent float64 `json:"percent"`
}

// TextureMeta describes the texture generation outcome.
type TextureMeta struct {
	Kind         string `json:"kind"`
	DensityCurve string `json:"densityCurve"`
	EdgeTaper    bool   `json:"edgeTaper"`
	Accepted     int    `json:"accepted"`
	Masked       int    `json:"masked"`
	Omitted      bool   `json:"omitted"`
}

// Metadata is the audit record appended to every artifact. It may include a
// shortened, non-reversible seed prefix; it never includes the token.
type Metadata struct {
	SealVersion string       `json:"sealVersion"`
	SeedPrefix  string       `json:"seedPrefix"`
	Encoding    EncodingMeta `json:"encoding"`
	FinderStyle string       `json:"finderStyle"`
	Texture     TextureMeta  `json:"texture"`
	Config      any          `json:"config"`
}

// Compose assembles the final artifact.
//
// texture may be nil (texture generation unavailable); the artifact is then
// composed without a texture layer and meta.Texture.Omitted should say so —
// no substitute layer is ever injected.
func Compose(base *template.Template, texture *spores.Layer, patternMarkup []byte, style StyleOverrides, meta Metadata) ([]byte, error) {
	if base == nil {
		return nil, errors.New(errors.ErrCodeInternal, "compose called without a base template")
	}
	if len(patternMarkup) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyPattern, "compose called with empty pattern markup")
	}

	ring := substitute(base.Ring, style)
	radar := substitute(base.Radar, style)
	text := substitute(base.Text, style)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		Canvas, Canvas, Canvas, Canvas)

	if style.Background != "" {
		fmt.Fprintf(&buf, `  <rect width="%d" height="%d" fill="%s"/>`+"\n", Canvas, Canvas, style.Background)
	}

	if texture != nil {
		writeTextureLayer(&buf, texture)
	}

	buf.WriteString(ring)
	buf.WriteString("\n")

	if style.LinesBelowPattern {
		buf.WriteString(radar)
		buf.WriteString("\n")
	}

	buf.Write(patternMarkup)

	if !style.LinesBelowPattern {
		buf.WriteString(radar)
		buf.WriteString("\n")
	}

	buf.WriteString(text)
	buf.WriteString("\n")

	if err := writeMetadata(&buf, meta); err != nil {
		return nil, err
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

// substitute applies the style override pre-pass to one base section.
func substitute(section string, style StyleOverrides) string {
	r := strings.NewReplacer(
		"{{RING_COLOR}}", style.RingColor,
		"{{RING_OPACITY}}", formatFloat(style.RingOpacity),
		"{{TEXT_COLOR}}", style.TextColor,
		"{{TEXT_OPACITY}}", formatFloat(style.TextOpacity),
		"{{TEXT_STROKE}}", style.TextStroke,
		"{{LINE_COLOR}}", style.LineColor,
		"{{LINE_OPACITY}}", formatFloat(style.LineOpacity),
		"{{LINE_WIDTH}}", formatFloat(style.LineWidth),
	)
	return r.Replace(section)
}

// formatFloat renders an override value without trailing zeros, matching
// hand-written SVG attribute style.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// writeTextureLayer embeds the raster spore layer, scaled from raster pixels
// back to canvas units.
func writeTextureLayer(buf *bytes.Buffer, layer *spores.Layer) {
	w := float64(layer.WidthPx) / layer.Scale
	h := float64(layer.HeightPx) / layer.Scale
	fmt.Fprintf(buf, `  <image x="0" y="0" width="%.1f" height="%.1f" href="data:image/png;base64,%s"/>`+"\n",
		w, h, base64.StdEncoding.EncodeToString(layer.PNG))
}

// writeMetadata appends the trailing audit comment. JSON field order follows
// struct declaration order, so the block is deterministic.
func writeMetadata(buf *bytes.Buffer, meta Metadata) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "marshal metadata")
	}
	// "--" is illegal inside an XML comment.
	safe := strings.ReplaceAll(string(data), "--", "\\u002d\\u002d")
	fmt.Fprintf(buf, "%s%s -->\n", metaOpen, safe)
	return nil
}

// StripMetadata removes the metadata comment from an artifact so identity
// comparisons cover only the visual content.
func StripMetadata(artifact []byte) []byte {
	start := bytes.Index(artifact, []byte(metaOpen))
	if start < 0 {
		return artifact
	}
	rest := artifact[start:]
	end := bytes.Index(rest, []byte("-->\n"))
	if end < 0 {
		return artifact
	}
	out := make([]byte, 0, len(artifact))
	out = append(out, artifact[:start]...)
	out = append(out, rest[end+len("-->\n"):]...)
	return out
}

// ExtractMetadata parses the metadata comment back out of an artifact.
// Used by regression tooling and tests; returns false if absent.
func ExtractMetadata(artifact []byte) (Metadata, bool) {
	start := bytes.Index(artifact, []byte(metaOpen))
	if start < 0 {
		return Metadata{}, false
	}
	rest := artifact[start+len(metaOpen):]
	end := bytes.Index(rest, []byte(" -->"))
	if end < 0 {
		return Metadata{}, false
	}
	var meta Metadata
	if err := json.Unmarshal(rest[:end], &meta); err != nil {
		return Metadata{}, false
	}
	return meta, true
}
