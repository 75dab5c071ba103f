package seal

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/jonguttman/psillyops-seal/pkg/errors"
	"github.com/jonguttman/psillyops-seal/pkg/seal/compose"
)

func testGenerator(t *testing.T) *Generator {
	t.Helper()
	gen, err := New(log.New(io.Discard))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return gen
}

// fastConfig keeps texture sampling small so tests stay quick. Determinism
// does not depend on the budget.
func fastConfig() *Config {
	return &Config{ParticleCount: 2500}
}

func TestGenerateDeterministic(t *testing.T) {
	gen := testGenerator(t)
	ctx := context.Background()

	a, err := gen.Generate(ctx, "abc123", "v1", fastConfig())
	if err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	b, err := gen.Generate(ctx, "abc123", "v1", fastConfig())
	if err != nil {
		t.Fatalf("second Generate: %v", err)
	}

	if !bytes.Equal(a.Bytes, b.Bytes) {
		t.Error("identical (token, version, config) produced different artifacts")
	}

	// A fresh Generator must agree too: no process state leaks in.
	c, err := testGenerator(t).Generate(ctx, "abc123", "v1", fastConfig())
	if err != nil {
		t.Fatalf("third Generate: %v", err)
	}
	if !bytes.Equal(a.Bytes, c.Bytes) {
		t.Error("separate Generator instances disagree for identical inputs")
	}
}

func TestGenerateDistinctTokensDiverge(t *testing.T) {
	gen := testGenerator(t)
	ctx := context.Background()

	a, err := gen.Generate(ctx, "abc123", "v1", fastConfig())
	if err != nil {
		t.Fatalf("Generate abc123: %v", err)
	}
	b, err := gen.Generate(ctx, "abc124", "v1", fastConfig())
	if err != nil {
		t.Fatalf("Generate abc124: %v", err)
	}

	if bytes.Equal(compose.StripMetadata(a.Bytes), compose.StripMetadata(b.Bytes)) {
		t.Error("different tokens produced visually identical artifacts")
	}

	// Version is part of the seed as well.
	c, err := gen.Generate(ctx, "abc123", "v2", fastConfig())
	if err != nil {
		t.Fatalf("Generate v2: %v", err)
	}
	if bytes.Equal(compose.StripMetadata(a.Bytes), compose.StripMetadata(c.Bytes)) {
		t.Error("different versions produced visually identical artifacts")
	}
}

func TestGenerateScenario(t *testing.T) {
	gen := testGenerator(t)

	art, err := gen.Generate(context.Background(), "abc123", "v1", fastConfig())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	svg := string(art.Bytes)
	if !strings.HasPrefix(svg, "<svg ") || !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("artifact is not a complete SVG document")
	}
	if !strings.Contains(svg, `id="seal-qr"`) {
		t.Error("artifact missing pattern group")
	}
	if n := strings.Count(svg, `class="finder"`); n != 3 {
		t.Errorf("finder marker count = %d, want 3", n)
	}
	if art.ShapeCount <= 3 {
		t.Errorf("shape count = %d, want markers plus data dots", art.ShapeCount)
	}

	meta, ok := compose.ExtractMetadata(art.Bytes)
	if !ok {
		t.Fatal("artifact missing metadata block")
	}
	if meta.SealVersion != "v1" {
		t.Errorf("metadata sealVersion = %q, want v1", meta.SealVersion)
	}
	if meta.SeedPrefix == "" || len(meta.SeedPrefix) != 16 {
		t.Errorf("metadata seedPrefix = %q, want 8-byte hex prefix", meta.SeedPrefix)
	}
	if strings.Contains(svg, "abc123") {
		t.Error("artifact leaks the raw token")
	}
	if meta.Texture.Omitted {
		t.Error("texture unexpectedly omitted")
	}
	if meta.Texture.Accepted == 0 {
		t.Error("texture accepted no particles")
	}
}

func TestGenerateDefaultVersion(t *testing.T) {
	gen := testGenerator(t)

	art, err := gen.Generate(context.Background(), "abc123", "", fastConfig())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if art.Meta.SealVersion != CurrentVersion {
		t.Errorf("empty version resolved to %q, want %q", art.Meta.SealVersion, CurrentVersion)
	}

	pinned, err := gen.Generate(context.Background(), "abc123", CurrentVersion, fastConfig())
	if err != nil {
		t.Fatalf("Generate pinned: %v", err)
	}
	if !bytes.Equal(art.Bytes, pinned.Bytes) {
		t.Error("empty version and explicit CurrentVersion disagree")
	}
}

func TestGenerateErrorCorrectionLevels(t *testing.T) {
	gen := testGenerator(t)
	ctx := context.Background()

	// Long enough that the low and high redundancy encodings land on
	// different matrix sizes.
	token := strings.Repeat("batch-7f3a-", 6)

	low := fastConfig()
	low.ErrorCorrection = 7
	high := fastConfig()
	high.ErrorCorrection = 30

	a, err := gen.Generate(ctx, token, "v1", low)
	if err != nil {
		t.Fatalf("Generate EC 7: %v", err)
	}
	b, err := gen.Generate(ctx, token, "v1", high)
	if err != nil {
		t.Fatalf("Generate EC 30: %v", err)
	}

	if a.Meta.Encoding.Level != "L" {
		t.Errorf("EC 7 level = %q, want L", a.Meta.Encoding.Level)
	}
	if b.Meta.Encoding.Level != "H" {
		t.Errorf("EC 30 level = %q, want H", b.Meta.Encoding.Level)
	}
	if a.Meta.Encoding.Modules >= b.Meta.Encoding.Modules {
		t.Errorf("modules L=%d H=%d, want higher redundancy to need a larger matrix",
			a.Meta.Encoding.Modules, b.Meta.Encoding.Modules)
	}
	if bytes.Equal(compose.StripMetadata(a.Bytes), compose.StripMetadata(b.Bytes)) {
		t.Error("different error correction produced identical artifacts")
	}
}

func TestGenerateRotationKeepsShapeCount(t *testing.T) {
	gen := testGenerator(t)
	ctx := context.Background()

	flat := fastConfig()
	tilted := fastConfig()
	tilted.Rotation = 45

	a, err := gen.Generate(ctx, "abc123", "v1", flat)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := gen.Generate(ctx, "abc123", "v1", tilted)
	if err != nil {
		t.Fatalf("Generate rotated: %v", err)
	}

	// Rotation is a rigid transform over the same matrix: the shape
	// inventory is unchanged even though the markup differs.
	if a.ShapeCount != b.ShapeCount {
		t.Errorf("shape count changed under rotation: %d vs %d", a.ShapeCount, b.ShapeCount)
	}
	if bytes.Equal(compose.StripMetadata(a.Bytes), compose.StripMetadata(b.Bytes)) {
		t.Error("rotation had no effect on the artifact")
	}
}

func TestGenerateInvalidInputs(t *testing.T) {
	gen := testGenerator(t)
	ctx := context.Background()

	if _, err := gen.Generate(ctx, "", "v1", nil); !errors.Is(err, errors.ErrCodeInvalidToken) {
		t.Errorf("empty token error = %v, want INVALID_TOKEN", err)
	}

	long := strings.Repeat("x", 513)
	if _, err := gen.Generate(ctx, long, "v1", nil); !errors.Is(err, errors.ErrCodeInvalidToken) {
		t.Errorf("oversized token error = %v, want INVALID_TOKEN", err)
	}

	if _, err := gen.Generate(ctx, "abc123", "v 1", nil); !errors.Is(err, errors.ErrCodeInvalidVersion) {
		t.Errorf("bad version error = %v, want INVALID_VERSION", err)
	}

	bad := fastConfig()
	bad.Contrast = 9
	if _, err := gen.Generate(ctx, "abc123", "v1", bad); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("bad config error = %v, want INVALID_CONFIG", err)
	}
}

func TestGenerateZonePolicies(t *testing.T) {
	gen := testGenerator(t)
	ctx := context.Background()

	for _, policy := range []string{"fade", "skip"} {
		cfg := fastConfig()
		cfg.SporeZonePolicy = policy

		art, err := gen.Generate(ctx, "abc123", "v1", cfg)
		if err != nil {
			t.Fatalf("Generate policy %q: %v", policy, err)
		}

		again, err := gen.Generate(ctx, "abc123", "v1", cfg)
		if err != nil {
			t.Fatalf("Generate policy %q repeat: %v", policy, err)
		}
		if !bytes.Equal(art.Bytes, again.Bytes) {
			t.Errorf("policy %q not deterministic", policy)
		}
		if art.Meta.Texture.Omitted {
			t.Errorf("policy %q omitted the texture", policy)
		}
	}
}

func TestGenerateStripMetadataRoundTrip(t *testing.T) {
	gen := testGenerator(t)

	art, err := gen.Generate(context.Background(), "abc123", "v1", fastConfig())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	stripped := compose.StripMetadata(art.Bytes)
	if bytes.Contains(stripped, []byte("seal:metadata")) {
		t.Error("StripMetadata left the metadata block behind")
	}
	if _, ok := compose.ExtractMetadata(stripped); ok {
		t.Error("metadata still extractable after strip")
	}
	if !bytes.HasSuffix(stripped, []byte("</svg>\n")) {
		t.Error("strip damaged the document tail")
	}
}
