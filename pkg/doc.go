// Package pkg provides the core libraries for deterministic seal generation.
//
// # Overview
//
// A seal is a scannable, tamper-evident SVG artifact derived from a product
// token. Generation is a pure function: the same (token, version, config)
// always produces byte-identical output, so any issued seal can be
// regenerated and compared at audit time. The pkg directory is organized
// into three main areas:
//
//  1. [seal] - Domain logic (seeding, encoding, pattern, texture, composition)
//  2. [cache], [observability] - Infrastructure (artifact cache, hooks)
//  3. [errors], [buildinfo] - Shared error taxonomy and build metadata
//
// # Architecture
//
// The data flow through one generation call:
//
//	token + seal version
//	         ↓
//	    [seal/seed] package (SHA-256 seed derivation)
//	         ↓
//	    [seal/qrmatrix] package (module matrix encoding)
//	         ↓
//	    [seal/pattern] package (dot pattern + finder markers)
//	         ↓
//	    [seal/spores] package (procedural texture layer)
//	         ↓
//	    [seal/compose] package (layering onto the validated base template)
//	         ↓
//	    SVG artifact (optionally converted to PDF/PNG)
//
// # Quick Start
//
// Generate a seal artifact:
//
//	gen, err := seal.New(nil)
//	if err != nil {
//	    // base template failed integrity validation
//	}
//	artifact, err := gen.Generate(ctx, "abc123", seal.CurrentVersion, nil)
//	if err != nil {
//	    // see pkg/errors for the failure taxonomy
//	}
//	os.WriteFile("seal.svg", artifact.Bytes, 0644)
//
// # Main Packages
//
// [seal] - Top-level generator: config resolution, presets, and the
// encode → render → texture → compose pipeline.
//
// [seal/seed] - Deterministic SHA-256 seed derivation with domain-separated
// sub-streams, so independent random concerns never interfere.
//
// [seal/qrmatrix] - Token encoding into a module matrix, with error
// correction bucketing and capacity errors.
//
// [seal/pattern] - Dot-field rendering of the matrix with synthesized
// concentric finder markers, plus the geometry record texture masking needs.
//
// [seal/spores] - Seeded procedural texture: value-noise density field,
// rejection sampling, and zone-aware masking around scannable regions.
//
// [seal/template] - The embedded, checksum-pinned base artwork.
//
// [seal/compose] - Final layering, style substitution, and the trailing
// audit metadata block.
//
// [seal/export] - SVG to PDF/PNG conversion via rsvg-convert.
//
// [cache] - Content-addressed artifact cache (file-backed or disabled).
//
// [observability] - Pluggable generation and cache hooks with no-op defaults.
//
// [errors] - Coded error taxonomy shared by every package.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/seal/...      # Domain packages only
//
// [seal]: https://pkg.go.dev/github.com/jonguttman/psillyops-seal/pkg/seal
// [seal/seed]: https://pkg.go.dev/github.com/jonguttman/psillyops-seal/pkg/seal/seed
// [seal/qrmatrix]: https://pkg.go.dev/github.com/jonguttman/psillyops-seal/pkg/seal/qrmatrix
// [seal/pattern]: https://pkg.go.dev/github.com/jonguttman/psillyops-seal/pkg/seal/pattern
// [seal/spores]: https://pkg.go.dev/github.com/jonguttman/psillyops-seal/pkg/seal/spores
// [seal/template]: https://pkg.go.dev/github.com/jonguttman/psillyops-seal/pkg/seal/template
// [seal/compose]: https://pkg.go.dev/github.com/jonguttman/psillyops-seal/pkg/seal/compose
// [seal/export]: https://pkg.go.dev/github.com/jonguttman/psillyops-seal/pkg/seal/export
// [cache]: https://pkg.go.dev/github.com/jonguttman/psillyops-seal/pkg/cache
// [observability]: https://pkg.go.dev/github.com/jonguttman/psillyops-seal/pkg/observability
// [errors]: https://pkg.go.dev/github.com/jonguttman/psillyops-seal/pkg/errors
package pkg
