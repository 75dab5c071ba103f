// Package template loads and validates the immutable base artifact that
// every seal is composited onto.
//
// The base SVG is embedded in the binary and pinned to a SHA-256 checksum.
// If the embedded bytes ever drift from the pin, loading fails hard:
// a drifted base silently breaks the "same token, same output, forever"
// guarantee for every seal ever issued, not just new ones.
//
// The template is parsed and validated exactly once per process and the
// result is cached; it is never mutated after a successful load.
package template

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"strings"
	"sync"

	"github.com/jonguttman/psillyops-seal/pkg/errors"
)

// ExpectedChecksum is the pinned SHA-256 of base.svg. Update it only when
// the base artwork changes deliberately, alongside a seal version bump.
const ExpectedChecksum = "d4af07b7b014996089c27cce12fa57849cdec7057d1e37ba367f1c6a4bed257e"

//go:embed base.svg
var baseSVG []byte

// Template is the validated base artifact, split into its structural
// sections. Section markup still contains {{...}} style tokens; the
// compositor substitutes them before assembly.
type Template struct {
	Ring     string // concentric ring ornamentation
	Radar    string // sweep/line ornamentation
	Text     string // outer typography
	Checksum string // checksum of the raw embedded bytes
}

var (
	loadOnce sync.Once
	loaded   *Template
	loadErr  error
)

// Load returns the validated base template.
//
// The checksum is verified on first call; subsequent calls return the cached
// value (or the cached failure — a bad base never recovers within a process).
func Load() (*Template, error) {
	loadOnce.Do(func() {
		loaded, loadErr = parse(baseSVG)
	})
	return loaded, loadErr
}

// RawChecksum computes the checksum of the embedded base bytes without
// validating it. Operator tooling uses this to diagnose integrity failures.
func RawChecksum() string {
	sum := sha256.Sum256(baseSVG)
	return hex.EncodeToString(sum[:])
}

// parse validates raw bytes against the pin and splits out the sections.
func parse(raw []byte) (*Template, error) {
	sum := sha256.Sum256(raw)
	checksum := hex.EncodeToString(sum[:])
	if checksum != ExpectedChecksum {
		return nil, errors.New(errors.ErrCodeTemplateIntegrity,
			"base template checksum %s does not match pinned %s", checksum, ExpectedChecksum)
	}

	content := string(raw)
	ring, err := section(content, "ring")
	if err != nil {
		return nil, err
	}
	radar, err := section(content, "radar")
	if err != nil {
		return nil, err
	}
	text, err := section(content, "text")
	if err != nil {
		return nil, err
	}

	return &Template{
		Ring:     ring,
		Radar:    radar,
		Text:     text,
		Checksum: checksum,
	}, nil
}

// section extracts the markup between <!-- section:name --> markers.
func section(content, name string) (string, error) {
	openTag := "<!-- section:" + name + " -->"
	closeTag := "<!-- /section:" + name + " -->"

	start := strings.Index(content, openTag)
	end := strings.Index(content, closeTag)
	if start < 0 || end < 0 || end < start {
		return "", errors.New(errors.ErrCodeTemplateIntegrity,
			"base template missing section %q", name)
	}
	return strings.Trim(content[start+len(openTag):end], "\n"), nil
}
