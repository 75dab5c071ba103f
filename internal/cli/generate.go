package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonguttman/psillyops-seal/pkg/cache"
	"github.com/jonguttman/psillyops-seal/pkg/seal"
	"github.com/jonguttman/psillyops-seal/pkg/seal/compose"
	"github.com/jonguttman/psillyops-seal/pkg/seal/export"
	"github.com/jonguttman/psillyops-seal/pkg/seal/template"
)

const (
	formatSVG = "svg"
	formatPDF = "pdf"
	formatPNG = "png"
)

// pngExportScale is the raster scale passed to the PNG exporter; 2x keeps
// exported seals crisp at print sizes.
const pngExportScale = 2.0

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	output      string // output file path; derived from format when empty
	format      string // "svg", "pdf", or "png"
	sealVersion string // seal version pin; empty selects the current version
	configFile  string // optional TOML config file
	preset      string // named style preset
	noCache     bool   // bypass the artifact cache
	cacheDir    string // artifact cache directory override
	stripMeta   bool   // remove the metadata comment from the output

	// Style overrides. Zero values mean "not set" and fall through to the
	// config file, preset, and built-in defaults, matching how Config
	// resolution treats its fields.
	particles       int
	rotation        float64
	dotShape        string
	dotSize         float64
	dotColor        string
	contrast        float64
	errorCorrection float64
	zonePolicy      string
	background      string
}

// newGenerateCmd creates the generate command, the main entry point of the
// tool: token in, seal artifact out.
//
// SVG output is the canonical deterministic artifact and is cached; PDF and
// PNG are converted from the SVG via rsvg-convert and are not part of the
// reproducibility contract.
func newGenerateCmd() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate [token]",
		Short: "Generate a seal artifact for a token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.format); err != nil {
				return err
			}
			return runGenerate(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: seal.<format>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatSVG, "output format: svg (default), pdf, png")
	cmd.Flags().StringVar(&opts.sealVersion, "seal-version", "", "seal version pin (default: current)")
	cmd.Flags().StringVarP(&opts.configFile, "config", "c", "", "TOML style configuration file")
	cmd.Flags().StringVarP(&opts.preset, "preset", "p", "", "named style preset (see 'sealgen presets')")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the artifact cache")
	cmd.Flags().StringVar(&opts.cacheDir, "cache-dir", "", "artifact cache directory")
	cmd.Flags().BoolVar(&opts.stripMeta, "strip-metadata", false, "omit the trailing metadata comment")

	cmd.Flags().IntVar(&opts.particles, "particles", 0, "texture particle budget")
	cmd.Flags().Float64Var(&opts.rotation, "rotation", 0, "pattern rotation in degrees [-180, 180]")
	cmd.Flags().StringVar(&opts.dotShape, "dot-shape", "", "data dot shape: circle, diamond")
	cmd.Flags().Float64Var(&opts.dotSize, "dot-size", 0, "dot diameter as a fraction of a module (0, 1]")
	cmd.Flags().StringVar(&opts.dotColor, "dot-color", "", "dot fill color (hex)")
	cmd.Flags().Float64Var(&opts.contrast, "contrast", 0, "dot area multiplier (0, 4]")
	cmd.Flags().Float64Var(&opts.errorCorrection, "error-correction", 0, "error correction percent [7, 30]")
	cmd.Flags().StringVar(&opts.zonePolicy, "zone-policy", "", "texture zone policy: fade, skip")
	cmd.Flags().StringVar(&opts.background, "background", "", "flat background fill color (hex)")

	return cmd
}

// validateFormat checks that the requested output format is supported.
func validateFormat(f string) error {
	switch f {
	case formatSVG, formatPDF, formatPNG:
		return nil
	}
	return fmt.Errorf("invalid format: %s (must be 'svg', 'pdf', or 'png')", f)
}

// buildConfig assembles the generation config from the config file (lowest
// precedence) and explicit flags (highest). Preset resolution happens inside
// the generator.
func buildConfig(opts *generateOpts) (seal.Config, error) {
	var cfg seal.Config

	if opts.configFile != "" {
		if _, err := toml.DecodeFile(opts.configFile, &cfg); err != nil {
			return seal.Config{}, fmt.Errorf("load config %s: %w", opts.configFile, err)
		}
	}

	if opts.preset != "" {
		cfg.Preset = opts.preset
	}
	if opts.particles != 0 {
		cfg.ParticleCount = opts.particles
	}
	if opts.rotation != 0 {
		cfg.Rotation = opts.rotation
	}
	if opts.dotShape != "" {
		cfg.DotShape = opts.dotShape
	}
	if opts.dotSize != 0 {
		cfg.DotSize = opts.dotSize
	}
	if opts.dotColor != "" {
		cfg.DotColor = opts.dotColor
	}
	if opts.contrast != 0 {
		cfg.Contrast = opts.contrast
	}
	if opts.errorCorrection != 0 {
		cfg.ErrorCorrection = opts.errorCorrection
	}
	if opts.zonePolicy != "" {
		cfg.SporeZonePolicy = opts.zonePolicy
	}
	if opts.background != "" {
		cfg.Background = opts.background
	}

	return cfg, nil
}

// outputPath derives the output file path from the flags.
func outputPath(opts *generateOpts) string {
	if opts.output != "" {
		return opts.output
	}
	return "seal." + opts.format
}

// defaultCacheDir returns the artifact cache location under the user cache
// directory.
func defaultCacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("get cache dir: %w", err)
	}
	return filepath.Join(base, "sealgen", "artifacts"), nil
}

// openCache opens the artifact cache per the flags. With --no-cache it
// returns a null cache that always misses, so the generation path stays
// uniform.
func openCache(opts *generateOpts) (cache.Cache, error) {
	if opts.noCache {
		return cache.NewNullCache(), nil
	}
	dir := opts.cacheDir
	if dir == "" {
		var err error
		dir, err = defaultCacheDir()
		if err != nil {
			return nil, err
		}
	}
	return cache.NewFileCache(dir)
}

// runGenerate produces the artifact, consulting the cache for the canonical
// SVG bytes before generating.
func runGenerate(ctx context.Context, token string, opts *generateOpts) error {
	logger := loggerFromContext(ctx).With("run_id", uuid.NewString())
	prog := newProgress(logger)

	cfg, err := buildConfig(opts)
	if err != nil {
		return err
	}

	store, err := openCache(opts)
	if err != nil {
		return err
	}
	defer store.Close()

	// The template checksum is part of the key: new artwork, new artifacts.
	key := cache.Key("seal", token, opts.sealVersion, cfg, template.ExpectedChecksum)

	var svg []byte
	if data, ok, err := store.Get(ctx, key); err == nil && ok {
		logger.Debug("artifact cache hit")
		svg = data
	}

	if svg == nil {
		gen, err := seal.New(logger)
		if err != nil {
			return err
		}
		artifact, err := gen.Generate(ctx, token, opts.sealVersion, &cfg)
		if err != nil {
			return err
		}
		logger.Debugf("generated artifact: %d bytes, %d shapes", len(artifact.Bytes), artifact.ShapeCount)
		svg = artifact.Bytes

		if err := store.Set(ctx, key, svg, 0); err != nil {
			logger.Warn("artifact cache write failed", "err", err)
		}
	}

	if opts.stripMeta {
		svg = compose.StripMetadata(svg)
	}

	data, err := convert(svg, opts.format)
	if err != nil {
		return err
	}

	path := outputPath(opts)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}

	prog.done(fmt.Sprintf("Generated %s", path))
	return nil
}

// convert transforms the canonical SVG into the requested output format.
func convert(svg []byte, format string) ([]byte, error) {
	switch format {
	case formatSVG:
		return svg, nil
	case formatPDF:
		return export.ToPDF(svg)
	case formatPNG:
		return export.ToPNG(svg, pngExportScale)
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}
