// Package config holds runtime configuration: defaults, CLI flag parsing,
// HCL job files, and validation. Tool-flag defaults match upscayl-bin's own
// defaults so that unset options are simply not passed through.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	// Loads a .env file from the working directory before env overrides
	// are read.
	_ "github.com/joho/godotenv/autoload"
)

// --- Enum types for validated string fields ---

// OutputFormat selects the image format upscayl-bin writes.
type OutputFormat string

const (
	FormatJPG  OutputFormat = "jpg"
	FormatPNG  OutputFormat = "png"
	FormatWebP OutputFormat = "webp"
	FormatKeep OutputFormat = "keep" // Keep each source image's format (default; no -f passed).
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// KnownModels lists the model names bundled with common upscayl-bin
// distributions. --model accepts any name (custom models are common); this
// list only drives --check reporting.
var KnownModels = []string{
	"digital-art-4x",
	"high-fidelity-4x",
	"remacri-4x",
	"ultramix-balanced-4x",
	"ultrasharp-4x",
	"upscayl-lite-4x",
	"upscayl-standard-4x",
}

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then mutated by [ParseFlags] before being passed (by pointer) to packages
// that need it. Fields are grouped by concern with inline documentation of
// defaults and pass-through rules.
type Config struct {
	// Paths (set from positional args or a job file).
	InputDirs  []string
	OutputBase string

	// External tool location.
	Bin      string // upscayl-bin executable. Default: "upscayl-bin" (PATH). Env: SCALEBIND_BIN.
	ModelDir string // -m model directory. Default: "models". Env: SCALEBIND_MODELS.

	// Tool parameters (template flags).
	ModelName    string       // -n. Default: "upscayl-standard-4x".
	ModelScale   int          // -z. Default: 2. Allowed: 2, 3, 4.
	OutputScale  int          // -s. Default: 2. Allowed: 2, 3, 4.
	Resize       string       // -r "WxH". Passed only when non-empty.
	Width        int          // -w. Passed only when > 0.
	Compress     int          // -c 0-100. Passed only when > 0.
	TileSize     string       // -t. Default: "0" (auto). Passed only when set and not "0".
	GPUID        string       // -g. Default: "auto". Passed only when set and not "auto".
	Threads      string       // -j "load:proc:save". Default: "1:2:2". Passed only when not default.
	OutputFormat OutputFormat // -f. Default: "keep" (no flag passed).
	TTAMode      bool         // -x. Default: false.

	// Behavior flags.
	DryRun      bool
	MakePDF     bool // Default: true. Cleared by --no-pdf.
	ValidatePDF bool // Structural check of each written document.

	// Display and logging.
	Quiet     bool // Progress bar instead of raw tool output lines.
	Verbose   bool // Verbose logging; also passes -v to the tool.
	ColorMode ColorMode
	LogFile   string // Optional log file path.
	CheckOnly bool   // Run --check diagnostics and exit.
	JobFile   string // Optional HCL job file (replaces positional args).
}

// DefaultConfig returns a Config with all defaults. Used as the base before
// [ParseFlags] applies env overrides and CLI flags.
func DefaultConfig() Config {
	return Config{
		Bin:          "upscayl-bin",
		ModelDir:     "models",
		ModelName:    "upscayl-standard-4x",
		ModelScale:   2,
		OutputScale:  2,
		TileSize:     "0",
		GPUID:        "auto",
		Threads:      "1:2:2",
		OutputFormat: FormatKeep,
		MakePDF:      true,
		ColorMode:    ColorAuto,
	}
}

// applyEnvOverrides copies supported environment variables into cfg. Called
// before flag definitions so explicit flags still win.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SCALEBIND_BIN"); v != "" {
		cfg.Bin = v
	}
	if v := os.Getenv("SCALEBIND_MODELS"); v != "" {
		cfg.ModelDir = v
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum and range fields, and (when not in CheckOnly mode)
// that input directories and an output base were supplied.
func (c *Config) Validate() error {
	if c.ModelScale < 2 || c.ModelScale > 4 {
		return errors.New("invalid model scale (use 2, 3 or 4)")
	}
	if c.OutputScale < 2 || c.OutputScale > 4 {
		return errors.New("invalid output scale (use 2, 3 or 4)")
	}

	switch c.OutputFormat {
	case FormatJPG, FormatPNG, FormatWebP, FormatKeep:
		// valid
	default:
		return errors.New("invalid format (use 'jpg', 'png', 'webp' or 'keep')")
	}

	if c.Compress < 0 || c.Compress > 100 {
		return errors.New("invalid compression (use 0-100)")
	}
	if c.Width < 0 {
		return errors.New("invalid width (must not be negative)")
	}
	if c.ModelName == "" {
		return errors.New("model name must not be empty")
	}

	if c.CheckOnly {
		return nil
	}
	if len(c.InputDirs) == 0 || c.OutputBase == "" {
		return errors.New("need at least one input_dir and an output_base")
	}
	return nil
}

// ValidatePaths ensures the resolved output base is not inside (or equal
// to) a resolved input directory. Landing results inside a source directory
// pollutes it and feeds the tool its own output on a re-run. Both arguments
// must be absolute, symlink-resolved paths.
func (c *Config) ValidatePaths(inputAbs, outputAbs string) error {
	sep := string(filepath.Separator)
	if outputAbs == inputAbs || strings.HasPrefix(outputAbs+sep, inputAbs+sep) {
		return fmt.Errorf("output base must not be inside input directory %s", inputAbs)
	}
	return nil
}
