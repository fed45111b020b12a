package config

// This file implements CLI flag parsing and help text.
// Short flags for tool parameters mirror upscayl-bin's own letters (-z, -s,
// -m, -n, ...) so the CLI reads like the tool it drives.
// Negated flags (e.g. --no-pdf) are applied after Parse so Config defaults hold unless set.

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// ParseFlags parses os.Args into cfg. On --help or --version it prints and exits.
// On error it returns non-nil (e.g. unknown flag, missing positional args).
func ParseFlags(cfg *Config, version string) error {
	applyEnvOverrides(cfg)

	fs := flag.NewFlagSet("scalebind", flag.ContinueOnError)
	fs.Usage = func() { printUsage(version) }

	// Negated/override flags: we capture bools then apply to cfg after Parse,
	// so that defaults from DefaultConfig() hold unless the user passes the flag.
	var negated negatedFlags

	defineToolFlags(fs, cfg)
	defineTuningFlags(fs, cfg)
	defineBehaviorFlags(fs, cfg, &negated)
	defineDisplayFlags(fs, cfg, &negated)
	defineUtilityFlags(fs, cfg, &negated)

	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	applyNegatedFlags(cfg, &negated)

	if negated.showHelp {
		printUsage(version)
		os.Exit(0)
	}
	if negated.showVersion {
		fmt.Fprintln(os.Stdout, "scalebind v"+version)
		os.Exit(0)
	}

	if cfg.JobFile != "" {
		if err := ApplyJobFile(cfg, fs); err != nil {
			return err
		}
	}
	return parsePositionalArgs(fs, cfg)
}

// negatedFlags holds boolean flags that are applied after Parse.
// These either invert a default (e.g. noPDF -> MakePDF=false) or trigger exit (showHelp, showVersion).
type negatedFlags struct {
	noPDF       bool
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// defineToolFlags registers the upscayl-bin location and model selection flags.
func defineToolFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.Bin, "bin", cfg.Bin, "Path to upscayl-bin executable")
	fs.StringVar(&cfg.Bin, "b", cfg.Bin, "Same as --bin")
	fs.StringVar(&cfg.ModelDir, "models", cfg.ModelDir, "Model directory passed as -m")
	fs.StringVar(&cfg.ModelDir, "m", cfg.ModelDir, "Same as --models")
	fs.StringVar(&cfg.ModelName, "model", cfg.ModelName, "Model name passed as -n")
	fs.StringVar(&cfg.ModelName, "n", cfg.ModelName, "Same as --model")
	fs.Var(&scaleValue{&cfg.ModelScale}, "model-scale", "Model native scale: 2 | 3 | 4")
	fs.Var(&scaleValue{&cfg.ModelScale}, "z", "Same as --model-scale")
	fs.Var(&scaleValue{&cfg.OutputScale}, "scale", "Output scale: 2 | 3 | 4")
	fs.Var(&scaleValue{&cfg.OutputScale}, "s", "Same as --scale")
}

// defineTuningFlags registers optional tool parameters that are passed
// through only when they differ from the tool default.
func defineTuningFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.Resize, "resize", cfg.Resize, "Resize output to WxH (e.g. 1920x1080)")
	fs.StringVar(&cfg.Resize, "r", cfg.Resize, "Same as --resize")
	fs.IntVar(&cfg.Width, "width", cfg.Width, "Resize output to a fixed width in pixels")
	fs.IntVar(&cfg.Width, "w", cfg.Width, "Same as --width")
	fs.IntVar(&cfg.Compress, "compress", cfg.Compress, "Compression level 0-100")
	fs.StringVar(&cfg.TileSize, "tile", cfg.TileSize, "Tile size (0 = auto, or e.g. 0,0,0 for multi-GPU)")
	fs.StringVar(&cfg.TileSize, "t", cfg.TileSize, "Same as --tile")
	fs.StringVar(&cfg.GPUID, "gpu", cfg.GPUID, "GPU device id (default: auto)")
	fs.StringVar(&cfg.GPUID, "g", cfg.GPUID, "Same as --gpu")
	fs.StringVar(&cfg.Threads, "threads", cfg.Threads, "Thread counts as load:proc:save")
	fs.Var(&outputFormatValue{&cfg.OutputFormat}, "format", "Output format: jpg | png | webp | keep")
	fs.Var(&outputFormatValue{&cfg.OutputFormat}, "f", "Same as --format")
	fs.BoolVar(&cfg.TTAMode, "tta", false, "Enable TTA mode (slower, sometimes better)")
	fs.BoolVar(&cfg.TTAMode, "x", false, "Same as --tta")
}

// defineBehaviorFlags registers dry-run, PDF toggles, and the job file.
func defineBehaviorFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Preview only; do not run the tool or write documents")
	fs.BoolVar(&cfg.DryRun, "d", false, "Same as --dry-run")
	fs.BoolVar(&n.noPDF, "no-pdf", false, "Do not assemble per-directory PDF documents")
	fs.BoolVar(&cfg.ValidatePDF, "validate-pdf", false, "Validate each written document's structure")
	fs.StringVar(&cfg.JobFile, "job", "", "Load directories and settings from an HCL job file")
}

// defineDisplayFlags registers --color, --no-color, quiet, verbose, --check, --log.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&n.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "Hide tool output; show a progress bar instead")
	fs.BoolVar(&cfg.Quiet, "q", false, "Same as --quiet")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output (also passes -v to the tool)")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run tool and model diagnostics and exit")
	fs.StringVar(&cfg.LogFile, "log", "", "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", "", "Same as --log")
}

// defineUtilityFlags registers --version and --help (exit after printing).
func defineUtilityFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&n.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&n.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&n.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&n.showHelp, "h", false, "Same as --help")
}

// applyNegatedFlags copies negated flag values into cfg (e.g. noPDF -> MakePDF=false).
func applyNegatedFlags(cfg *Config, n *negatedFlags) {
	if n.noPDF {
		cfg.MakePDF = false
	}
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// parsePositionalArgs sets InputDirs and OutputBase from the positional args
// (inputs first, output base last) when neither CheckOnly nor a job file is
// in effect.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	if cfg.CheckOnly {
		return nil
	}
	if cfg.JobFile != "" {
		if len(args) != 0 {
			return fmt.Errorf("--job and positional directories are mutually exclusive")
		}
		return nil
	}
	if len(args) < 2 {
		return fmt.Errorf("need at least one input_dir followed by output_base")
	}
	for _, a := range args[:len(args)-1] {
		cfg.InputDirs = append(cfg.InputDirs, NormalizeDirArg(a))
	}
	cfg.OutputBase = NormalizeDirArg(args[len(args)-1])
	return nil
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(version string) {
	const col1 = 28 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "scalebind v" + version + " - batch upscaling with per-directory PDF binding"},
		{"", ""},
		{"  scalebind [OPTIONS] <input_dir>... <output_base>", ""},
		{"  scalebind [OPTIONS] --job <file>", ""},
		{"", ""},
		{"Tool", ""},
		{"  -b, --bin <path>", "upscayl-bin executable (default: upscayl-bin on PATH)"},
		{"  -m, --models <dir>", "Model directory (default: models)"},
		{"  -n, --model <name>", "Model name (default: upscayl-standard-4x)"},
		{"  -z, --model-scale <2|3|4>", "Model native scale (default: 2)"},
		{"  -s, --scale <2|3|4>", "Output scale (default: 2)"},
		{"", ""},
		{"Tuning", ""},
		{"  -r, --resize <WxH>", "Resize output (e.g. 1920x1080)"},
		{"  -w, --width <px>", "Resize output to fixed width"},
		{"  --compress <0-100>", "Compression level (default: 0)"},
		{"  -t, --tile <spec>", "Tile size (default: 0 = auto)"},
		{"  -g, --gpu <id>", "GPU device id (default: auto)"},
		{"  --threads <l:p:s>", "Thread counts (default: 1:2:2)"},
		{"  -f, --format <fmt>", "Output format: jpg | png | webp | keep (default: keep)"},
		{"  -x, --tta", "Enable TTA mode"},
		{"", ""},
		{"Output & behavior", ""},
		{"  -d, --dry-run", "Preview commands without running the tool"},
		{"  --no-pdf", "Skip per-directory PDF assembly"},
		{"  --validate-pdf", "Validate each written document's structure"},
		{"  --job <file>", "Load directories and settings from an HCL job file"},
		{"", ""},
		{"Display", ""},
		{"  -q, --quiet", "Hide tool output; show a progress bar"},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output (also passed to the tool)"},
		{"", ""},
		{"Utility", ""},
		{"  -l, --log <path>", "Append logs to file"},
		{"  --check", "Tool and model diagnostics"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(os.Stderr, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}

// flag.Value adapters so we can use validated types (scale steps, OutputFormat) with flag.Var.

type scaleValue struct{ p *int }

func (s *scaleValue) String() string {
	if s.p == nil {
		return ""
	}
	return fmt.Sprintf("%d", *s.p)
}

func (s *scaleValue) Set(v string) error {
	switch strings.TrimSpace(v) {
	case "2":
		*s.p = 2
	case "3":
		*s.p = 3
	case "4":
		*s.p = 4
	default:
		return fmt.Errorf("invalid scale %q (use 2, 3 or 4)", v)
	}
	return nil
}

type outputFormatValue struct{ p *OutputFormat }

func (o *outputFormatValue) String() string { return string(*o.p) }
func (o *outputFormatValue) Set(s string) error {
	f, err := ParseOutputFormat(s)
	if err != nil {
		return err
	}
	*o.p = f
	return nil
}

// ParseOutputFormat converts a user-supplied string into an OutputFormat.
// Shared by the flag adapter and the job file loader.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "jpg", "jpeg":
		return FormatJPG, nil
	case "png":
		return FormatPNG, nil
	case "webp":
		return FormatWebP, nil
	case "keep", "":
		return FormatKeep, nil
	default:
		return "", fmt.Errorf("invalid format %q (use 'jpg', 'png', 'webp' or 'keep')", s)
	}
}
