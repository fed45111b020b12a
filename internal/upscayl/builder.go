package upscayl

import (
	"strconv"

	"github.com/quillback/scalebind/internal/config"
)

// BuildTemplate constructs the tool argument template from cfg. The input
// and output positions are slots resolved per directory; every other token
// is fixed for the whole batch.
//
// Optional flags are emitted only when they differ from the tool-side
// default, so the command stays as short as the tool allows.
func BuildTemplate(cfg *config.Config) Template {
	t := make(Template, 0, 24)

	// --- Directory slots ---
	t = append(t, Literal("-i"), InputSlot())
	t = append(t, Literal("-o"), OutputSlot())

	// --- Scales ---
	t = append(t, Literal("-z"), Literal(strconv.Itoa(cfg.ModelScale)))
	t = append(t, Literal("-s"), Literal(strconv.Itoa(cfg.OutputScale)))

	// --- Model ---
	t = append(t, Literal("-m"), Literal(cfg.ModelDir))
	t = append(t, Literal("-n"), Literal(cfg.ModelName))

	// --- Optional tuning ---
	if cfg.Resize != "" {
		t = append(t, Literal("-r"), Literal(cfg.Resize))
	}
	if cfg.Width > 0 {
		t = append(t, Literal("-w"), Literal(strconv.Itoa(cfg.Width)))
	}
	if cfg.Compress > 0 {
		t = append(t, Literal("-c"), Literal(strconv.Itoa(cfg.Compress)))
	}
	if cfg.TileSize != "" && cfg.TileSize != "0" {
		t = append(t, Literal("-t"), Literal(cfg.TileSize))
	}
	if cfg.GPUID != "" && cfg.GPUID != "auto" {
		t = append(t, Literal("-g"), Literal(cfg.GPUID))
	}
	if cfg.Threads != "" && cfg.Threads != "1:2:2" {
		t = append(t, Literal("-j"), Literal(cfg.Threads))
	}

	// --- Output format ---
	if cfg.OutputFormat != config.FormatKeep {
		t = append(t, Literal("-f"), Literal(string(cfg.OutputFormat)))
	}

	// --- Boolean switches ---
	if cfg.TTAMode {
		t = append(t, Literal("-x"))
	}
	if cfg.Verbose {
		t = append(t, Literal("-v"))
	}

	return t
}
