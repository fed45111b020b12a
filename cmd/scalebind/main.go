// Command scalebind is the CLI entrypoint for the ScaleBind batch upscaler.
//
// It parses flags, validates configuration and paths, and either runs
// system diagnostics (--check) or the upscale/assemble batch.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/quillback/scalebind/internal/assemble"
	"github.com/quillback/scalebind/internal/batch"
	"github.com/quillback/scalebind/internal/check"
	"github.com/quillback/scalebind/internal/config"
	"github.com/quillback/scalebind/internal/display"
	"github.com/quillback/scalebind/internal/logging"
	"github.com/quillback/scalebind/internal/naming"
	"github.com/quillback/scalebind/internal/upscayl"
)

// version and commit are injected at build time via -ldflags.
// When built with plain "go build", these retain their defaults.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap — the logger doesn't exist yet, so errors go
	// directly to stderr via fmt. Once NewLogger succeeds, all output
	// goes through the logger for consistent formatting and log-file capture.
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, version); err != nil {
		fmt.Fprintf(os.Stderr, "scalebind: %v\n", err)
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "scalebind: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scalebind: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available — all output goes through log from here on.
	if !cfg.Quiet {
		display.PrintBanner()
	}

	if cfg.CheckOnly {
		if !check.RunCheck(&cfg, log) {
			return 1
		}
		return 0
	}

	// Resolve and validate paths: every input must exist, the output base is
	// created if needed, and the base must not be inside any input (prevents
	// feeding the tool its own output on a re-run).
	inputsAbs := make([]string, len(cfg.InputDirs))
	for i, dir := range cfg.InputDirs {
		abs, err := absPath(dir)
		if err != nil {
			log.Error("Input not found: %s", dir)
			return 1
		}
		inputsAbs[i] = abs
	}
	if err := os.MkdirAll(cfg.OutputBase, 0o755); err != nil {
		log.Error("Cannot create output base: %s", cfg.OutputBase)
		return 1
	}
	outputAbs, err := absPath(cfg.OutputBase)
	if err != nil {
		log.Error("Cannot resolve output base: %s", cfg.OutputBase)
		return 1
	}
	for i, abs := range inputsAbs {
		if err := cfg.ValidatePaths(abs, outputAbs); err != nil {
			log.Error("%v", err)
			log.Error("Choose an output base outside: %s", cfg.InputDirs[i])
			return 1
		}
	}

	log.Info("=== ScaleBind v%s (%s) ===", version, commit)
	for _, dir := range cfg.InputDirs {
		log.Info("In:  %s", dir)
	}
	log.Info("Out: %s", cfg.OutputBase)
	log.Info("Via: %s (model %s, x%d)", cfg.Bin, cfg.ModelName, cfg.OutputScale)
	if cfg.DryRun {
		log.Warn("DRY RUN — no tool is launched, no files are written")
	}
	log.Info("")

	// Fail fast if the upscayl binary or the selected model are unavailable.
	// A dry run never launches the tool, so it skips the probe.
	if !cfg.DryRun {
		if err := check.CheckDeps(&cfg); err != nil {
			log.Error("%v", err)
			return 1
		}
	}

	// Phase 3: Wire the batch — runner, job, event sink, orchestrator.
	job := batch.NewJob(cfg.InputDirs, cfg.OutputBase, upscayl.BuildTemplate(&cfg))
	sink := newEventSink(&cfg, log, job.Directories)
	orch := batch.New(upscayl.NewRunner(cfg.Bin), sink)
	orch.DryRun = cfg.DryRun

	log.Debug(cfg.Verbose, "job %s: %d directories", job.ID, len(job.Directories))

	// Stop on SIGINT/SIGTERM: the in-flight tool is terminated within one
	// output line, its directory records no outcome, and the batch ends.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, stopping…")
		orch.RequestStop()
	}()

	// Phase 4: Run the batch and summarize.
	start := time.Now()
	result, err := orch.Run(context.Background(), job)
	if err != nil {
		log.Error("%v", err)
		return 1
	}

	log.Info("")
	if cfg.MakePDF && !cfg.DryRun {
		log.Info("Documents: %d written, %d failed", sink.docs, sink.docFailures)
	}
	elapsed := display.FormatDuration(time.Since(start))
	if result.Cancelled {
		log.Warn("%s (%s)", result.Summary(), elapsed)
		return 130
	}
	if result.Failed() > 0 || sink.docFailures > 0 {
		log.Warn("%s (%s)", result.Summary(), elapsed)
		return 1
	}
	log.Success("%s (%s)", result.Summary(), elapsed)
	return 0
}

// absPath returns the absolute, symlink-resolved path for safe comparison
// of input vs output directory hierarchies.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// --- event sink ---

// eventSink renders batch events to the terminal and log file, and chains
// document assembly onto each finished directory. In quiet mode the raw tool
// lines go to the log file only and a progress bar tracks the batch.
type eventSink struct {
	cfg  *config.Config
	log  *logging.Logger
	bar  *display.Progress
	dirs []string

	docs        int
	docFailures int
}

func newEventSink(cfg *config.Config, log *logging.Logger, dirs []string) *eventSink {
	s := &eventSink{cfg: cfg, log: log, dirs: dirs}
	if cfg.Quiet {
		s.bar = display.NewProgress(len(dirs))
	}
	return s
}

func (s *eventSink) Progress(index, total int) {
	name := filepath.Base(s.dirs[index-1])
	if s.bar != nil {
		s.bar.Describe(name)
		s.log.File("[%d/%d] %s", index, total, name)
		return
	}
	s.log.Info("[%d/%d] %s", index, total, name)
}

func (s *eventSink) LogLine(text string) {
	if s.bar != nil {
		s.log.File("%s", text)
		return
	}
	s.log.Raw(text)
}

func (s *eventSink) DirectoryDone(inputDir, outputDir string) {
	if s.bar != nil {
		s.bar.Step()
		s.log.File("upscaled %s", outputDir)
	} else {
		s.log.Success("Upscaled %s", filepath.Base(outputDir))
	}
	if s.cfg.MakePDF && !s.cfg.DryRun {
		s.assembleDocument(outputDir)
	}
}

func (s *eventSink) DirectoryFailed(inputDir string, code int) {
	if s.bar != nil {
		s.bar.Step()
	}
	name := filepath.Base(inputDir)
	if code == upscayl.CodeLaunchFailed {
		s.log.Error("%s failed (tool did not run)", name)
		return
	}
	s.log.Error("%s failed (exit %d)", name, code)
}

func (s *eventSink) BatchDone(batch.BatchResult) {
	if s.bar != nil {
		s.bar.Finish()
	}
}

// assembleDocument binds one finished directory into a PDF next to it.
// Assembly failures are logged and counted; they never stop the batch.
func (s *eventSink) assembleDocument(outputDir string) {
	docPath := naming.DocumentPath(s.cfg.OutputBase, outputDir)
	asm := &assemble.Assembler{OnSkip: func(path string, reason error) {
		s.log.Warn("Skipping %s: %v", filepath.Base(path), reason)
	}}

	pages, err := asm.Assemble(outputDir, docPath)
	if err != nil {
		s.log.Error("Assembly failed for %s: %v", filepath.Base(outputDir), err)
		s.docFailures++
		return
	}
	if s.cfg.ValidatePDF {
		if err := assemble.Validate(docPath); err != nil {
			s.log.Error("%v", err)
			s.docFailures++
			return
		}
	}
	s.docs++

	size := "unknown size"
	if info, err := os.Stat(docPath); err == nil {
		size = display.FormatBytes(info.Size())
	}
	if s.bar != nil {
		s.log.File("%s: %d pages (%s)", filepath.Base(docPath), pages, size)
		return
	}
	s.log.Success("%s: %d pages (%s)", filepath.Base(docPath), pages, size)
}
