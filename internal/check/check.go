// Package check provides system diagnostics (--check mode) and pre-batch
// dependency validation (CheckDeps) for the upscayl binary and its models.
package check

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/quillback/scalebind/internal/config"
)

// Sentinel errors returned by CheckDeps when a required tool or model is missing.
var (
	ErrBinNotFound      = errors.New("upscayl binary not found")
	ErrBinNotRunnable   = errors.New("upscayl binary found but failed to launch")
	ErrModelDirNotFound = errors.New("model directory not found")
	ErrModelNotFound    = errors.New("model not present in model directory")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// RunCheck runs the interactive --check flow: prints availability of the
// upscayl binary, the model directory, and every model found in it.
// It logs every finding and returns false when the binary or the selected
// model is unusable.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")

	binOK := checkBinary(cfg, log)
	modelsOK := checkModels(cfg, log)
	return binOK && modelsOK
}

// checkBinary resolves the configured binary and runs it once to confirm
// it actually launches on this system.
func checkBinary(cfg *config.Config, log Logger) bool {
	path, err := resolveBin(cfg.Bin)
	if err != nil {
		log.Error("%s not found: %v", cfg.Bin, err)
		return false
	}
	if !probeRuns(path) {
		log.Error("%s found at %s but failed to launch", cfg.Bin, path)
		return false
	}
	log.Success("upscayl binary: %s", path)
	return true
}

// checkModels inspects the model directory and lists every complete model
// (a .param file with its .bin sibling) found there.
func checkModels(cfg *config.Config, log Logger) bool {
	info, err := os.Stat(cfg.ModelDir)
	if err != nil || !info.IsDir() {
		log.Warn("model directory %s not found", cfg.ModelDir)
		return false
	}

	models, err := listModels(cfg.ModelDir)
	if err != nil {
		log.Warn("could not read model directory %s: %v", cfg.ModelDir, err)
		return false
	}
	if len(models) == 0 {
		log.Warn("model directory %s contains no models", cfg.ModelDir)
		return false
	}

	log.Info("Models in %s:", cfg.ModelDir)
	found := false
	for _, m := range models {
		if m == cfg.ModelName {
			found = true
			log.Success("  %s (selected)", m)
		} else {
			log.Info("  %s", m)
		}
	}
	if !found {
		log.Warn("selected model %s is not in %s", cfg.ModelName, cfg.ModelDir)
		log.Info("Bundled model names: %s", strings.Join(config.KnownModels, ", "))
	}
	return found
}

// CheckDeps is the pre-batch validation: it verifies that the upscayl binary
// resolves and launches, that the model directory exists, and that the
// selected model is present in it. Returns a sentinel error on failure.
func CheckDeps(cfg *config.Config) error {
	path, err := resolveBin(cfg.Bin)
	if err != nil {
		return ErrBinNotFound
	}
	if !probeRuns(path) {
		return ErrBinNotRunnable
	}

	info, err := os.Stat(cfg.ModelDir)
	if err != nil || !info.IsDir() {
		return ErrModelDirNotFound
	}

	models, err := listModels(cfg.ModelDir)
	if err != nil {
		return ErrModelDirNotFound
	}
	for _, m := range models {
		if m == cfg.ModelName {
			return nil
		}
	}
	return ErrModelNotFound
}

// --- internal helpers ---

// resolveBin turns the configured binary into an absolute-or-relative path:
// names with a path separator are stat'ed directly, bare names go through PATH.
func resolveBin(bin string) (string, error) {
	if strings.ContainsRune(bin, os.PathSeparator) {
		if _, err := os.Stat(bin); err != nil {
			return "", err
		}
		return bin, nil
	}
	return exec.LookPath(bin)
}

// listModels returns the sorted names of complete models in dir. A model is
// complete when both NAME.param and NAME.bin exist.
func listModels(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var models []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".param") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".param")
		if _, err := os.Stat(filepath.Join(dir, name+".bin")); err == nil {
			models = append(models, name)
		}
	}
	sort.Strings(models)
	return models, nil
}

// probeRuns launches the binary with no arguments and reports whether it
// started at all. A non-zero exit (the usual usage message) still counts:
// only a failure to launch is a problem.
func probeRuns(path string) bool {
	cmd := exec.Command(path)
	cmd.Stdout = nil
	cmd.Stderr = nil
	err := cmd.Run()
	if err == nil {
		return true
	}
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}
