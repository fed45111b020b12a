package check

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/quillback/scalebind/internal/config"
)

// writeModel creates a NAME.param/NAME.bin pair in dir.
func writeModel(t *testing.T, dir, name string) {
	t.Helper()
	for _, ext := range []string{".param", ".bin"} {
		if err := os.WriteFile(filepath.Join(dir, name+ext), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

// fakeBin writes a tiny shell script that exits with the given code.
func fakeBin(t *testing.T, dir string, code byte) string {
	t.Helper()
	path := filepath.Join(dir, "upscayl-bin")
	script := "#!/bin/sh\nexit " + string('0'+code) + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestListModels(t *testing.T) {
	dir := t.TempDir()
	writeModel(t, dir, "upscayl-standard-4x")
	writeModel(t, dir, "upscayl-lite-4x")
	// Orphan .param without its .bin sibling is not a complete model.
	if err := os.WriteFile(filepath.Join(dir, "broken.param"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	models, err := listModels(dir)
	if err != nil {
		t.Fatalf("listModels: %v", err)
	}
	want := []string{"upscayl-lite-4x", "upscayl-standard-4x"}
	if len(models) != len(want) {
		t.Fatalf("models = %v, want %v", models, want)
	}
	for i := range want {
		if models[i] != want[i] {
			t.Errorf("models[%d] = %q, want %q", i, models[i], want[i])
		}
	}
}

func TestCheckDeps_MissingBinary(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Bin = filepath.Join(t.TempDir(), "does-not-exist")

	if err := CheckDeps(&cfg); !errors.Is(err, ErrBinNotFound) {
		t.Errorf("error = %v, want ErrBinNotFound", err)
	}
}

func TestCheckDeps_MissingModelDir(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	cfg := config.DefaultConfig()
	cfg.Bin = fakeBin(t, t.TempDir(), 1)
	cfg.ModelDir = filepath.Join(t.TempDir(), "no-models")

	if err := CheckDeps(&cfg); !errors.Is(err, ErrModelDirNotFound) {
		t.Errorf("error = %v, want ErrModelDirNotFound", err)
	}
}

func TestCheckDeps_ModelNotFound(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	models := t.TempDir()
	writeModel(t, models, "upscayl-lite-4x")

	cfg := config.DefaultConfig()
	cfg.Bin = fakeBin(t, t.TempDir(), 1)
	cfg.ModelDir = models
	cfg.ModelName = "upscayl-standard-4x"

	if err := CheckDeps(&cfg); !errors.Is(err, ErrModelNotFound) {
		t.Errorf("error = %v, want ErrModelNotFound", err)
	}
}

func TestCheckDeps_AllPresent(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	models := t.TempDir()
	writeModel(t, models, "upscayl-standard-4x")

	cfg := config.DefaultConfig()
	cfg.Bin = fakeBin(t, t.TempDir(), 1)
	cfg.ModelDir = models

	if err := CheckDeps(&cfg); err != nil {
		t.Errorf("CheckDeps: %v", err)
	}
}
