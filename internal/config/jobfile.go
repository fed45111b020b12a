package config

// Job files describe a batch in HCL: the input directories, the output base,
// and an optional upscayl block with tool settings. Flags given on the
// command line take precedence over job file settings.
//
//	directories = ["scans/ch01", "scans/ch02"]
//	output_base = "out"
//
//	upscayl {
//	  model = "remacri-4x"
//	  scale = 4
//	}

import (
	"flag"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/hclsimple"
)

// JobFile is the decoded form of an HCL job file.
type JobFile struct {
	Directories []string      `hcl:"directories"`
	OutputBase  string        `hcl:"output_base"`
	Upscayl     *UpscaylBlock `hcl:"upscayl,block"`
}

// UpscaylBlock holds optional tool settings inside the job file. All fields
// are pointers so that absent attributes do not override flag or default values.
type UpscaylBlock struct {
	Bin         *string `hcl:"bin,optional"`
	ModelDir    *string `hcl:"models,optional"`
	ModelName   *string `hcl:"model,optional"`
	ModelScale  *int    `hcl:"model_scale,optional"`
	OutputScale *int    `hcl:"scale,optional"`
	Resize      *string `hcl:"resize,optional"`
	Width       *int    `hcl:"width,optional"`
	Compress    *int    `hcl:"compress,optional"`
	TileSize    *string `hcl:"tile,optional"`
	GPUID       *string `hcl:"gpu,optional"`
	Threads     *string `hcl:"threads,optional"`
	Format      *string `hcl:"format,optional"`
	TTAMode     *bool   `hcl:"tta,optional"`
	MakePDF     *bool   `hcl:"pdf,optional"`
	ValidatePDF *bool   `hcl:"validate_pdf,optional"`
}

// LoadJobFile reads and decodes an HCL job file.
func LoadJobFile(path string) (*JobFile, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("job file: %w", err)
	}
	var jf JobFile
	if err := hclsimple.DecodeFile(path, nil, &jf); err != nil {
		return nil, fmt.Errorf("job file %s: %w", path, err)
	}
	return &jf, nil
}

// ApplyJobFile loads cfg.JobFile and merges it into cfg. Flags the user set
// explicitly on the command line are left untouched.
func ApplyJobFile(cfg *Config, fs *flag.FlagSet) error {
	jf, err := LoadJobFile(cfg.JobFile)
	if err != nil {
		return err
	}
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return MergeJobFile(cfg, jf, set)
}

// MergeJobFile applies jf onto cfg. set holds the names of flags given
// explicitly on the command line; those fields are never overridden.
func MergeJobFile(cfg *Config, jf *JobFile, set map[string]bool) error {
	cfg.InputDirs = cfg.InputDirs[:0]
	for _, d := range jf.Directories {
		cfg.InputDirs = append(cfg.InputDirs, NormalizeDirArg(d))
	}
	cfg.OutputBase = NormalizeDirArg(jf.OutputBase)

	b := jf.Upscayl
	if b == nil {
		return nil
	}
	anySet := func(names ...string) bool {
		for _, n := range names {
			if set[n] {
				return true
			}
		}
		return false
	}
	if b.Bin != nil && !anySet("bin", "b") {
		cfg.Bin = *b.Bin
	}
	if b.ModelDir != nil && !anySet("models", "m") {
		cfg.ModelDir = *b.ModelDir
	}
	if b.ModelName != nil && !anySet("model", "n") {
		cfg.ModelName = *b.ModelName
	}
	if b.ModelScale != nil && !anySet("model-scale", "z") {
		cfg.ModelScale = *b.ModelScale
	}
	if b.OutputScale != nil && !anySet("scale", "s") {
		cfg.OutputScale = *b.OutputScale
	}
	if b.Resize != nil && !anySet("resize", "r") {
		cfg.Resize = *b.Resize
	}
	if b.Width != nil && !anySet("width", "w") {
		cfg.Width = *b.Width
	}
	if b.Compress != nil && !anySet("compress") {
		cfg.Compress = *b.Compress
	}
	if b.TileSize != nil && !anySet("tile", "t") {
		cfg.TileSize = *b.TileSize
	}
	if b.GPUID != nil && !anySet("gpu", "g") {
		cfg.GPUID = *b.GPUID
	}
	if b.Threads != nil && !anySet("threads") {
		cfg.Threads = *b.Threads
	}
	if b.Format != nil && !anySet("format", "f") {
		f, err := ParseOutputFormat(*b.Format)
		if err != nil {
			return fmt.Errorf("job file: %w", err)
		}
		cfg.OutputFormat = f
	}
	if b.TTAMode != nil && !anySet("tta", "x") {
		cfg.TTAMode = *b.TTAMode
	}
	if b.MakePDF != nil && !anySet("no-pdf") {
		cfg.MakePDF = *b.MakePDF
	}
	if b.ValidatePDF != nil && !anySet("validate-pdf") {
		cfg.ValidatePDF = *b.ValidatePDF
	}
	return nil
}
