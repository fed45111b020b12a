package batch

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/quillback/scalebind/internal/upscayl"
)

// Job validation errors. All of them reject a run before any directory is
// touched; none can occur mid-batch.
var (
	ErrNoDirectories = errors.New("job has no input directories")
	ErrNoOutputBase  = errors.New("job has no output base")
	ErrDirNotFound   = errors.New("input directory not found")
	ErrNotADirectory = errors.New("input path is not a directory")
)

// Job describes one batch: the directories to upscale, the output base they
// land under, and the tool argument template shared by every directory.
type Job struct {
	ID          string
	Directories []string
	OutputBase  string
	Template    upscayl.Template
}

// NewJob assembles a job with a fresh ID.
func NewJob(directories []string, outputBase string, tpl upscayl.Template) Job {
	return Job{
		ID:          uuid.NewString(),
		Directories: directories,
		OutputBase:  outputBase,
		Template:    tpl,
	}
}

// Validate checks the job shape eagerly: a non-empty directory list, each
// entry an existing directory, an output base, and a template with both
// slots. Run refuses jobs that fail here.
func (j *Job) Validate() error {
	if len(j.Directories) == 0 {
		return ErrNoDirectories
	}
	if j.OutputBase == "" {
		return ErrNoOutputBase
	}
	for _, dir := range j.Directories {
		fi, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrDirNotFound, dir)
		}
		if !fi.IsDir() {
			return fmt.Errorf("%w: %s", ErrNotADirectory, dir)
		}
	}
	return j.Template.Validate()
}
