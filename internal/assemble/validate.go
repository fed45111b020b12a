package assemble

import (
	"fmt"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Validate checks the structural integrity of a written document. Used
// behind the --validate-pdf flag as a post-write sanity check.
func Validate(destFile string) error {
	if err := api.ValidateFile(destFile, nil); err != nil {
		return fmt.Errorf("validate %s: %w", filepath.Base(destFile), err)
	}
	return nil
}
