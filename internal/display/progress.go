package display

import (
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/quillback/scalebind/internal/term"
)

// Progress wraps a terminal progress bar counting directories through the
// batch. A nil *Progress is valid and all methods are no-ops, so callers can
// hold one only in quiet mode without branching at every call site.
type Progress struct {
	bar *progressbar.ProgressBar
}

// NewProgress creates a bar over total directories.
func NewProgress(total int) *Progress {
	width := 50
	if w := term.Width(os.Stdout, 0); w > 0 && w < 80 {
		width = w / 2
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Upscaling"),
		progressbar.OptionEnableColorCodes(term.Enabled()),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(width),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stdout)
		}),
	)
	return &Progress{bar: bar}
}

// Describe updates the bar label, typically to the directory being processed.
func (p *Progress) Describe(text string) {
	if p == nil {
		return
	}
	p.bar.Describe(text)
}

// Step advances the bar by one directory.
func (p *Progress) Step() {
	if p == nil {
		return
	}
	_ = p.bar.Add(1)
}

// Finish completes and clears the bar.
func (p *Progress) Finish() {
	if p == nil {
		return
	}
	_ = p.bar.Finish()
}
