package display

import (
	"fmt"
	"os"

	"github.com/quillback/scalebind/internal/term"
)

// PrintBanner prints the ASCII art banner; uses Magenta if colors are enabled.
func PrintBanner() {
	if term.Enabled() {
		fmt.Fprint(os.Stdout, term.Magenta)
	}
	fmt.Fprint(os.Stdout, ` ____            _      ____  _           _
/ ___|  ___ __ _| | ___| __ )(_)_ __   __| |
\___ \ / __/ _`+"`"+` | |/ _ \  _ \| | '_ \ / _`+"`"+` |
 ___) | (_| (_| | |  __/ |_) | | | | | (_| |
|____/ \___\__,_|_|\___|____/|_|_| |_|\__,_|
`)
	if term.Enabled() {
		fmt.Fprintln(os.Stdout, term.NC)
	}
}
