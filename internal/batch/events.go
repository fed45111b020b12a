package batch

// Events receives the orchestrator's stream of run events. All methods are
// called from the run goroutine, in production order: directories appear in
// job order, lines within a directory in arrival order, and BatchDone fires
// exactly once, last. Implementations must be non-nil; they should return
// promptly since they block the run.
type Events interface {
	// Progress fires before each directory is started. index is 1-based.
	Progress(index, total int)

	// LogLine carries one line of merged tool output, the resolved command
	// echoed before each launch, or a per-directory diagnostic such as a
	// launch failure reason.
	LogLine(text string)

	// DirectoryDone fires when a directory's tool run exits zero.
	DirectoryDone(inputDir, outputDir string)

	// DirectoryFailed fires on a nonzero exit, a launch failure, or an
	// output directory that could not be created. code is the tool exit
	// code, or upscayl.CodeLaunchFailed when the tool never ran.
	DirectoryFailed(inputDir string, code int)

	// BatchDone fires once, after the last directory, with the final result.
	BatchDone(result BatchResult)
}
