// Package upscayl builds tool command templates and runs the external
// upscaling binary, one directory at a time.
//
// A [Template] is built once per batch from the configuration; the input and
// output directory positions are slots resolved per invocation. [Runner]
// launches the tool with the resolved arguments, merges stdout and stderr
// into one ordered line stream, and supports cooperative per-line
// cancellation that terminates the process rather than just dropping output.
package upscayl
