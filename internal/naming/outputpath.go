package naming

import "path/filepath"

// OutputDir builds the upscaled-image directory for one input directory:
//
//	<outputBase>/<basename(inputDir)>
//
// The input path is cleaned first so trailing separators cannot produce an
// empty basename.
func OutputDir(outputBase, inputDir string) string {
	return filepath.Join(outputBase, filepath.Base(filepath.Clean(inputDir)))
}

// DocumentPath builds the assembled document path for one output directory:
//
//	<outputBase>/<basename(outputDir)>.pdf
//
// The name derives from the output directory rather than the input so that
// collision-resolved directories (" - dupN" variants) get matching document
// names.
func DocumentPath(outputBase, outputDir string) string {
	return filepath.Join(outputBase, filepath.Base(filepath.Clean(outputDir))+".pdf")
}
