// Package naming provides the natural filename ordering used for document
// page order, output path construction for per-directory results, and
// collision resolution for input directories that share a basename.
//
// Natural ordering treats embedded digit runs as numbers, so "page2"
// precedes "page10". It is the only ordering used when assembling pages;
// plain lexicographic sorting would interleave pages of multi-digit scans.
package naming
