// Package assemble turns a directory of upscaled images into a single
// page-accurate PDF: one page per image in natural filename order, each page
// sized so one pixel maps to one point. Unreadable images are reported and
// skipped rather than aborting the document.
package assemble
