// Package batch runs notecard work items through a bounded worker pool.
//
// An Item is either a plain image file or one page of a PDF. Collect
// expands folders and PDFs into items; Runner processes them concurrently
// and reports a per-item error without stopping the run. Only context
// cancellation ends a run early.
//
// Processor implements the full notecard flow on top of the runner: crop,
// rotate, render variants, optionally suggest a title, and archive.
// Cropper is the lighter folder-to-folder variant that only crops.
package batch
