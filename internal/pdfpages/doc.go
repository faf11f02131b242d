// Package pdfpages pulls notecard scans out of PDF files.
//
// Scanner software typically wraps each scanned card in a one-page PDF or
// bundles a recipe's front and back into a two-page document, with the scan
// stored as a single image XObject per page. Extract returns the first
// decodable image of every page; pages without one are reported with an
// error rather than failing the whole document.
//
// Page numbers in this package are 1-based. Output file names use the
// 0-based page index ("lasagna_page0.jpg" is the first page) to stay
// compatible with archives produced by earlier versions of the tool.
package pdfpages
