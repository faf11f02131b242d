// Package server implements the MCP (Model Context Protocol) server for the
// notecard autocrop tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the autocrop
// engine, PDF page extraction and title OCR through the MCP protocol, so
// an MCP client can inspect and tune crops one card at a time.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Logs go to the zerolog logger passed to New, never to stdout.
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Image Information:
//   - image_load: Read image metadata and cache the image
//   - image_sample_color: Get color at pixel
//   - image_dominant_colors: Extract color palette
//
// Autocrop:
//   - autocrop_white_border: Crop the white scanner border
//   - autocrop_grey_margin: Crop a grey margin from one side
//   - autocrop_pipeline: White border, then grey margins per side
//   - autocrop_diagnose: Edge colour statistics and per-line profile
//
// PDF:
//   - pdf_extract_pages: First image of every page
//
// OCR:
//   - notecard_ocr: Recognise a card and suggest its title
//
// Optional tool arguments default to the values in the server's
// configuration, so a client sees the same crops as the command line.
//
// # Image Caching
//
// The server maintains an in-memory cache of loaded images. Images are cached
// by path and reused across multiple tool calls, avoiding redundant disk I/O.
// The cache persists for the lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// Crop outcomes such as "unchanged" or "scan_limit_reached" are results,
// not errors.
//
// # Usage
//
//	srv := server.New(cfg, logger)
//	if err := srv.Run(); err != nil {
//	    logger.Fatal().Err(err).Msg("server stopped")
//	}
package server
