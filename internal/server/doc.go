// Package server implements the MCP (Model Context Protocol) server for chart
// digitizing.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Image inspection, for checking annotations:
//   - image_load: Load image and get metadata
//   - image_sample_color: Get color at pixel
//   - image_dominant_colors: Exact color palette with pixel counts
//   - image_find_pixels: Every pixel of one color
//   - image_zoom: Magnified crop around a pixel
//
// Chart digitizing:
//   - chart_check: Count reference and data pixels, report readiness
//   - chart_extract: Calibrate and return the data values
//
// Calibration arguments left out of a call fall back to the server
// configuration (see the config package).
//
// # Image Caching
//
// Images and their pixel grids are cached by path for the lifetime of the
// server process, so repeated calls on one chart decode it only once.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string, e.g. which reference color was miscounted
package server
