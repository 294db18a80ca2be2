// Package server implements the MCP (Model Context Protocol) server for Hough
// line detection.
//
// The server speaks JSON-RPC 2.0 over stdio:
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
//   - image_dimensions: Get width and height
//   - hough_edge_detect: Canny edge mask as PNG
//   - hough_detect_lines: Lines as endpoints with rho, theta and votes
//   - hough_render_lines: Lines drawn over a grayscale copy of the image
//   - hough_accumulator: Heat map of the accumulator plus its peaks
//
// Every hough_* parameter is optional. Omitted values fall back to the
// server's configured defaults; explicit zeros are honoured.
//
// # Image Caching
//
// Images are cached by path and reused across tool calls for the lifetime of
// the process.
//
// # Error Handling
//
// Malformed arguments and invalid detection parameters return -32602.
// Other tool failures, including a call exceeding Options.Timeout, return
// -32000 with the error text in the data field. Unknown methods return -32601.
package server
