// Package analysis runs the end-to-end line detection flow shared by the MCP
// and HTTP transports: load or receive an image, build its edge mask, detect
// lines, and draw them over a grayscale copy of the input.
package analysis
