// Package server implements the MCP (Model Context Protocol) server for the
// steganography tools.
//
// This package provides a JSON-RPC 2.0 server that exposes LSB embedding,
// extraction and inspection through the MCP protocol, so MCP-compatible
// clients can hide and recover messages in images and check what an
// embedding changed.
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
// Image Inspection:
//   - image_load: Metadata plus LSB capacity
//   - image_sample_pixel: Exact channel values and low bits at a pixel
//   - image_bit_plane: Render one bit plane of a region
//
// Steganography:
//   - steg_capacity: Capacity, optionally checked against a message
//   - steg_encode: Hide a text or base64 payload and save the result
//   - steg_decode: Recover a hidden message, as text or raw base64
//   - steg_compare: Diff a cover image against its stego version
//
// # Image Caching
//
// Read-only tools share an in-memory cache of decoded images keyed by path.
// steg_encode never reads through the cache; it loads a private copy of the
// cover image and evicts the output path once the result is written, so a
// later decode sees the new pixels. Files changed by other processes are not
// noticed while cached.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string, e.g. the required and available bit
//     counts of a capacity failure
//
// # Usage
//
//	srv := server.New(version)
//	if err := srv.Run(os.Stdin, os.Stdout); err != nil {
//	    log.Fatal(err)
//	}
package server
