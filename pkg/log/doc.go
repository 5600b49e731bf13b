// Package log provides the logging abstraction used by the filter node.
//
// The node and its adapters log through the Logger interface only. A
// zerolog-backed implementation is provided for the CLI and a no-op
// implementation for embedding and tests.
package log
