// Package file provides file-based implementations of driven port interfaces.
//
// Adapters:
//   - ConfigStore: TOML settings file, ~/.azdo-mcp/config.toml by default
package file
