// Package output renders command results for accessctl.
//
//   - formatter.go: Formatter interface, --output parsing and factory
//   - table.go: aligned text tables
//   - json.go: indented JSON
//   - yaml.go: YAML via gopkg.in/yaml.v3
//   - spinner.go: progress animation for blocking calls
//
// Results go to stdout; the spinner and diagnostics go to stderr.
package output
