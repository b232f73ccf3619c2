// Package command defines the accessctl command tree using urfave/cli/v2.
//
//   - root.go: application, global flags and per-invocation runtime
//   - api.go: the "api" group (list, add, remove, enable, disable, use, test)
//   - args.go: positional argument parsing into add selections
//   - view.go: list and probe result rendering
//   - config.go: the "config" group
//
// Each action parses its arguments, calls one service operation and
// renders the result through the output package.
package command
