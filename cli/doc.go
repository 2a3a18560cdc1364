// Package cli contains the command line interface for stylec.
//
// # Usage
//
//	stylec [flags] compile [file ...]   # default command
//	stylec eval <file> [binding]
//	stylec ast <file>
//	stylec init [--force]
//
// compile prints a JSON (or YAML, with -o yaml) report of every style
// definition, or with --css the stylesheet of all injected rules:
//
//	stylec compile --minify-keys --prefix s button.js card.js
//	stylec compile --css src/*.js > styles.css
//
// # Configuration
//
// Flag defaults are read from config.yaml in the user configuration
// directory. Nested keys are joined with "-":
//
//	log:
//	  level: debug
//	prefix: s
//	minify-keys: true
//
// init writes the current flag values to that file.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory
//   - --pprof-quiet: Suppress profiler status messages
package cli
