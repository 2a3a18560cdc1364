// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("compiled namespace", slog.String("name", "button"))
//
// # Configuration
//
// Configure the logger using functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithCaller(true))
//
// The package-level logger used by [Debug], [Info], and friends is
// reconfigured with [Config]; the command line does this as flags are parsed.
//
// # Levels
//
// In addition to the slog levels, [LevelTrace] sits below [LevelDebug] and
// is used for per-node evaluator diagnostics.
//
// # Output Formats
//
// [FormatText] (default) writes key=value lines, colorized when pretty
// printing is enabled. [FormatJSON] writes one JSON object per line.
package log
