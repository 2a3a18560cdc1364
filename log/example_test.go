package log_test

import (
	"log/slog"
	"os"

	"github.com/jeongminsang/stylex/log"
)

func Example_basic() {
	logger := log.Make(os.Stderr, log.WithLevel(log.LevelInfo))
	logger.Info("compiled namespace", slog.String("name", "button"))
}

func Example_configuration() {
	logger := log.Make(os.Stderr,
		log.WithLevel(log.LevelDebug),
		log.WithFormat(log.FormatJSON),
		log.WithTimeLayout("none"),
		log.WithCaller(true))

	logger.Debug("debug message with caller info")
}

func Example_withAttributes() {
	logger := log.Make(os.Stderr).With(slog.String("file", "button.js"))

	logger.Warn("deferred namespace", slog.String("reason", "unresolved identifier"))
}
