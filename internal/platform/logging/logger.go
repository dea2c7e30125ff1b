package logging

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, text
	Output string // stdout, stderr, file path
}

// Setup configures the process-wide logrus logger. Packages log through
// logrus' standard logger with structured fields.
func Setup(cfg Config) (io.Closer, error) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	switch cfg.Output {
	case "", "stdout":
		log.SetOutput(os.Stdout)
	case "stderr":
		log.SetOutput(os.Stderr)
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("logging setup: open %q: %w", cfg.Output, err)
		}
		log.SetOutput(f)
		return f, nil
	}

	return io.NopCloser(nil), nil
}
