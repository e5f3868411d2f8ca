// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"news/aggregator/internal/config"
)

// Setup applies level and formatter from cfg to the standard logger.
func Setup(cfg config.LogConfig) error {
	level, err := log.ParseLevel(strings.TrimSpace(cfg.Level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	log.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "", "text":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("unknown log format %q", cfg.Format)
	}
	return nil
}

// RedirectToFile sends log output to path, or discards it when path is empty.
// Closing the returned value restores output to stderr.
func RedirectToFile(path string) (io.Closer, error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return redirect{}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	log.SetOutput(f)
	return redirect{file: f}, nil
}

type redirect struct {
	file *os.File
}

func (r redirect) Close() error {
	log.SetOutput(os.Stderr)
	if r.file == nil {
		return nil
	}
	return r.file.Close()
}
