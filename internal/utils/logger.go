package utils

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the process logger. An empty level returns a no-op logger so that
// command output on stdout and stderr is not interleaved with log lines.
func NewLogger(level string, out io.Writer) (zerolog.Logger, error) {
	if level == "" {
		return zerolog.Nop(), nil
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}

	writer := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	return zerolog.New(writer).Level(lvl).With().Timestamp().Logger(), nil
}
