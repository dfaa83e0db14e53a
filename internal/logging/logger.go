package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a console logger writing to w at the given level. Writes to w
// are serialised so the logger can be shared between goroutines.
func New(level string, w io.Writer, color bool) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.Nop(), fmt.Errorf("invalid log level: %s", level)
	}

	out := zerolog.ConsoleWriter{
		Out:        zerolog.SyncWriter(w),
		NoColor:    !color,
		TimeFormat: time.TimeOnly,
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}
