// Package logger wraps zerolog with the defaults used by the rollcall binaries.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Options configures the root logger.
type Options struct {
	Level     string
	Format    string
	Component string
	Writer    io.Writer
}

var (
	mu   sync.Mutex
	root = zerolog.Nop()
)

// Init builds the process-wide logger. It may be called again to reconfigure.
func Init(opt Options) *zerolog.Logger {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339

	var w io.Writer = os.Stderr
	if opt.Writer != nil {
		w = opt.Writer
	}
	if strings.ToLower(opt.Format) != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	ctx := zerolog.New(w).Level(ParseLevel(opt.Level)).With().Timestamp()
	if opt.Component != "" {
		ctx = ctx.Str("component", opt.Component)
	}
	l := ctx.Logger()

	mu.Lock()
	root = l
	mu.Unlock()
	return &l
}

// Get returns the root logger. Before Init it discards everything.
func Get() *zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	l := root
	return &l
}

// Nop returns a logger for library types whose caller did not set one.
func Nop() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// ParseLevel maps a config string to a level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
