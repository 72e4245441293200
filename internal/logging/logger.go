// Package logging is the structured logging front end of the detmath host.
// Components depend on the Logger interface; zerolog is the production
// backend and a standard-library adapter remains for callers holding a
// *log.Logger.
package logging

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger is the logging interface shared by the service, server and app
// packages.
type Logger interface {
	Info(msg string, fields ...Field)
	Error(msg string, err error, fields ...Field)
	Debug(msg string, fields ...Field)
	Printf(format string, args ...any)
	Println(args ...any)
}

// Field is a key-value pair attached to a log record.
type Field struct {
	Key   string
	Value any
}

// String creates a string field.
func String(key, value string) Field { return Field{Key: key, Value: value} }

// Int creates an integer field.
func Int(key string, value int) Field { return Field{Key: key, Value: value} }

// Uint64 creates a uint64 field.
func Uint64(key string, value uint64) Field { return Field{Key: key, Value: value} }

// Bool creates a boolean field.
func Bool(key string, value bool) Field { return Field{Key: key, Value: value} }

// Selector records a 4-byte operation selector in hex.
func Selector(value uint32) Field {
	return Field{Key: "selector", Value: fmt.Sprintf("0x%02x", value)}
}

// Err creates an error field.
func Err(err error) Field { return Field{Key: "error", Value: err} }

// ParseLevel converts a -log-level value into a zerolog level. Unknown or
// empty names fall back to info.
func ParseLevel(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || name == "" {
		return zerolog.InfoLevel
	}
	return level
}

// ZerologAdapter adapts a zerolog.Logger to the Logger interface.
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewZerologAdapter wraps an existing zerolog logger.
func NewZerologAdapter(logger zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{logger: logger}
}

// NewDefaultLogger logs to stderr with timestamps.
func NewDefaultLogger() *ZerologAdapter {
	return NewZerologAdapter(zerolog.New(os.Stderr).With().Timestamp().Logger())
}

// NewLogger writes JSON records to w, each tagged with the component name.
func NewLogger(w io.Writer, component string) *ZerologAdapter {
	return NewZerologAdapter(
		zerolog.New(w).With().Str("component", component).Timestamp().Logger(),
	)
}

// NewLevelLogger is NewLogger with a minimum level.
func NewLevelLogger(w io.Writer, component, level string) *ZerologAdapter {
	return NewZerologAdapter(
		zerolog.New(w).Level(ParseLevel(level)).With().Str("component", component).Timestamp().Logger(),
	)
}

// Nop returns a logger that discards every record.
func Nop() *ZerologAdapter { return NewZerologAdapter(zerolog.Nop()) }

// With returns a child logger carrying fields on every record.
func (z *ZerologAdapter) With(fields ...Field) *ZerologAdapter {
	ctx := z.logger.With()
	for _, f := range fields {
		ctx = ctx.Interface(f.Key, f.Value)
	}
	return &ZerologAdapter{logger: ctx.Logger()}
}

func applyFields(event *zerolog.Event, fields []Field) *zerolog.Event {
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			event = event.Str(f.Key, v)
		case int:
			event = event.Int(f.Key, v)
		case int64:
			event = event.Int64(f.Key, v)
		case uint64:
			event = event.Uint64(f.Key, v)
		case uint32:
			event = event.Uint32(f.Key, v)
		case error:
			event = event.Err(v)
		case bool:
			event = event.Bool(f.Key, v)
		default:
			event = event.Interface(f.Key, v)
		}
	}
	return event
}

func (z *ZerologAdapter) Info(msg string, fields ...Field) {
	applyFields(z.logger.Info(), fields).Msg(msg)
}

func (z *ZerologAdapter) Error(msg string, err error, fields ...Field) {
	applyFields(z.logger.Error().Err(err), fields).Msg(msg)
}

func (z *ZerologAdapter) Debug(msg string, fields ...Field) {
	applyFields(z.logger.Debug(), fields).Msg(msg)
}

func (z *ZerologAdapter) Printf(format string, args ...any) {
	z.logger.Info().Msgf(format, args...)
}

func (z *ZerologAdapter) Println(args ...any) {
	z.logger.Info().Msg(strings.TrimSuffix(fmt.Sprintln(args...), "\n"))
}

// StdLoggerAdapter adapts a standard *log.Logger to the Logger interface.
type StdLoggerAdapter struct {
	logger *stdlog.Logger
}

// NewStdLoggerAdapter wraps a standard library logger.
func NewStdLoggerAdapter(logger *stdlog.Logger) *StdLoggerAdapter {
	return &StdLoggerAdapter{logger: logger}
}

func (s *StdLoggerAdapter) print(level, msg string, err error, fields []Field) {
	var b strings.Builder
	b.WriteString("[" + level + "] " + msg)
	if err != nil {
		b.WriteString(": " + err.Error())
	}
	for _, f := range fields {
		fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
	}
	s.logger.Println(b.String())
}

func (s *StdLoggerAdapter) Info(msg string, fields ...Field) { s.print("INFO", msg, nil, fields) }

func (s *StdLoggerAdapter) Error(msg string, err error, fields ...Field) {
	s.print("ERROR", msg, err, fields)
}

func (s *StdLoggerAdapter) Debug(msg string, fields ...Field) { s.print("DEBUG", msg, nil, fields) }

func (s *StdLoggerAdapter) Printf(format string, args ...any) { s.logger.Printf(format, args...) }

func (s *StdLoggerAdapter) Println(args ...any) { s.logger.Println(args...) }
