// Package log builds the [log/slog] loggers used across the module: a
// trace level below debug, text and json output, and an optional colorized
// handler for terminals. Configuration happens once at construction through
// functional options; the resulting *slog.Logger is plain slog from there.
package log

import (
	"io"
	"iter"
	"log/slog"
	"strings"
	"time"
)

// Level is the severity of a log message. It extends the slog levels with
// trace, one step below debug.
type Level slog.Level

const (
	LevelTrace Level = Level(slog.LevelDebug) - 4
	LevelDebug Level = Level(slog.LevelDebug)
	LevelInfo  Level = Level(slog.LevelInfo)
	LevelWarn  Level = Level(slog.LevelWarn)
	LevelError Level = Level(slog.LevelError)
)

// DefaultLevel is the level used when none is configured.
const DefaultLevel = LevelInfo

// String returns the lowercase level name.
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return slog.Level(l).String()
	}
}

// Levels iterates over the defined level names, most verbose first.
func Levels() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, l := range []Level{
			LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError,
		} {
			if !yield(l.String()) {
				return
			}
		}
	}
}

// ParseLevel parses a level name. Unrecognized names fall back to
// [DefaultLevel]; "trace" is handled here since slog does not know it.
func ParseLevel(s string) Level {
	if strings.EqualFold(strings.TrimSpace(s), "trace") {
		return LevelTrace
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return DefaultLevel
	}

	return Level(l)
}

// Format is the log output format.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// DefaultFormat is the format used when none is configured.
const DefaultFormat = FormatText

// String returns the format name.
func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}

	return "text"
}

// Formats iterates over the defined format names.
func Formats() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, f := range []Format{FormatText, FormatJSON} {
			if !yield(f.String()) {
				return
			}
		}
	}
}

// ParseFormat parses a format name, defaulting to [DefaultFormat].
func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), "json") {
		return FormatJSON
	}

	return DefaultFormat
}

type config struct {
	level      Level
	format     Format
	timeLayout string
	caller     bool
	color      bool
}

// Option configures a logger at construction.
type Option func(*config)

// WithLevel sets the minimum level; messages below it are discarded.
func WithLevel(level Level) Option {
	return func(c *config) { c.level = level }
}

// WithFormat selects text or json output.
func WithFormat(format Format) Option {
	return func(c *config) { c.format = format }
}

// namedLayouts maps layout names accepted by [WithTimeLayout] to their
// [time] package constants.
var namedLayouts = map[string]string{
	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
	"kitchen":     time.Kitchen,
	"stamp":       time.Stamp,
	"stampmilli":  time.StampMilli,
	"stampmicro":  time.StampMicro,
	"stampnano":   time.StampNano,
	"unixdate":    time.UnixDate,
	"none":        "",
}

// WithTimeLayout sets the timestamp layout: a named layout from the [time]
// package such as "RFC3339" or "StampMilli", or a custom layout string used
// verbatim. An empty layout (or "none") disables timestamps entirely, which
// keeps test output stable.
func WithTimeLayout(layout string) Option {
	return func(c *config) {
		if std, ok := namedLayouts[strings.ToLower(strings.TrimSpace(layout))]; ok {
			layout = std
		}

		c.timeLayout = layout
	}
}

// WithCaller includes the calling source location in each message.
func WithCaller(enable bool) Option {
	return func(c *config) { c.caller = enable }
}

// WithColor enables the colorized terminal handler. It applies to text
// format only.
func WithColor(enable bool) Option {
	return func(c *config) { c.color = enable }
}

// New builds a logger writing to w. A nil writer discards everything.
func New(w io.Writer, opts ...Option) *slog.Logger {
	if w == nil {
		return slog.New(slog.DiscardHandler)
	}

	cfg := config{
		level:      DefaultLevel,
		format:     DefaultFormat,
		timeLayout: time.RFC3339,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	hopts := &slog.HandlerOptions{
		AddSource: cfg.caller,
		Level:     slog.Level(cfg.level),
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			switch a.Key {
			case slog.TimeKey:
				if t, ok := a.Value.Any().(time.Time); ok {
					if cfg.timeLayout == "" {
						return slog.Attr{}
					}

					a.Value = slog.StringValue(t.Format(cfg.timeLayout))
				}
			case slog.LevelKey:
				// Render "TRACE" instead of slog's "DEBUG-4".
				if l, ok := a.Value.Any().(slog.Level); ok {
					a.Value = slog.StringValue(strings.ToUpper(Level(l).String()))
				}
			}

			return a
		},
	}

	if cfg.format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, hopts))
	}

	if cfg.color {
		return slog.New(newColorHandler(w, hopts))
	}

	return slog.New(slog.NewTextHandler(w, hopts))
}
