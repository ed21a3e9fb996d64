package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

const (
	ansiReset  = "\033[0m"
	ansiGray   = "\033[90m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
)

func levelColor(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return ansiRed
	case l >= slog.LevelWarn:
		return ansiYellow
	case l >= slog.LevelInfo:
		return ansiGreen
	default:
		return ansiCyan
	}
}

// colorHandler renders text-format records with ANSI colors: gray keys,
// level-colored severity, plain values.
type colorHandler struct {
	opts  slog.HandlerOptions
	mu    *sync.Mutex
	w     io.Writer
	attrs []slog.Attr
	group string
}

func newColorHandler(w io.Writer, opts *slog.HandlerOptions) *colorHandler {
	return &colorHandler{opts: *opts, mu: &sync.Mutex{}, w: w}
}

func (h *colorHandler) Enabled(_ context.Context, level slog.Level) bool {
	min := slog.LevelInfo
	if h.opts.Level != nil {
		min = h.opts.Level.Level()
	}

	return level >= min
}

func (h *colorHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	if !r.Time.IsZero() {
		h.writeAttr(buf, slog.Time(slog.TimeKey, r.Time))
	}

	fmt.Fprintf(buf, "%s%s%s ",
		levelColor(r.Level),
		h.replaced(slog.Any(slog.LevelKey, r.Level)).Value.String(),
		ansiReset,
	)

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			fmt.Fprintf(buf, "%s%s:%d%s ", ansiGray, src.File, src.Line, ansiReset)
		}
	}

	buf.WriteString(r.Message)

	for _, a := range h.attrs {
		h.writeAttr(buf, a)
	}

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(buf, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	dup := *h
	dup.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...)

	return &dup
}

func (h *colorHandler) WithGroup(name string) slog.Handler {
	dup := *h
	if dup.group != "" {
		name = dup.group + "." + name
	}

	dup.group = name

	return &dup
}

func (h *colorHandler) writeAttr(buf *bytes.Buffer, a slog.Attr) {
	a = h.replaced(a)
	if a.Equal(slog.Attr{}) {
		return
	}

	key := a.Key
	if h.group != "" {
		key = h.group + "." + key
	}

	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	fmt.Fprintf(buf, "%s%s=%s%v", ansiGray, key, ansiReset, a.Value)
}

func (h *colorHandler) replaced(a slog.Attr) slog.Attr {
	if h.opts.ReplaceAttr == nil {
		return a
	}

	return h.opts.ReplaceAttr(nil, a)
}
