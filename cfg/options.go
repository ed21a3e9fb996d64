package cfg

import (
	"io"
	"log/slog"

	"github.com/pressmark/parsecfg/symtab"
)

// Option configures a single [Parse] call.
type Option func(*options)

type options struct {
	text     string
	haveText bool
	file     string
	reader   io.Reader

	root       any
	haveConfig bool
	control    Control
	unused     *[]*Statement
	convert    Hook
	haveHook   bool

	registry *Registry
	symbols  *symtab.Table
	lenient  bool
	logger   *slog.Logger
}

// WithText parses the given source text.
func WithText(text string) Option {
	return func(o *options) { o.text, o.haveText = text, true }
}

// WithFile parses the named file. Mutually exclusive with [WithText] and
// [WithReader].
func WithFile(path string) Option {
	return func(o *options) { o.file = path }
}

// WithReader parses text drained from r. Mutually exclusive with [WithText]
// and [WithFile]. The reader is drained before parsing begins; closing it
// stays with the caller.
func WithReader(r io.Reader) Option {
	return func(o *options) { o.reader = r }
}

// WithConfig supplies the tree to populate in place. The root must be a
// mapping; a sequence-rooted tree is recognized but unsupported and fails
// the call immediately. Without this option a fresh tree is allocated and
// returned.
func WithConfig(root any) Option {
	return func(o *options) { o.root, o.haveConfig = root, true }
}

// WithControl supplies the side-channel tree handed to convert hooks.
func WithControl(control Control) Option {
	return func(o *options) { o.control = control }
}

// WithUnused supplies a collector for statements no stage recognized.
// Supplying it disables the default behavior of failing the parse when
// unrecognized statements remain.
func WithUnused(collector *[]*Statement) Option {
	return func(o *options) { o.unused = collector }
}

// WithConvert installs a hook tried on every statement before the built-in
// handling. The hook may claim non-assignment control commands by mutating
// config or control directly and reporting handled. [legacy.Adapter] from
// this module's legacy package is the usual hook.
func WithConvert(hook Hook) Option {
	return func(o *options) { o.convert, o.haveHook = hook, true }
}

// WithRegistry supplies the factory registry for the parse, replacing
// [DefaultRegistry]. The registry accumulates learned container factories;
// passing the same registry to later parses carries them over.
func WithRegistry(reg *Registry) Option {
	return func(o *options) { o.registry = reg }
}

// WithSymbols replaces the default symbol table.
func WithSymbols(tab *symtab.Table) Option {
	return func(o *options) { o.symbols = tab }
}

// WithLenientClosers drops statements consisting only of leftover closing
// braces instead of rejecting them as grammar errors.
func WithLenientClosers() Option {
	return func(o *options) { o.lenient = true }
}

// WithLogger routes the parse's diagnostics to the given logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// validate checks mutual exclusivity and value types of the option bundle
// and fills in defaults. Every violation is an argument error so callers can
// distinguish bad calls from bad input text.
func (o *options) validate() (Config, error) {
	sources := 0
	if o.haveText {
		sources++
	}

	if o.file != "" {
		sources++
	}

	if o.reader != nil {
		sources++
	}

	switch {
	case sources == 0:
		return nil, ErrArgument.With(
			slog.String("detail", "one of text, file, or reader is required"),
		)
	case sources > 1:
		return nil, ErrArgument.With(
			slog.String("detail", "text, file, and reader are mutually exclusive"),
		)
	}

	if o.haveHook && o.convert == nil {
		return nil, ErrArgument.With(
			slog.String("detail", "convert hook must not be nil"),
		)
	}

	var config Config

	switch root := o.root.(type) {
	case nil:
		if o.haveConfig {
			return nil, ErrArgument.With(
				slog.String("detail", "config tree must not be nil"),
			)
		}

		config = Config{}
	case Config:
		// A typed nil map would pass validation and panic on first store.
		if root == nil {
			return nil, ErrArgument.With(
				slog.String("detail", "config tree must not be nil"),
			)
		}

		config = root
	case []any, Tuple:
		return nil, ErrListStyle.With(
			slog.String("detail", "sequence-rooted configuration trees are not supported"),
		)
	default:
		return nil, ErrArgument.With(
			slog.String("detail", "config tree must be a mapping"),
			slog.Any("got", o.root),
		)
	}

	if o.control == nil {
		o.control = Control{}
	}

	if o.registry == nil {
		o.registry = DefaultRegistry()
	}

	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}

	return config, nil
}
