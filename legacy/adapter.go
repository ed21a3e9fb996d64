// Package legacy translates deprecated method-call statements of the old
// conversion API into assignments on the current configuration tree. It is
// installed on a parse as a convert hook:
//
//	cfg.Parse(ctx, cfg.WithText(src), cfg.WithConvert(legacy.Hook()))
//
// The method-signature table is intentionally incomplete: unknown methods
// fall through as unhandled so callers can layer their own handling behind
// this one.
package legacy

import (
	"log/slog"
	"slices"

	"github.com/pressmark/parsecfg/cfg"
	"github.com/pressmark/parsecfg/symtab"
)

// argSpec describes where one positional argument lands.
type argSpec struct {
	key     string
	subkey  string
	convert cfg.ConvertFunc
}

// methodSpec describes one deprecated method. Exactly one of fixed, args,
// or model applies: a no-argument method storing a fixed value, a run of
// positional destinations, or a record model appended to the list at key.
type methodSpec struct {
	noArgs bool
	key    string
	subkey string
	value  any

	args  []argSpec
	model []argSpec
}

func negate(val any) (any, error) {
	b, ok := val.(bool)
	if !ok {
		return nil, cfg.ErrUnknownSymbol.With(
			slog.Any("value", val),
			slog.String("detail", "boolean expected"),
		)
	}

	return !b, nil
}

// methods is the signature table of the deprecated API. The old
// setOutputFormat call writes below "outputType", not "outputFormat"; that
// is the historical destination and kept as such.
var methods = map[string]methodSpec{
	"enableDebugMode": {
		noArgs: true,
		key:    "debugSettings",
		subkey: "appendLogs",
		value:  true,
	},
	"setOutputFormat": {args: []argSpec{
		{key: "outputType", subkey: "type"},
		{key: "outputType", subkey: "width"},
		{key: "outputType", subkey: "height"},
	}},
	"setCleanupTool":    {args: []argSpec{{key: "cleanupTool"}}},
	"setEncoding":       {args: []argSpec{{key: "encoding"}}},
	"setJavaScriptMode": {args: []argSpec{{key: "javaScriptMode"}}},
	"setAddBookmarks":   {args: []argSpec{{key: "addBookmarks"}}},
	"setAddLinks":       {args: []argSpec{{key: "disableLinks", convert: negate}}},
	"setAppendLog":      {args: []argSpec{{key: "debugSettings", subkey: "appendLogs"}}},
	"setDocumentType":   {args: []argSpec{{key: "documentType"}}},
	"setLicenseKey":     {args: []argSpec{{key: "licenseKey"}}},
	"setLogLevel":       {args: []argSpec{{key: "logLevel"}}},
	"addUserScript": {key: "userScripts", model: []argSpec{
		{subkey: "content"},
		{subkey: "uri"},
		{subkey: "beforeDocumentScripts"},
	}},
}

// Names returns the sorted method names the adapter recognizes.
func Names() []string {
	names := make([]string, 0, len(methods))
	for name := range methods {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Adapter rewrites recognized method calls as configuration assignments.
type Adapter struct {
	symbols     *symtab.Table
	resolver    *cfg.Resolver
	strictArity bool
	logger      *slog.Logger
}

// Option configures an [Adapter].
type Option func(*Adapter)

// WithSymbols replaces the default symbol table.
func WithSymbols(tab *symtab.Table) Option {
	return func(a *Adapter) { a.symbols = tab }
}

// WithStrictArity turns surplus arguments to a positional method into
// grammar errors. The historical behavior, and the default, leaves such
// calls unhandled so unknown newer signatures degrade gracefully; only
// arguments to a declared no-argument method are always an error.
func WithStrictArity() Option {
	return func(a *Adapter) { a.strictArity = true }
}

// WithLogger routes the adapter's diagnostics to the given logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Adapter) { a.logger = logger }
}

// NewAdapter builds an adapter over the default tables.
func NewAdapter(opts ...Option) *Adapter {
	a := &Adapter{}
	for _, opt := range opts {
		opt(a)
	}

	if a.symbols == nil {
		a.symbols = symtab.Default()
	}

	if a.resolver == nil {
		a.resolver = cfg.NewResolver(a.symbols)
	}

	if a.logger == nil {
		a.logger = slog.New(slog.DiscardHandler)
	}

	return a
}

// Hook returns a fresh adapter's Convert method, typed for
// [cfg.WithConvert].
func Hook(opts ...Option) cfg.Hook {
	return NewAdapter(opts...).Convert
}

// Convert implements [cfg.Hook]. It reports handled for recognized method
// calls after writing their translation into config; everything else falls
// through unhandled.
func (a *Adapter) Convert(
	stmt *cfg.Statement,
	config cfg.Config,
	control cfg.Control,
) (bool, error) {
	if !stmt.IsMethodCall() {
		return false, nil
	}

	name := stmt.CallName()

	spec, ok := methods[name]
	if !ok {
		return false, nil
	}

	args, err := stmt.CallArgs()
	if err != nil {
		return false, err
	}

	if spec.noArgs {
		if len(args) > 0 {
			e := cfg.ErrGrammar.With(
				slog.String("method", name),
				slog.String("detail", "method accepts no arguments"),
				slog.String("argument", args[0].String()),
			)

			if n := len(args) - 1; n > 0 {
				e = e.With(slog.Int("more", n))
			}

			return false, e
		}

		a.logger.Debug("translate legacy call", slog.String("method", name))

		return true, a.storeAt(config, spec.key, spec.subkey, spec.value)
	}

	specs := spec.args
	if spec.model != nil {
		specs = spec.model
	}

	if len(args) > len(specs) {
		if a.strictArity {
			return false, cfg.ErrGrammar.With(
				slog.String("method", name),
				slog.Int("arguments", len(args)),
				slog.Int("expected", len(specs)),
			)
		}

		a.logger.Debug("too many arguments, leaving call unhandled",
			slog.String("method", name),
			slog.Int("arguments", len(args)),
			slog.Int("expected", len(specs)),
		)

		return false, nil
	}

	if spec.model != nil {
		return a.appendRecord(config, name, spec, args)
	}

	for i, g := range args {
		val, err := a.resolveArg(g, specs[i].convert)
		if err != nil {
			return false, err
		}

		if err := a.storeAt(config, specs[i].key, specs[i].subkey, val); err != nil {
			return false, err
		}
	}

	a.logger.Debug("translate legacy call",
		slog.String("method", name),
		slog.Int("arguments", len(args)),
	)

	return true, nil
}

// appendRecord handles list-building methods: the positional arguments are
// collected into one record by the model's field names, and the record is
// appended to the list at the method's key.
func (a *Adapter) appendRecord(
	config cfg.Config,
	name string,
	spec methodSpec,
	args []*cfg.TokenGroup,
) (bool, error) {
	var record cfg.Config

	for i, g := range args {
		val, err := a.resolveArg(g, spec.model[i].convert)
		if err != nil {
			return false, err
		}

		if record == nil {
			record = cfg.Config{}
		}

		record[spec.model[i].subkey] = val
	}

	existing, ok := config[spec.key]
	if !ok {
		config[spec.key] = []any{record}

		return true, nil
	}

	list, isList := existing.([]any)
	if !isList {
		return false, cfg.ErrTypeConflict.With(
			slog.String("method", name),
			slog.String("key", spec.key),
			slog.String("detail", "existing value is not a list"),
		)
	}

	config[spec.key] = append(list, record)

	return true, nil
}

// resolveArg resolves one argument group. Identifier arguments are first
// checked against the legacy-name table so the old ALL_CAPS constants keep
// working, then against the current symbols; everything else goes through
// the generic resolver.
func (a *Adapter) resolveArg(g *cfg.TokenGroup, convert cfg.ConvertFunc) (any, error) {
	val, err := a.resolveRaw(g)
	if err != nil {
		return nil, err
	}

	if convert != nil {
		return convert(val)
	}

	return val, nil
}

func (a *Adapter) resolveRaw(g *cfg.TokenGroup) (any, error) {
	if g.Kind == cfg.KindName {
		name := g.DottedName()

		if current, ok := a.symbols.Translate(name); ok {
			if current == "" {
				return nil, cfg.ErrUnknownSymbol.With(
					slog.String("symbol", name),
					slog.String("detail", "constant was removed without replacement"),
				)
			}

			if val, ok := a.symbols.Resolve(current); ok {
				return val, nil
			}

			return nil, cfg.ErrUnknownSymbol.With(
				slog.String("symbol", current),
				slog.String("legacy", name),
			)
		}

		if val, ok := a.symbols.Resolve(name); ok {
			return val, nil
		}
	}

	return a.resolver.Resolve(g, nil)
}

// storeAt writes val at key, or at subkey below the mapping at key,
// creating the mapping on demand.
func (a *Adapter) storeAt(config cfg.Config, key, subkey string, val any) error {
	if subkey == "" {
		config[key] = val

		return nil
	}

	existing, ok := config[key]
	if !ok {
		config[key] = cfg.Config{subkey: val}

		return nil
	}

	m, isMap := existing.(cfg.Config)
	if !isMap {
		return cfg.ErrTypeConflict.With(
			slog.String("key", key),
			slog.String("detail", "existing value is not a mapping"),
		)
	}

	m[subkey] = val

	return nil
}
