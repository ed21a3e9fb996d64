package cfg

import (
	"log/slog"
)

// Assembler applies assignment statements to a configuration tree. It owns
// the path registry consulted (and extended) while doing so; one Assembler
// serves one parse.
type Assembler struct {
	registry *Registry
	resolver *Resolver
	logger   *slog.Logger
}

// NewAssembler builds an assembler over the given registry and resolver.
// A nil registry gets [DefaultRegistry], a nil resolver the default symbol
// table, and a nil logger discards records.
func NewAssembler(reg *Registry, res *Resolver, logger *slog.Logger) *Assembler {
	if reg == nil {
		reg = DefaultRegistry()
	}

	if res == nil {
		res = NewResolver(nil)
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Assembler{registry: reg, resolver: res, logger: logger}
}

// Registry returns the assembler's path registry, including any factories
// learned during the parse.
func (a *Assembler) Registry() *Registry { return a.registry }

// ApplySequence is the counterpart of [Assembler.Apply] for a
// sequence-rooted configuration tree. The variant is recognized but not
// supported; every call fails with [ErrListStyle].
func (a *Assembler) ApplySequence(stmt *Statement, config []any) error {
	return ErrListStyle.With(
		slog.String("detail", "sequence-rooted configuration trees are not supported"),
		attrStatement(stmt),
	)
}

// Apply stores the assignment described by stmt into config. The statement
// must classify as an assignment; the right-hand side is either a single
// scalar group or a bracketed container body.
func (a *Assembler) Apply(stmt *Statement, config Config) error {
	key, subkey, err := stmt.TargetPath()
	if err != nil {
		return err
	}

	groups := stmt.Groups()
	if len(groups) < 3 {
		return ErrGrammar.With(
			slog.String("detail", "assignment without a value"),
			attrStatement(stmt),
		)
	}

	val, rest := groups[2], groups[3:]

	if val.OpensBrace() {
		return a.applyContainer(stmt, config, key, subkey, val, rest)
	}

	return a.applyScalar(stmt, config, key, subkey, val, rest)
}

func (a *Assembler) applyScalar(
	stmt *Statement,
	config Config,
	key, subkey string,
	val *TokenGroup,
	rest []*TokenGroup,
) error {
	if len(rest) > 0 {
		return ErrGrammar.With(
			slog.String("detail", "surplus tokens after value"),
			attrGroup(rest[0]),
			attrStatement(stmt),
		)
	}

	path := []string{key}
	if subkey != "" {
		path = append(path, subkey)

		// A dotted destination implies a mapping at the key.
		if err := a.registry.Register(MapFactory, key); err != nil {
			return err
		}
	}

	fact := a.registry.Lookup(path...)
	if fact != nil && fact.Kind() == FactoryMap {
		return ErrDestination.With(
			slog.String("detail", "destination holds a mapping"),
			attrPath(path...),
			attrStatement(stmt),
		)
	}

	v, err := a.resolver.Resolve(val, fact)
	if err != nil {
		return err
	}

	a.logger.Debug("assign scalar", attrPath(path...), slog.Any("value", v))

	return a.store(config, key, subkey, v, stmt)
}

func (a *Assembler) applyContainer(
	stmt *Statement,
	config Config,
	key, subkey string,
	opener *TokenGroup,
	body []*TokenGroup,
) error {
	if opener.Text == "{" {
		if subkey != "" {
			return ErrDestination.With(
				slog.String("detail", "mapping value below a dotted destination"),
				attrPath(key, subkey),
				attrStatement(stmt),
			)
		}

		if err := a.registry.Register(MapFactory, key); err != nil {
			return err
		}

		return a.applyMapping(stmt, config, key, body)
	}

	path := []string{key}
	if subkey != "" {
		path = append(path, subkey)

		if err := a.registry.Register(MapFactory, key); err != nil {
			return err
		}
	}

	want := TupleFactory
	if opener.Text == "[" {
		want = ListFactory
	}

	// Parentheses and brackets are interchangeable for a registered
	// sequence path; the registered factory decides the built type.
	fact := a.registry.Lookup(path...)

	switch {
	case fact == nil:
		fact = want
		if err := a.registry.Register(fact, path...); err != nil {
			return err
		}
	case fact.Kind() != FactoryList && fact.Kind() != FactoryTuple:
		return ErrTypeConflict.With(
			attrPath(path...),
			slog.String("registered", fact.String()),
			slog.String("conflicting", want.String()),
			attrStatement(stmt),
		)
	}

	elemPath := append(append([]string{}, path...), Any)
	elem := a.registry.Lookup(elemPath...)

	vals, err := a.sequenceBody(stmt, body, opener.ExpectedCloser(), elem)
	if err != nil {
		return err
	}

	a.logger.Debug("assign sequence",
		attrPath(path...),
		slog.String("factory", fact.String()),
		slog.Int("elements", len(vals)),
	)

	return a.store(config, key, subkey, fact.build(vals), stmt)
}

// applyMapping consumes a brace-delimited body of name, colon, value
// entries and merges them into the mapping at key. Entry values are scalars
// resolved with the factory registered below the key, if any.
func (a *Assembler) applyMapping(
	stmt *Statement,
	config Config,
	key string,
	body []*TokenGroup,
) error {
	entries := Config{}
	i := 0

	for {
		if i >= len(body) {
			return ErrGrammar.With(
				slog.String("detail", "unterminated mapping"),
				attrStatement(stmt),
			)
		}

		g := body[i]
		if g.IsOp("}") {
			i++

			break
		}

		if g.Kind != KindName {
			return ErrGrammar.With(
				slog.String("detail", "entry name expected"),
				attrGroup(g),
				attrStatement(stmt),
			)
		}

		name := g.DottedName()
		i++

		if i >= len(body) || !body[i].IsOp(":") {
			return ErrGrammar.With(
				slog.String("detail", "':' expected behind entry name"),
				attrGroup(body[min(i, len(body)-1)]),
				attrStatement(stmt),
			)
		}

		i++

		if i >= len(body) || body[i].Kind == KindOp {
			return ErrGrammar.With(
				slog.String("detail", "entry value expected"),
				attrStatement(stmt),
			)
		}

		v, err := a.resolver.Resolve(body[i], a.registry.Lookup(key, name))
		if err != nil {
			return err
		}

		entries[name] = v
		i++

		if i >= len(body) {
			return ErrGrammar.With(
				slog.String("detail", "unterminated mapping"),
				attrStatement(stmt),
			)
		}

		switch {
		case body[i].IsOp(","):
			i++
		case body[i].IsOp("}"):
			i++

			goto done
		default:
			return ErrGrammar.With(
				slog.String("detail", "comma or '}' expected"),
				attrGroup(body[i]),
				attrStatement(stmt),
			)
		}
	}

done:
	if i < len(body) {
		return ErrGrammar.With(
			slog.String("detail", "surplus tokens after mapping"),
			attrGroup(body[i]),
			attrStatement(stmt),
		)
	}

	a.logger.Debug("assign mapping",
		attrPath(key),
		slog.Int("entries", len(entries)),
	)

	existing, ok := config[key]
	if !ok {
		config[key] = entries

		return nil
	}

	m, isMap := existing.(Config)
	if !isMap {
		return ErrTypeConflict.With(
			attrPath(key),
			slog.String("detail", "existing value is not a mapping"),
			attrStatement(stmt),
		)
	}

	for name, v := range entries {
		m[name] = v
	}

	return nil
}

// sequenceBody consumes the comma-separated scalar values up to the closing
// brace. Empty sequences and trailing commas are accepted.
func (a *Assembler) sequenceBody(
	stmt *Statement,
	body []*TokenGroup,
	closer string,
	elem *Factory,
) ([]any, error) {
	vals := []any{}
	wantSep := false
	i := 0

	for {
		if i >= len(body) {
			return nil, ErrGrammar.With(
				slog.String("detail", "unterminated sequence"),
				attrStatement(stmt),
			)
		}

		g := body[i]
		if g.IsOp(closer) {
			i++

			break
		}

		if wantSep {
			if !g.IsOp(",") {
				return nil, ErrGrammar.With(
					slog.String("detail", "comma or '"+closer+"' expected"),
					attrGroup(g),
					attrStatement(stmt),
				)
			}

			wantSep = false
			i++

			continue
		}

		if g.Kind == KindOp {
			return nil, ErrGrammar.With(
				slog.String("detail", "sequence value expected"),
				attrGroup(g),
				attrStatement(stmt),
			)
		}

		v, err := a.resolver.Resolve(g, elem)
		if err != nil {
			return nil, err
		}

		vals = append(vals, v)
		wantSep = true
		i++
	}

	if i < len(body) {
		return nil, ErrGrammar.With(
			slog.String("detail", "surplus tokens after sequence"),
			attrGroup(body[i]),
			attrStatement(stmt),
		)
	}

	return vals, nil
}

// store writes v at key, or at subkey below the mapping at key. The
// intermediate mapping is created on demand; an existing non-mapping value
// there is a type conflict.
func (a *Assembler) store(
	config Config,
	key, subkey string,
	v any,
	stmt *Statement,
) error {
	if subkey == "" {
		config[key] = v

		return nil
	}

	existing, ok := config[key]
	if !ok {
		config[key] = Config{subkey: v}

		return nil
	}

	m, isMap := existing.(Config)
	if !isMap {
		return ErrTypeConflict.With(
			attrPath(key),
			slog.String("detail", "existing value is not a mapping"),
			attrStatement(stmt),
		)
	}

	m[subkey] = v

	return nil
}
