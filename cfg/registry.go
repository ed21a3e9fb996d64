package cfg

import (
	"log/slog"
	"strconv"
	"strings"
)

// FactoryKind identifies the container or scalar constructor expected at a
// configuration path.
type FactoryKind int

const (
	FactoryBool FactoryKind = iota
	FactoryInt
	FactoryFloat
	FactoryString
	FactoryMap
	FactoryList
	FactoryTuple
	FactoryFunc
)

// String returns the factory-kind tag used in diagnostics.
func (k FactoryKind) String() string {
	switch k {
	case FactoryBool:
		return "bool"
	case FactoryInt:
		return "int"
	case FactoryFloat:
		return "float"
	case FactoryString:
		return "string"
	case FactoryMap:
		return "map"
	case FactoryList:
		return "list"
	case FactoryTuple:
		return "tuple"
	case FactoryFunc:
		return "func"
	default:
		return "unknown"
	}
}

// ConvertFunc coerces a resolved raw value into its final form.
type ConvertFunc func(val any) (any, error)

// Factory is the expected constructor for values at a configuration path:
// a scalar coercion, a container kind, or a user callable.
type Factory struct {
	kind FactoryKind
	name string
	fn   ConvertFunc
}

// Predefined factories for the built-in scalar and container kinds.
var (
	BoolFactory   = &Factory{kind: FactoryBool, name: "bool"}
	IntFactory    = &Factory{kind: FactoryInt, name: "int"}
	FloatFactory  = &Factory{kind: FactoryFloat, name: "float"}
	StringFactory = &Factory{kind: FactoryString, name: "string"}
	MapFactory    = &Factory{kind: FactoryMap, name: "map"}
	ListFactory   = &Factory{kind: FactoryList, name: "list"}
	TupleFactory  = &Factory{kind: FactoryTuple, name: "tuple"}
)

// NewFactory wraps a user callable as a factory. The name identifies the
// callable in diagnostics and for conflict detection: two NewFactory values
// with the same name are considered the same factory.
func NewFactory(name string, fn ConvertFunc) *Factory {
	return &Factory{kind: FactoryFunc, name: name, fn: fn}
}

// Kind returns the factory's constructor kind.
func (f *Factory) Kind() FactoryKind { return f.kind }

// String returns the factory's diagnostic name.
func (f *Factory) String() string { return f.name }

// same reports whether two factories are interchangeable for conflict
// detection.
func (f *Factory) same(other *Factory) bool {
	if f == other {
		return true
	}

	if f == nil || other == nil {
		return false
	}

	return f.kind == other.kind && f.name == other.name
}

// coerce applies the factory to a resolved scalar value. Numbers arrive as
// their raw literal text; strings arrive unquoted.
func (f *Factory) coerce(val any) (any, error) {
	switch f.kind {
	case FactoryBool:
		s, ok := val.(string)
		if !ok {
			return nil, ErrUnknownSymbol.With(
				slog.Any("value", val),
				slog.String("factory", f.name),
			)
		}

		b, err := strconv.ParseBool(strings.ToLower(s))
		if err != nil {
			return nil, ErrUnknownSymbol.Wrap(err).With(
				slog.String("value", s),
				slog.String("factory", f.name),
			)
		}

		return b, nil

	case FactoryInt:
		s, ok := val.(string)
		if !ok {
			return nil, ErrUnknownSymbol.With(
				slog.Any("value", val),
				slog.String("factory", f.name),
			)
		}

		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, ErrUnknownSymbol.Wrap(err).With(
				slog.String("value", s),
				slog.String("factory", f.name),
			)
		}

		return n, nil

	case FactoryFloat:
		s, ok := val.(string)
		if !ok {
			return nil, ErrUnknownSymbol.With(
				slog.Any("value", val),
				slog.String("factory", f.name),
			)
		}

		x, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, ErrUnknownSymbol.Wrap(err).With(
				slog.String("value", s),
				slog.String("factory", f.name),
			)
		}

		return x, nil

	case FactoryString:
		if s, ok := val.(string); ok {
			return s, nil
		}

		return nil, ErrUnknownSymbol.With(
			slog.Any("value", val),
			slog.String("factory", f.name),
		)

	case FactoryList:
		return []any{val}, nil

	case FactoryTuple:
		return Tuple{val}, nil

	case FactoryFunc:
		return f.fn(val)

	default:
		return nil, ErrTypeConflict.With(
			slog.String("factory", f.name),
			slog.String("detail", "container factory in scalar position"),
		)
	}
}

// build constructs the container value from collected sequence elements.
func (f *Factory) build(vals []any) any {
	if f.kind == FactoryTuple {
		return Tuple(vals)
	}

	return vals
}

// Resource builds the record form expected for stylesheet-like settings: a
// bare URI becomes a mapping with a single "uri" entry.
var Resource = NewFactory("Resource", func(val any) (any, error) {
	return Config{"uri": val}, nil
})

// Any is the wildcard path segment: a registry entry whose last segment is
// Any describes every element of the sequence at that path.
const Any = "*"

// Registry maps dotted key paths to the container or scalar factory expected
// there. It is partially pre-populated with known paths of the target API;
// new entries are registered the first time an ambiguous bracketed value is
// observed at a path, and must stay consistent for the rest of the parse.
//
// A Registry is an explicit object passed through the call chain, never a
// process-wide table. Single-writer access is assumed.
type Registry struct {
	entries map[string]*Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*Factory)}
}

// DefaultRegistry returns a registry pre-populated with the known paths of
// the target API.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	for _, e := range []struct {
		fact *Factory
		path []string
	}{
		{BoolFactory, []string{"disableLinks"}},
		{MapFactory, []string{"outputFormat"}},
		{StringFactory, []string{"outputFormat", "type"}},
		{IntFactory, []string{"outputFormat", "width"}},
		{IntFactory, []string{"outputFormat", "height"}},
		{ListFactory, []string{"integrationStyleSheets"}},
		{Resource, []string{"integrationStyleSheets", Any}},
		{ListFactory, []string{"userStyleSheets"}},
		{Resource, []string{"userStyleSheets", Any}},
	} {
		r.entries[pathKey(e.path)] = e.fact
	}

	return r
}

func pathKey(path []string) string {
	return strings.Join(path, ".")
}

// Lookup returns the factory registered for the exact path, or nil.
func (r *Registry) Lookup(path ...string) *Factory {
	return r.entries[pathKey(path)]
}

// Register records the factory expected at the path. Registering the same
// factory again is a no-op; a conflicting re-registration is a fatal
// type-conflict error.
func (r *Registry) Register(f *Factory, path ...string) error {
	key := pathKey(path)

	if old, ok := r.entries[key]; ok {
		if old.same(f) {
			return nil
		}

		return ErrTypeConflict.With(
			attrPath(path...),
			slog.String("registered", old.String()),
			slog.String("conflicting", f.String()),
		)
	}

	r.entries[key] = f

	return nil
}

// Snapshot returns the registry contents as path to factory-name pairs.
// Persisting learned factories across parses is the caller's concern; this
// is the export half of that step.
func (r *Registry) Snapshot() map[string]string {
	out := make(map[string]string, len(r.entries))
	for k, f := range r.entries {
		out[k] = f.String()
	}

	return out
}
