package cfg

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/pressmark/parsecfg/symtab"
)

// Resolver turns a single token group into a concrete value: a symbol
// lookup, a boolean/none alias, a string literal, a numeric literal, or a
// custom per-path conversion.
type Resolver struct {
	symbols *symtab.Table
}

// NewResolver returns a resolver backed by the given symbol table. A nil
// table uses the shipped default.
func NewResolver(symbols *symtab.Table) *Resolver {
	if symbols == nil {
		symbols = symtab.Default()
	}

	return &Resolver{symbols: symbols}
}

// Symbols exposes the backing table for callers that share it, such as the
// legacy method adapter.
func (r *Resolver) Symbols() *symtab.Table { return r.symbols }

// Resolve resolves the group to a concrete value, optionally coerced through
// the supplied factory.
//
// Dotted names are looked up verbatim in the symbol table, then their
// lowercase form in the alias table (true/false/none); an unresolved name is
// an unknown-symbol error carrying fuzzy suggestions. Numbers pass their raw
// text to the factory if one is given, otherwise parse as float when the
// literal contains a dot and as integer otherwise. String literals unquote
// to their escaped contents, then pass through the factory. Any other group
// kind is a resolution error.
//
// Implicit multi-literal concatenation is not supported; adjacent literal
// groups are a surplus-token error at the assembler layer, not resolved
// here.
func (r *Resolver) Resolve(g *TokenGroup, fact *Factory) (any, error) {
	switch g.Kind {
	case KindName:
		if val, ok := r.symbols.Resolve(g.Text); ok {
			return val, nil
		}

		if val, ok := r.symbols.Alias(g.Text); ok {
			return val, nil
		}

		err := ErrUnknownSymbol.With(attrGroup(g))
		if hints := r.symbols.Suggest(g.Text, 3); len(hints) > 0 {
			err = err.With(
				slog.String("suggest", strings.Join(hints, ", ")),
			)
		}

		return nil, err

	case KindNumber:
		if fact != nil {
			return fact.coerce(g.Text)
		}

		if strings.Contains(g.Text, ".") {
			x, err := strconv.ParseFloat(g.Text, 64)
			if err != nil {
				return nil, ErrUnknownSymbol.Wrap(err).With(attrGroup(g))
			}

			return x, nil
		}

		n, err := strconv.ParseInt(g.Text, 10, 64)
		if err != nil {
			return nil, ErrUnknownSymbol.Wrap(err).With(attrGroup(g))
		}

		return n, nil

	case KindString:
		s, err := unquote(g.Text)
		if err != nil {
			return nil, ErrGrammar.Wrap(err).With(attrGroup(g))
		}

		if fact != nil {
			return fact.coerce(s)
		}

		return s, nil

	default:
		return nil, ErrUnknownSymbol.With(
			slog.String("detail", "don't know how to use this value"),
			attrGroup(g),
		)
	}
}

// unquote strips the surrounding quotes from a string literal and expands
// its backslash escapes. Both single and double quoted forms are accepted.
func unquote(text string) (string, error) {
	if len(text) < 2 {
		return "", ErrGrammar.With(
			slog.String("detail", "malformed string literal"),
			slog.String("text", text),
		)
	}

	body := text[1 : len(text)-1]

	var sb strings.Builder

	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			sb.WriteByte(c)

			continue
		}

		i++
		if i >= len(body) {
			return "", ErrGrammar.With(
				slog.String("detail", "dangling escape in string literal"),
				slog.String("text", text),
			)
		}

		switch body[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case '\\':
			sb.WriteByte('\\')
		case '\'', '"':
			sb.WriteByte(body[i])
		case '0':
			sb.WriteByte(0)
		default:
			// Unknown escapes keep the backslash, matching the
			// permissive literal handling of the source syntax.
			sb.WriteByte('\\')
			sb.WriteByte(body[i])
		}
	}

	return sb.String(), nil
}
