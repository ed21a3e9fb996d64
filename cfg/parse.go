package cfg

import (
	"context"
	"io"
	"log/slog"
)

// Parse interprets one DSL source into a configuration tree.
//
// The source comes from exactly one of [WithText], [WithFile], or
// [WithReader]. Statements are handed to the convert hook first when one is
// installed; unclaimed assignments go to the assembler, and anything else is
// collected as unused. Without [WithUnused], leftover unused statements fail
// the whole parse once the stream is exhausted, naming the first occurrence.
//
// The returned tree is the one supplied via [WithConfig], mutated in place,
// or a fresh one. No reference to the caller's trees is retained past the
// return.
func Parse(ctx context.Context, opts ...Option) (Config, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	config, err := o.validate()
	if err != nil {
		return nil, err
	}

	src, err := o.source()
	if err != nil {
		return nil, err
	}

	asm := NewAssembler(o.registry, NewResolver(o.symbols), o.logger)

	var leftovers []*Statement

	collector := o.unused
	auto := collector == nil

	if auto {
		collector = &leftovers
	}

	for stmt, err := range src.Statements(o.lenient) {
		if err != nil {
			return nil, err
		}

		if err := ctx.Err(); err != nil {
			return nil, WrapError(err)
		}

		if o.convert != nil {
			handled, err := o.convert(stmt, config, o.control)
			if err != nil {
				return nil, err
			}

			if handled {
				continue
			}
		}

		if !stmt.IsAssignment() {
			o.logger.Debug("unused statement",
				slog.String("statement", stmt.String()),
			)

			*collector = append(*collector, stmt)

			continue
		}

		if err := asm.Apply(stmt, config); err != nil {
			return nil, err
		}
	}

	if auto && len(leftovers) > 0 {
		e := ErrUnsupported.With(
			slog.String("statement", leftovers[0].String()),
		)

		if n := len(leftovers) - 1; n > 0 {
			e = e.With(slog.Int("more", n))
		}

		return nil, e
	}

	return config, nil
}

// source resolves the validated input options to a [Source]. validate has
// already guaranteed exactly one input was given.
func (o *options) source() (*Source, error) {
	switch {
	case o.haveText:
		return NewSource(o.text), nil
	case o.file != "":
		return SourceFromFile(o.file)
	default:
		return SourceFromReader(o.reader)
	}
}

// ParseString parses text with the given options.
func ParseString(ctx context.Context, text string, opts ...Option) (Config, error) {
	return Parse(ctx, append(opts, WithText(text))...)
}

// ParseReader parses text drained from r with the given options.
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (Config, error) {
	return Parse(ctx, append(opts, WithReader(r))...)
}

// ParseFile parses the named file with the given options.
func ParseFile(ctx context.Context, path string, opts ...Option) (Config, error) {
	return Parse(ctx, append(opts, WithFile(path))...)
}
