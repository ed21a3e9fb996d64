package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/expr-lang/expr"
	"github.com/goccy/go-yaml"

	"github.com/pressmark/parsecfg/cfg"
	"github.com/pressmark/parsecfg/legacy"
)

// Render parses a configuration source and prints the resulting
// configuration tree.
type Render struct {
	Source string `arg:"" default:"-" help:"Configuration source file or '-' for stdin" name:"source"`

	Format  string `default:"yaml" enum:"yaml,json" help:"Output format"                                      short:"o"`
	Query   string `               help:"Evaluate an expression against the parsed tree" placeholder:"EXPR"   short:"q"`
	Legacy  bool   `default:"true" help:"Translate legacy method calls"                                                 negatable:""`
	Strict  bool   `               help:"Reject surplus arguments to legacy methods"`
	Lenient bool   `               help:"Drop unmatched closing braces instead of failing"`
}

// Run executes the render command.
func (r *Render) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	logger := LoggerFrom(ctx)

	source, closeSource, err := openSource(r.Source)
	if err != nil {
		return err
	}
	defer closeSource()

	var unused []*cfg.Statement

	opts := []cfg.Option{
		cfg.WithUnused(&unused),
		cfg.WithLogger(logger),
	}

	if r.Legacy {
		legacyOpts := []legacy.Option{legacy.WithLogger(logger)}
		if r.Strict {
			legacyOpts = append(legacyOpts, legacy.WithStrictArity())
		}

		opts = append(opts, cfg.WithConvert(legacy.Hook(legacyOpts...)))
	}

	if r.Lenient {
		opts = append(opts, cfg.WithLenientClosers())
	}

	tree, err := cfg.ParseReader(ctx, bufio.NewReader(source), opts...)
	if err != nil {
		return cfg.WrapError(err).
			With(slog.String("command", "render"))
	}

	for _, stmt := range unused {
		logger.Warn("statement not handled",
			slog.String("statement", stmt.String()),
		)
	}

	var out any = tree

	if r.Query != "" {
		out, err = expr.Eval(r.Query, map[string]any(tree))
		if err != nil {
			return cfg.WrapError(err).
				With(
					slog.String("command", "render"),
					slog.String("query", r.Query),
				)
		}
	}

	return r.write(out)
}

// write marshals the rendered value to stdout in the selected format.
func (r *Render) write(out any) error {
	switch r.Format {
	case "json":
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return cfg.NewError("marshal JSON").Wrap(err)
		}

		fmt.Println(string(data))

	default:
		data, err := yaml.Marshal(out)
		if err != nil {
			return cfg.NewError("marshal YAML").Wrap(err)
		}

		os.Stdout.Write(data)
	}

	return nil
}
