package cli

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/pressmark/parsecfg/cfg"
)

// resolve is a [kong.ConfigurationLoader] that parses flag defaults files
// written in the same configuration syntax the tool processes.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve, "/path/to/defaults.cfg")
//
// The configuration tree is converted as follows:
//   - Nested map keys are joined with hyphens, so "log.level" in the file
//     applies to the --log-level flag
//   - Aliases like on and off become booleans
//   - Numbers are formatted as strings for kong's flag parsing
//   - Lists and other compound values are ignored
//
// Example defaults file:
//
//	log.level = "debug";
//	log.format = "json";
//	log.color = off;
//
// Command-line flags override defaults file values.
func resolve(r io.Reader) (kong.Resolver, error) {
	var unused []*cfg.Statement

	tree, err := cfg.ParseReader(context.Background(), r,
		cfg.WithLenientClosers(),
		cfg.WithUnused(&unused),
		cfg.WithLogger(slog.New(slog.DiscardHandler)),
	)
	if err != nil {
		// Parse error - return empty defaults
		return defaults{}, nil
	}

	flat := make(defaults)
	flatten(flat, nil, tree)

	return flat, nil
}

// defaults implements [kong.Resolver] for flag defaults files.
type defaults map[string]any

// Validate implements [kong.Resolver].
func (d defaults) Validate(*kong.Application) error {
	// No validation needed - the file was already parsed successfully
	return nil
}

// Resolve implements [kong.Resolver].
func (d defaults) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Kong flags use hyphens (e.g., "log-level") but defaults files may
	// use underscores in key names. Try both forms.
	if value, ok := d[flag.Name]; ok {
		return value, nil
	}

	underscoreName := strings.ReplaceAll(flag.Name, "-", "_")
	if value, ok := d[underscoreName]; ok {
		return value, nil
	}

	// Not found - return nil to let kong use defaults
	return nil, nil
}

// flatten walks a configuration tree and records its scalar leaves in flat,
// joining nested keys with hyphens to form flag names.
func flatten(flat defaults, path []string, tree cfg.Config) {
	for key, value := range tree {
		sub := append(append([]string{}, path...), key)
		name := strings.Join(sub, "-")

		switch v := value.(type) {
		case cfg.Config:
			flatten(flat, sub, v)
		case int64:
			// Kong requires numbers as strings for parsing
			flat[name] = strconv.FormatInt(v, 10)
		case float64:
			flat[name] = strconv.FormatFloat(v, 'f', -1, 64)
		case string, bool:
			flat[name] = v
		default:
			// Lists and other compound values have no flag form
		}
	}
}
