package symtab

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"
	"github.com/sahilm/fuzzy"
)

//go:embed symbols.yaml
var symbolsYAML []byte

//go:embed legacy.yaml
var legacyYAML []byte

// Table is the read-only symbol table of the convert API: dotted
// Class.MEMBER constants, boolean/none aliases, and legacy-name
// translations. All lookups are safe for concurrent readers.
type Table struct {
	version string
	symbols map[string]any
	aliases map[string]any
	legacy  map[string]string
	removed map[string]bool
	names   []string // sorted symbol names, for suggestions
}

// symbolsFile mirrors the symbols.yaml layout.
type symbolsFile struct {
	Version string              `yaml:"version"`
	Classes map[string][]string `yaml:"classes"`
}

// legacyFile mirrors the legacy.yaml layout.
type legacyFile struct {
	Names map[string]*string `yaml:"names"`
}

// Load builds a table from YAML data in the shipped layout. Most callers
// want [Default] instead.
func Load(symbolData, legacyData []byte) (*Table, error) {
	var sf symbolsFile
	if err := yaml.Unmarshal(symbolData, &sf); err != nil {
		return nil, fmt.Errorf("symtab: parse symbols data: %w", err)
	}

	var lf legacyFile
	if err := yaml.Unmarshal(legacyData, &lf); err != nil {
		return nil, fmt.Errorf("symtab: parse legacy data: %w", err)
	}

	t := &Table{
		version: sf.Version,
		symbols: make(map[string]any),
		aliases: make(map[string]any),
		legacy:  make(map[string]string),
		removed: make(map[string]bool),
	}

	for class, members := range sf.Classes {
		for _, member := range members {
			// The member name is the wire value the service expects.
			t.symbols[class+"."+member] = member
		}
	}

	t.names = make([]string, 0, len(t.symbols))
	for name := range t.symbols {
		t.names = append(t.names, name)
	}

	slices.Sort(t.names)

	for alias, val := range map[string]any{
		"true": true, "on": true, "yes": true,
		"false": false, "off": false, "no": false,
		"none": nil, "null": nil, "nil": nil, "nothing": nil,
	} {
		t.aliases[alias] = val
	}

	for old, current := range lf.Names {
		if current == nil {
			t.removed[old] = true

			continue
		}

		if _, ok := t.symbols[*current]; !ok {
			return nil, fmt.Errorf(
				"symtab: legacy name %s maps to unknown symbol %s",
				old, *current,
			)
		}

		t.legacy[old] = *current
	}

	return t, nil
}

// Default returns the table built from the embedded data, loaded once. The
// embedded data is validated by the package tests; a corrupt build is a
// programming error and panics.
var Default = sync.OnceValue(func() *Table {
	t, err := Load(symbolsYAML, legacyYAML)
	if err != nil {
		panic(err)
	}

	return t
})

// Version returns the API version the table describes.
func (t *Table) Version() string { return t.version }

// Resolve looks up a dotted Class.MEMBER symbol verbatim.
func (t *Table) Resolve(name string) (any, bool) {
	val, ok := t.symbols[name]

	return val, ok
}

// Alias looks up a case-insensitive boolean or none alias such as "on",
// "no", or "Nothing".
func (t *Table) Alias(name string) (any, bool) {
	val, ok := t.aliases[strings.ToLower(name)]

	return val, ok
}

// Translate maps a legacy ALL_CAPS name to its current dotted symbol.
// Constants removed without replacement report ok with an empty current
// name; unknown names report !ok.
func (t *Table) Translate(old string) (current string, ok bool) {
	if t.removed[old] {
		return "", true
	}

	current, ok = t.legacy[old]

	return current, ok
}

// Names returns the sorted dotted symbol names. Callers must not modify the
// returned slice.
func (t *Table) Names() []string { return t.names }

// LegacyNames returns the sorted deprecated ALL_CAPS names, including those
// removed without replacement.
func (t *Table) LegacyNames() []string {
	names := make([]string, 0, len(t.legacy)+len(t.removed))
	for name := range t.legacy {
		names = append(names, name)
	}

	for name := range t.removed {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Suggest returns up to max known symbol names fuzzy-matching the given
// name, best matches first. It backs "did you mean" diagnostics.
func (t *Table) Suggest(name string, max int) []string {
	matches := fuzzy.Find(name, t.names)
	if len(matches) > max {
		matches = matches[:max]
	}

	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Str
	}

	return out
}
