package cmd

import (
	"context"
	"fmt"

	"github.com/sahilm/fuzzy"

	"github.com/pressmark/parsecfg/legacy"
	"github.com/pressmark/parsecfg/symtab"
)

// Symbols lists the symbolic constants of the target API, optionally
// filtered by a fuzzy pattern.
type Symbols struct {
	Filter string `arg:"" optional:"" help:"Fuzzy filter for symbol names" name:"filter"`

	Legacy  bool `help:"List legacy constants with their replacements"`
	Methods bool `help:"List legacy method names"`
}

// Run executes the symbols command.
func (s *Symbols) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	tab := symtab.Default()

	switch {
	case s.Methods:
		for _, name := range filter(legacy.Names(), s.Filter) {
			fmt.Println(name)
		}

	case s.Legacy:
		for _, old := range filter(tab.LegacyNames(), s.Filter) {
			current, ok := tab.Translate(old)
			if !ok || current == "" {
				fmt.Printf("%s\t%s\n", old, dimStyle.Render("(removed)"))

				continue
			}

			fmt.Printf("%s\t%s\n", old, current)
		}

	default:
		fmt.Println(dimStyle.Render("symbols " + tab.Version()))

		for _, name := range filter(tab.Names(), s.Filter) {
			fmt.Println(name)
		}
	}

	return nil
}

// filter narrows names to fuzzy matches of pattern, best match first. An
// empty pattern keeps the list as is.
func filter(names []string, pattern string) []string {
	if pattern == "" {
		return names
	}

	matches := fuzzy.Find(pattern, names)

	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Str
	}

	return out
}
