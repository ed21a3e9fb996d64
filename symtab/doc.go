// Package symtab ships the static symbol tables of the document-conversion
// service's convert API: dotted Class.MEMBER constants, case-insensitive
// aliases for boolean and none literals, and the legacy ALL_CAPS names of the
// retired call-style API mapped to their current dotted equivalents.
//
// The tables are versioned data, not runtime introspection. They are
// embedded as YAML next to this package and loaded once on first use.
//
// # Updating the tables
//
// When the target API changes, edit symbols.yaml (add or remove members
// under their class), bump its version field, and add any renamed constants
// to legacy.yaml mapping the retired name to its current dotted symbol (or
// null when the constant was removed without replacement). The package tests
// cross-check the two files, so a dangling legacy target fails loudly.
package symtab
