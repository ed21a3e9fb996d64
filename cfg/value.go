package cfg

// Config is the mapping-rooted configuration tree produced by a parse.
// Values are nested Config maps, []any sequences, [Tuple] fixed tuples, or
// scalars (bool, int64, float64, string, nil).
type Config = map[string]any

// Control is the side-channel tree for caller-interpreted control commands.
type Control = map[string]any

// Tuple is a fixed tuple of values. It is a distinct type so that tuple
// versus sequence container kinds survive in the configuration tree.
type Tuple []any

// Hook is a custom conversion function tried first for each statement. It
// may handle control commands that are not assignments by mutating config or
// control directly. Returning true marks the statement as dealt with;
// returning false falls through to generic statement handling.
type Hook func(stmt *Statement, config Config, control Control) (bool, error)

// DefaultConfigText is the configuration text shipped as the default for
// integrations that want a starting point matching the service defaults.
const DefaultConfigText = "disableLinks = false\n"
