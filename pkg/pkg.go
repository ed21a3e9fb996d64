//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

// Version is the semantic version of the module embedded at build time. The
// CLI prints it for the version flag.
//
//go:embed VERSION
var version string

// Version returns the embedded module version.
func Version() string { return strings.TrimSpace(version) }

const (
	// Name is the canonical command and module identifier. It appears in
	// help text and default cache paths.
	Name = "parsecfg"

	// Description is a short, human-readable summary of the project used
	// in help output.
	Description = "Configuration DSL front end for document-conversion settings"
)
