//go:build !pprof

package cli

import (
	"log/slog"

	"github.com/alecthomas/kong"
)

// pprofConfig is empty when built without the pprof tag.
type pprofConfig struct{}

func (pprofConfig) vars() kong.Vars { return kong.Vars{} }

func (pprofConfig) group() kong.Group { return kong.Group{} }

// start is a no-op when built without the pprof tag.
func (pprofConfig) start(*slog.Logger) (stop func()) { return func() {} }
