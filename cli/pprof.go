//go:build pprof

package cli

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/pressmark/parsecfg/pkg"
	"github.com/pressmark/parsecfg/profile"
)

type pprofConfig struct {
	Mode string `default:""            enum:",${pprofModeEnum}" help:"Enable profiling"         placeholder:"${enum}" short:"p"`
	Dir  string `default:"${pprofDir}"                          help:"Profile output directory"                                 type:"path"`
}

func (pprofConfig) vars() kong.Vars {
	return kong.Vars{
		"pprofModeEnum": strings.Join(profile.Modes(), ","),
		"pprofDir":      filepath.Join(pkg.CacheDir(), profile.Tag),
	}
}

func (pprofConfig) group() kong.Group {
	var group kong.Group

	group.Key = "pprof"
	group.Title = "Profiling (pprof)"

	return group
}

// start starts profiling if configured.
func (f pprofConfig) start(logger *slog.Logger) (stop func()) {
	if f.Mode == "" {
		return func() {}
	}

	logger.Debug("pprof start",
		slog.String("mode", f.Mode),
		slog.String("dir", f.Dir),
	)

	// Create base config and apply options
	var config profile.Config = func() (string, string, bool) {
		return "", "", false
	}

	config = profile.WithMode(f.Mode)(config)
	config = profile.WithPath(f.Dir)(config)
	config = profile.WithQuiet(true)(config)
	profiler := config.Start()

	return func() {
		logger.Debug("pprof stop",
			slog.String("mode", f.Mode),
			slog.String("dir", f.Dir),
		)
		profiler.Stop()
	}
}
