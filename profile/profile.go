// Package profile provides optional runtime profiling behind the "pprof"
// build tag. Without the tag every operation is a no-op with zero overhead;
// with it, [github.com/pkg/profile] writes the selected profile on exit.
package profile

// Tag is the build tag enabling profiling support.
const Tag = "pprof"

// Config returns the profiler parameters: the mode, the output directory,
// and whether to suppress the profiler's own logging.
type Config func() (mode, path string, quiet bool)

// Start initializes the profiler and returns a handle for stopping it. An
// empty mode, or a build without the pprof tag, yields a no-op handle. Both
// Start and Stop are always safe to call.
func (c Config) Start() interface{ Stop() } {
	mode, path, quiet := c()

	if mode == "" {
		return ignore{}
	}

	return start(mode, path, quiet)
}

// WithMode returns a functional option setting the profiler mode.
func WithMode(mode string) func(Config) Config {
	return func(c Config) Config {
		_, path, quiet := c()

		return func() (string, string, bool) {
			return mode, path, quiet
		}
	}
}

// WithPath returns a functional option setting the output directory.
func WithPath(path string) func(Config) Config {
	return func(c Config) Config {
		mode, _, quiet := c()

		return func() (string, string, bool) {
			return mode, path, quiet
		}
	}
}

// WithQuiet returns a functional option suppressing profiler logging.
func WithQuiet(quiet bool) func(Config) Config {
	return func(c Config) Config {
		mode, path, _ := c()

		return func() (string, string, bool) {
			return mode, path, quiet
		}
	}
}

type ignore struct{}

func (ignore) Stop() {}
