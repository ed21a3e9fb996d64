package cli

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/pressmark/parsecfg/log"
)

type logConfig struct {
	Level      string `default:"info"    enum:"trace,debug,info,warn,error" help:"Set log level."`
	Format     string `default:"text"    enum:"text,json"                   help:"Set log format."`
	TimeLayout string `default:"RFC3339"                                    help:"Set timestamp layout, or empty to omit."`
	Caller     bool   `default:"false"                                      help:"Include caller information."             negatable:""`
	Color      bool   `default:"false"                                      help:"Colorize text output."                   negatable:""`
}

func (*logConfig) group() kong.Group {
	var group kong.Group

	group.Key = "log"
	group.Title = "Logging options"

	return group
}

// logger builds the process logger from the parsed flags. Diagnostics go to
// stderr so rendered output on stdout stays clean for pipelines.
func (f *logConfig) logger() *slog.Logger {
	return log.New(os.Stderr,
		log.WithLevel(log.ParseLevel(f.Level)),
		log.WithFormat(log.ParseFormat(f.Format)),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithColor(f.Color),
	)
}
