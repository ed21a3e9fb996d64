package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/lipgloss"

	"github.com/pressmark/parsecfg/cfg"
	"github.com/pressmark/parsecfg/legacy"
)

// Check validates a configuration source without rendering it.
type Check struct {
	Source string `arg:"" default:"-" help:"Configuration source file or '-' for stdin" name:"source"`

	Legacy  bool `default:"true" help:"Translate legacy method calls"                   negatable:""`
	Lenient bool `               help:"Drop unmatched closing braces instead of failing"`
}

// Styles.
var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	logger := LoggerFrom(ctx)

	source, closeSource, err := openSource(c.Source)
	if err != nil {
		return err
	}
	defer closeSource()

	src, err := cfg.SourceFromReader(source)
	if err != nil {
		return err
	}

	statements := 0

	for _, err := range src.Statements(c.Lenient) {
		if err != nil {
			fmt.Println(failStyle.Render("✗ "+c.Source), dimStyle.Render(err.Error()))

			return err
		}

		statements++
	}

	var unused []*cfg.Statement

	opts := []cfg.Option{
		cfg.WithText(src.Text()),
		cfg.WithUnused(&unused),
		cfg.WithLogger(logger),
	}

	if c.Legacy {
		opts = append(opts, cfg.WithConvert(legacy.Hook(legacy.WithLogger(logger))))
	}

	if c.Lenient {
		opts = append(opts, cfg.WithLenientClosers())
	}

	tree, err := cfg.Parse(ctx, opts...)
	if err != nil {
		fmt.Println(failStyle.Render("✗ "+c.Source), dimStyle.Render(err.Error()))

		return cfg.WrapError(err).
			With(slog.String("command", "check"))
	}

	summary := fmt.Sprintf("%d statements, %d top-level keys", statements, len(tree))
	if len(unused) > 0 {
		summary += fmt.Sprintf(", %d not handled", len(unused))
	}

	fmt.Println(okStyle.Render("✓ "+c.Source), dimStyle.Render(summary))

	return nil
}
