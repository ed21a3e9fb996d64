package cfg

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"
)

func TestParseEmpty(t *testing.T) {
	got, err := Parse(context.Background(), WithText(""))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(got) != 0 {
		t.Errorf("Parse(\"\") = %#v, want empty tree", got)
	}
}

func TestParseEquivalentNotations(t *testing.T) {
	want := Config{"disableLinks": true}

	for _, src := range []string{
		"config.disableLinks = true",
		"disableLinks = true",
		"disableLinks = on",
	} {
		got, err := Parse(context.Background(), WithText(src))
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", src, err)
		}

		if !reflect.DeepEqual(got, want) {
			t.Errorf("Parse(%q) = %#v, want %#v", src, got, want)
		}
	}
}

func TestParseNestedNotations(t *testing.T) {
	want := Config{"outputFormat": Config{"type": "PNG", "width": int64(123)}}

	for _, src := range []string{
		`config.outputFormat = { type: "PNG", width: 123 }`,
		"config.outputFormat.type = \"PNG\"\nconfig.outputFormat.width = 123",
	} {
		got, err := Parse(context.Background(), WithText(src))
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", src, err)
		}

		if !reflect.DeepEqual(got, want) {
			t.Errorf("Parse(%q) = %#v, want %#v", src, got, want)
		}
	}
}

func TestParseTypeConflict(t *testing.T) {
	_, err := Parse(context.Background(), WithText("a = {x: 1}\na = (1, 2)"))
	if !errors.Is(err, ErrTypeConflict) {
		t.Fatalf("err = %v, want type conflict", err)
	}
}

func TestDefaultLoggerDiscards(t *testing.T) {
	// Library callers that never pass WithLogger must not write to the
	// process logger.
	o := &options{}
	WithText("a = 1")(o)

	if _, err := o.validate(); err != nil {
		t.Fatalf("validate failed: %v", err)
	}

	if o.logger.Enabled(context.Background(), slog.LevelError) {
		t.Error("default logger forwards records instead of discarding them")
	}
}

func TestParseOptionValidation(t *testing.T) {
	ctx := context.Background()

	for _, tt := range []struct {
		name string
		opts []Option
		want error
	}{
		{
			name: "no input",
			opts: nil,
			want: ErrArgument,
		},
		{
			name: "text and file",
			opts: []Option{WithText("a = 1"), WithFile("x.cfg")},
			want: ErrArgument,
		},
		{
			name: "text and reader",
			opts: []Option{WithText("a = 1"), WithReader(strings.NewReader(""))},
			want: ErrArgument,
		},
		{
			name: "nil convert hook",
			opts: []Option{WithText("a = 1"), WithConvert(nil)},
			want: ErrArgument,
		},
		{
			name: "nil config tree",
			opts: []Option{WithText("a = 1"), WithConfig(nil)},
			want: ErrArgument,
		},
		{
			// A typed nil map must fail like untyped nil, not panic on
			// the first assignment.
			name: "typed-nil config tree",
			opts: []Option{WithText("disableLinks = true"), WithConfig(Config(nil))},
			want: ErrArgument,
		},
		{
			name: "sequence-rooted config",
			opts: []Option{WithText("a = 1"), WithConfig([]any{})},
			want: ErrListStyle,
		},
		{
			name: "scalar config",
			opts: []Option{WithText("a = 1"), WithConfig(42)},
			want: ErrArgument,
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(ctx, tt.opts...); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseMutatesSuppliedConfig(t *testing.T) {
	config := Config{"existing": "kept"}

	got, err := Parse(context.Background(),
		WithText("disableLinks = false"),
		WithConfig(config),
	)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if !reflect.DeepEqual(config, Config{
		"existing":     "kept",
		"disableLinks": false,
	}) {
		t.Errorf("config = %#v", config)
	}

	// The returned tree is the supplied one.
	if !reflect.DeepEqual(got, config) {
		t.Errorf("returned tree differs from the supplied one")
	}
}

func TestParseUnusedCollected(t *testing.T) {
	var unused []*Statement

	got, err := Parse(context.Background(),
		WithText("some control words\na = 1"),
		WithUnused(&unused),
	)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if !reflect.DeepEqual(got, Config{"a": int64(1)}) {
		t.Errorf("config = %#v", got)
	}

	if len(unused) != 1 || unused[0].String() != "some control words" {
		t.Errorf("unused = %v", unused)
	}
}

func TestParseUnusedPromotedToError(t *testing.T) {
	_, err := Parse(context.Background(),
		WithText("first control\nsecond control"),
	)
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("err = %v, want unsupported statement", err)
	}

	// The error names the first offender and hints at the rest.
	msg := err.Error()
	if !strings.Contains(msg, "first control") || !strings.Contains(msg, "more") {
		t.Errorf("err = %q, want first statement plus a more indicator", msg)
	}
}

func TestParseConvertHook(t *testing.T) {
	hook := func(stmt *Statement, config Config, control Control) (bool, error) {
		if stmt.IsAssignment() {
			return false, nil
		}

		control[stmt.String()] = true

		return true, nil
	}

	control := Control{}

	got, err := Parse(context.Background(),
		WithText("special directive\na = 1"),
		WithConvert(hook),
		WithControl(control),
	)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if !reflect.DeepEqual(got, Config{"a": int64(1)}) {
		t.Errorf("config = %#v", got)
	}

	if control["special directive"] != true {
		t.Errorf("control = %#v, want the directive claimed", control)
	}
}

func TestParseLenientClosers(t *testing.T) {
	const src = "a = 1\n)\n"

	if _, err := Parse(context.Background(), WithText(src)); !errors.Is(err, ErrGrammar) {
		t.Fatalf("strict: err = %v, want grammar error", err)
	}

	got, err := Parse(context.Background(), WithText(src), WithLenientClosers())
	if err != nil {
		t.Fatalf("lenient: Parse failed: %v", err)
	}

	if !reflect.DeepEqual(got, Config{"a": int64(1)}) {
		t.Errorf("lenient: config = %#v", got)
	}
}

func TestParseSharedRegistry(t *testing.T) {
	reg := NewRegistry()
	ctx := context.Background()

	if _, err := Parse(ctx, WithText("a = (1, 2)"), WithRegistry(reg)); err != nil {
		t.Fatalf("first Parse failed: %v", err)
	}

	// The learned tuple factory carries into the next parse.
	got, err := Parse(ctx, WithText("a = [3]"), WithRegistry(reg))
	if err != nil {
		t.Fatalf("second Parse failed: %v", err)
	}

	if _, ok := got["a"].(Tuple); !ok {
		t.Errorf("config[a] = %#v, want Tuple", got["a"])
	}
}

func TestParseReader(t *testing.T) {
	got, err := ParseReader(context.Background(),
		strings.NewReader("disableLinks = no\n"),
	)
	if err != nil {
		t.Fatalf("ParseReader failed: %v", err)
	}

	if !reflect.DeepEqual(got, Config{"disableLinks": false}) {
		t.Errorf("config = %#v", got)
	}
}

func TestParseCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Parse(ctx, WithText("a = 1")); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestDefaultConfigText(t *testing.T) {
	got, err := ParseString(context.Background(), DefaultConfigText)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}

	if !reflect.DeepEqual(got, Config{"disableLinks": false}) {
		t.Errorf("config = %#v", got)
	}
}
