package legacy

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/pressmark/parsecfg/cfg"
)

func parse(t *testing.T, src string) (cfg.Config, error) {
	t.Helper()

	return cfg.Parse(context.Background(),
		cfg.WithText(src),
		cfg.WithConvert(Hook()),
	)
}

func TestConvertCalls(t *testing.T) {
	for _, tt := range []struct {
		name string
		src  string
		want cfg.Config
	}{
		{
			name: "negated argument",
			src:  "setAddLinks(yes)",
			want: cfg.Config{"disableLinks": false},
		},
		{
			name: "no-argument fixed value",
			src:  "enableDebugMode()",
			want: cfg.Config{"debugSettings": cfg.Config{"appendLogs": true}},
		},
		{
			name: "mixed with assignment",
			src:  "debugSettings.attachConfiguration=on;enableDebugMode()",
			want: cfg.Config{"debugSettings": cfg.Config{
				"attachConfiguration": true,
				"appendLogs":          true,
			}},
		},
		{
			name: "legacy constant argument",
			src:  "setJavaScriptMode(JAVASCRIPT_MODE_ENABLED_NO_LAYOUT)",
			want: cfg.Config{"javaScriptMode": "ENABLED_NO_LAYOUT"},
		},
		{
			name: "positional mapping destinations",
			src:  "setOutputFormat(OutputType.PNG, 640, 480)",
			want: cfg.Config{"outputType": cfg.Config{
				"type":   "PNG",
				"width":  int64(640),
				"height": int64(480),
			}},
		},
		{
			name: "real-world sequence",
			src: `
setEncoding('UTF-8')
setJavaScriptMode(JAVASCRIPT_MODE_ENABLED)
# Enable bookmarks in the document
setAddBookmarks(True)
setCleanupTool(CLEANUP_NONE)
setLogLevel(LOG_LEVEL_INFO)
setAppendLog(off)
setDocumentType(DOCTYPE_HTML5)
`,
			want: cfg.Config{
				"encoding":       "UTF-8",
				"javaScriptMode": "ENABLED",
				"addBookmarks":   true,
				"cleanupTool":    "NONE",
				"logLevel":       "INFO",
				"debugSettings":  cfg.Config{"appendLogs": false},
				"documentType":   "HTML5",
			},
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parse(t, tt.src)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.src, err)
			}

			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %#v, want %#v", tt.src, got, tt.want)
			}
		})
	}
}

func TestUserScriptAppend(t *testing.T) {
	got, err := parse(t, "addUserScript('ro.layout.forceRelayout();', Null, False)")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := cfg.Config{"userScripts": []any{
		cfg.Config{
			"content":               "ro.layout.forceRelayout();",
			"uri":                   nil,
			"beforeDocumentScripts": false,
		},
	}}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse = %#v, want %#v", got, want)
	}
}

func TestUserScriptAppendsAccumulate(t *testing.T) {
	got, err := parse(t, "addUserScript('a();')\naddUserScript('b();')")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	scripts, ok := got["userScripts"].([]any)
	if !ok {
		t.Fatalf("userScripts = %#v, want a list", got["userScripts"])
	}

	if len(scripts) != 2 {
		t.Fatalf("len(userScripts) = %d, want 2", len(scripts))
	}
}

func TestRemovedConstantArgument(t *testing.T) {
	// A null target in the translation table means the constant was retired
	// without replacement; resolving one must fail rather than yield nil.
	_, err := parse(t, "setDocumentType(DOCUMENT_DEFAULT_LANGUAGE_DEFAULT)")
	if !errors.Is(err, cfg.ErrUnknownSymbol) {
		t.Fatalf("err = %v, want unknown-symbol error", err)
	}
}

func TestNoArgumentMethodRejectsArguments(t *testing.T) {
	_, err := parse(t, "enableDebugMode(on)")
	if !errors.Is(err, cfg.ErrGrammar) {
		t.Fatalf("err = %v, want grammar error", err)
	}
}

func TestSurplusArgumentsFallThrough(t *testing.T) {
	var unused []*cfg.Statement

	got, err := cfg.Parse(context.Background(),
		cfg.WithText("setAddLinks(yes, no)"),
		cfg.WithConvert(Hook()),
		cfg.WithUnused(&unused),
	)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(got) != 0 {
		t.Errorf("config = %#v, want empty", got)
	}

	if len(unused) != 1 {
		t.Fatalf("len(unused) = %d, want 1", len(unused))
	}
}

func TestSurplusArgumentsStrict(t *testing.T) {
	a := NewAdapter(WithStrictArity())

	var unused []*cfg.Statement

	_, err := cfg.Parse(context.Background(),
		cfg.WithText("setAddLinks(yes, no)"),
		cfg.WithConvert(a.Convert),
		cfg.WithUnused(&unused),
	)
	if !errors.Is(err, cfg.ErrGrammar) {
		t.Fatalf("err = %v, want grammar error", err)
	}
}

func TestUnknownMethodFallsThrough(t *testing.T) {
	var unused []*cfg.Statement

	_, err := cfg.Parse(context.Background(),
		cfg.WithText("setConformance(CONFORMANCE_PDFA)"),
		cfg.WithConvert(Hook()),
		cfg.WithUnused(&unused),
	)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(unused) != 1 {
		t.Fatalf("len(unused) = %d, want 1", len(unused))
	}
}

func TestNames(t *testing.T) {
	names := Names()
	if len(names) != len(methods) {
		t.Fatalf("len(Names()) = %d, want %d", len(names), len(methods))
	}

	for _, name := range []string{"enableDebugMode", "addUserScript", "setAddLinks"} {
		found := false

		for _, have := range names {
			if have == name {
				found = true

				break
			}
		}

		if !found {
			t.Errorf("Names() is missing %s", name)
		}
	}
}
