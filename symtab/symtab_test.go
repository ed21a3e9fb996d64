package symtab

import (
	"slices"
	"strings"
	"testing"
)

func TestDefaultResolve(t *testing.T) {
	tab := Default()

	for _, tt := range []struct {
		name string
		want any
		ok   bool
	}{
		{name: "OutputType.PDF", want: "PDF", ok: true},
		{name: "Doctype.HTML5", want: "HTML5", ok: true},
		{name: "JavaScriptMode.ENABLED", want: "ENABLED", ok: true},
		{name: "ColorSpace.CMYK", want: "CMYK", ok: true},
		{name: "OutputType.BOGUS", ok: false},
		{name: "PDF", ok: false},
		{name: "outputtype.pdf", ok: false},
	} {
		got, ok := tab.Resolve(tt.name)
		if ok != tt.ok {
			t.Errorf("Resolve(%q): ok = %v, want %v", tt.name, ok, tt.ok)

			continue
		}

		if ok && got != tt.want {
			t.Errorf("Resolve(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDefaultAlias(t *testing.T) {
	tab := Default()

	for _, tt := range []struct {
		name string
		want any
		ok   bool
	}{
		{name: "true", want: true, ok: true},
		{name: "on", want: true, ok: true},
		{name: "Yes", want: true, ok: true},
		{name: "false", want: false, ok: true},
		{name: "OFF", want: false, ok: true},
		{name: "no", want: false, ok: true},
		{name: "none", want: nil, ok: true},
		{name: "Null", want: nil, ok: true},
		{name: "nothing", want: nil, ok: true},
		{name: "maybe", ok: false},
	} {
		got, ok := tab.Alias(tt.name)
		if ok != tt.ok {
			t.Errorf("Alias(%q): ok = %v, want %v", tt.name, ok, tt.ok)

			continue
		}

		if ok && got != tt.want {
			t.Errorf("Alias(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestTranslate(t *testing.T) {
	tab := Default()

	for _, tt := range []struct {
		old  string
		want string
		ok   bool
	}{
		{old: "OUTPUT_TYPE_PDF", want: "OutputType.PDF", ok: true},
		{old: "JAVASCRIPT_MODE_ENABLED", want: "JavaScriptMode.ENABLED", ok: true},
		{old: "DOCUMENT_DEFAULT_LANGUAGE_DEFAULT", want: "", ok: true},
		{old: "NO_SUCH_CONSTANT", ok: false},
	} {
		got, ok := tab.Translate(tt.old)
		if ok != tt.ok {
			t.Errorf("Translate(%q): ok = %v, want %v", tt.old, ok, tt.ok)

			continue
		}

		if got != tt.want {
			t.Errorf("Translate(%q) = %q, want %q", tt.old, got, tt.want)
		}
	}
}

// Every legacy target must name a symbol the table can resolve, and every
// symbol value must be the member half of its dotted name.
func TestTableConsistency(t *testing.T) {
	tab := Default()

	for _, name := range tab.Names() {
		class, member, found := strings.Cut(name, ".")
		if !found || class == "" || member == "" {
			t.Errorf("symbol %q is not a dotted Class.MEMBER name", name)

			continue
		}

		val, ok := tab.Resolve(name)
		if !ok {
			t.Errorf("Names() lists %q but Resolve cannot find it", name)

			continue
		}

		if val != member {
			t.Errorf("Resolve(%q) = %v, want member name %q", name, val, member)
		}
	}

	if !slices.IsSorted(tab.Names()) {
		t.Error("Names() is not sorted")
	}
}

func TestSuggest(t *testing.T) {
	tab := Default()

	got := tab.Suggest("OutputType.PFD", 3)
	if len(got) == 0 {
		t.Fatal("Suggest returned no candidates for a near miss")
	}

	if len(got) > 3 {
		t.Fatalf("Suggest returned %d candidates, want at most 3", len(got))
	}

	if !slices.Contains(got, "OutputType.PDF") {
		t.Errorf("Suggest candidates %v do not include OutputType.PDF", got)
	}
}

func TestLoadRejectsDanglingLegacyTarget(t *testing.T) {
	symbols := []byte("version: \"1\"\nclasses:\n  OutputType:\n    - PDF\n")
	legacy := []byte("names:\n  OLD_NAME: OutputType.MISSING\n")

	if _, err := Load(symbols, legacy); err == nil {
		t.Fatal("Load accepted a legacy name mapping to an unknown symbol")
	}
}
