package cfg

import (
	"errors"
	"reflect"
	"testing"
)

// apply runs the given assignments through a fresh assembler and returns the
// resulting tree.
func apply(t *testing.T, src string) (Config, error) {
	t.Helper()

	asm := NewAssembler(nil, nil, nil)
	config := Config{}

	for stmt, err := range Statements(Groups(src), false) {
		if err != nil {
			t.Fatalf("Statements(%q) failed: %v", src, err)
		}

		if err := asm.Apply(stmt, config); err != nil {
			return nil, err
		}
	}

	return config, nil
}

func TestApplyScalar(t *testing.T) {
	for _, tt := range []struct {
		name string
		src  string
		want Config
	}{
		{
			name: "registered bool",
			src:  "disableLinks = true",
			want: Config{"disableLinks": true},
		},
		{
			name: "config prefix stripped",
			src:  "config.disableLinks = on",
			want: Config{"disableLinks": true},
		},
		{
			name: "unregistered path",
			src:  "the_answer = 41",
			want: Config{"the_answer": int64(41)},
		},
		{
			name: "subkey creates mapping",
			src:  "outputFormat.width = 640",
			want: Config{"outputFormat": Config{"width": int64(640)}},
		},
		{
			name: "subkeys accumulate",
			src:  "outputFormat.width = 640\noutputFormat.height = 480",
			want: Config{"outputFormat": Config{
				"width":  int64(640),
				"height": int64(480),
			}},
		},
		{
			name: "symbol value",
			src:  "outputFormat.type = OutputType.PNG",
			want: Config{"outputFormat": Config{"type": "PNG"}},
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			got, err := apply(t, tt.src)
			if err != nil {
				t.Fatalf("apply(%q) failed: %v", tt.src, err)
			}

			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("apply(%q) = %#v, want %#v", tt.src, got, tt.want)
			}
		})
	}
}

func TestApplyContainers(t *testing.T) {
	for _, tt := range []struct {
		name string
		src  string
		want Config
	}{
		{
			name: "mapping body",
			src:  `outputFormat = { type: "PNG", width: 123 }`,
			want: Config{"outputFormat": Config{
				"type":  "PNG",
				"width": int64(123),
			}},
		},
		{
			name: "mapping merges with subkey assignments",
			src:  "outputFormat.width = 640\noutputFormat = { type: 'PNG' }",
			want: Config{"outputFormat": Config{
				"width": int64(640),
				"type":  "PNG",
			}},
		},
		{
			name: "empty mapping",
			src:  "debugSettings = {}",
			want: Config{"debugSettings": Config{}},
		},
		{
			name: "tuple",
			src:  "coords = ( 1, 2, 3 )",
			want: Config{"coords": Tuple{int64(1), int64(2), int64(3)}},
		},
		{
			name: "list",
			src:  "sizes = [ 1.5, 2.5 ]",
			want: Config{"sizes": []any{1.5, 2.5}},
		},
		{
			name: "empty list",
			src:  "sizes = []",
			want: Config{"sizes": []any{}},
		},
		{
			name: "trailing comma",
			src:  "sizes = [ 1, 2, ]",
			want: Config{"sizes": []any{int64(1), int64(2)}},
		},
		{
			name: "element factory applies",
			src:  "userStyleSheets = [ 'a.css', 'b.css' ]",
			want: Config{"userStyleSheets": []any{
				Config{"uri": "a.css"},
				Config{"uri": "b.css"},
			}},
		},
		{
			name: "registered list accepts parentheses",
			src:  "userStyleSheets = ( 'a.css' )",
			want: Config{"userStyleSheets": []any{Config{"uri": "a.css"}}},
		},
		{
			name: "subkey sequence",
			src:  "page.sizes = [ 1, 2 ]",
			want: Config{"page": Config{"sizes": []any{int64(1), int64(2)}}},
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			got, err := apply(t, tt.src)
			if err != nil {
				t.Fatalf("apply(%q) failed: %v", tt.src, err)
			}

			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("apply(%q) = %#v, want %#v", tt.src, got, tt.want)
			}
		})
	}
}

func TestApplyErrors(t *testing.T) {
	for _, tt := range []struct {
		name string
		src  string
		want error
	}{
		{
			name: "surplus tokens after scalar",
			src:  "a = 1 2",
			want: ErrGrammar,
		},
		{
			name: "adjacent string literals",
			src:  "a = 'x' 'y'",
			want: ErrGrammar,
		},
		{
			name: "bare scalar for mapping destination",
			src:  "outputFormat = 'PNG'",
			want: ErrDestination,
		},
		{
			name: "mapping below subkey",
			src:  "a.b = { x: 1 }",
			want: ErrDestination,
		},
		{
			name: "container kind conflict",
			src:  "a = { x: 1 }\na = ( 1, 2 )",
			want: ErrTypeConflict,
		},
		{
			name: "sequence kind persists",
			src:  "a = ( 1 )\na = { x: 1 }",
			want: ErrTypeConflict,
		},
		{
			name: "subkey below scalar value",
			src:  "a = 1\na.b = 2",
			want: ErrTypeConflict,
		},
		{
			name: "missing colon",
			src:  "a = { x 1 }",
			want: ErrGrammar,
		},
		{
			name: "missing comma in mapping",
			src:  "a = { x: 1 y: 2 }",
			want: ErrGrammar,
		},
		{
			name: "missing comma in sequence",
			src:  "a = [ 1 2 ]",
			want: ErrGrammar,
		},
		{
			name: "wrong closer",
			src:  "a = [ 1, 2 )",
			want: ErrGrammar,
		},
		{
			name: "unknown symbol",
			src:  "a = Bogus.NAME",
			want: ErrUnknownSymbol,
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := apply(t, tt.src)
			if !errors.Is(err, tt.want) {
				t.Errorf("apply(%q): err = %v, want %v", tt.src, err, tt.want)
			}
		})
	}
}

func TestApplySequenceFailsLoudly(t *testing.T) {
	asm := NewAssembler(nil, nil, nil)

	var stmt *Statement

	for s, err := range Statements(Groups("a = 1"), false) {
		if err != nil {
			t.Fatal(err)
		}

		stmt = s
	}

	if err := asm.ApplySequence(stmt, []any{}); !errors.Is(err, ErrListStyle) {
		t.Fatalf("err = %v, want list-style error", err)
	}
}

func TestRegistryLearnsAcrossStatements(t *testing.T) {
	asm := NewAssembler(NewRegistry(), nil, nil)
	config := Config{}

	for stmt, err := range Statements(Groups("a = ( 1, 2 )\na = [ 3 ]"), false) {
		if err != nil {
			t.Fatal(err)
		}

		if err := asm.Apply(stmt, config); err != nil {
			t.Fatalf("Apply failed: %v", err)
		}
	}

	// The first statement registered a tuple at the path, so the bracketed
	// form still builds a tuple.
	if _, ok := config["a"].(Tuple); !ok {
		t.Errorf("config[a] = %#v, want Tuple", config["a"])
	}

	if got := asm.Registry().Lookup("a"); got != TupleFactory {
		t.Errorf("Lookup(a) = %v, want tuple", got)
	}
}
