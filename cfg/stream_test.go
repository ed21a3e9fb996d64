package cfg

import (
	"errors"
	"strconv"
	"strings"
	"testing"
)

func drain(src *Source) ([]*Statement, error) {
	var out []*Statement

	for stmt, err := range src.Statements(false) {
		if err != nil {
			return nil, err
		}

		out = append(out, stmt)
	}

	return out, nil
}

func TestSourceKey(t *testing.T) {
	a := NewSource("a = 1\n")
	b := NewSource("a = 1\n")
	c := NewSource("a = 2\n")

	if a.Key() != b.Key() {
		t.Error("identical texts produced different keys")
	}

	if a.Key() == c.Key() {
		t.Error("different texts produced the same key")
	}
}

func TestSourceStatementsReplay(t *testing.T) {
	ClearCache()

	src := NewSource("replay_a = 1\nreplay_b = 2\n")

	first, err := drain(src)
	if err != nil {
		t.Fatalf("first drain failed: %v", err)
	}

	second, err := drain(NewSource(src.Text()))
	if err != nil {
		t.Fatalf("second drain failed: %v", err)
	}

	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("drained %d and %d statements, want 2 each", len(first), len(second))
	}

	// The cached stream replays the same statement values.
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("statement %d was re-split instead of replayed", i)
		}
	}
}

func TestSourceStatementsReplayError(t *testing.T) {
	ClearCache()

	src := NewSource("bad = 'unterminated")

	for range 2 {
		if _, err := drain(src); !errors.Is(err, ErrGrammar) {
			t.Fatalf("err = %v, want grammar error", err)
		}
	}
}

func TestSourceFromReader(t *testing.T) {
	src, err := SourceFromReader(strings.NewReader("a = 1\n"))
	if err != nil {
		t.Fatalf("SourceFromReader failed: %v", err)
	}

	if src.Text() != "a = 1\n" {
		t.Errorf("Text = %q", src.Text())
	}

	if src.Key() != NewSource("a = 1\n").Key() {
		t.Error("reader-backed source keyed differently from text source")
	}
}

func TestClearCache(t *testing.T) {
	src := NewSource("clear_me = 1\n")

	first, err := drain(src)
	if err != nil {
		t.Fatal(err)
	}

	ClearCache()

	second, err := drain(src)
	if err != nil {
		t.Fatal(err)
	}

	if first[0] == second[0] {
		t.Error("statements survived ClearCache")
	}
}

func TestCacheStaysBounded(t *testing.T) {
	ClearCache()

	// One more distinct source than the cache admits.
	for i := 0; i <= cacheLimit; i++ {
		src := NewSource("bounded_" + strconv.Itoa(i) + " = 1\n")
		if _, err := drain(src); err != nil {
			t.Fatal(err)
		}
	}

	entries := 0
	cache.Range(func(_, _ any) bool {
		entries++

		return true
	})

	if entries > cacheLimit {
		t.Fatalf("cache holds %d entries, want at most %d", entries, cacheLimit)
	}

	// Overflow drops the backlog wholesale before admitting the new source.
	if entries != 1 {
		t.Fatalf("cache holds %d entries after overflow, want 1", entries)
	}
}
