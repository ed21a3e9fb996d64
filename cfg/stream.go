package cfg

import (
	"io"
	"iter"
	"os"
	"sync"
	"sync/atomic"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// Source is one text input to the parser with a stable content key. The
// statement stream of a Source is memoized process-wide by that key, so
// re-parsing identical text (REPL re-evaluation, repeated checks of the
// same file) skips the scanner and splitter entirely.
type Source struct {
	text string
	key  uint64
}

// NewSource wraps already-loaded text.
func NewSource(text string) *Source {
	return &Source{text: text, key: xxh3.HashString(text)}
}

// SourceFromReader drains r through an asynchronous readahead buffer. The
// reader is fully consumed; closing it stays with the caller.
func SourceFromReader(r io.Reader) (*Source, error) {
	data, err := io.ReadAll(readahead.NewReader(r))
	if err != nil {
		return nil, ErrArgument.Wrap(err)
	}

	return &Source{text: string(data), key: xxh3.Hash(data)}, nil
}

// SourceFromFile reads the named file.
func SourceFromFile(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrArgument.Wrap(err)
	}
	defer f.Close()

	return SourceFromReader(f)
}

// Key returns the source's content hash.
func (s *Source) Key() uint64 { return s.key }

// Text returns the source text.
func (s *Source) Text() string { return s.text }

type cacheKey struct {
	key     uint64
	lenient bool
}

type cacheEntry struct {
	once  sync.Once
	stmts []*Statement
	err   error
}

// cacheLimit bounds the number of memoized statement streams. Long-lived
// processes (the interactive shell feeds every input line through here)
// would otherwise retain every distinct source for process lifetime.
const cacheLimit = 128

var (
	cache     sync.Map // cacheKey -> *cacheEntry
	cacheSize atomic.Int64
)

// ClearCache discards all memoized statement streams.
func ClearCache() {
	cache.Range(func(k, _ any) bool {
		cache.Delete(k)

		return true
	})
	cacheSize.Store(0)
}

// Statements yields the source's statements, splitting once and replaying
// from the cache on later calls. Statements are immutable, so sharing them
// across callers is safe; the slice itself is never exposed.
func (s *Source) Statements(lenient bool) iter.Seq2[*Statement, error] {
	k := cacheKey{key: s.key, lenient: lenient}

	v, ok := cache.Load(k)
	if !ok {
		// Soft bound: admitting a new source past the limit drops the
		// whole cache rather than tracking recency.
		if cacheSize.Load() >= cacheLimit {
			ClearCache()
		}

		var loaded bool
		if v, loaded = cache.LoadOrStore(k, &cacheEntry{}); !loaded {
			cacheSize.Add(1)
		}
	}

	entry := v.(*cacheEntry)

	entry.once.Do(func() {
		for stmt, err := range Statements(Groups(s.text), lenient) {
			if err != nil {
				entry.err = err

				return
			}

			entry.stmts = append(entry.stmts, stmt)
		}
	})

	return func(yield func(*Statement, error) bool) {
		for _, stmt := range entry.stmts {
			if !yield(stmt, nil) {
				return
			}
		}

		if entry.err != nil {
			yield(nil, entry.err)
		}
	}
}
