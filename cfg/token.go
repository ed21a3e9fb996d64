package cfg

import (
	"iter"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind identifies the semantic class of a [TokenGroup].
type Kind int

const (
	// KindName is a dotted name run, such as "config.disableLinks" or
	// "OutputType.JPEG", merged from adjacent identifier and dot tokens.
	KindName Kind = iota

	// KindOp is an operator or brace token, such as "=", ",", or "{".
	KindOp

	// KindString is a quoted string literal, surface form included.
	KindString

	// KindNumber is an integer or decimal numeric literal.
	KindNumber

	// KindTerminator is a statement terminator: a newline, a semicolon, or
	// a comment (which terminates but contributes no text).
	KindTerminator

	// KindEnd marks the end of input. It is always the final group.
	KindEnd
)

// String returns the token-class tag used in diagnostics.
func (k Kind) String() string {
	switch k {
	case KindName:
		return "NAME"
	case KindOp:
		return "OP"
	case KindString:
		return "STRING"
	case KindNumber:
		return "NUMBER"
	case KindTerminator:
		return "TERMINATOR"
	case KindEnd:
		return "END"
	default:
		return "UNKNOWN"
	}
}

// closers maps each opening brace to its matching closing symbol.
var closers = map[string]string{
	"{": "}",
	"(": ")",
	"[": "]",
}

// TokenGroup is an ordered, non-empty run of raw tokens forming one semantic
// unit: a dotted name, an operator or brace, a literal, or a terminator.
// Groups are immutable once produced.
type TokenGroup struct {
	// Kind is the semantic class of the group.
	Kind Kind

	// Text is the normalized surface form. String literals keep their
	// quotes; dotted names join their segments with dots.
	Text string

	// Names holds the ordered identifier segments of a dotted name.
	// It is populated only for KindName groups.
	Names []string

	// Line and Column locate the group's first token in the source.
	Line   int
	Column int
}

// DottedName returns the full dotted name of a KindName group.
func (g *TokenGroup) DottedName() string {
	return strings.Join(g.Names, ".")
}

// IsOp reports whether the group is the given operator.
func (g *TokenGroup) IsOp(text string) bool {
	return g.Kind == KindOp && g.Text == text
}

// OpensBrace reports whether the group opens one of "{", "(", or "[".
func (g *TokenGroup) OpensBrace() bool {
	if g.Kind != KindOp {
		return false
	}

	_, ok := closers[g.Text]

	return ok
}

// ExpectedCloser returns the closing symbol matching an opening brace group,
// or the empty string for any other group.
func (g *TokenGroup) ExpectedCloser() string {
	if g.Kind != KindOp {
		return ""
	}

	return closers[g.Text]
}

// ClosesBrace reports whether the group is one of "}", ")", or "]".
func (g *TokenGroup) ClosesBrace() bool {
	if g.Kind != KindOp {
		return false
	}

	switch g.Text {
	case "}", ")", "]":
		return true
	}

	return false
}

// IsTerminator reports whether the group ends a statement. The end-of-input
// group counts as a terminator so the final buffered statement flushes.
func (g *TokenGroup) IsTerminator() bool {
	return g.Kind == KindTerminator || g.Kind == KindEnd
}

// String renders the group for diagnostics, such as <NAME config.outputFormat>
// or <OP '='>.
func (g *TokenGroup) String() string {
	switch g.Kind {
	case KindOp:
		return "<OP '" + g.Text + "'>"
	case KindTerminator:
		return "<TERMINATOR>"
	case KindEnd:
		return "<END>"
	default:
		return "<" + g.Kind.String() + " " + g.Text + ">"
	}
}

// scanner yields raw lexical tokens from a source text. It is the low-level
// tokenizer beneath [Groups]; consumers never see it directly.
type scanner struct {
	input []byte
	pos   int
	line  int
	col   int
}

func newScanner(src string) *scanner {
	return &scanner{input: []byte(src), pos: 0, line: 1, col: 1}
}

// token is a raw lexical token. Its kind vocabulary is shared with
// TokenGroup; the grouping layer merges name and dot tokens into dotted runs.
type token struct {
	kind Kind
	text string
	line int
	col  int
}

func (s *scanner) eof() bool { return s.pos >= len(s.input) }

func (s *scanner) peek() rune {
	if s.eof() {
		return 0
	}

	r, _ := utf8.DecodeRune(s.input[s.pos:])

	return r
}

func (s *scanner) peekAt(off int) rune {
	if s.pos+off >= len(s.input) {
		return 0
	}

	r, _ := utf8.DecodeRune(s.input[s.pos+off:])

	return r
}

func (s *scanner) advance() {
	if s.eof() {
		return
	}

	r, size := utf8.DecodeRune(s.input[s.pos:])

	s.pos += size
	if r == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
}

// skipBlank consumes horizontal whitespace and backslash-newline
// continuations, leaving newlines for the terminator path.
func (s *scanner) skipBlank() {
	for !s.eof() {
		ch := s.peek()

		switch {
		case ch == ' ' || ch == '\t' || ch == '\r':
			s.advance()
		case ch == '\\' && s.peekAt(1) == '\n':
			s.advance()
			s.advance()
		default:
			return
		}
	}
}

// next returns the next raw token. After the end of input it keeps returning
// the KindEnd token.
func (s *scanner) next() (token, error) {
	s.skipBlank()

	tok := token{line: s.line, col: s.col}

	if s.eof() {
		tok.kind = KindEnd

		return tok, nil
	}

	ch := s.peek()

	switch {
	case ch == '\n':
		s.advance()

		tok.kind = KindTerminator
		tok.text = "\n"

		return tok, nil

	case ch == ';':
		s.advance()

		tok.kind = KindTerminator
		tok.text = ";"

		return tok, nil

	case ch == '#':
		// A comment terminates the statement but contributes no text.
		for !s.eof() && s.peek() != '\n' {
			s.advance()
		}

		if !s.eof() {
			s.advance()
		}

		tok.kind = KindTerminator
		tok.text = "\n"

		return tok, nil

	case isIdentStart(ch):
		start := s.pos
		for !s.eof() && isIdentContinue(s.peek()) {
			s.advance()
		}

		tok.kind = KindName
		tok.text = string(s.input[start:s.pos])

		return tok, nil

	case unicode.IsDigit(ch) || (ch == '.' && unicode.IsDigit(s.peekAt(1))):
		start := s.pos
		sawDot := false

		for !s.eof() {
			c := s.peek()
			if unicode.IsDigit(c) {
				s.advance()

				continue
			}

			if c == '.' && !sawDot && unicode.IsDigit(s.peekAt(1)) {
				sawDot = true

				s.advance()

				continue
			}

			break
		}

		tok.kind = KindNumber
		tok.text = string(s.input[start:s.pos])

		return tok, nil

	case ch == '"' || ch == '\'':
		start := s.pos

		s.advance() // opening quote

		for !s.eof() {
			c := s.peek()
			if c == '\\' {
				s.advance()

				if !s.eof() {
					s.advance()
				}

				continue
			}

			if c == '\n' {
				break
			}

			if c == ch {
				s.advance() // closing quote

				tok.kind = KindString
				tok.text = string(s.input[start:s.pos])

				return tok, nil
			}

			s.advance()
		}

		return tok, ErrGrammar.With(
			slog.String("detail", "unterminated string literal"),
			slog.Int("line", tok.line),
			slog.Int("column", tok.col),
		)

	default:
		s.advance()

		tok.kind = KindOp
		tok.text = string(ch)

		return tok, nil
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Groups tokenizes src and yields its semantic token groups: adjacent
// identifier and dot tokens are merged into one dotted-name group, comments
// become terminators, and a KindEnd group is always final. The sequence is
// lazy, finite, and single pass; it is not restartable.
//
// A lone closing brace with no matching opener is passed through rather than
// rejected here; validating bracket structure is the statement consumers'
// concern.
func Groups(src string) iter.Seq2[*TokenGroup, error] {
	return func(yield func(*TokenGroup, error) bool) {
		s := newScanner(src)

		// One-token pushback for the dotted-name lookahead.
		var held *token

		take := func() (token, error) {
			if held != nil {
				t := *held
				held = nil

				return t, nil
			}

			return s.next()
		}

		for {
			tok, err := take()
			if err != nil {
				yield(nil, err)

				return
			}

			if tok.kind != KindName {
				g := &TokenGroup{
					Kind:   tok.kind,
					Text:   tok.text,
					Line:   tok.line,
					Column: tok.col,
				}
				if !yield(g, nil) {
					return
				}

				if tok.kind == KindEnd {
					return
				}

				continue
			}

			// Merge a dotted run: NAME ('.' NAME)*
			names := []string{tok.text}

			for {
				dot, err := take()
				if err != nil {
					yield(nil, err)

					return
				}

				if !(dot.kind == KindOp && dot.text == ".") {
					held = &dot

					break
				}

				seg, err := take()
				if err != nil {
					yield(nil, err)

					return
				}

				if seg.kind != KindName {
					// Dangling dot: emit the name, then the dot,
					// and reconsider the follower.
					g := &TokenGroup{
						Kind:   KindName,
						Text:   strings.Join(names, "."),
						Names:  names,
						Line:   tok.line,
						Column: tok.col,
					}
					if !yield(g, nil) {
						return
					}

					dg := &TokenGroup{
						Kind:   KindOp,
						Text:   ".",
						Line:   dot.line,
						Column: dot.col,
					}
					if !yield(dg, nil) {
						return
					}

					names = nil
					held = &seg

					break
				}

				names = append(names, seg.text)
			}

			if names == nil {
				continue
			}

			g := &TokenGroup{
				Kind:   KindName,
				Text:   strings.Join(names, "."),
				Names:  names,
				Line:   tok.line,
				Column: tok.col,
			}
			if !yield(g, nil) {
				return
			}
		}
	}
}
