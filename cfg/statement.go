package cfg

import (
	"iter"
	"log/slog"
	"strings"
)

// Statement is a terminator-delimited run of token groups representing one
// DSL instruction. The terminator itself is not stored. Classification
// (assignment, method call, other) is computed on demand; a Statement holds
// no other state.
type Statement struct {
	groups []*TokenGroup
}

// NewStatement builds a statement from the given groups. It is exported for
// convert hooks and tests that construct statements directly.
func NewStatement(groups ...*TokenGroup) *Statement {
	return &Statement{groups: groups}
}

// Groups returns the statement's token groups in order.
func (s *Statement) Groups() []*TokenGroup { return s.groups }

// Len returns the number of token groups.
func (s *Statement) Len() int { return len(s.groups) }

// Group returns the i-th token group, or nil when out of range.
func (s *Statement) Group(i int) *TokenGroup {
	if i < 0 || i >= len(s.groups) {
		return nil
	}

	return s.groups[i]
}

// IsAssignment reports whether the second group is the "=" operator.
func (s *Statement) IsAssignment() bool {
	return len(s.groups) >= 2 && s.groups[1].IsOp("=")
}

// IsMethodCall reports whether the statement has the shape of a legacy API
// call: a dotted name immediately followed by an opening parenthesis.
func (s *Statement) IsMethodCall() bool {
	return len(s.groups) >= 2 &&
		s.groups[0].Kind == KindName &&
		s.groups[1].IsOp("(")
}

// CallName returns the called method's dotted name. It is meaningful only
// when IsMethodCall reports true.
func (s *Statement) CallName() string {
	if len(s.groups) == 0 {
		return ""
	}

	return s.groups[0].DottedName()
}

// CallArgs returns the value groups strictly between the call's parentheses,
// split on top-level commas. Well-formedness (alternating value and comma,
// matching closer) is validated here; a violation is a grammar error naming
// the offending group.
func (s *Statement) CallArgs() ([]*TokenGroup, error) {
	if !s.IsMethodCall() {
		return nil, nil
	}

	args := make([]*TokenGroup, 0, len(s.groups))
	wantSep := false

	for _, g := range s.groups[2:] {
		if wantSep {
			if g.Kind != KindOp || (g.Text != "," && g.Text != ")") {
				return nil, ErrGrammar.With(
					slog.String("detail", "comma or ) expected"),
					attrGroup(g),
					attrStatement(s),
				)
			}

			if g.Text == ")" {
				break
			}

			wantSep = false

			continue
		}

		if g.Kind == KindOp {
			if g.Text == ")" {
				break
			}

			return nil, ErrGrammar.With(
				slog.String("detail", "value expected"),
				attrGroup(g),
				attrStatement(s),
			)
		}

		args = append(args, g)
		wantSep = true
	}

	return args, nil
}

// TargetPath resolves an assignment's destination: the leading dotted name
// with an optional leading "config" segment stripped. The remaining one or
// two segments become key and subkey. More than two segments, or a bare
// "config" with nothing following, is a destination error.
func (s *Statement) TargetPath() (key, subkey string, err error) {
	if len(s.groups) == 0 || s.groups[0].Kind != KindName {
		return "", "", ErrDestination.With(
			attrGroup(s.Group(0)),
			attrStatement(s),
		)
	}

	names := s.groups[0].Names
	if names[0] == "config" {
		names = names[1:]
		if len(names) == 0 {
			return "", "", ErrDestination.With(
				slog.String("detail", "no names left behind 'config'"),
				attrGroup(s.groups[0]),
			)
		}
	}

	key = names[0]
	if len(names) > 1 {
		subkey = names[1]
		if len(names) > 2 {
			return "", "", ErrDestination.With(
				slog.String("detail", "too many levels"),
				attrGroup(s.groups[0]),
			)
		}
	}

	return key, subkey, nil
}

// String renders the statement in its canonical surface form. Re-parsing the
// rendered text reproduces an equivalent statement: spaces surround "=", a
// space follows each comma unless a closer follows, commas directly before a
// non-")" closer are dropped, and adjacent names are separated by a space.
func (s *Statement) String() string {
	var sb strings.Builder

	for i, g := range s.groups {
		var next *TokenGroup
		if i+1 < len(s.groups) {
			next = s.groups[i+1]
		}

		lead, trail := false, false

		switch {
		case g.IsOp("="):
			lead, trail = true, true
		case g.IsOp(","):
			if next == nil || !next.ClosesBrace() {
				trail = true
			} else if next.Text != ")" {
				// Trailing comma before "}" or "]" is dropped.
				continue
			}
		case g.OpensBrace() || g.ClosesBrace():
			// tight
		case g.Kind == KindOp:
			trail = true
		case g.Kind == KindName && next != nil && next.Kind == KindName:
			trail = true
		}

		if lead {
			sb.WriteString(" ")
		}

		sb.WriteString(g.Text)

		if trail && next != nil {
			sb.WriteString(" ")
		}
	}

	return sb.String()
}

// Statements splits the group sequence into statements. A terminator ends
// the statement collected so far except when that statement is still empty
// (blank or terminator-only lines), when the immediately preceding group
// opens a brace (multi-line container bodies), or when it is a comma
// (trailing commas before a line break).
//
// A statement consisting solely of leftover closing braces is rejected with
// a grammar error; [WithLenientClosers] on the parse call (or lenient=true
// here) preserves the historical pass-through by dropping such statements
// silently.
//
// Every input ends in a terminator (the end-of-input group counts), so the
// final buffered groups always flush.
func Statements(
	groups iter.Seq2[*TokenGroup, error],
	lenient bool,
) iter.Seq2[*Statement, error] {
	return func(yield func(*Statement, error) bool) {
		var buf []*TokenGroup

		var prev *TokenGroup

		for g, err := range groups {
			if err != nil {
				yield(nil, err)

				return
			}

			if g.IsTerminator() {
				switch {
				case len(buf) == 0:
					// blank line
				case prev != nil && prev.OpensBrace():
					// container body continues
				case prev != nil && prev.IsOp(","):
					// trailing comma continues
				default:
					stmt := &Statement{groups: buf}
					buf = nil

					if allClosers(stmt.groups) {
						if lenient {
							prev = g

							continue
						}

						yield(nil, ErrGrammar.With(
							slog.String("detail", "unmatched closing brace"),
							attrGroup(stmt.groups[0]),
						))

						return
					}

					if !yield(stmt, nil) {
						return
					}
				}

				prev = g

				if g.Kind == KindEnd {
					// A statement still buffered here means the
					// input ran out inside an open container.
					if len(buf) > 0 {
						yield(nil, ErrGrammar.With(
							slog.String("detail", "unterminated statement"),
							attrStatement(&Statement{groups: buf}),
						))
					}

					return
				}

				continue
			}

			buf = append(buf, g)
			prev = g
		}
	}
}

func allClosers(groups []*TokenGroup) bool {
	for _, g := range groups {
		if !g.ClosesBrace() {
			return false
		}
	}

	return len(groups) > 0
}
