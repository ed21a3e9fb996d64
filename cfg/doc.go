// Package cfg interprets the parsecfg configuration DSL and converts it into
// a nested configuration tree (mappings, sequences, tuples, scalars) suitable
// for driving a document-conversion service's convert settings.
//
// The front end is a chain of lazy, forward-only producers:
//
//	text -> tokens -> token groups -> statements -> configuration tree
//
// [Groups] merges raw lexical tokens into semantic units (a dotted name run,
// an operator or brace, a literal, a terminator). [Statements] splits the
// group stream into [Statement] values at terminators, with brace-nesting and
// trailing-comma awareness so multi-line container bodies survive intact.
// [Parse] (and its [ParseString], [ParseReader], and [ParseFile] conveniences)
// drives the stream, dispatching assignments to an [Assembler] and everything
// else to an optional convert hook or an unused-statement collector.
//
// Each stage pulls one unit from its upstream only when its downstream asks
// for the next item, so a caller may begin consuming output from a large text
// without buffering the whole token stream. The pipeline is fully synchronous
// and single pass; a caller stops by ceasing to request the next item.
package cfg
