package parser

import (
	"fmt"

	"github.com/aledsdavies/adacheck/core/invariant"
	"github.com/aledsdavies/adacheck/pkgs/lexer"
)

// TokenLexer supplies tokens one at a time.
// It must keep returning EOF once the input is exhausted.
type TokenLexer interface {
	NextToken() lexer.Token
}

// item is a token together with its position in the pulled-token list
type item struct {
	lexer.Token
	index int
}

// tokenSource wraps a TokenLexer with a single-slot pushback buffer.
// It tracks the line of the most recently pulled token for diagnostics and
// reports every ILLEGAL token the first time it is pulled.
type tokenSource struct {
	lex      TokenLexer
	reporter *Reporter
	pending  *item
	line     int
	tokens   []lexer.Token
}

func newTokenSource(lex TokenLexer, reporter *Reporter) *tokenSource {
	invariant.NotNil(lex, "lexer")
	invariant.NotNil(reporter, "reporter")
	return &tokenSource{lex: lex, reporter: reporter, line: 1}
}

// next returns the pushed-back token if there is one, otherwise pulls from the lexer
func (s *tokenSource) next() item {
	if s.pending != nil {
		tok := *s.pending
		s.pending = nil
		return tok
	}

	tok := s.lex.NextToken()
	if tok.Line > 0 {
		s.line = tok.Line
	}
	it := item{Token: tok, index: len(s.tokens)}
	s.tokens = append(s.tokens, tok)

	if tok.Is(lexer.ILLEGAL) {
		s.reporter.Report(Diagnostic{
			Line:    s.line,
			Kind:    LexicalError,
			Message: fmt.Sprintf("Unrecognized Input Pattern (%s)", tok.Lexeme),
		})
	}
	return it
}

// pushBack returns tok to the source so the next call to next yields it again.
// Only one token may be pending.
func (s *tokenSource) pushBack(tok item) {
	invariant.Invariant(s.pending == nil, "pushback slot already holds %v", s.pending)
	s.pending = &tok
}

// pulled returns how many tokens have been read from the lexer
func (s *tokenSource) pulled() int {
	return len(s.tokens)
}
