package parser

import (
	"fmt"
	"io"
)

// ErrorKind classifies a diagnostic
type ErrorKind int

const (
	SyntaxError          ErrorKind = iota // Grammar violation
	DuplicateDeclaration                  // Name declared twice
	UndefinedVariable                     // Name used without a declaration
	MissingTerminator                     // Missing ';' or ')'
	LexicalError                          // Unrecognized input pattern
)

func (k ErrorKind) String() string {
	switch k {
	case SyntaxError:
		return "syntax error"
	case DuplicateDeclaration:
		return "duplicate declaration"
	case UndefinedVariable:
		return "undefined variable"
	case MissingTerminator:
		return "missing terminator"
	case LexicalError:
		return "lexical error"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Diagnostic is one reported problem.
// Contextual diagnostics name the enclosing construct that failed; the
// specific diagnostic that caused them is always reported first.
type Diagnostic struct {
	Line       int       // Source line the token source was on when the problem was found
	Kind       ErrorKind // Classification
	Message    string    // Human-readable message
	Contextual bool      // True for the generic line added by an enclosing production
	Suggestion string    // Closest declared name, for undefined variables
}

// String renders the diagnostic the way it is printed: "<line>: <message>"
func (d Diagnostic) String() string {
	return fmt.Sprintf("%d: %s", d.Line, d.Message)
}

// Reporter counts diagnostics and writes each one as soon as it is reported
type Reporter struct {
	out         io.Writer
	diagnostics []Diagnostic
}

// NewReporter creates a Reporter writing to out. A nil out discards output.
func NewReporter(out io.Writer) *Reporter {
	if out == nil {
		out = io.Discard
	}
	return &Reporter{out: out}
}

// Report records d and prints it
func (r *Reporter) Report(d Diagnostic) {
	r.diagnostics = append(r.diagnostics, d)
	fmt.Fprintln(r.out, d.String())
	if d.Suggestion != "" {
		fmt.Fprintf(r.out, "   did you mean '%s'?\n", d.Suggestion)
	}
}

// ErrorCount returns the number of diagnostics reported so far
func (r *Reporter) ErrorCount() int {
	return len(r.diagnostics)
}

// Diagnostics returns the diagnostics in the order they were reported
func (r *Reporter) Diagnostics() []Diagnostic {
	return r.diagnostics
}
