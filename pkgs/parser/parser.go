// Package parser checks the syntax of a single procedure.
//
// The checker is a recursive-descent parser over a pull-based token source
// with one token of pushback. Each production either succeeds or reports and
// fails; there is no recovery, so the first error aborts the parse and every
// enclosing composite production adds one contextual line naming itself.
//
// Grammar:
//
//	Procedure  ::= PROCEDURE IDENT IS ProcBody
//	ProcBody   ::= DeclPart BEGIN StmtList END IDENT ;
//	DeclPart   ::= DeclStmt { DeclStmt }
//	DeclStmt   ::= IDENT {, IDENT} : [CONSTANT] Type [(Range)] [:= Expr] ;
//	StmtList   ::= Stmt { Stmt }
//	Stmt       ::= AssignStmt | PrintStmt | GetStmt | IfStmt
//	Expr       ::= Relation {(AND | OR) Relation}
//	Relation   ::= SimpleExpr [relop SimpleExpr]
//	SimpleExpr ::= STerm {(+ | - | &) STerm}
//	STerm      ::= [+ | -] Term
//	Term       ::= Factor {(* | / | MOD) Factor}
//	Factor     ::= Primary [** [+ | -] Primary] | NOT Primary
//	Primary    ::= Name | literal | ( Expr )
//	Name       ::= IDENT [(Range)]
//	Range      ::= SimpleExpr [. . SimpleExpr]
package parser

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/aledsdavies/adacheck/core/invariant"
	"github.com/aledsdavies/adacheck/pkgs/lexer"
)

// Parse checks one procedure read from lex
func Parse(lex TokenLexer, opts ...ParserOpt) *ParseTree {
	config := defaultConfig()
	for _, opt := range opts {
		opt(config)
	}

	reporter := NewReporter(config.output)
	p := &parser{
		src:      newTokenSource(lex, reporter),
		symbols:  NewSymbolTable(),
		reporter: reporter,
		config:   config,
		logger:   config.logger,
		events:   make([]Event, 0, 128),
	}

	ok := p.procedure()

	invariant.Invariant(p.depth == 0, "unbalanced parse tree: %d nodes left open", p.depth)

	return &ParseTree{
		Tokens:      p.src.tokens,
		Events:      p.events,
		Diagnostics: reporter.Diagnostics(),
		Declared:    p.symbols.Variables(),
		Accepted:    ok && reporter.ErrorCount() == 0,
	}
}

// ParseString checks the procedure in src
func ParseString(src string, opts ...ParserOpt) *ParseTree {
	return Parse(lexer.NewString(src), opts...)
}

// parser is the internal parser state
type parser struct {
	src      *tokenSource
	symbols  *SymbolTable
	reporter *Reporter
	config   *ParserConfig
	logger   *slog.Logger

	events   []Event
	depth    int
	procName string
}

// Helper methods

func (p *parser) next() item {
	return p.src.next()
}

func (p *parser) pushBack(tok item) {
	p.src.pushBack(tok)
}

// start opens a node and returns its kind for the matching finish
func (p *parser) start(kind NodeKind) NodeKind {
	p.events = append(p.events, Event{Kind: EventOpen, Data: uint32(kind)})
	p.depth++
	p.logger.Debug("enter", slog.String("node", kind.String()), slog.Int("line", p.src.line))
	return kind
}

// finish closes the node opened by start
func (p *parser) finish(kind NodeKind) {
	invariant.Invariant(p.depth > 0, "finish(%s) without a matching start", kind)
	p.events = append(p.events, Event{Kind: EventClose, Data: uint32(kind)})
	p.depth--
	p.logger.Debug("exit", slog.String("node", kind.String()), slog.Int("line", p.src.line))
}

// consume attaches tok to the innermost open node
func (p *parser) consume(tok item) {
	p.events = append(p.events, Event{Kind: EventToken, Data: uint32(tok.index)})
}

// expect consumes the next token if it has kind typ, otherwise reports message
func (p *parser) expect(typ lexer.TokenType, kind ErrorKind, message string) bool {
	tok := p.next()
	if !tok.Is(typ) {
		p.report(kind, message)
		return false
	}
	p.consume(tok)
	return true
}

// Error reporting

func (p *parser) report(kind ErrorKind, message string) {
	p.reporter.Report(Diagnostic{Line: p.src.line, Kind: kind, Message: message})
}

func (p *parser) syntaxError(format string, args ...interface{}) {
	p.report(SyntaxError, fmt.Sprintf(format, args...))
}

func (p *parser) missingTerminator(format string, args ...interface{}) {
	p.report(MissingTerminator, fmt.Sprintf(format, args...))
}

// context reports the generic line naming the construct that failed
func (p *parser) context(format string, args ...interface{}) {
	p.reporter.Report(Diagnostic{
		Line:       p.src.line,
		Kind:       SyntaxError,
		Message:    fmt.Sprintf(format, args...),
		Contextual: true,
	})
}

// contextOnFailure is deferred by composite productions with a named result
func (p *parser) contextOnFailure(ok *bool, message string) {
	if !*ok {
		p.context("%s", message)
	}
}

// missingOperand reports a failed operand to the right of op
func (p *parser) missingOperand(op string) {
	p.context("Missing operand after '%s'.", op)
}

func (p *parser) undefinedVariable(tok item) {
	d := Diagnostic{
		Line:    p.src.line,
		Kind:    UndefinedVariable,
		Message: "Using Undefined Variable: " + tok.Lexeme,
	}
	if p.config.suggestions {
		d.Suggestion = p.symbols.Suggest(tok.Lexeme)
	}
	p.reporter.Report(d)
}

// describe names a token inside a message
func describe(tok item) string {
	switch tok.Type {
	case lexer.EOF:
		return "end of file"
	case lexer.SCONST:
		return fmt.Sprintf("\"%s\"", tok.Lexeme)
	default:
		return fmt.Sprintf("'%s'", tok.Lexeme)
	}
}

// Procedure

// procedure parses: PROCEDURE IDENT IS ProcBody
func (p *parser) procedure() (ok bool) {
	defer p.finish(p.start(NodeProcedure))
	defer p.contextOnFailure(&ok, "Incorrect Procedure Definition.")

	if !p.expect(lexer.PROCEDURE, SyntaxError, "Incorrect compilation file.") {
		return false
	}

	name := p.next()
	if !name.Is(lexer.IDENT) {
		p.syntaxError("Missing Procedure Name.")
		return false
	}
	p.consume(name)
	p.procName = name.Lexeme

	err := p.symbols.Declare(name.Lexeme, SymbolProcedure, p.src.line)
	invariant.Invariant(err == nil, "procedure name rejected by an empty table: %v", err)

	if !p.expect(lexer.IS, SyntaxError, "Missing IS keyword after procedure name.") {
		return false
	}

	if !p.procBody() {
		return false
	}

	p.printDeclared()
	return true
}

// printDeclared writes the declared-variables report that ends a successful parse
func (p *parser) printDeclared() {
	out := p.config.output
	fmt.Fprintln(out, "Declared Variables:")
	fmt.Fprintln(out, strings.Join(p.symbols.Variables(), ", "))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "(DONE)")
}

// procBody parses: DeclPart BEGIN StmtList END IDENT ;
func (p *parser) procBody() (ok bool) {
	defer p.finish(p.start(NodeProcBody))
	defer p.contextOnFailure(&ok, "Incorrect procedure body.")

	if !p.declPart() {
		return false
	}
	if !p.expect(lexer.BEGIN, SyntaxError, "Missing BEGIN keyword in procedure body.") {
		return false
	}
	if !p.stmtList() {
		return false
	}
	if !p.expect(lexer.END, SyntaxError, "Missing END keyword at end of procedure body.") {
		return false
	}

	name := p.next()
	if !name.Is(lexer.IDENT) {
		p.syntaxError("Missing procedure name after END.")
		return false
	}
	if !strings.EqualFold(name.Lexeme, p.procName) {
		p.syntaxError("Procedure name mismatch: expected %s, got %s.", p.procName, name.Lexeme)
		return false
	}
	p.consume(name)

	return p.expect(lexer.SEMICOL, MissingTerminator, "Missing semicolon at end of procedure.")
}

// Declarations

// declPart parses: DeclStmt { DeclStmt }, stopping before BEGIN
func (p *parser) declPart() (ok bool) {
	defer p.finish(p.start(NodeDeclPart))
	defer p.contextOnFailure(&ok, "Non-recognizable Declaration Part.")

	for {
		pulled := p.src.pulled()
		if !p.declStmt() {
			return false
		}
		invariant.Invariant(p.src.pulled() > pulled, "declaration consumed no tokens")

		tok := p.next()
		p.pushBack(tok)
		if tok.Is(lexer.BEGIN) {
			return true
		}
	}
}

// declStmt parses: IDENT {, IDENT} : [CONSTANT] Type [(Range)] [:= Expr] ;
func (p *parser) declStmt() (ok bool) {
	defer p.finish(p.start(NodeDeclStmt))

	construct := "Incorrect identifiers list in Declaration Statement."
	defer func() {
		if !ok {
			p.context("%s", construct)
		}
	}()

	tok := p.next()
	if !tok.Is(lexer.IDENT) {
		p.syntaxError("Missing identifier in declaration statement: found %s.", describe(tok))
		return false
	}
	if !p.declareVariable(tok) {
		return false
	}

	tok = p.next()
	for tok.Is(lexer.COMMA) {
		p.consume(tok)
		tok = p.next()
		if !tok.Is(lexer.IDENT) {
			p.syntaxError("Missing identifier after comma: found %s.", describe(tok))
			return false
		}
		if !p.declareVariable(tok) {
			return false
		}
		tok = p.next()
	}

	if tok.Is(lexer.IDENT) {
		p.syntaxError("Missing comma in declaration statement.")
		return false
	}
	if !tok.Is(lexer.COLON) {
		p.syntaxError("Invalid name for an Identifier: (%s)", tok.Lexeme)
		return false
	}
	p.consume(tok)

	construct = "Incorrect Declaration Statement."

	tok = p.next()
	if tok.Is(lexer.CONST) {
		p.consume(tok)
	} else {
		p.pushBack(tok)
	}

	if !p.typeSpec() {
		return false
	}

	tok = p.next()
	if tok.Is(lexer.LPAREN) {
		p.consume(tok)
		if !p.rangeExpr() {
			return false
		}
		if !p.expect(lexer.RPAREN, MissingTerminator, "Missing right parenthesis after range in declaration.") {
			return false
		}
		tok = p.next()
	}

	if tok.Is(lexer.ASSOP) {
		p.consume(tok)
		if !p.expr() {
			return false
		}
		tok = p.next()
	}

	if !tok.Is(lexer.SEMICOL) {
		p.missingTerminator("Missing semicolon at end of declaration statement.")
		return false
	}
	p.consume(tok)
	return true
}

// declareVariable adds tok to the symbol table and consumes it
func (p *parser) declareVariable(tok item) bool {
	if err := p.symbols.Declare(tok.Lexeme, SymbolVariable, p.src.line); err != nil {
		p.logger.Debug("redeclaration", slog.String("error", err.Error()))
		prev, _ := p.symbols.Lookup(tok.Lexeme)
		p.report(DuplicateDeclaration, fmt.Sprintf("Variable Redefinition: %s (first declared at line %d)", tok.Lexeme, prev.Line))
		return false
	}
	p.consume(tok)
	return true
}

// typeSpec parses: INTEGER | FLOAT | BOOLEAN | STRING | CHARACTER
func (p *parser) typeSpec() bool {
	defer p.finish(p.start(NodeType))

	tok := p.next()
	if !tok.Type.IsType() {
		p.syntaxError("Incorrect Declaration Type: %s.", describe(tok))
		return false
	}
	p.consume(tok)
	return true
}
