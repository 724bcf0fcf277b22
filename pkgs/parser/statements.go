package parser

import (
	"github.com/aledsdavies/adacheck/pkgs/lexer"
)

// stmtList parses: Stmt { Stmt }.
// It stops before END, ELSIF or ELSE and leaves that token for the caller.
func (p *parser) stmtList() (ok bool) {
	defer p.finish(p.start(NodeStmtList))
	defer p.contextOnFailure(&ok, "Syntactic error in statement list.")

	for {
		if !p.stmt() {
			return false
		}

		tok := p.next()
		p.pushBack(tok)
		switch tok.Type {
		case lexer.END, lexer.ELSIF, lexer.ELSE:
			return true
		}
	}
}

// stmt dispatches on the leading token. It is not a construct of its own,
// so it adds no contextual line.
func (p *parser) stmt() bool {
	tok := p.next()
	switch tok.Type {
	case lexer.IDENT:
		return p.assignStmt(tok)
	case lexer.PUT, lexer.PUTLN:
		return p.printStmt(tok)
	case lexer.GET:
		return p.getStmt(tok)
	case lexer.IF:
		return p.ifStmt(tok)
	default:
		p.syntaxError("Invalid statement: unexpected %s.", describe(tok))
		return false
	}
}

// assignStmt parses: IDENT := Expr ;
// The target must already be declared.
func (p *parser) assignStmt(target item) (ok bool) {
	defer p.finish(p.start(NodeAssignStmt))
	defer p.contextOnFailure(&ok, "Invalid assignment statement.")

	if !p.symbols.IsDeclared(target.Lexeme) {
		p.undefinedVariable(target)
		return false
	}
	p.consume(target)

	if !p.expect(lexer.ASSOP, SyntaxError, "Missing Assignment Operator") {
		return false
	}
	if !p.expr() {
		return false
	}
	return p.expect(lexer.SEMICOL, MissingTerminator, "Missing semicolon at end of assignment statement.")
}

// printStmt parses: (PUT | PUTLINE) ( Expr ) ;
func (p *parser) printStmt(keyword item) (ok bool) {
	defer p.finish(p.start(NodePrintStmt))
	defer p.contextOnFailure(&ok, "Invalid put statement.")

	p.consume(keyword)

	if !p.expect(lexer.LPAREN, SyntaxError, "Missing Left Parenthesis") {
		return false
	}
	if !p.expr() {
		return false
	}
	if !p.expect(lexer.RPAREN, MissingTerminator, "Missing Right Parenthesis") {
		return false
	}
	return p.expect(lexer.SEMICOL, MissingTerminator, "Missing semicolon at end of statement")
}

// getStmt parses: GET ( IDENT ) ;
func (p *parser) getStmt(keyword item) (ok bool) {
	defer p.finish(p.start(NodeGetStmt))
	defer p.contextOnFailure(&ok, "Invalid get statement.")

	p.consume(keyword)

	if !p.expect(lexer.LPAREN, SyntaxError, "Missing Left Parenthesis") {
		return false
	}

	tok := p.next()
	if !tok.Is(lexer.IDENT) {
		p.syntaxError("Missing a variable name in get statement: found %s.", describe(tok))
		return false
	}
	if !p.symbols.IsDeclared(tok.Lexeme) {
		p.undefinedVariable(tok)
		return false
	}
	p.consume(tok)

	if !p.expect(lexer.RPAREN, MissingTerminator, "Missing Right Parenthesis") {
		return false
	}
	return p.expect(lexer.SEMICOL, MissingTerminator, "Missing semicolon at end of statement")
}

// ifStmt parses:
//
//	IF Expr THEN StmtList { ELSIF Expr THEN StmtList } [ ELSE StmtList ] END IF ;
func (p *parser) ifStmt(keyword item) (ok bool) {
	defer p.finish(p.start(NodeIfStmt))
	defer p.contextOnFailure(&ok, "Invalid If statement.")

	p.consume(keyword)

	if !p.expr() {
		return false
	}
	if !p.expect(lexer.THEN, SyntaxError, "If-Stmt Syntax Error: missing THEN") {
		return false
	}
	if !p.stmtList() {
		return false
	}

	tok := p.next()
	for tok.Is(lexer.ELSIF) {
		p.consume(tok)
		if !p.expr() {
			return false
		}
		if !p.expect(lexer.THEN, SyntaxError, "Elsif-Stmt Syntax Error: missing THEN") {
			return false
		}
		if !p.stmtList() {
			return false
		}
		tok = p.next()
	}

	if tok.Is(lexer.ELSE) {
		p.consume(tok)
		if !p.stmtList() {
			return false
		}
		tok = p.next()
	}

	if !tok.Is(lexer.END) {
		p.syntaxError("Missing closing END IF for If-statement.")
		return false
	}
	p.consume(tok)

	if !p.expect(lexer.IF, SyntaxError, "Missing IF after END in If-statement.") {
		return false
	}
	return p.expect(lexer.SEMICOL, MissingTerminator, "Missing semicolon at end of If-statement.")
}
