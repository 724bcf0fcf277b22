package parser

import (
	"github.com/aledsdavies/adacheck/pkgs/lexer"
)

// Precedence, loosest first:
//
//	and or
//	= /= < <= > >=   (non-associative: at most one per relation)
//	+ - &            (binary)
//	+ -              (unary sign, once per term)
//	* / mod
//	**  not
//
// Each level reports nothing when its leading operand fails; that operand
// already explained itself. A failed trailing operand adds "Missing operand
// after '<op>'.".

// expr parses: Relation {(AND | OR) Relation}
func (p *parser) expr() bool {
	defer p.finish(p.start(NodeExpr))

	if !p.relation() {
		return false
	}

	tok := p.next()
	if tok.Is(lexer.IDENT) {
		// TODO: decide whether an identifier here should end the expression
		// for the caller to reject, instead of failing the expression itself.
		p.syntaxError("Missing operator before %s.", describe(tok))
		return false
	}

	for tok.Is(lexer.AND) || tok.Is(lexer.OR) {
		p.consume(tok)
		if !p.relation() {
			p.missingOperand(tok.Lexeme)
			return false
		}
		tok = p.next()
	}

	p.pushBack(tok)
	return true
}

// relation parses: SimpleExpr [relop SimpleExpr]
func (p *parser) relation() bool {
	defer p.finish(p.start(NodeRelation))

	if !p.simpleExpr() {
		return false
	}

	tok := p.next()
	if !tok.Type.IsRelational() {
		p.pushBack(tok)
		return true
	}
	p.consume(tok)

	if !p.simpleExpr() {
		p.missingOperand(tok.Lexeme)
		return false
	}
	return true
}

// simpleExpr parses: STerm {(+ | - | &) STerm}
func (p *parser) simpleExpr() bool {
	defer p.finish(p.start(NodeSimpleExpr))

	if !p.sTerm() {
		return false
	}

	tok := p.next()
	for tok.Is(lexer.PLUS) || tok.Is(lexer.MINUS) || tok.Is(lexer.CONCAT) {
		p.consume(tok)
		if !p.sTerm() {
			p.missingOperand(tok.Lexeme)
			return false
		}
		tok = p.next()
	}

	p.pushBack(tok)
	return true
}

// sTerm parses: [+ | -] Term.
// The sign is carried down to the operand but never applied; the checker
// evaluates nothing.
func (p *parser) sTerm() bool {
	defer p.finish(p.start(NodeSTerm))

	sign := 1
	tok := p.next()
	switch tok.Type {
	case lexer.MINUS:
		sign = -1
		p.consume(tok)
	case lexer.PLUS:
		p.consume(tok)
	default:
		p.pushBack(tok)
	}
	return p.term(sign)
}

// term parses: Factor {(* | / | MOD) Factor}
func (p *parser) term(sign int) bool {
	defer p.finish(p.start(NodeTerm))

	if !p.factor(sign) {
		return false
	}

	tok := p.next()
	for tok.Is(lexer.MULT) || tok.Is(lexer.DIV) || tok.Is(lexer.MOD) {
		p.consume(tok)
		if !p.factor(sign) {
			p.missingOperand(tok.Lexeme)
			return false
		}
		tok = p.next()
	}

	p.pushBack(tok)
	return true
}

// factor parses: Primary [** [+ | -] Primary] | NOT Primary
func (p *parser) factor(sign int) bool {
	defer p.finish(p.start(NodeFactor))

	tok := p.next()
	if tok.Is(lexer.NOT) {
		p.consume(tok)
		if !p.primary(sign) {
			p.missingOperand(tok.Lexeme)
			return false
		}
		return true
	}
	p.pushBack(tok)

	if !p.primary(sign) {
		return false
	}

	op := p.next()
	if !op.Is(lexer.EXP) {
		p.pushBack(op)
		return true
	}
	p.consume(op)

	exponentSign := 1
	tok = p.next()
	switch tok.Type {
	case lexer.MINUS:
		exponentSign = -1
		p.consume(tok)
	case lexer.PLUS:
		p.consume(tok)
	default:
		p.pushBack(tok)
	}

	if !p.primary(exponentSign) {
		p.missingOperand(op.Lexeme)
		return false
	}
	return true
}

// primary parses: Name | literal | ( Expr ).
// A name must refer to a declared variable.
func (p *parser) primary(sign int) bool {
	defer p.finish(p.start(NodePrimary))

	tok := p.next()
	switch {
	case tok.Is(lexer.IDENT):
		if !p.symbols.IsDeclared(tok.Lexeme) {
			p.undefinedVariable(tok)
			p.context("Invalid reference to a variable.")
			return false
		}
		p.pushBack(tok)
		return p.name()

	case tok.Type.IsLiteral():
		p.consume(tok)
		return true

	case tok.Is(lexer.LPAREN):
		p.consume(tok)
		if !p.expr() {
			p.context("Invalid expression in parentheses.")
			return false
		}
		return p.expect(lexer.RPAREN, MissingTerminator, "Missing right parenthesis after expression")

	default:
		p.syntaxError("Invalid Expression: unexpected %s.", describe(tok))
		return false
	}
}

// name parses: IDENT [(Range)]
func (p *parser) name() bool {
	defer p.finish(p.start(NodeName))

	ident := p.next()
	if !ident.Is(lexer.IDENT) {
		p.syntaxError("Missing identifier: found %s.", describe(ident))
		return false
	}
	p.consume(ident)

	tok := p.next()
	if !tok.Is(lexer.LPAREN) {
		p.pushBack(tok)
		return true
	}
	p.consume(tok)

	if !p.rangeExpr() {
		p.context("Invalid subscript for '%s'.", ident.Lexeme)
		return false
	}
	return p.expect(lexer.RPAREN, MissingTerminator, "Missing right parenthesis after subscript of '"+ident.Lexeme+"'.")
}

// rangeExpr parses: SimpleExpr [. . SimpleExpr]
func (p *parser) rangeExpr() bool {
	defer p.finish(p.start(NodeRange))

	if !p.simpleExpr() {
		return false
	}

	tok := p.next()
	if !tok.Is(lexer.DOT) {
		p.pushBack(tok)
		return true
	}
	p.consume(tok)

	second := p.next()
	if !second.Is(lexer.DOT) {
		p.syntaxError("Invalid range: expected '..' but found '.' followed by %s.", describe(second))
		return false
	}
	p.consume(second)

	if !p.simpleExpr() {
		p.missingOperand("..")
		return false
	}
	return true
}
