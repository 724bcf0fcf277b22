package lexer

import (
	"fmt"
	"strings"
)

// TokenType represents the kind of a token in the procedure language
type TokenType int

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Structure keywords
	PROCEDURE // procedure
	IS        // is
	BEGIN     // begin
	END       // end
	IF        // if
	THEN      // then
	ELSIF     // elsif
	ELSE      // else
	GET       // get
	PUT       // put
	PUTLN     // putline
	CONST     // constant

	// Logical and multiplicative keywords
	AND // and
	OR  // or
	NOT // not
	MOD // mod

	// Type keywords
	INT    // integer
	FLOAT  // float
	BOOL   // boolean
	STRING // string
	CHAR   // character

	// Operators
	ASSOP  // :=
	EQ     // =
	NEQ    // /=
	LTHAN  // <
	LTE    // <=
	GTHAN  // >
	GTE    // >=
	PLUS   // +
	MINUS  // -
	MULT   // *
	DIV    // /
	EXP    // **
	CONCAT // &

	// Punctuation
	LPAREN  // (
	RPAREN  // )
	COMMA   // ,
	COLON   // :
	SEMICOL // ;
	DOT     // .

	// Identifiers and literals
	IDENT  // X, total_1
	ICONST // 42
	FCONST // 3.14, 1.5E-3
	SCONST // "hello"
	BCONST // true, false
	CCONST // 'c'
)

var tokenNames = [...]string{
	EOF:       "EOF",
	ILLEGAL:   "ILLEGAL",
	PROCEDURE: "PROCEDURE",
	IS:        "IS",
	BEGIN:     "BEGIN",
	END:       "END",
	IF:        "IF",
	THEN:      "THEN",
	ELSIF:     "ELSIF",
	ELSE:      "ELSE",
	GET:       "GET",
	PUT:       "PUT",
	PUTLN:     "PUTLN",
	CONST:     "CONST",
	AND:       "AND",
	OR:        "OR",
	NOT:       "NOT",
	MOD:       "MOD",
	INT:       "INT",
	FLOAT:     "FLOAT",
	BOOL:      "BOOL",
	STRING:    "STRING",
	CHAR:      "CHAR",
	ASSOP:     "ASSOP",
	EQ:        "EQ",
	NEQ:       "NEQ",
	LTHAN:     "LTHAN",
	LTE:       "LTE",
	GTHAN:     "GTHAN",
	GTE:       "GTE",
	PLUS:      "PLUS",
	MINUS:     "MINUS",
	MULT:      "MULT",
	DIV:       "DIV",
	EXP:       "EXP",
	CONCAT:    "CONCAT",
	LPAREN:    "LPAREN",
	RPAREN:    "RPAREN",
	COMMA:     "COMMA",
	COLON:     "COLON",
	SEMICOL:   "SEMICOL",
	DOT:       "DOT",
	IDENT:     "IDENT",
	ICONST:    "ICONST",
	FCONST:    "FCONST",
	SCONST:    "SCONST",
	BCONST:    "BCONST",
	CCONST:    "CCONST",
}

func (t TokenType) String() string {
	if int(t) < len(tokenNames) && int(t) >= 0 {
		return tokenNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// keywords maps the lower-cased spelling of each reserved word to its kind.
// Boolean literals share the table so identifiers and keywords are resolved in one lookup.
var keywords = map[string]TokenType{
	"procedure": PROCEDURE,
	"is":        IS,
	"begin":     BEGIN,
	"end":       END,
	"if":        IF,
	"then":      THEN,
	"elsif":     ELSIF,
	"else":      ELSE,
	"get":       GET,
	"put":       PUT,
	"putline":   PUTLN,
	"constant":  CONST,
	"and":       AND,
	"or":        OR,
	"not":       NOT,
	"mod":       MOD,
	"integer":   INT,
	"float":     FLOAT,
	"boolean":   BOOL,
	"string":    STRING,
	"character": CHAR,
	"true":      BCONST,
	"false":     BCONST,
}

// LookupIdent returns the keyword kind for word, or IDENT if word is not reserved
func LookupIdent(word string) TokenType {
	if typ, ok := keywords[strings.ToLower(word)]; ok {
		return typ
	}
	return IDENT
}

// IsKeyword reports whether t is a reserved word
func (t TokenType) IsKeyword() bool {
	return t >= PROCEDURE && t <= CHAR
}

// IsType reports whether t names one of the declarable types
func (t TokenType) IsType() bool {
	switch t {
	case INT, FLOAT, BOOL, STRING, CHAR:
		return true
	}
	return false
}

// IsLiteral reports whether t is a constant literal
func (t TokenType) IsLiteral() bool {
	switch t {
	case ICONST, FCONST, SCONST, BCONST, CCONST:
		return true
	}
	return false
}

// IsRelational reports whether t is a comparison operator
func (t TokenType) IsRelational() bool {
	switch t {
	case EQ, NEQ, LTHAN, LTE, GTHAN, GTE:
		return true
	}
	return false
}

// Token is an immutable lexical unit: its kind, its source text and the line it started on
type Token struct {
	Type   TokenType
	Lexeme string
	Line   int
}

// Is reports whether the token has the given kind
func (t Token) Is(typ TokenType) bool {
	return t.Type == typ
}

// String renders the token for debugging: TYPE("lexeme")@line
func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d", t.Type, t.Lexeme, t.Line)
}
