package lexer

import (
	"fmt"
	"io"
	"log/slog"
	"unicode"
	"unicode/utf8"
)

// ASCII character lookup tables for fast classification
var (
	isWhitespace     [128]bool
	isLetter         [128]bool
	isDigit          [128]bool
	isIdentStart     [128]bool
	isIdentPart      [128]bool
	singleCharTokens [128]TokenType // Tokens that never combine with the next character
)

func init() {
	for i := 0; i < 128; i++ {
		ch := byte(i)
		isWhitespace[i] = ch == ' ' || ch == '\t' || ch == '\r' || ch == '\f' || ch == '\v' || ch == '\n'
		isLetter[i] = ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
		isDigit[i] = '0' <= ch && ch <= '9'
		isIdentStart[i] = isLetter[i]
		isIdentPart[i] = isLetter[i] || isDigit[i] || ch == '_'
		singleCharTokens[i] = ILLEGAL
	}

	singleCharTokens['='] = EQ
	singleCharTokens['+'] = PLUS
	singleCharTokens['&'] = CONCAT
	singleCharTokens['('] = LPAREN
	singleCharTokens[')'] = RPAREN
	singleCharTokens[','] = COMMA
	singleCharTokens[';'] = SEMICOL
	singleCharTokens['.'] = DOT
}

// Opt configures a Lexer
type Opt func(*Lexer)

// WithLogger routes lexer debug tracing to logger
func WithLogger(logger *slog.Logger) Opt {
	return func(l *Lexer) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Lexer turns source text into tokens on demand.
// It never fails: unrecognized input becomes an ILLEGAL token and the end of
// input is an endless run of EOF tokens.
type Lexer struct {
	input    string // Complete input
	position int    // Byte offset of ch
	readPos  int    // Byte offset of the next rune
	ch       rune   // Current rune, 0 at end of input
	invalid  bool   // ch is utf8.RuneError standing in for one undecodable byte
	line     int    // Line of ch, 1-based

	logger *slog.Logger
}

// New creates a Lexer reading all of reader up front.
// A read error yields a lexer over whatever was read before the failure.
func New(reader io.Reader, opts ...Opt) *Lexer {
	data, err := io.ReadAll(reader)
	l := newLexer(string(data), opts...)
	if err != nil {
		l.logger.Debug("input read failed", slog.String("error", err.Error()))
	}
	return l
}

// NewString creates a Lexer over src
func NewString(src string, opts ...Opt) *Lexer {
	return newLexer(src, opts...)
}

func newLexer(src string, opts ...Opt) *Lexer {
	l := &Lexer{
		input:  src,
		line:   1,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.readChar()
	return l
}

// Tokenize lexes the remaining input, including the final EOF token
func (l *Lexer) Tokenize() []Token {
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens
		}
	}
}

// readChar advances to the next rune, counting lines as newlines are passed
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
	}

	l.position = l.readPos
	l.invalid = false
	if l.readPos >= len(l.input) {
		l.ch = 0
		return
	}

	ch, size := utf8.DecodeRuneInString(l.input[l.readPos:])
	l.invalid = ch == utf8.RuneError && size == 1
	l.ch = ch
	l.readPos += size
}

// atEOF reports whether the whole input has been consumed.
// A NUL byte in the input also reads as ch == 0, so ch alone cannot tell.
func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

// peekAt returns the rune n positions after ch without advancing (ASCII lookahead only)
func (l *Lexer) peekAt(n int) rune {
	pos := l.position + n
	if pos >= len(l.input) {
		return 0
	}
	return rune(l.input[pos])
}

func (l *Lexer) peekChar() rune {
	return l.peekAt(1)
}

// skipWhitespace skips blanks, newlines and "--" comments
func (l *Lexer) skipWhitespace() {
	for !l.atEOF() {
		switch {
		case l.ch < 128 && isWhitespace[l.ch]:
			l.readChar()
		case l.ch >= 128 && unicode.IsSpace(l.ch):
			l.readChar()
		case l.ch == '-' && l.peekChar() == '-':
			for l.ch != '\n' && !l.atEOF() {
				l.readChar()
			}
		default:
			return
		}
	}
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() Token {
	tok := l.lex()
	l.logger.Debug("token", slog.String("type", tok.Type.String()), slog.String("lexeme", tok.Lexeme), slog.Int("line", tok.Line))
	return tok
}

func (l *Lexer) lex() Token {
	l.skipWhitespace()

	start := l.position
	line := l.line

	if l.atEOF() {
		return Token{Type: EOF, Line: line}
	}
	if l.invalid || isControl(l.ch) {
		return l.lexIllegalByte(start, line)
	}

	if l.ch < 128 {
		if typ := singleCharTokens[l.ch]; typ != ILLEGAL {
			l.readChar()
			return Token{Type: typ, Lexeme: l.input[start:l.position], Line: line}
		}
	}

	switch l.ch {
	case ':':
		return l.lexPair('=', COLON, ASSOP, start, line)
	case '/':
		return l.lexPair('=', DIV, NEQ, start, line)
	case '<':
		return l.lexPair('=', LTHAN, LTE, start, line)
	case '>':
		return l.lexPair('=', GTHAN, GTE, start, line)
	case '*':
		return l.lexPair('*', MULT, EXP, start, line)
	case '-':
		l.readChar()
		return Token{Type: MINUS, Lexeme: "-", Line: line}
	case '"':
		return l.lexString(start, line)
	case '\'':
		return l.lexChar(start, line)
	}

	if (l.ch < 128 && isIdentStart[l.ch]) || (l.ch >= 128 && unicode.IsLetter(l.ch)) {
		return l.lexIdentifierOrKeyword(start, line)
	}
	if l.ch < 128 && isDigit[l.ch] {
		return l.lexNumber(start, line)
	}

	l.readChar()
	return Token{Type: ILLEGAL, Lexeme: l.input[start:l.position], Line: line}
}

// lexIllegalByte turns one undecodable byte or control character into an
// ILLEGAL token whose lexeme is a printable \xNN escape
func (l *Lexer) lexIllegalByte(start, line int) Token {
	l.readChar()
	return Token{Type: ILLEGAL, Lexeme: escapeByte(l.input[start]), Line: line}
}

func escapeByte(b byte) string {
	return fmt.Sprintf("\\x%02x", b)
}

// isControl reports ASCII control characters that are not whitespace
func isControl(ch rune) bool {
	return (ch < 0x20 && !isWhitespace[ch]) || ch == 0x7f
}

// lexPair lexes a one-character operator that becomes a two-character one when followed by next
func (l *Lexer) lexPair(next rune, single, double TokenType, start, line int) Token {
	l.readChar()
	typ := single
	if l.ch == next {
		l.readChar()
		typ = double
	}
	return Token{Type: typ, Lexeme: l.input[start:l.position], Line: line}
}

// lexIdentifierOrKeyword handles identifiers, keywords and boolean literals
func (l *Lexer) lexIdentifierOrKeyword(start, line int) Token {
	for {
		if l.ch < 128 && isIdentPart[l.ch] {
			l.readChar()
		} else if l.ch >= 128 && (unicode.IsLetter(l.ch) || unicode.IsDigit(l.ch)) {
			l.readChar()
		} else {
			break
		}
	}

	value := l.input[start:l.position]
	return Token{Type: LookupIdent(value), Lexeme: value, Line: line}
}

// lexNumber handles integer and float literals.
// A dot only continues the number when a digit follows it, so "1..10" stays a range.
func (l *Lexer) lexNumber(start, line int) Token {
	typ := ICONST
	l.skipDigits()

	if l.ch == '.' && isASCIIDigit(l.peekChar()) {
		typ = FCONST
		l.readChar()
		l.skipDigits()

		if l.ch == 'e' || l.ch == 'E' {
			switch {
			case isASCIIDigit(l.peekChar()):
				l.readChar()
				l.skipDigits()
			case (l.peekChar() == '+' || l.peekChar() == '-') && isASCIIDigit(l.peekAt(2)):
				l.readChar()
				l.readChar()
				l.skipDigits()
			}
		}
	}

	return Token{Type: typ, Lexeme: l.input[start:l.position], Line: line}
}

func (l *Lexer) skipDigits() {
	for l.ch < 128 && isDigit[l.ch] {
		l.readChar()
	}
}

func isASCIIDigit(ch rune) bool {
	return ch >= 0 && ch < 128 && isDigit[ch]
}

// lexString handles "..." literals, which may not span lines.
// The lexeme is the content without quotes. A literal holding bytes that are
// not UTF-8 is ILLEGAL as a whole.
func (l *Lexer) lexString(start, line int) Token {
	l.readChar()
	contentStart := l.position

	valid := true
	for l.ch != '"' && l.ch != '\n' && !l.atEOF() {
		if l.invalid || isControl(l.ch) {
			valid = false
		}
		l.readChar()
	}

	if l.ch != '"' {
		return Token{Type: ILLEGAL, Lexeme: l.input[start:l.position], Line: line}
	}
	if !valid {
		content := l.input[contentStart:l.position]
		l.readChar()
		return Token{Type: ILLEGAL, Lexeme: fmt.Sprintf("%q", content), Line: line}
	}

	value := l.input[contentStart:l.position]
	l.readChar()
	return Token{Type: SCONST, Lexeme: value, Line: line}
}

// lexChar handles 'c' literals holding exactly one character
func (l *Lexer) lexChar(start, line int) Token {
	l.readChar()
	if l.atEOF() || l.ch == '\n' {
		return Token{Type: ILLEGAL, Lexeme: l.input[start:l.position], Line: line}
	}
	if l.invalid || isControl(l.ch) {
		b := l.input[l.position]
		l.readChar()
		return Token{Type: ILLEGAL, Lexeme: "'" + escapeByte(b), Line: line}
	}

	contentStart := l.position
	l.readChar()
	if l.ch != '\'' {
		return Token{Type: ILLEGAL, Lexeme: l.input[start:l.position], Line: line}
	}

	value := l.input[contentStart:l.position]
	l.readChar()
	return Token{Type: CCONST, Lexeme: value, Line: line}
}
