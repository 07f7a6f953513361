package parser

import (
	"fmt"
	"strings"

	"github.com/bird-bench/mini-dev/pkg/dialect"
	"github.com/bird-bench/mini-dev/pkg/token"
)

// Lexer tokenizes SQL input.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)

	dialect *dialect.Dialect

	// Errors collected while scanning. Scanning never stops early; the
	// parser reports the first lexer error ahead of its own errors.
	Errors []error
}

// NewLexer creates a Lexer for input using the default dialect.
func NewLexer(input string) *Lexer {
	return NewLexerWithDialect(input, dialect.Default())
}

// NewLexerWithDialect creates a dialect-aware Lexer for input.
func NewLexerWithDialect(input string, d *dialect.Dialect) *Lexer {
	if d == nil {
		d = dialect.Default()
	}
	l := &Lexer{
		input:   input,
		line:    1,
		col:     0,
		dialect: d,
	}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++

	if l.ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

func (l *Lexer) errorf(pos token.Position, format string, args ...any) {
	l.Errors = append(l.Errors, &LexError{Pos: pos, Message: fmt.Sprintf(format, args...)})
}

// NextToken returns the next token.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	pos := l.currentPos()

	if l.atEOF() {
		return token.Token{Type: token.EOF, Pos: pos}
	}

	// Dialect identifier quotes take precedence over operators, so that
	// [x] is an identifier in sqlite.
	if closing, ok := l.dialect.IdentQuote(l.ch); ok {
		return token.Token{Type: token.IDENT, Literal: l.readQuoted(closing, pos), Pos: pos, Quoted: true}
	}

	switch l.ch {
	case '+':
		return l.single(token.PLUS, pos)
	case '-':
		if l.peekChar() == '>' {
			l.readChar()
			if l.peekChar() == '>' {
				l.readChar()
				return l.multi(token.DARROW, "->>", pos)
			}
			return l.multi(token.ARROW, "->", pos)
		}
		return l.single(token.MINUS, pos)
	case '*':
		return l.single(token.STAR, pos)
	case '/':
		return l.single(token.SLASH, pos)
	case '%':
		return l.single(token.PERCENT, pos)
	case '~':
		return l.single(token.TILDE, pos)
	case '&':
		return l.single(token.AMP, pos)
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			return l.multi(token.EQ, "==", pos)
		}
		return l.single(token.EQ, pos)
	case '<':
		switch l.peekChar() {
		case '=':
			l.readChar()
			return l.multi(token.LE, "<=", pos)
		case '>':
			l.readChar()
			return l.multi(token.NE, "<>", pos)
		case '<':
			l.readChar()
			return l.multi(token.LSHIFT, "<<", pos)
		}
		return l.single(token.LT, pos)
	case '>':
		switch l.peekChar() {
		case '=':
			l.readChar()
			return l.multi(token.GE, ">=", pos)
		case '>':
			l.readChar()
			return l.multi(token.RSHIFT, ">>", pos)
		}
		return l.single(token.GT, pos)
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			return l.multi(token.NE, "!=", pos)
		}
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			return l.multi(token.DPIPE, "||", pos)
		}
		return l.single(token.PIPE, pos)
	case '.':
		if isDigit(l.peekChar()) {
			return token.Token{Type: token.NUMBER, Literal: l.readNumber(), Pos: pos}
		}
		return l.single(token.DOT, pos)
	case ',':
		return l.single(token.COMMA, pos)
	case ';':
		return l.single(token.SEMICOLON, pos)
	case '(':
		return l.single(token.LPAREN, pos)
	case ')':
		return l.single(token.RPAREN, pos)
	case ':':
		if l.peekChar() == ':' {
			l.readChar()
			return l.multi(token.DCOLON, "::", pos)
		}
		if isIdentStart(l.peekChar()) {
			return token.Token{Type: token.PARAM, Literal: l.readParam(), Pos: pos}
		}
	case '?':
		return token.Token{Type: token.PARAM, Literal: l.readParam(), Pos: pos}
	case '@', '$':
		if isIdentChar(l.peekChar()) {
			return token.Token{Type: token.PARAM, Literal: l.readParam(), Pos: pos}
		}
	case '\'':
		return token.Token{Type: token.STRING, Literal: l.readString(pos), Pos: pos}
	case '"', '`':
		// Not an identifier quote in this dialect, so it delimits a string.
		return token.Token{Type: token.STRING, Literal: l.readQuoted(l.ch, pos), Pos: pos}
	}

	switch {
	case (l.ch == 'x' || l.ch == 'X') && l.peekChar() == '\'':
		l.readChar()
		return token.Token{Type: token.BLOB, Literal: l.readString(pos), Pos: pos}
	case isIdentStart(l.ch):
		literal := l.readIdentifier()
		return token.Token{Type: l.lookupKeyword(literal), Literal: literal, Pos: pos}
	case isDigit(l.ch):
		return token.Token{Type: token.NUMBER, Literal: l.readNumber(), Pos: pos}
	}

	ch := l.ch
	l.errorf(pos, ErrUnexpectedCharacter, ch)
	l.readChar()
	return token.Token{Type: token.ILLEGAL, Literal: string(ch), Pos: pos}
}

// lookupKeyword maps an unquoted word to a core keyword, then to one of the
// dialect's optional keywords, else IDENT.
func (l *Lexer) lookupKeyword(literal string) token.TokenType {
	lower := strings.ToLower(literal)
	if t := token.LookupIdent(lower); t != token.IDENT {
		return t
	}
	if t, ok := l.dialect.LookupKeyword(lower); ok {
		return t
	}
	return token.IDENT
}

// single consumes the current character as a one-character token.
func (l *Lexer) single(t token.TokenType, pos token.Position) token.Token {
	lit := string(l.ch)
	l.readChar()
	return token.Token{Type: t, Literal: lit, Pos: pos}
}

// multi finishes a token whose last character is under examination.
func (l *Lexer) multi(t token.TokenType, lit string, pos token.Position) token.Token {
	l.readChar()
	return token.Token{Type: t, Literal: lit, Pos: pos}
}

// skipWhitespaceAndComments skips whitespace, line and block comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' || l.ch == '\f' || l.ch == '\v' {
			l.readChar()
		}

		if l.ch == '-' && l.peekChar() == '-' {
			for l.ch != '\n' && !l.atEOF() {
				l.readChar()
			}
			continue
		}

		if l.ch == '/' && l.peekChar() == '*' {
			l.skipBlockComment()
			continue
		}

		break
	}
}

func (l *Lexer) skipBlockComment() {
	start := l.currentPos()
	l.readChar() // skip '/'
	l.readChar() // skip '*'

	for !l.atEOF() {
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			return
		}
		l.readChar()
	}
	l.errorf(start, ErrUnterminatedComment)
}

// readString reads a single-quoted literal, collapsing doubled quotes:
// 'it''s' -> it's
func (l *Lexer) readString(pos token.Position) string {
	l.readChar() // skip opening quote

	var result strings.Builder
	for !l.atEOF() {
		if l.ch == '\'' {
			if l.peekChar() == '\'' {
				result.WriteByte('\'')
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // skip closing quote
			return result.String()
		}
		result.WriteByte(l.ch)
		l.readChar()
	}
	l.errorf(pos, ErrUnterminatedString)
	return result.String()
}

// readQuoted reads a delimited identifier. A doubled closing character is
// an escaped one, except for ']' which cannot be escaped.
func (l *Lexer) readQuoted(closing byte, pos token.Position) string {
	opening := l.ch
	l.readChar() // skip opening quote

	var result strings.Builder
	for !l.atEOF() {
		if l.ch == closing {
			if closing != ']' && l.peekChar() == closing {
				result.WriteByte(closing)
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // skip closing quote
			return result.String()
		}
		result.WriteByte(l.ch)
		l.readChar()
	}
	if _, ok := l.dialect.IdentQuote(opening); ok {
		l.errorf(pos, ErrUnterminatedIdent)
	} else {
		l.errorf(pos, ErrUnterminatedString)
	}
	return result.String()
}

// readIdentifier reads an unquoted identifier.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isIdentChar(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readParam reads ?, ?NNN, :name, @name or $name.
func (l *Lexer) readParam() string {
	start := l.pos
	l.readChar() // skip sigil
	for isIdentChar(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readNumber reads a numeric literal (integer, decimal, hex or scientific).
func (l *Lexer) readNumber() string {
	start := l.pos

	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		l.readChar()
		l.readChar()
		for isHexDigit(l.ch) {
			l.readChar()
		}
		return l.input[start:l.pos]
	}

	for isDigit(l.ch) {
		l.readChar()
	}

	if l.ch == '.' {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	// Exponent only when digits follow, so 1e is NUMBER then IDENT.
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || ((next == '+' || next == '-') && l.readPos+1 < len(l.input) && isDigit(l.input[l.readPos+1])) {
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}

	return l.input[start:l.pos]
}

// isIdentStart reports whether ch may start an unquoted identifier. Bytes
// of multi-byte UTF-8 sequences count as letters.
func isIdentStart(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch == '_' || ch >= 0x80
}

func isIdentChar(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch) || ch == '$'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || ch >= 'a' && ch <= 'f' || ch >= 'A' && ch <= 'F'
}

// Tokenize returns all tokens of input up to and including EOF.
func Tokenize(input string, d *dialect.Dialect) ([]token.Token, error) {
	l := NewLexerWithDialect(input, d)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	if len(l.Errors) > 0 {
		return tokens, l.Errors[0]
	}
	return tokens, nil
}
