package lexer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Messages carried by LexError.
const (
	UnexpectedCharacter = "Unexpected character"
	UnterminatedString  = "Unterminated string"
)

// LexError reports a character sequence the scanner could not turn into a
// token. Scanning continues past it. Lexeme is the offending text when it
// is a single token's worth; Context is the source line it sits on.
type LexError struct {
	Line    int
	Lexeme  string
	Context string
	Message string
}

func (e *LexError) Error() string {
	msg := fmt.Sprintf("[line %d] Error", e.Line)
	if e.Lexeme != "" {
		msg += fmt.Sprintf(" at '%s'", e.Lexeme)
	}
	return msg + ": " + e.Message
}

// Scanner walks source text one byte at a time, grouping bytes into tokens.
type Scanner struct {
	src     string
	tokens  []Token
	start   int
	current int
	line    int
	errs    *multierror.Error
}

// NewScanner prepares a scanner over src.
func NewScanner(src string) *Scanner {
	return &Scanner{src: src, line: 1}
}

// Tokenize scans src and returns every token followed by a single EOF token.
// The error, when non-nil, is a *multierror.Error of *LexError values; the
// token slice is complete even then.
func Tokenize(src string) ([]Token, error) {
	return NewScanner(src).Scan()
}

// Scan runs the scanner to completion.
func (s *Scanner) Scan() ([]Token, error) {
	for !s.atEnd() {
		s.start = s.current
		s.scanToken()
	}
	s.tokens = append(s.tokens, Token{Kind: EOF, Line: s.line})
	return s.tokens, s.errs.ErrorOrNil()
}

func (s *Scanner) scanToken() {
	c := s.advance()
	switch c {
	case '(':
		s.add(LeftParen, nil)
	case ')':
		s.add(RightParen, nil)
	case '{':
		s.add(LeftBrace, nil)
	case '}':
		s.add(RightBrace, nil)
	case ',':
		s.add(Comma, nil)
	case '.':
		s.add(Dot, nil)
	case '-':
		s.add(Minus, nil)
	case '+':
		s.add(Plus, nil)
	case ';':
		s.add(Semicolon, nil)
	case '*':
		s.add(Star, nil)
	case '?':
		s.add(Question, nil)
	case ':':
		s.add(Colon, nil)
	case '!':
		s.addPair('=', BangEqual, Bang)
	case '=':
		s.addPair('=', EqualEqual, Equal)
	case '<':
		s.addPair('=', LessEqual, Less)
	case '>':
		s.addPair('=', GreaterEqual, Greater)
	case '/':
		if s.match('/') {
			for s.peek() != '\n' && !s.atEnd() {
				s.current++
			}
			return
		}
		s.add(Slash, nil)
	case ' ', '\r', '\t':
	case '\n':
		s.line++
	case '"':
		s.scanString()
	default:
		switch {
		case isDigit(c):
			s.scanNumber()
		case isAlpha(c):
			s.scanIdentifier()
		default:
			s.fail(UnexpectedCharacter, s.src[s.start:s.current])
		}
	}
}

func (s *Scanner) scanString() {
	startLine := s.line
	for s.peek() != '"' && !s.atEnd() {
		if s.peek() == '\n' {
			s.line++
		}
		s.current++
	}
	if s.atEnd() {
		s.errs = multierror.Append(s.errs, &LexError{
			Line:    startLine,
			Context: firstLine(s.src[s.start:s.current]),
			Message: UnterminatedString,
		})
		return
	}
	s.current++ // closing quote
	s.add(String, s.src[s.start+1:s.current-1])
}

func (s *Scanner) scanNumber() {
	for isDigit(s.peek()) {
		s.current++
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.current++
		for isDigit(s.peek()) {
			s.current++
		}
	}
	val, err := strconv.ParseFloat(s.src[s.start:s.current], 64)
	if err != nil {
		s.fail("Invalid number", s.src[s.start:s.current])
		return
	}
	s.add(Number, val)
}

func (s *Scanner) scanIdentifier() {
	for isAlphaNumeric(s.peek()) {
		s.current++
	}
	if kind, ok := LookupKeyword(s.src[s.start:s.current]); ok {
		s.add(kind, nil)
		return
	}
	s.add(Identifier, nil)
}

func (s *Scanner) add(kind Kind, literal any) {
	s.tokens = append(s.tokens, Token{
		Kind:    kind,
		Lexeme:  s.src[s.start:s.current],
		Literal: literal,
		Line:    s.line,
	})
}

func (s *Scanner) addPair(next byte, matched, single Kind) {
	if s.match(next) {
		s.add(matched, nil)
		return
	}
	s.add(single, nil)
}

func (s *Scanner) fail(message, lexeme string) {
	s.errs = multierror.Append(s.errs, &LexError{
		Line:    s.line,
		Lexeme:  lexeme,
		Context: s.lineContext(),
		Message: message,
	})
}

func firstLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return text[:i]
	}
	return text
}

// lineContext returns the text of the current line for diagnostics.
func (s *Scanner) lineContext() string {
	begin := s.start
	for begin > 0 && s.src[begin-1] != '\n' {
		begin--
	}
	end := s.start
	for end < len(s.src) && s.src[end] != '\n' {
		end++
	}
	return s.src[begin:end]
}

func (s *Scanner) atEnd() bool {
	return s.current >= len(s.src)
}

func (s *Scanner) advance() byte {
	c := s.src[s.current]
	s.current++
	return c
}

func (s *Scanner) match(expected byte) bool {
	if s.atEnd() || s.src[s.current] != expected {
		return false
	}
	s.current++
	return true
}

func (s *Scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.src[s.current]
}

func (s *Scanner) peekNext() byte {
	if s.current+1 >= len(s.src) {
		return 0
	}
	return s.src[s.current+1]
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlphaNumeric(c byte) bool { return isAlpha(c) || isDigit(c) }
