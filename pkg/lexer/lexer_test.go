package lexer

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/go-multierror"
)

func kindsOf(tokens []Token) []Kind {
	kinds := make([]Kind, 0, len(tokens))
	for _, tok := range tokens {
		kinds = append(kinds, tok.Kind)
	}
	return kinds
}

func TestTokenizeSimpleSum(t *testing.T) {
	tokens, err := Tokenize("1+2;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Token{
		{Kind: Number, Lexeme: "1", Literal: 1.0, Line: 1},
		{Kind: Plus, Lexeme: "+", Line: 1},
		{Kind: Number, Lexeme: "2", Literal: 2.0, Line: 1},
		{Kind: Semicolon, Lexeme: ";", Line: 1},
		{Kind: EOF, Line: 1},
	}
	if diff := cmp.Diff(want, tokens); diff != "" {
		t.Fatalf("token mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeOperators(t *testing.T) {
	tokens, err := Tokenize("( ) { } , . - + ; * / ? : ! != = == < <= > >=")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Kind{
		LeftParen, RightParen, LeftBrace, RightBrace, Comma, Dot, Minus, Plus,
		Semicolon, Star, Slash, Question, Colon, Bang, BangEqual, Equal,
		EqualEqual, Less, LessEqual, Greater, GreaterEqual, EOF,
	}
	if diff := cmp.Diff(want, kindsOf(tokens)); diff != "" {
		t.Fatalf("kind mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeKeywordsAndIdentifiers(t *testing.T) {
	src := "and class else false fun for if nil or print return super this true var while input _x9"
	tokens, err := Tokenize(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Kind{
		And, Class, Else, False, Fun, For, If, Nil, Or, Print, Return, Super,
		This, True, Var, While, Identifier, Identifier, EOF,
	}
	if diff := cmp.Diff(want, kindsOf(tokens)); diff != "" {
		t.Fatalf("kind mismatch (-want +got):\n%s", diff)
	}
	if tokens[16].Lexeme != "input" || tokens[17].Lexeme != "_x9" {
		t.Fatalf("unexpected identifier lexemes %q %q", tokens[16].Lexeme, tokens[17].Lexeme)
	}
}

func TestTokenizeLiterals(t *testing.T) {
	tokens, err := Tokenize(`"hi there" 12.5 7.`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokens[0].Kind != String || tokens[0].Literal != "hi there" || tokens[0].Lexeme != `"hi there"` {
		t.Fatalf("unexpected string token %#v", tokens[0])
	}
	if tokens[1].Kind != Number || tokens[1].Literal != 12.5 {
		t.Fatalf("unexpected number token %#v", tokens[1])
	}
	// A trailing dot is not part of the number.
	if tokens[2].Literal != 7.0 || tokens[3].Kind != Dot {
		t.Fatalf("expected NUMBER DOT, got %v %v", tokens[2], tokens[3])
	}
}

func TestTokenizeSkipsCommentsAndTracksLines(t *testing.T) {
	src := "// leading comment\nvar a = 1; // trailing\n\"two\nlines\"\nprint"
	tokens, err := Tokenize(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Kind{Var, Identifier, Equal, Number, Semicolon, String, Print, EOF}
	if diff := cmp.Diff(want, kindsOf(tokens)); diff != "" {
		t.Fatalf("kind mismatch (-want +got):\n%s", diff)
	}
	if tokens[0].Line != 2 {
		t.Fatalf("expected var on line 2, got %d", tokens[0].Line)
	}
	if tokens[6].Line != 5 || tokens[7].Line != 5 {
		t.Fatalf("expected print and EOF on line 5, got %d and %d", tokens[6].Line, tokens[7].Line)
	}
}

func TestTokenizeRecoversFromUnexpectedCharacters(t *testing.T) {
	tokens, err := Tokenize("var a = 1 @ 2;\n#")
	if err == nil {
		t.Fatalf("expected lex errors")
	}
	var merr *multierror.Error
	if !errors.As(err, &merr) || len(merr.Errors) != 2 {
		t.Fatalf("expected two aggregated errors, got %v", err)
	}
	var lexErr *LexError
	if !errors.As(merr.Errors[0], &lexErr) {
		t.Fatalf("expected *LexError, got %T", merr.Errors[0])
	}
	if lexErr.Line != 1 || lexErr.Lexeme != "@" || lexErr.Context != "var a = 1 @ 2;" {
		t.Fatalf("unexpected lex error %#v", lexErr)
	}
	if got := lexErr.Error(); got != "[line 1] Error at '@': Unexpected character" {
		t.Fatalf("unexpected message %q", got)
	}
	if second := merr.Errors[1].(*LexError); second.Line != 2 {
		t.Fatalf("expected second error on line 2, got %d", second.Line)
	}
	want := []Kind{Var, Identifier, Equal, Number, Number, Semicolon, EOF}
	if diff := cmp.Diff(want, kindsOf(tokens)); diff != "" {
		t.Fatalf("scanning should continue past bad characters (-want +got):\n%s", diff)
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	tokens, err := Tokenize("\"open\nstill open")
	if err == nil {
		t.Fatalf("expected unterminated string error")
	}
	var lexErr *LexError
	if !errors.As(err, &lexErr) || lexErr.Message != "Unterminated string" || lexErr.Line != 1 {
		t.Fatalf("unexpected error %v", err)
	}
	if lexErr.Context != "\"open" {
		t.Fatalf("expected context limited to the opening line, got %q", lexErr.Context)
	}
	if len(tokens) != 1 || tokens[0].Kind != EOF || tokens[0].Line != 2 {
		t.Fatalf("expected lone EOF on line 2, got %v", tokens)
	}
}

func TestTokenizeEmptySourceYieldsEOF(t *testing.T) {
	tokens, err := Tokenize("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != 1 || tokens[0].Kind != EOF {
		t.Fatalf("expected single EOF token, got %v", tokens)
	}
}

func TestTokenString(t *testing.T) {
	tok := Token{Kind: Number, Lexeme: "3.50", Literal: 3.5, Line: 1}
	if got := tok.String(); got != "NUMBER 3.50 3.5" {
		t.Fatalf("unexpected token string %q", got)
	}
	if got := (Token{Kind: Semicolon, Lexeme: ";"}).String(); got != "SEMICOLON ; null" {
		t.Fatalf("unexpected token string %q", got)
	}
}
