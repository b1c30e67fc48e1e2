package parser

import (
	"testing"

	"skim/ast"
	"skim/lexer"
)

func parseSource(t *testing.T, source string) []ast.Node {
	t.Helper()
	tokens, err := lexer.New(source).Scan()
	if err != nil {
		t.Fatalf("lexing failed: %v", err)
	}
	nodes, err := Make(tokens).Parse()
	if err != nil {
		t.Fatalf("parsing failed: %v", err)
	}
	return nodes
}

func assertNodes(t *testing.T, got, expected []ast.Node) {
	t.Helper()
	if len(got) != len(expected) {
		t.Fatalf("form count - got: %d, want: %d", len(got), len(expected))
	}
	for i := range got {
		if !got[i].Equal(expected[i]) {
			t.Errorf("form at index %d - got: %s, want: %s", i, got[i].Inspect(), expected[i].Inspect())
		}
	}
}

func TestParse(t *testing.T) {
	source := `
(define (rect-area w h) (* w h))
(display (rect-area 128 256))
(newline)
`
	expected := []ast.Node{
		ast.NewList(
			ast.NewSymbol("define"),
			ast.NewList(ast.NewSymbol("rect-area"), ast.NewSymbol("w"), ast.NewSymbol("h"), ast.Nil()),
			ast.NewList(ast.NewSymbol("*"), ast.NewSymbol("w"), ast.NewSymbol("h"), ast.Nil()),
			ast.Nil(),
		),
		ast.NewList(
			ast.NewSymbol("display"),
			ast.NewList(ast.NewSymbol("rect-area"), ast.NewInt(128), ast.NewInt(256), ast.Nil()),
			ast.Nil(),
		),
		ast.NewList(ast.NewSymbol("newline"), ast.Nil()),
	}

	assertNodes(t, parseSource(t, source), expected)
}

// Every proper list ends with an explicit nil element; dotted source omits
// it.
func TestParseListSentinel(t *testing.T) {
	assertNodes(t, parseSource(t, "() (a) (a . b) (a b . c)"), []ast.Node{
		ast.Nil(),
		ast.NewList(ast.NewSymbol("a"), ast.Nil()),
		ast.NewList(ast.NewSymbol("a"), ast.NewSymbol("b")),
		ast.NewList(ast.NewSymbol("a"), ast.NewSymbol("b"), ast.NewSymbol("c")),
	})
}

func TestParseQuoteSugar(t *testing.T) {
	assertNodes(t, parseSource(t, "'a `(b) ,c ,@d"), []ast.Node{
		ast.NewList(ast.NewSymbol("quote"), ast.NewSymbol("a"), ast.Nil()),
		ast.NewList(ast.NewSymbol("quasiquote"), ast.NewList(ast.NewSymbol("b"), ast.Nil()), ast.Nil()),
		ast.NewList(ast.NewSymbol("unquote"), ast.NewSymbol("c"), ast.Nil()),
		ast.NewList(ast.NewSymbol("unquote-splicing"), ast.NewSymbol("d"), ast.Nil()),
	})
}

func TestParseQuoteInsideIf(t *testing.T) {
	expected := []ast.Node{
		ast.NewList(
			ast.NewSymbol("if"),
			ast.NewBool(true),
			ast.NewList(ast.NewSymbol("quote"), ast.NewSymbol("a"), ast.Nil()),
			ast.NewList(ast.NewSymbol("quote"), ast.NewSymbol("b"), ast.Nil()),
			ast.Nil(),
		),
	}
	assertNodes(t, parseSource(t, "(if #t 'a 'b)"), expected)
}

func TestParseBrackets(t *testing.T) {
	assertNodes(t, parseSource(t, "[a b]"), []ast.Node{
		ast.NewList(ast.NewSymbol("a"), ast.NewSymbol("b"), ast.Nil()),
	})
}

func TestParseAtoms(t *testing.T) {
	assertNodes(t, parseSource(t, `#t #f 42 "hi" foo`), []ast.Node{
		ast.NewBool(true),
		ast.NewBool(false),
		ast.NewInt(42),
		ast.NewString("hi"),
		ast.NewSymbol("foo"),
	})
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"(a b",
		"'",
		"(. b)",
		")",
	}
	for _, source := range tests {
		tokens, err := lexer.New(source).Scan()
		if err != nil {
			t.Fatalf("lexing failed for %q: %v", source, err)
		}
		_, err = Make(tokens).Parse()
		if err == nil {
			t.Errorf("expected parse error for %q", source)
			continue
		}
		if _, ok := err.(SyntaxError); !ok {
			t.Errorf("expected SyntaxError for %q, got %T", source, err)
		}
	}
}
