package lexer

import "testing"

func kinds(toks []Token) []Kind {
	out := make([]Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func texts(src string, toks []Token) []string {
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.Span.Slice(src)
	}
	return out
}

func TestLexOperators(t *testing.T) {
	src := "ls -la|wc -l;sleep 2 &"
	toks := New(src).All()

	want := []Kind{Atom, Atom, Pipe, Atom, Atom, Semicolon, Atom, Atom, Ampersand, EOF}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: expected %v, got %v", i, want[i], got[i])
		}
	}

	wantText := []string{"ls", "-la", "|", "wc", "-l", ";", "sleep", "2", "&", ""}
	for i, s := range texts(src, toks) {
		if s != wantText[i] {
			t.Errorf("token %d: expected %q, got %q", i, wantText[i], s)
		}
	}
}

func TestLexEOFSpan(t *testing.T) {
	src := "echo hi  "
	l := New(src)
	var last Token
	for l.Peek() != EOF {
		l.Next()
	}
	last = l.Next()
	if last.Kind != EOF {
		t.Fatalf("expected EOF, got %v", last.Kind)
	}
	if last.Span.Start != len(src) || last.Span.Len() != 0 {
		t.Errorf("expected zero-length span at %d, got %v", len(src), last.Span)
	}
	// The stream stays at EOF.
	if k := l.Next().Kind; k != EOF {
		t.Errorf("expected EOF after end, got %v", k)
	}
}

func TestLexEmpty(t *testing.T) {
	for _, src := range []string{"", "   ", "\n", "\\\n"} {
		toks := New(src).All()
		if len(toks) != 1 || toks[0].Kind != EOF {
			t.Errorf("%q: expected only EOF, got %v", src, kinds(toks))
		}
	}
}

func TestLexQuotesSuppressDelimiters(t *testing.T) {
	src := `echo "a;b|c" 'x & y' z\;w`
	toks := New(src).All()
	got := texts(src, toks)
	want := []string{"echo", `"a;b|c"`, `'x & y'`, `z\;w`, ""}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestLexUnterminatedQuote(t *testing.T) {
	src := `echo 'open ended; still`
	toks := New(src).All()
	if len(toks) != 3 {
		t.Fatalf("expected 3 tokens, got %v", kinds(toks))
	}
	if got := toks[1].Span.Slice(src); got != `'open ended; still` {
		t.Errorf("unexpected atom %q", got)
	}
}

func TestLexLineContinuation(t *testing.T) {
	src := "echo a \\\n b\n"
	toks := New(src).All()
	got := texts(src, toks)
	want := []string{"echo", "a", "b", ""}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	l := New("a b")
	if l.Peek() != Atom || l.Peek() != Atom {
		t.Fatal("expected atom lookahead")
	}
	if got := l.Next().Span.Slice("a b"); got != "a" {
		t.Errorf("expected a, got %q", got)
	}
	if got := l.Next().Span.Slice("a b"); got != "b" {
		t.Errorf("expected b, got %q", got)
	}
}

func TestUnquote(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{`'a b'`, "a b"},
		{`"a b"`, "a b"},
		{`'%s\n'`, `%s\n`},
		{`"say \"hi\""`, `say "hi"`},
		{`"keep \n"`, `keep \n`},
		{`a\ b`, "a b"},
		{`x'y'"z"`, "xyz"},
		{`'unterminated`, "unterminated"},
		{`"unterminated`, "unterminated"},
		{`trailing\`, `trailing\`},
		{"a\\\nb", "ab"},
	}
	for _, tc := range cases {
		if got := Unquote(tc.in); got != tc.want {
			t.Errorf("Unquote(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
