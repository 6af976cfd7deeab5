package token

import "testing"

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{IF, "if"}, {ASSIGN, "="}, {INC, "++"}, {EOF, "EOF"}, {IDENT, "IDENT"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("%v.String() = %q, want %q", int(tt.kind), got, tt.want)
		}
	}
}

func TestKeywords(t *testing.T) {
	for word, kind := range Keywords {
		tok := Token{Kind: kind, Lexeme: word}
		if tok.String() != word {
			t.Errorf("Keywords[%q] round-trip = %q, want %q", word, tok.String(), word)
		}
	}

	if _, ok := Keywords["myVar"]; ok {
		t.Errorf("myVar should not be a keyword")
	}
}

func TestLocationString(t *testing.T) {
	loc := Location{File: "a.cl", Begin: Position{1, 1}, End: Position{1, 4}}
	want := "a.cl:1:1-1:4"
	if got := loc.String(); got != want {
		t.Errorf("Location.String() = %q, want %q", got, want)
	}
}
