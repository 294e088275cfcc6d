package token

import "testing"

func TestLookupIdentFindsKeywords(t *testing.T) {
	cases := map[string]Type{
		"let": Let, "const": Const, "return": Return, "import": Import,
		"export": Export, "from": From, "as": As, "true": True, "false": False,
		"null": Null, "pattern": Ident, "x": Ident,
	}
	for ident, want := range cases {
		if got := LookupIdent(ident); got != want {
			t.Errorf("LookupIdent(%q) = %v, want %v", ident, got, want)
		}
	}
}

func TestTokenStringIncludesPositionAndValue(t *testing.T) {
	tok := Token{Type: Ident, Value: "x", Line: 2, Col: 5}
	s := tok.String()
	if s == "" {
		t.Fatal("expected non-empty string")
	}
	if got := tok.Value; got != "x" {
		t.Errorf("Value = %q, want %q", got, "x")
	}
}
