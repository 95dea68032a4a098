package lexer

import (
	"testing"

	"neo/source"
	"neo/token"
)

func scanString(t *testing.T, src string) []token.Token {
	t.Helper()
	f, err := source.Borrow("test.neo", []byte(src))
	if err != nil {
		t.Fatalf("source.Borrow: %v", err)
	}
	return New(f).Scan()
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tk := range toks {
		out[i] = tk.Kind
	}
	return out
}

func TestScanNumericVariants(t *testing.T) {
	toks := scanString(t, "0x22 0b101 0o77 1.5 42\n")
	var lits []token.Token
	for _, tk := range toks {
		if tk.Kind == token.INT || tk.Kind == token.FLOAT {
			lits = append(lits, tk)
		}
	}
	wantKind := []token.Kind{token.INT, token.INT, token.INT, token.FLOAT, token.INT}
	wantRadix := []token.Radix{token.RadixHex, token.RadixBin, token.RadixOct, token.RadixNone, token.RadixDec}
	if len(lits) != 5 {
		t.Fatalf("got %d literal tokens, want 5: %v", len(lits), lits)
	}
	for i, tk := range lits {
		if tk.Kind != wantKind[i] {
			t.Errorf("literal %d: kind = %v, want %v", i, tk.Kind, wantKind[i])
		}
		if tk.Radix != wantRadix[i] {
			t.Errorf("literal %d: radix = %v, want %v", i, tk.Radix, wantRadix[i])
		}
	}
}

func TestScanIdentifiersAndKeywords(t *testing.T) {
	toks := scanString(t, "let x = self\n")
	got := kinds(toks)
	want := []token.Kind{token.LET, token.IDENT, token.ASSIGN, token.SELF, token.NEWLINE, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestScanOperatorFamily(t *testing.T) {
	toks := scanString(t, "a <<< b >>>> c <<= d\n")
	var ops []token.Kind
	for _, tk := range toks {
		switch tk.Kind {
		case token.ROL, token.ROR, token.SHL_ASSIGN:
			ops = append(ops, tk.Kind)
		}
	}
	want := []token.Kind{token.ROL, token.ROR, token.SHL_ASSIGN}
	if len(ops) != len(want) {
		t.Fatalf("got %v, want %v", ops, want)
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Errorf("op %d = %v, want %v", i, ops[i], want[i])
		}
	}
}

func TestScanWrappingArithmetic(t *testing.T) {
	toks := scanString(t, "1 +! 2 -! 3 *! 4\n")
	var ops []token.Kind
	for _, tk := range toks {
		switch tk.Kind {
		case token.PLUS_BANG, token.MINUS_BANG, token.STAR_BANG:
			ops = append(ops, tk.Kind)
		}
	}
	want := []token.Kind{token.PLUS_BANG, token.MINUS_BANG, token.STAR_BANG}
	for i := range want {
		if i >= len(ops) || ops[i] != want[i] {
			t.Fatalf("got %v, want %v", ops, want)
		}
	}
}

func TestScanStringLiteral(t *testing.T) {
	toks := scanString(t, `"hello world"` + "\n")
	if toks[0].Kind != token.STRING {
		t.Fatalf("first token = %v, want STRING", toks[0].Kind)
	}
}

func TestScanUnterminatedString(t *testing.T) {
	f, _ := source.Borrow("t.neo", []byte(`"oops`+"\n"))
	lex := New(f)
	toks := lex.Scan()
	if toks[0].Kind != token.ERROR {
		t.Fatalf("first token = %v, want ERROR", toks[0].Kind)
	}
	if lex.Errs().Len() != 1 {
		t.Fatalf("Errs().Len() = %d, want 1", lex.Errs().Len())
	}
}

func TestScanLineAndBlockComments(t *testing.T) {
	toks := scanString(t, "1 # trailing comment\n#* block\nspanning lines *# 2\n")
	var lits []token.Kind
	for _, tk := range toks {
		if tk.Kind == token.INT {
			lits = append(lits, tk.Kind)
		}
	}
	if len(lits) != 2 {
		t.Fatalf("got %d INT tokens, want 2", len(lits))
	}
}

func TestScanEndsWithSingleEOF(t *testing.T) {
	toks := scanString(t, "let x:int = 1\n")
	eofCount := 0
	for i, tk := range toks {
		if tk.Kind == token.EOF {
			eofCount++
			if i != len(toks)-1 {
				t.Errorf("EOF token at index %d, want last index %d", i, len(toks)-1)
			}
		}
	}
	if eofCount != 1 {
		t.Errorf("EOF count = %d, want 1", eofCount)
	}
}

func TestTokenLineColumnTracking(t *testing.T) {
	toks := scanString(t, "let x = 1\nlet y = 2\n")
	var secondLet token.Token
	seen := 0
	for _, tk := range toks {
		if tk.Kind == token.LET {
			seen++
			if seen == 2 {
				secondLet = tk
			}
		}
	}
	if secondLet.Line != 2 {
		t.Errorf("second let token line = %d, want 2", secondLet.Line)
	}
	if secondLet.Column != 1 {
		t.Errorf("second let token column = %d, want 1", secondLet.Column)
	}
}

func TestNewlineTokenLineIsTheLineItTerminates(t *testing.T) {
	toks := scanString(t, "a\nb")
	var newline token.Token
	found := false
	for _, tk := range toks {
		if tk.Kind == token.NEWLINE {
			newline = tk
			found = true
			break
		}
	}
	if !found {
		t.Fatal("expected a NEWLINE token")
	}
	if newline.Line != 1 {
		t.Errorf("newline token line = %d, want 1", newline.Line)
	}
}
