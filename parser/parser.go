// Package parser implements Neo's hand-written Pratt-precedence
// expression parser and three-tier statement grammar (spec.md §4.2),
// grounded on informatter-nilan/parser/parser.go for the token-cursor
// idiom (peek/previous/advance/checkType/isMatch, declaration/
// statement dispatch) and informatter-nilan/compiler/compiler.go for
// the precedence-table-driven expression climbing
// (parseRule/PREC_*), generalized from its 5 levels to spec.md
// §4.2's 11.
package parser

import (
	"neo/ast"
	"neo/internal/diag"
	"neo/lexer"
	"neo/record"
	"neo/source"
	"neo/token"
)

// maxBlockDepth bounds recursive block nesting (spec.md §4.2 "Scope
// discipline"); exceeding it is a fatal error, not a recoverable one.
const maxBlockDepth = 16384

// Parser consumes a token stream and builds a single Module-rooted
// ast.Pool, accumulating recoverable errors into a diag.Vector
// instead of aborting (spec.md §4.2 contract).
type Parser struct {
	file *source.File
	toks []token.Token
	pos  int

	pool *ast.Pool
	errs diag.Vector

	panicking  bool
	withinLoop bool
	depth      int
}

// New builds a Parser over an already-lexed token stream.
func New(file *source.File, toks []token.Token) *Parser {
	return &Parser{file: file, toks: toks, pool: ast.NewPool()}
}

// Parse lexes file and parses it to completion, returning the AST
// pool, the Module root, and the accumulated diagnostics. A non-empty
// diagnostics vector means the compile should fail (spec.md §4.2
// "Failure model"), but root is always valid.
func Parse(file *source.File) (*ast.Pool, ast.Ref, *diag.Vector) {
	lx := lexer.New(file)
	toks := lx.Scan()
	p := New(file, toks)
	root := p.parseModule()
	p.errs.Merge(lx.Errs())
	return p.pool, root, &p.errs
}

// --- token cursor ---------------------------------------------------

func (p *Parser) peek() token.Token { return p.toks[p.pos] }

func (p *Parser) previous() token.Token {
	if p.pos == 0 {
		return p.toks[0]
	}
	return p.toks[p.pos-1]
}

func (p *Parser) atEnd() bool { return p.peek().Kind == token.EOF }

func (p *Parser) advance() token.Token {
	if !p.atEnd() {
		p.pos++
	}
	return p.previous()
}

func (p *Parser) check(k token.Kind) bool {
	if p.atEnd() {
		return k == token.EOF
	}
	return p.peek().Kind == k
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

// consume advances past the current token if it matches k, else it
// records a diagnostic and returns the offending token unconsumed.
func (p *Parser) consume(k token.Kind, format string, args ...any) token.Token {
	if p.check(k) {
		return p.advance()
	}
	tok := p.peek()
	p.errorAt(tok, format, args...)
	return tok
}

func (p *Parser) skipNewlines() {
	for p.check(token.NEWLINE) {
		p.advance()
	}
}

// errorAt records one diagnostic and raises the panic flag (spec.md
// §4.2 "Emits errors to a shared error vector ... sets a panic flag");
// subsequent errors are suppressed until synchronize clears it, so one
// malformed construct doesn't cascade into dozens of diagnostics.
func (p *Parser) errorAt(tok token.Token, format string, args ...any) {
	if p.panicking {
		return
	}
	p.panicking = true
	p.errs.Addf(p.file.Name, tok.Line, tok.Column,
		tok.Lexeme.Text(p.file.Bytes), tok.LineSpan.Text(p.file.Bytes), format, args...)
}

// synchronize clears the panic flag at the next statement start,
// advancing past tokens until a NEWLINE is consumed or input ends.
func (p *Parser) synchronize() {
	p.panicking = false
	for !p.atEnd() {
		if p.previous().Kind == token.NEWLINE {
			return
		}
		p.advance()
	}
}

func (p *Parser) errNode(tok token.Token, msg string) ast.Ref {
	return p.pool.NewError(tok, msg)
}

func (p *Parser) identText(tok token.Token) []byte {
	return []byte(tok.Lexeme.Text(p.file.Bytes))
}

// --- literal scanning -------------------------------------------------

func radixBase(r token.Radix) int {
	if r == token.RadixNone {
		return 10
	}
	return int(r)
}

func radixPrefixLen(r token.Radix) int {
	switch r {
	case token.RadixHex, token.RadixOct, token.RadixBin:
		return 2
	default:
		return 0
	}
}

func unescape(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			out = append(out, s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			out = append(out, '\n')
		case 't':
			out = append(out, '\t')
		case '\\':
			out = append(out, '\\')
		case 'v':
			out = append(out, '\v')
		case 'r':
			out = append(out, '\r')
		case '"':
			out = append(out, '"')
		default:
			out = append(out, '\\', s[i])
		}
	}
	return string(out)
}

func (p *Parser) scanIntLiteral(tok token.Token) (int64, bool) {
	lexeme := tok.Lexeme.Text(p.file.Bytes)
	lexeme = lexeme[radixPrefixLen(tok.Radix):]
	return record.ScanInt(lexeme, radixBase(tok.Radix))
}

func (p *Parser) scanFloatLiteral(tok token.Token) (float64, bool) {
	return record.ScanFloat(tok.Lexeme.Text(p.file.Bytes))
}
