// Package lexer implements the single-pass, single-cursor tokenizer
// described in spec.md §4.1, grounded on the cursor/position shape of
// informatter-nilan/lexer/lexer.go but restructured around a
// byte-buffer source with a current/next code-point cache instead of
// a pre-exploded rune slice, since Neo source is loaded as raw UTF-8
// bytes (source.File) rather than a Go string.
package lexer

import (
	"unicode/utf8"

	"neo/internal/diag"
	"neo/source"
	"neo/token"
)

const (
	commentChar = '#'
	eofRune     = rune(-1)
)

// Lexer scans one source.File into a token stream. It never
// backtracks: every decision is made from the current/next rune
// cache, refilled one code point at a time off the byte buffer.
type Lexer struct {
	file *source.File
	buf  []byte

	pos  int // byte offset where current starts
	curr rune
	currWidth int

	nextPos   int // byte offset where next starts
	next      rune
	nextWidth int

	line      int
	column    int
	lineStart int // byte offset of the current line's first byte
	lineEnd   int // byte offset one past the current line's last content byte (before '\n', or len(buf))

	errs diag.Vector
}

// New returns a Lexer positioned at the start of file.
func New(file *source.File) *Lexer {
	l := &Lexer{
		file:   file,
		buf:    file.Bytes,
		line:   1,
		column: 1,
	}
	// Prime the cache: decode byte 0 into curr, byte-after into next.
	l.curr, l.currWidth = decodeAt(l.buf, 0)
	l.nextPos = l.currWidth
	l.next, l.nextWidth = decodeAt(l.buf, l.nextPos)
	l.recomputeLineSpan()
	return l
}

func decodeAt(buf []byte, at int) (rune, int) {
	if at >= len(buf) {
		return eofRune, 0
	}
	r, size := utf8.DecodeRune(buf[at:])
	if r == utf8.RuneError && size <= 1 {
		return utf8.RuneError, 1
	}
	return r, size
}

// advance refills the cache by one code point: next becomes curr, and
// a fresh code point is decoded to become the new next.
func (l *Lexer) advance() {
	if l.curr == '\n' {
		l.line++
		l.column = 1
		l.lineStart = l.pos + l.currWidth
		l.recomputeLineSpan()
	} else if l.curr != eofRune {
		l.column++
	}
	l.pos = l.nextPos
	l.curr = l.next
	l.currWidth = l.nextWidth
	l.nextPos = l.pos + l.currWidth
	l.next, l.nextWidth = decodeAt(l.buf, l.nextPos)
}

// recomputeLineSpan scans forward from lineStart to the next newline
// (or end of buffer) without consuming; called once per line rather
// than once per token.
func (l *Lexer) recomputeLineSpan() {
	end := l.lineStart
	for end < len(l.buf) && l.buf[end] != '\n' {
		end++
	}
	l.lineEnd = end
}

func (l *Lexer) lineSpan() token.Span {
	return token.Span{Start: l.lineStart, End: l.lineEnd}
}

func (l *Lexer) match(r rune) bool {
	if l.next == r {
		l.advance()
		return true
	}
	return false
}

func isLetter(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isAlnum(r rune) bool { return isLetter(r) || isDigit(r) }

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isASCIISpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r'
}

// Scan runs the lexer to completion and returns the full token stream,
// terminated by exactly one EOF token (spec.md §8). Recoverable lex
// failures are emitted as ERROR tokens in place, and lexing continues
// (spec.md §7); the same diagnostics are also recorded in Errs.
func (l *Lexer) Scan() []token.Token {
	var toks []token.Token
	for {
		l.skipSpaceAndComments()
		if l.curr == eofRune {
			toks = append(toks, l.make(token.EOF, token.Span{Start: l.pos, End: l.pos}, token.RadixNone))
			return toks
		}
		if l.curr == '\n' {
			start := l.pos
			startLine := l.line
			startColumn := l.column
			startLineSpan := l.lineSpan()
			l.advance()
			toks = append(toks, token.Token{
				Kind:     token.NEWLINE,
				Radix:    token.RadixNone,
				Line:     startLine,
				Column:   startColumn,
				Lexeme:   token.Span{Start: start, End: start + 1},
				LineSpan: startLineSpan,
				File:     l.file.Name,
			})
			continue
		}
		toks = append(toks, l.next1())
	}
}

// Errs returns the diagnostics accumulated while scanning.
func (l *Lexer) Errs() *diag.Vector { return &l.errs }

func (l *Lexer) make(kind token.Kind, span token.Span, radix token.Radix) token.Token {
	return token.Token{
		Kind:     kind,
		Radix:    radix,
		Line:     l.line,
		Column:   l.column,
		Lexeme:   span,
		LineSpan: l.lineSpan(),
		File:     l.file.Name,
	}
}

func (l *Lexer) skipSpaceAndComments() {
	for {
		for isASCIISpace(l.curr) {
			l.advance()
		}
		if l.curr == commentChar {
			if l.next == '*' {
				l.skipBlockComment()
				continue
			}
			l.skipLineComment()
			continue
		}
		return
	}
}

func (l *Lexer) skipLineComment() {
	for l.curr != '\n' && l.curr != eofRune {
		l.advance()
	}
}

// skipBlockComment consumes a `#* ... *#` comment iteratively (spec.md
// §4.1 explicitly calls out that the source's recursive scan must be
// reimplemented iteratively).
func (l *Lexer) skipBlockComment() {
	l.advance() // consume '#'
	l.advance() // consume '*'
	depth := 1
	for depth > 0 && l.curr != eofRune {
		if l.curr == '#' && l.next == '*' {
			depth++
			l.advance()
			l.advance()
			continue
		}
		if l.curr == '*' && l.next == commentChar {
			depth--
			l.advance()
			l.advance()
			continue
		}
		l.advance()
	}
}

// next1 scans exactly one token starting at the current (non-space,
// non-comment, non-newline) rune.
func (l *Lexer) next1() token.Token {
	startLine, startCol := l.line, l.column
	start := l.pos

	switch {
	case isDigit(l.curr):
		return l.scanNumber(start, startLine, startCol)
	case l.curr == '"':
		return l.scanString(start, startLine, startCol)
	case isLetter(l.curr):
		return l.scanIdent(start, startLine, startCol)
	default:
		return l.scanOperator(start, startLine, startCol)
	}
}

func (l *Lexer) tok(kind token.Kind, start, line, col int, radix token.Radix) token.Token {
	return token.Token{
		Kind: kind, Radix: radix, Line: line, Column: col,
		Lexeme:   token.Span{Start: start, End: l.pos},
		LineSpan: l.lineSpan(),
		File:     l.file.Name,
	}
}

func (l *Lexer) errTok(start, line, col int) token.Token {
	return l.tok(token.ERROR, start, line, col, token.RadixNone)
}

// scanNumber scans an integer or float literal (spec.md §4.1/§6): an
// optional 0x/0o/0c/0b radix prefix, then a digit run with `_`
// separators, optionally followed by a `.` and a fractional digit
// run that promotes the token to FLOAT. The lexer only slices the
// lexeme; record.ScanInt/ScanFloat do the actual conversion later.
func (l *Lexer) scanNumber(start, startLine, startCol int) token.Token {
	radix := token.RadixDec
	if l.curr == '0' {
		switch l.next {
		case 'x', 'X':
			radix = token.RadixHex
			l.advance()
			l.advance()
		case 'o', 'O', 'c', 'C':
			radix = token.RadixOct
			l.advance()
			l.advance()
		case 'b', 'B':
			radix = token.RadixBin
			l.advance()
			l.advance()
		}
	}
	digitOK := func(r rune) bool {
		switch radix {
		case token.RadixHex:
			return isHexDigit(r)
		case token.RadixOct:
			return r >= '0' && r <= '7'
		case token.RadixBin:
			return r == '0' || r == '1'
		default:
			return isDigit(r)
		}
	}
	for digitOK(l.curr) || l.curr == '_' {
		l.advance()
	}
	isFloat := false
	if radix == token.RadixDec && l.curr == '.' && isDigit(l.next) {
		isFloat = true
		l.advance() // consume '.'
		for isDigit(l.curr) || l.curr == '_' {
			l.advance()
		}
	}
	kind := token.INT
	if isFloat {
		kind = token.FLOAT
		radix = token.RadixNone
	}
	return l.tok(kind, start, startLine, startCol, radix)
}

// scanString scans a `"`-delimited literal. Escape processing is
// deferred to the parser, which clones the raw lexeme (spec.md
// §4.1); an unterminated literal yields an ERROR token covering what
// was consumed.
func (l *Lexer) scanString(start, startLine, startCol int) token.Token {
	l.advance() // consume opening quote
	for l.curr != '"' && l.curr != eofRune {
		if l.curr == '\\' && l.next != eofRune {
			l.advance()
		}
		l.advance()
	}
	if l.curr != '"' {
		tok := l.errTok(start, startLine, startCol)
		l.errs.Addf(l.file.Name, startLine, startCol, tok.Lexeme.Text(l.buf), l.lineSpan().Text(l.buf),
			"unterminated string literal")
		return tok
	}
	l.advance() // consume closing quote
	return l.tok(token.STRING, start, startLine, startCol, token.RadixNone)
}

// scanIdent scans an identifier and reclassifies it to a hard or soft
// keyword by exact textual match (spec.md §4.1).
func (l *Lexer) scanIdent(start, startLine, startCol int) token.Token {
	for isAlnum(l.curr) {
		l.advance()
	}
	span := token.Span{Start: start, End: l.pos}
	text := span.Text(l.buf)
	kind := token.IDENT
	if k, ok := token.Keywords[text]; ok {
		kind = k
	} else if k, ok := token.SoftKeywords[text]; ok {
		kind = k
	}
	return l.tok(kind, start, startLine, startCol, token.RadixNone)
}

// scanOperator performs longest-match operator lexing via nested
// consume-if-match decisions (spec.md §4.1), including the
// `!`-suffixed wrapping-arithmetic family and the five-member
// shift/rotate family and their compound-assignment forms.
func (l *Lexer) scanOperator(start, startLine, startCol int) token.Token {
	r := l.curr
	l.advance()
	switch r {
	case '(':
		return l.tok(token.LPAREN, start, startLine, startCol, token.RadixNone)
	case ')':
		return l.tok(token.RPAREN, start, startLine, startCol, token.RadixNone)
	case ',':
		return l.tok(token.COMMA, start, startLine, startCol, token.RadixNone)
	case ':':
		return l.tok(token.COLON, start, startLine, startCol, token.RadixNone)
	case '.':
		return l.tok(token.DOT, start, startLine, startCol, token.RadixNone)
	case '~':
		return l.tok(token.TILDE, start, startLine, startCol, token.RadixNone)
	case '=':
		if l.match('=') {
			return l.tok(token.EQ, start, startLine, startCol, token.RadixNone)
		}
		return l.tok(token.ASSIGN, start, startLine, startCol, token.RadixNone)
	case '!':
		// '!' never stands alone: here it is only the start of `!=`. The
		// wrapping suffix (`+!`, `-!`, ...) is consumed by the preceding
		// arithmetic operator's own decision tree, so a lone '!' is an error.
		if l.match('=') {
			return l.tok(token.NEQ, start, startLine, startCol, token.RadixNone)
		}
		tok := l.errTok(start, startLine, startCol)
		l.errs.Addf(l.file.Name, startLine, startCol, tok.Lexeme.Text(l.buf), l.lineSpan().Text(l.buf),
			"unexpected character %q", r)
		return tok
	case '<':
		return l.scanLess(start, startLine, startCol)
	case '>':
		return l.scanGreater(start, startLine, startCol)
	case '+':
		return l.scanArith(start, startLine, startCol, token.PLUS, token.PLUS_BANG, token.PLUS_ASSIGN)
	case '-':
		if l.curr == '>' {
			l.advance()
			return l.tok(token.ARROW, start, startLine, startCol, token.RadixNone)
		}
		return l.scanArith(start, startLine, startCol, token.MINUS, token.MINUS_BANG, token.MINUS_ASSIGN)
	case '*':
		if l.curr == '*' {
			l.advance()
			if l.curr == '!' {
				l.advance()
				return l.tok(token.STARSTAR_BANG, start, startLine, startCol, token.RadixNone)
			}
			return l.tok(token.STARSTAR, start, startLine, startCol, token.RadixNone)
		}
		return l.scanArith(start, startLine, startCol, token.STAR, token.STAR_BANG, token.STAR_ASSIGN)
	case '/':
		if l.match('=') {
			return l.tok(token.SLASH_ASSIGN, start, startLine, startCol, token.RadixNone)
		}
		return l.tok(token.SLASH, start, startLine, startCol, token.RadixNone)
	case '%':
		if l.match('=') {
			return l.tok(token.PERCENT_ASSIGN, start, startLine, startCol, token.RadixNone)
		}
		return l.tok(token.PERCENT, start, startLine, startCol, token.RadixNone)
	case '&':
		if l.match('=') {
			return l.tok(token.AMP_ASSIGN, start, startLine, startCol, token.RadixNone)
		}
		return l.tok(token.AMP, start, startLine, startCol, token.RadixNone)
	case '|':
		if l.match('=') {
			return l.tok(token.PIPE_ASSIGN, start, startLine, startCol, token.RadixNone)
		}
		return l.tok(token.PIPE, start, startLine, startCol, token.RadixNone)
	case '^':
		if l.match('=') {
			return l.tok(token.CARET_ASSIGN, start, startLine, startCol, token.RadixNone)
		}
		return l.tok(token.CARET, start, startLine, startCol, token.RadixNone)
	default:
		tok := l.errTok(start, startLine, startCol)
		l.errs.Addf(l.file.Name, startLine, startCol, tok.Lexeme.Text(l.buf), l.lineSpan().Text(l.buf),
			"unexpected character %q", r)
		return tok
	}
}

// scanArith resolves the `op`, `op!` (wrapping) and `op=` (compound
// assignment) spellings shared by +, -, *.
func (l *Lexer) scanArith(start, startLine, startCol int, plain, bang, assign token.Kind) token.Token {
	switch {
	case l.match('!'):
		return l.tok(bang, start, startLine, startCol, token.RadixNone)
	case l.match('='):
		return l.tok(assign, start, startLine, startCol, token.RadixNone)
	default:
		return l.tok(plain, start, startLine, startCol, token.RadixNone)
	}
}

// scanLess walks the `<`, `<=`, `<<`, `<<<`, `<<=`, `<<<=` decision
// tree (spec.md §4.1).
func (l *Lexer) scanLess(start, startLine, startCol int) token.Token {
	if l.match('=') {
		return l.tok(token.LTE, start, startLine, startCol, token.RadixNone)
	}
	if l.match('<') {
		if l.match('<') {
			if l.match('=') {
				return l.tok(token.ROL_ASSIGN, start, startLine, startCol, token.RadixNone)
			}
			return l.tok(token.ROL, start, startLine, startCol, token.RadixNone)
		}
		if l.match('=') {
			return l.tok(token.SHL_ASSIGN, start, startLine, startCol, token.RadixNone)
		}
		return l.tok(token.SHL, start, startLine, startCol, token.RadixNone)
	}
	return l.tok(token.LT, start, startLine, startCol, token.RadixNone)
}

// scanGreater walks the `>`, `>=`, `>>`, `>>>`, `>>>>`, and their `=`
// compound-assignment spellings.
func (l *Lexer) scanGreater(start, startLine, startCol int) token.Token {
	if l.match('=') {
		return l.tok(token.GTE, start, startLine, startCol, token.RadixNone)
	}
	if l.match('>') {
		if l.match('>') {
			if l.match('>') {
				if l.match('=') {
					return l.tok(token.ROR_ASSIGN, start, startLine, startCol, token.RadixNone)
				}
				return l.tok(token.ROR, start, startLine, startCol, token.RadixNone)
			}
			if l.match('=') {
				return l.tok(token.USHR_ASSIGN, start, startLine, startCol, token.RadixNone)
			}
			return l.tok(token.USHR, start, startLine, startCol, token.RadixNone)
		}
		if l.match('=') {
			return l.tok(token.SHR_ASSIGN, start, startLine, startCol, token.RadixNone)
		}
		return l.tok(token.SHR, start, startLine, startCol, token.RadixNone)
	}
	return l.tok(token.GT, start, startLine, startCol, token.RadixNone)
}
