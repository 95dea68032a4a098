package parser

import (
	"neo/ast"
	"neo/token"
)

// Precedence levels, lowest to highest, per spec.md §4.2. PrecTernary
// has no infix operator wired to it — the grammar reserves the level
// (mirroring original_source/src/neo_parser.c's PREC_TERNARY, used
// internally as an argument/condition parse ceiling, not as an infix
// binding power) but Neo has no ternary operator in this spec.
const (
	PrecNone = iota
	PrecAssignment
	PrecTernary
	PrecOr
	PrecAnd
	PrecComparison
	PrecTerm
	PrecFactor
	PrecUnary
	PrecCall
	PrecPrimary
)

type prefixFn func(*Parser) ast.Ref
type infixFn func(*Parser, ast.Ref) ast.Ref

type rule struct {
	prefix prefixFn
	infix  infixFn
	prec   int
}

var rules map[token.Kind]rule

func init() {
	rules = map[token.Kind]rule{
		token.INT:    {prefix: (*Parser).parseNumber},
		token.FLOAT:  {prefix: (*Parser).parseNumber},
		token.CHAR:   {prefix: (*Parser).parseChar},
		token.STRING: {prefix: (*Parser).parseString},
		token.IDENT:  {prefix: (*Parser).parseIdent},
		token.SELF:   {prefix: (*Parser).parseIdent},
		token.TRUE:   {prefix: (*Parser).parseBool},
		token.FALSE:  {prefix: (*Parser).parseBool},
		token.LPAREN: {prefix: (*Parser).parseGroup, infix: (*Parser).parseCall, prec: PrecCall},

		token.PLUS:  {prefix: (*Parser).parseUnary, infix: (*Parser).parseBinary, prec: PrecTerm},
		token.MINUS: {prefix: (*Parser).parseUnary, infix: (*Parser).parseBinary, prec: PrecTerm},
		token.TILDE: {prefix: (*Parser).parseUnary},
		token.NOT:   {prefix: (*Parser).parseUnary},
		token.INCR:  {prefix: (*Parser).parseUnary},
		token.DECR:  {prefix: (*Parser).parseUnary},

		token.STAR:          {infix: (*Parser).parseBinary, prec: PrecFactor},
		token.SLASH:         {infix: (*Parser).parseBinary, prec: PrecFactor},
		token.PERCENT:       {infix: (*Parser).parseBinary, prec: PrecFactor},
		token.STARSTAR:      {infix: (*Parser).parseBinary, prec: PrecFactor},
		token.PLUS_BANG:     {infix: (*Parser).parseBinary, prec: PrecTerm},
		token.MINUS_BANG:    {infix: (*Parser).parseBinary, prec: PrecTerm},
		token.STAR_BANG:     {infix: (*Parser).parseBinary, prec: PrecFactor},
		token.STARSTAR_BANG: {infix: (*Parser).parseBinary, prec: PrecFactor},

		token.EQ:  {infix: (*Parser).parseBinary, prec: PrecComparison},
		token.NEQ: {infix: (*Parser).parseBinary, prec: PrecComparison},
		token.LT:  {infix: (*Parser).parseBinary, prec: PrecComparison},
		token.LTE: {infix: (*Parser).parseBinary, prec: PrecComparison},
		token.GT:  {infix: (*Parser).parseBinary, prec: PrecComparison},
		token.GTE: {infix: (*Parser).parseBinary, prec: PrecComparison},

		// Bitwise and shift/rotate operators have no dedicated level in
		// spec.md §4.2's 11-level ladder; they are bound at Term, the
		// nearest arithmetic tier (documented as an Open Question
		// decision in DESIGN.md).
		token.AMP:   {infix: (*Parser).parseBinary, prec: PrecTerm},
		token.PIPE:  {infix: (*Parser).parseBinary, prec: PrecTerm},
		token.CARET: {infix: (*Parser).parseBinary, prec: PrecTerm},
		token.SHL:   {infix: (*Parser).parseBinary, prec: PrecTerm},
		token.SHR:   {infix: (*Parser).parseBinary, prec: PrecTerm},
		token.USHR:  {infix: (*Parser).parseBinary, prec: PrecTerm},
		token.ROL:   {infix: (*Parser).parseBinary, prec: PrecTerm},
		token.ROR:   {infix: (*Parser).parseBinary, prec: PrecTerm},

		token.AND: {infix: (*Parser).parseLogical, prec: PrecAnd},
		token.OR:  {infix: (*Parser).parseLogical, prec: PrecOr},
		token.DOT: {infix: (*Parser).parseDot, prec: PrecCall},

		token.ASSIGN:         {infix: (*Parser).parseAssign, prec: PrecAssignment},
		token.PLUS_ASSIGN:    {infix: (*Parser).parseAssign, prec: PrecAssignment},
		token.MINUS_ASSIGN:   {infix: (*Parser).parseAssign, prec: PrecAssignment},
		token.STAR_ASSIGN:    {infix: (*Parser).parseAssign, prec: PrecAssignment},
		token.SLASH_ASSIGN:   {infix: (*Parser).parseAssign, prec: PrecAssignment},
		token.PERCENT_ASSIGN: {infix: (*Parser).parseAssign, prec: PrecAssignment},
		token.AMP_ASSIGN:     {infix: (*Parser).parseAssign, prec: PrecAssignment},
		token.PIPE_ASSIGN:    {infix: (*Parser).parseAssign, prec: PrecAssignment},
		token.CARET_ASSIGN:   {infix: (*Parser).parseAssign, prec: PrecAssignment},
		token.SHL_ASSIGN:     {infix: (*Parser).parseAssign, prec: PrecAssignment},
		token.SHR_ASSIGN:     {infix: (*Parser).parseAssign, prec: PrecAssignment},
		token.USHR_ASSIGN:    {infix: (*Parser).parseAssign, prec: PrecAssignment},
		token.ROL_ASSIGN:     {infix: (*Parser).parseAssign, prec: PrecAssignment},
		token.ROR_ASSIGN:     {infix: (*Parser).parseAssign, prec: PrecAssignment},
	}
}

// parseExpression parses a full expression starting at Assignment
// precedence, the entry point for every expression context.
func (p *Parser) parseExpression() ast.Ref {
	return p.parsePrecedence(PrecAssignment)
}

func (p *Parser) parsePrecedence(minPrec int) ast.Ref {
	tok := p.peek()
	r, ok := rules[tok.Kind]
	if !ok || r.prefix == nil {
		p.errorAt(tok, "expected expression, found %s", tok.Kind)
		p.advance()
		return p.errNode(tok, "expected expression")
	}
	left := r.prefix(p)
	for {
		tok = p.peek()
		r, ok = rules[tok.Kind]
		if !ok || r.infix == nil || r.prec < minPrec {
			break
		}
		left = r.infix(p, left)
	}
	return left
}

// --- prefix parsers ---------------------------------------------------

func (p *Parser) parseNumber() ast.Ref {
	tok := p.advance()
	if tok.Kind == token.FLOAT {
		v, ok := p.scanFloatLiteral(tok)
		if !ok {
			p.errorAt(tok, "invalid float literal %q", tok.Lexeme.Text(p.file.Bytes))
			return p.errNode(tok, "invalid float literal")
		}
		return p.pool.NewFloatLit(tok, v)
	}
	v, ok := p.scanIntLiteral(tok)
	if !ok {
		p.errorAt(tok, "invalid integer literal %q", tok.Lexeme.Text(p.file.Bytes))
		return p.errNode(tok, "invalid integer literal")
	}
	return p.pool.NewIntLit(tok, v)
}

// parseChar parses a char literal to a placeholder value: the source
// leaves char-literal content scanning unimplemented (spec.md §9).
func (p *Parser) parseChar() ast.Ref {
	tok := p.advance()
	return p.pool.NewCharLit(tok, 0)
}

func (p *Parser) parseString() ast.Ref {
	tok := p.advance()
	raw := tok.Lexeme.Text(p.file.Bytes)
	if len(raw) >= 2 {
		raw = raw[1 : len(raw)-1]
	}
	return p.pool.NewStringLit(tok, []byte(unescape(raw)))
}

func (p *Parser) parseIdent() ast.Ref {
	tok := p.advance()
	return p.pool.NewIdentLit(tok, p.identText(tok))
}

func (p *Parser) parseBool() ast.Ref {
	tok := p.advance()
	return p.pool.NewBoolLit(tok, tok.Kind == token.TRUE)
}

func (p *Parser) parseGroup() ast.Ref {
	tok := p.advance() // consume '('
	inner := p.parsePrecedence(PrecAssignment)
	p.consume(token.RPAREN, "expected ')' to close expression")
	return p.pool.NewGroup(tok, inner)
}

var unaryOps = map[token.Kind]ast.UnaryOp{
	token.PLUS:  ast.UnPlus,
	token.MINUS: ast.UnMinus,
	token.TILDE: ast.UnBitCompl,
	token.NOT:   ast.UnNot,
	token.INCR:  ast.UnInc,
	token.DECR:  ast.UnDec,
}

func (p *Parser) parseUnary() ast.Ref {
	tok := p.advance()
	operand := p.parsePrecedence(PrecUnary)
	return p.pool.NewUnaryOp(tok, unaryOps[tok.Kind], operand)
}

// --- infix parsers ---------------------------------------------------

var binaryOps = map[token.Kind]ast.BinaryOp{
	token.PLUS: ast.BinAdd, token.MINUS: ast.BinSub, token.STAR: ast.BinMul,
	token.SLASH: ast.BinDiv, token.PERCENT: ast.BinMod, token.STARSTAR: ast.BinPow,
	token.PLUS_BANG: ast.BinAddW, token.MINUS_BANG: ast.BinSubW,
	token.STAR_BANG: ast.BinMulW, token.STARSTAR_BANG: ast.BinPowW,
	token.EQ: ast.BinEq, token.NEQ: ast.BinNeq, token.LT: ast.BinLt,
	token.LTE: ast.BinLte, token.GT: ast.BinGt, token.GTE: ast.BinGte,
	token.AMP: ast.BinBitAnd, token.PIPE: ast.BinBitOr, token.CARET: ast.BinBitXor,
	token.SHL: ast.BinShl, token.SHR: ast.BinShr, token.USHR: ast.BinUshr,
	token.ROL: ast.BinRol, token.ROR: ast.BinRor,
}

func (p *Parser) parseBinary(left ast.Ref) ast.Ref {
	tok := p.advance()
	r := rules[tok.Kind]
	right := p.parsePrecedence(r.prec + 1) // left-associative
	return p.pool.NewBinaryOp(tok, binaryOps[tok.Kind], left, right)
}

func (p *Parser) parseLogical(left ast.Ref) ast.Ref {
	tok := p.advance()
	r := rules[tok.Kind]
	right := p.parsePrecedence(r.prec + 1)
	op := ast.BinLogAnd
	if tok.Kind == token.OR {
		op = ast.BinLogOr
	}
	return p.pool.NewBinaryOp(tok, op, left, right)
}

func (p *Parser) parseDot(left ast.Ref) ast.Ref {
	tok := p.advance()
	memberTok := p.consume(token.IDENT, "expected member name after '.'")
	member := p.pool.NewIdentLit(memberTok, p.identText(memberTok))
	return p.pool.NewBinaryOp(tok, ast.BinDot, left, member)
}

// parseCall parses the `(args)` postfix call operator: a BinaryOp
// whose BinOp is ast.BinCall and whose right child is an ArgList
// block, or NullRef for a zero-argument call (spec.md §4.2).
func (p *Parser) parseCall(left ast.Ref) ast.Ref {
	tok := p.advance() // consume '('
	args := ast.NullRef
	if !p.check(token.RPAREN) {
		block := p.pool.NewBlock(tok, ast.ScopeArgList)
		for {
			arg := p.parsePrecedence(PrecAssignment)
			p.pool.BlockPush(block, arg)
			if !p.match(token.COMMA) {
				break
			}
		}
		args = block
	}
	p.consume(token.RPAREN, "expected ')' to close call arguments")
	return p.pool.NewBinaryOp(tok, ast.BinCall, left, args)
}

var assignOps = map[token.Kind]ast.BinaryOp{
	token.ASSIGN: ast.BinAssign, token.PLUS_ASSIGN: ast.BinAddAssign,
	token.MINUS_ASSIGN: ast.BinSubAssign, token.STAR_ASSIGN: ast.BinMulAssign,
	token.SLASH_ASSIGN: ast.BinDivAssign, token.PERCENT_ASSIGN: ast.BinModAssign,
	token.AMP_ASSIGN: ast.BinBitAndAssign, token.PIPE_ASSIGN: ast.BinBitOrAssign,
	token.CARET_ASSIGN: ast.BinBitXorAssign, token.SHL_ASSIGN: ast.BinShlAssign,
	token.SHR_ASSIGN: ast.BinShrAssign, token.USHR_ASSIGN: ast.BinUshrAssign,
	token.ROL_ASSIGN: ast.BinRolAssign, token.ROR_ASSIGN: ast.BinRorAssign,
}

// isLValue reports whether ref is a legal assignment target: a bare
// identifier or a member-access expression (spec.md §4.2
// "Assignment": "Assigning to a non-lvalue is an error at parse
// time.").
func (p *Parser) isLValue(ref ast.Ref) bool {
	n := p.pool.Node(ref)
	if n.Kind == ast.IdentLit {
		return true
	}
	return n.Kind == ast.BinaryOp && n.BinOp == ast.BinDot
}

func (p *Parser) parseAssign(left ast.Ref) ast.Ref {
	tok := p.advance()
	if !p.isLValue(left) {
		p.errorAt(tok, "invalid assignment target")
	}
	right := p.parsePrecedence(PrecAssignment) // right-associative
	return p.pool.NewBinaryOp(tok, assignOps[tok.Kind], left, right)
}
