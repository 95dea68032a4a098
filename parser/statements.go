package parser

import (
	"neo/ast"
	"neo/token"
)

// parseModule is the grammar entry point: the whole token stream is a
// single Module block body, newline-terminated statements, EOF-closed
// rather than `end`-closed (spec.md §4.2 "Module-level").
func (p *Parser) parseModule() ast.Ref {
	tok := p.peek()
	body := p.pool.NewBlock(tok, ast.ScopeModule)
	p.skipNewlines()
	for !p.atEnd() {
		stmt := p.parseModuleStatement()
		if stmt != ast.NullRef {
			p.pool.BlockPush(body, stmt)
		}
		if p.panicking {
			p.synchronize()
		}
		p.skipNewlines()
	}
	ident := p.pool.NewIdentLit(tok, []byte(p.file.Name))
	return p.pool.NewModule(tok, ident, body)
}

// parseModuleStatement dispatches the Module-level statement tier
// (spec.md §4.2): class, static class, function, variable, branch,
// while, free expression statement.
func (p *Parser) parseModuleStatement() ast.Ref {
	switch {
	case p.check(token.STATIC) && p.peekNextIs(token.CLASS):
		p.advance() // consume 'static'; Class has no static flag (§9 decision)
		return p.parseClass()
	case p.check(token.CLASS):
		return p.parseClass()
	case p.check(token.STATIC) && p.peekNextIs(token.FUNC):
		p.advance()
		return p.parseFunc()
	case p.check(token.FUNC):
		return p.parseFunc()
	case p.check(token.LET):
		return p.parseVariable(ast.VarLocal)
	case p.check(token.IF):
		return p.parseBranch()
	case p.check(token.WHILE):
		return p.parseLoop()
	case p.check(token.BREAK), p.check(token.CONTINUE), p.check(token.RETURN):
		tok := p.peek()
		p.errorAt(tok, "%s is not allowed at module level", tok.Kind)
		p.advance()
		return p.errNode(tok, "not allowed at module level")
	default:
		return p.parseFreeExprStmt()
	}
}

// peekNextIs reports whether the token after the current one has kind
// k, without consuming anything.
func (p *Parser) peekNextIs(k token.Kind) bool {
	if p.pos+1 >= len(p.toks) {
		return false
	}
	return p.toks[p.pos+1].Kind == k
}

// parseClassStatement dispatches the Class-body tier (spec.md §4.2):
// only (static) function and (static) variable are legal.
func (p *Parser) parseClassStatement() ast.Ref {
	switch {
	case p.check(token.STATIC) && p.peekNextIs(token.FUNC):
		p.advance()
		return p.parseFunc()
	case p.check(token.FUNC):
		return p.parseFunc()
	case p.check(token.STATIC) && p.peekNextIs(token.LET):
		p.advance()
		return p.parseVariable(ast.VarStaticField)
	case p.check(token.LET):
		return p.parseVariable(ast.VarField)
	default:
		tok := p.peek()
		p.errorAt(tok, "only function and variable declarations are allowed in a class body, found %s", tok.Kind)
		p.advance()
		return p.errNode(tok, "illegal class member")
	}
}

// parseLocalStatement dispatches the Local tier (spec.md §4.2):
// variable, branch, while, return, break/continue (only inside a
// loop), free expression.
func (p *Parser) parseLocalStatement() ast.Ref {
	switch {
	case p.check(token.LET):
		return p.parseVariable(ast.VarLocal)
	case p.check(token.IF):
		return p.parseBranch()
	case p.check(token.WHILE):
		return p.parseLoop()
	case p.check(token.RETURN):
		return p.parseReturn()
	case p.check(token.BREAK):
		tok := p.advance()
		if !p.withinLoop {
			p.errorAt(tok, "break outside of a loop")
		}
		return p.pool.NewBreak(tok)
	case p.check(token.CONTINUE):
		tok := p.advance()
		if !p.withinLoop {
			p.errorAt(tok, "continue outside of a loop")
		}
		return p.pool.NewContinue(tok)
	default:
		return p.parseFreeExprStmt()
	}
}

// parseFreeExprStmt parses a bare expression statement terminated by a
// newline; a lone identifier is rejected since it cannot stand alone
// as a statement (spec.md §4.2 "Free expression statement").
func (p *Parser) parseFreeExprStmt() ast.Ref {
	tok := p.peek()
	if tok.Kind == token.IDENT && (p.peekNextIs(token.NEWLINE) || p.pos+1 >= len(p.toks)) {
		p.errorAt(tok, "a bare identifier is not a valid statement")
		p.advance()
		return p.errNode(tok, "bare identifier statement")
	}
	expr := p.parseExpression()
	p.expectStatementEnd()
	return expr
}

// expectStatementEnd requires a newline or EOF to terminate the
// current statement.
func (p *Parser) expectStatementEnd() {
	if p.check(token.NEWLINE) {
		p.advance()
		return
	}
	if p.atEnd() {
		return
	}
	p.errorAt(p.peek(), "expected newline after statement, found %s", p.peek().Kind)
}

// --- blocks -------------------------------------------------------

// parseBlock parses a sequence of scope-appropriate statements up to
// (and consuming) a terminating `end` keyword, enforcing the
// maxBlockDepth recursion guard (spec.md §4.2 "Scope discipline").
func (p *Parser) parseBlock(scope ast.BlockScope) ast.Ref {
	p.depth++
	if p.depth > maxBlockDepth {
		panic("parser: block nesting exceeds maximum depth")
	}
	defer func() { p.depth-- }()

	tok := p.peek()
	block := p.pool.NewBlock(tok, scope)
	p.skipNewlines()
	for !p.atEnd() && !p.check(token.END) {
		var stmt ast.Ref
		switch scope {
		case ast.ScopeClass:
			stmt = p.parseClassStatement()
		default:
			stmt = p.parseLocalStatement()
		}
		if stmt != ast.NullRef {
			p.pool.BlockPush(block, stmt)
		}
		if p.panicking {
			p.synchronize()
		}
		p.skipNewlines()
	}
	p.consume(token.END, "expected 'end' to close block")
	return block
}

// --- declarations ---------------------------------------------------

// parseVariable parses `let <ident>:<type>` with an optional `=
// <expr>` initializer (required unless scope is VarParam), per
// spec.md §4.2 "Variable rule".
func (p *Parser) parseVariable(scope ast.VarScope) ast.Ref {
	tok := p.peek()
	if scope != ast.VarParam {
		p.advance() // consume 'let'; parameters have no leading 'let'
	}
	nameTok := p.consume(token.IDENT, "expected variable name")
	ident := p.pool.NewIdentLit(nameTok, p.identText(nameTok))

	typ := ast.NullRef
	if p.match(token.COLON) {
		typeTok := p.consume(token.IDENT, "expected type name after ':'")
		typ = p.pool.NewIdentLit(typeTok, p.identText(typeTok))
	}

	init := ast.NullRef
	if p.match(token.ASSIGN) {
		init = p.parseExpression()
	} else if scope != ast.VarParam {
		p.errorAt(p.peek(), "variable %q requires an initializer", nameTok.Lexeme.Text(p.file.Bytes))
	}

	if scope != ast.VarParam {
		p.expectStatementEnd()
	}
	return p.pool.NewVariable(tok, scope, ident, typ, init)
}

// parseParamList parses a comma-separated ParamList block of variable
// nodes with empty initializers (spec.md §4.2 "Function rule").
func (p *Parser) parseParamList() ast.Ref {
	tok := p.consume(token.LPAREN, "expected '(' to start parameter list")
	params := p.pool.NewBlock(tok, ast.ScopeParamList)
	if !p.check(token.RPAREN) {
		for {
			param := p.parseVariable(ast.VarParam)
			p.pool.BlockPush(params, param)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RPAREN, "expected ')' to close parameter list")
	return params
}

// parseFunc parses `func <ident>(<params>)` with an optional `-> <type>`
// return type and an optional `end`-terminated Local body (spec.md
// §4.2 "Function rule").
func (p *Parser) parseFunc() ast.Ref {
	tok := p.advance() // consume 'func'
	nameTok := p.consume(token.IDENT, "expected function name")
	ident := p.pool.NewIdentLit(nameTok, p.identText(nameTok))
	params := p.parseParamList()

	retType := ast.NullRef
	if p.match(token.ARROW) {
		typeTok := p.consume(token.IDENT, "expected return type after '->'")
		retType = p.pool.NewIdentLit(typeTok, p.identText(typeTok))
	}

	body := ast.NullRef
	if p.check(token.NEWLINE) {
		p.skipNewlines()
		body = p.parseBlock(ast.ScopeLocal)
	} else {
		p.expectStatementEnd()
	}
	return p.pool.NewMethod(tok, ident, params, retType, body)
}

// parseClass parses `class <ident> <newline> <body> end` (spec.md
// §4.2 "Class rule").
func (p *Parser) parseClass() ast.Ref {
	tok := p.advance() // consume 'class'
	nameTok := p.consume(token.IDENT, "expected class name")
	ident := p.pool.NewIdentLit(nameTok, p.identText(nameTok))
	p.skipNewlines()
	body := p.parseBlock(ast.ScopeClass)
	return p.pool.NewClass(tok, ident, body)
}

// parseBranch parses `if <cond> then <body> end`. No else-branch is
// currently wired; the AST keeps a slot (C) for it (spec.md §4.2
// "Branch rule").
func (p *Parser) parseBranch() ast.Ref {
	tok := p.advance() // consume 'if'
	cond := p.parseExpression()
	p.consume(token.THEN, "expected 'then' after branch condition")
	p.skipNewlines()
	trueBlock := p.parseBlock(ast.ScopeLocal)
	return p.pool.NewBranch(tok, cond, trueBlock, ast.NullRef)
}

// parseLoop parses `while <cond> do <body> end`, setting withinLoop so
// nested break/continue are legal (spec.md §4.2 "Loop rule").
func (p *Parser) parseLoop() ast.Ref {
	tok := p.advance() // consume 'while'
	cond := p.parseExpression()
	p.consume(token.DO, "expected 'do' after loop condition")
	p.skipNewlines()

	prevWithinLoop := p.withinLoop
	p.withinLoop = true
	body := p.parseBlock(ast.ScopeLocal)
	p.withinLoop = prevWithinLoop

	return p.pool.NewLoop(tok, cond, body)
}

// parseReturn parses `return` with an optional trailing expression.
func (p *Parser) parseReturn() ast.Ref {
	tok := p.advance() // consume 'return'
	expr := ast.NullRef
	if !p.check(token.NEWLINE) && !p.atEnd() {
		expr = p.parseExpression()
	}
	p.expectStatementEnd()
	return p.pool.NewReturn(tok, expr)
}
