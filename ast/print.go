package ast

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Print renders the AST rooted at root as indented JSON, adapted from
// informatter-nilan/parser/printer.go's astPrinter — but built by
// walking Pool refs instead of dispatching on an interface-typed
// Stmt/Expr tree, since Neo's AST has no such hierarchy to visit.
func Print(p *Pool, root Ref) (string, error) {
	tree := toAny(p, root)
	b, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func toAny(p *Pool, r Ref) any {
	if r == NullRef {
		return nil
	}
	n := p.Node(r)
	switch n.Kind {
	case Error:
		return map[string]any{"type": "Error", "message": n.Message}
	case Break:
		return map[string]any{"type": "Break"}
	case Continue:
		return map[string]any{"type": "Continue"}
	case IntLit:
		return map[string]any{"type": "Int", "value": n.IntVal}
	case FloatLit:
		return map[string]any{"type": "Float", "value": n.FloatVal}
	case CharLit:
		return map[string]any{"type": "Char", "value": n.CharVal}
	case BoolLit:
		return map[string]any{"type": "Bool", "value": n.BoolVal}
	case StringLit:
		return map[string]any{"type": "String", "value": string(n.Str.Bytes)}
	case IdentLit:
		return map[string]any{"type": "Ident", "name": string(n.Str.Bytes)}
	case Group:
		return map[string]any{"type": "Group", "expr": toAny(p, n.A)}
	case UnaryOp:
		return map[string]any{"type": "UnaryOp", "op": n.UnOp.String(), "operand": toAny(p, n.A)}
	case BinaryOp:
		return map[string]any{"type": "BinaryOp", "op": n.BinOp.String(), "left": toAny(p, n.A), "right": toAny(p, n.B)}
	case Method:
		return map[string]any{
			"type": "Method", "ident": toAny(p, n.A), "params": toAny(p, n.B),
			"retType": toAny(p, n.C), "body": toAny(p, n.D),
		}
	case Block:
		children := p.List(n.List)
		stmts := make([]any, 0, len(children))
		for _, c := range children {
			stmts = append(stmts, toAny(p, c))
		}
		return map[string]any{"type": "Block", "scope": n.Scope.String(), "statements": stmts}
	case Variable:
		return map[string]any{
			"type": "Variable", "ident": toAny(p, n.A), "varType": toAny(p, n.B), "init": toAny(p, n.C),
		}
	case Return:
		return map[string]any{"type": "Return", "expr": toAny(p, n.A)}
	case Branch:
		return map[string]any{
			"type": "Branch", "cond": toAny(p, n.A), "then": toAny(p, n.B), "else": toAny(p, n.C),
		}
	case Loop:
		return map[string]any{"type": "Loop", "cond": toAny(p, n.A), "body": toAny(p, n.B)}
	case Class:
		return map[string]any{"type": "Class", "ident": toAny(p, n.A), "body": toAny(p, n.B)}
	case Module:
		return map[string]any{"type": "Module", "ident": toAny(p, n.A), "body": toAny(p, n.B)}
	default:
		return map[string]any{"type": "Unknown"}
	}
}

// highlightTheme maps node-kind categories to ANSI sequences, carried
// over from clarete-langlang/go/tree.go's treePrinterTheme.
var highlightTheme = map[string]string{
	"reset":    "\033[0m",
	"literal":  "\033[1;38;5;245m", // gray
	"ident":    "\033[1;31;5;228m", // orange
	"operator": "\033[1;38;5;99m",  // purple
	"error":    "\033[1;38;5;127m", // pink
}

func colorize(category, text string) string {
	c, ok := highlightTheme[category]
	if !ok {
		return text
	}
	return c + text + highlightTheme["reset"]
}

// Highlight renders a compact, optionally ANSI-colored S-expression
// form of the AST rooted at root, for terminal disassembly-adjacent
// tooling (spec.md §4.4 disassembler has the same "colors optional"
// property; this mirrors it for the AST side).
func Highlight(p *Pool, root Ref, color bool) string {
	var b strings.Builder
	writeSexpr(&b, p, root, color)
	return b.String()
}

func writeSexpr(b *strings.Builder, p *Pool, r Ref, color bool) {
	if r == NullRef {
		b.WriteString("nil")
		return
	}
	n := p.Node(r)
	paint := func(cat, s string) string {
		if !color {
			return s
		}
		return colorize(cat, s)
	}
	switch n.Kind {
	case Error:
		b.WriteString(paint("error", fmt.Sprintf("(error %q)", n.Message)))
	case Break:
		b.WriteString("(break)")
	case Continue:
		b.WriteString("(continue)")
	case IntLit:
		b.WriteString(paint("literal", fmt.Sprintf("%d", n.IntVal)))
	case FloatLit:
		b.WriteString(paint("literal", fmt.Sprintf("%g", n.FloatVal)))
	case CharLit:
		b.WriteString(paint("literal", fmt.Sprintf("%q", n.CharVal)))
	case BoolLit:
		b.WriteString(paint("literal", fmt.Sprintf("%t", n.BoolVal)))
	case StringLit:
		b.WriteString(paint("literal", fmt.Sprintf("%q", n.Str.Bytes)))
	case IdentLit:
		b.WriteString(paint("ident", string(n.Str.Bytes)))
	case Group:
		b.WriteString("(")
		writeSexpr(b, p, n.A, color)
		b.WriteString(")")
	case UnaryOp:
		b.WriteString("(" + paint("operator", n.UnOp.String()) + " ")
		writeSexpr(b, p, n.A, color)
		b.WriteString(")")
	case BinaryOp:
		b.WriteString("(" + paint("operator", n.BinOp.String()) + " ")
		writeSexpr(b, p, n.A, color)
		b.WriteString(" ")
		writeSexpr(b, p, n.B, color)
		b.WriteString(")")
	case Block:
		b.WriteString("(block")
		for _, c := range p.List(n.List) {
			b.WriteString(" ")
			writeSexpr(b, p, c, color)
		}
		b.WriteString(")")
	case Variable:
		b.WriteString("(let ")
		writeSexpr(b, p, n.A, color)
		b.WriteString(" ")
		writeSexpr(b, p, n.C, color)
		b.WriteString(")")
	case Return:
		b.WriteString("(return ")
		writeSexpr(b, p, n.A, color)
		b.WriteString(")")
	case Branch:
		b.WriteString("(if ")
		writeSexpr(b, p, n.A, color)
		b.WriteString(" ")
		writeSexpr(b, p, n.B, color)
		b.WriteString(")")
	case Loop:
		b.WriteString("(while ")
		writeSexpr(b, p, n.A, color)
		b.WriteString(" ")
		writeSexpr(b, p, n.B, color)
		b.WriteString(")")
	case Class:
		b.WriteString("(class ")
		writeSexpr(b, p, n.A, color)
		b.WriteString(")")
	case Method:
		b.WriteString("(func ")
		writeSexpr(b, p, n.A, color)
		b.WriteString(")")
	case Module:
		b.WriteString("(module ")
		writeSexpr(b, p, n.A, color)
		b.WriteString(" ")
		writeSexpr(b, p, n.B, color)
		b.WriteString(")")
	}
}
