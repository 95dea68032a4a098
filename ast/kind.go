package ast

// Kind is the sum-type discriminator for AST nodes: Neo's AST is a
// tagged union over twenty variants rather than an interface
// hierarchy (spec.md §9 "Tagged unions over inheritance"), mirroring
// original_source/src/neo_ast.h's `astnode_type_t` enum.
type Kind uint8

const (
	Error Kind = iota
	Break
	Continue
	IntLit
	FloatLit
	CharLit
	BoolLit
	StringLit
	IdentLit
	Group
	UnaryOp
	BinaryOp
	Method
	Block
	Variable
	Return
	Branch
	Loop
	Class
	Module
	kindCount
)

var kindNames = [kindCount]string{
	Error: "ERROR", Break: "BREAK", Continue: "CONTINUE",
	IntLit: "INT", FloatLit: "FLOAT", CharLit: "CHAR", BoolLit: "BOOL",
	StringLit: "STRING", IdentLit: "IDENT", Group: "GROUP",
	UnaryOp: "UNARY_OP", BinaryOp: "BINARY_OP", Method: "METHOD",
	Block: "BLOCK", Variable: "VARIABLE", Return: "RETURN",
	Branch: "BRANCH", Loop: "LOOP", Class: "CLASS", Module: "MODULE",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "UNKNOWN"
}

func mask(k Kind) uint64 { return 1 << uint64(k) }

// HullMask, LiteralMask and ExprMask mirror neo_ast.h's
// ASTNODE_HULL_MASK / ASTNODE_LITERAL_MASK / ASTNODE_EXPR_MASK: nodes
// with no payload, the six literal kinds, and every kind that can
// appear in expression position.
var (
	HullMask    = mask(Break) | mask(Continue)
	LiteralMask = mask(IntLit) | mask(FloatLit) | mask(CharLit) | mask(BoolLit) | mask(StringLit) | mask(IdentLit)
	ExprMask    = LiteralMask | mask(UnaryOp) | mask(BinaryOp) | mask(Group)
)

// PermittedMask returns the bitmask of Kinds a block of the given
// BlockScope may hold as direct children (spec.md §4.2 "statement
// structure" / §8 invariant "each child's kind lies in the scope's
// permitted mask").
func PermittedMask(scope BlockScope) uint64 {
	switch scope {
	case ScopeModule:
		return mask(Class) | mask(Method) | mask(Variable) | mask(Branch) | mask(Loop) | ExprMask
	case ScopeClass:
		return mask(Method) | mask(Variable)
	case ScopeLocal:
		return mask(Variable) | mask(Branch) | mask(Loop) | mask(Return) | mask(Break) | mask(Continue) | ExprMask
	case ScopeParamList:
		return mask(Variable)
	case ScopeArgList:
		return ExprMask
	default:
		return 0
	}
}

// Permits reports whether a block of scope s may directly hold a
// child of kind k.
func Permits(s BlockScope, k Kind) bool {
	return PermittedMask(s)&mask(k) != 0
}
