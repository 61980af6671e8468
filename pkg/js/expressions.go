package js

import (
	"strings"

	"github.com/walteh/go-svelte-analyzer/pkg/span"
)

// Identifier is a reference to (or declaration of) a name. The same node
// type appears in expression position and in pattern position, matching how
// the expression parser emits it.
type Identifier struct {
	NodeBase
	Name string
}

func NewIdentifier(loc span.Span, name string) *Identifier {
	return &Identifier{NodeBase: NodeBase{Loc: loc}, Name: name}
}

// MemberExpression is `object.property` or `object[property]`.
type MemberExpression struct {
	NodeBase
	Object   Expression
	Property Expression
	Computed bool
	Optional bool
}

// RootIdentifier walks the object chain to the base identifier, returning
// nil when the base is a call or another non-identifier expression.
func (m *MemberExpression) RootIdentifier() *Identifier {
	obj := m.Object
	for {
		switch o := obj.(type) {
		case *Identifier:
			return o
		case *MemberExpression:
			obj = o.Object
		default:
			return nil
		}
	}
}

// PathKey renders the member chain as a name-based key, e.g.
// `items[i].done`. Spans never participate, so two syntactically identical
// paths at different source locations produce the same key.
func (m *MemberExpression) PathKey() (string, bool) {
	var parts []string
	var walk func(e Expression) bool
	walk = func(e Expression) bool {
		switch n := e.(type) {
		case *Identifier:
			parts = append(parts, n.Name)
			return true
		case *MemberExpression:
			if !walk(n.Object) {
				return false
			}
			switch p := n.Property.(type) {
			case *Identifier:
				if n.Computed {
					parts = append(parts, "["+p.Name+"]")
				} else {
					parts = append(parts, "."+p.Name)
				}
			case *Literal:
				parts = append(parts, "["+p.Raw+"]")
			default:
				return false
			}
			return true
		default:
			return false
		}
	}
	if !walk(m) {
		return "", false
	}
	return strings.Join(parts, ""), true
}

// CallExpression is `callee(args...)`.
type CallExpression struct {
	NodeBase
	Callee   Expression
	Args     []Expression
	Optional bool
}

// AssignmentExpression is `target op value`, e.g. `count = 1`, `total += n`.
type AssignmentExpression struct {
	NodeBase
	Operator string
	Target   Expression
	Value    Expression
}

// UpdateExpression is `target++` / `--target`.
type UpdateExpression struct {
	NodeBase
	Operator string
	Target   Expression
	Prefix   bool
}

// ArrowFunction is `(params) => body`. Body is either a single expression
// or a block of statements; exactly one of the two fields is set.
type ArrowFunction struct {
	NodeBase
	Params []Pattern
	Expr   Expression
	Body   []Statement
}

// FunctionExpression is a `function` literal.
type FunctionExpression struct {
	NodeBase
	ID     *Identifier
	Params []Pattern
	Body   []Statement
}

type ConditionalExpression struct {
	NodeBase
	Test       Expression
	Consequent Expression
	Alternate  Expression
}

type BinaryExpression struct {
	NodeBase
	Operator string
	Left     Expression
	Right    Expression
}

type LogicalExpression struct {
	NodeBase
	Operator string
	Left     Expression
	Right    Expression
}

type UnaryExpression struct {
	NodeBase
	Operator string
	Argument Expression
}

// Literal is any primitive literal; Raw is the source text, Value the
// decoded form where one exists.
type Literal struct {
	NodeBase
	Raw   string
	Value any
}

// TemplateLiteral is a backtick string; only the interpolated expressions
// matter to the analyzer.
type TemplateLiteral struct {
	NodeBase
	Quasis      []string
	Expressions []Expression
}

type ObjectExpression struct {
	NodeBase
	Properties []ObjectProperty
}

// ObjectProperty is one `key: value` (or shorthand / spread) entry.
type ObjectProperty struct {
	Key      Expression
	Value    Expression
	Spread   bool
	Computed bool
}

type ArrayExpression struct {
	NodeBase
	Elements []Expression
}

type SequenceExpression struct {
	NodeBase
	Expressions []Expression
}

type SpreadElement struct {
	NodeBase
	Argument Expression
}

func (*Identifier) exprNode()            {}
func (*MemberExpression) exprNode()      {}
func (*CallExpression) exprNode()        {}
func (*AssignmentExpression) exprNode()  {}
func (*UpdateExpression) exprNode()      {}
func (*ArrowFunction) exprNode()         {}
func (*FunctionExpression) exprNode()    {}
func (*ConditionalExpression) exprNode() {}
func (*BinaryExpression) exprNode()      {}
func (*LogicalExpression) exprNode()     {}
func (*UnaryExpression) exprNode()       {}
func (*Literal) exprNode()               {}
func (*TemplateLiteral) exprNode()       {}
func (*ObjectExpression) exprNode()      {}
func (*ArrayExpression) exprNode()       {}
func (*SequenceExpression) exprNode()    {}
func (*SpreadElement) exprNode()         {}
