// Package js holds the already-parsed script-expression trees that the
// template analyzer consumes. The analyzer never parses script source; it
// only interrogates the shape of these nodes (identifier references, member
// expressions, call expressions, assignment targets) the way the external
// expression parser produced them.
package js

import "github.com/walteh/go-svelte-analyzer/pkg/span"

// Node is implemented by every script node.
type Node interface {
	Span() span.Span
}

// Expression is the sealed set of value-producing nodes.
type Expression interface {
	Node
	exprNode()
}

// Pattern is the sealed set of binding-position nodes (declaration targets,
// destructuring shapes, function parameters).
type Pattern interface {
	Node
	patternNode()
}

// Statement is the sealed set of statement nodes appearing in a script
// Program or a function body.
type Statement interface {
	Node
	stmtNode()
}

// NodeBase carries the source span shared by every node; embed it.
type NodeBase struct {
	Loc span.Span
}

func (b NodeBase) Span() span.Span { return b.Loc }
