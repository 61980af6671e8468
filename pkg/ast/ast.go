// Package ast is the template tree the external parser hands to the
// analyzer: markup nodes, embedded script programs, directives, and the
// metadata slots the analysis pass fills in. The tree is built once and
// never mutated after analysis completes.
package ast

import (
	"github.com/walteh/go-svelte-analyzer/pkg/css"
	"github.com/walteh/go-svelte-analyzer/pkg/js"
	"github.com/walteh/go-svelte-analyzer/pkg/span"
)

// Node is implemented by every template node.
type Node interface {
	Span() span.Span
}

// BaseNode carries the source span; embed it.
type BaseNode struct {
	Loc span.Span
}

func (b BaseNode) Span() span.Span { return b.Loc }

// Root is one parsed component.
type Root struct {
	BaseNode
	Options  *SvelteOptions
	Fragment Fragment
	CSS      *Style
	Instance *Script
	Module   *Script
	TS       bool
}

// Fragment is an ordered run of sibling nodes. Transparent fragments
// forward the styling/namespace context of their parent instead of
// establishing their own.
type Fragment struct {
	Nodes       []FragmentNode
	Transparent bool
}

// FragmentNode is the sealed union of nodes a Fragment may hold:
// Text, a Tag variant, an Element variant, or a Block variant.
type FragmentNode interface {
	Node
	fragmentNode()
}

// Text is literal markup text.
type Text struct {
	BaseNode
	Data string
	Raw  string
}

// Tag is the sealed union of value-emitting template nodes.
type Tag interface {
	FragmentNode
	tagNode()
}

// ExpressionTag is `{expression}`.
type ExpressionTag struct {
	BaseNode
	Expression js.Expression
	Metadata   ExpressionMetadata
}

// HtmlTag is `{@html expression}`.
type HtmlTag struct {
	BaseNode
	Expression js.Expression
}

// ConstTag is `{@const declaration}`.
type ConstTag struct {
	BaseNode
	Declaration *js.VariableDeclaration
}

// DebugTag is `{@debug identifiers...}`.
type DebugTag struct {
	BaseNode
	Identifiers []*js.Identifier
}

// RenderTag is `{@render snippet(...)}`.
type RenderTag struct {
	BaseNode
	Expression *js.CallExpression
	// Chain is true for optional-chained renders, `{@render snippet?.()}`.
	Chain bool
}

// Script is one <script> block.
type Script struct {
	BaseNode
	Context    ScriptContext
	Program    *js.Program
	Attributes []*Attribute
}

type ScriptContext string

const (
	ScriptDefault ScriptContext = "default"
	ScriptModule  ScriptContext = "module"
)

// Style is the component's <style> block. The stylesheet body belongs to
// the CSS subsystem; the analyzer only needs its presence and selectors.
type Style struct {
	BaseNode
	Attributes []*Attribute
	StyleSheet css.StyleSheet
}

func (*Text) fragmentNode() {}

func (*ExpressionTag) fragmentNode() {}
func (*HtmlTag) fragmentNode()       {}
func (*ConstTag) fragmentNode()      {}
func (*DebugTag) fragmentNode()      {}
func (*RenderTag) fragmentNode()     {}

func (*ExpressionTag) tagNode() {}
func (*HtmlTag) tagNode()       {}
func (*ConstTag) tagNode()      {}
func (*DebugTag) tagNode()      {}
func (*RenderTag) tagNode()     {}
