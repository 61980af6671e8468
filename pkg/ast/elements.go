package ast

import "github.com/walteh/go-svelte-analyzer/pkg/js"

// Element is the sealed union of the thirteen element-like node variants.
type Element interface {
	FragmentNode
	elementNode()
	// ElementAttributes exposes the attribute list shared by every variant.
	ElementAttributes() []ElementAttribute
	// ElementFragment exposes the child fragment shared by every variant.
	ElementFragment() *Fragment
}

// ElementBase is the shape shared by every element variant.
type ElementBase struct {
	BaseNode
	Attributes []ElementAttribute
	Fragment   Fragment
}

func (e *ElementBase) ElementAttributes() []ElementAttribute { return e.Attributes }
func (e *ElementBase) ElementFragment() *Fragment            { return &e.Fragment }

// Component is `<MyComponent ...>`.
type Component struct {
	ElementBase
	Name string
}

// TitleElement is `<title>`.
type TitleElement struct {
	ElementBase
}

// SlotElement is `<slot>`.
type SlotElement struct {
	ElementBase
	Name string
}

// RegularElement is any plain host element, `<div>`, `<svg>`, `<input>`.
type RegularElement struct {
	ElementBase
	Name     string
	Metadata ElementMetadata
}

// SvelteElement is `<svelte:element this={expression}>`.
type SvelteElement struct {
	ElementBase
	Expression js.Expression
	Metadata   ElementMetadata
}

// SvelteComponent is `<svelte:component this={expression}>`.
type SvelteComponent struct {
	ElementBase
	Expression js.Expression
}

// SvelteWindow is `<svelte:window>`.
type SvelteWindow struct {
	ElementBase
}

// SvelteDocument is `<svelte:document>`.
type SvelteDocument struct {
	ElementBase
}

// SvelteBody is `<svelte:body>`.
type SvelteBody struct {
	ElementBase
}

// SvelteHead is `<svelte:head>`.
type SvelteHead struct {
	ElementBase
}

// SvelteFragment is `<svelte:fragment slot="...">`.
type SvelteFragment struct {
	ElementBase
}

// SvelteSelf is `<svelte:self>`, a recursive reference to the component.
type SvelteSelf struct {
	ElementBase
}

// SvelteOptionsRaw is the unprocessed `<svelte:options>` element; the
// parsed form lives on Root.Options.
type SvelteOptionsRaw struct {
	ElementBase
}

func (*Component) fragmentNode()        {}
func (*TitleElement) fragmentNode()     {}
func (*SlotElement) fragmentNode()      {}
func (*RegularElement) fragmentNode()   {}
func (*SvelteElement) fragmentNode()    {}
func (*SvelteComponent) fragmentNode()  {}
func (*SvelteWindow) fragmentNode()     {}
func (*SvelteDocument) fragmentNode()   {}
func (*SvelteBody) fragmentNode()       {}
func (*SvelteHead) fragmentNode()       {}
func (*SvelteFragment) fragmentNode()   {}
func (*SvelteSelf) fragmentNode()       {}
func (*SvelteOptionsRaw) fragmentNode() {}

func (*Component) elementNode()        {}
func (*TitleElement) elementNode()     {}
func (*SlotElement) elementNode()      {}
func (*RegularElement) elementNode()   {}
func (*SvelteElement) elementNode()    {}
func (*SvelteComponent) elementNode()  {}
func (*SvelteWindow) elementNode()     {}
func (*SvelteDocument) elementNode()   {}
func (*SvelteBody) elementNode()       {}
func (*SvelteHead) elementNode()       {}
func (*SvelteFragment) elementNode()   {}
func (*SvelteSelf) elementNode()       {}
func (*SvelteOptionsRaw) elementNode() {}
