package ast

import "github.com/walteh/go-svelte-analyzer/pkg/js"

// Namespace is the markup namespace an element renders into.
type Namespace string

const (
	NamespaceHtml    Namespace = "html"
	NamespaceSvg     Namespace = "svg"
	NamespaceMathMl  Namespace = "mathml"
	NamespaceForeign Namespace = "foreign"
)

// SvelteOptions is the parsed form of `<svelte:options>`.
type SvelteOptions struct {
	BaseNode
	Runes              *bool
	Immutable          *bool
	Accessors          *bool
	PreserveWhitespace *bool
	Namespace          *Namespace
	CustomElement      *CustomElementOptions
	Attributes         []*Attribute
}

// CustomElementOptions configures custom-element compilation.
type CustomElementOptions struct {
	Tag    string
	Shadow CustomElementShadow
	Props  map[string]CustomElementProp
	Extend js.Expression
}

type CustomElementShadow string

const (
	ShadowUnset CustomElementShadow = ""
	ShadowOpen  CustomElementShadow = "open"
	ShadowNone  CustomElementShadow = "none"
)

type CustomElementProp struct {
	Attribute string
	Reflect   bool
	Type      CustomElementPropType
}

type CustomElementPropType string

const (
	PropTypeArray   CustomElementPropType = "Array"
	PropTypeBoolean CustomElementPropType = "Boolean"
	PropTypeNumber  CustomElementPropType = "Number"
	PropTypeObject  CustomElementPropType = "Object"
	PropTypeString  CustomElementPropType = "String"
)
