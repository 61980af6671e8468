package ast

import "github.com/walteh/go-svelte-analyzer/pkg/js"

// ElementAttribute is the sealed union of attribute-position constructs:
// a plain attribute, a spread, or a directive.
type ElementAttribute interface {
	Node
	elementAttribute()
}

// Attribute is `name` or `name={value}` or `name="a {b} c"`.
type Attribute struct {
	BaseNode
	Name  string
	Value *AttributeValue
}

// AttributeValue is the (possibly mixed) sequence an attribute evaluates:
// text chunks interleaved with expression tags.
type AttributeValue struct {
	BaseNode
	Sequence []AttributeSequenceValue
}

// AttributeSequenceValue is Text or *ExpressionTag.
type AttributeSequenceValue interface {
	Node
	attributeSequenceValue()
}

func (*Text) attributeSequenceValue()          {}
func (*ExpressionTag) attributeSequenceValue() {}

// SpreadAttribute is `{...expression}`.
type SpreadAttribute struct {
	BaseNode
	Expression js.Expression
	Metadata   ExpressionMetadata
}

// Directive is the sealed union of the eight directive kinds.
type Directive interface {
	ElementAttribute
	directiveNode()
	// DirectiveName is the part after the colon, `bind:NAME`.
	DirectiveName() string
}

type DirectiveBase struct {
	BaseNode
	Name string
}

func (d *DirectiveBase) DirectiveName() string { return d.Name }

// BindDirective is `bind:name={expression}`, a two-way binding. Its target
// is either a bare identifier or a member-expression path.
type BindDirective struct {
	DirectiveBase
	Expression js.Expression
	Metadata   BindDirectiveMetadata
}

// OnDirective is `on:name|modifiers={handler}`.
type OnDirective struct {
	DirectiveBase
	Expression js.Expression
	Modifiers  []string
}

// ClassDirective is `class:name={expression}`.
type ClassDirective struct {
	DirectiveBase
	Expression js.Expression
	Metadata   DynamicMetadata
}

// StyleDirective is `style:name={value}`.
type StyleDirective struct {
	DirectiveBase
	Value     *AttributeValue
	Modifiers []StyleDirectiveModifier
	Metadata  DynamicMetadata
}

type StyleDirectiveModifier string

const StyleModifierImportant StyleDirectiveModifier = "important"

// UseDirective is `use:action={params}`.
type UseDirective struct {
	DirectiveBase
	Expression js.Expression
}

// TransitionDirective is `in:`/`out:`/`transition:`.
type TransitionDirective struct {
	DirectiveBase
	Expression js.Expression
	Modifiers  []TransitionDirectiveModifier
	Intro      bool
	Outro      bool
}

type TransitionDirectiveModifier string

const (
	TransitionModifierLocal  TransitionDirectiveModifier = "local"
	TransitionModifierGlobal TransitionDirectiveModifier = "global"
)

// AnimateDirective is `animate:name={params}`.
type AnimateDirective struct {
	DirectiveBase
	Expression js.Expression
}

// LetDirective is `let:name={binding}` on slotted content.
type LetDirective struct {
	DirectiveBase
	Expression js.Expression
}

func (*Attribute) elementAttribute()       {}
func (*SpreadAttribute) elementAttribute() {}

func (*BindDirective) elementAttribute()       {}
func (*OnDirective) elementAttribute()         {}
func (*ClassDirective) elementAttribute()      {}
func (*StyleDirective) elementAttribute()      {}
func (*UseDirective) elementAttribute()        {}
func (*TransitionDirective) elementAttribute() {}
func (*AnimateDirective) elementAttribute()    {}
func (*LetDirective) elementAttribute()        {}

func (*BindDirective) directiveNode()       {}
func (*OnDirective) directiveNode()         {}
func (*ClassDirective) directiveNode()      {}
func (*StyleDirective) directiveNode()      {}
func (*UseDirective) directiveNode()        {}
func (*TransitionDirective) directiveNode() {}
func (*AnimateDirective) directiveNode()    {}
func (*LetDirective) directiveNode()        {}
