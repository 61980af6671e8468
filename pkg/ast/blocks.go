package ast

import "github.com/walteh/go-svelte-analyzer/pkg/js"

// Block is the sealed union of logic-block nodes.
type Block interface {
	FragmentNode
	blockNode()
}

// EachBlock is `{#each expression as context, index (key)}`.
type EachBlock struct {
	BaseNode
	Expression js.Expression
	Context    js.Pattern
	Body       Fragment
	Fallback   *Fragment
	Index      *js.Identifier
	Key        js.Expression
	Metadata   EachBlockMetadata
}

// IfBlock is `{#if test}consequent{:else}alternate{/if}`. Elseif marks
// blocks spliced from an `{:else if}` continuation.
type IfBlock struct {
	BaseNode
	Elseif     bool
	Test       js.Expression
	Consequent Fragment
	Alternate  *Fragment
}

// AwaitBlock is `{#await expression}...{:then value}...{:catch error}`.
type AwaitBlock struct {
	BaseNode
	Expression js.Expression
	Value      js.Pattern
	Error      js.Pattern
	Pending    *Fragment
	Then       *Fragment
	Catch      *Fragment
}

// KeyBlock is `{#key expression}`.
type KeyBlock struct {
	BaseNode
	Expression js.Expression
	Fragment   Fragment
}

// SnippetBlock is `{#snippet name(params)}`.
type SnippetBlock struct {
	BaseNode
	Expression *js.Identifier
	Parameters []js.Pattern
	Body       Fragment
}

func (*EachBlock) fragmentNode()    {}
func (*IfBlock) fragmentNode()      {}
func (*AwaitBlock) fragmentNode()   {}
func (*KeyBlock) fragmentNode()     {}
func (*SnippetBlock) fragmentNode() {}

func (*EachBlock) blockNode()    {}
func (*IfBlock) blockNode()      {}
func (*AwaitBlock) blockNode()   {}
func (*KeyBlock) blockNode()     {}
func (*SnippetBlock) blockNode() {}
