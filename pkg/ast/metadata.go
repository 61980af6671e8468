package ast

import (
	"github.com/walteh/go-svelte-analyzer/pkg/scope"
)

// Metadata slots are populated exactly once by the analysis pass. Reading a
// slot before the pass has resolved it is a programming error (an ordering
// bug between passes), so getters panic instead of returning a zero value.
// Reset exists so an already-analyzed tree can be re-analyzed and checked
// for identical output.

const metadataUnresolved = "ast: metadata read before analysis resolved it"

// ExpressionMetadata is the taint slot on ExpressionTag and SpreadAttribute.
type ExpressionMetadata struct {
	resolved     bool
	dynamic      bool
	containsCall bool
}

// Resolve writes the slot. Resolving twice without a Reset panics; the
// pass owns each slot exactly once.
func (m *ExpressionMetadata) Resolve(dynamic, containsCall bool) {
	if m.resolved {
		panic("ast: expression metadata resolved twice")
	}
	m.resolved = true
	m.dynamic = dynamic
	m.containsCall = containsCall
}

func (m *ExpressionMetadata) Resolved() bool { return m.resolved }

func (m *ExpressionMetadata) Reset() { *m = ExpressionMetadata{} }

func (m *ExpressionMetadata) Dynamic() bool {
	if !m.resolved {
		panic(metadataUnresolved)
	}
	return m.dynamic
}

func (m *ExpressionMetadata) ContainsCallExpression() bool {
	if !m.resolved {
		panic(metadataUnresolved)
	}
	return m.containsCall
}

// DynamicMetadata is the single-flag slot on class: and style: directives.
type DynamicMetadata struct {
	resolved bool
	dynamic  bool
}

func (m *DynamicMetadata) Resolve(dynamic bool) {
	if m.resolved {
		panic("ast: dynamic metadata resolved twice")
	}
	m.resolved = true
	m.dynamic = dynamic
}

func (m *DynamicMetadata) Resolved() bool { return m.resolved }

func (m *DynamicMetadata) Reset() { *m = DynamicMetadata{} }

func (m *DynamicMetadata) Dynamic() bool {
	if !m.resolved {
		panic(metadataUnresolved)
	}
	return m.dynamic
}

// ElementMetadata is the classification slot on RegularElement and
// SvelteElement.
type ElementMetadata struct {
	resolved  bool
	svg       bool
	mathml    bool
	hasSpread bool
	scoped    bool
}

func (m *ElementMetadata) Resolve(svg, mathml, hasSpread, scoped bool) {
	if m.resolved {
		panic("ast: element metadata resolved twice")
	}
	m.resolved = true
	m.svg = svg
	m.mathml = mathml
	m.hasSpread = hasSpread
	m.scoped = scoped
}

func (m *ElementMetadata) Resolved() bool { return m.resolved }

func (m *ElementMetadata) Reset() { *m = ElementMetadata{} }

func (m *ElementMetadata) Svg() bool {
	if !m.resolved {
		panic(metadataUnresolved)
	}
	return m.svg
}

func (m *ElementMetadata) Mathml() bool {
	if !m.resolved {
		panic(metadataUnresolved)
	}
	return m.mathml
}

func (m *ElementMetadata) HasSpread() bool {
	if !m.resolved {
		panic(metadataUnresolved)
	}
	return m.hasSpread
}

func (m *ElementMetadata) Scoped() bool {
	if !m.resolved {
		panic(metadataUnresolved)
	}
	return m.scoped
}

// EachBlockMetadata is the loop-resolution slot on EachBlock. Binding
// relationships are ids into the component's binding table, never node
// pointers, so the tree stays a strict ownership tree.
type EachBlockMetadata struct {
	resolved bool

	// ContainsGroupBinding is true when a bind: group inside the body
	// walks through this block.
	ContainsGroupBinding bool
	// ArrayName is the binding of the iterable when it is a bare
	// identifier; scope.InvalidBinding for computed iterables.
	ArrayName scope.BindingID
	Item      scope.BindingID
	Index     scope.BindingID
	// Declarations are all bindings the block's context pattern introduces.
	Declarations []scope.BindingID
	// References are the outer-scope bindings the body reads.
	References []scope.BindingID
	// IsControlled selects index-based reuse over keyed reuse.
	IsControlled bool
}

func (m *EachBlockMetadata) MarkResolved() {
	if m.resolved {
		panic("ast: each block metadata resolved twice")
	}
	m.resolved = true
}

func (m *EachBlockMetadata) Resolved() bool { return m.resolved }

func (m *EachBlockMetadata) Reset() { *m = EachBlockMetadata{} }

func (m *EachBlockMetadata) mustResolved() {
	if !m.resolved {
		panic(metadataUnresolved)
	}
}

// Get returns the slot for reading, faulting when unresolved.
func (m *EachBlockMetadata) Get() *EachBlockMetadata {
	m.mustResolved()
	return m
}

// BindDirectiveMetadata is the group-resolution slot on BindDirective.
type BindDirectiveMetadata struct {
	resolved bool
	// group is the shared group binding, scope.InvalidBinding when the
	// directive is standalone.
	group scope.BindingID
}

func (m *BindDirectiveMetadata) Resolve(group scope.BindingID) {
	if m.resolved {
		panic("ast: bind directive metadata resolved twice")
	}
	m.resolved = true
	m.group = group
}

func (m *BindDirectiveMetadata) Resolved() bool { return m.resolved }

func (m *BindDirectiveMetadata) Reset() { *m = BindDirectiveMetadata{} }

// BindingGroupName returns the shared group binding id and whether the
// directive participates in a group at all.
func (m *BindDirectiveMetadata) BindingGroupName() (scope.BindingID, bool) {
	if !m.resolved {
		panic(metadataUnresolved)
	}
	return m.group, m.group != scope.InvalidBinding
}
