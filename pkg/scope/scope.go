// Package scope is the binding table for one component: a flat arena of
// Binding records plus a stack of lexical frames mapping names to bindings.
// Cross-node relationships are expressed as BindingIDs into the arena,
// never as pointers between tree nodes.
package scope

import (
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/go-svelte-analyzer/pkg/js"
)

// BindingID indexes the component's flat binding arena.
type BindingID int

// InvalidBinding is the absent-binding sentinel.
const InvalidBinding BindingID = -1

// FrameID indexes the table's frame arena.
type FrameID int

const InvalidFrame FrameID = -1

// FrameKind names the construct that opened a frame.
type FrameKind string

const (
	FrameRoot     FrameKind = "root"
	FrameScript   FrameKind = "script"
	FrameFragment FrameKind = "fragment"
	FrameEach     FrameKind = "each"
	FrameSnippet  FrameKind = "snippet"
	FrameFunction FrameKind = "function"
)

// BindingKind classifies a declaration's reactivity.
type BindingKind string

const (
	// Normal is a plain declaration with no reactive marker.
	Normal BindingKind = "normal"
	// State is a $state rune declaration.
	State BindingKind = "state"
	// FrozenState is the immutable $state.frozen variant.
	FrozenState BindingKind = "frozen_state"
	// Derived is a $derived rune declaration.
	Derived BindingKind = "derived"
	// Each is an item or index introduced by an each block.
	Each BindingKind = "each"
	// Snippet is a snippet-block parameter.
	Snippet BindingKind = "snippet"
	// Prop is a component property destructured from $props().
	Prop BindingKind = "prop"
	// BindableProp is a prop marked for two-way binding via $bindable().
	BindableProp BindingKind = "bindable_prop"
	// RestProp is the rest element of the props destructuring.
	RestProp BindingKind = "rest_prop"
	// StoreSub is a store auto-subscription ($store reads).
	StoreSub BindingKind = "store_sub"
	// LegacyReactive is a variable assigned by a `$:` statement.
	LegacyReactive BindingKind = "legacy_reactive"
	// LegacyReactiveImport is LegacyReactive over an imported name.
	LegacyReactiveImport BindingKind = "legacy_reactive_import"
)

// Reactive reports whether a reference to this kind alone makes an
// expression dynamic.
func (k BindingKind) Reactive() bool {
	switch k {
	case State, FrozenState, Derived, Prop, BindableProp, StoreSub,
		LegacyReactive, LegacyReactiveImport, Each:
		return true
	}
	return false
}

// DeclarationKind names the syntactic declaration form.
type DeclarationKind string

const (
	DeclVar       DeclarationKind = "var"
	DeclLet       DeclarationKind = "let"
	DeclConst     DeclarationKind = "const"
	DeclFunction  DeclarationKind = "function"
	DeclImport    DeclarationKind = "import"
	DeclParam     DeclarationKind = "param"
	DeclRestParam DeclarationKind = "rest_param"
	// DeclSynthetic marks bindings the analyzer invents (binding-group
	// names, store subscriptions).
	DeclSynthetic DeclarationKind = "synthetic"
)

// Reference is one use site of a binding: the identifier node plus the
// tree path that reaches it, so scope-crossing mutation detection can tell
// where a read happens relative to loops and snippets.
type Reference struct {
	Ident *js.Identifier
	Path  []string
}

// Binding is the resolved record for one declared identifier. Kind is
// fixed once classification completes; Mutated and Reassigned only
// accumulate, they are never cleared during a pass.
type Binding struct {
	ID       BindingID
	Name     string
	Node     *js.Identifier
	Kind     BindingKind
	DeclKind DeclarationKind
	// Initial is the declaration-site initializer, nil for parameters,
	// each contexts and synthetic bindings.
	Initial js.Node
	// PropAlias is the source prop name for renamed destructured props.
	PropAlias string

	References []Reference
	Mutated    bool
	Reassigned bool

	// LegacyDependencies are the bindings a `$:` statement reads to
	// produce this one.
	LegacyDependencies []BindingID

	// Frame is the declaring frame.
	Frame FrameID
}

type frame struct {
	parent FrameID
	kind   FrameKind
	names  map[string]BindingID
}

// Table owns every frame and binding of one component. It is used by a
// single traversal at a time; there is no cross-component sharing.
type Table struct {
	bindings []*Binding
	frames   []frame
	current  FrameID
}

func NewTable() *Table {
	t := &Table{current: InvalidFrame}
	t.current = t.pushFrame(InvalidFrame, FrameRoot)
	return t
}

func (t *Table) pushFrame(parent FrameID, kind FrameKind) FrameID {
	t.frames = append(t.frames, frame{
		parent: parent,
		kind:   kind,
		names:  make(map[string]BindingID),
	})
	return FrameID(len(t.frames) - 1)
}

// Push opens a child frame of the current frame and enters it.
func (t *Table) Push(kind FrameKind) FrameID {
	t.current = t.pushFrame(t.current, kind)
	return t.current
}

// Pop leaves the current frame. Its bindings stay owned by the table and
// reachable by id, but Lookup no longer sees them.
func (t *Table) Pop() {
	cur := t.frames[t.current]
	if cur.parent == InvalidFrame {
		panic("scope: pop of root frame")
	}
	t.current = cur.parent
}

// Current returns the frame the table is positioned in.
func (t *Table) Current() FrameID { return t.current }

// ErrDuplicate is returned by Declare when the name already exists in the
// same frame. Existing carries the first declaration so the caller can
// report both sites and keep using the original.
type ErrDuplicate struct {
	Name     string
	Existing BindingID
}

func (e *ErrDuplicate) Error() string {
	return "duplicate declaration of " + e.Name + " in the same scope"
}

// Declare adds a binding to the current frame. Redeclaring a name in the
// same frame fails with *ErrDuplicate; enclosing-frame names are shadowed,
// not conflicting.
func (t *Table) Declare(node *js.Identifier, kind BindingKind, declKind DeclarationKind, initial js.Node) (BindingID, error) {
	if node == nil {
		return InvalidBinding, errors.New("scope: declare with nil identifier")
	}
	f := &t.frames[t.current]
	if existing, ok := f.names[node.Name]; ok {
		return existing, &ErrDuplicate{Name: node.Name, Existing: existing}
	}
	id := BindingID(len(t.bindings))
	t.bindings = append(t.bindings, &Binding{
		ID:       id,
		Name:     node.Name,
		Node:     node,
		Kind:     kind,
		DeclKind: declKind,
		Initial:  initial,
		Frame:    t.current,
	})
	f.names[node.Name] = id
	return id, nil
}

// DeclareSynthetic adds an analyzer-invented binding to the root frame,
// regardless of the current position. Synthetic names are namespaced by
// the caller so they cannot collide with user names.
func (t *Table) DeclareSynthetic(name string) BindingID {
	root := FrameID(0)
	f := &t.frames[root]
	if existing, ok := f.names[name]; ok {
		return existing
	}
	id := BindingID(len(t.bindings))
	t.bindings = append(t.bindings, &Binding{
		ID:       id,
		Name:     name,
		Kind:     Normal,
		DeclKind: DeclSynthetic,
		Frame:    root,
	})
	f.names[name] = id
	return id
}

// Lookup resolves a name by walking frames innermost-first from the
// current position.
func (t *Table) Lookup(name string) (BindingID, bool) {
	return t.LookupFrom(t.current, name)
}

// LookupFrom resolves a name starting at an arbitrary frame.
func (t *Table) LookupFrom(from FrameID, name string) (BindingID, bool) {
	for f := from; f != InvalidFrame; f = t.frames[f].parent {
		if id, ok := t.frames[f].names[name]; ok {
			return id, true
		}
	}
	return InvalidBinding, false
}

// Get returns the binding record for an id.
func (t *Table) Get(id BindingID) *Binding {
	if id < 0 || int(id) >= len(t.bindings) {
		return nil
	}
	return t.bindings[id]
}

// RecordReference appends a use site.
func (t *Table) RecordReference(id BindingID, ref Reference) {
	if b := t.Get(id); b != nil {
		b.References = append(b.References, ref)
	}
}

// RecordMutation marks the binding as mutated somewhere in the component.
// The flag is monotonic; nothing ever clears it during a pass.
func (t *Table) RecordMutation(id BindingID) {
	if b := t.Get(id); b != nil {
		b.Mutated = true
	}
}

// RecordReassignment marks whole-value reassignment (as opposed to
// property mutation). Reassignment implies mutation.
func (t *Table) RecordReassignment(id BindingID) {
	if b := t.Get(id); b != nil {
		b.Reassigned = true
		b.Mutated = true
	}
}

// FrameKindOf returns the kind of a frame.
func (t *Table) FrameKindOf(f FrameID) FrameKind { return t.frames[f].kind }

// ParentOf returns a frame's parent, InvalidFrame at the root.
func (t *Table) ParentOf(f FrameID) FrameID { return t.frames[f].parent }

// Len is the number of declared bindings.
func (t *Table) Len() int { return len(t.bindings) }

// All returns every binding in declaration order; the flat table handed
// to codegen.
func (t *Table) All() []*Binding { return t.bindings }
