package scope_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/go-svelte-analyzer/pkg/js"
	"github.com/walteh/go-svelte-analyzer/pkg/scope"
	"github.com/walteh/go-svelte-analyzer/pkg/span"
)

func ident(name string) *js.Identifier {
	return js.NewIdentifier(span.Empty(0), name)
}

func TestTable_DeclareAndLookup(t *testing.T) {
	table := scope.NewTable()

	id, err := table.Declare(ident("count"), scope.State, scope.DeclLet, nil)
	require.NoError(t, err)

	got, found := table.Lookup("count")
	require.True(t, found)
	assert.Equal(t, id, got)

	b := table.Get(id)
	require.NotNil(t, b)
	assert.Equal(t, "count", b.Name)
	assert.Equal(t, scope.State, b.Kind)
	assert.Equal(t, scope.DeclLet, b.DeclKind)

	_, found = table.Lookup("missing")
	assert.False(t, found)
}

func TestTable_Shadowing(t *testing.T) {
	table := scope.NewTable()

	outer, err := table.Declare(ident("item"), scope.Normal, scope.DeclLet, nil)
	require.NoError(t, err)

	table.Push(scope.FrameEach)
	inner, err := table.Declare(ident("item"), scope.Each, scope.DeclConst, nil)
	require.NoError(t, err)
	require.NotEqual(t, outer, inner)

	got, found := table.Lookup("item")
	require.True(t, found)
	assert.Equal(t, inner, got, "inner frame shadows outer")

	table.Pop()
	got, found = table.Lookup("item")
	require.True(t, found)
	assert.Equal(t, outer, got, "pop restores outer visibility")
}

func TestTable_DuplicateInSameFrame(t *testing.T) {
	table := scope.NewTable()

	first, err := table.Declare(ident("x"), scope.Normal, scope.DeclLet, nil)
	require.NoError(t, err)

	id, err := table.Declare(ident("x"), scope.State, scope.DeclLet, nil)
	require.Error(t, err)

	var dup *scope.ErrDuplicate
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "x", dup.Name)
	assert.Equal(t, first, dup.Existing)
	assert.Equal(t, first, id, "the first declaration keeps winning")
}

func TestTable_PopRootPanics(t *testing.T) {
	table := scope.NewTable()
	assert.Panics(t, func() { table.Pop() })
}

func TestTable_DeclareSynthetic(t *testing.T) {
	table := scope.NewTable()
	table.Push(scope.FrameScript)
	table.Push(scope.FrameEach)

	a := table.DeclareSynthetic("$$binding_group@0:items[i].done")
	b := table.DeclareSynthetic("$$binding_group@0:items[i].done")
	assert.Equal(t, a, b, "same name resolves to one synthetic binding")

	c := table.DeclareSynthetic("$$binding_group@0:other")
	assert.NotEqual(t, a, c)

	// Synthetic bindings live in the root frame even when declared deep.
	assert.Equal(t, scope.FrameID(0), table.Get(a).Frame)
}

func TestTable_MutationFlags(t *testing.T) {
	table := scope.NewTable()
	id, err := table.Declare(ident("obj"), scope.Normal, scope.DeclLet, nil)
	require.NoError(t, err)

	table.RecordMutation(id)
	b := table.Get(id)
	assert.True(t, b.Mutated)
	assert.False(t, b.Reassigned)

	table.RecordReassignment(id)
	assert.True(t, b.Reassigned)
	assert.True(t, b.Mutated, "reassignment implies mutation")
}

func TestTable_References(t *testing.T) {
	table := scope.NewTable()
	id, err := table.Declare(ident("n"), scope.Normal, scope.DeclLet, nil)
	require.NoError(t, err)

	use := ident("n")
	table.RecordReference(id, scope.Reference{Ident: use, Path: []string{"fragment", "if"}})

	b := table.Get(id)
	require.Len(t, b.References, 1)
	assert.Same(t, use, b.References[0].Ident)
	assert.Equal(t, []string{"fragment", "if"}, b.References[0].Path)
}

func TestBindingKind_Reactive(t *testing.T) {
	reactive := []scope.BindingKind{
		scope.State, scope.FrozenState, scope.Derived, scope.Each,
		scope.Prop, scope.BindableProp, scope.StoreSub,
		scope.LegacyReactive, scope.LegacyReactiveImport,
	}
	for _, k := range reactive {
		assert.True(t, k.Reactive(), "%s should be reactive", k)
	}
	assert.False(t, scope.Normal.Reactive())
	assert.False(t, scope.RestProp.Reactive())
	assert.False(t, scope.Snippet.Reactive())
}

func TestTable_FrameNavigation(t *testing.T) {
	table := scope.NewTable()
	root := table.Current()
	script := table.Push(scope.FrameScript)
	each := table.Push(scope.FrameEach)

	assert.Equal(t, scope.FrameScript, table.FrameKindOf(script))
	assert.Equal(t, scope.FrameEach, table.FrameKindOf(each))
	assert.Equal(t, script, table.ParentOf(each))
	assert.Equal(t, root, table.ParentOf(script))
	assert.Equal(t, scope.InvalidFrame, table.ParentOf(root))
}
