package analyzer_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/go-svelte-analyzer/pkg/analyzer"
	"github.com/walteh/go-svelte-analyzer/pkg/ast"
	"github.com/walteh/go-svelte-analyzer/pkg/css"
	"github.com/walteh/go-svelte-analyzer/pkg/diagnostic"
	"github.com/walteh/go-svelte-analyzer/pkg/js"
	"github.com/walteh/go-svelte-analyzer/pkg/scope"
	"github.com/walteh/go-svelte-analyzer/pkg/span"
)

// ----- tree builders --------------------------------------------------

func ident(name string) *js.Identifier {
	return js.NewIdentifier(span.Empty(0), name)
}

func call(callee js.Expression, args ...js.Expression) *js.CallExpression {
	return &js.CallExpression{Callee: callee, Args: args}
}

func stateCall(args ...js.Expression) *js.CallExpression {
	return call(ident("$state"), args...)
}

func letDecl(name string, init js.Expression) *js.VariableDeclaration {
	return &js.VariableDeclaration{
		Keyword: js.KeywordLet,
		Declarators: []*js.VariableDeclarator{
			{ID: ident(name), Init: init},
		},
	}
}

func script(stmts ...js.Statement) *ast.Script {
	return &ast.Script{
		Context: ast.ScriptDefault,
		Program: &js.Program{Statements: stmts},
	}
}

func exprTag(e js.Expression) *ast.ExpressionTag {
	return &ast.ExpressionTag{Expression: e}
}

func el(name string, attrs []ast.ElementAttribute, children ...ast.FragmentNode) *ast.RegularElement {
	return &ast.RegularElement{
		ElementBase: ast.ElementBase{
			Attributes: attrs,
			Fragment:   ast.Fragment{Nodes: children},
		},
		Name: name,
	}
}

func eachBlock(iterable js.Expression, item string, index string, key js.Expression, body ...ast.FragmentNode) *ast.EachBlock {
	block := &ast.EachBlock{
		Expression: iterable,
		Context:    ident(item),
		Key:        key,
		Body:       ast.Fragment{Nodes: body},
	}
	if index != "" {
		block.Index = ident(index)
	}
	return block
}

func bindDir(name string, target js.Expression) *ast.BindDirective {
	return &ast.BindDirective{
		DirectiveBase: ast.DirectiveBase{Name: name},
		Expression:    target,
	}
}

func component(instance *ast.Script, nodes ...ast.FragmentNode) *ast.Root {
	return &ast.Root{
		Instance: instance,
		Fragment: ast.Fragment{Nodes: nodes},
	}
}

func analyze(t *testing.T, root *ast.Root, opts analyzer.Options) *analyzer.Result {
	t.Helper()
	result, err := analyzer.Analyze(context.Background(), root, opts)
	require.NoError(t, err)
	return result
}

func binding(t *testing.T, result *analyzer.Result, name string) *scope.Binding {
	t.Helper()
	for _, b := range result.Bindings.All() {
		if b.Name == name {
			return b
		}
	}
	t.Fatalf("binding %q not found", name)
	return nil
}

// ----- basics ---------------------------------------------------------

func TestAnalyze_NilRoot(t *testing.T) {
	_, err := analyzer.Analyze(context.Background(), nil, analyzer.Options{})
	require.Error(t, err)
}

func TestAnalyze_DeepExpressionNestingFails(t *testing.T) {
	var e js.Expression = ident("x")
	for i := 0; i < 5000; i++ {
		e = &js.UnaryExpression{Operator: "!", Argument: e}
	}
	root := component(script(
		letDecl("x", nil),
		&js.ExpressionStatement{Expression: e},
	))
	_, err := analyzer.Analyze(context.Background(), root, analyzer.Options{})
	require.Error(t, err, "unbounded nesting in parser output is structural corruption")
}

func TestAnalyze_RunesDetection(t *testing.T) {
	forceOff := false

	tests := []struct {
		name string
		root *ast.Root
		opts analyzer.Options
		want bool
	}{
		{
			name: "rune call switches the component over",
			root: component(script(letDecl("count", stateCall(&js.Literal{Raw: "0"})))),
			want: true,
		},
		{
			name: "no runes means legacy mode",
			root: component(script(letDecl("count", &js.Literal{Raw: "0"}))),
			want: false,
		},
		{
			name: "explicit option wins over detection",
			root: component(script(letDecl("count", stateCall()))),
			opts: analyzer.Options{Runes: &forceOff},
			want: false,
		},
		{
			name: "component options win over detection",
			root: func() *ast.Root {
				r := component(script(letDecl("count", &js.Literal{Raw: "0"})))
				on := true
				r.Options = &ast.SvelteOptions{Runes: &on}
				return r
			}(),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := analyze(t, tt.root, tt.opts)
			assert.Equal(t, tt.want, result.RunesMode)
		})
	}
}

// ----- classification -------------------------------------------------

func TestAnalyze_RuneClassification(t *testing.T) {
	root := component(script(
		letDecl("count", stateCall(&js.Literal{Raw: "0"})),
		letDecl("frozen", call(&js.MemberExpression{Object: ident("$state"), Property: ident("frozen")})),
		letDecl("doubled", call(ident("$derived"))),
		letDecl("plain", &js.Literal{Raw: "1"}),
	))
	result := analyze(t, root, analyzer.Options{})

	assert.Equal(t, scope.State, binding(t, result, "count").Kind)
	assert.Equal(t, scope.FrozenState, binding(t, result, "frozen").Kind)
	assert.Equal(t, scope.Derived, binding(t, result, "doubled").Kind)
	assert.Equal(t, scope.Normal, binding(t, result, "plain").Kind)
}

func TestAnalyze_PropsClassification(t *testing.T) {
	// let { name, width: w = $bindable(0), ...rest } = $props()
	props := &js.VariableDeclaration{
		Keyword: js.KeywordLet,
		Declarators: []*js.VariableDeclarator{{
			ID: &js.ObjectPattern{
				Properties: []js.PatternProperty{
					{Key: ident("name"), Value: ident("name")},
					{Key: ident("width"), Value: ident("w"), Default: call(ident("$bindable"), &js.Literal{Raw: "0"})},
				},
				Rest: ident("rest"),
			},
			Init: call(ident("$props")),
		}},
	}
	result := analyze(t, component(script(props)), analyzer.Options{})

	assert.Equal(t, scope.Prop, binding(t, result, "name").Kind)

	w := binding(t, result, "w")
	assert.Equal(t, scope.BindableProp, w.Kind)
	assert.Equal(t, "width", w.PropAlias)

	rest := binding(t, result, "rest")
	assert.Equal(t, scope.RestProp, rest.Kind)
	assert.Equal(t, scope.DeclRestParam, rest.DeclKind)
}

func TestAnalyze_LegacyExportProp(t *testing.T) {
	root := component(script(
		&js.ExportStatement{Declaration: letDecl("name", &js.Literal{Raw: `"x"`, Value: "x"})},
	))
	result := analyze(t, root, analyzer.Options{})
	require.False(t, result.RunesMode)
	assert.Equal(t, scope.Prop, binding(t, result, "name").Kind)
}

func TestAnalyze_LegacyReactiveStatement(t *testing.T) {
	// let count = 0; $: doubled = count * 2;
	root := component(script(
		letDecl("count", &js.Literal{Raw: "0"}),
		&js.LabeledStatement{
			Label: js.ReactiveLabel,
			Body: &js.ExpressionStatement{Expression: &js.AssignmentExpression{
				Operator: "=",
				Target:   ident("doubled"),
				Value: &js.BinaryExpression{
					Operator: "*",
					Left:     ident("count"),
					Right:    &js.Literal{Raw: "2"},
				},
			}},
		},
	), exprTag(ident("doubled")))

	result := analyze(t, root, analyzer.Options{})

	doubled := binding(t, result, "doubled")
	assert.Equal(t, scope.LegacyReactive, doubled.Kind)
	assert.Equal(t, scope.DeclSynthetic, doubled.DeclKind)
	assert.True(t, doubled.Reassigned)

	count := binding(t, result, "count")
	assert.Equal(t, []scope.BindingID{count.ID}, doubled.LegacyDependencies)

	tag := root.Fragment.Nodes[0].(*ast.ExpressionTag)
	assert.True(t, tag.Metadata.Dynamic())
}

func TestAnalyze_StoreSubscription(t *testing.T) {
	root := component(
		script(letDecl("count", call(ident("writable"), &js.Literal{Raw: "0"}))),
		exprTag(ident("$count")),
	)
	result := analyze(t, root, analyzer.Options{})

	sub := binding(t, result, "$count")
	assert.Equal(t, scope.StoreSub, sub.Kind)
	assert.Equal(t, scope.DeclSynthetic, sub.DeclKind)

	tag := root.Fragment.Nodes[0].(*ast.ExpressionTag)
	assert.True(t, tag.Metadata.Dynamic(), "store reads are always dynamic")
}

func TestAnalyze_DuplicateBindingRecovers(t *testing.T) {
	root := component(script(
		letDecl("x", stateCall()),
		letDecl("x", &js.Literal{Raw: "0"}),
	), exprTag(ident("x")))

	result := analyze(t, root, analyzer.Options{})

	dups := result.Diagnostics.ByCode(diagnostic.DuplicateBinding)
	require.Len(t, dups, 1)
	require.NotNil(t, dups[0].Related, "both sites are reported")

	// The first declaration keeps winning.
	assert.Equal(t, scope.State, binding(t, result, "x").Kind)
	tag := root.Fragment.Nodes[0].(*ast.ExpressionTag)
	assert.True(t, tag.Metadata.Dynamic())
}

// ----- taint ----------------------------------------------------------

func TestAnalyze_Taint(t *testing.T) {
	tests := []struct {
		name         string
		instance     *ast.Script
		expr         js.Expression
		wantDynamic  bool
		wantContains bool
	}{
		{
			name:        "state read at depth is dynamic",
			instance:    script(letDecl("count", stateCall())),
			expr:        &js.BinaryExpression{Operator: "+", Left: &js.Literal{Raw: "1"}, Right: ident("count")},
			wantDynamic: true,
		},
		{
			name:        "untouched plain binding is static",
			instance:    script(letDecl("label", &js.Literal{Raw: `"hi"`})),
			expr:        ident("label"),
			wantDynamic: false,
		},
		{
			name:         "calls are dynamic and flagged",
			instance:     script(letDecl("label", &js.Literal{Raw: `"hi"`})),
			expr:         call(ident("format"), ident("label")),
			wantDynamic:  true,
			wantContains: true,
		},
		{
			name:        "unresolved globals are static",
			instance:    script(),
			expr:        ident("navigator"),
			wantDynamic: false,
		},
		{
			name:        "member path roots carry the taint",
			instance:    script(letDecl("user", stateCall())),
			expr:        &js.MemberExpression{Object: ident("user"), Property: ident("name")},
			wantDynamic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag := exprTag(tt.expr)
			root := component(tt.instance, tag)
			analyze(t, root, analyzer.Options{})
			assert.Equal(t, tt.wantDynamic, tag.Metadata.Dynamic())
			assert.Equal(t, tt.wantContains, tag.Metadata.ContainsCallExpression())
		})
	}
}

func TestAnalyze_MutatedPlainBindingTaintsReads(t *testing.T) {
	// let n = 0 with a click handler doing n++ anywhere in the template.
	tag := exprTag(ident("n"))
	handler := &ast.OnDirective{
		DirectiveBase: ast.DirectiveBase{Name: "click"},
		Expression: &js.ArrowFunction{
			Expr: &js.UpdateExpression{Operator: "++", Target: ident("n")},
		},
	}
	root := component(
		script(letDecl("n", &js.Literal{Raw: "0"})),
		el("button", []ast.ElementAttribute{handler}),
		tag,
	)
	result := analyze(t, root, analyzer.Options{})

	assert.True(t, binding(t, result, "n").Reassigned)
	assert.True(t, tag.Metadata.Dynamic(), "a mutation anywhere taints every read")
	assert.False(t, tag.Metadata.ContainsCallExpression())
}

func TestAnalyze_StateReadInsideFunctionValue(t *testing.T) {
	// {() => count} syntactically contains a reactive reference, so the
	// tag is dynamic even though the read is deferred.
	tag := exprTag(&js.ArrowFunction{Expr: ident("count")})
	root := component(script(letDecl("count", stateCall())), tag)
	analyze(t, root, analyzer.Options{})
	assert.True(t, tag.Metadata.Dynamic())
	assert.False(t, tag.Metadata.ContainsCallExpression())
}

func TestAnalyze_AttributeAndDirectiveTaint(t *testing.T) {
	attrTag := &ast.ExpressionTag{Expression: ident("count")}
	attr := &ast.Attribute{
		Name: "title",
		Value: &ast.AttributeValue{Sequence: []ast.AttributeSequenceValue{
			&ast.Text{Data: "total: "},
			attrTag,
		}},
	}
	classDir := &ast.ClassDirective{
		DirectiveBase: ast.DirectiveBase{Name: "active"},
		Expression:    ident("count"),
	}
	styleTag := &ast.ExpressionTag{Expression: &js.Literal{Raw: `"red"`}}
	styleDir := &ast.StyleDirective{
		DirectiveBase: ast.DirectiveBase{Name: "color"},
		Value:         &ast.AttributeValue{Sequence: []ast.AttributeSequenceValue{styleTag}},
	}
	spread := &ast.SpreadAttribute{Expression: ident("rest")}

	root := component(
		script(
			letDecl("count", stateCall()),
			letDecl("rest", &js.Literal{Raw: "{}"}),
		),
		el("div", []ast.ElementAttribute{attr, classDir, styleDir, spread}),
	)
	analyze(t, root, analyzer.Options{})

	assert.True(t, attrTag.Metadata.Dynamic())
	assert.True(t, classDir.Metadata.Dynamic())
	assert.False(t, styleDir.Metadata.Dynamic(), "literal style values stay static")
	assert.False(t, spread.Metadata.Dynamic(), "unmutated plain spread is static")
}

// ----- namespaces and scoping -----------------------------------------

func TestAnalyze_SvgSubtree(t *testing.T) {
	innerDiv := el("div", nil)
	foreign := el("foreignObject", nil, innerDiv)
	circle := el("circle", nil)
	svg := el("svg", nil, circle, foreign)
	outerDiv := el("div", nil)

	root := component(nil, svg, outerDiv)
	analyze(t, root, analyzer.Options{})

	assert.True(t, svg.Metadata.Svg())
	assert.True(t, circle.Metadata.Svg())
	assert.True(t, foreign.Metadata.Svg())
	assert.False(t, innerDiv.Metadata.Svg(), "foreignObject re-opens HTML")
	assert.False(t, outerDiv.Metadata.Svg())
	assert.False(t, svg.Metadata.Mathml())
}

func TestAnalyze_MathmlSubtree(t *testing.T) {
	mi := el("mi", nil)
	math := el("math", nil, mi)
	root := component(nil, math)
	analyze(t, root, analyzer.Options{})

	assert.True(t, math.Metadata.Mathml())
	assert.True(t, mi.Metadata.Mathml())
	assert.False(t, math.Metadata.Svg())
}

func TestAnalyze_NamespaceConflict(t *testing.T) {
	circle := el("circle", nil)
	root := component(nil, circle)
	result := analyze(t, root, analyzer.Options{})

	conflicts := result.Diagnostics.ByCode(diagnostic.NamespaceConflict)
	require.Len(t, conflicts, 1)
	assert.Equal(t, diagnostic.SeverityWarning, conflicts[0].Severity)
	assert.True(t, circle.Metadata.Svg(), "best-effort classification still lands")
}

func TestAnalyze_CustomElementsStayQuiet(t *testing.T) {
	custom := el("my-widget", nil)
	root := component(nil, custom)
	result := analyze(t, root, analyzer.Options{})

	assert.Empty(t, result.Diagnostics.ByCode(diagnostic.NamespaceConflict))
	assert.False(t, custom.Metadata.Svg())
}

func TestAnalyze_RootNamespaceOption(t *testing.T) {
	circle := el("circle", nil)
	root := component(nil, circle)
	ns := ast.NamespaceSvg
	root.Options = &ast.SvelteOptions{Namespace: &ns}
	result := analyze(t, root, analyzer.Options{})

	assert.Empty(t, result.Diagnostics.Diagnostics)
	assert.True(t, circle.Metadata.Svg())
}

func TestAnalyze_Scoping(t *testing.T) {
	p := el("p", nil)
	div := el("div", nil)
	root := component(nil, p, div)
	root.CSS = &ast.Style{StyleSheet: css.StyleSheet{
		Source:    "p { color: red }",
		Selectors: []css.Selector{{Tag: "p"}},
	}}

	analyze(t, root, analyzer.Options{
		Styles: css.NewSelectorMatcher(&root.CSS.StyleSheet),
	})

	assert.True(t, p.Metadata.Scoped())
	assert.False(t, div.Metadata.Scoped())
}

func TestAnalyze_NoStylesheetNoScoping(t *testing.T) {
	div := el("div", nil)
	root := component(nil, div)
	analyze(t, root, analyzer.Options{})
	assert.False(t, div.Metadata.Scoped())
}

func TestAnalyze_SpreadFlag(t *testing.T) {
	spread := &ast.SpreadAttribute{Expression: ident("attrs")}
	div := el("div", []ast.ElementAttribute{spread})
	plain := el("span", nil)
	root := component(script(letDecl("attrs", &js.Literal{Raw: "{}"})), div, plain)
	analyze(t, root, analyzer.Options{})

	assert.True(t, div.Metadata.HasSpread())
	assert.False(t, plain.Metadata.HasSpread())
}

// ----- each blocks ----------------------------------------------------

func TestAnalyze_EachMetadata(t *testing.T) {
	itemTag := exprTag(ident("item"))
	outerTag := exprTag(ident("outer"))
	each := eachBlock(ident("items"), "item", "i", nil, itemTag, outerTag)

	root := component(script(
		letDecl("items", stateCall(&js.ArrayExpression{})),
		letDecl("outer", &js.Literal{Raw: "0"}),
	), each)
	result := analyze(t, root, analyzer.Options{})

	m := each.Metadata.Get()
	assert.Equal(t, binding(t, result, "items").ID, m.ArrayName)
	assert.Equal(t, binding(t, result, "item").ID, m.Item)
	assert.Equal(t, binding(t, result, "i").ID, m.Index)
	assert.Equal(t, []scope.BindingID{m.Item, m.Index}, m.Declarations)
	assert.Equal(t, []scope.BindingID{binding(t, result, "outer").ID}, m.References,
		"outer reads are recorded once, item reads are not")
	assert.True(t, m.IsControlled)
	assert.False(t, m.ContainsGroupBinding)

	assert.Equal(t, scope.Each, binding(t, result, "item").Kind)
	assert.True(t, itemTag.Metadata.Dynamic(), "item reads are reactive")
}

func TestAnalyze_EachComputedIterable(t *testing.T) {
	each := eachBlock(call(ident("visible"), ident("items")), "item", "", nil)
	root := component(script(letDecl("items", stateCall())), each)
	analyze(t, root, analyzer.Options{})
	assert.Equal(t, scope.InvalidBinding, each.Metadata.Get().ArrayName)
}

func TestAnalyze_EachShadowing(t *testing.T) {
	innerTag := exprTag(ident("item"))
	inner := eachBlock(ident("nested"), "item", "", nil, innerTag)
	outer := eachBlock(ident("items"), "item", "", nil, inner)

	root := component(script(
		letDecl("items", stateCall()),
		letDecl("nested", stateCall()),
	), outer)
	result := analyze(t, root, analyzer.Options{})

	outerItem := outer.Metadata.Get().Item
	innerItem := inner.Metadata.Get().Item
	assert.NotEqual(t, outerItem, innerItem, "inner item shadows outer")
	assert.Equal(t, innerItem, result.Resolutions[innerTag.Expression.(*js.Identifier)])
}

func TestAnalyze_EachKeyedIsNotControlled(t *testing.T) {
	keyed := eachBlock(ident("items"), "item", "", &js.MemberExpression{
		Object:   ident("item"),
		Property: ident("id"),
	})
	root := component(script(letDecl("items", stateCall())), keyed)
	analyze(t, root, analyzer.Options{})
	assert.False(t, keyed.Metadata.Get().IsControlled)
}

func TestAnalyze_EachBindIntoItemIsNotControlled(t *testing.T) {
	input := el("input", []ast.ElementAttribute{
		bindDir("value", &js.MemberExpression{Object: ident("item"), Property: ident("text")}),
	})
	each := eachBlock(ident("items"), "item", "", nil, input)
	root := component(script(letDecl("items", stateCall())), each)
	result := analyze(t, root, analyzer.Options{})

	assert.False(t, each.Metadata.Get().IsControlled)
	assert.True(t, binding(t, result, "item").Mutated, "binding writes through the item")
}

func TestAnalyze_EachTransitionIsNotControlled(t *testing.T) {
	li := el("li", []ast.ElementAttribute{
		&ast.TransitionDirective{DirectiveBase: ast.DirectiveBase{Name: "fade"}},
	})
	each := eachBlock(ident("items"), "item", "", nil, li)
	root := component(script(letDecl("items", stateCall())), each)
	analyze(t, root, analyzer.Options{})
	assert.False(t, each.Metadata.Get().IsControlled)
}

// ----- binding groups -------------------------------------------------

func itemDone() *js.MemberExpression {
	return &js.MemberExpression{Object: ident("item"), Property: ident("done")}
}

func TestAnalyze_BindingGroupSharedWithinLoop(t *testing.T) {
	a := bindDir("group", itemDone())
	b := bindDir("group", itemDone())
	each := eachBlock(ident("items"), "item", "", nil,
		el("input", []ast.ElementAttribute{a}),
		el("input", []ast.ElementAttribute{b}),
	)
	root := component(script(letDecl("items", stateCall())), each)
	analyze(t, root, analyzer.Options{})

	idA, okA := a.Metadata.BindingGroupName()
	idB, okB := b.Metadata.BindingGroupName()
	require.True(t, okA)
	require.True(t, okB)
	assert.Equal(t, idA, idB, "same path over the same array shares one group")
	assert.True(t, each.Metadata.Get().ContainsGroupBinding)
}

func TestAnalyze_BindingGroupSharedAcrossSiblingLoops(t *testing.T) {
	a := bindDir("group", itemDone())
	b := bindDir("group", itemDone())
	first := eachBlock(ident("items"), "item", "", nil, el("input", []ast.ElementAttribute{a}))
	second := eachBlock(ident("items"), "item", "", nil, el("input", []ast.ElementAttribute{b}))

	root := component(script(letDecl("items", stateCall())), first, second)
	analyze(t, root, analyzer.Options{})

	idA, _ := a.Metadata.BindingGroupName()
	idB, _ := b.Metadata.BindingGroupName()
	assert.Equal(t, idA, idB, "sibling loops over one array share the group")
	assert.True(t, first.Metadata.Get().ContainsGroupBinding)
	assert.True(t, second.Metadata.Get().ContainsGroupBinding)
}

func TestAnalyze_BindingGroupDistinctPaths(t *testing.T) {
	done := bindDir("group", itemDone())
	starred := bindDir("group", &js.MemberExpression{Object: ident("item"), Property: ident("starred")})
	each := eachBlock(ident("items"), "item", "", nil,
		el("input", []ast.ElementAttribute{done}),
		el("input", []ast.ElementAttribute{starred}),
	)
	root := component(script(letDecl("items", stateCall())), each)
	analyze(t, root, analyzer.Options{})

	idDone, _ := done.Metadata.BindingGroupName()
	idStarred, _ := starred.Metadata.BindingGroupName()
	assert.NotEqual(t, idDone, idStarred)
}

func TestAnalyze_BindingGroupTopLevel(t *testing.T) {
	a := bindDir("group", ident("selected"))
	b := bindDir("group", ident("selected"))
	root := component(
		script(letDecl("selected", stateCall(&js.Literal{Raw: `""`}))),
		el("input", []ast.ElementAttribute{a}),
		el("input", []ast.ElementAttribute{b}),
	)
	result := analyze(t, root, analyzer.Options{})

	idA, okA := a.Metadata.BindingGroupName()
	idB, okB := b.Metadata.BindingGroupName()
	require.True(t, okA)
	require.True(t, okB)
	assert.Equal(t, idA, idB)
	assert.True(t, binding(t, result, "selected").Reassigned, "two-way binding writes back")
}

func TestAnalyze_BindingGroupUnresolved(t *testing.T) {
	dangling := bindDir("group", &js.MemberExpression{Object: ident("missing"), Property: ident("x")})
	root := component(nil, el("input", []ast.ElementAttribute{dangling}))
	result := analyze(t, root, analyzer.Options{})

	_, ok := dangling.Metadata.BindingGroupName()
	assert.False(t, ok)
	require.Len(t, result.Diagnostics.ByCode(diagnostic.UnresolvedGroupBinding), 1)
}

func TestAnalyze_NonGroupBindIsStandalone(t *testing.T) {
	value := bindDir("value", ident("text"))
	root := component(script(letDecl("text", stateCall())), el("input", []ast.ElementAttribute{value}))
	analyze(t, root, analyzer.Options{})

	_, ok := value.Metadata.BindingGroupName()
	assert.False(t, ok, "a bare-identifier value binding never forms a group")
}

func TestAnalyze_BindCheckedThroughLoopSharesGroup(t *testing.T) {
	a := bindDir("checked", itemDone())
	b := bindDir("checked", itemDone())
	each := eachBlock(ident("items"), "item", "", nil,
		el("input", []ast.ElementAttribute{a}),
		el("input", []ast.ElementAttribute{b}),
	)
	root := component(script(letDecl("items", stateCall())), each)
	analyze(t, root, analyzer.Options{})

	idA, okA := a.Metadata.BindingGroupName()
	idB, okB := b.Metadata.BindingGroupName()
	require.True(t, okA, "a value binding through an each item carries group identity")
	require.True(t, okB)
	assert.Equal(t, idA, idB)
	assert.True(t, each.Metadata.Get().ContainsGroupBinding)
}

func TestAnalyze_MemberBindOutsideLoopIsStandalone(t *testing.T) {
	target := &js.MemberExpression{Object: ident("form"), Property: ident("name")}
	value := bindDir("value", target)
	root := component(script(letDecl("form", stateCall())), el("input", []ast.ElementAttribute{value}))
	result := analyze(t, root, analyzer.Options{})

	_, ok := value.Metadata.BindingGroupName()
	assert.False(t, ok, "member paths that never cross a loop share nothing")
	assert.Empty(t, result.Diagnostics.ByCode(diagnostic.UnresolvedGroupBinding))
}

// ----- template scopes ------------------------------------------------

func TestAnalyze_ConstTagScope(t *testing.T) {
	constTag := &ast.ConstTag{Declaration: letDecl("area", &js.BinaryExpression{
		Operator: "*", Left: ident("w"), Right: ident("h"),
	})}
	readTag := exprTag(ident("area"))
	each := eachBlock(ident("boxes"), "box", "", nil, constTag, readTag)

	root := component(script(
		letDecl("boxes", stateCall()),
		letDecl("w", &js.Literal{Raw: "1"}),
		letDecl("h", &js.Literal{Raw: "2"}),
	), each)
	result := analyze(t, root, analyzer.Options{})

	area := binding(t, result, "area")
	assert.Equal(t, area.ID, result.Resolutions[readTag.Expression.(*js.Identifier)])
}

func TestAnalyze_SnippetAndRender(t *testing.T) {
	paramTag := exprTag(ident("label"))
	snippet := &ast.SnippetBlock{
		Expression: ident("row"),
		Parameters: []js.Pattern{ident("label")},
		Body:       ast.Fragment{Nodes: []ast.FragmentNode{paramTag}},
	}
	render := &ast.RenderTag{Expression: call(ident("row"), &js.Literal{Raw: `"a"`})}

	root := component(nil, snippet, render)
	result := analyze(t, root, analyzer.Options{})

	row := binding(t, result, "row")
	assert.Equal(t, scope.DeclFunction, row.DeclKind)
	require.Len(t, row.References, 1, "the render tag references the snippet")

	label := binding(t, result, "label")
	assert.Equal(t, scope.Snippet, label.Kind)
	assert.False(t, paramTag.Metadata.Dynamic(), "snippet parameters are plain locals")
}

func TestAnalyze_AwaitBlockScopes(t *testing.T) {
	valueTag := exprTag(ident("data"))
	errorTag := exprTag(ident("err"))
	await := &ast.AwaitBlock{
		Expression: call(ident("fetchData")),
		Value:      ident("data"),
		Error:      ident("err"),
		Then:       &ast.Fragment{Nodes: []ast.FragmentNode{valueTag}},
		Catch:      &ast.Fragment{Nodes: []ast.FragmentNode{errorTag}},
	}
	root := component(nil, await)
	result := analyze(t, root, analyzer.Options{})

	data := binding(t, result, "data")
	assert.Equal(t, scope.DeclParam, data.DeclKind)
	require.Len(t, data.References, 1)
	require.Len(t, binding(t, result, "err").References, 1)
}

// ----- determinism ----------------------------------------------------

type taintSnapshot struct {
	Dynamic      bool
	ContainsCall bool
}

type runSnapshot struct {
	RunesMode bool
	Bindings  []string
	Tags      []taintSnapshot
	Groups    []scope.BindingID
}

func snapshot(result *analyzer.Result) runSnapshot {
	snap := runSnapshot{RunesMode: result.RunesMode}
	for _, b := range result.Bindings.All() {
		snap.Bindings = append(snap.Bindings, b.Name+"/"+string(b.Kind))
	}
	ast.Walk(result.Root, func(n ast.Node) bool {
		switch x := n.(type) {
		case *ast.ExpressionTag:
			snap.Tags = append(snap.Tags, taintSnapshot{
				Dynamic:      x.Metadata.Dynamic(),
				ContainsCall: x.Metadata.ContainsCallExpression(),
			})
		case *ast.BindDirective:
			id, _ := x.Metadata.BindingGroupName()
			snap.Groups = append(snap.Groups, id)
		}
		return true
	})
	return snap
}

func TestAnalyze_Idempotent(t *testing.T) {
	group := bindDir("group", itemDone())
	each := eachBlock(ident("items"), "item", "i", nil,
		exprTag(ident("item")),
		exprTag(call(ident("format"), ident("i"))),
		el("input", []ast.ElementAttribute{group}),
	)
	root := component(script(
		letDecl("items", stateCall(&js.ArrayExpression{})),
		letDecl("plain", &js.Literal{Raw: "0"}),
	), each, exprTag(ident("plain")))

	first := snapshot(analyze(t, root, analyzer.Options{}))

	ast.ResetMetadata(root)
	second := snapshot(analyze(t, root, analyzer.Options{}))

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("re-analysis diverged (-first +second):\n%s", diff)
	}
}
