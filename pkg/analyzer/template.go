package analyzer

import (
	"github.com/walteh/go-svelte-analyzer/pkg/ast"
	"github.com/walteh/go-svelte-analyzer/pkg/js"
	"github.com/walteh/go-svelte-analyzer/pkg/scope"
)

// fragment opens a fragment frame, runs predeclare (let: names, await
// patterns) inside it, then walks the child nodes.
func (d *declarer) fragment(f *ast.Fragment, predeclare func()) error {
	d.table.Push(scope.FrameFragment)
	defer d.table.Pop()
	if predeclare != nil {
		predeclare()
	}
	return d.nodes(f.Nodes)
}

func (d *declarer) nodes(nodes []ast.FragmentNode) error {
	for _, n := range nodes {
		if err := d.node(n); err != nil {
			return err
		}
	}
	return nil
}

func (d *declarer) node(n ast.FragmentNode) error {
	if err := d.checkDepth(); err != nil {
		return err
	}
	switch x := n.(type) {
	case *ast.Text:

	case *ast.ExpressionTag:
		d.expression(x.Expression)
	case *ast.HtmlTag:
		d.expression(x.Expression)
	case *ast.ConstTag:
		// {@const} declares into the enclosing fragment frame.
		if x.Declaration != nil {
			d.variableDeclaration(x.Declaration, false)
		}
	case *ast.DebugTag:
		for _, ident := range x.Identifiers {
			d.reference(ident, nil)
		}
	case *ast.RenderTag:
		if x.Expression != nil {
			d.expression(x.Expression)
		}

	case *ast.EachBlock:
		return d.eachBlock(x)
	case *ast.IfBlock:
		d.expression(x.Test)
		d.enter("if")
		if err := d.fragment(&x.Consequent, nil); err != nil {
			d.leave()
			return err
		}
		d.leave()
		if x.Alternate != nil {
			d.enter("else")
			err := d.fragment(x.Alternate, nil)
			d.leave()
			return err
		}
	case *ast.AwaitBlock:
		return d.awaitBlock(x)
	case *ast.KeyBlock:
		d.expression(x.Expression)
		d.enter("key")
		err := d.fragment(&x.Fragment, nil)
		d.leave()
		return err
	case *ast.SnippetBlock:
		return d.snippetBlock(x)

	default:
		if el, ok := n.(ast.Element); ok {
			return d.element(el)
		}
	}
	return nil
}

func (d *declarer) eachBlock(b *ast.EachBlock) error {
	// The iterable evaluates in the outer scope.
	d.expression(b.Expression)

	frame := d.table.Push(scope.FrameEach)
	info := &eachInfo{
		block:   b,
		frame:   frame,
		item:    scope.InvalidBinding,
		index:   scope.InvalidBinding,
		refSeen: make(map[scope.BindingID]bool),
	}
	d.eachs[b] = info

	if b.Context != nil {
		names := js.BoundNames(b.Context)
		for i, bn := range names {
			id := d.declareBinding(bn.Ident, scope.Each, scope.DeclConst, nil)
			info.declarations = append(info.declarations, id)
			if i == 0 {
				if _, plain := b.Context.(*js.Identifier); plain {
					info.item = id
				}
			}
			if bn.Default != nil {
				d.expression(bn.Default)
			}
		}
		// A destructured context still owns the whole item; the first
		// declaration stands in for it when a plain identifier is absent.
		if info.item == scope.InvalidBinding && len(info.declarations) > 0 {
			info.item = info.declarations[0]
		}
	}
	if b.Index != nil {
		info.index = d.declareBinding(b.Index, scope.Each, scope.DeclConst, nil)
		info.declarations = append(info.declarations, info.index)
	}

	// The key expression evaluates per item, inside the loop scope.
	if b.Key != nil {
		d.expression(b.Key)
	}

	d.eachStack = append(d.eachStack, info)
	d.enter("each")
	err := d.fragment(&b.Body, nil)
	d.leave()
	d.eachStack = d.eachStack[:len(d.eachStack)-1]
	d.table.Pop()
	if err != nil {
		return err
	}

	// The fallback renders when the iterable is empty; item bindings are
	// not in scope there.
	if b.Fallback != nil {
		d.enter("each:fallback")
		err = d.fragment(b.Fallback, nil)
		d.leave()
	}
	return err
}

func (d *declarer) awaitBlock(b *ast.AwaitBlock) error {
	d.expression(b.Expression)
	if b.Pending != nil {
		d.enter("await:pending")
		if err := d.fragment(b.Pending, nil); err != nil {
			d.leave()
			return err
		}
		d.leave()
	}
	if b.Then != nil {
		d.enter("await:then")
		err := d.fragment(b.Then, func() {
			if b.Value != nil {
				d.declarePattern(b.Value)
			}
		})
		d.leave()
		if err != nil {
			return err
		}
	}
	if b.Catch != nil {
		d.enter("await:catch")
		err := d.fragment(b.Catch, func() {
			if b.Error != nil {
				d.declarePattern(b.Error)
			}
		})
		d.leave()
		if err != nil {
			return err
		}
	}
	return nil
}

func (d *declarer) declarePattern(p js.Pattern) {
	for _, bn := range js.BoundNames(p) {
		declKind := scope.DeclParam
		if bn.Rest {
			declKind = scope.DeclRestParam
		}
		d.declareBinding(bn.Ident, scope.Normal, declKind, nil)
		if bn.Default != nil {
			d.expression(bn.Default)
		}
	}
}

func (d *declarer) snippetBlock(b *ast.SnippetBlock) error {
	// The snippet name is callable from the enclosing scope.
	if b.Expression != nil {
		d.declareBinding(b.Expression, scope.Normal, scope.DeclFunction, b)
	}
	d.table.Push(scope.FrameSnippet)
	defer d.table.Pop()
	d.declareParams(b.Parameters, scope.Snippet)
	d.enter("snippet")
	err := d.nodes(b.Body.Nodes)
	d.leave()
	return err
}

// element collects attribute expressions in the enclosing scope, then
// walks children in a fresh fragment frame carrying any let: names.
func (d *declarer) element(el ast.Element) error {
	label := "element"
	switch e := el.(type) {
	case *ast.RegularElement:
		label = "element:" + e.Name
	case *ast.Component:
		label = "component:" + e.Name
	case *ast.SvelteElement:
		label = "svelte:element"
	}
	d.enter(label)
	defer d.leave()

	var lets []*ast.LetDirective

	for _, attr := range el.ElementAttributes() {
		switch at := attr.(type) {
		case *ast.Attribute:
			d.attributeValue(at.Value)
		case *ast.SpreadAttribute:
			d.expression(at.Expression)
		case *ast.BindDirective:
			d.bindDirective(at)
		case *ast.OnDirective:
			d.expression(at.Expression)
		case *ast.ClassDirective:
			d.expression(at.Expression)
		case *ast.StyleDirective:
			d.attributeValue(at.Value)
		case *ast.UseDirective:
			d.expression(at.Expression)
		case *ast.TransitionDirective:
			d.expression(at.Expression)
			d.noteIdentityDirective()
		case *ast.AnimateDirective:
			d.expression(at.Expression)
			d.noteIdentityDirective()
		case *ast.LetDirective:
			lets = append(lets, at)
		}
	}

	switch e := el.(type) {
	case *ast.SvelteElement:
		d.expression(e.Expression)
	case *ast.SvelteComponent:
		d.expression(e.Expression)
	}

	return d.fragment(el.ElementFragment(), func() {
		for _, ld := range lets {
			d.letDirective(ld)
		}
	})
}

func (d *declarer) attributeValue(v *ast.AttributeValue) {
	if v == nil {
		return
	}
	for _, sv := range v.Sequence {
		if tag, ok := sv.(*ast.ExpressionTag); ok {
			d.expression(tag.Expression)
		}
	}
}

// bindDirective records the two-way write-back and, for member-path
// targets, remembers the enclosing each chain for group resolution.
func (d *declarer) bindDirective(b *ast.BindDirective) {
	d.enter("bind:" + b.Name)
	defer d.leave()

	d.mutationTarget(b.Expression)
	d.expression(b.Expression)

	if member, ok := b.Expression.(*js.MemberExpression); ok {
		chain := make([]*ast.EachBlock, 0, len(d.eachStack))
		for i := len(d.eachStack) - 1; i >= 0; i-- {
			chain = append(chain, d.eachStack[i].block)
		}
		d.binds = append(d.binds, &bindInfo{directive: b, chain: chain})

		// Bound item paths force keyed rendering on every loop they
		// traverse.
		if root := member.RootIdentifier(); root != nil {
			if id, ok := d.resolutions[root]; ok {
				for _, info := range d.eachStack {
					info.bindTargets = append(info.bindTargets, id)
				}
			}
		}
	} else {
		// Identifier targets still get standalone metadata.
		d.binds = append(d.binds, &bindInfo{directive: b})
	}
}

// noteIdentityDirective marks every enclosing each block as needing
// stable per-item identity.
func (d *declarer) noteIdentityDirective() {
	for _, info := range d.eachStack {
		info.hasTransition = true
	}
}

// letDirective introduces slot-content names into the child fragment
// frame.
func (d *declarer) letDirective(ld *ast.LetDirective) {
	if ld.Expression != nil {
		if p, ok := ld.Expression.(js.Pattern); ok {
			d.declarePattern(p)
			return
		}
	}
	ident := js.NewIdentifier(ld.Span(), ld.Name)
	d.declareBinding(ident, scope.Normal, scope.DeclParam, nil)
}
