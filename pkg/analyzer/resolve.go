package analyzer

import (
	"fmt"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/go-svelte-analyzer/pkg/ast"
	"github.com/walteh/go-svelte-analyzer/pkg/diagnostic"
	"github.com/walteh/go-svelte-analyzer/pkg/js"
	"github.com/walteh/go-svelte-analyzer/pkg/scope"
)

// resolver is the pass-2 walker. It only reads binding state accumulated
// by pass 1 and writes metadata slots; the binding table's shape is frozen
// apart from synthesized group bindings.
type resolver struct {
	*analysis
	depth int
}

// resolve is pass 2. Group resolution runs first because it feeds
// ContainsGroupBinding into each-block metadata, which is sealed next;
// the namespace and taint walk runs last and touches neither.
func (a *analysis) resolve() error {
	r := &resolver{analysis: a}

	r.bindingGroups()
	r.eachMetadata()

	ns := ast.NamespaceHtml
	if a.root.Options != nil && a.root.Options.Namespace != nil {
		ns = *a.root.Options.Namespace
	}
	return r.fragment(&a.root.Fragment, ns)
}

// ----- taint ----------------------------------------------------------

// taint computes the reactivity of one expression: whether re-evaluating
// it can observe a different value, and whether it contains a call. A call
// is always dynamic because its result cannot be proven stable. The walk
// is purely syntactic, so references inside function bodies count too.
func (a *analysis) taint(e js.Expression) (dynamic, containsCall bool) {
	if e == nil {
		return false, false
	}
	js.Walk(e, func(n js.Node) bool {
		switch x := n.(type) {
		case *js.CallExpression:
			containsCall = true
			dynamic = true
		case *js.Identifier:
			id, ok := a.resolutions[x]
			if !ok {
				return true
			}
			b := a.table.Get(id)
			if b == nil {
				return true
			}
			if b.Kind.Reactive() {
				dynamic = true
			} else if (b.Kind == scope.Normal || b.Kind == scope.RestProp) && (b.Mutated || b.Reassigned) {
				// A mutation anywhere taints every read of a plain binding.
				dynamic = true
			}
		}
		return true
	})
	return dynamic, containsCall
}

func (a *analysis) resolveExpressionMetadata(m *ast.ExpressionMetadata, e js.Expression) {
	dynamic, call := a.taint(e)
	m.Resolve(dynamic, call)
}

// valueDynamic folds taint over a mixed attribute value sequence,
// resolving each embedded tag along the way.
func (a *analysis) valueDynamic(v *ast.AttributeValue) bool {
	if v == nil {
		return false
	}
	dynamic := false
	for _, sv := range v.Sequence {
		if tag, ok := sv.(*ast.ExpressionTag); ok {
			a.resolveExpressionMetadata(&tag.Metadata, tag.Expression)
			if tag.Metadata.Dynamic() {
				dynamic = true
			}
		}
	}
	return dynamic
}

// ----- tree walk: namespaces, scoping, expression taint ---------------

func (r *resolver) fragment(f *ast.Fragment, ns ast.Namespace) error {
	r.depth++
	defer func() { r.depth-- }()
	if r.depth > maxTreeDepth {
		return errors.Errorf("tree depth exceeds %d: structural corruption in parser output", maxTreeDepth)
	}
	for _, n := range f.Nodes {
		if err := r.node(n, ns); err != nil {
			return err
		}
	}
	return nil
}

func (r *resolver) node(n ast.FragmentNode, ns ast.Namespace) error {
	switch x := n.(type) {
	case *ast.Text, *ast.ConstTag, *ast.DebugTag:

	case *ast.ExpressionTag:
		r.resolveExpressionMetadata(&x.Metadata, x.Expression)
	case *ast.HtmlTag, *ast.RenderTag:

	case *ast.EachBlock:
		if err := r.fragment(&x.Body, ns); err != nil {
			return err
		}
		if x.Fallback != nil {
			return r.fragment(x.Fallback, ns)
		}
	case *ast.IfBlock:
		if err := r.fragment(&x.Consequent, ns); err != nil {
			return err
		}
		if x.Alternate != nil {
			return r.fragment(x.Alternate, ns)
		}
	case *ast.AwaitBlock:
		for _, f := range []*ast.Fragment{x.Pending, x.Then, x.Catch} {
			if f == nil {
				continue
			}
			if err := r.fragment(f, ns); err != nil {
				return err
			}
		}
	case *ast.KeyBlock:
		return r.fragment(&x.Fragment, ns)
	case *ast.SnippetBlock:
		return r.fragment(&x.Body, ns)

	default:
		if el, ok := n.(ast.Element); ok {
			return r.element(el, ns)
		}
	}
	return nil
}

func (r *resolver) element(el ast.Element, ns ast.Namespace) error {
	hasSpread := false
	var attrNames []string
	for _, attr := range el.ElementAttributes() {
		switch at := attr.(type) {
		case *ast.Attribute:
			attrNames = append(attrNames, at.Name)
			r.valueDynamic(at.Value)
		case *ast.SpreadAttribute:
			hasSpread = true
			r.resolveExpressionMetadata(&at.Metadata, at.Expression)
		case *ast.ClassDirective:
			dynamic, _ := r.taint(at.Expression)
			at.Metadata.Resolve(dynamic)
		case *ast.StyleDirective:
			at.Metadata.Resolve(r.valueDynamic(at.Value))
		}
	}

	childNS := ns
	switch e := el.(type) {
	case *ast.RegularElement:
		elemNS := r.elementNamespace(e, ns)
		childNS = elemNS
		if elemNS == ast.NamespaceSvg && e.Name == "foreignObject" {
			// foreignObject re-opens HTML content inside an svg subtree.
			childNS = ast.NamespaceHtml
		}
		scoped := r.scoped && r.styles.Matches(e.Name, attrNames)
		e.Metadata.Resolve(elemNS == ast.NamespaceSvg, elemNS == ast.NamespaceMathMl, hasSpread, scoped)
	case *ast.SvelteElement:
		// The tag is computed at runtime; classify from context alone.
		e.Metadata.Resolve(ns == ast.NamespaceSvg, ns == ast.NamespaceMathMl, hasSpread, r.scoped)
	}

	return r.fragment(el.ElementFragment(), childNS)
}

// elementNamespace resolves the namespace one element lives in, entering
// svg and math subtrees and flagging tags that only exist elsewhere.
func (r *resolver) elementNamespace(e *ast.RegularElement, ns ast.Namespace) ast.Namespace {
	switch e.Name {
	case "svg":
		return ast.NamespaceSvg
	case "math":
		return ast.NamespaceMathMl
	}
	if knownIn(ns, e.Name) {
		return ns
	}
	home, found := homeNamespace(e.Name)
	if found {
		r.diags.Warnf(diagnostic.NamespaceConflict, e.Span(),
			"<%s> is not valid inside the %s namespace; treating it as %s", e.Name, ns, home)
		return home
	}
	// Unknown everywhere: a custom element or foreign vocabulary, kept in
	// the host namespace.
	return ns
}

// ----- each metadata --------------------------------------------------

func (r *resolver) eachMetadata() {
	for block, info := range r.eachs {
		m := &block.Metadata

		m.ArrayName = scope.InvalidBinding
		if ident, ok := block.Expression.(*js.Identifier); ok {
			if id, ok := r.resolutions[ident]; ok {
				m.ArrayName = id
			}
		}
		m.Item = info.item
		m.Index = info.index
		m.Declarations = info.declarations
		m.References = info.references
		m.ContainsGroupBinding = info.containsGroups
		m.IsControlled = r.eachControlled(block, info)
		m.MarkResolved()
	}
}

// eachControlled decides index-based reuse: safe only when no key
// expression is present and nothing in the body requires stable per-item
// identity (transitions, animations, bindings into the item).
func (r *resolver) eachControlled(block *ast.EachBlock, info *eachInfo) bool {
	if block.Key != nil || info.hasTransition {
		return false
	}
	declared := make(map[scope.BindingID]bool, len(info.declarations))
	for _, id := range info.declarations {
		declared[id] = true
	}
	for _, target := range info.bindTargets {
		if declared[target] {
			return false
		}
	}
	return true
}

// ----- binding groups -------------------------------------------------

// bindingGroups assigns shared synthetic bindings to the directives that
// need group identity: every bind:group, and any other two-way binding
// whose member-path target walks through an enclosing each item. Identity
// is the root array binding the target path traces to, plus the rendered
// member path, so the same path over the same array shares one group
// across sibling loops. A bind:group that cannot be traced is an error; a
// value binding that cannot be traced simply stays standalone.
func (r *resolver) bindingGroups() {
	for _, bi := range r.binds {
		b := bi.directive
		isGroup := b.Name == "group"

		var root *js.Identifier
		pathKey := ""
		member := false
		switch t := b.Expression.(type) {
		case *js.Identifier:
			root = t
			pathKey = t.Name
		case *js.MemberExpression:
			member = true
			root = t.RootIdentifier()
			key, ok := t.PathKey()
			if !ok {
				// A call or computed non-name segment in the path defeats
				// name-based identity.
				root = nil
			}
			pathKey = key
		}
		if !isGroup && !member {
			// A bare-identifier value binding shares nothing.
			b.Metadata.Resolve(scope.InvalidBinding)
			continue
		}
		if root == nil {
			r.standaloneOrError(b, isGroup, pathKey)
			continue
		}
		id, ok := r.resolutions[root]
		if !ok {
			r.standaloneOrError(b, isGroup, root.Name)
			continue
		}
		if tb := r.table.Get(id); !isGroup && (tb == nil || tb.Kind != scope.Each) {
			// A member path that never crosses a loop shares nothing.
			b.Metadata.Resolve(scope.InvalidBinding)
			continue
		}

		groupRoot, ok := r.groupRoot(bi, id)
		if !ok {
			r.standaloneOrError(b, isGroup, pathKey)
			continue
		}

		name := fmt.Sprintf("$$binding_group@%d:%s", groupRoot, pathKey)
		groupID := r.table.DeclareSynthetic(name)
		b.Metadata.Resolve(groupID)
		r.log.Debug().Str("path", pathKey).Int("group", int(groupID)).Msg("binding group resolved")
	}
}

// standaloneOrError closes out a directive whose target could not be
// traced: bind:group reports the failure, value bindings fall back to
// standalone resolution.
func (r *resolver) standaloneOrError(b *ast.BindDirective, isGroup bool, path string) {
	if isGroup {
		r.unresolvedGroup(b, path)
		return
	}
	b.Metadata.Resolve(scope.InvalidBinding)
}

// groupRoot follows the each chain from a target binding out to the array
// it ultimately iterates: an each-item binding hops to the binding of its
// loop's iterable, repeatedly, until a non-item binding is reached. Every
// loop crossed is marked as containing a group binding.
func (r *resolver) groupRoot(bi *bindInfo, id scope.BindingID) (scope.BindingID, bool) {
	cur := id
	for hops := 0; hops <= len(bi.chain); hops++ {
		b := r.table.Get(cur)
		if b == nil {
			return scope.InvalidBinding, false
		}
		if b.Kind != scope.Each {
			return cur, true
		}

		var owner *eachInfo
		for _, blk := range bi.chain {
			info := r.eachs[blk]
			if info == nil {
				continue
			}
			for _, decl := range info.declarations {
				if decl == cur {
					owner = info
					break
				}
			}
			if owner != nil {
				break
			}
		}
		if owner == nil {
			return scope.InvalidBinding, false
		}
		owner.containsGroups = true

		// Only a bare-identifier iterable can be traced further.
		ident, ok := owner.block.Expression.(*js.Identifier)
		if !ok {
			return scope.InvalidBinding, false
		}
		next, ok := r.resolutions[ident]
		if !ok {
			return scope.InvalidBinding, false
		}
		cur = next
	}
	return scope.InvalidBinding, false
}

func (r *resolver) unresolvedGroup(b *ast.BindDirective, path string) {
	what := path
	if what == "" {
		what = "target"
	}
	r.diags.Errorf(diagnostic.UnresolvedGroupBinding, b.Span(),
		"bind:group %s cannot be traced to a declared binding", what)
	b.Metadata.Resolve(scope.InvalidBinding)
}
