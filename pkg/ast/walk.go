package ast

// Walk traverses the template tree in document order. visit is called for
// every node before its children; returning false prunes the subtree.
// Attribute-position nodes (attributes, directives, attribute-value
// expression tags) are visited as part of their owning element.
func Walk(n Node, visit func(Node) bool) {
	if n == nil || !visit(n) {
		return
	}
	switch x := n.(type) {
	case *Root:
		walkFragment(&x.Fragment, visit)
	case *Text, *HtmlTag, *ConstTag, *DebugTag, *RenderTag, *ExpressionTag:
	case *Attribute:
		if x.Value != nil {
			Walk(x.Value, visit)
		}
	case *AttributeValue:
		for _, sv := range x.Sequence {
			Walk(sv, visit)
		}
	case *StyleDirective:
		if x.Value != nil {
			Walk(x.Value, visit)
		}
	case *EachBlock:
		walkFragment(&x.Body, visit)
		if x.Fallback != nil {
			walkFragment(x.Fallback, visit)
		}
	case *IfBlock:
		walkFragment(&x.Consequent, visit)
		if x.Alternate != nil {
			walkFragment(x.Alternate, visit)
		}
	case *AwaitBlock:
		if x.Pending != nil {
			walkFragment(x.Pending, visit)
		}
		if x.Then != nil {
			walkFragment(x.Then, visit)
		}
		if x.Catch != nil {
			walkFragment(x.Catch, visit)
		}
	case *KeyBlock:
		walkFragment(&x.Fragment, visit)
	case *SnippetBlock:
		walkFragment(&x.Body, visit)
	default:
		if el, ok := n.(Element); ok {
			for _, attr := range el.ElementAttributes() {
				Walk(attr, visit)
			}
			walkFragment(el.ElementFragment(), visit)
		}
	}
}

func walkFragment(f *Fragment, visit func(Node) bool) {
	for _, n := range f.Nodes {
		Walk(n, visit)
	}
}

// ResetMetadata clears every metadata slot in the tree so it can be
// re-analyzed. Used to verify that analysis is deterministic.
func ResetMetadata(root *Root) {
	Walk(root, func(n Node) bool {
		switch x := n.(type) {
		case *ExpressionTag:
			x.Metadata.Reset()
		case *SpreadAttribute:
			x.Metadata.Reset()
		case *RegularElement:
			x.Metadata.Reset()
		case *SvelteElement:
			x.Metadata.Reset()
		case *EachBlock:
			x.Metadata.Reset()
		case *BindDirective:
			x.Metadata.Reset()
		case *ClassDirective:
			x.Metadata.Reset()
		case *StyleDirective:
			x.Metadata.Reset()
		}
		return true
	})
}
