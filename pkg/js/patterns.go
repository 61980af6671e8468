package js

// ObjectPattern is a destructuring shape like `{ a, b: c = 1, ...rest }`.
type ObjectPattern struct {
	NodeBase
	Properties []PatternProperty
	Rest       *Identifier
}

// PatternProperty is one entry of an ObjectPattern. Key is the source
// property name; Value is the binding target (defaults to the key when the
// entry is shorthand). Default carries `= expr` initializers.
type PatternProperty struct {
	Key     *Identifier
	Value   Pattern
	Default Expression
}

// ArrayPattern is `[a, , b, ...rest]`; skipped holes are nil elements.
type ArrayPattern struct {
	NodeBase
	Elements []Pattern
	Rest     *Identifier
}

// AssignmentPattern is `target = default` in parameter/destructuring
// position.
type AssignmentPattern struct {
	NodeBase
	Target  Pattern
	Default Expression
}

// RestPattern is `...argument` in parameter position.
type RestPattern struct {
	NodeBase
	Argument *Identifier
}

func (*Identifier) patternNode()        {}
func (*ObjectPattern) patternNode()     {}
func (*ArrayPattern) patternNode()      {}
func (*AssignmentPattern) patternNode() {}
func (*RestPattern) patternNode()       {}

// BoundName describes one identifier introduced by a pattern, with enough
// shape information to classify it (rest elements become rest props, object
// keys become prop aliases).
type BoundName struct {
	Ident *Identifier
	// Alias is the source property name when the identifier was renamed in
	// an object pattern (`{ source: local }`); empty otherwise.
	Alias string
	Rest  bool
	// Default is the `= expr` initializer attached at the binding site, if
	// any.
	Default Expression
}

// BoundNames enumerates every identifier a pattern introduces, in source
// order, descending through nested destructuring.
func BoundNames(p Pattern) []BoundName {
	var out []BoundName
	collectBoundNames(p, "", false, nil, &out)
	return out
}

func collectBoundNames(p Pattern, alias string, rest bool, def Expression, out *[]BoundName) {
	switch n := p.(type) {
	case *Identifier:
		*out = append(*out, BoundName{Ident: n, Alias: alias, Rest: rest, Default: def})
	case *ObjectPattern:
		for _, prop := range n.Properties {
			propAlias := ""
			if prop.Key != nil {
				if id, ok := prop.Value.(*Identifier); !ok || id.Name != prop.Key.Name {
					propAlias = prop.Key.Name
				}
			}
			collectBoundNames(prop.Value, propAlias, false, prop.Default, out)
		}
		if n.Rest != nil {
			*out = append(*out, BoundName{Ident: n.Rest, Rest: true})
		}
	case *ArrayPattern:
		for _, el := range n.Elements {
			if el != nil {
				collectBoundNames(el, "", false, nil, out)
			}
		}
		if n.Rest != nil {
			*out = append(*out, BoundName{Ident: n.Rest, Rest: true})
		}
	case *AssignmentPattern:
		collectBoundNames(n.Target, alias, rest, n.Default, out)
	case *RestPattern:
		if n.Argument != nil {
			*out = append(*out, BoundName{Ident: n.Argument, Rest: true})
		}
	}
}
