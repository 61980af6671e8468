package js

// Rune names recognized on declaration initializers.
const (
	RuneState       = "$state"
	RuneStateFrozen = "$state.frozen"
	RuneDerived     = "$derived"
	RuneDerivedBy   = "$derived.by"
	RuneProps       = "$props"
	RuneBindable    = "$bindable"
)

// RuneCall reports the rune a call expression invokes (`$state(0)`,
// `$state.frozen(x)`, ...), or "" when the expression is not a rune call.
func RuneCall(e Expression) string {
	call, ok := e.(*CallExpression)
	if !ok {
		return ""
	}
	switch callee := call.Callee.(type) {
	case *Identifier:
		switch callee.Name {
		case "$state", "$derived", "$props", "$bindable":
			return callee.Name
		}
	case *MemberExpression:
		if callee.Computed {
			return ""
		}
		obj, ok := callee.Object.(*Identifier)
		if !ok {
			return ""
		}
		prop, ok := callee.Property.(*Identifier)
		if !ok {
			return ""
		}
		name := obj.Name + "." + prop.Name
		switch name {
		case RuneStateFrozen, RuneDerivedBy:
			return name
		}
	}
	return ""
}

// IsStoreName reports whether an identifier follows the store
// auto-subscription convention: a `$`-prefixed name that is not a rune.
func IsStoreName(name string) bool {
	if len(name) < 2 || name[0] != '$' {
		return false
	}
	switch name {
	case "$state", "$derived", "$props", "$bindable", "$effect", "$inspect":
		return false
	}
	// `$$props` and friends are compiler-internal, not store reads.
	return name[1] != '$'
}

// StoreName strips the subscription prefix: `$count` reads store `count`.
func StoreName(name string) string {
	return name[1:]
}
