package loader

import (
	"encoding/json"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/go-svelte-analyzer/pkg/ast"
	"github.com/walteh/go-svelte-analyzer/pkg/css"
	"github.com/walteh/go-svelte-analyzer/pkg/js"
	"github.com/walteh/go-svelte-analyzer/pkg/span"
)

// raw is one undecoded JSON node. Every node object carries a "type"
// discriminator plus "start"/"end" byte offsets.
type raw map[string]any

func (r raw) kind() string {
	s, _ := r["type"].(string)
	return s
}

func (r raw) str(key string) string {
	s, _ := r[key].(string)
	return s
}

func (r raw) boolean(key string) bool {
	b, _ := r[key].(bool)
	return b
}

func (r raw) has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

func (r raw) span() span.Span {
	start, _ := r["start"].(float64)
	end, _ := r["end"].(float64)
	return span.New(int(start), int(end))
}

func (r raw) base() ast.BaseNode {
	return ast.BaseNode{Loc: r.span()}
}

func (r raw) child(key string) raw {
	m, _ := r[key].(map[string]any)
	return m
}

func (r raw) list(key string) []raw {
	items, _ := r[key].([]any)
	out := make([]raw, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// Decode turns one serialized component document into a tree.
func Decode(data []byte) (*ast.Root, error) {
	var doc raw
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Errorf("parsing document: %w", err)
	}
	return decodeRoot(doc)
}

func decodeRoot(doc raw) (*ast.Root, error) {
	root := &ast.Root{
		BaseNode: doc.base(),
		TS:       doc.boolean("ts"),
	}

	fragment, err := decodeFragment(doc.child("fragment"))
	if err != nil {
		return nil, errors.Errorf("fragment: %w", err)
	}
	root.Fragment = fragment

	if doc.has("options") {
		opts, err := decodeOptions(doc.child("options"))
		if err != nil {
			return nil, errors.Errorf("options: %w", err)
		}
		root.Options = opts
	}
	if doc.has("instance") {
		script, err := decodeScript(doc.child("instance"))
		if err != nil {
			return nil, errors.Errorf("instance script: %w", err)
		}
		root.Instance = script
	}
	if doc.has("module") {
		script, err := decodeScript(doc.child("module"))
		if err != nil {
			return nil, errors.Errorf("module script: %w", err)
		}
		root.Module = script
	}
	if doc.has("css") {
		style, err := decodeStyle(doc.child("css"))
		if err != nil {
			return nil, errors.Errorf("style: %w", err)
		}
		root.CSS = style
	}
	return root, nil
}

func decodeFragment(r raw) (ast.Fragment, error) {
	f := ast.Fragment{Transparent: r.boolean("transparent")}
	for i, n := range r.list("nodes") {
		node, err := decodeFragmentNode(n)
		if err != nil {
			return f, errors.Errorf("node %d (%s): %w", i, n.kind(), err)
		}
		f.Nodes = append(f.Nodes, node)
	}
	return f, nil
}

func decodeFragmentPtr(r raw) (*ast.Fragment, error) {
	if r == nil {
		return nil, nil
	}
	f, err := decodeFragment(r)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func decodeFragmentNode(r raw) (ast.FragmentNode, error) {
	switch r.kind() {
	case "Text":
		return &ast.Text{BaseNode: r.base(), Data: r.str("data"), Raw: r.str("raw")}, nil

	case "ExpressionTag":
		expr, err := decodeExpression(r.child("expression"))
		if err != nil {
			return nil, err
		}
		return &ast.ExpressionTag{BaseNode: r.base(), Expression: expr}, nil
	case "HtmlTag":
		expr, err := decodeExpression(r.child("expression"))
		if err != nil {
			return nil, err
		}
		return &ast.HtmlTag{BaseNode: r.base(), Expression: expr}, nil
	case "ConstTag":
		decl, err := decodeStatement(r.child("declaration"))
		if err != nil {
			return nil, err
		}
		vd, ok := decl.(*js.VariableDeclaration)
		if !ok {
			return nil, errors.New("const tag declaration is not a variable declaration")
		}
		return &ast.ConstTag{BaseNode: r.base(), Declaration: vd}, nil
	case "DebugTag":
		tag := &ast.DebugTag{BaseNode: r.base()}
		for _, ir := range r.list("identifiers") {
			ident, err := decodeIdentifier(ir)
			if err != nil {
				return nil, err
			}
			tag.Identifiers = append(tag.Identifiers, ident)
		}
		return tag, nil
	case "RenderTag":
		expr, err := decodeExpression(r.child("expression"))
		if err != nil {
			return nil, err
		}
		call, ok := expr.(*js.CallExpression)
		if !ok {
			return nil, errors.New("render tag expression is not a call")
		}
		return &ast.RenderTag{BaseNode: r.base(), Expression: call, Chain: r.boolean("chain")}, nil

	case "EachBlock":
		return decodeEachBlock(r)
	case "IfBlock":
		return decodeIfBlock(r)
	case "AwaitBlock":
		return decodeAwaitBlock(r)
	case "KeyBlock":
		expr, err := decodeExpression(r.child("expression"))
		if err != nil {
			return nil, err
		}
		fragment, err := decodeFragment(r.child("fragment"))
		if err != nil {
			return nil, err
		}
		return &ast.KeyBlock{BaseNode: r.base(), Expression: expr, Fragment: fragment}, nil
	case "SnippetBlock":
		return decodeSnippetBlock(r)

	case "Component", "TitleElement", "SlotElement", "RegularElement",
		"SvelteElement", "SvelteComponent", "SvelteWindow", "SvelteDocument",
		"SvelteBody", "SvelteHead", "SvelteFragment", "SvelteSelf", "SvelteOptions":
		return decodeElement(r)
	}
	return nil, errors.Errorf("unknown fragment node type %q", r.kind())
}

func decodeEachBlock(r raw) (*ast.EachBlock, error) {
	expr, err := decodeExpression(r.child("expression"))
	if err != nil {
		return nil, err
	}
	block := &ast.EachBlock{BaseNode: r.base(), Expression: expr}

	if r.has("context") {
		block.Context, err = decodePattern(r.child("context"))
		if err != nil {
			return nil, err
		}
	}
	// The index arrives as a bare name, not a node.
	if name := r.str("index"); name != "" {
		block.Index = js.NewIdentifier(r.span(), name)
	} else if r.has("index") {
		block.Index, err = decodeIdentifier(r.child("index"))
		if err != nil {
			return nil, err
		}
	}
	if r.has("key") {
		block.Key, err = decodeExpression(r.child("key"))
		if err != nil {
			return nil, err
		}
	}
	block.Body, err = decodeFragment(r.child("body"))
	if err != nil {
		return nil, err
	}
	block.Fallback, err = decodeFragmentPtr(r.child("fallback"))
	if err != nil {
		return nil, err
	}
	return block, nil
}

func decodeIfBlock(r raw) (*ast.IfBlock, error) {
	test, err := decodeExpression(r.child("test"))
	if err != nil {
		return nil, err
	}
	block := &ast.IfBlock{BaseNode: r.base(), Elseif: r.boolean("elseif"), Test: test}
	block.Consequent, err = decodeFragment(r.child("consequent"))
	if err != nil {
		return nil, err
	}
	block.Alternate, err = decodeFragmentPtr(r.child("alternate"))
	if err != nil {
		return nil, err
	}
	return block, nil
}

func decodeAwaitBlock(r raw) (*ast.AwaitBlock, error) {
	expr, err := decodeExpression(r.child("expression"))
	if err != nil {
		return nil, err
	}
	block := &ast.AwaitBlock{BaseNode: r.base(), Expression: expr}
	if r.has("value") {
		block.Value, err = decodePattern(r.child("value"))
		if err != nil {
			return nil, err
		}
	}
	if r.has("error") {
		block.Error, err = decodePattern(r.child("error"))
		if err != nil {
			return nil, err
		}
	}
	block.Pending, err = decodeFragmentPtr(r.child("pending"))
	if err != nil {
		return nil, err
	}
	block.Then, err = decodeFragmentPtr(r.child("then"))
	if err != nil {
		return nil, err
	}
	block.Catch, err = decodeFragmentPtr(r.child("catch"))
	if err != nil {
		return nil, err
	}
	return block, nil
}

func decodeSnippetBlock(r raw) (*ast.SnippetBlock, error) {
	block := &ast.SnippetBlock{BaseNode: r.base()}
	var err error
	if r.has("expression") {
		block.Expression, err = decodeIdentifier(r.child("expression"))
		if err != nil {
			return nil, err
		}
	}
	for _, pr := range r.list("parameters") {
		p, err := decodePattern(pr)
		if err != nil {
			return nil, err
		}
		block.Parameters = append(block.Parameters, p)
	}
	block.Body, err = decodeFragment(r.child("body"))
	if err != nil {
		return nil, err
	}
	return block, nil
}

func decodeElement(r raw) (ast.Element, error) {
	base := ast.ElementBase{BaseNode: r.base()}
	for i, ar := range r.list("attributes") {
		attr, err := decodeElementAttribute(ar)
		if err != nil {
			return nil, errors.Errorf("attribute %d (%s): %w", i, ar.kind(), err)
		}
		base.Attributes = append(base.Attributes, attr)
	}
	fragment, err := decodeFragment(r.child("fragment"))
	if err != nil {
		return nil, err
	}
	base.Fragment = fragment

	switch r.kind() {
	case "Component":
		return &ast.Component{ElementBase: base, Name: r.str("name")}, nil
	case "TitleElement":
		return &ast.TitleElement{ElementBase: base}, nil
	case "SlotElement":
		return &ast.SlotElement{ElementBase: base, Name: r.str("name")}, nil
	case "RegularElement":
		return &ast.RegularElement{ElementBase: base, Name: r.str("name")}, nil
	case "SvelteElement":
		expr, err := decodeExpression(r.child("tag"))
		if err != nil {
			return nil, err
		}
		return &ast.SvelteElement{ElementBase: base, Expression: expr}, nil
	case "SvelteComponent":
		expr, err := decodeExpression(r.child("expression"))
		if err != nil {
			return nil, err
		}
		return &ast.SvelteComponent{ElementBase: base, Expression: expr}, nil
	case "SvelteWindow":
		return &ast.SvelteWindow{ElementBase: base}, nil
	case "SvelteDocument":
		return &ast.SvelteDocument{ElementBase: base}, nil
	case "SvelteBody":
		return &ast.SvelteBody{ElementBase: base}, nil
	case "SvelteHead":
		return &ast.SvelteHead{ElementBase: base}, nil
	case "SvelteFragment":
		return &ast.SvelteFragment{ElementBase: base}, nil
	case "SvelteSelf":
		return &ast.SvelteSelf{ElementBase: base}, nil
	case "SvelteOptions":
		return &ast.SvelteOptionsRaw{ElementBase: base}, nil
	}
	return nil, errors.Errorf("unknown element type %q", r.kind())
}

func decodeElementAttribute(r raw) (ast.ElementAttribute, error) {
	switch r.kind() {
	case "Attribute":
		value, err := decodeAttributeValue(r)
		if err != nil {
			return nil, err
		}
		return &ast.Attribute{BaseNode: r.base(), Name: r.str("name"), Value: value}, nil
	case "SpreadAttribute":
		expr, err := decodeExpression(r.child("expression"))
		if err != nil {
			return nil, err
		}
		return &ast.SpreadAttribute{BaseNode: r.base(), Expression: expr}, nil
	case "BindDirective":
		expr, err := decodeExpression(r.child("expression"))
		if err != nil {
			return nil, err
		}
		return &ast.BindDirective{DirectiveBase: directiveBase(r), Expression: expr}, nil
	case "OnDirective":
		d := &ast.OnDirective{DirectiveBase: directiveBase(r), Modifiers: stringList(r, "modifiers")}
		if r.has("expression") {
			expr, err := decodeExpression(r.child("expression"))
			if err != nil {
				return nil, err
			}
			d.Expression = expr
		}
		return d, nil
	case "ClassDirective":
		expr, err := decodeExpression(r.child("expression"))
		if err != nil {
			return nil, err
		}
		return &ast.ClassDirective{DirectiveBase: directiveBase(r), Expression: expr}, nil
	case "StyleDirective":
		value, err := decodeAttributeValue(r)
		if err != nil {
			return nil, err
		}
		d := &ast.StyleDirective{DirectiveBase: directiveBase(r), Value: value}
		for _, m := range stringList(r, "modifiers") {
			d.Modifiers = append(d.Modifiers, ast.StyleDirectiveModifier(m))
		}
		return d, nil
	case "UseDirective":
		d := &ast.UseDirective{DirectiveBase: directiveBase(r)}
		if r.has("expression") {
			expr, err := decodeExpression(r.child("expression"))
			if err != nil {
				return nil, err
			}
			d.Expression = expr
		}
		return d, nil
	case "TransitionDirective":
		d := &ast.TransitionDirective{
			DirectiveBase: directiveBase(r),
			Intro:         r.boolean("intro"),
			Outro:         r.boolean("outro"),
		}
		if r.has("expression") {
			expr, err := decodeExpression(r.child("expression"))
			if err != nil {
				return nil, err
			}
			d.Expression = expr
		}
		for _, m := range stringList(r, "modifiers") {
			d.Modifiers = append(d.Modifiers, ast.TransitionDirectiveModifier(m))
		}
		return d, nil
	case "AnimateDirective":
		d := &ast.AnimateDirective{DirectiveBase: directiveBase(r)}
		if r.has("expression") {
			expr, err := decodeExpression(r.child("expression"))
			if err != nil {
				return nil, err
			}
			d.Expression = expr
		}
		return d, nil
	case "LetDirective":
		d := &ast.LetDirective{DirectiveBase: directiveBase(r)}
		if r.has("expression") {
			expr, err := decodeExpression(r.child("expression"))
			if err != nil {
				return nil, err
			}
			d.Expression = expr
		}
		return d, nil
	}
	return nil, errors.Errorf("unknown attribute type %q", r.kind())
}

func directiveBase(r raw) ast.DirectiveBase {
	return ast.DirectiveBase{BaseNode: r.base(), Name: r.str("name")}
}

// decodeAttributeValue handles the attribute value union: `true` for a
// bare boolean attribute, otherwise a text/expression sequence.
func decodeAttributeValue(r raw) (*ast.AttributeValue, error) {
	v, ok := r["value"]
	if !ok || v == nil {
		return nil, nil
	}
	if _, bare := v.(bool); bare {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, errors.New("attribute value is neither boolean nor sequence")
	}

	out := &ast.AttributeValue{BaseNode: r.base()}
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		sv := raw(m)
		switch sv.kind() {
		case "Text":
			out.Sequence = append(out.Sequence, &ast.Text{BaseNode: sv.base(), Data: sv.str("data"), Raw: sv.str("raw")})
		case "ExpressionTag":
			expr, err := decodeExpression(sv.child("expression"))
			if err != nil {
				return nil, err
			}
			out.Sequence = append(out.Sequence, &ast.ExpressionTag{BaseNode: sv.base(), Expression: expr})
		default:
			return nil, errors.Errorf("unknown attribute sequence type %q", sv.kind())
		}
	}
	return out, nil
}

func stringList(r raw, key string) []string {
	items, _ := r[key].([]any)
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func decodeScript(r raw) (*ast.Script, error) {
	script := &ast.Script{BaseNode: r.base(), Context: ast.ScriptDefault}
	if r.str("context") == string(ast.ScriptModule) {
		script.Context = ast.ScriptModule
	}
	if r.has("content") {
		prog, err := decodeProgram(r.child("content"))
		if err != nil {
			return nil, err
		}
		script.Program = prog
	}
	for _, ar := range r.list("attributes") {
		attr, err := decodeElementAttribute(ar)
		if err != nil {
			return nil, err
		}
		if plain, ok := attr.(*ast.Attribute); ok {
			script.Attributes = append(script.Attributes, plain)
		}
	}
	return script, nil
}

func decodeStyle(r raw) (*ast.Style, error) {
	style := &ast.Style{BaseNode: r.base()}
	for _, ar := range r.list("attributes") {
		attr, err := decodeElementAttribute(ar)
		if err != nil {
			return nil, err
		}
		if plain, ok := attr.(*ast.Attribute); ok {
			style.Attributes = append(style.Attributes, plain)
		}
	}
	sheet := r.child("stylesheet")
	style.StyleSheet.Source = sheet.str("source")
	for _, sr := range sheet.list("selectors") {
		style.StyleSheet.Selectors = append(style.StyleSheet.Selectors, css.Selector{
			Tag:        sr.str("tag"),
			Classes:    stringList(sr, "classes"),
			Attributes: stringList(sr, "attributes"),
			Universal:  sr.boolean("universal"),
		})
	}
	return style, nil
}

func decodeOptions(r raw) (*ast.SvelteOptions, error) {
	opts := &ast.SvelteOptions{BaseNode: r.base()}
	if v, ok := r["runes"].(bool); ok {
		opts.Runes = &v
	}
	if v, ok := r["immutable"].(bool); ok {
		opts.Immutable = &v
	}
	if v, ok := r["accessors"].(bool); ok {
		opts.Accessors = &v
	}
	if v, ok := r["preserve_whitespace"].(bool); ok {
		opts.PreserveWhitespace = &v
	}
	if s := r.str("namespace"); s != "" {
		ns := ast.Namespace(s)
		switch ns {
		case ast.NamespaceHtml, ast.NamespaceSvg, ast.NamespaceMathMl, ast.NamespaceForeign:
			opts.Namespace = &ns
		default:
			return nil, errors.Errorf("unknown namespace %q", s)
		}
	}
	if r.has("custom_element") {
		ce := r.child("custom_element")
		opts.CustomElement = &ast.CustomElementOptions{
			Tag:    ce.str("tag"),
			Shadow: ast.CustomElementShadow(ce.str("shadow")),
		}
		if ce.has("props") {
			props, _ := ce["props"].(map[string]any)
			if len(props) > 0 {
				opts.CustomElement.Props = make(map[string]ast.CustomElementProp, len(props))
				for name, pv := range props {
					pm, _ := pv.(map[string]any)
					pr := raw(pm)
					opts.CustomElement.Props[name] = ast.CustomElementProp{
						Attribute: pr.str("attribute"),
						Reflect:   pr.boolean("reflect"),
						Type:      ast.CustomElementPropType(pr.str("type")),
					}
				}
			}
		}
	}
	for _, ar := range r.list("attributes") {
		attr, err := decodeElementAttribute(ar)
		if err != nil {
			return nil, err
		}
		if plain, ok := attr.(*ast.Attribute); ok {
			opts.Attributes = append(opts.Attributes, plain)
		}
	}
	return opts, nil
}
