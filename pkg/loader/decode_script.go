package loader

import (
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/go-svelte-analyzer/pkg/js"
)

func jsBase(r raw) js.NodeBase {
	return js.NodeBase{Loc: r.span()}
}

func decodeIdentifier(r raw) (*js.Identifier, error) {
	if r.kind() != "Identifier" {
		return nil, errors.Errorf("expected identifier, got %q", r.kind())
	}
	return &js.Identifier{NodeBase: jsBase(r), Name: r.str("name")}, nil
}

func decodeExpression(r raw) (js.Expression, error) {
	if r == nil {
		return nil, errors.New("missing expression")
	}
	switch r.kind() {
	case "Identifier":
		return decodeIdentifier(r)

	case "MemberExpression":
		object, err := decodeExpression(r.child("object"))
		if err != nil {
			return nil, err
		}
		property, err := decodeExpression(r.child("property"))
		if err != nil {
			return nil, err
		}
		return &js.MemberExpression{
			NodeBase: jsBase(r),
			Object:   object,
			Property: property,
			Computed: r.boolean("computed"),
			Optional: r.boolean("optional"),
		}, nil

	case "CallExpression":
		callee, err := decodeExpression(r.child("callee"))
		if err != nil {
			return nil, err
		}
		call := &js.CallExpression{NodeBase: jsBase(r), Callee: callee, Optional: r.boolean("optional")}
		for _, ar := range r.list("arguments") {
			arg, err := decodeExpression(ar)
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, arg)
		}
		return call, nil

	case "AssignmentExpression":
		target, err := decodeExpression(r.child("left"))
		if err != nil {
			return nil, err
		}
		value, err := decodeExpression(r.child("right"))
		if err != nil {
			return nil, err
		}
		return &js.AssignmentExpression{
			NodeBase: jsBase(r),
			Operator: r.str("operator"),
			Target:   target,
			Value:    value,
		}, nil

	case "UpdateExpression":
		target, err := decodeExpression(r.child("argument"))
		if err != nil {
			return nil, err
		}
		return &js.UpdateExpression{
			NodeBase: jsBase(r),
			Operator: r.str("operator"),
			Target:   target,
			Prefix:   r.boolean("prefix"),
		}, nil

	case "ArrowFunctionExpression":
		fn := &js.ArrowFunction{NodeBase: jsBase(r)}
		for _, pr := range r.list("params") {
			p, err := decodePattern(pr)
			if err != nil {
				return nil, err
			}
			fn.Params = append(fn.Params, p)
		}
		body := r.child("body")
		if body.kind() == "BlockStatement" {
			stmts, err := decodeStatements(body.list("body"))
			if err != nil {
				return nil, err
			}
			fn.Body = stmts
		} else {
			expr, err := decodeExpression(body)
			if err != nil {
				return nil, err
			}
			fn.Expr = expr
		}
		return fn, nil

	case "FunctionExpression":
		fn := &js.FunctionExpression{NodeBase: jsBase(r)}
		if r.has("id") {
			ident, err := decodeIdentifier(r.child("id"))
			if err != nil {
				return nil, err
			}
			fn.ID = ident
		}
		for _, pr := range r.list("params") {
			p, err := decodePattern(pr)
			if err != nil {
				return nil, err
			}
			fn.Params = append(fn.Params, p)
		}
		stmts, err := decodeStatements(r.child("body").list("body"))
		if err != nil {
			return nil, err
		}
		fn.Body = stmts
		return fn, nil

	case "ConditionalExpression":
		test, err := decodeExpression(r.child("test"))
		if err != nil {
			return nil, err
		}
		consequent, err := decodeExpression(r.child("consequent"))
		if err != nil {
			return nil, err
		}
		alternate, err := decodeExpression(r.child("alternate"))
		if err != nil {
			return nil, err
		}
		return &js.ConditionalExpression{
			NodeBase:   jsBase(r),
			Test:       test,
			Consequent: consequent,
			Alternate:  alternate,
		}, nil

	case "BinaryExpression":
		left, right, err := decodePair(r)
		if err != nil {
			return nil, err
		}
		return &js.BinaryExpression{NodeBase: jsBase(r), Operator: r.str("operator"), Left: left, Right: right}, nil

	case "LogicalExpression":
		left, right, err := decodePair(r)
		if err != nil {
			return nil, err
		}
		return &js.LogicalExpression{NodeBase: jsBase(r), Operator: r.str("operator"), Left: left, Right: right}, nil

	case "UnaryExpression":
		arg, err := decodeExpression(r.child("argument"))
		if err != nil {
			return nil, err
		}
		return &js.UnaryExpression{NodeBase: jsBase(r), Operator: r.str("operator"), Argument: arg}, nil

	case "Literal":
		return &js.Literal{NodeBase: jsBase(r), Raw: r.str("raw"), Value: r["value"]}, nil

	case "TemplateLiteral":
		lit := &js.TemplateLiteral{NodeBase: jsBase(r)}
		for _, q := range r.list("quasis") {
			lit.Quasis = append(lit.Quasis, q.child("value").str("raw"))
		}
		for _, er := range r.list("expressions") {
			expr, err := decodeExpression(er)
			if err != nil {
				return nil, err
			}
			lit.Expressions = append(lit.Expressions, expr)
		}
		return lit, nil

	case "ObjectExpression":
		obj := &js.ObjectExpression{NodeBase: jsBase(r)}
		for _, pr := range r.list("properties") {
			if pr.kind() == "SpreadElement" {
				arg, err := decodeExpression(pr.child("argument"))
				if err != nil {
					return nil, err
				}
				obj.Properties = append(obj.Properties, js.ObjectProperty{Value: arg, Spread: true})
				continue
			}
			key, err := decodeExpression(pr.child("key"))
			if err != nil {
				return nil, err
			}
			value, err := decodeExpression(pr.child("value"))
			if err != nil {
				return nil, err
			}
			obj.Properties = append(obj.Properties, js.ObjectProperty{
				Key:      key,
				Value:    value,
				Computed: pr.boolean("computed"),
			})
		}
		return obj, nil

	case "ArrayExpression":
		arr := &js.ArrayExpression{NodeBase: jsBase(r)}
		for _, er := range r.list("elements") {
			el, err := decodeExpression(er)
			if err != nil {
				return nil, err
			}
			arr.Elements = append(arr.Elements, el)
		}
		return arr, nil

	case "SequenceExpression":
		seq := &js.SequenceExpression{NodeBase: jsBase(r)}
		for _, er := range r.list("expressions") {
			el, err := decodeExpression(er)
			if err != nil {
				return nil, err
			}
			seq.Expressions = append(seq.Expressions, el)
		}
		return seq, nil

	case "SpreadElement":
		arg, err := decodeExpression(r.child("argument"))
		if err != nil {
			return nil, err
		}
		return &js.SpreadElement{NodeBase: jsBase(r), Argument: arg}, nil
	}
	return nil, errors.Errorf("unknown expression type %q", r.kind())
}

func decodePair(r raw) (js.Expression, js.Expression, error) {
	left, err := decodeExpression(r.child("left"))
	if err != nil {
		return nil, nil, err
	}
	right, err := decodeExpression(r.child("right"))
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

func decodePattern(r raw) (js.Pattern, error) {
	if r == nil {
		return nil, errors.New("missing pattern")
	}
	switch r.kind() {
	case "Identifier":
		return decodeIdentifier(r)

	case "ObjectPattern":
		pat := &js.ObjectPattern{NodeBase: jsBase(r)}
		for _, pr := range r.list("properties") {
			if pr.kind() == "RestElement" {
				ident, err := decodeIdentifier(pr.child("argument"))
				if err != nil {
					return nil, err
				}
				pat.Rest = ident
				continue
			}
			key, err := decodeIdentifier(pr.child("key"))
			if err != nil {
				return nil, err
			}
			value, err := decodePattern(pr.child("value"))
			if err != nil {
				return nil, err
			}
			prop := js.PatternProperty{Key: key, Value: value}
			// `{ a = 1 }` parses as an assignment pattern in value position.
			if ap, ok := value.(*js.AssignmentPattern); ok {
				prop.Value = ap.Target
				prop.Default = ap.Default
			}
			pat.Properties = append(pat.Properties, prop)
		}
		return pat, nil

	case "ArrayPattern":
		pat := &js.ArrayPattern{NodeBase: jsBase(r)}
		elements, _ := r["elements"].([]any)
		for _, item := range elements {
			if item == nil {
				pat.Elements = append(pat.Elements, nil)
				continue
			}
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			er := raw(m)
			if er.kind() == "RestElement" {
				ident, err := decodeIdentifier(er.child("argument"))
				if err != nil {
					return nil, err
				}
				pat.Rest = ident
				continue
			}
			el, err := decodePattern(er)
			if err != nil {
				return nil, err
			}
			pat.Elements = append(pat.Elements, el)
		}
		return pat, nil

	case "AssignmentPattern":
		target, err := decodePattern(r.child("left"))
		if err != nil {
			return nil, err
		}
		def, err := decodeExpression(r.child("right"))
		if err != nil {
			return nil, err
		}
		return &js.AssignmentPattern{NodeBase: jsBase(r), Target: target, Default: def}, nil

	case "RestElement":
		ident, err := decodeIdentifier(r.child("argument"))
		if err != nil {
			return nil, err
		}
		return &js.RestPattern{NodeBase: jsBase(r), Argument: ident}, nil
	}
	return nil, errors.Errorf("unknown pattern type %q", r.kind())
}

func decodeProgram(r raw) (*js.Program, error) {
	stmts, err := decodeStatements(r.list("body"))
	if err != nil {
		return nil, err
	}
	return &js.Program{NodeBase: jsBase(r), Statements: stmts}, nil
}

func decodeStatements(items []raw) ([]js.Statement, error) {
	var out []js.Statement
	for i, sr := range items {
		stmt, err := decodeStatement(sr)
		if err != nil {
			return nil, errors.Errorf("statement %d (%s): %w", i, sr.kind(), err)
		}
		out = append(out, stmt)
	}
	return out, nil
}

func decodeStatement(r raw) (js.Statement, error) {
	if r == nil {
		return nil, errors.New("missing statement")
	}
	switch r.kind() {
	case "VariableDeclaration":
		decl := &js.VariableDeclaration{
			NodeBase: jsBase(r),
			Keyword:  js.DeclarationKeyword(r.str("kind")),
		}
		for _, dr := range r.list("declarations") {
			id, err := decodePattern(dr.child("id"))
			if err != nil {
				return nil, err
			}
			declarator := &js.VariableDeclarator{NodeBase: jsBase(dr), ID: id}
			if dr.has("init") {
				declarator.Init, err = decodeExpression(dr.child("init"))
				if err != nil {
					return nil, err
				}
			}
			decl.Declarators = append(decl.Declarators, declarator)
		}
		return decl, nil

	case "ExpressionStatement":
		expr, err := decodeExpression(r.child("expression"))
		if err != nil {
			return nil, err
		}
		return &js.ExpressionStatement{NodeBase: jsBase(r), Expression: expr}, nil

	case "FunctionDeclaration":
		fn := &js.FunctionDeclaration{NodeBase: jsBase(r)}
		if r.has("id") {
			ident, err := decodeIdentifier(r.child("id"))
			if err != nil {
				return nil, err
			}
			fn.ID = ident
		}
		for _, pr := range r.list("params") {
			p, err := decodePattern(pr)
			if err != nil {
				return nil, err
			}
			fn.Params = append(fn.Params, p)
		}
		stmts, err := decodeStatements(r.child("body").list("body"))
		if err != nil {
			return nil, err
		}
		fn.Body = stmts
		return fn, nil

	case "BlockStatement":
		stmts, err := decodeStatements(r.list("body"))
		if err != nil {
			return nil, err
		}
		return &js.BlockStatement{NodeBase: jsBase(r), Body: stmts}, nil

	case "ReturnStatement":
		stmt := &js.ReturnStatement{NodeBase: jsBase(r)}
		if r.has("argument") {
			arg, err := decodeExpression(r.child("argument"))
			if err != nil {
				return nil, err
			}
			stmt.Argument = arg
		}
		return stmt, nil

	case "IfStatement":
		test, err := decodeExpression(r.child("test"))
		if err != nil {
			return nil, err
		}
		stmt := &js.IfStatement{NodeBase: jsBase(r), Test: test}
		if r.has("consequent") {
			stmt.Consequent, err = decodeStatement(r.child("consequent"))
			if err != nil {
				return nil, err
			}
		}
		if r.has("alternate") {
			stmt.Alternate, err = decodeStatement(r.child("alternate"))
			if err != nil {
				return nil, err
			}
		}
		return stmt, nil

	case "LabeledStatement":
		body, err := decodeStatement(r.child("body"))
		if err != nil {
			return nil, err
		}
		return &js.LabeledStatement{
			NodeBase: jsBase(r),
			Label:    r.child("label").str("name"),
			Body:     body,
		}, nil

	case "ImportDeclaration":
		decl := &js.ImportDeclaration{
			NodeBase: jsBase(r),
			Source:   r.child("source").str("value"),
		}
		for _, sr := range r.list("specifiers") {
			local, err := decodeIdentifier(sr.child("local"))
			if err != nil {
				return nil, err
			}
			spec := js.ImportSpecifier{Local: local}
			if sr.has("imported") {
				spec.Imported = sr.child("imported").str("name")
			}
			decl.Specifiers = append(decl.Specifiers, spec)
		}
		return decl, nil

	case "ExportNamedDeclaration", "ExportDefaultDeclaration":
		stmt := &js.ExportStatement{NodeBase: jsBase(r)}
		if r.has("declaration") {
			decl, err := decodeStatement(r.child("declaration"))
			if err != nil {
				return nil, err
			}
			stmt.Declaration = decl
		}
		return stmt, nil
	}
	return nil, errors.Errorf("unknown statement type %q", r.kind())
}
