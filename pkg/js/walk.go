package js

// Walk traverses the node and its children in source order. visit is called
// for every node before its children; returning false prunes the subtree.
// Nil children are skipped so partially-built trees walk safely.
func Walk(n Node, visit func(Node) bool) {
	if n == nil || !visit(n) {
		return
	}
	switch x := n.(type) {
	case *Identifier, *Literal:
	case *MemberExpression:
		Walk(x.Object, visit)
		// Non-computed properties are names, not references.
		if x.Computed {
			Walk(x.Property, visit)
		}
	case *CallExpression:
		Walk(x.Callee, visit)
		for _, a := range x.Args {
			Walk(a, visit)
		}
	case *AssignmentExpression:
		Walk(x.Target, visit)
		Walk(x.Value, visit)
	case *UpdateExpression:
		Walk(x.Target, visit)
	case *ArrowFunction:
		for _, p := range x.Params {
			Walk(p, visit)
		}
		Walk(x.Expr, visit)
		for _, s := range x.Body {
			Walk(s, visit)
		}
	case *FunctionExpression:
		for _, p := range x.Params {
			Walk(p, visit)
		}
		for _, s := range x.Body {
			Walk(s, visit)
		}
	case *ConditionalExpression:
		Walk(x.Test, visit)
		Walk(x.Consequent, visit)
		Walk(x.Alternate, visit)
	case *BinaryExpression:
		Walk(x.Left, visit)
		Walk(x.Right, visit)
	case *LogicalExpression:
		Walk(x.Left, visit)
		Walk(x.Right, visit)
	case *UnaryExpression:
		Walk(x.Argument, visit)
	case *TemplateLiteral:
		for _, e := range x.Expressions {
			Walk(e, visit)
		}
	case *ObjectExpression:
		for _, p := range x.Properties {
			if p.Computed {
				Walk(p.Key, visit)
			}
			Walk(p.Value, visit)
		}
	case *ArrayExpression:
		for _, e := range x.Elements {
			Walk(e, visit)
		}
	case *SequenceExpression:
		for _, e := range x.Expressions {
			Walk(e, visit)
		}
	case *SpreadElement:
		Walk(x.Argument, visit)

	case *ObjectPattern:
		for _, p := range x.Properties {
			Walk(p.Value, visit)
			Walk(p.Default, visit)
		}
		if x.Rest != nil {
			Walk(x.Rest, visit)
		}
	case *ArrayPattern:
		for _, e := range x.Elements {
			Walk(e, visit)
		}
		if x.Rest != nil {
			Walk(x.Rest, visit)
		}
	case *AssignmentPattern:
		Walk(x.Target, visit)
		Walk(x.Default, visit)
	case *RestPattern:
		if x.Argument != nil {
			Walk(x.Argument, visit)
		}

	case *Program:
		for _, s := range x.Statements {
			Walk(s, visit)
		}
	case *VariableDeclaration:
		for _, d := range x.Declarators {
			Walk(d, visit)
		}
	case *VariableDeclarator:
		Walk(x.ID, visit)
		Walk(x.Init, visit)
	case *ExpressionStatement:
		Walk(x.Expression, visit)
	case *FunctionDeclaration:
		if x.ID != nil {
			Walk(x.ID, visit)
		}
		for _, p := range x.Params {
			Walk(p, visit)
		}
		for _, s := range x.Body {
			Walk(s, visit)
		}
	case *BlockStatement:
		for _, s := range x.Body {
			Walk(s, visit)
		}
	case *ReturnStatement:
		Walk(x.Argument, visit)
	case *IfStatement:
		Walk(x.Test, visit)
		Walk(x.Consequent, visit)
		Walk(x.Alternate, visit)
	case *LabeledStatement:
		Walk(x.Body, visit)
	case *ImportDeclaration:
		for _, s := range x.Specifiers {
			if s.Local != nil {
				Walk(s.Local, visit)
			}
		}
	case *ExportStatement:
		Walk(x.Declaration, visit)
	}
}
