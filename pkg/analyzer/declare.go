package analyzer

import (
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/go-svelte-analyzer/pkg/diagnostic"
	"github.com/walteh/go-svelte-analyzer/pkg/js"
	"github.com/walteh/go-svelte-analyzer/pkg/scope"
)

// declarer is the pass-1 walker: it owns the binding table position, the
// node path used for reference records, and the stack of enclosing each
// blocks.
type declarer struct {
	*analysis
	path      []string
	eachStack []*eachInfo
	depth     int
	// err latches the first depth overflow hit inside expression
	// recursion, which has no error return of its own.
	err error
}

// declare is pass 1: every declaration classified, every identifier
// reference resolved and memoized, every mutation recorded. Nothing reads
// metadata slots yet.
func (a *analysis) declare() error {
	d := &declarer{analysis: a}

	// Module script declarations live in the root frame, visible to the
	// instance script and the template.
	if a.root.Module != nil && a.root.Module.Program != nil {
		d.enter("script:module")
		if err := d.declareProgram(a.root.Module.Program); err != nil {
			return err
		}
		d.leave()
	}

	// The instance script opens its own frame; the template nests inside
	// it so template expressions see instance declarations.
	a.table.Push(scope.FrameScript)
	if a.root.Instance != nil && a.root.Instance.Program != nil {
		d.enter("script")
		if err := d.declareProgram(a.root.Instance.Program); err != nil {
			return err
		}
		d.leave()
	}

	d.enter("fragment")
	err := d.fragment(&a.root.Fragment, nil)
	d.leave()
	a.table.Pop()
	if err == nil {
		err = d.err
	}
	return err
}

func (d *declarer) enter(label string) {
	d.path = append(d.path, label)
	d.depth++
}

func (d *declarer) leave() {
	d.path = d.path[:len(d.path)-1]
	d.depth--
}

func (d *declarer) pathCopy() []string {
	out := make([]string, len(d.path))
	copy(out, d.path)
	return out
}

func (d *declarer) checkDepth() error {
	if d.depth > maxTreeDepth {
		return errors.Errorf("tree depth exceeds %d: structural corruption in parser output", maxTreeDepth)
	}
	return nil
}

// declareBinding wraps Table.Declare with duplicate recovery: the first
// declaration wins, both sites get reported, analysis continues.
func (d *declarer) declareBinding(ident *js.Identifier, kind scope.BindingKind, declKind scope.DeclarationKind, initial js.Node) scope.BindingID {
	id, err := d.table.Declare(ident, kind, declKind, initial)
	if err != nil {
		var dup *scope.ErrDuplicate
		if errors.As(err, &dup) {
			existing := d.table.Get(dup.Existing)
			if existing.Kind != kind {
				loc := existing.Node.Span()
				d.diags.ErrorfRelated(diagnostic.DuplicateBinding, ident.Span(), loc,
					"%q is already declared in this scope as %s", ident.Name, existing.Kind)
			}
			// Keep using the first declaration to avoid cascading failures.
			d.resolutions[ident] = dup.Existing
			return dup.Existing
		}
		d.log.Warn().Err(err).Str("name", ident.Name).Msg("declaration skipped")
		return scope.InvalidBinding
	}
	d.resolutions[ident] = id
	return id
}

// ----- script ---------------------------------------------------------

func (d *declarer) declareProgram(prog *js.Program) error {
	for _, stmt := range prog.Statements {
		if err := d.statement(stmt, true); err != nil {
			return err
		}
	}
	return nil
}

func (d *declarer) statement(s js.Statement, topLevel bool) error {
	d.depth++
	defer func() { d.depth-- }()
	if err := d.checkDepth(); err != nil {
		return err
	}
	switch x := s.(type) {
	case *js.ImportDeclaration:
		for _, spec := range x.Specifiers {
			if spec.Local != nil {
				d.declareBinding(spec.Local, scope.Normal, scope.DeclImport, x)
			}
		}
	case *js.VariableDeclaration:
		d.variableDeclaration(x, false)
	case *js.ExportStatement:
		if decl, ok := x.Declaration.(*js.VariableDeclaration); ok {
			d.variableDeclaration(decl, true)
			return nil
		}
		return d.statement(x.Declaration, topLevel)
	case *js.FunctionDeclaration:
		if x.ID != nil {
			d.declareBinding(x.ID, scope.Normal, scope.DeclFunction, x)
		}
		return d.function(x.Params, x.Body)
	case *js.LabeledStatement:
		if topLevel && !d.runes && x.Label == js.ReactiveLabel {
			d.reactiveStatement(x)
			return nil
		}
		return d.statement(x.Body, false)
	case *js.ExpressionStatement:
		d.expression(x.Expression)
	case *js.BlockStatement:
		for _, inner := range x.Body {
			if err := d.statement(inner, false); err != nil {
				return err
			}
		}
	case *js.ReturnStatement:
		d.expression(x.Argument)
	case *js.IfStatement:
		d.expression(x.Test)
		if x.Consequent != nil {
			if err := d.statement(x.Consequent, false); err != nil {
				return err
			}
		}
		if x.Alternate != nil {
			return d.statement(x.Alternate, false)
		}
	}
	return nil
}

func (d *declarer) variableDeclaration(decl *js.VariableDeclaration, exported bool) {
	declKind := scope.DeclLet
	switch decl.Keyword {
	case js.KeywordVar:
		declKind = scope.DeclVar
	case js.KeywordConst:
		declKind = scope.DeclConst
	}

	for _, dr := range decl.Declarators {
		runeName := ""
		if dr.Init != nil {
			runeName = js.RuneCall(dr.Init)
		}

		switch runeName {
		case js.RuneProps:
			d.declareProps(dr)
			continue
		case js.RuneState:
			d.declareAll(dr, scope.State, declKind)
		case js.RuneStateFrozen:
			d.declareAll(dr, scope.FrozenState, declKind)
		case js.RuneDerived, js.RuneDerivedBy:
			d.declareAll(dr, scope.Derived, declKind)
		default:
			kind := scope.Normal
			if exported && !d.runes && (decl.Keyword == js.KeywordLet || decl.Keyword == js.KeywordVar) {
				// Legacy props: `export let name`.
				kind = scope.Prop
			}
			d.declareAll(dr, kind, declKind)
		}

		if dr.Init != nil {
			d.expression(dr.Init)
		}
	}
}

func (d *declarer) declareAll(dr *js.VariableDeclarator, kind scope.BindingKind, declKind scope.DeclarationKind) {
	for _, bn := range js.BoundNames(dr.ID) {
		id := d.declareBinding(bn.Ident, kind, declKind, dr)
		if b := d.table.Get(id); b != nil && bn.Alias != "" {
			b.PropAlias = bn.Alias
		}
		if bn.Default != nil {
			d.expression(bn.Default)
		}
	}
}

// declareProps classifies the `$props()` destructuring: plain names become
// Prop, `$bindable()` defaults become BindableProp, the rest element
// becomes RestProp.
func (d *declarer) declareProps(dr *js.VariableDeclarator) {
	for _, bn := range js.BoundNames(dr.ID) {
		kind := scope.Prop
		declKind := scope.DeclParam
		switch {
		case bn.Rest:
			kind = scope.RestProp
			declKind = scope.DeclRestParam
		case bn.Default != nil && js.RuneCall(bn.Default) == js.RuneBindable:
			kind = scope.BindableProp
		}
		id := d.declareBinding(bn.Ident, kind, declKind, dr)
		if b := d.table.Get(id); b != nil && bn.Alias != "" {
			b.PropAlias = bn.Alias
		}
		if bn.Default != nil && js.RuneCall(bn.Default) != js.RuneBindable {
			d.expression(bn.Default)
		} else if call, ok := bn.Default.(*js.CallExpression); ok {
			for _, arg := range call.Args {
				d.expression(arg)
			}
		}
	}
}

// reactiveStatement handles a legacy `$:` statement: its assignment target
// is promoted to (or injected as) a legacy-reactive binding and its reads
// become that binding's legacy dependencies.
func (d *declarer) reactiveStatement(stmt *js.LabeledStatement) {
	body, ok := stmt.Body.(*js.ExpressionStatement)
	if !ok {
		_ = d.statement(stmt.Body, false)
		return
	}

	assign, ok := body.Expression.(*js.AssignmentExpression)
	if !ok {
		d.expression(body.Expression)
		return
	}

	var targetID scope.BindingID = scope.InvalidBinding
	if ident, ok := assign.Target.(*js.Identifier); ok {
		if id, found := d.table.Lookup(ident.Name); found {
			b := d.table.Get(id)
			if b.DeclKind == scope.DeclImport {
				b.Kind = scope.LegacyReactiveImport
			} else if b.Kind == scope.Normal {
				b.Kind = scope.LegacyReactive
			}
			targetID = id
			d.resolutions[ident] = id
			d.table.RecordReassignment(id)
		} else {
			// `$: doubled = count * 2` with no prior declaration injects
			// the binding at the instance scope.
			targetID = d.declareBinding(ident, scope.LegacyReactive, scope.DeclSynthetic, stmt)
			d.table.RecordReassignment(targetID)
		}
	} else {
		d.mutationTarget(assign.Target)
		d.expression(assign.Target)
	}

	// The right-hand side reads are both ordinary references and the
	// target's legacy dependency list.
	var deps []scope.BindingID
	d.expressionCollect(assign.Value, func(id scope.BindingID) {
		deps = append(deps, id)
	})
	if b := d.table.Get(targetID); b != nil {
		b.LegacyDependencies = append(b.LegacyDependencies, deps...)
	}
}

// function declares parameters in a fresh function frame and walks the
// body there.
func (d *declarer) function(params []js.Pattern, body []js.Statement) error {
	d.table.Push(scope.FrameFunction)
	defer d.table.Pop()
	d.declareParams(params, scope.Normal)
	for _, stmt := range body {
		if err := d.statement(stmt, false); err != nil {
			return err
		}
	}
	return nil
}

func (d *declarer) declareParams(params []js.Pattern, kind scope.BindingKind) {
	for _, p := range params {
		for _, bn := range js.BoundNames(p) {
			declKind := scope.DeclParam
			if bn.Rest {
				declKind = scope.DeclRestParam
			}
			d.declareBinding(bn.Ident, kind, declKind, nil)
			if bn.Default != nil {
				d.expression(bn.Default)
			}
		}
	}
}

// ----- expressions ----------------------------------------------------

// expression records references and mutations for one expression tree,
// descending into nested function scopes.
func (d *declarer) expression(e js.Expression) {
	d.expressionCollect(e, nil)
}

// expressionCollect is expression plus a tap on every resolved reference,
// used to build legacy dependency lists.
func (d *declarer) expressionCollect(e js.Expression, tap func(scope.BindingID)) {
	if e == nil {
		return
	}
	d.depth++
	defer func() { d.depth-- }()
	if d.depth > maxTreeDepth {
		if d.err == nil {
			d.err = errors.Errorf("tree depth exceeds %d: structural corruption in parser output", maxTreeDepth)
		}
		return
	}
	switch x := e.(type) {
	case *js.Identifier:
		d.reference(x, tap)
	case *js.MemberExpression:
		d.expressionCollect(x.Object, tap)
		if x.Computed {
			d.expressionCollect(x.Property, tap)
		}
	case *js.CallExpression:
		d.expressionCollect(x.Callee, tap)
		for _, arg := range x.Args {
			d.expressionCollect(arg, tap)
		}
	case *js.AssignmentExpression:
		d.mutationTarget(x.Target)
		d.expressionCollect(x.Target, tap)
		d.expressionCollect(x.Value, tap)
	case *js.UpdateExpression:
		d.mutationTarget(x.Target)
		d.expressionCollect(x.Target, tap)
	case *js.ArrowFunction:
		d.table.Push(scope.FrameFunction)
		d.declareParams(x.Params, scope.Normal)
		if x.Expr != nil {
			d.expressionCollect(x.Expr, tap)
		}
		for _, stmt := range x.Body {
			_ = d.statement(stmt, false)
		}
		d.table.Pop()
	case *js.FunctionExpression:
		d.table.Push(scope.FrameFunction)
		if x.ID != nil {
			d.declareBinding(x.ID, scope.Normal, scope.DeclFunction, x)
		}
		d.declareParams(x.Params, scope.Normal)
		for _, stmt := range x.Body {
			_ = d.statement(stmt, false)
		}
		d.table.Pop()
	case *js.ConditionalExpression:
		d.expressionCollect(x.Test, tap)
		d.expressionCollect(x.Consequent, tap)
		d.expressionCollect(x.Alternate, tap)
	case *js.BinaryExpression:
		d.expressionCollect(x.Left, tap)
		d.expressionCollect(x.Right, tap)
	case *js.LogicalExpression:
		d.expressionCollect(x.Left, tap)
		d.expressionCollect(x.Right, tap)
	case *js.UnaryExpression:
		d.expressionCollect(x.Argument, tap)
	case *js.TemplateLiteral:
		for _, part := range x.Expressions {
			d.expressionCollect(part, tap)
		}
	case *js.ObjectExpression:
		for _, prop := range x.Properties {
			if prop.Computed {
				d.expressionCollect(prop.Key, tap)
			}
			d.expressionCollect(prop.Value, tap)
		}
	case *js.ArrayExpression:
		for _, el := range x.Elements {
			d.expressionCollect(el, tap)
		}
	case *js.SequenceExpression:
		for _, el := range x.Expressions {
			d.expressionCollect(el, tap)
		}
	case *js.SpreadElement:
		d.expressionCollect(x.Argument, tap)
	}
}

// reference resolves one identifier use site, synthesizing store
// subscriptions on first `$store` read.
func (d *declarer) reference(ident *js.Identifier, tap func(scope.BindingID)) {
	id, found := d.table.Lookup(ident.Name)
	if !found && js.IsStoreName(ident.Name) {
		// `$store` auto-subscribes when the store variable itself is in
		// scope.
		if _, storeInScope := d.table.Lookup(js.StoreName(ident.Name)); storeInScope {
			id = d.table.DeclareSynthetic(ident.Name)
			d.table.Get(id).Kind = scope.StoreSub
			found = true
		}
	}
	if !found {
		// Unresolved names (globals, runtime built-ins) stay unbound.
		return
	}
	d.resolutions[ident] = id
	d.table.RecordReference(id, scope.Reference{Ident: ident, Path: d.pathCopy()})
	d.noteEachReference(id)
	if tap != nil {
		tap(id)
	}
}

// mutationTarget records the write implied by an assignment, update, or
// two-way binding: whole-value reassignment for identifiers, property
// mutation for member paths.
func (d *declarer) mutationTarget(target js.Expression) {
	switch t := target.(type) {
	case *js.Identifier:
		if id, ok := d.table.Lookup(t.Name); ok {
			d.table.RecordReassignment(id)
		}
	case *js.MemberExpression:
		if root := t.RootIdentifier(); root != nil {
			if id, ok := d.table.Lookup(root.Name); ok {
				d.table.RecordMutation(id)
			}
		}
	}
}

// noteEachReference tracks outer-scope reads for every enclosing each
// block, feeding EachBlockMetadata.References.
func (d *declarer) noteEachReference(id scope.BindingID) {
	b := d.table.Get(id)
	if b == nil {
		return
	}
	for _, info := range d.eachStack {
		if d.frameWithin(b.Frame, info.frame) {
			continue
		}
		if !info.refSeen[id] {
			info.refSeen[id] = true
			info.references = append(info.references, id)
		}
	}
}

// frameWithin reports whether f is ancestor itself or one of its
// descendants. The walk is bounded by the tree depth cap, so a corrupted
// parent chain cannot loop.
func (d *declarer) frameWithin(f, ancestor scope.FrameID) bool {
	for steps := 0; f != scope.InvalidFrame && steps <= maxTreeDepth; steps++ {
		if f == ancestor {
			return true
		}
		f = d.table.ParentOf(f)
	}
	return false
}
