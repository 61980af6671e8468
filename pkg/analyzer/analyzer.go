// Package analyzer is the semantic core: it takes a parsed component tree
// and produces the resolved, classified form codegen consumes. Everything
// runs in two strict passes over one tree:
//
//  1. declare: build the scope tree, classify every declaration, memoize
//     every identifier resolution, and accumulate mutation flags.
//  2. resolve: read-only over binding state; computes expression taint,
//     element namespaces and scoping, loop metadata and binding groups,
//     writing each metadata slot exactly once.
//
// The split exists because a mutation recorded deep in a subtree can affect
// the taint of an expression anywhere the same binding is visible,
// including ancestors visited earlier.
package analyzer

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/go-svelte-analyzer/pkg/ast"
	"github.com/walteh/go-svelte-analyzer/pkg/css"
	"github.com/walteh/go-svelte-analyzer/pkg/diagnostic"
	"github.com/walteh/go-svelte-analyzer/pkg/js"
	"github.com/walteh/go-svelte-analyzer/pkg/scope"
)

// maxTreeDepth bounds every recursive descent. A parse tree deeper than
// this indicates structural corruption (a cycle smuggled in through the
// collaborator contract), which is the one unrecoverable condition.
const maxTreeDepth = 4096

// Options configures one analysis run.
type Options struct {
	// Styles decides selector-level CSS scoping. When nil, every element
	// is scoped whenever the component owns a non-empty stylesheet.
	Styles css.Matcher
	// Runes forces runes mode on or off; nil means auto-detect from
	// component options and rune usage.
	Runes *bool
}

// Result is the analyzed component: the same tree with all metadata slots
// populated, plus the flat binding table codegen reads.
type Result struct {
	Root     *ast.Root
	Bindings *scope.Table
	// Resolutions maps every resolved identifier reference in the tree to
	// its binding.
	Resolutions map[*js.Identifier]scope.BindingID
	Diagnostics *diagnostic.List
	RunesMode   bool
}

// analysis is the per-run state shared by both passes.
type analysis struct {
	log   zerolog.Logger
	root  *ast.Root
	table *scope.Table
	diags *diagnostic.List

	runes  bool
	styles css.Matcher
	scoped bool

	resolutions map[*js.Identifier]scope.BindingID

	// eachs carries the pass-1 facts about each block, keyed by node.
	eachs map[*ast.EachBlock]*eachInfo
	// binds carries the pass-1 facts about bind directives that may form
	// groups.
	binds []*bindInfo
}

// eachInfo is what the declare pass learns about one each block.
type eachInfo struct {
	block        *ast.EachBlock
	frame        scope.FrameID
	item         scope.BindingID
	index        scope.BindingID
	declarations []scope.BindingID
	references   []scope.BindingID
	refSeen      map[scope.BindingID]bool

	// identity directives force keyed rendering.
	hasTransition  bool
	bindTargets    []scope.BindingID
	containsGroups bool
}

// bindInfo is one bind: directive with its enclosing each chain,
// innermost-first.
type bindInfo struct {
	directive *ast.BindDirective
	chain     []*ast.EachBlock
}

// Analyze runs the semantic pass over one component tree.
func Analyze(ctx context.Context, root *ast.Root, opts Options) (*Result, error) {
	if root == nil {
		return nil, errors.New("analyzer: root is nil")
	}

	runID := uuid.New().String()
	log := zerolog.Ctx(ctx).With().Str("analysis_id", runID).Logger()

	a := &analysis{
		log:         log,
		root:        root,
		table:       scope.NewTable(),
		diags:       diagnostic.NewList(),
		resolutions: make(map[*js.Identifier]scope.BindingID),
		eachs:       make(map[*ast.EachBlock]*eachInfo),
	}

	a.runes = detectRunes(root, opts.Runes)
	a.scoped = root.CSS != nil && !root.CSS.StyleSheet.IsEmpty()
	a.styles = opts.Styles
	if a.styles == nil {
		if a.scoped {
			a.styles = css.MatchAll()
		} else {
			a.styles = css.MatchNone()
		}
	}

	log.Debug().Bool("runes", a.runes).Bool("scoped", a.scoped).Msg("starting declare pass")
	if err := a.declare(); err != nil {
		return nil, errors.Errorf("declare pass failed: %w", err)
	}

	log.Debug().Int("bindings", a.table.Len()).Msg("starting resolve pass")
	if err := a.resolve(); err != nil {
		return nil, errors.Errorf("resolve pass failed: %w", err)
	}

	log.Debug().
		Int("bindings", a.table.Len()).
		Int("diagnostics", len(a.diags.Diagnostics)).
		Msg("analysis complete")

	return &Result{
		Root:        root,
		Bindings:    a.table,
		Resolutions: a.resolutions,
		Diagnostics: a.diags,
		RunesMode:   a.runes,
	}, nil
}

// detectRunes resolves the reactivity model: an explicit option wins, then
// any rune call in the instance script switches the component over.
func detectRunes(root *ast.Root, forced *bool) bool {
	if forced != nil {
		return *forced
	}
	if root.Options != nil && root.Options.Runes != nil {
		return *root.Options.Runes
	}
	found := false
	for _, script := range []*ast.Script{root.Instance, root.Module} {
		if script == nil || script.Program == nil {
			continue
		}
		js.Walk(script.Program, func(n js.Node) bool {
			if found {
				return false
			}
			if e, ok := n.(js.Expression); ok && js.RuneCall(e) != "" {
				found = true
				return false
			}
			return true
		})
	}
	return found
}
