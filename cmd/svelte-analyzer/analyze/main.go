package analyze

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/go-svelte-analyzer/pkg/analyzer"
	"github.com/walteh/go-svelte-analyzer/pkg/diagnostic"
	"github.com/walteh/go-svelte-analyzer/pkg/loader"
)

type Handler struct {
	pattern string
	format  string // text, json
	strict  bool
}

func NewAnalyzeCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "analyze [glob]",
		Short: "analyze parsed component documents and report diagnostics",
	}

	cmd.Flags().StringVar(&me.format, "format", "text", "output format (text, json)")
	cmd.Flags().BoolVar(&me.strict, "strict", false, "fail when any component has error diagnostics")
	cmd.Args = cobra.ExactArgs(1)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		me.pattern = args[0]
		return me.Run(cmd.Context(), cmd)
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context, cmd *cobra.Command) error {
	roots, err := loader.New(afero.NewOsFs()).LoadGlob(ctx, me.pattern)
	if err != nil {
		return errors.Errorf("loading components: %w", err)
	}
	if len(roots) == 0 {
		return errors.Errorf("no components match %q", me.pattern)
	}

	paths := make([]string, 0, len(roots))
	for path := range roots {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	byPath := make(map[string][]diagnostic.Diagnostic, len(paths))
	failing := 0
	for _, path := range paths {
		result, err := analyzer.Analyze(ctx, roots[path], analyzer.Options{})
		if err != nil {
			return errors.Errorf("analyzing %s: %w", path, err)
		}
		byPath[path] = result.Diagnostics.Diagnostics
		if result.Diagnostics.HasErrors() {
			failing++
		}
	}

	switch me.format {
	case "json":
		data, err := json.MarshalIndent(byPath, "", "  ")
		if err != nil {
			return errors.Errorf("encoding diagnostics: %w", err)
		}
		cmd.Println(string(data))
	case "text":
		for _, path := range paths {
			for _, d := range byPath[path] {
				cmd.Printf("%s: %s: [%s] %s (%s)\n", path, d.Severity, d.Code, d.Message, d.Span)
			}
		}
		cmd.Printf("%d components analyzed, %d with errors\n", len(paths), failing)
	default:
		return errors.Errorf("unknown format %q", me.format)
	}

	if me.strict && failing > 0 {
		return errors.Errorf("%d of %d components have error diagnostics", failing, len(paths))
	}
	return nil
}
