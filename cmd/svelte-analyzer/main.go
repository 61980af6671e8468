package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	analyzecmd "github.com/walteh/go-svelte-analyzer/cmd/svelte-analyzer/analyze"
)

func main() {
	cmd := &cobra.Command{
		Use:   "svelte-analyzer",
		Short: "semantic analysis for parsed component trees",
	}

	var verbose bool
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(analyzecmd.NewAnalyzeCommand())

	info, ok := debug.ReadBuildInfo()
	if !ok {
		cmd.Version = "unknown"
	} else {
		cmd.Version = info.Main.Version
	}
	cmd.InitDefaultVersionFlag()
	cmd.SilenceUsage = true

	ctx := context.Background()
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		level := zerolog.WarnLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).
			With().Timestamp().Logger()
		cmd.SetContext(log.WithContext(cmd.Context()))
	}

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
