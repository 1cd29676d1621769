// Package cli implements the patrix command-line interface.
//
// The single generate command drives the whole pipeline: load tiles from a
// directory, run the tile-drop simulation for the requested number of
// frames, and encode the frame sequence into a looping animated GIF.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context so every command picks up the level chosen
// at the root.
package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/coleslaw481/patrix/pkg/buildinfo"
)

// Execute runs the patrix CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "patrix",
		Short:        "Patrix generates tile-drop rain animations",
		Long:         `Patrix is a CLI tool that procedurally generates a looping animated GIF from a directory of square image tiles, dropping tiles down random columns with fading brightness trails.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newGenerateCmd())

	return root.ExecuteContext(ctx)
}
