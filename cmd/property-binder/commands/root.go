package commands

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"property-binder/internal/manifest"
)

// errManifestRequired is returned when no --file flag was given.
var errManifestRequired = errors.New("a manifest is required (--file)")

// globalOptions holds flags shared by all commands.
type globalOptions struct {
	manifestPath string
	verbose      bool
}

// Execute runs the root command.
func Execute(ctx context.Context, version string) error {
	return newRootCommand(version).ExecuteContext(ctx)
}

func newRootCommand(version string) *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "property-binder",
		Short: "Apply ordered property batches to YAML documents",
		Long: `property-binder applies a manifest's assignments to its document in order.

Unknown properties and nil intermediate paths stop the batch unless the
manifest (or a flag) tolerates them. Rejected values never stop the batch;
they are collected and reported together once every assignment was tried.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if opts.verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.manifestPath, "file", "f", "", "batch manifest path")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newApplyCommand(opts))
	rootCmd.AddCommand(newGetCommand(opts))
	rootCmd.AddCommand(newCheckCommand(opts))

	return rootCmd
}

func (o *globalOptions) load() (*manifest.File, error) {
	if o.manifestPath == "" {
		return nil, errManifestRequired
	}

	return manifest.LoadFile(o.manifestPath)
}
