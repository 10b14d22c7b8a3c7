package commands

import (
	"github.com/spf13/cobra"

	"property-binder/internal/binding"
	"property-binder/internal/diagnostic"
	"property-binder/internal/property"
)

func newGetCommand(global *globalOptions) *cobra.Command {
	var applied bool

	cmd := &cobra.Command{
		Use:   "get PATH",
		Short: "Print one property of the manifest's document",
		Example: `  # Read from the initial document
  property-binder get -f batch.yaml server.port

  # Read after applying the batch
  property-binder get -f batch.yaml --applied server.hosts[0]`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := global.load()
			if err != nil {
				return err
			}

			acc, err := property.New(f.Document, f.AccessorOptions()...)
			if err != nil {
				return err
			}

			if applied {
				if err := binding.Apply(acc, f.Assignments(), f.Flags()); err != nil {
					_, _ = diagnostic.FromError(err).WriteTo(cmd.ErrOrStderr())
					return err
				}
			}

			v, err := acc.Read(args[0])
			if err != nil {
				_, _ = diagnostic.FromError(err).WriteTo(cmd.ErrOrStderr())
				return err
			}

			return writeDocument(cmd.OutOrStdout(), v, false)
		},
	}

	cmd.Flags().BoolVar(&applied, "applied", false, "apply the batch before reading")

	return cmd
}
