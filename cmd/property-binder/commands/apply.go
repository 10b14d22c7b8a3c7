package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"property-binder/internal/binding"
	"property-binder/internal/diagnostic"
	"property-binder/internal/manifest"
	"property-binder/internal/property"
)

type applyOptions struct {
	ignoreUnknown bool
	ignoreInvalid bool
	autoGrow      bool
	dump          bool
}

func newApplyCommand(global *globalOptions) *cobra.Command {
	opts := &applyOptions{}

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply a manifest's assignments to its document",
		Long: `Apply the manifest's assignments to its document and print the result.

A batch stopped by an unknown property or a nil path prints only the failure.
A batch that ran to completion prints the document, then every rejected value.`,
		Example: `  # Apply a batch
  property-binder apply -f batch.yaml

  # Tolerate properties the document does not have
  property-binder apply -f batch.yaml --ignore-unknown`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := global.load()
			if err != nil {
				return err
			}

			flags := f.Flags()
			if cmd.Flags().Changed("ignore-unknown") {
				flags.IgnoreUnknown = opts.ignoreUnknown
			}

			if cmd.Flags().Changed("ignore-invalid") {
				flags.IgnoreInvalid = opts.ignoreInvalid
			}

			accessorOpts := f.AccessorOptions()
			if cmd.Flags().Changed("auto-grow") {
				accessorOpts = append(accessorOpts, property.WithAutoGrow(opts.autoGrow))
			}

			return runApply(cmd, global.manifestPath, f, flags, accessorOpts, opts.dump)
		},
	}

	cmd.Flags().BoolVar(&opts.ignoreUnknown, "ignore-unknown", false, "tolerate unknown or read-only properties")
	cmd.Flags().BoolVar(&opts.ignoreInvalid, "ignore-invalid", false, "tolerate paths through nil values")
	cmd.Flags().BoolVar(&opts.autoGrow, "auto-grow", false, "create nil intermediate values")
	cmd.Flags().BoolVar(&opts.dump, "dump", false, "print the document with Go types instead of YAML")

	return cmd
}

func runApply(
	cmd *cobra.Command,
	path string,
	f *manifest.File,
	flags binding.Flags,
	accessorOpts []property.Option,
	dump bool,
) error {
	logger := log.With().
		Str("run_id", uuid.NewString()).
		Str("manifest", path).
		Logger()

	acc, err := property.New(f.Document, accessorOpts...)
	if err != nil {
		return err
	}

	assignments := f.Assignments()

	logger.Info().
		Int("assignments", len(assignments)).
		Bool("ignore_unknown", flags.IgnoreUnknown).
		Bool("ignore_invalid", flags.IgnoreInvalid).
		Msg("applying batch")

	applyErr := binding.NewMutator(binding.WithLogger(logger)).Apply(acc, assignments, flags)

	var batchErr *binding.BatchError
	if applyErr == nil || errors.As(applyErr, &batchErr) {
		if err := writeDocument(cmd.OutOrStdout(), f.Document, dump); err != nil {
			return err
		}
	}

	if applyErr == nil {
		logger.Info().Msg("batch applied")
		return nil
	}

	if _, err := diagnostic.FromError(applyErr).WriteTo(cmd.ErrOrStderr()); err != nil {
		return err
	}

	if batchErr != nil {
		return fmt.Errorf("%d of %d assignments rejected", batchErr.Len(), len(assignments))
	}

	return errors.New("batch stopped")
}

func writeDocument(w io.Writer, doc any, dump bool) error {
	if dump {
		spew.Fdump(w, doc)
		return nil
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	return enc.Close()
}
