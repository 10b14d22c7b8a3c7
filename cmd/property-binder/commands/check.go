package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"property-binder/internal/manifest"
)

func newCheckCommand(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate a manifest without applying it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := global.load()
			if err != nil {
				return err
			}

			res := manifest.Validate(f)
			if _, err := res.WriteTo(cmd.OutOrStdout()); err != nil {
				return err
			}

			if res.HasErrors() {
				return fmt.Errorf("manifest has %d error(s)", len(res.Errors))
			}

			log.Info().
				Str("manifest", global.manifestPath).
				Int("assignments", len(f.Set)).
				Int("warnings", len(res.Warnings)).
				Msg("manifest is valid")

			return nil
		},
	}
}
