// Package cli implements the geomaster command tree.
package cli

import (
	"github.com/chazu/geomaster/internal/config"
	"github.com/spf13/cobra"
)

// NewRootCommand builds the geomaster command tree around cfg. Flags on the
// subcommands override the matching cfg fields.
func NewRootCommand(cfg config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "geomaster",
		Short:         "Compute shape metrics and check shape containment",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newServeCommand(cfg),
		newCalcCommand(cfg),
		newContainsCommand(),
		newEvalCommand(cfg),
		newMeshCommand(cfg),
	)
	return root
}
