package cli

import (
	"fmt"

	"github.com/chazu/geomaster/internal/config"
	"github.com/chazu/geomaster/pkg/calc"
	"github.com/chazu/geomaster/pkg/shape"
	"github.com/spf13/cobra"
)

func newCalcCommand(cfg config.Config) *cobra.Command {
	places := cfg.RoundPlaces
	cmd := &cobra.Command{
		Use:     "calc <metric> <kind> key=value...",
		Short:   "Compute a metric for one shape",
		Example: "  geomaster calc area circle radius=5\n  geomaster calc surface-area sphere radius=3",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if places < 0 || places > config.MaxRoundPlaces {
				return fmt.Errorf("--round must be in [0,%d], got %d", config.MaxRoundPlaces, places)
			}
			m, err := parseMetric(args[0])
			if err != nil {
				return err
			}
			params, err := parseParams(args[2:])
			if err != nil {
				return err
			}
			s, err := shape.Build(args[1], params)
			if err != nil {
				return withKindHint(err)
			}
			v, err := calc.Compute(s, m)
			if err != nil {
				return err
			}
			rv, ok := calc.Round(v, places)
			if !ok {
				return fmt.Errorf("%s of %s is not finite", m, s.Kind())
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), formatValue(rv))
			return err
		},
	}
	cmd.Flags().IntVar(&places, "round", places, "decimal places in the result")
	return cmd
}
