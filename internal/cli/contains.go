package cli

import (
	"errors"
	"fmt"

	"github.com/chazu/geomaster/internal/httpapi"
	"github.com/chazu/geomaster/pkg/calc"
	"github.com/spf13/cobra"
)

func newContainsCommand() *cobra.Command {
	var outerSpec, innerSpec string
	cmd := &cobra.Command{
		Use:     "contains --outer kind:key=v,... --inner kind:key=v,...",
		Short:   "Check whether one shape fits inside another",
		Example: "  geomaster contains --outer rectangle:width=10,height=10 --inner circle:radius=5",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if outerSpec == "" || innerSpec == "" {
				return errors.New("both --outer and --inner are required")
			}
			outer, err := parseShapeSpec(outerSpec)
			if err != nil {
				return fmt.Errorf("outer: %w", err)
			}
			inner, err := parseShapeSpec(innerSpec)
			if err != nil {
				return fmt.Errorf("inner: %w", err)
			}
			ok, err := calc.Contains(outer, inner)
			if err != nil {
				return err
			}
			msg := httpapi.MessageNotContained
			if ok {
				msg = httpapi.MessageContained
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%t: %s\n", ok, msg)
			return err
		},
	}
	cmd.Flags().StringVar(&outerSpec, "outer", "", "outer shape as kind:key=value,...")
	cmd.Flags().StringVar(&innerSpec, "inner", "", "inner shape as kind:key=value,...")
	return cmd
}
