package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chazu/geomaster/internal/config"
	"github.com/chazu/geomaster/pkg/engine"
	"github.com/chazu/geomaster/pkg/shape"
	"github.com/spf13/cobra"
)

func newEvalCommand(cfg config.Config) *cobra.Command {
	var (
		timeout = cfg.EvalTimeout
		watch   bool
	)
	cmd := &cobra.Command{
		Use:   "eval [file|-]",
		Short: "Run a GeoMaster script",
		Long: `Run a GeoMaster script and print every metric and containment it
evaluated, followed by the value of its last expression.

Reads standard input when the file is "-" or omitted. With --watch the
script is run again each time the file is written, until interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "-"
			if len(args) == 1 {
				name = args[0]
			}
			if watch && name == "-" {
				return errors.New("--watch needs a script file")
			}
			eng := engine.NewEngine(engine.WithTimeout(timeout))
			out := cmd.OutOrStdout()

			source, err := readSource(cmd.InOrStdin(), name)
			if err != nil {
				return err
			}
			err = evalSource(eng, out, name, source)
			if !watch {
				return err
			}
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
			}

			return watchScript(cmd.Context(), name, func() {
				source, err := readSource(nil, name)
				if err == nil {
					fmt.Fprintf(out, "--- %s\n", name)
					err = evalSource(eng, out, name, source)
				}
				if err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), err)
				}
			})
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", timeout, "evaluation time limit")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-run the script whenever the file changes")
	return cmd
}

// evalSource runs source and prints its records and final value.
func evalSource(eng *engine.Engine, out io.Writer, name, source string) error {
	res, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		return err
	}
	if len(evalErrs) > 0 {
		errs := make([]error, len(evalErrs))
		for i, e := range evalErrs {
			errs[i] = e
		}
		return fmt.Errorf("%s: %w", name, errors.Join(errs...))
	}

	for _, r := range res.Records {
		fmt.Fprintln(out, r)
	}
	if res.Value != nil {
		fmt.Fprintf(out, "=> %s\n", formatResult(res.Value))
	}
	return nil
}

func readSource(stdin io.Reader, name string) (string, error) {
	if name == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("read script: %w", err)
	}
	return string(b), nil
}

func formatResult(v any) string {
	switch v := v.(type) {
	case float64:
		return formatValue(v)
	case shape.Shape:
		return fmt.Sprintf("%s %v", v.Kind(), v.Params())
	default:
		return fmt.Sprint(v)
	}
}
