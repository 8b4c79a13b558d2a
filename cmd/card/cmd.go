package card

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/operator-framework/rostersat/internal/crosscheck"
	"github.com/operator-framework/rostersat/pkg/sat"
)

type options struct {
	maxSolutions int
	verify       bool
}

func NewCardCommand() *cobra.Command {
	opts := options{}
	cmd := &cobra.Command{
		Use:   "solve <path>",
		Short: "Enumerates the solutions of a cardinality problem",
		Long: `Enumerates the solutions of a cardinality problem. For instance:
c
c this is a comment
c header: p card <number of variables> <number of constraints>
p card 3 2
c variables followed by a relation (=, ==, <=, >=) and a bound
1 2 3 = 1
1 2 <= 0
c card: exactly one of (1, 2, 3) and none of (1, 2)
`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("file (%s) not found", args[0])
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return solve(cmd, args[0], opts)
		},
	}
	cmd.Flags().IntVar(&opts.maxSolutions, "max-solutions", 1, "number of solutions to print, 0 for all")
	cmd.Flags().BoolVar(&opts.verify, "verify", false, "check the number of solutions found with gini")
	return cmd
}

func solve(cmd *cobra.Command, path string, opts options) error {
	cardFile, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("error opening card file (%s): %w", path, err)
	}
	defer cardFile.Close()

	card, err := NewCard(cardFile)
	if err != nil {
		return fmt.Errorf("error parsing card file (%s): %w", path, err)
	}
	m, err := card.Model()
	if err != nil {
		return fmt.Errorf("error building model (%s): %w", path, err)
	}

	logger := logrus.NewEntry(logrus.StandardLogger()).WithField("file", path)
	out := cmd.OutOrStdout()
	var werr error
	stats, err := sat.Enumerate(cmd.Context(), m, func(s sat.Solution, ordinal int) sat.Action {
		if werr = printSolution(out, s, ordinal); werr != nil {
			return sat.Stop
		}
		return sat.Continue
	}, opts.maxSolutions, sat.WithLogger(logger))
	if err != nil {
		return err
	}
	if werr != nil {
		return werr
	}
	if stats.SolutionsFound == 0 {
		fmt.Fprintln(out, "no solution found")
	}

	if opts.verify {
		if err := crosscheck.Verify(m, stats.SolutionsFound, opts.maxSolutions); err != nil {
			return err
		}
		logger.Info("solution count verified")
	}
	return nil
}

func printSolution(w io.Writer, s sat.Solution, ordinal int) error {
	if _, err := fmt.Fprintf(w, "solution %d found:\n", ordinal); err != nil {
		return err
	}
	for i, v := range s.Values() {
		if _, err := fmt.Fprintf(w, "%d = %t\n", i+1, v); err != nil {
			return err
		}
	}
	return nil
}
