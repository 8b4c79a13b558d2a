package root

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/operator-framework/rostersat/cmd/card"
	"github.com/operator-framework/rostersat/cmd/roster"
)

func NewRootCmd() *cobra.Command {
	var logLevel string
	rootCmd := &cobra.Command{
		Use:   "rostersat",
		Short: "Rostersat enumerates the solutions of boolean cardinality problems",
		Long: `A small constraint solver for boolean variables bound by cardinality
constraints, with a shift rostering front end.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level (%s): %w", logLevel, err)
			}
			logrus.SetLevel(level)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logrus.InfoLevel.String(), "log level (debug, info, warn, error)")

	// add sub-commands
	rootCmd.AddCommand(card.NewCardCommand())
	rootCmd.AddCommand(roster.NewRosterCommand())

	return rootCmd
}
