package roster

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/operator-framework/rostersat/internal/crosscheck"
	"github.com/operator-framework/rostersat/internal/metrics"
	"github.com/operator-framework/rostersat/internal/roster"
	"github.com/operator-framework/rostersat/pkg/sat"
)

type options struct {
	configPath  string
	metricsFile string
	verify      bool
	overrides   roster.Config
}

func NewRosterCommand() *cobra.Command {
	opts := options{overrides: roster.DefaultConfig()}
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Enumerates shift rosters",
		Long: `Enumerates the ways to staff every shift of every day with exactly one
employee, nobody working twice a day and the shifts spread evenly over
the employees. A YAML config may set employees, days, shifts,
showSolutions and maxSolutions; flags take precedence over it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config(cmd)
			if err != nil {
				return err
			}
			return run(cmd, cfg, opts)
		},
	}
	opts.bindFlags(cmd.Flags())
	return cmd
}

func (o *options) bindFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.configPath, "config", "", "path to a YAML roster config")
	flags.IntVar(&o.overrides.Employees, "employees", o.overrides.Employees, "number of employees")
	flags.IntVar(&o.overrides.Days, "days", o.overrides.Days, "number of days")
	flags.IntVar(&o.overrides.Shifts, "shifts", o.overrides.Shifts, "number of shifts per day")
	flags.IntVar(&o.overrides.MaxSolutions, "max-solutions", 0, "number of solutions to enumerate, 0 for the largest shown ordinal")
	flags.IntSliceVar(&o.overrides.ShowSolutions, "show", o.overrides.ShowSolutions, "ordinals of the solutions to print")
	flags.BoolVar(&o.verify, "verify", false, "check the number of solutions found with gini")
	flags.StringVar(&o.metricsFile, "metrics-file", "", "write prometheus metrics of the run to this file")
}

// config loads the config file, if any, and applies the flags that were
// set on the command line.
func (o options) config(cmd *cobra.Command) (roster.Config, error) {
	cfg := roster.DefaultConfig()
	if o.configPath != "" {
		var err error
		if cfg, err = roster.LoadConfig(o.configPath); err != nil {
			return roster.Config{}, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("employees") {
		cfg.Employees = o.overrides.Employees
	}
	if flags.Changed("days") {
		cfg.Days = o.overrides.Days
	}
	if flags.Changed("shifts") {
		cfg.Shifts = o.overrides.Shifts
	}
	if flags.Changed("max-solutions") {
		cfg.MaxSolutions = o.overrides.MaxSolutions
	}
	if flags.Changed("show") {
		cfg.ShowSolutions = o.overrides.ShowSolutions
	}
	return cfg, cfg.Validate()
}

func run(cmd *cobra.Command, cfg roster.Config, opts options) error {
	r, err := roster.Build(cfg)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	logger := logrus.NewEntry(logrus.StandardLogger()).WithFields(logrus.Fields{
		"employees": cfg.Employees,
		"days":      cfg.Days,
		"shifts":    cfg.Shifts,
	})
	rec := metrics.NewRecorder()
	printer := roster.NewPrinter(cmd.OutOrStdout(), r)

	var perr error
	stats, err := sat.Enumerate(cmd.Context(), r.Model(), func(s sat.Solution, _ int) sat.Action {
		if perr = printer.Solution(s); perr != nil {
			return sat.Stop
		}
		return sat.Continue
	}, cfg.Limit(), sat.WithLogger(logger), sat.WithRunID(runID), sat.WithObserver(rec.Observe))
	if err != nil {
		return err
	}
	if perr != nil {
		return perr
	}
	if err := printer.Statistics(stats); err != nil {
		return err
	}

	if opts.verify {
		if err := crosscheck.Verify(r.Model(), stats.SolutionsFound, cfg.Limit()); err != nil {
			return err
		}
		logger.WithField("run", runID).Info("solution count verified")
	}
	if opts.metricsFile != "" {
		if err := rec.WriteFile(opts.metricsFile); err != nil {
			return err
		}
		logger.WithField("run", runID).Debugf("metrics written to %s", opts.metricsFile)
	}
	return nil
}
