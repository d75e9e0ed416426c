// Package cli is the relistats command tree.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/yasi-python/relistats/pkg/binomial"
	"github.com/yasi-python/relistats/pkg/config"
	"github.com/yasi-python/relistats/pkg/logger"
)

const defaultConfigPath = "relistats.yaml"

type app struct {
	cfgPath   string
	logLevel  string
	tolerance float64
	maxIter   int

	cfg *config.Config
	log *logger.Logger
}

// NewRootCmd builds a fresh command tree; every call has its own state.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "relistats",
		Short: "Binomial reliability, confidence and assurance",
		Long: `relistats computes confidence, reliability and assurance levels from
pass/fail test counts, for infinite and finite populations, and plans how
many samples a demonstration needs.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgPath, "config", defaultConfigPath, "config file")
	pf.StringVar(&a.logLevel, "log-level", "", "debug|info|warn|error (overrides config)")
	pf.Float64Var(&a.tolerance, "tolerance", 0, "root finder tolerance (overrides config)")
	pf.IntVar(&a.maxIter, "max-iter", 0, "root finder iteration budget (overrides config)")

	root.AddCommand(
		a.confidenceCmd(),
		a.reliabilityCmd(),
		a.assuranceCmd(),
		a.finiteCmd(),
		a.planCmd(),
		a.tableCmd(),
		a.cacheCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	var err error
	if cmd.Flags().Changed("config") {
		a.cfg, err = config.Load(a.cfgPath)
	} else {
		a.cfg, err = config.LoadOrDefault(a.cfgPath)
	}
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		a.cfg.LogLevel = a.logLevel
	}
	if cmd.Flags().Changed("tolerance") {
		a.cfg.Solver.Tolerance = a.tolerance
	}
	if cmd.Flags().Changed("max-iter") {
		a.cfg.Solver.MaxIterations = a.maxIter
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	errOut := cmd.ErrOrStderr()
	noColor := os.Getenv("NO_COLOR") != "" || errOut != io.Writer(os.Stderr)
	a.log = logger.NewWriter(errOut, a.cfg.LogLevel, noColor).With("cmd", cmd.Name())
	a.log.Debug("config_loaded", "path", a.cfgPath, "tolerance", a.cfg.Solver.Tolerance, "max_iter", a.cfg.Solver.MaxIterations)
	return nil
}

func (a *app) solver() binomial.Solver { return a.cfg.BinomialSolver() }

// levelOr returns the flag value when it was set, else def.
func levelOr(cmd *cobra.Command, name string, v, def float64) float64 {
	if cmd.Flags().Changed(name) {
		return v
	}
	return def
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }

// printFloat writes v, or "none" when err is binomial.ErrNoSolution. Any
// other error is returned.
func (a *app) printFloat(cmd *cobra.Command, v float64, err error) error {
	return a.print(cmd, err, func() string { return formatFloat(v) })
}

func (a *app) printInt(cmd *cobra.Command, v int, err error) error {
	return a.print(cmd, err, func() string { return strconv.Itoa(v) })
}

func (a *app) print(cmd *cobra.Command, err error, render func() string) error {
	out := cmd.OutOrStdout()
	switch {
	case errors.Is(err, binomial.ErrNoSolution):
		a.log.Debug("no_solution", "err", err.Error())
		_, werr := fmt.Fprintln(out, "none")
		return werr
	case err != nil:
		return err
	}
	_, werr := fmt.Fprintln(out, render())
	return werr
}

// Execute runs the command tree and returns the process exit code.
func Execute(root *cobra.Command) int {
	if err := root.Execute(); err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
		return 1
	}
	return 0
}
