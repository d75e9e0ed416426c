package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yasi-python/relistats/pkg/plan"
)

func (a *app) planCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Size and judge reliability demonstrations",
	}
	cmd.AddCommand(a.minSamplesCmd(), a.maxFailuresCmd(), a.evaluateCmd())
	return cmd
}

func (r *requirement) plan(cmd *cobra.Command, a *app) (plan.Requirement, error) {
	kind, level, err := r.resolve(cmd, a)
	if err != nil {
		return plan.Requirement{}, err
	}
	return plan.Requirement{Kind: kind, Target: r.target, Level: level}, nil
}

func (a *app) minSamplesCmd() *cobra.Command {
	var (
		f    int
		maxN int
		req  requirement
	)
	cmd := &cobra.Command{
		Use:   "min-samples",
		Short: "Fewest samples that meet the target with f failures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := req.plan(cmd, a)
			if err != nil {
				return err
			}
			n, err := plan.MinSamples(f, r, a.solver(), maxN)
			a.log.Debug("min_samples", "f", f, "kind", r.Kind, "target", r.Target, "n", n)
			return a.printInt(cmd, n, err)
		},
	}
	cmd.Flags().IntVarP(&f, "failures", "f", 0, "failures allowed")
	cmd.Flags().IntVar(&maxN, "max-n", plan.DefaultMaxSamples, "largest sample count to consider")
	req.bind(cmd)
	return cmd
}

func (a *app) maxFailuresCmd() *cobra.Command {
	var (
		n   int
		req requirement
	)
	cmd := &cobra.Command{
		Use:   "max-failures",
		Short: "Most failures n samples may show with the target met",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := req.plan(cmd, a)
			if err != nil {
				return err
			}
			f, err := plan.MaxFailures(n, r, a.solver())
			return a.printInt(cmd, f, err)
		},
	}
	cmd.Flags().IntVarP(&n, "samples", "n", 0, "samples to be tested")
	_ = cmd.MarkFlagRequired("samples")
	req.bind(cmd)
	return cmd
}

func (a *app) evaluateCmd() *cobra.Command {
	var (
		c   counts
		m   int
		req requirement
	)
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Decide whether a running demonstration has passed, can pass, or cannot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := req.plan(cmd, a)
			if err != nil {
				return err
			}
			d, err := plan.Evaluate(plan.Input{Samples: c.n, Failures: c.f, Remaining: m, Requirement: r, Solver: a.solver()})
			if err != nil {
				return err
			}
			a.log.Info("decision", "action", d.Action, "reason", d.Reason, "budget", d.FailureBudget)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "action=%s value=%s budget=%d reason=%s\n",
				d.Action, formatFloat(d.Value), d.FailureBudget, d.Reason)
			return err
		},
	}
	c.bind(cmd)
	cmd.Flags().IntVarP(&m, "remaining", "m", 0, "samples still to be tested")
	req.bind(cmd)
	return cmd
}
