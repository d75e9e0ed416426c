package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yasi-python/relistats/pkg/finite"
)

// requirement is the --kind/--target/--level triple of budget and plan
// commands.
type requirement struct {
	kind   string
	target float64
	level  float64
}

func (r *requirement) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&r.kind, "kind", string(finite.KindAssurance), "statistic: reliability|confidence|assurance")
	cmd.Flags().Float64Var(&r.target, "target", 0, "value the statistic must reach")
	cmd.Flags().Float64Var(&r.level, "level", 0, "confidence for reliability, reliability for confidence (default from config)")
	_ = cmd.MarkFlagRequired("target")
}

func (r *requirement) resolve(cmd *cobra.Command, a *app) (finite.Kind, float64, error) {
	kind, err := finite.ParseKind(r.kind)
	if err != nil {
		return "", 0, err
	}
	return kind, levelOr(cmd, "level", r.level, a.cfg.Defaults.Level), nil
}

func (a *app) finiteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "finite",
		Short: "Statistics for a population with m samples still to come",
	}
	cmd.AddCommand(a.finiteConfidenceCmd(), a.finiteReliabilityCmd(), a.finiteAssuranceCmd(), a.finiteBudgetCmd())
	return cmd
}

func bindRemaining(cmd *cobra.Command, m *int) {
	cmd.Flags().IntVarP(m, "remaining", "m", 0, "samples not yet tested")
	_ = cmd.MarkFlagRequired("remaining")
}

func (a *app) finiteConfidenceCmd() *cobra.Command {
	var (
		c counts
		m int
		r float64
	)
	cmd := &cobra.Command{
		Use:   "confidence",
		Short: "Confidence that the whole population has reliability r",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			est, err := finite.Confidence(c.n, c.f, r, m)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "confidence=%s reliability=%s\n", formatFloat(est.Confidence), formatFloat(est.Reliability))
			return err
		},
	}
	c.bind(cmd)
	bindRemaining(cmd, &m)
	cmd.Flags().Float64VarP(&r, "reliability", "r", 0, "whole-population reliability")
	_ = cmd.MarkFlagRequired("reliability")
	return cmd
}

func (a *app) finiteReliabilityCmd() *cobra.Command {
	var (
		c    counts
		m    int
		conf float64
	)
	cmd := &cobra.Command{
		Use:   "reliability",
		Short: "Whole-population reliability at confidence c",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			level := levelOr(cmd, "confidence", conf, a.cfg.Defaults.Confidence)
			est, err := finite.Reliability(c.n, c.f, level, m)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "reliability=%s confidence=%s\n", formatFloat(est.Reliability), formatFloat(est.Confidence))
			return err
		},
	}
	c.bind(cmd)
	bindRemaining(cmd, &m)
	cmd.Flags().Float64VarP(&conf, "confidence", "c", 0, "confidence level (default from config)")
	return cmd
}

func (a *app) finiteAssuranceCmd() *cobra.Command {
	var (
		c counts
		m int
	)
	cmd := &cobra.Command{
		Use:   "assurance",
		Short: "Whole-population assurance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			est, err := finite.Assurance(c.n, c.f, m)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "assurance=%s reliability=%s confidence=%s\n",
				formatFloat(est.Assurance), formatFloat(est.Reliability), formatFloat(est.Confidence))
			return err
		},
	}
	c.bind(cmd)
	bindRemaining(cmd, &m)
	return cmd
}

func (a *app) finiteBudgetCmd() *cobra.Command {
	var (
		c   counts
		m   int
		req requirement
	)
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Most failures the remaining samples may show with the target still met",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, level, err := req.resolve(cmd, a)
			if err != nil {
				return err
			}
			opts := finite.Options{Level: level, Solver: a.solver()}
			v, err := finite.MaxAdditionalFailures(c.n, c.f, m, req.target, kind, opts)
			a.log.Debug("budget", "n", c.n, "f", c.f, "m", m, "kind", kind, "target", req.target)
			return a.printInt(cmd, v, err)
		},
	}
	c.bind(cmd)
	bindRemaining(cmd, &m)
	req.bind(cmd)
	return cmd
}
