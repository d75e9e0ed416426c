package cli

import (
	"github.com/spf13/cobra"

	"github.com/yasi-python/relistats/pkg/binomial"
)

// counts are the -n/-f flags shared by most commands.
type counts struct {
	n, f int
}

func (c *counts) bind(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&c.n, "samples", "n", 0, "samples tested")
	cmd.Flags().IntVarP(&c.f, "failures", "f", 0, "failures observed")
	_ = cmd.MarkFlagRequired("samples")
}

func (a *app) confidenceCmd() *cobra.Command {
	var (
		c counts
		r float64
	)
	cmd := &cobra.Command{
		Use:   "confidence",
		Short: "Confidence that reliability is at least r",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := binomial.Confidence(c.n, c.f, r)
			a.log.Debug("confidence", "n", c.n, "f", c.f, "r", r)
			return a.printFloat(cmd, v, err)
		},
	}
	c.bind(cmd)
	cmd.Flags().Float64VarP(&r, "reliability", "r", 0, "claimed reliability in [0, 1]")
	_ = cmd.MarkFlagRequired("reliability")
	return cmd
}

func (a *app) reliabilityCmd() *cobra.Command {
	var (
		c      counts
		conf   float64
		closed bool
	)
	cmd := &cobra.Command{
		Use:   "reliability",
		Short: "Reliability demonstrated at confidence c",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			level := levelOr(cmd, "confidence", conf, a.cfg.Defaults.Confidence)
			var (
				v   float64
				err error
			)
			if closed {
				v, err = binomial.ReliabilityClosed(c.n, c.f, level)
			} else {
				v, err = a.solver().Reliability(c.n, c.f, level)
			}
			a.log.Debug("reliability", "n", c.n, "f", c.f, "c", level, "closed", closed)
			return a.printFloat(cmd, v, err)
		},
	}
	c.bind(cmd)
	cmd.Flags().Float64VarP(&conf, "confidence", "c", binomial.DefaultConfidence, "confidence level (default from config)")
	cmd.Flags().BoolVar(&closed, "closed", false, "use the closed-form Wilson approximation")
	return cmd
}

func (a *app) assuranceCmd() *cobra.Command {
	var c counts
	cmd := &cobra.Command{
		Use:   "assurance",
		Short: "Level at which reliability and confidence coincide",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := a.solver().Assurance(c.n, c.f)
			a.log.Debug("assurance", "n", c.n, "f", c.f)
			return a.printFloat(cmd, v, err)
		},
	}
	c.bind(cmd)
	return cmd
}
