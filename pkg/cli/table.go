package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/yasi-python/relistats/internal/table"
	"github.com/yasi-python/relistats/pkg/metrics"
	"github.com/yasi-python/relistats/pkg/storage"
)

func (a *app) tableCmd() *cobra.Command {
	var (
		kind, nRange, fRange  string
		level                 float64
		workers               int
		cachePath, metricsOut string
	)
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Tabulate a statistic over ranges of n and f",
		Example: `  relistats table --kind assurance --n 10:100:10 --f 0:5
  relistats table --kind reliability --level 0.9 --n 20:60:20 --f 0:3 --cache relistats.bolt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			k, err := table.ParseKind(kind)
			if err != nil {
				return err
			}
			ns, err := table.ParseRange(nRange)
			if err != nil {
				return err
			}
			fs, err := table.ParseRange(fRange)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("workers") {
				workers = a.cfg.Table.Workers
			}
			if !cmd.Flags().Changed("cache") {
				cachePath = a.cfg.Cache.Path
			}
			if !cmd.Flags().Changed("metrics-file") {
				metricsOut = a.cfg.Metrics.Textfile
			}

			deps := table.Deps{Log: a.log}
			if cachePath != "" {
				db, err := storage.Open(cachePath)
				if err != nil {
					return err
				}
				defer db.Close()
				a.log.Debug("cache_open", "path", cachePath)
				deps.Cache = db
			}

			spec := table.Spec{
				Kind:    k,
				N:       ns,
				F:       fs,
				Level:   levelOr(cmd, "level", level, a.cfg.Defaults.Level),
				Solver:  a.solver(),
				Workers: workers,
			}
			t, err := table.Build(cmd.Context(), spec, deps)
			if err != nil {
				return err
			}
			if err := t.Write(cmd.OutOrStdout()); err != nil {
				return err
			}

			if metricsOut != "" {
				metrics.MustRegister()
				if err := metrics.WriteTextfile(metricsOut, prometheus.DefaultGatherer); err != nil {
					return fmt.Errorf("metrics textfile: %w", err)
				}
				a.log.Debug("metrics_written", "path", metricsOut)
			}
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&kind, "kind", "assurance", "reliability|reliability-closed|reliability-wilson|confidence|assurance")
	fl.StringVar(&nRange, "n", "", "sample counts FROM:TO[:STEP]")
	fl.StringVar(&fRange, "f", "0", "failure counts FROM:TO[:STEP]")
	fl.Float64Var(&level, "level", 0, "confidence for reliability kinds, reliability for confidence (default from config)")
	fl.IntVar(&workers, "workers", 0, "parallel evaluations (default from config)")
	fl.StringVar(&cachePath, "cache", "", "bbolt cache file (default from config, empty disables)")
	fl.StringVar(&metricsOut, "metrics-file", "", "write prometheus textfile metrics here")
	_ = cmd.MarkFlagRequired("n")
	return cmd
}

func (a *app) cacheCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the table cache",
	}
	cmd.PersistentFlags().StringVar(&path, "cache", "", "bbolt cache file (default from config)")

	open := func(cmd *cobra.Command) (*storage.DB, error) {
		if !cmd.Flags().Changed("cache") {
			path = a.cfg.Cache.Path
		}
		if path == "" {
			return nil, fmt.Errorf("no cache configured: pass --cache or set cache.path")
		}
		return storage.Open(path)
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List cached cells",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := open(cmd)
			if err != nil {
				return err
			}
			defer db.Close()
			cells, err := db.ListCells()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "KIND\tN\tF\tLEVEL\tTOLERANCE\tMAX_ITER\tVALUE")
			for _, c := range cells {
				v := "none"
				if c.OK {
					v = formatFloat(c.Value)
				}
				fmt.Fprintf(tw, "%s\t%d\t%d\t%g\t%g\t%d\t%s\n", c.Kind, c.N, c.F, c.Level, c.Tolerance, c.MaxIter, v)
			}
			return tw.Flush()
		},
	}
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Drop every cached cell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := open(cmd)
			if err != nil {
				return err
			}
			defer db.Close()
			n, err := db.Clear()
			if err != nil {
				return err
			}
			a.log.Info("cache_cleared", "cells", n)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "cleared %d cells\n", n)
			return err
		},
	}
	cmd.AddCommand(list, clearCmd)
	return cmd
}
