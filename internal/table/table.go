// Package table evaluates a statistic over a grid of (n, f) pairs. Cells
// are independent engine calls, so they are spread over a bounded pool of
// goroutines.
package table

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yasi-python/relistats/pkg/binomial"
	"github.com/yasi-python/relistats/pkg/finite"
	"github.com/yasi-python/relistats/pkg/logger"
	"github.com/yasi-python/relistats/pkg/metrics"
	"github.com/yasi-python/relistats/pkg/storage"
)

const (
	// KindReliabilityClosed tabulates binomial.ReliabilityClosed.
	KindReliabilityClosed finite.Kind = "reliability-closed"
	// KindReliabilityWilson tabulates binomial.ReliabilityWilson.
	KindReliabilityWilson finite.Kind = "reliability-wilson"
)

func ParseKind(s string) (finite.Kind, error) {
	switch k := finite.Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindReliabilityClosed, KindReliabilityWilson:
		return k, nil
	}
	return finite.ParseKind(s)
}

// Range is an inclusive integer range with a positive step.
type Range struct {
	From, To, Step int
}

// ParseRange accepts "N", "FROM:TO" or "FROM:TO:STEP".
func ParseRange(s string) (Range, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) > 3 {
		return Range{}, fmt.Errorf("range %q: want FROM[:TO[:STEP]]", s)
	}
	vals := []int{0, 0, 1}
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Range{}, fmt.Errorf("range %q: %w", s, err)
		}
		vals[i] = v
	}
	if len(parts) == 1 {
		vals[1] = vals[0]
	}
	r := Range{From: vals[0], To: vals[1], Step: vals[2]}
	if err := r.Validate(); err != nil {
		return Range{}, fmt.Errorf("range %q: %w", s, err)
	}
	return r, nil
}

func (r Range) Validate() error {
	if r.From < 0 || r.To < r.From || r.Step <= 0 {
		return fmt.Errorf("need 0 <= FROM <= TO and STEP > 0, got %d:%d:%d", r.From, r.To, r.Step)
	}
	return nil
}

// Values lists the range; an invalid range is empty.
func (r Range) Values() []int {
	if r.Validate() != nil {
		return nil
	}
	var out []int
	for v := r.From; v <= r.To; v += r.Step {
		out = append(out, v)
	}
	return out
}

type Spec struct {
	Kind    finite.Kind
	N, F    Range
	Level   float64 // confidence for reliability kinds, reliability for confidence
	Solver  binomial.Solver
	Workers int
}

type Cell struct {
	N, F  int
	Value float64
	OK    bool // false when the statistic has no value at (N, F)
}

type Table struct {
	Spec  Spec
	Ns    []int
	Fs    []int
	Cells []Cell // cells with F <= N, in row-major (n, f) order
	index map[[2]int]int
}

// Cache is the subset of storage.DB the builder needs.
type Cache interface {
	GetCell(k storage.Key) (storage.CellRecord, bool, error)
	PutCell(c storage.CellRecord) error
}

// Deps are optional collaborators; nil fields are skipped.
type Deps struct {
	Cache Cache
	Log   *logger.Logger
}

func Build(ctx context.Context, spec Spec, deps Deps) (*Table, error) {
	if err := spec.N.Validate(); err != nil {
		return nil, fmt.Errorf("%w: n range: %w", binomial.ErrInvalidDomain, err)
	}
	if err := spec.F.Validate(); err != nil {
		return nil, fmt.Errorf("%w: f range: %w", binomial.ErrInvalidDomain, err)
	}
	if spec.Workers <= 0 {
		spec.Workers = 1
	}
	t := &Table{Spec: spec, Ns: spec.N.Values(), Fs: spec.F.Values(), index: map[[2]int]int{}}
	for _, n := range t.Ns {
		for _, f := range t.Fs {
			if f <= n {
				t.index[[2]int{n, f}] = len(t.Cells)
				t.Cells = append(t.Cells, Cell{N: n, F: f})
			}
		}
	}
	if deps.Log != nil {
		deps.Log.Debug("table_start", "kind", spec.Kind, "cells", len(t.Cells), "workers", spec.Workers)
	}

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(spec.Workers)
	for i := range t.Cells {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c := &t.Cells[i]
			v, ok, err := evaluateCached(spec, c.N, c.F, deps)
			if err != nil {
				return err
			}
			c.Value, c.OK = v, ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	metrics.TableCells.Set(float64(len(t.Cells)))
	metrics.TableSeconds.Observe(elapsed.Seconds())
	if deps.Log != nil {
		deps.Log.Info("table_built", "kind", spec.Kind, "cells", len(t.Cells), "elapsed", elapsed)
	}
	return t, nil
}

func evaluateCached(spec Spec, n, f int, deps Deps) (float64, bool, error) {
	key := storage.Key{
		Kind: string(spec.Kind), N: n, F: f, Level: spec.Level,
		Tolerance: spec.Solver.Tolerance, MaxIter: spec.Solver.MaxIterations,
	}
	if !iterative(spec.Kind) {
		key.Tolerance, key.MaxIter = 0, 0
	}
	if spec.Kind == finite.KindAssurance {
		key.Level = 0
	}
	if deps.Cache != nil {
		rec, found, err := deps.Cache.GetCell(key)
		if err != nil {
			return 0, false, err
		}
		if found {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			return rec.Value, rec.OK, nil
		}
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	}

	v, ok, err := Evaluate(spec.Kind, n, f, spec.Level, spec.Solver)
	if err != nil {
		return 0, false, err
	}
	if deps.Cache != nil {
		if err := deps.Cache.PutCell(storage.CellRecord{Key: key, Value: v, OK: ok}); err != nil {
			return 0, false, err
		}
	}
	return v, ok, nil
}

// iterative reports whether kind goes through the root finder, so that
// its value depends on the solver settings.
func iterative(kind finite.Kind) bool {
	return kind == finite.KindReliability || kind == finite.KindAssurance
}

// Evaluate computes one cell. A statistic without a value is ok=false, not
// an error.
func Evaluate(kind finite.Kind, n, f int, level float64, s binomial.Solver) (float64, bool, error) {
	var (
		v   float64
		err error
	)
	switch kind {
	case KindReliabilityClosed:
		v, err = binomial.ReliabilityClosed(n, f, level)
	case KindReliabilityWilson:
		v, err = binomial.ReliabilityWilson(n, f, level)
	default:
		v, err = finite.Statistic(n, f, kind, finite.Options{Level: level, Solver: s})
	}
	switch {
	case errors.Is(err, binomial.ErrNoSolution):
		metrics.Evaluations.WithLabelValues(string(kind), "none").Inc()
		return 0, false, nil
	case err != nil:
		return 0, false, err
	}
	metrics.Evaluations.WithLabelValues(string(kind), "ok").Inc()
	return v, true, nil
}

func (t *Table) Lookup(n, f int) (Cell, bool) {
	i, ok := t.index[[2]int{n, f}]
	if !ok {
		return Cell{}, false
	}
	return t.Cells[i], true
}

// Write renders the table with one row per n and one column per f. Cells
// without a value print as "-", cells with f > n stay empty.
func (t *Table) Write(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	header := []string{"n\\f"}
	for _, f := range t.Fs {
		header = append(header, strconv.Itoa(f))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")
	for _, n := range t.Ns {
		row := []string{strconv.Itoa(n)}
		for _, f := range t.Fs {
			c, ok := t.Lookup(n, f)
			switch {
			case !ok:
				row = append(row, "")
			case !c.OK:
				row = append(row, "-")
			default:
				row = append(row, strconv.FormatFloat(c.Value, 'f', 4, 64))
			}
		}
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}
	return tw.Flush()
}
