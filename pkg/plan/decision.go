package plan

import (
	"errors"
	"fmt"

	"github.com/yasi-python/relistats/pkg/binomial"
	"github.com/yasi-python/relistats/pkg/finite"
)

type Input struct {
	Samples     int // observed so far
	Failures    int
	Remaining   int // samples still to be tested
	Requirement Requirement
	Solver      binomial.Solver
}

type Action string

const (
	ActionDemonstrated Action = "demonstrated"
	ActionContinue     Action = "continue"
	ActionInfeasible   Action = "infeasible"
)

type Decision struct {
	Action Action
	Value  float64 // statistic at the observed counts, 0 when it has none
	// FailureBudget is how many of the remaining samples may still fail
	// with the requirement met at the end; -1 when none can.
	FailureBudget int
	Reason        string
}

func Evaluate(in Input) (Decision, error) {
	if err := in.Requirement.validate(); err != nil {
		return Decision{}, err
	}
	if in.Samples < 0 || in.Failures < 0 || in.Failures > in.Samples || in.Remaining < 0 {
		return Decision{}, fmt.Errorf("%w: samples=%d failures=%d remaining=%d", binomial.ErrInvalidDomain, in.Samples, in.Failures, in.Remaining)
	}

	met, value, err := in.Requirement.meets(in.Samples, in.Failures, in.Solver)
	if err != nil {
		return Decision{}, err
	}
	opts := finite.Options{Level: in.Requirement.Level, Solver: in.Solver}
	budget, err := finite.MaxAdditionalFailures(in.Samples, in.Failures, in.Remaining, in.Requirement.Target, in.Requirement.Kind, opts)
	switch {
	case errors.Is(err, binomial.ErrNoSolution):
		budget = -1
	case err != nil:
		return Decision{}, err
	}

	switch {
	case met:
		return Decision{Action: ActionDemonstrated, Value: value, FailureBudget: budget, Reason: "target_met"}, nil
	case budget >= 0:
		return Decision{Action: ActionContinue, Value: value, FailureBudget: budget, Reason: "target_reachable"}, nil
	case in.Samples == 0:
		return Decision{Action: ActionInfeasible, Value: value, FailureBudget: -1, Reason: "no_samples"}, nil
	}
	return Decision{Action: ActionInfeasible, Value: value, FailureBudget: -1, Reason: "target_unreachable"}, nil
}
