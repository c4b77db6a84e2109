// Copyright ©2026 nsopt. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cutplane

// Status reports the outcome of one direction computation.
type Status int

const (
	// StatusUnset direction computation has not finished.
	StatusUnset Status = iota
	// StatusSuccess a direction meeting acceptance, or a radii-update escape.
	StatusSuccess
	// StatusEvaluationFailure the oracle refused to evaluate f or ∂f at the current iterate.
	StatusEvaluationFailure
	// StatusQPFailure the QP solver failed while fail_on_QP_failure is set.
	StatusQPFailure
	// StatusIterationLimit the inner iteration cap was exceeded while fail_on_iteration_limit is set.
	StatusIterationLimit
	// StatusCPUTimeLimit the wall-clock budget was exhausted.
	StatusCPUTimeLimit
)

func (s Status) String() string {
	switch s {
	case StatusUnset:
		return "Unset"
	case StatusSuccess:
		return "Success"
	case StatusEvaluationFailure:
		return "EvaluationFailure"
	case StatusQPFailure:
		return "QPFailure"
	case StatusIterationLimit:
		return "IterationLimit"
	case StatusCPUTimeLimit:
		return "CPUTimeLimit"
	}
	return "UnregisteredStatus"
}

// QPStatus reports the outcome of one QP solve.
type QPStatus int

const (
	// QPUnset no solve has run since the last reset.
	QPUnset QPStatus = iota
	// QPSuccess the solve reached the requested accuracy (possibly inexactly).
	QPSuccess
	// QPIterationLimit the solve hit its iteration cap before the KKT error was acceptable.
	QPIterationLimit
	// QPFailure the solve broke down.
	QPFailure
)

func (s QPStatus) String() string {
	switch s {
	case QPUnset:
		return "Unset"
	case QPSuccess:
		return "Success"
	case QPIterationLimit:
		return "IterationLimit"
	case QPFailure:
		return "Failure"
	}
	return "UnregisteredStatus"
}

// SearchStatus reports the outcome of one line search.
type SearchStatus int

const (
	// SearchUnset no search has run.
	SearchUnset SearchStatus = iota
	// SearchSuccess a stepsize with sufficient decrease was found.
	SearchSuccess
	// SearchNotDescent the directional derivative along the step was nonnegative
	// and backtracking found no decrease.
	SearchNotDescent
	// SearchStepsizeMin the stepsize underflowed without finding decrease.
	SearchStepsizeMin
	// SearchEvaluationFailure the oracle failed along the search.
	SearchEvaluationFailure
)

func (s SearchStatus) String() string {
	switch s {
	case SearchUnset:
		return "Unset"
	case SearchSuccess:
		return "Success"
	case SearchNotDescent:
		return "NotDescent"
	case SearchStepsizeMin:
		return "StepsizeMin"
	case SearchEvaluationFailure:
		return "EvaluationFailure"
	}
	return "UnregisteredStatus"
}

// SolveStatus reports the outcome of a full optimization run.
// Positive values indicate a regular stop, negative values a failure.
type SolveStatus int

const (
	// SolveUnset the run has not finished.
	SolveUnset SolveStatus = iota
	// SolveStationary the stationarity radius reached its final tolerance at a
	// point where the model indicates stationarity.
	SolveStationary
	// SolveIterationLimit the outer iteration limit was reached.
	SolveIterationLimit
	// SolveCPUTimeLimit the CPU budget was exhausted.
	SolveCPUTimeLimit
)

const (
	_ = iota
	// SolveEvaluationFailure the oracle failed at the current iterate.
	SolveEvaluationFailure SolveStatus = -1 * iota
	// SolveDirectionFailure the direction computation failed.
	SolveDirectionFailure
	// SolveLineSearchFailure the line search found no acceptable stepsize.
	SolveLineSearchFailure
)

func (s SolveStatus) String() string {
	switch s {
	case SolveUnset:
		return "Unset"
	case SolveStationary:
		return "Stationary"
	case SolveIterationLimit:
		return "IterationLimit"
	case SolveCPUTimeLimit:
		return "CPUTimeLimit"
	case SolveEvaluationFailure:
		return "EvaluationFailure"
	case SolveDirectionFailure:
		return "DirectionFailure"
	case SolveLineSearchFailure:
		return "LineSearchFailure"
	}
	return "UnregisteredStatus"
}
