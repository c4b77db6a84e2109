// Copyright ©2026 nsopt. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cutplane

import (
	"math"
)

// WeakWolfeSearch finds a stepsize along the accepted direction by interval
// bisection on the weak Wolfe conditions, which remain meaningful for
// nonsmooth objectives: sufficient decrease on the function value and a
// curvature condition on the subgradient's directional derivative. When the
// bisection budget runs out, the best stepsize with plain decrease is taken.
type WeakWolfeSearch struct {
	armijoConstant  float64
	wolfeConstant   float64
	initialStepsize float64
	stepsizeMinimum float64
	iterationLimit  int

	status   SearchStatus
	stepsize float64
}

// NewWeakWolfeSearch creates the strategy with zeroed options; call
// SetOptions before use.
func NewWeakWolfeSearch() *WeakWolfeSearch { return &WeakWolfeSearch{} }

// Name implements Strategy.
func (ls *WeakWolfeSearch) Name() string { return "weak_wolfe" }

// AddOptions implements Strategy.
func (ls *WeakWolfeSearch) AddOptions(o *Options) {
	o.AddFloat("line_search_armijo_constant", 1e-10, 0.0, 1.0,
		"Sufficient-decrease constant for the weak Wolfe conditions.")
	o.AddFloat("line_search_wolfe_constant", 9e-01, 0.0, 1.0,
		"Curvature constant for the weak Wolfe conditions.")
	o.AddFloat("line_search_initial_stepsize", 1e+00, 0.0, math.MaxFloat64,
		"Initial stepsize tried along the direction.")
	o.AddFloat("line_search_stepsize_minimum", 1e-20, 0.0, 1.0,
		"Stepsize below which the search gives up.")
	o.AddInt("line_search_iteration_limit", 50, 0, math.MaxInt,
		"Limit on bisection iterations per search.")
}

// SetOptions implements Strategy.
func (ls *WeakWolfeSearch) SetOptions(o *Options) {
	ls.armijoConstant = o.Float("line_search_armijo_constant")
	ls.wolfeConstant = o.Float("line_search_wolfe_constant")
	ls.initialStepsize = o.Float("line_search_initial_stepsize")
	ls.stepsizeMinimum = o.Float("line_search_stepsize_minimum")
	ls.iterationLimit = o.Int("line_search_iteration_limit")
}

// Initialize implements Strategy.
func (ls *WeakWolfeSearch) Initialize(o *Options, q *Quantities, r *Reporter) {
	ls.status = SearchUnset
	ls.stepsize = 0
}

// IterationHeader implements Strategy.
func (ls *WeakWolfeSearch) IterationHeader() string { return " Stepsize" }

// IterationNullValues implements Strategy.
func (ls *WeakWolfeSearch) IterationNullValues() string { return "---------" }

// Status implements LineSearchStrategy.
func (ls *WeakWolfeSearch) Status() SearchStatus { return ls.status }

// Stepsize implements LineSearchStrategy.
func (ls *WeakWolfeSearch) Stepsize() float64 { return ls.stepsize }

// RunLineSearch implements LineSearchStrategy. On success the trial iterate
// is the accepted point with its objective evaluated.
func (ls *WeakWolfeSearch) RunLineSearch(o *Options, q *Quantities, r *Reporter, s *Strategies) {
	current := q.CurrentIterate()
	direction := q.Direction()

	directionalDerivative := current.Gradient().InnerProduct(direction)

	lower, upper := 0.0, math.Inf(1)
	alpha := ls.initialStepsize
	bestAlpha, bestF := 0.0, current.Objective()
	var bestIterate *Iterate

	for iteration := 0; iteration < ls.iterationLimit && alpha >= ls.stepsizeMinimum; iteration++ {
		trial := current.LinearCombination(1.0, alpha, direction)
		if !trial.EvaluateObjective(q) {
			// Treat an unevaluable point as too far out.
			upper = alpha
			alpha = 0.5 * (lower + upper)
			continue
		}
		if trial.Objective() < bestF {
			bestAlpha, bestF, bestIterate = alpha, trial.Objective(), trial
		}

		armijo := trial.Objective() <
			current.Objective()+ls.armijoConstant*alpha*math.Min(directionalDerivative, 0)
		if !armijo {
			upper = alpha
			alpha = 0.5 * (lower + upper)
			continue
		}

		if directionalDerivative < 0 {
			if !trial.EvaluateGradient(q) {
				break
			}
			curvature := trial.Gradient().InnerProduct(direction) >= ls.wolfeConstant*directionalDerivative
			if !curvature {
				lower = alpha
				if math.IsInf(upper, 1) {
					alpha = 2 * alpha
				} else {
					alpha = 0.5 * (lower + upper)
				}
				continue
			}
		}

		ls.accept(q, r, trial, alpha)
		return
	}

	// Bisection budget exhausted: settle for the best plain decrease seen.
	if bestIterate != nil {
		ls.accept(q, r, bestIterate, bestAlpha)
		return
	}

	ls.stepsize = 0
	if directionalDerivative >= 0 {
		ls.status = SearchNotDescent
	} else {
		ls.status = SearchStepsizeMin
	}
	r.Printf(ReportPerIteration, " %s", ls.IterationNullValues())
}

func (ls *WeakWolfeSearch) accept(q *Quantities, r *Reporter, trial *Iterate, alpha float64) {
	q.SetTrialIterate(trial)
	ls.stepsize = alpha
	ls.status = SearchSuccess
	r.Printf(ReportPerIteration, " %+.2e", alpha)
}
