// Copyright ©2026 nsopt. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cutplane

import (
	"io"
	"math"
	"time"

	"github.com/rs/zerolog"
)

// Config specifies the construction of an Optimizer.
type Config struct {
	// Output receives the iteration trace; nil disables it.
	Output io.Writer
	// Level of the iteration trace.
	Level ReportLevel
	// Log receives structured diagnostics; the zero value disables them.
	Log zerolog.Logger
	// Options overrides applied over the registry defaults by name,
	// e.g. {"inner_iteration_limit": 50}.
	Options map[string]any
	// Strategies overrides the default strategy set; nil uses the defaults.
	Strategies *Strategies
}

// Optimizer minimizes nonsmooth, possibly nonconvex objectives with the
// cutting-plane bundle method.
type Optimizer struct {
	options    *Options
	strategies *Strategies
	reporter   *Reporter

	iterationLimit int
}

// Result contains the final result of the optimization process.
type Result struct {
	OK      bool      // Whether the run stopped at a model-stationary point.
	F       float64   // Final function value.
	X, G    []float64 // Final solution and subgradient.
	History []float64 // Objective value after each outer iteration.
	Summary           // Optimization summary.
}

// Summary contains a summary of the optimization process.
type Summary struct {
	Status        SolveStatus   // Final status after optimization.
	NumIter       int           // Number of outer iterations performed.
	NumInner      int           // Total inner iterations across the run.
	NumQP         int           // Total QP iterations across the run.
	NumFunEval    int           // Number of objective evaluations.
	NumGradEval   int           // Number of subgradient evaluations.
	DirectionTime time.Duration // Time spent computing directions.
}

// New creates an optimizer from the config: the strategy set registers its
// options, overrides are applied, and every strategy reads its values.
func (c *Config) New() (*Optimizer, error) {
	strategies := c.Strategies
	if strategies == nil {
		strategies = NewStrategies()
	}

	options := NewOptions()
	options.SetLogger(c.Log)
	options.AddInt("iteration_limit", 1000, 0, math.MaxInt,
		"Limit on the number of outer iterations that will be performed.")
	(&Quantities{}).AddOptions(options)
	strategies.AddOptions(options)

	for name, value := range c.Options {
		if err := options.Set(name, value); err != nil {
			return nil, err
		}
	}

	strategies.SetOptions(options)

	return &Optimizer{
		options:        options,
		strategies:     strategies,
		reporter:       NewReporter(c.Output, c.Level, c.Log),
		iterationLimit: options.Int("iteration_limit"),
	}, nil
}

// Options exposes the registry, for inspection or late overrides.
func (o *Optimizer) Options() *Options { return o.options }

// Strategies exposes the strategy set.
func (o *Optimizer) Strategies() *Strategies { return o.strategies }

// Fit runs the optimization from the initial guess x0.
func (o *Optimizer) Fit(p Problem, x0 []float64) *Result {
	if len(x0) != p.Dimension() {
		panic("initial x dimension not match problem")
	}

	opts, s, r := o.options, o.strategies, o.reporter

	q := NewQuantities(p)
	q.SetLogger(*r.Log())
	q.SetOptions(opts)
	q.Initialize(x0)
	s.SetOptions(opts)
	s.Initialize(opts, q, r)

	o.printHeader(q, r, s)

	status := SolveUnset
	var history []float64

loop:
	for {
		q.PrintIteration(r)

		s.Direction.ComputeDirection(opts, q, r, s)
		switch s.Direction.Status() {
		case StatusCPUTimeLimit:
			status = SolveCPUTimeLimit
			break loop
		case StatusEvaluationFailure:
			status = SolveEvaluationFailure
			break loop
		case StatusQPFailure, StatusIterationLimit:
			status = SolveDirectionFailure
			break loop
		}

		s.Termination.CheckConditions(opts, q, r, s)
		if s.Termination.Terminate() {
			status = SolveStationary
			break
		}
		if s.Termination.UpdateRadii() {
			// A stationarity certificate at the current scale: tighten the
			// radii and recompute rather than stepping.
			q.UpdateRadii()
			r.Printf(ReportPerIteration, "\n")
			q.IncrementIterationCounter()
			history = append(history, q.CurrentIterate().Objective())
			if q.IterationCounter() >= o.iterationLimit {
				status = SolveIterationLimit
				break
			}
			continue
		}

		s.LineSearch.RunLineSearch(opts, q, r, s)
		if s.LineSearch.Status() != SearchSuccess {
			status = SolveLineSearchFailure
			break
		}

		s.HessianUpdate.UpdateHessian(opts, q, r, s)
		q.AcceptTrialIterate()
		s.PointSetUpdate.UpdatePointSet(opts, q, r, s)

		r.Printf(ReportPerIteration, "\n")
		q.IncrementIterationCounter()
		history = append(history, q.CurrentIterate().Objective())

		if q.IterationCounter() >= o.iterationLimit {
			status = SolveIterationLimit
			break
		}
		if time.Since(q.StartTime()) >= q.CPUTimeLimit() {
			status = SolveCPUTimeLimit
			break
		}
	}

	r.Printf(ReportPerIteration, "\n")
	r.Flush()

	final := q.CurrentIterate()
	result := &Result{
		OK:      status == SolveStationary,
		History: history,
		Summary: Summary{
			Status:        status,
			NumIter:       q.IterationCounter(),
			NumInner:      q.TotalInnerIterations(),
			NumQP:         q.TotalQPIterations(),
			NumFunEval:    q.FunctionEvaluations(),
			NumGradEval:   q.GradientEvaluations(),
			DirectionTime: q.DirectionComputationTime(),
		},
	}
	if final.ObjectiveEvaluated() {
		result.F = final.Objective()
	}
	result.X = append([]float64(nil), final.Vector().Values()...)
	if final.GradientEvaluated() {
		result.G = append([]float64(nil), final.Gradient().Values()...)
	}
	return result
}

func (o *Optimizer) printHeader(q *Quantities, r *Reporter, s *Strategies) {
	header := q.IterationHeader()
	for _, st := range []Strategy{s.Direction, s.Termination, s.LineSearch, s.HessianUpdate, s.PointSetUpdate} {
		if h := st.IterationHeader(); h != "" {
			header += " " + h
		}
	}
	r.Printf(ReportPerIteration, "%s\n", header)
}
