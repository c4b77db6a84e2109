// Copyright ©2026 nsopt. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cutplane

import (
	"math"
	"slices"
	"time"

	"github.com/nsopt/nsopt/vec"
)

// CuttingPlane computes search directions for a nonsmooth objective by
// repeatedly solving QP subproblems over a growing bundle of subgradient
// information. Cheap probes (a pure gradient step, shortened versions of the
// QP step) are tried before and during the full cutting-plane iteration, the
// bundle may be collapsed into an aggregate cut to cap memory, and QP solver
// failures fall back to a gradient-only model so a direction is always
// produced.
type CuttingPlane struct {
	addFarPoints         bool
	failOnIterationLimit bool
	failOnQPFailure      bool
	tryAggregation       bool
	tryGradientStep      bool
	tryShortenedStep     bool

	aggregationSizeThreshold float64
	downshiftConstant        float64
	gradientStepsize         float64
	shortenedStepsize        float64
	stepAcceptanceTolerance  float64

	innerIterationLimit int

	status Status
}

// NewCuttingPlane creates the strategy with zeroed options; call SetOptions
// before use.
func NewCuttingPlane() *CuttingPlane { return &CuttingPlane{} }

// Name implements Strategy.
func (dc *CuttingPlane) Name() string { return "cutting_plane" }

// AddOptions implements Strategy.
func (dc *CuttingPlane) AddOptions(o *Options) {
	o.AddBool("add_far_points", false,
		"Determines whether to add points far outside the stationarity radius "+
			"to the point set during the subproblem solve.")
	o.AddBool("fail_on_iteration_limit", false,
		"Determines whether to fail if the inner iteration limit is exceeded.")
	o.AddBool("fail_on_QP_failure", false,
		"Determines whether to fail if the QP solver ever fails.")
	o.AddBool("try_aggregation", false,
		"Determines whether to consider aggregating subgradients.")
	o.AddBool("try_gradient_step", true,
		"Determines whether to consider a gradient step before solving the "+
			"cutting plane subproblem. Stepsize set by gradient_stepsize.")
	o.AddBool("try_shortened_step", true,
		"Determines whether to consider a shortened step if the subproblem "+
			"solver does not terminate after the full QP step. Stepsize set "+
			"by shortened_stepsize.")
	o.AddFloat("aggregation_size_threshold", 1e+01, 0.0, math.MaxFloat64,
		"Threshold for switching from aggregation to the full point set.")
	o.AddFloat("downshift_constant", 1e-02, 0.0, math.MaxFloat64,
		"Downshifting constant. The linear term of an added cut is the minimum "+
			"of the linearization value at the bundle point and the objective "+
			"value minus this constant times the squared distance to the "+
			"current iterate.")
	o.AddFloat("gradient_stepsize", 1e-04, 0.0, math.MaxFloat64,
		"Gradient stepsize. If the step computed from only the current "+
			"gradient with this stepsize is acceptable, the full cutting plane "+
			"subproblem is avoided.")
	o.AddFloat("shortened_stepsize", 1e-02, 0.0, math.MaxFloat64,
		"Shortened stepsize. The shortened step considered is "+
			"shortened_stepsize*min(stat. rad.,|qp_step|_inf)/|qp_step|_inf.")
	o.AddFloat("step_acceptance_tolerance", 1e-08, 0.0, 1.0,
		"Tolerance for step acceptance.")
	o.AddInt("inner_iteration_limit", 20, 0, math.MaxInt,
		"Limit on the number of inner iterations that will be performed.")
}

// SetOptions implements Strategy.
func (dc *CuttingPlane) SetOptions(o *Options) {
	dc.addFarPoints = o.Bool("add_far_points")
	dc.failOnIterationLimit = o.Bool("fail_on_iteration_limit")
	dc.failOnQPFailure = o.Bool("fail_on_QP_failure")
	dc.tryAggregation = o.Bool("try_aggregation")
	dc.tryGradientStep = o.Bool("try_gradient_step")
	dc.tryShortenedStep = o.Bool("try_shortened_step")
	dc.aggregationSizeThreshold = o.Float("aggregation_size_threshold")
	dc.downshiftConstant = o.Float("downshift_constant")
	dc.gradientStepsize = o.Float("gradient_stepsize")
	dc.shortenedStepsize = o.Float("shortened_stepsize")
	dc.stepAcceptanceTolerance = o.Float("step_acceptance_tolerance")
	dc.innerIterationLimit = o.Int("inner_iteration_limit")
}

// Initialize implements Strategy.
func (dc *CuttingPlane) Initialize(o *Options, q *Quantities, r *Reporter) {}

// IterationHeader implements Strategy.
func (dc *CuttingPlane) IterationHeader() string {
	return "In. Its.  QP Pts.  QP Its. QP   QP KKT    |Step|   |Step|_H"
}

// IterationNullValues implements Strategy.
func (dc *CuttingPlane) IterationNullValues() string {
	return "-------- -------- -------- -- --------- --------- ---------"
}

// Status reports the outcome of the last direction computation.
func (dc *CuttingPlane) Status() Status { return dc.status }

// ComputeDirection reads the current iterate and point set, populates
// quantities.Direction with a step and replaces the trial iterate with an
// accepted candidate. Counters, elapsed time and the per-iteration trace
// line are always updated exactly once, on every exit path.
func (dc *CuttingPlane) ComputeDirection(o *Options, q *Quantities, r *Reporter, s *Strategies) {
	dc.status = StatusUnset
	start := time.Now()

	s.QPSolver.SetPrimalSolutionToZero()
	q.ResetInnerIterationCounter()
	q.ResetQPIterationCounter()
	q.SetTrialIterateToCurrentIterate()

	defer func() {
		dc.printSolveLine(ReportPerIteration, q, r, s)
		q.IncrementTotalInnerIterationCounter()
		q.IncrementTotalQPIterationCounter()
		q.IncrementDirectionComputationTime(time.Since(start))
	}()

	dc.status = dc.run(o, q, r, s)
}

// run carries the tagged outcome of each phase back to ComputeDirection,
// whose deferred epilogue finishes the bookkeeping.
func (dc *CuttingPlane) run(o *Options, q *Quantities, r *Reporter, s *Strategies) Status {
	qp := s.QPSolver
	current := q.CurrentIterate()

	// Evaluate the objective and a subgradient at the current iterate,
	// jointly when the oracle supports it.
	if q.EvaluateFunctionWithGradient() {
		if !current.EvaluateObjectiveAndGradient(q) {
			return StatusEvaluationFailure
		}
	} else if !current.EvaluateObjective(q) || !current.EvaluateGradient(q) {
		return StatusEvaluationFailure
	}

	qp.SetScalar(q.TrustRegionRadius())
	qp.SetInexactSolutionTolerance(q.StationarityRadius())

	// Seed the model with the current iterate's linearization.
	grads := []*vec.Vector{current.Gradient()}
	terms := []float64{current.Objective()}
	qp.SetVectorList(grads)
	qp.SetVector(terms)

	// Gradient-step fast path: if the step from the one-point model with a
	// small stepsize is already acceptable, the full subproblem is avoided.
	if dc.tryGradientStep {
		qp.SolveQP(o, r, q)
		dc.convertQPSolutionToStep(q, s)
		q.SetTrialIterate(current.LinearCombination(1.0, dc.gradientStepsize, q.Direction()))
		evaluated := dc.evaluateTrialObjective(q)
		s.Termination.CheckConditionsDirectionComputation(o, q, r, s)
		if evaluated &&
			(dc.sufficientDecrease(q, s, dc.gradientStepsize) ||
				s.Termination.UpdateRadiiDirectionComputation()) {
			return StatusSuccess
		}
	}

	// Expand the bundle with every point of the point set within the
	// stationarity radius of the current iterate.
	for _, point := range q.PointSet() {
		difference := current.Vector().LinearCombination(1.0, -1.0, point.Vector())
		if difference.NormInf() > q.StationarityRadius() {
			continue
		}
		var evaluated bool
		if q.EvaluateFunctionWithGradient() {
			evaluated = point.EvaluateObjectiveAndGradient(q)
		} else {
			evaluated = point.EvaluateObjective(q) && point.EvaluateGradient(q)
		}
		if !evaluated {
			continue
		}
		grads = append(grads, point.Gradient())
		terms = append(terms, dc.cutTerm(q, point))
	}
	qp.SetVectorList(grads)
	qp.SetVector(terms)
	qp.SolveQP(o, r, q)
	dc.convertQPSolutionToStep(q, s)

	if qp.Status() != QPSuccess {
		if dc.failOnQPFailure {
			return StatusQPFailure
		}
		grads, terms = dc.reseed(o, q, r, s)
	}

	switchedToFull := false
	gradsAggregated := slices.Clone(grads)
	termsAggregated := slices.Clone(terms)

	for {
		r.Flush()

		// Acceptance test for the current trial, with prefactor 1: the step
		// already carries its magnitude. A radii-update signal from the
		// termination strategy is an equivalent escape.
		evaluated := dc.evaluateTrialObjective(q)
		s.Termination.CheckConditionsDirectionComputation(o, q, r, s)
		if evaluated &&
			(dc.sufficientDecrease(q, s, 1.0) ||
				s.Termination.UpdateRadiiDirectionComputation()) {
			return StatusSuccess
		}

		if q.InnerIterationCounter() > dc.innerIterationLimit {
			if dc.failOnIterationLimit {
				return StatusIterationLimit
			}
			return StatusSuccess
		}

		if time.Since(q.StartTime()) >= q.CPUTimeLimit() {
			return StatusCPUTimeLimit
		}

		// Collapse the aggregated bundle into the current iterate's cut plus
		// the dual-weighted aggregate cut.
		if dc.tryAggregation && !switchedToFull {
			omega := make([]float64, qp.DualSolutionOmegaLength())
			qp.DualSolutionOmega(omega)
			aggregateVector := vec.New(q.NumberOfVariables())
			aggregateScalar := 0.0
			for i, w := range omega {
				aggregateVector.AddScaledVector(w, gradsAggregated[i])
				aggregateScalar += w * termsAggregated[i]
			}
			gradsAggregated = []*vec.Vector{current.Gradient(), aggregateVector}
			termsAggregated = []float64{current.Objective(), aggregateScalar}
		}

		var gradsNew []*vec.Vector
		var termsNew []float64

		appendTrialCut := func() {
			trial := q.TrialIterate()
			q.AddToPointSet(trial)
			term := dc.cutTerm(q, trial)
			gradsNew = append(gradsNew, trial.Gradient())
			termsNew = append(termsNew, term)
			if dc.tryAggregation && !switchedToFull {
				grads = append(grads, trial.Gradient())
				terms = append(terms, term)
				gradsAggregated = append(gradsAggregated, trial.Gradient())
				termsAggregated = append(termsAggregated, term)
			}
		}

		// Far-point addition: the trial joins the bundle when it lies within
		// the stationarity radius, or unconditionally when configured.
		if dc.addFarPoints || qp.PrimalSolutionNormInf() <= q.StationarityRadius() {
			if evaluated && dc.evaluateTrialGradient(q) {
				appendTrialCut()
			}
		}

		// Shortened step: probe a fraction of the QP step clipped to the
		// stationarity radius. A zero-length step is skipped outright.
		if dc.tryShortenedStep && qp.PrimalSolutionNormInf() > 0 {
			stepNormInf := qp.PrimalSolutionNormInf()
			shortened := dc.shortenedStepsize * math.Min(q.StationarityRadius(), stepNormInf) / stepNormInf
			q.SetTrialIterate(current.LinearCombination(1.0, shortened, q.Direction()))
			evaluated = dc.evaluateTrialObjective(q)
			s.Termination.CheckConditionsDirectionComputation(o, q, r, s)
			if evaluated &&
				(dc.sufficientDecrease(q, s, shortened) ||
					s.Termination.UpdateRadiiDirectionComputation()) {
				return StatusSuccess
			}
			if evaluated && dc.evaluateTrialGradient(q) {
				appendTrialCut()
			}
		}

		dc.printSolveLine(ReportPerInnerIteration, q, r, s)
		blank := ""
		for _, st := range []Strategy{s.Termination, s.LineSearch, s.HessianUpdate, s.PointSetUpdate} {
			if nv := st.IterationNullValues(); nv != "" {
				blank += " " + nv
			}
		}
		r.Printf(ReportPerInnerIteration, "%s\n%s", blank, q.IterationNullValues())

		// Re-solve: aggregated cold solve until the point set outgrows the
		// threshold, one full cold solve on the switch, incremental hot
		// solves otherwise.
		switch {
		case dc.tryAggregation && !switchedToFull &&
			len(q.PointSet()) < int(dc.aggregationSizeThreshold*float64(q.NumberOfVariables())):
			qp.SetVectorList(gradsAggregated)
			qp.SetVector(termsAggregated)
			qp.SolveQP(o, r, q)
		case dc.tryAggregation && !switchedToFull:
			qp.SetVectorList(grads)
			qp.SetVector(terms)
			qp.SolveQP(o, r, q)
			switchedToFull = true
		default:
			qp.AddData(gradsNew, termsNew)
			qp.SolveQPHot(o, r, q)
		}
		dc.convertQPSolutionToStep(q, s)

		if qp.Status() != QPSuccess {
			if dc.failOnQPFailure {
				return StatusQPFailure
			}
			grads, terms = dc.reseed(o, q, r, s)
			gradsAggregated = slices.Clone(grads)
			termsAggregated = slices.Clone(terms)
		}
	}
}

// reseed restores the model to the current iterate's cut only and re-solves,
// guaranteeing a well-defined (possibly conservative) direction after a QP
// solver stall.
func (dc *CuttingPlane) reseed(o *Options, q *Quantities, r *Reporter, s *Strategies) ([]*vec.Vector, []float64) {
	current := q.CurrentIterate()
	r.Log().Debug().
		Int("inner_iteration", q.InnerIterationCounter()).
		Stringer("qp_status", s.QPSolver.Status()).
		Msg("QP solver failed, reseeding bundle from current iterate")
	grads := []*vec.Vector{current.Gradient()}
	terms := []float64{current.Objective()}
	s.QPSolver.SetVectorList(grads)
	s.QPSolver.SetVector(terms)
	s.QPSolver.SolveQP(o, r, q)
	dc.convertQPSolutionToStep(q, s)
	return grads, terms
}

// convertQPSolutionToStep writes the primal solution into the direction,
// sets the trial iterate to 𝐱ₖ + 𝐝 and advances the iteration counters.
func (dc *CuttingPlane) convertQPSolutionToStep(q *Quantities, s *Strategies) {
	q.IncrementQPIterationCounter(s.QPSolver.NumberOfIterations())
	q.IncrementInnerIterationCounter(1)
	s.QPSolver.PrimalSolution(q.Direction().Values())
	q.SetTrialIterate(q.CurrentIterate().LinearCombination(1.0, 1.0, q.Direction()))
}

// sufficientDecrease applies the Armijo-type acceptance test
//
//	𝒇(trial) − 𝒇(𝐱ₖ) < −τ·α·𝚖𝚒𝚗(q_dual, 𝚖𝚊𝚡(‖𝐆ω‖², ‖𝐝‖²))
//
// where the minimum term is the model's predicted reduction.
func (dc *CuttingPlane) sufficientDecrease(q *Quantities, s *Strategies, stepsize float64) bool {
	qp := s.QPSolver
	model := math.Min(qp.DualObjectiveQuadraticValue(),
		math.Max(qp.CombinationTranslatedNorm2Squared(), qp.PrimalSolutionNorm2Squared()))
	reduction := q.TrialIterate().Objective() - q.CurrentIterate().Objective()
	return reduction < -dc.stepAcceptanceTolerance*stepsize*model
}

// cutTerm computes the linear term of the cut at a bundle point: the
// linearization value capped by the downshifted objective, which keeps the
// plane below 𝒇(𝐱ₖ) under nonconvexity.
func (dc *CuttingPlane) cutTerm(q *Quantities, point *Iterate) float64 {
	current := q.CurrentIterate()
	difference := current.Vector().LinearCombination(1.0, -1.0, point.Vector())
	linearization := point.Objective() +
		point.Gradient().InnerProduct(current.Vector()) -
		point.Gradient().InnerProduct(point.Vector())
	downshift := current.Objective() - dc.downshiftConstant*math.Pow(difference.Norm2(), 2.0)
	return math.Min(linearization, downshift)
}

func (dc *CuttingPlane) evaluateTrialObjective(q *Quantities) bool {
	if q.EvaluateFunctionWithGradient() {
		return q.TrialIterate().EvaluateObjectiveAndGradient(q)
	}
	return q.TrialIterate().EvaluateObjective(q)
}

func (dc *CuttingPlane) evaluateTrialGradient(q *Quantities) bool {
	if q.EvaluateFunctionWithGradient() {
		return true
	}
	return q.TrialIterate().EvaluateGradient(q)
}

func (dc *CuttingPlane) printSolveLine(level ReportLevel, q *Quantities, r *Reporter, s *Strategies) {
	qp := s.QPSolver
	r.Printf(level, " %8d %8d %8d %2d %+.2e %+.2e %+.2e",
		q.InnerIterationCounter(), qp.VectorListLength(), q.QPIterationCounter(),
		int(qp.Status()), qp.KKTErrorDual(), qp.PrimalSolutionNormInf(),
		qp.DualObjectiveQuadraticValue())
}
