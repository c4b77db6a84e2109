// Copyright ©2026 nsopt. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cutplane

import (
	"github.com/nsopt/nsopt/vec"
)

// Strategy is the capability shared by all pluggable solver components:
// option registration, per-solve initialization and trace formatting.
type Strategy interface {
	// Name identifies the strategy in diagnostics.
	Name() string
	// AddOptions registers the strategy's options with their defaults.
	AddOptions(o *Options)
	// SetOptions reads the strategy's options from the registry.
	SetOptions(o *Options)
	// Initialize prepares the strategy for a solve.
	Initialize(o *Options, q *Quantities, r *Reporter)
	// IterationHeader returns the strategy's trace column headers, or "".
	IterationHeader() string
	// IterationNullValues returns a blank template matching the strategy's
	// trace columns, for alignment when the strategy is skipped.
	IterationNullValues() string
}

// QPSolver solves the structured convex subproblem
//
//	𝚖𝚒𝚗_𝐝  ½·𝐝ᵀ𝐇𝐝 + 𝚖𝚊𝚡ᵢ(bᵢ + ⟨𝐠ᵢ, 𝐝⟩ − 𝒇(𝐱ₖ))  s.t.  ‖𝐝‖∞ ≤ δ
//
// parameterized by a list of gradients 𝐠ᵢ and linear terms bᵢ, and exposes
// the primal step and the dual simplex weights ω.
type QPSolver interface {
	Strategy

	// SetScalar sets the trust region radius δ.
	SetScalar(delta float64)
	// SetInexactSolutionTolerance relaxes the accuracy to which the
	// subproblem must be solved.
	SetInexactSolutionTolerance(tolerance float64)
	// SetVectorList replaces the gradient list.
	SetVectorList(grads []*vec.Vector)
	// SetVector replaces the linear terms.
	SetVector(terms []float64)
	// AddData appends gradients and linear terms for a hot start.
	AddData(grads []*vec.Vector, terms []float64)

	// SolveQP solves the subproblem from a cold start.
	SolveQP(o *Options, r *Reporter, q *Quantities)
	// SolveQPHot re-solves after AddData, reusing previous solve state.
	SolveQPHot(o *Options, r *Reporter, q *Quantities)
	// SetPrimalSolutionToZero resets the primal step to zero.
	SetPrimalSolutionToZero()

	// Status reports the outcome of the last solve.
	Status() QPStatus
	// PrimalSolution writes the primal step 𝐝 into out.
	PrimalSolution(out []float64)
	// PrimalSolutionNorm2Squared returns ‖𝐝‖₂².
	PrimalSolutionNorm2Squared() float64
	// PrimalSolutionNormInf returns ‖𝐝‖∞.
	PrimalSolutionNormInf() float64
	// DualObjectiveQuadraticValue returns the quadratic part of the dual
	// objective at ω.
	DualObjectiveQuadraticValue() float64
	// CombinationTranslatedNorm2Squared returns the squared 2-norm of the
	// dual-weighted gradient combination.
	CombinationTranslatedNorm2Squared() float64
	// DualSolutionOmegaLength returns the number of dual weights.
	DualSolutionOmegaLength() int
	// DualSolutionOmega writes the dual weights into out.
	DualSolutionOmega(out []float64)
	// NumberOfIterations returns the iterations of the last solve.
	NumberOfIterations() int
	// VectorListLength returns the current bundle size.
	VectorListLength() int
	// KKTErrorDual returns the dual KKT error of the last solve.
	KKTErrorDual() float64
}

// TerminationStrategy decides on radius updates and completion.
type TerminationStrategy interface {
	Strategy

	// CheckConditionsDirectionComputation inspects the iterate, radii and QP
	// state during a direction computation and may raise the radii-update
	// flag, which also acts as an escape-success condition for the inner loop.
	CheckConditionsDirectionComputation(o *Options, q *Quantities, r *Reporter, s *Strategies)
	// UpdateRadiiDirectionComputation reports the flag raised by the last
	// direction-computation check.
	UpdateRadiiDirectionComputation() bool

	// CheckConditions runs the outer-loop tests after a direction computation.
	CheckConditions(o *Options, q *Quantities, r *Reporter, s *Strategies)
	// UpdateRadii reports whether the outer loop should shrink the radii.
	UpdateRadii() bool
	// Terminate reports whether the solve is complete.
	Terminate() bool
}

// LineSearchStrategy finds a stepsize along the accepted direction.
type LineSearchStrategy interface {
	Strategy

	// RunLineSearch probes along quantities.Direction, replacing the trial
	// iterate with the accepted point.
	RunLineSearch(o *Options, q *Quantities, r *Reporter, s *Strategies)
	// Status reports the outcome of the last search.
	Status() SearchStatus
	// Stepsize returns the accepted stepsize of the last search.
	Stepsize() float64
}

// HessianUpdateStrategy maintains the approximate (inverse) Hessian model
// consumed by the QP solver.
type HessianUpdateStrategy interface {
	Strategy

	// UpdateHessian folds the accepted step into the model.
	UpdateHessian(o *Options, q *Quantities, r *Reporter, s *Strategies)
}

// PointSetUpdateStrategy maintains the point set between outer iterations.
type PointSetUpdateStrategy interface {
	Strategy

	// UpdatePointSet prunes or reorganizes the point set.
	UpdatePointSet(o *Options, q *Quantities, r *Reporter, s *Strategies)
}

// DirectionStrategy computes the search direction.
type DirectionStrategy interface {
	Strategy

	// ComputeDirection populates quantities.Direction and the trial iterate.
	ComputeDirection(o *Options, q *Quantities, r *Reporter, s *Strategies)
	// Status reports the outcome of the last computation.
	Status() Status
}

// Strategies bundles the pluggable components of the solver. Any
// implementation satisfying the respective contract may be substituted.
type Strategies struct {
	Direction      DirectionStrategy
	QPSolver       QPSolver
	Termination    TerminationStrategy
	LineSearch     LineSearchStrategy
	HessianUpdate  HessianUpdateStrategy
	PointSetUpdate PointSetUpdateStrategy
}

// NewStrategies creates the default strategy set: cutting-plane direction
// computation over the dual projected-gradient QP solver, basic termination,
// weak-Wolfe line search, BFGS inverse-Hessian update and proximity
// point-set update.
func NewStrategies() *Strategies {
	return &Strategies{
		Direction:      NewCuttingPlane(),
		QPSolver:       NewDualQP(),
		Termination:    NewBasicTermination(),
		LineSearch:     NewWeakWolfeSearch(),
		HessianUpdate:  NewBFGSUpdate(),
		PointSetUpdate: NewProximityUpdate(),
	}
}

func (s *Strategies) each() []Strategy {
	return []Strategy{s.Direction, s.QPSolver, s.Termination, s.LineSearch, s.HessianUpdate, s.PointSetUpdate}
}

// AddOptions registers the options of every strategy.
func (s *Strategies) AddOptions(o *Options) {
	for _, st := range s.each() {
		st.AddOptions(o)
	}
}

// SetOptions reads the options of every strategy.
func (s *Strategies) SetOptions(o *Options) {
	for _, st := range s.each() {
		st.SetOptions(o)
	}
}

// Initialize prepares every strategy for a solve.
func (s *Strategies) Initialize(o *Options, q *Quantities, r *Reporter) {
	for _, st := range s.each() {
		st.Initialize(o, q, r)
	}
}
