// Copyright ©2026 nsopt. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cutplane

import (
	"math"
	"slices"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/nsopt/nsopt/vec"
)

// DualQP solves the cutting-plane subproblem in its dual form. With 𝐖 the
// inverse-Hessian model, bundle gradients 𝐆 = [𝐠₀ … 𝐠ₘ] and linear terms 𝐛,
// the dual is
//
//	𝚖𝚊𝚡_ω  𝐛ᵀω − ½·ωᵀ𝐆ᵀ𝐖𝐆ω   s.t.  ω ∈ Δᵐ (the unit simplex)
//
// solved by projected gradient ascent; the primal step is recovered as
// 𝐝 = −𝐖𝐆ω and clipped to the trust region box ‖𝐝‖∞ ≤ δ. Hot solves append
// bundle rows and warm-start from the previous ω.
type DualQP struct {
	iterationLimit int
	kktTolerance   float64

	scalar  float64
	inexact float64

	matrix *mat.SymDense // inverse-Hessian model 𝐖, nil means identity

	grads []*vec.Vector
	terms []float64

	omega       []float64
	primal      []float64
	combination []float64

	status     QPStatus
	iterations int
	kktError   float64
	dualQuad   float64
	combNormSq float64
}

// NewDualQP creates the solver with zeroed options; call SetOptions before use.
func NewDualQP() *DualQP { return &DualQP{} }

// Name implements Strategy.
func (qs *DualQP) Name() string { return "dual_projected_gradient" }

// AddOptions implements Strategy.
func (qs *DualQP) AddOptions(o *Options) {
	o.AddInt("qp_iteration_limit", 5000, 0, math.MaxInt,
		"Limit on projected gradient iterations per QP solve.")
	o.AddFloat("qp_kkt_tolerance", 1e-08, 0.0, math.MaxFloat64,
		"Dual KKT error below which a QP solve is declared optimal.")
}

// SetOptions implements Strategy.
func (qs *DualQP) SetOptions(o *Options) {
	qs.iterationLimit = o.Int("qp_iteration_limit")
	qs.kktTolerance = o.Float("qp_kkt_tolerance")
}

// Initialize implements Strategy.
func (qs *DualQP) Initialize(o *Options, q *Quantities, r *Reporter) {
	n := q.NumberOfVariables()
	qs.primal = make([]float64, n)
	qs.combination = make([]float64, n)
	qs.matrix = nil
	qs.status = QPUnset
}

// IterationHeader implements Strategy; the direction computation prints the
// QP columns itself.
func (qs *DualQP) IterationHeader() string { return "" }

// IterationNullValues implements Strategy.
func (qs *DualQP) IterationNullValues() string { return "" }

// SetMatrix installs the inverse-Hessian model 𝐖. A nil matrix means the
// identity.
func (qs *DualQP) SetMatrix(w *mat.SymDense) { qs.matrix = w }

// SetScalar implements QPSolver.
func (qs *DualQP) SetScalar(delta float64) { qs.scalar = delta }

// SetInexactSolutionTolerance implements QPSolver.
func (qs *DualQP) SetInexactSolutionTolerance(tolerance float64) { qs.inexact = tolerance }

// SetVectorList implements QPSolver.
func (qs *DualQP) SetVectorList(grads []*vec.Vector) {
	qs.grads = slices.Clone(grads)
	qs.omega = nil
}

// SetVector implements QPSolver.
func (qs *DualQP) SetVector(terms []float64) {
	qs.terms = slices.Clone(terms)
}

// AddData implements QPSolver.
func (qs *DualQP) AddData(grads []*vec.Vector, terms []float64) {
	qs.grads = append(qs.grads, grads...)
	qs.terms = append(qs.terms, terms...)
}

// SolveQP implements QPSolver with a cold start.
func (qs *DualQP) SolveQP(o *Options, r *Reporter, q *Quantities) {
	qs.omega = nil
	qs.solve()
}

// SolveQPHot implements QPSolver, warm-starting from the previous dual
// weights with zero weight on appended rows.
func (qs *DualQP) SolveQPHot(o *Options, r *Reporter, q *Quantities) {
	qs.solve()
}

// SetPrimalSolutionToZero implements QPSolver.
func (qs *DualQP) SetPrimalSolutionToZero() {
	for i := range qs.primal {
		qs.primal[i] = 0
	}
	for i := range qs.combination {
		qs.combination[i] = 0
	}
	qs.status = QPUnset
	qs.dualQuad = 0
	qs.combNormSq = 0
	qs.kktError = 0
	qs.iterations = 0
}

// Status implements QPSolver.
func (qs *DualQP) Status() QPStatus { return qs.status }

// PrimalSolution implements QPSolver.
func (qs *DualQP) PrimalSolution(out []float64) { copy(out, qs.primal) }

// PrimalSolutionNorm2Squared implements QPSolver.
func (qs *DualQP) PrimalSolutionNorm2Squared() float64 {
	return floats.Dot(qs.primal, qs.primal)
}

// PrimalSolutionNormInf implements QPSolver.
func (qs *DualQP) PrimalSolutionNormInf() float64 {
	return floats.Norm(qs.primal, math.Inf(1))
}

// DualObjectiveQuadraticValue implements QPSolver.
func (qs *DualQP) DualObjectiveQuadraticValue() float64 { return qs.dualQuad }

// CombinationTranslatedNorm2Squared implements QPSolver.
func (qs *DualQP) CombinationTranslatedNorm2Squared() float64 { return qs.combNormSq }

// DualSolutionOmegaLength implements QPSolver.
func (qs *DualQP) DualSolutionOmegaLength() int { return len(qs.omega) }

// DualSolutionOmega implements QPSolver.
func (qs *DualQP) DualSolutionOmega(out []float64) { copy(out, qs.omega) }

// NumberOfIterations implements QPSolver.
func (qs *DualQP) NumberOfIterations() int { return qs.iterations }

// VectorListLength implements QPSolver.
func (qs *DualQP) VectorListLength() int { return len(qs.grads) }

// KKTErrorDual implements QPSolver.
func (qs *DualQP) KKTErrorDual() float64 { return qs.kktError }

func (qs *DualQP) solve() {
	m := len(qs.grads)
	n := len(qs.primal)
	qs.iterations = 0
	if m == 0 || len(qs.terms) != m {
		qs.status = QPFailure
		return
	}

	// Warm start pads appended rows with zero weight; a cold start spreads
	// the weight uniformly.
	if len(qs.omega) < m {
		if qs.omega == nil {
			qs.omega = make([]float64, m)
			uniform := 1.0 / float64(m)
			for i := range qs.omega {
				qs.omega[i] = uniform
			}
		} else {
			qs.omega = append(qs.omega, make([]float64, m-len(qs.omega))...)
		}
	}
	qs.omega = qs.omega[:m]

	// Stepsize 1/L with L bounded by 𝚝𝚛(𝐆ᵀ𝐖𝐆).
	trace := 0.0
	wg := make([]float64, n)
	for _, g := range qs.grads {
		qs.applyMatrix(g.Values(), wg)
		trace += floats.Dot(g.Values(), wg)
	}
	stepsize := 1.0
	if trace > 1 {
		stepsize = 1.0 / trace
	}

	gradient := make([]float64, m)
	candidate := make([]float64, m)
	wc := make([]float64, n)

	for qs.iterations = 1; ; qs.iterations++ {
		// c = 𝐆ω, ∇q(ω)ᵢ = bᵢ − ⟨𝐠ᵢ, 𝐖c⟩
		qs.formCombination()
		qs.applyMatrix(qs.combination, wc)
		for i, g := range qs.grads {
			gradient[i] = qs.terms[i] - floats.Dot(g.Values(), wc)
		}

		// Dual KKT error: gap between the best ascent component and the
		// weighted average over the support.
		average := floats.Dot(qs.omega, gradient)
		qs.kktError = floats.Max(gradient) - average
		if qs.kktError <= qs.kktTolerance {
			qs.status = QPSuccess
			break
		}
		if qs.iterations >= qs.iterationLimit {
			if qs.kktError <= math.Max(qs.kktTolerance, qs.inexact) {
				qs.status = QPSuccess
			} else {
				qs.status = QPIterationLimit
			}
			break
		}

		for i := range candidate {
			candidate[i] = qs.omega[i] + stepsize*gradient[i]
		}
		projectSimplex(candidate)
		copy(qs.omega, candidate)
	}

	// Recover the primal step 𝐝 = −𝐖𝐆ω clipped to the trust region box.
	qs.formCombination()
	qs.applyMatrix(qs.combination, wc)
	for j := 0; j < n; j++ {
		d := -wc[j]
		if d > qs.scalar {
			d = qs.scalar
		} else if d < -qs.scalar {
			d = -qs.scalar
		}
		qs.primal[j] = d
	}
	qs.dualQuad = 0.5 * floats.Dot(qs.combination, wc)
	qs.combNormSq = floats.Dot(qs.combination, qs.combination)
}

func (qs *DualQP) formCombination() {
	for j := range qs.combination {
		qs.combination[j] = 0
	}
	for i, g := range qs.grads {
		if qs.omega[i] != 0 {
			floats.AddScaled(qs.combination, qs.omega[i], g.Values())
		}
	}
}

// applyMatrix computes dst = 𝐖·src, with 𝐖 defaulting to the identity.
func (qs *DualQP) applyMatrix(src, dst []float64) {
	if qs.matrix == nil {
		copy(dst, src)
		return
	}
	var out mat.VecDense
	out.MulVec(qs.matrix, mat.NewVecDense(len(src), src))
	copy(dst, out.RawVector().Data)
}

// projectSimplex replaces v with its Euclidean projection onto the unit
// simplex {x : x ≥ 0, Σxᵢ = 1}.
func projectSimplex(v []float64) {
	sorted := slices.Clone(v)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	cumulative, theta := 0.0, 0.0
	for i, u := range sorted {
		cumulative += u
		candidate := (cumulative - 1) / float64(i+1)
		if u-candidate > 0 {
			theta = candidate
		}
	}
	for i := range v {
		v[i] = math.Max(v[i]-theta, 0)
	}
}
