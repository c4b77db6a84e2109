// Copyright ©2026 nsopt. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cutplane

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// BFGSUpdate maintains the inverse-Hessian model 𝐖 fed to the QP solver,
// folding each accepted step into the model with the inverse BFGS formula
//
//	𝐖₊ = 𝐖 + ((𝐬ᵀ𝐲 + 𝐲ᵀ𝐖𝐲)/(𝐬ᵀ𝐲)²)·𝐬𝐬ᵀ − (1/𝐬ᵀ𝐲)·(𝐖𝐲𝐬ᵀ + 𝐬𝐲ᵀ𝐖)
//
// skipping updates whose curvature 𝐬ᵀ𝐲 is not safely positive.
type BFGSUpdate struct {
	curvatureTolerance float64

	matrix *mat.SymDense
}

// MatrixSetter is implemented by QP solvers that accept an inverse-Hessian
// model; DualQP does.
type MatrixSetter interface {
	SetMatrix(w *mat.SymDense)
}

// NewBFGSUpdate creates the strategy with zeroed options; call SetOptions
// before use.
func NewBFGSUpdate() *BFGSUpdate { return &BFGSUpdate{} }

// Name implements Strategy.
func (h *BFGSUpdate) Name() string { return "bfgs" }

// AddOptions implements Strategy.
func (h *BFGSUpdate) AddOptions(o *Options) {
	o.AddFloat("bfgs_curvature_tolerance", 1e-12, 0.0, 1.0,
		"Updates with relative curvature below this value are skipped.")
}

// SetOptions implements Strategy.
func (h *BFGSUpdate) SetOptions(o *Options) {
	h.curvatureTolerance = o.Float("bfgs_curvature_tolerance")
}

// Initialize implements Strategy, resetting the model to the identity.
func (h *BFGSUpdate) Initialize(o *Options, q *Quantities, r *Reporter) {
	n := q.NumberOfVariables()
	h.matrix = mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		h.matrix.SetSym(i, i, 1)
	}
}

// IterationHeader implements Strategy.
func (h *BFGSUpdate) IterationHeader() string { return "" }

// IterationNullValues implements Strategy.
func (h *BFGSUpdate) IterationNullValues() string { return "" }

// Matrix exposes the current model.
func (h *BFGSUpdate) Matrix() *mat.SymDense { return h.matrix }

// UpdateHessian implements HessianUpdateStrategy. It differences the current
// and trial iterates, both of which must carry evaluated gradients; a missing
// trial gradient is evaluated here.
func (h *BFGSUpdate) UpdateHessian(o *Options, q *Quantities, r *Reporter, s *Strategies) {
	current, trial := q.CurrentIterate(), q.TrialIterate()
	if trial == current || !current.GradientEvaluated() {
		h.push(s)
		return
	}
	if !trial.GradientEvaluated() && !trial.EvaluateGradient(q) {
		h.push(s)
		return
	}

	n := q.NumberOfVariables()
	step := trial.Vector().LinearCombination(1.0, -1.0, current.Vector())
	change := trial.Gradient().LinearCombination(1.0, -1.0, current.Gradient())

	sy := step.InnerProduct(change)
	if sy <= h.curvatureTolerance*step.Norm2()*change.Norm2() || sy == 0 {
		h.push(s)
		return
	}

	y := mat.NewVecDense(n, change.Values())
	sv := mat.NewVecDense(n, step.Values())

	var wy mat.VecDense
	wy.MulVec(h.matrix, y)
	ywy := mat.Dot(y, &wy)

	h.matrix.SymRankOne(h.matrix, (sy+ywy)/(sy*sy), sv)
	h.matrix.RankTwo(h.matrix, -1.0/sy, sv, &wy)

	if !symFinite(h.matrix) {
		// A degenerate pair poisoned the model; restart from the identity.
		r.Log().Debug().Msg("inverse Hessian model lost finiteness, resetting to identity")
		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				v := 0.0
				if i == j {
					v = 1
				}
				h.matrix.SetSym(i, j, v)
			}
		}
	}
	h.push(s)
}

func (h *BFGSUpdate) push(s *Strategies) {
	if ms, ok := s.QPSolver.(MatrixSetter); ok {
		ms.SetMatrix(h.matrix)
	}
}

func symFinite(m *mat.SymDense) bool {
	n := m.SymmetricDim()
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}
