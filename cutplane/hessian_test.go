// Copyright ©2026 nsopt. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cutplane

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/nsopt/nsopt/vec"
)

func hessianRig(t *testing.T, n int, x, g, xNext, gNext []float64) (*BFGSUpdate, *Options, *Quantities, *Reporter, *Strategies) {
	t.Helper()
	s := NewStrategies()
	o := NewOptions()
	(&Quantities{}).AddOptions(o)
	s.AddOptions(o)

	q := NewQuantities(&Funcs{N: n, Obj: func(x []float64) (float64, error) { return 0, nil }})
	q.SetOptions(o)
	q.Initialize(x)
	s.SetOptions(o)
	r := NewReporter(nil, ReportNone, zerolog.Nop())
	s.Initialize(o, q, r)

	current := q.CurrentIterate()
	current.gradient = vec.Of(g...)
	current.gradientEvaluated = true

	trial := NewIterate(vec.Of(xNext...))
	trial.gradient = vec.Of(gNext...)
	trial.gradientEvaluated = true
	q.SetTrialIterate(trial)

	return s.HessianUpdate.(*BFGSUpdate), o, q, r, s
}

func TestBFGSIdentityInitialization(t *testing.T) {
	h, _, _, _, _ := hessianRig(t, 2, []float64{0, 0}, []float64{1, 1}, []float64{1, 0}, []float64{1, 1})
	require.Equal(t, 1.0, h.Matrix().At(0, 0))
	require.Equal(t, 0.0, h.Matrix().At(0, 1))
	require.Equal(t, 1.0, h.Matrix().At(1, 1))
}

func TestBFGSUpdateKnownPair(t *testing.T) {
	// 𝐬 = (1, 0), 𝐲 = (0.5, 0): the model's leading entry becomes 𝐬ᵀ𝐬/𝐬ᵀ𝐲 = 2.
	h, o, q, r, s := hessianRig(t, 2,
		[]float64{0, 0}, []float64{-0.25, 0},
		[]float64{1, 0}, []float64{0.25, 0})

	h.UpdateHessian(o, q, r, s)

	w := h.Matrix()
	require.InDelta(t, 2.0, w.At(0, 0), 1e-12)
	require.InDelta(t, 0.0, w.At(0, 1), 1e-12)
	require.InDelta(t, 1.0, w.At(1, 1), 1e-12)

	// The model reached the QP solver.
	require.Same(t, w, s.QPSolver.(*DualQP).matrix)
}

func TestBFGSSkipsNonpositiveCurvature(t *testing.T) {
	h, o, q, r, s := hessianRig(t, 2,
		[]float64{0, 0}, []float64{1, 0},
		[]float64{1, 0}, []float64{0, 0}) // 𝐬ᵀ𝐲 = -1

	h.UpdateHessian(o, q, r, s)

	w := h.Matrix()
	require.Equal(t, 1.0, w.At(0, 0))
	require.Equal(t, 0.0, w.At(0, 1))
	require.Equal(t, 1.0, w.At(1, 1))
}
