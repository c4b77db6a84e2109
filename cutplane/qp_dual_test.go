// Copyright ©2026 nsopt. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cutplane

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/nsopt/nsopt/vec"
)

func newDualQP(t *testing.T, n int) (*DualQP, *Options, *Quantities, *Reporter) {
	t.Helper()
	qs := NewDualQP()
	o := NewOptions()
	qs.AddOptions(o)
	qs.SetOptions(o)

	q := NewQuantities(&Funcs{
		N:   n,
		Obj: func(x []float64) (float64, error) { return 0, nil },
	})
	q.Initialize(make([]float64, n))
	r := NewReporter(nil, ReportNone, zerolog.Nop())
	qs.Initialize(o, q, r)
	return qs, o, q, r
}

func TestDualQPSingleCut(t *testing.T) {
	qs, o, q, r := newDualQP(t, 2)
	qs.SetScalar(1.0)
	qs.SetVectorList([]*vec.Vector{vec.Of(2, 0)})
	qs.SetVector([]float64{1})

	qs.SolveQP(o, r, q)

	require.Equal(t, QPSuccess, qs.Status())
	require.Equal(t, 1, qs.VectorListLength())

	// 𝐝 = −𝐠 clipped to the trust region box.
	d := make([]float64, 2)
	qs.PrimalSolution(d)
	require.Equal(t, []float64{-1, 0}, d)
	require.Equal(t, 1.0, qs.PrimalSolutionNormInf())
	require.Equal(t, 1.0, qs.PrimalSolutionNorm2Squared())
	require.Equal(t, 2.0, qs.DualObjectiveQuadraticValue())
	require.Equal(t, 4.0, qs.CombinationTranslatedNorm2Squared())

	require.Equal(t, 1, qs.DualSolutionOmegaLength())
	omega := make([]float64, 1)
	qs.DualSolutionOmega(omega)
	require.Equal(t, []float64{1}, omega)
}

func TestDualQPTwoCutsBalance(t *testing.T) {
	qs, o, q, r := newDualQP(t, 2)
	qs.SetScalar(10.0)
	qs.SetVectorList([]*vec.Vector{vec.Of(1, 0), vec.Of(0, 1)})
	qs.SetVector([]float64{1, 1})

	qs.SolveQP(o, r, q)

	require.Equal(t, QPSuccess, qs.Status())
	d := make([]float64, 2)
	qs.PrimalSolution(d)
	require.InDelta(t, -0.5, d[0], 1e-06)
	require.InDelta(t, -0.5, d[1], 1e-06)

	omega := make([]float64, 2)
	qs.DualSolutionOmega(omega)
	require.InDelta(t, 0.5, omega[0], 1e-06)
	require.InDelta(t, 0.5, omega[1], 1e-06)
	require.LessOrEqual(t, qs.KKTErrorDual(), 1e-08)
}

func TestDualQPHotStartMatchesCold(t *testing.T) {
	hot, o, q, r := newDualQP(t, 2)
	hot.SetScalar(10.0)
	hot.SetVectorList([]*vec.Vector{vec.Of(1, 0)})
	hot.SetVector([]float64{1})
	hot.SolveQP(o, r, q)

	hot.AddData([]*vec.Vector{vec.Of(0, 1)}, []float64{1})
	hot.SolveQPHot(o, r, q)
	require.Equal(t, 2, hot.VectorListLength())

	cold, _, _, _ := newDualQP(t, 2)
	cold.SetScalar(10.0)
	cold.SetVectorList([]*vec.Vector{vec.Of(1, 0), vec.Of(0, 1)})
	cold.SetVector([]float64{1, 1})
	cold.SolveQP(o, r, q)

	dHot, dCold := make([]float64, 2), make([]float64, 2)
	hot.PrimalSolution(dHot)
	cold.PrimalSolution(dCold)
	require.InDelta(t, dCold[0], dHot[0], 1e-06)
	require.InDelta(t, dCold[1], dHot[1], 1e-06)
}

func TestDualQPInverseHessianModel(t *testing.T) {
	qs, o, q, r := newDualQP(t, 1)
	qs.SetScalar(5.0)
	qs.SetMatrix(mat.NewSymDense(1, []float64{2}))
	qs.SetVectorList([]*vec.Vector{vec.Of(1)})
	qs.SetVector([]float64{1})

	qs.SolveQP(o, r, q)

	d := make([]float64, 1)
	qs.PrimalSolution(d)
	require.Equal(t, []float64{-2}, d)
	require.Equal(t, 1.0, qs.DualObjectiveQuadraticValue())
}

func TestDualQPReset(t *testing.T) {
	qs, o, q, r := newDualQP(t, 2)
	qs.SetScalar(1.0)
	qs.SetVectorList([]*vec.Vector{vec.Of(1, 1)})
	qs.SetVector([]float64{1})
	qs.SolveQP(o, r, q)
	require.Positive(t, qs.PrimalSolutionNormInf())

	qs.SetPrimalSolutionToZero()
	require.Zero(t, qs.PrimalSolutionNormInf())
	require.Equal(t, QPUnset, qs.Status())
}

func TestDualQPEmptyBundleFails(t *testing.T) {
	qs, o, q, r := newDualQP(t, 2)
	qs.SetVectorList(nil)
	qs.SetVector(nil)
	qs.SolveQP(o, r, q)
	require.Equal(t, QPFailure, qs.Status())
}

func TestProjectSimplex(t *testing.T) {
	cases := []struct {
		in   []float64
		want []float64
	}{
		{[]float64{1}, []float64{1}},
		{[]float64{0.5, 0.5}, []float64{0.5, 0.5}},
		{[]float64{2, 0}, []float64{1, 0}},
		{[]float64{-1, 1}, []float64{0, 1}},
		{[]float64{0.8, 0.6}, []float64{0.6, 0.4}},
	}
	for _, c := range cases {
		v := append([]float64(nil), c.in...)
		projectSimplex(v)
		sum := 0.0
		for i, got := range v {
			require.InDelta(t, c.want[i], got, 1e-12, "input %v", c.in)
			require.GreaterOrEqual(t, got, 0.0)
			sum += got
		}
		require.InDelta(t, 1.0, sum, 1e-12)
	}
}
