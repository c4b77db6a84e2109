// Copyright ©2026 nsopt. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLinearCombination(t *testing.T) {
	v := Of(1, 2, 3)
	u := Of(4, 5, 6)

	w := v.LinearCombination(2, -1, u)
	require.Equal(t, []float64{-2, -1, 0}, w.Values())

	// The operands are untouched.
	require.Equal(t, []float64{1, 2, 3}, v.Values())
	require.Equal(t, []float64{4, 5, 6}, u.Values())
}

func TestAddScaledVector(t *testing.T) {
	v := Of(1, 1)
	v.AddScaledVector(0.5, Of(2, -4))
	require.Equal(t, []float64{2, -1}, v.Values())
}

func TestInnerProductAndNorms(t *testing.T) {
	v := Of(3, -4)
	require.Equal(t, 25.0, v.InnerProduct(v))
	require.Equal(t, 5.0, v.Norm2())
	require.Equal(t, 4.0, v.NormInf())
	require.Equal(t, -11.0, v.InnerProduct(Of(-1, 2)))
}

func TestCopyIsIndependent(t *testing.T) {
	v := Of(1, 2)
	w := v.Copy()
	w.Scale(10)
	require.Equal(t, []float64{1, 2}, v.Values())
	require.Equal(t, []float64{10, 20}, w.Values())
}

func TestSetZero(t *testing.T) {
	v := Of(1, -2, 3)
	v.SetZero()
	require.Equal(t, []float64{0, 0, 0}, v.Values())
}

func TestNewPanicsOnBadLength(t *testing.T) {
	require.Panics(t, func() { New(0) })
}
