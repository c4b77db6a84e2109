// Copyright ©2026 nsopt. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vec provides the dense vector algebra used by the solver:
// scaled addition, inner products, 2- and ∞-norms, and linear combinations.
package vec

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Vector is an ordered sequence of float64 values in ℝⁿ.
type Vector struct {
	values []float64
}

// New creates a zero vector of length n.
func New(n int) *Vector {
	if n <= 0 {
		panic("vector length must greater than 0")
	}
	return &Vector{values: make([]float64, n)}
}

// Of creates a vector holding a copy of the given values.
func Of(values ...float64) *Vector {
	v := New(len(values))
	copy(v.values, values)
	return v
}

// Length returns the number of elements.
func (v *Vector) Length() int { return len(v.values) }

// Values returns the backing slice. Mutating it mutates the vector.
func (v *Vector) Values() []float64 { return v.values }

// At returns the i-th element.
func (v *Vector) At(i int) float64 { return v.values[i] }

// Copy returns a new vector with the same values.
func (v *Vector) Copy() *Vector {
	return Of(v.values...)
}

// SetZero sets every element to zero.
func (v *Vector) SetZero() {
	for i := range v.values {
		v.values[i] = 0
	}
}

// CopyFrom overwrites the elements with those of u.
func (v *Vector) CopyFrom(u *Vector) {
	copy(v.values, u.values)
}

// Scale multiplies every element by a.
func (v *Vector) Scale(a float64) {
	floats.Scale(a, v.values)
}

// AddScaledVector performs 𝐯 ← 𝐯 + a·𝐮.
func (v *Vector) AddScaledVector(a float64, u *Vector) {
	floats.AddScaled(v.values, a, u.values)
}

// InnerProduct returns ⟨𝐯, 𝐮⟩.
func (v *Vector) InnerProduct(u *Vector) float64 {
	return floats.Dot(v.values, u.values)
}

// Norm2 returns ‖𝐯‖₂.
func (v *Vector) Norm2() float64 {
	return floats.Norm(v.values, 2)
}

// NormInf returns ‖𝐯‖∞.
func (v *Vector) NormInf() float64 {
	return floats.Norm(v.values, math.Inf(1))
}

// LinearCombination returns the new vector a·𝐯 + b·𝐮.
func (v *Vector) LinearCombination(a, b float64, u *Vector) *Vector {
	w := New(len(v.values))
	for i := range w.values {
		w.values[i] = a*v.values[i] + b*u.values[i]
	}
	return w
}
