// Package vectorizer provides text vectorization utilities for the
// statistical field classifier.
package vectorizer

import "math"

// SparseVector represents a sparse float64 vector.
type SparseVector struct {
	Indices []int
	Values  []float64
	Dim     int
}

// NewSparseVector creates a sparse vector with given dimension.
func NewSparseVector(dim int) SparseVector {
	return SparseVector{Dim: dim}
}

// Set adds or updates a value at the given index.
func (sv *SparseVector) Set(idx int, val float64) {
	for i, existingIdx := range sv.Indices {
		if existingIdx == idx {
			sv.Values[i] = val
			return
		}
	}
	sv.Indices = append(sv.Indices, idx)
	sv.Values = append(sv.Values, val)
}

// Dot computes the dot product with a dense vector.
func (sv SparseVector) Dot(dense []float64) float64 {
	var sum float64
	for i, idx := range sv.Indices {
		if idx < len(dense) {
			sum += sv.Values[i] * dense[idx]
		}
	}
	return sum
}

// DotSparse computes the dot product with another sparse vector.
func (sv SparseVector) DotSparse(other SparseVector) float64 {
	if sv.Nnz() > other.Nnz() {
		sv, other = other, sv
	}
	lookup := make(map[int]float64, other.Nnz())
	for i, idx := range other.Indices {
		lookup[idx] = other.Values[i]
	}
	var sum float64
	for i, idx := range sv.Indices {
		if v, ok := lookup[idx]; ok {
			sum += sv.Values[i] * v
		}
	}
	return sum
}

// ToDense converts to a dense float64 slice.
func (sv SparseVector) ToDense() []float64 {
	dense := make([]float64, sv.Dim)
	for i, idx := range sv.Indices {
		if idx < sv.Dim {
			dense[idx] = sv.Values[i]
		}
	}
	return dense
}

// Nnz returns the number of non-zero entries.
func (sv SparseVector) Nnz() int {
	return len(sv.Indices)
}

// L2Norm returns the L2 norm of the sparse vector.
func (sv SparseVector) L2Norm() float64 {
	var sum float64
	for _, v := range sv.Values {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// Normalize scales the vector to unit L2 length in place. A zero vector is
// left unchanged. With both operands normalized, DotSparse is a true cosine
// similarity.
func (sv *SparseVector) Normalize() {
	norm := sv.L2Norm()
	if norm == 0 {
		return
	}
	for i := range sv.Values {
		sv.Values[i] /= norm
	}
}
