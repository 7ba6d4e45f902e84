// Package vector provides a flat inner-product index over normalized embeddings.
//
// The index is positional: slot i corresponds to the i-th document in the
// document store. It performs raw inner product only; normalizing vectors at
// build time and query time is the caller's responsibility, so that the
// normalization invariant lives in one place.
package vector

import (
	"fmt"
	"sort"
)

// Flat is a brute-force inner-product index. Positions are assigned in
// insertion order and never reused; removal is done by rebuilding.
type Flat struct {
	dimension int
	vectors   [][]float32
}

// NewFlat creates an empty index for vectors of the given dimensionality.
func NewFlat(dimension int) (*Flat, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrBadDimension, dimension)
	}
	return &Flat{
		dimension: dimension,
		vectors:   make([][]float32, 0),
	}, nil
}

// Dimension returns the vector dimensionality the index was created with.
func (f *Flat) Dimension() int {
	return f.dimension
}

// Size returns the number of vectors in the index.
func (f *Flat) Size() int {
	return len(f.vectors)
}

// Add appends vectors to the index in order. Each vector must have the index
// dimension; vectors are copied, so callers may reuse their slices.
func (f *Flat) Add(vectors [][]float32) error {
	for _, v := range vectors {
		if len(v) != f.dimension {
			return fmt.Errorf("%w: got %d, expected %d", ErrDimensionMismatch, len(v), f.dimension)
		}
	}
	for _, v := range vectors {
		vec := make([]float32, f.dimension)
		copy(vec, v)
		f.vectors = append(f.vectors, vec)
	}
	return nil
}

// Search returns the k highest inner-product matches as parallel slices of
// scores and positions, sorted descending by score with ties broken by
// ascending position. When the index holds fewer than k vectors, the tail is
// padded with sentinel positions >= Size() (score 0) that callers must filter
// out. Returns ErrEmptyIndex when no vectors are stored.
func (f *Flat) Search(query []float32, k int) ([]float64, []int, error) {
	if len(f.vectors) == 0 {
		return nil, nil, ErrEmptyIndex
	}
	if len(query) != f.dimension {
		return nil, nil, fmt.Errorf("%w: query has %d, expected %d", ErrDimensionMismatch, len(query), f.dimension)
	}
	if k <= 0 {
		return []float64{}, []int{}, nil
	}

	scores := make([]float64, len(f.vectors))
	positions := make([]int, len(f.vectors))
	for i, vec := range f.vectors {
		scores[i] = InnerProduct(query, vec)
		positions[i] = i
	}
	// Stable keeps equal scores in ascending position order.
	sort.SliceStable(positions, func(i, j int) bool {
		return scores[positions[i]] > scores[positions[j]]
	})

	outScores := make([]float64, k)
	outPositions := make([]int, k)
	for i := 0; i < k; i++ {
		if i < len(positions) {
			outScores[i] = scores[positions[i]]
			outPositions[i] = positions[i]
		} else {
			// Sentinel slot: position past the stored count.
			outScores[i] = 0
			outPositions[i] = len(f.vectors) + (i - len(positions))
		}
	}
	return outScores, outPositions, nil
}
