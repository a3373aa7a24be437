// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import "math"

// Vector counts an author's publications per venue. Position i refers to the
// i-th venue discovered in this process, so vectors built at different times
// may differ in length.
type Vector []int

// IsZero reports whether every entry is zero (an empty vector is zero).
func (v Vector) IsZero() bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

// Pad returns a and b right-padded with zeros to the same length. The inputs
// are not modified.
func Pad(a, b Vector) (Vector, Vector) {
	n := max(len(a), len(b))
	return padTo(a, n), padTo(b, n)
}

func padTo(v Vector, n int) Vector {
	if len(v) == n {
		return v
	}
	out := make(Vector, n)
	copy(out, v)
	return out
}

// PaddedCosine returns the cosine similarity of a and b after padding the
// shorter with zeros. It is 0 when either vector is all zeros.
func PaddedCosine(a, b Vector) float64 {
	if a.IsZero() || b.IsZero() {
		return 0
	}
	a, b = Pad(a, b)

	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	return dot / math.Sqrt(na*nb)
}
