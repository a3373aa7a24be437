// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

// Chunks splits s into consecutive sub-slices of at most size elements,
// preserving order. The sub-slices share s's backing array. A non-positive
// size returns s as a single chunk.
func Chunks[T any](s []T, size int) [][]T {
	if len(s) == 0 {
		return nil
	}
	if size <= 0 || size >= len(s) {
		return [][]T{s}
	}
	out := make([][]T, 0, (len(s)+size-1)/size)
	for i := 0; i < len(s); i += size {
		end := min(i+size, len(s))
		out = append(out, s[i:end:end])
	}
	return out
}
