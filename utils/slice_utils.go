package utils

// SliceSelect provides a way of querying a specific element from a slice's elements into a slice of its own.
func SliceSelect[T any, K any](x []T, f func(x T) K) []K {
	r := make([]K, len(x))
	for i := 0; i < len(x); i++ {
		r[i] = f(x[i])
	}
	return r
}

// SliceWhere provides a way of querying specific elements which fit some criteria into a new slice.
func SliceWhere[T any](x []T, f func(x T) bool) []T {
	r := make([]T, 0)
	for i := 0; i < len(x); i++ {
		if f(x[i]) {
			r = append(r, x[i])
		}
	}
	return r
}

// PairCombinations returns every unordered pair of distinct elements from the provided slice, preserving the input
// ordering of the first element. For an input of n elements, n*(n-1)/2 pairs are returned.
func PairCombinations[T any](choices []T) [][2]T {
	pairs := make([][2]T, 0, len(choices)*(len(choices)-1)/2)
	for i := 0; i < len(choices); i++ {
		for j := i + 1; j < len(choices); j++ {
			pairs = append(pairs, [2]T{choices[i], choices[j]})
		}
	}
	return pairs
}
