package common

// Coalesce returns the first value that is not the zero value of T. Staging data uses the zero value
// for "unset", so descriptors fall back to a backend default with Coalesce(field, fallback).
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}
