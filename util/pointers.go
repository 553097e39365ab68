package util

// Ptr returns a pointer to the given value.
func Ptr[T any](v T) *T {
	return &v
}

// Deref returns the value pointed to by p, or the zero value if p is nil.
func Deref[T any](p *T) T {
	if p != nil {
		return *p
	}
	var zero T
	return zero
}

// Override returns override when it is non-nil, otherwise base.
func Override[T any](base, override *T) *T {
	if override != nil {
		return override
	}
	return base
}
