package common

// IsEmpty returns true if the slice is empty.
func IsEmpty[S ~[]E, E any](s S) bool {
	return len(s) == 0
}

// Unique returns the distinct elements of s in order of first appearance.
func Unique[S ~[]E, E comparable](s S) S {
	seen := make(map[E]struct{}, len(s))
	out := make(S, 0, len(s))

	for _, v := range s {
		if _, ok := seen[v]; ok {
			continue
		}

		seen[v] = struct{}{}
		out = append(out, v)
	}

	return out
}

// MoveTo moves the first occurrence of v to position idx, shifting the
// elements in between. idx is clamped to the slice bounds. The slice is
// returned unchanged when v is absent.
func MoveTo[S ~[]E, E comparable](s S, v E, idx int) S {
	from := -1

	for i := range s {
		if s[i] == v {
			from = i
			break
		}
	}

	if from < 0 {
		return s
	}

	out := make(S, 0, len(s))
	out = append(out, s[:from]...)
	out = append(out, s[from+1:]...)

	idx = max(0, min(idx, len(out)))

	out = append(out[:idx], append(S{v}, out[idx:]...)...)

	return out
}
