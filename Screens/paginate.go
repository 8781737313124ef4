package Screens

// PageSize is the number of rows per table page.
const PageSize = 20

// PageCount is ⌈n / PageSize⌉.
func PageCount(n int) int {
	return (n + PageSize - 1) / PageSize
}

// PageOf slices page n (1-based) out of list. Pages past either end are
// empty rather than clamped.
func PageOf[T any](list []T, n int) []T {
	start := (n - 1) * PageSize
	if n < 1 || start >= len(list) {
		return []T{}
	}
	end := start + PageSize
	if end > len(list) {
		end = len(list)
	}
	return list[start:end]
}
