package catalog

// DefaultPageSize is the number of resources shown per page.
const DefaultPageSize = 12

// Partition splits pageSize across sources request limits. Every source but
// the last gets pageSize/sources; the last one also takes the remainder, so
// the limits always sum to pageSize.
//
// The distribution is deliberately uneven (weighted to the last source).
// Returns nil when sources < 1 or pageSize < 1.
func Partition(pageSize, sources int) []int {
	if sources < 1 || pageSize < 1 {
		return nil
	}
	base := pageSize / sources
	out := make([]int, sources)
	for i := range out {
		out[i] = base
	}
	out[sources-1] = base + pageSize%sources
	return out
}
