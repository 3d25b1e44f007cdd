package model

// DefaultPopularityThreshold is the interaction count a post must exceed to count as popular.
const DefaultPopularityThreshold = 10000

// TotalInteractions sums the four engagement counters.
func TotalInteractions(p Post) int {
	return p.DiggCount + p.ShareCount + p.CommentCount + p.PlayCount
}

// IsPopular reports whether total strictly exceeds threshold. Ties are not popular.
func IsPopular(total, threshold int) bool {
	return total > threshold
}

// PopularityLabel derives the supervised 0/1 target for a post.
func PopularityLabel(p Post, threshold int) int {
	if IsPopular(TotalInteractions(p), threshold) {
		return 1
	}
	return 0
}
