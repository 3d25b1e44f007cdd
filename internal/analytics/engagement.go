package analytics

import (
	"sort"

	"clipcast/internal/model"
)

// Bucket counts posts by popularity outcome within one grouping key.
type Bucket struct {
	Popular    int
	NotPopular int
}

// PopularityByHour aggregates posts into per-hour buckets by upload time.
// Posts without a valid timestamp are excluded.
func PopularityByHour(posts []model.Post, threshold int) map[int]Bucket {
	buckets := make(map[int]Bucket)
	for _, p := range posts {
		if !p.TimeValid {
			continue
		}
		b := buckets[p.CreatedAt.Hour()]
		if model.IsPopular(model.TotalInteractions(p), threshold) {
			b.Popular++
		} else {
			b.NotPopular++
		}
		buckets[p.CreatedAt.Hour()] = b
	}
	return buckets
}

// PopularityByDay aggregates posts into per-weekday buckets (Monday..Sunday).
func PopularityByDay(posts []model.Post, threshold int) map[string]Bucket {
	buckets := make(map[string]Bucket)
	for _, p := range posts {
		if !p.TimeValid {
			continue
		}
		day := p.CreatedAt.Weekday().String()
		b := buckets[day]
		if model.IsPopular(model.TotalInteractions(p), threshold) {
			b.Popular++
		} else {
			b.NotPopular++
		}
		buckets[day] = b
	}
	return buckets
}

// SortedHourKeys returns sorted hour keys.
func SortedHourKeys(m map[int]Bucket) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// MusicStat is one track's summed engagement.
type MusicStat struct {
	Music             string
	TotalInteractions int
}

// TopMusic returns the k tracks with the highest summed interactions,
// descending, ties broken by track name.
func TopMusic(posts []model.Post, k int) []MusicStat {
	totals := make(map[string]int)
	for _, p := range posts {
		totals[p.Music] += model.TotalInteractions(p)
	}
	stats := make([]MusicStat, 0, len(totals))
	for m, t := range totals {
		stats = append(stats, MusicStat{Music: m, TotalInteractions: t})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].TotalInteractions != stats[j].TotalInteractions {
			return stats[i].TotalInteractions > stats[j].TotalInteractions
		}
		return stats[i].Music < stats[j].Music
	})
	if k > 0 && len(stats) > k {
		stats = stats[:k]
	}
	return stats
}
