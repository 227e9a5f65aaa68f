package model

import (
	"cmp"
	"slices"
)

// CountTags tallies how many of the given sets carry each tag.
// Results are ordered by count descending, then by tag.
func CountTags(sets []TagSet) []TagCount {
	counts := make(map[string]int)
	for _, s := range sets {
		for _, t := range s {
			counts[t]++
		}
	}

	result := make([]TagCount, 0, len(counts))
	for tag, n := range counts {
		result = append(result, TagCount{Tag: tag, Count: n})
	}
	slices.SortFunc(result, func(a, b TagCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Tag, b.Tag)
	})
	return result
}
