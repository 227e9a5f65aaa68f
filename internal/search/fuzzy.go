package search

import (
	"github.com/nikbrunner/bkmr/internal/model"
	"github.com/sahilm/fuzzy"
)

// FuzzyResult represents a fuzzy search match.
type FuzzyResult struct {
	Bookmark       model.Bookmark
	MatchedIndexes []int // byte offsets into MatchText(Bookmark)
	Score          int
}

// bookmarkSource implements fuzzy.Source over a bookmark slice.
type bookmarkSource []model.Bookmark

func (bs bookmarkSource) String(i int) string {
	return MatchText(bs[i])
}

func (bs bookmarkSource) Len() int {
	return len(bs)
}

// MatchText is the string a bookmark is fuzzy matched against: title, url and tags.
func MatchText(bm model.Bookmark) string {
	text := bm.Title + " " + bm.URL
	if !bm.Tags.Empty() {
		text += " " + bm.Tags.Display()
	}
	return text
}

// FuzzySearchBookmarks ranks bookmarks against query, best match first.
// An empty query returns every bookmark in its original order.
func FuzzySearchBookmarks(bookmarks []model.Bookmark, query string) []FuzzyResult {
	if query == "" {
		results := make([]FuzzyResult, len(bookmarks))
		for i, bm := range bookmarks {
			results[i] = FuzzyResult{Bookmark: bm}
		}
		return results
	}

	matches := fuzzy.FindFrom(query, bookmarkSource(bookmarks))

	results := make([]FuzzyResult, len(matches))
	for i, m := range matches {
		results[i] = FuzzyResult{
			Bookmark:       bookmarks[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}

	return results
}
