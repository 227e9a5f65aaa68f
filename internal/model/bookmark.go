package model

import "time"

// Bookmark represents a saved URL with metadata.
// ID is assigned by the store and is unrelated to a bookmark's position in a result list.
type Bookmark struct {
	ID          int       `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        TagSet    `json:"tags"`
	LastUpdate  time.Time `json:"lastUpdate"`
}

// NewBookmark holds the fields of a bookmark that has not been stored yet.
type NewBookmark struct {
	URL         string
	Title       string
	Description string
	Tags        TagSet
}

// NewBookmarkParams holds parameters for creating a NewBookmark.
type NewBookmarkParams struct {
	URL         string
	Title       string
	Description string
	RawTags     string // comma separated
}

// NewBookmarkFrom creates a NewBookmark with normalized tags.
func NewBookmarkFrom(params NewBookmarkParams) NewBookmark {
	return NewBookmark{
		URL:         params.URL,
		Title:       params.Title,
		Description: params.Description,
		Tags:        ParseTags(params.RawTags),
	}
}

// TagCount pairs a tag with the number of bookmarks carrying it.
type TagCount struct {
	Tag   string
	Count int
}
