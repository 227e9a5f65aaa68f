package model

import (
	"slices"
	"strings"
)

// TagDelimiter separates tags in the canonical textual form.
const TagDelimiter = ","

// TagSet is a sorted set of lowercase, non-empty tags.
// Build it with ParseTags or NewTagSet so the invariant holds.
type TagSet []string

// NewTagSet normalizes the given tokens into a TagSet.
func NewTagSet(tokens ...string) TagSet {
	set := make(TagSet, 0, len(tokens))
	for _, t := range tokens {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		set = append(set, t)
	}
	slices.Sort(set)
	return slices.Compact(set)
}

// ParseTags splits a comma separated list and normalizes it.
// Parsing the canonical form of a TagSet yields the same TagSet.
func ParseTags(raw string) TagSet {
	return NewTagSet(strings.Split(raw, TagDelimiter)...)
}

// String returns the canonical form: sorted tags framed by delimiters,
// e.g. ",go,rust,". The empty set renders as ",,".
// Framing makes ",rust," a substring of the canonical form only for sets
// that contain the tag "rust" itself, never "rustacean".
func (s TagSet) String() string {
	return TagDelimiter + strings.Join(s, TagDelimiter) + TagDelimiter
}

// Display returns the tags separated by spaces.
func (s TagSet) Display() string {
	return strings.Join(s, " ")
}

// Empty reports whether the set has no tags.
func (s TagSet) Empty() bool {
	return len(s) == 0
}

// Has reports whether tag is a member of the set.
func (s TagSet) Has(tag string) bool {
	_, found := slices.BinarySearch(s, tag)
	return found
}

// Equal reports whether both sets contain the same tags.
func (s TagSet) Equal(other TagSet) bool {
	return slices.Equal(s, other)
}

// ContainsAll reports whether s is a superset of other.
func (s TagSet) ContainsAll(other TagSet) bool {
	for _, t := range other {
		if !s.Has(t) {
			return false
		}
	}
	return true
}

// Intersects reports whether s and other share at least one tag.
func (s TagSet) Intersects(other TagSet) bool {
	for _, t := range other {
		if s.Has(t) {
			return true
		}
	}
	return false
}

// Union returns a new set with the tags of both sets.
func (s TagSet) Union(other TagSet) TagSet {
	merged := make([]string, 0, len(s)+len(other))
	merged = append(merged, s...)
	merged = append(merged, other...)
	return NewTagSet(merged...)
}

// Without returns a new set with the tags of other removed.
func (s TagSet) Without(other TagSet) TagSet {
	result := make(TagSet, 0, len(s))
	for _, t := range s {
		if !other.Has(t) {
			result = append(result, t)
		}
	}
	return result
}
