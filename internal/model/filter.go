package model

// TagFilter is a conjunction of up to five tag clauses.
// A nil clause is absent and always satisfied.
type TagFilter struct {
	All    *TagSet // bookmark tags must contain every tag
	AllNot *TagSet // bookmark tags must not contain every tag
	Any    *TagSet // bookmark tags must share at least one tag
	AnyNot *TagSet // bookmark tags must share no tag
	Exact  *TagSet // bookmark tags must equal the set

	// Prefix is merged into All before evaluation.
	Prefix *TagSet
}

// TagFilterParams holds the raw comma separated clause values.
// Empty strings leave the clause absent.
type TagFilterParams struct {
	All    string
	AllNot string
	Any    string
	AnyNot string
	Exact  string
	Prefix string
}

// NewTagFilter builds a TagFilter from raw option strings.
func NewTagFilter(params TagFilterParams) TagFilter {
	return TagFilter{
		All:    optionalTags(params.All),
		AllNot: optionalTags(params.AllNot),
		Any:    optionalTags(params.Any),
		AnyNot: optionalTags(params.AnyNot),
		Exact:  optionalTags(params.Exact),
		Prefix: optionalTags(params.Prefix),
	}
}

func optionalTags(raw string) *TagSet {
	set := ParseTags(raw)
	if set.Empty() {
		return nil
	}
	return &set
}

// EffectiveAll returns the All clause with Prefix merged in, or nil when both are absent.
func (f TagFilter) EffectiveAll() *TagSet {
	switch {
	case f.All == nil && f.Prefix == nil:
		return nil
	case f.Prefix == nil:
		return f.All
	case f.All == nil:
		return f.Prefix
	}
	merged := f.All.Union(*f.Prefix)
	return &merged
}

// Matches reports whether tags satisfy every present clause.
func (f TagFilter) Matches(tags TagSet) bool {
	if f.Exact != nil && !tags.Equal(*f.Exact) {
		return false
	}
	if all := f.EffectiveAll(); all != nil && !tags.ContainsAll(*all) {
		return false
	}
	if f.AllNot != nil && tags.ContainsAll(*f.AllNot) {
		return false
	}
	if f.Any != nil && !tags.Intersects(*f.Any) {
		return false
	}
	if f.AnyNot != nil && tags.Intersects(*f.AnyNot) {
		return false
	}
	return true
}

// IsZero reports whether no clause is present.
func (f TagFilter) IsZero() bool {
	return f.All == nil && f.AllNot == nil && f.Any == nil &&
		f.AnyNot == nil && f.Exact == nil && f.Prefix == nil
}
