package model_test

import (
	"testing"

	"github.com/nikbrunner/bkmr/internal/model"
)

// Helper for optional clauses
func tagsPtr(raw string) *model.TagSet {
	s := model.ParseTags(raw)
	return &s
}

func TestParseTags_Normalizes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "empty", raw: "", want: ",,"},
		{name: "only delimiters", raw: ",, ,", want: ",,"},
		{name: "trims and lowercases", raw: " Go , RUST", want: ",go,rust,"},
		{name: "dedups", raw: "b,a,a", want: ",a,b,"},
		{name: "sorts", raw: "zsh,bash,fish", want: ",bash,fish,zsh,"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := model.ParseTags(tt.raw).String()
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseTags_Idempotent(t *testing.T) {
	inputs := []string{"", "a", "B,a,a", " x , y ,z", ",rust,rustacean,"}

	for _, in := range inputs {
		once := model.ParseTags(in)
		twice := model.ParseTags(once.String())
		if !once.Equal(twice) {
			t.Errorf("normalize not idempotent for %q: %v vs %v", in, once, twice)
		}
	}
}

func TestParseTags_OrderInsensitive(t *testing.T) {
	if !model.ParseTags("b,a,a").Equal(model.ParseTags("a,b")) {
		t.Error("expected b,a,a and a,b to normalize to the same set")
	}
}

func TestTagSet_PrefixIsNotMember(t *testing.T) {
	set := model.ParseTags("rustacean")

	if set.Has("rust") {
		t.Error("rust must not match a set tagged only rustacean")
	}
	if set.ContainsAll(model.ParseTags("rust")) {
		t.Error("superset check must not match textual prefixes")
	}
}

func TestTagSet_UnionAndWithout(t *testing.T) {
	a := model.ParseTags("x,y")
	b := model.ParseTags("y,z")

	if got := a.Union(b).String(); got != ",x,y,z," {
		t.Errorf("union: got %q", got)
	}
	if got := a.Union(b).Without(model.ParseTags("y")).String(); got != ",x,z," {
		t.Errorf("without: got %q", got)
	}
	if got := a.String(); got != ",x,y," {
		t.Errorf("union must not mutate receiver, got %q", got)
	}
}

func TestTagFilter_Clauses(t *testing.T) {
	tests := []struct {
		name   string
		filter model.TagFilter
		tags   string
		want   bool
	}{
		{name: "no clauses", filter: model.TagFilter{}, tags: "a", want: true},
		{name: "all satisfied", filter: model.TagFilter{All: tagsPtr("a,b")}, tags: "a,b,c", want: true},
		{name: "all missing one", filter: model.TagFilter{All: tagsPtr("a,b")}, tags: "a,c", want: false},
		{name: "allNot all present", filter: model.TagFilter{AllNot: tagsPtr("a,b")}, tags: "a,b", want: false},
		{name: "allNot partially present", filter: model.TagFilter{AllNot: tagsPtr("a,b")}, tags: "a", want: true},
		{name: "any shared", filter: model.TagFilter{Any: tagsPtr("x,b")}, tags: "a,b", want: true},
		{name: "any disjoint", filter: model.TagFilter{Any: tagsPtr("x,y")}, tags: "a,b", want: false},
		{name: "anyNot shared", filter: model.TagFilter{AnyNot: tagsPtr("x,b")}, tags: "a,b", want: false},
		{name: "anyNot disjoint", filter: model.TagFilter{AnyNot: tagsPtr("x,y")}, tags: "a,b", want: true},
		{name: "exact equal", filter: model.TagFilter{Exact: tagsPtr("b,a")}, tags: "a,b", want: true},
		{name: "exact superset", filter: model.TagFilter{Exact: tagsPtr("a")}, tags: "a,b", want: false},
		{name: "prefix merged into all", filter: model.TagFilter{All: tagsPtr("a"), Prefix: tagsPtr("p")}, tags: "a", want: false},
		{name: "prefix alone", filter: model.TagFilter{Prefix: tagsPtr("p")}, tags: "p,q", want: true},
		{name: "all and anyNot irreconcilable", filter: model.TagFilter{All: tagsPtr("a"), AnyNot: tagsPtr("a")}, tags: "a", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Matches(model.ParseTags(tt.tags))
			if got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.tags, got, tt.want)
			}
		})
	}
}

func TestTagFilter_IrreconcilableForAnyBookmark(t *testing.T) {
	filter := model.TagFilter{All: tagsPtr("a"), AnyNot: tagsPtr("a")}

	for _, raw := range []string{"", "a", "b", "a,b"} {
		if filter.Matches(model.ParseTags(raw)) {
			t.Errorf("expected no match for %q", raw)
		}
	}
}

func TestNewTagFilter_EmptyValuesAreAbsent(t *testing.T) {
	f := model.NewTagFilter(model.TagFilterParams{All: " , ", Any: "go"})

	if f.All != nil {
		t.Error("expected empty all clause to be absent")
	}
	if f.Any == nil || f.Any.String() != ",go," {
		t.Errorf("expected any clause ,go, got %v", f.Any)
	}
	if f.IsZero() {
		t.Error("filter with any clause must not be zero")
	}
}

func TestCountTags(t *testing.T) {
	counts := model.CountTags([]model.TagSet{
		model.ParseTags("go,cli"),
		model.ParseTags("go"),
		model.ParseTags("rust,cli"),
	})

	want := []model.TagCount{
		{Tag: "cli", Count: 2},
		{Tag: "go", Count: 2},
		{Tag: "rust", Count: 1},
	}
	if len(counts) != len(want) {
		t.Fatalf("expected %d counts, got %d", len(want), len(counts))
	}
	for i := range want {
		if counts[i] != want[i] {
			t.Errorf("counts[%d] = %+v, want %+v", i, counts[i], want[i])
		}
	}
}
