package process

import (
	"fmt"
	"strings"

	"github.com/nikbrunner/bkmr/internal/model"
)

const templateComment = "#"

// templateFields is the number of significant lines in an edit template:
// url, title, tags and description.
const templateFields = 4

// RenderTemplate returns the editable text form of a bookmark.
func RenderTemplate(bm model.Bookmark) string {
	var b strings.Builder
	b.WriteString("# Lines starting with \"#\" are ignored.\n")
	b.WriteString("# URL (single line):\n")
	b.WriteString(bm.URL + "\n")
	b.WriteString("# TITLE (single line, may be blank):\n")
	b.WriteString(bm.Title + "\n")
	b.WriteString("# TAGS, comma separated (single line):\n")
	b.WriteString(strings.Join(bm.Tags, model.TagDelimiter) + "\n")
	b.WriteString("# DESCRIPTION (single line, may be blank):\n")
	b.WriteString(bm.Description + "\n")
	return b.String()
}

// ParseTemplate reads an edited template back into a copy of bm.
// The first four non-comment lines are url, title, tags and description.
func ParseTemplate(bm model.Bookmark, content string) (model.Bookmark, error) {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.HasPrefix(line, templateComment) {
			continue
		}
		lines = append(lines, line)
	}

	if len(lines) < templateFields {
		return model.Bookmark{}, fmt.Errorf("expected %d lines, got %d: %w", templateFields, len(lines), model.ErrEditParse)
	}

	url := strings.TrimSpace(lines[0])
	if url == "" {
		return model.Bookmark{}, fmt.Errorf("empty url: %w", model.ErrEditParse)
	}

	edited := bm
	edited.URL = url
	edited.Title = strings.TrimSpace(lines[1])
	edited.Tags = model.ParseTags(lines[2])
	edited.Description = strings.TrimSpace(lines[3])
	return edited, nil
}
