package process

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nikbrunner/bkmr/internal/model"
)

// Renderer prints numbered result lists.
type Renderer struct {
	out   io.Writer
	color bool

	title       lipgloss.Style
	id          lipgloss.Style
	url         lipgloss.Style
	description lipgloss.Style
	tags        lipgloss.Style
}

// NewRenderer creates a Renderer writing to out. Colors are used only when
// color is set and out supports them.
func NewRenderer(out io.Writer, color bool) *Renderer {
	r := lipgloss.NewRenderer(out)
	return &Renderer{
		out:         out,
		color:       color,
		title:       r.NewStyle().Foreground(lipgloss.Color("2")),
		id:          r.NewStyle().Foreground(lipgloss.Color("7")),
		url:         r.NewStyle().Foreground(lipgloss.Color("3")),
		description: r.NewStyle().Foreground(lipgloss.Color("7")),
		tags:        r.NewStyle().Foreground(lipgloss.Color("4")),
	}
}

// Render writes each bookmark under its 1-based ordinal.
func (r *Renderer) Render(bookmarks []model.Bookmark) error {
	width := len(strconv.Itoa(len(bookmarks)))
	indent := strings.Repeat(" ", width+2)

	var b strings.Builder
	for i, bm := range bookmarks {
		b.WriteString(r.paint(r.title, fmt.Sprintf("%*d. %s", width, i+1, bm.Title)))
		b.WriteString(r.paint(r.id, fmt.Sprintf(" [%d]", bm.ID)))
		b.WriteString("\n")

		b.WriteString(indent + r.paint(r.url, bm.URL) + "\n")
		if bm.Description != "" {
			b.WriteString(indent + r.paint(r.description, bm.Description) + "\n")
		}
		if !bm.Tags.Empty() {
			b.WriteString(indent + r.paint(r.tags, bm.Tags.Display()) + "\n")
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(r.out, b.String())
	return err
}

func (r *Renderer) paint(style lipgloss.Style, s string) string {
	if !r.color {
		return s
	}
	return style.Render(s)
}
