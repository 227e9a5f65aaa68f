package picker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nikbrunner/bkmr/internal/model"
	"github.com/nikbrunner/bkmr/internal/search"
)

var (
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true)

	tagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			Bold(true)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
)

// Action is what the user chose to do with the selected bookmark.
type Action int

const (
	ActionNone Action = iota
	ActionOpen
	ActionEdit
	ActionYank
)

// linesPerItem is the number of rows one bookmark takes in the list.
const linesPerItem = 2

// Picker is a type-to-filter TUI for choosing one bookmark.
type Picker struct {
	bookmarks []model.Bookmark
	results   []search.FuzzyResult
	input     textinput.Model
	keys      KeyMap
	cursor    int
	action    Action
	cancelled bool
	width     int
	height    int
}

// New creates a new Picker over bookmarks with an initial query.
func New(bookmarks []model.Bookmark, query string) Picker {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "type to filter..."
	input.SetValue(query)
	input.Focus()

	p := Picker{
		bookmarks: bookmarks,
		input:     input,
		keys:      DefaultKeyMap(),
		width:     80,
		height:    24,
	}
	p.refilter()
	return p
}

// Init implements tea.Model.
func (p Picker) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.Cancel):
			p.cancelled = true
			return p, tea.Quit

		case key.Matches(msg, p.keys.Open):
			return p.choose(ActionOpen)

		case key.Matches(msg, p.keys.Edit):
			return p.choose(ActionEdit)

		case key.Matches(msg, p.keys.Yank):
			return p.choose(ActionYank)

		case key.Matches(msg, p.keys.Down):
			if p.cursor < len(p.results)-1 {
				p.cursor++
			}
			return p, nil

		case key.Matches(msg, p.keys.Up):
			if p.cursor > 0 {
				p.cursor--
			}
			return p, nil
		}
	}

	previous := p.input.Value()
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if p.input.Value() != previous {
		p.refilter()
	}
	return p, cmd
}

// choose ends the picker with action, unless nothing matches.
func (p Picker) choose(action Action) (tea.Model, tea.Cmd) {
	if len(p.results) == 0 {
		return p, nil
	}
	p.action = action
	return p, tea.Quit
}

func (p *Picker) refilter() {
	p.results = search.FuzzySearchBookmarks(p.bookmarks, p.input.Value())
	p.cursor = 0
}

// View implements tea.Model.
func (p Picker) View() string {
	var b strings.Builder

	// Header
	b.WriteString(headerStyle.Render(fmt.Sprintf("%d/%d bookmarks", len(p.results), len(p.bookmarks))))
	b.WriteString("\n")
	b.WriteString(p.input.View())
	b.WriteString("\n\n")

	// List items, scrolled so the cursor stays visible
	visible := max((p.height-6)/linesPerItem, 1)
	start := 0
	if p.cursor >= visible {
		start = p.cursor - visible + 1
	}
	end := min(start+visible, len(p.results))

	for i := start; i < end; i++ {
		bm := p.results[i].Bookmark
		cursor := "  "
		style := normalStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedStyle
		}

		line := cursor + style.Render(bm.Title)
		if !bm.Tags.Empty() {
			line += " " + tagStyle.Render(bm.Tags.Display())
		}
		b.WriteString(line + "\n")
		b.WriteString("   " + urlStyle.Render(truncate(bm.URL, p.width-3)) + "\n")
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(footerStyle.Render(helpLine(p.keys)))

	return b.String()
}

// Selected returns the chosen bookmark and action. ok is false when the
// user cancelled or nothing was chosen.
func (p Picker) Selected() (bm model.Bookmark, action Action, ok bool) {
	if p.cancelled || p.action == ActionNone || p.cursor >= len(p.results) {
		return model.Bookmark{}, ActionNone, false
	}
	return p.results[p.cursor].Bookmark, p.action, true
}

func helpLine(keys KeyMap) string {
	parts := make([]string, 0, len(keys.helpBindings()))
	for _, binding := range keys.helpBindings() {
		h := binding.Help()
		parts = append(parts, h.Key+": "+h.Desc)
	}
	return strings.Join(parts, "  ")
}

// truncate shortens s to width runes, ending in "…" when cut.
func truncate(s string, width int) string {
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}
