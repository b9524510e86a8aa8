// Package ui implements the interactive token browser: a filter input over
// every typeable name, a scrolling result list and a detail pane with the
// selected token's timeline. Strictly read-only over the built registry.
package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"tokensheet/internal/osver"
	"tokensheet/internal/registry"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	detailStyle   = lipgloss.NewStyle().PaddingLeft(2)
)

// browseItem is one list row: a token with the names it answers to at the
// browsed point.
type browseItem struct {
	value   []byte
	display string
	names   []string
}

func (it browseItem) hex() string {
	var b strings.Builder
	for _, by := range it.value {
		fmt.Fprintf(&b, "$%02X", by)
	}
	return b.String()
}

type browseModel struct {
	reg    *registry.Registry
	at     osver.Point
	filter textinput.Model

	items   []browseItem // all items, fixed order
	visible []int        // indexes into items matching the filter
	cursor  int          // position within visible
	offset  int          // list window scroll
	height  int
	width   int
}

// NewBrowseModel builds the browser over every token active at the given
// point in the given language.
func NewBrowseModel(reg *registry.Registry, at osver.Point, lang string) tea.Model {
	ti := textinput.New()
	ti.Placeholder = "type to filter names"
	ti.Prompt = "/ "
	ti.Focus()

	var items []browseItem
	for _, tok := range reg.Tokens() {
		ver, ok := reg.Resolve(tok.Value, at)
		if !ok {
			continue
		}
		tr, ok := ver.Translation(lang)
		if !ok {
			continue
		}
		items = append(items, browseItem{
			value:   tok.Value,
			display: tr.Display,
			names:   tr.Names(),
		})
	}

	m := &browseModel{
		reg:    reg,
		at:     at,
		filter: ti,
		items:  items,
		height: 24,
		width:  80,
	}
	m.applyFilter("")
	return m
}

func (m *browseModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			m.move(-1)
			return m, nil
		case tea.KeyDown:
			m.move(1)
			return m, nil
		case tea.KeyPgUp:
			m.move(-m.listHeight())
			return m, nil
		case tea.KeyPgDown:
			m.move(m.listHeight())
			return m, nil
		}
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.applyFilter(m.filter.Value())
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
		}
		if msg.Height > 0 {
			m.height = msg.Height
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	return m, cmd
}

// applyFilter recomputes the visible rows: case-insensitive substring match
// over names and the hex value.
func (m *browseModel) applyFilter(query string) {
	query = strings.ToLower(strings.TrimSpace(query))
	m.visible = m.visible[:0]
	for i, it := range m.items {
		if query == "" || matches(it, query) {
			m.visible = append(m.visible, i)
		}
	}
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.offset = 0
}

func matches(it browseItem, query string) bool {
	if strings.Contains(strings.ToLower(it.hex()), query) {
		return true
	}
	for _, name := range it.names {
		if strings.Contains(strings.ToLower(name), query) {
			return true
		}
	}
	return false
}

func (m *browseModel) move(delta int) {
	if len(m.visible) == 0 {
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
}

func (m *browseModel) listHeight() int {
	// header + filter + blank + detail pane
	h := m.height - 10
	if h < 3 {
		h = 3
	}
	return h
}

func (m *browseModel) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", titleStyle.Render("tokensheet browse"), dimStyle.Render("@ "+m.at.String()))
	b.WriteString(m.filter.View())
	b.WriteString("\n\n")

	h := m.listHeight()
	end := m.offset + h
	if end > len(m.visible) {
		end = len(m.visible)
	}
	for row := m.offset; row < end; row++ {
		it := m.items[m.visible[row]]
		line := fmt.Sprintf(" %-8s %s", it.hex(), truncate(it.display, 24))
		if row == m.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if len(m.visible) == 0 {
		b.WriteString(dimStyle.Render(" no tokens match\n"))
	}

	b.WriteByte('\n')
	b.WriteString(m.detail())
	b.WriteString(dimStyle.Render("\n↑/↓ select · type to filter · esc quit\n"))
	return b.String()
}

// detail renders the selected token's full timeline and names.
func (m *browseModel) detail() string {
	if len(m.visible) == 0 || m.cursor >= len(m.visible) {
		return ""
	}
	it := m.items[m.visible[m.cursor]]

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", titleStyle.Render(it.hex()), it.display)
	fmt.Fprintf(&b, "names: %s\n", strings.Join(it.names, ", "))

	if tl, ok := m.reg.TimelineOf(it.value); ok {
		for _, ver := range tl.Records() {
			langs := make([]string, 0, len(ver.Langs))
			for code := range ver.Langs {
				langs = append(langs, code)
			}
			sort.Strings(langs)
			fmt.Fprintf(&b, "%s  langs: %s\n", ver.Interval(), strings.Join(langs, ","))
		}
	}
	return detailStyle.Render(b.String()) + "\n"
}

// truncate cuts a string to a display width; calculator glyphs are wide.
func truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
