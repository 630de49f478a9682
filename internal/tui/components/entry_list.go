package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"shelf/internal/domain"
	"shelf/internal/tui/styles"
)

// Layout constants
const (
	headerLines = 2 // column titles + rule
	footerLines = 1 // filter / hint line
)

// EntryList is the scrollable library table. It owns cursor, scroll
// offset, and the in-column fuzzy filter; the entries themselves come
// from the library store.
type EntryList struct {
	entries []domain.Entry

	cursor int
	offset int

	width  int
	height int

	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
	filteredIdx  []int // indices into entries
}

// NewEntryList creates an empty entry list
func NewEntryList() EntryList {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return EntryList{filterInput: ti}
}

// SetSize sets the rendering area
func (l *EntryList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.clampScroll()
}

// SetEntries replaces the displayed entries, keeping the cursor on the
// same id when it survives the update.
func (l *EntryList) SetEntries(entries []domain.Entry) {
	var selectedID string
	if e, ok := l.Selected(); ok {
		selectedID = e.ID
	}

	l.entries = entries
	l.applyFilter()

	l.cursor = 0
	if selectedID != "" {
		for i, idx := range l.visible() {
			if entries[idx].ID == selectedID {
				l.cursor = i
				break
			}
		}
	}
	l.clampScroll()
}

// Len returns the number of visible (filtered) rows
func (l *EntryList) Len() int {
	return len(l.visible())
}

// Selected returns the entry under the cursor
func (l *EntryList) Selected() (domain.Entry, bool) {
	vis := l.visible()
	if l.cursor < 0 || l.cursor >= len(vis) {
		return domain.Entry{}, false
	}
	return l.entries[vis[l.cursor]], true
}

// CursorUp moves the selection up one row
func (l *EntryList) CursorUp() {
	if l.cursor > 0 {
		l.cursor--
	}
	l.clampScroll()
}

// CursorDown moves the selection down one row
func (l *EntryList) CursorDown() {
	if l.cursor < l.Len()-1 {
		l.cursor++
	}
	l.clampScroll()
}

// FilterActive reports whether the filter input has focus
func (l *EntryList) FilterActive() bool {
	return l.filterActive
}

// StartFilter focuses the filter input
func (l *EntryList) StartFilter() {
	l.filterActive = true
	l.filterInput.SetValue(l.filterQuery)
	l.filterInput.Focus()
}

// ClearFilter drops the query and shows the full list again
func (l *EntryList) ClearFilter() {
	l.filterActive = false
	l.filterQuery = ""
	l.filterInput.Blur()
	l.filterInput.SetValue("")
	l.applyFilter()
	l.cursor = 0
	l.offset = 0
}

// UpdateFilter feeds a key event into the filter input. Enter keeps the
// query and returns focus to the list; esc clears it.
func (l *EntryList) UpdateFilter(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			l.filterActive = false
			l.filterInput.Blur()
			return nil
		case "esc":
			l.ClearFilter()
			return nil
		}
	}

	var cmd tea.Cmd
	l.filterInput, cmd = l.filterInput.Update(msg)
	l.filterQuery = l.filterInput.Value()
	l.applyFilter()
	l.cursor = 0
	l.offset = 0
	return cmd
}

// visible returns indices into entries for the current filter
func (l *EntryList) visible() []int {
	if l.filterQuery == "" {
		idx := make([]int, len(l.entries))
		for i := range l.entries {
			idx[i] = i
		}
		return idx
	}
	return l.filteredIdx
}

func (l *EntryList) applyFilter() {
	if l.filterQuery == "" {
		l.filteredIdx = nil
		return
	}

	lowerNames := make([]string, len(l.entries))
	for i, e := range l.entries {
		lowerNames[i] = strings.ToLower(e.Name)
	}

	matches := fuzzy.Find(strings.ToLower(l.filterQuery), lowerNames)

	l.filteredIdx = make([]int, len(matches))
	for i, match := range matches {
		l.filteredIdx[i] = match.Index
	}
}

func (l *EntryList) maxVisible() int {
	rows := l.height - headerLines - footerLines
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (l *EntryList) clampScroll() {
	max := l.maxVisible()
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+max {
		l.offset = l.cursor - max + 1
	}
	if l.offset < 0 {
		l.offset = 0
	}
}

// View renders the table
func (l *EntryList) View() string {
	var b strings.Builder

	nameW := l.width - 34
	if nameW < 12 {
		nameW = 12
	}

	header := fmt.Sprintf("  %-*s %10s %-8s %s", nameW, "Name", "Size", "Owner", "Modified")
	b.WriteString(styles.SubtitleStyle.Render(truncate(header, l.width)))
	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render(strings.Repeat("─", min(l.width, 120))))
	b.WriteString("\n")

	vis := l.visible()
	max := l.maxVisible()
	end := l.offset + max
	if end > len(vis) {
		end = len(vis)
	}

	for i := l.offset; i < end; i++ {
		e := l.entries[vis[i]]

		marker := "📄"
		if e.Kind == domain.KindFolder {
			marker = "📁"
		}

		row := fmt.Sprintf("%s %-*s %10s %-8s %s",
			marker, nameW, truncate(e.Name, nameW), e.SizeLabel, truncate(e.Owner, 8), shortDate(e.LastModified))
		row = truncate(row, l.width)

		if i == l.cursor {
			b.WriteString(styles.HighlightStyle.Render(row))
		} else {
			b.WriteString(" " + row)
		}
		b.WriteString("\n")
	}

	for i := end - l.offset; i < max; i++ {
		b.WriteString("\n")
	}

	if l.filterActive {
		b.WriteString(l.filterInput.View())
	} else if l.filterQuery != "" {
		b.WriteString(styles.AccentStyle.Render(fmt.Sprintf("/ %s (%d matches, esc to clear)", l.filterQuery, len(vis))))
	}

	return b.String()
}

// shortDate trims an ISO-8601 timestamp to its date part
func shortDate(ts string) string {
	if len(ts) >= 10 {
		return ts[:10]
	}
	return ts
}

// truncate shortens s to width runes. Entry names are user filenames,
// so slicing must never split a multibyte rune.
func truncate(s string, width int) string {
	if width <= 0 || len(s) <= width {
		return s
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return string(r[:1])
	}
	return string(r[:width-1]) + "…"
}
