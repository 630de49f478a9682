package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"shelf/internal/tui/styles"
)

// View renders the whole screen
func (m Model) View() string {
	if !m.Ready {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderBody())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	// Modals take over the screen while open
	if m.Input.IsVisible() {
		return centered(m.Input.View(), m.Width, m.Height)
	}
	if m.Confirm.IsVisible() {
		return centered(m.Confirm.View(), m.Width, m.Height)
	}

	return b.String()
}

func (m Model) renderHeader() string {
	title := styles.TitleStyle.Render("Shelf")
	count := styles.SubtitleStyle.Render(fmt.Sprintf("%d entries", m.Store.Len()))
	return title + "  " + count
}

// renderBody distinguishes the loading, error, and empty conditions from
// a populated list; they are never collapsed into one.
func (m Model) renderBody() string {
	bodyHeight := m.Height - chromeHeight

	if m.Loading && m.List.Len() == 0 {
		spinner := styles.SpinnerFrames[m.SpinnerFrame%len(styles.SpinnerFrames)]
		return centered(styles.AccentStyle.Render(spinner+" Loading library..."), m.Width, bodyHeight)
	}

	if m.LoadErr != nil && m.List.Len() == 0 {
		return centered(styles.ErrorStyle.Render("Could not reach the file service.\n")+
			styles.DimStyle.Render("Press R to retry."), m.Width, bodyHeight)
	}

	if m.List.Len() == 0 {
		return centered(styles.DimStyle.Render("Library is empty.\nPress a to add files, u to upload."), m.Width, bodyHeight)
	}

	return m.List.View()
}

func (m Model) renderStatus() string {
	switch {
	case m.StatusIsErr:
		return styles.ErrorStyle.Render(m.StatusMsg)
	case m.StatusMsg != "":
		return styles.SuccessStyle.Render(m.StatusMsg)
	case m.LoadErr != nil:
		// Keep showing the stale-but-preserved list with a warning.
		return styles.WarningStyle.Render("refresh failed, showing last known list")
	default:
		return ""
	}
}

func (m Model) renderFooter() string {
	parts := []string{
		"j/k move", "/ filter", "s search", "a add", "u upload", "r rename", "d delete", "R refresh", "q quit",
	}
	footer := styles.DimStyle.Render(strings.Join(parts, " · "))

	if m.searchQuery != "" {
		footer += "  " + styles.AccentStyle.Render(fmt.Sprintf("search: %s", m.searchQuery))
	}
	if staged := len(m.Uploader.Selection()); staged > 0 {
		footer += "  " + styles.AccentStyle.Render(fmt.Sprintf("⇧ %d staged", staged))
	}
	if m.Uploader.InFlight() {
		spinner := styles.SpinnerFrames[m.SpinnerFrame%len(styles.SpinnerFrames)]
		footer += "  " + styles.AccentStyle.Render(spinner+" uploading...")
	}

	return footer
}

func centered(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
