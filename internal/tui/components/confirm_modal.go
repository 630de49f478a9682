package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"shelf/internal/tui/styles"
)

// ConfirmModal asks a yes/no question before a destructive action.
type ConfirmModal struct {
	visible bool
	title   string
	body    string
}

// NewConfirmModal creates a hidden confirm modal
func NewConfirmModal() ConfirmModal {
	return ConfirmModal{}
}

// Show displays the modal with a question
func (m *ConfirmModal) Show(title, body string) {
	m.visible = true
	m.title = title
	m.body = body
}

// Hide dismisses the modal
func (m *ConfirmModal) Hide() {
	m.visible = false
}

// IsVisible returns whether the modal is shown
func (m ConfirmModal) IsVisible() bool {
	return m.visible
}

// Update handles input events, returns (modal, confirmed, dismissed)
func (m ConfirmModal) Update(msg tea.Msg) (ConfirmModal, bool, bool) {
	if !m.visible {
		return m, false, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "y", "enter":
			m.Hide()
			return m, true, true
		case "n", "esc":
			m.Hide()
			return m, false, true
		}
	}

	return m, false, false
}

// View renders the modal box
func (m ConfirmModal) View() string {
	if !m.visible {
		return ""
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render(m.title),
		"",
		m.body,
		"",
		styles.DimStyle.Render("y to confirm · n to cancel"),
	)

	return styles.ActiveBorder.BorderForeground(styles.Red).Padding(1, 2).Render(content)
}
