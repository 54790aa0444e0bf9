package components

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/entorb/flashcards-sub001/internal/ui/theme"
)

// ButtonWidth is the fixed width of menu buttons.
const ButtonWidth = 30

// ContentWidth returns the uniform inner width used for all arcade sections.
// All boxes are rendered at this width so they visually align.
func ContentWidth(frameWidth int) int {
	// Leave room for cabinet border (2) + inner padding (4)
	return min(max(frameWidth-6, 20), 60)
}

// CabinetFrame wraps content in a double-border cabinet frame,
// centering vertically and horizontally within the given dimensions.
func CabinetFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// ArcadeCard wraps content in a rounded-border card at the given content width.
func ArcadeCard(content string, cw int, border color.Color) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(1, 2).
		Render(content)
}

// ArcadeButton renders a styled menu button.
func ArcadeButton(label string, selected, disabled bool) string {
	base := lipgloss.NewStyle().
		Width(ButtonWidth).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	switch {
	case disabled:
		return base.Foreground(theme.TextDim).BorderForeground(theme.Border).Render(label)
	case selected:
		return base.
			Bold(true).
			Foreground(theme.BgDark).
			Background(theme.ArcadeYellow).
			BorderForeground(theme.ArcadeYellow).
			Render("▸ " + label)
	default:
		return base.Foreground(theme.Text).BorderForeground(theme.Border).Render(label)
	}
}

// ArcadeMenu renders every item of m as a button, stacked and centered in cw.
func ArcadeMenu(m Menu, cw int) string {
	buttons := make([]string, len(m.Items))
	for i, item := range m.Items {
		buttons[i] = ArcadeButton(item.Label, i == m.Selected, item.Disabled)
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(lipgloss.JoinVertical(lipgloss.Center, buttons...))
}
