// Package results shows the outcome of a finished game.
package results

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/entorb/flashcards-sub001/internal/router"
	"github.com/entorb/flashcards-sub001/internal/screen"
	"github.com/entorb/flashcards-sub001/internal/session"
	"github.com/entorb/flashcards-sub001/internal/ui/components"
	"github.com/entorb/flashcards-sub001/internal/ui/layout"
	"github.com/entorb/flashcards-sub001/internal/ui/theme"
)

// Options configure the follow-up actions offered after a game.
type Options struct {
	// PlayAgain starts a new game with the same settings. The item is
	// hidden when nil.
	PlayAgain func(session.Settings) tea.Cmd
	// History builds the history screen. The item is hidden when nil.
	History func() screen.Screen
}

// ResultsScreen displays the result of one game.
type ResultsScreen struct {
	result session.Result
	menu   components.Menu
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New creates a ResultsScreen for res.
func New(res session.Result, opts Options) *ResultsScreen {
	var items []components.MenuItem
	if opts.PlayAgain != nil {
		items = append(items, components.MenuItem{Label: "PLAY AGAIN", Action: func() tea.Cmd {
			return opts.PlayAgain(res.Settings)
		}})
	}
	if opts.History != nil {
		items = append(items, components.MenuItem{Label: "HISTORY", Action: func() tea.Cmd {
			return func() tea.Msg { return router.ReplaceScreenMsg{Screen: opts.History()} }
		}})
	}
	items = append(items, components.MenuItem{Label: "HOME", Action: func() tea.Cmd {
		return func() tea.Msg { return router.PopToRootMsg{} }
	}})

	return &ResultsScreen{
		result: res,
		menu:   components.NewMenu(items),
	}
}

func (s *ResultsScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultsScreen) Title() string {
	return "Results"
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "esc" {
		return s, func() tea.Msg { return router.PopToRootMsg{} }
	}
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *ResultsScreen) View(width, height int) string {
	res := s.result
	cw := components.ContentWidth(width)

	var sections []string

	sections = append(sections, lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Foreground(theme.ArcadeYellow).
		Bold(true).
		Render(fmt.Sprintf("★ %d POINTS ★", res.Points)))

	d := res.Duration()
	lines := []string{
		fmt.Sprintf("Correct: %d of %d (%.0f%%)", res.Correct, res.Answered, res.Accuracy()*100),
		fmt.Sprintf("Time: %d:%02d", int(d.Minutes()), int(d.Seconds())%60),
		fmt.Sprintf("Mode: %s  Focus: %s", res.Settings.Mode.DisplayName(), res.Settings.Focus.DisplayName()),
	}
	sections = append(sections, components.ArcadeCard(strings.Join(lines, "\n"), cw, theme.Border))

	if bonus := renderBonus(res); bonus != "" {
		sections = append(sections, lipgloss.NewStyle().
			Width(cw).
			Align(lipgloss.Center).
			Foreground(theme.Success).
			Render(bonus))
	}

	sections = append(sections, components.ArcadeMenu(s.menu, cw))

	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func renderBonus(res session.Result) string {
	var parts []string
	if res.Bonus.FirstGameOfDay > 0 {
		parts = append(parts, fmt.Sprintf("+%d first game today", res.Bonus.FirstGameOfDay))
	}
	if res.Bonus.Streak > 0 {
		parts = append(parts, fmt.Sprintf("+%d streak", res.Bonus.Streak))
	}
	return strings.Join(parts, "   ")
}
