// Package app wires the screens into the Bubble Tea program.
package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/entorb/flashcards-sub001/internal/router"
	"github.com/entorb/flashcards-sub001/internal/screen"
	"github.com/entorb/flashcards-sub001/internal/screens/home"
	"github.com/entorb/flashcards-sub001/internal/session"
	"github.com/entorb/flashcards-sub001/internal/store"
	"github.com/entorb/flashcards-sub001/internal/ui/layout"
)

// Options holds the dependencies of the terminal UI.
type Options struct {
	Game     *session.Game
	Repo     store.DeckRepo
	Settings session.Settings
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	repo   store.DeckRepo
	header layout.HeaderInfo
	width  int
	height int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(opts Options) AppModel {
	homeScreen := home.New(home.Options{
		Game:     opts.Game,
		Repo:     opts.Repo,
		Settings: opts.Settings,
	})
	m := AppModel{
		router: router.New(homeScreen),
		repo:   opts.Repo,
		header: layout.HeaderInfo{Deck: opts.Repo.Name()},
	}
	m.refreshHeader()
	return m
}

// refreshHeader reloads the streak shown in the header.
func (m *AppModel) refreshHeader() {
	if s, err := m.repo.LoadGameStats(context.Background()); err == nil {
		m.header.Streak = s.Streak
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case router.PopScreenMsg, router.PopToRootMsg, router.ReplaceScreenMsg:
		// A finished game changes the streak.
		cmd := m.router.Update(msg)
		m.refreshHeader()
		return m, cmd
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.header, m.width)
	footer := layout.RenderFooter(m.footerHints(), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

func (m AppModel) footerHints() []layout.KeyHint {
	if p, ok := m.router.Active().(screen.KeyHintProvider); ok {
		if hints := p.KeyHints(); len(hints) > 0 {
			return hints
		}
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
