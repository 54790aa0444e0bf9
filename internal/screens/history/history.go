package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/dustin/go-humanize"

	"github.com/entorb/flashcards-sub001/internal/router"
	"github.com/entorb/flashcards-sub001/internal/screen"
	"github.com/entorb/flashcards-sub001/internal/session"
	"github.com/entorb/flashcards-sub001/internal/store"
	"github.com/entorb/flashcards-sub001/internal/ui/layout"
	"github.com/entorb/flashcards-sub001/internal/ui/theme"
)

// pageSize is the number of games loaded.
const pageSize = 50

type historyLoadedMsg struct {
	Records []store.HistoryRecord
	Err     error
}

// HistoryScreen lists past games of one deck, newest first.
type HistoryScreen struct {
	repo     store.DeckRepo
	now      func() time.Time
	records  []store.HistoryRecord
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(repo store.DeckRepo) *HistoryScreen {
	return &HistoryScreen{
		repo:     repo,
		now:      time.Now,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.repo
	return func() tea.Msg {
		records, err := repo.LoadHistory(context.Background(), pageSize)
		return historyLoadedMsg{Records: records, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.records = msg.Records
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.records)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.records) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No games yet. Start practicing!")
	}

	var b strings.Builder
	b.WriteString("\n")

	now := s.now()
	for i, rec := range s.records {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			style.Render(prefix+Line(rec, now))))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).
					Render("    "+Details(rec))))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// Line renders the one-line summary of a game.
func Line(rec store.HistoryRecord, now time.Time) string {
	d := time.Duration(rec.DurationSecs * float64(time.Second))
	var accuracy float64
	if rec.Answered > 0 {
		accuracy = float64(rec.Correct) / float64(rec.Answered) * 100
	}
	bonus := ""
	if rec.Bonus > 0 {
		bonus = fmt.Sprintf(" (+%d bonus)", rec.Bonus)
	}
	return fmt.Sprintf("%-14s  %d:%02d  %3d points%s  %d/%d correct  %.0f%%",
		humanize.RelTime(rec.PlayedAt, now, "ago", "from now"),
		int(d.Minutes()), int(d.Seconds())%60,
		rec.Points, bonus, rec.Correct, rec.Answered, accuracy)
}

// Details renders the settings a game was played with.
func Details(rec store.HistoryRecord) string {
	settings, err := session.SettingsFromData(rec.Settings)
	if err != nil {
		return fmt.Sprintf("%s · %s · %s", rec.Settings.Mode, rec.Settings.Focus, rec.Settings.Selection)
	}
	parts := []string{
		settings.Mode.DisplayName(),
		settings.Focus.DisplayName(),
		"cards: " + settings.Selection.String(),
	}
	if settings.Direction == session.Reverse {
		parts = append(parts, "reverse")
	}
	return strings.Join(parts, " · ")
}
