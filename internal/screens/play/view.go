package play

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/entorb/flashcards-sub001/internal/answer"
	"github.com/entorb/flashcards-sub001/internal/ui/components"
	"github.com/entorb/flashcards-sub001/internal/ui/layout"
	"github.com/entorb/flashcards-sub001/internal/ui/theme"
)

func (s *PlayScreen) View(width, height int) string {
	switch {
	case s.errMsg != "":
		return renderError(width, s.errMsg)
	case s.confirmQuit:
		return renderQuitConfirm(width)
	}

	var b strings.Builder
	b.WriteString(s.renderInfoLine(width))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	cw := components.ContentWidth(width)
	question := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(s.current.Question())
	level := lipgloss.NewStyle().Foreground(theme.LevelColor(s.current.Level)).
		Render(fmt.Sprintf("level %d", s.current.Level))
	cardBox := components.ArcadeCard(question+"\n\n"+level, cw, theme.LevelColor(s.current.Level))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, cardBox))
	b.WriteString("\n\n")

	b.WriteString(layout.Centered("Answer: "+s.input.View(), width, lipgloss.NewStyle()))
	b.WriteString("\n\n")

	if s.feedback != nil {
		b.WriteString(s.renderFeedback(width))
	}
	return b.String()
}

// renderInfoLine shows progress on the left and score and stopwatch on the right.
func (s *PlayScreen) renderInfoLine(width int) string {
	done, total := s.game.Progress()
	mode := "Cards"
	if settings, ok := s.game.Settings(); ok {
		mode = settings.Mode.DisplayName()
	}
	left := "  " + components.NewProgressBar(mode, done, total, min(width/2, 40)).View()

	right := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("%s %d  %s %d  %s %.1fs  %s %s",
			lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Render("★"),
			s.game.Points(),
			lipgloss.NewStyle().Foreground(theme.Success).Render("✓"),
			s.game.CorrectCount(),
			lipgloss.NewStyle().Foreground(theme.Accent).Render("◷"),
			s.elapsed.Seconds(),
			lipgloss.NewStyle().Foreground(theme.Accent).Render("Σ"),
			gameClock(s.game.Elapsed()),
		))

	pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if pad <= 0 {
		return left
	}
	return left + strings.Repeat(" ", pad) + right
}

// gameClock formats the total game time as m:ss.
func gameClock(d time.Duration) string {
	d = max(d, 0).Truncate(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

// renderFeedback renders the verdict and points of the last answer.
func (s *PlayScreen) renderFeedback(width int) string {
	fb := s.feedback
	var b strings.Builder

	switch fb.verdict {
	case answer.Correct:
		b.WriteString(layout.Centered("Correct!", width, theme.Correct))
	case answer.Close:
		b.WriteString(layout.Centered("Almost! Watch the spelling", width, theme.Close))
	default:
		b.WriteString(layout.Centered("Not quite", width, theme.Incorrect))
	}
	b.WriteString("\n")

	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	if fb.verdict != answer.Correct {
		b.WriteString(layout.Centered("Correct answer: "+fb.expected, width, dim))
		b.WriteString("\n")
	}

	if fb.scored {
		b.WriteString(layout.Centered(breakdownLine(fb), width, lipgloss.NewStyle().Foreground(theme.ArcadeYellow)))
		b.WriteString("\n")
	}

	levelStyle := lipgloss.NewStyle().Foreground(theme.LevelColor(fb.level))
	b.WriteString(layout.Centered(fmt.Sprintf("Card is now level %d", fb.level), width, levelStyle))
	b.WriteString("\n\n")
	b.WriteString(layout.Centered("Press any key to continue...", width, dim))
	return b.String()
}

func breakdownLine(fb *feedback) string {
	bd := fb.breakdown
	parts := []string{
		fmt.Sprintf("%d difficulty", bd.DifficultyPoints),
		fmt.Sprintf("%d level", bd.LevelPoints),
	}
	if bd.TimeBonus != 0 {
		parts = append(parts, fmt.Sprintf("%d speed", bd.TimeBonus))
	}
	if bd.LanguageBonus != 0 {
		parts = append(parts, fmt.Sprintf("%d language", bd.LanguageBonus))
	}
	if bd.CloseAdjustment != 0 {
		parts = append(parts, fmt.Sprintf("%d spelling", bd.CloseAdjustment))
	}
	return fmt.Sprintf("+%d points (%s)", bd.TotalPoints, strings.Join(parts, " + "))
}

// renderQuitConfirm renders the quit confirmation dialog.
func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(layout.Centered("Stop this game?", width, lipgloss.NewStyle().Foreground(theme.Text).Bold(true)))
	b.WriteString("\n\n")
	b.WriteString(layout.Centered("[F] Finish now and count the points", width, lipgloss.NewStyle().Foreground(theme.Success)))
	b.WriteString("\n")
	b.WriteString(layout.Centered("[L] Leave and continue later", width, lipgloss.NewStyle().Foreground(theme.Secondary)))
	b.WriteString("\n")
	b.WriteString(layout.Centered("[N] No, keep going", width, lipgloss.NewStyle().Foreground(theme.Primary)))
	return b.String()
}

// renderError renders an error message.
func renderError(width int, errMsg string) string {
	return layout.Centered(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to go back.", errMsg),
		width, lipgloss.NewStyle().Foreground(theme.Error))
}
