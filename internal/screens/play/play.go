// Package play implements the card-by-card game screen.
package play

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/entorb/flashcards-sub001/internal/answer"
	"github.com/entorb/flashcards-sub001/internal/card"
	"github.com/entorb/flashcards-sub001/internal/router"
	"github.com/entorb/flashcards-sub001/internal/scoring"
	"github.com/entorb/flashcards-sub001/internal/screen"
	"github.com/entorb/flashcards-sub001/internal/session"
	"github.com/entorb/flashcards-sub001/internal/ui/components"
	"github.com/entorb/flashcards-sub001/internal/ui/layout"
)

// tickInterval is the refresh rate of the stopwatch display.
const tickInterval = 100 * time.Millisecond

// Options configure a PlayScreen.
type Options struct {
	Game *session.Game
	// NumericAnswers restricts input to digits.
	NumericAnswers bool
	// Results builds the screen shown after the game is finished.
	Results func(session.Result) screen.Screen
	// Now defaults to time.Now.
	Now func() time.Time
}

// feedback is the outcome of the last answer.
type feedback struct {
	verdict   answer.Verdict
	expected  string
	breakdown scoring.Breakdown
	scored    bool
	level     int
}

// PlayScreen asks one card at a time until the game is over.
type PlayScreen struct {
	opts  Options
	game  *session.Game
	input components.TextInput

	current     card.Card
	cardStart   time.Time
	elapsed     time.Duration
	tickID      int
	feedback    *feedback
	confirmQuit bool
	errMsg      string
}

var _ screen.Screen = (*PlayScreen)(nil)
var _ screen.KeyHintProvider = (*PlayScreen)(nil)

// New creates a PlayScreen for a game that has already been started.
func New(opts Options) *PlayScreen {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &PlayScreen{
		opts: opts,
		game: opts.Game,
	}
}

func (s *PlayScreen) Init() tea.Cmd {
	switch s.game.Phase() {
	case session.PhaseFinished:
		return func() tea.Msg { return finishMsg{} }
	case session.PhaseIdle:
		s.errMsg = session.ErrNoCards.Error()
		return nil
	}
	return s.showCard()
}

func (s *PlayScreen) Title() string {
	return "Play"
}

func (s *PlayScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.errMsg != "":
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	case s.confirmQuit:
		return []layout.KeyHint{
			{Key: "F", Description: "Finish now"},
			{Key: "L", Description: "Leave for later"},
			{Key: "N", Description: "Keep going"},
		}
	case s.feedback != nil:
		return []layout.KeyHint{{Key: "any key", Description: "Next card"}}
	default:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Quit"},
		}
	}
}

func (s *PlayScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return s.handleTick(msg)
	case finishMsg:
		return s.finish()
	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.answering() {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *PlayScreen) answering() bool {
	return s.errMsg == "" && s.feedback == nil && !s.confirmQuit
}

// showCard resets the input and stopwatch for the current card.
func (s *PlayScreen) showCard() tea.Cmd {
	c, ok := s.game.Current()
	if !ok {
		return func() tea.Msg { return finishMsg{} }
	}
	s.current = c
	s.feedback = nil
	s.cardStart = s.opts.Now()
	s.elapsed = 0
	s.tickID++
	s.input = components.NewTextInput("Type your answer...", s.opts.NumericAnswers, 64)
	return tea.Batch(s.input.Init(), tick(s.tickID))
}

func (s *PlayScreen) handleTick(msg tickMsg) (screen.Screen, tea.Cmd) {
	// The stopwatch only runs while an answer is awaited.
	if msg.id != s.tickID || !s.answering() {
		return s, nil
	}
	s.elapsed = msg.at.Sub(s.cardStart)
	return s, tick(s.tickID)
}

func (s *PlayScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	if s.confirmQuit {
		switch key {
		case "f", "F":
			s.confirmQuit = false
			return s, func() tea.Msg { return finishMsg{} }
		case "l", "L":
			// The game stays persisted and is offered again on the home screen.
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "n", "N", "esc":
			s.confirmQuit = false
			s.tickID++
			return s, tick(s.tickID)
		}
		return s, nil
	}

	if s.feedback != nil {
		return s.next()
	}

	switch key {
	case "esc":
		s.confirmQuit = true
		return s, nil
	case "enter":
		return s.submit()
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// submit checks the typed answer and records it with the game.
func (s *PlayScreen) submit() (screen.Screen, tea.Cmd) {
	given := s.input.Value()
	if given == "" {
		return s, nil
	}
	ctx := context.Background()
	elapsed := s.opts.Now().Sub(s.cardStart)

	expected := s.current.Answer()
	verdict := answer.Check(given, expected)
	b, ok := s.game.HandleAnswer(ctx, verdict, elapsed)
	if !ok {
		return s, func() tea.Msg { return finishMsg{} }
	}

	fb := &feedback{
		verdict:   verdict,
		expected:  expected,
		breakdown: b,
		scored:    verdict.Accepted(),
		level:     s.current.Level,
	}
	if updated, ok := s.game.Current(); ok {
		fb.level = updated.Level
	}
	s.feedback = fb
	s.elapsed = elapsed
	s.input.Submit(verdict)
	return s, nil
}

// next advances past the feedback to the next card or the results.
func (s *PlayScreen) next() (screen.Screen, tea.Cmd) {
	if over := s.game.NextCard(context.Background()); over {
		return s.finish()
	}
	return s, s.showCard()
}

func (s *PlayScreen) finish() (screen.Screen, tea.Cmd) {
	s.tickID++
	res, ok := s.game.FinishGame(context.Background())
	if !ok || s.opts.Results == nil {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	results := s.opts.Results(res)
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: results} }
}

func tick(id int) tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg{id: id, at: t}
	})
}
