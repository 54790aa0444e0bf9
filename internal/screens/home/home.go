package home

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/entorb/flashcards-sub001/internal/deck"
	"github.com/entorb/flashcards-sub001/internal/filter"
	"github.com/entorb/flashcards-sub001/internal/router"
	"github.com/entorb/flashcards-sub001/internal/screen"
	"github.com/entorb/flashcards-sub001/internal/screens/history"
	"github.com/entorb/flashcards-sub001/internal/screens/play"
	"github.com/entorb/flashcards-sub001/internal/screens/results"
	"github.com/entorb/flashcards-sub001/internal/selector"
	"github.com/entorb/flashcards-sub001/internal/session"
	"github.com/entorb/flashcards-sub001/internal/stats"
	"github.com/entorb/flashcards-sub001/internal/store"
	"github.com/entorb/flashcards-sub001/internal/ui/components"
	"github.com/entorb/flashcards-sub001/internal/ui/layout"
)

// Menu positions.
const (
	itemContinue = iota
	itemNewGame
	itemMode
	itemFocus
	itemCards
	itemDirection
	itemLastResult
	itemHistory
	itemExit
)

// Options configure the home screen.
type Options struct {
	Game *session.Game
	Repo store.DeckRepo
	// Settings are preselected for a new game.
	Settings session.Settings
	// Now defaults to time.Now.
	Now func() time.Time
}

// HomeScreen is the main menu of one deck.
type HomeScreen struct {
	opts     Options
	pairDeck bool
	settings session.Settings
	// selections are the card selections offered for pair decks.
	selections []filter.Selection

	stats      stats.Stats
	cards      int
	lastResult *session.Result
	notice     string
	menu       components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(opts Options) *HomeScreen {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	h := &HomeScreen{
		opts:       opts,
		pairDeck:   deck.IsPairDeck(opts.Repo.Name()),
		settings:   opts.Settings,
		selections: []filter.Selection{filter.All(), filter.Squares()},
	}
	if sel := opts.Settings.Selection; sel.Kind == filter.KindExplicit {
		h.selections = append(h.selections, sel)
	}

	items := make([]components.MenuItem, itemExit+1)
	items[itemContinue] = components.MenuItem{Action: func() tea.Cmd { return h.pushPlay() }}
	items[itemNewGame] = components.MenuItem{Action: func() tea.Cmd { return h.newGame(h.settings) }}
	items[itemMode] = components.MenuItem{Cycle: func(step int) {
		h.settings.Mode = next(session.Modes, h.settings.Mode, step)
	}}
	items[itemFocus] = components.MenuItem{Cycle: func(step int) {
		h.settings.Focus = next(selector.Focuses, h.settings.Focus, step)
	}}
	items[itemCards] = components.MenuItem{Disabled: !h.pairDeck, Cycle: func(step int) {
		i := slices.IndexFunc(h.selections, func(s filter.Selection) bool {
			return s.String() == h.settings.Selection.String()
		})
		h.settings.Selection = h.selections[wrap(i+step, len(h.selections))]
	}}
	items[itemDirection] = components.MenuItem{Disabled: h.pairDeck, Cycle: func(step int) {
		h.settings.Direction = next([]session.Direction{session.Forward, session.Reverse}, h.settings.Direction, step)
	}}
	items[itemLastResult] = components.MenuItem{Action: func() tea.Cmd {
		if h.lastResult == nil {
			return nil
		}
		scr := h.resultsScreen(*h.lastResult)
		return func() tea.Msg { return router.PushScreenMsg{Screen: scr} }
	}}
	items[itemHistory] = components.MenuItem{Action: func() tea.Cmd {
		return func() tea.Msg { return router.PushScreenMsg{Screen: history.New(h.opts.Repo)} }
	}}
	items[itemExit] = components.MenuItem{Action: func() tea.Cmd { return tea.Quit }}
	h.menu = components.NewMenu(items)

	h.refresh()
	h.menu.Selected = itemNewGame
	if !h.menu.Items[itemContinue].Disabled {
		h.menu.Selected = itemContinue
	}
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

// Resume reloads the deck statistics after a game or the history screen.
func (h *HomeScreen) Resume() tea.Cmd {
	h.refresh()
	if h.menu.Items[h.menu.Selected].Disabled {
		h.menu.Selected = itemNewGame
	}
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "←→", Description: "Change"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		h.notice = ""
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	h.refreshLabels()
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompact(width, height+6)
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if !compact {
		gameWaiting := h.opts.Game.Phase() != session.PhaseIdle
		sections = append(sections, renderMascotBox(mascotVariant(gameWaiting, h.playedToday()), cw))
	}
	sections = append(sections, renderStatsBar(h.stats, h.cards, cw, compact))
	sections = append(sections, components.ArcadeMenu(h.menu, cw))
	if h.notice != "" {
		sections = append(sections, renderNotice(h.notice, cw))
	}

	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

// refresh reloads statistics and the unfinished-game state.
func (h *HomeScreen) refresh() {
	ctx := context.Background()
	if s, err := h.opts.Repo.LoadGameStats(ctx); err == nil {
		h.stats = s
	}
	if cards, err := h.opts.Repo.LoadCards(ctx); err == nil {
		h.cards = len(cards)
	}
	h.lastResult = nil
	if data, err := h.opts.Repo.GetGameResult(ctx); err == nil && data != nil {
		if res, err := session.ResultFromData(*data); err == nil {
			h.lastResult = &res
		}
	}
	h.refreshLabels()
}

func (h *HomeScreen) refreshLabels() {
	items := h.menu.Items
	items[itemContinue].Label = "CONTINUE"
	items[itemContinue].Disabled = h.opts.Game.Phase() == session.PhaseIdle
	items[itemNewGame].Label = "NEW GAME"
	items[itemMode].Label = "MODE ◂ " + string(h.settings.Mode) + " ▸"
	items[itemFocus].Label = "FOCUS ◂ " + string(h.settings.Focus) + " ▸"
	items[itemCards].Label = "CARDS ◂ " + h.settings.Selection.String() + " ▸"
	items[itemDirection].Label = "DIRECTION ◂ " + string(h.settings.Direction) + " ▸"
	items[itemLastResult].Label = "LAST RESULT"
	items[itemLastResult].Disabled = h.lastResult == nil
	items[itemHistory].Label = "HISTORY"
	items[itemExit].Label = "EXIT"
}

func (h *HomeScreen) playedToday() bool {
	if h.stats.LastPlayed.IsZero() {
		return false
	}
	y1, m1, d1 := h.stats.LastPlayed.Date()
	y2, m2, d2 := h.opts.Now().Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// newGame starts a fresh game, replacing any unfinished one.
func (h *HomeScreen) newGame(settings session.Settings) tea.Cmd {
	if !h.opts.Game.StartGame(context.Background(), settings, true) {
		h.notice = fmt.Sprintf("%s. Try another card selection.", session.ErrNoCards)
		return nil
	}
	return h.pushPlay()
}

func (h *HomeScreen) pushPlay() tea.Cmd {
	scr := h.playScreen()
	return func() tea.Msg { return router.PushScreenMsg{Screen: scr} }
}

// playAgain starts a new game from the results screen.
func (h *HomeScreen) playAgain(settings session.Settings) tea.Cmd {
	if !h.opts.Game.StartGame(context.Background(), settings, true) {
		return func() tea.Msg { return router.PopToRootMsg{} }
	}
	scr := h.playScreen()
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: scr} }
}

func (h *HomeScreen) playScreen() screen.Screen {
	return play.New(play.Options{
		Game:           h.opts.Game,
		NumericAnswers: h.pairDeck,
		Results:        h.resultsScreen,
		Now:            h.opts.Now,
	})
}

func (h *HomeScreen) resultsScreen(res session.Result) screen.Screen {
	repo := h.opts.Repo
	return results.New(res, results.Options{
		PlayAgain: h.playAgain,
		History:   func() screen.Screen { return history.New(repo) },
	})
}

// next steps through options and wraps around. Unknown values start at the
// first option.
func next[T comparable](options []T, current T, step int) T {
	i := slices.Index(options, current)
	if i < 0 {
		return options[0]
	}
	return options[wrap(i+step, len(options))]
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}
