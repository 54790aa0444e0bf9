package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/entorb/flashcards-sub001/internal/card"
	"github.com/entorb/flashcards-sub001/internal/filter"
	"github.com/entorb/flashcards-sub001/internal/scoring"
	"github.com/entorb/flashcards-sub001/internal/store"
)

// ErrNoCards is reported when a game cannot draw any card.
var ErrNoCards = errors.New("no cards match the selection")

// Phase is the lifecycle phase of a game.
type Phase int

const (
	PhaseIdle     Phase = iota // No game in progress
	PhaseActive                // Serving cards
	PhaseFinished              // All cards done, waiting for FinishGame
)

// String returns the lowercase phase name.
func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhaseFinished:
		return "finished"
	default:
		return "idle"
	}
}

// Appearance is one scheduled showing of a card. Round counts from zero.
type Appearance struct {
	Key   string
	Round int
}

// Config holds the game tuning knobs.
type Config struct {
	// MaxCards caps the number of distinct cards drawn per game.
	MaxCards int
	// LoopCount is the number of rounds in rounds mode.
	LoopCount int
	// Range is the operand range used when the deck has none stored.
	Range   filter.Range
	Scoring scoring.Config
}

// DefaultConfig returns the stock game configuration.
func DefaultConfig() Config {
	return Config{
		MaxCards:  10,
		LoopCount: 3,
		Range:     filter.NewRange(1, 10),
		Scoring:   scoring.DefaultConfig(),
	}
}

// Deps are the collaborators of a Game.
type Deps struct {
	Repo   store.DeckRepo
	Logger *slog.Logger
	// Rand defaults to a randomly seeded generator.
	Rand *rand.Rand
	// Now defaults to time.Now.
	Now func() time.Time
}

// Game runs one deck's game sessions. It persists its state after every
// mutation so an interrupted game can be resumed. A Game is not safe for
// concurrent use.
type Game struct {
	repo store.DeckRepo
	log  *slog.Logger
	rnd  *rand.Rand
	now  func() time.Time
	cfg  Config

	phase       Phase
	settings    *Settings
	sessionID   string
	startedAt   time.Time
	appearances []Appearance
	// pool holds the keys still in play in endless modes.
	pool         []string
	currentIndex int
	points       int
	correctCount int
	answered     int
	// lastAccepted is set between an accepted answer and the next card.
	lastAccepted bool

	// cards mirrors the persisted state of every card in the game.
	cards map[string]card.Card
	last  *scoring.Breakdown
}

// NewGame creates a Game for deps.Repo and resumes a persisted game if a
// valid snapshot exists. Invalid snapshots are discarded.
func NewGame(ctx context.Context, deps Deps, cfg Config) *Game {
	g := &Game{
		repo: deps.Repo,
		log:  deps.Logger,
		rnd:  deps.Rand,
		now:  deps.Now,
		cfg:  cfg,
	}
	if g.log == nil {
		g.log = slog.Default()
	}
	g.log = g.log.With("deck", deps.Repo.Name())
	if g.rnd == nil {
		g.rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if g.now == nil {
		g.now = time.Now
	}
	if g.cfg.MaxCards <= 0 {
		g.cfg.MaxCards = DefaultConfig().MaxCards
	}
	if g.cfg.LoopCount <= 0 {
		g.cfg.LoopCount = DefaultConfig().LoopCount
	}
	if len(g.cfg.Range) == 0 {
		g.cfg.Range = DefaultConfig().Range
	}
	if g.cfg.Scoring.LevelPoints == nil {
		g.cfg.Scoring = scoring.DefaultConfig()
	}

	g.restore(ctx)
	return g
}

func (g *Game) restore(ctx context.Context) {
	data, err := g.repo.LoadGameState(ctx)
	if err != nil {
		g.log.Warn("load game state failed", "error", err)
		return
	}
	if data == nil {
		return
	}

	snap, err := validateSnapshot(*data)
	if err != nil {
		g.log.Info("discarding saved game", "error", err)
		if err := g.repo.ClearGameState(ctx); err != nil {
			g.log.Warn("clear game state failed", "error", err)
		}
		return
	}

	g.apply(snap)
	g.loadCards(ctx)
	g.log.Debug("resumed game", "session", g.sessionID, "index", g.currentIndex, "points", g.points)
}

// snapshot is a validated mid-game state.
type snapshot struct {
	sessionID    string
	startedAt    time.Time
	settings     Settings
	appearances  []Appearance
	pool         []string
	currentIndex int
	points       int
	correctCount int
	answered     int
	lastAccepted bool
}

// validateSnapshot checks the cross-field invariants of a persisted game
// that a schema cannot express.
func validateSnapshot(d store.GameStateData) (snapshot, error) {
	settings, err := SettingsFromData(d.Settings)
	if err != nil {
		return snapshot{}, fmt.Errorf("settings: %w", err)
	}
	startedAt, err := time.Parse(time.RFC3339, d.StartedAt)
	if err != nil {
		return snapshot{}, fmt.Errorf("start time: %w", err)
	}
	if len(d.Appearances) == 0 {
		return snapshot{}, errors.New("no cards")
	}
	if d.Points < 0 || d.CorrectCount < 0 || d.Answered < 0 {
		return snapshot{}, errors.New("negative counters")
	}
	if d.CorrectCount > d.Answered {
		return snapshot{}, fmt.Errorf("correct count %d exceeds answered %d", d.CorrectCount, d.Answered)
	}

	apps := make([]Appearance, len(d.Appearances))
	keys := make(map[string]bool, len(d.Appearances))
	for i, a := range d.Appearances {
		if a.Key == "" || a.Round < 0 {
			return snapshot{}, fmt.Errorf("appearance %d invalid", i)
		}
		apps[i] = Appearance{Key: a.Key, Round: a.Round}
		keys[a.Key] = true
	}

	limit := len(apps)
	if _, endless := settings.Mode.EndlessTarget(); endless {
		for _, k := range d.Pool {
			if !keys[k] {
				return snapshot{}, fmt.Errorf("pool card %q not in game", k)
			}
		}
		limit = len(d.Pool)
	} else if len(d.Pool) > 0 {
		return snapshot{}, errors.New("pool outside endless mode")
	}
	if d.CurrentIndex < 0 || d.CurrentIndex > limit {
		return snapshot{}, fmt.Errorf("index %d out of range [0, %d]", d.CurrentIndex, limit)
	}
	// An endless pool is either empty with index 0 or indexed inside it.
	if _, endless := settings.Mode.EndlessTarget(); endless && len(d.Pool) > 0 && d.CurrentIndex == len(d.Pool) {
		return snapshot{}, fmt.Errorf("index %d at end of pool", d.CurrentIndex)
	}
	if d.LastAccepted && d.Answered == 0 {
		return snapshot{}, errors.New("accepted answer without answers")
	}

	return snapshot{
		sessionID:    d.SessionID,
		startedAt:    startedAt,
		settings:     settings,
		appearances:  apps,
		pool:         slices.Clone(d.Pool),
		currentIndex: d.CurrentIndex,
		points:       d.Points,
		correctCount: d.CorrectCount,
		answered:     d.Answered,
		lastAccepted: d.LastAccepted,
	}, nil
}

func (g *Game) apply(s snapshot) {
	settings := s.settings
	g.settings = &settings
	g.sessionID = s.sessionID
	g.startedAt = s.startedAt
	g.appearances = s.appearances
	g.pool = s.pool
	g.currentIndex = s.currentIndex
	g.points = s.points
	g.correctCount = s.correctCount
	g.answered = s.answered
	g.lastAccepted = s.lastAccepted
	g.last = nil
	g.phase = PhaseActive
	if g.over() {
		g.phase = PhaseFinished
	}
}

// data converts the in-memory game to its persisted form.
func (g *Game) data() store.GameStateData {
	apps := make([]store.AppearanceData, len(g.appearances))
	for i, a := range g.appearances {
		apps[i] = store.AppearanceData{Key: a.Key, Round: a.Round}
	}
	return store.GameStateData{
		Version:      store.GameStateVersion,
		SessionID:    g.sessionID,
		StartedAt:    g.startedAt.Format(time.RFC3339),
		Settings:     g.settings.Data(),
		Appearances:  apps,
		Pool:         slices.Clone(g.pool),
		CurrentIndex: g.currentIndex,
		Points:       g.points,
		CorrectCount: g.correctCount,
		Answered:     g.answered,
		LastAccepted: g.lastAccepted,
	}
}

// persist writes the snapshot. Failures are logged; the game continues.
func (g *Game) persist(ctx context.Context) {
	if g.settings == nil {
		return
	}
	if err := g.repo.SaveGameState(ctx, g.data()); err != nil {
		g.log.Warn("save game state failed", "error", err)
	}
}

// loadCards fills the card mirror for every card of the game.
func (g *Game) loadCards(ctx context.Context) {
	g.cards = make(map[string]card.Card, len(g.appearances))
	stored, err := g.repo.LoadCards(ctx)
	if err != nil {
		g.log.Warn("load cards failed", "error", err)
	}
	byKey := make(map[string]card.Card, len(stored))
	for _, c := range stored {
		byKey[c.Key] = c
	}
	for _, a := range g.appearances {
		if c, ok := byKey[a.Key]; ok {
			g.cards[a.Key] = c
		} else {
			g.cards[a.Key] = card.New(a.Key)
		}
	}
}

func (g *Game) reset() {
	g.phase = PhaseIdle
	g.settings = nil
	g.sessionID = ""
	g.startedAt = time.Time{}
	g.appearances = nil
	g.pool = nil
	g.currentIndex = 0
	g.points = 0
	g.correctCount = 0
	g.answered = 0
	g.lastAccepted = false
	g.cards = nil
	g.last = nil
}
