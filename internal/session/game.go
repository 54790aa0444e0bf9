package session

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/entorb/flashcards-sub001/internal/answer"
	"github.com/entorb/flashcards-sub001/internal/card"
	"github.com/entorb/flashcards-sub001/internal/deck"
	"github.com/entorb/flashcards-sub001/internal/filter"
	"github.com/entorb/flashcards-sub001/internal/scoring"
	"github.com/entorb/flashcards-sub001/internal/selector"
	"github.com/entorb/flashcards-sub001/internal/stats"
	"github.com/entorb/flashcards-sub001/internal/store"
)

// StartGame draws the cards for a new game. If a game is already active and
// forceReset is false, it is left untouched. It reports whether a game is
// active afterwards; false means no card could be drawn.
func (g *Game) StartGame(ctx context.Context, settings Settings, forceReset bool) bool {
	if !forceReset && g.phase == PhaseActive && len(g.appearances) > 0 {
		return true
	}

	candidates, err := g.candidates(ctx, settings)
	if err != nil {
		g.log.Warn("load cards failed", "error", err)
		return false
	}
	drawn := selector.SelectCards(g.rnd, candidates, settings.Focus, g.cfg.MaxCards)
	if len(drawn) == 0 {
		g.log.Info("no cards to draw", "selection", settings.Selection.String())
		return false
	}

	g.reset()
	g.settings = &settings
	g.sessionID = uuid.NewString()
	g.startedAt = g.now()
	g.cards = make(map[string]card.Card, len(drawn))
	for _, c := range drawn {
		g.cards[c.Key] = c
	}

	switch settings.Mode {
	case ModeRounds:
		round := drawn
		for r := 0; r < g.cfg.LoopCount; r++ {
			if r > 0 {
				round = selector.SelectCards(g.rnd, drawn, settings.Focus, len(drawn))
			}
			for _, c := range round {
				g.appearances = append(g.appearances, Appearance{Key: c.Key, Round: r})
			}
		}
	default:
		for _, c := range drawn {
			g.appearances = append(g.appearances, Appearance{Key: c.Key})
		}
	}
	if _, endless := settings.Mode.EndlessTarget(); endless {
		for _, c := range drawn {
			g.pool = append(g.pool, c.Key)
		}
	}
	g.phase = PhaseActive

	if err := g.repo.SetGameConfig(ctx, settings.Data()); err != nil {
		g.log.Warn("save game config failed", "error", err)
	}
	g.log.Info("game started", "session", g.sessionID, "mode", settings.Mode, "cards", len(drawn), "appearances", len(g.appearances))
	g.persist(ctx)
	return true
}

// candidates returns the cards a game with settings may draw from.
func (g *Game) candidates(ctx context.Context, settings Settings) ([]card.Card, error) {
	stored, err := g.repo.LoadCards(ctx)
	if err != nil {
		return nil, err
	}
	if !deck.IsPairDeck(g.repo.Name()) {
		return stored, nil
	}

	// Pair decks draw from the full universe; unplayed cards are virtual.
	byKey := make(map[string]card.Card, len(stored))
	for _, c := range stored {
		byKey[c.Key] = c
	}
	universe := deck.Pairs(deck.MinOperand, deck.MaxOperand)
	for i, c := range universe {
		if s, ok := byKey[c.Key]; ok {
			universe[i] = s
		}
	}

	rng := g.cfg.Range
	values, err := g.repo.LoadRange(ctx)
	if err != nil {
		g.log.Warn("load range failed", "error", err)
	} else if len(values) > 0 {
		rng = filter.RangeOf(values...)
	}
	return filter.Filter(universe, settings.Selection, rng), nil
}

// HandleAnswer records the verdict for the current card. Accepted answers
// promote the card and earn points scored at the card's level before the
// promotion; wrong answers demote it and earn nothing. ok is false when no
// card is awaiting an answer.
func (g *Game) HandleAnswer(ctx context.Context, verdict answer.Verdict, elapsed time.Duration) (b scoring.Breakdown, ok bool) {
	c, ok := g.Current()
	if !ok || g.phase != PhaseActive {
		return scoring.Breakdown{}, false
	}
	stored := g.cards[c.Key]

	var patch card.Patch
	if verdict.Accepted() {
		patch = card.OnCorrect(stored, elapsed.Seconds())
	} else {
		patch = card.OnIncorrect(stored)
	}
	if err := g.repo.UpdateCard(ctx, c.Key, patch); err != nil {
		g.log.Warn("update card failed", "card", c.Key, "error", err)
	}
	g.cards[c.Key] = card.Apply(stored, patch)
	g.answered++
	g.lastAccepted = verdict.Accepted()
	g.last = nil

	if verdict.Accepted() {
		b = scoring.Compute(g.cfg.Scoring, scoring.Input{
			DifficultyPoints:      scoring.Difficulty(c),
			Level:                 stored.Level,
			TimeBonus:             g.cfg.Scoring.EarnsTimeBonus(elapsed),
			CloseAdjustment:       verdict == answer.Close,
			LanguageBonusEligible: g.settings.Direction == Reverse,
		})
		g.points += b.TotalPoints
		g.correctCount++
		g.last = &b
	}

	g.log.Debug("answer", "card", c.Key, "verdict", verdict, "points", b.TotalPoints)
	g.persist(ctx)
	return b, true
}

// NextCard advances to the next card and reports whether the game is over.
func (g *Game) NextCard(ctx context.Context) bool {
	switch g.phase {
	case PhaseFinished:
		return true
	case PhaseIdle:
		return false
	}
	g.last = nil

	if target, endless := g.settings.Mode.EndlessTarget(); endless {
		g.advanceEndless(target)
	} else {
		g.currentIndex++
	}
	g.lastAccepted = false

	if g.over() {
		g.phase = PhaseFinished
	}
	g.persist(ctx)
	return g.phase == PhaseFinished
}

// advanceEndless drops the current card from the pool once an accepted
// answer has brought it to target. Wrong answers never shrink the pool.
func (g *Game) advanceEndless(target int) {
	if len(g.pool) == 0 {
		return
	}
	if g.currentIndex >= len(g.pool) {
		g.currentIndex = 0
		return
	}
	key := g.pool[g.currentIndex]
	if g.lastAccepted && g.cards[key].Level >= target {
		g.pool = slices.Delete(g.pool, g.currentIndex, g.currentIndex+1)
	} else {
		g.currentIndex++
	}
	if g.currentIndex >= len(g.pool) {
		g.currentIndex = 0
	}
}

func (g *Game) over() bool {
	if _, endless := g.settings.Mode.EndlessTarget(); endless {
		return len(g.pool) == 0
	}
	return g.currentIndex >= len(g.appearances)
}

// FinishGame records the game in history and aggregate statistics, hands
// the result to the results view and returns to Idle. ok is false when
// there is no game to finish.
func (g *Game) FinishGame(ctx context.Context) (Result, bool) {
	if g.settings == nil {
		return Result{}, false
	}
	now := g.now()
	res := Result{
		SessionID:  g.sessionID,
		Deck:       g.repo.Name(),
		Settings:   *g.settings,
		StartedAt:  g.startedAt,
		FinishedAt: now,
		Points:     g.points,
		Correct:    g.correctCount,
		Answered:   g.answered,
	}

	s, err := g.repo.LoadGameStats(ctx)
	if err != nil {
		g.log.Warn("load game stats failed", "error", err)
	}
	s, res.Bonus = stats.Record(s, stats.Game{Points: res.Points, Correct: res.Correct, Answered: res.Answered}, now)
	if err == nil {
		if err := g.repo.SaveGameStats(ctx, s); err != nil {
			g.log.Warn("save game stats failed", "error", err)
		}
	}

	err = g.repo.AppendHistory(ctx, store.HistoryRecord{
		SessionID:    res.SessionID,
		PlayedAt:     now,
		Settings:     res.Settings.Data(),
		Points:       res.Points,
		Correct:      res.Correct,
		Answered:     res.Answered,
		Bonus:        res.Bonus.Total(),
		DurationSecs: res.Duration().Seconds(),
	})
	if err != nil {
		g.log.Warn("append history failed", "error", err)
	}
	if err := g.repo.SetGameResult(ctx, res.Data()); err != nil {
		g.log.Warn("save game result failed", "error", err)
	}

	g.log.Info("game finished", "session", res.SessionID, "points", res.Points, "correct", res.Correct, "answered", res.Answered)
	g.clear(ctx)
	return res, true
}

// DiscardGame abandons the current game without recording it.
func (g *Game) DiscardGame(ctx context.Context) {
	if g.settings != nil {
		g.log.Info("game discarded", "session", g.sessionID)
	}
	g.clear(ctx)
}

func (g *Game) clear(ctx context.Context) {
	if err := g.repo.ClearGameState(ctx); err != nil {
		g.log.Warn("clear game state failed", "error", err)
	}
	g.reset()
}

// Current returns the card awaiting an answer, oriented for the game's
// direction.
func (g *Game) Current() (card.Card, bool) {
	if g.phase != PhaseActive {
		return card.Card{}, false
	}
	var key string
	if _, endless := g.settings.Mode.EndlessTarget(); endless {
		if g.currentIndex >= len(g.pool) {
			return card.Card{}, false
		}
		key = g.pool[g.currentIndex]
	} else {
		if g.currentIndex >= len(g.appearances) {
			return card.Card{}, false
		}
		key = g.appearances[g.currentIndex].Key
	}

	c, ok := g.cards[key]
	if !ok {
		c = card.New(key)
	}
	if g.settings.Direction == Reverse && !deck.IsPairDeck(g.repo.Name()) {
		c.Front, c.Back = c.Back, c.Front
	}
	return c, true
}

// Phase returns the lifecycle phase.
func (g *Game) Phase() Phase { return g.phase }

// Points returns the points earned in the current game.
func (g *Game) Points() int { return g.points }

// CorrectCount returns the number of accepted answers in the current game.
func (g *Game) CorrectCount() int { return g.correctCount }

// Settings returns the current game's settings, or false when idle.
func (g *Game) Settings() (Settings, bool) {
	if g.settings == nil {
		return Settings{}, false
	}
	return *g.settings, true
}

// LastBreakdown returns the points breakdown of the most recent accepted
// answer on the current card.
func (g *Game) LastBreakdown() (scoring.Breakdown, bool) {
	if g.last == nil {
		return scoring.Breakdown{}, false
	}
	return *g.last, true
}

// Progress reports how far the game has come. In endless modes done counts
// cards that left the pool.
func (g *Game) Progress() (done, total int) {
	if g.settings == nil {
		return 0, 0
	}
	if _, endless := g.settings.Mode.EndlessTarget(); endless {
		return len(g.appearances) - len(g.pool), len(g.appearances)
	}
	return g.currentIndex, len(g.appearances)
}

// Elapsed returns the time since the game started.
func (g *Game) Elapsed() time.Duration {
	if g.startedAt.IsZero() {
		return 0
	}
	return g.now().Sub(g.startedAt)
}
