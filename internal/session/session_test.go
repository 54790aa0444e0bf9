package session

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entorb/flashcards-sub001/internal/answer"
	"github.com/entorb/flashcards-sub001/internal/card"
	"github.com/entorb/flashcards-sub001/internal/filter"
	"github.com/entorb/flashcards-sub001/internal/scoring"
	"github.com/entorb/flashcards-sub001/internal/selector"
	"github.com/entorb/flashcards-sub001/internal/stats"
	"github.com/entorb/flashcards-sub001/internal/store"
)

var testNow = time.Date(2026, 6, 1, 17, 0, 0, 0, time.UTC)

func testDeps(repo store.DeckRepo) Deps {
	return Deps{
		Repo:   repo,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Rand:   rand.New(rand.NewPCG(3, 14)),
		Now:    func() time.Time { return testNow },
	}
}

func newTestGame(t *testing.T, repo store.DeckRepo, cfg Config) *Game {
	t.Helper()
	return NewGame(context.Background(), testDeps(repo), cfg)
}

func settings(sel filter.Selection, mode Mode) Settings {
	return Settings{Selection: sel, Focus: selector.FocusWeak, Mode: mode, Direction: Forward}
}

// playAll answers every card correctly until the game ends and returns the
// breakdowns in answer order.
func playAll(t *testing.T, g *Game, elapsed time.Duration) []scoring.Breakdown {
	t.Helper()
	ctx := context.Background()
	var bs []scoring.Breakdown
	for i := 0; i < 1000; i++ {
		b, ok := g.HandleAnswer(ctx, answer.Correct, elapsed)
		require.True(t, ok, "answer %d rejected", i)
		bs = append(bs, b)
		if g.NextCard(ctx) {
			return bs
		}
	}
	t.Fatal("game did not end")
	return nil
}

func sumPoints(bs []scoring.Breakdown) int {
	total := 0
	for _, b := range bs {
		total += b.TotalPoints
	}
	return total
}

func TestStartGame_Standard(t *testing.T) {
	repo := newMockRepo("1x1")
	repo.rng = []int{3, 4, 5, 6, 7, 8, 9}
	g := newTestGame(t, repo, DefaultConfig())

	require.True(t, g.StartGame(context.Background(), settings(filter.Explicit(6), ModeStandard), false))
	assert.Equal(t, PhaseActive, g.Phase())

	done, total := g.Progress()
	assert.Equal(t, 0, done)
	assert.Equal(t, 7, total)

	c, ok := g.Current()
	require.True(t, ok)
	a, b, _ := c.Operands()
	assert.True(t, a == 6 || b == 6, "drawn card %s does not involve 6", c.Key)

	require.NotNil(t, repo.config)
	assert.Equal(t, "6", repo.config.Selection)
	assert.NotNil(t, repo.state, "start should persist a snapshot")
}

func TestStartGame_MaxCards(t *testing.T) {
	repo := newMockRepo("1x1")
	cfg := DefaultConfig()
	cfg.MaxCards = 4
	g := newTestGame(t, repo, cfg)

	require.True(t, g.StartGame(context.Background(), settings(filter.All(), ModeStandard), false))
	_, total := g.Progress()
	assert.Equal(t, 4, total)
}

func TestStartGame_IdempotentUnlessForced(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo("1x1")
	g := newTestGame(t, repo, DefaultConfig())

	require.True(t, g.StartGame(ctx, settings(filter.All(), ModeStandard), false))
	g.HandleAnswer(ctx, answer.Correct, time.Second)
	id := g.sessionID
	points := g.Points()

	require.True(t, g.StartGame(ctx, settings(filter.Squares(), ModeRounds), false))
	assert.Equal(t, id, g.sessionID)
	assert.Equal(t, points, g.Points())
	s, _ := g.Settings()
	assert.Equal(t, ModeStandard, s.Mode)

	require.True(t, g.StartGame(ctx, settings(filter.Squares(), ModeRounds), true))
	assert.NotEqual(t, id, g.sessionID)
	assert.Equal(t, 0, g.Points())
	assert.Equal(t, 0, g.CorrectCount())
}

func TestStartGame_NothingToDraw(t *testing.T) {
	repo := newMockRepo("1x1")
	repo.rng = []int{3, 4, 5}
	g := newTestGame(t, repo, DefaultConfig())

	assert.False(t, g.StartGame(context.Background(), settings(filter.Explicit(11), ModeStandard), false))
	assert.Equal(t, PhaseIdle, g.Phase())
	_, ok := g.Current()
	assert.False(t, ok)
}

func TestHandleAnswer_NoGame(t *testing.T) {
	g := newTestGame(t, newMockRepo("1x1"), DefaultConfig())
	_, ok := g.HandleAnswer(context.Background(), answer.Correct, time.Second)
	assert.False(t, ok)
	assert.False(t, g.NextCard(context.Background()))
}

func TestHandleAnswer_WrongEarnsNothing(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo("1x1")
	g := newTestGame(t, repo, DefaultConfig())
	require.True(t, g.StartGame(ctx, settings(filter.All(), ModeStandard), false))

	c, _ := g.Current()
	repo.put(card.Card{Key: c.Key, Level: 3, Time: 7})
	g.cards[c.Key] = repo.cards[c.Key]

	b, ok := g.HandleAnswer(ctx, answer.Wrong, time.Second)
	require.True(t, ok)
	assert.Equal(t, scoring.Breakdown{}, b)
	assert.Equal(t, 0, g.Points())
	assert.Equal(t, 0, g.CorrectCount())
	assert.Equal(t, 2, repo.cards[c.Key].Level)
	assert.Equal(t, 7.0, repo.cards[c.Key].Time, "wrong answers keep the time")
	_, hasLast := g.LastBreakdown()
	assert.False(t, hasLast)
}

func TestHandleAnswer_ScoresAtLevelBeforePromotion(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo("1x1")
	repo.rng = []int{3, 6}
	g := newTestGame(t, repo, DefaultConfig())
	require.True(t, g.StartGame(ctx, settings(filter.Explicit(3), ModeStandard), false))

	// Only 3x3 and 3x6 are in range; make both level 2.
	for _, k := range []string{"3x3", "3x6"} {
		repo.put(card.Card{Key: k, Level: 2, Time: 60})
		g.cards[k] = repo.cards[k]
	}
	c, _ := g.Current()
	a, _, _ := c.Operands()

	b, ok := g.HandleAnswer(ctx, answer.Correct, 2*time.Second)
	require.True(t, ok)
	want := scoring.Breakdown{
		LevelPoints:       2,
		DifficultyPoints:  a,
		PointsBeforeBonus: 2 + a,
		TimeBonus:         5,
		TotalPoints:       2 + a + 5,
	}
	assert.Equal(t, want, b)
	assert.Equal(t, want.TotalPoints, g.Points())
	assert.Equal(t, 3, repo.cards[c.Key].Level)
	assert.Equal(t, 2.0, repo.cards[c.Key].Time)

	last, ok := g.LastBreakdown()
	require.True(t, ok)
	assert.Equal(t, want, last)
}

func TestHandleAnswer_CloseAdjustment(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo("1x1")
	repo.rng = []int{4}
	g := newTestGame(t, repo, DefaultConfig())
	require.True(t, g.StartGame(ctx, settings(filter.Squares(), ModeStandard), false))

	b, ok := g.HandleAnswer(ctx, answer.Close, 10*time.Second)
	require.True(t, ok)
	// level 1 + difficulty 4 - 1
	assert.Equal(t, 4, b.TotalPoints)
	assert.Equal(t, -1, b.CloseAdjustment)
	assert.Equal(t, 1, g.CorrectCount())
}

func TestRounds_IndependentScoring(t *testing.T) {
	repo := newMockRepo("1x1")
	repo.rng = []int{3, 4}
	cfg := DefaultConfig()
	cfg.LoopCount = 3
	g := newTestGame(t, repo, cfg)
	require.True(t, g.StartGame(context.Background(), settings(filter.Squares(), ModeRounds), false))

	_, total := g.Progress()
	require.Equal(t, 6, total)
	rounds := map[int]int{}
	for _, a := range g.appearances {
		rounds[a.Round]++
	}
	assert.Equal(t, map[int]int{0: 2, 1: 2, 2: 2}, rounds)

	bs := playAll(t, g, 10*time.Second)
	require.Len(t, bs, 6)
	// 3x3 at levels 1,2,3 plus 4x4 at levels 1,2,3.
	assert.Equal(t, (1+3)+(2+3)+(3+3)+(1+4)+(2+4)+(3+4), sumPoints(bs))
	assert.Equal(t, sumPoints(bs), g.Points())
	assert.Equal(t, PhaseFinished, g.Phase())
}

func TestEndless_PoolShrinks(t *testing.T) {
	for _, mode := range []Mode{ModeEndless3, ModeEndless5} {
		t.Run(string(mode), func(t *testing.T) {
			ctx := context.Background()
			repo := newMockRepo("1x1")
			repo.rng = []int{3, 4, 5}
			g := newTestGame(t, repo, DefaultConfig())
			require.True(t, g.StartGame(ctx, settings(filter.Squares(), mode), false))

			target, _ := mode.EndlessTarget()
			n := 3

			// A wrong answer never removes a card.
			_, ok := g.HandleAnswer(ctx, answer.Wrong, time.Second)
			require.True(t, ok)
			require.False(t, g.NextCard(ctx))
			done, total := g.Progress()
			assert.Equal(t, 0, done)
			assert.Equal(t, n, total)

			correct := 0
			for {
				_, ok := g.HandleAnswer(ctx, answer.Correct, time.Second)
				require.True(t, ok)
				correct++
				if g.NextCard(ctx) {
					break
				}
				require.Less(t, correct, 100)
			}
			assert.Equal(t, n*(target-1), correct)
			assert.Equal(t, PhaseFinished, g.Phase())
			done, _ = g.Progress()
			assert.Equal(t, n, done)
		})
	}
}

func TestReload_RestoresEveryMode(t *testing.T) {
	for _, mode := range Modes {
		t.Run(string(mode), func(t *testing.T) {
			ctx := context.Background()
			repo := newMockRepo("1x1")
			repo.rng = []int{3, 4, 5}
			g := newTestGame(t, repo, DefaultConfig())
			require.True(t, g.StartGame(ctx, settings(filter.All(), mode), true))
			g.HandleAnswer(ctx, answer.Correct, time.Second)
			g.NextCard(ctx)
			g.HandleAnswer(ctx, answer.Correct, time.Second)

			restored := newTestGame(t, repo, DefaultConfig())
			require.Equal(t, PhaseActive, restored.Phase())
			s, ok := restored.Settings()
			require.True(t, ok)
			assert.Equal(t, mode, s.Mode)
			assert.Equal(t, g.Points(), restored.Points())
			assert.Equal(t, g.CorrectCount(), restored.CorrectCount())
			assert.Equal(t, g.sessionID, restored.sessionID)

			wantDone, wantTotal := g.Progress()
			gotDone, gotTotal := restored.Progress()
			assert.Equal(t, wantDone, gotDone)
			assert.Equal(t, wantTotal, gotTotal)

			want, _ := g.Current()
			got, _ := restored.Current()
			assert.Equal(t, want.Key, got.Key)
			assert.Equal(t, want.Level, got.Level)
		})
	}
}

func TestReload_StartGameIsNoOpAfterRestore(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo("1x1")
	g := newTestGame(t, repo, DefaultConfig())
	require.True(t, g.StartGame(ctx, settings(filter.All(), ModeStandard), false))

	restored := newTestGame(t, repo, DefaultConfig())
	require.True(t, restored.StartGame(ctx, settings(filter.Squares(), ModeRounds), false))
	assert.Equal(t, g.sessionID, restored.sessionID)
}

func TestReload_DiscardsInvalidSnapshot(t *testing.T) {
	tests := []struct {
		name   string
		mode   Mode
		mutate func(m map[string]any)
	}{
		{"index past end", ModeStandard, func(m map[string]any) { m["currentIndex"] = 999 }},
		{"correct exceeds answered", ModeStandard, func(m map[string]any) { m["correctCount"] = 5; m["answered"] = 1 }},
		{"bad start time", ModeStandard, func(m map[string]any) { m["startedAt"] = "yesterday" }},
		{"no cards", ModeStandard, func(m map[string]any) { m["appearances"] = []any{} }},
		{"bad selection", ModeStandard, func(m map[string]any) {
			m["settings"].(map[string]any)["selection"] = "evens"
		}},
		{"negative points", ModeStandard, func(m map[string]any) { m["points"] = -1 }},
		{"endless index at pool end", ModeEndless3, func(m map[string]any) {
			m["currentIndex"] = len(m["pool"].([]any))
		}},
		{"endless index on empty pool", ModeEndless3, func(m map[string]any) {
			m["pool"] = []any{}
			m["currentIndex"] = 1
		}},
		{"accepted without answers", ModeEndless3, func(m map[string]any) { m["lastAccepted"] = true }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo := newMockRepo("1x1")
			repo.rng = []int{3, 4, 5}
			g := newTestGame(t, repo, DefaultConfig())
			require.True(t, g.StartGame(ctx, settings(filter.All(), tt.mode), false))

			var m map[string]any
			require.NoError(t, json.Unmarshal(repo.state, &m))
			tt.mutate(m)
			raw, err := json.Marshal(m)
			require.NoError(t, err)
			repo.state = raw

			restored := newTestGame(t, repo, DefaultConfig())
			assert.Equal(t, PhaseIdle, restored.Phase())
			assert.Nil(t, repo.state, "invalid snapshot should be cleared")
			assert.NotPanics(t, func() { restored.NextCard(ctx) })
		})
	}
}

func TestEndless_IndexPastPoolWraps(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo("1x1")
	repo.rng = []int{3, 4, 5}
	g := newTestGame(t, repo, DefaultConfig())
	require.True(t, g.StartGame(ctx, settings(filter.Squares(), ModeEndless3), false))

	g.currentIndex = len(g.pool)
	var over bool
	require.NotPanics(t, func() { over = g.NextCard(ctx) })
	assert.False(t, over)
	assert.Equal(t, 0, g.currentIndex)
	assert.Len(t, g.pool, 3)
}

func TestEndless_WrongAnswerKeepsHighLevelCard(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo("1x1")
	repo.rng = []int{3, 4}
	repo.put(card.Card{Key: "3x3", Level: card.MaxLevel, Time: 5})
	repo.put(card.Card{Key: "4x4", Level: card.MaxLevel, Time: 5})
	g := newTestGame(t, repo, DefaultConfig())
	require.True(t, g.StartGame(ctx, settings(filter.Squares(), ModeEndless3), false))
	require.Len(t, g.pool, 2)

	first, ok := g.Current()
	require.True(t, ok)
	_, ok = g.HandleAnswer(ctx, answer.Wrong, time.Second)
	require.True(t, ok)
	assert.Equal(t, card.MaxLevel-1, repo.cards[first.Key].Level)

	require.False(t, g.NextCard(ctx))
	assert.Len(t, g.pool, 2, "a wrong answer must not shrink the pool")

	// The accepted flag survives a reload between answer and next card.
	_, ok = g.HandleAnswer(ctx, answer.Correct, time.Second)
	require.True(t, ok)
	restored := newTestGame(t, repo, DefaultConfig())
	require.Equal(t, PhaseActive, restored.Phase())
	require.False(t, restored.NextCard(ctx))
	assert.Len(t, restored.pool, 1)
}

func TestReload_FinishedGameCanBeFinished(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo("1x1")
	repo.rng = []int{2}
	g := newTestGame(t, repo, DefaultConfig())
	require.True(t, g.StartGame(ctx, settings(filter.Squares(), ModeStandard), false))
	playAll(t, g, time.Second)

	restored := newTestGame(t, repo, DefaultConfig())
	assert.Equal(t, PhaseFinished, restored.Phase())
	_, ok := restored.FinishGame(ctx)
	assert.True(t, ok)
}

func TestFinishGame(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo("1x1")
	repo.rng = []int{3, 4, 5, 6, 7, 8, 9}
	g := newTestGame(t, repo, DefaultConfig())
	require.True(t, g.StartGame(ctx, settings(filter.Explicit(6), ModeStandard), false))

	bs := playAll(t, g, 2*time.Second)
	points := g.Points()
	assert.Equal(t, sumPoints(bs), points)

	res, ok := g.FinishGame(ctx)
	require.True(t, ok)
	assert.Equal(t, points, res.Points)
	assert.Equal(t, 7, res.Correct)
	assert.Equal(t, 7, res.Answered)
	assert.Equal(t, 1.0, res.Accuracy())
	assert.Equal(t, stats.FirstGameOfDayBonus, res.Bonus.FirstGameOfDay)

	require.Len(t, repo.history, 1)
	assert.Equal(t, points, repo.history[0].Points)
	assert.Equal(t, "6", repo.history[0].Settings.Selection)
	assert.Equal(t, 1, repo.stats.GamesPlayed)
	assert.Equal(t, points+stats.FirstGameOfDayBonus, repo.stats.Points, "bonus goes to aggregate points")
	require.NotNil(t, repo.result)
	assert.Equal(t, points, repo.result.Points)
	assert.Nil(t, repo.state)

	assert.Equal(t, PhaseIdle, g.Phase())
	assert.Equal(t, 0, g.Points())

	_, ok = g.FinishGame(ctx)
	assert.False(t, ok, "finishing twice is a no-op")
	assert.Len(t, repo.history, 1)
}

func TestDiscardGame(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo("1x1")
	g := newTestGame(t, repo, DefaultConfig())
	require.True(t, g.StartGame(ctx, settings(filter.All(), ModeStandard), false))
	g.HandleAnswer(ctx, answer.Correct, time.Second)

	g.DiscardGame(ctx)
	assert.Equal(t, PhaseIdle, g.Phase())
	assert.Nil(t, repo.state)
	assert.Empty(t, repo.history)
	assert.Equal(t, stats.Stats{}, repo.stats)
	assert.Nil(t, repo.result)
}

func TestStorageFailuresAreSwallowed(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo("1x1")
	repo.failWrites = true
	g := newTestGame(t, repo, DefaultConfig())

	require.True(t, g.StartGame(ctx, settings(filter.All(), ModeRounds), false))
	c, _ := g.Current()
	b, ok := g.HandleAnswer(ctx, answer.Correct, time.Second)
	require.True(t, ok)
	assert.Equal(t, b.TotalPoints, g.Points())
	assert.Equal(t, 2, g.cards[c.Key].Level, "in-memory card follows the answer")

	res, ok := g.FinishGame(ctx)
	require.True(t, ok)
	assert.Equal(t, b.TotalPoints, res.Points)
}

func TestWordDeck_ReverseDirection(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo("german")
	repo.put(card.Card{Key: "Haus", Front: "Haus", Back: "house", Level: 1, Time: 60})
	repo.put(card.Card{Key: "Baum", Front: "Baum", Back: "tree", Level: 1, Time: 60})
	g := newTestGame(t, repo, DefaultConfig())

	s := settings(filter.All(), ModeStandard)
	s.Direction = Reverse
	require.True(t, g.StartGame(ctx, s, false))
	_, total := g.Progress()
	assert.Equal(t, 2, total)

	c, ok := g.Current()
	require.True(t, ok)
	assert.Contains(t, []string{"house", "tree"}, c.Question())
	assert.Equal(t, c.Key, c.Answer())

	b, ok := g.HandleAnswer(ctx, answer.Correct, 10*time.Second)
	require.True(t, ok)
	assert.Equal(t, 1, b.LanguageBonus)
	// level 1 + four-letter answer + language bonus
	assert.Equal(t, 6, b.TotalPoints)
	assert.Equal(t, 2, repo.cards[c.Key].Level)
	assert.NotEmpty(t, repo.cards[c.Key].Front)
}

func TestResult_DataRoundTrip(t *testing.T) {
	res := Result{
		SessionID:  "abc",
		Deck:       "1x1",
		Settings:   settings(filter.Explicit(3, 7), ModeEndless5),
		StartedAt:  testNow.Add(-90 * time.Second),
		FinishedAt: testNow,
		Points:     40,
		Correct:    9,
		Answered:   12,
		Bonus:      stats.Bonus{FirstGameOfDay: 5, Streak: 2},
	}
	got, err := ResultFromData(res.Data())
	require.NoError(t, err)
	assert.Equal(t, res.Settings, got.Settings)
	assert.Equal(t, 90*time.Second, got.Duration())
	assert.Equal(t, res.Bonus, got.Bonus)
	assert.Equal(t, 0.75, got.Accuracy())
}

func TestGame_WithSQLiteStore(t *testing.T) {
	ctx := context.Background()
	s, err := store.Open("file::memory:?cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	repo := s.Deck("1x1")
	require.NoError(t, repo.SaveRange(ctx, []int{2, 3}))

	g := newTestGame(t, repo, DefaultConfig())
	require.True(t, g.StartGame(ctx, settings(filter.All(), ModeRounds), false))
	c, _ := g.Current()
	_, ok := g.HandleAnswer(ctx, answer.Correct, 3*time.Second)
	require.True(t, ok)

	cards, err := repo.LoadCards(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, c.Key, cards[0].Key)
	assert.Equal(t, 2, cards[0].Level)
	assert.Equal(t, 3.0, cards[0].Time)

	restored := newTestGame(t, repo, DefaultConfig())
	assert.Equal(t, PhaseActive, restored.Phase())
	assert.Equal(t, g.Points(), restored.Points())
	got, _ := restored.Current()
	assert.Equal(t, 2, got.Level)

	playAll(t, restored, 10*time.Second)
	res, ok := restored.FinishGame(ctx)
	require.True(t, ok)

	hist, err := repo.LoadHistory(ctx, 0)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, res.Points, hist[0].Points)
	assert.Equal(t, res.SessionID, hist[0].SessionID)

	st, err := repo.LoadGameState(ctx)
	require.NoError(t, err)
	assert.Nil(t, st)
}
