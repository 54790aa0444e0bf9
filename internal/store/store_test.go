package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entorb/flashcards-sub001/internal/card"
	"github.com/entorb/flashcards-sub001/internal/eta"
	"github.com/entorb/flashcards-sub001/internal/stats"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func ptr[T any](v T) *T { return &v }

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.db

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is not checked here.
		{"foreign_keys", "1"},
		{"busy_timeout", "5000"},
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestCards_SeedLoadUpdate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Deck("1x1")

	require.NoError(t, repo.SeedCards(ctx, []card.Card{card.New("2x3"), card.New("3x3")}))
	// Seeding again must not overwrite progress.
	require.NoError(t, repo.UpdateCard(ctx, "2x3", card.Patch{Level: ptr(4), Time: ptr(2.5)}))
	require.NoError(t, repo.SeedCards(ctx, []card.Card{card.New("2x3"), card.New("4x4")}))

	cards, err := repo.LoadCards(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 3)
	assert.Equal(t, "2x3", cards[0].Key)
	assert.Equal(t, 4, cards[0].Level)
	assert.Equal(t, 2.5, cards[0].Time)
	assert.Equal(t, card.MinLevel, cards[2].Level)
}

func TestCards_PartialUpdateKeepsTime(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Deck("1x1")

	require.NoError(t, repo.UpdateCard(ctx, "5x7", card.Patch{Level: ptr(3), Time: ptr(4.0)}))
	require.NoError(t, repo.UpdateCard(ctx, "5x7", card.Patch{Level: ptr(2)}))

	cards, err := repo.LoadCards(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, 2, cards[0].Level)
	assert.Equal(t, 4.0, cards[0].Time)
}

func TestCards_UpdateCreatesVirtualCard(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Deck("1x1")

	require.NoError(t, repo.UpdateCard(ctx, "6x6", card.Patch{Level: ptr(2)}))
	cards, err := repo.LoadCards(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, 2, cards[0].Level)
	assert.Equal(t, card.MaxTime, cards[0].Time)
}

func TestCards_ResetIsDeckScoped(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	mult := s.Deck("1x1")
	words := s.Deck("german")

	require.NoError(t, mult.UpdateCard(ctx, "2x2", card.Patch{Level: ptr(5), Time: ptr(1.0)}))
	require.NoError(t, words.SeedCards(ctx, []card.Card{{Key: "Haus", Front: "Haus", Back: "house", Level: 3, Time: 5}}))

	require.NoError(t, mult.ResetCards(ctx))

	got, err := mult.LoadCards(ctx)
	require.NoError(t, err)
	assert.Equal(t, card.MinLevel, got[0].Level)
	assert.Equal(t, card.MaxTime, got[0].Time)

	other, err := words.LoadCards(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, other[0].Level)
	assert.Equal(t, "house", other[0].Back)
}

func TestHistory_NewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Deck("1x1")

	base := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := repo.AppendHistory(ctx, HistoryRecord{
			SessionID: "s" + string(rune('a'+i)),
			PlayedAt:  base,
			Settings:  SettingsData{Selection: "all", Focus: "weak", Mode: "standard"},
			Points:    10 * (i + 1),
			Correct:   i,
			Answered:  3,
		})
		require.NoError(t, err)
	}
	require.NoError(t, s.Deck("german").AppendHistory(ctx, HistoryRecord{SessionID: "other", PlayedAt: base}))

	recs, err := repo.LoadHistory(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "sc", recs[0].SessionID)
	assert.Equal(t, 30, recs[0].Points)
	assert.Equal(t, "standard", recs[0].Settings.Mode)
	assert.True(t, recs[0].PlayedAt.Equal(base))
	assert.Greater(t, recs[0].Sequence, recs[1].Sequence)

	limited, err := repo.LoadHistory(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestGameStats_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Deck("1x1")

	empty, err := repo.LoadGameStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, stats.Stats{}, empty)

	played := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	want := stats.Stats{GamesPlayed: 2, Points: 40, Correct: 9, Answered: 12, BestPoints: 25, LastPlayed: played, Streak: 2}
	require.NoError(t, repo.SaveGameStats(ctx, want))
	want.GamesPlayed = 3
	require.NoError(t, repo.SaveGameStats(ctx, want))

	got, err := repo.LoadGameStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, got.GamesPlayed)
	assert.Equal(t, 40, got.Points)
	assert.True(t, got.LastPlayed.Equal(played))
	assert.Equal(t, 2, got.Streak)
}

func validState() GameStateData {
	return GameStateData{
		SessionID:    "abc",
		StartedAt:    "2026-04-02T10:00:00Z",
		Settings:     SettingsData{Selection: "3,6", Focus: "slow", Mode: "rounds"},
		Appearances:  []AppearanceData{{Key: "3x6", Round: 0}, {Key: "3x6", Round: 1}},
		CurrentIndex: 1,
		Points:       7,
		CorrectCount: 1,
		Answered:     1,
	}
}

func TestGameState_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Deck("1x1")

	got, err := repo.LoadGameState(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, repo.SaveGameState(ctx, validState()))
	got, err = repo.LoadGameState(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, GameStateVersion, got.Version)
	assert.Equal(t, "rounds", got.Settings.Mode)
	assert.Len(t, got.Appearances, 2)

	require.NoError(t, repo.ClearGameState(ctx))
	got, err = repo.LoadGameState(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGameState_CorruptIsDiscarded(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"malformed json", `{"version":1,`},
		{"negative points", `{"version":1,"sessionId":"a","startedAt":"x","settings":{"selection":"all","focus":"weak","mode":"standard"},"appearances":[],"currentIndex":0,"points":-3,"correctCount":0}`},
		{"fractional index", `{"version":1,"sessionId":"a","startedAt":"x","settings":{"selection":"all","focus":"weak","mode":"standard"},"appearances":[],"currentIndex":1.5,"points":0,"correctCount":0}`},
		{"unknown mode", `{"version":1,"sessionId":"a","startedAt":"x","settings":{"selection":"all","focus":"weak","mode":"blitz"},"appearances":[],"currentIndex":0,"points":0,"correctCount":0}`},
		{"old version", `{"version":0,"sessionId":"a","startedAt":"x","settings":{"selection":"all","focus":"weak","mode":"standard"},"appearances":[],"currentIndex":0,"points":0,"correctCount":0}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := openTestStore(t)
			ctx := context.Background()
			repo := s.Deck("1x1")

			kv := kvStore{db: s.db, deck: "1x1"}
			require.NoError(t, kv.put(ctx, keyGameState, []byte(tt.raw)))

			got, err := repo.LoadGameState(ctx)
			require.NoError(t, err)
			assert.Nil(t, got)

			_, ok, err := kv.get(ctx, keyGameState)
			require.NoError(t, err)
			assert.False(t, ok, "corrupt snapshot should be cleared")
		})
	}
}

func TestGameConfigRangeAndResult(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Deck("1x1")

	cfg, err := repo.GetGameConfig(ctx)
	require.NoError(t, err)
	assert.Nil(t, cfg)

	require.NoError(t, repo.SetGameConfig(ctx, SettingsData{Selection: "squares", Focus: "strong", Mode: "endless-3"}))
	cfg, err = repo.GetGameConfig(ctx)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "squares", cfg.Selection)

	rng, err := repo.LoadRange(ctx)
	require.NoError(t, err)
	assert.Nil(t, rng)
	require.NoError(t, repo.SaveRange(ctx, []int{3, 4, 5}))
	rng, err = repo.LoadRange(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4, 5}, rng)

	require.NoError(t, repo.SetGameResult(ctx, GameResultData{SessionID: "x", Points: 12}))
	res, err := repo.GetGameResult(ctx)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 12, res.Points)
	require.NoError(t, repo.ClearGameResult(ctx))
	res, err = repo.GetGameResult(ctx)
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestCatalog(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Deck("1x1").SeedCards(ctx, []card.Card{card.New("1x1"), {Key: "1x2", Level: 3, Time: 60}}))
	require.NoError(t, s.Deck("german").SeedCards(ctx, []card.Card{{Key: "Haus", Back: "house", Level: 1, Time: 60}}))
	require.NoError(t, s.Deck("german").SetGameConfig(ctx, SettingsData{Selection: "all", Focus: "weak", Mode: "standard"}))

	decks, err := s.DeckCatalog().List(ctx)
	require.NoError(t, err)
	require.Len(t, decks, 2)
	assert.Equal(t, "1x1", decks[0].Name)
	assert.Equal(t, 2, decks[0].Cards)
	assert.InDelta(t, 2.0, decks[0].MeanLevel, 1e-9)

	require.NoError(t, s.DeckCatalog().Delete(ctx, "german"))
	cfg, err := s.Deck("german").GetGameConfig(ctx)
	require.NoError(t, err)
	assert.Nil(t, cfg)

	err = s.DeckCatalog().Delete(ctx, "german")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestETA_RoundTripAndCorrupt(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.ETA()

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	var tr eta.Tracker
	now := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	require.True(t, tr.Start(10, now))
	require.True(t, tr.Record(4, now.Add(time.Minute)))
	require.NoError(t, repo.Save(ctx, tr))

	got, err = repo.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 10, got.Total)
	assert.Equal(t, 4, got.Completed())

	kv := kvStore{db: s.db, deck: globalScope}
	require.NoError(t, kv.put(ctx, keyETA, []byte(`{"total":-2}`)))
	got, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
	_, ok, err := kv.get(ctx, keyETA)
	require.NoError(t, err)
	assert.False(t, ok)
}
