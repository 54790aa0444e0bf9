package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/entorb/flashcards-sub001/internal/card"
	"github.com/entorb/flashcards-sub001/internal/stats"
)

// deckRepo implements DeckRepo for a single deck.
type deckRepo struct {
	db   *sql.DB
	seq  *sequenceCounter
	deck string
}

func (r *deckRepo) Name() string { return r.deck }

func (r *deckRepo) kv() kvStore { return kvStore{db: r.db, deck: r.deck} }

func (r *deckRepo) LoadCards(ctx context.Context) ([]card.Card, error) {
	query, args := builder().
		Select("key", "front", "back", "level", "time").
		From(entsql.Table(cardsTable)).
		Where(entsql.EQ("deck", r.deck)).
		OrderBy("id").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}
	defer rows.Close()

	var cards []card.Card
	for rows.Next() {
		var c card.Card
		if err := rows.Scan(&c.Key, &c.Front, &c.Back, &c.Level, &c.Time); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		c.Level = card.ClampLevel(c.Level)
		c.Time = card.ClampTime(c.Time)
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cards: %w", err)
	}
	return cards, nil
}

func (r *deckRepo) SeedCards(ctx context.Context, cards []card.Card) error {
	if len(cards) == 0 {
		return nil
	}
	ins := builder().
		Insert(cardsTable).
		Columns("deck", "key", "front", "back", "level", "time")
	for _, c := range cards {
		ins.Values(r.deck, c.Key, c.Front, c.Back, card.ClampLevel(c.Level), card.ClampTime(c.Time))
	}
	query, args := ins.OnConflict(
		entsql.ConflictColumns("deck", "key"),
		entsql.DoNothing(),
	).Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("seed cards: %w", err)
	}
	return nil
}

func (r *deckRepo) UpdateCard(ctx context.Context, key string, patch card.Patch) error {
	if patch.Level == nil && patch.Time == nil {
		return nil
	}
	c := card.Apply(card.New(key), patch)

	query, args := builder().
		Insert(cardsTable).
		Columns("deck", "key", "front", "back", "level", "time").
		Values(r.deck, key, "", "", c.Level, c.Time).
		OnConflict(
			entsql.ConflictColumns("deck", "key"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				if patch.Level != nil {
					u.SetExcluded("level")
				}
				if patch.Time != nil {
					u.SetExcluded("time")
				}
			}),
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update card %s: %w", key, err)
	}
	return nil
}

func (r *deckRepo) ResetCards(ctx context.Context) error {
	query, args := builder().
		Update(cardsTable).
		Set("level", card.MinLevel).
		Set("time", card.MaxTime).
		Where(entsql.EQ("deck", r.deck)).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("reset cards: %w", err)
	}
	return nil
}

func (r *deckRepo) LoadGameStats(ctx context.Context) (stats.Stats, error) {
	query, args := builder().
		Select("games_played", "points", "correct", "answered", "best_points", "last_played", "streak").
		From(entsql.Table(gameStatsTable)).
		Where(entsql.EQ("deck", r.deck)).
		Query()

	var (
		s          stats.Stats
		lastPlayed string
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&s.GamesPlayed, &s.Points, &s.Correct, &s.Answered, &s.BestPoints, &lastPlayed, &s.Streak,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return stats.Stats{}, nil
	}
	if err != nil {
		return stats.Stats{}, fmt.Errorf("load game stats: %w", err)
	}
	if lastPlayed != "" {
		// An unparsable date only loses the streak, not the totals.
		if t, err := time.Parse(time.RFC3339, lastPlayed); err == nil {
			s.LastPlayed = t
		} else {
			s.Streak = 0
		}
	}
	return s, nil
}

func (r *deckRepo) SaveGameStats(ctx context.Context, s stats.Stats) error {
	lastPlayed := ""
	if !s.LastPlayed.IsZero() {
		lastPlayed = s.LastPlayed.Format(time.RFC3339)
	}
	query, args := builder().
		Insert(gameStatsTable).
		Columns("deck", "games_played", "points", "correct", "answered", "best_points", "last_played", "streak").
		Values(r.deck, s.GamesPlayed, s.Points, s.Correct, s.Answered, s.BestPoints, lastPlayed, s.Streak).
		OnConflict(
			entsql.ConflictColumns("deck"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save game stats: %w", err)
	}
	return nil
}

func (r *deckRepo) GetGameConfig(ctx context.Context) (*SettingsData, error) {
	var s SettingsData
	ok, err := r.kv().getJSON(ctx, keyGameConfig, &s)
	if err != nil || !ok {
		return nil, err
	}
	return &s, nil
}

func (r *deckRepo) SetGameConfig(ctx context.Context, settings SettingsData) error {
	return r.kv().putJSON(ctx, keyGameConfig, settings)
}

func (r *deckRepo) LoadRange(ctx context.Context) ([]int, error) {
	var values []int
	ok, err := r.kv().getJSON(ctx, keyRange, &values)
	if err != nil || !ok {
		return nil, err
	}
	return values, nil
}

func (r *deckRepo) SaveRange(ctx context.Context, values []int) error {
	return r.kv().putJSON(ctx, keyRange, values)
}

func (r *deckRepo) GetGameResult(ctx context.Context) (*GameResultData, error) {
	var res GameResultData
	ok, err := r.kv().getJSON(ctx, keyGameResult, &res)
	if err != nil || !ok {
		return nil, err
	}
	return &res, nil
}

func (r *deckRepo) SetGameResult(ctx context.Context, result GameResultData) error {
	return r.kv().putJSON(ctx, keyGameResult, result)
}

func (r *deckRepo) ClearGameResult(ctx context.Context) error {
	return r.kv().delete(ctx, keyGameResult)
}
