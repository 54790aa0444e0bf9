package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// globalScope is the deck value of rows not tied to any deck.
const globalScope = ""

// Keys of the deck-scoped values in the kv table.
const (
	keyGameState  = "game_state"
	keyGameConfig = "game_config"
	keyRange      = "range"
	keyGameResult = "game_result"
	keyETA        = "eta"
)

// kvStore reads and writes JSON values in the kv table for one scope.
type kvStore struct {
	db   *sql.DB
	deck string
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func (k kvStore) where(name string) *entsql.Predicate {
	return entsql.And(entsql.EQ("deck", k.deck), entsql.EQ("name", name))
}

// get loads the raw value stored under name. ok is false if nothing is stored.
func (k kvStore) get(ctx context.Context, name string) (raw []byte, ok bool, err error) {
	query, args := builder().
		Select("value").
		From(entsql.Table(kvTable)).
		Where(k.where(name)).
		Query()

	var value string
	err = k.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load %s: %w", name, err)
	}
	return []byte(value), true, nil
}

// getJSON decodes the value stored under name into v.
func (k kvStore) getJSON(ctx context.Context, name string, v any) (bool, error) {
	raw, ok, err := k.get(ctx, name)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", name, err)
	}
	return true, nil
}

// put stores raw under name, replacing any previous value.
func (k kvStore) put(ctx context.Context, name string, raw []byte) error {
	query, args := builder().
		Insert(kvTable).
		Columns("deck", "name", "value", "updated_at").
		Values(k.deck, name, string(raw), time.Now().UTC().Format(time.RFC3339)).
		OnConflict(
			entsql.ConflictColumns("deck", "name"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if _, err := k.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}

func (k kvStore) putJSON(ctx context.Context, name string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return k.put(ctx, name, raw)
}

func (k kvStore) delete(ctx context.Context, name string) error {
	query, args := builder().
		Delete(kvTable).
		Where(k.where(name)).
		Query()

	if _, err := k.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear %s: %w", name, err)
	}
	return nil
}
