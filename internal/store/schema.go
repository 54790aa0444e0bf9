package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	cardsTable     = "cards"
	historyTable   = "history"
	gameStatsTable = "game_stats"
	kvTable        = "kv"
)

var (
	// CardsColumns holds the columns for the "cards" table.
	CardsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "deck", Type: field.TypeString},
		{Name: "key", Type: field.TypeString},
		{Name: "front", Type: field.TypeString, Default: ""},
		{Name: "back", Type: field.TypeString, Default: ""},
		{Name: "level", Type: field.TypeInt, Default: 1},
		{Name: "time", Type: field.TypeFloat64, Default: 60.0},
	}
	// CardsTable holds the schema information for the "cards" table.
	CardsTable = &schema.Table{
		Name:       cardsTable,
		Columns:    CardsColumns,
		PrimaryKey: []*schema.Column{CardsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "card_deck_key", Unique: true, Columns: []*schema.Column{CardsColumns[1], CardsColumns[2]}},
		},
	}

	// HistoryColumns holds the columns for the "history" table.
	HistoryColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64},
		{Name: "deck", Type: field.TypeString},
		{Name: "session_id", Type: field.TypeString},
		{Name: "played_at", Type: field.TypeString},
		{Name: "settings", Type: field.TypeString},
		{Name: "points", Type: field.TypeInt},
		{Name: "correct", Type: field.TypeInt},
		{Name: "answered", Type: field.TypeInt},
		{Name: "bonus", Type: field.TypeInt, Default: 0},
		{Name: "duration_secs", Type: field.TypeFloat64, Default: 0.0},
	}
	// HistoryTable holds the schema information for the "history" table.
	HistoryTable = &schema.Table{
		Name:       historyTable,
		Columns:    HistoryColumns,
		PrimaryKey: []*schema.Column{HistoryColumns[0]},
		Indexes: []*schema.Index{
			{Name: "history_deck_sequence", Unique: false, Columns: []*schema.Column{HistoryColumns[2], HistoryColumns[1]}},
		},
	}

	// GameStatsColumns holds the columns for the "game_stats" table.
	GameStatsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "deck", Type: field.TypeString, Unique: true},
		{Name: "games_played", Type: field.TypeInt, Default: 0},
		{Name: "points", Type: field.TypeInt, Default: 0},
		{Name: "correct", Type: field.TypeInt, Default: 0},
		{Name: "answered", Type: field.TypeInt, Default: 0},
		{Name: "best_points", Type: field.TypeInt, Default: 0},
		{Name: "last_played", Type: field.TypeString, Default: ""},
		{Name: "streak", Type: field.TypeInt, Default: 0},
	}
	// GameStatsTable holds the schema information for the "game_stats" table.
	GameStatsTable = &schema.Table{
		Name:       gameStatsTable,
		Columns:    GameStatsColumns,
		PrimaryKey: []*schema.Column{GameStatsColumns[0]},
	}

	// KVColumns holds the columns for the "kv" table.
	KVColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "deck", Type: field.TypeString},
		{Name: "name", Type: field.TypeString},
		{Name: "value", Type: field.TypeString},
		{Name: "updated_at", Type: field.TypeString},
	}
	// KVTable holds the schema information for the "kv" table.
	KVTable = &schema.Table{
		Name:       kvTable,
		Columns:    KVColumns,
		PrimaryKey: []*schema.Column{KVColumns[0]},
		Indexes: []*schema.Index{
			{Name: "kv_deck_name", Unique: true, Columns: []*schema.Column{KVColumns[1], KVColumns[2]}},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		CardsTable,
		HistoryTable,
		GameStatsTable,
		KVTable,
	}
)

// migrate creates or upgrades all tables.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	return m.Create(ctx, Tables...)
}
