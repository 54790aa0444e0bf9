package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

// catalogRepo implements DeckCatalog.
type catalogRepo struct {
	db *sql.DB
}

func (r *catalogRepo) List(ctx context.Context) ([]DeckInfo, error) {
	query, args := builder().
		Select("deck", entsql.Count("*"), "AVG(level)").
		From(entsql.Table(cardsTable)).
		GroupBy("deck").
		OrderBy("deck").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query decks: %w", err)
	}
	defer rows.Close()

	var decks []DeckInfo
	for rows.Next() {
		var (
			d    DeckInfo
			mean sql.NullFloat64
		)
		if err := rows.Scan(&d.Name, &d.Cards, &mean); err != nil {
			return nil, fmt.Errorf("scan deck: %w", err)
		}
		d.MeanLevel = mean.Float64
		decks = append(decks, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decks: %w", err)
	}
	return decks, nil
}

func (r *catalogRepo) Delete(ctx context.Context, name string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete deck: %w", err)
	}
	defer tx.Rollback()

	query, args := builder().Delete(cardsTable).Where(entsql.EQ("deck", name)).Query()
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete cards: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete cards: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("deck %q: %w", name, ErrNotFound)
	}

	for _, table := range []string{historyTable, gameStatsTable, kvTable} {
		query, args := builder().Delete(table).Where(entsql.EQ("deck", name)).Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	return tx.Commit()
}
