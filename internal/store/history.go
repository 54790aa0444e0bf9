package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *deckRepo) AppendHistory(ctx context.Context, rec HistoryRecord) error {
	seq, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}
	settings, err := json.Marshal(rec.Settings)
	if err != nil {
		return fmt.Errorf("marshal history settings: %w", err)
	}

	query, args := builder().
		Insert(historyTable).
		Columns("sequence", "deck", "session_id", "played_at", "settings",
			"points", "correct", "answered", "bonus", "duration_secs").
		Values(seq, r.deck, rec.SessionID, rec.PlayedAt.UTC().Format(time.RFC3339), string(settings),
			rec.Points, rec.Correct, rec.Answered, rec.Bonus, rec.DurationSecs).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

func (r *deckRepo) LoadHistory(ctx context.Context, limit int) ([]HistoryRecord, error) {
	sel := builder().
		Select("id", "sequence", "session_id", "played_at", "settings",
			"points", "correct", "answered", "bonus", "duration_secs").
		From(entsql.Table(historyTable)).
		Where(entsql.EQ("deck", r.deck)).
		OrderBy(entsql.Desc("sequence"))
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var records []HistoryRecord
	for rows.Next() {
		var (
			rec      HistoryRecord
			playedAt string
			settings string
		)
		if err := rows.Scan(&rec.ID, &rec.Sequence, &rec.SessionID, &playedAt, &settings,
			&rec.Points, &rec.Correct, &rec.Answered, &rec.Bonus, &rec.DurationSecs); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		rec.PlayedAt, err = time.Parse(time.RFC3339, playedAt)
		if err != nil {
			return nil, fmt.Errorf("parse history date %q: %w", playedAt, err)
		}
		if err := json.Unmarshal([]byte(settings), &rec.Settings); err != nil {
			return nil, fmt.Errorf("unmarshal history settings: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return records, nil
}
