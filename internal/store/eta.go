package store

import (
	"context"
	"encoding/json"

	"github.com/entorb/flashcards-sub001/internal/eta"
)

// etaRepo implements ETARepo on the global kv scope.
type etaRepo struct {
	kv kvStore
}

func (r *etaRepo) Load(ctx context.Context) (*eta.Tracker, error) {
	raw, ok, err := r.kv.get(ctx, keyETA)
	if err != nil || !ok {
		return nil, err
	}
	var t eta.Tracker
	if err := json.Unmarshal(raw, &t); err != nil || t.Validate() != nil {
		return nil, r.Clear(ctx)
	}
	return &t, nil
}

func (r *etaRepo) Save(ctx context.Context, t eta.Tracker) error {
	return r.kv.putJSON(ctx, keyETA, t)
}

func (r *etaRepo) Clear(ctx context.Context) error {
	return r.kv.delete(ctx, keyETA)
}
