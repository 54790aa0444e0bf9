package store

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// GameStateVersion is the snapshot format written by SaveGameState.
const GameStateVersion = 1

//go:embed gamestate.schema.json
var gameStateSchemaJSON []byte

const gameStateSchemaURL = "schema://gamestate.json"

var (
	gameStateSchemaOnce sync.Once
	gameStateSchema     *jsonschema.Schema
	gameStateSchemaErr  error
)

func compiledGameStateSchema() (*jsonschema.Schema, error) {
	gameStateSchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(gameStateSchemaJSON))
		if err != nil {
			gameStateSchemaErr = fmt.Errorf("parse game state schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(gameStateSchemaURL, doc); err != nil {
			gameStateSchemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		gameStateSchema, gameStateSchemaErr = c.Compile(gameStateSchemaURL)
	})
	return gameStateSchema, gameStateSchemaErr
}

// ValidateGameState checks a raw snapshot against the game state schema
// and decodes it.
func ValidateGameState(raw []byte) (*GameStateData, error) {
	sch, err := compiledGameStateSchema()
	if err != nil {
		return nil, err
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := sch.Validate(inst); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var state GameStateData
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("decode game state: %w", err)
	}
	return &state, nil
}

func (r *deckRepo) LoadGameState(ctx context.Context) (*GameStateData, error) {
	if _, err := compiledGameStateSchema(); err != nil {
		return nil, err
	}
	raw, ok, err := r.kv().get(ctx, keyGameState)
	if err != nil || !ok {
		return nil, err
	}
	state, err := ValidateGameState(raw)
	if err != nil {
		// Corrupt snapshots are discarded; the caller starts fresh.
		if clearErr := r.ClearGameState(ctx); clearErr != nil {
			return nil, clearErr
		}
		return nil, nil
	}
	return state, nil
}

func (r *deckRepo) SaveGameState(ctx context.Context, state GameStateData) error {
	state.Version = GameStateVersion
	return r.kv().putJSON(ctx, keyGameState, state)
}

func (r *deckRepo) ClearGameState(ctx context.Context) error {
	return r.kv().delete(ctx, keyGameState)
}
