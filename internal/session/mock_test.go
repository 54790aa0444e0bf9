package session

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/entorb/flashcards-sub001/internal/card"
	"github.com/entorb/flashcards-sub001/internal/stats"
	"github.com/entorb/flashcards-sub001/internal/store"
)

var errWriteFailed = errors.New("disk full")

// mockRepo is an in-memory store.DeckRepo. Game state goes through JSON so
// reloads exercise the same validation as the real store.
type mockRepo struct {
	name       string
	cards      map[string]card.Card
	order      []string
	history    []store.HistoryRecord
	stats      stats.Stats
	state      []byte
	config     *store.SettingsData
	rng        []int
	result     *store.GameResultData
	failWrites bool
}

func newMockRepo(name string) *mockRepo {
	return &mockRepo{name: name, cards: make(map[string]card.Card)}
}

func (m *mockRepo) Name() string { return m.name }

func (m *mockRepo) put(c card.Card) {
	if _, ok := m.cards[c.Key]; !ok {
		m.order = append(m.order, c.Key)
	}
	m.cards[c.Key] = c
}

func (m *mockRepo) LoadCards(_ context.Context) ([]card.Card, error) {
	out := make([]card.Card, 0, len(m.order))
	for _, k := range m.order {
		out = append(out, m.cards[k])
	}
	return out, nil
}

func (m *mockRepo) SeedCards(_ context.Context, cards []card.Card) error {
	for _, c := range cards {
		if _, ok := m.cards[c.Key]; !ok {
			m.put(c)
		}
	}
	return nil
}

func (m *mockRepo) UpdateCard(_ context.Context, key string, patch card.Patch) error {
	if m.failWrites {
		return errWriteFailed
	}
	c, ok := m.cards[key]
	if !ok {
		c = card.New(key)
	}
	m.put(card.Apply(c, patch))
	return nil
}

func (m *mockRepo) ResetCards(_ context.Context) error {
	for k, c := range m.cards {
		m.cards[k] = c.Reset()
	}
	return nil
}

func (m *mockRepo) LoadHistory(_ context.Context, _ int) ([]store.HistoryRecord, error) {
	return m.history, nil
}

func (m *mockRepo) AppendHistory(_ context.Context, rec store.HistoryRecord) error {
	if m.failWrites {
		return errWriteFailed
	}
	m.history = append(m.history, rec)
	return nil
}

func (m *mockRepo) LoadGameStats(_ context.Context) (stats.Stats, error) { return m.stats, nil }

func (m *mockRepo) SaveGameStats(_ context.Context, s stats.Stats) error {
	if m.failWrites {
		return errWriteFailed
	}
	m.stats = s
	return nil
}

func (m *mockRepo) LoadGameState(ctx context.Context) (*store.GameStateData, error) {
	if m.state == nil {
		return nil, nil
	}
	st, err := store.ValidateGameState(m.state)
	if err != nil {
		m.state = nil
		return nil, nil
	}
	return st, nil
}

func (m *mockRepo) SaveGameState(_ context.Context, st store.GameStateData) error {
	if m.failWrites {
		return errWriteFailed
	}
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	m.state = raw
	return nil
}

func (m *mockRepo) ClearGameState(_ context.Context) error {
	if m.failWrites {
		return errWriteFailed
	}
	m.state = nil
	return nil
}

func (m *mockRepo) GetGameConfig(_ context.Context) (*store.SettingsData, error) { return m.config, nil }

func (m *mockRepo) SetGameConfig(_ context.Context, s store.SettingsData) error {
	if m.failWrites {
		return errWriteFailed
	}
	m.config = &s
	return nil
}

func (m *mockRepo) LoadRange(_ context.Context) ([]int, error) { return m.rng, nil }

func (m *mockRepo) SaveRange(_ context.Context, values []int) error {
	m.rng = values
	return nil
}

func (m *mockRepo) GetGameResult(_ context.Context) (*store.GameResultData, error) {
	return m.result, nil
}

func (m *mockRepo) SetGameResult(_ context.Context, r store.GameResultData) error {
	if m.failWrites {
		return errWriteFailed
	}
	m.result = &r
	return nil
}

func (m *mockRepo) ClearGameResult(_ context.Context) error {
	m.result = nil
	return nil
}
