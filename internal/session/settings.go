package session

import (
	"fmt"

	"github.com/entorb/flashcards-sub001/internal/filter"
	"github.com/entorb/flashcards-sub001/internal/selector"
	"github.com/entorb/flashcards-sub001/internal/store"
)

// Mode selects how a game iterates its cards.
type Mode string

const (
	ModeStandard Mode = "standard"
	ModeRounds   Mode = "rounds"
	ModeEndless3 Mode = "endless-3"
	ModeEndless5 Mode = "endless-5"
)

// Modes lists every mode in menu order.
var Modes = []Mode{ModeStandard, ModeRounds, ModeEndless3, ModeEndless5}

// DisplayName returns a human-readable label.
func (m Mode) DisplayName() string {
	switch m {
	case ModeStandard:
		return "Standard"
	case ModeRounds:
		return "Rounds"
	case ModeEndless3:
		return "Endless (level 3)"
	case ModeEndless5:
		return "Endless (level 5)"
	default:
		return string(m)
	}
}

// EndlessTarget returns the level at which a card leaves the pool.
// ok is false for modes that are not endless.
func (m Mode) EndlessTarget() (level int, ok bool) {
	switch m {
	case ModeEndless3:
		return 3, true
	case ModeEndless5:
		return 5, true
	default:
		return 0, false
	}
}

// ParseMode parses a mode name.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// Direction is the translation direction of word decks.
type Direction string

const (
	// Forward asks for the back of the card.
	Forward Direction = "forward"
	// Reverse asks for the front of the card.
	Reverse Direction = "reverse"
)

// ParseDirection parses a direction name. The empty string means Forward.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case "", Forward:
		return Forward, nil
	case Reverse:
		return Reverse, nil
	default:
		return "", fmt.Errorf("unknown direction %q", s)
	}
}

// Settings configure one game and stay fixed while it runs.
type Settings struct {
	Selection filter.Selection
	Focus     selector.Focus
	Mode      Mode
	Direction Direction
}

// DefaultSettings returns weak-focus standard play over all cards.
func DefaultSettings() Settings {
	return Settings{
		Selection: filter.All(),
		Focus:     selector.FocusWeak,
		Mode:      ModeStandard,
		Direction: Forward,
	}
}

// Data converts s to its persisted form.
func (s Settings) Data() store.SettingsData {
	return store.SettingsData{
		Selection: s.Selection.String(),
		Focus:     string(s.Focus),
		Mode:      string(s.Mode),
		Direction: string(s.Direction),
	}
}

// SettingsFromData parses persisted settings.
func SettingsFromData(d store.SettingsData) (Settings, error) {
	sel, err := filter.ParseSelection(d.Selection)
	if err != nil {
		return Settings{}, err
	}
	focus, err := selector.ParseFocus(d.Focus)
	if err != nil {
		return Settings{}, err
	}
	mode, err := ParseMode(d.Mode)
	if err != nil {
		return Settings{}, err
	}
	dir, err := ParseDirection(d.Direction)
	if err != nil {
		return Settings{}, err
	}
	return Settings{Selection: sel, Focus: focus, Mode: mode, Direction: dir}, nil
}
