package contextmgr

import "fmt"

const (
	DefaultMaxMessages    = 30
	DefaultMinTurnsToKeep = 2
	DefaultPreserveRecent = 2
)

// Config bounds the retained history.
type Config struct {
	// MaxMessages is the message budget, system message included.
	MaxMessages int
	// MinTurnsToKeep is an absolute floor; budget pruning never goes below it.
	MinTurnsToKeep int
	// PreserveRecent is how many trailing messages keep their tool payloads.
	PreserveRecent int
}

// DefaultConfig returns the default budget: 30 messages, 2 turns kept, 2 recent payloads.
func DefaultConfig() Config {
	return Config{
		MaxMessages:    DefaultMaxMessages,
		MinTurnsToKeep: DefaultMinTurnsToKeep,
		PreserveRecent: DefaultPreserveRecent,
	}
}

// Validate rejects budgets that cannot be honored.
func (c Config) Validate() error {
	if c.MaxMessages < 1 {
		return fmt.Errorf("%w: max messages must be at least 1, got %d", ErrInvalidArgument, c.MaxMessages)
	}
	if c.MinTurnsToKeep < 0 {
		return fmt.Errorf("%w: min turns to keep cannot be negative, got %d", ErrInvalidArgument, c.MinTurnsToKeep)
	}
	if c.PreserveRecent < 0 {
		return fmt.Errorf("%w: preserve recent cannot be negative, got %d", ErrInvalidArgument, c.PreserveRecent)
	}
	return nil
}

func (c Config) redactionPolicy() RedactionPolicy {
	return RedactionPolicy{PreserveRecent: c.PreserveRecent, RemoveEmpty: true}
}
