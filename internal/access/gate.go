package access

import (
	"errors"
	"sync"

	"github.com/Jasmitha1474/women-safety-app/internal/validation"

	"go.uber.org/zap"
)

var (
	// ErrIncorrectPin the submitted PIN does not match the stored one.
	ErrIncorrectPin = errors.New("incorrect pin")
	// ErrLocked a profile operation was attempted while the gate is locked.
	ErrLocked = errors.New("profile is locked")
)

// State lock state of the profile view
type State int

const (
	Locked State = iota
	Unlocked
)

func (s State) String() string {
	if s == Unlocked {
		return "unlocked"
	}
	return "locked"
}

// PinSource provides the currently stored PIN.
type PinSource interface {
	StoredPin() string
}

// Gate guards the profile behind the stored PIN. It starts Locked when a PIN
// is stored and Unlocked otherwise, so a first-time user can create one.
// A failed attempt leaves the state unchanged; there is no attempt limit.
type Gate struct {
	pins   PinSource
	logger *zap.Logger

	mu    sync.Mutex
	state State
}

// NewGate derives the initial state from the stored PIN.
func NewGate(pins PinSource, logger *zap.Logger) *Gate {
	g := &Gate{pins: pins, logger: logger, state: Unlocked}
	if pins.StoredPin() != "" {
		g.state = Locked
	}
	return g
}

func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *Gate) Unlocked() bool {
	return g.State() == Unlocked
}

// SubmitPin unlocks the gate when pin equals the stored PIN.
// Submitting while already unlocked is a no-op.
func (g *Gate) SubmitPin(pin string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == Unlocked {
		return nil
	}

	stored := g.pins.StoredPin()
	if stored == "" {
		g.state = Unlocked
		return nil
	}
	if !validation.IsValidPin(pin) || pin != stored {
		g.logger.Info("Rejected pin attempt")
		return ErrIncorrectPin
	}

	g.state = Unlocked
	g.logger.Info("Profile unlocked")
	return nil
}
