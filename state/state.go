package state

import (
	"errors"
	"sync"
)

// Phase is the coarse lifecycle of one room's game.
type Phase string

const (
	PhasePlaying Phase = "playing"
	PhaseWon     Phase = "won"
	PhaseLost    Phase = "lost"
)

// ErrTransitionNotAllowed is returned when a phase transition is not allowed.
var ErrTransitionNotAllowed = errors.New("phase transition not allowed")

// Machine guards phase transitions: only explicitly registered edges are
// legal, everything else is rejected without touching the current phase.
type Machine struct {
	current     Phase
	transitions map[Phase]map[Phase]bool
	mutex       sync.RWMutex
}

func NewMachine(initial Phase) *Machine {
	return &Machine{
		current:     initial,
		transitions: make(map[Phase]map[Phase]bool),
	}
}

// NewGameMachine returns a machine wired with the legal game transitions.
// Playing can end in won or lost; terminal phases never change again.
func NewGameMachine() *Machine {
	m := NewMachine(PhasePlaying)
	m.AddTransition(PhasePlaying, PhaseWon)
	m.AddTransition(PhasePlaying, PhaseLost)
	return m
}

func (m *Machine) AddTransition(from, to Phase) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.transitions[from]; !exists {
		m.transitions[from] = make(map[Phase]bool)
	}
	m.transitions[from][to] = true
}

func (m *Machine) Current() Phase {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.current
}

// Transition moves the machine to the target phase, or returns
// ErrTransitionNotAllowed if no such edge was registered.
func (m *Machine) Transition(to Phase) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	allowed, exists := m.transitions[m.current]
	if !exists || !allowed[to] {
		return ErrTransitionNotAllowed
	}
	m.current = to
	return nil
}

// Terminal reports whether the game has ended.
func (m *Machine) Terminal() bool {
	c := m.Current()
	return c == PhaseWon || c == PhaseLost
}
