// Package domain contains core domain types for the chatbot.
package domain

import (
	"time"
)

// State identifies where a conversation currently is in the dialogue flow.
type State string

const (
	StateInitial          State = "initial"
	StateAwaitingConsent  State = "awaiting_consent"
	StateCollectingModel  State = "collecting_model"
	StateCollectingSerial State = "collecting_serial"
	StateMainMenu         State = "main_menu"
	StateEnteringCodes    State = "entering_codes"
	StateEnteringEvents   State = "entering_events"
	StateChoosingMachine  State = "choosing_machine_type"
	StateChoosingInterval State = "choosing_interval"
	StatePostInterval     State = "post_interval"
	StateExplainingDiff   State = "explaining_difference"
)

// MachineType identifies one of the supported equipment families.
type MachineType string

const (
	MachineRoller      MachineType = "roller"
	MachineWheelLoader MachineType = "wheel_loader"
	MachineExcavator   MachineType = "excavator"
	MachineTractor     MachineType = "tractor"
)

// Session holds the mutable conversation state for one token.
type Session struct {
	Token        string
	State        State
	Model        string
	SerialPrefix string

	// Maintenance sub-flow. IntervalMenu is captured when the interval
	// menu is built so later numeric input resolves against the same
	// ordering.
	MachineType  MachineType
	IntervalMenu []string

	// Accumulated lookup hits, in order of resolution, for reporting.
	CodeResults  []FaultCodeRecord
	EventResults []EventRecord

	LastActivity time.Time
}

// NewSession returns a fresh session in the initial state.
func NewSession(token string) *Session {
	return &Session{
		Token:        token,
		State:        StateInitial,
		LastActivity: time.Now(),
	}
}

// ClearMachine drops the collected machine identity and any results tied
// to it. Used by the change-machine command.
func (s *Session) ClearMachine() {
	s.Model = ""
	s.SerialPrefix = ""
	s.MachineType = ""
	s.IntervalMenu = nil
	s.CodeResults = nil
	s.EventResults = nil
}

// Reset returns the session to the initial state, dropping everything
// but the token.
func (s *Session) Reset() {
	s.ClearMachine()
	s.State = StateInitial
}

// Touch records activity for TTL eviction.
func (s *Session) Touch() {
	s.LastActivity = time.Now()
}

// IdleFor reports how long the session has been inactive.
func (s *Session) IdleFor() time.Duration {
	return time.Since(s.LastActivity)
}
