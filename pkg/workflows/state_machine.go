package workflows

// StateMachine enforces status transitions for a single entity kind.
// The zero value is not usable; build one with New.
type StateMachine struct {
	allowedTransitions map[string][]string
}

// New creates a state machine from a transition table. Every status that
// appears as a map key is part of the enum domain.
func New(transitions map[string][]string) *StateMachine {
	return &StateMachine{allowedTransitions: transitions}
}

// Valid reports whether a status belongs to the enum domain at all.
func (sm *StateMachine) Valid(status string) bool {
	_, ok := sm.allowedTransitions[status]
	return ok
}

// CanTransition checks if a status transition is allowed. A no-op
// transition (from == to) is always allowed for statuses in the domain.
func (sm *StateMachine) CanTransition(from, to string) bool {
	allowed, exists := sm.allowedTransitions[from]
	if !exists || !sm.Valid(to) {
		return false
	}
	if from == to {
		return true
	}
	for _, allowedTo := range allowed {
		if allowedTo == to {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the allowed next statuses for a given status.
func (sm *StateMachine) AllowedTransitions(from string) []string {
	allowed, exists := sm.allowedTransitions[from]
	if !exists {
		return []string{}
	}
	return allowed
}
