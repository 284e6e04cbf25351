package eureka

// State is the lifecycle state of a Client.
type State int

const (
	StateUnregistered State = iota
	StateRegistering
	StateRegistered
	StateHeartbeatActive
	StateDeregistering
	StateDeregistered
	StateFailed
)

var stateNames = [...]string{
	StateUnregistered:    "Unregistered",
	StateRegistering:     "Registering",
	StateRegistered:      "Registered",
	StateHeartbeatActive: "HeartbeatActive",
	StateDeregistering:   "Deregistering",
	StateDeregistered:    "Deregistered",
	StateFailed:          "Failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "Unknown"
	}
	return stateNames[s]
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// transitions lists the legal moves. Deregistered is terminal.
var transitions = map[State][]State{
	StateUnregistered:    {StateRegistering, StateDeregistered},
	StateRegistering:     {StateRegistered, StateFailed},
	StateRegistered:      {StateHeartbeatActive, StateDeregistering},
	StateHeartbeatActive: {StateDeregistering},
	StateDeregistering:   {StateDeregistered},
	StateFailed:          {StateRegistering, StateDeregistered},
}

func canTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsRegistered reports whether the registry currently holds the instance
// as far as the client knows.
func (s State) IsRegistered() bool {
	return s == StateRegistered || s == StateHeartbeatActive
}
