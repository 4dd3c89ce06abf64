package auth

import "fmt"

// State is the authentication state of the process.
type State int

const (
	StateAnonymous State = iota
	StateAuthenticating
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return ""
	}
}

// Event drives transitions between authentication states.
type Event int

const (
	EventLoginStarted Event = iota
	EventLoginSucceeded
	EventLoginFailed
	EventLogout
	EventSessionExpired
)

func (e Event) String() string {
	switch e {
	case EventLoginStarted:
		return "login_started"
	case EventLoginSucceeded:
		return "login_succeeded"
	case EventLoginFailed:
		return "login_failed"
	case EventLogout:
		return "logout"
	case EventSessionExpired:
		return "session_expired"
	default:
		return ""
	}
}

// transitions is the legal state machine: any event not listed for the
// current state is rejected.
var transitions = map[State]map[Event]State{
	StateAnonymous: {
		EventLoginStarted: StateAuthenticating,
	},
	StateAuthenticating: {
		EventLoginSucceeded: StateAuthenticated,
		EventLoginFailed:    StateAnonymous,
	},
	StateAuthenticated: {
		EventLogout:         StateAnonymous,
		EventSessionExpired: StateAnonymous,
	},
}

// apply returns the state reached by applying event to current.
func apply(current State, event Event) (State, error) {
	next, ok := transitions[current][event]
	if !ok {
		return current, fmt.Errorf("invalid auth transition: %s on %s", event, current)
	}
	return next, nil
}
