package pager

// State is the lifecycle of a pager's most recent page request.
type State int

const (
	StateIdle     State = iota // Nothing requested since the last reset
	StateFetching              // A page fetch is in flight
	StateReady                 // The last requested page is cached
	StateError                 // The last fetch failed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	}
	return "unknown"
}
