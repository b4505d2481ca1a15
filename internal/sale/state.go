package sale

import "github.com/Mohsinsiddi/stewsale/internal/chain"

// State is the sale lifecycle.
type State uint8

const (
	NotStarted State = iota
	Active
	Paused
	Ended
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Active:
		return "active"
	case Paused:
		return "paused"
	case Ended:
		return "ended"
	default:
		return "unknown"
	}
}

// Phase decides whether buyers must be whitelisted.
type Phase uint8

const (
	Presale Phase = iota
	Public
)

func (p Phase) String() string {
	switch p {
	case Presale:
		return "presale"
	case Public:
		return "public"
	default:
		return "unknown"
	}
}

// Toggle returns the other phase.
func (p Phase) Toggle() Phase {
	if p == Presale {
		return Public
	}
	return Presale
}

type action uint8

const (
	startAction action = iota
	pauseAction
	unpauseAction
	endAction
)

// transitions is the complete lifecycle table. Anything not listed is
// rejected with the action's reason.
var transitions = map[action]map[State]State{
	startAction:   {NotStarted: Active},
	pauseAction:   {Active: Paused},
	unpauseAction: {Paused: Active},
	endAction:     {NotStarted: Ended, Active: Ended, Paused: Ended},
}

var invalidReasons = map[action]string{
	startAction:   ReasonAlreadyStarted,
	pauseAction:   ReasonNotActive,
	unpauseAction: ReasonNotPaused,
	endAction:     ReasonSaleEnded,
}

// transition validates an owner action against the current state.
func transition(from State, a action) (State, error) {
	if to, ok := transitions[a][from]; ok {
		return to, nil
	}
	if from == Ended {
		return from, chain.Revert(ReasonSaleEnded)
	}
	return from, chain.Revert(invalidReasons[a])
}

// buyable reports why a purchase is refused in state s, if it is.
func buyable(s State) error {
	switch s {
	case Active:
		return nil
	case NotStarted:
		return chain.Revert(ReasonNotStarted)
	case Paused:
		return chain.Revert(ReasonPaused)
	default:
		return chain.Revert(ReasonSaleEnded)
	}
}
