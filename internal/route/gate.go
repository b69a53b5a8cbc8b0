package route

import (
	"errors"
	"fmt"

	"github.com/stemsi/erp-portal/internal/model"
)

// Outcome is the gate's verdict for one navigation.
type Outcome int

const (
	Authorized Outcome = iota
	RedirectToLogin
)

func (o Outcome) String() string {
	if o == Authorized {
		return "authorized"
	}
	return "redirect_to_login"
}

// Decision is what Authorize returns. RedirectTo is set only when the
// visitor must log in first.
type Decision struct {
	Outcome    Outcome
	RedirectTo string
}

// Authorize lets public routes through and role routes only for a
// session of that role. Everyone else is sent to the login page of the
// role the route requires.
func Authorize(r Route, sess *model.Session) Decision {
	if r.Access.IsPublic() {
		return Decision{Outcome: Authorized}
	}
	if sess != nil && sess.Token != "" && sess.Role == r.Access.Role {
		return Decision{Outcome: Authorized}
	}
	return Decision{Outcome: RedirectToLogin, RedirectTo: r.Access.Role.LoginPath()}
}

// State is a step of one navigation.
type State string

const (
	StateIdle            State = "idle"
	StateNavigating      State = "navigating"
	StateAuthorized      State = "authorized"
	StateUnauthorized    State = "unauthorized"
	StateRendered        State = "rendered"
	StateRedirectToLogin State = "redirect_to_login"
	StateNotFound        State = "not_found"
)

var ErrInvalidTransition = errors.New("route: invalid navigation transition")

var transitions = map[State][]State{
	StateIdle:         {StateNavigating},
	StateNavigating:   {StateAuthorized, StateUnauthorized, StateNotFound},
	StateAuthorized:   {StateRendered},
	StateUnauthorized: {StateRedirectToLogin},
}

// Navigation walks one request through the gate.
type Navigation struct {
	Match    Match
	Decision Decision
	state    State
	trail    []State
}

// Navigate resolves method and path against t and applies the gate for
// sess. The returned navigation ends in Authorized, RedirectToLogin or
// NotFound; the caller moves Authorized to Rendered once the page is out.
func Navigate(t *Table, method, path string, sess *model.Session) *Navigation {
	n := &Navigation{state: StateIdle, trail: []State{StateIdle}}
	n.move(StateNavigating)

	n.Match = t.Resolve(method, path)
	if n.Match.NotFound() {
		n.move(StateNotFound)
		return n
	}

	n.Decision = Authorize(n.Match.Route, sess)
	if n.Decision.Outcome == Authorized {
		n.move(StateAuthorized)
		return n
	}
	n.move(StateUnauthorized)
	n.move(StateRedirectToLogin)
	return n
}

// State returns the current step.
func (n *Navigation) State() State {
	return n.state
}

// Trail returns every step taken so far.
func (n *Navigation) Trail() []State {
	return append([]State(nil), n.trail...)
}

// Rendered marks an authorized page as delivered.
func (n *Navigation) Rendered() error {
	return n.transition(StateRendered)
}

func (n *Navigation) move(to State) {
	if err := n.transition(to); err != nil {
		panic(err)
	}
}

func (n *Navigation) transition(to State) error {
	for _, allowed := range transitions[n.state] {
		if allowed == to {
			n.state = to
			n.trail = append(n.trail, to)
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, n.state, to)
}
