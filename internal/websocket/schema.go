// Package websocket holds the message schema and I/O helpers of the
// session watch stream.
package websocket

import "time"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing     Action = "ping"
	ActionSnapshot Action = "snapshot"
)

// RequestEnvelope is every client message; only the action is read.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError    Event = "error"
	EventPong     Event = "pong"
	EventSnapshot Event = "snapshot"
	EventChanged  Event = "changed"
)

// SnapshotResponse describes the session as currently stored.
type SnapshotResponse struct {
	Event    Event  `json:"event"`
	LoggedIn bool   `json:"logged_in"`
	Role     string `json:"role,omitempty"`
	Identity string `json:"identity,omitempty"`
}

// ChangedResponse tells the client its session was set or cleared
// elsewhere, so open pages should be reloaded.
type ChangedResponse struct {
	Event  Event     `json:"event"`
	Change string    `json:"change"`
	Role   string    `json:"role,omitempty"`
	At     time.Time `json:"at"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
