package repository

// FlowCommand names the admin flow that owns a conversation session.
type FlowCommand string

const (
	FlowSetWelcome FlowCommand = "set_welcome"
	FlowBroadcast  FlowCommand = "broadcast"
)

// FlowStep is the current step within a flow.
type FlowStep string

const (
	StepAwaitText  FlowStep = "await_text"
	StepAwaitMedia FlowStep = "await_media"
)

// Session holds one admin's progress through a multi-step flow.
// Text is the message text captured at the await_text step.
type Session struct {
	Command FlowCommand
	Step    FlowStep
	Text    string
}

// SessionStore tracks at most one session per user. It is process-local
// and deliberately unpersisted: a restart aborts in-progress flows and the
// admin starts over from the command. Methods take no context because the
// store never leaves the process.
type SessionStore interface {
	// Begin unconditionally replaces any existing session for tgID with a
	// fresh one at the await_text step.
	Begin(tgID int64, cmd FlowCommand)
	// Advance sets the step and captured text for an existing session.
	// It reports false (and changes nothing) when no session exists.
	Advance(tgID int64, step FlowStep, text string) bool
	// Current returns the session for tgID, if any.
	Current(tgID int64) (Session, bool)
	// End removes the session. Idempotent.
	End(tgID int64)
}
