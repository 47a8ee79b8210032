package claim

import "time"

// Resolution holds the fields that depend on the target status.
type Resolution struct {
	ResolvedAt *time.Time
	Outcome    Outcome
}

// Derive computes resolution bookkeeping for a transition to requested.
//
// Moving to Resolved stamps now and keeps the requested outcome (which may
// be unset). Moving anywhere else clears both fields, whatever was stored
// before; no history of earlier resolutions is kept. Every transition is
// allowed, so current does not affect the result.
func Derive(current, requested Status, outcome Outcome, now time.Time) Resolution {
	if requested != Resolved {
		return Resolution{}
	}
	resolvedAt := now
	return Resolution{
		ResolvedAt: &resolvedAt,
		Outcome:    outcome,
	}
}
