package enum

// ── Ledger write outcomes ──

const (
	LedgerStatusOK      = "ok"
	LedgerStatusSkipped = "skipped"
	LedgerStatusFailed  = "failed"
)

// ── Ledger row placement ──

const (
	LedgerWriteAppend   = "append"   // values:append picks the next free row
	LedgerWriteExplicit = "explicit" // read occupied range, then write A{n+1}:F{n+1}
)

// ── Form selection policies ──

const (
	SelectionSlots = "slots" // three fixed slots, duplicates allowed
	SelectionSet   = "set"   // distinct set capped at three
)

// ── Submission outcomes (metrics labels) ──

const (
	SubmissionAccepted = "accepted"
	SubmissionRejected = "rejected"
	SubmissionFailed   = "failed"
)

// ── Live feed events ──

const (
	EventOrderSubmitted = "order.submitted"
)
