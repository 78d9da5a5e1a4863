package models

// SessionStatus is the authority's view of where a playthrough stands.
type SessionStatus string

const (
	SessionStatusWaiting SessionStatus = "waiting"
	SessionStatusPlaying SessionStatus = "playing"
	SessionStatusSolved  SessionStatus = "solved"
)

// Session identifies one playthrough. The authority assigns the ID; an empty
// ID means no active session.
type Session struct {
	ID         string
	PlayerName string
	// Solved is set true exactly once, by the authority, when the mystery is
	// correctly resolved. It never reverts to false.
	Solved bool
	// AvatarURL points to the generated spirit companion image. Empty until
	// generation succeeds.
	AvatarURL string
}

// TurnVerdict is the authoritative delta produced by one photographic
// submission. It is not persisted as its own entity; the controller folds it
// into the session and the evidence ledger.
type TurnVerdict struct {
	// DetectedKey is the clue key recognized in the photo, empty when nothing
	// was detected.
	DetectedKey string
	// DetectedChapter orders the narrative fragment unlocked by DetectedKey.
	// Zero when nothing was detected.
	DetectedChapter int
	// Story is the narrative fragment tied to DetectedKey.
	Story string
	// HintMessage is the spirit's hint for this turn.
	HintMessage string
	// GhostImageURL references the generated composite image for this turn.
	GhostImageURL string
	// GhostMessage is flavour text produced alongside the composite image.
	GhostMessage string
	// ClearedKeys is the complete authoritative set of keys cleared so far.
	ClearedKeys []string
	// Solved is the authoritative solved flag, replacing any local guess.
	Solved bool
	// Message is a short human-readable summary of the turn.
	Message string
}

// AccusationOutcome is the authority's verdict on an accusation. Correct=false
// is a real answer, not an error. Not persisted.
type AccusationOutcome struct {
	Correct bool
	Message string
}
