package models

// Clue is one discovered piece of evidence. Key is the stable identifier of
// the recognized real-world object, unique within a session's ledger. A clue
// is created the first time a turn verdict reports its key and never mutated
// or deleted within a session.
type Clue struct {
	Key string
	// Chapter orders the narrative. Fragments are kept in ascending chapter
	// order.
	Chapter int
	// Story is the narrative fragment unlocked when this clue was first found.
	Story string
	// ImageRef is the generated illustrative image tied to this discovery,
	// empty when generation failed or hasn't happened.
	ImageRef string
}

// Ending is a terminal narrative state.
type Ending string

const (
	// EndingResolved means the mystery was solved and the culprit caught.
	EndingResolved Ending = "resolved"
	// EndingEscaped means the player abandoned the investigation and the
	// culprit got away.
	EndingEscaped Ending = "escaped"
)
