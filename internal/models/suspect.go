package models

// Suspect is static reference data about a person the player can accuse. It
// is not session state; it only feeds the accusation resolver and the
// presentation layer.
type Suspect struct {
	ID           string
	Name         string
	Age          int
	Occupation   string
	Relation     string
	Impression   string
	Alibi        string
	PortraitPath string
}
