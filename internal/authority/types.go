package authority

import (
	"time"

	"github.com/vakkila/spiritlens/internal/models"
)

// CreateSessionRequest allocates a new playthrough at the authority.
type CreateSessionRequest struct {
	PlayerName string `json:"player_name"`
	// GhostDescription optionally seeds the spirit companion's appearance.
	GhostDescription string `json:"ghost_description,omitempty"`
}

// SessionResponse is the authority's view of one playthrough.
type SessionResponse struct {
	ID          string   `json:"id"`
	PlayerName  string   `json:"player_name"`
	Status      string   `json:"status"`
	ClearedKeys []string `json:"cleared_items"`
	AvatarURL   string   `json:"avatar_url,omitempty"`
	PhotoCount  int      `json:"photo_count"`
}

// Solved reports whether the authority considers the mystery resolved.
func (r SessionResponse) Solved() bool {
	return r.Status == string(models.SessionStatusSolved)
}

// PhotoResponse is one captured-evidence record from the session's turn history.
type PhotoResponse struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"game_id"`
	OriginalURL  string    `json:"original_url"`
	GhostURL     string    `json:"ghost_url,omitempty"`
	GhostMessage string    `json:"ghost_message,omitempty"`
	DetectedKey  string    `json:"detected_item,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type photoListResponse struct {
	Photos []PhotoResponse `json:"photos"`
}

// Hint is one entry of the global hint catalog: the narrative text attached
// to a clue key the first time it is detected.
type Hint struct {
	Key     string `json:"key"`
	Chapter int    `json:"chapter"`
	Message string `json:"message"`
}

// TurnResponse is the wire form of a turn verdict.
type TurnResponse struct {
	SessionID       string   `json:"game_id"`
	PhotoID         string   `json:"photo_id"`
	OriginalURL     string   `json:"original_url"`
	DetectedKey     string   `json:"detected_item,omitempty"`
	DetectedChapter int      `json:"detected_chapter,omitempty"`
	Story           string   `json:"story,omitempty"`
	GhostURL        string   `json:"ghost_url,omitempty"`
	GhostMessage    string   `json:"ghost_message,omitempty"`
	ClearedKeys     []string `json:"cleared_items"`
	Status          string   `json:"game_status"`
	Solved          bool     `json:"game_solved"`
	HintMessage     string   `json:"hint_message"`
	Message         string   `json:"message"`
}

// Verdict converts the wire response into the domain turn verdict.
func (r TurnResponse) Verdict() models.TurnVerdict {
	return models.TurnVerdict{
		DetectedKey:     r.DetectedKey,
		DetectedChapter: r.DetectedChapter,
		Story:           r.Story,
		HintMessage:     r.HintMessage,
		GhostImageURL:   r.GhostURL,
		GhostMessage:    r.GhostMessage,
		ClearedKeys:     r.ClearedKeys,
		Solved:          r.Solved,
		Message:         r.Message,
	}
}

// AccusationRequest submits a suspect and the player's rationale.
type AccusationRequest struct {
	Suspect string `json:"suspect"`
	Reason  string `json:"reason"`
}

// AccusationResponse is the authority's verdict on an accusation.
type AccusationResponse struct {
	Correct bool   `json:"correct"`
	Message string `json:"message"`
}

// AvatarRequest asks the authority to generate the spirit companion image.
type AvatarRequest struct {
	Description string `json:"description,omitempty"`
}

// AvatarResponse carries the generated image reference.
type AvatarResponse struct {
	AvatarURL string `json:"avatar_url"`
}
