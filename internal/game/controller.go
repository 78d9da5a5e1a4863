// Package game holds the session controller for the investigation: it
// establishes or restores a playthrough against the remote authority, folds
// turn verdicts into local state, accumulates discovered clues, resolves
// accusations and selects the ending. The authority always wins on clue
// membership and the solved flag; local state only caches the human-readable
// narrative attached to each clue.
package game

import (
	"context"
	"log/slog"
	"sync"

	"github.com/vakkila/spiritlens/internal/authority"
	"github.com/vakkila/spiritlens/internal/errors"
	"github.com/vakkila/spiritlens/internal/models"
	"github.com/vakkila/spiritlens/internal/store"
)

var (
	// ErrNoActiveSession means the operation needs a session and none exists.
	ErrNoActiveSession = errors.NewSentinel("no active session")
	// ErrCaptureFailed means the camera boundary yielded no image payload.
	ErrCaptureFailed = errors.NewSentinel("image capture failed")
	// ErrTurnSubmissionFailed wraps transport and authority failures during a
	// turn. Prior state remains valid; retry is calling SubmitTurn again.
	ErrTurnSubmissionFailed = errors.NewSentinel("turn submission failed")
	// ErrValidation means the accusation was rejected locally before any
	// network call.
	ErrValidation = errors.NewSentinel("invalid accusation")
	// ErrAccusationFailed wraps transport failures during an accusation. It is
	// distinct from an incorrect-guess outcome, which is not an error.
	ErrAccusationFailed = errors.NewSentinel("accusation submission failed")
	// ErrSessionCreationFailed wraps failures to allocate a session.
	ErrSessionCreationFailed = errors.NewSentinel("session creation failed")
	// ErrAvatarGenerationFailed wraps failures to generate the spirit avatar.
	ErrAvatarGenerationFailed = errors.NewSentinel("avatar generation failed")

	// ErrTurnInFlight rejects a second concurrent turn submission.
	ErrTurnInFlight = errors.NewSentinel("a turn is already being submitted")
	// ErrAccusationInFlight rejects a second concurrent accusation.
	ErrAccusationInFlight = errors.NewSentinel("an accusation is already being submitted")
	// ErrCreateInFlight rejects session creation while another create or a
	// bootstrap is running.
	ErrCreateInFlight = errors.NewSentinel("session creation already in flight")
	// ErrBootstrapInFlight rejects a second concurrent bootstrap.
	ErrBootstrapInFlight = errors.NewSentinel("bootstrap already in flight")
)

// Authority is the remote game authority as seen by the controller. It is an
// opaque adjudicator reached over request/response calls that may fail or
// time out. *authority.Client implements it.
type Authority interface {
	CreateSession(ctx context.Context, req authority.CreateSessionRequest) (authority.SessionResponse, error)
	GetSession(ctx context.Context, sessionID string) (authority.SessionResponse, error)
	ListPhotos(ctx context.Context, sessionID string) ([]authority.PhotoResponse, error)
	HintCatalog(ctx context.Context) ([]authority.Hint, error)
	SubmitTurn(ctx context.Context, sessionID string, image []byte) (authority.TurnResponse, error)
	CheckSuspect(ctx context.Context, sessionID string, req authority.AccusationRequest) (authority.AccusationResponse, error)
	GenerateAvatar(ctx context.Context, sessionID string, req authority.AvatarRequest) (authority.AvatarResponse, error)
}

// Controller owns the single active session. All external callers go through
// its operations and read its published State; nothing else touches the
// persistence store or the in-memory session directly.
type Controller struct {
	logger    *slog.Logger
	authority Authority
	store     *store.Store

	mu sync.Mutex
	// generation is bumped by every reset and create. Results of async calls
	// started under an older generation are discarded on arrival.
	generation uint64
	session    models.Session
	ledger     ledger
	// clearedKeys is the authoritative membership set echoed by the
	// authority. The ledger's keys are a strict subset of it.
	clearedKeys []string

	bootstrapping  bool
	turnInFlight   bool
	accuseInFlight bool
	createInFlight bool
}

// NewController wires the controller to its collaborators. The store must be
// exclusively owned by this controller.
func NewController(auth Authority, st *store.Store, logger *slog.Logger) *Controller {
	return &Controller{
		logger:    logger.With("source", "game.Controller"),
		authority: auth,
		store:     st,
	}
}

// State is a point-in-time copy of the controller's published state.
type State struct {
	SessionID   string
	PlayerName  string
	Solved      bool
	AvatarURL   string
	ClearedKeys []string
	Clues       []models.Clue
}

// State publishes a copy of the current session state. Mutating the copy has
// no effect on the controller.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// persistSnapshot caches the ledger locally so a later restore can reattach
// narrative text without trusting the cache for membership. Failures degrade
// the next restore but never the running session.
func (c *Controller) persistSnapshot(ctx context.Context, clues []models.Clue) {
	if err := c.store.SetClueSnapshot(ctx, clues); err != nil {
		c.logger.LogAttrs(ctx, slog.LevelWarn, "could not persist clue snapshot", errors.SlogError(err))
	}
}
