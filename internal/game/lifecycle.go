package game

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vakkila/spiritlens/internal/authority"
	"github.com/vakkila/spiritlens/internal/errors"
	"github.com/vakkila/spiritlens/internal/logging"
	"github.com/vakkila/spiritlens/internal/models"
)

// CreateSession allocates a new playthrough at the authority, persists its
// identifier and resets all in-memory state. It must not be called while
// another create or a bootstrap is in flight for this controller. A reset
// that takes effect while the create is suspended on the network wins; the
// allocated session is discarded instead of installed over it.
func (c *Controller) CreateSession(ctx context.Context, playerName, ghostDescription string) (State, error) {
	c.mu.Lock()
	if c.createInFlight || c.bootstrapping {
		c.mu.Unlock()
		return State{}, ErrCreateInFlight
	}
	c.createInFlight = true
	generation := c.generation
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.createInFlight = false
		c.mu.Unlock()
	}()

	resp, err := c.authority.CreateSession(ctx, authority.CreateSessionRequest{
		PlayerName:       playerName,
		GhostDescription: ghostDescription,
	})
	if err != nil {
		return State{}, fmt.Errorf("%w: %w", ErrSessionCreationFailed, err)
	}

	c.mu.Lock()
	if c.generation != generation {
		// A reset took effect while the create was in flight. The reset wins;
		// the allocated session is abandoned rather than installed over it.
		c.mu.Unlock()
		c.logger.LogAttrs(ctx, slog.LevelInfo, "discarding created session superseded by reset",
			slog.String("sessionID", resp.ID))
		return State{}, errors.Wrap(ErrSessionCreationFailed, "session reset while creation was in flight")
	}
	// A new session supersedes any in-flight bootstrap or late verdicts.
	c.generation++
	c.session = models.Session{
		ID:         resp.ID,
		PlayerName: playerName,
	}
	c.ledger.reset()
	c.clearedKeys = nil
	state := c.snapshotLocked()
	c.mu.Unlock()

	ctx = logging.WithAttrs(ctx, slog.String("sessionID", resp.ID))

	// Persist the id so the session survives a reload. Failing here leaves
	// the session usable in memory; only the restore is degraded.
	if err = c.store.Clear(ctx); err != nil {
		c.logger.LogAttrs(ctx, slog.LevelWarn, "could not clear store for new session", errors.SlogError(err))
	}
	if err = c.store.SetSessionID(ctx, resp.ID); err != nil {
		c.logger.LogAttrs(ctx, slog.LevelWarn, "could not persist session id", errors.SlogError(err))
	}

	c.logger.LogAttrs(ctx, slog.LevelInfo, "session created", slog.String("playerName", playerName))
	return state, nil
}

// ResetSession clears the persisted session identifier and all in-memory
// state unconditionally. It requires no network call and takes effect
// immediately; in-flight reads from before the reset complete against a stale
// generation and are ignored on arrival.
func (c *Controller) ResetSession(ctx context.Context) error {
	c.mu.Lock()
	c.generation++
	c.session = models.Session{}
	c.ledger.reset()
	c.clearedKeys = nil
	c.mu.Unlock()

	if err := c.store.Clear(ctx); err != nil {
		return errors.Wrap(err, "clear persisted session")
	}

	c.logger.LogAttrs(ctx, slog.LevelInfo, "session reset")
	return nil
}

// GenerateAvatar asks the authority to render the spirit companion image and
// records its URL on the session. Calling it again is an explicit user action
// and regenerates the avatar.
func (c *Controller) GenerateAvatar(ctx context.Context, description string) (string, error) {
	c.mu.Lock()
	if c.session.ID == "" {
		c.mu.Unlock()
		return "", ErrNoActiveSession
	}
	generation := c.generation
	sessionID := c.session.ID
	c.mu.Unlock()

	ctx = logging.WithAttrs(ctx, slog.String("sessionID", sessionID))

	resp, err := c.authority.GenerateAvatar(ctx, sessionID, authority.AvatarRequest{Description: description})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAvatarGenerationFailed, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != generation {
		// The session changed while the avatar was being generated.
		return resp.AvatarURL, nil
	}
	c.session.AvatarURL = resp.AvatarURL
	return resp.AvatarURL, nil
}

// snapshotLocked builds a State copy. Callers must hold c.mu.
func (c *Controller) snapshotLocked() State {
	return State{
		SessionID:   c.session.ID,
		PlayerName:  c.session.PlayerName,
		Solved:      c.session.Solved,
		AvatarURL:   c.session.AvatarURL,
		ClearedKeys: append([]string(nil), c.clearedKeys...),
		Clues:       c.ledger.clues(),
	}
}
