package game

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vakkila/spiritlens/internal/authority"
	"github.com/vakkila/spiritlens/internal/errors"
	"github.com/vakkila/spiritlens/internal/logging"
	"github.com/vakkila/spiritlens/internal/models"
)

// Accuse submits a suspect and the player's free-text rationale to the
// authority and returns its verdict verbatim. An empty suspect or a blank
// rationale fails locally with ErrValidation and makes no network call. A
// wrong guess is a successful call with Correct=false, not an error. Solved
// is not mutated here; a correct accusation is observed on the next session
// or turn read.
func (c *Controller) Accuse(ctx context.Context, suspectID, rationale string) (models.AccusationOutcome, error) {
	if suspectID == "" {
		return models.AccusationOutcome{}, errors.Wrap(ErrValidation, "suspect must be chosen")
	}
	if strings.TrimSpace(rationale) == "" {
		return models.AccusationOutcome{}, errors.Wrap(ErrValidation, "rationale must not be blank")
	}

	c.mu.Lock()
	if c.session.ID == "" {
		c.mu.Unlock()
		return models.AccusationOutcome{}, ErrNoActiveSession
	}
	if c.accuseInFlight {
		c.mu.Unlock()
		return models.AccusationOutcome{}, ErrAccusationInFlight
	}
	c.accuseInFlight = true
	sessionID := c.session.ID
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.accuseInFlight = false
		c.mu.Unlock()
	}()

	ctx = logging.WithAttrs(ctx, slog.String("sessionID", sessionID))

	resp, err := c.authority.CheckSuspect(ctx, sessionID, authority.AccusationRequest{
		Suspect: suspectID,
		Reason:  rationale,
	})
	if err != nil {
		return models.AccusationOutcome{}, fmt.Errorf("%w: %w", ErrAccusationFailed, err)
	}

	c.logger.LogAttrs(ctx, slog.LevelInfo, "accusation resolved",
		slog.String("suspect", suspectID),
		slog.Bool("correct", resp.Correct))

	return models.AccusationOutcome{
		Correct: resp.Correct,
		Message: resp.Message,
	}, nil
}
