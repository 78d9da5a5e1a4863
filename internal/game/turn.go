package game

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vakkila/spiritlens/internal/logging"
	"github.com/vakkila/spiritlens/internal/models"
)

// CaptureFunc is the image capture boundary: invoked on demand, it yields an
// encodable image payload. The controller never manages the underlying
// capture device.
type CaptureFunc func(ctx context.Context) ([]byte, error)

// SubmitTurn captures one photo, submits it as a turn and folds the verdict
// into the session. Only one submission may be in flight per session; a
// concurrent call fails with ErrTurnInFlight instead of queueing. On failure
// nothing is mutated and retry is simply calling SubmitTurn again.
func (c *Controller) SubmitTurn(ctx context.Context, capture CaptureFunc) (models.TurnVerdict, error) {
	c.mu.Lock()
	if c.session.ID == "" {
		c.mu.Unlock()
		return models.TurnVerdict{}, ErrNoActiveSession
	}
	if c.turnInFlight {
		c.mu.Unlock()
		return models.TurnVerdict{}, ErrTurnInFlight
	}
	c.turnInFlight = true
	generation := c.generation
	sessionID := c.session.ID
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.turnInFlight = false
		c.mu.Unlock()
	}()

	ctx = logging.WithAttrs(ctx, slog.String("sessionID", sessionID))

	payload, err := capture(ctx)
	if err != nil {
		return models.TurnVerdict{}, fmt.Errorf("%w: %w", ErrCaptureFailed, err)
	}
	if len(payload) == 0 {
		// Nothing to submit; the authority is not contacted.
		return models.TurnVerdict{}, ErrCaptureFailed
	}

	resp, err := c.authority.SubmitTurn(ctx, sessionID, payload)
	if err != nil {
		return models.TurnVerdict{}, fmt.Errorf("%w: %w", ErrTurnSubmissionFailed, err)
	}
	verdict := resp.Verdict()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != generation {
		// The session was reset or replaced while the turn was in flight.
		// Report the verdict but leave the new state alone.
		c.logger.LogAttrs(ctx, slog.LevelInfo, "discarding verdict for superseded session")
		return verdict, nil
	}

	c.foldVerdict(ctx, verdict)
	return verdict, nil
}

// foldVerdict applies a turn verdict under the controller lock: at most one
// ledger insert, authoritative cleared-keys replacement and a monotonic
// solved update.
func (c *Controller) foldVerdict(ctx context.Context, verdict models.TurnVerdict) {
	if verdict.DetectedKey != "" {
		story := verdict.Story
		if story == "" {
			story = verdict.HintMessage
		}
		inserted := c.ledger.insert(models.Clue{
			Key:      verdict.DetectedKey,
			Chapter:  verdict.DetectedChapter,
			Story:    story,
			ImageRef: verdict.GhostImageURL,
		})
		if inserted {
			c.logger.LogAttrs(ctx, slog.LevelInfo, "clue discovered",
				slog.String("key", verdict.DetectedKey),
				slog.Int("chapter", verdict.DetectedChapter))
		}
	}

	// Membership always comes from the authority's echo, never from the
	// ledger itself.
	c.clearedKeys = append([]string(nil), verdict.ClearedKeys...)
	if verdict.Solved && !c.session.Solved {
		c.session.Solved = true
		c.logger.LogAttrs(ctx, slog.LevelInfo, "mystery solved")
	}

	c.persistSnapshot(ctx, c.ledger.clues())
}
