package game

import (
	"context"
	"log/slog"
	"sync"

	"github.com/vakkila/spiritlens/internal/authority"
	"github.com/vakkila/spiritlens/internal/errors"
	"github.com/vakkila/spiritlens/internal/logging"
	"github.com/vakkila/spiritlens/internal/models"
)

// BootstrapOutcome is the terminal result of one bootstrap attempt.
type BootstrapOutcome int

const (
	// OutcomeResumed means a valid prior session was restored and the ledger
	// rehydrated from the authority's records.
	OutcomeResumed BootstrapOutcome = iota
	// OutcomeNeedsCreation means no usable prior session exists; the caller
	// must explicitly start one. The bootstrap never creates sessions itself.
	OutcomeNeedsCreation
	// OutcomeInitError means the restore attempt failed for a reason other
	// than "not found". The failure is surfaced but prior state is untouched.
	OutcomeInitError
	// OutcomeDiscarded means a reset or a newer session superseded this
	// bootstrap while its network calls were in flight; the late result was
	// dropped without mutating shared state.
	OutcomeDiscarded
)

func (o BootstrapOutcome) String() string {
	switch o {
	case OutcomeResumed:
		return "resumed"
	case OutcomeNeedsCreation:
		return "needs creation"
	case OutcomeInitError:
		return "init error"
	case OutcomeDiscarded:
		return "discarded"
	}
	return "unknown"
}

// Bootstrap restores the persisted session, if any, validating it against the
// authority and rebuilding the evidence ledger from the session's photo
// history joined with the static hint catalog. It runs once per load and
// gates every other operation. With OutcomeInitError the returned error
// carries the cause; for the other outcomes the error is nil.
func (c *Controller) Bootstrap(ctx context.Context) (BootstrapOutcome, error) {
	c.mu.Lock()
	if c.bootstrapping {
		c.mu.Unlock()
		return OutcomeInitError, ErrBootstrapInFlight
	}
	c.bootstrapping = true
	generation := c.generation
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.bootstrapping = false
		c.mu.Unlock()
	}()

	sessionID, ok, err := c.store.SessionID(ctx)
	if err != nil {
		return OutcomeInitError, errors.Wrap(err, "read persisted session id")
	}
	if !ok {
		return OutcomeNeedsCreation, nil
	}

	ctx = logging.WithAttrs(ctx, slog.String("sessionID", sessionID))

	session, err := c.authority.GetSession(ctx, sessionID)
	if errors.Is(err, authority.ErrSessionNotFound) {
		// The session no longer exists server-side. Discard the stored id and
		// fall back to the explicit start screen.
		c.logger.LogAttrs(ctx, slog.LevelInfo, "stored session unknown to authority, discarding")
		if clearErr := c.store.Clear(ctx); clearErr != nil {
			return OutcomeInitError, errors.Wrap(clearErr, "discard stale session id")
		}
		return OutcomeNeedsCreation, nil
	}
	if err != nil {
		return OutcomeInitError, errors.Wrap(err, "look up session")
	}

	// The photo history and the hint catalog are read-only and independent,
	// so fetch them concurrently and await both before deriving the ledger.
	var (
		wg       sync.WaitGroup
		photos   []authority.PhotoResponse
		hints    []authority.Hint
		photoErr error
		hintErr  error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		photos, photoErr = c.authority.ListPhotos(ctx, sessionID)
	}()
	go func() {
		defer wg.Done()
		hints, hintErr = c.authority.HintCatalog(ctx)
	}()
	wg.Wait()
	if err = errors.Join(photoErr, hintErr); err != nil {
		return OutcomeInitError, errors.Wrap(err, "rehydrate evidence")
	}

	snapshot, err := c.store.ClueSnapshot(ctx)
	if err != nil {
		return OutcomeInitError, errors.Wrap(err, "read clue snapshot")
	}

	restored := rebuildLedger(session.ClearedKeys, photos, hints, snapshot)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != generation {
		// A reset or a newly created session raced this restore.
		return OutcomeDiscarded, nil
	}

	c.session = models.Session{
		ID:         session.ID,
		PlayerName: session.PlayerName,
		Solved:     session.Solved(),
		AvatarURL:  session.AvatarURL,
	}
	c.clearedKeys = append([]string(nil), session.ClearedKeys...)
	c.ledger.reset()
	for _, clue := range restored {
		c.ledger.insert(clue)
	}
	c.persistSnapshot(ctx, c.ledger.clues())

	c.logger.LogAttrs(ctx, slog.LevelInfo, "session resumed",
		slog.Int("clues", len(restored)),
		slog.Bool("solved", c.session.Solved))
	return OutcomeResumed, nil
}

// rebuildLedger joins "which keys were detected" (the photo history) with
// "what text belongs to each key" (the hint catalog). The local snapshot only
// supplies first-written narrative text; keys the authority does not report
// as cleared are dropped, and detected keys with no catalog text are skipped
// rather than failing the restore.
func rebuildLedger(
	clearedKeys []string,
	photos []authority.PhotoResponse,
	hints []authority.Hint,
	snapshot []models.Clue,
) []models.Clue {
	cleared := make(map[string]bool, len(clearedKeys))
	for _, key := range clearedKeys {
		cleared[key] = true
	}
	hintsByKey := make(map[string]authority.Hint, len(hints))
	for _, h := range hints {
		hintsByKey[h.Key] = h
	}
	cached := make(map[string]models.Clue, len(snapshot))
	for _, clue := range snapshot {
		cached[clue.Key] = clue
	}

	var (
		out  []models.Clue
		seen = make(map[string]bool)
	)
	for _, photo := range photos {
		key := photo.DetectedKey
		if key == "" || seen[key] || !cleared[key] {
			continue
		}
		hint, ok := hintsByKey[key]
		if !ok {
			continue
		}
		clue := models.Clue{
			Key:      key,
			Chapter:  hint.Chapter,
			Story:    hint.Message,
			ImageRef: photo.GhostURL,
		}
		// The snapshot preserves whatever text this key was first given.
		if cachedClue, hit := cached[key]; hit {
			clue.Story = cachedClue.Story
			if cachedClue.ImageRef != "" {
				clue.ImageRef = cachedClue.ImageRef
			}
		}
		seen[key] = true
		out = append(out, clue)
	}
	return out
}
