package game_test

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vakkila/spiritlens/internal/authority"
	"github.com/vakkila/spiritlens/internal/authoritytest"
	"github.com/vakkila/spiritlens/internal/game"
	"github.com/vakkila/spiritlens/internal/models"
	"github.com/vakkila/spiritlens/internal/sqlite"
	"github.com/vakkila/spiritlens/internal/store"
	"github.com/vakkila/spiritlens/internal/testhelpers"
)

// TestFullPlaythrough drives a whole investigation through the real HTTP
// client against the in-process authority fake: create, capture evidence,
// reload into a second controller sharing the same store, accuse, and
// observe the solve on the next restore.
func TestFullPlaythrough(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	logger := testhelpers.NewLogger(io.Discard)

	srv := authoritytest.NewServer(logger, []authority.Hint{
		{Key: "cup", Chapter: 1, Message: "Two cups, one untouched."},
		{Key: "clock", Chapter: 2, Message: "The clock stopped at 2:13."},
	}, "ren")
	t.Cleanup(srv.Close)
	client := authority.NewClient(srv.URL(), logger)

	db, err := sqlite.NewDatabase(ctx, ":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})
	st := store.NewStore(db, logger)

	first := game.NewController(client, st, logger)

	outcome, err := first.Bootstrap(ctx)
	require.NoError(t, err)
	require.Equal(t, game.OutcomeNeedsCreation, outcome)

	state, err := first.CreateSession(ctx, "Mika", "a quiet voice")
	require.NoError(t, err)
	sessionID := state.SessionID
	require.NotEmpty(t, sessionID)

	capture := func(payload string) game.CaptureFunc {
		return func(context.Context) ([]byte, error) {
			return []byte(payload), nil
		}
	}

	verdict, err := first.SubmitTurn(ctx, capture("clock"))
	require.NoError(t, err)
	require.Equal(t, "clock", verdict.DetectedKey)

	verdict, err = first.SubmitTurn(ctx, capture("an empty hallway"))
	require.NoError(t, err)
	require.Empty(t, verdict.DetectedKey)

	state = first.State()
	require.Len(t, state.Clues, 1)
	require.Equal(t, []string{"clock"}, state.ClearedKeys)

	// A second controller over the same store models an app relaunch.
	second := game.NewController(client, st, logger)
	outcome, err = second.Bootstrap(ctx)
	require.NoError(t, err)
	require.Equal(t, game.OutcomeResumed, outcome)

	restored := second.State()
	require.Equal(t, sessionID, restored.SessionID)
	require.Equal(t, state.Clues, restored.Clues)
	require.Equal(t, state.ClearedKeys, restored.ClearedKeys)

	// Clearing the last key solves the case.
	verdict, err = second.SubmitTurn(ctx, capture("cup"))
	require.NoError(t, err)
	require.True(t, verdict.Solved)
	require.True(t, second.State().Solved)
	require.Equal(t, models.EndingResolved, game.SelectEnding(second.State().Solved, game.SignalNone))

	outcome2, err := second.Accuse(ctx, "ren", "she had the key to the study")
	require.NoError(t, err)
	require.True(t, outcome2.Correct)
}

// TestRestoreSeededPlaythrough resumes a playthrough that predates the client
// under test, seeded directly into the fake authority.
func TestRestoreSeededPlaythrough(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	logger := testhelpers.NewLogger(io.Discard)

	srv := authoritytest.NewServer(logger, []authority.Hint{
		{Key: "cup", Chapter: 1, Message: "Two cups, one untouched."},
		{Key: "clock", Chapter: 2, Message: "The clock stopped at 2:13."},
	}, "ren")
	t.Cleanup(srv.Close)
	srv.Seed("session-old", []string{"cup"}, false, []authority.PhotoResponse{
		{ID: "p1", SessionID: "session-old", DetectedKey: "cup", GhostURL: "https://img/g1.png"},
	})
	client := authority.NewClient(srv.URL(), logger)

	db, err := sqlite.NewDatabase(ctx, ":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})
	st := store.NewStore(db, logger)
	require.NoError(t, st.SetSessionID(ctx, "session-old"))

	c := game.NewController(client, st, logger)
	outcome, err := c.Bootstrap(ctx)
	require.NoError(t, err)
	require.Equal(t, game.OutcomeResumed, outcome)

	state := c.State()
	require.Equal(t, "session-old", state.SessionID)
	require.Equal(t, []string{"cup"}, state.ClearedKeys)
	require.Len(t, state.Clues, 1)
	require.Equal(t, "Two cups, one untouched.", state.Clues[0].Story)

	// Local accusation validation never reaches the wire.
	before := srv.Requests()
	_, err = c.Accuse(ctx, "ren", "   ")
	require.ErrorIs(t, err, game.ErrValidation)
	require.Equal(t, before, srv.Requests())
}

// TestRestoreAfterServerExpiry covers the relaunch where the authority has
// dropped the session: the stale id is discarded and play starts over.
func TestRestoreAfterServerExpiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	logger := testhelpers.NewLogger(io.Discard)

	srv := authoritytest.NewServer(logger, []authority.Hint{
		{Key: "cup", Chapter: 1, Message: "Two cups, one untouched."},
	}, "ren")
	t.Cleanup(srv.Close)
	client := authority.NewClient(srv.URL(), logger)

	db, err := sqlite.NewDatabase(ctx, ":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})
	st := store.NewStore(db, logger)

	first := game.NewController(client, st, logger)
	state, err := first.CreateSession(ctx, "Mika", "")
	require.NoError(t, err)

	srv.Forget(state.SessionID)

	second := game.NewController(client, st, logger)
	outcome, err := second.Bootstrap(ctx)
	require.NoError(t, err)
	require.Equal(t, game.OutcomeNeedsCreation, outcome)
	require.Empty(t, second.State().SessionID)
}
