package authority_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vakkila/spiritlens/internal/authority"
	"github.com/vakkila/spiritlens/internal/authoritytest"
	"github.com/vakkila/spiritlens/internal/testhelpers"
)

var testHints = []authority.Hint{
	{Key: "cup", Chapter: 1, Message: "Two cups, one untouched."},
	{Key: "clock", Chapter: 2, Message: "The clock stopped at 2:13."},
}

func newTestClient(t *testing.T) (*authority.Client, *authoritytest.Server) {
	t.Helper()
	logger := testhelpers.NewLogger(io.Discard)
	srv := authoritytest.NewServer(logger, testHints, "ren")
	t.Cleanup(srv.Close)
	return authority.NewClient(srv.URL(), logger), srv
}

func TestCreateAndGetSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	client, _ := newTestClient(t)

	created, err := client.CreateSession(ctx, authority.CreateSessionRequest{PlayerName: "Mika"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "Mika", created.PlayerName)
	require.False(t, created.Solved())

	fetched, err := client.GetSession(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, fetched.ID)
	require.Equal(t, "Mika", fetched.PlayerName)
}

func TestGetSessionNotFound(t *testing.T) {
	t.Parallel()
	client, _ := newTestClient(t)

	_, err := client.GetSession(context.Background(), "no-such-session")
	require.ErrorIs(t, err, authority.ErrSessionNotFound)
}

func TestSubmitTurnUploadsImage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	client, _ := newTestClient(t)

	created, err := client.CreateSession(ctx, authority.CreateSessionRequest{PlayerName: "Mika"})
	require.NoError(t, err)

	verdict, err := client.SubmitTurn(ctx, created.ID, []byte("clock"))
	require.NoError(t, err)
	require.Equal(t, created.ID, verdict.SessionID)
	require.Equal(t, "clock", verdict.DetectedKey)
	require.Equal(t, 2, verdict.DetectedChapter)
	require.Equal(t, "The clock stopped at 2:13.", verdict.Story)
	require.Equal(t, []string{"clock"}, verdict.ClearedKeys)
	require.False(t, verdict.Solved)

	// A miss is a valid verdict without a detection, not an error.
	verdict, err = client.SubmitTurn(ctx, created.ID, []byte("nothing of note"))
	require.NoError(t, err)
	require.Empty(t, verdict.DetectedKey)
	require.Equal(t, []string{"clock"}, verdict.ClearedKeys)
}

func TestListPhotosReturnsHistory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	client, _ := newTestClient(t)

	created, err := client.CreateSession(ctx, authority.CreateSessionRequest{PlayerName: "Mika"})
	require.NoError(t, err)

	_, err = client.SubmitTurn(ctx, created.ID, []byte("clock"))
	require.NoError(t, err)
	_, err = client.SubmitTurn(ctx, created.ID, []byte("cup"))
	require.NoError(t, err)

	photos, err := client.ListPhotos(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, photos, 2)
	require.Equal(t, "clock", photos[0].DetectedKey)
	require.Equal(t, "cup", photos[1].DetectedKey)
}

func TestHintCatalog(t *testing.T) {
	t.Parallel()
	client, _ := newTestClient(t)

	hints, err := client.HintCatalog(context.Background())
	require.NoError(t, err)
	require.Equal(t, testHints, hints)
}

func TestCheckSuspect(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	client, _ := newTestClient(t)

	created, err := client.CreateSession(ctx, authority.CreateSessionRequest{PlayerName: "Mika"})
	require.NoError(t, err)

	resp, err := client.CheckSuspect(ctx, created.ID, authority.AccusationRequest{Suspect: "kenji", Reason: "he found the body"})
	require.NoError(t, err)
	require.False(t, resp.Correct)

	resp, err = client.CheckSuspect(ctx, created.ID, authority.AccusationRequest{Suspect: "ren", Reason: "she had the key"})
	require.NoError(t, err)
	require.True(t, resp.Correct)

	// A correct accusation solves the session server-side.
	fetched, err := client.GetSession(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, fetched.Solved())
}

func TestGenerateAvatar(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	client, _ := newTestClient(t)

	created, err := client.CreateSession(ctx, authority.CreateSessionRequest{PlayerName: "Mika"})
	require.NoError(t, err)

	resp, err := client.GenerateAvatar(ctx, created.ID, authority.AvatarRequest{Description: "a quiet voice"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AvatarURL)

	fetched, err := client.GetSession(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, resp.AvatarURL, fetched.AvatarURL)
}

func TestUnexpectedStatusIsAnError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	client := authority.NewClient(srv.URL, testhelpers.NewLogger(io.Discard))
	_, err := client.HintCatalog(context.Background())
	require.Error(t, err)
	require.NotErrorIs(t, err, authority.ErrSessionNotFound)
}
