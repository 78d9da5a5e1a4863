package game_test

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vakkila/spiritlens/internal/authority"
	"github.com/vakkila/spiritlens/internal/game"
	"github.com/vakkila/spiritlens/internal/sqlite"
	"github.com/vakkila/spiritlens/internal/store"
	"github.com/vakkila/spiritlens/internal/testhelpers"
)

// stubAuthority implements game.Authority with injectable behaviour and call
// counting, so tests can script verdicts and assert how often the network
// was touched.
type stubAuthority struct {
	mu    sync.Mutex
	calls map[string]int

	createFn func(authority.CreateSessionRequest) (authority.SessionResponse, error)
	getFn    func(string) (authority.SessionResponse, error)
	photosFn func(string) ([]authority.PhotoResponse, error)
	hintsFn  func() ([]authority.Hint, error)
	turnFn   func(string, []byte) (authority.TurnResponse, error)
	checkFn  func(string, authority.AccusationRequest) (authority.AccusationResponse, error)
	avatarFn func(string, authority.AvatarRequest) (authority.AvatarResponse, error)
}

func newStubAuthority() *stubAuthority {
	return &stubAuthority{calls: map[string]int{}}
}

func (s *stubAuthority) count(op string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[op]++
}

func (s *stubAuthority) callCount(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *stubAuthority) totalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

func (s *stubAuthority) CreateSession(_ context.Context, req authority.CreateSessionRequest) (authority.SessionResponse, error) {
	s.count("create")
	if s.createFn != nil {
		return s.createFn(req)
	}
	return authority.SessionResponse{ID: "session-1", PlayerName: req.PlayerName, Status: "waiting"}, nil
}

func (s *stubAuthority) GetSession(_ context.Context, sessionID string) (authority.SessionResponse, error) {
	s.count("get")
	if s.getFn != nil {
		return s.getFn(sessionID)
	}
	return authority.SessionResponse{ID: sessionID, Status: "playing"}, nil
}

func (s *stubAuthority) ListPhotos(_ context.Context, sessionID string) ([]authority.PhotoResponse, error) {
	s.count("photos")
	if s.photosFn != nil {
		return s.photosFn(sessionID)
	}
	return nil, nil
}

func (s *stubAuthority) HintCatalog(_ context.Context) ([]authority.Hint, error) {
	s.count("hints")
	if s.hintsFn != nil {
		return s.hintsFn()
	}
	return nil, nil
}

func (s *stubAuthority) SubmitTurn(_ context.Context, sessionID string, image []byte) (authority.TurnResponse, error) {
	s.count("turn")
	if s.turnFn != nil {
		return s.turnFn(sessionID, image)
	}
	return authority.TurnResponse{SessionID: sessionID}, nil
}

func (s *stubAuthority) CheckSuspect(_ context.Context, sessionID string, req authority.AccusationRequest) (authority.AccusationResponse, error) {
	s.count("check")
	if s.checkFn != nil {
		return s.checkFn(sessionID, req)
	}
	return authority.AccusationResponse{Correct: false, Message: "not the culprit"}, nil
}

func (s *stubAuthority) GenerateAvatar(_ context.Context, sessionID string, req authority.AvatarRequest) (authority.AvatarResponse, error) {
	s.count("avatar")
	if s.avatarFn != nil {
		return s.avatarFn(sessionID, req)
	}
	return authority.AvatarResponse{AvatarURL: "https://img/avatar.png"}, nil
}

// newTestController wires a controller to a stub authority and a fresh
// in-memory persistence store.
func newTestController(t *testing.T) (*game.Controller, *stubAuthority, *store.Store) {
	t.Helper()
	ctx := context.Background()
	logger := testhelpers.NewLogger(io.Discard)
	db, err := sqlite.NewDatabase(ctx, ":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})
	st := store.NewStore(db, logger)
	auth := newStubAuthority()
	return game.NewController(auth, st, logger), auth, st
}

// startSession creates a session through the controller so tests begin from
// a realistic active state.
func startSession(t *testing.T, c *game.Controller) game.State {
	t.Helper()
	state, err := c.CreateSession(context.Background(), "player", "")
	require.NoError(t, err)
	require.NotEmpty(t, state.SessionID)
	return state
}
