// Package authoritytest runs an in-process fake of the remote game authority
// for exercising the client against real HTTP plumbing. The fake's vision
// model is intentionally dumb: it "recognizes" the object whose key the
// uploaded image payload spells out, so tests stay deterministic. A payload
// of the form "key:story" overrides the narrative text attached to the
// detection, which lets tests probe first-write-wins behaviour.
package authoritytest

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/justinas/alice"
	"github.com/vakkila/spiritlens/internal/authority"
)

type fakeSession struct {
	ID          string
	PlayerName  string
	Status      string
	ClearedKeys []string
	AvatarURL   string
	Photos      []authority.PhotoResponse
}

type Server struct {
	srv    *httptest.Server
	logger *slog.Logger

	mu       sync.Mutex
	sessions map[string]*fakeSession

	// Hints is the static catalog served to clients. Keys not present in the
	// catalog are never detected.
	Hints []authority.Hint
	// CorrectSuspect is the accusation the fake scores as correct.
	CorrectSuspect string

	requests atomic.Int64
}

// NewServer starts the fake authority. Callers own the returned server and
// must Close it.
func NewServer(logger *slog.Logger, hints []authority.Hint, correctSuspect string) *Server {
	s := &Server{
		logger:         logger.With("source", "authoritytest.Server"),
		sessions:       make(map[string]*fakeSession),
		Hints:          hints,
		CorrectSuspect: correctSuspect,
	}

	r := chi.NewRouter()
	r.Post("/game", s.createSession)
	r.Get("/game/{sessionID}", s.getSession)
	r.Get("/game/{sessionID}/photos", s.listPhotos)
	r.Post("/game/{sessionID}/turn", s.submitTurn)
	r.Post("/game/{sessionID}/avatar", s.generateAvatar)
	r.Post("/suspect/{sessionID}/check", s.checkSuspect)
	r.Get("/scenario/hints", s.hintCatalog)

	chain := alice.New(s.countRequest, s.logRequest).Then(r)
	s.srv = httptest.NewServer(chain)
	return s
}

func (s *Server) URL() string {
	return s.srv.URL
}

func (s *Server) Close() {
	s.srv.Close()
}

// Requests reports how many HTTP requests the fake has served. Tests use it
// to assert that local validation makes zero network calls.
func (s *Server) Requests() int {
	return int(s.requests.Load())
}

// Seed installs a session directly, bypassing the create endpoint, so tests
// can model a playthrough that predates the client under test.
func (s *Server) Seed(id string, clearedKeys []string, solved bool, photos []authority.PhotoResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	status := "playing"
	if solved {
		status = "solved"
	}
	s.sessions[id] = &fakeSession{
		ID:          id,
		PlayerName:  "seeded",
		Status:      status,
		ClearedKeys: clearedKeys,
		Photos:      photos,
	}
}

// Forget drops a session so a later lookup 404s, modelling server-side expiry.
func (s *Server) Forget(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *Server) countRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("received request", "method", r.Method, "uri", r.URL.RequestURI())
		next.ServeHTTP(w, r)
	})
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req authority.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	session := &fakeSession{
		ID:          uuid.NewString(),
		PlayerName:  req.PlayerName,
		Status:      "waiting",
		ClearedKeys: []string{},
	}
	s.sessions[session.ID] = session
	s.mu.Unlock()

	writeJSON(w, s.sessionResponse(session))
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	session, ok := s.sessions[chi.URLParam(r, "sessionID")]
	s.mu.Unlock()
	if !ok {
		http.Error(w, "Game not found", http.StatusNotFound)
		return
	}
	writeJSON(w, s.sessionResponse(session))
}

func (s *Server) listPhotos(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	session, ok := s.sessions[chi.URLParam(r, "sessionID")]
	s.mu.Unlock()
	if !ok {
		http.Error(w, "Game not found", http.StatusNotFound)
		return
	}
	writeJSON(w, map[string][]authority.PhotoResponse{"photos": session.Photos})
}

func (s *Server) hintCatalog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.Hints)
}

func (s *Server) submitTurn(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[chi.URLParam(r, "sessionID")]
	if !ok {
		http.Error(w, "Game not found", http.StatusNotFound)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	payload, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "unreadable file", http.StatusBadRequest)
		return
	}

	key, story, _ := strings.Cut(string(payload), ":")
	hint, detected := s.findHint(key)
	if detected && story == "" {
		story = hint.Message
	}

	resp := authority.TurnResponse{
		SessionID:   session.ID,
		PhotoID:     uuid.NewString(),
		OriginalURL: s.srv.URL + "/photos/" + session.ID + "/original.jpg",
		ClearedKeys: session.ClearedKeys,
		Status:      session.Status,
		Message:     "The spirit lingers in silence.",
	}

	if detected {
		if !contains(session.ClearedKeys, key) {
			session.ClearedKeys = append(session.ClearedKeys, key)
		}
		resp.DetectedKey = key
		resp.DetectedChapter = hint.Chapter
		resp.Story = story
		resp.HintMessage = hint.Message
		resp.GhostURL = s.srv.URL + "/photos/" + session.ID + "/ghost.png"
		resp.GhostMessage = "The spirit points at the " + key + "."
		resp.Message = "Found " + key + "! The spirit is trying to tell you something..."
		resp.ClearedKeys = session.ClearedKeys
	}

	if len(session.ClearedKeys) == len(s.Hints) {
		session.Status = "solved"
	}
	resp.Solved = session.Status == "solved"
	resp.Status = session.Status

	session.Photos = append(session.Photos, authority.PhotoResponse{
		ID:           resp.PhotoID,
		SessionID:    session.ID,
		OriginalURL:  resp.OriginalURL,
		GhostURL:     resp.GhostURL,
		GhostMessage: resp.GhostMessage,
		DetectedKey:  resp.DetectedKey,
		CreatedAt:    time.Now().UTC(),
	})

	writeJSON(w, resp)
}

func (s *Server) checkSuspect(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[chi.URLParam(r, "sessionID")]
	if !ok {
		http.Error(w, "Game not found", http.StatusNotFound)
		return
	}

	var req authority.AccusationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	resp := authority.AccusationResponse{
		Correct: req.Suspect == s.CorrectSuspect,
		Message: "That's not the culprit. Think again.",
	}
	if resp.Correct {
		resp.Message = "Correct! Both the suspect and the reasoning hold up."
		session.Status = "solved"
	}
	writeJSON(w, resp)
}

func (s *Server) generateAvatar(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[chi.URLParam(r, "sessionID")]
	if !ok {
		http.Error(w, "Game not found", http.StatusNotFound)
		return
	}
	session.AvatarURL = s.srv.URL + "/avatars/" + session.ID + ".png"
	writeJSON(w, authority.AvatarResponse{AvatarURL: session.AvatarURL})
}

func (s *Server) sessionResponse(session *fakeSession) authority.SessionResponse {
	return authority.SessionResponse{
		ID:          session.ID,
		PlayerName:  session.PlayerName,
		Status:      session.Status,
		ClearedKeys: session.ClearedKeys,
		AvatarURL:   session.AvatarURL,
		PhotoCount:  len(session.Photos),
	}
}

func (s *Server) findHint(key string) (authority.Hint, bool) {
	for _, h := range s.Hints {
		if h.Key == key {
			return h, true
		}
	}
	return authority.Hint{}, false
}

func contains(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
