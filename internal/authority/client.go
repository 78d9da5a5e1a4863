// Package authority is the HTTP client for the remote game authority. The
// authority owns game-solving correctness: session allocation, turn
// adjudication and accusation scoring all happen on its side, and this client
// only moves requests and verdicts across the wire. It never retries on its
// own; callers retry by invoking the operation again.
package authority

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/vakkila/spiritlens/internal/errors"
)

// ErrSessionNotFound signals that the authority no longer knows the session.
// It is the designed trigger for falling back to session creation, distinct
// from transport errors.
var ErrSessionNotFound = errors.NewSentinel("session not found")

const defaultTimeout = 30 * time.Second

type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a client for the authority reachable at baseURL, e.g.
// "http://localhost:8000/api".
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    baseURL,
		logger:     logger.With("source", "authority.Client"),
	}
}

// CreateSession allocates a new playthrough.
func (c *Client) CreateSession(ctx context.Context, req CreateSessionRequest) (SessionResponse, error) {
	var resp SessionResponse
	if err := c.postJSON(ctx, "/game", req, &resp); err != nil {
		return SessionResponse{}, errors.Wrap(err, "create session")
	}
	return resp, nil
}

// GetSession looks up the authoritative session state. A missing session
// yields ErrSessionNotFound.
func (c *Client) GetSession(ctx context.Context, sessionID string) (SessionResponse, error) {
	var resp SessionResponse
	if err := c.getJSON(ctx, "/game/"+sessionID, &resp); err != nil {
		return SessionResponse{}, errors.Wrap(err, "get session")
	}
	return resp, nil
}

// ListPhotos returns the session's captured-evidence history in capture order.
func (c *Client) ListPhotos(ctx context.Context, sessionID string) ([]PhotoResponse, error) {
	var resp photoListResponse
	if err := c.getJSON(ctx, "/game/"+sessionID+"/photos", &resp); err != nil {
		return nil, errors.Wrap(err, "list photos")
	}
	return resp.Photos, nil
}

// HintCatalog returns the static, session-independent hint catalog.
func (c *Client) HintCatalog(ctx context.Context) ([]Hint, error) {
	var resp []Hint
	if err := c.getJSON(ctx, "/scenario/hints", &resp); err != nil {
		return nil, errors.Wrap(err, "fetch hint catalog")
	}
	return resp, nil
}

// SubmitTurn uploads one photo as a turn and returns the authority's verdict.
func (c *Client) SubmitTurn(ctx context.Context, sessionID string, image []byte) (TurnResponse, error) {
	var (
		resp TurnResponse
		body bytes.Buffer
	)

	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "capture.jpg")
	if err != nil {
		return TurnResponse{}, errors.Wrap(err, "create multipart form file")
	}
	if _, err = part.Write(image); err != nil {
		return TurnResponse{}, errors.Wrap(err, "write image payload")
	}
	if err = writer.Close(); err != nil {
		return TurnResponse{}, errors.Wrap(err, "close multipart writer")
	}

	var req *http.Request
	if req, err = c.newRequest(ctx, http.MethodPost, "/game/"+sessionID+"/turn", &body); err != nil {
		return TurnResponse{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	if err = c.do(req, &resp); err != nil {
		return TurnResponse{}, errors.Wrap(err, "submit turn")
	}
	return resp, nil
}

// CheckSuspect submits an accusation and returns the verdict verbatim.
func (c *Client) CheckSuspect(ctx context.Context, sessionID string, req AccusationRequest) (AccusationResponse, error) {
	var resp AccusationResponse
	if err := c.postJSON(ctx, "/suspect/"+sessionID+"/check", req, &resp); err != nil {
		return AccusationResponse{}, errors.Wrap(err, "check suspect")
	}
	return resp, nil
}

// GenerateAvatar asks the authority to render the spirit companion image.
func (c *Client) GenerateAvatar(ctx context.Context, sessionID string, req AvatarRequest) (AvatarResponse, error) {
	var resp AvatarResponse
	if err := c.postJSON(ctx, "/game/"+sessionID+"/avatar", req, &resp); err != nil {
		return AvatarResponse{}, errors.Wrap(err, "generate avatar")
	}
	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, urlPath string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, urlPath, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, urlPath string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return errors.Wrap(err, "marshal request body")
	}
	var req *http.Request
	if req, err = c.newRequest(ctx, http.MethodPost, urlPath, bytes.NewReader(payload)); err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// newRequest creates an HTTP request to the authority that respects the given
// context. Every request carries a correlation ID for troubleshooting.
func (c *Client) newRequest(ctx context.Context, method, urlPath string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+urlPath, body)
	if err != nil {
		return nil, errors.Wrap(err, "create request", slog.String("path", urlPath))
	}
	req.Header.Set("X-Request-Id", uuid.NewString())
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "do request", slog.String("path", req.URL.Path))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	c.logger.LogAttrs(req.Context(), slog.LevelDebug, "authority response",
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.Int("status", resp.StatusCode))

	if resp.StatusCode == http.StatusNotFound {
		return ErrSessionNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return errors.New("unexpected status code",
			slog.String("path", req.URL.Path),
			slog.Int("status", resp.StatusCode))
	}

	if out == nil {
		return nil
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode response body", slog.String("path", req.URL.Path))
	}
	return nil
}

// BaseURL reports where the client points, for logging only.
func (c *Client) BaseURL() string {
	return c.baseURL
}
