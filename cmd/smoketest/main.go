// Command smoketest runs one investigation turn against a live authority to
// verify a deployment end to end. It exercises the same client the app uses;
// a passing run means session creation, turn adjudication and the read
// endpoints all work behind the given URL.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/vakkila/spiritlens/internal/authority"
	"github.com/vakkila/spiritlens/internal/errors"
	"github.com/vakkila/spiritlens/internal/logging"
)

func TestInvestigation(client *authority.Client) error {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second) //nolint:mnd // turn adjudication can be slow
	defer cancel()

	session, err := client.CreateSession(ctx, authority.CreateSessionRequest{PlayerName: "smoketest"})
	if err != nil {
		return errors.Wrap(err, "create session")
	}
	ctx = logging.WithAttrs(ctx, slog.String("sessionID", session.ID))

	if _, err = client.GetSession(ctx, session.ID); err != nil {
		return errors.Wrap(err, "get session")
	}

	hints, err := client.HintCatalog(ctx)
	if err != nil {
		return errors.Wrap(err, "fetch hint catalog")
	}
	if len(hints) == 0 {
		return errors.New("hint catalog is empty")
	}

	// A blank image never matches evidence, so the verdict must be a miss
	// rather than an error.
	verdict, err := client.SubmitTurn(ctx, session.ID, blankJPEG)
	if err != nil {
		return errors.Wrap(err, "submit turn")
	}
	if verdict.SessionID != session.ID {
		return errors.New("verdict names the wrong session",
			slog.String("got", verdict.SessionID))
	}

	photos, err := client.ListPhotos(ctx, session.ID)
	if err != nil {
		return errors.Wrap(err, "list photos")
	}
	if len(photos) != 1 {
		return errors.New("expected exactly one photo", slog.Int("got", len(photos)))
	}

	return nil
}

// blankJPEG is a minimal single-pixel JPEG so the upload passes image
// validation without matching any evidence.
var blankJPEG = []byte{
	0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 0x4a, 0x46, 0x49, 0x46, 0x00, 0x01,
	0x01, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0xff, 0xdb, 0x00, 0x43,
	0x00, 0x08, 0x06, 0x06, 0x07, 0x06, 0x05, 0x08, 0x07, 0x07, 0x07, 0x09,
	0x09, 0x08, 0x0a, 0x0c, 0x14, 0x0d, 0x0c, 0x0b, 0x0b, 0x0c, 0x19, 0x12,
	0x13, 0x0f, 0x14, 0x1d, 0x1a, 0x1f, 0x1e, 0x1d, 0x1a, 0x1c, 0x1c, 0x20,
	0x24, 0x2e, 0x27, 0x20, 0x22, 0x2c, 0x23, 0x1c, 0x1c, 0x28, 0x37, 0x29,
	0x2c, 0x30, 0x31, 0x34, 0x34, 0x34, 0x1f, 0x27, 0x39, 0x3d, 0x38, 0x32,
	0x3c, 0x2e, 0x33, 0x34, 0x32, 0xff, 0xc0, 0x00, 0x0b, 0x08, 0x00, 0x01,
	0x00, 0x01, 0x01, 0x01, 0x11, 0x00, 0xff, 0xc4, 0x00, 0x1f, 0x00, 0x00,
	0x01, 0x05, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
	0x09, 0x0a, 0x0b, 0xff, 0xc4, 0x00, 0x14, 0x10, 0x01, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xff, 0xda, 0x00, 0x08, 0x01, 0x01, 0x00, 0x00, 0x3f, 0x00, 0x7f, 0xff,
	0xd9,
}

func main() {
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only the authority URL as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <authority-url>")
		os.Exit(1)
	}

	url := os.Args[1]
	ctx = logging.WithAttrs(ctx, slog.String("authorityURL", url))

	client := authority.NewClient(url, logger)
	if err := TestInvestigation(client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error running investigation", errors.SlogError(err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌")
	os.Exit(0)
}
