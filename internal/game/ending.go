package game

import "github.com/vakkila/spiritlens/internal/models"

// EndingSignal is an explicit result passed by the caller when the ending
// screen is shown, e.g. from a navigation parameter.
type EndingSignal string

const (
	// SignalNone defers to the ambient solved flag.
	SignalNone EndingSignal = ""
	// SignalSuccess explicitly requests the resolved ending.
	SignalSuccess EndingSignal = "success"
	// SignalEscape means the player abandoned the investigation. It always
	// wins, even over a solved session.
	SignalEscape EndingSignal = "escape"
)

// SelectEnding maps the solved flag and an optional explicit signal to a
// terminal narrative state. It is pure and may be re-evaluated every time the
// ending screen is shown.
func SelectEnding(solved bool, signal EndingSignal) models.Ending {
	if signal == SignalEscape {
		return models.EndingEscaped
	}
	if signal == SignalSuccess || solved {
		return models.EndingResolved
	}
	return models.EndingEscaped
}
