package game_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vakkila/spiritlens/internal/game"
	"github.com/vakkila/spiritlens/internal/models"
)

func TestSelectEnding(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		solved bool
		signal game.EndingSignal
		want   models.Ending
	}{
		{
			name:   "solved without signal resolves",
			solved: true,
			signal: game.SignalNone,
			want:   models.EndingResolved,
		},
		{
			name:   "unsolved without signal escapes",
			solved: false,
			signal: game.SignalNone,
			want:   models.EndingEscaped,
		},
		{
			name:   "explicit escape wins while unsolved",
			solved: false,
			signal: game.SignalEscape,
			want:   models.EndingEscaped,
		},
		{
			name:   "explicit escape wins even when solved",
			solved: true,
			signal: game.SignalEscape,
			want:   models.EndingEscaped,
		},
		{
			name:   "explicit success wins while unsolved",
			solved: false,
			signal: game.SignalSuccess,
			want:   models.EndingResolved,
		},
		{
			name:   "explicit success agrees with solved",
			solved: true,
			signal: game.SignalSuccess,
			want:   models.EndingResolved,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := game.SelectEnding(tt.solved, tt.signal)
			require.Equal(t, tt.want, got)
			// The selector is pure; evaluating again gives the same ending.
			require.Equal(t, got, game.SelectEnding(tt.solved, tt.signal))
		})
	}
}
