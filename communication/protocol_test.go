package communication

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		want Message
	}{
		{"PLAYER: 2", Message{Header: PlayerHeader, Payload: "2"}},
		{"Q2: 00101 (please select move)", Message{Header: SelectMoveHeader, Payload: "00101 (please select move)"}},
		{"ACK_PIECE: 11111", Message{Header: AckPieceHeader, Payload: "11111"}},
		{"PIECE: 00000", Message{Header: PieceHeader, Payload: "00000"}},
		{"ERR_MOVE:4,4", Message{Header: ErrMoveHeader, Payload: "4,4"}},
		{"MOVE: 0,3", Message{Header: MoveHeader, Payload: "0,3"}},
		{"GAME_OVER: player 1 wins", Message{Header: GameOverHeader, Payload: "player 1 wins"}},
		{" 2,3 ", Message{Payload: "2,3"}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := Parse(tt.line)
			require.Equal(t, tt.want, got)
		})
	}

	t.Run("format prefixes the payload", func(t *testing.T) {
		require.Equal(t, "TURN_TIME_LIMIT: 10000", Format(TurnTimeLimitHeader, 10000))
		require.Equal(t, "ACK_MOVE: 1,2", Message{Header: AckMoveHeader, Payload: "1,2"}.String())
	})
}
