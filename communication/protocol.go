package communication

import (
	"fmt"
	"strings"
)

// Message headers. Each line starts with one of them, followed by a free
// text payload. Replies to Q1 and Q2 carry no header.
const (
	PlayerHeader        = "PLAYER: "
	InfoHeader          = "INFO: "
	TurnTimeLimitHeader = "TURN_TIME_LIMIT: "
	SelectPieceHeader   = "Q1: "
	SelectMoveHeader    = "Q2: "
	AckPieceHeader      = "ACK_PIECE: "
	ErrPieceHeader      = "ERR_PIECE: "
	AckMoveHeader       = "ACK_MOVE: "
	ErrMoveHeader       = "ERR_MOVE: "
	PieceHeader         = "PIECE: "
	MoveHeader          = "MOVE: "
	GameOverHeader      = "GAME_OVER: "
)

var headers = []string{
	PlayerHeader,
	InfoHeader,
	TurnTimeLimitHeader,
	SelectPieceHeader,
	SelectMoveHeader,
	AckPieceHeader,
	ErrPieceHeader,
	AckMoveHeader,
	ErrMoveHeader,
	PieceHeader,
	MoveHeader,
	GameOverHeader,
}

type Message struct {
	Header  string // empty for a bare reply
	Payload string
}

// Parse splits a line into its header and payload. The space after the
// colon is optional.
func Parse(line string) Message {
	for _, header := range headers {
		key := strings.TrimSuffix(header, " ")
		if strings.HasPrefix(line, key) {
			return Message{Header: header, Payload: strings.TrimSpace(line[len(key):])}
		}
	}
	return Message{Payload: strings.TrimSpace(line)}
}

func (m Message) String() string {
	return m.Header + m.Payload
}

func Format(header string, payload any) string {
	return fmt.Sprintf("%s%v", header, payload)
}

// Greet tells a freshly connected seat its player number.
func Greet(seat Seat, number int) error {
	return seat.Send(Format(PlayerHeader, number))
}
