package match

import (
	"github.com/rocketscienceinc/duel-backend/internal/entity"
)

// Board relay messages are flat objects keyed by "type".
const (
	TypePlayerAssigned = "player_assigned"
	TypeGameState      = "game_state"
	TypeMoveMade       = "move_made"
	TypeGameReset      = "game_reset"
	TypePlayerLeft     = "player_left"
	TypeChatMessage    = "chat_message"
	TypeError          = "error"
)

// Hand game messages wrap their payload in "data".
const (
	TypeJoinAck      = "join_ack"
	TypePlayers      = "players"
	TypeStartRound   = "start_round"
	TypeRoundResult  = "round_result"
	TypeOpponentLeft = "opponent_left"
)

const (
	MsgServerFull         = "Server full"
	MsgExpectedJoin       = "Expected join"
	MsgInvalidMove        = "Invalid move"
	MsgAlreadySubmitted   = "Move already submitted"
	MsgRoundNotInProgress = "Round not in progress"
	MsgJoined             = "Joined"
)

type CaroPlayer struct {
	Username string `json:"username"`
	Symbol   string `json:"symbol"`
}

// CaroState is the full snapshot sent with every board change.
type CaroState struct {
	Board         entity.Board          `json:"board"`
	CurrentPlayer string                `json:"current_player"`
	GameOver      bool                  `json:"game_over"`
	Winner        *string               `json:"winner"`
	Status        string                `json:"status"`
	MoveHistory   []entity.CaroMove     `json:"move_history"`
	Players       map[string]CaroPlayer `json:"players"`
}

type playerAssignedMessage struct {
	Type    string `json:"type"`
	Symbol  string `json:"symbol"`
	Message string `json:"message"`
}

type stateMessage struct {
	Type    string    `json:"type"`
	State   CaroState `json:"state"`
	Message string    `json:"message,omitempty"`
}

type textMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type chatMessage struct {
	Type     string `json:"type"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

type envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type messageData struct {
	Message string `json:"message"`
}

type joinAckData struct {
	PlayerIndex int    `json:"player_index"`
	Message     string `json:"message"`
}

type playersData struct {
	Players []string `json:"players"`
}

type startRoundData struct {
	Round   int    `json:"round"`
	Message string `json:"message"`
}

type RPSPlayerResult struct {
	Name  string        `json:"name"`
	Move  entity.Symbol `json:"move"`
	Score int           `json:"score"`
}

type roundResultData struct {
	Round     int             `json:"round"`
	Winner    *string         `json:"winner"`
	P1        RPSPlayerResult `json:"p1"`
	P2        RPSPlayerResult `json:"p2"`
	OutcomeP1 entity.Outcome  `json:"outcome_p1"`
	OutcomeP2 entity.Outcome  `json:"outcome_p2"`
}

type RPSPlayer struct {
	Name      string `json:"name"`
	Score     int    `json:"score"`
	Submitted bool   `json:"submitted"`
}

// RPSState is the live view of the hand game served over REST.
type RPSState struct {
	Round   int         `json:"round"`
	Status  string      `json:"status"`
	Players []RPSPlayer `json:"players"`
}

func errorEnvelope(message string) envelope {
	return envelope{Type: TypeError, Data: messageData{Message: message}}
}
