package server

import "encoding/json"

// MessageType identifies a websocket message
type MessageType string

const (
	// Client to server
	MessageTypeJoin   MessageType = "join"
	MessageTypeLeave  MessageType = "leave"
	MessageTypeAction MessageType = "action"
	MessageTypeState  MessageType = "state_request"

	// Server to client
	MessageTypeJoined     MessageType = "joined"
	MessageTypeTableState MessageType = "table_state"
	MessageTypeHandResult MessageType = "hand_result"
	MessageTypeTimeout    MessageType = "turn_timeout"
	MessageTypeError      MessageType = "error"
)

// Message is the envelope for all websocket traffic
type Message struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewMessage wraps a payload in a message envelope
func NewMessage(msgType MessageType, data any) (*Message, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{Type: msgType, Data: raw}, nil
}

// JoinData asks to sit at a table, buying in for the given amount
type JoinData struct {
	TableID    string `json:"tableId"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	BuyIn      int    `json:"buyIn"`
}

// LeaveData gives up the player's seat
type LeaveData struct {
	TableID string `json:"tableId"`
}

// ActionData is a betting decision. Amount is the raise increment
// above the call and is ignored for other actions.
type ActionData struct {
	Action string `json:"action"`
	Amount int    `json:"amount,omitempty"`
}

// JoinedData confirms a seat
type JoinedData struct {
	TableID  string `json:"tableId"`
	PlayerID string `json:"playerId"`
	Stack    int    `json:"stack"`
}

// TimeoutData reports an auto-folded player to the table
type TimeoutData struct {
	TableID  string `json:"tableId"`
	PlayerID string `json:"playerId"`
}

// ErrorData reports a rejected request
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
