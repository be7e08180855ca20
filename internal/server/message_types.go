package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants
const (
	// Client to server messages
	MessageTypeJoin   MessageType = "join"
	MessageTypeAction MessageType = "action"
	MessageTypeLeave  MessageType = "leave"

	// Server to client messages
	MessageTypeWaiting MessageType = "waiting"
	MessageTypeJoined  MessageType = "joined"
	MessageTypeState   MessageType = "state"
	MessageTypeError   MessageType = "error"
	MessageTypeLeft    MessageType = "left"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}

// Error codes carried in ErrorData
const (
	CodeInvalidMessage = "invalid_message"
	CodeUnknownType    = "unknown_message_type"
	CodeNotJoined      = "not_joined"
	CodeAlreadyJoined  = "already_joined"
	CodeNameRequired   = "name_required"
	CodeNameTaken      = "name_taken"
	CodeRejected       = "command_rejected"
	CodeOpponentLeft   = "opponent_left"
	CodeUnavailable    = "service_unavailable"
)
