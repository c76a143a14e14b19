package transaction

import (
	"encoding/hex"
	"strings"
)

// MessageType is the type of a transfer message.
type MessageType uint8

// Message types.
const (
	PlainMessage  MessageType = 0
	SecureMessage MessageType = 1
)

// Message is an arbitrary payload attached to a transfer.
type Message struct {
	Type    MessageType
	Payload []byte
}

// NewPlainMessage returns a plain text message.
func NewPlainMessage(text string) Message {
	return Message{Type: PlainMessage, Payload: []byte(text)}
}

// String returns the payload as text.
func (m Message) String() string {
	return string(m.Payload)
}

// Hex returns the upper-case hex form of the payload.
func (m Message) Hex() string {
	return strings.ToUpper(hex.EncodeToString(m.Payload))
}

// size is the wire size of the message including its type byte.
func (m Message) size() int {
	return 1 + len(m.Payload)
}
