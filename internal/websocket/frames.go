package websocket

import (
	"encoding/json"

	echoo_errors "github.com/muhammedkh45/Echoo/pkg/errors"
)

// Inbound events
const (
	EventAuth             = "auth"
	EventSendMessage      = "sendMessage"
	EventSendGroupMessage = "sendGroupMessage"
	EventJoinRoom         = "joinRoom"
)

// Outbound events
const (
	EventAuthenticated = "authenticated"
	EventError         = "error"
	EventOfflineUser   = "offline_user"
)

// Frame is one websocket text message in either direction.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type outboundFrame struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// AuthPayload is the data of the first frame a client sends.
type AuthPayload struct {
	Authorization string `json:"authorization"`
}

type AuthenticatedPayload struct {
	UserID       string `json:"userId"`
	ConnectionID string `json:"connectionId"`
}

// ErrorPayload reports a failed inbound event to the connection that sent it.
type ErrorPayload struct {
	Event   string `json:"event"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func encodeFrame(event string, data any) ([]byte, error) {
	return json.Marshal(outboundFrame{Event: event, Data: data})
}

func errorFrame(event string, err error) []byte {
	// the payload only holds strings, marshalling cannot fail
	b, _ := encodeFrame(EventError, ErrorPayload{
		Event:   event,
		Code:    echoo_errors.PublicCode(err),
		Message: echoo_errors.PublicMessage(err),
	})
	return b
}
