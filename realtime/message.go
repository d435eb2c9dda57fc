package realtime

import (
	"encoding/json"
	"fmt"
)

const (
	MessageStateUpdate = "stateUpdate"
	MessageError       = "error"
)

// Message is the outbound frame envelope.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// ErrorPayload is the data of an error frame sent to a single client.
type ErrorPayload struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func Encode(msgType string, data interface{}) ([]byte, error) {
	if msgType == "" {
		return nil, fmt.Errorf("trying to encode message without a type")
	}
	b, err := json.Marshal(Message{Type: msgType, Data: data})
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s message: %w", msgType, err)
	}
	return b, nil
}
