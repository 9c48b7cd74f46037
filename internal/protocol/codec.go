package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/mcoot/vstetris/internal/model"
)

// Encode frames payload under event. A nil payload produces an envelope with no data.
func Encode(event string, payload any) ([]byte, error) {
	if event == "" {
		return nil, fmt.Errorf("encode: %w", model.ErrUnknownMessage)
	}
	env := Envelope{Event: event}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", event, err)
		}
		env.Data = data
	}
	return json.Marshal(env)
}

// DecodeEnvelope parses the framing of a message without touching its payload
func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, model.ErrEmptyMessage
	}
	var env Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Event == "" {
		return Envelope{}, fmt.Errorf("decode envelope: %w", model.ErrUnknownMessage)
	}
	return env, nil
}

// DecodePayload parses the envelope's data as T
func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.Data) == 0 {
		return out, fmt.Errorf("%s: %w", env.Event, model.ErrEmptyPayload)
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return out, fmt.Errorf("decode %s payload: %w", env.Event, err)
	}
	return out, nil
}
