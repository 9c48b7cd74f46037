package model

import "time"

// ConnID uniquely identifies a relay connection
type ConnID string

// Connection describes a socket attached to the relay
type Connection struct {
	ID          ConnID
	RemoteAddr  string
	ConnectedAt time.Time
}
