package relay

import "time"

// Config holds socket buffer sizes and keepalive deadlines
type Config struct {
	ReadBufferSize  int
	WriteBufferSize int
	SendBufferSize  int   // Outgoing messages queued per connection
	MaxMessageSize  int64 // Largest inbound frame accepted

	StorageQueueSize int // Room writes queued for the storage writer

	WriteWait  time.Duration // Time allowed to write a frame
	PongWait   time.Duration // Time allowed between pongs
	PingPeriod time.Duration // Must be less than PongWait
}

// DefaultConfig returns sensible defaults for the relay
func DefaultConfig() Config {
	return Config{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		SendBufferSize:  256,
		MaxMessageSize:  1 << 20,

		StorageQueueSize: 256,
		WriteWait:       10 * time.Second,
		PongWait:        60 * time.Second,
		PingPeriod:      25 * time.Second,
	}
}
