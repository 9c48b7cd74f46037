package redis

import (
	"fmt"

	"github.com/mcoot/vstetris/internal/model"
)

// Key prefix for all relay data
const keyPrefix = "vstetris"

// roomKey returns the Redis key for a Room
func roomKey(id model.RoomID) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, id)
}

// roomIndexKey returns the Redis key for the SET of live room keys
func roomIndexKey() string {
	return fmt.Sprintf("%s:idx:rooms", keyPrefix)
}

// matchCountKey returns the Redis key for the total match counter
func matchCountKey() string {
	return fmt.Sprintf("%s:stats:matches", keyPrefix)
}
