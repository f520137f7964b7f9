package redis

import (
	"fmt"

	"github.com/mcoot/knockout/internal/model"
)

// Key prefix for all knockout data
const keyPrefix = "knockout"

// resultKey returns the Redis key for an archived KnockoutResult
func resultKey(id model.KnockoutID) string {
	return fmt.Sprintf("%s:result:%s", keyPrefix, id)
}

// resultsByEndKey returns the Redis key for the ZSET of result IDs scored by end time
func resultsByEndKey() string {
	return fmt.Sprintf("%s:idx:results_by_end", keyPrefix)
}

// winsKey returns the Redis key for the ZSET of win counts by login
func winsKey() string {
	return fmt.Sprintf("%s:wins", keyPrefix)
}

// nicknamesKey returns the Redis key for the HASH of last known winner nicknames
func nicknamesKey() string {
	return fmt.Sprintf("%s:nicknames", keyPrefix)
}
