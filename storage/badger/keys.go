package badger

import (
	"encoding/binary"
	"time"
)

// Key prefixes for different data types
const (
	itemPrefix       = "item:"
	itemDatePrefix   = "itemd:"
	itemVectorPrefix = "itemv:"
	checkpointPrefix = "chkpt:"
)

// makeItemKey generates a key for an item by ID.
func makeItemKey(id string) []byte {
	return []byte(itemPrefix + id)
}

// makeItemDateKey generates a composite key for the creation date index.
// Format: prefix + 8-byte timestamp + id
func makeItemDateKey(createdAt time.Time, id string) []byte {
	buf := makePartialItemDateKey(createdAt)
	return append(buf, id...)
}

// makePartialItemDateKey generates a partial key for date range queries.
// Format: prefix + 8-byte timestamp
func makePartialItemDateKey(createdAt time.Time) []byte {
	buf := make([]byte, len(itemDatePrefix)+8, len(itemDatePrefix)+8+36)
	offset := copy(buf, itemDatePrefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(createdAt.UnixMicro()))
	return buf
}

// makeVectorKey generates a key for an item's cached embedding.
func makeVectorKey(id string) []byte {
	return []byte(itemVectorPrefix + id)
}

// makeCheckpointKey generates a key for a job checkpoint.
func makeCheckpointKey(name string) []byte {
	return []byte(checkpointPrefix + name)
}
