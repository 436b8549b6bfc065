package aggregate

import (
	"hash/fnv"
	"sync"
)

const keyMutexShards = 64

// keyMutex serializes read-modify-write cycles for a metric key within the
// process. Keys hash onto a fixed set of shards, so unrelated keys may share
// a lock but one key always maps to the same lock.
type keyMutex struct {
	shards [keyMutexShards]sync.Mutex
}

func newKeyMutex() *keyMutex {
	return &keyMutex{}
}

// Lock acquires the shard lock for key and returns its unlock function
func (m *keyMutex) Lock(key string) func() {
	h := fnv.New32a()
	h.Write([]byte(key))
	shard := &m.shards[h.Sum32()%keyMutexShards]
	shard.Lock()
	return shard.Unlock
}
