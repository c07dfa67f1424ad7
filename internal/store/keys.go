package store

import (
	"sync"

	"github.com/segmentio/ksuid"
)

var (
	keyMu   sync.Mutex
	lastKey ksuid.KSUID
)

// newKey returns a strictly increasing append key. ksuid timestamps have
// one-second resolution and the payload is random, so a raw ksuid drawn in
// the same second as its predecessor may sort before it; such draws are
// replaced with the successor of the previous key.
func newKey() string {
	keyMu.Lock()
	defer keyMu.Unlock()
	k := ksuid.New()
	if ksuid.Compare(k, lastKey) <= 0 {
		k = lastKey.Next()
	}
	lastKey = k
	return k.String()
}
