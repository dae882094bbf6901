package vault

import (
	"hash/maphash"
	"sync"
)

const lockStripes = 64

// stripedLock maps record stems onto a fixed set of RWMutexes. Two records
// may share a stripe; one record always maps to the same stripe.
type stripedLock struct {
	seed    maphash.Seed
	stripes [lockStripes]sync.RWMutex
}

func newStripedLock() *stripedLock {
	return &stripedLock{seed: maphash.MakeSeed()}
}

func (l *stripedLock) forKey(key string) *sync.RWMutex {
	return &l.stripes[maphash.String(l.seed, key)%lockStripes]
}

// lockAll write-locks every stripe in index order.
func (l *stripedLock) lockAll() {
	for i := range l.stripes {
		l.stripes[i].Lock()
	}
}

func (l *stripedLock) unlockAll() {
	for i := len(l.stripes) - 1; i >= 0; i-- {
		l.stripes[i].Unlock()
	}
}
