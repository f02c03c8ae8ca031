package solver

import (
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash"
	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"
)

const numShards = 256

// Rough per-entry cost: the fingerprint key, the move count, and map
// bucket overhead. Only used to size the table from available memory.
const entrySize = 128

// A TranspositionTable maps board fingerprints to the lowest move count at
// which that exact state has been reached by any goroutine. It is purely a
// pruning aid: a missed or dropped entry costs redundant exploration, never
// a wrong answer. Keys are sharded by xxhash so concurrent workers mostly
// touch different locks.
type TranspositionTable struct {
	shards [numShards]tableShard

	maxEntries int64
	entries    atomic.Int64

	lookups atomic.Uint64
	hits    atomic.Uint64
	stores  atomic.Uint64
}

type tableShard struct {
	sync.RWMutex
	seen map[string]int
}

// NewTranspositionTable allocates a table sized to use at most the given
// fraction of total system memory.
func NewTranspositionTable(fractionOfMemory float64) *TranspositionTable {
	t := &TranspositionTable{}
	t.Reset(fractionOfMemory)
	return t
}

// Reset empties the table and recomputes its capacity from system memory.
func (t *TranspositionTable) Reset(fractionOfMemory float64) {
	totalMem := memory.TotalMemory()
	t.maxEntries = int64(fractionOfMemory * float64(totalMem) / entrySize)
	for i := range t.shards {
		sh := &t.shards[i]
		sh.Lock()
		sh.seen = make(map[string]int)
		sh.Unlock()
	}
	t.entries.Store(0)
	t.lookups.Store(0)
	t.hits.Store(0)
	t.stores.Store(0)
	log.Debug().
		Int64("max-entries", t.maxEntries).
		Uint64("total-system-memory-bytes", totalMem).
		Msg("transposition-table-size")
}

func (t *TranspositionTable) shard(fp []byte) *tableShard {
	return &t.shards[xxhash.Sum64(fp)&(numShards-1)]
}

// ShouldVisit decides whether a state reached after moveCount moves is
// worth exploring, and records the count if so. The fast path takes only
// the shard's read lock: if the state was already reached at a count less
// than or equal to ours, nothing downstream of us can improve on it and we
// prune. Otherwise we take the write lock and re-check, because another
// goroutine may have installed a better count between the two locks:
// absent means insert, a stale entry means update and proceed, and an
// entry that got better in the meantime means prune after all.
func (t *TranspositionTable) ShouldVisit(fp []byte, moveCount int) bool {
	t.lookups.Add(1)
	sh := t.shard(fp)

	sh.RLock()
	seenAt, ok := sh.seen[string(fp)]
	sh.RUnlock()
	if ok && moveCount >= seenAt {
		t.hits.Add(1)
		return false
	}

	sh.Lock()
	defer sh.Unlock()
	seenAt, ok = sh.seen[string(fp)]
	switch {
	case ok && moveCount >= seenAt:
		// Lost the race to a goroutine with an equal or better count.
		t.hits.Add(1)
		return false
	case ok:
		sh.seen[string(fp)] = moveCount
		t.stores.Add(1)
		return true
	default:
		if t.entries.Load() >= t.maxEntries {
			// Table is full. Skipping the insert is safe; it only
			// means some duplicated work later.
			return true
		}
		sh.seen[string(fp)] = moveCount
		t.entries.Add(1)
		t.stores.Add(1)
		return true
	}
}

// Entries returns the number of distinct states recorded.
func (t *TranspositionTable) Entries() int64 {
	return t.entries.Load()
}
