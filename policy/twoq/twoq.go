// Package twoq implements the 2Q eviction policy, which resists scan
// pollution better than plain LRU under skewed read workloads.
package twoq

import (
	"container/list"

	"github.com/vimiix/vcache/policy"
)

// twoQ tracks two resident queues and one ghost queue per shard:
//
//   - A1in (young): first-time admissions, tracked in its own list.
//   - Am (mature): everything else; ordering is driven by shard hooks.
//   - A1out (ghosts): keys of recently evicted A1in entries, giving them a
//     second chance to be admitted directly into Am.
//
// Concurrency: all methods are called under the shard lock.
type twoQ struct {
	h policy.Hooks

	capIn    int // A1in capacity (per-shard)
	capGhost int // A1out capacity (per-shard)

	// A1in: MRU at Front() -> LRU at Back().
	inList *list.List
	inIdx  map[policy.Node]*list.Element

	// A1out: keys only, MRU at Front() -> LRU at Back().
	ghostList *list.List
	ghostIdx  map[string]*list.Element
}

type twoQPolicy struct {
	capIn    int
	capGhost int
}

// New constructs a 2Q policy factory. Common choices: capIn ~ 25% of shard
// capacity, capGhost ~ 50-100% of shard capacity. When used with a sharded
// store, pass per-shard sizes.
func New(capIn, capGhost int) policy.Policy {
	if capIn < 1 {
		capIn = 1
	}
	if capGhost < 1 {
		capGhost = 1
	}
	return twoQPolicy{capIn: capIn, capGhost: capGhost}
}

func (p twoQPolicy) New(h policy.Hooks) policy.ShardPolicy {
	return &twoQ{
		h:         h,
		capIn:     p.capIn,
		capGhost:  p.capGhost,
		inList:    list.New(),
		inIdx:     make(map[policy.Node]*list.Element),
		ghostList: list.New(),
		ghostIdx:  make(map[string]*list.Element),
	}
}

// OnAdd admission rules:
//   - key present in ghosts: admit directly into Am and drop the ghost.
//   - otherwise admit into A1in.
//   - if A1in overflows, propose its LRU to the shard for eviction.
func (q *twoQ) OnAdd(n policy.Node) (evict policy.Node) {
	k := n.Key()
	if ge, ok := q.ghostIdx[k]; ok {
		q.ghostList.Remove(ge)
		delete(q.ghostIdx, k)
		q.h.PushFront(n)
		return nil
	}

	q.h.PushFront(n)
	q.inIdx[n] = q.inList.PushFront(n)

	if q.inList.Len() > q.capIn {
		if lruEl := q.inList.Back(); lruEl != nil {
			return lruEl.Value.(policy.Node)
		}
	}
	return nil
}

// OnGet: a hit on an A1in entry promotes it to Am; either way the entry
// moves to MRU in the shard list.
func (q *twoQ) OnGet(n policy.Node) {
	if el, ok := q.inIdx[n]; ok {
		q.inList.Remove(el)
		delete(q.inIdx, n)
	}
	q.h.MoveToFront(n)
}

// OnUpdate follows OnGet semantics (updates count as recent use).
func (q *twoQ) OnUpdate(n policy.Node) { q.OnGet(n) }

// OnRemove: evicted A1in entries leave a ghost behind; removals from Am do
// not populate ghosts.
func (q *twoQ) OnRemove(n policy.Node) {
	el, ok := q.inIdx[n]
	if !ok {
		return
	}
	q.inList.Remove(el)
	delete(q.inIdx, n)

	k := n.Key()
	if old := q.ghostIdx[k]; old != nil {
		q.ghostList.Remove(old)
	}
	q.ghostIdx[k] = q.ghostList.PushFront(k)

	for q.ghostList.Len() > q.capGhost {
		tail := q.ghostList.Back()
		if tail == nil {
			break
		}
		delete(q.ghostIdx, tail.Value.(string))
		q.ghostList.Remove(tail)
	}
}
