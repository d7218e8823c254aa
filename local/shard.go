package local

import (
	"sync"
	"time"

	"github.com/vimiix/vcache/policy"
)

// shard is an independent partition of the store with its own lock, map,
// and an intrusive doubly linked list (head=MRU, tail=LRU).
type shard struct {
	mu   sync.RWMutex
	m    map[string]*node
	head *node // MRU
	tail *node // LRU
	len  int
	cap  int

	pol policy.ShardPolicy
	opt Options
}

// newShard initializes a shard with a per-shard capacity and wires the
// eviction policy to this shard's list hooks.
func newShard(capacity int, pol policy.Policy, opt Options) *shard {
	s := &shard{
		m:   make(map[string]*node, capacity),
		cap: capacity,
		opt: opt,
	}
	s.pol = pol.New(shardHooks{s: s})
	return s
}

// Add inserts a NEW entry as MRU via policy hooks; no update is performed.
// exp is an absolute UnixNano deadline (0 = no TTL).
// Returns false if the key already exists.
func (s *shard) Add(k string, v []byte, exp int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.m[k]; exists {
		return false
	}
	n := &node{key: k, val: v, exp: exp}
	s.m[k] = n

	if ev := s.pol.OnAdd(n); ev != nil {
		s.evictNode(ev.(*node), EvictPolicy)
	}
	s.enforceCapacityLocked()
	return true
}

// Set inserts or updates an entry and promotes it according to the policy.
// The entry is replaced as a whole record; a concurrent reader sees either
// the old value or the new one.
func (s *shard) Set(k string, v []byte, exp int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n, ok := s.m[k]; ok {
		n.val = v
		n.exp = exp
		s.pol.OnUpdate(n)
		return
	}

	n := &node{key: k, val: v, exp: exp}
	s.m[k] = n

	if ev := s.pol.OnAdd(n); ev != nil {
		s.evictNode(ev.(*node), EvictPolicy)
	}
	s.enforceCapacityLocked()
}

// Get returns the value and promotes the entry according to the policy.
// Expired entries are evicted on access and reported as a miss.
func (s *shard) Get(k string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.m[k]
	if !ok {
		return nil, false
	}
	if s.expiredLocked(n) {
		s.evictNode(n, EvictTTL)
		return nil, false
	}

	s.pol.OnGet(n)
	return n.val, true
}

// Contains reports whether a non-expired entry exists without promoting it.
func (s *shard) Contains(k string) bool {
	s.mu.RLock()
	n, ok := s.m[k]
	expired := ok && s.expiredLocked(n)
	s.mu.RUnlock()
	return ok && !expired
}

// Remove deletes an entry by key. Returns true if the entry existed.
func (s *shard) Remove(k string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.m[k]
	if !ok {
		return false
	}
	s.pol.OnRemove(n)
	s.removeNode(n)
	delete(s.m, k)
	return true
}

// Len returns the number of resident entries in this shard.
func (s *shard) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.len
}

// Flush drops every resident entry without invoking OnEvict.
func (s *shard) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.m {
		s.pol.OnRemove(n)
		s.removeNode(n)
	}
	s.m = make(map[string]*node)
}

// -------------------- internals (mu held) --------------------

func (s *shard) expiredLocked(n *node) bool {
	if n.exp == 0 {
		return false
	}
	return s.now() > n.exp
}

func (s *shard) now() int64 {
	if s.opt.Clock != nil {
		return s.opt.Clock.NowUnixNano()
	}
	return time.Now().UnixNano()
}

// insertFront inserts n at MRU in O(1).
func (s *shard) insertFront(n *node) {
	n.prev = nil
	n.next = s.head
	if s.head != nil {
		s.head.prev = n
	}
	s.head = n
	if s.tail == nil {
		s.tail = n
	}
	s.len++
}

// moveToFront promotes n to MRU in O(1).
func (s *shard) moveToFront(n *node) {
	if n == s.head {
		return
	}
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if s.tail == n {
		s.tail = n.prev
	}
	n.prev = nil
	n.next = s.head
	if s.head != nil {
		s.head.prev = n
	}
	s.head = n
	if s.tail == nil {
		s.tail = n
	}
}

// removeNode removes n from the list and updates counters in O(1).
func (s *shard) removeNode(n *node) {
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if s.head == n {
		s.head = n.next
	}
	if s.tail == n {
		s.tail = n.prev
	}
	n.prev, n.next = nil, nil
	s.len--
}

// back returns the current LRU node in O(1).
func (s *shard) back() *node { return s.tail }

// evictNode removes the node and notifies the policy and OnEvict callback.
func (s *shard) evictNode(n *node, reason EvictReason) {
	s.pol.OnRemove(n)
	s.removeNode(n)
	delete(s.m, n.key)
	if cb := s.opt.OnEvict; cb != nil {
		// Called under the shard lock; keep callbacks lightweight.
		cb(n.key, n.val, reason)
	}
}

// enforceCapacityLocked evicts LRU entries until the shard fits its capacity.
func (s *shard) enforceCapacityLocked() {
	for s.len > s.cap {
		tail := s.back()
		if tail == nil {
			break
		}
		s.evictNode(tail, EvictCapacity)
	}
}

// -------------------- policy hooks --------------------

// shardHooks adapts the shard's list operations to policy.Hooks.
// All hook calls happen under the shard lock.
type shardHooks struct{ s *shard }

func (h shardHooks) MoveToFront(x policy.Node) { h.s.moveToFront(x.(*node)) }
func (h shardHooks) PushFront(x policy.Node)   { h.s.insertFront(x.(*node)) }
func (h shardHooks) Remove(x policy.Node)      { h.s.removeNode(x.(*node)) }
func (h shardHooks) Back() policy.Node {
	if n := h.s.back(); n != nil {
		return n
	}
	return nil
}
func (h shardHooks) Len() int { return h.s.len }
