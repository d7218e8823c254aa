// Package policy defines the pluggable eviction policy contract used by the
// local tier. Policies manipulate a shard's intrusive MRU/LRU list through
// hooks; the shard owns the key->entry map and performs actual deletion.
package policy

// Node is the minimal contract a cache entry must satisfy for a policy.
type Node interface {
	Key() string
}

// Hooks expose O(1) list operations a policy can use to manipulate the
// shard's intrusive MRU/LRU list. Implementations are provided by the shard.
//
// Concurrency: all hook calls happen under the shard lock.
type Hooks interface {
	// MoveToFront promotes the node to MRU.
	MoveToFront(Node)
	// PushFront inserts the node at MRU (used on admission).
	PushFront(Node)
	// Remove detaches the node from the list (map bookkeeping is done by the shard).
	Remove(Node)
	// Back returns the current LRU node (or nil if empty).
	Back() Node
	// Len returns the number of resident nodes in the shard.
	Len() int
}

// ShardPolicy is a per-shard eviction policy instance bound to shard hooks.
// All methods are invoked under the shard lock.
//
// OnAdd may return an eviction candidate (e.g. the LRU of a probation
// queue); the shard evicts that node and then calls OnRemove for it.
// OnGet/OnUpdate typically promote the node. OnRemove lets the policy
// maintain internal state such as ghost queues.
type ShardPolicy interface {
	OnAdd(Node) (evict Node)
	OnGet(Node)
	OnUpdate(Node)
	OnRemove(Node)
}

// Policy is a factory that creates shard-local policy instances bound to a
// particular shard's hooks.
type Policy interface {
	New(Hooks) ShardPolicy
}
