package local

// node is an intrusive doubly linked list element owned by a shard.
// It stores the key and encoded value alongside the list links and the
// expiry deadline used for lazy TTL eviction.
type node struct {
	key string
	val []byte

	// Intrusive list links: head is MRU, tail is LRU.
	prev *node
	next *node

	// Absolute expiration deadline in UnixNano. Zero means "no TTL".
	exp int64
}

// Key returns the node key (part of the policy.Node contract).
func (n *node) Key() string { return n.key }
