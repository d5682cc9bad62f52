package activeobjects

// identified is implemented by anything that can appear as a node's
// Owner in the by-identity tree: live agents, and the synthetic key
// nodes used to probe the tree for a (typeID, id) pair or a typeID
// prefix without allocating a whole ActiveObject.
type identified interface {
	identity() (typeID, id string, ok bool)
}

// identityKey is a throwaway Owner used only as the needle in Find /
// FindLeftmostEQ lookups; it is never itself inserted into a tree.
type identityKey struct {
	typeID string
	id     string
}

func (k identityKey) identity() (string, string, bool) { return k.typeID, k.id, true }

func newKeyNode(k identityKey) *TreeNode {
	n := &TreeNode{}
	n.Owner = k
	return n
}

// byIdentityComp orders by-identity tree nodes lexicographically by
// (typeID, id), per §3 of the spec.
func byIdentityComp(a, b *TreeNode) int {
	at, aid, _ := a.Owner.(identified).identity()
	bt, bid, _ := b.Owner.(identified).identity()
	if at != bt {
		if at < bt {
			return -1
		}
		return 1
	}
	if aid != bid {
		if aid < bid {
			return -1
		}
		return 1
	}
	return 0
}

// byTypeComp orders only by typeID, ignoring id; it is used to find
// the leftmost-equal entry point for a ForEachObject(typeID, ...)
// traversal.
func byTypeComp(a, b *TreeNode) int {
	at, _, _ := a.Owner.(identified).identity()
	bt, _, _ := b.Owner.(identified).identity()
	if at == bt {
		return 0
	}
	if at < bt {
		return -1
	}
	return 1
}

// byTimeComp orders by-time tree nodes by their agent's scheduled
// time. Tie-break among equal times is left to AVL insertion order
// (duplicates land on the right of the equal chain) — the spec
// explicitly leaves this undefined as long as it is consistent.
func byTimeComp(a, b *TreeNode) int {
	at := a.Owner.(*ActiveObject).t
	bt := b.Owner.(*ActiveObject).t
	switch {
	case at.Before(*bt):
		return -1
	case at.After(*bt):
		return 1
	default:
		return 0
	}
}
