package activeobjects

// TreeNode is embedded by anything that wants O(1) membership in an
// intrusive AVL Tree: the controller's by-time and by-identity
// indices both use this node type, keyed by different comparators.
//
// A node's lifetime belongs to its enclosing owner; the Tree it is
// linked into holds only a weak back-reference.
type TreeNode struct {
	parent  *TreeNode
	left    *TreeNode
	right   *TreeNode
	balance int8
	tree    *Tree

	// Owner is the weak back-reference to whatever embeds this node
	// (an *ActiveObject, for both the by-time and by-identity trees).
	// Comparators read through Owner to reach the fields they order
	// by; the tree itself never sets or inspects it.
	Owner any
}

// InTree reports whether the node is currently linked into a Tree.
func (n *TreeNode) InTree() bool {
	return n.parent != nil
}

// Successor returns the node's in-order successor, or nil if n is the
// rightmost node of its tree.
func (n *TreeNode) Successor() *TreeNode {
	if n.right != nil {
		result := n.right
		for result.left != nil {
			result = result.left
		}
		return result
	}
	result := n
	for result.parent != nil && result.parent.right == result {
		result = result.parent
	}
	return result.parent
}

// Predecessor returns the node's in-order predecessor, or nil if n is
// the leftmost node of its tree.
func (n *TreeNode) Predecessor() *TreeNode {
	if n.left != nil {
		result := n.left
		for result.right != nil {
			result = result.right
		}
		return result
	}
	result := n
	for result.parent != nil && result.parent.left == result {
		result = result.parent
	}
	return result.parent
}

// Remove unlinks the node from whatever tree it is currently in. It
// is a no-op if the node is not linked into a tree.
func (n *TreeNode) Remove() {
	if n.parent != nil && n.tree != nil {
		n.tree.Remove(n)
	}
}

// Comparator orders two tree nodes. It must return a negative value
// when a sorts before b, zero when equal, and a positive value when a
// sorts after b. The same comparator (or one sharing its total order)
// must be used consistently for a given Tree; mixing orders between
// Add and FindOrAdd breaks the structural invariants.
type Comparator func(a, b *TreeNode) int

// Tree is an intrusive AVL tree. A sentinel base node sits above the
// logical root so that rotations never need to special-case it.
type Tree struct {
	base  TreeNode
	root  *TreeNode
	comp  Comparator
	count int
}

// NewTree constructs an empty Tree ordered by comp.
func NewTree(comp Comparator) *Tree {
	t := &Tree{comp: comp}
	t.base.tree = t
	return t
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int { return t.count }

func (t *Tree) setRoot(root *TreeNode) {
	t.root = root
	t.base.right = root
	t.base.left = root
	if root != nil {
		root.parent = &t.base
	}
}

// Leftmost returns the minimum node, or nil if the tree is empty.
func (t *Tree) Leftmost() *TreeNode {
	result := t.root
	if result == nil {
		return nil
	}
	for result.left != nil {
		result = result.left
	}
	return result
}

// Rightmost returns the maximum node, or nil if the tree is empty.
func (t *Tree) Rightmost() *TreeNode {
	result := t.root
	if result == nil {
		return nil
	}
	for result.right != nil {
		result = result.right
	}
	return result
}

func (t *Tree) rotateLeft(node *TreeNode) {
	oldRight := node.right
	oldRightLeft := oldRight.left
	parent := node.parent
	if parent != &t.base {
		if parent.left == node {
			parent.left = oldRight
		} else {
			parent.right = oldRight
		}
	} else {
		t.setRoot(oldRight)
	}
	oldRight.parent = parent
	node.parent = oldRight
	node.right = oldRightLeft
	if oldRightLeft != nil {
		oldRightLeft.parent = node
	}
	oldRight.left = node
}

func (t *Tree) rotateRight(node *TreeNode) {
	oldLeft := node.left
	oldLeftRight := oldLeft.right
	parent := node.parent
	if parent != &t.base {
		if parent.left == node {
			parent.left = oldLeft
		} else {
			parent.right = oldLeft
		}
	} else {
		t.setRoot(oldLeft)
	}
	oldLeft.parent = parent
	node.parent = oldLeft
	node.left = oldLeftRight
	if oldLeftRight != nil {
		oldLeftRight.parent = node
	}
	oldLeft.right = node
}

func (t *Tree) balanceAfterInsert(node *TreeNode) {
	parent := node.parent
	for parent != &t.base {
		if parent.left == node {
			parent.balance--
			if parent.balance == 0 {
				return
			}
			if parent.balance == -1 {
				node = parent
				parent = node.parent
				continue
			}
			if node.balance == -1 {
				t.rotateRight(parent)
				node.balance = 0
				parent.balance = 0
			} else {
				oldRight := node.right
				t.rotateLeft(node)
				t.rotateRight(parent)
				if oldRight.balance <= 0 {
					node.balance = 0
				} else {
					node.balance = -1
				}
				if oldRight.balance == -1 {
					parent.balance = 1
				} else {
					parent.balance = 0
				}
				oldRight.balance = 0
			}
			return
		}
		parent.balance++
		if parent.balance == 0 {
			return
		}
		if parent.balance == 1 {
			node = parent
			parent = node.parent
			continue
		}
		if node.balance == 1 {
			t.rotateLeft(parent)
			node.balance = 0
			parent.balance = 0
		} else {
			oldLeft := node.left
			t.rotateRight(node)
			t.rotateLeft(parent)
			if oldLeft.balance >= 0 {
				node.balance = 0
			} else {
				node.balance = 1
			}
			if oldLeft.balance == 1 {
				parent.balance = -1
			} else {
				parent.balance = 0
			}
			oldLeft.balance = 0
		}
		return
	}
}

func (t *Tree) balanceAfterDelete(node *TreeNode) {
	for node != nil {
		if node.balance == 1 || node.balance == -1 {
			return
		}
		oldParent := node.parent
		switch {
		case node.balance == 0:
			if oldParent == &t.base {
				return
			}
			if oldParent.left == node {
				oldParent.balance++
			} else {
				oldParent.balance--
			}
			node = oldParent
		case node.balance == 2:
			oldRight := node.right
			if oldRight.balance >= 0 {
				t.rotateLeft(node)
				node.balance = 1 - oldRight.balance
				oldRight.balance--
				node = oldRight
			} else {
				oldRightLeft := oldRight.left
				t.rotateRight(oldRight)
				t.rotateLeft(node)
				if oldRightLeft.balance <= 0 {
					node.balance = 0
				} else {
					node.balance = -1
				}
				if oldRightLeft.balance >= 0 {
					oldRight.balance = 0
				} else {
					oldRight.balance = 1
				}
				oldRightLeft.balance = 0
				node = oldRightLeft
			}
		default: // -2
			oldLeft := node.left
			if oldLeft.balance <= 0 {
				t.rotateRight(node)
				node.balance = -1 - oldLeft.balance
				oldLeft.balance++
				node = oldLeft
			} else {
				oldLeftRight := oldLeft.right
				t.rotateLeft(oldLeft)
				t.rotateRight(node)
				if oldLeftRight.balance >= 0 {
					node.balance = 0
				} else {
					node.balance = 1
				}
				if oldLeftRight.balance <= 0 {
					oldLeft.balance = 0
				} else {
					oldLeft.balance = -1
				}
				oldLeftRight.balance = 0
				node = oldLeftRight
			}
		}
	}
}

// switchPositionWithSuccessor swaps node with its in-order successor,
// including balance factors, in preparation for removing node as a
// leaf or single-child node in the successor's old slot.
func (t *Tree) switchPositionWithSuccessor(node, succ *TreeNode) {
	node.balance, succ.balance = succ.balance, node.balance

	oldParent := node.parent
	oldLeft := node.left
	oldRight := node.right
	oldSuccParent := succ.parent
	oldSuccLeft := succ.left
	oldSuccRight := succ.right

	if oldParent != &t.base {
		if oldParent.left == node {
			oldParent.left = succ
		} else {
			oldParent.right = succ
		}
	} else {
		t.setRoot(succ)
	}
	succ.parent = oldParent

	if oldSuccParent != node {
		if oldSuccParent.left == succ {
			oldSuccParent.left = node
		} else {
			oldSuccParent.right = node
		}
		succ.right = oldRight
		node.parent = oldSuccParent
		if oldRight != nil {
			oldRight.parent = succ
		}
	} else {
		succ.right = node
		node.parent = succ
	}

	node.left = oldSuccLeft
	if oldSuccLeft != nil {
		oldSuccLeft.parent = node
	}
	node.right = oldSuccRight
	if oldSuccRight != nil {
		oldSuccRight.parent = node
	}
	succ.left = oldLeft
	if oldLeft != nil {
		oldLeft.parent = succ
	}
}

// Remove unlinks node from the tree. It is a no-op if node is not
// currently linked into any tree.
func (t *Tree) Remove(node *TreeNode) {
	if node.parent == nil {
		return
	}
	if node.left != nil && node.right != nil {
		t.switchPositionWithSuccessor(node, node.Successor())
	}
	oldParent := node.parent
	node.parent = nil
	node.tree = nil
	var child *TreeNode
	if node.left != nil {
		child = node.left
	} else {
		child = node.right
	}
	if child != nil {
		child.parent = oldParent
	}
	if oldParent != &t.base {
		if oldParent.left == node {
			oldParent.left = child
			oldParent.balance++
		} else {
			oldParent.right = child
			oldParent.balance--
		}
		t.balanceAfterDelete(oldParent)
	} else {
		t.setRoot(child)
	}
	node.left = nil
	node.right = nil
	t.count--
}

func (t *Tree) findInsertPos(node *TreeNode, comp Comparator) *TreeNode {
	result := t.root
	for result != nil {
		c := comp(node, result)
		if c < 0 {
			if result.left != nil {
				result = result.left
			} else {
				return result
			}
		} else {
			if result.right != nil {
				result = result.right
			} else {
				return result
			}
		}
	}
	return result
}

// Add inserts node using the tree's default comparator. Duplicates
// (comparator result 0) land on the right side of the equal chain.
// If node is already linked into a tree, it is removed first.
func (t *Tree) Add(node *TreeNode) {
	t.AddWith(node, t.comp)
}

// AddWith inserts node using an explicit comparator, overriding the
// tree's default for this call only.
func (t *Tree) AddWith(node *TreeNode, comp Comparator) {
	if node.parent != nil {
		node.Remove()
	}
	node.left = nil
	node.right = nil
	node.balance = 0
	node.tree = t
	t.count++
	if t.root != nil {
		insertPos := t.findInsertPos(node, comp)
		c := comp(node, insertPos)
		node.parent = insertPos
		if c < 0 {
			insertPos.left = node
		} else {
			insertPos.right = node
		}
		t.balanceAfterInsert(node)
	} else {
		t.setRoot(node)
	}
}

// FindNearest walks the tree toward key and returns either the exact
// match, or the last node visited before falling off a leaf (useful
// as a starting point for range operations when no exact match
// exists).
func (t *Tree) FindNearest(key *TreeNode, comp Comparator) *TreeNode {
	result := t.root
	for result != nil {
		c := comp(key, result)
		if c == 0 {
			return result
		}
		if c < 0 {
			if result.left != nil {
				result = result.left
			} else {
				return result
			}
		} else {
			if result.right != nil {
				result = result.right
			} else {
				return result
			}
		}
	}
	return result
}

// Find returns the exact-match node for key, or nil.
func (t *Tree) Find(key *TreeNode, comp Comparator) *TreeNode {
	result := t.root
	for result != nil {
		c := comp(key, result)
		if c == 0 {
			return result
		}
		if c < 0 {
			result = result.left
		} else {
			result = result.right
		}
	}
	return nil
}

// FindOrAdd looks for a node equal to node under comp. If found, it is
// returned unchanged and added is false. Otherwise node is inserted,
// existing is nil, and added is true.
func (t *Tree) FindOrAdd(node *TreeNode, comp Comparator) (existing *TreeNode, added bool) {
	if t.root != nil {
		insertPos := t.root
		var c int
		for insertPos != nil {
			c = comp(node, insertPos)
			if c < 0 {
				if insertPos.left != nil {
					insertPos = insertPos.left
					continue
				}
				break
			}
			if c == 0 {
				return insertPos, false
			}
			if insertPos.right != nil {
				insertPos = insertPos.right
				continue
			}
			break
		}
		c = comp(node, insertPos)
		node.balance = 0
		node.left = nil
		node.right = nil
		node.tree = t
		node.parent = insertPos
		if c < 0 {
			insertPos.left = node
		} else {
			insertPos.right = node
		}
		t.balanceAfterInsert(node)
	} else {
		node.balance = 0
		node.left = nil
		node.right = nil
		node.tree = t
		t.setRoot(node)
	}
	t.count++
	return nil, true
}

// FindLeftmostGE returns the leftmost node with key >= data, or nil.
func (t *Tree) FindLeftmostGE(key *TreeNode, comp Comparator) *TreeNode {
	var result *TreeNode
	node := t.root
	for node != nil {
		if comp(key, node) <= 0 {
			result = node
			node = node.left
		} else {
			node = node.right
		}
	}
	return result
}

// FindRightmostLE returns the rightmost node with key <= data, or nil.
func (t *Tree) FindRightmostLE(key *TreeNode, comp Comparator) *TreeNode {
	var result *TreeNode
	node := t.root
	for node != nil {
		if comp(key, node) < 0 {
			node = node.left
		} else {
			result = node
			node = node.right
		}
	}
	return result
}

// FindLeftmostEQ returns the leftmost node equal to data, or nil.
func (t *Tree) FindLeftmostEQ(key *TreeNode, comp Comparator) *TreeNode {
	var result *TreeNode
	node := t.root
	for node != nil {
		n := comp(key, node)
		if n <= 0 {
			if n == 0 {
				result = node
			}
			node = node.left
		} else {
			node = node.right
		}
	}
	return result
}

// FindRightmostEQ returns the rightmost node equal to data, or nil.
func (t *Tree) FindRightmostEQ(key *TreeNode, comp Comparator) *TreeNode {
	var result *TreeNode
	node := t.root
	for node != nil {
		n := comp(key, node)
		if n < 0 {
			node = node.left
		} else {
			if n == 0 {
				result = node
			}
			node = node.right
		}
	}
	return result
}

// ForEach runs fn over every node in post-order. Safe with respect to
// fn mutating node fields, but not with respect to fn removing nodes
// from this tree mid-traversal.
func (t *Tree) ForEach(fn func(*TreeNode)) {
	var walk func(*TreeNode)
	walk = func(node *TreeNode) {
		if node.left != nil {
			walk(node.left)
		}
		if node.right != nil {
			walk(node.right)
		}
		fn(node)
	}
	if t.root != nil {
		walk(t.root)
	}
}

// Iterate calls fn for every node in ascending (or, if backward is
// true, descending) order. fn may return false to stop early. The
// walk is robust to fn removing the *current* node, because the next
// node is captured before fn runs.
func (t *Tree) Iterate(backward bool, fn func(*TreeNode) bool) {
	var node *TreeNode
	if backward {
		node = t.Rightmost()
	} else {
		node = t.Leftmost()
	}
	for node != nil {
		var next *TreeNode
		if backward {
			next = node.Predecessor()
		} else {
			next = node.Successor()
		}
		if !fn(node) {
			return
		}
		node = next
	}
}
