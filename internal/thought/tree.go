// Package thought implements the hierarchical decomposition tree an agent
// run explores: one root thought seeded from the initial task, grown
// monotonically as completed thoughts spawn children, and walked
// depth-first with the most recently added subtree first.
package thought

import (
	"fmt"

	"github.com/zero-day-ai/wintermute/internal/types"
)

// NoParent is passed to Add to create the root thought.
const NoParent = -1

// Thought is a single node in the tree. Parent and Children are indices
// into the owning Tree's node arena; Parent is a non-owning back-reference
// (NoParent for the root).
type Thought struct {
	Name     string
	Parent   int
	Children []int
	Explored bool
}

// IsLeaf reports whether the thought has no children.
func (th Thought) IsLeaf() bool {
	return len(th.Children) == 0
}

// Tree owns at most one root thought and every node spawned beneath it.
// Nodes live in a flat arena addressed by index, are never removed, and
// the Explored flag on each is set at most once. The tree is exclusively
// owned by the driver loop and is not safe for concurrent use.
type Tree struct {
	nodes []Thought
	root  int
}

// New creates an empty tree.
func New() *Tree {
	return &Tree{root: NoParent}
}

// Len returns the number of thoughts in the tree.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Root returns the root index, or false if the tree is empty.
func (t *Tree) Root() (int, bool) {
	if t.root == NoParent {
		return 0, false
	}
	return t.root, true
}

// Node returns a copy of the thought at the given index.
func (t *Tree) Node(idx int) (Thought, error) {
	if idx < 0 || idx >= len(t.nodes) {
		return Thought{}, types.NewError(types.THOUGHT_NOT_FOUND,
			fmt.Sprintf("no thought at index %d", idx))
	}
	return t.nodes[idx], nil
}

// Add creates a thought and links it as the last child of parent, or as
// the root when parent is NoParent. Only one root may ever exist. Returns
// the new thought's index.
func (t *Tree) Add(name string, parent int) (int, error) {
	if parent == NoParent {
		if t.root != NoParent {
			return 0, types.NewError(types.THOUGHT_TREE_HAS_ROOT,
				"tree already has a root thought")
		}
		t.nodes = append(t.nodes, Thought{Name: name, Parent: NoParent})
		t.root = len(t.nodes) - 1
		return t.root, nil
	}

	if parent < 0 || parent >= len(t.nodes) {
		return 0, types.NewError(types.THOUGHT_NOT_FOUND,
			fmt.Sprintf("no parent thought at index %d", parent))
	}

	t.nodes = append(t.nodes, Thought{Name: name, Parent: parent})
	idx := len(t.nodes) - 1
	t.nodes[parent].Children = append(t.nodes[parent].Children, idx)
	return idx, nil
}

// NextUnexplored selects the next leaf to explore: depth-first with the
// most recently added subtree first, skipping leaves already explored.
// Returns false when the tree is empty or no unexplored leaf remains,
// which is the run's termination signal.
func (t *Tree) NextUnexplored() (int, bool) {
	if t.root == NoParent {
		return 0, false
	}

	// Explicit stack; children are pushed in insertion order so the
	// last-added child is popped first, mirroring a call stack.
	stack := []int{t.root}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := t.nodes[idx]
		if !node.IsLeaf() {
			stack = append(stack, node.Children...)
			continue
		}
		if !node.Explored {
			return idx, true
		}
	}

	return 0, false
}

// MarkExplored flags the thought at idx as explored. Called exactly once
// per thought, after its execution completes.
func (t *Tree) MarkExplored(idx int) error {
	if idx < 0 || idx >= len(t.nodes) {
		return types.NewError(types.THOUGHT_NOT_FOUND,
			fmt.Sprintf("no thought at index %d", idx))
	}
	t.nodes[idx].Explored = true
	return nil
}

// Walk visits every thought in depth-first pre-order (first-added child
// first, the natural reading order) with its depth, using an explicit
// stack. Returning false from fn stops the walk.
func (t *Tree) Walk(fn func(idx, depth int, th Thought) bool) {
	if t.root == NoParent {
		return
	}

	type frame struct {
		idx   int
		depth int
	}
	stack := []frame{{idx: t.root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := t.nodes[f.idx]
		if !fn(f.idx, f.depth, node) {
			return
		}

		// Push children in reverse so the first-added child is
		// visited first.
		for i := len(node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{idx: node.Children[i], depth: f.depth + 1})
		}
	}
}
