// Package scene holds the scene graph store: an arena of nodes addressed by
// stable ids, plus the scene-wide background, environment and lights.
package scene

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrInvalidNode = errors.New("scene: invalid or released node id")
	ErrRemoveRoot  = errors.New("scene: the root node cannot be removed")
)

// NodeID addresses a node in a Graph. The generation makes ids of released
// nodes detectable after their slot has been reused.
type NodeID struct {
	index int32
	gen   uint32
}

// Nil is the id of no node.
var Nil = NodeID{index: -1}

func (id NodeID) IsNil() bool {
	return id.index < 0
}

type slot struct {
	node Node
	gen  uint32
	live bool
}

// Graph is an arena of nodes. Slots are heap allocated individually so that
// *Node pointers stay valid while other nodes are added or removed.
type Graph struct {
	slots []*slot
	free  []int32
	root  NodeID
	count int
}

func NewGraph() *Graph {
	g := &Graph{}
	g.root = g.alloc(Node{
		Name:      "Scene",
		Transform: IdentityTransform(),
		parent:    Nil,
	})
	return g
}

func (g *Graph) Root() NodeID {
	return g.root
}

// Len returns the number of live nodes, root included.
func (g *Graph) Len() int {
	return g.count
}

func (g *Graph) alloc(n Node) NodeID {
	g.count++
	if len(g.free) > 0 {
		idx := g.free[len(g.free)-1]
		g.free = g.free[:len(g.free)-1]
		s := g.slots[idx]
		s.gen++
		s.node = n
		s.live = true
		return NodeID{index: idx, gen: s.gen}
	}
	g.slots = append(g.slots, &slot{node: n, live: true})
	return NodeID{index: int32(len(g.slots) - 1)}
}

func (g *Graph) lookup(id NodeID) *slot {
	if id.index < 0 || int(id.index) >= len(g.slots) {
		return nil
	}
	s := g.slots[id.index]
	if !s.live || s.gen != id.gen {
		return nil
	}
	return s
}

// Valid reports whether id refers to a live node.
func (g *Graph) Valid(id NodeID) bool {
	return g.lookup(id) != nil
}

// Node returns the node for id, or nil if id is stale.
func (g *Graph) Node(id NodeID) *Node {
	s := g.lookup(id)
	if s == nil {
		return nil
	}
	return &s.node
}

// Add inserts n as the last child of parent.
func (g *Graph) Add(parent NodeID, n Node) (NodeID, error) {
	p := g.lookup(parent)
	if p == nil {
		return Nil, ErrInvalidNode
	}
	if n.Transform == (Transform{}) {
		n.Transform = IdentityTransform()
	}
	n.parent = parent
	n.children = nil
	id := g.alloc(n)
	p.node.children = append(p.node.children, id)
	return id, nil
}

// Remove detaches id from its parent and releases it together with all of
// its descendants.
func (g *Graph) Remove(id NodeID) error {
	if id == g.root {
		return ErrRemoveRoot
	}
	s := g.lookup(id)
	if s == nil {
		return ErrInvalidNode
	}
	if p := g.lookup(s.node.parent); p != nil {
		kids := p.node.children
		for i, c := range kids {
			if c == id {
				p.node.children = append(kids[:i], kids[i+1:]...)
				break
			}
		}
	}
	g.release(id)
	return nil
}

func (g *Graph) release(id NodeID) {
	s := g.lookup(id)
	if s == nil {
		return
	}
	for _, c := range s.node.children {
		g.release(c)
	}
	s.live = false
	s.node = Node{}
	g.free = append(g.free, id.index)
	g.count--
}

// Parent returns the parent of id, or Nil for the root and stale ids.
func (g *Graph) Parent(id NodeID) NodeID {
	s := g.lookup(id)
	if s == nil {
		return Nil
	}
	return s.node.parent
}

// Children returns a copy of the child ids of id.
func (g *Graph) Children(id NodeID) []NodeID {
	s := g.lookup(id)
	if s == nil {
		return nil
	}
	out := make([]NodeID, len(s.node.children))
	copy(out, s.node.children)
	return out
}

// Traverse visits every node reachable from the root exactly once, parents
// before children, siblings in insertion order. The visitor may mutate node
// fields but must not add or remove nodes.
func (g *Graph) Traverse(visit func(NodeID, *Node)) {
	g.TraverseFrom(g.root, visit)
}

// TraverseFrom is Traverse restricted to the subtree rooted at start.
func (g *Graph) TraverseFrom(start NodeID, visit func(NodeID, *Node)) {
	if g.lookup(start) == nil {
		return
	}
	stack := []NodeID{start}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		s := g.lookup(id)
		if s == nil {
			continue
		}
		visit(id, &s.node)
		for i := len(s.node.children) - 1; i >= 0; i-- {
			stack = append(stack, s.node.children[i])
		}
	}
}

// Nodes returns the ids of all reachable nodes in traversal order.
func (g *Graph) Nodes() []NodeID {
	ids := make([]NodeID, 0, g.count)
	g.Traverse(func(id NodeID, _ *Node) {
		ids = append(ids, id)
	})
	return ids
}

// WorldMatrix composes the local transforms from the root down to id.
func (g *Graph) WorldMatrix(id NodeID) mgl32.Mat4 {
	s := g.lookup(id)
	if s == nil {
		return mgl32.Ident4()
	}
	local := s.node.Transform.Matrix()
	if s.node.parent.IsNil() {
		return local
	}
	return g.WorldMatrix(s.node.parent).Mul4(local)
}

// Find returns the first node named name in traversal order.
func (g *Graph) Find(name string) NodeID {
	found := Nil
	g.Traverse(func(id NodeID, n *Node) {
		if found.IsNil() && n.Name == name {
			found = id
		}
	})
	return found
}
