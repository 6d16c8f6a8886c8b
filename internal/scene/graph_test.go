package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGraphHasRoot(t *testing.T) {
	g := NewGraph()

	require.True(t, g.Valid(g.Root()))
	assert.Equal(t, 1, g.Len())
	assert.Equal(t, Nil, g.Parent(g.Root()))
}

func TestAddRejectsStaleParent(t *testing.T) {
	g := NewGraph()
	id, err := g.Add(g.Root(), Node{Name: "a"})
	require.NoError(t, err)
	require.NoError(t, g.Remove(id))

	_, err = g.Add(id, Node{Name: "b"})
	assert.ErrorIs(t, err, ErrInvalidNode)
}

func TestAddDefaultsTransform(t *testing.T) {
	g := NewGraph()
	id, err := g.Add(g.Root(), Node{Name: "a"})
	require.NoError(t, err)

	assert.Equal(t, mgl32.Vec3{1, 1, 1}, g.Node(id).Transform.Scale)
}

func TestTraversePreOrder(t *testing.T) {
	g := NewGraph()
	a, _ := g.Add(g.Root(), Node{Name: "a"})
	b, _ := g.Add(g.Root(), Node{Name: "b"})
	_, _ = g.Add(a, Node{Name: "a1"})
	_, _ = g.Add(a, Node{Name: "a2"})
	_, _ = g.Add(b, Node{Name: "b1"})

	var names []string
	g.Traverse(func(_ NodeID, n *Node) {
		names = append(names, n.Name)
	})

	assert.Equal(t, []string{"Scene", "a", "a1", "a2", "b", "b1"}, names)
}

func TestTraverseVisitsEachNodeOnce(t *testing.T) {
	g := NewGraph()
	parent := g.Root()
	for i := 0; i < 50; i++ {
		id, err := g.Add(parent, Node{})
		require.NoError(t, err)
		if i%3 == 0 {
			parent = id
		}
	}

	seen := map[NodeID]int{}
	g.Traverse(func(id NodeID, _ *Node) {
		seen[id]++
	})

	assert.Len(t, seen, g.Len())
	for id, n := range seen {
		assert.Equal(t, 1, n, "node %v visited %d times", id, n)
	}
}

func TestRemoveReleasesSubtree(t *testing.T) {
	g := NewGraph()
	a, _ := g.Add(g.Root(), Node{Name: "a"})
	a1, _ := g.Add(a, Node{Name: "a1"})
	a11, _ := g.Add(a1, Node{Name: "a11"})
	b, _ := g.Add(g.Root(), Node{Name: "b"})

	require.NoError(t, g.Remove(a))

	assert.False(t, g.Valid(a))
	assert.False(t, g.Valid(a1))
	assert.False(t, g.Valid(a11))
	assert.True(t, g.Valid(b))
	assert.Equal(t, 2, g.Len())
	assert.Equal(t, []NodeID{b}, g.Children(g.Root()))
}

func TestRemoveRoot(t *testing.T) {
	g := NewGraph()
	assert.ErrorIs(t, g.Remove(g.Root()), ErrRemoveRoot)
}

func TestReusedSlotInvalidatesOldID(t *testing.T) {
	g := NewGraph()
	old, _ := g.Add(g.Root(), Node{Name: "old"})
	require.NoError(t, g.Remove(old))

	fresh, err := g.Add(g.Root(), Node{Name: "fresh"})
	require.NoError(t, err)

	assert.Nil(t, g.Node(old))
	assert.Equal(t, "fresh", g.Node(fresh).Name)
}

func TestNodePointersSurviveGrowth(t *testing.T) {
	g := NewGraph()
	id, _ := g.Add(g.Root(), Node{Name: "first"})
	p := &g.Node(id).Transform.Rotation[1]

	for i := 0; i < 1000; i++ {
		_, _ = g.Add(g.Root(), Node{})
	}
	*p = 1.5

	assert.Equal(t, float32(1.5), g.Node(id).Transform.Rotation.Y())
}

func TestWorldMatrixComposesParents(t *testing.T) {
	g := NewGraph()
	parent, _ := g.Add(g.Root(), Node{Transform: Transform{
		Position: mgl32.Vec3{0, -1, 0},
		Scale:    mgl32.Vec3{0.5, 0.5, 0.5},
	}})
	child, _ := g.Add(parent, Node{Transform: Transform{
		Position: mgl32.Vec3{2, 0, 0},
		Scale:    mgl32.Vec3{1, 1, 1},
	}})

	world := g.WorldMatrix(child).Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()

	assert.InDelta(t, 1.0, world.X(), 1e-6)
	assert.InDelta(t, -1.0, world.Y(), 1e-6)
	assert.InDelta(t, 0.0, world.Z(), 1e-6)
}

func TestTransformYawRotation(t *testing.T) {
	tr := IdentityTransform()
	tr.Rotation[1] = math.Pi / 2

	v := tr.Matrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()

	assert.InDelta(t, 0.0, v.X(), 1e-6)
	assert.InDelta(t, -1.0, v.Z(), 1e-6)
}

func TestEulerFromQuatRoundTrip(t *testing.T) {
	q := mgl32.QuatRotate(float32(3*math.Pi/4), mgl32.Vec3{0, 1, 0})

	e := EulerFromQuat(q)
	m := Transform{Rotation: e, Scale: mgl32.Vec3{1, 1, 1}}.RotationMatrix()

	assert.True(t, m.ApproxEqualThreshold(q.Mat4(), 1e-5), "got %v want %v", m, q.Mat4())
}

func TestFind(t *testing.T) {
	g := NewGraph()
	a, _ := g.Add(g.Root(), Node{Name: "bun"})

	assert.Equal(t, a, g.Find("bun"))
	assert.True(t, g.Find("patty").IsNil())
}
