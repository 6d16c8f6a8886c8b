package renderer

import (
	"RealisticRender/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

type drawItem struct {
	id    scene.NodeID
	node  *scene.Node
	world mgl32.Mat4
}

type drawList struct {
	items  []drawItem
	culled int
}

// collectDrawables walks the graph once and returns every visible mesh with
// its world matrix. A hidden node hides its whole subtree. When frustum is
// non-nil, meshes whose bounding sphere lies outside it are skipped.
func collectDrawables(g *scene.Graph, frustum *Frustum) drawList {
	var list drawList
	worlds := make(map[scene.NodeID]mgl32.Mat4, g.Len())
	hidden := make(map[scene.NodeID]bool)

	g.Traverse(func(id scene.NodeID, n *scene.Node) {
		parent := g.Parent(id)
		world := n.Transform.Matrix()
		if !parent.IsNil() {
			world = worlds[parent].Mul4(world)
			if hidden[parent] {
				hidden[id] = true
			}
		}
		worlds[id] = world
		if n.Hidden {
			hidden[id] = true
		}
		if hidden[id] || !n.IsMesh() {
			return
		}
		if frustum != nil {
			center, radius := worldBounds(n.Geometry, world)
			if !frustum.IntersectsSphere(center, radius) {
				list.culled++
				return
			}
		}
		list.items = append(list.items, drawItem{id: id, node: n, world: world})
	})
	return list
}

// worldBounds transforms a geometry's bounding sphere by world, scaling the
// radius by the largest axis scale.
func worldBounds(geo *scene.Geometry, world mgl32.Mat4) (mgl32.Vec3, float32) {
	center := mgl32.TransformCoordinate(geo.BoundsCenter, world)
	sx := world.Col(0).Vec3().Len()
	sy := world.Col(1).Vec3().Len()
	sz := world.Col(2).Vec3().Len()
	s := sx
	if sy > s {
		s = sy
	}
	if sz > s {
		s = sz
	}
	return center, geo.BoundsRadius * s
}
