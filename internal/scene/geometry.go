package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Geometry is indexed triangle data in model space.
type Geometry struct {
	Name      string
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Indices   []uint32

	// Bounding sphere in model space, used for frustum culling.
	BoundsCenter mgl32.Vec3
	BoundsRadius float32
}

// NewGeometry builds a geometry and computes its bounding sphere. Missing
// normals are computed from the triangles; missing indices are generated.
func NewGeometry(name string, positions, normals []mgl32.Vec3, uvs []mgl32.Vec2, indices []uint32) *Geometry {
	g := &Geometry{
		Name:      name,
		Positions: positions,
		Normals:   normals,
		UVs:       uvs,
		Indices:   indices,
	}
	if len(g.Indices) == 0 {
		g.Indices = make([]uint32, len(positions))
		for i := range g.Indices {
			g.Indices[i] = uint32(i)
		}
	}
	if len(g.Normals) != len(g.Positions) {
		g.computeNormals()
	}
	g.computeBounds()
	return g
}

func (g *Geometry) computeBounds() {
	if len(g.Positions) == 0 {
		return
	}
	lo, hi := g.Positions[0], g.Positions[0]
	for _, p := range g.Positions[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = float32(math.Min(float64(lo[i]), float64(p[i])))
			hi[i] = float32(math.Max(float64(hi[i]), float64(p[i])))
		}
	}
	g.BoundsCenter = lo.Add(hi).Mul(0.5)
	var r2 float32
	for _, p := range g.Positions {
		if d := p.Sub(g.BoundsCenter).LenSqr(); d > r2 {
			r2 = d
		}
	}
	g.BoundsRadius = float32(math.Sqrt(float64(r2)))
}

func (g *Geometry) computeNormals() {
	normals := make([]mgl32.Vec3, len(g.Positions))
	for i := 0; i+2 < len(g.Indices); i += 3 {
		a, b, c := g.Indices[i], g.Indices[i+1], g.Indices[i+2]
		if int(a) >= len(g.Positions) || int(b) >= len(g.Positions) || int(c) >= len(g.Positions) {
			continue
		}
		pa, pb, pc := g.Positions[a], g.Positions[b], g.Positions[c]
		n := pb.Sub(pa).Cross(pc.Sub(pa))
		normals[a] = normals[a].Add(n)
		normals[b] = normals[b].Add(n)
		normals[c] = normals[c].Add(n)
	}
	for i, n := range normals {
		if n.Len() > 0 {
			normals[i] = n.Normalize()
		} else {
			normals[i] = mgl32.Vec3{0, 1, 0}
		}
	}
	g.Normals = normals
}

// Interleaved returns position, uv and normal per vertex (8 floats), the
// layout the renderer uploads.
func (g *Geometry) Interleaved() []float32 {
	data := make([]float32, 0, len(g.Positions)*8)
	for i, p := range g.Positions {
		var uv mgl32.Vec2
		if i < len(g.UVs) {
			uv = g.UVs[i]
		}
		n := mgl32.Vec3{0, 1, 0}
		if i < len(g.Normals) {
			n = g.Normals[i]
		}
		data = append(data, p.X(), p.Y(), p.Z(), uv.X(), uv.Y(), n.X(), n.Y(), n.Z())
	}
	return data
}
