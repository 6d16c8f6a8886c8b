package loader

import (
	"bytes"
	"fmt"
	"image"

	"RealisticRender/internal/logger"
	"RealisticRender/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"
)

const unlitExtension = "KHR_materials_unlit"

// LoadModel reads a .glb or .gltf file into a detached subtree. The subtree
// root is a group standing for the file's default scene; glTF nodes hang
// below it with their own TRS. A malformed file is an AssetLoadError, never
// a panic.
func LoadModel(root, path string) (st *scene.Subtree, err error) {
	full := resolve(root, path)
	defer func() {
		if r := recover(); r != nil {
			st, err = nil, &AssetLoadError{Kind: KindModel, Path: full, Err: fmt.Errorf("malformed model: %v", r)}
		}
	}()
	doc, err := gltf.Open(full)
	if err != nil {
		return nil, &AssetLoadError{Kind: KindModel, Path: full, Err: err}
	}
	st, err = buildSubtree(doc)
	if err != nil {
		return nil, &AssetLoadError{Kind: KindModel, Path: full, Err: err}
	}
	logger.Log.Info("Model loaded",
		zap.String("path", full),
		zap.Int("nodes", len(st.Nodes)),
		zap.Int("meshes", len(doc.Meshes)),
		zap.Int("materials", len(doc.Materials)))
	return st, nil
}

type modelBuilder struct {
	doc       *gltf.Document
	textures  []*scene.Texture
	materials []*scene.Material
	meshes    [][]primitive
	fallback  *scene.Material
	out       *scene.Subtree
}

type primitive struct {
	geometry *scene.Geometry
	material *scene.Material
}

func buildSubtree(doc *gltf.Document) (*scene.Subtree, error) {
	b := &modelBuilder{doc: doc, out: &scene.Subtree{}}
	b.loadTextures()
	b.loadMaterials()
	if err := b.loadMeshes(); err != nil {
		return nil, err
	}

	b.out.Nodes = append(b.out.Nodes, scene.SubtreeNode{
		Node:   scene.Node{Name: "Scene", Transform: scene.IdentityTransform()},
		Parent: -1,
	})
	visited := make([]bool, len(doc.Nodes))
	for _, idx := range sceneRoots(doc) {
		if err := b.addNode(idx, 0, visited); err != nil {
			return nil, err
		}
	}
	return b.out, nil
}

// sceneRoots lists the top-level nodes of the default scene, or every
// parentless node when the file names no scene.
func sceneRoots(doc *gltf.Document) []int {
	if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
		return doc.Scenes[*doc.Scene].Nodes
	}
	if len(doc.Scenes) == 1 {
		return doc.Scenes[0].Nodes
	}
	hasParent := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if c >= 0 && c < len(hasParent) {
				hasParent[c] = true
			}
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !hasParent[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

func (b *modelBuilder) loadTextures() {
	b.textures = make([]*scene.Texture, len(b.doc.Textures))
	for i, gt := range b.doc.Textures {
		if gt.Source == nil || *gt.Source < 0 || *gt.Source >= len(b.doc.Images) {
			continue
		}
		img := b.doc.Images[*gt.Source]
		if img.BufferView == nil {
			logger.Log.Warn("Skipping texture without embedded image", zap.Int("texture", i), zap.String("uri", img.URI))
			continue
		}
		bv, err := b.bufferView(*img.BufferView)
		if err != nil {
			logger.Log.Warn("Texture buffer view invalid", zap.Int("texture", i), zap.Error(err))
			continue
		}
		raw, err := modeler.ReadBufferView(b.doc, bv)
		if err != nil {
			logger.Log.Warn("Texture buffer view unreadable", zap.Int("texture", i), zap.Error(err))
			continue
		}
		decoded, _, err := image.Decode(bytes.NewReader(raw))
		if err != nil {
			logger.Log.Warn("Texture decode failed", zap.Int("texture", i), zap.Error(err))
			continue
		}
		name := img.Name
		if name == "" {
			name = fmt.Sprintf("texture_%d", i)
		}
		b.textures[i] = &scene.Texture{Name: name, Image: toRGBA(decoded)}
	}
}

func (b *modelBuilder) texture(idx int) *scene.Texture {
	if idx < 0 || idx >= len(b.textures) {
		return nil
	}
	return b.textures[idx]
}

func (b *modelBuilder) loadMaterials() {
	b.materials = make([]*scene.Material, len(b.doc.Materials))
	for i, gm := range b.doc.Materials {
		var mat *scene.Material
		if _, unlit := gm.Extensions[unlitExtension]; unlit {
			mat = scene.NewBasicMaterial(gm.Name)
		} else {
			mat = scene.NewStandardMaterial(gm.Name)
		}
		mat.DoubleSided = gm.DoubleSided
		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			cf := pbr.BaseColorFactorOrDefault()
			mat.Color = mgl32.Vec3{float32(cf[0]), float32(cf[1]), float32(cf[2])}
			mat.Opacity = float32(cf[3])
			if mat.IsStandard() {
				mat.Metallic = float32(pbr.MetallicFactorOrDefault())
				mat.Roughness = float32(pbr.RoughnessFactorOrDefault())
			}
			if pbr.BaseColorTexture != nil {
				if tex := b.texture(pbr.BaseColorTexture.Index); tex != nil {
					// Base color is authored in sRGB.
					tex.SRGB = true
					mat.Map = tex
				}
			}
		}
		b.materials[i] = mat
	}
}

// material returns the glTF material at idx, or the shared default standard
// material glTF prescribes for primitives without one.
func (b *modelBuilder) material(idx *int) *scene.Material {
	if idx != nil && *idx >= 0 && *idx < len(b.materials) {
		return b.materials[*idx]
	}
	if b.fallback == nil {
		b.fallback = scene.NewStandardMaterial("default")
	}
	return b.fallback
}

func (b *modelBuilder) loadMeshes() error {
	b.meshes = make([][]primitive, len(b.doc.Meshes))
	for mi, gm := range b.doc.Meshes {
		for pi, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				logger.Log.Warn("Skipping non-triangle primitive",
					zap.String("mesh", gm.Name), zap.Int("primitive", pi))
				continue
			}
			geo, err := b.readPrimitive(gm.Name, pi, prim)
			if err != nil {
				return fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}
			b.meshes[mi] = append(b.meshes[mi], primitive{geometry: geo, material: b.material(prim.Material)})
		}
	}
	return nil
}

func (b *modelBuilder) readPrimitive(meshName string, idx int, prim *gltf.Primitive) (*scene.Geometry, error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	acr, err := b.accessor(posIdx)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}
	raw, err := modeler.ReadPosition(b.doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}
	positions := make([]mgl32.Vec3, len(raw))
	for i, p := range raw {
		positions[i] = mgl32.Vec3(p)
	}

	var normals []mgl32.Vec3
	if ni, ok := prim.Attributes[gltf.NORMAL]; ok {
		acr, err := b.accessor(ni)
		if err != nil {
			return nil, fmt.Errorf("normals: %w", err)
		}
		rn, err := modeler.ReadNormal(b.doc, acr, nil)
		if err != nil {
			return nil, fmt.Errorf("normals: %w", err)
		}
		normals = make([]mgl32.Vec3, len(rn))
		for i, n := range rn {
			normals[i] = mgl32.Vec3(n)
		}
	}

	var uvs []mgl32.Vec2
	if ti, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		acr, err := b.accessor(ti)
		if err != nil {
			return nil, fmt.Errorf("uvs: %w", err)
		}
		rt, err := modeler.ReadTextureCoord(b.doc, acr, nil)
		if err != nil {
			return nil, fmt.Errorf("uvs: %w", err)
		}
		uvs = make([]mgl32.Vec2, len(rt))
		for i, uv := range rt {
			uvs[i] = mgl32.Vec2(uv)
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		acr, err := b.accessor(*prim.Indices)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
		indices, err = modeler.ReadIndices(b.doc, acr, nil)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	}

	name := fmt.Sprintf("%s_p%d", meshName, idx)
	return scene.NewGeometry(name, positions, normals, uvs, indices), nil
}

// accessor returns accessor idx after checking that it and the buffer
// view behind it exist. Indices come straight from the file.
func (b *modelBuilder) accessor(idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(b.doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range (%d accessors)", idx, len(b.doc.Accessors))
	}
	acr := b.doc.Accessors[idx]
	if acr == nil {
		return nil, fmt.Errorf("accessor %d is empty", idx)
	}
	if acr.BufferView != nil {
		if _, err := b.bufferView(*acr.BufferView); err != nil {
			return nil, fmt.Errorf("accessor %d: %w", idx, err)
		}
	}
	return acr, nil
}

func (b *modelBuilder) bufferView(idx int) (*gltf.BufferView, error) {
	if idx < 0 || idx >= len(b.doc.BufferViews) {
		return nil, fmt.Errorf("buffer view %d out of range (%d views)", idx, len(b.doc.BufferViews))
	}
	bv := b.doc.BufferViews[idx]
	if bv == nil {
		return nil, fmt.Errorf("buffer view %d is empty", idx)
	}
	if bv.Buffer < 0 || bv.Buffer >= len(b.doc.Buffers) {
		return nil, fmt.Errorf("buffer view %d names buffer %d of %d", idx, bv.Buffer, len(b.doc.Buffers))
	}
	return bv, nil
}

// addNode appends glTF node idx and its descendants under parent. A mesh
// with several primitives becomes one child node per primitive.
func (b *modelBuilder) addNode(idx, parent int, visited []bool) error {
	if idx < 0 || idx >= len(b.doc.Nodes) {
		return fmt.Errorf("node index %d out of range", idx)
	}
	if visited[idx] {
		return fmt.Errorf("node %d is reachable twice", idx)
	}
	visited[idx] = true

	gn := b.doc.Nodes[idx]
	name := gn.Name
	if name == "" {
		name = fmt.Sprintf("node_%d", idx)
	}
	node := scene.Node{Name: name, Transform: nodeTransform(gn)}

	var prims []primitive
	if gn.Mesh != nil && *gn.Mesh >= 0 && *gn.Mesh < len(b.meshes) {
		prims = b.meshes[*gn.Mesh]
	}
	if len(prims) == 1 {
		node.Geometry = prims[0].geometry
		node.Material = prims[0].material
	}

	self := len(b.out.Nodes)
	b.out.Nodes = append(b.out.Nodes, scene.SubtreeNode{Node: node, Parent: parent})

	if len(prims) > 1 {
		for pi, p := range prims {
			b.out.Nodes = append(b.out.Nodes, scene.SubtreeNode{
				Node: scene.Node{
					Name:      fmt.Sprintf("%s_prim%d", name, pi),
					Transform: scene.IdentityTransform(),
					Geometry:  p.geometry,
					Material:  p.material,
				},
				Parent: self,
			})
		}
	}
	for _, c := range gn.Children {
		if err := b.addNode(c, self, visited); err != nil {
			return err
		}
	}
	return nil
}

func nodeTransform(gn *gltf.Node) scene.Transform {
	t := gn.TranslationOrDefault()
	s := gn.ScaleOrDefault()
	r := gn.RotationOrDefault() // x, y, z, w
	q := mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}
	return scene.Transform{
		Position: mgl32.Vec3{float32(t[0]), float32(t[1]), float32(t[2])},
		Rotation: scene.EulerFromQuat(q),
		Scale:    mgl32.Vec3{float32(s[0]), float32(s[1]), float32(s[2])},
	}
}
