package renderer

import (
	"image"
	"testing"

	"RealisticRender/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToneMappingNamesRoundTrip(t *testing.T) {
	for _, tm := range ToneMappings() {
		parsed, err := ParseToneMapping(tm.String())
		require.NoError(t, err)
		assert.Equal(t, tm, parsed)
	}
	assert.Equal(t, "ACESFilmic", ACESFilmicToneMapping.String())

	_, err := ParseToneMapping("Filmic")
	assert.Error(t, err)
}

func TestShadowMapTypeString(t *testing.T) {
	assert.Equal(t, "PCFSoft", PCFSoftShadowMap.String())
	assert.Equal(t, "ShadowMapType(9)", ShadowMapType(9).String())
}

func TestDrawingBufferSize(t *testing.T) {
	w, h := DrawingBufferSize(800, 600, 2)
	assert.Equal(t, 1600, w)
	assert.Equal(t, 1200, h)

	w, h = DrawingBufferSize(1001, 500, 1.5)
	assert.Equal(t, 1501, w)
	assert.Equal(t, 750, h)
}

func TestRendererSizeAndPixelRatio(t *testing.T) {
	rend := &OpenGLRenderer{settings: DefaultSettings(), pixelRatio: 1}

	rend.SetSize(800, 600)
	rend.SetPixelRatio(2)

	w, h := rend.Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
	assert.Equal(t, float32(2), rend.PixelRatio())

	rend.SetPixelRatio(0)
	assert.Equal(t, float32(1), rend.PixelRatio())
}

func TestSettingsArePersistent(t *testing.T) {
	rend := &OpenGLRenderer{settings: DefaultSettings()}

	rend.Settings().ToneMapping = ReinhardToneMapping
	rend.Settings().ToneMappingExposure = 3

	assert.Equal(t, ReinhardToneMapping, rend.settings.ToneMapping)
	assert.Equal(t, float32(3), rend.settings.ToneMappingExposure)
}

func cube() *scene.Geometry {
	return scene.NewGeometry("tri",
		[]mgl32.Vec3{{-1, -1, 0}, {1, -1, 0}, {0, 1, 0}}, nil, nil, nil)
}

func TestCollectDrawablesComposesWorld(t *testing.T) {
	s := scene.New()
	mat := scene.NewStandardMaterial("m")
	group, _ := s.AddNode(s.Root(), scene.Node{Name: "group", Transform: scene.Transform{
		Position: mgl32.Vec3{0, 2, 0}, Scale: mgl32.Vec3{1, 1, 1},
	}})
	mesh, _ := s.AddNode(group, scene.Node{Name: "mesh", Geometry: cube(), Material: mat, Transform: scene.Transform{
		Position: mgl32.Vec3{1, 0, 0}, Scale: mgl32.Vec3{1, 1, 1},
	}})

	list := collectDrawables(s.Graph, nil)

	require.Len(t, list.items, 1)
	assert.Equal(t, mesh, list.items[0].id)
	origin := mgl32.TransformCoordinate(mgl32.Vec3{}, list.items[0].world)
	assert.True(t, origin.ApproxEqual(mgl32.Vec3{1, 2, 0}), "got %v", origin)
}

func TestCollectDrawablesHiddenSubtree(t *testing.T) {
	s := scene.New()
	mat := scene.NewBasicMaterial("m")
	group, _ := s.AddNode(s.Root(), scene.Node{Name: "group", Hidden: true})
	_, _ = s.AddNode(group, scene.Node{Name: "child", Geometry: cube(), Material: mat})
	_, _ = s.AddNode(s.Root(), scene.Node{Name: "shown", Geometry: cube(), Material: mat})

	list := collectDrawables(s.Graph, nil)

	require.Len(t, list.items, 1)
	assert.Equal(t, "shown", list.items[0].node.Name)
}

func TestCollectDrawablesCullsOutsideFrustum(t *testing.T) {
	s := scene.New()
	mat := scene.NewStandardMaterial("m")
	_, _ = s.AddNode(s.Root(), scene.Node{Name: "front", Geometry: cube(), Material: mat})
	_, _ = s.AddNode(s.Root(), scene.Node{Name: "behind", Geometry: cube(), Material: mat, Transform: scene.Transform{
		Position: mgl32.Vec3{0, 0, 50}, Scale: mgl32.Vec3{1, 1, 1},
	}})
	cam := NewPerspectiveCamera(75, 1, 0.1, 100)
	cam.Position = mgl32.Vec3{0, 0, 5}
	f := cam.CalculateFrustum()

	list := collectDrawables(s.Graph, &f)

	require.Len(t, list.items, 1)
	assert.Equal(t, "front", list.items[0].node.Name)
	assert.Equal(t, 1, list.culled)
}

func TestWorldBoundsScalesRadius(t *testing.T) {
	geo := cube()
	world := mgl32.Translate3D(3, 0, 0).Mul4(mgl32.Scale3D(1, 4, 2))

	center, radius := worldBounds(geo, world)

	assert.InDelta(t, 3+geo.BoundsCenter.X(), center.X(), 1e-5)
	assert.InDelta(t, geo.BoundsRadius*4, radius, 1e-5)
}

func TestUnwindRunsInReverse(t *testing.T) {
	var order []int
	var u Unwind
	u.Add(func() { order = append(order, 1) })
	u.Add(func() { order = append(order, 2) })

	u.Unwind()

	assert.Equal(t, []int{2, 1}, order)
	u.Unwind()
	assert.Len(t, order, 2)
}

func TestUnwindDiscard(t *testing.T) {
	called := false
	var u Unwind
	u.Add(func() { called = true })

	u.Discard()
	u.Unwind()

	assert.False(t, called)
}

func fakeTextureManager() (*TextureManager, *[]uint32) {
	var released []uint32
	next := uint32(0)
	tm := NewTextureManager()
	tm.upload2D = func(*scene.Texture) uint32 { next++; return next }
	tm.uploadCube = func(*scene.EnvironmentTexture) uint32 { next++; return next }
	tm.release = func(id uint32) { released = append(released, id) }
	return tm, &released
}

func TestTextureManagerUploadsOnce(t *testing.T) {
	tm, _ := fakeTextureManager()
	tex := &scene.Texture{Name: "albedo", Image: image.NewRGBA(image.Rect(0, 0, 2, 2))}
	env := &scene.EnvironmentTexture{Size: 4}

	a := tm.Texture(tex)
	b := tm.Texture(tex)
	c := tm.CubeMap(env)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, TextureStats{TotalTextures: 2, CacheHits: 1, CacheMisses: 2}, tm.Stats())
	assert.Zero(t, tm.Texture(nil))
	assert.Zero(t, tm.CubeMap(nil))
}

func TestTextureManagerCleanup(t *testing.T) {
	tm, released := fakeTextureManager()
	tm.Texture(&scene.Texture{Image: image.NewRGBA(image.Rect(0, 0, 1, 1))})
	tm.CubeMap(&scene.EnvironmentTexture{Size: 1})

	tm.Cleanup()

	assert.ElementsMatch(t, []uint32{1, 2}, *released)
	assert.Zero(t, tm.Stats().TotalTextures)
}

func TestMipLevels(t *testing.T) {
	assert.Equal(t, float32(0), mipLevels(1))
	assert.Equal(t, float32(10), mipLevels(1024))
	assert.Equal(t, float32(9), mipLevels(1000))
}

func TestSkyViewDropsTranslation(t *testing.T) {
	view := mgl32.Translate3D(1, 2, 3).Mul4(mgl32.HomogRotate3DY(0.5))

	sky := skyView(view)

	assert.Equal(t, float32(0), sky[12])
	assert.Equal(t, float32(0), sky[13])
	assert.Equal(t, float32(0), sky[14])
	assert.Equal(t, view[0], sky[0])
}
