package demo

import (
	"errors"
	"math"
	"testing"

	"RealisticRender/internal/config"
	"RealisticRender/internal/loader"
	"RealisticRender/internal/renderer"
	"RealisticRender/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chanQueue chan func()

func (q chanQueue) Post(ev func()) { q <- ev }

type fakeRenderer struct {
	settings      renderer.Settings
	width, height int
	ratio         float32
}

func (r *fakeRenderer) SetSize(w, h int)                           { r.width, r.height = w, h }
func (r *fakeRenderer) SetPixelRatio(ratio float32)                { r.ratio = ratio }
func (r *fakeRenderer) Settings() *renderer.Settings               { return &r.settings }
func (r *fakeRenderer) RenderFrame(*scene.Scene, *renderer.Camera) {}

// burger is a model with two standard meshes sharing one material and an
// unlit mesh.
func burger() *scene.Subtree {
	tri := scene.NewGeometry("tri", []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, nil, nil, nil)
	bun := scene.NewStandardMaterial("bun")
	label := scene.NewBasicMaterial("label")
	return &scene.Subtree{Nodes: []scene.SubtreeNode{
		{Node: scene.Node{Name: "Scene", Transform: scene.IdentityTransform()}, Parent: -1},
		{Node: scene.Node{Name: "top", Geometry: tri, Material: bun, Transform: scene.IdentityTransform()}, Parent: 0},
		{Node: scene.Node{Name: "bottom", Geometry: tri, Material: bun, Transform: scene.IdentityTransform()}, Parent: 0},
		{Node: scene.Node{Name: "label", Geometry: tri, Material: label, Transform: scene.IdentityTransform()}, Parent: 1},
	}}
}

type harness struct {
	demo      *Demo
	rend      *fakeRenderer
	queue     chanQueue
	envGate   chan struct{}
	modelGate chan struct{}
}

// newHarness builds the demo with loaders that block until their gate is
// opened, so tests choose the completion order.
func newHarness(t *testing.T, envErr, modelErr error) *harness {
	t.Helper()
	h := &harness{
		rend:      &fakeRenderer{settings: renderer.DefaultSettings()},
		queue:     make(chanQueue, 2),
		envGate:   make(chan struct{}),
		modelGate: make(chan struct{}),
	}
	deps := Deps{
		Queue:    h.queue,
		Renderer: h.rend,
		LoadEnvironment: func(string, [6]string) (*scene.EnvironmentTexture, error) {
			<-h.envGate
			if envErr != nil {
				return nil, envErr
			}
			return &scene.EnvironmentTexture{Size: 16, Encoding: scene.SRGBEncoding}, nil
		},
		LoadModel: func(string, string) (*scene.Subtree, error) {
			<-h.modelGate
			if modelErr != nil {
				return nil, modelErr
			}
			return burger(), nil
		},
	}
	d, err := Build(config.Default(), deps)
	require.NoError(t, err)
	h.demo = d
	return h
}

func (h *harness) completeEnvironment() {
	close(h.envGate)
	(<-h.queue)()
}

func (h *harness) completeModel() {
	close(h.modelGate)
	(<-h.queue)()
}

func bindingNames(d *Demo) []string {
	var names []string
	for _, b := range d.Panel.Bindings() {
		names = append(names, b.Label())
	}
	return names
}

func TestBuildRegistersControlsInOrder(t *testing.T) {
	h := newHarness(t, nil, nil)

	assert.Equal(t, []string{
		"envMapIntensity", "normalBias", "lightIntensity",
		"lightX", "lightY", "lightZ", "toneMapping", "toneMappingExposure",
	}, bindingNames(h.demo))

	env := h.demo.Panel.Lookup("envMapIntensity")
	assert.Equal(t, 0.0, env.Min())
	assert.Equal(t, 10.0, env.Max())
	assert.Equal(t, 0.001, env.StepSize())
	assert.InDelta(t, 0.879, env.Value(), 1e-6)

	bias := h.demo.Panel.Lookup("normalBias")
	assert.Equal(t, 0.05, bias.Max())

	tm := h.demo.Panel.Lookup("toneMapping")
	require.True(t, tm.IsEnum())
	assert.Len(t, tm.Options(), 5)
	assert.Equal(t, "ACESFilmic", tm.Format())
}

func TestBuildConfiguresLightCameraRenderer(t *testing.T) {
	h := newHarness(t, nil, nil)
	d := h.demo

	require.Len(t, d.Scene.Lights, 1)
	l := d.Light
	assert.Equal(t, float32(3), l.Intensity)
	assert.Equal(t, mgl32.Vec3{0.25, 3, -2.25}, l.Position)
	assert.True(t, l.CastShadow)
	assert.Equal(t, float32(12), l.Shadow.Far)
	assert.Equal(t, 1024, l.Shadow.MapWidth)
	assert.Equal(t, float32(0.012), l.Shadow.NormalBias)

	assert.Equal(t, float32(75), d.Camera.Fov)
	assert.Equal(t, mgl32.Vec3{4, 1, -4}, d.Camera.Position)
	assert.True(t, d.Controls.EnableDamping)

	st := h.rend.settings
	assert.True(t, st.PhysicallyCorrectLights)
	assert.Equal(t, scene.SRGBEncoding, st.OutputEncoding)
	assert.Equal(t, renderer.ACESFilmicToneMapping, st.ToneMapping)
	assert.Equal(t, float32(3), st.ToneMappingExposure)
	assert.True(t, st.ShadowMap.Enabled)
	assert.Equal(t, renderer.PCFSoftShadowMap, st.ShadowMap.Type)
	assert.Equal(t, 1280, h.rend.width)
}

func TestModelLoadPostProcessing(t *testing.T) {
	h := newHarness(t, nil, nil)
	d := h.demo

	h.completeModel()

	require.False(t, d.Model.IsNil())
	root := d.Scene.Node(d.Model)
	assert.Equal(t, d.Scene.Root(), d.Scene.Parent(d.Model))
	assert.Equal(t, mgl32.Vec3{0.3, 0.3, 0.3}, root.Transform.Scale)
	assert.Equal(t, mgl32.Vec3{0, -1, 0}, root.Transform.Position)
	assert.InDelta(t, 3*math.Pi/4, root.Transform.Rotation.Y(), 1e-6)

	yaw := d.Panel.Lookup("rotation")
	require.NotNil(t, yaw)
	assert.InDelta(t, -math.Pi, yaw.Min(), 1e-9)
	assert.InDelta(t, math.Pi, yaw.Max(), 1e-9)

	top := d.Scene.Node(d.Scene.Find("top"))
	assert.Equal(t, float32(0.879), top.Material.EnvMapIntensity)
	assert.True(t, top.CastShadow)
	assert.True(t, top.ReceiveShadow)
	label := d.Scene.Node(d.Scene.Find("label"))
	assert.False(t, label.CastShadow, "unlit meshes are left alone")

	yaw.Set(0.5)
	assert.Equal(t, float32(0.5), root.Transform.Rotation.Y())
}

func TestEnvIntensityEditRefreshesMaterials(t *testing.T) {
	h := newHarness(t, nil, nil)
	d := h.demo
	h.completeModel()

	d.Panel.Lookup("envMapIntensity").Set(5.0)

	assert.Equal(t, float32(5), d.Params.EnvMapIntensity)
	d.Scene.Traverse(func(_ scene.NodeID, n *scene.Node) {
		if n.Geometry == nil || !n.Material.IsStandard() {
			return
		}
		assert.Equal(t, float32(5), n.Material.EnvMapIntensity, n.Name)
		assert.True(t, n.CastShadow, n.Name)
		assert.True(t, n.ReceiveShadow, n.Name)
	})
}

// snapshot captures the parts of the scene that asset completion affects.
type snapshot struct {
	hasEnv    bool
	nodes     int
	intensity map[string]float32
	shadows   map[string]bool
	rootScale mgl32.Vec3
	rootYaw   float32
	controls  []string
}

func takeSnapshot(d *Demo) snapshot {
	s := snapshot{
		hasEnv:    d.Scene.Background != nil && d.Scene.Environment == d.Scene.Background,
		nodes:     d.Scene.Len(),
		intensity: map[string]float32{},
		shadows:   map[string]bool{},
		controls:  bindingNames(d),
	}
	d.Scene.Traverse(func(_ scene.NodeID, n *scene.Node) {
		if n.Material != nil {
			s.intensity[n.Name] = n.Material.EnvMapIntensity
		}
		s.shadows[n.Name] = n.CastShadow && n.ReceiveShadow
	})
	if root := d.Scene.Node(d.Model); root != nil {
		s.rootScale = root.Transform.Scale
		s.rootYaw = root.Transform.Rotation.Y()
	}
	return s
}

func TestAssetCompletionOrderIndependent(t *testing.T) {
	envFirst := newHarness(t, nil, nil)
	envFirst.completeEnvironment()
	envFirst.completeModel()

	modelFirst := newHarness(t, nil, nil)
	modelFirst.completeModel()
	modelFirst.completeEnvironment()

	a, b := takeSnapshot(envFirst.demo), takeSnapshot(modelFirst.demo)
	assert.True(t, a.hasEnv)
	assert.Equal(t, a, b)
}

func TestFailedLoadsLeaveSceneWithoutContribution(t *testing.T) {
	loadErr := &loader.AssetLoadError{Kind: loader.KindModel, Path: "/models/hamburger.glb", Err: errors.New("404")}
	h := newHarness(t, errors.New("missing faces"), loadErr)
	d := h.demo
	before := d.Scene.Len()

	h.completeEnvironment()
	h.completeModel()

	assert.Nil(t, d.Scene.Background)
	assert.Nil(t, d.Scene.Environment)
	assert.True(t, d.Model.IsNil())
	assert.Equal(t, before, d.Scene.Len())
	assert.Nil(t, d.Panel.Lookup("rotation"))
}

func TestToneMappingControlEditsRenderer(t *testing.T) {
	h := newHarness(t, nil, nil)

	h.demo.Panel.Lookup("toneMapping").Set(float64(renderer.ReinhardToneMapping))
	h.demo.Panel.Lookup("toneMappingExposure").Set(12)

	assert.Equal(t, renderer.ReinhardToneMapping, h.rend.settings.ToneMapping)
	assert.Equal(t, float32(10), h.rend.settings.ToneMappingExposure)
}

func TestBuildRejectsUnknownToneMapping(t *testing.T) {
	cfg := config.Default()
	cfg.Debug.ToneMapping = "Filmic"

	_, err := Build(cfg, Deps{Queue: make(chanQueue, 2), Renderer: &fakeRenderer{}})

	assert.Error(t, err)
}

func TestApplyDebugRoutesThroughControls(t *testing.T) {
	h := newHarness(t, nil, nil)
	d := h.demo
	h.completeModel()
	dc := config.Default().Debug
	dc.EnvMapIntensity = 4
	dc.LightPosition = [3]float32{1, 9, -1}
	dc.ToneMapping = "Linear"
	dc.ToneMappingExposure = 1.5

	d.ApplyDebug(dc)

	assert.Equal(t, float32(4), d.Scene.Node(d.Scene.Find("top")).Material.EnvMapIntensity)
	assert.Equal(t, mgl32.Vec3{1, 5, -1}, d.Light.Position, "clamped to the control range")
	assert.Equal(t, renderer.LinearToneMapping, h.rend.settings.ToneMapping)
	assert.Equal(t, float32(1.5), h.rend.settings.ToneMappingExposure)
}

func TestApplyDebugKeepsToneMappingOnUnknownName(t *testing.T) {
	h := newHarness(t, nil, nil)
	dc := config.Default().Debug
	dc.ToneMapping = "Filmic"

	h.demo.ApplyDebug(dc)

	assert.Equal(t, renderer.ACESFilmicToneMapping, h.rend.settings.ToneMapping)
}

func TestPanickingModelLoaderIsAFailedLoad(t *testing.T) {
	q := make(chanQueue, 2)
	d, err := Build(config.Default(), Deps{
		Queue:    q,
		Renderer: &fakeRenderer{settings: renderer.DefaultSettings()},
		LoadEnvironment: func(string, [6]string) (*scene.EnvironmentTexture, error) {
			return nil, errors.New("offline")
		},
		LoadModel: func(string, string) (*scene.Subtree, error) {
			var roots []scene.SubtreeNode
			return &scene.Subtree{Nodes: roots[:1]}, nil
		},
	})
	require.NoError(t, err)
	before := d.Scene.Len()

	(<-q)()
	(<-q)()

	assert.True(t, d.Model.IsNil())
	assert.Equal(t, before, d.Scene.Len())
	assert.Nil(t, d.Panel.Lookup("rotation"))
}
