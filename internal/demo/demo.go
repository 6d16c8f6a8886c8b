// Package demo assembles the realistic render scene: environment, burger
// model, shadow-casting sun, orbit camera and the debug controls that tune
// them while the scene runs.
package demo

import (
	"fmt"
	"math"

	"RealisticRender/internal/config"
	"RealisticRender/internal/debug"
	"RealisticRender/internal/loader"
	"RealisticRender/internal/logger"
	"RealisticRender/internal/renderer"
	"RealisticRender/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

const (
	modelScale = 0.3
	modelYaw   = math.Pi * 0.75
	sliderStep = 0.001
)

var modelOffset = mgl32.Vec3{0, -1, 0}

// Deps are the collaborators Build wires the scene to. Nil load functions
// fall back to the loader package.
type Deps struct {
	Queue    loader.Poster
	Renderer renderer.Renderer

	LoadEnvironment loader.EnvironmentFunc
	LoadModel       loader.ModelFunc
}

// Demo is the assembled scene and everything that edits it.
type Demo struct {
	Scene    *scene.Scene
	Params   *debug.Params
	Panel    *debug.Panel
	Light    *scene.DirectionalLight
	Camera   *renderer.Camera
	Controls *renderer.OrbitControls

	// Model is Nil until the model load completes.
	Model scene.NodeID
}

// Build creates the scene and starts the asset loads. Load completions are
// posted to deps.Queue and applied when the frame loop drains it.
func Build(cfg config.Config, deps Deps) (*Demo, error) {
	toneMapping, err := renderer.ParseToneMapping(cfg.Debug.ToneMapping)
	if err != nil {
		return nil, fmt.Errorf("build demo: %w", err)
	}

	d := &Demo{
		Scene:  scene.New(),
		Params: debug.NewParams(cfg.Debug.EnvMapIntensity),
		Panel:  debug.NewPanel(),
		Model:  scene.Nil,
	}
	d.Params.Subscribe(func(p *debug.Params) {
		d.Scene.UpdateAllMaterials(p.EnvMapIntensity)
	})

	// Environment map
	root, envPaths := cfg.Assets.Root, cfg.Assets.Environment
	loader.LoadEnvironmentAsync(deps.Queue, deps.LoadEnvironment, root, envPaths,
		func(env *scene.EnvironmentTexture, err error) {
			if err == nil {
				d.ApplyEnvironment(env)
			}
		})
	d.Panel.Add(&d.Params.EnvMapIntensity, "envMapIntensity").
		Range(0, 10).
		Step(sliderStep).
		OnChange(d.Params.Notify)

	// Model
	modelPath := cfg.Assets.Model
	loader.LoadModelAsync(deps.Queue, deps.LoadModel, root, modelPath,
		func(st *scene.Subtree, err error) {
			if err != nil {
				return
			}
			if _, err := d.ApplyModel(st); err != nil {
				logger.Log.Warn("Model not added", zap.Error(err))
			}
		})

	// Light
	d.Light = newLight(cfg)
	d.Scene.AddLight(d.Light)
	d.Panel.Add(&d.Light.Shadow.NormalBias, "normalBias").Range(0, 0.05).Step(sliderStep)
	d.Panel.Add(&d.Light.Intensity, "lightIntensity").Range(0, 10).Step(sliderStep)
	d.Panel.Add(&d.Light.Position[0], "lightX").Range(-5, 5).Step(sliderStep)
	d.Panel.Add(&d.Light.Position[1], "lightY").Range(-5, 5).Step(sliderStep)
	d.Panel.Add(&d.Light.Position[2], "lightZ").Range(-5, 5).Step(sliderStep)

	// Camera
	aspect := float32(cfg.Window.Width) / float32(cfg.Window.Height)
	d.Camera = renderer.NewPerspectiveCamera(75, aspect, 0.1, 100)
	d.Camera.Position = mgl32.Vec3{4, 1, -4}
	d.Camera.LookAt(mgl32.Vec3{})
	d.Controls = renderer.NewOrbitControls(d.Camera)
	d.Controls.EnableDamping = true

	// Renderer
	deps.Renderer.SetSize(cfg.Window.Width, cfg.Window.Height)
	deps.Renderer.SetPixelRatio(1)
	st := deps.Renderer.Settings()
	st.Antialias = cfg.Window.Samples > 0
	st.PhysicallyCorrectLights = true
	st.OutputEncoding = scene.SRGBEncoding
	st.ToneMapping = toneMapping
	st.ToneMappingExposure = cfg.Debug.ToneMappingExposure
	st.ShadowMap.Enabled = true
	st.ShadowMap.Type = renderer.PCFSoftShadowMap

	debug.AddEnum(d.Panel, &st.ToneMapping, "toneMapping", toneMappingOptions())
	d.Panel.Add(&st.ToneMappingExposure, "toneMappingExposure").Range(0, 10).Step(sliderStep)

	logger.Log.Info("Demo scene built",
		zap.Int("controls", len(d.Panel.Bindings())),
		zap.String("toneMapping", toneMapping.String()))
	return d, nil
}

func newLight(cfg config.Config) *scene.DirectionalLight {
	l := scene.NewDirectionalLight(mgl32.Vec3{1, 1, 1}, cfg.Debug.LightIntensity)
	l.Position = mgl32.Vec3(cfg.Debug.LightPosition)
	l.CastShadow = true
	l.Shadow.Far = cfg.Shadow.Far
	l.Shadow.MapWidth = cfg.Shadow.MapSize
	l.Shadow.MapHeight = cfg.Shadow.MapSize
	l.Shadow.NormalBias = cfg.Debug.NormalBias
	return l
}

func toneMappingOptions() []debug.Option {
	var opts []debug.Option
	for _, tm := range renderer.ToneMappings() {
		opts = append(opts, debug.Option{Label: tm.String(), Value: int(tm)})
	}
	return opts
}

// ApplyEnvironment shows env as the background and lights standard
// materials with it.
func (d *Demo) ApplyEnvironment(env *scene.EnvironmentTexture) {
	d.Scene.SetEnvironment(env)
	logger.Log.Info("Environment applied", zap.Int("faceSize", env.Size))
}

// ApplyModel places a loaded model in the scene: scaled to 0.3, lowered by
// one unit, turned by 3π/4 about Y. It registers the "rotation" control for
// the yaw and refreshes materials so the model picks up the current
// environment intensity.
func (d *Demo) ApplyModel(st *scene.Subtree) (scene.NodeID, error) {
	id, err := d.Scene.Graft(d.Scene.Root(), st)
	if err != nil {
		return scene.Nil, err
	}
	n := d.Scene.Node(id)
	n.Transform.Scale = mgl32.Vec3{modelScale, modelScale, modelScale}
	n.Transform.Position = modelOffset
	n.Transform.Rotation[1] = modelYaw
	d.Model = id

	d.Panel.Add(&n.Transform.Rotation[1], "rotation").Range(-math.Pi, math.Pi).Step(sliderStep)
	d.Scene.UpdateAllMaterials(d.Params.EnvMapIntensity)
	logger.Log.Info("Model applied", zap.String("name", n.Name), zap.Int("nodes", len(st.Nodes)))
	return id, nil
}

// ApplyDebug pushes reloaded debug values through the panel so clamping and
// change callbacks run exactly as for an interactive edit. It must run on the
// frame loop thread.
func (d *Demo) ApplyDebug(dc config.DebugConfig) {
	set := func(name string, v float64) {
		if b := d.Panel.Lookup(name); b != nil {
			b.Set(v)
		}
	}
	set("envMapIntensity", float64(dc.EnvMapIntensity))
	set("normalBias", float64(dc.NormalBias))
	set("lightIntensity", float64(dc.LightIntensity))
	set("lightX", float64(dc.LightPosition[0]))
	set("lightY", float64(dc.LightPosition[1]))
	set("lightZ", float64(dc.LightPosition[2]))
	set("toneMappingExposure", float64(dc.ToneMappingExposure))
	if tm, err := renderer.ParseToneMapping(dc.ToneMapping); err == nil {
		set("toneMapping", float64(tm))
	}
	logger.Log.Debug("Debug values applied", zap.Float32("envMapIntensity", dc.EnvMapIntensity))
}
