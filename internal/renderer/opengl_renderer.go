package renderer

import (
	"fmt"
	"math"

	"RealisticRender/internal/logger"
	"RealisticRender/internal/scene"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

const (
	unitMap    = 0
	unitEnvMap = 1
	unitShadow = 2
)

type gpuMesh struct {
	VAO, VBO, EBO uint32
	IndexCount    int32
}

// renderTarget is an offscreen color+depth buffer used when the drawing
// buffer size differs from the window framebuffer (pixel ratio capped below
// the display's). It is blitted to the window at the end of the frame.
type renderTarget struct {
	FBO, color, depth uint32
	width, height     int32
}

type FrameStats struct {
	Drawn  int
	Culled int
}

type OpenGLRenderer struct {
	settings   Settings
	width      int
	height     int
	pixelRatio float32

	// framebufferSize reports the window's framebuffer in pixels.
	framebufferSize func() (int, int)

	FrustumCullingEnabled bool

	litShader   Shader
	depthShader Shader
	skybox      *Skybox
	shadowMap   *ShadowMap
	target      *renderTarget
	textures    *TextureManager
	meshes      map[*scene.Geometry]*gpuMesh
	stats       FrameStats
}

// NewOpenGLRenderer initialises OpenGL on the current context and compiles
// the renderer's shaders. framebufferSize must report the window
// framebuffer size in pixels.
func NewOpenGLRenderer(framebufferSize func() (int, int)) (*OpenGLRenderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("OpenGL initialization failed: %w", err)
	}
	rend := &OpenGLRenderer{
		settings:              DefaultSettings(),
		pixelRatio:            1,
		framebufferSize:       framebufferSize,
		FrustumCullingEnabled: true,
		litShader:             InitLitShader(),
		depthShader:           InitDepthShader(),
		textures:              NewTextureManager(),
		meshes:                make(map[*scene.Geometry]*gpuMesh),
	}
	rend.width, rend.height = framebufferSize()

	var undo Unwind
	if err := rend.litShader.Compile(); err != nil {
		return nil, err
	}
	undo.Add(rend.litShader.Delete)
	if err := rend.depthShader.Compile(); err != nil {
		undo.Unwind()
		return nil, err
	}
	undo.Add(rend.depthShader.Delete)
	skybox, err := NewSkybox()
	if err != nil {
		undo.Unwind()
		return nil, err
	}
	undo.Discard()
	rend.skybox = skybox

	gl.Enable(gl.TEXTURE_CUBE_MAP_SEAMLESS)
	logger.Log.Info("OpenGL render initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))
	return rend, nil
}

func (rend *OpenGLRenderer) Settings() *Settings {
	return &rend.settings
}

// SetSize sets the logical size of the drawable surface. The drawing buffer
// is this size times the pixel ratio.
func (rend *OpenGLRenderer) SetSize(width, height int) {
	rend.width, rend.height = width, height
	logger.Log.Debug("Renderer size", zap.Int("width", width), zap.Int("height", height))
}

func (rend *OpenGLRenderer) SetPixelRatio(ratio float32) {
	if ratio <= 0 {
		ratio = 1
	}
	rend.pixelRatio = ratio
}

func (rend *OpenGLRenderer) Size() (int, int) { return rend.width, rend.height }

func (rend *OpenGLRenderer) PixelRatio() float32 { return rend.pixelRatio }

// Stats reports the most recent frame.
func (rend *OpenGLRenderer) Stats() FrameStats { return rend.stats }

func (rend *OpenGLRenderer) TextureStats() TextureStats { return rend.textures.Stats() }

// RenderFrame draws s from camera: shadow pass, background, lit meshes.
func (rend *OpenGLRenderer) RenderFrame(s *scene.Scene, camera *Camera) {
	st := rend.settings
	drawW, drawH := DrawingBufferSize(rend.width, rend.height, rend.pixelRatio)
	if drawW <= 0 || drawH <= 0 {
		return
	}

	var frustum *Frustum
	if rend.FrustumCullingEnabled {
		f := camera.CalculateFrustum()
		frustum = &f
	}
	list := collectDrawables(s.Graph, frustum)
	rend.stats = FrameStats{Drawn: len(list.items), Culled: list.culled}

	var light *scene.DirectionalLight
	if len(s.Lights) > 0 {
		light = s.Lights[0]
	}
	shadows := st.ShadowMap.Enabled && light != nil && light.CastShadow
	if shadows {
		// Casters outside the camera frustum still throw shadows into it.
		casters := list
		if frustum != nil {
			casters = collectDrawables(s.Graph, nil)
		}
		shadows = rend.shadowPass(casters, light)
	}

	fbW, fbH := rend.framebufferSize()
	offscreen := drawW != fbW || drawH != fbH
	if offscreen {
		rend.bindTarget(drawW, drawH)
	} else {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	}
	gl.Viewport(0, 0, int32(drawW), int32(drawH))

	gl.ClearColor(st.ClearColor[0], st.ClearColor[1], st.ClearColor[2], 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthMask(true)
	if st.Antialias {
		gl.Enable(gl.MULTISAMPLE)
	} else {
		gl.Disable(gl.MULTISAMPLE)
	}

	if s.Background != nil {
		rend.skybox.Render(camera, rend.textures.CubeMap(s.Background), rend.setOutputUniforms)
	}
	rend.litPass(list, s, camera, light, shadows)

	if offscreen {
		gl.BindFramebuffer(gl.READ_FRAMEBUFFER, rend.target.FBO)
		gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
		gl.BlitFramebuffer(0, 0, int32(drawW), int32(drawH), 0, 0, int32(fbW), int32(fbH),
			gl.COLOR_BUFFER_BIT, gl.LINEAR)
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	}
}

func (rend *OpenGLRenderer) setOutputUniforms(shader *Shader) {
	st := rend.settings
	shader.SetInt("toneMapping", int32(st.ToneMapping))
	shader.SetFloat("toneMappingExposure", st.ToneMappingExposure)
	shader.SetBool("outputSRGB", st.OutputEncoding == scene.SRGBEncoding)
}

// shadowPass renders casters into the light's depth map and reports whether
// a usable map was produced.
func (rend *OpenGLRenderer) shadowPass(list drawList, light *scene.DirectionalLight) bool {
	w, h := light.Shadow.MapWidth, light.Shadow.MapHeight
	if !rend.shadowMap.Matches(w, h) {
		if rend.shadowMap != nil {
			rend.shadowMap.Destroy()
			rend.shadowMap = nil
		}
		sm, err := NewShadowMap(w, h)
		if err != nil {
			logger.Log.Error("Shadow map unavailable", zap.Error(err))
			return false
		}
		rend.shadowMap = sm
		logger.Log.Debug("Shadow map allocated", zap.Int("width", w), zap.Int("height", h))
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, rend.shadowMap.FBO)
	gl.Viewport(0, 0, rend.shadowMap.Width, rend.shadowMap.Height)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthMask(true)
	gl.Clear(gl.DEPTH_BUFFER_BIT)
	rend.depthShader.Use()

	lightVP := light.ShadowViewProjection()
	for _, item := range list.items {
		if !item.node.CastShadow {
			continue
		}
		mesh := rend.mesh(item.node.Geometry)
		rend.depthShader.SetMat4("lightMVP", lightVP.Mul4(item.world))
		rend.draw(mesh)
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return true
}

func (rend *OpenGLRenderer) litPass(list drawList, s *scene.Scene, camera *Camera, light *scene.DirectionalLight, shadows bool) {
	st := rend.settings
	shader := &rend.litShader
	shader.Use()

	shader.SetMat4("viewProjection", camera.GetViewProjection())
	shader.SetVec3("viewPos", camera.Position)
	shader.SetInt("map", unitMap)
	shader.SetInt("envMap", unitEnvMap)
	shader.SetInt("shadowMap", unitShadow)
	rend.setOutputUniforms(shader)

	shader.SetBool("hasLight", light != nil)
	if light != nil {
		radiance := light.Color.Mul(light.Intensity)
		if !st.PhysicallyCorrectLights {
			radiance = radiance.Mul(math.Pi)
		}
		shader.SetVec3("lightDirection", light.Direction().Mul(-1))
		shader.SetVec3("lightRadiance", radiance)
	}

	shader.SetInt("shadowType", int32(st.ShadowMap.Type))
	if shadows {
		shader.SetMat4("lightViewProjection", light.ShadowViewProjection())
		shader.SetFloat("normalBias", light.Shadow.NormalBias)
		shader.SetFloat("shadowBias", light.Shadow.Bias)
		shader.SetVec2("shadowTexelSize", mgl32.Vec2{
			1 / float32(rend.shadowMap.Width),
			1 / float32(rend.shadowMap.Height),
		})
		gl.ActiveTexture(gl.TEXTURE0 + unitShadow)
		gl.BindTexture(gl.TEXTURE_2D, rend.shadowMap.DepthTex)
	} else {
		shader.SetFloat("normalBias", 0)
	}

	for _, item := range list.items {
		n := item.node
		mat := n.Material

		if mat.DoubleSided {
			gl.Disable(gl.CULL_FACE)
		} else {
			gl.Enable(gl.CULL_FACE)
			gl.CullFace(gl.BACK)
			gl.FrontFace(gl.CCW)
		}
		if mat.Opacity < 1 {
			gl.Enable(gl.BLEND)
			gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		} else {
			gl.Disable(gl.BLEND)
		}

		shader.SetMat4("model", item.world)
		shader.SetMat3("normalMatrix", item.world.Mat3().Inv().Transpose())
		shader.SetBool("receiveShadow", shadows && n.ReceiveShadow)
		rend.setMaterialUniforms(shader, mat, s)

		rend.draw(rend.mesh(n.Geometry))
	}
	gl.Disable(gl.CULL_FACE)
	gl.Disable(gl.BLEND)
}

func (rend *OpenGLRenderer) setMaterialUniforms(shader *Shader, mat *scene.Material, s *scene.Scene) {
	shader.SetBool("unlit", !mat.IsStandard())
	shader.SetVec3("baseColor", mat.Color)
	shader.SetFloat("opacity", mat.Opacity)
	shader.SetFloat("metallic", mat.Metallic)
	shader.SetFloat("roughness", mat.Roughness)

	mapID := rend.textures.Texture(mat.Map)
	shader.SetBool("hasMap", mapID != 0)
	gl.ActiveTexture(gl.TEXTURE0 + unitMap)
	gl.BindTexture(gl.TEXTURE_2D, mapID)

	env := mat.EnvMap
	if env == nil {
		env = s.Environment
	}
	envID := uint32(0)
	if mat.IsStandard() {
		envID = rend.textures.CubeMap(env)
	}
	shader.SetBool("hasEnvMap", envID != 0)
	if envID != 0 {
		shader.SetFloat("envMapIntensity", mat.EnvMapIntensity)
		shader.SetFloat("envMapMaxLod", mipLevels(env.Size))
		gl.ActiveTexture(gl.TEXTURE0 + unitEnvMap)
		gl.BindTexture(gl.TEXTURE_CUBE_MAP, envID)
	}
}

// mesh returns the uploaded buffers for geo, uploading on first use.
func (rend *OpenGLRenderer) mesh(geo *scene.Geometry) *gpuMesh {
	if m, ok := rend.meshes[geo]; ok {
		return m
	}
	data := geo.Interleaved()
	m := &gpuMesh{IndexCount: int32(len(geo.Indices))}

	gl.GenVertexArrays(1, &m.VAO)
	gl.BindVertexArray(m.VAO)

	gl.GenBuffers(1, &m.VBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)

	gl.GenBuffers(1, &m.EBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.EBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(geo.Indices)*4, gl.Ptr(geo.Indices), gl.STATIC_DRAW)

	stride := int32(8 * 4)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(2, 3, gl.FLOAT, false, stride, gl.PtrOffset(5*4))
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)
	rend.meshes[geo] = m
	logger.Log.Debug("Geometry uploaded", zap.String("name", geo.Name), zap.Int32("indices", m.IndexCount))
	return m
}

func (rend *OpenGLRenderer) draw(m *gpuMesh) {
	gl.BindVertexArray(m.VAO)
	gl.DrawElements(gl.TRIANGLES, m.IndexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

func (rend *OpenGLRenderer) bindTarget(w, h int) {
	t := rend.target
	if t == nil || t.width != int32(w) || t.height != int32(h) {
		if t != nil {
			t.destroy()
		}
		t = newRenderTarget(w, h)
		rend.target = t
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.FBO)
}

func newRenderTarget(w, h int) *renderTarget {
	t := &renderTarget{width: int32(w), height: int32(h)}
	gl.GenFramebuffers(1, &t.FBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.FBO)

	gl.GenRenderbuffers(1, &t.color)
	gl.BindRenderbuffer(gl.RENDERBUFFER, t.color)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.RGBA8, t.width, t.height)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.RENDERBUFFER, t.color)

	gl.GenRenderbuffers(1, &t.depth)
	gl.BindRenderbuffer(gl.RENDERBUFFER, t.depth)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, t.width, t.height)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, t.depth)

	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		logger.Log.Error("Render target incomplete", zap.Uint32("status", status))
	}
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	logger.Log.Debug("Render target allocated", zap.Int("width", w), zap.Int("height", h))
	return t
}

func (t *renderTarget) destroy() {
	gl.DeleteRenderbuffers(1, &t.color)
	gl.DeleteRenderbuffers(1, &t.depth)
	gl.DeleteFramebuffers(1, &t.FBO)
}

// Cleanup frees every GPU resource owned by the renderer.
func (rend *OpenGLRenderer) Cleanup() {
	for geo, m := range rend.meshes {
		gl.DeleteVertexArrays(1, &m.VAO)
		gl.DeleteBuffers(1, &m.VBO)
		gl.DeleteBuffers(1, &m.EBO)
		delete(rend.meshes, geo)
	}
	rend.textures.Cleanup()
	if rend.shadowMap != nil {
		rend.shadowMap.Destroy()
	}
	if rend.target != nil {
		rend.target.destroy()
	}
	rend.skybox.Cleanup()
	rend.litShader.Delete()
	rend.depthShader.Delete()
}
