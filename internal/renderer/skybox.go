package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Unit cube, drawn from the inside with depth forced to the far plane.
var skyboxVertices = []float32{
	-1, 1, -1, -1, -1, -1, 1, -1, -1,
	1, -1, -1, 1, 1, -1, -1, 1, -1,

	-1, -1, 1, -1, -1, -1, -1, 1, -1,
	-1, 1, -1, -1, 1, 1, -1, -1, 1,

	1, -1, -1, 1, -1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, -1, 1, -1, -1,

	-1, -1, 1, -1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, -1, 1, -1, -1, 1,

	-1, 1, -1, 1, 1, -1, 1, 1, 1,
	1, 1, 1, -1, 1, 1, -1, 1, -1,

	-1, -1, -1, -1, -1, 1, 1, -1, -1,
	1, -1, -1, -1, -1, 1, 1, -1, 1,
}

// Skybox draws a cube map behind everything else.
type Skybox struct {
	VAO    uint32
	VBO    uint32
	Shader Shader
}

func NewSkybox() (*Skybox, error) {
	s := &Skybox{Shader: InitSkyboxShader()}
	if err := s.Shader.Compile(); err != nil {
		return nil, err
	}

	gl.GenVertexArrays(1, &s.VAO)
	gl.GenBuffers(1, &s.VBO)
	gl.BindVertexArray(s.VAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(skyboxVertices)*4, gl.Ptr(skyboxVertices), gl.STATIC_DRAW)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)
	return s, nil
}

// Render draws cubeTex around camera. output sets the tone mapping and
// encoding uniforms shared with the lit shader.
func (s *Skybox) Render(camera *Camera, cubeTex uint32, output func(*Shader)) {
	if cubeTex == 0 {
		return
	}
	s.Shader.Use()

	s.Shader.SetMat4("view", skyView(camera.GetViewMatrix()))
	s.Shader.SetMat4("projection", camera.GetProjectionMatrix())
	s.Shader.SetInt("skybox", 0)
	output(&s.Shader)

	gl.DepthMask(false)
	gl.DepthFunc(gl.LEQUAL)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, cubeTex)

	gl.BindVertexArray(s.VAO)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(skyboxVertices)/3))
	gl.BindVertexArray(0)

	gl.DepthMask(true)
	gl.DepthFunc(gl.LESS)
}

func (s *Skybox) Cleanup() {
	gl.DeleteVertexArrays(1, &s.VAO)
	gl.DeleteBuffers(1, &s.VBO)
	s.Shader.Delete()
}

// skyView strips translation so the sky stays centred on the eye.
func skyView(view mgl32.Mat4) mgl32.Mat4 {
	view[12], view[13], view[14] = 0, 0, 0
	return view
}
