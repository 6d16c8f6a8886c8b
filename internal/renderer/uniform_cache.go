package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// UniformCache remembers uniform locations per program. Uniforms the driver
// optimised out are remembered as -1 and their writes skipped.
type UniformCache struct {
	locations map[string]int32
	program   uint32
	lookup    func(program uint32, name string) int32
}

func glUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func NewUniformCache(program uint32) *UniformCache {
	return &UniformCache{
		locations: make(map[string]int32),
		program:   program,
		lookup:    glUniformLocation,
	}
}

func (uc *UniformCache) GetLocation(name string) int32 {
	loc, ok := uc.locations[name]
	if !ok {
		loc = uc.lookup(uc.program, name)
		uc.locations[name] = loc
	}
	return loc
}

// with calls write only when name resolves to a live uniform.
func (uc *UniformCache) with(name string, write func(loc int32)) {
	if loc := uc.GetLocation(name); loc >= 0 {
		write(loc)
	}
}

func (uc *UniformCache) SetFloat(name string, v float32) {
	uc.with(name, func(loc int32) { gl.Uniform1f(loc, v) })
}

func (uc *UniformCache) SetVec2(name string, v mgl32.Vec2) {
	uc.with(name, func(loc int32) { gl.Uniform2fv(loc, 1, &v[0]) })
}

func (uc *UniformCache) SetVec3(name string, v mgl32.Vec3) {
	uc.with(name, func(loc int32) { gl.Uniform3fv(loc, 1, &v[0]) })
}

func (uc *UniformCache) SetInt(name string, v int32) {
	uc.with(name, func(loc int32) { gl.Uniform1i(loc, v) })
}

// SetBool writes a GLSL bool, which the API sets as an int.
func (uc *UniformCache) SetBool(name string, v bool) {
	var i int32
	if v {
		i = 1
	}
	uc.SetInt(name, i)
}

func (uc *UniformCache) SetMat3(name string, m mgl32.Mat3) {
	uc.with(name, func(loc int32) { gl.UniformMatrix3fv(loc, 1, false, &m[0]) })
}

func (uc *UniformCache) SetMat4(name string, m mgl32.Mat4) {
	uc.with(name, func(loc int32) { gl.UniformMatrix4fv(loc, 1, false, &m[0]) })
}
