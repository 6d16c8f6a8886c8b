package renderer

import (
	"RealisticRender/internal/logger"
	"RealisticRender/internal/scene"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"
)

// TextureStats provides debugging and profiling information
type TextureStats struct {
	TotalTextures int
	CacheHits     int
	CacheMisses   int
}

// TextureManager uploads scene textures on first use and keeps the GPU ids
// for as long as the CPU-side texture is alive. It is only used from the
// render thread.
type TextureManager struct {
	textures map[*scene.Texture]uint32
	cubes    map[*scene.EnvironmentTexture]uint32
	stats    TextureStats

	upload2D   func(*scene.Texture) uint32
	uploadCube func(*scene.EnvironmentTexture) uint32
	release    func(id uint32)
}

func NewTextureManager() *TextureManager {
	return &TextureManager{
		textures:   make(map[*scene.Texture]uint32),
		cubes:      make(map[*scene.EnvironmentTexture]uint32),
		upload2D:   uploadTexture2D,
		uploadCube: uploadCubeMap,
		release:    func(id uint32) { gl.DeleteTextures(1, &id) },
	}
}

// Texture returns the GPU id for tex, uploading it on first use. A nil
// texture maps to 0.
func (tm *TextureManager) Texture(tex *scene.Texture) uint32 {
	if tex == nil || tex.Image == nil {
		return 0
	}
	if id, ok := tm.textures[tex]; ok {
		tm.stats.CacheHits++
		return id
	}
	tm.stats.CacheMisses++
	id := tm.upload2D(tex)
	tm.textures[tex] = id
	tm.stats.TotalTextures++
	logger.Log.Debug("Texture uploaded",
		zap.String("name", tex.Name),
		zap.Uint32("textureID", id),
		zap.Int("width", tex.Image.Rect.Dx()),
		zap.Int("height", tex.Image.Rect.Dy()))
	return id
}

// CubeMap returns the GPU id for env, uploading it on first use.
func (tm *TextureManager) CubeMap(env *scene.EnvironmentTexture) uint32 {
	if env == nil {
		return 0
	}
	if id, ok := tm.cubes[env]; ok {
		tm.stats.CacheHits++
		return id
	}
	tm.stats.CacheMisses++
	id := tm.uploadCube(env)
	tm.cubes[env] = id
	tm.stats.TotalTextures++
	logger.Log.Debug("Cube map uploaded", zap.Uint32("textureID", id), zap.Int("size", env.Size))
	return id
}

func (tm *TextureManager) Stats() TextureStats {
	return tm.stats
}

// Cleanup frees every uploaded texture.
func (tm *TextureManager) Cleanup() {
	for tex, id := range tm.textures {
		tm.release(id)
		delete(tm.textures, tex)
	}
	for env, id := range tm.cubes {
		tm.release(id)
		delete(tm.cubes, env)
	}
	tm.stats.TotalTextures = 0
}

func internalFormat(enc scene.ColorEncoding) int32 {
	if enc == scene.SRGBEncoding {
		return gl.SRGB8_ALPHA8
	}
	return gl.RGBA8
}

func uploadTexture2D(tex *scene.Texture) uint32 {
	enc := scene.LinearEncoding
	if tex.SRGB {
		enc = scene.SRGBEncoding
	}
	img := tex.Image

	var textureID uint32
	gl.GenTextures(1, &textureID)
	gl.BindTexture(gl.TEXTURE_2D, textureID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internalFormat(enc),
		int32(img.Rect.Dx()), int32(img.Rect.Dy()),
		0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return textureID
}

func uploadCubeMap(env *scene.EnvironmentTexture) uint32 {
	var textureID uint32
	gl.GenTextures(1, &textureID)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, textureID)
	format := internalFormat(env.Encoding)
	for i, face := range env.Faces {
		if face == nil {
			continue
		}
		gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i), 0, format,
			int32(face.Rect.Dx()), int32(face.Rect.Dy()),
			0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(face.Pix))
	}
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	gl.GenerateMipmap(gl.TEXTURE_CUBE_MAP)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
	return textureID
}

// mipLevels is the index of the smallest mip level of a size x size texture.
func mipLevels(size int) float32 {
	levels := 0
	for size > 1 {
		size >>= 1
		levels++
	}
	return float32(levels)
}
