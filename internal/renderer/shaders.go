package renderer

import (
	"fmt"
	"strings"

	"RealisticRender/internal/logger"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// =============================================================
//
//	Shaders
//
// =============================================================
type Shader struct {
	Name           string
	vertexSource   string
	fragmentSource string
	program        uint32
	uniforms       *UniformCache
}

// Compile builds and links the program. It is a no-op once compiled.
func (shader *Shader) Compile() error {
	if shader.program != 0 {
		return nil
	}
	vs, err := GenShader(shader.vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return fmt.Errorf("%s vertex shader: %w", shader.Name, err)
	}
	fs, err := GenShader(shader.fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return fmt.Errorf("%s fragment shader: %w", shader.Name, err)
	}
	program, err := GenShaderProgram(vs, fs)
	if err != nil {
		return fmt.Errorf("%s program: %w", shader.Name, err)
	}
	shader.program = program
	shader.uniforms = NewUniformCache(program)
	logger.Log.Debug("Shader compiled", zap.String("shader", shader.Name), zap.Uint32("program", program))
	return nil
}

func (shader *Shader) Use() {
	gl.UseProgram(shader.program)
}

func (shader *Shader) Delete() {
	if shader.program != 0 {
		gl.DeleteProgram(shader.program)
		shader.program = 0
		shader.uniforms = nil
	}
}

func (shader *Shader) SetVec2(name string, value mgl32.Vec2) { shader.uniforms.SetVec2(name, value) }

func (shader *Shader) SetVec3(name string, value mgl32.Vec3) { shader.uniforms.SetVec3(name, value) }

func (shader *Shader) SetFloat(name string, value float32) { shader.uniforms.SetFloat(name, value) }

func (shader *Shader) SetInt(name string, value int32) { shader.uniforms.SetInt(name, value) }

func (shader *Shader) SetBool(name string, value bool) { shader.uniforms.SetBool(name, value) }

func (shader *Shader) SetMat4(name string, value mgl32.Mat4) { shader.uniforms.SetMat4(name, value) }

func (shader *Shader) SetMat3(name string, value mgl32.Mat3) { shader.uniforms.SetMat3(name, value) }

func GenShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	cSources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, cSources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)

		logger.Log.Error("Failed to compile", zap.Uint32("shader type", shaderType), zap.String("log", log))
		return 0, fmt.Errorf("compile failed: %s", strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

func GenShaderProgram(vertexShader, fragmentShader uint32) (uint32, error) {
	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	gl.DetachShader(program, vertexShader)
	gl.DeleteShader(vertexShader)
	gl.DetachShader(program, fragmentShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)

		logger.Log.Error("Failed to link program", zap.String("log", log))
		return 0, fmt.Errorf("link failed: %s", strings.TrimRight(log, "\x00"))
	}
	return program, nil
}

// Shared by every shader that writes to the screen: tone mapping operators
// and linear to sRGB output encoding, selected by uniforms.
const outputChunk = `
uniform int toneMapping;
uniform float toneMappingExposure;
uniform bool outputSRGB;

vec3 RRTAndODTFit(vec3 v) {
    vec3 a = v * (v + 0.0245786) - 0.000090537;
    vec3 b = v * (0.983729 * v + 0.4329510) + 0.238081;
    return a / b;
}

vec3 applyToneMapping(vec3 color) {
    if (toneMapping == 1) {
        return toneMappingExposure * color;
    }
    if (toneMapping == 2) {
        color *= toneMappingExposure;
        return clamp(color / (vec3(1.0) + color), 0.0, 1.0);
    }
    if (toneMapping == 3) {
        color *= toneMappingExposure;
        color = max(vec3(0.0), color - 0.004);
        return pow((color * (6.2 * color + 0.5)) / (color * (6.2 * color + 1.7) + 0.06), vec3(2.2));
    }
    if (toneMapping == 4) {
        const mat3 inputMat = mat3(
            vec3(0.59719, 0.07600, 0.02840),
            vec3(0.35458, 0.90834, 0.13383),
            vec3(0.04823, 0.01566, 0.83777));
        const mat3 outputMat = mat3(
            vec3(1.60475, -0.10208, -0.00327),
            vec3(-0.53108, 1.10813, -0.07276),
            vec3(-0.07367, -0.00605, 1.07602));
        color *= toneMappingExposure / 0.6;
        color = outputMat * RRTAndODTFit(inputMat * color);
        return clamp(color, 0.0, 1.0);
    }
    return color;
}

vec4 encodeOutput(vec3 color, float alpha) {
    color = applyToneMapping(color);
    if (outputSRGB) {
        vec3 lo = color * 12.92;
        vec3 hi = pow(max(color, vec3(0.0)), vec3(0.41666)) * 1.055 - vec3(0.055);
        color = mix(hi, lo, vec3(lessThanEqual(color, vec3(0.0031308))));
    }
    return vec4(color, alpha);
}
`

var litVertexShaderSource = `#version 410 core

layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec2 inTexCoord;
layout(location = 2) in vec3 inNormal;

uniform mat4 model;
uniform mat3 normalMatrix;
uniform mat4 viewProjection;
uniform mat4 lightViewProjection;
uniform float normalBias;

out vec2 fragTexCoord;
out vec3 Normal;
out vec3 FragPos;
out vec4 ShadowCoord;

void main() {
    vec4 world = model * vec4(inPosition, 1.0);
    Normal = normalize(normalMatrix * inNormal);
    FragPos = world.xyz;
    fragTexCoord = inTexCoord;
    ShadowCoord = lightViewProjection * vec4(world.xyz + Normal * normalBias, 1.0);
    gl_Position = viewProjection * world;
}
` + "\x00"

var litFragmentShaderSource = `#version 410 core
in vec2 fragTexCoord;
in vec3 Normal;
in vec3 FragPos;
in vec4 ShadowCoord;

const float PI = 3.14159265359;

uniform bool unlit;
uniform vec3 baseColor;
uniform float opacity;
uniform float metallic;
uniform float roughness;
uniform bool hasMap;
uniform sampler2D map;

uniform bool hasEnvMap;
uniform samplerCube envMap;
uniform float envMapIntensity;
uniform float envMapMaxLod;

uniform bool hasLight;
uniform vec3 lightDirection;
uniform vec3 lightRadiance;

uniform bool receiveShadow;
uniform int shadowType;
uniform sampler2DShadow shadowMap;
uniform float shadowBias;
uniform vec2 shadowTexelSize;

uniform vec3 viewPos;
` + outputChunk + `
out vec4 FragColor;

float shadowFactor() {
    if (!receiveShadow) {
        return 1.0;
    }
    vec3 c = ShadowCoord.xyz / ShadowCoord.w * 0.5 + 0.5;
    if (c.x < 0.0 || c.x > 1.0 || c.y < 0.0 || c.y > 1.0 || c.z > 1.0) {
        return 1.0;
    }
    c.z += shadowBias;
    if (shadowType == 0) {
        return texture(shadowMap, c);
    }
    int r = shadowType == 2 ? 2 : 1;
    float sum = 0.0;
    float n = 0.0;
    for (int x = -r; x <= r; x++) {
        for (int y = -r; y <= r; y++) {
            sum += texture(shadowMap, vec3(c.xy + vec2(x, y) * shadowTexelSize, c.z));
            n += 1.0;
        }
    }
    return sum / n;
}

float distributionGGX(float NdotH, float a) {
    float a2 = a * a;
    float d = NdotH * NdotH * (a2 - 1.0) + 1.0;
    return a2 / (PI * d * d);
}

float visibilitySmith(float NdotV, float NdotL, float a) {
    float k = a / 2.0;
    float gv = NdotV / (NdotV * (1.0 - k) + k);
    float gLight = NdotL / (NdotL * (1.0 - k) + k);
    return gv * gLight / max(4.0 * NdotV * NdotL, 1e-4);
}

vec3 envSample(vec3 dir, float lod) {
    return textureLod(envMap, vec3(-dir.x, dir.yz), lod).rgb;
}

void main() {
    vec4 albedo = vec4(baseColor, opacity);
    if (hasMap) {
        albedo *= texture(map, fragTexCoord);
    }
    if (unlit) {
        FragColor = encodeOutput(albedo.rgb, albedo.a);
        return;
    }

    vec3 N = normalize(Normal);
    if (!gl_FrontFacing) {
        N = -N;
    }
    vec3 V = normalize(viewPos - FragPos);
    float NdotV = max(dot(N, V), 1e-4);
    float a = max(roughness * roughness, 0.0025);
    vec3 F0 = mix(vec3(0.04), albedo.rgb, metallic);
    vec3 diffuseColor = albedo.rgb * (1.0 - metallic);

    vec3 color = vec3(0.0);
    if (hasLight) {
        vec3 L = normalize(lightDirection);
        vec3 H = normalize(L + V);
        float NdotL = max(dot(N, L), 0.0);
        float NdotH = max(dot(N, H), 0.0);
        float VdotH = max(dot(V, H), 0.0);
        vec3 F = F0 + (1.0 - F0) * pow(1.0 - VdotH, 5.0);
        vec3 specular = F * distributionGGX(NdotH, a) * visibilitySmith(NdotV, NdotL, a);
        vec3 diffuse = diffuseColor / PI;
        color += (diffuse + specular) * lightRadiance * NdotL * shadowFactor();
    }

    if (hasEnvMap) {
        vec3 R = reflect(-V, N);
        vec3 Fr = F0 + (max(vec3(1.0 - roughness), F0) - F0) * pow(1.0 - NdotV, 5.0);
        vec3 irradiance = envSample(N, envMapMaxLod);
        vec3 radiance = envSample(R, roughness * envMapMaxLod);
        color += (diffuseColor * irradiance + Fr * radiance) * envMapIntensity;
    }

    FragColor = encodeOutput(color, albedo.a);
}
` + "\x00"

var depthVertexShaderSource = `#version 410 core
layout(location = 0) in vec3 inPosition;
uniform mat4 lightMVP;
void main() {
    gl_Position = lightMVP * vec4(inPosition, 1.0);
}
` + "\x00"

var depthFragmentShaderSource = `#version 410 core
void main() {}
` + "\x00"

var skyboxVertexShaderSource = `#version 410 core
layout(location = 0) in vec3 inPosition;
uniform mat4 view;
uniform mat4 projection;
out vec3 direction;
void main() {
    direction = inPosition;
    vec4 pos = projection * view * vec4(inPosition, 1.0);
    gl_Position = pos.xyww;
}
` + "\x00"

var skyboxFragmentShaderSource = `#version 410 core
in vec3 direction;
uniform samplerCube skybox;
` + outputChunk + `
out vec4 FragColor;
void main() {
    vec3 color = texture(skybox, vec3(-direction.x, direction.yz)).rgb;
    FragColor = encodeOutput(color, 1.0);
}
` + "\x00"

func InitLitShader() Shader {
	return Shader{Name: "lit", vertexSource: litVertexShaderSource, fragmentSource: litFragmentShaderSource}
}

func InitDepthShader() Shader {
	return Shader{Name: "depth", vertexSource: depthVertexShaderSource, fragmentSource: depthFragmentShaderSource}
}

func InitSkyboxShader() Shader {
	return Shader{Name: "skybox", vertexSource: skyboxVertexShaderSource, fragmentSource: skyboxFragmentShaderSource}
}
