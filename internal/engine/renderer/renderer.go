// Package renderer draws the map meshes and the minimap with OpenGL.
package renderer

import (
	"fmt"
	"image"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/isotile/internal/engine/terrain"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// vertexStride is the byte size of terrain.Vertex.
const vertexStride = int32(unsafe.Sizeof(terrain.Vertex{}))

// gpuMesh is an uploaded mesh.
type gpuMesh struct {
	vao, vbo, ebo uint32
	count         int32
	capacity      int
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config
	log    *zap.Logger

	// Colored triangles in map pixel space
	meshProgram uint32
	locPan      int32
	locViewport int32

	// Textured minimap quad
	miniProgram uint32
	locMiniRect int32
	locMiniView int32
	locMiniTex  int32
	miniVAO     uint32
	miniTexture uint32
	miniTexW    int
	miniTexH    int

	terrain gpuMesh
	overlay gpuMesh
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config, log *zap.Logger) (*Renderer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Renderer{config: cfg, log: log}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0)

	var err error
	r.meshProgram, err = linkProgram(meshVertexShader, meshFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("mesh shader: %w", err)
	}
	r.locPan = uniform(r.meshProgram, "uPan")
	r.locViewport = uniform(r.meshProgram, "uViewport")

	r.miniProgram, err = linkProgram(miniVertexShader, miniFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("minimap shader: %w", err)
	}
	r.locMiniRect = uniform(r.miniProgram, "uRect")
	r.locMiniView = uniform(r.miniProgram, "uViewport")
	r.locMiniTex = uniform(r.miniProgram, "uTexture")
	gl.GenVertexArrays(1, &r.miniVAO)

	r.terrain = newGPUMesh()
	r.overlay = newGPUMesh()
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))
	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	r.terrain.delete()
	r.overlay.delete()
	if r.miniTexture != 0 {
		gl.DeleteTextures(1, &r.miniTexture)
	}
	if r.miniVAO != 0 {
		gl.DeleteVertexArrays(1, &r.miniVAO)
	}
	if r.meshProgram != 0 {
		gl.DeleteProgram(r.meshProgram)
	}
	if r.miniProgram != 0 {
		gl.DeleteProgram(r.miniProgram)
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// ReadPixels reads the back buffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() (pixels []byte, width, height int) {
	width, height = r.config.Width, r.config.Height
	pixels = make([]byte, width*height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, width, height
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// UploadTerrain replaces the terrain mesh.
func (r *Renderer) UploadTerrain(m *terrain.Mesh) {
	r.terrain.upload(m)
	r.log.Debug("terrain uploaded", zap.Int("vertices", len(m.Vertices)))
}

// UpdateTerrain re-uploads vertices [first, end) of a mesh already
// uploaded with UploadTerrain.
func (r *Renderer) UpdateTerrain(m *terrain.Mesh, first, end int) {
	if first >= end || end > r.terrain.capacity {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, r.terrain.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, first*int(vertexStride), (end-first)*int(vertexStride), unsafe.Pointer(&m.Vertices[first]))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// UploadOverlay replaces the overlay mesh.
func (r *Renderer) UploadOverlay(m *terrain.Mesh) {
	r.overlay.upload(m)
}

// DrawMap draws the terrain then the overlay with the map pixel (panX, panY)
// at the top-left of the screen.
func (r *Renderer) DrawMap(panX, panY int) {
	gl.UseProgram(r.meshProgram)
	gl.Uniform2f(r.locPan, float32(panX), float32(panY))
	gl.Uniform2f(r.locViewport, float32(r.config.Width), float32(r.config.Height))
	r.terrain.draw()
	r.overlay.draw()
	gl.BindVertexArray(0)
}

// UploadMinimap replaces the minimap texture.
func (r *Renderer) UploadMinimap(img *image.RGBA) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w == 0 || h == 0 {
		return
	}
	if r.miniTexture == 0 {
		gl.GenTextures(1, &r.miniTexture)
	}
	gl.BindTexture(gl.TEXTURE_2D, r.miniTexture)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	if w != r.miniTexW || h != r.miniTexH {
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
		r.miniTexW, r.miniTexH = w, h
	} else {
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// DrawMinimap draws the minimap texture, turned 45 degrees so the grid
// matches the map, inside the screen rectangle rect.
func (r *Renderer) DrawMinimap(rect image.Rectangle) {
	if r.miniTexture == 0 {
		return
	}
	gl.UseProgram(r.miniProgram)
	gl.Uniform4f(r.locMiniRect, float32(rect.Min.X), float32(rect.Min.Y), float32(rect.Dx()), float32(rect.Dy()))
	gl.Uniform2f(r.locMiniView, float32(r.config.Width), float32(r.config.Height))
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.miniTexture)
	gl.Uniform1i(r.locMiniTex, 0)
	gl.BindVertexArray(r.miniVAO)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func newGPUMesh() gpuMesh {
	var g gpuMesh
	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)
	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)

	// Position attribute (location = 0)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, vertexStride, 0)
	gl.EnableVertexAttribArray(0)
	// Color attribute (location = 1)
	gl.VertexAttribPointerWithOffset(1, 4, gl.FLOAT, false, vertexStride, 2*4)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	return g
}

func (g *gpuMesh) upload(m *terrain.Mesh) {
	g.count = 0
	g.capacity = 0
	if m.Empty() {
		return
	}
	gl.BindVertexArray(g.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*int(vertexStride), unsafe.Pointer(&m.Vertices[0]), gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.DYNAMIC_DRAW)
	gl.BindVertexArray(0)
	g.count = int32(len(m.Indices))
	g.capacity = len(m.Vertices)
}

func (g *gpuMesh) draw() {
	if g.count == 0 {
		return
	}
	gl.BindVertexArray(g.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, g.count, gl.UNSIGNED_INT, 0)
}

func (g *gpuMesh) delete() {
	if g.vao != 0 {
		gl.DeleteVertexArrays(1, &g.vao)
	}
	if g.vbo != 0 {
		gl.DeleteBuffers(1, &g.vbo)
	}
	if g.ebo != 0 {
		gl.DeleteBuffers(1, &g.ebo)
	}
}

func uniform(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

// linkProgram compiles and links a vertex and fragment shader pair.
func linkProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertexShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex shader: %w", err)
	}
	defer gl.DeleteShader(vertexShader)

	fragmentShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment shader: %w", err)
	}
	defer gl.DeleteShader(fragmentShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link failed: %s", log)
	}
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
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
		return 0, fmt.Errorf("compile failed: %s", log)
	}
	return shader, nil
}
