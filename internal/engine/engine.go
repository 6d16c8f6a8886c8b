package engine

import (
	"fmt"
	"runtime"

	"RealisticRender/internal/config"
	"RealisticRender/internal/debug"
	"RealisticRender/internal/gui"
	"RealisticRender/internal/logger"
	"RealisticRender/internal/renderer"
	"RealisticRender/internal/scene"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"
)

func init() {
	// GLFW and the GL context must stay on the main thread.
	runtime.LockOSThread()
}

// Engine owns the window, its GL context and the renderer drawing into it.
type Engine struct {
	Window   *glfw.Window
	Renderer *renderer.OpenGLRenderer
	Queue    *Queue

	title   string
	resize  *ResizeHandler
	pointer *pointer
	driver  *debug.Driver
	overlay *gui.Overlay
}

// New opens the window described by cfg and initialises OpenGL in it.
func New(cfg config.WindowConfig) (*Engine, error) {
	logger.Log.Info("RealisticRender initializing...")
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("init glfw: %w", err)
	}

	glfw.WindowHint(glfw.Decorated, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 24)
	glfw.WindowHint(glfw.Samples, cfg.Samples)
	glfw.WindowHint(glfw.ScaleToMonitor, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	styleTitleBar(window)

	rend, err := renderer.NewOpenGLRenderer(window.GetFramebufferSize)
	if err != nil {
		window.Destroy()
		glfw.Terminate()
		return nil, err
	}
	rend.Settings().Antialias = cfg.Samples > 0

	return &Engine{
		Window:   window,
		Renderer: rend,
		Queue:    NewQueue(64),
		title:    cfg.Title,
	}, nil
}

// Run shows s through camera until the window is closed. Controls are fed
// from the mouse. The panel is drawn as a GUI window over the scene and can
// also be driven from the keyboard, which is all that is left when the GUI
// cannot start.
func (e *Engine) Run(s *scene.Scene, camera *renderer.Camera, controls *renderer.OrbitControls, panel *debug.Panel) error {
	e.resize = &ResizeHandler{Surface: windowSurface{e.Window}, Camera: camera, Renderer: e.Renderer}
	e.resize.Handle()

	overlay, err := gui.New(e.Window, panel)
	if err != nil {
		logger.Log.Warn("GUI unavailable, panel is keyboard only", zap.Error(err))
	} else {
		e.overlay = overlay
		defer func() {
			overlay.Destroy()
			e.overlay = nil
		}()
	}

	e.pointer = &pointer{controls: controls, height: func() int {
		_, h := e.Window.GetSize()
		return h
	}}
	if e.overlay != nil {
		e.pointer.captured = e.overlay.WantCaptureMouse
	}
	e.driver = debug.NewDriver(panel, e.setStatus)
	e.installCallbacks()
	e.setStatus(e.driver.Status())

	loop := &FrameLoop{
		Controls:  controls,
		Renderer:  e.Renderer,
		Scene:     s,
		Camera:    camera,
		Scheduler: &GLFWScheduler{Window: e.Window, Queue: e.Queue},
	}
	if e.overlay != nil {
		loop.Overlay = e.overlay
	}
	err = loop.Run()
	frame, tex := e.Renderer.Stats(), e.Renderer.TextureStats()
	logger.Log.Info("Frame loop stopped",
		zap.Uint64("frames", loop.Frames()),
		zap.Stringer("state", loop.State()),
		zap.Int("drawn", frame.Drawn),
		zap.Int("culled", frame.Culled),
		zap.Int("textures", tex.TotalTextures),
		zap.Int("textureCacheHits", tex.CacheHits))
	e.Renderer.Cleanup()
	return err
}

// Terminate closes the window and releases GLFW.
func (e *Engine) Terminate() {
	if e.Window != nil {
		e.Window.Destroy()
	}
	glfw.Terminate()
}

func (e *Engine) installCallbacks() {
	e.Window.SetSizeCallback(func(*glfw.Window, int, int) { e.resize.Handle() })
	e.Window.SetContentScaleCallback(func(*glfw.Window, float32, float32) { e.resize.Handle() })

	e.Window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if e.overlay != nil {
			e.overlay.MouseButton(button, action)
		}
		if action == glfw.Release {
			e.pointer.release()
			return
		}
		x, y := w.GetCursorPos()
		e.pointer.press(buttonMode(button), x, y)
	})
	e.Window.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) { e.pointer.move(x, y) })
	e.Window.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		if e.overlay != nil {
			e.overlay.Scroll(xoff, yoff)
		}
		e.pointer.scroll(yoff)
	})

	e.Window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
		if e.overlay != nil {
			e.overlay.Key(key, action)
			if e.overlay.WantCaptureKeyboard() {
				return
			}
		}
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
			return
		}
		handleKey(e.driver, key, action, mods)
	})
	e.Window.SetCharCallback(func(_ *glfw.Window, char rune) {
		if e.overlay != nil {
			e.overlay.Char(char)
		}
	})
}

func (e *Engine) setStatus(status string) {
	e.Window.SetTitle(fmt.Sprintf("%s | %s", e.title, status))
}

// windowSurface reads the GLFW window as a Surface.
type windowSurface struct {
	*glfw.Window
}

func (s windowSurface) Size() (int, int) {
	return s.GetSize()
}

func (s windowSurface) ContentScale() float32 {
	x, y := s.GetContentScale()
	if y > x {
		return y
	}
	return x
}

// GLFWScheduler paces frames on the display: it presents the frame, runs
// window callbacks and then the queued load completions, all on the loop
// thread.
type GLFWScheduler struct {
	Window *glfw.Window
	Queue  *Queue
}

func (s *GLFWScheduler) NextFrame() bool {
	s.Window.SwapBuffers()
	glfw.PollEvents()
	if n := s.Queue.Drain(); n > 0 {
		logger.Log.Debug("Drained events", zap.Int("count", n))
	}
	return !s.Window.ShouldClose()
}
