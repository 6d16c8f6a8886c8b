package engine

import (
	"errors"

	"RealisticRender/internal/logger"
	"RealisticRender/internal/renderer"
	"RealisticRender/internal/scene"

	"go.uber.org/zap"
)

var ErrLoopRunning = errors.New("engine: frame loop already running")

type LoopState int

// A loop is Idle until started, Running while it ticks and Stopped once
// the host has gone away. A stopped loop may be started again.
const (
	Idle LoopState = iota
	Running
	Stopped
)

func (s LoopState) String() string {
	switch s {
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	}
	return "idle"
}

// Updater advances per-frame input state such as damped camera controls.
type Updater interface {
	Update() bool
}

// Scheduler suspends the loop until the host is ready for the next frame.
// NextFrame returns false once the host has gone away.
type Scheduler interface {
	NextFrame() bool
}

// Overlay draws on top of the rendered frame before it is presented.
type Overlay interface {
	Draw()
}

// FrameLoop drives rendering. Every tick runs, strictly in order, the
// controls update, the render call, the overlay and the next-frame
// schedule.
type FrameLoop struct {
	Controls  Updater
	Renderer  renderer.Renderer
	Scene     *scene.Scene
	Camera    *renderer.Camera
	Overlay   Overlay // optional
	Scheduler Scheduler

	state  LoopState
	frames uint64
}

func (l *FrameLoop) State() LoopState {
	return l.state
}

// Frames returns how many ticks have completed.
func (l *FrameLoop) Frames() uint64 {
	return l.frames
}

// Start moves the loop to Running. It fails if the loop already runs.
func (l *FrameLoop) Start() error {
	if l.state == Running {
		return ErrLoopRunning
	}
	l.state = Running
	logger.Log.Info("Frame loop started")
	return nil
}

// Tick performs one frame and reports whether the host wants another. A
// loop that is not running does nothing and reports false.
func (l *FrameLoop) Tick() bool {
	if l.state != Running {
		return false
	}
	if l.Controls != nil {
		l.Controls.Update()
	}
	l.Renderer.RenderFrame(l.Scene, l.Camera)
	if l.Overlay != nil {
		l.Overlay.Draw()
	}
	l.frames++
	return l.Scheduler.NextFrame()
}

// Run starts the loop and ticks until the scheduler reports the host is
// gone.
func (l *FrameLoop) Run() error {
	if err := l.Start(); err != nil {
		return err
	}
	for l.Tick() {
	}
	l.state = Stopped
	logger.Log.Info("Frame loop stopped", zap.Uint64("frames", l.frames))
	return nil
}
