package nebula

// Frame driver states. The driver idles until the first frame, then runs
// until the window closes.
const (
	FrameIdle State = iota
	FrameRunning
	FrameStopped
)

func (s State) String() string {
	switch s {
	case FrameIdle:
		return "idle"
	case FrameRunning:
		return "running"
	case FrameStopped:
		return "stopped"
	}
	return "unknown"
}

// NewFrameDriver returns a builder already set up with the frame states.
func NewFrameDriver() *AppBuilder {
	return NewAppBuilder().
		UseStates(FrameIdle, FrameStopped).
		UseModule(FrameModule{})
}

type FrameModule struct{}

func (FrameModule) Install(app *App, cmd *Commands) {
	app.UseSystem(
		System(beginFramesSystem).
			InStage(Prelude).
			InState(OnEnter(FrameIdle)),
	)
	app.UseSystem(
		System(stoppedSystem).
			InStage(Finale).
			InState(OnEnter(FrameStopped)),
	)
}

func beginFramesSystem(cmd *Commands) {
	cmd.ChangeState(FrameRunning)
}

func stoppedSystem(cmd *Commands) {
	cmd.Logger().Infof("frame driver stopped")
}

// The handlers below are the entry points for window events. They run
// outside the frame systems but on the same thread, so they write the
// shared resources directly.

// PointerMoved records a pointer position in window coordinates and feeds
// any active orbit drag.
func (app *App) PointerMoved(ex, ey float64) {
	vp, ok := Resource[Viewport](app)
	if !ok {
		return
	}
	if p, ok := Resource[Pointer](app); ok {
		p.Move(ex, ey, vp)
	}
	if rig, ok := Resource[CameraRig](app); ok && rig.Input.Dragging() {
		rig.Input.Drag(ex, ey, vp, rig.Controls)
	}
}

func (app *App) MouseButton(btn MouseButton, pressed bool) {
	rig, ok := Resource[CameraRig](app)
	if !ok {
		return
	}
	p, ok := Resource[Pointer](app)
	if !ok {
		p = &Pointer{}
	}
	rig.Input.Button(btn, pressed, p)
}

func (app *App) Scrolled(yoff float64) {
	if rig, ok := Resource[CameraRig](app); ok {
		rig.Controls.Scroll(yoff)
	}
}

// Resize applies a new viewport size to the display and the camera
// immediately. Every event is applied; there is no debouncing.
func (app *App) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		// minimised
		return
	}
	if vp, ok := Resource[Viewport](app); ok {
		vp.Width, vp.Height = width, height
	}
	if display, ok := Resource[Display](app); ok {
		display.Surface.Resize(width, height)
	}
	if rig, ok := Resource[CameraRig](app); ok {
		rig.Camera.SetAspect(width, height)
		rig.Camera.UpdateProjectionMatrix()
	}
	app.Logger().Debugf("resize %dx%d", width, height)
}
