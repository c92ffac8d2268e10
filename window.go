package nebula

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// WindowState is the shared glfw window.
type WindowState struct {
	Title string

	window *glfw.Window
}

func (ws *WindowState) Glfw() *glfw.Window {
	return ws.window
}

// WindowModule opens the application window and routes its events into the
// app. glfw must be driven from the main thread; see cmd/nebula.
type WindowModule struct {
	Width  int
	Height int
	Title  string
}

// NewWindowModule fills in defaults for zero values.
func NewWindowModule(width, height int, title string) WindowModule {
	if width <= 0 {
		width = DefaultWindowWidth
	}
	if height <= 0 {
		height = DefaultWindowHeight
	}
	if title == "" {
		title = DefaultWindowTitle
	}
	return WindowModule{Width: width, Height: height, Title: title}
}

func (mod WindowModule) Install(app *App, cmd *Commands) {
	mod = NewWindowModule(mod.Width, mod.Height, mod.Title)

	if _, ok := Resource[WindowState](app); ok {
		// one window per app
		return
	}

	if err := glfw.Init(); err != nil {
		app.Fail(fmt.Errorf("init glfw: %w", err))
		return
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(mod.Width, mod.Height, mod.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		app.Fail(fmt.Errorf("create window: %w", err))
		return
	}

	width, height := win.GetSize()
	cmd.AddResources(
		&WindowState{Title: mod.Title, window: win},
		&Viewport{Width: width, Height: height},
		&Pointer{},
	)
	cmd.Logger().Infof("window %dx%d %q", width, height, mod.Title)

	installWindowCallbacks(app, win)

	app.UseSystem(
		System(windowEventsSystem).
			InStage(Input).
			RunAlways(),
	)
	app.UseSystem(
		System(windowCloseSystem).
			InStage(Finale).
			InState(OnExecute(FrameRunning)),
	)
	app.UseSystem(
		System(windowDestroySystem).
			InStage(Finale).
			InState(OnEnter(FrameStopped)),
	)
}

func installWindowCallbacks(app *App, win *glfw.Window) {
	win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		app.PointerMoved(x, y)
	})
	win.SetMouseButtonCallback(func(_ *glfw.Window, b glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		btn, ok := mouseButtonFromGlfw(b)
		if !ok || action == glfw.Repeat {
			return
		}
		app.MouseButton(btn, action == glfw.Press)
	})
	win.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		app.Scrolled(yoff)
	})
	win.SetSizeCallback(func(_ *glfw.Window, width, height int) {
		app.Resize(width, height)
	})
	win.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		switch key {
		case glfw.KeyEscape:
			w.SetShouldClose(true)
		case glfw.KeyH:
			if hud, ok := Resource[Hud](app); ok {
				hud.Enabled = !hud.Enabled
			}
		}
	})
}

func mouseButtonFromGlfw(b glfw.MouseButton) (MouseButton, bool) {
	switch b {
	case glfw.MouseButtonLeft:
		return MouseButtonLeft, true
	case glfw.MouseButtonRight:
		return MouseButtonRight, true
	case glfw.MouseButtonMiddle:
		return MouseButtonMiddle, true
	}
	return 0, false
}

func windowEventsSystem() {
	glfw.PollEvents()
}

func windowCloseSystem(ws *WindowState, cmd *Commands) {
	if ws.window.ShouldClose() {
		cmd.Logger().Infof("window closed")
		cmd.Stop()
	}
}

func windowDestroySystem(ws *WindowState) {
	ws.window.Destroy()
	glfw.Terminate()
}
