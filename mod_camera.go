package nebula

// CameraRig is the camera together with the controls wrapped around it.
type CameraRig struct {
	Camera   *PerspectiveCamera
	Controls *OrbitControls
	Input    OrbitInput
}

func NewCameraRig(width, height int) *CameraRig {
	cam := NewPerspectiveCamera(FieldOfView, width, height)
	return &CameraRig{
		Camera:   cam,
		Controls: NewOrbitControls(cam),
	}
}

// FollowPointer writes the mirrored pointer position straight into the
// camera's x and y. The orbit controls run afterwards on the same fields.
func (rig *CameraRig) FollowPointer(p *Pointer) {
	x, y := p.CameraXY()
	rig.Camera.Position[0] = x
	rig.Camera.Position[1] = y
}

// CameraModule installs the camera rig sized from the Viewport resource.
// The window module, when present, must be installed first.
type CameraModule struct{}

func (CameraModule) Install(app *App, cmd *Commands) {
	vp, ok := Resource[Viewport](app)
	if !ok {
		vp = &Viewport{Width: DefaultWindowWidth, Height: DefaultWindowHeight}
		cmd.AddResources(vp)
	}
	if _, ok := Resource[Pointer](app); !ok {
		cmd.AddResources(&Pointer{})
	}

	rig := NewCameraRig(vp.Width, vp.Height)
	cmd.AddResources(rig)
	cmd.Logger().Debugf("camera: fov %.0f near %.1f far %.1f z %.1f",
		rig.Camera.Fov, rig.Camera.Near, rig.Camera.Far, rig.Camera.Position.Z())

	app.UseSystem(
		System(cameraPointerSystem).
			InStage(Camera).
			InState(OnExecute(FrameRunning)),
	)
	app.UseSystem(
		System(orbitControlsSystem).
			InStage(Camera).
			InState(OnExecute(FrameRunning)),
	)
}

func cameraPointerSystem(rig *CameraRig, pointer *Pointer) {
	rig.FollowPointer(pointer)
}

// Runs every frame, input or not, so damped motion keeps easing out.
func orbitControlsSystem(rig *CameraRig) {
	rig.Controls.Update()
}
