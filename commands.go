package nebula

type Commands struct {
	app *App
}

func (cmd *Commands) ChangeState(newState State) *Commands {
	cmd.app.changeState(newState)
	return cmd
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

func (cmd *Commands) Logger() Logger {
	return cmd.app.Logger()
}

// Stop asks the frame driver to leave the running state after this frame.
func (cmd *Commands) Stop() {
	if cmd.app.stateful {
		cmd.app.changeState(cmd.app.finalState)
	}
}
