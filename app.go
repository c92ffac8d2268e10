package nebula

import (
	"fmt"
	"reflect"
	"runtime"
	"slices"
)

type systemFn any

type App struct {
	stateful           bool
	stateTransitioning bool
	initialState       State
	finalState         State
	nextState          State
	state              State
	started            bool
	stages             []Stage
	systems            map[string]map[State]map[statePhase][]systemFn
	systemsStateless   map[string][]systemFn
	resources          map[reflect.Type]any

	// First fatal error reported by a module during Install.
	initErr error
}

func newApp() *App {
	app := &App{
		resources:        make(map[reflect.Type]any),
		systems:          make(map[string]map[State]map[statePhase][]systemFn),
		systemsStateless: make(map[string][]systemFn),
	}
	app.stages = slices.Clone(defaultStages)
	return app
}

func (app *App) Commands() *Commands {
	return &Commands{
		app: app,
	}
}

// Fail records a fatal initialization error. Only the first one is kept.
func (app *App) Fail(err error) {
	if err == nil || app.initErr != nil {
		return
	}
	app.initErr = err
	app.Logger().Errorf("initialization failed: %v", err)
}

func (app *App) Err() error {
	return app.initErr
}

// Run drives frames until the final state is reached.
func (app *App) Run() error {
	if app.initErr != nil {
		return app.initErr
	}

	app.start()
	for !app.Stopped() {
		app.Step()
	}
	return nil
}

func (app *App) start() {
	if app.started {
		return
	}
	app.started = true

	if app.stateful {
		app.Logger().Debugf("Running in stateful mode...")

		app.state = app.initialState
		app.callSystems(app.state, enter)
	} else {
		app.Logger().Debugf("Running in stateless mode...")
	}
}

// Step runs exactly one frame. Pending state transitions are applied
// before and after the frame so that no frame observes a half-entered state.
func (app *App) Step() {
	app.start()
	app.applyTransition()

	app.callSystems(app.state, execute)

	app.applyTransition()
}

func (app *App) Stopped() bool {
	return app.stateful && app.started && app.state == app.finalState
}

func (app *App) State() State {
	return app.state
}

func (app *App) applyTransition() {
	if !app.stateful || !app.stateTransitioning {
		return
	}
	app.stateTransitioning = false
	app.executeChangeState(app.nextState)

	if app.state == app.finalState {
		app.callSystems(app.state, exit)
	}
}

func (app *App) callSystems(state State, phase statePhase) {
	for _, stage := range app.stages {
		// On execute, call stateless/always run systems first
		if execute == phase {
			for _, system := range app.systemsStateless[stage.Name] {
				app.callSystem(system)
			}
		}

		if !app.stateful {
			continue
		}
		if systemsInStage, ok := app.systems[stage.Name]; ok {
			if systemsInState, ok := systemsInStage[state]; ok {
				for _, system := range systemsInState[phase] {
					app.callSystem(system)
				}
			}
		}
	}
}

func (app *App) changeState(newState State) {
	app.nextState = newState
	app.stateTransitioning = true
}

func (app *App) executeChangeState(newState State) {
	if newState == app.state {
		return
	}
	app.callSystems(app.state, exit)
	app.Logger().Debugf("state %v -> %v", app.state, newState)
	app.state = newState
	app.callSystems(app.state, enter)
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if resourceType.Kind() != reflect.Pointer {
			panic(fmt.Sprintf("resource %s must be a pointer", resourceType))
		}
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
	}
	return app
}

// Resource returns the resource of type T installed in app.
func Resource[T any](app *App) (*T, bool) {
	res, ok := app.resources[reflect.TypeOf((*T)(nil)).Elem()]
	if !ok {
		return nil, false
	}
	typed, ok := res.(*T)
	return typed, ok
}

var typeOfCommands = reflect.TypeOf(Commands{})

func (app *App) callSystem(system systemFn) {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())

	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)
		underlyingType := argType.Elem()

		if underlyingType == typeOfCommands {
			args[i] = reflect.ValueOf(&Commands{app: app})
		} else if resource, argIsResource := app.resources[underlyingType]; argIsResource {
			args[i] = reflect.ValueOf(resource)
		} else {
			msg := fmt.Sprintf("Unable to resolve System dependency.\nSystem: %s\nSystem type: %s\nDependency: %s",
				runtime.FuncForPC(systemValue.Pointer()).Name(),
				fmt.Sprint(systemType),
				fmt.Sprint(argType),
			)
			app.Logger().Errorf("%s", msg)
			panic(msg)
		}
	}
	systemValue.Call(args)
}
