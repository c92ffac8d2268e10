package nebula

import (
	"fmt"
	"slices"
)

type State int

type Stage struct {
	Name string
}

// Stages run in this order every frame.
var (
	Prelude   = Stage{Name: "Prelude"}
	Input     = Stage{Name: "Input"}
	Simulate  = Stage{Name: "Simulate"}
	Camera    = Stage{Name: "Camera"}
	PreRender = Stage{Name: "PreRender"}
	Render    = Stage{Name: "Render"}
	Finale    = Stage{Name: "Finale"}
)

var defaultStages = []Stage{Prelude, Input, Simulate, Camera, PreRender, Render, Finale}

type statePhase int

const (
	enter   statePhase = 0
	execute statePhase = 1
	exit    statePhase = 2
)

type systemScheduleBuilder struct {
	inStage       Stage
	runAlways     bool
	inState       State
	inStatePhase  statePhase
	system        systemFn
	stateProvided bool
}

type stateScheduleBuilder struct {
	state  State
	phase  statePhase
	always bool
}

func OnEnter(state State) stateScheduleBuilder {
	return stateScheduleBuilder{state: state, phase: enter}
}

func OnExecute(state State) stateScheduleBuilder {
	return stateScheduleBuilder{state: state, phase: execute}
}

func OnExit(state State) stateScheduleBuilder {
	return stateScheduleBuilder{state: state, phase: exit}
}

func Always() stateScheduleBuilder {
	return stateScheduleBuilder{always: true}
}

// System wraps a system function. Parameters must be pointers to installed
// resources or *Commands; they are resolved on every call.
func System(system systemFn) systemScheduleBuilder {
	return systemScheduleBuilder{
		system:  system,
		inStage: Simulate,
	}
}

func (sched systemScheduleBuilder) InStage(s Stage) systemScheduleBuilder {
	sched.inStage = s
	return sched
}

func (sched systemScheduleBuilder) InState(s stateScheduleBuilder) systemScheduleBuilder {
	sched.runAlways = s.always
	sched.inState = s.state
	sched.inStatePhase = s.phase
	sched.stateProvided = !s.always
	return sched
}

func (sched systemScheduleBuilder) RunAlways() systemScheduleBuilder {
	sched.runAlways = true
	return sched
}

type stagePosition int

const (
	stageBefore stagePosition = iota
	stageAfter
)

type stagePositionBuilder struct {
	position stagePosition
	target   Stage
}

func BeforeStage(s Stage) stagePositionBuilder {
	return stagePositionBuilder{position: stageBefore, target: s}
}

func AfterStage(s Stage) stagePositionBuilder {
	return stagePositionBuilder{position: stageAfter, target: s}
}

func (app *App) UseStage(stage Stage, where stagePositionBuilder) *App {
	stageIdx := slices.IndexFunc(app.stages, func(s Stage) bool { return s.Name == where.target.Name })
	if -1 == stageIdx {
		panic(fmt.Sprintf("Stage %v not found", where.target.Name))
	}

	insertAt := stageIdx
	if stageAfter == where.position {
		insertAt = stageIdx + 1
	}

	app.stages = slices.Insert(app.stages, insertAt, stage)
	return app
}

func (app *App) hasStage(name string) bool {
	return slices.ContainsFunc(app.stages, func(s Stage) bool { return s.Name == name })
}

func (app *App) UseSystem(system systemScheduleBuilder) *App {
	stage := system.inStage.Name
	if !app.hasStage(stage) {
		panic(fmt.Sprintf("Stage %v doesn't exist", stage))
	}

	if system.runAlways || !system.stateProvided {
		app.systemsStateless[stage] = append(app.systemsStateless[stage], system.system)
		return app
	}

	if !app.stateful {
		panic("Trying to use a stateful system in a stateless app.")
	}
	if system.inState < app.initialState || system.inState > app.finalState {
		panic(fmt.Sprintf("State %v doesn't exist", system.inState))
	}

	if _, ok := app.systems[stage]; !ok {
		app.systems[stage] = make(map[State]map[statePhase][]systemFn)
	}
	if _, ok := app.systems[stage][system.inState]; !ok {
		app.systems[stage][system.inState] = make(map[statePhase][]systemFn)
	}
	phases := app.systems[stage][system.inState]
	phases[system.inStatePhase] = append(phases[system.inStatePhase], system.system)
	return app
}
