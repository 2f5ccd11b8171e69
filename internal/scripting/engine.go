package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/isorts/sim/internal/core/ecs"
	"github.com/isorts/sim/internal/core/event"
	"github.com/isorts/sim/internal/engine"
	"github.com/isorts/sim/internal/world"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Host is the simulation a script drives.
type Host interface {
	ExecuteCommand(cmd engine.Command) (ecs.EntityID, error)
	World() *world.State
}

// Engine wraps a single gopher-lua VM running scenario scripts.
// Single-goroutine access only (tick goroutine): hooks fire from event bus
// dispatch in the input phase and commands execute immediately.
//
// Entity ids cross into Lua as numbers; generations stay far below 2^21 in
// practice, so the float64 representation is exact.
type Engine struct {
	vm   *lua.LState
	host Host
	dir  string
	log  *zap.Logger
}

// NewEngine creates a Lua VM exposing the command API and loads every
// shared script under scriptsDir/lib.
func NewEngine(scriptsDir string, host Host, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, host: host, dir: scriptsDir, log: log}
	e.registerAPI()

	if err := e.loadDir(filepath.Join(scriptsDir, "lib")); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load lib scripts: %w", err)
	}
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// LoadScenario runs a scenario file from the scripts directory and then
// calls its on_start hook, if defined.
func (e *Engine) LoadScenario(name string) error {
	path := filepath.Join(e.dir, name)
	if err := e.vm.DoFile(path); err != nil {
		return fmt.Errorf("load scenario %s: %w", path, err)
	}
	e.log.Info("scenario loaded", zap.String("file", path))
	return e.call("on_start")
}

// Subscribe wires the scenario hooks to simulation events.
func (e *Engine) Subscribe(bus *event.Bus) {
	event.Subscribe(bus, func(ev event.EntitySpawned) {
		e.hook("on_spawn", lua.LNumber(ev.Entity), lua.LNumber(ev.I), lua.LNumber(ev.J))
	})
	event.Subscribe(bus, func(ev event.EntityArrived) {
		e.hook("on_arrive", lua.LNumber(ev.Entity), lua.LNumber(ev.I), lua.LNumber(ev.J))
	})
	event.Subscribe(bus, func(ev event.PathUnreachable) {
		e.hook("on_unreachable", lua.LNumber(ev.Entity))
	})
	event.Subscribe(bus, func(ev event.EntityRemoved) {
		e.hook("on_remove", lua.LNumber(ev.Entity))
	})
}

// hook calls an optional global and logs failures.
func (e *Engine) hook(name string, args ...lua.LValue) {
	if err := e.call(name, args...); err != nil {
		e.log.Error("lua hook error", zap.String("hook", name), zap.Error(err))
	}
}

// call invokes a global function if the script defines it.
func (e *Engine) call(name string, args ...lua.LValue) error {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		return nil
	}
	return e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, args...)
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
