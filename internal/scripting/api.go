package scripting

import (
	"github.com/isorts/sim/internal/core/ecs"
	"github.com/isorts/sim/internal/data"
	"github.com/isorts/sim/internal/engine"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// registerAPI exposes the command surface as Lua globals. Functions that can
// fail return nil plus an error message, following Lua convention.
func (e *Engine) registerAPI() {
	api := map[string]lua.LGFunction{
		"spawn":     e.luaSpawn,
		"build":     e.luaBuild,
		"move_to":   e.luaMoveTo,
		"stop":      e.luaEntityCommand(engine.CmdStop),
		"remove":    e.luaEntityCommand(engine.CmdRemove),
		"set_speed": e.luaSetSpeed,
		"position":  e.luaPosition,
		"nearby":    e.luaNearby,
		"goods":     e.luaGoods,
		"grant":     e.luaGrant,
		"ally":      e.luaAlly,
		"allied":    e.luaAllied,
		"log":       e.luaLog,
	}
	for name, fn := range api {
		e.vm.SetGlobal(name, e.vm.NewFunction(fn))
	}
}

func (e *Engine) exec(L *lua.LState, cmd engine.Command) int {
	id, err := e.host.ExecuteCommand(cmd)
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	if id == ecs.NoEntity {
		L.Push(lua.LTrue)
	} else {
		L.Push(lua.LNumber(id))
	}
	return 1
}

func checkEntity(L *lua.LState, n int) ecs.EntityID {
	return ecs.EntityID(uint64(L.CheckNumber(n)))
}

// spawn(body, i, j [, player]) -> eid | nil, err
func (e *Engine) luaSpawn(L *lua.LState) int {
	return e.exec(L, engine.Command{
		Kind:   engine.CmdSpawn,
		Body:   uint32(L.CheckInt(1)),
		I:      L.CheckInt(2),
		J:      L.CheckInt(3),
		Player: uint8(L.OptInt(4, 0)),
	})
}

// build(building, i, j [, player]) -> eid | nil, err
func (e *Engine) luaBuild(L *lua.LState) int {
	return e.exec(L, engine.Command{
		Kind:     engine.CmdBuild,
		Building: uint32(L.CheckInt(1)),
		I:        L.CheckInt(2),
		J:        L.CheckInt(3),
		Player:   uint8(L.OptInt(4, 0)),
	})
}

// move_to(eid, i, j) -> eid | nil, err
func (e *Engine) luaMoveTo(L *lua.LState) int {
	return e.exec(L, engine.Command{
		Kind:   engine.CmdMoveTo,
		Entity: checkEntity(L, 1),
		I:      L.CheckInt(2),
		J:      L.CheckInt(3),
	})
}

func (e *Engine) luaEntityCommand(kind engine.CommandKind) lua.LGFunction {
	return func(L *lua.LState) int {
		return e.exec(L, engine.Command{Kind: kind, Entity: checkEntity(L, 1)})
	}
}

// set_speed(multiplier) -> true | nil, err
func (e *Engine) luaSetSpeed(L *lua.LState) int {
	return e.exec(L, engine.Command{Kind: engine.CmdSetSpeed, Speed: float64(L.CheckNumber(1))})
}

// position(eid) -> i, j | nil
func (e *Engine) luaPosition(L *lua.LState) int {
	pos, ok := e.host.World().Positions.Lookup(checkEntity(L, 1))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(pos.I))
	L.Push(lua.LNumber(pos.J))
	return 2
}

// nearby(i, j, radius) -> {eid, ...} sorted by id
func (e *Engine) luaNearby(L *lua.LState) int {
	ids := e.host.World().Nearby(float64(L.CheckNumber(1)), float64(L.CheckNumber(2)), float64(L.CheckNumber(3)))
	t := L.CreateTable(len(ids), 0)
	for _, id := range ids {
		t.Append(lua.LNumber(id))
	}
	L.Push(t)
	return 1
}

// goods(player) -> {wood=, stone=, iron=, gold=}
func (e *Engine) luaGoods(L *lua.LState) int {
	p := e.host.World().Players.Ensure(uint8(L.CheckInt(1)))
	t := L.NewTable()
	t.RawSetString("wood", lua.LNumber(p.Goods.Wood))
	t.RawSetString("stone", lua.LNumber(p.Goods.Stone))
	t.RawSetString("iron", lua.LNumber(p.Goods.Iron))
	t.RawSetString("gold", lua.LNumber(p.Goods.Gold))
	L.Push(t)
	return 1
}

// grant(player, {wood=, stone=, iron=, gold=})
func (e *Engine) luaGrant(L *lua.LState) int {
	player := uint8(L.CheckInt(1))
	t := L.CheckTable(2)
	e.host.World().Players.Grant(player, data.Goods{
		Wood:  int(lua.LVAsNumber(t.RawGetString("wood"))),
		Stone: int(lua.LVAsNumber(t.RawGetString("stone"))),
		Iron:  int(lua.LVAsNumber(t.RawGetString("iron"))),
		Gold:  int(lua.LVAsNumber(t.RawGetString("gold"))),
	})
	return 0
}

// ally(p1, p2, ...) -> alliance id
func (e *Engine) luaAlly(L *lua.LState) int {
	players := make([]uint8, 0, L.GetTop())
	for n := 1; n <= L.GetTop(); n++ {
		players = append(players, uint8(L.CheckInt(n)))
	}
	L.Push(lua.LNumber(e.host.World().Alliances.Form(players...)))
	return 1
}

// allied(a, b) -> bool
func (e *Engine) luaAllied(L *lua.LState) int {
	L.Push(lua.LBool(e.host.World().Alliances.Allied(uint8(L.CheckInt(1)), uint8(L.CheckInt(2)))))
	return 1
}

// log(msg)
func (e *Engine) luaLog(L *lua.LState) int {
	e.log.Info(L.CheckString(1), zap.String("source", "lua"))
	return 0
}
