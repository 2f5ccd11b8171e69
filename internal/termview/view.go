// Package termview draws the isometric map and its entities on a terminal
// screen and turns key presses into engine commands.
package termview

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/isorts/sim/internal/component"
	"github.com/isorts/sim/internal/core/ecs"
	coresys "github.com/isorts/sim/internal/core/system"
	"github.com/isorts/sim/internal/engine"
	"github.com/isorts/sim/internal/world"
	"go.uber.org/zap"
)

// Enqueuer accepts commands from any goroutine.
type Enqueuer interface {
	Enqueue(cmd engine.Command) error
}

type action int

const (
	actNone action = iota
	actQuit
	actPause
	actFaster
	actSlower
	actRedraw
)

const eventBuffer = 64

var (
	styleWalkable = tcell.StyleDefault.Foreground(tcell.ColorDarkGreen)
	styleBlocked  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleBuilding = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleStatus   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true)
)

var playerColors = []tcell.Color{
	tcell.ColorAqua, tcell.ColorRed, tcell.ColorFuchsia, tcell.ColorOrange,
}

// View is a presentation system rendering one frame per tick. Key events
// are read on a poller goroutine and handled in Update, so the world is
// only touched from the tick goroutine.
type View struct {
	screen   tcell.Screen
	commands Enqueuer
	quit     func()
	events   chan tcell.Event
	rendered *ecs.Query
	resume   float64
	log      *zap.Logger
}

// New creates a view on an initialized screen. quit is called from the
// tick goroutine when the user asks to leave.
func New(w *world.State, screen tcell.Screen, commands Enqueuer, quit func(), log *zap.Logger) *View {
	if log == nil {
		log = zap.NewNop()
	}
	if quit == nil {
		quit = func() {}
	}
	return &View{
		screen:   screen,
		commands: commands,
		quit:     quit,
		events:   make(chan tcell.Event, eventBuffer),
		rendered: w.NewQuery(w.Renderables, w.Positions),
		resume:   1,
		log:      log,
	}
}

// Start polls the screen for events until it is finalized.
func (v *View) Start() {
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case v.events <- ev:
			default:
				v.log.Debug("dropped terminal event")
			}
		}
	}()
}

func (v *View) Phase() coresys.Phase { return coresys.PhasePresentation }

func (v *View) Update(w *world.State) {
	v.rendered.Entered()
	v.rendered.Exited()
	for {
		select {
		case ev := <-v.events:
			v.apply(w, classify(ev))
			continue
		default:
		}
		break
	}
	v.draw(w)
}

func classify(ev tcell.Event) action {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		return actRedraw
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return actQuit
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return actQuit
			case ' ', 'p':
				return actPause
			case '+', '=':
				return actFaster
			case '-':
				return actSlower
			}
		}
	}
	return actNone
}

func (v *View) apply(w *world.State, a action) {
	switch a {
	case actQuit:
		v.quit()
	case actRedraw:
		v.screen.Sync()
	case actPause:
		if w.GameSpeed > 0 {
			v.resume = w.GameSpeed
			v.setSpeed(0)
		} else {
			v.setSpeed(v.resume)
		}
	case actFaster:
		if w.GameSpeed > 0 {
			v.setSpeed(math.Min(w.GameSpeed*2, 16))
		}
	case actSlower:
		if w.GameSpeed > 0 {
			v.setSpeed(math.Max(w.GameSpeed/2, 0.125))
		}
	}
}

func (v *View) setSpeed(speed float64) {
	if err := v.commands.Enqueue(engine.Command{Kind: engine.CmdSetSpeed, Speed: speed}); err != nil {
		v.log.Warn("speed change dropped", zap.Error(err))
	}
}

// Project maps an isometric position to a screen cell on a map of the
// given size. Distinct tiles land on distinct cells.
func Project(i, j float64, size int) (col, row int) {
	return int(math.Floor(i-j)) + size, int(math.Floor((i + j) / 2))
}

func (v *View) draw(w *world.State) {
	v.screen.Clear()
	size := w.Map.Size()
	grid := w.Map.Grid()
	for j := 0; j < size; j++ {
		for i := 0; i < size; i++ {
			col, row := Project(float64(i), float64(j), size)
			if grid[j*size+i] == 0 {
				v.screen.SetContent(col, row, '·', nil, styleWalkable)
			} else {
				v.screen.SetContent(col, row, '▒', nil, styleBlocked)
			}
		}
	}
	for _, e := range v.rendered.Entities() {
		pos := w.Positions.Get(e)
		col, row := Project(pos.I, pos.J, size)
		r, style := glyph(w, e)
		v.screen.SetContent(col, row, r, nil, style)
	}
	v.status(w, 2*size+1)
	v.screen.Show()
}

func glyph(w *world.State, e ecs.EntityID) (rune, tcell.Style) {
	style := tcell.StyleDefault
	if o, ok := w.Owners.Lookup(e); ok {
		style = style.Foreground(playerColors[int(o.Player)%len(playerColors)])
	}
	if w.RenderableBuildings.Has(e) {
		return '#', styleBuilding
	}
	if mv, ok := w.Movables.Lookup(e); ok {
		return arrow(mv.Direction), style.Bold(true)
	}
	return '@', style
}

func arrow(d component.Direction) rune {
	switch d {
	case component.DirN:
		return '↑'
	case component.DirNE:
		return '↗'
	case component.DirE:
		return '→'
	case component.DirSE:
		return '↘'
	case component.DirS:
		return '↓'
	case component.DirSW:
		return '↙'
	case component.DirW:
		return '←'
	case component.DirNW:
		return '↖'
	}
	return '@'
}

func (v *View) status(w *world.State, row int) {
	_, height := v.screen.Size()
	if height > 0 && row >= height {
		row = height - 1
	}
	speed := fmt.Sprintf("x%g", w.GameSpeed)
	if w.GameSpeed == 0 {
		speed = "paused"
	}
	line := fmt.Sprintf(" tick %d  entities %d  %s  [space] pause [+/-] speed [q] quit ",
		w.Time.Tick, v.rendered.Len(), speed)
	col := 0
	for _, r := range line {
		v.screen.SetContent(col, row, r, nil, styleStatus)
		col++
	}
}
