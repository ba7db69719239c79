// Package app is the interactive particle viewer: an ebiten.Game over a set
// of authored effects, with viewer preferences persisted through gdata.
package app

import (
	"errors"
	"fmt"
	"image/color"
	"time"

	"github.com/decker502/vfx/pkg/components"
	"github.com/decker502/vfx/pkg/config"
	"github.com/decker502/vfx/pkg/vfx"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"
)

// ErrQuit is returned from Update when the user asks to quit.
var ErrQuit = errors.New("quit requested")

// App implements ebiten.Game on top of a Viewer.
type App struct {
	viewer *Viewer
	cfg    config.ViewerConfig
	tick   time.Duration
	log    *zap.Logger

	searchMode bool
}

// NewApp wraps v. tick is the simulated time per Update call.
func NewApp(v *Viewer, cfg config.ViewerConfig, tick time.Duration, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	return &App{viewer: v, cfg: cfg, tick: tick, log: log}
}

// Update handles input and advances the simulation one tick.
func (a *App) Update() error {
	if a.searchMode {
		a.updateSearch()
	} else if err := a.updateNormal(); err != nil {
		return err
	}
	a.viewer.Step(a.tick)
	return nil
}

func (a *App) updateSearch() {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		a.searchMode = false
		return
	}
	q := a.viewer.Filter()
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) && len(q) > 0 {
		a.viewer.SetFilter(q[:len(q)-1])
		return
	}
	runes := ebiten.AppendInputChars(nil)
	if len(runes) == 0 {
		return
	}
	for _, r := range runes {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			q += string(r)
		}
	}
	a.viewer.SetFilter(q)
}

func (a *App) updateNormal() error {
	v := a.viewer
	w, h := float32(a.cfg.Width), float32(a.cfg.Height)
	s := v.Settings()

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyQ), inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ErrQuit
	case inpututil.IsKeyJustPressed(ebiten.KeyF), inpututil.IsKeyJustPressed(ebiten.KeySlash):
		a.searchMode = true
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		v.TogglePause()
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		v.Next(-1)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		v.Next(1)
	case inpututil.IsKeyJustPressed(ebiten.KeyPageUp):
		v.Next(-10)
	case inpututil.IsKeyJustPressed(ebiten.KeyPageDown):
		v.Next(10)
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		v.Clear()
	case inpututil.IsKeyJustPressed(ebiten.KeyT):
		s.Settings().ShowTrails = !s.Settings().ShowTrails
	case inpututil.IsKeyJustPressed(ebiten.KeyD):
		s.Settings().ShowDebug = !s.Settings().ShowDebug
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus):
		s.SetTimeScale(s.Settings().TimeScale / 2)
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual):
		s.SetTimeScale(s.Settings().TimeScale * 2)
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		_, _ = v.Spawn(w/2, h/2)
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		_, _ = v.Spawn(float32(x), float32(y))
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		x, y := ebiten.CursorPosition()
		v.Click(float32(x), float32(y))
	}
	return nil
}

// Draw renders every effect and the overlay.
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{25, 25, 38, 255})

	showTrails := a.viewer.Settings().Settings().ShowTrails
	a.viewer.Effects(func(ec *components.EffectComponent) {
		if showTrails && ec.Buffer != nil && ec.Buffer.HasTrail() {
			drawTrails(screen, ec)
		}
		drawParticles(screen, ec)
	})

	a.drawUI(screen)
}

func drawParticles(screen *ebiten.Image, ec *components.EffectComponent) {
	ec.System.ForEachParticle(func(e *vfx.Entry, pos mgl32.Vec3) {
		c := e.Point.Color
		if ec.Buffer != nil {
			if bc, ok := ec.Buffer.ParticlePointColor(e.Slot); ok {
				c = bc
			}
		}
		r := e.Point.Size.X() / 2
		if r < 0.5 {
			r = 0.5
		}
		vector.DrawFilledCircle(screen, pos.X(), pos.Y(), r, toRGBA(c), true)
	})
}

func drawTrails(screen *ebiten.Image, ec *components.EffectComponent) {
	for slot := 0; slot < ec.Buffer.Capacity(); slot++ {
		trail := ec.Buffer.Trail(slot)
		for i := 1; i < len(trail); i++ {
			p0, p1 := trail[i-1], trail[i]
			c := p1.Color
			c[3] *= float32(i) / float32(len(trail))
			vector.StrokeLine(screen, p0.Position.X(), p0.Position.Y(), p1.Position.X(), p1.Position.Y(), p1.Size, toRGBA(c), true)
		}
	}
}

func toRGBA(c mgl32.Vec4) color.RGBA {
	clamp := func(f float32) uint8 {
		switch {
		case f <= 0:
			return 0
		case f >= 1:
			return 255
		}
		return uint8(f * 255)
	}
	// premultiplied alpha
	a := clamp(c[3])
	af := float32(a) / 255
	return color.RGBA{clamp(c[0] * af), clamp(c[1] * af), clamp(c[2] * af), a}
}

func (a *App) drawUI(screen *ebiten.Image) {
	v := a.viewer
	s := v.Settings().Settings()

	effects, particles := v.Stats()
	lines := []string{
		fmt.Sprintf("Effect: %s (%d/%d)", v.Current(), indexOf(v.Names(), v.Current())+1, len(v.Names())),
		fmt.Sprintf("Live effects: %d  particles: %d  time scale: x%.3g", effects, particles, s.TimeScale),
	}
	if v.Filter() != "" {
		lines = append(lines, fmt.Sprintf("Filter: %q", v.Filter()))
	}
	if a.searchMode {
		lines = append(lines, fmt.Sprintf("SEARCH: %s_", v.Filter()))
	} else if v.Status() != "" {
		lines = append(lines, v.Status())
	}
	for i, l := range lines {
		ebitenutil.DebugPrintAt(screen, l, 10, 10+i*20)
	}

	if s.ShowDebug {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("TPS: %.0f  FPS: %.0f", ebiten.ActualTPS(), ebiten.ActualFPS()), a.cfg.Width-160, 10)
		v.Effects(func(ec *components.EffectComponent) {
			for _, b := range ec.System.ParticleBoxes() {
				half := b.Size.X() / 2
				vector.StrokeRect(screen, b.Center.X()-half, b.Center.Y()-half, b.Size.X(), b.Size.X(), 1, color.RGBA{0, 180, 255, 80}, false)
			}
		})
	}

	controls := []string{
		"Click = Spawn  Right click = Hit test  Space = Spawn at center  R = Clear  P = Pause",
		"<-/-> = Prev/Next  PgUp/PgDn = Jump 10  F or / = Search  T = Trails  D = Debug  -/= = Speed  Q = Quit",
	}
	y := a.cfg.Height - len(controls)*20 - 10
	for i, line := range controls {
		ebitenutil.DebugPrintAt(screen, line, 10, y+i*20)
	}
	if v.Paused() {
		ebitenutil.DebugPrintAt(screen, "PAUSED (P to resume)", a.cfg.Width/2-60, 10)
	}
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

// Layout returns the logical screen size from the viewer config.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.cfg.Width, a.cfg.Height
}

// Viewer returns the wrapped viewer.
func (a *App) Viewer() *Viewer {
	return a.viewer
}
