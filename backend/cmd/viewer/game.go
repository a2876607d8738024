package main

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"gnn-sim/backend/internal/render"
	"gnn-sim/backend/internal/world"
)

// watchedKeys клавиши, состояние которых передается миру
var watchedKeys = map[string]ebiten.Key{
	"space": ebiten.KeySpace,
	"r":     ebiten.KeyR,
	"h":     ebiten.KeyH,
}

// Game реализует ebiten.Game поверх мира симуляции
type Game struct {
	world    *world.World
	surface  *screenSurface
	viewport render.Viewport
	tps      int
	width    int
	height   int
	paused   bool
	hideHUD  bool
}

// NewGame создает игру для мира
func NewGame(w *world.World, viewport render.Viewport, tps int) *Game {
	bounds := w.Tuning().Bounds
	return &Game{
		world:    w,
		surface:  newScreenSurface(viewport),
		viewport: viewport,
		tps:      tps,
		width:    int(bounds.Width * viewport.Scale),
		height:   int(bounds.Height * viewport.Scale),
	}
}

// Update опрашивает ввод и продвигает мир на один тик
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.hideHUD = !g.hideHUD
	}
	if g.paused {
		return nil
	}

	x, y := ebiten.CursorPosition()
	pointer := world.PointerState{
		X:                x,
		Y:                y,
		Left:             ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		Right:            ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight),
		LeftJustPressed:  inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		RightJustPressed: inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight),
	}
	keys := make(world.KeyState, len(watchedKeys))
	for name, key := range watchedKeys {
		keys[name] = ebiten.IsKeyPressed(key)
	}

	g.world.Update(1/float32(g.tps), buildInput(pointer, keys, g.viewport))
	return nil
}

// buildInput переводит экранную позицию указателя в мировые координаты
func buildInput(pointer world.PointerState, keys world.KeyState, viewport render.Viewport) world.Input {
	return world.Input{
		Pointer:      pointer,
		Keys:         keys,
		PointerWorld: viewport.ToWorld(mgl32.Vec2{float32(pointer.X), float32(pointer.Y)}),
	}
}

// Draw выполняет проход отрисовки мира и выводит HUD
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 0x10, G: 0x14, B: 0x1c, A: 0xff})

	g.world.Draw(g.surface)
	g.surface.Present(screen)

	if g.hideHUD {
		return
	}
	stats := g.world.Stats()
	status := fmt.Sprintf("tick %d  creatures %d (dormant %d)  food %d (ripe %d)",
		stats.Tick, stats.Creatures, stats.Dormant, stats.Food, stats.RipeFood)
	text.Draw(screen, status, basicfont.Face7x13, 6, 16, color.White)
	help := "LMB: food  SPACE: pause  H: hide HUD"
	if g.paused {
		help += "  [PAUSED]"
	}
	text.Draw(screen, help, basicfont.Face7x13, 6, 32, color.White)
	text.Draw(screen, fmt.Sprintf("TPS %.1f", ebiten.ActualTPS()), basicfont.Face7x13, 6, 48, color.White)
}

// Layout возвращает логический размер экрана, равный размеру мира
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}
