package main

import (
	"image/color"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"gnn-sim/backend/internal/content"
	"gnn-sim/backend/internal/render"
)

// screenSurface собирает команды отрисовки за кадр и выводит их на экран ebiten
type screenSurface struct {
	viewport render.Viewport
	calls    []render.DrawCall
	textures map[string]*ebiten.Image
}

func newScreenSurface(viewport render.Viewport) *screenSurface {
	return &screenSurface{
		viewport: viewport,
		textures: make(map[string]*ebiten.Image),
	}
}

// Submit запоминает команду до Present
func (s *screenSurface) Submit(call render.DrawCall) {
	s.calls = append(s.calls, call)
}

// Viewport возвращает преобразование поверхности
func (s *screenSurface) Viewport() render.Viewport {
	return s.viewport
}

// Present рисует накопленные команды от меньшей глубины к большей и очищает буфер
func (s *screenSurface) Present(screen *ebiten.Image) {
	sortByDepth(s.calls)
	for _, call := range s.calls {
		img := s.texture(call.Texture)
		if img == nil {
			continue
		}
		w, h := img.Bounds().Dx(), img.Bounds().Dy()
		screen.DrawImage(img, drawOptions(call, w, h))
	}
	s.calls = s.calls[:0]
}

// texture лениво строит белую заготовку по имени и размеру; цвет задает оттенок вызова
func (s *screenSurface) texture(tex content.Texture) *ebiten.Image {
	if tex == nil {
		return nil
	}
	if img, ok := s.textures[tex.Name()]; ok {
		return img
	}

	w, h := tex.Size()
	if w <= 0 || h <= 0 {
		return nil
	}
	img := ebiten.NewImage(w, h)
	cx, cy := float32(w)/2, float32(h)/2
	r := min(cx, cy)
	vector.DrawFilledCircle(img, cx, cy, r, color.White, true)
	if tex.Name() == content.NameCreature {
		// Направление взгляда: тёмная черта от центра вдоль оси X
		vector.StrokeLine(img, cx, cy, cx+r, cy, 2, color.Black, true)
	}
	s.textures[tex.Name()] = img
	return img
}

func sortByDepth(calls []render.DrawCall) {
	sort.SliceStable(calls, func(i, j int) bool {
		return calls[i].Depth < calls[j].Depth
	})
}

// drawOptions ставит точку привязки текстуры в Position, поворачивает вокруг нее и масштабирует до Size
func drawOptions(call render.DrawCall, texW, texH int) *ebiten.DrawImageOptions {
	op := &ebiten.DrawImageOptions{}
	sx, sy := 1.0, 1.0
	if texW > 0 && call.Size.X > 0 {
		sx = float64(call.Size.X) / float64(texW)
	}
	if texH > 0 && call.Size.Y > 0 {
		sy = float64(call.Size.Y) / float64(texH)
	}

	op.GeoM.Translate(-float64(call.Pivot.X()), -float64(call.Pivot.Y()))
	op.GeoM.Scale(sx, sy)
	op.GeoM.Rotate(float64(call.Rotation))
	op.GeoM.Translate(float64(call.Position.X()), float64(call.Position.Y()))

	tint := call.Tint.Clamped()
	op.ColorScale.Scale(tint.R, tint.G, tint.B, tint.A)
	op.Filter = ebiten.FilterLinear
	return op
}
