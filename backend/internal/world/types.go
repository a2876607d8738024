package world

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"

	"gnn-sim/backend/internal/content"
	"gnn-sim/backend/internal/geom"
	"gnn-sim/backend/internal/neural"
	"gnn-sim/backend/internal/render"
)

// GameObject объект мира с набором возможностей Move, Interact и Draw.
//
// Набор вариантов закрыт: реализовать интерфейс могут только типы этого пакета
// (*Creature и *Food).
type GameObject interface {
	// Move меняет позицию и поворот, используя только собственное состояние
	Move(secs float32)
	// Interact получает всю коллекцию объектов (включая себя) и может менять чужое состояние
	Interact(objs []GameObject, secs float32)
	// Draw передает команду отрисовки, не меняя состояние симуляции
	Draw(surface render.Surface)

	base() *Object
}

// Rand источник случайности мира
type Rand interface {
	geom.Rand
	neural.Rand
}

// Object общее состояние объектов мира
type Object struct {
	ID       string
	Position mgl32.Vec2 // мировые координаты
	Rotation float32    // радианы, не приводится к диапазону автоматически
	Texture  content.Texture
}

func (o *Object) base() *Object {
	return o
}

// Base возвращает общее состояние объекта
func Base(obj GameObject) *Object {
	return obj.base()
}

// Origin точка привязки текстуры (центр)
func (o *Object) Origin() mgl32.Vec2 {
	w, h := o.textureSize()
	return mgl32.Vec2{float32(w) / 2, float32(h) / 2}
}

// DrawRect прямоугольник отрисовки: позиция в экранных координатах плюс размер текстуры в пикселях
func (o *Object) DrawRect(viewport render.Viewport) image.Rectangle {
	screen := viewport.ToScreen(o.Position)
	x, y := int(screen.X()), int(screen.Y())
	w, h := o.textureSize()
	return image.Rect(x, y, x+w, y+h)
}

func (o *Object) drawCall(viewport render.Viewport, tint render.Color, depth float32) render.DrawCall {
	rect := o.DrawRect(viewport)
	return render.DrawCall{
		ObjectID: o.ID,
		Position: mgl32.Vec2{float32(rect.Min.X), float32(rect.Min.Y)},
		Size:     rect.Size(),
		Texture:  o.Texture,
		Rotation: o.Rotation,
		Pivot:    o.Origin(),
		Tint:     tint,
		Depth:    depth,
	}
}

func (o *Object) textureSize() (int, int) {
	if o.Texture == nil {
		return 0, 0
	}
	return o.Texture.Size()
}
