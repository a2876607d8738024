package render

import (
	"image"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"gnn-sim/backend/internal/content"
)

// Color оттенок в канальных долях [0, 1]
type Color struct {
	R float32 `json:"r"`
	G float32 `json:"g"`
	B float32 `json:"b"`
	A float32 `json:"a"`
}

// Clamped возвращает цвет с каналами, ограниченными [0, 1]
func (c Color) Clamped() Color {
	return Color{
		R: mgl32.Clamp(c.R, 0, 1),
		G: mgl32.Clamp(c.G, 0, 1),
		B: mgl32.Clamp(c.B, 0, 1),
		A: mgl32.Clamp(c.A, 0, 1),
	}
}

// DrawCall одна команда отрисовки для внешнего рендерера
type DrawCall struct {
	ObjectID string          `json:"id"`
	Position mgl32.Vec2      `json:"position"` // экранные координаты точки привязки
	Size     image.Point     `json:"size"`
	Texture  content.Texture `json:"-"`
	Rotation float32         `json:"rotation"`
	Pivot    mgl32.Vec2      `json:"pivot"`
	Tint     Color           `json:"tint"`
	Depth    float32         `json:"depth"`
}

// TextureName возвращает имя текстуры или пустую строку
func (d DrawCall) TextureName() string {
	if d.Texture == nil {
		return ""
	}
	return d.Texture.Name()
}

// Viewport преобразование мировых координат в экранные
type Viewport struct {
	Offset mgl32.Vec2 // мировая точка в левом верхнем углу экрана
	Scale  float32    // пикселей на единицу мира
}

// IdentityViewport единицы мира совпадают с пикселями
func IdentityViewport() Viewport {
	return Viewport{Scale: 1}
}

// ToScreen переводит мировую точку в экранную
func (v Viewport) ToScreen(p mgl32.Vec2) mgl32.Vec2 {
	return p.Sub(v.Offset).Mul(v.scale())
}

// ToWorld переводит экранную точку в мировую
func (v Viewport) ToWorld(p mgl32.Vec2) mgl32.Vec2 {
	return p.Mul(1 / v.scale()).Add(v.Offset)
}

func (v Viewport) scale() float32 {
	if v.Scale == 0 {
		return 1
	}
	return v.Scale
}

// Surface получатель команд отрисовки. Ядро никогда не читает из него обратно.
type Surface interface {
	Submit(call DrawCall)
	Viewport() Viewport
}

// Frame записанный кадр отрисовки
type Frame struct {
	Tick  uint64      `json:"tick"`
	Calls []FrameCall `json:"calls"`
}

// FrameCall сериализуемая форма DrawCall
type FrameCall struct {
	DrawCall
	Texture string `json:"texture"`
}

// Recorder поверхность, записывающая команды в кадр
type Recorder struct {
	mu       sync.Mutex
	viewport Viewport
	calls    []FrameCall
}

// NewRecorder создает записывающую поверхность
func NewRecorder(viewport Viewport) *Recorder {
	return &Recorder{viewport: viewport}
}

// Submit записывает команду
func (r *Recorder) Submit(call DrawCall) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, FrameCall{DrawCall: call, Texture: call.TextureName()})
}

// Viewport возвращает преобразование поверхности
func (r *Recorder) Viewport() Viewport {
	return r.viewport
}

// Flush возвращает накопленный кадр и очищает буфер
func (r *Recorder) Flush(tick uint64) Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	frame := Frame{Tick: tick, Calls: r.calls}
	if frame.Calls == nil {
		frame.Calls = []FrameCall{}
	}
	r.calls = nil
	return frame
}

// Len возвращает количество записанных команд
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}
