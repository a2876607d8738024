package world

import (
	"github.com/go-gl/mathgl/mgl32"

	"gnn-sim/backend/internal/render"
)

// FoodGrowthRate прирост здоровья еды в секунду
const FoodGrowthRate = float32(1.0 / 3.0)

const foodDepth = 0

// Food пассивный ресурс, который созревает со временем
type Food struct {
	Object

	health     float32
	radius     float32
	ripeHealth float32
}

// Health возвращает текущее здоровье (зрелость) еды
func (f *Food) Health() float32 {
	return f.health
}

// SetHealth устанавливает здоровье; значение ограничено сверху единицей, снизу не ограничено
func (f *Food) SetHealth(value float32) {
	if value > 1 {
		value = 1
	}
	f.health = value
}

// Ripe сообщает, созрела ли еда: только зрелую еду видят и едят существа
func (f *Food) Ripe() bool {
	return f.health > 0 && f.health >= f.ripeHealth
}

// Radius радиус еды для восприятия и поедания
func (f *Food) Radius() float32 {
	return f.radius
}

// Color двухканальный сигнал (0, Health)
func (f *Food) Color() mgl32.Vec2 {
	return mgl32.Vec2{0, f.health}
}

// Interact выращивает здоровье еды
func (f *Food) Interact(objs []GameObject, secs float32) {
	f.SetHealth(f.health + FoodGrowthRate*secs)
}

// Move вращает еду тем быстрее, чем она зрелее
func (f *Food) Move(secs float32) {
	f.Rotation += f.health * secs
}

// Draw отрисовывает еду с оттенком по зрелости
func (f *Food) Draw(surface render.Surface) {
	rg := f.Color()
	tint := render.Color{R: rg.X(), G: rg.Y(), B: 0, A: f.health + 0.3}
	surface.Submit(f.drawCall(surface.Viewport(), tint, foodDepth))
}
