package world

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"gnn-sim/backend/internal/geom"
	"gnn-sim/backend/internal/neural"
	"gnn-sim/backend/internal/render"
)

// Выходы схемы принятия решений
const (
	outputTurn = iota
	outputThrust
	outputCount
)

// Сигналы лучей зрения
const (
	sightNothing  = 0
	sightFood     = 1
	sightCreature = -1
)

const creatureDepth = 0.5

// Creature активный агент, управляемый вычислительной схемой
type Creature struct {
	Object

	radius float32
	energy float32
	eaten  int

	tuning CreatureTuning
	bounds geom.Rect
	brain  *neural.Circuit

	// Намерение, вычисленное в Interact и применяемое в следующем Move
	turn   float32
	thrust float32

	sensors []float32
}

// SensorCount количество входов схемы для заданного числа глаз
func SensorCount(eyes int) int {
	// Лучи зрения + уровень энергии + направление на ближайшую еду
	return eyes + 2
}

// Radius радиус тела существа
func (c *Creature) Radius() float32 {
	return c.radius
}

// Energy текущая энергия
func (c *Creature) Energy() float32 {
	return c.energy
}

// Eaten количество съеденной еды
func (c *Creature) Eaten() int {
	return c.eaten
}

// Dormant существо без энергии не двигается и не воспринимает мир
func (c *Creature) Dormant() bool {
	return c.energy <= 0
}

// Intent возвращает поворот и тягу, которые будут применены в следующем Move
func (c *Creature) Intent() (turn, thrust float32) {
	return c.turn, c.thrust
}

// Sensors возвращает копию последних показаний сенсоров
func (c *Creature) Sensors() []float32 {
	out := make([]float32, len(c.sensors))
	copy(out, c.sensors)
	return out
}

// Bounds ограничивающий прямоугольник тела
func (c *Creature) Bounds() geom.Rect {
	return geom.RectAround(c.Position, 2*c.radius, 2*c.radius)
}

// Move применяет намерение: поворот, движение вперед и расход энергии
func (c *Creature) Move(secs float32) {
	if c.Dormant() {
		return
	}

	c.Rotation += c.turn * c.tuning.TurnRate * secs
	step := geom.CreateVector(c.Rotation, c.thrust*c.tuning.Speed*secs)
	next := c.Position.Add(step)
	c.Position = mgl32.Vec2{
		mgl32.Clamp(next.X(), c.bounds.Left, c.bounds.Right),
		mgl32.Clamp(next.Y(), c.bounds.Bottom, c.bounds.Top),
	}

	c.energy -= c.tuning.Metabolism * secs
}

// Interact воспринимает мир, вычисляет намерение и поедает зрелую еду в радиусе досягаемости
func (c *Creature) Interact(objs []GameObject, secs float32) {
	if c.Dormant() {
		c.turn, c.thrust = 0, 0
		return
	}

	c.sense(objs)
	if err := c.brain.SetInputs(c.sensors); err != nil {
		panic(fmt.Errorf("creature %s: %w", c.ID, err))
	}
	c.turn = c.brain.Output(outputTurn)
	c.thrust = (c.brain.Output(outputThrust) + 1) / 2

	c.eat(objs)
}

// Draw отрисовывает существо; оттенок зависит от запаса энергии
func (c *Creature) Draw(surface render.Surface) {
	level := c.energyLevel()
	tint := render.Color{R: 1 - level, G: level, B: 0.5, A: 1}
	if c.Dormant() {
		tint.A = 0.4
	}
	surface.Submit(c.drawCall(surface.Viewport(), tint, creatureDepth))
}

func (c *Creature) sense(objs []GameObject) {
	eyes := c.tuning.Eyes
	for i := 0; i < eyes; i++ {
		end := geom.GetRelative(c.Position, c.Rotation+c.eyeOffset(i), c.tuning.SightRange)
		c.sensors[i] = c.look(end, objs)
	}

	c.sensors[eyes] = c.energyLevel()
	c.sensors[eyes+1] = c.nearestFoodBearing(objs)
}

// eyeOffset смещение i-го луча относительно направления взгляда
func (c *Creature) eyeOffset(i int) float32 {
	eyes := c.tuning.Eyes
	if eyes == 1 {
		return 0
	}
	fov := c.tuning.FieldOfView
	return -fov/2 + fov*float32(i)/float32(eyes-1)
}

// look возвращает сигнал луча: еда важнее других существ
func (c *Creature) look(end mgl32.Vec2, objs []GameObject) float32 {
	signal := float32(sightNothing)
	for _, obj := range objs {
		switch o := obj.(type) {
		case *Food:
			if o.Ripe() && geom.LineIntersectsCircle(c.Position, end, o.Position, o.Radius()) {
				return sightFood
			}
		case *Creature:
			if o != c && geom.LineIntersectsRectangle(c.Position, end, o.Bounds()) {
				signal = sightCreature
			}
		}
	}
	return signal
}

// nearestFoodBearing относительное направление на ближайшую зрелую еду в (-1, 1]
func (c *Creature) nearestFoodBearing(objs []GameObject) float32 {
	best := float32(math.MaxFloat32)
	bearing := float32(0)
	for _, obj := range objs {
		food, ok := obj.(*Food)
		if !ok || !food.Ripe() {
			continue
		}
		d := geom.Distance(c.Position, food.Position)
		if d < best {
			best = d
			bearing = geom.RadRangePi(geom.Angle(c.Position, food.Position)-c.Rotation) / geom.Pi
		}
	}
	return bearing
}

func (c *Creature) eat(objs []GameObject) {
	for _, obj := range objs {
		food, ok := obj.(*Food)
		if !ok || !food.Ripe() {
			continue
		}
		if geom.Distance(c.Position, food.Position) > c.radius+food.Radius() {
			continue
		}

		c.energy = mgl32.Clamp(c.energy+food.Health(), 0, c.tuning.MaxEnergy)
		food.SetHealth(0)
		c.eaten++
	}
}

func (c *Creature) energyLevel() float32 {
	return mgl32.Clamp(c.energy/c.tuning.MaxEnergy, 0, 1)
}
