package world

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"gnn-sim/backend/internal/geom"
)

// BoundsTuning размеры мира
type BoundsTuning struct {
	Width  float32
	Height float32
}

// CreatureTuning параметры существ
type CreatureTuning struct {
	Radius        float32 // Радиус тела
	Speed         float32 // Максимальная скорость, единиц в секунду
	TurnRate      float32 // Максимальная скорость поворота, радиан в секунду
	SightRange    float32 // Дальность лучей зрения
	FieldOfView   float32 // Угол обзора, радианы
	Eyes          int     // Количество лучей зрения
	Metabolism    float32 // Расход энергии в секунду
	InitialEnergy float32
	MaxEnergy     float32
}

// FoodTuning параметры еды
type FoodTuning struct {
	Radius        float32 // Радиус еды
	InitialHealth float32 // Здоровье новой еды
	RipeHealth    float32 // Порог зрелости: еда видна и съедобна с этого здоровья
	Count         int     // Количество еды при инициализации
	SpawnRadius   float32 // Радиус зоны спавна вокруг центра мира
}

// Tuning объединяет все параметры симуляции
type Tuning struct {
	Bounds   BoundsTuning
	Creature CreatureTuning
	Food     FoodTuning
}

// DefaultTuning возвращает параметры по умолчанию
func DefaultTuning() Tuning {
	return Tuning{
		Bounds: BoundsTuning{
			Width:  800,
			Height: 800,
		},
		Creature: CreatureTuning{
			Radius:        12,
			Speed:         60,
			TurnRate:      3,
			SightRange:    150,
			FieldOfView:   geom.Pi / 2,
			Eyes:          5,
			Metabolism:    0.05,
			InitialEnergy: 1,
			MaxEnergy:     2,
		},
		Food: FoodTuning{
			Radius:        6,
			InitialHealth: 0,
			RipeHealth:    0.2,
			Count:         30,
			SpawnRadius:   350,
		},
	}
}

// Validate проверяет параметры на корректность
func (t Tuning) Validate() error {
	if t.Bounds.Width <= 0 || t.Bounds.Height <= 0 {
		return fmt.Errorf("world bounds must be positive, got %vx%v", t.Bounds.Width, t.Bounds.Height)
	}
	if t.Creature.Eyes <= 0 {
		return fmt.Errorf("creature needs at least one eye, got %d", t.Creature.Eyes)
	}
	if t.Creature.Radius <= 0 || t.Food.Radius <= 0 {
		return fmt.Errorf("radii must be positive")
	}
	if t.Creature.MaxEnergy <= 0 {
		return fmt.Errorf("creature max energy must be positive, got %v", t.Creature.MaxEnergy)
	}
	if t.Food.RipeHealth < 0 || t.Food.RipeHealth > 1 {
		return fmt.Errorf("food ripe health must be in [0, 1], got %v", t.Food.RipeHealth)
	}
	if t.Food.Count < 0 {
		return fmt.Errorf("food count must not be negative, got %d", t.Food.Count)
	}
	return nil
}

// Rect возвращает границы мира
func (b BoundsTuning) Rect() geom.Rect {
	return geom.Rect{Left: 0, Right: b.Width, Bottom: 0, Top: b.Height}
}

// Center возвращает центр мира
func (b BoundsTuning) Center() mgl32.Vec2 {
	return mgl32.Vec2{b.Width / 2, b.Height / 2}
}
