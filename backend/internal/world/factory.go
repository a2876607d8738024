package world

import (
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl32"

	"gnn-sim/backend/internal/content"
	"gnn-sim/backend/internal/neural"
)

// Factory создает объекты мира с уникальными идентификаторами
type Factory struct {
	tuning Tuning
	rng    Rand
	logger *log.Logger

	creatureTexture content.Texture
	foodTexture     content.Texture

	nextCreature int
	nextFood     int
}

// NewFactory создает новый экземпляр Factory
func NewFactory(tuning Tuning, rng Rand, logger *log.Logger) *Factory {
	if logger == nil {
		logger = log.Default()
	}
	return &Factory{
		tuning: tuning,
		rng:    rng,
		logger: logger,
	}
}

// UseContent назначает текстуры для новых объектов
func (f *Factory) UseContent(res *content.Content) {
	if res == nil {
		return
	}
	f.creatureTexture = res.Creature
	f.foodTexture = res.Food
}

// NewCreature создает существо со случайной схемой принятия решений
func (f *Factory) NewCreature(position mgl32.Vec2, rotation float32) (*Creature, error) {
	ct := f.tuning.Creature
	brain, err := neural.NewRandomCircuit(f.rng, SensorCount(ct.Eyes), outputCount)
	if err != nil {
		return nil, fmt.Errorf("creature brain: %w", err)
	}

	f.nextCreature++
	c := &Creature{
		Object: Object{
			ID:       fmt.Sprintf("creature_%d", f.nextCreature),
			Position: position,
			Rotation: rotation,
			Texture:  f.creatureTexture,
		},
		radius:  ct.Radius,
		energy:  ct.InitialEnergy,
		tuning:  ct,
		bounds:  f.tuning.Bounds.Rect(),
		brain:   brain,
		sensors: make([]float32, SensorCount(ct.Eyes)),
	}

	f.logger.Printf("[World] Создано существо %s в координатах (%.2f, %.2f)",
		c.ID, position.X(), position.Y())
	return c, nil
}

// NewFood создает еду в заданной точке
func (f *Factory) NewFood(position mgl32.Vec2) *Food {
	f.nextFood++
	food := &Food{
		Object: Object{
			ID:       fmt.Sprintf("food_%d", f.nextFood),
			Position: position,
			Texture:  f.foodTexture,
		},
		radius:     f.tuning.Food.Radius,
		ripeHealth: f.tuning.Food.RipeHealth,
	}
	food.SetHealth(f.tuning.Food.InitialHealth)
	return food
}
