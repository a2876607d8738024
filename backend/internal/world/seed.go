package world

import (
	"github.com/go-gl/mathgl/mgl32"

	"gnn-sim/backend/internal/geom"
)

// Сетка начальных существ
var creatureGrid = []float32{300, 400, 500}

// Seeder заселяет мир начальными объектами
type Seeder struct {
	world *World
}

// NewSeeder создает новый экземпляр Seeder
func NewSeeder(world *World) *Seeder {
	return &Seeder{world: world}
}

// SeedAll создает все начальные объекты
func (s *Seeder) SeedAll() error {
	if err := s.CreateCreatures(); err != nil {
		return err
	}
	s.CreateFood()
	return nil
}

// CreateCreatures размещает существ сеткой 3x3 со случайным направлением
func (s *Seeder) CreateCreatures() error {
	f := s.world.factory
	for _, x := range creatureGrid {
		for _, y := range creatureGrid {
			rotation := float32(geom.Unit(f.rng)) * geom.TwoPi
			c, err := f.NewCreature(mgl32.Vec2{x, y}, rotation)
			if err != nil {
				return err
			}
			s.world.Add(c)
		}
	}
	return nil
}

// CreateFood рассыпает еду равномерно в круге вокруг центра мира
func (s *Seeder) CreateFood() {
	f := s.world.factory
	ft := s.world.tuning.Food
	center := s.world.tuning.Bounds.Center()
	for i := 0; i < ft.Count; i++ {
		pos := center.Add(geom.RandomPointInCircle(f.rng, ft.SpawnRadius))
		s.world.Add(f.NewFood(pos))
	}
	s.world.logger.Printf("[World] Создано %d единиц еды в радиусе %.0f от центра", ft.Count, ft.SpawnRadius)
}
