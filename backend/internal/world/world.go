package world

import (
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl32"

	"gnn-sim/backend/internal/content"
	"gnn-sim/backend/internal/render"
)

// Phase фаза текущего обновления мира
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseMove
	PhaseInteract
	PhaseDraw
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseMove:
		return "move"
	case PhaseInteract:
		return "interact"
	case PhaseDraw:
		return "draw"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// PointerState состояние указателя в экранных координатах
type PointerState struct {
	X, Y             int
	Left             bool
	Right            bool
	LeftJustPressed  bool
	RightJustPressed bool
}

// KeyState набор нажатых клавиш
type KeyState map[string]bool

// Down проверяет, нажата ли клавиша
func (k KeyState) Down(key string) bool {
	return k[key]
}

// Input снимок ввода за один кадр
type Input struct {
	Pointer      PointerState
	Keys         KeyState
	PointerWorld mgl32.Vec2 // позиция указателя в мировых координатах
}

// Stats сводка по объектам мира
type Stats struct {
	Tick      uint64 `json:"tick"`
	Objects   int    `json:"objects"`
	Creatures int    `json:"creatures"`
	Dormant   int    `json:"dormant"`
	Food      int    `json:"food"`
	RipeFood  int    `json:"ripe_food"`
	Pending   int    `json:"pending"`
}

// World владеет упорядоченной коллекцией объектов и выполняет такт симуляции.
// Мир однопоточный: Update, Draw и Add вызываются из одной горутины.
type World struct {
	tuning  Tuning
	factory *Factory
	logger  *log.Logger

	objects []GameObject
	pending []GameObject

	phase Phase
	tick  uint64
}

// NewWorld создает пустой мир
func NewWorld(tuning Tuning, rng Rand, logger *log.Logger) (*World, error) {
	if err := tuning.Validate(); err != nil {
		return nil, fmt.Errorf("world tuning: %w", err)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &World{
		tuning:  tuning,
		factory: NewFactory(tuning, rng, logger),
		logger:  logger,
	}, nil
}

// Tuning возвращает параметры мира
func (w *World) Tuning() Tuning {
	return w.tuning
}

// Factory возвращает фабрику объектов мира
func (w *World) Factory() *Factory {
	return w.factory
}

// Phase возвращает текущую фазу
func (w *World) Phase() Phase {
	return w.phase
}

// Tick возвращает количество выполненных обновлений
func (w *World) Tick() uint64 {
	return w.tick
}

// Objects возвращает копию коллекции объектов в порядке обновления
func (w *World) Objects() []GameObject {
	out := make([]GameObject, len(w.objects))
	copy(out, w.objects)
	return out
}

// Add ставит объект в очередь; он появится в мире на границе следующего Update
func (w *World) Add(obj GameObject) {
	if obj == nil {
		return
	}
	w.pending = append(w.pending, obj)
}

// SpawnFood ставит в очередь новую еду в точке мира
func (w *World) SpawnFood(position mgl32.Vec2) *Food {
	food := w.factory.NewFood(position)
	w.Add(food)
	w.logger.Printf("[World] Еда %s добавлена в очередь (%.2f, %.2f)", food.ID, position.X(), position.Y())
	return food
}

// Update выполняет один такт: применяет ввод и очередь добавлений,
// затем Move для всех объектов, затем Interact для всех объектов.
func (w *World) Update(secs float32, input Input) {
	defer func() { w.phase = PhaseIdle }()

	w.handleInput(input)
	w.flushPending()

	w.phase = PhaseMove
	for _, obj := range w.objects {
		obj.Move(secs)
	}

	w.phase = PhaseInteract
	for _, obj := range w.objects {
		obj.Interact(w.objects, secs)
	}

	w.tick++
}

// Draw передает команды отрисовки всех объектов; состояние мира не меняется
func (w *World) Draw(surface render.Surface) {
	prev := w.phase
	w.phase = PhaseDraw
	defer func() { w.phase = prev }()

	for _, obj := range w.objects {
		obj.Draw(surface)
	}
}

// Stats подсчитывает объекты по типам
func (w *World) Stats() Stats {
	s := Stats{Tick: w.tick, Objects: len(w.objects), Pending: len(w.pending)}
	for _, obj := range w.objects {
		switch o := obj.(type) {
		case *Creature:
			s.Creatures++
			if o.Dormant() {
				s.Dormant++
			}
		case *Food:
			s.Food++
			if o.Ripe() {
				s.RipeFood++
			}
		}
	}
	return s
}

// Initialize назначает ресурсы и заселяет мир начальными объектами
func (w *World) Initialize(res *content.Content) error {
	w.factory.UseContent(res)
	if err := NewSeeder(w).SeedAll(); err != nil {
		return fmt.Errorf("seed world: %w", err)
	}
	w.flushPending()
	w.logger.Printf("[World] Мир инициализирован: %d объектов", len(w.objects))
	return nil
}

func (w *World) handleInput(input Input) {
	if input.Pointer.LeftJustPressed {
		w.SpawnFood(input.PointerWorld)
	}
}

func (w *World) flushPending() {
	if len(w.pending) == 0 {
		return
	}
	w.objects = append(w.objects, w.pending...)
	w.pending = w.pending[:0]
}
