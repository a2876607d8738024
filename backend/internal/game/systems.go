package game

import (
	"log"
	"time"

	"gnn-sim/backend/internal/render"
	"gnn-sim/backend/internal/telemetry"
	"gnn-sim/backend/internal/world"
)

// Приоритеты систем (меньше = раньше)
const (
	PriorityCommands    = 1
	PriorityWorld       = 5
	PriorityTelemetry   = 50
	PriorityNetworkSync = 100
	PriorityMetrics     = 200
)

// CommandSystem применяет команды, накопленные из других горутин
type CommandSystem struct {
	name       string
	priority   int
	gameTicker *GameTicker
	logger     *log.Logger
}

// NewCommandSystem создает систему применения команд
func NewCommandSystem(gameTicker *GameTicker, logger *log.Logger) *CommandSystem {
	return &CommandSystem{
		name:       "CommandSystem",
		priority:   PriorityCommands,
		gameTicker: gameTicker,
		logger:     logger,
	}
}

// Update выполняет накопленные команды
func (cs *CommandSystem) Update(deltaTime time.Duration) error {
	if n := cs.gameTicker.drainCommands(); n > 0 && cs.logger != nil {
		cs.logger.Printf("[CommandSystem] Применено команд: %d", n)
	}
	return nil
}

// GetName возвращает имя системы
func (cs *CommandSystem) GetName() string {
	return cs.name
}

// GetPriority возвращает приоритет системы
func (cs *CommandSystem) GetPriority() int {
	return cs.priority
}

// WorldSystem система обновления игрового мира
type WorldSystem struct {
	name       string
	priority   int
	world      *world.World
	gameTicker *GameTicker
	logger     *log.Logger

	logEvery uint64
}

// NewWorldSystem создает новую систему обновления мира
func NewWorldSystem(w *world.World, gameTicker *GameTicker, logger *log.Logger) *WorldSystem {
	return &WorldSystem{
		name:       "WorldSystem",
		priority:   PriorityWorld, // Высокий приоритет - обновляем мир сразу после команд
		world:      w,
		gameTicker: gameTicker,
		logger:     logger,
		logEvery:   900,
	}
}

// Update выполняет такт мира: Move для всех, затем Interact для всех
func (ws *WorldSystem) Update(deltaTime time.Duration) error {
	ws.world.Update(float32(deltaTime.Seconds()), world.Input{})

	stats := ws.world.Stats()
	ws.gameTicker.setWorldStats(stats)

	if ws.logger != nil && ws.logEvery > 0 && stats.Tick%ws.logEvery == 0 {
		ws.logger.Printf("[WorldSystem] Обновление мира: существ %d (спят %d), еды %d (зрелой %d)",
			stats.Creatures, stats.Dormant, stats.Food, stats.RipeFood)
	}

	return nil
}

// GetName возвращает имя системы
func (ws *WorldSystem) GetName() string {
	return ws.name
}

// GetPriority возвращает приоритет системы
func (ws *WorldSystem) GetPriority() int {
	return ws.priority
}

// TelemetrySystem записывает состояние объектов мира
type TelemetrySystem struct {
	name      string
	priority  int
	world     *world.World
	telemetry *telemetry.TelemetryManager

	// Запись каждые sampleEvery тактов мира
	sampleEvery uint64
}

// NewTelemetrySystem создает систему телеметрии
func NewTelemetrySystem(w *world.World, tm *telemetry.TelemetryManager, sampleEvery uint64) *TelemetrySystem {
	if sampleEvery == 0 {
		sampleEvery = 1
	}
	return &TelemetrySystem{
		name:        "TelemetrySystem",
		priority:    PriorityTelemetry,
		world:       w,
		telemetry:   tm,
		sampleEvery: sampleEvery,
	}
}

// Update снимает состояние объектов
func (ts *TelemetrySystem) Update(deltaTime time.Duration) error {
	tick := ts.world.Tick()
	if tick%ts.sampleEvery != 0 || !ts.telemetry.Enabled() {
		return nil
	}

	now := time.Now().UnixMilli()
	for _, obj := range ts.world.Objects() {
		ts.telemetry.LogObjectState(objectTelemetry(obj, tick, now))
	}
	ts.telemetry.PrintSummary()

	return nil
}

// GetName возвращает имя системы
func (ts *TelemetrySystem) GetName() string {
	return ts.name
}

// GetPriority возвращает приоритет системы
func (ts *TelemetrySystem) GetPriority() int {
	return ts.priority
}

func objectTelemetry(obj world.GameObject, tick uint64, now int64) telemetry.TelemetryData {
	base := world.Base(obj)
	entry := telemetry.TelemetryData{
		Timestamp: now,
		Tick:      tick,
		ObjectID:  base.ID,
		Position:  base.Position,
		Rotation:  base.Rotation,
	}
	switch o := obj.(type) {
	case *world.Creature:
		entry.ObjectType = telemetry.TypeCreature
		entry.Energy = o.Energy()
		entry.Dormant = o.Dormant()
	case *world.Food:
		entry.ObjectType = telemetry.TypeFood
		entry.Health = o.Health()
	}
	return entry
}

// FrameBroadcaster интерфейс для отправки кадров наблюдателям
type FrameBroadcaster interface {
	BroadcastFrame(frame render.Frame) error
}

// NetworkSyncSystem система синхронизации состояния с наблюдателями
type NetworkSyncSystem struct {
	name          string
	priority      int
	world         *world.World
	logger        *log.Logger
	lastBroadcast time.Time

	// Ограничение частоты отправки
	broadcastInterval time.Duration

	recorder    *render.Recorder
	broadcaster FrameBroadcaster
}

// NewNetworkSyncSystem создает новую систему сетевой синхронизации
func NewNetworkSyncSystem(w *world.World, viewport render.Viewport, logger *log.Logger) *NetworkSyncSystem {
	return &NetworkSyncSystem{
		name:              "NetworkSyncSystem",
		priority:          PriorityNetworkSync, // Отправляем в конце тика
		world:             w,
		logger:            logger,
		broadcastInterval: 50 * time.Millisecond, // 20 кадров в секунду для наблюдателей
		recorder:          render.NewRecorder(viewport),
	}
}

// SetBroadcaster устанавливает получателя кадров
func (nss *NetworkSyncSystem) SetBroadcaster(b FrameBroadcaster) {
	nss.broadcaster = b
}

// SetBroadcastInterval изменяет минимальный интервал между кадрами
func (nss *NetworkSyncSystem) SetBroadcastInterval(d time.Duration) {
	nss.broadcastInterval = d
}

// Update выполняет проход отрисовки и отправляет кадр
func (nss *NetworkSyncSystem) Update(deltaTime time.Duration) error {
	if nss.broadcaster == nil {
		return nil
	}

	now := time.Now()
	if now.Sub(nss.lastBroadcast) < nss.broadcastInterval {
		return nil
	}
	nss.lastBroadcast = now

	nss.world.Draw(nss.recorder)
	frame := nss.recorder.Flush(nss.world.Tick())

	return nss.broadcaster.BroadcastFrame(frame)
}

// GetName возвращает имя системы
func (nss *NetworkSyncSystem) GetName() string {
	return nss.name
}

// GetPriority возвращает приоритет системы
func (nss *NetworkSyncSystem) GetPriority() int {
	return nss.priority
}

// GameMetricsSystem система сбора игровых метрик
type GameMetricsSystem struct {
	name       string
	priority   int
	gameTicker *GameTicker
	logger     *log.Logger

	lastMetricsLog  time.Time
	metricsInterval time.Duration
}

// NewGameMetricsSystem создает новую систему сбора метрик
func NewGameMetricsSystem(gameTicker *GameTicker, logger *log.Logger) *GameMetricsSystem {
	return &GameMetricsSystem{
		name:            "GameMetricsSystem",
		priority:        PriorityMetrics, // Метрики в самом конце
		gameTicker:      gameTicker,
		logger:          logger,
		metricsInterval: 30 * time.Second,
	}
}

// Update собирает и логирует игровые метрики
func (gms *GameMetricsSystem) Update(deltaTime time.Duration) error {
	now := time.Now()
	if now.Sub(gms.lastMetricsLog) < gms.metricsInterval {
		return nil
	}
	gms.lastMetricsLog = now

	stats := gms.gameTicker.GetStats()

	gms.logger.Printf("[GameMetrics] TPS: %.1f/%d, Тиков: %d, Время тика: %.2f мс, Существ: %d, Еды: %d",
		stats.ActualTPS, stats.TargetTPS, stats.TickCount, stats.AverageTickMs,
		stats.World.Creatures, stats.World.Food)

	if stats.IsRunning && stats.ActualTPS < float64(stats.TargetTPS)*0.9 {
		gms.logger.Printf("[GameMetrics] ПРЕДУПРЕЖДЕНИЕ: TPS снижен до %.1f", stats.ActualTPS)
	}

	for name, s := range gms.gameTicker.GetSystemsStats() {
		if s.Errors > 0 {
			gms.logger.Printf("[GameMetrics] Система %s: ошибок %d", name, s.Errors)
		}
	}

	return nil
}

// GetName возвращает имя системы
func (gms *GameMetricsSystem) GetName() string {
	return gms.name
}

// GetPriority возвращает приоритет системы
func (gms *GameMetricsSystem) GetPriority() int {
	return gms.priority
}

// RegisterDefaultSystems регистрирует стандартный набор систем симуляции
func RegisterDefaultSystems(gt *GameTicker, tm *telemetry.TelemetryManager, broadcaster FrameBroadcaster, logger *log.Logger) *NetworkSyncSystem {
	if logger == nil {
		logger = log.Default()
	}

	gt.RegisterSystem(NewCommandSystem(gt, logger))
	gt.RegisterSystem(NewWorldSystem(gt.World(), gt, logger))
	if tm != nil {
		gt.RegisterSystem(NewTelemetrySystem(gt.World(), tm, 10))
	}

	netSync := NewNetworkSyncSystem(gt.World(), render.IdentityViewport(), logger)
	netSync.SetBroadcaster(broadcaster)
	gt.RegisterSystem(netSync)

	gt.RegisterSystem(NewGameMetricsSystem(gt, logger))
	return netSync
}
