package game

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"gnn-sim/backend/internal/world"
)

// ErrCommandQueueFull возвращается, если очередь команд переполнена
var ErrCommandQueueFull = errors.New("command queue is full")

// ErrTickerRunning возвращается при попытке ручного шага во время работы цикла
var ErrTickerRunning = errors.New("ticker is running")

const commandQueueSize = 256

// Command изменение мира, выполняемое в горутине игрового цикла
type Command func(w *world.World)

// TickSystem интерфейс для всех игровых систем
type TickSystem interface {
	Update(deltaTime time.Duration) error
	GetName() string
	GetPriority() int // Приоритет выполнения (меньше = раньше)
}

// GameTicker основной менеджер игрового цикла.
// Мир обновляется только из горутины цикла (или из Step, когда цикл остановлен);
// остальные горутины передают изменения через очередь команд.
type GameTicker struct {
	// Конфигурация
	targetTPS    int           // Целевая частота тиков в секунду
	tickDuration time.Duration // Длительность одного тика
	maxTickTime  time.Duration // Максимальное время на один тик

	// Состояние
	isRunning    atomic.Bool
	isPaused     atomic.Bool
	startTime    time.Time
	lastTickTime time.Time

	// Компоненты игры
	world    *world.World
	commands chan Command

	// Системы
	systems      []TickSystem
	systemsMutex sync.RWMutex

	// Мониторинг производительности
	perfMonitor *PerformanceMonitor

	// Управление
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	// Метрики, читаются из других горутин
	statsMutex      sync.RWMutex
	tickCount       uint64
	averageTickTime time.Duration
	maxObservedTick time.Duration
	skippedTicks    uint64
	worldStats      world.Stats

	// Логирование
	logger           *log.Logger
	warningThreshold time.Duration
}

// TickerStats статистика игрового цикла
type TickerStats struct {
	TargetTPS       int         `json:"target_tps"`
	ActualTPS       float64     `json:"actual_tps"`
	TickCount       uint64      `json:"tick_count"`
	UptimeSeconds   float64     `json:"uptime_seconds"`
	AverageTickMs   float64     `json:"average_tick_ms"`
	MaxObservedMs   float64     `json:"max_observed_tick_ms"`
	SkippedTicks    uint64      `json:"skipped_ticks"`
	IsRunning       bool        `json:"is_running"`
	IsPaused        bool        `json:"is_paused"`
	SystemsCount    int         `json:"systems_count"`
	PendingCommands int         `json:"pending_commands"`
	World           world.Stats `json:"world"`
}

// PerformanceMonitor отслеживает производительность каждой системы
type PerformanceMonitor struct {
	systemMetrics map[string]*SystemMetrics
	mutex         sync.RWMutex

	// Настройки мониторинга
	metricsWindow     int           // Количество последних тиков для усреднения
	warningThreshold  time.Duration // Порог предупреждения для системы
	criticalThreshold time.Duration // Критический порог
}

// SystemMetrics метрики производительности системы
type SystemMetrics struct {
	Name              string
	LastExecutionTime time.Duration
	AverageTime       time.Duration
	MaxTime           time.Duration
	TotalExecutions   uint64
	Errors            uint64

	// Скользящее окно для вычисления среднего
	recentTimes  []time.Duration
	recentIndex  int
	windowFilled bool
}

// SystemStats снимок метрик системы
type SystemStats struct {
	LastExecutionMs float64 `json:"last_execution_ms"`
	AverageMs       float64 `json:"average_ms"`
	MaxMs           float64 `json:"max_ms"`
	TotalExecutions uint64  `json:"total_executions"`
	Errors          uint64  `json:"errors"`
}

// NewGameTicker создает новый игровой тикер
func NewGameTicker(targetTPS int, w *world.World, logger *log.Logger) *GameTicker {
	if targetTPS <= 0 {
		targetTPS = 30
	}

	if logger == nil {
		logger = log.Default()
	}

	tickDuration := time.Second / time.Duration(targetTPS)
	maxTickTime := tickDuration * 2 // Максимум в 2 раза больше целевого времени

	ctx, cancel := context.WithCancel(context.Background())

	return &GameTicker{
		targetTPS:        targetTPS,
		tickDuration:     tickDuration,
		maxTickTime:      maxTickTime,
		world:            w,
		commands:         make(chan Command, commandQueueSize),
		systems:          make([]TickSystem, 0),
		perfMonitor:      NewPerformanceMonitor(50, tickDuration/4), // Предупреждение при 25% от тика
		ctx:              ctx,
		cancel:           cancel,
		done:             make(chan struct{}),
		logger:           logger,
		warningThreshold: tickDuration / 2, // Предупреждение при 50% от времени тика
	}
}

// NewPerformanceMonitor создает новый монитор производительности
func NewPerformanceMonitor(windowSize int, warningThreshold time.Duration) *PerformanceMonitor {
	if windowSize <= 0 {
		windowSize = 1
	}
	return &PerformanceMonitor{
		systemMetrics:     make(map[string]*SystemMetrics),
		metricsWindow:     windowSize,
		warningThreshold:  warningThreshold,
		criticalThreshold: warningThreshold * 2,
	}
}

// World возвращает мир тикера
func (gt *GameTicker) World() *world.World {
	return gt.world
}

// TickDuration возвращает целевую длительность тика
func (gt *GameTicker) TickDuration() time.Duration {
	return gt.tickDuration
}

// Start запускает игровой цикл
func (gt *GameTicker) Start() error {
	if !gt.isRunning.CompareAndSwap(false, true) {
		return nil // Уже запущен
	}
	if gt.ctx.Err() != nil {
		gt.isRunning.Store(false)
		return context.Canceled
	}

	gt.statsMutex.Lock()
	gt.startTime = time.Now()
	gt.lastTickTime = gt.startTime
	gt.statsMutex.Unlock()

	gt.logger.Printf("[GameTicker] Запуск игрового цикла: %d TPS (тик каждые %v)",
		gt.targetTPS, gt.tickDuration)

	go gt.gameLoop()

	return nil
}

// Stop останавливает игровой цикл и ждет завершения текущего тика
func (gt *GameTicker) Stop() {
	if !gt.isRunning.Load() {
		return
	}

	gt.logger.Printf("[GameTicker] Остановка игрового цикла (выполнено тиков: %d)", gt.GetTickCount())

	gt.cancel()
	<-gt.done
	gt.isRunning.Store(false)
}

// IsRunning сообщает, работает ли цикл
func (gt *GameTicker) IsRunning() bool {
	return gt.isRunning.Load()
}

// Pause приостанавливает обновление мира; команды продолжают применяться
func (gt *GameTicker) Pause() {
	gt.SetPaused(true)
}

// Resume возобновляет обновление мира
func (gt *GameTicker) Resume() {
	gt.SetPaused(false)
}

// SetPaused устанавливает паузу
func (gt *GameTicker) SetPaused(paused bool) {
	if gt.isPaused.Swap(paused) == paused {
		return
	}
	if paused {
		gt.logger.Printf("[GameTicker] Пауза на такте %d", gt.GetTickCount())
	} else {
		gt.logger.Printf("[GameTicker] Возобновление с такта %d", gt.GetTickCount())
	}
}

// IsPaused сообщает, стоит ли цикл на паузе
func (gt *GameTicker) IsPaused() bool {
	return gt.isPaused.Load()
}

// Enqueue ставит команду в очередь; она выполнится в начале ближайшего тика
func (gt *GameTicker) Enqueue(cmd Command) error {
	if cmd == nil {
		return nil
	}
	select {
	case gt.commands <- cmd:
		return nil
	default:
		return ErrCommandQueueFull
	}
}

// SpawnFood ставит в очередь добавление еды в точке мира
func (gt *GameTicker) SpawnFood(x, y float32) error {
	return gt.Enqueue(func(w *world.World) {
		w.SpawnFood(mgl32.Vec2{x, y})
	})
}

// drainCommands выполняет все накопленные команды
func (gt *GameTicker) drainCommands() int {
	n := 0
	for {
		select {
		case cmd := <-gt.commands:
			cmd(gt.world)
			n++
		default:
			return n
		}
	}
}

// RegisterSystem добавляет систему в игровой цикл
func (gt *GameTicker) RegisterSystem(system TickSystem) {
	gt.systemsMutex.Lock()
	defer gt.systemsMutex.Unlock()

	gt.systems = append(gt.systems, system)

	// Сортируем по приоритету (меньше = выше приоритет), порядок регистрации сохраняется
	sort.SliceStable(gt.systems, func(i, j int) bool {
		return gt.systems[i].GetPriority() < gt.systems[j].GetPriority()
	})

	gt.perfMonitor.initSystemMetrics(system.GetName())

	gt.logger.Printf("[GameTicker] Зарегистрирована система: %s (приоритет: %d)",
		system.GetName(), system.GetPriority())
}

// Systems возвращает зарегистрированные системы в порядке выполнения
func (gt *GameTicker) Systems() []TickSystem {
	gt.systemsMutex.RLock()
	defer gt.systemsMutex.RUnlock()
	systems := make([]TickSystem, len(gt.systems))
	copy(systems, gt.systems)
	return systems
}

// gameLoop основной игровой цикл
func (gt *GameTicker) gameLoop() {
	defer close(gt.done)

	ticker := time.NewTicker(gt.tickDuration)
	defer ticker.Stop()

	for {
		select {
		case <-gt.ctx.Done():
			return

		case tickTime := <-ticker.C:
			gt.executeTick(tickTime)
		}
	}
}

// executeTick выполняет один игровой тик
func (gt *GameTicker) executeTick(tickTime time.Time) {
	deltaTime := tickTime.Sub(gt.lastTickTime)
	gt.lastTickTime = tickTime

	// Проверяем, не слишком ли большая задержка между тиками
	if deltaTime > gt.tickDuration*2 {
		gt.logger.Printf("[GameTicker] ПРЕДУПРЕЖДЕНИЕ: Большая задержка между тиками: %v (ожидалось: %v)",
			deltaTime, gt.tickDuration)
		gt.statsMutex.Lock()
		gt.skippedTicks++
		gt.statsMutex.Unlock()
		// Мир не догоняет пропущенное время одним большим шагом
		deltaTime = gt.tickDuration * 2
	}

	if gt.IsPaused() {
		// На паузе мир не обновляется, но команды применяются (попадут в очередь мира)
		gt.drainCommands()
		return
	}

	gt.runTick(deltaTime)
}

// Step синхронно выполняет один тик с заданной длительностью.
// Используется в тестах и при пошаговом управлении, когда цикл не запущен.
func (gt *GameTicker) Step(deltaTime time.Duration) error {
	if gt.IsRunning() {
		return ErrTickerRunning
	}
	gt.runTick(deltaTime)
	return nil
}

func (gt *GameTicker) runTick(deltaTime time.Duration) {
	tickStart := time.Now()

	gt.statsMutex.Lock()
	gt.tickCount++
	gt.statsMutex.Unlock()

	gt.executeAllSystems(deltaTime)

	totalTickTime := time.Since(tickStart)
	gt.updateTickMetrics(totalTickTime)
	gt.checkPerformance(totalTickTime)
}

// executeAllSystems выполняет все зарегистрированные системы
func (gt *GameTicker) executeAllSystems(deltaTime time.Duration) {
	for _, system := range gt.Systems() {
		gt.executeSystem(system, deltaTime)
	}
}

// executeSystem выполняет одну систему с замером времени
func (gt *GameTicker) executeSystem(system TickSystem, deltaTime time.Duration) {
	systemStart := time.Now()
	systemName := system.GetName()

	defer func() {
		if r := recover(); r != nil {
			gt.logger.Printf("[GameTicker] КРИТИЧЕСКАЯ ОШИБКА в системе %s: %v", systemName, r)
			gt.perfMonitor.recordError(systemName)
		}
	}()

	err := system.Update(deltaTime)

	gt.perfMonitor.recordExecution(systemName, time.Since(systemStart))

	if err != nil {
		gt.logger.Printf("[GameTicker] Ошибка в системе %s: %v", systemName, err)
		gt.perfMonitor.recordError(systemName)
	}
}

// setWorldStats сохраняет снимок состояния мира для читателей из других горутин
func (gt *GameTicker) setWorldStats(stats world.Stats) {
	gt.statsMutex.Lock()
	gt.worldStats = stats
	gt.statsMutex.Unlock()
}

// GetStats возвращает статистику игрового цикла
func (gt *GameTicker) GetStats() TickerStats {
	gt.statsMutex.RLock()
	defer gt.statsMutex.RUnlock()

	stats := TickerStats{
		TargetTPS:       gt.targetTPS,
		TickCount:       gt.tickCount,
		AverageTickMs:   durationMs(gt.averageTickTime),
		MaxObservedMs:   durationMs(gt.maxObservedTick),
		SkippedTicks:    gt.skippedTicks,
		IsRunning:       gt.IsRunning(),
		IsPaused:        gt.IsPaused(),
		SystemsCount:    len(gt.Systems()),
		PendingCommands: len(gt.commands),
		World:           gt.worldStats,
	}

	if !gt.startTime.IsZero() {
		uptime := time.Since(gt.startTime)
		stats.UptimeSeconds = uptime.Seconds()
		if uptime > 0 {
			stats.ActualTPS = float64(gt.tickCount) / uptime.Seconds()
		}
	}

	return stats
}

// GetSystemsStats возвращает метрики систем
func (gt *GameTicker) GetSystemsStats() map[string]SystemStats {
	return gt.perfMonitor.GetSystemsStats()
}

// GetTickCount возвращает текущее количество тиков
func (gt *GameTicker) GetTickCount() uint64 {
	gt.statsMutex.RLock()
	defer gt.statsMutex.RUnlock()
	return gt.tickCount
}

// Вспомогательные методы для мониторинга производительности
func (pm *PerformanceMonitor) initSystemMetrics(systemName string) {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	pm.systemMetrics[systemName] = &SystemMetrics{
		Name:        systemName,
		recentTimes: make([]time.Duration, pm.metricsWindow),
	}
}

func (pm *PerformanceMonitor) recordExecution(systemName string, executionTime time.Duration) {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	metrics, exists := pm.systemMetrics[systemName]
	if !exists {
		return
	}

	metrics.LastExecutionTime = executionTime
	metrics.TotalExecutions++

	if executionTime > metrics.MaxTime {
		metrics.MaxTime = executionTime
	}

	// Добавляем в скользящее окно
	metrics.recentTimes[metrics.recentIndex] = executionTime
	metrics.recentIndex = (metrics.recentIndex + 1) % pm.metricsWindow

	if !metrics.windowFilled && metrics.recentIndex == 0 {
		metrics.windowFilled = true
	}

	pm.recalculateAverage(metrics)
}

func (pm *PerformanceMonitor) recordError(systemName string) {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	if metrics, exists := pm.systemMetrics[systemName]; exists {
		metrics.Errors++
	}
}

func (pm *PerformanceMonitor) recalculateAverage(metrics *SystemMetrics) {
	var total time.Duration
	var count int

	limit := pm.metricsWindow
	if !metrics.windowFilled {
		limit = metrics.recentIndex
	}

	for i := 0; i < limit; i++ {
		total += metrics.recentTimes[i]
		count++
	}

	if count > 0 {
		metrics.AverageTime = total / time.Duration(count)
	}
}

// GetSystemsStats возвращает снимок метрик всех систем
func (pm *PerformanceMonitor) GetSystemsStats() map[string]SystemStats {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()

	systemsStats := make(map[string]SystemStats, len(pm.systemMetrics))
	for name, metrics := range pm.systemMetrics {
		systemsStats[name] = SystemStats{
			LastExecutionMs: durationMs(metrics.LastExecutionTime),
			AverageMs:       durationMs(metrics.AverageTime),
			MaxMs:           durationMs(metrics.MaxTime),
			TotalExecutions: metrics.TotalExecutions,
			Errors:          metrics.Errors,
		}
	}

	return systemsStats
}

func (gt *GameTicker) updateTickMetrics(tickTime time.Duration) {
	gt.statsMutex.Lock()
	defer gt.statsMutex.Unlock()

	if tickTime > gt.maxObservedTick {
		gt.maxObservedTick = tickTime
	}

	// Простое скользящее среднее
	if gt.averageTickTime == 0 {
		gt.averageTickTime = tickTime
	} else {
		gt.averageTickTime = (gt.averageTickTime*9 + tickTime) / 10
	}
}

func (gt *GameTicker) checkPerformance(tickTime time.Duration) {
	if tickTime > gt.maxTickTime {
		gt.logger.Printf("[GameTicker] КРИТИЧЕСКОЕ ПРЕДУПРЕЖДЕНИЕ: Тик превысил максимальное время! %v > %v (цель: %v)",
			tickTime, gt.maxTickTime, gt.tickDuration)
	} else if tickTime > gt.warningThreshold {
		gt.logger.Printf("[GameTicker] ПРЕДУПРЕЖДЕНИЕ: Медленный тик: %v (цель: %v)",
			tickTime, gt.tickDuration)
	}
}

func durationMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
