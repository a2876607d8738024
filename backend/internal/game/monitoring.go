package game

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"
)

// Уровни состояния сервера и алертов
const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
	StatusWarning  = "warning"
	StatusCritical = "critical"
	StatusStopped  = "stopped"
)

const (
	maxAlerts = 100
	// Первые секунды после старта TPS еще не усреднился
	tpsWarmup = 2 * time.Second
)

// StatsSource источник статистики для мониторинга; реализуется GameTicker
type StatsSource interface {
	GetStats() TickerStats
	GetSystemsStats() map[string]SystemStats
}

// HealthReport результат проверки состояния
type HealthReport struct {
	Status string      `json:"status"`
	Issues []string    `json:"issues"`
	Stats  TickerStats `json:"stats"`
}

// BottleneckReport система, занимающая заметную долю тика
type BottleneckReport struct {
	System         string  `json:"system"`
	Severity       string  `json:"severity"`
	AverageMs      float64 `json:"average_ms"`
	MaxMs          float64 `json:"max_ms"`
	PercentOfTick  float64 `json:"percent_of_tick"`
	Recommendation string  `json:"recommendation"`
}

// PerformanceAlert представляет предупреждение о производительности
type PerformanceAlert struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	System    string    `json:"system"`
	Message   string    `json:"message"`
}

// Monitor следит за здоровьем игрового цикла
type Monitor struct {
	source StatsSource
	logger *log.Logger

	mu          sync.Mutex
	alerts      []PerformanceAlert
	lastSkipped uint64 // счетчик пропусков на момент прошлой проверки
}

// NewMonitor создает монитор
func NewMonitor(source StatsSource, logger *log.Logger) *Monitor {
	if logger == nil {
		logger = log.Default()
	}
	return &Monitor{source: source, logger: logger}
}

// CheckHealth проверяет TPS, время тика и пропущенные тики.
// Пропуски считаются только новые, с момента предыдущей проверки.
func (m *Monitor) CheckHealth() HealthReport {
	stats := m.source.GetStats()
	report := HealthReport{Status: StatusHealthy, Issues: []string{}, Stats: stats}

	if !stats.IsRunning {
		report.Status = StatusStopped
		report.Issues = append(report.Issues, "Игровой цикл не запущен")
		return report
	}

	targetTPS := float64(stats.TargetTPS)
	warmedUp := stats.UptimeSeconds >= tpsWarmup.Seconds()
	if warmedUp && !stats.IsPaused && stats.ActualTPS < targetTPS*0.9 {
		report.Status = StatusDegraded
		report.Issues = append(report.Issues, fmt.Sprintf("TPS снижен: %.1f/%.0f", stats.ActualTPS, targetTPS))
	}

	targetTickMs := tickMs(stats.TargetTPS)
	if stats.AverageTickMs > targetTickMs/2 {
		report.Status = StatusWarning
		report.Issues = append(report.Issues,
			fmt.Sprintf("Медленные тики: %.2fms (норма: <%.2fms)", stats.AverageTickMs, targetTickMs/2))
	}

	if skipped := m.newSkips(stats.SkippedTicks); skipped > 0 {
		report.Status = StatusCritical
		report.Issues = append(report.Issues, fmt.Sprintf("Пропущено тиков с прошлой проверки: %d", skipped))
	}

	return report
}

func (m *Monitor) newSkips(total uint64) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Счетчик уменьшился: источник перезапущен
	since := total
	if total >= m.lastSkipped {
		since = total - m.lastSkipped
	}
	m.lastSkipped = total
	return since
}

// FindBottlenecks возвращает системы, чье среднее время превышает четверть тика, самые медленные первыми
func (m *Monitor) FindBottlenecks() []BottleneckReport {
	stats := m.source.GetStats()
	targetTickMs := tickMs(stats.TargetTPS)
	warningMs := targetTickMs / 4

	bottlenecks := []BottleneckReport{}
	for name, s := range m.source.GetSystemsStats() {
		severity := ""
		switch {
		case s.AverageMs > warningMs*2:
			severity = StatusCritical
		case s.AverageMs > warningMs:
			severity = StatusWarning
		}
		if severity == "" {
			continue
		}
		bottlenecks = append(bottlenecks, BottleneckReport{
			System:         name,
			Severity:       severity,
			AverageMs:      s.AverageMs,
			MaxMs:          s.MaxMs,
			PercentOfTick:  s.AverageMs / targetTickMs * 100,
			Recommendation: optimizationTip(name),
		})
	}

	sort.Slice(bottlenecks, func(i, j int) bool {
		return bottlenecks[i].PercentOfTick > bottlenecks[j].PercentOfTick
	})
	return bottlenecks
}

// Start периодически проверяет состояние до отмены контекста
func (m *Monitor) Start(ctx context.Context, interval time.Duration) {
	m.logger.Printf("[Monitor] Запуск непрерывного мониторинга с интервалом %v", interval)

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.CheckAndAlert()
			}
		}
	}()
}

// CheckAndAlert превращает проблемы состояния и критические узкие места в алерты
func (m *Monitor) CheckAndAlert() {
	health := m.CheckHealth()
	if health.Status != StatusHealthy {
		m.addAlert(PerformanceAlert{
			Timestamp: time.Now(),
			Level:     health.Status,
			System:    "GameTicker",
			Message:   fmt.Sprintf("Проблемы сервера: %v", health.Issues),
		})
	}

	for _, b := range m.FindBottlenecks() {
		if b.Severity != StatusCritical {
			continue
		}
		m.addAlert(PerformanceAlert{
			Timestamp: time.Now(),
			Level:     StatusCritical,
			System:    b.System,
			Message:   fmt.Sprintf("Система занимает %.1f%% времени тика (%.2fms)", b.PercentOfTick, b.AverageMs),
		})
	}
}

// Alerts возвращает копию накопленных алертов
func (m *Monitor) Alerts() []PerformanceAlert {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PerformanceAlert, len(m.alerts))
	copy(out, m.alerts)
	return out
}

// ExportMetrics плоский набор метрик для внешних систем
func (m *Monitor) ExportMetrics() map[string]float64 {
	stats := m.source.GetStats()
	metrics := map[string]float64{
		"game_tps_actual":           stats.ActualTPS,
		"game_tps_target":           float64(stats.TargetTPS),
		"game_tick_count":           float64(stats.TickCount),
		"game_uptime_seconds":       stats.UptimeSeconds,
		"game_average_tick_time_ms": stats.AverageTickMs,
		"game_max_tick_time_ms":     stats.MaxObservedMs,
		"game_skipped_ticks":        float64(stats.SkippedTicks),
		"game_systems_count":        float64(stats.SystemsCount),
		"world_creatures":           float64(stats.World.Creatures),
		"world_creatures_dormant":   float64(stats.World.Dormant),
		"world_food":                float64(stats.World.Food),
		"world_food_ripe":           float64(stats.World.RipeFood),
	}

	for name, s := range m.source.GetSystemsStats() {
		prefix := fmt.Sprintf("system_%s_", name)
		metrics[prefix+"avg_time_ms"] = s.AverageMs
		metrics[prefix+"max_time_ms"] = s.MaxMs
		metrics[prefix+"executions"] = float64(s.TotalExecutions)
		metrics[prefix+"errors"] = float64(s.Errors)
	}
	return metrics
}

func (m *Monitor) addAlert(alert PerformanceAlert) {
	m.mu.Lock()
	m.alerts = append(m.alerts, alert)
	if len(m.alerts) > maxAlerts {
		m.alerts = m.alerts[len(m.alerts)-maxAlerts:]
	}
	m.mu.Unlock()

	m.logger.Printf("[Monitor] АЛЕРТ [%s] %s: %s", alert.Level, alert.System, alert.Message)
}

func optimizationTip(systemName string) string {
	switch systemName {
	case "WorldSystem":
		return "Рекомендуется: уменьшить количество существ или лучей зрения"
	case "TelemetrySystem":
		return "Рекомендуется: реже снимать телеметрию"
	case "NetworkSyncSystem":
		return "Рекомендуется: увеличить интервал рассылки кадров"
	default:
		return "Рекомендуется: профилировать систему"
	}
}

func tickMs(targetTPS int) float64 {
	if targetTPS <= 0 {
		return 0
	}
	return 1000 / float64(targetTPS)
}
