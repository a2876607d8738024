package game

import (
	"strings"
	"testing"
)

// fakeStats фиксированный источник статистики
type fakeStats struct {
	ticker  TickerStats
	systems map[string]SystemStats
}

func (f *fakeStats) GetStats() TickerStats                   { return f.ticker }
func (f *fakeStats) GetSystemsStats() map[string]SystemStats { return f.systems }

func healthyStats() *fakeStats {
	return &fakeStats{
		ticker: TickerStats{
			TargetTPS:     20,
			ActualTPS:     20,
			UptimeSeconds: 10,
			AverageTickMs: 1,
			IsRunning:     true,
		},
		systems: map[string]SystemStats{
			"WorldSystem":       {AverageMs: 1, TotalExecutions: 200},
			"NetworkSyncSystem": {AverageMs: 0.5, TotalExecutions: 200},
		},
	}
}

func TestMonitor_CheckHealth(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *TickerStats)
		want   string
	}{
		{"healthy", func(s *TickerStats) {}, StatusHealthy},
		{"stopped", func(s *TickerStats) { s.IsRunning = false }, StatusStopped},
		{"degraded", func(s *TickerStats) { s.ActualTPS = 10 }, StatusDegraded},
		{"paused low tps", func(s *TickerStats) { s.ActualTPS = 0; s.IsPaused = true }, StatusHealthy},
		{"warming up", func(s *TickerStats) { s.ActualTPS = 5; s.UptimeSeconds = 0.5 }, StatusHealthy},
		{"slow ticks", func(s *TickerStats) { s.AverageTickMs = 30 }, StatusWarning},
		{"skipped", func(s *TickerStats) { s.SkippedTicks = 3 }, StatusCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := healthyStats()
			tt.mutate(&src.ticker)
			report := NewMonitor(src, testLogger()).CheckHealth()
			if report.Status != tt.want {
				t.Errorf("status = %s, want %s (issues %v)", report.Status, tt.want, report.Issues)
			}
			if tt.want != StatusHealthy && len(report.Issues) == 0 {
				t.Error("нет описания проблемы")
			}
		})
	}
}

func TestMonitor_CheckHealth_SkipsSinceLastCheck(t *testing.T) {
	src := healthyStats()
	m := NewMonitor(src, testLogger())

	src.ticker.SkippedTicks = 2
	if got := m.CheckHealth().Status; got != StatusCritical {
		t.Fatalf("status = %s, want %s", got, StatusCritical)
	}

	// Новых пропусков нет: состояние восстанавливается
	if got := m.CheckHealth().Status; got != StatusHealthy {
		t.Errorf("status = %s, want %s", got, StatusHealthy)
	}

	src.ticker.SkippedTicks = 5
	report := m.CheckHealth()
	if report.Status != StatusCritical || !strings.Contains(report.Issues[len(report.Issues)-1], "3") {
		t.Errorf("report = %+v, want 3 новых пропуска", report)
	}
}

func TestMonitor_FindBottlenecks(t *testing.T) {
	src := healthyStats()
	// Тик 50ms: порог предупреждения 12.5ms, критический 25ms
	src.systems["WorldSystem"] = SystemStats{AverageMs: 30, MaxMs: 45}
	src.systems["TelemetrySystem"] = SystemStats{AverageMs: 15}

	got := NewMonitor(src, testLogger()).FindBottlenecks()
	if len(got) != 2 {
		t.Fatalf("bottlenecks = %+v", got)
	}
	if got[0].System != "WorldSystem" || got[0].Severity != StatusCritical || got[0].PercentOfTick != 60 {
		t.Errorf("first = %+v", got[0])
	}
	if got[1].System != "TelemetrySystem" || got[1].Severity != StatusWarning {
		t.Errorf("second = %+v", got[1])
	}
	if !strings.Contains(got[0].Recommendation, "существ") {
		t.Errorf("recommendation = %q", got[0].Recommendation)
	}
}

func TestMonitor_CheckAndAlert(t *testing.T) {
	src := healthyStats()
	m := NewMonitor(src, testLogger())

	m.CheckAndAlert()
	if len(m.Alerts()) != 0 {
		t.Fatalf("здоровый сервер не должен давать алертов: %+v", m.Alerts())
	}

	src.ticker.SkippedTicks = 1
	src.systems["WorldSystem"] = SystemStats{AverageMs: 40}
	for i := 0; i < maxAlerts; i++ {
		m.CheckAndAlert()
	}

	alerts := m.Alerts()
	if len(alerts) != maxAlerts {
		t.Errorf("alerts = %d, want %d", len(alerts), maxAlerts)
	}
	if alerts[len(alerts)-1].System != "WorldSystem" || alerts[len(alerts)-2].Level != StatusCritical {
		t.Errorf("последние алерты = %+v", alerts[len(alerts)-2:])
	}
}

func TestMonitor_ExportMetrics(t *testing.T) {
	src := healthyStats()
	src.ticker.World.Creatures = 9
	metrics := NewMonitor(src, testLogger()).ExportMetrics()

	if metrics["game_tps_target"] != 20 || metrics["world_creatures"] != 9 {
		t.Errorf("metrics = %v", metrics)
	}
	if metrics["system_WorldSystem_executions"] != 200 {
		t.Errorf("system metrics = %v", metrics)
	}
}

func TestMonitor_WithGameTicker(t *testing.T) {
	gt := createTestGameTicker(t)
	report := NewMonitor(gt, testLogger()).CheckHealth()
	if report.Status != StatusStopped {
		t.Errorf("status = %s для незапущенного тикера", report.Status)
	}
}
