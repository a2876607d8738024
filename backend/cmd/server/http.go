package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"gnn-sim/backend/internal/game"
	"gnn-sim/backend/internal/telemetry"
	"gnn-sim/backend/internal/transport/ws"
)

// statsResponse ответ /stats
type statsResponse struct {
	Ticker   game.TickerStats            `json:"ticker"`
	Systems  map[string]game.SystemStats `json:"systems"`
	Watchers int                         `json:"watchers"`
}

// newMux собирает HTTP маршруты сервера
func newMux(gt *game.GameTicker, monitor *game.Monitor, tm *telemetry.TelemetryManager, wsServer *ws.Server, logger *log.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	// Поток наблюдения
	mux.HandleFunc("/ws", wsServer.HandleWS)

	// Эндпоинт для общей статистики
	mux.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, http.StatusOK, statsResponse{
			Ticker:   gt.GetStats(),
			Systems:  gt.GetSystemsStats(),
			Watchers: wsServer.ClientCount(),
		})
	})

	// Эндпоинт для проверки здоровья
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		health := monitor.CheckHealth()
		code := http.StatusOK
		if health.Status != game.StatusHealthy {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, logger, code, health)
	})

	// Эндпоинт для анализа узких мест
	mux.HandleFunc("/bottlenecks", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, http.StatusOK, monitor.FindBottlenecks())
	})

	// Эндпоинт для получения алертов
	mux.HandleFunc("/alerts", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, http.StatusOK, monitor.Alerts())
	})

	// Плоские метрики для внешних систем
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, http.StatusOK, monitor.ExportMetrics())
	})

	// Телеметрия: весь буфер или последние записи по типу (?type=creature)
	mux.HandleFunc("/telemetry", func(w http.ResponseWriter, r *http.Request) {
		if objectType := r.URL.Query().Get("type"); objectType != "" {
			writeJSON(w, logger, http.StatusOK, tm.Latest(objectType))
			return
		}
		data, err := tm.GetTelemetryJSON()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, data)
	})

	// Эндпоинт для управления симуляцией
	mux.HandleFunc("/control", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Только POST", http.StatusMethodNotAllowed)
			return
		}

		query := r.URL.Query()
		switch action := query.Get("action"); action {
		case "pause":
			gt.Pause()
			fmt.Fprintf(w, "Игровой цикл приостановлен")
		case "resume":
			gt.Resume()
			fmt.Fprintf(w, "Игровой цикл возобновлен")
		case "spawn":
			x, errX := strconv.ParseFloat(query.Get("x"), 32)
			y, errY := strconv.ParseFloat(query.Get("y"), 32)
			if errX != nil || errY != nil {
				http.Error(w, "Нужны числовые параметры x и y", http.StatusBadRequest)
				return
			}
			if err := gt.SpawnFood(float32(x), float32(y)); err != nil {
				http.Error(w, err.Error(), http.StatusServiceUnavailable)
				return
			}
			fmt.Fprintf(w, "Еда поставлена в очередь")
		case "telemetry_on":
			tm.SetEnabled(true)
			fmt.Fprintf(w, "Телеметрия включена")
		case "telemetry_off":
			tm.SetEnabled(false)
			fmt.Fprintf(w, "Телеметрия выключена")
		case "telemetry_clear":
			tm.Clear()
			fmt.Fprintf(w, "Телеметрия очищена")
		default:
			http.Error(w, "Неизвестное действие. Доступно: pause, resume, spawn, telemetry_on, telemetry_off, telemetry_clear", http.StatusBadRequest)
		}
	})

	return mux
}

func writeJSON(w http.ResponseWriter, logger *log.Logger, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Printf("[HTTP] Ошибка кодирования ответа: %v", err)
	}
}
