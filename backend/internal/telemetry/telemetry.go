package telemetry

import (
	"encoding/json"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// Типы объектов
const (
	TypeCreature = "creature"
	TypeFood     = "food"
)

// TelemetryData структура для сбора телеметрии объекта
type TelemetryData struct {
	Timestamp  int64      `json:"timestamp"`        // Время в миллисекундах
	Tick       uint64     `json:"tick"`             // Номер такта симуляции
	ObjectID   string     `json:"object_id"`        // ID объекта
	ObjectType string     `json:"object_type"`      // Тип объекта (creature, food)
	Position   mgl32.Vec2 `json:"position"`         // Позиция [x, y]
	Rotation   float32    `json:"rotation"`         // Поворот, радианы
	Health     float32    `json:"health,omitempty"` // Зрелость еды
	Energy     float32    `json:"energy,omitempty"` // Энергия существа
	Dormant    bool       `json:"dormant,omitempty"`
}

// TelemetryManager управляет сбором и выводом телеметрии
type TelemetryManager struct {
	enabled    bool
	data       []TelemetryData
	mutex      sync.RWMutex
	maxEntries int
	logger     *log.Logger

	// Счетчики для статистики
	counters      map[string]int
	lastPrint     time.Time
	printInterval time.Duration
}

// NewTelemetryManager создает новый менеджер телеметрии
func NewTelemetryManager(maxEntries int, logger *log.Logger) *TelemetryManager {
	if maxEntries <= 0 {
		maxEntries = 200
	}
	if logger == nil {
		logger = log.Default()
	}
	return &TelemetryManager{
		enabled:       true,
		data:          make([]TelemetryData, 0, maxEntries),
		maxEntries:    maxEntries,
		logger:        logger,
		counters:      make(map[string]int),
		lastPrint:     time.Now(),
		printInterval: 10 * time.Second,
	}
}

// LogObjectState записывает состояние объекта
func (tm *TelemetryManager) LogObjectState(entry TelemetryData) {
	tm.mutex.Lock()
	defer tm.mutex.Unlock()

	if !tm.enabled {
		return
	}

	if entry.Timestamp == 0 {
		entry.Timestamp = time.Now().UnixMilli()
	}
	tm.data = append(tm.data, entry)

	// Ограничиваем размер буфера
	if over := len(tm.data) - tm.maxEntries; over > 0 {
		tm.data = append(tm.data[:0], tm.data[over:]...)
	}

	tm.counters[entry.ObjectType]++
}

// PrintSummary выводит сводку телеметрии не чаще printInterval
func (tm *TelemetryManager) PrintSummary() {
	tm.mutex.Lock()
	defer tm.mutex.Unlock()

	if !tm.enabled {
		return
	}

	now := time.Now()
	if now.Sub(tm.lastPrint) < tm.printInterval {
		return
	}

	tm.logger.Printf("[Telemetry] Всего записей: %d", len(tm.data))

	keys := make([]string, 0, len(tm.counters))
	for key := range tm.counters {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		tm.logger.Printf("[Telemetry] %s: %d", key, tm.counters[key])
	}

	tm.printRecentCreatureData()

	// Сброс счетчиков
	tm.counters = make(map[string]int)
	tm.lastPrint = now
}

// printRecentCreatureData выводит последние состояния существ
func (tm *TelemetryManager) printRecentCreatureData() {
	latest := tm.latestByObject(TypeCreature)
	for _, id := range sortedIDs(latest) {
		data := latest[id]
		tm.logger.Printf("[Telemetry] Существо %s [такт %d]: позиция (%.1f, %.1f), энергия %.2f, спит: %v",
			id, data.Tick, data.Position.X(), data.Position.Y(), data.Energy, data.Dormant)
	}
}

// Latest возвращает последнее записанное состояние каждого объекта заданного типа
func (tm *TelemetryManager) Latest(objectType string) map[string]TelemetryData {
	tm.mutex.RLock()
	defer tm.mutex.RUnlock()
	return tm.latestByObject(objectType)
}

func (tm *TelemetryManager) latestByObject(objectType string) map[string]TelemetryData {
	out := make(map[string]TelemetryData)
	for i := len(tm.data) - 1; i >= 0; i-- {
		entry := tm.data[i]
		if entry.ObjectType != objectType {
			continue
		}
		if _, exists := out[entry.ObjectID]; !exists {
			out[entry.ObjectID] = entry
		}
	}
	return out
}

// Len возвращает количество записей в буфере
func (tm *TelemetryManager) Len() int {
	tm.mutex.RLock()
	defer tm.mutex.RUnlock()
	return len(tm.data)
}

// GetTelemetryJSON возвращает телеметрию в JSON формате
func (tm *TelemetryManager) GetTelemetryJSON() (string, error) {
	tm.mutex.RLock()
	defer tm.mutex.RUnlock()

	jsonData, err := json.MarshalIndent(tm.data, "", "  ")
	if err != nil {
		return "", err
	}

	return string(jsonData), nil
}

// SetEnabled включает/выключает телеметрию
func (tm *TelemetryManager) SetEnabled(enabled bool) {
	tm.mutex.Lock()
	defer tm.mutex.Unlock()

	tm.enabled = enabled
	tm.logger.Printf("[Telemetry] Телеметрия %s", map[bool]string{true: "включена", false: "выключена"}[enabled])
}

// Enabled сообщает, включена ли телеметрия
func (tm *TelemetryManager) Enabled() bool {
	tm.mutex.RLock()
	defer tm.mutex.RUnlock()
	return tm.enabled
}

// Clear очищает все данные телеметрии
func (tm *TelemetryManager) Clear() {
	tm.mutex.Lock()
	defer tm.mutex.Unlock()

	tm.data = tm.data[:0]
	tm.counters = make(map[string]int)
	tm.logger.Println("[Telemetry] Данные телеметрии очищены")
}

func sortedIDs(m map[string]TelemetryData) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
