package telemetry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

func TestTelemetryManager_MaxEntries(t *testing.T) {
	tm := NewTelemetryManager(3, log.New(io.Discard, "", 0))

	for i := 0; i < 5; i++ {
		tm.LogObjectState(TelemetryData{
			Tick:       uint64(i),
			ObjectID:   fmt.Sprintf("creature_%d", i),
			ObjectType: TypeCreature,
		})
	}

	if tm.Len() != 3 {
		t.Fatalf("Len = %d, want 3", tm.Len())
	}

	raw, err := tm.GetTelemetryJSON()
	if err != nil {
		t.Fatalf("GetTelemetryJSON: %v", err)
	}
	var entries []TelemetryData
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if entries[0].Tick != 2 || entries[2].Tick != 4 {
		t.Errorf("должны остаться последние записи: %+v", entries)
	}
	if entries[0].Timestamp == 0 {
		t.Error("timestamp должен заполняться автоматически")
	}
}

func TestTelemetryManager_Latest(t *testing.T) {
	tm := NewTelemetryManager(10, log.New(io.Discard, "", 0))
	tm.LogObjectState(TelemetryData{Tick: 1, ObjectID: "creature_1", ObjectType: TypeCreature, Energy: 1})
	tm.LogObjectState(TelemetryData{Tick: 1, ObjectID: "food_1", ObjectType: TypeFood, Health: 0.2})
	tm.LogObjectState(TelemetryData{Tick: 2, ObjectID: "creature_1", ObjectType: TypeCreature, Energy: 0.9})

	latest := tm.Latest(TypeCreature)
	if len(latest) != 1 || latest["creature_1"].Tick != 2 {
		t.Errorf("latest = %+v", latest)
	}
}

func TestTelemetryManager_Disabled(t *testing.T) {
	tm := NewTelemetryManager(10, log.New(io.Discard, "", 0))
	tm.SetEnabled(false)
	tm.LogObjectState(TelemetryData{ObjectID: "food_1", ObjectType: TypeFood})
	if tm.Len() != 0 {
		t.Errorf("выключенная телеметрия не должна писать записи")
	}

	tm.SetEnabled(true)
	tm.LogObjectState(TelemetryData{ObjectID: "food_1", ObjectType: TypeFood})
	tm.Clear()
	if tm.Len() != 0 {
		t.Errorf("Clear не очистил буфер")
	}
}

func TestTelemetryManager_PrintSummary(t *testing.T) {
	var buf bytes.Buffer
	tm := NewTelemetryManager(10, log.New(&buf, "", 0))
	tm.printInterval = 0
	tm.lastPrint = time.Time{}

	tm.LogObjectState(TelemetryData{
		Tick:       3,
		ObjectID:   "creature_7",
		ObjectType: TypeCreature,
		Position:   mgl32.Vec2{1, 2},
		Energy:     0.5,
	})
	tm.PrintSummary()

	out := buf.String()
	for _, want := range []string{"Всего записей: 1", "creature: 1", "creature_7"} {
		if !strings.Contains(out, want) {
			t.Errorf("сводка не содержит %q:\n%s", want, out)
		}
	}
}
