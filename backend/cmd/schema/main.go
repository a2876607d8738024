package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/invopop/jsonschema"

	"gnn-sim/backend/internal/game"
	"gnn-sim/backend/internal/telemetry"
	"gnn-sim/backend/internal/transport/ws"
)

// schemaDoc описание одного документа схемы
type schemaDoc struct {
	title       string
	description string
	value       interface{}
}

var documents = map[string]schemaDoc{
	"frame":     {"Observer Frame", "Кадр отрисовки, рассылаемый наблюдателям по /ws", new(ws.FrameMessage)},
	"ping":      {"Observer Ping", "Запрос времени от наблюдателя", new(ws.PingMessage)},
	"pong":      {"Observer Pong", "Ответ сервера на ping", new(ws.PongMessage)},
	"info":      {"Observer Info", "Информационное сообщение сервера", new(ws.InfoMessage)},
	"stats":     {"Ticker Stats", "Статистика игрового цикла (/stats, gnn.Control/GetStats)", new(game.TickerStats)},
	"telemetry": {"Telemetry Entry", "Запись телеметрии объекта (/telemetry)", new(telemetry.TelemetryData)},
}

func main() {
	var outDir string
	flag.StringVar(&outDir, "out", "", "directory to write the JSON schemas")
	flag.Parse()

	if outDir == "" {
		fmt.Fprintln(os.Stderr, "--out is required")
		os.Exit(1)
	}

	for _, name := range sortedNames() {
		path := filepath.Join(outDir, name+".schema.json")
		if err := writeSchema(path, buildSchema(documents[name])); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write schema %s: %v\n", name, err)
			os.Exit(1)
		}
	}
}

func sortedNames() []string {
	names := make([]string, 0, len(documents))
	for name := range documents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func buildSchema(doc schemaDoc) *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}
	schema := reflector.Reflect(doc.value)
	schema.Title = doc.title
	schema.Description = doc.description
	return schema
}

func writeSchema(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}

	return nil
}
