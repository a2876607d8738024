package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuildSchema_AllDocuments(t *testing.T) {
	for _, name := range sortedNames() {
		t.Run(name, func(t *testing.T) {
			doc := documents[name]
			schema := buildSchema(doc)
			if schema == nil {
				t.Fatal("nil schema")
			}
			data, err := json.Marshal(schema)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if !strings.Contains(string(data), doc.title) {
				t.Errorf("схема без заголовка %q", doc.title)
			}
		})
	}
}

func TestBuildSchema_FrameFields(t *testing.T) {
	data, err := json.Marshal(buildSchema(documents["frame"]))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for _, field := range []string{`"tick"`, `"server_time"`, `"calls"`, `"texture"`, `"tint"`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("в схеме кадра нет поля %s", field)
		}
	}
}

func TestWriteSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ping.schema.json")
	if err := writeSchema(path, buildSchema(documents["ping"])); err != nil {
		t.Fatalf("writeSchema: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("схема не является JSON: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("временный файл не удален")
	}
}
