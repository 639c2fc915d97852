package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document pairs the snapshots needed to start a combat action.
type Document struct {
	Item  Item  `json:"item" yaml:"item"`
	Actor Actor `json:"actor" yaml:"actor"`
}

// Decode parses a document. JSON is detected by extension or a leading brace;
// everything else is read as YAML.
func Decode(name string, data []byte) (Document, error) {
	var doc Document
	if isJSON(name, data) {
		if err := json.Unmarshal(data, &doc); err != nil {
			return Document{}, fmt.Errorf("decode json %s: %w", name, err)
		}
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("decode yaml %s: %w", name, err)
	}
	return doc, nil
}

// LoadFile reads and decodes a document from disk.
func LoadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read snapshot: %w", err)
	}
	return Decode(path, data)
}

func isJSON(name string, data []byte) bool {
	if strings.EqualFold(filepath.Ext(name), ".json") {
		return true
	}
	return strings.HasPrefix(strings.TrimSpace(string(data)), "{")
}
