package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and parses the configuration document at path. The format is
// chosen by extension: .yml/.yaml parse as YAML, everything else as JSON.
// A missing file or a syntax error is the caller's problem (it maps to a
// server fault); a document without a `courses` list is simply an empty
// catalog.
func Load(path string) (Document, error) {
	root, err := LoadRaw(path)
	if err != nil {
		return Document{}, err
	}
	return buildDocument(root), nil
}

// LoadRaw reads the document without normalizing it into a Document. The
// admin settings endpoints operate on the raw shape so that fields this
// service does not model survive a round trip.
func LoadRaw(path string) (map[string]any, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	root := map[string]any{}
	if isYAML(path) {
		if err := yaml.Unmarshal(buf, &root); err != nil {
			return nil, fmt.Errorf("parse catalog: %w", err)
		}
	} else {
		if err := json.Unmarshal(buf, &root); err != nil {
			return nil, fmt.Errorf("parse catalog: %w", err)
		}
	}
	return root, nil
}

// Save writes the document atomically: marshal to a temp file in the same
// directory, then rename over the target. Format follows the extension,
// matching Load.
func Save(path string, root map[string]any) error {
	var buf []byte
	var err error
	if isYAML(path) {
		buf, err = yaml.Marshal(root)
	} else {
		buf, err = json.MarshalIndent(root, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".catalog-*")
	if err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		return fmt.Errorf("write catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return true
	}
	return false
}
