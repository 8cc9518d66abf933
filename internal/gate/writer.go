package gate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteMetaJSON serializes v as indented JSON and writes it to path
// atomically: write to a sibling temp file, fsync it, then rename over the
// destination, so a reader never observes a partially-written meta file and
// a crash mid-write never corrupts the previous one.
func WriteMetaJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("gate: marshal %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("gate: create temp for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("gate: write temp for %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("gate: sync temp for %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("gate: close temp for %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("gate: rename into %s: %w", path, err)
	}
	return nil
}

// WriteAll writes every gate meta in metas to its conventional
// <gate_name>.meta.json file under outDir.
func WriteAll(outDir string, metas map[string]interface{}) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("gate: mkdir %s: %w", outDir, err)
	}
	for name, meta := range metas {
		path := filepath.Join(outDir, name+".meta.json")
		if err := WriteMetaJSON(path, meta); err != nil {
			return err
		}
	}
	return nil
}
