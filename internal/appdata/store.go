package appdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
)

// ErrNotFound reports that an artifact file does not exist. Callers use
// errors.Is(err, ErrNotFound) to branch onboarding decisions - a missing
// artifact is expected state, not a failure, and is distinct from a
// corrupt or unreadable one.
var ErrNotFound = errors.New("not found")

// Load reads an artifact file. A missing file yields ErrNotFound; any
// other read failure is returned as-is.
func Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// Save writes an artifact file atomically: the value is written to a
// sibling temp path and renamed over the target, so a reader never
// observes a truncated or interleaved value even if the process crashes
// mid-write.
func Save(path string, value []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to commit %s: %w", path, err)
	}
	return nil
}

// LoadJSON reads an artifact file and unmarshals it into v.
// Missing file yields ErrNotFound, bad JSON a parse error.
func LoadJSON(path string, v any) error {
	data, err := Load(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// SaveJSON marshals v and writes it atomically via Save.
func SaveJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	return Save(path, data)
}

// Exists reports whether the artifact file is present.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Remove deletes an artifact file best-effort: a missing file is fine,
// any other failure is logged and swallowed.
func Remove(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("[ERROR] Failed to delete artifact: path=%s error=%v", path, err)
	}
}

// RemoveTree deletes a directory artifact best-effort, same policy as
// Remove.
func RemoveTree(path string) {
	if err := os.RemoveAll(path); err != nil {
		log.Printf("[ERROR] Failed to delete directory: path=%s error=%v", path, err)
	}
}
