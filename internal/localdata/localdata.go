// Package localdata persists named JSON records under the app's data
// directory. A missing or unreadable record degrades to "no value"; callers
// never see an error on the read path.
package localdata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Adapter reads and writes one JSON file per record key.
type Adapter struct {
	root string
}

// New returns an Adapter rooted at dir. The directory is created lazily on
// the first Store call.
func New(dir string) *Adapter {
	return &Adapter{root: strings.TrimSpace(dir)}
}

// Store serializes value and writes it under key, overwriting any prior
// record.
func (a *Adapter) Store(key string, value any) error {
	if a == nil || a.root == "" {
		return fmt.Errorf("localdata: no data dir configured")
	}
	if err := os.MkdirAll(a.root, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	bytes, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := os.WriteFile(a.path(key), bytes, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Load reads the record at key into dest. It reports false when the record
// is absent or does not parse; dest is left untouched in that case.
func (a *Adapter) Load(key string, dest any) bool {
	if a == nil || a.root == "" {
		return false
	}
	bytes, err := os.ReadFile(a.path(key))
	if err != nil {
		return false
	}
	if err := json.Unmarshal(bytes, dest); err != nil {
		return false
	}
	return true
}

// Delete removes the record at key. Removing an absent record is a no-op.
func (a *Adapter) Delete(key string) {
	if a == nil || a.root == "" {
		return
	}
	_ = os.Remove(a.path(key))
}

func (a *Adapter) path(key string) string {
	return filepath.Join(a.root, key+".json")
}
