//go:build !js
// +build !js

package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/pion/logging"
	"github.com/simukka/bicial/common"
)

// FileKV persists the key space as one JSON object on disk. Every write
// rewrites the file through a temporary sibling and a rename.
type FileKV struct {
	path string
	mu   sync.Mutex
	data map[string]string
	log  logging.LeveledLogger
}

// DefaultPath returns the per-user settings file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fault.Wrap(err, fmsg.With("locate user config dir"))
	}
	return filepath.Join(dir, "bicial", "settings.json"), nil
}

// OpenFile loads path, starting empty when it does not exist yet. A corrupt
// file is logged and treated as empty; it is replaced on the next write.
func OpenFile(path string) (*FileKV, error) {
	kv := &FileKV{
		path: path,
		data: make(map[string]string),
		log:  common.Logger("store"),
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return kv, nil
	}
	if err != nil {
		return nil, fault.Wrap(err, fmsg.WithDesc("read "+path, "Could not read the settings file."))
	}
	if err := json.Unmarshal(b, &kv.data); err != nil {
		kv.log.Warnf("settings file %s is corrupt, starting from defaults: %v", path, err)
		kv.data = make(map[string]string)
	}
	return kv, nil
}

func (f *FileKV) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}

func (f *FileKV) Set(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if old, ok := f.data[key]; ok && old == value {
		return
	}
	f.data[key] = value
	f.saveLocked()
}

func (f *FileKV) Remove(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[key]; !ok {
		return
	}
	delete(f.data, key)
	f.saveLocked()
}

func (f *FileKV) Keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, 0, len(f.data))
	for k := range f.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Path returns the backing file.
func (f *FileKV) Path() string {
	return f.path
}

func (f *FileKV) saveLocked() {
	if err := f.writeFile(); err != nil {
		f.log.Errorf("saving %s: %v", f.path, err)
	}
}

func (f *FileKV) writeFile() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fault.Wrap(err, fmsg.With("create settings dir"))
	}
	b, err := json.MarshalIndent(f.data, "", "  ")
	if err != nil {
		return fault.Wrap(err, fmsg.With("encode settings"))
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".settings-*.json")
	if err != nil {
		return fault.Wrap(err, fmsg.With("create temp file"))
	}
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fault.Wrap(err, fmsg.With("write temp file"))
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fault.Wrap(err, fmsg.With("close temp file"))
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fault.Wrap(err, fmsg.With("replace settings file"))
	}
	return nil
}
