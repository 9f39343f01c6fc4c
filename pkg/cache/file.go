package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// envelope is the on-disk record: the cached payload plus its deadline.
// A zero deadline means the entry never expires.
type envelope struct {
	Payload  []byte    `json:"payload"`
	Deadline time.Time `json:"deadline,omitempty"`
}

// FileCache stores entries as JSON files under a root directory, sharded
// by the first byte of the hashed key so one package's worth of lookups
// does not pile into a single directory.
type FileCache struct {
	root string
}

// NewFileCache opens (and creates, if needed) a file cache rooted at dir.
func NewFileCache(dir string) (Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{root: dir}, nil
}

func (c *FileCache) entryPath(key string) string {
	sum := Hash([]byte(key))
	return filepath.Join(c.root, sum[:2], sum[2:]+".json")
}

// Get returns the payload for key, or a miss if the entry is absent,
// expired, or unreadable. Corrupt and expired entries are removed.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.entryPath(key)

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		_ = os.Remove(path)
		return nil, false, nil
	}
	if !env.Deadline.IsZero() && !time.Now().Before(env.Deadline) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return env.Payload, true, nil
}

// Set writes the payload for key. A ttl of 0 stores it without a deadline.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	env := envelope{Payload: data}
	if ttl > 0 {
		env.Deadline = time.Now().Add(ttl)
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return err
	}

	path := c.entryPath(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

// Delete removes the entry for key; a missing entry is not an error.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	if err := os.Remove(c.entryPath(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Close is a no-op for the file backend.
func (c *FileCache) Close() error { return nil }

var _ Cache = (*FileCache)(nil)
