package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bnema/quotabar/internal/domain"
	"github.com/bnema/quotabar/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	cachePathKey     = "cache.path"
	snapshotFileMode = 0o600
	snapshotDirMode  = 0o700
	configDirName    = ".quotabar"
	snapshotFileName = "snapshot.toml"
	tempFilePattern  = ".snapshot-*.toml.tmp"
)

// SnapshotStore persists the last successful snapshot to a TOML file so a
// new process can show the previous reading before its first fetch
// completes.
type SnapshotStore struct {
	snapshotPath string
	mu           *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.SnapshotStore = (*SnapshotStore)(nil)

func NewSnapshotStore(cfg *viper.Viper) (*SnapshotStore, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg.SetDefault(cachePathKey, filepath.Join(homeDir, configDirName, snapshotFileName))

	snapshotPath := cfg.GetString(cachePathKey)
	if snapshotPath == "" {
		return nil, errors.New("snapshot cache path is empty")
	}
	snapshotPath, err = normalizeSnapshotPath(snapshotPath)
	if err != nil {
		return nil, err
	}

	return &SnapshotStore{snapshotPath: snapshotPath, mu: lockForPath(snapshotPath)}, nil
}

func (s *SnapshotStore) Load(ctx context.Context) (domain.UsageSnapshot, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.UsageSnapshot{}, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.snapshotPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.UsageSnapshot{}, false, nil
		}
		return domain.UsageSnapshot{}, false, fmt.Errorf("read snapshot file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return domain.UsageSnapshot{}, false, fmt.Errorf("decode snapshot file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return domain.UsageSnapshot{}, false, err
	}
	file.applyDefaults()

	return fromSchema(file), true, nil
}

func (s *SnapshotStore) Save(ctx context.Context, snapshot domain.UsageSnapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.writeSchema(toSchema(snapshot))
}

func (s *SnapshotStore) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(s.snapshotPath), snapshotDirMode); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode snapshot file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(s.snapshotPath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp snapshot file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp snapshot file: %w", err)
	}

	if err := tempFile.Chmod(snapshotFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp snapshot file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp snapshot file: %w", err)
	}

	if err := os.Rename(tempName, s.snapshotPath); err != nil {
		return fmt.Errorf("replace snapshot file: %w", err)
	}

	cleanup = false

	if err := os.Chmod(s.snapshotPath, snapshotFileMode); err != nil {
		return fmt.Errorf("chmod snapshot file: %w", err)
	}

	return nil
}

func normalizeSnapshotPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve snapshot path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}
