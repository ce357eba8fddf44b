package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/typicalfo/canvas/backend/internal/logging"
)

// Load returns the configuration stored at path. When no file exists there,
// the defaults are written to path (creating parent directories) and
// returned. An existing file is only read, never rewritten.
func Load(path string) (*Config, error) {
	log := logging.GetLogger().WithField("path", path)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && isDanglingLink(path) {
		return nil, &Error{Op: OpRead, Path: path, Err: fmt.Errorf("symlink target does not exist: %w", err)}
	}
	if errors.Is(err, fs.ErrNotExist) {
		cfg := Default()
		if err := create(path, cfg); err != nil {
			return nil, err
		}
		log.Info("Wrote default configuration")
		return &cfg, nil
	}
	if err != nil {
		return nil, &Error{Op: OpRead, Path: path, Err: err}
	}

	cfg, err := Decode(data)
	if err != nil {
		return nil, &Error{Op: OpParse, Path: path, Err: err}
	}
	log.Debug("Loaded configuration")
	return &cfg, nil
}

// isDanglingLink reports whether path itself exists even though reading
// through it found nothing. Defaults are never written over such a link.
func isDanglingLink(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func create(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &Error{Op: OpCreateDir, Path: path, Err: err}
	}
	data, err := Encode(cfg)
	if err != nil {
		return &Error{Op: OpSerialize, Path: path, Err: err}
	}
	if err := writeFileAtomic(path, data, 0o644); err != nil {
		return &Error{Op: OpWrite, Path: path, Err: err}
	}
	return nil
}

// writeFileAtomic writes data to a temp file next to path and renames it
// into place, so path holds either nothing or the complete contents.
func writeFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Chmod(perm); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
