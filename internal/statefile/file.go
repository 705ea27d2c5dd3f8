// Package statefile reads and writes quiz state files. The format follows the
// file extension: .json or .yml/.yaml.
package statefile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrUnsupportedFormat = errors.New("statefile: unsupported format")

type format int

const (
	formatJSON format = iota
	formatYAML
)

func formatOf(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return formatJSON, nil
	case ".yml", ".yaml":
		return formatYAML, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// Exists reports whether a state file is present at path.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func Load[T any](path string) (T, error) {
	var result T

	f, err := formatOf(path)
	if err != nil {
		return result, err
	}

	file, err := os.Open(path)
	if err != nil {
		return result, fmt.Errorf("os.Open(%s) > %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	switch f {
	case formatJSON:
		if err := json.NewDecoder(file).Decode(&result); err != nil {
			return result, fmt.Errorf("json.NewDecoder().Decode() > %w", err)
		}
	case formatYAML:
		if err := yaml.NewDecoder(file).Decode(&result); err != nil {
			return result, fmt.Errorf("yaml.NewDecoder().Decode() > %w", err)
		}
	}
	return result, nil
}

// Save writes data to a temporary file next to path and renames it over path,
// so a reader never sees a partially written state.
func Save[T any](path string, data T) error {
	f, err := formatOf(path)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("os.MkdirAll(%s) > %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("os.CreateTemp(%s) > %w", dir, err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if err := encode(tmp, f, data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("tmp.Close() > %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("os.Rename(%s) > %w", path, err)
	}
	return nil
}

func encode[T any](w io.Writer, f format, data T) error {
	switch f {
	case formatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(data); err != nil {
			return fmt.Errorf("json.NewEncoder().Encode() > %w", err)
		}
	case formatYAML:
		encoder := yaml.NewEncoder(w)
		if err := encoder.Encode(data); err != nil {
			return fmt.Errorf("yaml.NewEncoder().Encode() > %w", err)
		}
		if err := encoder.Close(); err != nil {
			return fmt.Errorf("yaml.Encoder.Close() > %w", err)
		}
	}
	return nil
}
