package configutil

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

func splitExt(f string) (string, string) {
	for i := len(f) - 1; i >= 0; i-- {
		if f[i] == '.' {
			return f[0:i], f[i+1:]
		}
	}
	return f, ""
}

func readLayer[T any](path string) (T, bool, error) {
	var out T
	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return out, false, nil
	}
	if err != nil {
		return out, false, err
	}
	if len(contents) == 0 {
		return out, false, nil
	}
	err = json5.Unmarshal(contents, &out)
	if err != nil {
		return out, false, fmt.Errorf("parse %s: %w", path, err)
	}
	return out, true, nil
}

// reads a configuration file, `name` should come with a file extension,
// it will automatically be lopped off to produce the other extensions.
// this function will merge the following files, where higher number is more prioritized.
// 1. <name>.<ext>
// 2. <name>.local.<ext>
func ReadConfig[T any](name string) (T, error) {
	var out T
	found, err := mergeLayers(&out, name)
	if err != nil {
		return out, err
	}
	if !found {
		return out, os.ErrNotExist
	}
	return out, nil
}

// ReadConfigWithDefaults is ReadConfig layered on top of `defaults`, a
// missing file is not an error, the defaults are returned as is.
func ReadConfigWithDefaults[T any](name string, defaults T) (T, error) {
	out := defaults
	_, err := mergeLayers(&out, name)
	return out, err
}

func mergeLayers[T any](out *T, name string) (bool, error) {
	dirname := filepath.Dir(name)
	prefixname, ext := splitExt(filepath.Base(name))
	localFilepath := filepath.Join(dirname, fmt.Sprintf("%s.local.%s", prefixname, ext))

	foundAny := false
	for _, path := range []string{name, localFilepath} {
		layer, found, err := readLayer[T](path)
		if err != nil {
			return foundAny, err
		}
		if !found {
			continue
		}
		err = mergo.Merge(out, layer, mergo.WithOverride)
		if err != nil {
			return foundAny, err
		}
		if path == localFilepath {
			slog.Info("merging config with local overrides", "local", localFilepath)
		}
		foundAny = true
	}
	return foundAny, nil
}

// ReadConfig but it recursively goes up the filesystem until the root
// to find a configuration file matching the name.
func ReadRecursively[T any](name string) (T, error) {
	var defaultOut T

	current, err := os.Getwd()
	if err != nil {
		return defaultOut, err
	}

	for {
		config, err := ReadConfig[T](filepath.Join(current, name))
		if err == nil {
			return config, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return defaultOut, err
		}
		parent := filepath.Dir(current)
		if parent == current {
			return defaultOut, os.ErrNotExist
		}
		current = parent
	}
}
