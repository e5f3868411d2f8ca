package state

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"news/aggregator/internal/domain"
)

type fileStore struct {
	path string
}

// DefaultPrefsPath is the preferences file under the XDG config directory.
func DefaultPrefsPath(profile string) string {
	if profile == "" {
		profile = "default"
	}
	return filepath.Join(xdg.ConfigHome, "news-aggregator", profile+".yaml")
}

func NewFileStore(path string) PreferencesStore {
	return &fileStore{path: path}
}

func (s *fileStore) Load(_ context.Context) (domain.Preferences, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Preferences{}, ErrNotFound
		}
		return domain.Preferences{}, fmt.Errorf("reading preferences: %w", err)
	}

	var raw struct {
		Version  int    `yaml:"version"`
		Category string `yaml:"category"`
		Search   string `yaml:"search"`
		Page     string `yaml:"page"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return domain.Preferences{}, fmt.Errorf("parsing preferences: %w", err)
	}

	// Page is read as a string so a hand-edited non-numeric value does not
	// fail the whole load. Anything but a whole number loads as 0.
	page, _ := strconv.Atoi(strings.TrimSpace(raw.Page))
	return domain.Preferences{
		Version:  raw.Version,
		Category: domain.Category(raw.Category),
		Search:   raw.Search,
		Page:     page,
	}, nil
}

func (s *fileStore) Save(_ context.Context, prefs domain.Preferences) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating preferences dir: %w", err)
	}

	data, err := yaml.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encoding preferences: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing preferences: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing preferences: %w", err)
	}
	return nil
}
