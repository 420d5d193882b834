package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"vidconv/internal/logging"
)

// legacyFile is the YAML layout written by the earlier video-converter tool.
type legacyFile struct {
	Language      string         `yaml:"language"`
	VideoBitrates map[string]int `yaml:"videoBitrates"`
	AudioBitrate  int            `yaml:"audioBitrate"`
}

// migrateLegacy imports the old YAML settings, if present, and writes them to
// the TOML settings file. The legacy file is left in place.
func (s *Store) migrateLegacy() error {
	if s.legacyPath == "" {
		return nil
	}
	data, err := os.ReadFile(s.legacyPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read legacy settings: %w", err)
	}

	var legacy legacyFile
	if err := yaml.Unmarshal(data, &legacy); err != nil {
		logging.WarnWithContext(s.logger, "legacy settings unreadable; using defaults", "settings_migration_skipped",
			logging.String("legacy_path", s.legacyPath),
			logging.Error(err),
		)
		return nil
	}

	prefs := s.merge(fileData{
		Language:      legacy.Language,
		AudioBitrate:  legacy.AudioBitrate,
		VideoBitrates: legacy.VideoBitrates,
	})
	if err := s.save(prefs); err != nil {
		return fmt.Errorf("save migrated settings: %w", err)
	}
	s.current = prefs
	s.logger.Info("migrated legacy settings",
		logging.String(logging.FieldEventType, "settings_migrated"),
		logging.String("legacy_path", s.legacyPath),
		logging.String("settings_path", s.path),
	)
	return nil
}
