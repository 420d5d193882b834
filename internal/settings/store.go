package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/pelletier/go-toml/v2"

	"vidconv/internal/fileutil"
	"vidconv/internal/language"
	"vidconv/internal/logging"
)

// fileData is the on-disk TOML layout.
type fileData struct {
	Language      string         `toml:"language"`
	AudioBitrate  int            `toml:"audio_bitrate"`
	VideoBitrates map[string]int `toml:"video_bitrates"`
}

// Preferences is everything the settings file stores.
type Preferences struct {
	// Language is the UI language code. Empty means "follow the locale".
	Language string
	Encode   EncodeSettings
}

// Store is the file-backed settings provider. Every setter persists
// immediately; Snapshot never touches the disk.
type Store struct {
	path       string
	legacyPath string
	lock       *flock.Flock
	logger     *slog.Logger

	mu      sync.RWMutex
	current Preferences
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for load-time repairs and migration notices.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLegacyPath overrides the location of the YAML file written by the
// earlier video-converter tool. An empty path disables migration.
func WithLegacyPath(path string) Option {
	return func(s *Store) {
		s.legacyPath = path
	}
}

// DefaultLegacyPath returns ~/.video-converter/config.yaml.
func DefaultLegacyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".video-converter", "config.yaml")
}

// Open loads the settings file at path, falling back to defaults when it does
// not exist. Values outside their accepted ranges are repaired and logged.
func Open(path string, opts ...Option) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("settings path required")
	}
	s := &Store{
		path:       path,
		legacyPath: DefaultLegacyPath(),
		lock:       flock.New(path + ".lock"),
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "settings")
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the settings file location.
func (s *Store) Path() string {
	return s.path
}

// Snapshot returns a deep copy of the current encode settings.
func (s *Store) Snapshot() EncodeSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Encode.Clone()
}

// Preferences returns a copy of everything stored.
func (s *Store) Preferences() Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Preferences{Language: s.current.Language, Encode: s.current.Encode.Clone()}
}

// Language returns the stored UI language code, or "" to follow the locale.
func (s *Store) Language() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Language
}

// SetVideoBitrate clamps kbps, stores it for the tier, and returns the value
// actually stored.
func (s *Store) SetVideoBitrate(tier Tier, kbps int) (int, error) {
	if _, err := ParseTier(string(tier)); err != nil {
		return 0, err
	}
	stored := ClampVideoBitrate(kbps)
	err := s.update(func(p *Preferences) {
		p.Encode.VideoBitrateKbps[tier] = stored
	})
	if err != nil {
		return 0, err
	}
	return stored, nil
}

// SetAudioBitrate stores the MP3 bitrate. Only 64, 96, 128, 256, and 320 are accepted.
func (s *Store) SetAudioBitrate(kbps int) error {
	if !ValidAudioBitrate(kbps) {
		return fmt.Errorf("audio bitrate %d not supported (want one of %v)", kbps, audioBitrates)
	}
	return s.update(func(p *Preferences) {
		p.Encode.AudioBitrateKbps = kbps
	})
}

// SetLanguage stores the UI language and returns its normalized code. "auto"
// or an empty value clears the preference.
func (s *Store) SetLanguage(value string) (string, error) {
	code := ""
	if trimmed := strings.TrimSpace(value); trimmed != "" && !strings.EqualFold(trimmed, "auto") {
		normalized, ok := language.Normalize(trimmed)
		if !ok {
			return "", fmt.Errorf("language %q not supported (want one of %v)", value, language.Supported())
		}
		code = normalized
	}
	err := s.update(func(p *Preferences) {
		p.Language = code
	})
	return code, err
}

// Reset restores defaults and persists them.
func (s *Store) Reset() error {
	return s.update(func(p *Preferences) {
		*p = Preferences{Encode: Defaults()}
	})
}

func (s *Store) update(mutate func(*Preferences)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := Preferences{Language: s.current.Language, Encode: s.current.Encode.Clone()}
	mutate(&next)
	if err := s.save(next); err != nil {
		return err
	}
	s.current = next
	return nil
}

func (s *Store) load() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}
	if err := s.lock.RLock(); err != nil {
		return fmt.Errorf("lock settings: %w", err)
	}
	data, err := os.ReadFile(s.path)
	_ = s.lock.Unlock()

	switch {
	case err == nil:
		var raw fileData
		if err := toml.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("parse settings %s: %w", s.path, err)
		}
		s.current = s.merge(raw)
		return nil
	case errors.Is(err, fs.ErrNotExist):
		s.current = Preferences{Encode: Defaults()}
		return s.migrateLegacy()
	default:
		return fmt.Errorf("read settings: %w", err)
	}
}

// merge fills missing values with defaults and repairs invalid ones.
func (s *Store) merge(raw fileData) Preferences {
	prefs := Preferences{Encode: Defaults()}

	if raw.Language != "" {
		if code, ok := language.Normalize(raw.Language); ok {
			prefs.Language = code
		} else {
			logging.WarnWithContext(s.logger, "ignoring unsupported language in settings", "settings_repaired",
				logging.String("language", raw.Language),
				logging.String(logging.FieldImpact, "UI language follows the locale"),
			)
		}
	}

	for key, kbps := range raw.VideoBitrates {
		tier, err := ParseTier(key)
		if err != nil {
			logging.WarnWithContext(s.logger, "ignoring unknown bitrate tier in settings", "settings_repaired",
				logging.String("tier", key),
			)
			continue
		}
		if kbps == 0 {
			continue
		}
		stored := ClampVideoBitrate(kbps)
		if stored != kbps {
			logging.WarnWithContext(s.logger, "video bitrate out of range in settings", "settings_repaired",
				logging.String("tier", string(tier)),
				logging.Int("configured_kbps", kbps),
				logging.Int("stored_kbps", stored),
				logging.String(logging.FieldImpact, "clamped value used for encodes"),
			)
		}
		prefs.Encode.VideoBitrateKbps[tier] = stored
	}

	if raw.AudioBitrate != 0 {
		if ValidAudioBitrate(raw.AudioBitrate) {
			prefs.Encode.AudioBitrateKbps = raw.AudioBitrate
		} else {
			logging.WarnWithContext(s.logger, "audio bitrate not supported in settings", "settings_repaired",
				logging.Int("configured_kbps", raw.AudioBitrate),
				logging.Int("stored_kbps", defaultAudioBitrateKbps),
				logging.String(logging.FieldImpact, "default MP3 bitrate used"),
			)
		}
	}
	return prefs
}

func (s *Store) save(prefs Preferences) error {
	raw := fileData{
		Language:      prefs.Language,
		AudioBitrate:  prefs.Encode.AudioBitrateKbps,
		VideoBitrates: make(map[string]int, len(prefs.Encode.VideoBitrateKbps)),
	}
	for tier, kbps := range prefs.Encode.VideoBitrateKbps {
		raw.VideoBitrates[string(tier)] = kbps
	}
	data, err := toml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("lock settings: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	if err := fileutil.WriteFileAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	s.logger.Debug("settings saved", logging.String("settings_path", s.path))
	return nil
}
