package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"tilescope/internal/eventbus"
)

// FileName is the default config file name inside the config directory
const FileName = "config.toml"

// Config represents the application configuration
type Config struct {
	Data   DataSettings   `toml:"data"`
	Search SearchSettings `toml:"search"`
	UI     UISettings     `toml:"ui"`
}

// DataSettings describes where the precomputed JSON resources live
type DataSettings struct {
	Base              string   `toml:"base"` // http(s) URL or local directory
	LightIndex        string   `toml:"light_index"`
	SearchIndex       string   `toml:"search_index"`
	Timeout           Duration `toml:"timeout"`
	RequestsPerSecond float64  `toml:"requests_per_second"` // 0 = unlimited
}

// SearchSettings tunes the two-tier search
type SearchSettings struct {
	LightMinChars int      `toml:"light_min_chars"`
	DeepMinChars  int      `toml:"deep_min_chars"`
	Debounce      Duration `toml:"debounce"`
	LightLimit    int      `toml:"light_limit"`
	DeepLimit     int      `toml:"deep_limit"`
	Threshold     float64  `toml:"threshold"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	LogFile string `toml:"log_file"`
	Debug   bool   `toml:"debug"`
	ShowIDs bool   `toml:"show_ids"`
	Mouse   bool   `toml:"mouse"`
}

// Duration is a time.Duration written as a string ("300ms") in TOML
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// DefaultPath returns the config file location under the user config dir
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "tilescope", FileName)
}

// NewConfigService creates a config service for path ("" means DefaultPath)
func NewConfigService(path string) ConfigService {
	if path == "" {
		path = DefaultPath()
	}
	return &configService{filePath: path}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(path string, bus eventbus.EventBus) ConfigService {
	cs := NewConfigService(path).(*configService)
	cs.bus = bus
	return cs
}

// Path returns the file this service reads and writes
func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from file, falling back to defaults when the
// file does not exist
func (cs *configService) Load() (*Config, error) {
	var cfg *Config
	if _, err := os.Stat(cs.filePath); errors.Is(err, os.ErrNotExist) {
		cfg = DefaultConfig()
	} else {
		loaded, err := cs.LoadFromPath(cs.filePath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{DataBase: cfg.Data.Base})
	}

	return cfg, nil
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{})
	}

	return nil
}

// LoadFromPath loads configuration from a specific path. Missing keys keep
// their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Data: DataSettings{
			Base:        "data",
			LightIndex:  "viruses.json",
			SearchIndex: "search_index.json",
			Timeout:     Duration{15 * time.Second},
		},
		Search: SearchSettings{
			LightMinChars: 2,
			DeepMinChars:  3,
			Debounce:      Duration{300 * time.Millisecond},
			LightLimit:    5,
			DeepLimit:     8,
			Threshold:     0.35,
		},
		UI: UISettings{
			LogFile: "tilescope.log",
			ShowIDs: true,
			Mouse:   true,
		},
	}
}

// Validate checks the settings that the search subsystem relies on
func (c *Config) Validate() error {
	s := c.Search
	switch {
	case c.Data.Base == "":
		return errors.New("data.base must not be empty")
	case c.Data.LightIndex == "":
		return errors.New("data.light_index must not be empty")
	case c.Data.SearchIndex == "":
		return errors.New("data.search_index must not be empty")
	case c.Data.Timeout.Duration < 0:
		return errors.New("data.timeout must not be negative")
	case c.Data.RequestsPerSecond < 0:
		return errors.New("data.requests_per_second must not be negative")
	case s.LightMinChars < 1:
		return errors.New("search.light_min_chars must be at least 1")
	case s.DeepMinChars < s.LightMinChars:
		return errors.New("search.deep_min_chars must be >= search.light_min_chars")
	case s.Debounce.Duration < 0:
		return errors.New("search.debounce must not be negative")
	case s.LightLimit < 1:
		return errors.New("search.light_limit must be at least 1")
	case s.DeepLimit < 1:
		return errors.New("search.deep_limit must be at least 1")
	case s.Threshold <= 0 || s.Threshold > 1:
		return errors.New("search.threshold must be in (0, 1]")
	}
	return nil
}
