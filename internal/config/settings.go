package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/micro-nova/msiec-go/internal/models"
)

// DefaultSettingsPath is where msiecd looks for its settings file.
const DefaultSettingsPath = "/etc/msiecd/config.yaml"

// EC transports selectable in the settings file.
const (
	TransportECSys = "ec_sys"
	TransportPort  = "port"
	TransportDump  = "dump"
	TransportMock  = "mock"
)

// PowerProfiles maps feature names to values applied when the machine
// switches between mains and battery power.
type PowerProfiles struct {
	AC      map[string]string `yaml:"ac"`
	Battery map[string]string `yaml:"battery"`
}

// Settings is the daemon configuration.
type Settings struct {
	Listen          string        `yaml:"listen"`
	Transport       string        `yaml:"transport"`
	Device          string        `yaml:"device"`    // ec_sys register file
	DumpFile        string        `yaml:"dump_file"` // register image for the dump transport
	MockFirmware    string        `yaml:"mock_firmware"`
	RateLimit       int           `yaml:"rate_limit"` // EC operations per second
	StateDir        string        `yaml:"state_dir"`
	Restore         bool          `yaml:"restore"`
	MDNS            bool          `yaml:"mdns"`
	MonitorInterval time.Duration `yaml:"monitor_interval"`
	PowerProfiles   PowerProfiles `yaml:"power_profiles"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() Settings {
	return Settings{
		Listen:          models.DefaultListen,
		Transport:       TransportECSys,
		MockFirmware:    "14C1EMS1.012",
		StateDir:        models.DefaultStateDir,
		Restore:         true,
		MDNS:            true,
		MonitorInterval: 5 * time.Second,
	}
}

// LoadSettings reads a YAML settings file over the defaults. A missing file
// is not an error.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("config: %s: %w", path, err)
	}
	return s, nil
}

// Validate checks field combinations that cannot work.
func (s Settings) Validate() error {
	switch s.Transport {
	case TransportECSys, TransportPort, TransportMock:
	case TransportDump:
		if s.DumpFile == "" {
			return errors.New("transport dump requires dump_file")
		}
	default:
		return fmt.Errorf("unknown transport %q", s.Transport)
	}
	if s.RateLimit < 0 {
		return fmt.Errorf("rate_limit must not be negative, got %d", s.RateLimit)
	}
	if s.MonitorInterval < 0 {
		return fmt.Errorf("monitor_interval must not be negative, got %s", s.MonitorInterval)
	}
	return nil
}
