package utils

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/benmeehan/locate/pkg/file"
	"github.com/joho/godotenv"
)

// Environment variables that override values from the configuration file.
const (
	EnvAPIKey   = "LOCATE_API_KEY"
	EnvEngine   = "LOCATE_ENGINE"
	EnvLogLevel = "LOCATE_LOG_LEVEL"
	EnvTimeout  = "LOCATE_TIMEOUT"
)

// Config represents the structure of the configuration file.
type Config struct {
	APIKey              string        `yaml:"api_key"`               // Positioning service API key
	Engine              string        `yaml:"engine"`                // Positioning backend: wifi or gps
	Timeout             time.Duration `yaml:"timeout"`               // Upper bound for a single location query
	StreetAddressLookup string        `yaml:"street_address_lookup"` // none, limited or full
	IPFallback          bool          `yaml:"ip_fallback"`           // Retry with an IP based lookup when a query fails
	LogLevel            string        `yaml:"log_level"`             // Empty disables logging

	Scanner struct {
		ModemIndex int `yaml:"modem_index"` // ModemManager index used for the cell scan
	} `yaml:"scanner"`

	GPS struct {
		DevicePort string `yaml:"device_port"` // UNIX Port where the GPS sensor is mounted
		BaudRate   int    `yaml:"baud_rate"`   // The Baud rate for GPS sensor
	} `yaml:"gps"`

	MQTT struct {
		Broker        string `yaml:"broker"`         // MQTT broker address
		ClientID      string `yaml:"client_id"`      // MQTT client ID
		CACertificate string `yaml:"ca_certificate"` // Path to the CA certificate, empty for plain TCP
	} `yaml:"mqtt"`

	Identity struct {
		DeviceFile string `yaml:"device_file"` // Path to the device identity file
	} `yaml:"identity"`

	Watch struct {
		Topic       string        `yaml:"topic"`        // MQTT topic for location messages
		Interval    time.Duration `yaml:"interval"`     // Interval between location messages
		QOS         int           `yaml:"qos"`          // MQTT QoS level for location messages
		MetricsAddr string        `yaml:"metrics_addr"` // Listen address for /metrics, empty to disable
	} `yaml:"watch"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	cfg := &Config{
		Engine:              "wifi",
		Timeout:             10 * time.Second,
		StreetAddressLookup: "none",
	}
	cfg.GPS.DevicePort = "/dev/ttyUSB0"
	cfg.GPS.BaudRate = 9600
	cfg.MQTT.Broker = "tcp://localhost:1883"
	cfg.MQTT.ClientID = "locate"
	cfg.Identity.DeviceFile = "device.json"
	cfg.Watch.Topic = "devices/location"
	cfg.Watch.Interval = 30 * time.Second
	cfg.Watch.QOS = 1
	return cfg
}

// LoadConfig reads the configuration with ReadConfig and validates it.
func LoadConfig(filename string, fileClient file.FileOperations) (*Config, error) {
	config, err := ReadConfig(filename, fileClient)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// ReadConfig loads the YAML configuration from the specified file on top of the defaults,
// then applies .env and LOCATE_* environment overrides. A missing file is not an error.
// The result is not validated so that callers can layer further overrides first.
func ReadConfig(filename string, fileClient file.FileOperations) (*Config, error) {
	config := DefaultConfig()

	if filename != "" {
		exists, err := fileClient.IsFileExists(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to stat config file %s: %w", filename, err)
		}
		if exists {
			if err := fileClient.ReadYamlFile(filename, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", filename, err)
			}
		}
	}

	// A missing .env file is expected outside development.
	_ = godotenv.Load()

	if err := applyEnv(config); err != nil {
		return nil, err
	}
	return config, nil
}

func applyEnv(config *Config) error {
	if v, ok := os.LookupEnv(EnvAPIKey); ok {
		config.APIKey = v
	}
	if v, ok := os.LookupEnv(EnvEngine); ok {
		config.Engine = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		config.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvTimeout); ok {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvTimeout, err)
		}
		config.Timeout = timeout
	}
	return nil
}

// Validate checks the fields every command relies on.
func (c *Config) Validate() error {
	var errs []error
	switch c.Engine {
	case "wifi", "gps":
	default:
		errs = append(errs, fmt.Errorf("engine must be wifi or gps, got %q", c.Engine))
	}
	switch c.StreetAddressLookup {
	case "", "none", "limited", "full":
	default:
		errs = append(errs, fmt.Errorf("street_address_lookup must be none, limited or full, got %q", c.StreetAddressLookup))
	}
	if c.Timeout <= 0 {
		errs = append(errs, errors.New("timeout must be positive"))
	}
	if c.Engine == "gps" && c.GPS.BaudRate <= 0 {
		errs = append(errs, fmt.Errorf("gps.baud_rate must be positive, got %d", c.GPS.BaudRate))
	}
	if c.Watch.Interval <= 0 {
		errs = append(errs, fmt.Errorf("watch.interval must be positive, got %s", c.Watch.Interval))
	}
	if c.Watch.QOS < 0 || c.Watch.QOS > 2 {
		errs = append(errs, fmt.Errorf("watch.qos must be 0, 1 or 2, got %d", c.Watch.QOS))
	}
	return errors.Join(errs...)
}
