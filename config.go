package tintin

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kevmo314/go-tintin/pkg/regprog"
	"github.com/kevmo314/go-tintin/pkg/transfers"
	"github.com/kevmo314/go-tintin/pkg/usbio"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config selects the board variants to recognize and the transport settings.
type Config struct {
	VendorID      uint16 `yaml:"vendor_id"`
	UVCProductID  uint16 `yaml:"uvc_product_id"`
	BulkProductID uint16 `yaml:"bulk_product_id"`

	// extension unit of the video-class variant
	ControlInterface uint8 `yaml:"control_interface"`
	XUUnitID         uint8 `yaml:"xu_unit_id"`

	BulkInterface uint8 `yaml:"bulk_interface"`
	BulkEndpoint  uint8 `yaml:"bulk_endpoint"`

	ControlTimeout time.Duration `yaml:"control_timeout"`
	BulkTimeout    time.Duration `yaml:"bulk_timeout"`

	LogLevel string `yaml:"log_level"`
}

func DefaultConfig() *Config {
	return &Config{
		VendorID:       0x0451,
		UVCProductID:   0x9103,
		BulkProductID:  0x9104,
		XUUnitID:       regprog.DefaultXUUnitID,
		BulkEndpoint:   transfers.DefaultBulkEndpoint,
		ControlTimeout: usbio.DefaultControlTimeout,
		BulkTimeout:    usbio.DefaultBulkTimeout,
		LogLevel:       "info",
	}
}

// ParseConfig overlays YAML data on DefaultConfig and validates the result.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

func (c *Config) Validate() error {
	if c.UVCProductID == c.BulkProductID {
		return fmt.Errorf("%w: uvc and bulk product ids are both 0x%04x", ErrInvalidConfig, c.UVCProductID)
	}
	if c.BulkEndpoint&0x80 == 0 {
		return fmt.Errorf("%w: bulk endpoint 0x%02x is not an IN endpoint", ErrInvalidConfig, c.BulkEndpoint)
	}
	if c.ControlTimeout <= 0 || c.BulkTimeout <= 0 {
		return fmt.Errorf("%w: timeouts must be positive", ErrInvalidConfig)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel as a slog level name.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.LogLevel)
	}
	return l, nil
}
