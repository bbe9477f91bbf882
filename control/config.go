// File: control/config.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// HAL configuration: typed, immutable per device-open, loadable from a
// YAML file with compiled-in defaults, plus a thread-safe snapshot
// store for runtime introspection.

package control

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Config holds parameters immutable per device-open. All fields
// influence driver construction and cannot change at runtime.
type Config struct {
	HubDevice        string `yaml:"hub_device"`         // sensor hub character device
	CompassDevice    string `yaml:"compass_device"`     // compass evdev node
	CompassEnable    string `yaml:"compass_enable"`     // sysfs enable attribute
	CompassRate      string `yaml:"compass_rate"`       // sysfs rate attribute
	MaxPendingEvents int    `yaml:"max_pending_events"` // hub parked-event FIFO cap
	EnableMetrics    bool   `yaml:"enable_metrics"`     // wire the metrics registry
	EnableDebug      bool   `yaml:"enable_debug"`       // register debug probes
}

// DefaultConfig returns the device paths and limits used on the
// reference hardware.
func DefaultConfig() *Config {
	return &Config{
		HubDevice:        "/dev/stml0xx",
		CompassDevice:    "/dev/input/event4",
		CompassEnable:    "/sys/class/compass/akm/enable",
		CompassRate:      "/sys/class/compass/akm/rate",
		MaxPendingEvents: 256,
		EnableMetrics:    true,
		EnableDebug:      true,
	}
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations no driver could be built from.
func (c *Config) Validate() error {
	if c.HubDevice == "" {
		return fmt.Errorf("config: hub_device must not be empty")
	}
	if c.CompassDevice == "" {
		return fmt.Errorf("config: compass_device must not be empty")
	}
	if c.CompassEnable == "" || c.CompassRate == "" {
		return fmt.Errorf("config: compass sysfs attributes must not be empty")
	}
	if c.MaxPendingEvents < 0 {
		return fmt.Errorf("config: max_pending_events must be >= 0")
	}
	return nil
}

// Snapshot renders the config as a key/value map for the config store.
func (c *Config) Snapshot() map[string]any {
	return map[string]any{
		"hub_device":         c.HubDevice,
		"compass_device":     c.CompassDevice,
		"compass_enable":     c.CompassEnable,
		"compass_rate":       c.CompassRate,
		"max_pending_events": c.MaxPendingEvents,
		"enable_metrics":     c.EnableMetrics,
		"enable_debug":       c.EnableDebug,
	}
}

// ConfigStore is a dynamic key/value map with atomic snapshot and
// listener support, exposed for runtime introspection tools.
type ConfigStore struct {
	mu        sync.RWMutex
	config    map[string]any
	listeners []func()
}

// NewConfigStore initializes a store seeded from initial (may be nil).
func NewConfigStore(initial map[string]any) *ConfigStore {
	cfg := make(map[string]any, len(initial))
	for k, v := range initial {
		cfg[k] = v
	}
	return &ConfigStore{config: cfg}
}

// GetSnapshot returns a copy of all config values.
func (cs *ConfigStore) GetSnapshot() map[string]any {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	out := make(map[string]any, len(cs.config))
	for k, v := range cs.config {
		out[k] = v
	}
	return out
}

// SetConfig merges new values and dispatches reload listeners.
func (cs *ConfigStore) SetConfig(newCfg map[string]any) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	for k, v := range newCfg {
		cs.config[k] = v
	}
	for _, fn := range cs.listeners {
		go fn()
	}
}

// OnReload registers a listener hook called on config changes.
func (cs *ConfigStore) OnReload(fn func()) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.listeners = append(cs.listeners, fn)
}
