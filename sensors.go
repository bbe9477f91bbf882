// File: sensors.go
// Module entry point for hioload-sensors.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// This file defines the Module struct, which aggregates the HAL's core
// components behind a single facade. Open constructs each driver slot
// independently, assembles the poll context, binds the platform device
// table, and wires the control surfaces (config store, metrics registry,
// debug probes). One Module corresponds to one device-open request and
// lives until Close.

package sensors

import (
	"log"

	"github.com/momentics/hioload-sensors/adapters"
	"github.com/momentics/hioload-sensors/api"
	"github.com/momentics/hioload-sensors/control"
	"github.com/momentics/hioload-sensors/internal/driver/akm"
	"github.com/momentics/hioload-sensors/internal/driver/hub"
	"github.com/momentics/hioload-sensors/internal/hal"
)

// Module metadata reported alongside the device table.
const (
	ModuleName    = "hioload-sensors"
	ModuleVersion = "1.3.0"
	ModuleVendor  = "momentics"
)

// Module is the open device: the poll context, its bound device table,
// and the control surfaces around them.
type Module struct {
	ctx     *hal.PollContext
	device  *api.Device
	config  *control.ConfigStore
	metrics *control.MetricsRegistry
	probes  *control.DebugProbes
}

// Open constructs a module from cfg (nil means DefaultConfig). Each
// driver slot is attempted independently: a slot that fails to open is
// logged and left absent, degrading that slot rather than failing the
// open. Open itself only fails on an invalid configuration.
func Open(cfg *control.Config) (*Module, error) {
	if cfg == nil {
		cfg = control.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var hubCap, compassCap api.Driver
	if d, err := hub.New(cfg.HubDevice, cfg.MaxPendingEvents); err != nil {
		log.Printf("[sensors] hub driver unavailable: %v", err)
	} else {
		hubCap = d
	}
	if d, err := akm.New(cfg.CompassDevice, cfg.CompassEnable, cfg.CompassRate); err != nil {
		log.Printf("[sensors] compass driver unavailable: %v", err)
	} else {
		compassCap = d
	}

	m := &Module{
		ctx:     hal.NewContext(hubCap, compassCap),
		config:  control.NewConfigStore(cfg.Snapshot()),
		metrics: control.NewMetricsRegistry(),
		probes:  control.NewDebugProbes(),
	}
	m.device = adapters.NewDevice(m.ctx)

	if cfg.EnableDebug {
		m.probes.RegisterProbe("hal.stats", func() any {
			return m.ctx.Stats()
		})
		m.probes.RegisterProbe("hal.slots", func() any {
			hubOK, compassOK := m.ctx.SlotsPresent()
			return map[string]bool{"hub": hubOK, "compass": compassOK}
		})
	}
	if cfg.EnableMetrics {
		m.SyncMetrics()
	}
	return m, nil
}

// OpenConfigFile is Open with the configuration read from a YAML file.
func OpenConfigFile(path string) (*Module, error) {
	cfg, err := control.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return Open(cfg)
}

// Device returns the platform device table. Its first fields are the
// version tags, matching the declared binary layout contract.
func (m *Module) Device() *api.Device { return m.device }

// Config returns the runtime config store.
func (m *Module) Config() *control.ConfigStore { return m.config }

// Metrics returns the metrics registry. Call SyncMetrics to refresh.
func (m *Module) Metrics() *control.MetricsRegistry { return m.metrics }

// Probes returns the debug probe registry.
func (m *Module) Probes() *control.DebugProbes { return m.probes }

// SyncMetrics publishes the current poll-loop counters to the registry.
func (m *Module) SyncMetrics() {
	st := m.ctx.Stats()
	m.metrics.Set("hal.polls", st.Polls)
	m.metrics.Set("hal.events", st.Events)
	m.metrics.Set("hal.wakes", st.Wakes)
	m.metrics.Set("hal.poll_errors", st.PollErrors)
}

// Close releases all module resources via the device table. Always
// succeeds; the platform contract requires close to return 0.
func (m *Module) Close() {
	m.device.Close()
}
