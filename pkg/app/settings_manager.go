package app

import (
	"fmt"
	"math"

	"github.com/quasilyte/gdata/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ViewerSettings are the viewer preferences kept between runs.
type ViewerSettings struct {
	LastEffect string  `yaml:"lastEffect"` // Effect selected on exit
	Filter     string  `yaml:"filter"`     // Name filter on exit
	ShowTrails bool    `yaml:"showTrails"`
	ShowDebug  bool    `yaml:"showDebug"`
	TimeScale  float64 `yaml:"timeScale"` // Simulation speed multiplier
}

// Time scale bounds.
const (
	MinTimeScale = 0.125
	MaxTimeScale = 4
)

// DefaultSettings returns the settings used on first run.
func DefaultSettings() *ViewerSettings {
	return &ViewerSettings{
		ShowTrails: true,
		ShowDebug:  true,
		TimeScale:  1,
	}
}

// SettingsManager loads and saves ViewerSettings through gdata.
// With a nil gdata manager it keeps settings in memory only.
type SettingsManager struct {
	gdataManager *gdata.Manager
	settings     *ViewerSettings
	log          *zap.Logger
}

const (
	settingsObject   = "settings"
	settingsProperty = "viewer"
)

// NewSettingsManager creates a manager and loads saved settings. A failed
// load is logged and the defaults are used.
func NewSettingsManager(gdataManager *gdata.Manager, log *zap.Logger) *SettingsManager {
	if log == nil {
		log = zap.NewNop()
	}
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
		log:          log,
	}
	if err := sm.Load(); err != nil {
		log.Warn("failed to load viewer settings, using defaults", zap.Error(err))
	}
	return sm
}

// OpenSettingsManager opens the gdata store for appName. When the store
// cannot be opened the manager runs in memory-only mode.
func OpenSettingsManager(appName string, log *zap.Logger) *SettingsManager {
	if log == nil {
		log = zap.NewNop()
	}
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Warn("settings storage unavailable, preferences will not persist", zap.Error(err))
		m = nil
	}
	return NewSettingsManager(m, log)
}

// Load reads the saved settings. Missing data resets to the defaults.
func (sm *SettingsManager) Load() error {
	if sm.gdataManager == nil || !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	loaded.TimeScale = clampTimeScale(loaded.TimeScale)

	sm.settings = loaded
	sm.log.Debug("viewer settings loaded", zap.String("lastEffect", loaded.LastEffect))
	return nil
}

// Save writes the current settings. It is a no-op in memory-only mode.
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}
	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	sm.log.Debug("viewer settings saved")
	return nil
}

// Persistent reports whether settings survive a restart.
func (sm *SettingsManager) Persistent() bool {
	return sm.gdataManager != nil
}

// Settings returns the live settings. Changes take effect on the next Save.
func (sm *SettingsManager) Settings() *ViewerSettings {
	return sm.settings
}

// SetTimeScale sets the simulation speed, clamped to [MinTimeScale, MaxTimeScale].
func (sm *SettingsManager) SetTimeScale(scale float64) {
	sm.settings.TimeScale = clampTimeScale(scale)
}

func clampTimeScale(scale float64) float64 {
	switch {
	case math.IsNaN(scale) || scale == 0:
		return 1
	case scale < MinTimeScale:
		return MinTimeScale
	case scale > MaxTimeScale:
		return MaxTimeScale
	}
	return scale
}
