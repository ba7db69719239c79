package app

import (
	"testing"

	"github.com/quasilyte/gdata/v2"
)

func openTestStore(t *testing.T) *gdata.Manager {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_DATA_HOME", dir)

	m, err := gdata.Open(gdata.Config{AppName: "vfx_settings_test"})
	if err != nil {
		t.Fatalf("failed to create gdata manager: %v", err)
	}
	return m
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if !s.ShowTrails || !s.ShowDebug || s.TimeScale != 1 || s.LastEffect != "" {
		t.Errorf("unexpected defaults: %+v", s)
	}
}

func TestSettingsManager_SaveLoad(t *testing.T) {
	store := openTestStore(t)

	sm := NewSettingsManager(store, nil)
	if !sm.Persistent() {
		t.Fatal("manager with a store should persist")
	}
	sm.Settings().LastEffect = "Smoke"
	sm.Settings().ShowTrails = false
	sm.SetTimeScale(2)
	if err := sm.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded := NewSettingsManager(store, nil)
	got := reloaded.Settings()
	if got.LastEffect != "Smoke" || got.ShowTrails || got.TimeScale != 2 {
		t.Errorf("reloaded settings = %+v", got)
	}
}

func TestSettingsManager_CorruptData(t *testing.T) {
	store := openTestStore(t)
	if err := store.SaveObjectProp(settingsObject, settingsProperty, []byte("timeScale: [oops")); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}

	sm := NewSettingsManager(store, nil)
	if *sm.Settings() != *DefaultSettings() {
		t.Errorf("corrupt data should fall back to defaults, got %+v", sm.Settings())
	}
	if err := sm.Load(); err == nil {
		t.Error("Load should report corrupt data")
	}
}

func TestSettingsManager_MemoryOnly(t *testing.T) {
	sm := NewSettingsManager(nil, nil)
	if sm.Persistent() {
		t.Error("nil store should not persist")
	}
	sm.Settings().LastEffect = "Sparks"
	if err := sm.Save(); err != nil {
		t.Errorf("Save in memory-only mode returned %v", err)
	}
}

func TestSetTimeScale_Clamps(t *testing.T) {
	sm := NewSettingsManager(nil, nil)
	tests := []struct{ in, want float64 }{
		{0.5, 0.5},
		{0.01, MinTimeScale},
		{100, MaxTimeScale},
		{0, 1},
	}
	for _, tt := range tests {
		sm.SetTimeScale(tt.in)
		if got := sm.Settings().TimeScale; got != tt.want {
			t.Errorf("SetTimeScale(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
