package config_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/micro-nova/msiec-go/internal/config"
	"github.com/micro-nova/msiec-go/internal/models"
)

// --- JSONStore tests ---

func newTempDir(t *testing.T) string {
	t.Helper()
	return t.TempDir()
}

func TestJSONStore_LoadMissingFile_ReturnsDefault(t *testing.T) {
	store := config.NewJSONStore(newTempDir(t))

	state, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if state == nil || state.Values == nil {
		t.Fatalf("Load() = %+v, want empty default state", state)
	}
	if len(state.Values) != 0 || state.Firmware != "" {
		t.Errorf("Load() = %+v, want empty", state)
	}
}

func TestJSONStore_SaveLoadRoundTrip(t *testing.T) {
	dir := newTempDir(t)
	store := config.NewJSONStore(dir)

	st := models.SavedState{
		Firmware: "1552EMS1.118",
		Values:   map[string]string{"shift_mode": "eco", "battery_mode": "medium"},
	}
	if err := store.Save(&st); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	// Flush to ensure the file is written
	if err := store.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "state.json")); err != nil {
		t.Fatalf("state file not written: %v", err)
	}

	loaded, err := config.NewJSONStore(dir).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Firmware != st.Firmware {
		t.Errorf("Firmware = %q, want %q", loaded.Firmware, st.Firmware)
	}
	if loaded.Values["shift_mode"] != "eco" || loaded.Values["battery_mode"] != "medium" {
		t.Errorf("Values = %v", loaded.Values)
	}
}

func TestJSONStore_SaveCopiesState(t *testing.T) {
	store := config.NewJSONStore(newTempDir(t))
	st := models.SavedState{Values: map[string]string{"fan_mode": "auto"}}
	if err := store.Save(&st); err != nil {
		t.Fatal(err)
	}
	st.Values["fan_mode"] = "silent"
	if err := store.Flush(); err != nil {
		t.Fatal(err)
	}
	loaded, _ := store.Load()
	if loaded.Values["fan_mode"] != "auto" {
		t.Errorf("fan_mode = %q, want auto (Save must copy)", loaded.Values["fan_mode"])
	}
}

func TestJSONStore_CorruptFile_ReturnsDefault(t *testing.T) {
	dir := newTempDir(t)
	if err := os.WriteFile(filepath.Join(dir, "state.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	state, err := config.NewJSONStore(dir).Load()
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if len(state.Values) != 0 {
		t.Errorf("Values = %v, want empty", state.Values)
	}
	if _, err := os.Stat(filepath.Join(dir, "state.json.bad")); err != nil {
		t.Errorf("corrupt file not moved aside: %v", err)
	}
}

func TestJSONStore_UnchangedSaveSkipsWrite(t *testing.T) {
	dir := newTempDir(t)
	store := config.NewJSONStore(dir)
	path := filepath.Join(dir, "state.json")

	st := models.SavedState{Firmware: "14C1EMS1.012", Values: map[string]string{"webcam": "on"}}
	if err := store.Save(&st); err != nil {
		t.Fatal(err)
	}
	if err := store.Flush(); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatalf("state file not written: %v", err)
	}

	same := st.DeepCopy()
	if err := store.Save(&same); err != nil {
		t.Fatal(err)
	}
	if err := store.Flush(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("unchanged state was written again (stat err %v)", err)
	}

	st.Values["webcam"] = "off"
	if err := store.Save(&st); err != nil {
		t.Fatal(err)
	}
	if err := store.Flush(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("changed state not written: %v", err)
	}
}

func TestJSONStore_MigratesValues(t *testing.T) {
	dir := newTempDir(t)
	raw, _ := json.Marshal(map[string]any{
		"firmware": "14C1EMS1.012",
		"values":   map[string]string{" shift_mode ": "eco\n", "": "x"},
	})
	if err := os.WriteFile(filepath.Join(dir, "state.json"), raw, 0644); err != nil {
		t.Fatal(err)
	}
	state, err := config.NewJSONStore(dir).Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(state.Values) != 1 || state.Values["shift_mode"] != "eco" {
		t.Errorf("Values = %q, want map[shift_mode:eco]", state.Values)
	}
}

// --- MemStore tests ---

func TestMemStore(t *testing.T) {
	m := config.NewMemStore()
	st, _ := m.Load()
	if st.Values == nil {
		t.Fatal("default state has nil Values")
	}
	st.Values["webcam"] = "off"
	if err := m.Save(st); err != nil {
		t.Fatal(err)
	}
	st.Values["webcam"] = "on"
	got, _ := m.Load()
	if got.Values["webcam"] != "off" {
		t.Errorf("webcam = %q, want off", got.Values["webcam"])
	}
	if m.Saves() != 1 || m.Path() != ":memory:" {
		t.Errorf("Saves = %d, Path = %q", m.Saves(), m.Path())
	}
}

// --- Settings tests ---

func TestLoadSettings_Missing(t *testing.T) {
	s, err := config.LoadSettings(filepath.Join(newTempDir(t), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if !reflect.DeepEqual(s, config.DefaultSettings()) {
		t.Errorf("settings = %+v, want defaults", s)
	}
}

func TestLoadSettings_File(t *testing.T) {
	path := filepath.Join(newTempDir(t), "config.yaml")
	yml := `
listen: "127.0.0.1:9000"
transport: dump
dump_file: /tmp/ec.cbor
rate_limit: 200
monitor_interval: 2s
mdns: false
power_profiles:
  ac:
    shift_mode: sport
  battery:
    shift_mode: eco
    cooler_boost: "off"
`
	if err := os.WriteFile(path, []byte(yml), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := config.LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if s.Listen != "127.0.0.1:9000" || s.Transport != config.TransportDump || s.DumpFile != "/tmp/ec.cbor" {
		t.Errorf("settings = %+v", s)
	}
	if s.RateLimit != 200 || s.MonitorInterval != 2*time.Second || s.MDNS {
		t.Errorf("settings = %+v", s)
	}
	if !s.Restore {
		t.Error("unset fields should keep their defaults")
	}
	if s.PowerProfiles.Battery["cooler_boost"] != "off" || s.PowerProfiles.AC["shift_mode"] != "sport" {
		t.Errorf("power profiles = %+v", s.PowerProfiles)
	}
}

func TestLoadSettings_Invalid(t *testing.T) {
	tests := []string{
		"transport: serial\n",
		"transport: dump\n",
		"rate_limit: -5\n",
		"listen: [\n",
	}
	for _, yml := range tests {
		path := filepath.Join(newTempDir(t), "config.yaml")
		if err := os.WriteFile(path, []byte(yml), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := config.LoadSettings(path); err == nil {
			t.Errorf("LoadSettings(%q) should fail", yml)
		}
	}
}
