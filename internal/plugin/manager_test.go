package plugin

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, root string, m Manifest) string {
	t.Helper()
	dir := filepath.Join(root, m.Name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create plugin dir: %v", err)
	}
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("failed to marshal manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), data, 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return dir
}

func TestManager_Discover(t *testing.T) {
	root := t.TempDir()
	dir := writeManifest(t, root, Manifest{
		Name:        "alert",
		Version:     "1.0.0",
		Description: "Phrase completion alerts",
		Executable:  "alert",
		Actions:     []string{"notify", "log"},
	})

	m := NewManager(root, nil)
	if err := m.Discover(); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	plugins := m.List()
	if len(plugins) != 1 {
		t.Fatalf("expected 1 plugin, got %d", len(plugins))
	}

	p := plugins[0]
	if p.Manifest.Name != "alert" || p.Manifest.Version != "1.0.0" {
		t.Errorf("manifest = %+v", p.Manifest)
	}
	if p.Path != dir {
		t.Errorf("path = %q, want %q", p.Path, dir)
	}
	if p.Executable != filepath.Join(dir, "alert") {
		t.Errorf("executable = %q", p.Executable)
	}
	if !p.Manifest.HasAction("log") || p.Manifest.HasAction("shutdown") {
		t.Error("HasAction() mismatch")
	}
}

func TestManager_Discover_Sorted(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		writeManifest(t, root, Manifest{Name: name, Executable: name})
	}

	m := NewManager(root, nil)
	if err := m.Discover(); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	var names []string
	for _, p := range m.List() {
		names = append(names, p.Manifest.Name)
	}
	if len(names) != 3 || names[0] != "alpha" || names[1] != "mid" || names[2] != "zeta" {
		t.Errorf("List() names = %v, want sorted", names)
	}
}

func TestManager_Discover_SkipsInvalid(t *testing.T) {
	root := t.TempDir()

	bad := filepath.Join(root, "bad")
	os.MkdirAll(bad, 0755)
	os.WriteFile(filepath.Join(bad, ManifestFile), []byte("not valid json"), 0644)

	nameless := filepath.Join(root, "nameless")
	os.MkdirAll(nameless, 0755)
	os.WriteFile(filepath.Join(nameless, ManifestFile), []byte(`{"executable":"x"}`), 0644)

	os.MkdirAll(filepath.Join(root, "empty"), 0755)
	os.WriteFile(filepath.Join(root, "stray.txt"), []byte("x"), 0644)

	m := NewManager(root, nil)
	if err := m.Discover(); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if n := len(m.List()); n != 0 {
		t.Fatalf("expected 0 plugins, got %d", n)
	}
}

func TestManager_Discover_MissingDir(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "absent"), nil)
	if err := m.Discover(); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if n := len(m.List()); n != 0 {
		t.Fatalf("expected 0 plugins, got %d", n)
	}
}

func TestManager_Get(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, Manifest{Name: "alert", Version: "2.0.0", Executable: "alert"})

	m := NewManager(root, nil)
	m.Discover()

	p, err := m.Get("alert")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if p.Manifest.Version != "2.0.0" {
		t.Errorf("version = %q, want 2.0.0", p.Manifest.Version)
	}

	if _, err := m.Get("nonexistent"); !errors.Is(err, ErrPluginNotFound) {
		t.Errorf("Get() error = %v, want ErrPluginNotFound", err)
	}
}

func TestManager_PluginDir(t *testing.T) {
	if got := NewManager("/path/to/plugins", nil).PluginDir(); got != "/path/to/plugins" {
		t.Errorf("PluginDir() = %q", got)
	}
}
