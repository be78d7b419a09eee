package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ayusman/sinais/internal/detector"
)

type cliTestEnv struct {
	dataDir    string
	configPath string
}

// setupCLITestEnv writes a config whose data lives in a temp dir and whose
// gesture tuning accepts after two frames with a 250ms cooldown.
func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	dataDir := filepath.Join(base, "data")

	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
data_dir = %q

[gesture]
phrase = ["bom", "dia", "emergencia"]
window = 1
hold_frames = 2
cooldown_ms = 250
reset_delay_ms = 1000

[tray]
enabled = false
`, dataDir)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return &cliTestEnv{dataDir: dataDir, configPath: configPath}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

// writeRecording writes frames holding each hand count times, in order.
func writeRecording(t *testing.T, path string, steps ...any) {
	t.Helper()
	var buf bytes.Buffer
	for i := 0; i < len(steps); i += 2 {
		hand := steps[i].(detector.HandLandmarks)
		for n := 0; n < steps[i+1].(int); n++ {
			if err := detector.WriteFrame(&buf, []detector.HandLandmarks{hand}); err != nil {
				t.Fatalf("WriteFrame: %v", err)
			}
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write recording: %v", err)
	}
}

var (
	bomHand  = detector.SyntheticHand(0.2, 0.2)
	diaHand  = detector.SyntheticHand(1.0, 0.5)
	emerHand = detector.SyntheticHand(1.3, 1.2)
)

func TestRootHelp(t *testing.T) {
	out, _, err := runCLI(t, []string{"--help"}, "")
	if err != nil {
		t.Fatalf("help: %v", err)
	}
	for _, sub := range []string{"run", "replay", "phrases", "history", "config"} {
		requireContains(t, out, sub)
	}
}
