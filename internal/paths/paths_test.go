package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDefaultConfigDir_Linux(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("linux-only test")
	}

	t.Run("uses XDG_CONFIG_HOME when set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
		got, err := DefaultConfigDir()
		if err != nil {
			t.Fatalf("DefaultConfigDir: %v", err)
		}
		if got != "/tmp/xdg-config/gravel" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("falls back to ~/.config when XDG unset", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		home, err := os.UserHomeDir()
		if err != nil {
			t.Fatalf("UserHomeDir: %v", err)
		}
		got, err := DefaultConfigDir()
		if err != nil {
			t.Fatalf("DefaultConfigDir: %v", err)
		}
		if got != filepath.Join(home, ".config", "gravel") {
			t.Errorf("got %q", got)
		}
	})
}

func TestResolveConfigDir_Precedence(t *testing.T) {
	t.Setenv(EnvConfigDir, "/tmp/env-config")

	got, err := ResolveConfigDir("/tmp/flag-config")
	if err != nil {
		t.Fatalf("ResolveConfigDir: %v", err)
	}
	if got != "/tmp/flag-config" {
		t.Errorf("flag should win: got %q", got)
	}

	got, err = ResolveConfigDir("")
	if err != nil {
		t.Fatalf("ResolveConfigDir: %v", err)
	}
	if got != "/tmp/env-config" {
		t.Errorf("env should win over default: got %q", got)
	}
}

func TestResolveDataDir_Precedence(t *testing.T) {
	t.Setenv(EnvDataDir, "/tmp/env-data")

	got, err := ResolveDataDir("/tmp/flag-data", "/tmp/yaml-data")
	if err != nil {
		t.Fatalf("ResolveDataDir: %v", err)
	}
	if got != "/tmp/flag-data" {
		t.Errorf("flag should win: got %q", got)
	}

	got, err = ResolveDataDir("", "/tmp/yaml-data")
	if err != nil {
		t.Fatalf("ResolveDataDir: %v", err)
	}
	if got != "/tmp/yaml-data" {
		t.Errorf("config value should win over env: got %q", got)
	}

	got, err = ResolveDataDir("", "")
	if err != nil {
		t.Fatalf("ResolveDataDir: %v", err)
	}
	if got != "/tmp/env-data" {
		t.Errorf("env should win over default: got %q", got)
	}

	t.Setenv(EnvDataDir, "")
	got, err = ResolveDataDir("", "")
	if err != nil {
		t.Fatalf("ResolveDataDir: %v", err)
	}
	cwd, _ := os.Getwd()
	if got != filepath.Join(cwd, DefaultDataDirName) {
		t.Errorf("default should be CWD-relative: got %q", got)
	}
}
