package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigRoundTrip(t *testing.T) {
	t.Setenv("LINKDECK_CONFIG_DIR", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load missing config: %v", err)
	}
	if cfg.CurrentWorkspace != "" || cfg.WebAddr != "" {
		t.Fatalf("expected empty config, got %+v", cfg)
	}

	cfg.CurrentWorkspace = "personal"
	cfg.WebAddr = "127.0.0.1:3344"
	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := LoadConfig()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.CurrentWorkspace != "personal" || got.WebAddr != "127.0.0.1:3344" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestListWorkspaces(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LINKDECK_CONFIG_DIR", dir)

	names, err := ListWorkspaces()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("expected no workspaces, got %v", names)
	}

	for _, name := range []string{"work", "personal"} {
		if err := os.MkdirAll(filepath.Join(dir, "workspaces", name), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	names, err = ListWorkspaces()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) != 2 || names[0] != "personal" || names[1] != "work" {
		t.Fatalf("expected sorted workspace names, got %v", names)
	}
}

func TestNormalizeWorkspaceName(t *testing.T) {
	if _, err := NormalizeWorkspaceName("   "); err == nil {
		t.Fatal("expected error for blank name")
	}
	name, err := NormalizeWorkspaceName("  personal ")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if name != "personal" {
		t.Fatalf("got %q", name)
	}
}
