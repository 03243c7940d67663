package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

func mustRun(t *testing.T, args ...string) map[string]any {
	t.Helper()
	stdout, stderr, err := runCLI(t, args)
	if err != nil {
		t.Fatalf("command failed: linkdeck %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", args, err, string(stderr), string(stdout))
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal stdout as json envelope: %v\nstdout:\n%s\nargs: %v", err, string(stdout), args)
	}
	if _, ok := env["data"]; !ok {
		t.Fatalf("expected JSON envelope to contain data key; got: %v\nstdout:\n%s", env, string(stdout))
	}
	return env
}

func dataOf(t *testing.T, env map[string]any) map[string]any {
	t.Helper()
	d, ok := env["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object; got: %#v", env["data"])
	}
	return d
}

func TestCLISmoke(t *testing.T) {
	dir := t.TempDir()

	// First load seeds the starter set.
	list := dataOf(t, mustRun(t, "--dir", dir, "apps", "list"))
	apps, _ := list["apps"].([]any)
	if len(apps) != 8 {
		t.Fatalf("expected 8 seeded apps; got %d", len(apps))
	}
	cats := dataOf(t, mustRun(t, "--dir", dir, "categories", "list"))
	if xs, _ := cats["categories"].([]any); len(xs) != 4 {
		t.Fatalf("expected 4 seeded categories; got %#v", cats["categories"])
	}

	// Add appends to the end of both views.
	added := dataOf(t, mustRun(t, "--dir", dir, "apps", "add",
		"--name", "GitLab", "--url", "https://gitlab.com", "--category", "dev"))
	a, _ := added["app"].(map[string]any)
	id, _ := a["id"].(string)
	if id == "" {
		t.Fatalf("expected add to return an app id; got %#v", added)
	}
	if got := a["globalOrder"].(float64); got != 8 {
		t.Fatalf("expected new app at end of all view (8); got %v", got)
	}
	co, _ := a["categoryOrder"].(map[string]any)
	if got := co["dev"].(float64); got != 1 {
		t.Fatalf("expected new app at end of dev view (1); got %v", got)
	}

	// Move it to the front of the all view; other views stay put.
	moved := dataOf(t, mustRun(t, "--dir", dir, "apps", "move", id, "--target", "1", "--view", "all"))
	if moved["moved"] != true {
		t.Fatalf("expected move to write; got %#v", moved)
	}
	inOrder, _ := moved["apps"].([]any)
	first, _ := inOrder[0].(map[string]any)
	if first["id"] != id {
		t.Fatalf("expected moved app first in all view; got %#v", first["id"])
	}

	// Deleting the first category redirects its filter to "all".
	del := dataOf(t, mustRun(t, "--dir", dir, "categories", "delete", "social", "--filter", "social"))
	if del["redirect"] != "all" {
		t.Fatalf("expected redirect to all; got %#v", del["redirect"])
	}
	after := dataOf(t, mustRun(t, "--dir", dir, "apps", "list"))
	if xs, _ := after["apps"].([]any); len(xs) != 6 {
		t.Fatalf("expected 6 apps after cascade delete; got %d", len(xs))
	}

	// Export/import round trip.
	exportPath := filepath.Join(t.TempDir(), "export.json")
	mustRun(t, "--dir", dir, "export", exportPath)
	imported := dataOf(t, mustRun(t, "--dir", dir, "import", exportPath))
	if got := imported["apps"].(float64); got != 6 {
		t.Fatalf("expected 6 apps after re-import; got %v", got)
	}

	// Docs topics are embedded.
	topics := dataOf(t, mustRun(t, "--dir", dir, "docs"))
	if xs, _ := topics["topics"].([]any); len(xs) == 0 {
		t.Fatal("expected at least one docs topic")
	}
}

func TestCLIImportRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, "--dir", dir, "apps", "list")

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := runCLI(t, []string{"--dir", dir, "import", bad}); err == nil {
		t.Fatal("expected import of garbage to fail")
	}

	// State untouched.
	list := dataOf(t, mustRun(t, "--dir", dir, "apps", "list"))
	if xs, _ := list["apps"].([]any); len(xs) != 8 {
		t.Fatalf("expected state untouched after rejected import; got %d apps", len(xs))
	}
}

func TestCLIErrorsOnUnknownIDs(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, "--dir", dir, "apps", "list")

	if _, _, err := runCLI(t, []string{"--dir", dir, "apps", "delete", "missing"}); err == nil {
		t.Fatal("expected delete of unknown app to fail")
	}
	if _, _, err := runCLI(t, []string{"--dir", dir, "apps", "move", "1", "--target", "2", "--view", "missing"}); err == nil {
		t.Fatal("expected move in unknown view to fail")
	}
	if _, _, err := runCLI(t, []string{"--dir", dir, "categories", "delete", "missing"}); err == nil {
		t.Fatal("expected delete of unknown category to fail")
	}
}

func TestCLIListByCategoryView(t *testing.T) {
	dir := t.TempDir()

	out := dataOf(t, mustRun(t, "--dir", dir, "apps", "list", "--view", "social"))
	apps, _ := out["apps"].([]any)
	if len(apps) != 3 {
		t.Fatalf("expected 3 social apps; got %d", len(apps))
	}
	for i, raw := range apps {
		a, _ := raw.(map[string]any)
		co, _ := a["categoryOrder"].(map[string]any)
		if got := co["social"].(float64); got != float64(i) {
			t.Fatalf("expected dense social order at index %d; got %v", i, got)
		}
	}
}
