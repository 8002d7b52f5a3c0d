package app

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/agentstation/apexvault/pkg/bytestore"
	"github.com/agentstation/apexvault/pkg/logging"
)

func testConfig() *Config {
	return &Config{
		NoInput:    true,
		Format:     "json",
		Storage:    bytestore.Config{Type: bytestore.TypeMemory},
		StorageKey: "test_vault",
		LogOutput:  "discard",
	}
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	app, err := New("1.0.0", "abc123", "2024-01-01", "test",
		WithConfig(testConfig()),
		WithLogger(logging.NewNopLogger()))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(func() { _ = app.Shutdown(context.Background()) })
	return app
}

// run executes the root command with args and returns stdout.
func run(t *testing.T, app *App, stdin string, args ...string) (string, error) {
	t.Helper()
	root := app.createRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// TestApp_New verifies app initialization.
func TestApp_New(t *testing.T) {
	app := newTestApp(t)

	if app.Version() != "1.0.0" {
		t.Errorf("Version() = %s, want 1.0.0", app.Version())
	}
	if app.Commit() != "abc123" {
		t.Errorf("Commit() = %s, want abc123", app.Commit())
	}
	if app.Date() != "2024-01-01" {
		t.Errorf("Date() = %s, want 2024-01-01", app.Date())
	}
	if app.BuiltBy() != "test" {
		t.Errorf("BuiltBy() = %s, want test", app.BuiltBy())
	}
	if app.Logger() == nil {
		t.Error("Logger() returned nil")
	}
	if app.OutputFormat() != "json" {
		t.Errorf("OutputFormat() = %s, want json", app.OutputFormat())
	}
	if app.Interactive() {
		t.Error("Interactive() = true with NoInput set")
	}
}

func TestApp_WithNilConfig(t *testing.T) {
	if _, err := New("dev", "", "", "", WithConfig(nil)); err == nil {
		t.Fatal("New() with nil config succeeded")
	}
}

// TestApp_Vault_Singleton verifies that Vault() returns the same instance.
func TestApp_Vault_Singleton(t *testing.T) {
	app := newTestApp(t)

	v1, err := app.Vault()
	if err != nil {
		t.Fatalf("Vault() failed: %v", err)
	}
	v2, err := app.Vault()
	if err != nil {
		t.Fatalf("Vault() failed on second call: %v", err)
	}
	if v1 != v2 {
		t.Error("Vault() returned different instances")
	}
}

// TestApp_Vault_Concurrent verifies thread-safe lazy initialization.
func TestApp_Vault_Concurrent(t *testing.T) {
	app := newTestApp(t)

	const n = 16
	var wg sync.WaitGroup
	results := make(chan any, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := app.Vault()
			if err != nil {
				t.Errorf("Vault() failed: %v", err)
				return
			}
			results <- v
		}()
	}
	wg.Wait()
	close(results)

	var first any
	for v := range results {
		if first == nil {
			first = v
		} else if v != first {
			t.Fatal("concurrent Vault() calls returned different instances")
		}
	}
}

func TestApp_Vault_BadStorage(t *testing.T) {
	cfg := testConfig()
	cfg.Storage.Type = "s3"
	app, err := New("dev", "", "", "", WithConfig(cfg), WithLogger(logging.NewNopLogger()))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if _, err := app.Vault(); err == nil {
		t.Fatal("Vault() with unknown storage type succeeded")
	}
}

func TestApp_Shutdown(t *testing.T) {
	app := newTestApp(t)

	// Nothing opened yet
	if err := app.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() before Vault() failed: %v", err)
	}

	if _, err := app.Vault(); err != nil {
		t.Fatalf("Vault() failed: %v", err)
	}
	if err := app.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() failed: %v", err)
	}
	// Idempotent
	if err := app.Shutdown(context.Background()); err != nil {
		t.Fatalf("second Shutdown() failed: %v", err)
	}
}

// TestApp_Commands drives the CLI end to end against an in-memory vault.
func TestApp_Commands(t *testing.T) {
	app := newTestApp(t)

	out, err := run(t, app, "", "add", "--name", "Mail", "--link", "https://mail.example.com",
		"--workspace", "acme", "--username", "jo", "--password", "hunter2")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if out != "Saved 1 entry.\n" {
		t.Errorf("add output = %q", out)
	}

	out, err = run(t, app, "", "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, `"link": "https://mail.example.com"`) || strings.Contains(out, "hunter2") {
		t.Errorf("list output = %q", out)
	}

	exported, err := run(t, app, "", "export", "--file", "-")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	out, err = run(t, app, "", "clear", "--yes")
	if err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if out != "Cleared all entries.\n" {
		t.Errorf("clear output = %q", out)
	}

	out, err = run(t, app, exported, "import", "-", "--mode", "merge")
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if out != "Merged: +1 added, 0 updated. Total 1.\n" {
		t.Errorf("import output = %q", out)
	}

	out, err = run(t, app, "", "-o", "yaml", "list", "--reveal")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "hunter2") {
		t.Errorf("list --reveal output = %q", out)
	}
}

func TestApp_Version(t *testing.T) {
	app := newTestApp(t)

	out, err := run(t, app, "", "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out, `"version": "1.0.0"`) || !strings.Contains(out, `"commit": "abc123"`) {
		t.Errorf("version output = %q", out)
	}

	out, err = run(t, app, "", "--version")
	if err != nil {
		t.Fatalf("--version failed: %v", err)
	}
	if out != "apexvault 1.0.0\n" {
		t.Errorf("--version output = %q", out)
	}
}

func TestApp_SetupCommandAppliesFlags(t *testing.T) {
	app := newTestApp(t)

	if _, err := run(t, app, "", "-v", "--format", "wide", "list"); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !app.Config().Verbose {
		t.Error("Verbose flag not applied")
	}
	if app.OutputFormat() != "wide" {
		t.Errorf("OutputFormat() = %s, want wide", app.OutputFormat())
	}
}
