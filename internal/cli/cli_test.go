package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yiblet/recent/internal/appfs"
	"github.com/yiblet/recent/internal/history"
	"github.com/yiblet/recent/internal/store"
)

func intPtr(i int) *int {
	return &i
}

func stringPtr(s string) *string {
	return &s
}

// newTestCLI builds a CLI rooted in a temporary HOME and captures its output.
func newTestCLI(t *testing.T, args *Args) (*CLI, *bytes.Buffer) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	c, err := NewWithArgs(args)
	if err != nil {
		t.Fatalf("NewWithArgs failed: %v", err)
	}
	t.Cleanup(func() { c.Close() })

	out := &bytes.Buffer{}
	c.out = out
	return c, out
}

func reopen(t *testing.T, args *Args) (*CLI, *bytes.Buffer) {
	t.Helper()
	c, err := NewWithArgs(args)
	if err != nil {
		t.Fatalf("NewWithArgs failed: %v", err)
	}
	t.Cleanup(func() { c.Close() })

	out := &bytes.Buffer{}
	c.out = out
	return c, out
}

func run(t *testing.T, c *CLI, out *bytes.Buffer, args Args) string {
	t.Helper()
	out.Reset()
	if err := c.Execute(&args); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	return out.String()
}

func TestNewWithArgs_DefaultPaths(t *testing.T) {
	c, _ := newTestCLI(t, nil)

	home, _ := os.UserHomeDir()
	expectedRoot := filepath.Join(home, appfs.ConfigDir)
	if c.filesystem.Root() != expectedRoot {
		t.Errorf("Expected root %s, got %s", expectedRoot, c.filesystem.Root())
	}

	expectedDB := filepath.Join(expectedRoot, appfs.DBFile)
	if c.store.Path() != expectedDB {
		t.Errorf("Expected database %s, got %s", expectedDB, c.store.Path())
	}
	if _, err := os.Stat(expectedDB); err != nil {
		t.Errorf("Expected database file to exist: %v", err)
	}
	if c.config.MaxRecords != store.DefaultMaxRecords {
		t.Errorf("Expected max records %d, got %d", store.DefaultMaxRecords, c.config.MaxRecords)
	}
}

func TestNewWithArgs_CustomDBPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "pages.db")
	c, _ := newTestCLI(t, &Args{DBPath: &dbPath})

	if c.store.Path() != dbPath {
		t.Errorf("Expected database %s, got %s", dbPath, c.store.Path())
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("Expected database file to exist: %v", err)
	}
}

func TestNewWithArgs_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	dbPath := filepath.Join(dir, "from-config.db")
	content := "max_records: 5\ndb_path: " + dbPath + "\nlog_level: error\n"
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	c, out := newTestCLI(t, &Args{ConfigPath: &configPath})

	if c.config.MaxRecords != 5 {
		t.Errorf("Expected max records 5, got %d", c.config.MaxRecords)
	}
	if c.store.Path() != dbPath {
		t.Errorf("Expected database %s, got %s", dbPath, c.store.Path())
	}

	for page := 1; page <= 6; page++ {
		run(t, c, out, Args{Add: &AddCmd{Item: page}})
	}
	size, err := c.history.Size()
	if err != nil {
		t.Fatalf("Size failed: %v", err)
	}
	if size != 5 {
		t.Errorf("Expected 5 records with max_records 5, got %d", size)
	}
}

func TestNewWithArgs_FlagOverridesConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	configDB := filepath.Join(dir, "config.db")
	flagDB := filepath.Join(dir, "flag.db")
	if err := os.WriteFile(configPath, []byte("db_path: "+configDB+"\nlog_level: info\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	c, _ := newTestCLI(t, &Args{ConfigPath: &configPath, DBPath: &flagDB, LogLevel: stringPtr("error")})

	if c.store.Path() != flagDB {
		t.Errorf("Expected flag database %s, got %s", flagDB, c.store.Path())
	}
	if c.config.LogLevel != "error" {
		t.Errorf("Expected log level from flag, got %s", c.config.LogLevel)
	}
}

func TestNewWithArgs_InvalidConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("max_records: -1\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if _, err := NewWithArgs(&Args{ConfigPath: &configPath}); err == nil {
		t.Error("Expected error for invalid config")
	}
}

func TestExecute_AddListGet(t *testing.T) {
	c, out := newTestCLI(t, nil)

	for _, page := range []int{1, 2, 3, 4} {
		got := run(t, c, out, Args{Add: &AddCmd{Item: page}})
		if !strings.Contains(got, "Added page") {
			t.Errorf("Unexpected add output: %q", got)
		}
	}

	listing := run(t, c, out, Args{List: &ListCmd{}})
	for _, want := range []string{"PAGE", "4", "3", "2"} {
		if !strings.Contains(listing, want) {
			t.Errorf("Expected listing to contain %q:\n%s", want, listing)
		}
	}

	if got := run(t, c, out, Args{Get: &GetCmd{}}); got != "4\n" {
		t.Errorf("Expected newest page 4, got %q", got)
	}
	if got := run(t, c, out, Args{Get: &GetCmd{Index: intPtr(2)}}); got != "2\n" {
		t.Errorf("Expected page 2 at index 2, got %q", got)
	}

	err := c.Execute(&Args{Get: &GetCmd{Index: intPtr(3)}})
	if !errors.Is(err, history.ErrIndexOutOfRange) {
		t.Errorf("Expected ErrIndexOutOfRange for evicted index, got %v", err)
	}
}

func TestExecute_ListEmpty(t *testing.T) {
	c, out := newTestCLI(t, nil)

	if got := run(t, c, out, Args{List: &ListCmd{}}); got != "History is empty.\n" {
		t.Errorf("Unexpected output: %q", got)
	}
}

func TestExecute_Move(t *testing.T) {
	c, out := newTestCLI(t, nil)

	run(t, c, out, Args{Add: &AddCmd{Item: 10}})
	run(t, c, out, Args{Add: &AddCmd{Item: 20}})

	got := run(t, c, out, Args{Move: &MoveCmd{Index: 1, Item: 11}})
	if !strings.Contains(got, "Moved entry 1 to page 11") {
		t.Errorf("Unexpected move output: %q", got)
	}

	records, err := c.history.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 2 || records[0].Item != 11 || records[1].Item != 20 {
		t.Errorf("Unexpected history after move: %+v", records)
	}
}

func TestExecute_Clear(t *testing.T) {
	c, out := newTestCLI(t, nil)

	if got := run(t, c, out, Args{Clear: &ClearCmd{}}); got != "History is already empty.\n" {
		t.Errorf("Unexpected output: %q", got)
	}

	run(t, c, out, Args{Add: &AddCmd{Item: 7}})

	c.in = strings.NewReader("n\n")
	if got := run(t, c, out, Args{Clear: &ClearCmd{}}); !strings.Contains(got, "Cancelled.") {
		t.Errorf("Expected cancellation, got %q", got)
	}
	if size, _ := c.history.Size(); size != 1 {
		t.Errorf("Expected history to survive cancelled clear, got %d", size)
	}

	c.in = strings.NewReader("yes\n")
	if got := run(t, c, out, Args{Clear: &ClearCmd{}}); !strings.Contains(got, "Cleared 1 page(s)") {
		t.Errorf("Expected clear confirmation, got %q", got)
	}

	run(t, c, out, Args{Add: &AddCmd{Item: 8}})
	run(t, c, out, Args{Clear: &ClearCmd{Force: true}})
	if size, _ := c.history.Size(); size != 0 {
		t.Errorf("Expected empty history, got %d", size)
	}
}

func TestExecute_Settings(t *testing.T) {
	c, out := newTestCLI(t, nil)

	if got := run(t, c, out, Args{Settings: &SettingsCmd{Get: &SettingsGetCmd{Key: "LastSelectedQariId"}}}); got != "-1\n" {
		t.Errorf("Expected default qari id -1, got %q", got)
	}
	if got := run(t, c, out, Args{Settings: &SettingsCmd{Get: &SettingsGetCmd{Key: "LastViewedPage"}}}); got != "(unset)\n" {
		t.Errorf("Expected unset page, got %q", got)
	}

	run(t, c, out, Args{Settings: &SettingsCmd{Set: &SettingsSetCmd{Key: "LastSelectedQariId", Value: "4"}}})
	if got := run(t, c, out, Args{Settings: &SettingsCmd{Get: &SettingsGetCmd{Key: "LastSelectedQariId"}}}); got != "4\n" {
		t.Errorf("Expected qari id 4, got %q", got)
	}

	run(t, c, out, Args{Settings: &SettingsCmd{Set: &SettingsSetCmd{Key: "theme", Value: "dark"}}})
	listing := run(t, c, out, Args{Settings: &SettingsCmd{List: &SettingsListCmd{}}})
	if !strings.Contains(listing, "LastSelectedQariId = 4") || !strings.Contains(listing, "theme = dark") {
		t.Errorf("Unexpected settings listing:\n%s", listing)
	}

	run(t, c, out, Args{Settings: &SettingsCmd{Remove: &SettingsRemoveCmd{Key: "theme"}}})
	err := c.Execute(&Args{Settings: &SettingsCmd{Get: &SettingsGetCmd{Key: "theme"}}})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after remove, got %v", err)
	}

	if err := c.Execute(&Args{Settings: &SettingsCmd{Set: &SettingsSetCmd{Key: "LastViewedPage", Value: "abc"}}}); err == nil {
		t.Error("Expected error for non-numeric page")
	}
}

func TestExecute_LegacyPageMigratedOnce(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "pages.db")
	args := &Args{DBPath: &dbPath}

	c, out := newTestCLI(t, args)
	run(t, c, out, Args{Add: &AddCmd{Item: 3}})

	// A legacy value written after the store was created must not be imported.
	run(t, c, out, Args{Settings: &SettingsCmd{Set: &SettingsSetCmd{Key: "LastViewedPage", Value: "99"}}})
	c.Close()

	c2, out2 := reopen(t, args)
	listing := run(t, c2, out2, Args{List: &ListCmd{}})
	if strings.Contains(listing, "99") {
		t.Errorf("Legacy page imported into an already migrated store:\n%s", listing)
	}
}

func TestExecute_Config(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	c, out := newTestCLI(t, &Args{ConfigPath: &configPath})

	got := run(t, c, out, Args{Config: &ConfigCmd{Set: &ConfigSetCmd{Key: "max-records", Value: "7"}}})
	if !strings.Contains(got, "Set max-records = 7") {
		t.Errorf("Unexpected output: %q", got)
	}

	if got := run(t, c, out, Args{Config: &ConfigCmd{Get: &ConfigGetCmd{Key: "max-records"}}}); got != "7\n" {
		t.Errorf("Expected 7, got %q", got)
	}

	listing := run(t, c, out, Args{Config: &ConfigCmd{List: &ConfigListCmd{}}})
	if !strings.Contains(listing, "db-path = [default]") {
		t.Errorf("Unexpected config listing:\n%s", listing)
	}

	if err := c.Execute(&Args{Config: &ConfigCmd{Set: &ConfigSetCmd{Key: "bogus", Value: "1"}}}); err == nil {
		t.Error("Expected error for unknown config key")
	}
}

func TestArgsValidation_ValidCases(t *testing.T) {
	tests := []struct {
		name string
		args Args
	}{
		{name: "add", args: Args{Add: &AddCmd{Item: 1}}},
		{name: "move", args: Args{Move: &MoveCmd{Index: 0, Item: 2}}},
		{name: "get default", args: Args{Get: &GetCmd{}}},
		{name: "get index", args: Args{Get: &GetCmd{Index: intPtr(2)}}},
		{name: "settings get", args: Args{Settings: &SettingsCmd{Get: &SettingsGetCmd{Key: "LastViewedPage"}}}},
		{name: "settings list", args: Args{Settings: &SettingsCmd{List: &SettingsListCmd{}}}},
		{name: "config list", args: Args{Config: &ConfigCmd{List: &ConfigListCmd{}}}},
		{name: "json logs", args: Args{LogFormat: stringPtr("json"), List: &ListCmd{}}},
		{name: "no command", args: Args{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.args.Validate(); err != nil {
				t.Errorf("Expected validation to pass for %s, got: %v", tt.name, err)
			}
		})
	}
}

func TestArgsValidation_InvalidCases(t *testing.T) {
	tests := []struct {
		name string
		args Args
	}{
		{name: "add zero", args: Args{Add: &AddCmd{Item: 0}}},
		{name: "add negative", args: Args{Add: &AddCmd{Item: -4}}},
		{name: "move negative index", args: Args{Move: &MoveCmd{Index: -1, Item: 2}}},
		{name: "move zero page", args: Args{Move: &MoveCmd{Index: 0, Item: 0}}},
		{name: "get negative", args: Args{Get: &GetCmd{Index: intPtr(-1)}}},
		{name: "settings empty key", args: Args{Settings: &SettingsCmd{Get: &SettingsGetCmd{Key: " "}}}},
		{name: "settings no subcommand", args: Args{Settings: &SettingsCmd{}}},
		{name: "config no subcommand", args: Args{Config: &ConfigCmd{}}},
		{name: "bad log level", args: Args{LogLevel: stringPtr("verbose")}},
		{name: "bad log format", args: Args{LogFormat: stringPtr("xml")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.args.Validate(); err == nil {
				t.Errorf("Expected validation to fail for %s", tt.name)
			}
		})
	}
}

func TestArgs_HasCommand(t *testing.T) {
	if (&Args{}).HasCommand() {
		t.Error("Expected no command")
	}
	if !(&Args{Browse: &BrowseCmd{}}).HasCommand() {
		t.Error("Expected browse to count as a command")
	}
}
