package cli

import (
	"fmt"
	"strings"
)

// Args represents the top-level command structure
type Args struct {
	Add      *AddCmd      `arg:"subcommand:add" help:"Record a visit to a page"`
	Move     *MoveCmd     `arg:"subcommand:move" help:"Re-target a history entry to another page"`
	List     *ListCmd     `arg:"subcommand:list" help:"List recent pages, newest first"`
	Get      *GetCmd      `arg:"subcommand:get" help:"Print the page at a history index"`
	Clear    *ClearCmd    `arg:"subcommand:clear" help:"Delete all history"`
	Browse   *BrowseCmd   `arg:"subcommand:browse" help:"Browse history interactively"`
	Settings *SettingsCmd `arg:"subcommand:settings" help:"Read and write stored settings"`
	Config   *ConfigCmd   `arg:"subcommand:config" help:"Manage the configuration file"`

	DBPath     *string `arg:"--db" help:"Database file (default: ~/.config/recent/last_pages.db)"`
	ConfigPath *string `arg:"--config" help:"Configuration file (default: ~/.config/recent/config.yaml)"`
	LogLevel   *string `arg:"--log-level" help:"Log level: debug, info, warn, error"`
	LogFormat  *string `arg:"--log-format" help:"Log format: text, json"`
}

// AddCmd represents the 'recent add' command
type AddCmd struct {
	Item int `arg:"positional,required" help:"Page number"`
}

// MoveCmd represents the 'recent move' command
type MoveCmd struct {
	Index int `arg:"positional,required" help:"History index to re-target (0=newest)"`
	Item  int `arg:"positional,required" help:"New page number"`
}

// ListCmd represents the 'recent list' command
type ListCmd struct{}

// GetCmd represents the 'recent get' command
type GetCmd struct {
	Index *int `arg:"positional" help:"History index (0=newest, default 0)"`
}

// ClearCmd represents the 'recent clear' command
type ClearCmd struct {
	Force bool `arg:"-f,--force" help:"Skip confirmation prompt"`
}

// BrowseCmd represents the 'recent browse' command
type BrowseCmd struct{}

// SettingsCmd represents the 'recent settings' command
type SettingsCmd struct {
	Get    *SettingsGetCmd    `arg:"subcommand:get" help:"Print a setting"`
	Set    *SettingsSetCmd    `arg:"subcommand:set" help:"Store a setting"`
	Remove *SettingsRemoveCmd `arg:"subcommand:remove" help:"Delete a setting"`
	List   *SettingsListCmd   `arg:"subcommand:list" help:"List all settings"`
}

// SettingsGetCmd represents 'recent settings get'
type SettingsGetCmd struct {
	Key string `arg:"positional,required" help:"Setting name"`
}

// SettingsSetCmd represents 'recent settings set'
type SettingsSetCmd struct {
	Key   string `arg:"positional,required" help:"Setting name"`
	Value string `arg:"positional,required" help:"Setting value"`
}

// SettingsRemoveCmd represents 'recent settings remove'
type SettingsRemoveCmd struct {
	Key string `arg:"positional,required" help:"Setting name"`
}

// SettingsListCmd represents 'recent settings list'
type SettingsListCmd struct{}

// ConfigCmd represents the 'recent config' command
type ConfigCmd struct {
	Get  *ConfigGetCmd  `arg:"subcommand:get" help:"Get configuration value"`
	Set  *ConfigSetCmd  `arg:"subcommand:set" help:"Set configuration value"`
	List *ConfigListCmd `arg:"subcommand:list" help:"List all configuration"`
}

// ConfigGetCmd represents 'recent config get'
type ConfigGetCmd struct {
	Key string `arg:"positional,required" help:"Configuration key (max-records, db-path, log-level, log-format)"`
}

// ConfigSetCmd represents 'recent config set'
type ConfigSetCmd struct {
	Key   string `arg:"positional,required" help:"Configuration key"`
	Value string `arg:"positional,required" help:"Configuration value"`
}

// ConfigListCmd represents 'recent config list'
type ConfigListCmd struct{}

// Description returns the program description
func (Args) Description() string {
	return "recent - keeps the last pages you viewed, newest first"
}

// Version returns the program version
func (Args) Version() string {
	return "recent 0.1.0"
}

// Epilogue returns additional help text
func (Args) Epilogue() string {
	return `Examples:
  recent add 42                    # Record a visit to page 42
  recent list                      # Show history, newest first
  recent get                       # Print the most recent page
  recent move 1 50                 # Replace entry 1 with page 50
  recent browse                    # Interactive browser
  recent settings get LastSelectedQariId
  recent config set max-records 5

For more information, visit: https://github.com/yiblet/recent`
}

// HasCommand reports whether a subcommand was given
func (args *Args) HasCommand() bool {
	return args.Add != nil || args.Move != nil || args.List != nil || args.Get != nil ||
		args.Clear != nil || args.Browse != nil || args.Settings != nil || args.Config != nil
}

// Validate performs validation on the parsed arguments
func (args *Args) Validate() error {
	if args.LogLevel != nil {
		switch *args.LogLevel {
		case "debug", "info", "warn", "error":
		default:
			return fmt.Errorf("log level must be one of debug, info, warn, error")
		}
	}
	if args.LogFormat != nil && *args.LogFormat != "text" && *args.LogFormat != "json" {
		return fmt.Errorf("log format must be 'text' or 'json'")
	}

	switch {
	case args.Add != nil:
		return args.Add.Validate()
	case args.Move != nil:
		return args.Move.Validate()
	case args.Get != nil:
		return args.Get.Validate()
	case args.Settings != nil:
		return args.Settings.Validate()
	case args.Config != nil:
		return args.Config.Validate()
	}
	return nil
}

// Validate validates add command arguments
func (a *AddCmd) Validate() error {
	if a.Item <= 0 {
		return fmt.Errorf("page must be a positive number")
	}
	return nil
}

// Validate validates move command arguments
func (m *MoveCmd) Validate() error {
	if m.Index < 0 {
		return fmt.Errorf("index must be non-negative")
	}
	if m.Item <= 0 {
		return fmt.Errorf("page must be a positive number")
	}
	return nil
}

// Validate validates get command arguments
func (g *GetCmd) Validate() error {
	if g.Index != nil && *g.Index < 0 {
		return fmt.Errorf("index must be non-negative")
	}
	return nil
}

// Validate validates settings command arguments
func (s *SettingsCmd) Validate() error {
	var key string
	switch {
	case s.Get != nil:
		key = s.Get.Key
	case s.Set != nil:
		key = s.Set.Key
	case s.Remove != nil:
		key = s.Remove.Key
	case s.List != nil:
		return nil
	default:
		return fmt.Errorf("no settings subcommand specified")
	}
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("setting name cannot be empty")
	}
	return nil
}

// Validate validates config command arguments
func (c *ConfigCmd) Validate() error {
	if c.Get == nil && c.Set == nil && c.List == nil {
		return fmt.Errorf("no config subcommand specified")
	}
	return nil
}
