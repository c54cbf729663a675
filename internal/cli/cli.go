package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/yiblet/recent/internal/appfs"
	"github.com/yiblet/recent/internal/config"
	"github.com/yiblet/recent/internal/history"
	"github.com/yiblet/recent/internal/logging"
	"github.com/yiblet/recent/internal/settings"
	"github.com/yiblet/recent/internal/store"
	"github.com/yiblet/recent/internal/store/dbstore"
	"github.com/yiblet/recent/internal/tui"
)

// CLI handles the command-line interface
type CLI struct {
	filesystem    *appfs.AppFS
	configManager *config.ConfigManager
	config        *config.Config
	store         *dbstore.SQLiteStore
	history       *history.Manager
	settings      *settings.Settings
	logger        *slog.Logger

	in  io.Reader
	out io.Writer
}

// New creates a new CLI instance
func New() (*CLI, error) {
	return NewWithArgs(nil)
}

// NewWithArgs creates a new CLI instance honoring the global flags in args.
// Precedence for every setting: flag > config file > default.
func NewWithArgs(args *Args) (*CLI, error) {
	if args == nil {
		args = &Args{}
	}

	var cm *config.ConfigManager
	if args.ConfigPath != nil {
		cm = config.NewConfigManagerWithPath(*args.ConfigPath)
	} else {
		var err error
		cm, err = config.NewConfigManager()
		if err != nil {
			return nil, err
		}
	}

	cfg, err := cm.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if args.LogLevel != nil {
		cfg.LogLevel = *args.LogLevel
	}
	if args.LogFormat != nil {
		cfg.LogFormat = *args.LogFormat
	}
	logger := logging.Init(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	dbPath := cfg.DBPath
	if args.DBPath != nil {
		dbPath = *args.DBPath
	}

	afs, err := appfs.NewWithDBPath(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize filesystem: %w", err)
	}

	sqliteStore, err := dbstore.NewSQLiteStoreWithOptions(afs.DBPath(), store.Options{
		MaxRecords: cfg.MaxRecords,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create database store: %w", err)
	}

	logger.Debug("opened store", "path", afs.DBPath(), "max_records", cfg.MaxRecords)

	return &CLI{
		filesystem:    afs,
		configManager: cm,
		config:        cfg,
		store:         sqliteStore,
		history:       history.NewManager(sqliteStore.Recent(), logger),
		settings:      settings.New(sqliteStore.Config()),
		logger:        logger,
		in:            os.Stdin,
		out:           os.Stdout,
	}, nil
}

// Close releases the database
func (c *CLI) Close() error {
	return c.store.Close()
}

// Execute runs the CLI command based on parsed arguments
func (c *CLI) Execute(args *Args) error {
	if err := args.Validate(); err != nil {
		return err
	}

	switch {
	case args.Add != nil:
		return c.executeAdd(args.Add)
	case args.Move != nil:
		return c.executeMove(args.Move)
	case args.List != nil:
		return c.executeList()
	case args.Get != nil:
		return c.executeGet(args.Get)
	case args.Clear != nil:
		return c.executeClear(args.Clear)
	case args.Settings != nil:
		return c.executeSettings(args.Settings)
	case args.Config != nil:
		return c.executeConfig(args.Config)
	default:
		// Default behavior: launch TUI
		return c.launchTUI()
	}
}

// executeAdd handles the 'recent add' command
func (c *CLI) executeAdd(cmd *AddCmd) error {
	record, err := c.history.Visit(cmd.Item)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Added page %d\n", record.Item)
	return nil
}

// executeMove handles the 'recent move' command
func (c *CLI) executeMove(cmd *MoveCmd) error {
	record, err := c.history.Move(cmd.Index, cmd.Item)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Moved entry %d to page %d\n", cmd.Index, record.Item)
	return nil
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// executeList handles the 'recent list' command
func (c *CLI) executeList() error {
	records, err := c.history.List()
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if len(records) == 0 {
		fmt.Fprintln(c.out, "History is empty.")
		return nil
	}

	rows := make([][]string, 0, len(records))
	for i, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(i),
			strconv.Itoa(r.Item),
			r.ModifiedAt.Local().Format("2006-01-02 15:04:05"),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("INDEX", "PAGE", "LAST VIEWED").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	fmt.Fprintln(c.out, t.Render())
	return nil
}

// executeGet handles the 'recent get' command
func (c *CLI) executeGet(cmd *GetCmd) error {
	index := 0
	if cmd.Index != nil {
		index = *cmd.Index
	}

	record, err := c.history.Get(index)
	if err != nil {
		return fmt.Errorf("failed to get entry at index %d: %w", index, err)
	}

	fmt.Fprintf(c.out, "%d\n", record.Item)
	return nil
}

// executeClear handles the 'recent clear' command
func (c *CLI) executeClear(cmd *ClearCmd) error {
	count, err := c.history.Size()
	if err != nil {
		return fmt.Errorf("failed to count history: %w", err)
	}

	if count == 0 {
		fmt.Fprintln(c.out, "History is already empty.")
		return nil
	}

	// Prompt for confirmation unless --force is used
	if !cmd.Force {
		fmt.Fprintf(c.out, "This will delete %d page(s) from history. Continue? [y/N]: ", count)
		response, _ := bufio.NewReader(c.in).ReadString('\n')
		response = strings.ToLower(strings.TrimSpace(response))
		if response != "y" && response != "yes" {
			fmt.Fprintln(c.out, "Cancelled.")
			return nil
		}
	}

	if err := c.history.Clear(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	fmt.Fprintf(c.out, "Cleared %d page(s) from history.\n", count)
	return nil
}

// executeSettings handles the 'recent settings' command
func (c *CLI) executeSettings(cmd *SettingsCmd) error {
	switch {
	case cmd.Get != nil:
		return c.executeSettingsGet(cmd.Get)
	case cmd.Set != nil:
		return c.executeSettingsSet(cmd.Set)
	case cmd.Remove != nil:
		return c.executeSettingsRemove(cmd.Remove)
	case cmd.List != nil:
		return c.executeSettingsList()
	default:
		return fmt.Errorf("no settings subcommand specified")
	}
}

func (c *CLI) executeSettingsGet(cmd *SettingsGetCmd) error {
	switch cmd.Key {
	case settings.LastViewedPage.Name:
		page, err := settings.Get(c.settings, settings.LastViewedPage)
		if err != nil {
			return err
		}
		if page == nil {
			fmt.Fprintln(c.out, "(unset)")
			return nil
		}
		fmt.Fprintf(c.out, "%d\n", *page)
	case settings.LastSelectedQariID.Name:
		id, err := settings.Get(c.settings, settings.LastSelectedQariID)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "%d\n", id)
	default:
		value, err := c.settings.Raw(cmd.Key)
		if err != nil {
			return fmt.Errorf("failed to get setting %s: %w", cmd.Key, err)
		}
		fmt.Fprintln(c.out, value)
	}
	return nil
}

func (c *CLI) executeSettingsSet(cmd *SettingsSetCmd) error {
	switch cmd.Key {
	case settings.LastViewedPage.Name:
		page, err := strconv.Atoi(cmd.Value)
		if err != nil || page <= 0 {
			return fmt.Errorf("%s must be a positive integer", cmd.Key)
		}
		if err := settings.Set(c.settings, settings.LastViewedPage, &page); err != nil {
			return err
		}
	case settings.LastSelectedQariID.Name:
		id, err := strconv.Atoi(cmd.Value)
		if err != nil {
			return fmt.Errorf("%s must be an integer", cmd.Key)
		}
		if err := settings.Set(c.settings, settings.LastSelectedQariID, id); err != nil {
			return err
		}
	default:
		if err := c.store.Config().Set(cmd.Key, cmd.Value); err != nil {
			return fmt.Errorf("failed to set setting %s: %w", cmd.Key, err)
		}
	}

	fmt.Fprintf(c.out, "Set %s = %s\n", cmd.Key, cmd.Value)
	return nil
}

func (c *CLI) executeSettingsRemove(cmd *SettingsRemoveCmd) error {
	switch cmd.Key {
	case settings.LastViewedPage.Name:
		if err := settings.Remove(c.settings, settings.LastViewedPage); err != nil {
			return err
		}
	case settings.LastSelectedQariID.Name:
		if err := settings.Remove(c.settings, settings.LastSelectedQariID); err != nil {
			return err
		}
	default:
		if err := c.store.Config().Delete(cmd.Key); err != nil {
			return fmt.Errorf("failed to remove setting %s: %w", cmd.Key, err)
		}
	}

	fmt.Fprintf(c.out, "Removed %s\n", cmd.Key)
	return nil
}

func (c *CLI) executeSettingsList() error {
	values, err := c.settings.List()
	if err != nil {
		return fmt.Errorf("failed to list settings: %w", err)
	}

	if len(values) == 0 {
		fmt.Fprintln(c.out, "No settings stored.")
		return nil
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fmt.Fprintf(c.out, "  %s = %s\n", k, values[k])
	}
	return nil
}

// executeConfig handles the 'recent config' command
func (c *CLI) executeConfig(cmd *ConfigCmd) error {
	switch {
	case cmd.Get != nil:
		value, err := c.configManager.Get(cmd.Get.Key)
		if err != nil {
			return fmt.Errorf("failed to get config value: %w", err)
		}
		fmt.Fprintf(c.out, "%s\n", value)
		return nil
	case cmd.Set != nil:
		if err := c.configManager.Update(cmd.Set.Key, cmd.Set.Value); err != nil {
			return fmt.Errorf("failed to set config value: %w", err)
		}
		fmt.Fprintf(c.out, "Set %s = %s\n", cmd.Set.Key, cmd.Set.Value)
		return nil
	case cmd.List != nil:
		values, err := c.configManager.List()
		if err != nil {
			return fmt.Errorf("failed to list config values: %w", err)
		}
		keys := make([]string, 0, len(values))
		for k := range values {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fmt.Fprintf(c.out, "Current configuration (%s):\n", c.configManager.GetConfigPath())
		for _, k := range keys {
			fmt.Fprintf(c.out, "  %s = %s\n", k, values[k])
		}
		return nil
	default:
		return fmt.Errorf("no config subcommand specified")
	}
}

// launchTUI starts the interactive browser. Choosing an entry visits it again.
func (c *CLI) launchTUI() error {
	records, err := c.history.List()
	if err != nil {
		return fmt.Errorf("error listing history: %w", err)
	}

	if len(records) == 0 {
		fmt.Fprintln(c.out, "History is empty!")
		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, "To record a page:")
		fmt.Fprintln(c.out, "  recent add 42")
		return nil
	}

	p := tea.NewProgram(tui.NewAppModel(records), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}

	model, ok := final.(tui.AppModel)
	if !ok {
		return errors.New("unexpected model returned from browser")
	}

	selected, ok := model.Selected()
	if !ok {
		return nil
	}

	if _, err := c.history.Visit(selected.Item); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%d\n", selected.Item)
	return nil
}
