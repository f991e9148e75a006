package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/pastille/internal/app"
	"github.com/zjrosen/pastille/internal/config"
	"github.com/zjrosen/pastille/internal/directory"
	"github.com/zjrosen/pastille/internal/infrastructure/sqlite"
	"github.com/zjrosen/pastille/internal/log"
	"github.com/zjrosen/pastille/internal/mode"
	"github.com/zjrosen/pastille/internal/ui/styles"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	cfg       config.Config
)

var rootCmd = &cobra.Command{
	Use:     "pastille",
	Short:   "A terminal editor with atomic mention chips",
	Long:    `A terminal rich-text editor where @-mentions become atomic styled chips, with a mention directory, draft persistence, and live theme reload.`,
	Version: version,
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/pastille/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false,
		"enable debug logging and the log overlay (ctrl+x)")
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("editor.trigger", defaults.Editor.Trigger)
	viper.SetDefault("editor.char_limit", defaults.Editor.CharLimit)
	viper.SetDefault("editor.smart_quotes", defaults.Editor.SmartQuotes)
	viper.SetDefault("editor.placeholder", defaults.Editor.Placeholder)
	viper.SetDefault("theme.preset", defaults.Theme.Preset)
	viper.SetDefault("directory.cache_ttl_seconds", defaults.Directory.CacheTTLSeconds)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .pastille/config.yaml (current directory)
		// 2. ~/.config/pastille/config.yaml (user config)
		if _, err := os.Stat(".pastille/config.yaml"); err == nil {
			viper.SetConfigFile(".pastille/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "pastille"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create default at .pastille/config.yaml
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			defaultPath := ".pastille/config.yaml"
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

// debugEnabled reports whether debug mode is on, via flag or environment.
func debugEnabled() bool {
	return debugFlag || os.Getenv("PASTILLE_DEBUG") != ""
}

func runApp(cmd *cobra.Command, args []string) error {
	services, cleanup, err := buildServices()
	if err != nil {
		return err
	}
	defer cleanup()

	model := app.New(services, mode.ModeCompose, debugEnabled())
	p := tea.NewProgram(
		&model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err = p.Run()

	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// buildServices validates the config and wires the shared services: theme,
// logging, mention directory, and the drafts store. The returned cleanup
// closes the log file and the database.
func buildServices() (mode.Services, func(), error) {
	noop := func() {}

	if err := cfg.Validate(); err != nil {
		return mode.Services{}, noop, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := styles.ApplyTheme(styles.ThemeConfig{
		Preset: cfg.Theme.Preset,
		Mode:   cfg.Theme.Mode,
		Colors: cfg.Theme.FlattenedColors(),
	}); err != nil {
		return mode.Services{}, noop, fmt.Errorf("applying theme: %w", err)
	}

	zone.NewGlobal()

	db, err := sqlite.NewDB(cfg.Storage.DBPath())
	if err != nil {
		return mode.Services{}, noop, fmt.Errorf("opening drafts database: %w", err)
	}

	logCleanup := func() {}
	if debugEnabled() {
		logPath := filepath.Join(filepath.Dir(cfg.Storage.DBPath()), "debug.log")
		if c, err := log.InitWithTeaLog(logPath, "pastille"); err == nil {
			logCleanup = c
		}
		// Logging stays disabled when the log file cannot be opened.
	}

	configFilePath := viper.ConfigFileUsed()
	if configFilePath == "" {
		configFilePath = ".pastille/config.yaml"
	}

	services := mode.Services{
		Config:     &cfg,
		ConfigPath: configFilePath,
		Directory:  directory.NewService(cfg.Directory),
		Drafts:     db.DraftRepository(),
	}
	cleanup := func() {
		_ = db.Close()
		logCleanup()
	}
	return services, cleanup, nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
