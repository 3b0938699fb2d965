package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/gravitrone/credir/internal/api"
	"github.com/gravitrone/credir/internal/cmd"
	"github.com/gravitrone/credir/internal/config"
	"github.com/gravitrone/credir/internal/logging"
	"github.com/gravitrone/credir/internal/store"
	"github.com/gravitrone/credir/internal/ui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "credir",
		Short: "credir - commercial real estate directory",
		Long:  "credir browses listings, brokers, companies, locations, funds and transactions from a listing API.",
		RunE: func(c *cobra.Command, _ []string) error {
			return runTUI(c)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.Flags()
	flags.String("api-url", "", "listing API base URL (overrides config and "+config.EnvAPIURL+")")
	flags.String("api-key", "", "listing API key (overrides config and "+config.EnvAPIKey+")")
	flags.Int("per-page", 0, "rows per page on first load")
	flags.Int("debounce-ms", 0, "search debounce in milliseconds")
	flags.Duration("request-timeout", 0, "per-request timeout, e.g. 10s")
	flags.String("log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(cmd.ServeCmd())
	root.AddCommand(cmd.WidthsCmd())
	root.AddCommand(cmd.ConfigCmd())
	return root
}

func init() {
	// Force truecolor so hex colors render correctly
	// Must be set before any lipgloss style initialization
	os.Setenv("COLORTERM", "truecolor")
}

func runTUI(c *cobra.Command) error {
	if !isInteractiveTerminal(os.Stdin) || !isInteractiveTerminal(os.Stdout) {
		return fmt.Errorf("credir needs an interactive terminal; try 'credir serve' or 'credir widths list'")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	log, err := logging.Init(logging.Config{
		Level:      cfg.LogLevel,
		File:       config.LogPath(),
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		Compress:   true,
	})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}

	var storage store.Storage
	state, err := store.OpenSQLite(cfg.StateDBPath())
	if err != nil {
		// Widths still work for this session, they just are not kept.
		log.WithError(err).Warn("state database unavailable, widths kept in memory")
		storage = store.NewMemory()
	} else {
		defer state.Close()
		storage = state
	}

	client := api.NewClient(cfg.APIURL, cfg.APIKey, cfg.RequestTimeout)
	app := ui.NewApp(client, cfg, storage, log)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// loadConfig layers flags set on c over the config file and environment.
func loadConfig(c *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	flags := c.Flags()
	if flags.Changed("api-url") {
		cfg.APIURL, _ = flags.GetString("api-url")
	}
	if flags.Changed("api-key") {
		cfg.APIKey, _ = flags.GetString("api-key")
	}
	if flags.Changed("per-page") {
		cfg.PerPage, _ = flags.GetInt("per-page")
	}
	if flags.Changed("debounce-ms") {
		cfg.DebounceMS, _ = flags.GetInt("debounce-ms")
	}
	if flags.Changed("request-timeout") {
		cfg.RequestTimeout, _ = flags.GetDuration("request-timeout")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func isInteractiveTerminal(file *os.File) bool {
	if file == nil {
		return false
	}
	info, err := file.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
