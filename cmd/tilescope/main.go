// Package main is the entry point for the tilescope terminal browser.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"tilescope/internal/config"
	"tilescope/internal/dataaccess"
	"tilescope/internal/eventbus"
	"tilescope/internal/index"
	"tilescope/internal/log"
	"tilescope/internal/ui"
	"tilescope/internal/ui/services/navigation"
	"tilescope/internal/ui/services/search"
)

// version is set at build time via ldflags.
var version = "dev"

var logger = log.ForService("main")

// rootCmd runs the terminal UI.
var rootCmd = &cobra.Command{
	Use:   "tilescope",
	Short: "Browse a virus and protein dataset from the terminal",
	Long: `tilescope searches a precomputed virus and protein dataset as you type.
Viruses are matched from the first two characters; proteins are matched from
three characters on, once the larger search index has been fetched.

The dataset is read from a local directory or an http(s) URL (--data).`,
	SilenceUsage: true,
	RunE:         runUI,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: $XDG_CONFIG_HOME/tilescope/config.toml)")
	rootCmd.PersistentFlags().StringP("data", "d", "", "dataset location, a directory or an http(s) URL")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
}

// loadConfig reads the config file and applies the command line overrides
func loadConfig(cmd *cobra.Command, bus eventbus.EventBus) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	var configSvc config.ConfigService
	if bus != nil {
		configSvc = config.NewConfigServiceWithBus(path, bus)
	} else {
		configSvc = config.NewConfigService(path)
	}
	cfg, err := configSvc.Load()
	if err != nil {
		return nil, err
	}

	if data, _ := cmd.Flags().GetString("data"); data != "" {
		cfg.Data.Base = data
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.UI.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", configSvc.Path(), err)
	}
	return cfg, nil
}

// newClient creates the data access client for cfg
func newClient(cfg *config.Config) *dataaccess.Client {
	return dataaccess.New(dataaccess.Options{
		Base:              cfg.Data.Base,
		Timeout:           cfg.Data.Timeout.Duration,
		RequestsPerSecond: cfg.Data.RequestsPerSecond,
	})
}

func runUI(cmd *cobra.Command, args []string) error {
	// Create event bus
	bus := eventbus.New()
	defer bus.Close()

	cfg, err := loadConfig(cmd, bus)
	if err != nil {
		return err
	}

	// Set up logging, the terminal belongs to the UI
	logFile, err := os.OpenFile(cfg.UI.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not open log file: %v\n", err)
	} else {
		defer logFile.Close()
		log.SetOutput(logFile)
	}
	log.SetGlobalDebug(cfg.UI.Debug)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize services
	client := newClient(cfg)
	light := index.NewLight(client, cfg.Data.LightIndex)
	deep := index.NewDeep(client, cfg.Data.SearchIndex)
	router := navigation.NewRouter(bus)
	svc := search.NewService(bus, light, deep, search.SettingsFromConfig(cfg.Search))
	svc.SetNavigator(router)
	logger.Infof("session %s, data %s", svc.ID(), client.Base())

	// Create UI model
	uiModel := ui.NewModel(ctx, bus, cfg, ui.Deps{
		Search:   svc,
		Router:   router,
		Viruses:  light,
		Proteins: deep,
		Client:   client,
	})

	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(uiModel, opts...)
	uiModel.SetProgram(p)

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			p.Quit()
		case <-ctx.Done():
		}
	}()

	// Set up event forwarding to UI
	eventChan := make(chan eventbus.DomainEvent, 100)
	forward := func(e eventbus.DomainEvent) {
		select {
		case eventChan <- e:
		default:
			logger.Warnf("event channel full, dropping %s", e.Type())
		}
	}
	for _, t := range []eventbus.EventType{
		eventbus.EventIndexLoaded,
		eventbus.EventIndexFailed,
		eventbus.EventSearchUpdated,
		eventbus.EventDeepSearchScheduled,
		eventbus.EventDeepSearchCompleted,
		eventbus.EventDeepSearchDiscarded,
		eventbus.EventSearchCleared,
		eventbus.EventRouteChanged,
	} {
		unsubscribe := bus.Subscribe(t, forward)
		defer unsubscribe()
	}

	// Start forwarding events to UI in background
	go func() {
		for {
			select {
			case event := <-eventChan:
				p.Send(ui.EventMsg{Event: event})
			case <-ctx.Done():
				return
			}
		}
	}()

	if os.Getenv("TILESCOPE_E2E_TEST") == "1" {
		fmt.Println("__READY__")
	}

	// Run the UI
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.Errorf("running program: %v", err)
		return fmt.Errorf("running program: %w", err)
	}
	svc.Stop()
	logger.Infof("UI exited normally")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
