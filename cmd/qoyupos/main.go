package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"qoyupos/cmd/qoyupos/app"
	"qoyupos/internal/api"
	"qoyupos/internal/catalog"
	"qoyupos/internal/config"
	"qoyupos/internal/logging"
	"qoyupos/internal/prefs"
	"qoyupos/internal/session"
	"qoyupos/internal/sound"
)

const version = "1.2.0"

var (
	// Global flags
	verbose    bool
	serverURL  string
	configPath string

	// Logger for one-shot commands; the TUI writes to category files instead.
	logger *zap.Logger
)

// rootCmd launches the interactive terminal when run without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "qoyupos",
	Short: "Qoyu POS - терминал кассира кофейни",
	Long: `Qoyu POS is the coffee-shop counter terminal: cashiers build orders with
options and discounts, admins manage the menu and watch live sales, and a
customer-facing board shows order status.

Run without arguments to start the interactive interface.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The interactive UI has its own logging; zap covers one-shot commands.
		if cmd.Use == "qoyupos" && cmd.CalledAs() == "qoyupos" {
			return nil
		}
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(app.PageOrders)
	},
}

// displayCmd starts straight on the customer status board.
var displayCmd = &cobra.Command{
	Use:   "display",
	Short: "Start on the customer-facing status board",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(app.PageDisplay)
	},
}

// loginCmd authenticates and stores the session cookie check.
var loginCmd = &cobra.Command{
	Use:   "login [phone] [password]",
	Short: "Sign in and verify the account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		client := api.New(cfg.Server.BaseURL, cfg.GetRequestTimeout())
		gate := session.New(client)

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		snap, err := gate.Login(ctx, args[0], args[1])
		if err != nil {
			return fmt.Errorf("login failed: %s", api.Message(err))
		}
		logger.Info("signed in",
			zap.String("name", snap.User.Name),
			zap.String("role", string(snap.User.Role)))
		fmt.Printf("%s (%s)\n", snap.User.Name, snap.User.Role)
		return nil
	},
}

// logoutCmd drops the server-side session.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		client := api.New(cfg.Server.BaseURL, cfg.GetRequestTimeout())

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		if err := client.Logout(ctx); err != nil {
			logger.Warn("logout", zap.String("error", api.Message(err)))
		}
		fmt.Println("ok")
		return nil
	},
}

// meCmd prints the current account as the server sees it.
var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Show the signed-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		client := api.New(cfg.Server.BaseURL, cfg.GetRequestTimeout())

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		user, err := client.Me(ctx)
		if err != nil {
			return fmt.Errorf("not signed in: %s", api.Message(err))
		}
		fmt.Printf("%s  %s  %s\n", user.Name, user.Phone, user.Role)
		return nil
	},
}

// ordersCmd lists the active queue without starting the UI.
var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List active orders",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		client := api.New(cfg.Server.BaseURL, cfg.GetRequestTimeout())

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		orders, err := client.Orders(ctx, catalog.OrderActive, 50)
		if err != nil {
			return fmt.Errorf("orders: %s", api.Message(err))
		}
		logger.Debug("fetched orders", zap.Int("count", len(orders)))
		for _, o := range orders {
			fmt.Printf("#%-4d %-20s %8s  %s\n",
				o.ID, o.CustomerName, o.Total.Format(), o.CreatedAt.Local().Format("15:04"))
		}
		return nil
	},
}

// versionCmd prints the build version.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("qoyupos " + version)
	},
}

func loadConfig() (*config.Config, string, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	if serverURL != "" {
		cfg.Server.BaseURL = serverURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func runInteractive(start app.Page) error {
	cfg, cfgPath, err := loadConfig()
	if err != nil {
		return err
	}

	stateDir := filepath.Dir(cfgPath)
	if err := logging.Initialize(stateDir); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	defer logging.CloseAll()
	logging.Boot("qoyupos %s starting, server %s", version, cfg.Server.BaseURL)

	store, err := prefs.Open(filepath.Join(stateDir, "prefs.db"))
	if err != nil {
		return fmt.Errorf("preferences: %w", err)
	}
	defer store.Close()

	client := api.New(cfg.Server.BaseURL, cfg.GetRequestTimeout())
	gate := session.New(client)

	if err := store.Set(prefs.KeyServerURL, cfg.Server.BaseURL); err != nil {
		logging.Get(logging.CategoryStore).Warn("persist server url: %v", err)
	}

	soundOn := store.GetBool(prefs.KeySoundEnabled, cfg.Sound.Enabled)
	notifier := sound.NewNotifier(sound.PlayerSink{}, soundOn, cfg.GetSoundMinInterval())

	return app.Run(app.Options{
		Config:   cfg,
		Client:   client,
		Gate:     gate,
		Notifier: notifier,
		Prefs:    store,
		Start:    start,
	}, cfgPath)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "backend base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml")

	rootCmd.AddCommand(displayCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(meCmd)
	rootCmd.AddCommand(ordersCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
