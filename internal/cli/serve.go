package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/firstsnow25/BlockChef-front-sub000/internal/catalog"
	"github.com/firstsnow25/BlockChef-front-sub000/internal/server"
	"github.com/firstsnow25/BlockChef-front-sub000/internal/store"
)

// NewServeCommand creates the serve command.
//
// Settings resolve flag > environment (BLOCKCHEF_*) > config file, via
// viper. The config file is optional.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the recipe API server",
		Long: `Start the BlockChef HTTP API server.

Serves recipe document CRUD, the palette description, and graph
validation. Settings come from flags, BLOCKCHEF_* environment variables,
or an optional config file.

Example:
  blockchef serve --addr :8080 --db ./blockchef.db
  BLOCKCHEF_ADDR=:9000 blockchef serve --db /var/lib/blockchef/recipes.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}

	cmd.Flags().String("addr", ":8080", "listen address")
	cmd.Flags().String("db", "blockchef.db", "path to SQLite database")
	cmd.Flags().String("config", "", "path to config file (optional)")

	return cmd
}

func runServe(cmd *cobra.Command) error {
	v := viper.New()
	v.SetDefault("addr", ":8080")
	v.SetDefault("db", "blockchef.db")

	if err := v.BindPFlag("addr", cmd.Flags().Lookup("addr")); err != nil {
		return WrapExitError(ExitCommandError, "bind addr flag", err)
	}
	if err := v.BindPFlag("db", cmd.Flags().Lookup("db")); err != nil {
		return WrapExitError(ExitCommandError, "bind db flag", err)
	}

	v.SetEnvPrefix("BLOCKCHEF")
	v.AutomaticEnv()

	if configFile, _ := cmd.Flags().GetString("config"); configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return WrapExitError(ExitCommandError, "failed to read config file", err)
		}
		slog.Info("config loaded", "file", v.ConfigFileUsed())
	}

	cat, err := catalog.Default()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to compile catalog", err)
	}

	dbPath := v.GetString("db")
	slog.Info("opening database", "path", dbPath)
	st, err := store.Open(dbPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	srv := server.New(server.Config{Addr: v.GetString("addr")}, st, cat, slog.Default())

	// Serve until interrupted, then drain.
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return WrapExitError(ExitCommandError, "server failed", err)
		}
		return nil
	case sig := <-sigCh:
		slog.Info("signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return WrapExitError(ExitCommandError, "shutdown failed", err)
	}
	return nil
}
