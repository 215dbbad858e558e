package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/oficont/oficont/auth"
	"github.com/oficont/oficont/internal/config"
	"github.com/oficont/oficont/internal/db"
	"github.com/oficont/oficont/internal/logging"
	"github.com/oficont/oficont/internal/services"
)

const shutdownTimeout = 10 * time.Second

// env is what every subcommand needs before doing its work.
type env struct {
	cfg  *config.Config
	log  *logging.Logger
	conn *gorm.DB
}

func bootstrap() (*env, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	log := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Component: "oficont"})
	logging.SetDefault(log)

	conn, err := db.Open(cfg.Database, log)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log, conn: conn}, nil
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "oficont",
		Short: "Client, transaction and report management for a bookkeeping office",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
		newSeedCommand(),
		newCreateUserCommand(),
	)

	return rootCmd
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := bootstrap()
			if err != nil {
				return err
			}
			return runServe(e)
		},
	}
}

func runServe(e *env) error {
	if err := db.Migrate(e.conn, e.cfg.App.Migrations, e.cfg.Database.URL()); err != nil {
		return err
	}
	if e.cfg.App.Seed {
		if err := db.Seed(e.conn); err != nil {
			return err
		}
	}

	auth.Configure(e.cfg.Auth.SessionSecret, e.cfg.Auth.SessionTTL)
	app := NewApp(NewRouterConfig(e.conn, e.cfg, e.log), e.log)
	srv := &http.Server{
		Addr:         ":" + e.cfg.Server.Port,
		Handler:      app,
		ReadTimeout:  time.Duration(e.cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(e.cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(e.cfg.Server.IdleTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		e.log.Info("server starting", "port", e.cfg.Server.Port, "dev", e.cfg.App.Dev)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-quit:
		e.log.Info("shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	e.log.Info("server stopped gracefully")
	return nil
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := bootstrap()
			if err != nil {
				return err
			}
			if err := db.Migrate(e.conn, e.cfg.App.Migrations, e.cfg.Database.URL()); err != nil {
				return err
			}
			e.log.Info("migrations completed", "sql", e.cfg.App.Migrations)
			return nil
		},
	}
}

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load profiles, permissions, default categories and the system configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := bootstrap()
			if err != nil {
				return err
			}
			if err := db.Seed(e.conn); err != nil {
				return err
			}
			e.log.Info("seeding completed")
			return nil
		},
	}
}

func newCreateUserCommand() *cobra.Command {
	var email, name, password string
	var admin bool

	cmd := &cobra.Command{
		Use:   "createuser",
		Short: "Create a login, optionally with the admin profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := bootstrap()
			if err != nil {
				return err
			}
			if err := db.SeedProfiles(e.conn); err != nil {
				return err
			}
			profile := "contador"
			if admin {
				profile = "admin"
			}
			u, err := services.NewUserService(e.conn).Create(cmd.Context(), email, name, password, profile)
			if err != nil {
				return fmt.Errorf("creating user: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (id %d, profile %s)\n", u.Email, u.ID, profile)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "login email (required)")
	_ = cmd.MarkFlagRequired("email")
	cmd.Flags().StringVar(&password, "password", "", "initial password (required)")
	_ = cmd.MarkFlagRequired("password")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().BoolVar(&admin, "admin", false, "grant the admin profile instead of contador")

	return cmd
}
