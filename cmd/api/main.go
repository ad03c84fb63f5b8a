package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"project-editor/backend/internal/config"
	"project-editor/backend/internal/database"
	"project-editor/backend/internal/filetree"
	"project-editor/backend/internal/handlers"
	"project-editor/backend/internal/logger"
	"project-editor/backend/internal/ws"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var envFile string

	cmd := &cobra.Command{
		Use:           "editor-api",
		Short:         "Serve the project editor file tree API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, envFile)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	bindFlags(v, cmd.Flags())
	return cmd
}

// bindFlags registers the flags that override environment keys. A flag
// only wins over the environment when it is set explicitly.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.String("port", "", "port to listen on (PORT)")
	flags.String("driver", "", "store backend: postgres, sqlite or neo4j (DATABASE_DRIVER)")
	flags.String("log-level", "", "log level (LOG_LEVEL)")
	flags.Bool("strict-parents", false, "reject unknown or non-folder parent ids (STRICT_PARENT_CHECK)")

	for key, name := range map[string]string{
		config.KeyPort:              "port",
		config.KeyDatabaseDriver:    "driver",
		config.KeyLogLevel:          "log-level",
		config.KeyStrictParentCheck: "strict-parents",
	} {
		// BindPFlag only fails on a nil flag.
		_ = v.BindPFlag(key, flags.Lookup(name))
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	if err := logger.Init(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat}); err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return errors.Wrap(err, "unable to connect to database")
	}
	defer store.Close()

	hub := ws.NewHub()
	go hub.Run()
	defer hub.Stop()

	files := filetree.NewService(store,
		filetree.WithStrictParents(cfg.StrictParentCheck),
		filetree.WithEventEmitter(hub.Publish),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handlers.NewRouter(handlers.New(files, hub, store), cfg.AllowedOrigins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logrus.WithFields(logrus.Fields{
			"port":   cfg.Port,
			"driver": cfg.Database.Driver,
		}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return errors.Wrap(err, "could not start server")
		}
		return nil
	case <-ctx.Done():
	}

	logrus.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "server forced to shutdown")
	}

	logrus.Info("Server exited")
	return nil
}
