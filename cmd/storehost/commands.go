package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	route "github.com/ziyyanmart/localstore/internal/api/route"
	appctx "github.com/ziyyanmart/localstore/internal/app"
	"github.com/ziyyanmart/localstore/internal/config"
	"github.com/ziyyanmart/localstore/internal/logger"
	"github.com/ziyyanmart/localstore/internal/paths"
	"github.com/ziyyanmart/localstore/internal/platform"
	"github.com/ziyyanmart/localstore/internal/repository"
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "storehost",
		Short:         "Local JSON document store for the Ziyyan Mart desktop app",
		Long:          "storehost keeps the settings and database documents in the per-user application-data directory and serves them to the desktop UI over a loopback HTTP bridge.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newPathsCommand())
	rootCmd.AddCommand(newVersionCommand())
	return rootCmd
}

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the UI bridge server",
		RunE: func(cmd *cobra.Command, args []string) error {
			confDir, _ := cmd.Flags().GetString("config")
			return runServer(confDir)
		},
	}
	cmd.Flags().String("config", ".", "Directory holding config.yaml and .env")
	return cmd
}

func newPathsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Print where the documents are stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			confDir, _ := cmd.Flags().GetString("config")
			cfg, err := loadConfig(confDir)
			if err != nil {
				return err
			}

			// no dialogs are shown, so a prompter that always declines is enough
			env, err := platform.NewEnvironmentFromConfig(cfg, declinePrompter{})
			if err != nil {
				return err
			}
			resolver, err := paths.NewResolver(env)
			if err != nil {
				return err
			}

			dir, err := resolver.Dir()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "dir\t%s\n", dir)
			for _, slot := range repository.Slots() {
				p, err := resolver.Resolve(slot.FileName())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", slot, p)
			}
			return nil
		},
	}
	cmd.Flags().String("config", ".", "Directory holding config.yaml and .env")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the storehost version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "storehost %s\n", version)
		},
	}
}

func loadConfig(confDir string) (*config.Config, error) {
	cfg, err := config.LoadConfig(confDir)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	if err := logger.Configure(cfg.Misc.LogLevel, cfg.Misc.LogFormat); err != nil {
		logger.WithComponent("main").Warnf("%v, using defaults", err)
	}
	return cfg, nil
}

func runServer(confDir string) error {
	log := logger.WithComponent("main")

	cfg, err := loadConfig(confDir)
	if err != nil {
		return err
	}

	app, err := appctx.New(cfg)
	if err != nil {
		return fmt.Errorf("cannot init app: %w", err)
	}
	defer app.Shutdown()

	if dir, err := app.Repo.Dir(); err != nil {
		log.Warnf("application-data directory is unavailable: %v", err)
	} else {
		log.Infof("documents are stored in %s", dir)
	}

	if err := app.StartWatchers(); err != nil {
		log.Warnf("cannot start data directory watcher: %v", err)
	}

	gin.SetMode(cfg.Misc.GinMode)
	gin.DefaultWriter = logger.Logger.Writer()
	gin.DefaultErrorWriter = logger.Logger.Writer()

	r := route.SetupRoutes(app)
	srv := createGraceHttpServer(app, r)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Infof("UI bridge listening on %s", addr)
	if err := srv.ListenAndServe(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
