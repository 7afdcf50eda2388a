package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/catalog"
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/config"
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/database"
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/logging"
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/repository"
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/services"
	"github.com/spf13/cobra"
)

var (
	catalogPath string
	skipSeed    bool

	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "bjj-tracker",
		Short: "BJJ technique progress tracker API",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg = config.Load()
			logging.Setup(cfg.LogLevel)
			if catalogPath != "" {
				cfg.CatalogPath = catalogPath
			}
			if cfg.DBPassword == "" {
				return errors.New("DB_PASSWORD environment variable is required")
			}
			return nil
		},
		SilenceUsage: true,
		RunE:         runServe,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Migrate, seed the catalog if empty and start the HTTP server",
		RunE:  runServe,
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE:  runMigrate,
	}

	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Seed the technique catalog if it is empty",
		RunE:  runSeed,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "YAML catalog file (overrides CATALOG_PATH)")
	rootCmd.Flags().BoolVar(&skipSeed, "skip-seed", false, "do not seed the catalog on startup")
	serveCmd.Flags().BoolVar(&skipSeed, "skip-seed", false, "do not seed the catalog on startup")

	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

func connectAndMigrate() error {
	if err := database.Connect(cfg); err != nil {
		return err
	}
	if err := database.Migrate(database.DB); err != nil {
		return err
	}
	slog.Info("database migrated")
	return nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	defer database.Close()
	return connectAndMigrate()
}

func runSeed(cmd *cobra.Command, args []string) error {
	defer database.Close()
	if err := connectAndMigrate(); err != nil {
		return err
	}

	defs, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	catalogCache := newCatalogCache()
	defer closeCatalogCache(catalogCache)

	svc := services.NewCatalogService(repository.NewTechniqueRepository(database.DB), catalogCache, defs)
	resp, err := svc.Seed(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
	return nil
}
