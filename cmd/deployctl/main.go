// cmd/deployctl/main.go
package main

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/suiteterritoriale/deploycenter/internal/config"
	"github.com/suiteterritoriale/deploycenter/internal/model"
	"github.com/suiteterritoriale/deploycenter/internal/repository"
	"github.com/suiteterritoriale/deploycenter/internal/service"
)

var (
	forceUpdate bool
	verbose     bool
)

func init() {
	importCmd.Flags().BoolVar(&forceUpdate, "force-update", false, "Update existing organizations from the dataset")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(autojoinCmd)
	rootCmd.AddCommand(versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "deployctl",
	Short: "deployctl runs deploycenter maintenance tasks",
	Long:  `deployctl runs the organization dataset import and the auto-join onboarder against the deploycenter database.`,
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import an organization dataset and run auto-join",
	Long:  `Import a JSON (optionally gzipped) organization dataset, then run the auto-join onboarder over the result.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		records, err := loadDataset(args[0])
		if err != nil {
			log.Fatalf("Failed to load dataset: %v", err)
		}

		db := mustOpenDatabase()
		importer := buildImporter(db)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		stats, err := importer.Import(ctx, records, forceUpdate)
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}

		fmt.Printf("Processed %d organizations (%d created, %d updated, %d errors)\n",
			stats.TotalProcessed, stats.Created, stats.Updated, stats.Errors)
		fmt.Printf("Auto-join: %d operator organization roles, %d service subscriptions\n",
			stats.AutoJoin.OperatorOrganizationRolesCreated,
			stats.AutoJoin.ServiceSubscriptionsCreated)

		if verbose {
			for _, detail := range stats.ErrorsDetails {
				fmt.Println("  - " + detail)
			}
		}
	},
}

var autojoinCmd = &cobra.Command{
	Use:   "autojoin",
	Short: "Run the auto-join onboarder alone",
	Long:  `Run one pass of the auto-join onboarder without importing a dataset. Safe to re-run: existing rows are left untouched.`,
	Run: func(cmd *cobra.Command, args []string) {
		db := mustOpenDatabase()
		onboarder := buildOnboarder(db)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		stats, err := onboarder.Run(ctx)
		if err != nil {
			log.Fatalf("Auto-join failed: %v", err)
		}

		fmt.Printf("Created %d operator organization roles and %d service subscriptions\n",
			stats.OperatorOrganizationRolesCreated,
			stats.ServiceSubscriptionsCreated)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the deployctl version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("deployctl v1.0.0")
	},
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadDataset(path string) ([]service.OrganizationRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("reading gzip dataset: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	var records []service.OrganizationRecord
	if err := json.NewDecoder(reader).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding dataset: %w", err)
	}
	return records, nil
}

func buildOnboarder(db *gorm.DB) *service.AutoJoinOnboarder {
	return service.NewAutoJoinOnboarder(
		repository.NewOperatorRepository(db),
		repository.NewOrganizationRepository(db),
		repository.NewSubscriptionRepository(db),
		slog.Default(),
	)
}

func buildImporter(db *gorm.DB) *service.OrganizationImporter {
	return service.NewOrganizationImporter(
		repository.NewOrganizationRepository(db),
		buildOnboarder(db),
		slog.Default(),
	)
}

func mustOpenDatabase() *gorm.DB {
	cfg := config.Load()

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.SSLMode,
		cfg.Database.SearchPath,
	)

	logLevel := logger.Warn
	if verbose {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := model.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate schema: %v", err)
	}

	return db
}
