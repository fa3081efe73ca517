package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/artel-io/naryad/internal/common"
	"github.com/artel-io/naryad/internal/storage"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Привести схему базы к актуальной версии",
		Long: `Создаёт базу при первом запуске и применяет накопившиеся миграции
схемы. Команда import делает это автоматически; migrate нужна, чтобы
обновить схему заранее или проверить её состояние.`,
		RunE: runMigrate,
	}

	cmd.Flags().Bool("status", false, "показать версию схемы без применения миграций")

	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := loadConfig()
	statusOnly, _ := cmd.Flags().GetBool("status")

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		return common.NewUserError("не удалось открыть базу данных", err)
	}
	defer func() { _ = store.Close() }()

	if statusOnly {
		current, err := store.SchemaVersion(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("схема: версия %d из %d (%s)\n", current, storage.LatestVersion(), cfg.DBPath)
		return nil
	}

	if err := store.Migrate(ctx); err != nil {
		return common.NewUserError("не удалось применить миграции", err)
	}
	slog.Info("schema is up to date", "version", storage.LatestVersion(), "database", cfg.DBPath)
	return nil
}
