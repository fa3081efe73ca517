// Command naryad imports workshop documents (work order ledgers, price
// lists, personnel rosters, product and contract registers) into a local
// SQLite database.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/artel-io/naryad/internal/common"
	"github.com/artel-io/naryad/internal/config"
)

var (
	cfgFile string
	version = "dev"
	rootCmd = &cobra.Command{
		Use:   "naryad",
		Short: "Импорт нарядов и справочников цеха в локальную базу",
		Long: `naryad читает таблицы из файлов разных форматов (xlsx, xls, ods, csv,
docx, odt, dbf, html, pdf и другие), распознаёт их вид и загружает в
локальную базу: наряды, расценки, работников, изделия и контракты.

Повторный импорт того же файла безопасен: записи сопоставляются по
естественным ключам и обновляются, а не дублируются.`,
		PersistentPreRunE: initConfig,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/naryad/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().String("db", "", "path to the database file")

	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("database.path", rootCmd.PersistentFlags().Lookup("db"))

	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("received interrupt signal, shutting down")
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		viper.AddConfigPath(filepath.Join(home, ".config", "naryad"))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("NARYAD")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// No config file is fine, defaults apply.
	}

	if err := common.SetupLogger(
		viper.GetString("logging.level"),
		viper.GetString("logging.format"),
	); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	return nil
}

// loadConfig materializes the pipeline configuration from defaults
// overlaid with whatever viper picked up from file, env and flags.
func loadConfig() config.Config {
	cfg := config.Default()
	if v := viper.GetString("database.path"); v != "" {
		cfg.DBPath = v
	}
	if v := viper.GetString("backup.dir"); v != "" {
		cfg.BackupDir = v
	}
	if v := viper.GetString("report.dir"); v != "" {
		cfg.ReportDir = v
	}
	if v := viper.GetInt("report.max_rows"); v > 0 {
		cfg.MaxReportRows = v
	}
	cfg.LogLevel = viper.GetString("logging.level")
	cfg.LogFormat = viper.GetString("logging.format")
	return cfg
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("naryad version %s\n", version)
		},
	}
}
