package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/artel-io/naryad/internal/cli"
	"github.com/artel-io/naryad/internal/common"
	"github.com/artel-io/naryad/internal/importer"
	"github.com/artel-io/naryad/internal/model"
	"github.com/artel-io/naryad/internal/reader"
	"github.com/artel-io/naryad/internal/storage"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <файл>",
		Short: "Импортировать таблицы из документа",
		Long: `Читает документ, распознаёт содержащиеся в нём таблицы и загружает
их в базу. С флагом --dry-run вместо записи формируется HTML-отчёт
о том, что было бы импортировано.

Поддерживаемые форматы: ` + strings.Join(reader.Extensions(), ", ") + `.
Файлы с неизвестным расширением читаются как текст с разделителями.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().Bool("dry-run", false, "построить отчёт-предпросмотр без записи в базу")
	cmd.Flags().String("preset", "auto", "вид импортируемых таблиц (auto, price, orders, refs)")
	cmd.Flags().Bool("backup", true, "сделать резервную копию базы перед записью")

	_ = viper.BindPFlag("import.dry_run", cmd.Flags().Lookup("dry-run"))
	_ = viper.BindPFlag("import.preset", cmd.Flags().Lookup("preset"))
	_ = viper.BindPFlag("import.backup", cmd.Flags().Lookup("backup"))

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := loadConfig()

	preset, err := parsePreset(viper.GetString("import.preset"))
	if err != nil {
		return common.NewUserError("неизвестный пресет импорта", err)
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		return common.NewUserError("не удалось открыть базу данных", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(ctx); err != nil {
		return common.NewUserError("не удалось обновить схему базы", err)
	}

	var bar *progressbar.ProgressBar
	opts := importer.Options{
		DryRun:       viper.GetBool("import.dry_run"),
		BackupBefore: !viper.GetBool("import.dry_run") && viper.GetBool("import.backup"),
		Preset:       preset,
		Progress: func(step, total int, note string) {
			if bar == nil {
				bar = progressbar.NewOptions(total,
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionShowCount(),
					progressbar.OptionSetWidth(40),
					progressbar.OptionSetDescription("Разбор таблиц"),
					progressbar.OptionOnCompletion(func() {
						fmt.Fprintln(os.Stderr)
					}),
				)
			}
			bar.Describe(note)
			_ = bar.Add(1)
		},
	}

	res, err := importer.New(store, cfg).Run(ctx, args[0], opts)
	if err != nil {
		return common.NewUserError("импорт не выполнен", err)
	}

	fmt.Print(cli.RenderResult(res))
	return nil
}

func parsePreset(s string) (model.Preset, error) {
	switch p := model.Preset(s); p {
	case model.PresetAuto, model.PresetPrice, model.PresetOrders, model.PresetRefs:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", common.ErrInvalidPreset, s)
}
