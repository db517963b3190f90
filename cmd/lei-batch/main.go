// lei-batch консольный драйвер пакетного поиска LEI: читает список из
// CSV, прогоняет пакет против реестра GLEIF и пишет результат в файл.
//
// Usage: lei-batch -mode lei|name|id -in input.csv [-out file] [-format csv|excel|json]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"leiserver/batch"
	"leiserver/export"
	"leiserver/gleif"
	"leiserver/importer"
	"leiserver/internal/config"
)

func main() {
	var (
		modeFlag   = flag.String("mode", "lei", "режим поиска: lei, name или id")
		inFlag     = flag.String("in", "", "входной CSV (значения в первой колонке)")
		outFlag    = flag.String("out", "", "файл результата (по умолчанию имя режима)")
		formatFlag = flag.String("format", "csv", "формат результата: csv, excel или json")
	)
	flag.Parse()

	mode := batch.Mode(*modeFlag)
	if !mode.Valid() {
		log.Fatalf("Неизвестный режим: %s", *modeFlag)
	}
	format := export.Format(*formatFlag)
	if !format.Valid() {
		log.Fatalf("Неизвестный формат: %s", *formatFlag)
	}
	if *inFlag == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	file, err := os.Open(*inFlag)
	if err != nil {
		log.Fatalf("Не удалось открыть входной файл: %v", err)
	}
	values, err := importer.ReadFirstColumn(file)
	file.Close()
	if err != nil {
		log.Fatalf("Ошибка разбора входного файла: %v", err)
	}

	filtered := filterForMode(mode, values)
	fmt.Printf("Пригодных значений во входном файле: %d из %d\n", len(filtered), len(values))
	if len(filtered) == 0 {
		log.Fatal("Нет пригодных значений для поиска")
	}

	client := gleif.NewClient(gleif.ClientConfig{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
	})

	orchestrator := batch.NewOrchestrator(client, batch.Config{
		PageSize:          cfg.PageSize,
		RequestsPerMinute: cfg.RequestsPerMinute,
		Pause:             cfg.Pause,
		SubstringTokens:   cfg.SubstringTokens,
		Logger:            slog.Default().With("component", "lei_batch_cli"),
		Progress: func(index, total int, label string) {
			fmt.Printf("Обработка %d/%d: %s\n", index+1, total, label)
		},
	})

	// Ctrl+C прерывает пакет между элементами; накопленные записи
	// все равно выгружаются.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var result *batch.Result
	switch mode {
	case batch.ModeLEI:
		result = orchestrator.FetchByIDs(ctx, filtered)
	case batch.ModeNames:
		result = orchestrator.SearchByNames(ctx, filtered)
	case batch.ModeValidationIDs:
		result = orchestrator.SearchByValidationIDs(ctx, filtered)
	}

	for _, d := range result.Diagnostics {
		fmt.Printf("  [%s] %s: %s\n", d.Severity, d.Query, d.Message)
	}

	out := *outFlag
	if out == "" {
		out = export.FileName(mode, format)
	}
	if err := export.ExportToFile(out, format, result.Records); err != nil {
		log.Fatalf("Ошибка выгрузки результата: %v", err)
	}

	fmt.Printf("Найдено уникальных записей: %d. Результат: %s\n", len(result.Records), out)
}

func filterForMode(mode batch.Mode, values []string) []string {
	switch mode {
	case batch.ModeLEI:
		return importer.FilterLEIs(values)
	case batch.ModeNames:
		return importer.FilterNames(values)
	default:
		return importer.FilterValidationIDs(values)
	}
}
