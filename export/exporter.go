// Package export выгружает результаты пакетного поиска в CSV, Excel и JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/xuri/excelize/v2"

	"leiserver/batch"
	"leiserver/gleif"
)

// Format формат экспорта
type Format string

const (
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
	FormatExcel Format = "excel"
)

// Valid сообщает, известен ли формат.
func (f Format) Valid() bool {
	switch f {
	case FormatJSON, FormatCSV, FormatExcel:
		return true
	}
	return false
}

// Расширения файлов по формату.
var extensions = map[Format]string{
	FormatJSON:  ".json",
	FormatCSV:   ".csv",
	FormatExcel: ".xlsx",
}

// Базовые имена файлов результата по режиму поиска.
var baseNames = map[batch.Mode]string{
	batch.ModeLEI:           "lei_batch_results",
	batch.ModeNames:         "name_batch_results",
	batch.ModeValidationIDs: "id_batch_results",
}

// FileName возвращает имя файла результата для режима и формата,
// например lei_batch_results.csv.
func FileName(mode batch.Mode, format Format) string {
	base, ok := baseNames[mode]
	if !ok {
		base = "batch_results"
	}
	ext, ok := extensions[format]
	if !ok {
		ext = ".csv"
	}
	return base + ext
}

// Header возвращает порядок колонок для набора записей: фиксированный
// gleif.FieldOrder, с ведущей колонкой Search Query, если хотя бы одна
// запись ее несет.
func Header(records []gleif.FlatRecord) []string {
	withQuery := false
	for _, rec := range records {
		if rec.HasSearchQuery() {
			withQuery = true
			break
		}
	}

	header := make([]string, 0, len(gleif.FieldOrder)+1)
	if withQuery {
		header = append(header, gleif.FieldSearchQuery)
	}
	return append(header, gleif.FieldOrder...)
}

// row собирает строку значений в порядке header. Отсутствующее поле
// (включая Search Query у записей точечной выборки) выводится как Sentinel.
func row(rec gleif.FlatRecord, header []string) []string {
	out := make([]string, len(header))
	for i, field := range header {
		if v, ok := rec[field]; ok && v != "" {
			out[i] = v
		} else {
			out[i] = gleif.Sentinel
		}
	}
	return out
}

// WriteCSV пишет записи в CSV (UTF-8): строка заголовка плюс строка
// на запись, пропуски как литерал "N/A".
func WriteCSV(w io.Writer, records []gleif.FlatRecord) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := Header(records)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for _, rec := range records {
		if err := writer.Write(row(rec, header)); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteExcel пишет записи на лист Results книги xlsx.
func WriteExcel(w io.Writer, records []gleif.FlatRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Results"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	header := Header(records)
	for col, name := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to build cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, rec := range records {
		values := row(rec, header)
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("failed to build cell name: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WriteJSON пишет записи в JSON с метаданными выгрузки.
func WriteJSON(w io.Writer, records []gleif.FlatRecord) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	result := map[string]interface{}{
		"exported_at": time.Now().Format(time.RFC3339),
		"total":       len(records),
		"records":     records,
	}

	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// ExportToFile пишет записи в файл в заданном формате.
func ExportToFile(filename string, format Format, records []gleif.FlatRecord) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	switch format {
	case FormatCSV:
		return WriteCSV(file, records)
	case FormatExcel:
		return WriteExcel(file, records)
	case FormatJSON:
		return WriteJSON(file, records)
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}
